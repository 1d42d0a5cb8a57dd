// Package auth loads service account credentials for the Google APIs.
package auth

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// Scopes are the OAuth scopes the dashboard needs.
var Scopes = []string{
	"https://www.googleapis.com/auth/analytics.readonly",
	"https://www.googleapis.com/auth/webmasters.readonly",
	"https://www.googleapis.com/auth/spreadsheets",
}

// ClientOption reads the service account key at path and returns the
// client option shared by every Google API client.
func ClientOption(ctx context.Context, path string) (option.ClientOption, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	return option.WithCredentials(creds), nil
}
