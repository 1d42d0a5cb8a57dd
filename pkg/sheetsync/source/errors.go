package source

import "fmt"

// HTTPError is a non-200 response from a REST endpoint.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("GET %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

// QueryError wraps a failed reporting API call with the report it served.
type QueryError struct {
	Source string // "analytics" or "search"
	Report string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query %q failed: %v", e.Source, e.Report, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
