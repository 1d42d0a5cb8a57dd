package source

import (
	"context"
	"fmt"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

// Query describes one report request against a reporting API.
type Query struct {
	// Name labels the report in logs and errors.
	Name string
	// Dimensions are the grouping fields, in output column order.
	Dimensions []string
	// Metrics are the measured fields, after the dimensions.
	Metrics []string
	// Window is the inclusive date range.
	Window DateWindow
	// Limit bounds the number of returned rows.
	Limit int
	// Filters restrict dimension values (Search Console only).
	Filters []Filter
	// Coerce types individual columns; dimensions default to strings.
	Coerce map[string]Coercion
}

// Filter is a dimension filter expression.
type Filter struct {
	Dimension  string
	Operator   string // equals, contains, notContains, ...
	Expression string
}

// MetricsSource fetches a dimensioned metric report as a table.
type MetricsSource interface {
	Fetch(ctx context.Context, q Query) (*models.Table, error)
}

var (
	_ MetricsSource = (*Analytics)(nil)
	_ MetricsSource = (*Search)(nil)
)

func (q Query) validate() error {
	if err := q.Window.Validate(); err != nil {
		return err
	}
	if q.Limit <= 0 {
		return fmt.Errorf("query %q: limit must be positive, got %d", q.Name, q.Limit)
	}
	if len(q.Dimensions) == 0 {
		return fmt.Errorf("query %q: at least one dimension is required", q.Name)
	}
	return nil
}
