package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

// Coercion converts a raw vendor string into its semantic type.
type Coercion func(raw string) (models.Value, error)

// AsInt parses an integer metric. Vendors sometimes send integral floats
// ("12.0"), which are accepted.
func AsInt(raw string) (models.Value, error) {
	raw = strings.TrimSpace(raw)
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return models.Int(i), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return models.Empty(), fmt.Errorf("parse int %q: %w", raw, err)
	}
	return models.Int(int64(math.Round(f))), nil
}

// AsFloat parses a float metric rounded to digits decimal places.
func AsFloat(digits int) Coercion {
	return func(raw string) (models.Value, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return models.Empty(), fmt.Errorf("parse float %q: %w", raw, err)
		}
		return models.Float(Round(f, digits)), nil
	}
}

// AsPercent parses a ratio and scales it to a percentage rounded to digits.
func AsPercent(digits int) Coercion {
	return func(raw string) (models.Value, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return models.Empty(), fmt.Errorf("parse ratio %q: %w", raw, err)
		}
		return models.Float(Round(f*100, digits)), nil
	}
}

// AsDate parses a date in the given layout.
func AsDate(layout string) Coercion {
	return func(raw string) (models.Value, error) {
		t, err := time.Parse(layout, strings.TrimSpace(raw))
		if err != nil {
			return models.Empty(), fmt.Errorf("parse date %q: %w", raw, err)
		}
		return models.Date(t), nil
	}
}

// AsString keeps the raw text.
func AsString(raw string) (models.Value, error) {
	return models.String(raw), nil
}

// Round rounds f half away from zero to digits decimal places.
func Round(f float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(f*p) / p
}

// parseValue guesses the type of an untyped vendor string: int64 for
// integers, float64 for decimals, the input string otherwise.
func parseValue(s string) models.Value {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return models.Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return models.Float(f)
	}
	if s == "" {
		return models.Empty()
	}
	return models.String(s)
}

// rawTable builds a table from parallel raw rows. Columns without a
// coercion are typed by parseValue, except dimensions which stay strings.
func rawTable(dims, metrics []string, rows [][]string, coerce map[string]Coercion) (*models.Table, error) {
	columns := append(append([]string(nil), dims...), metrics...)
	isDim := make(map[string]bool, len(dims))
	for _, d := range dims {
		isDim[d] = true
	}

	tbl := models.NewTable(columns...)
	for n, raw := range rows {
		if len(raw) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", n, len(raw), len(columns))
		}
		row := make(models.Row, len(columns))
		for i, c := range columns {
			var v models.Value
			var err error
			switch {
			case coerce[c] != nil:
				v, err = coerce[c](raw[i])
			case isDim[c]:
				v = models.String(raw[i])
			default:
				v = parseValue(raw[i])
			}
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", n, c, err)
			}
			row[c] = v
		}
		if err := tbl.Append(row); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}
