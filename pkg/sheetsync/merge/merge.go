// Package merge joins report tables from independent sources.
package merge

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

// ErrNoData indicates that both inputs of a merge were empty.
var ErrNoData = errors.New("no data to merge")

// ErrColumnConflict indicates a non-key column present on both sides.
var ErrColumnConflict = errors.New("column present on both sides")

// Outer performs a full outer join of left and right on column on.
//
// The result holds the key column, then left's other columns, then right's.
// Every key value found on either side appears exactly once; when a side
// repeats a key its first row wins. Cells a side cannot provide are Empty.
// Rows are ordered ascending by key.
//
// When both inputs are empty the result is an empty table with the joined
// schema and ErrNoData.
func Outer(left, right *models.Table, on string) (*models.Table, error) {
	if !left.HasColumn(on) || !right.HasColumn(on) {
		return nil, fmt.Errorf("join column %q missing from input", on)
	}

	leftCols := metricColumns(left, on)
	rightCols := metricColumns(right, on)
	seen := make(map[string]bool, len(leftCols))
	for _, c := range leftCols {
		seen[c] = true
	}
	for _, c := range rightCols {
		if seen[c] {
			return nil, fmt.Errorf("%w: %q", ErrColumnConflict, c)
		}
	}

	columns := append([]string{on}, leftCols...)
	columns = append(columns, rightCols...)
	out := models.NewTable(columns...)

	if left.IsEmpty() && right.IsEmpty() {
		return out, ErrNoData
	}

	type joined struct {
		key   models.Value
		left  models.Row
		right models.Row
	}
	index := make(map[string]*joined)
	var order []*joined

	add := func(t *models.Table, isLeft bool) {
		for _, r := range t.Rows {
			k := r[on]
			id := keyOf(k)
			j, ok := index[id]
			if !ok {
				j = &joined{key: k}
				index[id] = j
				order = append(order, j)
			}
			if isLeft && j.left == nil {
				j.left = r
			} else if !isLeft && j.right == nil {
				j.right = r
			}
		}
	}
	add(left, true)
	add(right, false)

	sort.SliceStable(order, func(a, b int) bool {
		return order[a].key.Compare(order[b].key) < 0
	})

	for _, j := range order {
		row := models.Row{on: j.key}
		fill(row, j.left, leftCols)
		fill(row, j.right, rightCols)
		if err := out.Append(row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func metricColumns(t *models.Table, on string) []string {
	var cols []string
	for _, c := range t.Columns {
		if c != on {
			cols = append(cols, c)
		}
	}
	return cols
}

func fill(dst, src models.Row, cols []string) {
	for _, c := range cols {
		if src == nil {
			dst[c] = models.Empty()
			continue
		}
		dst[c] = src[c]
	}
}

// keyOf identifies a join key across value kinds that render identically,
// so a date parsed from two vendor formats still matches.
func keyOf(v models.Value) string {
	return v.Text()
}
