package merge

import (
	"errors"
	"testing"
	"time"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

func day(d int) models.Value {
	return models.Date(time.Date(2025, 10, d, 0, 0, 0, 0, time.UTC))
}

func analyticsTable(t *testing.T, days ...int) *models.Table {
	t.Helper()
	tbl := models.NewTable("date", "screenPageViews", "sessions")
	for _, d := range days {
		if err := tbl.Append(models.Row{"date": day(d), "screenPageViews": models.Int(int64(d * 10)), "sessions": models.Int(int64(d))}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return tbl
}

func searchTable(t *testing.T, days ...int) *models.Table {
	t.Helper()
	tbl := models.NewTable("date", "clicks")
	for _, d := range days {
		if err := tbl.Append(models.Row{"date": day(d), "clicks": models.Int(int64(d + 100))}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return tbl
}

func TestOuterKeepsUnionOfKeys(t *testing.T) {
	left := analyticsTable(t, 3, 1, 2)
	right := searchTable(t, 2, 4)

	merged, err := Outer(left, right, "date")
	if err != nil {
		t.Fatalf("Outer failed: %v", err)
	}

	if merged.Len() < left.Len() || merged.Len() < right.Len() {
		t.Errorf("merged has %d rows, fewer than an input", merged.Len())
	}

	want := []string{"2025-10-01", "2025-10-02", "2025-10-03", "2025-10-04"}
	keys := merged.Column("date")
	if len(keys) != len(want) {
		t.Fatalf("Expected %d keys, got %d", len(want), len(keys))
	}
	for i, k := range keys {
		if k.Text() != want[i] {
			t.Errorf("key[%d] = %s, expected %s", i, k.Text(), want[i])
		}
	}

	// Every row carries every column.
	for i, r := range merged.Rows {
		for _, c := range merged.Columns {
			if _, ok := r[c]; !ok {
				t.Errorf("row %d is missing column %q", i, c)
			}
		}
	}

	// 2025-10-01 exists only on the left.
	if !merged.Rows[0]["clicks"].IsEmpty() {
		t.Errorf("Expected empty clicks for left-only row, got %v", merged.Rows[0]["clicks"].Cell())
	}
	// 2025-10-04 exists only on the right.
	if !merged.Rows[3]["sessions"].IsEmpty() {
		t.Errorf("Expected empty sessions for right-only row, got %v", merged.Rows[3]["sessions"].Cell())
	}
	if merged.Rows[1]["clicks"].Int() != 102 || merged.Rows[1]["screenPageViews"].Int() != 20 {
		t.Errorf("Unexpected joined row: %v", merged.Rows[1])
	}
}

func TestOuterDuplicateKeysAppearOnce(t *testing.T) {
	left := analyticsTable(t, 1, 1, 2)
	right := searchTable(t, 2, 2)

	merged, err := Outer(left, right, "date")
	if err != nil {
		t.Fatalf("Outer failed: %v", err)
	}
	counts := map[string]int{}
	for _, k := range merged.Column("date") {
		counts[k.Text()]++
	}
	for k, n := range counts {
		if n != 1 {
			t.Errorf("key %s appears %d times", k, n)
		}
	}
}

func TestOuterOneSideEmpty(t *testing.T) {
	left := analyticsTable(t, 1, 2)
	right := searchTable(t)

	merged, err := Outer(left, right, "date")
	if err != nil {
		t.Fatalf("Outer failed: %v", err)
	}
	if merged.Len() != left.Len() {
		t.Fatalf("Expected %d rows, got %d", left.Len(), merged.Len())
	}
	for i, r := range merged.Rows {
		for _, c := range left.Columns {
			if !r[c].Equal(left.Rows[i][c]) {
				t.Errorf("row %d column %s = %v, expected %v", i, c, r[c].Cell(), left.Rows[i][c].Cell())
			}
		}
		if !r["clicks"].IsEmpty() {
			t.Errorf("row %d: expected null-filled clicks", i)
		}
	}

	swapped, err := Outer(right, left, "date")
	if err != nil {
		t.Fatalf("Outer failed: %v", err)
	}
	if swapped.Len() != left.Len() {
		t.Errorf("Expected %d rows with empty left side, got %d", left.Len(), swapped.Len())
	}
}

func TestOuterBothEmpty(t *testing.T) {
	merged, err := Outer(analyticsTable(t), searchTable(t), "date")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("Expected ErrNoData, got %v", err)
	}
	if merged == nil || !merged.IsEmpty() {
		t.Errorf("Expected an empty table alongside ErrNoData")
	}
}

func TestOuterColumnConflict(t *testing.T) {
	left := analyticsTable(t, 1)
	right := models.NewTable("date", "sessions")
	if _, err := Outer(left, right, "date"); !errors.Is(err, ErrColumnConflict) {
		t.Errorf("Expected ErrColumnConflict, got %v", err)
	}
}
