package sheetsync

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestCreateChartsSkipsMissingSheets(t *testing.T) {
	a, s := newFakes(t)
	wb, engine := newWorkbook(t)
	ctx := context.Background()

	names := DefaultSheetNames()
	if _, err := engine.SyncTable(ctx, names.DailyPV, a.daily, DailyPVLabels); err != nil {
		t.Fatalf("SyncTable failed: %v", err)
	}
	if _, err := engine.SyncTable(ctx, names.SearchQueries, s.queries, SearchQueryLabels); err != nil {
		t.Fatalf("SyncTable failed: %v", err)
	}

	n, err := CreateCharts(ctx, wb, names, zerolog.Nop())
	if err != nil {
		t.Fatalf("CreateCharts failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 charts, got %d", n)
	}
}
