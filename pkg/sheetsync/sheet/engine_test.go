package sheet

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

// memBook is an in-memory Spreadsheet that stores displayed text.
type memBook struct {
	ids     map[string]int64
	data    map[string][][]string
	ops     []string
	charts  []models.ChartRequest
	readErr error
}

func newMemBook() *memBook {
	return &memBook{ids: map[string]int64{"Sheet1": 0}, data: map[string][][]string{}}
}

func (m *memBook) Sheets(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(m.ids))
	for k, v := range m.ids {
		out[k] = v
	}
	return out, nil
}

func (m *memBook) AddSheet(ctx context.Context, title string, rows, cols int) (int64, error) {
	m.ops = append(m.ops, "add:"+title)
	id := int64(len(m.ids)) * 100
	m.ids[title] = id
	return id, nil
}

func (m *memBook) Read(ctx context.Context, sheet string) ([][]string, error) {
	m.ops = append(m.ops, "read:"+sheet)
	if m.readErr != nil {
		return nil, m.readErr
	}
	var out [][]string
	for _, r := range m.data[sheet] {
		out = append(out, append([]string(nil), r...))
	}
	return out, nil
}

func (m *memBook) Clear(ctx context.Context, sheet string) error {
	m.ops = append(m.ops, "clear:"+sheet)
	delete(m.data, sheet)
	return nil
}

func (m *memBook) Write(ctx context.Context, sheet string, rows [][]interface{}) error {
	m.ops = append(m.ops, "write:"+sheet)
	var out [][]string
	for _, r := range rows {
		row := make([]string, len(r))
		for i, v := range r {
			row[i] = fmt.Sprint(v)
		}
		out = append(out, row)
	}
	m.data[sheet] = out
	return nil
}

func (m *memBook) AddCharts(ctx context.Context, reqs []models.ChartRequest) error {
	m.charts = append(m.charts, reqs...)
	return nil
}

func dailyTable(t *testing.T) *models.Table {
	t.Helper()
	tbl := models.NewTable("date", "views")
	for i, v := range []int64{10, 20, 30} {
		r := models.Row{
			"date":  models.Date(time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC)),
			"views": models.Int(v),
		}
		if err := tbl.Append(r); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return tbl
}

func TestSyncTableWritesHeaderAndRows(t *testing.T) {
	book := newMemBook()
	e := NewEngine(book, zerolog.Nop())
	ctx := context.Background()

	if _, err := e.SyncTable(ctx, "daily", dailyTable(t), []string{"日付", "PV数"}); err != nil {
		t.Fatalf("SyncTable failed: %v", err)
	}
	first := book.data["daily"]

	want := [][]string{
		{"日付", "PV数"},
		{"2024-01-01", "10"},
		{"2024-01-02", "20"},
		{"2024-01-03", "30"},
	}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("Unexpected sheet contents:\n got %v\nwant %v", first, want)
	}
	if book.ops[0] != "add:daily" {
		t.Errorf("Expected the sheet to be created first, got ops %v", book.ops)
	}

	if _, err := e.SyncTable(ctx, "daily", dailyTable(t), []string{"日付", "PV数"}); err != nil {
		t.Fatalf("second SyncTable failed: %v", err)
	}
	if !reflect.DeepEqual(book.data["daily"], first) {
		t.Errorf("Sync is not idempotent: %v", book.data["daily"])
	}
}

func TestSyncTableEmptyWritesPlaceholder(t *testing.T) {
	book := newMemBook()
	book.ids["daily"] = 7
	book.data["daily"] = [][]string{{"old", "data"}, {"1", "2"}}
	e := NewEngine(book, zerolog.Nop())

	if _, err := e.SyncTable(context.Background(), "daily", models.NewTable("date", "views"), nil); err != nil {
		t.Fatalf("SyncTable failed: %v", err)
	}
	got := book.data["daily"]
	if len(got) != 1 || len(got[0]) != 1 || got[0][0] != Placeholder {
		t.Errorf("Expected exactly one placeholder row, got %v", got)
	}
}

func TestSyncTableLabelMismatch(t *testing.T) {
	book := newMemBook()
	book.data["Sheet1"] = [][]string{{"keep"}}
	e := NewEngine(book, zerolog.Nop())

	_, err := e.SyncTable(context.Background(), "Sheet1", dailyTable(t), []string{"only one"})
	if !errors.Is(err, ErrLabelCount) {
		t.Fatalf("Expected ErrLabelCount, got %v", err)
	}
	var se *SyncError
	if !errors.As(err, &se) || se.Sheet != "Sheet1" {
		t.Errorf("Expected *SyncError for Sheet1, got %v", err)
	}
	if book.data["Sheet1"][0][0] != "keep" {
		t.Error("Sheet was modified despite the error")
	}
}

func articleTable(t *testing.T, ids ...int64) *models.Table {
	t.Helper()
	tbl := models.NewTable("ID", "タイトル", "メモ")
	for _, id := range ids {
		r := models.Row{
			"ID":   models.Int(id),
			"タイトル": models.String(fmt.Sprintf("post %d", id)),
			"メモ":   models.Empty(),
		}
		if err := tbl.Append(r); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return tbl
}

func TestSyncWithPreservedColumnsKeepsEditsByKey(t *testing.T) {
	book := newMemBook()
	book.ids["articles"] = 3
	book.data["articles"] = [][]string{
		{"メモ", "ID", "タイトル"},
		{"note 2", "2", "old title"},
		{"note 1", "1", "old title"},
		{"note 3", "3", "deleted post"},
		{"orphan", "", ""},
		{"duplicate", "2", "again"},
	}
	e := NewEngine(book, zerolog.Nop())
	p := Preserve{Key: "ID", Columns: []string{"メモ"}, OrderBy: "ID"}

	if _, err := e.SyncWithPreservedColumns(context.Background(), "articles", articleTable(t, 4, 2, 1), p); err != nil {
		t.Fatalf("SyncWithPreservedColumns failed: %v", err)
	}

	want := [][]string{
		{"ID", "タイトル", "メモ"},
		{"1", "post 1", "note 1"},
		{"2", "post 2", "note 2"},
		{"4", "post 4", ""},
	}
	got := book.data["articles"]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unexpected sheet contents:\n got %v\nwant %v", got, want)
	}

	if book.ops[0] != "read:articles" || book.ops[1] != "clear:articles" {
		t.Errorf("Expected read before clear, got ops %v", book.ops)
	}

	if _, err := e.SyncWithPreservedColumns(context.Background(), "articles", articleTable(t, 4, 2, 1), p); err != nil {
		t.Fatalf("second sync failed: %v", err)
	}
	if !reflect.DeepEqual(book.data["articles"], want) {
		t.Errorf("Second sync changed the sheet: %v", book.data["articles"])
	}
}

func TestSyncWithPreservedColumnsAddsMissingColumns(t *testing.T) {
	book := newMemBook()
	book.ids["articles"] = 3
	book.data["articles"] = [][]string{
		{"ID", "リンク"},
		{"1", "https://example.com/"},
	}
	e := NewEngine(book, zerolog.Nop())

	tbl := models.NewTable("ID")
	if err := tbl.Append(models.Row{"ID": models.Int(1)}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	p := Preserve{Key: "ID", Columns: []string{"リンク"}}
	if _, err := e.SyncWithPreservedColumns(context.Background(), "articles", tbl, p); err != nil {
		t.Fatalf("SyncWithPreservedColumns failed: %v", err)
	}
	want := [][]string{{"ID", "リンク"}, {"1", "https://example.com/"}}
	if !reflect.DeepEqual(book.data["articles"], want) {
		t.Errorf("Unexpected sheet contents %v", book.data["articles"])
	}
}

func TestSyncWithPreservedColumnsReadFailure(t *testing.T) {
	book := newMemBook()
	book.ids["articles"] = 3
	book.data["articles"] = [][]string{{"ID", "メモ"}, {"1", "note"}}
	book.readErr = errors.New("permission denied")
	e := NewEngine(book, zerolog.Nop())

	_, err := e.SyncWithPreservedColumns(context.Background(), "articles", articleTable(t, 1), Preserve{Key: "ID", Columns: []string{"メモ"}})
	var se *SyncError
	if !errors.As(err, &se) || se.Op != "read" {
		t.Fatalf("Expected read SyncError, got %v", err)
	}
	for _, op := range book.ops {
		if op == "clear:articles" {
			t.Error("Sheet was cleared after a failed read")
		}
	}
}

func TestSyncWithPreservedColumnsEmptyTable(t *testing.T) {
	book := newMemBook()
	e := NewEngine(book, zerolog.Nop())

	_, err := e.SyncWithPreservedColumns(context.Background(), "articles", articleTable(t), Preserve{Key: "ID", Columns: []string{"メモ"}})
	if err != nil {
		t.Fatalf("SyncWithPreservedColumns failed: %v", err)
	}
	if got := book.data["articles"]; len(got) != 1 || got[0][0] != Placeholder {
		t.Errorf("Expected placeholder row, got %v", got)
	}
}

func TestWriteLayout(t *testing.T) {
	book := newMemBook()
	e := NewEngine(book, zerolog.Nop())

	rows := [][]models.Value{
		{models.String("📊 Summary")},
		{},
		{models.String("総PV数"), models.Int(1200)},
		{models.String("平均CTR"), models.Float(2.5)},
	}
	if _, err := e.WriteLayout(context.Background(), "summary", rows); err != nil {
		t.Fatalf("WriteLayout failed: %v", err)
	}
	got := book.data["summary"]
	if len(got) != 4 || got[2][1] != "1200" || got[3][1] != "2.5" || len(got[1]) != 0 {
		t.Errorf("Unexpected layout %v", got)
	}
}

func TestTrimRows(t *testing.T) {
	got := trimRows([][]string{{"a", "", ""}, {""}, {"", "b"}, {}, {"", ""}})
	want := [][]string{{"a"}, {}, {"", "b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("trimRows = %v, expected %v", got, want)
	}
}

func TestRegionReportsDataExtent(t *testing.T) {
	book := newMemBook()
	e := NewEngine(book, zerolog.Nop())
	ctx := context.Background()

	fresh, err := e.Region(ctx, "daily")
	if err != nil {
		t.Fatalf("Region failed: %v", err)
	}
	if fresh.ID != 100 || fresh.Rows != 0 || fresh.Cols != 0 {
		t.Errorf("new sheet region = %+v, want id 100 and empty extent", fresh)
	}

	written, err := e.SyncTable(ctx, "daily", dailyTable(t), nil)
	if err != nil {
		t.Fatalf("SyncTable failed: %v", err)
	}
	want := models.SheetRegion{Title: "daily", ID: 100, HeaderRow: 0, Rows: 4, Cols: 2}
	if written != want {
		t.Errorf("SyncTable region = %+v, want %+v", written, want)
	}

	got, err := e.Region(ctx, "daily")
	if err != nil {
		t.Fatalf("Region failed: %v", err)
	}
	if got != want {
		t.Errorf("Region after sync = %+v, want %+v", got, want)
	}

	empty, err := e.SyncTable(ctx, "daily", models.NewTable("date", "views"), nil)
	if err != nil {
		t.Fatalf("SyncTable failed: %v", err)
	}
	if empty.Rows != 1 || empty.Cols != 1 {
		t.Errorf("placeholder region = %+v, want 1x1", empty)
	}
}
