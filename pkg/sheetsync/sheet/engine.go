package sheet

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

// Placeholder is the single cell written when a table has no rows.
const Placeholder = "データがありません"

// Default grid capacity of a newly created sheet.
const (
	DefaultRows = 1000
	DefaultCols = 26
)

// Preserve configures a sync that keeps hand-edited columns.
type Preserve struct {
	// Key is the header label of the column identifying a row.
	Key string
	// Columns are the header labels of the protected columns.
	Columns []string
	// OrderBy is the column the rewritten rows are sorted by, ascending.
	// Empty keeps the table order.
	OrderBy string
}

// Engine mirrors tables into the sheets of one spreadsheet.
type Engine struct {
	book Spreadsheet
	log  zerolog.Logger
}

// NewEngine creates an engine writing to book.
func NewEngine(book Spreadsheet, logger zerolog.Logger) *Engine {
	return &Engine{book: book, log: logger.With().Str("component", "sheet").Logger()}
}

// Region resolves the named sheet, creating it with the default capacity
// when it does not exist yet, and reports the extent of its current data.
// A new sheet has an empty extent.
func (e *Engine) Region(ctx context.Context, title string) (models.SheetRegion, error) {
	id, created, err := e.resolve(ctx, title)
	if err != nil {
		return models.SheetRegion{}, err
	}
	if created {
		return models.SheetRegion{Title: title, ID: id}, nil
	}
	existing, err := e.book.Read(ctx, title)
	if err != nil {
		return models.SheetRegion{}, newSyncError(title, "read", err)
	}
	return extent(title, id, len(existing), width(existing)), nil
}

func (e *Engine) resolve(ctx context.Context, title string) (int64, bool, error) {
	sheets, err := e.book.Sheets(ctx)
	if err != nil {
		return 0, false, newSyncError(title, "resolve", err)
	}
	if id, ok := sheets[title]; ok {
		return id, false, nil
	}
	id, err := e.book.AddSheet(ctx, title, DefaultRows, DefaultCols)
	if err != nil {
		return 0, false, newSyncError(title, "resolve", err)
	}
	e.log.Info().Str("sheet", title).Int64("sheet_id", id).Msg("Sheet created")
	return id, true, nil
}

// SyncTable replaces the contents of sheet with a header row and the rows
// of tbl. labels names the header cells; nil uses the table columns. An
// empty table leaves exactly one placeholder row. The returned region
// covers what was written.
func (e *Engine) SyncTable(ctx context.Context, sheet string, tbl *models.Table, labels []string) (models.SheetRegion, error) {
	id, _, err := e.resolve(ctx, sheet)
	if err != nil {
		return models.SheetRegion{}, err
	}

	if tbl.IsEmpty() {
		return e.replace(ctx, sheet, id, [][]interface{}{{Placeholder}})
	}

	if labels == nil {
		labels = tbl.Columns
	}
	if len(labels) != len(tbl.Columns) {
		return models.SheetRegion{}, newSyncError(sheet, "write", fmt.Errorf("%w: %d labels for %d columns", ErrLabelCount, len(labels), len(tbl.Columns)))
	}

	return e.replace(ctx, sheet, id, tableRows(labels, tbl))
}

// SyncWithPreservedColumns rewrites sheet from tbl while keeping the values
// of the protected columns for every row key that is still present. The
// existing sheet is read before anything is cleared. Values are matched by
// key, never by position; new keys get empty protected cells.
func (e *Engine) SyncWithPreservedColumns(ctx context.Context, sheet string, tbl *models.Table, p Preserve) (models.SheetRegion, error) {
	if !tbl.HasColumn(p.Key) {
		return models.SheetRegion{}, newSyncError(sheet, "write", fmt.Errorf("key column %q missing from table", p.Key))
	}
	id, _, err := e.resolve(ctx, sheet)
	if err != nil {
		return models.SheetRegion{}, err
	}

	existing, err := e.book.Read(ctx, sheet)
	if err != nil {
		return models.SheetRegion{}, newSyncError(sheet, "read", err)
	}
	kept := preservedValues(existing, p)

	merged := withColumns(tbl, p.Columns)
	for _, row := range merged.Rows {
		vals := kept[row[p.Key].Text()]
		for _, c := range p.Columns {
			if s := vals[c]; s != "" {
				row[c] = models.String(s)
			} else {
				row[c] = models.Empty()
			}
		}
	}
	if p.OrderBy != "" {
		merged = merged.SortBy(p.OrderBy, false)
	}

	if merged.IsEmpty() {
		return e.replace(ctx, sheet, id, [][]interface{}{{Placeholder}})
	}

	e.log.Debug().
		Str("sheet", sheet).
		Int("preserved_keys", len(kept)).
		Msg("Protected columns spliced")
	return e.replace(ctx, sheet, id, tableRows(merged.Columns, merged))
}

// WriteLayout replaces the contents of sheet with a free-form block.
func (e *Engine) WriteLayout(ctx context.Context, sheet string, rows [][]models.Value) (models.SheetRegion, error) {
	id, _, err := e.resolve(ctx, sheet)
	if err != nil {
		return models.SheetRegion{}, err
	}
	out := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		cells := make([]interface{}, len(r))
		for i, v := range r {
			cells[i] = v.Cell()
		}
		out = append(out, cells)
	}
	return e.replace(ctx, sheet, id, out)
}

func (e *Engine) replace(ctx context.Context, sheet string, id int64, rows [][]interface{}) (models.SheetRegion, error) {
	start := time.Now()
	if err := e.book.Clear(ctx, sheet); err != nil {
		return models.SheetRegion{}, newSyncError(sheet, "clear", err)
	}
	if err := e.book.Write(ctx, sheet, rows); err != nil {
		return models.SheetRegion{}, newSyncError(sheet, "write", err)
	}
	e.log.Info().
		Str("sheet", sheet).
		Int("rows", len(rows)).
		Dur("duration", time.Since(start)).
		Msg("Sheet synced")
	return extent(sheet, id, len(rows), width(rows)), nil
}

func extent(title string, id int64, rows, cols int) models.SheetRegion {
	if rows == 0 {
		cols = 0
	}
	return models.SheetRegion{Title: title, ID: id, Rows: rows, Cols: cols}
}

// width is the length of the longest row.
func width[T any](rows [][]T) int {
	n := 0
	for _, r := range rows {
		if len(r) > n {
			n = len(r)
		}
	}
	return n
}

// preservedValues maps each row key of an existing sheet to its protected
// cells. Columns are located by header label. Rows without a key are
// skipped and the first occurrence of a duplicated key wins.
func preservedValues(existing [][]string, p Preserve) map[string]map[string]string {
	kept := make(map[string]map[string]string)
	if len(existing) < 2 {
		return kept
	}

	header := existing[0]
	keyIdx := -1
	cols := make(map[string]int)
	for i, label := range header {
		if label == p.Key {
			keyIdx = i
		}
		for _, c := range p.Columns {
			if label == c {
				if _, seen := cols[c]; !seen {
					cols[c] = i
				}
			}
		}
	}
	if keyIdx < 0 || len(cols) == 0 {
		return kept
	}

	for _, row := range existing[1:] {
		key := cellAt(row, keyIdx)
		if key == "" {
			continue
		}
		if _, dup := kept[key]; dup {
			continue
		}
		vals := make(map[string]string, len(cols))
		for c, i := range cols {
			vals[c] = cellAt(row, i)
		}
		kept[key] = vals
	}
	return kept
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// withColumns returns a copy of tbl that also has every column in extra.
func withColumns(tbl *models.Table, extra []string) *models.Table {
	cols := append([]string(nil), tbl.Columns...)
	for _, c := range extra {
		if !tbl.HasColumn(c) {
			cols = append(cols, c)
		}
	}
	out := models.NewTable(cols...)
	for _, r := range tbl.Rows {
		row := make(models.Row, len(cols))
		for _, c := range cols {
			row[c] = r[c]
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func tableRows(labels []string, tbl *models.Table) [][]interface{} {
	rows := make([][]interface{}, 0, tbl.Len()+1)
	header := make([]interface{}, len(labels))
	for i, l := range labels {
		header[i] = l
	}
	rows = append(rows, header)
	for _, rec := range tbl.Records() {
		cells := make([]interface{}, len(rec))
		for i, v := range rec {
			cells[i] = v.Cell()
		}
		rows = append(rows, cells)
	}
	return rows
}
