package sheet

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

// GoogleSheets is a Spreadsheet backed by the Google Sheets API.
type GoogleSheets struct {
	svc *sheets.Service
	id  string
}

// NewGoogleSheets connects to the spreadsheet with the given id.
func NewGoogleSheets(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*GoogleSheets, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleSheets{svc: svc, id: spreadsheetID}, nil
}

// Sheets returns the id of every sheet keyed by title.
func (g *GoogleSheets) Sheets(ctx context.Context) (map[string]int64, error) {
	doc, err := g.svc.Spreadsheets.Get(g.id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(doc.Sheets))
	for _, s := range doc.Sheets {
		if s.Properties != nil {
			out[s.Properties.Title] = s.Properties.SheetId
		}
	}
	return out, nil
}

// AddSheet creates a sheet with the given grid capacity.
func (g *GoogleSheets) AddSheet(ctx context.Context, title string, rows, cols int) (int64, error) {
	resp, err := g.svc.Spreadsheets.BatchUpdate(g.id, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("add sheet %q: empty reply", title)
	}
	return resp.Replies[0].AddSheet.Properties.SheetId, nil
}

// Read returns the formatted values of a sheet.
func (g *GoogleSheets) Read(ctx context.Context, sheet string) ([][]string, error) {
	vr, err := g.svc.Spreadsheets.Values.Get(g.id, quoteSheet(sheet)).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(vr.Values))
	for _, r := range vr.Values {
		row := make([]string, len(r))
		for i, v := range r {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return trimRows(rows), nil
}

// Clear removes every value of a sheet, keeping formatting and charts.
func (g *GoogleSheets) Clear(ctx context.Context, sheet string) error {
	_, err := g.svc.Spreadsheets.Values.Clear(g.id, quoteSheet(sheet), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// Write stores rows from A1 as raw values.
func (g *GoogleSheets) Write(ctx context.Context, sheet string, rows [][]interface{}) error {
	_, err := g.svc.Spreadsheets.Values.Update(g.id, quoteSheet(sheet)+"!A1", &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// AddCharts issues every chart in one batch update.
func (g *GoogleSheets) AddCharts(ctx context.Context, reqs []models.ChartRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	batch := &sheets.BatchUpdateSpreadsheetRequest{}
	for _, r := range reqs {
		batch.Requests = append(batch.Requests, addChartRequest(r))
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(g.id, batch).Context(ctx).Do()
	return err
}

func addChartRequest(r models.ChartRequest) *sheets.Request {
	chartType := "LINE"
	if r.Kind == models.ChartBar {
		chartType = "BAR"
	}
	basic := &sheets.BasicChartSpec{
		ChartType:      chartType,
		LegendPosition: r.Legend,
		HeaderCount:    int64(r.HeaderCount),
		Domains: []*sheets.BasicChartDomain{{
			Domain: chartData(r.Domain),
		}},
	}
	for _, a := range r.Axes {
		basic.Axis = append(basic.Axis, &sheets.BasicChartAxis{Position: a.Position, Title: a.Title})
	}
	for _, s := range r.Series {
		series := &sheets.BasicChartSeries{
			Series:     chartData(s.Source),
			TargetAxis: s.TargetAxis,
		}
		if s.Color != nil {
			series.ColorStyle = &sheets.ColorStyle{RgbColor: &sheets.Color{
				Red:   s.Color.Red,
				Green: s.Color.Green,
				Blue:  s.Color.Blue,
			}}
		}
		basic.Series = append(basic.Series, series)
	}

	return &sheets.Request{
		AddChart: &sheets.AddChartRequest{
			Chart: &sheets.EmbeddedChart{
				Spec: &sheets.ChartSpec{Title: r.Title, BasicChart: basic},
				Position: &sheets.EmbeddedObjectPosition{
					OverlayPosition: &sheets.OverlayPosition{
						AnchorCell: &sheets.GridCoordinate{
							SheetId:         r.Domain.SheetID,
							RowIndex:        int64(r.AnchorRow),
							ColumnIndex:     int64(r.AnchorColumn),
							ForceSendFields: []string{"SheetId", "RowIndex", "ColumnIndex"},
						},
						WidthPixels:  int64(r.Width),
						HeightPixels: int64(r.Height),
					},
				},
			},
		},
	}
}

// chartData converts a range. Zero ids and indexes are meaningful, so they
// are always sent.
func chartData(g models.GridRange) *sheets.ChartData {
	return &sheets.ChartData{
		SourceRange: &sheets.ChartSourceRange{
			Sources: []*sheets.GridRange{{
				SheetId:          g.SheetID,
				StartRowIndex:    int64(g.StartRow),
				EndRowIndex:      int64(g.EndRow),
				StartColumnIndex: int64(g.StartCol),
				EndColumnIndex:   int64(g.EndCol),
				ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
			}},
		},
	}
}
