package sheet

import (
	"testing"

	"github.com/ukaji3/sheetsync/pkg/sheetsync/models"
)

func TestAddChartRequestSendsZeroIndexes(t *testing.T) {
	req := models.ChartRequest{
		Sheet:        "記事別",
		Kind:         models.ChartBar,
		Title:        "TOP20",
		Legend:       "NO_LEGEND",
		Domain:       models.GridRange{SheetID: 0, StartRow: 0, EndRow: 21, StartCol: 1, EndCol: 2},
		Series:       []models.ChartSeries{{Source: models.GridRange{StartRow: 0, EndRow: 21, StartCol: 2, EndCol: 3}, TargetAxis: "BOTTOM_AXIS", Color: &models.Color{Red: 0.2, Green: 0.6, Blue: 0.9}}},
		HeaderCount:  1,
		AnchorRow:    0,
		AnchorColumn: 6,
		Width:        600,
		Height:       500,
	}

	r := addChartRequest(req)
	spec := r.AddChart.Chart.Spec
	if spec.BasicChart.ChartType != "BAR" {
		t.Errorf("Expected BAR, got %q", spec.BasicChart.ChartType)
	}
	if spec.BasicChart.HeaderCount != 1 {
		t.Errorf("Expected header count 1, got %d", spec.BasicChart.HeaderCount)
	}

	domain := spec.BasicChart.Domains[0].Domain.SourceRange.Sources[0]
	data, err := domain.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	want := `{"endColumnIndex":2,"endRowIndex":21,"sheetId":0,"startColumnIndex":1,"startRowIndex":0}`
	if string(data) != want {
		t.Errorf("Unexpected domain JSON:\n got %s\nwant %s", data, want)
	}

	series := spec.BasicChart.Series[0]
	if series.ColorStyle == nil || series.ColorStyle.RgbColor.Blue != 0.9 {
		t.Errorf("Expected series color, got %+v", series.ColorStyle)
	}

	anchor := r.AddChart.Chart.Position.OverlayPosition.AnchorCell
	if anchor.ColumnIndex != 6 || anchor.RowIndex != 0 {
		t.Errorf("Unexpected anchor %+v", anchor)
	}
}
