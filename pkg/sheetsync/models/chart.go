package models

// ChartKind is the chart type of a descriptor.
type ChartKind string

const (
	// ChartLine plots one or more series against a shared domain.
	ChartLine ChartKind = "line"
	// ChartBar plots a single horizontal bar series.
	ChartBar ChartKind = "bar"
)

// Color is an RGB color with components in [0, 1].
type Color struct {
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// ChartDescriptor declares a chart. It carries no runtime state.
type ChartDescriptor struct {
	// Kind is the chart type.
	Kind ChartKind `json:"kind" yaml:"kind"`
	// Title is the chart title.
	Title string `json:"title" yaml:"title"`
	// Sheet is the name of the sheet holding the data and the chart.
	Sheet string `json:"sheet" yaml:"sheet"`
	// DomainColumn is the zero-based x-axis (or label) column.
	DomainColumn int `json:"domain_column" yaml:"domain_column"`
	// SeriesColumns are the zero-based y-axis (or value) columns.
	SeriesColumns []int `json:"series_columns" yaml:"series_columns"`
	// DataRows is the number of data rows plotted below the header.
	DataRows int `json:"data_rows" yaml:"data_rows"`
	// AnchorRow is the zero-based row of the chart's top-left corner.
	AnchorRow int `json:"anchor_row" yaml:"anchor_row"`
	// AnchorColumn is the zero-based column of the chart's top-left corner.
	AnchorColumn int `json:"anchor_column" yaml:"anchor_column"`
	// Width is the chart width in pixels.
	Width int `json:"width,omitempty" yaml:"width,omitempty"`
	// Height is the chart height in pixels.
	Height int `json:"height,omitempty" yaml:"height,omitempty"`
	// DomainTitle is the x-axis title.
	DomainTitle string `json:"domain_title,omitempty" yaml:"domain_title,omitempty"`
	// ValueTitle is the y-axis title.
	ValueTitle string `json:"value_title,omitempty" yaml:"value_title,omitempty"`
	// Color overrides the series color of a bar chart.
	Color *Color `json:"color,omitempty" yaml:"color,omitempty"`
}

// GridRange is a zero-based, half-open cell range within one sheet.
type GridRange struct {
	SheetID  int64 `json:"sheet_id"`
	StartRow int   `json:"start_row"`
	EndRow   int   `json:"end_row"`
	StartCol int   `json:"start_col"`
	EndCol   int   `json:"end_col"`
}

// ChartAxis is an axis position with its title.
type ChartAxis struct {
	// Position is BOTTOM_AXIS or LEFT_AXIS.
	Position string `json:"position"`
	Title    string `json:"title"`
}

// ChartSeries is one plotted series.
type ChartSeries struct {
	Source GridRange `json:"source"`
	// TargetAxis is the axis the series is measured against.
	TargetAxis string `json:"target_axis"`
	Color      *Color `json:"color,omitempty"`
}

// ChartRequest is a backend-neutral chart creation request.
type ChartRequest struct {
	// Sheet is the sheet the ranges and the anchor refer to.
	Sheet string `json:"sheet"`
	// Kind is the chart type.
	Kind ChartKind `json:"kind"`
	// Title is the chart title.
	Title string `json:"title"`
	// Legend is BOTTOM_LEGEND or NO_LEGEND.
	Legend string `json:"legend"`
	// Axes lists the axis titles.
	Axes []ChartAxis `json:"axes"`
	// Domain is the x-axis (or label) range.
	Domain GridRange `json:"domain"`
	// Series lists the plotted ranges; they share Domain's rows.
	Series []ChartSeries `json:"series"`
	// HeaderCount is the number of leading rows excluded from plotted data.
	HeaderCount int `json:"header_count"`
	// AnchorRow and AnchorColumn place the chart's top-left corner.
	AnchorRow    int `json:"anchor_row"`
	AnchorColumn int `json:"anchor_column"`
	// Width and Height are in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// WithSheetID returns a copy of r whose ranges point at sheet id.
func (r ChartRequest) WithSheetID(id int64) ChartRequest {
	r.Domain.SheetID = id
	series := make([]ChartSeries, len(r.Series))
	for i, s := range r.Series {
		s.Source.SheetID = id
		series[i] = s
	}
	r.Series = series
	return r
}
