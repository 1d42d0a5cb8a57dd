package models

// SheetRegion is the addressable range of a destination sheet.
type SheetRegion struct {
	// Title is the sheet name.
	Title string `json:"title"`
	// ID is the backend's sheet id.
	ID int64 `json:"id"`
	// HeaderRow is the zero-based index of the header row. Tables are
	// always written from the first row.
	HeaderRow int `json:"header_row"`
	// Rows is the number of rows holding data, header included. It is 0
	// for an empty sheet.
	Rows int `json:"rows"`
	// Cols is the width of the widest data row.
	Cols int `json:"cols"`
}
