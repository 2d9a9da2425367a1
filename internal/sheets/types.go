package sheets

import "encoding/json"

// SheetType is the kind of a sheet tab.
type SheetType string

const (
	SheetTypeUnspecified SheetType = "SHEET_TYPE_UNSPECIFIED"
	SheetTypeGrid        SheetType = "GRID"
	SheetTypeObject      SheetType = "OBJECT"
	SheetTypeDataSource  SheetType = "DATA_SOURCE"
)

// MajorDimension orders a value grid by rows or by columns.
type MajorDimension string

const (
	DimensionRows    MajorDimension = "ROWS"
	DimensionColumns MajorDimension = "COLUMNS"
)

// SheetProperties describes one tab of a spreadsheet
type SheetProperties struct {
	SheetID   int64     `json:"sheetId"`
	Title     string    `json:"title"`
	Index     int       `json:"index"`
	SheetType SheetType `json:"sheetType,omitempty"`
}

// SheetMetadata wraps the properties of one tab
type SheetMetadata struct {
	Properties SheetProperties `json:"properties"`
}

// SpreadsheetProperties holds spreadsheet-wide settings
type SpreadsheetProperties struct {
	Title    string `json:"title"`
	Locale   string `json:"locale,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// SpreadsheetMetadata is the result of Spreadsheets.Get
type SpreadsheetMetadata struct {
	SpreadsheetID  string                `json:"spreadsheetId"`
	Properties     SpreadsheetProperties `json:"properties"`
	Sheets         []SheetMetadata       `json:"sheets"`
	SpreadsheetURL string                `json:"spreadsheetUrl,omitempty"`
}

// ValueRange is a grid of cell values. Rows may be ragged.
type ValueRange struct {
	Range          string         `json:"range,omitempty"`
	MajorDimension MajorDimension `json:"majorDimension,omitempty"`
	Values         [][]string     `json:"values"`
}

// UnmarshalJSON accepts numbers, booleans and nulls in the grid and stores
// their string form.
func (v *ValueRange) UnmarshalJSON(data []byte) error {
	var raw struct {
		Range          string          `json:"range"`
		MajorDimension MajorDimension  `json:"majorDimension"`
		Values         [][]interface{} `json:"values"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	v.Range = raw.Range
	v.MajorDimension = raw.MajorDimension
	v.Values = make([][]string, len(raw.Values))
	for i, row := range raw.Values {
		v.Values[i] = make([]string, len(row))
		for j, cell := range row {
			v.Values[i][j] = NewCell(cell).String()
		}
	}
	return nil
}

// UpdateValuesResponse is the result of Values.Update
type UpdateValuesResponse struct {
	SpreadsheetID  string      `json:"spreadsheetId"`
	UpdatedRange   string      `json:"updatedRange"`
	UpdatedRows    int         `json:"updatedRows"`
	UpdatedColumns int         `json:"updatedColumns"`
	UpdatedCells   int         `json:"updatedCells"`
	UpdatedData    *ValueRange `json:"updatedData,omitempty"`
}

// AppendValuesResponse is the result of Values.Append
type AppendValuesResponse struct {
	SpreadsheetID string               `json:"spreadsheetId"`
	TableRange    string               `json:"tableRange,omitempty"`
	Updates       UpdateValuesResponse `json:"updates"`
}

// ClearValuesResponse is the result of Values.Clear
type ClearValuesResponse struct {
	SpreadsheetID string `json:"spreadsheetId"`
	ClearedRange  string `json:"clearedRange"`
}
