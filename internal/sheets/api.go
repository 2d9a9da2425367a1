package sheets

import (
	"context"
)

// SheetsAPI is the subset of the Sheets API the read and write paths use.
// Every range argument is A1 notation and is validated before any request.
type SheetsAPI interface {
	// GetSpreadsheet fetches spreadsheet metadata including every sheet tab
	GetSpreadsheet(ctx context.Context, spreadsheetID string) (*SpreadsheetMetadata, error)

	GetSheetByID(ctx context.Context, spreadsheetID string, sheetID int64) (*SheetMetadata, error)
	GetSheetByName(ctx context.Context, spreadsheetID, name string) (*SheetMetadata, error)
	GetSheetByIndex(ctx context.Context, spreadsheetID string, index int) (*SheetMetadata, error)

	// CreateSheet adds a new tab named name
	CreateSheet(ctx context.Context, spreadsheetID, name string) (*SheetMetadata, error)

	// GetValues reads a value grid. Numbers and booleans arrive as strings.
	GetValues(ctx context.Context, spreadsheetID string, rng A1Range) (*ValueRange, error)

	UpdateValues(ctx context.Context, spreadsheetID string, rng A1Range, values [][]string) (*UpdateValuesResponse, error)

	// AppendValues appends rows after the last table row found in rng
	AppendValues(ctx context.Context, spreadsheetID string, rng A1Range, values [][]string) (*AppendValuesResponse, error)

	// ClearValues clears values but keeps formatting
	ClearValues(ctx context.Context, spreadsheetID string, rng A1Range) (*ClearValuesResponse, error)
}

var _ SheetsAPI = (*Client)(nil)

func (c *Client) GetSpreadsheet(ctx context.Context, spreadsheetID string) (*SpreadsheetMetadata, error) {
	return c.Spreadsheets(spreadsheetID).Get(ctx)
}

func (c *Client) GetSheetByID(ctx context.Context, spreadsheetID string, sheetID int64) (*SheetMetadata, error) {
	return c.Spreadsheets(spreadsheetID).GetSheetByID(ctx, sheetID)
}

func (c *Client) GetSheetByName(ctx context.Context, spreadsheetID, name string) (*SheetMetadata, error) {
	return c.Spreadsheets(spreadsheetID).GetSheetByName(ctx, name)
}

func (c *Client) GetSheetByIndex(ctx context.Context, spreadsheetID string, index int) (*SheetMetadata, error) {
	return c.Spreadsheets(spreadsheetID).GetSheetByIndex(ctx, index)
}

func (c *Client) CreateSheet(ctx context.Context, spreadsheetID, name string) (*SheetMetadata, error) {
	return c.Spreadsheets(spreadsheetID).CreateSheet(ctx, name)
}

func (c *Client) GetValues(ctx context.Context, spreadsheetID string, rng A1Range) (*ValueRange, error) {
	return c.Spreadsheets(spreadsheetID).Values().Get(ctx, rng)
}

func (c *Client) UpdateValues(ctx context.Context, spreadsheetID string, rng A1Range, values [][]string) (*UpdateValuesResponse, error) {
	return c.Spreadsheets(spreadsheetID).Values().Update(ctx, rng, ValueRange{
		Range:          rng.String(),
		MajorDimension: DimensionRows,
		Values:         values,
	})
}

func (c *Client) AppendValues(ctx context.Context, spreadsheetID string, rng A1Range, values [][]string) (*AppendValuesResponse, error) {
	return c.Spreadsheets(spreadsheetID).Values().Append(ctx, rng, ValueRange{
		Range:          rng.String(),
		MajorDimension: DimensionRows,
		Values:         values,
	})
}

func (c *Client) ClearValues(ctx context.Context, spreadsheetID string, rng A1Range) (*ClearValuesResponse, error) {
	return c.Spreadsheets(spreadsheetID).Values().Clear(ctx, rng)
}
