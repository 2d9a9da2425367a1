package processing

import (
	"context"

	"gsheets_io/internal/sheets"
)

// SheetsClientInterface defines the sheets API client methods used by the
// reader and writer
type SheetsClientInterface interface {
	GetSheetByID(ctx context.Context, spreadsheetID string, sheetID int64) (*sheets.SheetMetadata, error)
	GetSheetByName(ctx context.Context, spreadsheetID, name string) (*sheets.SheetMetadata, error)
	GetSheetByIndex(ctx context.Context, spreadsheetID string, index int) (*sheets.SheetMetadata, error)
	CreateSheet(ctx context.Context, spreadsheetID, name string) (*sheets.SheetMetadata, error)

	GetValues(ctx context.Context, spreadsheetID string, rng sheets.A1Range) (*sheets.ValueRange, error)
	AppendValues(ctx context.Context, spreadsheetID string, rng sheets.A1Range, values [][]string) (*sheets.AppendValuesResponse, error)
	ClearValues(ctx context.Context, spreadsheetID string, rng sheets.A1Range) (*sheets.ClearValuesResponse, error)
}

// BatchWriter appends batches of rows to a sheet
type BatchWriter interface {
	WriteBatch(ctx context.Context, rows [][]interface{}) error
	RowsWritten() int
}
