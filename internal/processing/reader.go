package processing

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gsheets_io/internal/sheets"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// ColumnType is the inferred type of a column
type ColumnType string

const (
	ColumnBoolean ColumnType = "BOOLEAN"
	ColumnDouble  ColumnType = "DOUBLE"
	ColumnVarchar ColumnType = "VARCHAR"
)

// Column is a named, typed column of a Table
type Column struct {
	Name string
	Type ColumnType
}

// Table is a sheet range read into typed rows. Cells are nil, bool, float64
// or string according to the column type.
type Table struct {
	SpreadsheetID string
	Sheet         string
	Range         sheets.A1Range
	Columns       []Column
	Rows          [][]interface{}
}

// ConversionError reports a cell that does not match its column type
type ConversionError struct {
	Row    int
	Column string
	Type   ColumnType
	Value  string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("row %d column %q: cannot convert %q to %s", e.Row, e.Column, e.Value, e.Type)
}

// resolveSheet picks the sheet to operate on: an explicit name, then the gid
// embedded in the URL, then the first sheet.
func resolveSheet(ctx context.Context, api SheetsClientInterface, spreadsheetID, input, explicit string) (string, error) {
	if explicit != "" {
		sheet, err := api.GetSheetByName(ctx, spreadsheetID, explicit)
		if err != nil {
			return "", err
		}
		return sheet.Properties.Title, nil
	}

	if gid := ExtractSheetID(input); gid != "" {
		sheetID, err := strconv.ParseInt(gid, 10, 64)
		if err != nil {
			return "", inputErrorf("invalid sheet id %q in %q", gid, input)
		}
		sheet, err := api.GetSheetByID(ctx, spreadsheetID, sheetID)
		if err != nil {
			return "", fmt.Errorf("failed to resolve sheet id %d: %w", sheetID, err)
		}
		log.Debug().
			Int64("sheet_id", sheetID).
			Str("sheet", sheet.Properties.Title).
			Msg("Resolved sheet from URL")
		return sheet.Properties.Title, nil
	}

	sheet, err := api.GetSheetByIndex(ctx, spreadsheetID, 0)
	if err != nil {
		return "", fmt.Errorf("failed to resolve first sheet: %w", err)
	}
	log.Debug().
		Str("sheet", sheet.Properties.Title).
		Msg("Defaulting to first sheet")
	return sheet.Properties.Title, nil
}

// targetRange combines a sheet and a cell range. A range that already names
// its sheet is used as is.
func targetRange(sheet, cells string) sheets.A1Range {
	if strings.Contains(cells, "!") {
		return sheets.NewA1Range(cells)
	}
	return sheets.NewSheetRange(sheet, cells)
}

// inferType types a column from its first data cell only.
func inferType(value string) ColumnType {
	if value == "TRUE" || value == "FALSE" {
		return ColumnBoolean
	}
	if value != "" {
		if _, ok := sheets.NewCell(value).Float64(); ok {
			return ColumnDouble
		}
	}
	return ColumnVarchar
}

func convertCell(value string, columnType ColumnType) (interface{}, bool) {
	if value == "" {
		return nil, true
	}
	switch columnType {
	case ColumnBoolean:
		b, err := cast.ToBoolE(value)
		return b, err == nil
	case ColumnDouble:
		return sheets.NewCell(value).Float64()
	default:
		return value, true
	}
}

// ReadSheet fetches a range once and converts it into a typed Table.
func ReadSheet(ctx context.Context, api SheetsClientInterface, input string, opts ReadOptions) (*Table, error) {
	spreadsheetID, err := ExtractSpreadsheetID(input)
	if err != nil {
		return nil, err
	}

	sheet, err := resolveSheet(ctx, api, spreadsheetID, input, opts.Sheet)
	if err != nil {
		return nil, err
	}

	cells := opts.Range
	if cells == "" {
		cells = ExtractSheetRange(input)
	}
	rng := targetRange(sheet, cells)

	values, err := api.GetValues(ctx, spreadsheetID, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rng, err)
	}

	grid := values.Values
	start := 0
	if opts.Header {
		start = 1
	}
	if len(grid) <= start {
		reported := values.Range
		if reported == "" {
			reported = rng.String()
		}
		return nil, inputErrorf("Range %s is empty", reported)
	}

	firstDataRow := grid[start]
	width := len(firstDataRow)
	if opts.Header && len(grid[0]) > width {
		width = len(grid[0])
	}

	columns := make([]Column, width)
	for i := range columns {
		name := "column" + strconv.Itoa(i+1)
		if opts.Header && i < len(grid[0]) {
			name = grid[0][i]
		}

		columnType := ColumnVarchar
		if i < len(firstDataRow) && !opts.AllVarchar {
			columnType = inferType(firstDataRow[i])
		}
		columns[i] = Column{Name: name, Type: columnType}
	}

	rows := make([][]interface{}, 0, len(grid)-start)
	for r := start; r < len(grid); r++ {
		row := make([]interface{}, width)
		for c := 0; c < width && c < len(grid[r]); c++ {
			value, ok := convertCell(grid[r][c], columns[c].Type)
			if !ok {
				return nil, &ConversionError{
					Row:    r + 1,
					Column: columns[c].Name,
					Type:   columns[c].Type,
					Value:  grid[r][c],
				}
			}
			row[c] = value
		}
		rows = append(rows, row)
	}

	log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Str("range", rng.String()).
		Int("columns", width).
		Int("rows", len(rows)).
		Msg("Read sheet")

	return &Table{
		SpreadsheetID: spreadsheetID,
		Sheet:         sheet,
		Range:         rng,
		Columns:       columns,
		Rows:          rows,
	}, nil
}
