package processing

import (
	"context"
	"errors"
	"fmt"

	"gsheets_io/internal/sheets"

	"github.com/rs/zerolog/log"
)

// Writer exports rows to one sheet. Initialization happens in NewWriter so
// the clear and header append run once per export.
type Writer struct {
	api           SheetsClientInterface
	spreadsheetID string
	sheet         string
	rng           sheets.A1Range
	rowsWritten   int
	batches       int
}

// NewWriter resolves the target sheet and range, creates the sheet when
// asked, clears existing data and writes the header row.
func NewWriter(ctx context.Context, api SheetsClientInterface, target string, names []string, opts WriteOptions) (*Writer, error) {
	spreadsheetID, err := ExtractSpreadsheetID(target)
	if err != nil {
		return nil, err
	}

	var sheet string
	if opts.Sheet != "" && opts.CreateIfNotExists {
		sheet, err = ensureSheet(ctx, api, spreadsheetID, opts.Sheet)
	} else {
		sheet, err = resolveSheet(ctx, api, spreadsheetID, target, opts.Sheet)
	}
	if err != nil {
		return nil, err
	}

	cells := opts.Range
	if cells == "" {
		cells = ExtractSheetRange(target)
	}

	w := &Writer{
		api:           api,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
		rng:           targetRange(sheet, cells),
	}

	// overwrite_range wins over overwrite_sheet
	switch {
	case opts.OverwriteRange:
		if _, err := api.ClearValues(ctx, spreadsheetID, w.rng); err != nil {
			return nil, fmt.Errorf("failed to clear range %s: %w", w.rng, err)
		}
	case opts.OverwriteSheet:
		whole := sheets.NewSheetRange(sheet, "")
		if _, err := api.ClearValues(ctx, spreadsheetID, whole); err != nil {
			return nil, fmt.Errorf("failed to clear sheet %s: %w", sheet, err)
		}
	}

	if opts.Header {
		if _, err := api.AppendValues(ctx, spreadsheetID, w.rng, [][]string{names}); err != nil {
			return nil, fmt.Errorf("failed to write header to %s: %w", w.rng, err)
		}
	}

	log.Debug().
		Str("spreadsheet_id", spreadsheetID).
		Str("range", w.rng.String()).
		Bool("overwrite_sheet", opts.OverwriteSheet).
		Bool("overwrite_range", opts.OverwriteRange).
		Bool("header", opts.Header).
		Msg("Initialized sheet export")

	return w, nil
}

func ensureSheet(ctx context.Context, api SheetsClientInterface, spreadsheetID, name string) (string, error) {
	sheet, err := api.GetSheetByName(ctx, spreadsheetID, name)
	if err == nil {
		return sheet.Properties.Title, nil
	}

	var notFound *sheets.SheetNotFoundError
	if !errors.As(err, &notFound) {
		return "", err
	}

	created, err := api.CreateSheet(ctx, spreadsheetID, name)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	log.Info().
		Str("spreadsheet_id", spreadsheetID).
		Str("sheet", created.Properties.Title).
		Msg("Created missing sheet")
	return created.Properties.Title, nil
}

// WriteBatch appends one batch of rows. nil cells are written as empty
// strings and every other value in its string form.
func (w *Writer) WriteBatch(ctx context.Context, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	values := make([][]string, len(rows))
	for i, row := range rows {
		values[i] = make([]string, len(row))
		for j, value := range row {
			values[i][j] = sheets.NewCell(value).String()
		}
	}

	if _, err := w.api.AppendValues(ctx, w.spreadsheetID, w.rng, values); err != nil {
		return fmt.Errorf("failed to append %d rows to %s: %w", len(rows), w.rng, err)
	}

	w.rowsWritten += len(rows)
	w.batches++
	return nil
}

// RowsWritten returns the number of data rows appended so far
func (w *Writer) RowsWritten() int {
	return w.rowsWritten
}

// Range returns the range rows are appended to
func (w *Writer) Range() sheets.A1Range {
	return w.rng
}

// LogSummary logs the totals of the export
func (w *Writer) LogSummary() {
	log.Info().
		Str("spreadsheet_id", w.spreadsheetID).
		Str("sheet", w.sheet).
		Int("rows", w.rowsWritten).
		Int("batches", w.batches).
		Msg("Sheet export complete")
}
