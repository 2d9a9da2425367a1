package sheets

import (
	"context"
	"fmt"
	"net/url"

	"gsheets_io/internal/transport"

	"github.com/rs/zerolog/log"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// SpreadsheetResource exposes metadata and sheet operations for one spreadsheet.
type SpreadsheetResource struct {
	client        *Client
	spreadsheetID string
}

// ID returns the spreadsheet id
func (r *SpreadsheetResource) ID() string {
	return r.spreadsheetID
}

func (r *SpreadsheetResource) url() string {
	return r.client.baseURL + "/spreadsheets/" + url.PathEscape(r.spreadsheetID)
}

// Values returns the values resource of the same spreadsheet
func (r *SpreadsheetResource) Values() *ValuesResource {
	return &ValuesResource{spreadsheet: r}
}

// Get fetches the spreadsheet metadata
func (r *SpreadsheetResource) Get(ctx context.Context) (*SpreadsheetMetadata, error) {
	var metadata SpreadsheetMetadata
	if err := r.client.call(ctx, "spreadsheets.get", transport.MethodGet, r.url(), nil, &metadata); err != nil {
		return nil, err
	}
	return &metadata, nil
}

func (r *SpreadsheetResource) findSheet(ctx context.Context, key string, match func(SheetProperties) bool) (*SheetMetadata, error) {
	metadata, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}
	for i := range metadata.Sheets {
		if match(metadata.Sheets[i].Properties) {
			return &metadata.Sheets[i], nil
		}
	}
	return nil, &SheetNotFoundError{Key: key}
}

// GetSheetByID returns the first sheet whose sheetId matches
func (r *SpreadsheetResource) GetSheetByID(ctx context.Context, sheetID int64) (*SheetMetadata, error) {
	return r.findSheet(ctx, fmt.Sprintf("sheetId=%d", sheetID), func(p SheetProperties) bool {
		return p.SheetID == sheetID
	})
}

// GetSheetByName returns the first sheet whose title matches
func (r *SpreadsheetResource) GetSheetByName(ctx context.Context, name string) (*SheetMetadata, error) {
	return r.findSheet(ctx, fmt.Sprintf("title=%q", name), func(p SheetProperties) bool {
		return p.Title == name
	})
}

// GetSheetByIndex returns the first sheet at the given tab index
func (r *SpreadsheetResource) GetSheetByIndex(ctx context.Context, index int) (*SheetMetadata, error) {
	return r.findSheet(ctx, fmt.Sprintf("index=%d", index), func(p SheetProperties) bool {
		return p.Index == index
	})
}

// BatchUpdate applies a batch of spreadsheet requests
func (r *SpreadsheetResource) BatchUpdate(ctx context.Context, req *sheetsapi.BatchUpdateSpreadsheetRequest) (*sheetsapi.BatchUpdateSpreadsheetResponse, error) {
	var resp sheetsapi.BatchUpdateSpreadsheetResponse
	if err := r.client.call(ctx, "spreadsheets.batchUpdate", transport.MethodPost, r.url()+":batchUpdate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateSheet adds a sheet tab and returns its metadata
func (r *SpreadsheetResource) CreateSheet(ctx context.Context, name string) (*SheetMetadata, error) {
	resp, err := r.BatchUpdate(ctx, &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: name},
			},
		}},
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Replies) == 0 || resp.Replies[0] == nil ||
		resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return nil, &SheetNotCreatedError{Name: name}
	}

	props := resp.Replies[0].AddSheet.Properties
	sheet := &SheetMetadata{Properties: SheetProperties{
		SheetID:   props.SheetId,
		Title:     props.Title,
		Index:     int(props.Index),
		SheetType: SheetType(props.SheetType),
	}}

	log.Debug().
		Str("spreadsheet_id", r.spreadsheetID).
		Str("title", sheet.Properties.Title).
		Int64("sheet_id", sheet.Properties.SheetID).
		Msg("Created sheet")

	return sheet, nil
}
