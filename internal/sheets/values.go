package sheets

import (
	"context"
	"net/url"
	"strings"

	"gsheets_io/internal/transport"

	sheetsapi "google.golang.org/api/sheets/v4"
)

const valueInputUserEntered = "?valueInputOption=USER_ENTERED"

// ValuesResource reads and writes cell values of one spreadsheet.
type ValuesResource struct {
	spreadsheet *SpreadsheetResource
}

// escapeRange path-escapes a range but keeps the A1 delimiters readable.
func escapeRange(rng A1Range) string {
	escaped := url.PathEscape(rng.String())
	return strings.NewReplacer("%21", "!", "%27", "'").Replace(escaped)
}

func (r *ValuesResource) url(rng A1Range) (string, error) {
	if !rng.IsValid() {
		return "", &RangeError{Range: rng.String()}
	}
	return r.spreadsheet.url() + "/values/" + escapeRange(rng), nil
}

// Get reads the values in rng
func (r *ValuesResource) Get(ctx context.Context, rng A1Range) (*ValueRange, error) {
	u, err := r.url(rng)
	if err != nil {
		return nil, err
	}

	var values ValueRange
	if err := r.spreadsheet.client.call(ctx, "values.get", transport.MethodGet, u, nil, &values); err != nil {
		return nil, err
	}
	return &values, nil
}

// Update overwrites rng with values
func (r *ValuesResource) Update(ctx context.Context, rng A1Range, values ValueRange) (*UpdateValuesResponse, error) {
	u, err := r.url(rng)
	if err != nil {
		return nil, err
	}

	var resp UpdateValuesResponse
	if err := r.spreadsheet.client.call(ctx, "values.update", transport.MethodPut, u+valueInputUserEntered, values, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Append adds values after the table found in rng
func (r *ValuesResource) Append(ctx context.Context, rng A1Range, values ValueRange) (*AppendValuesResponse, error) {
	u, err := r.url(rng)
	if err != nil {
		return nil, err
	}

	var resp AppendValuesResponse
	if err := r.spreadsheet.client.call(ctx, "values.append", transport.MethodPost, u+":append"+valueInputUserEntered, values, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Clear removes the values in rng, keeping formatting
func (r *ValuesResource) Clear(ctx context.Context, rng A1Range) (*ClearValuesResponse, error) {
	u, err := r.url(rng)
	if err != nil {
		return nil, err
	}

	var resp ClearValuesResponse
	if err := r.spreadsheet.client.call(ctx, "values.clear", transport.MethodPost, u+":clear", &sheetsapi.ClearValuesRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
