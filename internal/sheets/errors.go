package sheets

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gsheets_io/internal/transport"

	"google.golang.org/api/googleapi"
)

// APIError is a non-200 response from the Sheets API. Google carries the
// decoded error envelope when the body had one.
type APIError struct {
	StatusCode int
	Body       string
	Google     *googleapi.Error
}

func (e *APIError) Error() string {
	message := e.Body
	if e.Google != nil && e.Google.Message != "" {
		message = e.Google.Message
	}
	return fmt.Sprintf("Google Sheets API error (%d): %s", e.StatusCode, message)
}

func (e *APIError) Unwrap() error {
	if e.Google == nil {
		return nil
	}
	return e.Google
}

func newAPIError(resp *transport.Response) *APIError {
	header := make(http.Header, len(resp.Headers))
	for k, v := range resp.Headers {
		header.Set(k, v)
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Body: resp.Body}

	err := googleapi.CheckResponse(&http.Response{
		StatusCode: resp.StatusCode,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(resp.Body)),
	})
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		apiErr.Google = gErr
	}
	return apiErr
}

// ParseError reports a success response whose body was not the expected JSON.
type ParseError struct {
	Op   string
	Body string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SheetNotFoundError reports a sheet lookup with no match.
type SheetNotFoundError struct {
	Key string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet not found: %s", e.Key)
}

// SheetNotCreatedError reports an addSheet request with no reply.
type SheetNotCreatedError struct {
	Name string
}

func (e *SheetNotCreatedError) Error() string {
	return fmt.Sprintf("sheet %q was not created", e.Name)
}

// RangeError reports a range that is not valid A1 notation.
type RangeError struct {
	Range string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid A1 range %q", e.Range)
}
