package mocks

import (
	"context"
	"fmt"

	"gsheets_io/internal/sheets"
)

// SheetsClient interface defines the methods used by the reader and writer from sheets.Client
type SheetsClient interface {
	GetSheetByID(ctx context.Context, spreadsheetID string, sheetID int64) (*sheets.SheetMetadata, error)
	GetSheetByName(ctx context.Context, spreadsheetID, name string) (*sheets.SheetMetadata, error)
	GetSheetByIndex(ctx context.Context, spreadsheetID string, index int) (*sheets.SheetMetadata, error)
	CreateSheet(ctx context.Context, spreadsheetID, name string) (*sheets.SheetMetadata, error)
	GetValues(ctx context.Context, spreadsheetID string, rng sheets.A1Range) (*sheets.ValueRange, error)
	AppendValues(ctx context.Context, spreadsheetID string, rng sheets.A1Range, values [][]string) (*sheets.AppendValuesResponse, error)
	ClearValues(ctx context.Context, spreadsheetID string, rng sheets.A1Range) (*sheets.ClearValuesResponse, error)
}

var _ SheetsClient = (*MockSheetsClient)(nil)

// AppendCall records one AppendValues call
type AppendCall struct {
	SpreadsheetID string
	Range         string
	Values        [][]string
}

// MockSheetsClient is a test double for the sheets.Client. Sheet lookups
// search Sheets so lookups by id, name and index behave like the API.
type MockSheetsClient struct {
	// Fixture
	Sheets []sheets.SheetMetadata

	// Responses to return
	GetValuesResponse    *sheets.ValueRange
	CreateSheetResponse  *sheets.SheetMetadata
	AppendValuesResponse *sheets.AppendValuesResponse

	// Errors to return
	GetSheetError    error
	CreateSheetError error
	GetValuesError   error
	AppendError      error
	ClearError       error

	// Call tracking. Calls lists method names in order.
	Calls              []string
	CreateSheetCalled  bool
	GetValuesCalled    bool
	ClearValuesCalled  bool
	AppendValuesCalled bool

	// Call parameters tracking
	CreateSheetCalledWith struct {
		SpreadsheetID string
		Name          string
	}
	GetValuesCalledWith struct {
		SpreadsheetID string
		Range         string
	}
	ClearValuesCalledWith  []string
	AppendValuesCalledWith []AppendCall
}

// NewMockSheetsClient creates a new mock sheets client
func NewMockSheetsClient(sheetFixture ...sheets.SheetMetadata) *MockSheetsClient {
	return &MockSheetsClient{Sheets: sheetFixture}
}

// Sheet builds a fixture sheet
func Sheet(sheetID int64, title string, index int) sheets.SheetMetadata {
	return sheets.SheetMetadata{Properties: sheets.SheetProperties{
		SheetID:   sheetID,
		Title:     title,
		Index:     index,
		SheetType: sheets.SheetTypeGrid,
	}}
}

func (m *MockSheetsClient) find(key string, match func(sheets.SheetProperties) bool) (*sheets.SheetMetadata, error) {
	if m.GetSheetError != nil {
		return nil, m.GetSheetError
	}
	for i := range m.Sheets {
		if match(m.Sheets[i].Properties) {
			return &m.Sheets[i], nil
		}
	}
	return nil, &sheets.SheetNotFoundError{Key: key}
}

func (m *MockSheetsClient) GetSheetByID(ctx context.Context, spreadsheetID string, sheetID int64) (*sheets.SheetMetadata, error) {
	m.Calls = append(m.Calls, "GetSheetByID")
	return m.find(fmt.Sprintf("sheetId=%d", sheetID), func(p sheets.SheetProperties) bool {
		return p.SheetID == sheetID
	})
}

func (m *MockSheetsClient) GetSheetByName(ctx context.Context, spreadsheetID, name string) (*sheets.SheetMetadata, error) {
	m.Calls = append(m.Calls, "GetSheetByName")
	return m.find(fmt.Sprintf("title=%q", name), func(p sheets.SheetProperties) bool {
		return p.Title == name
	})
}

func (m *MockSheetsClient) GetSheetByIndex(ctx context.Context, spreadsheetID string, index int) (*sheets.SheetMetadata, error) {
	m.Calls = append(m.Calls, "GetSheetByIndex")
	return m.find(fmt.Sprintf("index=%d", index), func(p sheets.SheetProperties) bool {
		return p.Index == index
	})
}

func (m *MockSheetsClient) CreateSheet(ctx context.Context, spreadsheetID, name string) (*sheets.SheetMetadata, error) {
	m.Calls = append(m.Calls, "CreateSheet")
	m.CreateSheetCalled = true
	m.CreateSheetCalledWith.SpreadsheetID = spreadsheetID
	m.CreateSheetCalledWith.Name = name
	if m.CreateSheetError != nil {
		return nil, m.CreateSheetError
	}
	if m.CreateSheetResponse != nil {
		return m.CreateSheetResponse, nil
	}
	created := Sheet(int64(1000+len(m.Sheets)), name, len(m.Sheets))
	m.Sheets = append(m.Sheets, created)
	return &created, nil
}

func (m *MockSheetsClient) GetValues(ctx context.Context, spreadsheetID string, rng sheets.A1Range) (*sheets.ValueRange, error) {
	m.Calls = append(m.Calls, "GetValues")
	m.GetValuesCalled = true
	m.GetValuesCalledWith.SpreadsheetID = spreadsheetID
	m.GetValuesCalledWith.Range = rng.String()
	if m.GetValuesError != nil {
		return nil, m.GetValuesError
	}
	if m.GetValuesResponse == nil {
		return &sheets.ValueRange{Range: rng.String()}, nil
	}
	return m.GetValuesResponse, nil
}

func (m *MockSheetsClient) AppendValues(ctx context.Context, spreadsheetID string, rng sheets.A1Range, values [][]string) (*sheets.AppendValuesResponse, error) {
	m.Calls = append(m.Calls, "AppendValues")
	m.AppendValuesCalled = true
	m.AppendValuesCalledWith = append(m.AppendValuesCalledWith, AppendCall{
		SpreadsheetID: spreadsheetID,
		Range:         rng.String(),
		Values:        values,
	})
	if m.AppendError != nil {
		return nil, m.AppendError
	}
	if m.AppendValuesResponse != nil {
		return m.AppendValuesResponse, nil
	}
	return &sheets.AppendValuesResponse{
		SpreadsheetID: spreadsheetID,
		Updates:       sheets.UpdateValuesResponse{UpdatedRows: len(values)},
	}, nil
}

func (m *MockSheetsClient) ClearValues(ctx context.Context, spreadsheetID string, rng sheets.A1Range) (*sheets.ClearValuesResponse, error) {
	m.Calls = append(m.Calls, "ClearValues")
	m.ClearValuesCalled = true
	m.ClearValuesCalledWith = append(m.ClearValuesCalledWith, rng.String())
	if m.ClearError != nil {
		return nil, m.ClearError
	}
	return &sheets.ClearValuesResponse{SpreadsheetID: spreadsheetID, ClearedRange: rng.String()}, nil
}
