package processing

import (
	"errors"
	"testing"
)

func TestExtractSpreadsheetID(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"bare id", "1AbC-d_9", "1AbC-d_9", false},
		{"edit url", "https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0", "1AbC-d_9", false},
		{"url without scheme", "docs.google.com/spreadsheets/d/xyz/edit", "xyz", false},
		{"other site", "https://example.com/d/xyz", "", true},
		{"empty", "", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractSpreadsheetID(tc.input)
			if tc.wantErr {
				var inputErr *InputError
				if !errors.As(err, &inputErr) {
					t.Fatalf("Expected InputError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestExtractSheetID(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"https://docs.google.com/spreadsheets/d/abc/edit#gid=123", "123"},
		{"https://docs.google.com/spreadsheets/d/abc/edit?gid=0&range=A1", "0"},
		{"https://docs.google.com/spreadsheets/d/abc/edit", ""},
		{"abc", ""},
		{"https://example.com/?gid=5", ""},
	}

	for _, tc := range testCases {
		if got := ExtractSheetID(tc.input); got != tc.expected {
			t.Errorf("ExtractSheetID(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestExtractSheetRange(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"https://docs.google.com/spreadsheets/d/abc/edit?range=A1:B2", "A1:B2"},
		{"https://docs.google.com/spreadsheets/d/abc/edit?range=A1%3AC10&gid=4", "A1:C10"},
		{"https://docs.google.com/spreadsheets/d/abc/edit?gid=4#range=B2", "B2"},
		{"https://docs.google.com/spreadsheets/d/abc/edit", ""},
		{"range=A1", ""},
	}

	for _, tc := range testCases {
		if got := ExtractSheetRange(tc.input); got != tc.expected {
			t.Errorf("ExtractSheetRange(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}
