package processing

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const spreadsheetURLMarker = "docs.google.com/spreadsheets/d/"

var (
	spreadsheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	sheetIDPattern       = regexp.MustCompile(`gid=([0-9]+)`)
	sheetRangePattern    = regexp.MustCompile(`range=([^&#]+)`)
)

// InputError reports input that cannot be read or written, such as a bad URL
// or an empty range. It is never retried.
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

func inputErrorf(format string, args ...interface{}) *InputError {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

// ExtractSpreadsheetID returns the spreadsheet id from a Sheets URL. Input
// without a slash is taken to be a bare id.
func ExtractSpreadsheetID(input string) (string, error) {
	if input != "" && !strings.Contains(input, "/") {
		return input, nil
	}
	if strings.Contains(input, spreadsheetURLMarker) {
		if match := spreadsheetIDPattern.FindStringSubmatch(input); match != nil {
			return match[1], nil
		}
	}
	return "", inputErrorf("invalid Google Sheets URL or ID: %q", input)
}

// ExtractSheetID returns the gid of a Sheets URL, or "" when there is none
func ExtractSheetID(input string) string {
	if !strings.Contains(input, spreadsheetURLMarker) {
		return ""
	}
	if match := sheetIDPattern.FindStringSubmatch(input); match != nil {
		return match[1]
	}
	return ""
}

// ExtractSheetRange returns the URL-decoded range= value of a Sheets URL, or
// "" when there is none
func ExtractSheetRange(input string) string {
	if !strings.Contains(input, spreadsheetURLMarker) {
		return ""
	}
	match := sheetRangePattern.FindStringSubmatch(input)
	if match == nil {
		return ""
	}
	decoded, err := url.QueryUnescape(match[1])
	if err != nil {
		return match[1]
	}
	return decoded
}
