package sheets

import "strings"

// A1Range is a range in A1 notation, e.g. Sheet1!A1:B2 or 'My Sheet'!$A$1.
// Validity is recomputed on every call to IsValid.
type A1Range struct {
	raw string
}

// NewA1Range wraps s without validating it
func NewA1Range(s string) A1Range {
	return A1Range{raw: s}
}

func (r A1Range) String() string {
	return r.raw
}

type rangeState int

const (
	stateStart rangeState = iota
	stateSheetNameQuoted
	stateSheetNameComplete
	stateSheetSeparator
	stateColAbsolute // after a leading '$', a column letter must follow
	stateCol
	stateRowAbsolute // after a '$' following letters, a digit must follow
	stateRow
	stateRangeSeparator
	stateError
)

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// IsValid reports whether the range follows A1 grammar:
//
//	range   := [ "'" sheetname "'" | sheetname ] [ "!" cellref ] | cellref
//	cellref := ref [ ":" ref ]
//	ref     := ["$"] COL* ["$"] DIGIT*
//
// A quoted sheet name escapes a quote by doubling it. At most one '!' and one
// ':' are allowed, and '!' cannot follow ':'.
func (r A1Range) IsValid() bool {
	s := r.raw
	if s == "" {
		return false
	}

	state := stateStart
	seenBang := false
	seenColon := false
	// a '$' in the current token rules out reading it as an unquoted sheet name
	tokenHasDollar := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch state {
		case stateStart, stateSheetSeparator, stateRangeSeparator:
			switch {
			case c == '\'' && state == stateStart:
				state = stateSheetNameQuoted
			case c == '$':
				tokenHasDollar = true
				state = stateColAbsolute
			case isLetter(c):
				state = stateCol
			case isDigit(c):
				state = stateRow
			default:
				state = stateError
			}

		case stateSheetNameQuoted:
			if c == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					i++
				} else {
					state = stateSheetNameComplete
				}
			}

		case stateSheetNameComplete:
			if c == '!' && !seenBang {
				seenBang = true
				state = stateSheetSeparator
			} else {
				state = stateError
			}

		case stateColAbsolute:
			if isLetter(c) {
				state = stateCol
			} else {
				state = stateError
			}

		case stateCol:
			switch {
			case isLetter(c):
			case isDigit(c):
				state = stateRow
			case c == '$':
				tokenHasDollar = true
				state = stateRowAbsolute
			case c == '!' && !seenBang && !seenColon && !tokenHasDollar:
				seenBang = true
				state = stateSheetSeparator
			case c == ':' && !seenColon:
				seenColon = true
				tokenHasDollar = false
				state = stateRangeSeparator
			default:
				state = stateError
			}

		case stateRowAbsolute:
			if isDigit(c) {
				state = stateRow
			} else {
				state = stateError
			}

		case stateRow:
			switch {
			case isDigit(c):
			case c == ':' && !seenColon:
				seenColon = true
				tokenHasDollar = false
				state = stateRangeSeparator
			case c == '!' && !seenBang && !seenColon && !tokenHasDollar:
				seenBang = true
				state = stateSheetSeparator
			default:
				state = stateError
			}

		case stateError:
			return false
		}
	}

	return state == stateCol || state == stateRow || state == stateSheetNameComplete
}

// maxColumnLetters is the width of the last column, XFD.
const maxColumnLetters = 3

// QuoteSheetName returns name as it must appear before '!'. Only names of
// more than maxColumnLetters ASCII letters, optionally followed by digits
// (Sheet1), stay bare. Shorter ones such as Q1 or Log read as a cell or
// column reference, so they are quoted like everything else, with inner
// quotes doubled.
func QuoteSheetName(name string) string {
	i := 0
	for i < len(name) && isLetter(name[i]) {
		i++
	}
	letters := i
	for i < len(name) && isDigit(name[i]) {
		i++
	}
	if letters > maxColumnLetters && i == len(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// NewSheetRange builds sheet!cells, or just the sheet when cells is empty.
func NewSheetRange(sheet, cells string) A1Range {
	if sheet == "" {
		return NewA1Range(cells)
	}
	if cells == "" {
		return NewA1Range(QuoteSheetName(sheet))
	}
	return NewA1Range(QuoteSheetName(sheet) + "!" + cells)
}

// SplitSheetRange splits a sheet option that may carry a !range suffix, e.g.
// "'My Sheet'!A1:B2" or "Data!A:C". The sheet name is returned unquoted.
func SplitSheetRange(value string) (sheet, cells string) {
	if strings.HasPrefix(value, "'") {
		var b strings.Builder
		for i := 1; i < len(value); i++ {
			if value[i] != '\'' {
				b.WriteByte(value[i])
				continue
			}
			if i+1 < len(value) && value[i+1] == '\'' {
				b.WriteByte('\'')
				i++
				continue
			}
			rest := value[i+1:]
			if strings.HasPrefix(rest, "!") {
				return b.String(), rest[1:]
			}
			return b.String(), ""
		}
		// unterminated quote: treat the whole value as a name
		return value, ""
	}

	if idx := strings.Index(value, "!"); idx >= 0 {
		return value[:idx], value[idx+1:]
	}
	return value, ""
}
