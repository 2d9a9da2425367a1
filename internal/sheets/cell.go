package sheets

import (
	"fmt"
	"strconv"
)

// Cell provides type-safe access to a single sheet value.
// Values arrive from JSON or from the caller's rows as interface{}; this type
// keeps interface{} at the boundary and gives typed accessors to the rest of
// the codebase.
type Cell struct {
	raw interface{}
}

// NewCell creates a Cell from a raw value
func NewCell(raw interface{}) Cell {
	return Cell{raw: raw}
}

// String returns the value as the Sheets API expects it. nil becomes "".
func (c Cell) String() string {
	switch v := c.raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", c.raw)
	}
}

// Float64 parses the value as a number. The whole string must parse.
func (c Cell) Float64() (float64, bool) {
	switch v := c.raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// Bool reports the value of a TRUE/FALSE cell. Sheets renders booleans in
// upper case; anything else is not a boolean.
func (c Cell) Bool() (bool, bool) {
	switch v := c.raw.(type) {
	case bool:
		return v, true
	case string:
		switch v {
		case "TRUE":
			return true, true
		case "FALSE":
			return false, true
		}
	}
	return false, false
}

// IsEmpty returns true if the cell contains nil or empty string
func (c Cell) IsEmpty() bool {
	return c.raw == nil || c.raw == ""
}
