package processing

import (
	"fmt"
	"sort"

	"gsheets_io/internal/sheets"

	"github.com/spf13/cast"
)

// Option names accepted by the read and write paths
const (
	OptionHeader            = "header"
	OptionSheet             = "sheet"
	OptionRange             = "range"
	OptionAllVarchar        = "all_varchar"
	OptionOverwriteSheet    = "overwrite_sheet"
	OptionOverwriteRange    = "overwrite_range"
	OptionCreateIfNotExists = "create_if_not_exists"
)

// BindError reports an option that is missing, unknown or of the wrong type.
type BindError struct {
	Option string
	Reason string
	Err    error
}

func (e *BindError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s option %s: %v", e.Option, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s option %s", e.Option, e.Reason)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// ReadOptions controls how a sheet is read into a Table
type ReadOptions struct {
	Header     bool
	Sheet      string
	Range      string
	AllVarchar bool
}

// DefaultReadOptions returns the read defaults: header on, typed columns
func DefaultReadOptions() ReadOptions {
	return ReadOptions{Header: true}
}

// WriteOptions controls how rows are exported to a sheet
type WriteOptions struct {
	Sheet             string
	Range             string
	OverwriteSheet    bool
	OverwriteRange    bool
	CreateIfNotExists bool
	Header            bool
}

func bindBool(option string, value interface{}) (bool, error) {
	if value == nil {
		return false, &BindError{Option: option, Reason: "must be a non-null boolean"}
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return false, &BindError{Option: option, Reason: "must be a single boolean value", Err: err}
	}
	return b, nil
}

func bindString(option string, value interface{}) (string, error) {
	if value == nil {
		return "", &BindError{Option: option, Reason: "must be a non-null VARCHAR"}
	}
	switch value.(type) {
	case bool, []interface{}, []string, map[string]interface{}:
		return "", &BindError{Option: option, Reason: "must be a VARCHAR"}
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", &BindError{Option: option, Reason: "must be a VARCHAR", Err: err}
	}
	return s, nil
}

func checkRange(option, value string) error {
	if value == "" {
		return nil
	}
	rng := sheets.NewA1Range(value)
	if !rng.IsValid() {
		return &BindError{Option: option, Reason: "is not valid A1 notation", Err: &sheets.RangeError{Range: value}}
	}
	return nil
}

func unknownOption(name string, allowed ...string) error {
	sort.Strings(allowed)
	return &BindError{Option: name, Reason: fmt.Sprintf("is not supported (expected one of %v)", allowed)}
}

// splitSheetOption separates a sheet option that embeds a !range suffix.
// An explicit range option still takes precedence over the embedded one.
func splitSheetOption(sheet, rng string) (string, string, error) {
	name, cells := sheets.SplitSheetRange(sheet)
	if name == "" {
		return "", "", &BindError{Option: OptionSheet, Reason: "must name a sheet"}
	}
	if rng == "" {
		rng = cells
	}
	if err := checkRange(OptionSheet, cells); err != nil {
		return "", "", err
	}
	return name, rng, nil
}

// BindReadOptions casts engine-style named options into ReadOptions.
func BindReadOptions(named map[string]interface{}) (ReadOptions, error) {
	opts := DefaultReadOptions()
	var err error

	for name, value := range named {
		switch name {
		case OptionHeader:
			opts.Header, err = bindBool(name, value)
		case OptionAllVarchar:
			opts.AllVarchar, err = bindBool(name, value)
		case OptionSheet:
			opts.Sheet, err = bindString(name, value)
		case OptionRange:
			opts.Range, err = bindString(name, value)
		default:
			err = unknownOption(name, OptionHeader, OptionAllVarchar, OptionSheet, OptionRange)
		}
		if err != nil {
			return ReadOptions{}, err
		}
	}

	if err := checkRange(OptionRange, opts.Range); err != nil {
		return ReadOptions{}, err
	}
	if opts.Sheet != "" {
		if opts.Sheet, opts.Range, err = splitSheetOption(opts.Sheet, opts.Range); err != nil {
			return ReadOptions{}, err
		}
	}
	return opts, nil
}

// BindWriteOptions casts engine-style named options into WriteOptions.
// overwrite_sheet defaults to true. header defaults to true only when the
// write overwrites existing data.
func BindWriteOptions(named map[string]interface{}) (WriteOptions, error) {
	opts := WriteOptions{OverwriteSheet: true}
	headerSet := false
	var err error

	for name, value := range named {
		switch name {
		case OptionSheet:
			opts.Sheet, err = bindString(name, value)
		case OptionRange:
			opts.Range, err = bindString(name, value)
		case OptionOverwriteSheet:
			opts.OverwriteSheet, err = bindBool(name, value)
		case OptionOverwriteRange:
			opts.OverwriteRange, err = bindBool(name, value)
		case OptionCreateIfNotExists:
			opts.CreateIfNotExists, err = bindBool(name, value)
		case OptionHeader:
			opts.Header, err = bindBool(name, value)
			headerSet = true
		default:
			err = unknownOption(name, OptionSheet, OptionRange, OptionOverwriteSheet,
				OptionOverwriteRange, OptionCreateIfNotExists, OptionHeader)
		}
		if err != nil {
			return WriteOptions{}, err
		}
	}

	if !headerSet {
		opts.Header = opts.OverwriteSheet || opts.OverwriteRange
	}
	if err := checkRange(OptionRange, opts.Range); err != nil {
		return WriteOptions{}, err
	}
	if opts.Sheet != "" {
		if opts.Sheet, opts.Range, err = splitSheetOption(opts.Sheet, opts.Range); err != nil {
			return WriteOptions{}, err
		}
	}
	if opts.CreateIfNotExists && opts.Sheet == "" {
		return WriteOptions{}, &BindError{Option: OptionCreateIfNotExists, Reason: "requires the sheet option"}
	}
	return opts, nil
}
