package processing

import (
	"gsheets_io/internal/sheets"
)

// Compile-time interface compliance checks
// These will cause compilation errors if the types don't implement the interfaces

var (
	_ SheetsClientInterface = (*sheets.Client)(nil)
	_ SheetsClientInterface = (sheets.SheetsAPI)(nil)
	_ BatchWriter           = (*Writer)(nil)
)
