package sheets

import "context"

// Ports for outbound adapters.
type (
	// WorkbookWriter stores a finished workbook somewhere outside the process
	// and returns a reference to it (a file path, a spreadsheet URL).
	WorkbookWriter interface {
		WriteWorkbook(ctx context.Context, wb Workbook) (ref string, err error)
	}
)
