// Package xlsx encodes a workbook as an Office Open XML spreadsheet.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"bilancio/internal/sheets"
)

// ContentType is the MIME type of an .xlsx file.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Encode writes wb to w. Sheets are created in workbook order; the header
// row of each sheet is bold.
func Encode(w io.Writer, wb sheets.Workbook) error {
	if len(wb.Sheets) == 0 {
		return sheets.ErrEmptyLedger
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, sh := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.Name); err != nil {
				return fmt.Errorf("rename sheet %q: %w", sh.Name, err)
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("create sheet %q: %w", sh.Name, err)
		}

		for r, row := range sh.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return fmt.Errorf("cell name for row %d: %w", r+1, err)
			}
			if err := f.SetSheetRow(sh.Name, cell, &row); err != nil {
				return fmt.Errorf("write %s row %d: %w", sh.Name, r+1, err)
			}
		}
		if len(sh.Rows) > 0 {
			if err := f.SetRowStyle(sh.Name, 1, 1, bold); err != nil {
				return fmt.Errorf("style %s header: %w", sh.Name, err)
			}
		}
		if err := f.SetColWidth(sh.Name, "A", "D", 22); err != nil {
			return fmt.Errorf("size %s columns: %w", sh.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// FileWriter saves workbooks into a directory. Each file name is prefixed
// with the write time so repeated exports do not overwrite each other.
type FileWriter struct {
	Dir string
	Now func() time.Time
}

var _ sheets.WorkbookWriter = (*FileWriter)(nil)

func NewFileWriter(dir string) *FileWriter {
	return &FileWriter{Dir: dir, Now: time.Now}
}

// WriteWorkbook implements sheets.WorkbookWriter and returns the file path.
func (fw *FileWriter) WriteWorkbook(ctx context.Context, wb sheets.Workbook) (string, error) {
	if err := os.MkdirAll(fw.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	now := time.Now
	if fw.Now != nil {
		now = fw.Now
	}
	name := wb.FileName
	if name == "" {
		name = sheets.FileName
	}
	path := filepath.Join(fw.Dir, now().UTC().Format("20060102T150405")+"_"+name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, wb); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}

	slog.InfoContext(ctx, "Workbook saved", "path", path, "sheets", len(wb.Sheets))
	return path, nil
}
