package export

import (
	"fmt"

	"github.com/KaramelBytes/moodmap-cli/internal/survey"
	"github.com/KaramelBytes/moodmap-cli/internal/utils"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes one sheet per aggregate table, header in row 1.
func WriteXLSX(path string, res *survey.Results) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, t := range Tables(res) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.Name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("add sheet %s: %w", t.Name, err)
		}
		if err := writeSheet(f, t); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, t Table) error {
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c.Name
	}
	if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
		return fmt.Errorf("sheet %s header: %w", t.Name, err)
	}
	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		vals := row
		if err := f.SetSheetRow(t.Name, cell, &vals); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", t.Name, r+2, err)
		}
	}
	last, err := excelize.ColumnNumberToName(len(t.Columns))
	if err != nil {
		return err
	}
	return f.SetColWidth(t.Name, "A", last, 18)
}
