package formatter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/tordrt/sdbgen/internal/model"
)

const maxSheetName = 31

// XLSXFormatter writes the model as a data dictionary workbook: a Models
// sheet listing the aggregate and one sheet per model listing its fields.
type XLSXFormatter struct {
	writer io.Writer
}

// NewXLSXFormatter creates a new workbook formatter
func NewXLSXFormatter(w io.Writer) *XLSXFormatter {
	return &XLSXFormatter{writer: w}
}

// Format writes the workbook
func (f *XLSXFormatter) Format(m *model.Model) error {
	wb, err := Workbook(m)
	if err != nil {
		return err
	}
	if _, err := wb.WriteTo(f.writer); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Workbook builds the data dictionary for m
func Workbook(m *model.Model) (*excelize.File, error) {
	wb := excelize.NewFile()
	header, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	names := newSheetNames()
	overview := names.claim(m.Aggregate.Name)
	wb.SetSheetName("Sheet1", overview)

	rows := [][]interface{}{{"Namespace", "Database", "Model", "Table", "Fields"}}
	for _, table := range m.Tables {
		rows = append(rows, []interface{}{
			m.Aggregate.Namespace, m.Aggregate.Database, table.TypeName, table.Name, len(table.Fields),
		})
	}
	if err := writeSheet(wb, overview, rows, header); err != nil {
		return nil, err
	}

	for _, table := range m.Tables {
		sheet := names.claim(table.TypeName)
		wb.NewSheet(sheet)

		rows := [][]interface{}{{"Field", "Type", "Kind", "References"}}
		for _, field := range table.Fields {
			target, _ := field.Type.LinkTarget()
			rows = append(rows, []interface{}{field.Name, field.Type.String(), field.Type.Kind.String(), target})
		}
		if err := writeSheet(wb, sheet, rows, header); err != nil {
			return nil, err
		}
	}

	return wb, nil
}

func writeSheet(wb *excelize.File, sheet string, rows [][]interface{}, header int) error {
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := wb.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}

	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	if err := wb.SetCellStyle(sheet, "A1", last, header); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	return nil
}

// sheetNames hands out unique sheet names within the length limit
type sheetNames map[string]bool

func newSheetNames() sheetNames {
	return make(sheetNames)
}

func (s sheetNames) claim(name string) string {
	if name == "" {
		name = "Sheet"
	}
	candidate := truncate(name, maxSheetName)
	for i := 2; s[candidate]; i++ {
		suffix := "_" + strconv.Itoa(i)
		candidate = truncate(name, maxSheetName-len(suffix)) + suffix
	}
	s[candidate] = true
	return candidate
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
