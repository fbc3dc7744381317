// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ExportCSV writes the currently displayed rows as comma-separated text.
// Fields containing the delimiter are quoted, others are not (encoding/csv's
// minimal quoting). Export never triggers a fetch: only the already-loaded
// page is written, and with no result set loaded it is ErrNoResult.
func (c *Console) ExportCSV(w io.Writer) error {
	result := c.Result()
	if !result.Tabular() {
		return ErrNoResult
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(result.Columns); err != nil {
		return err
	}
	for _, row := range result.Rows {
		record := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			record[i] = FormatValue(row[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportXLSX writes the currently displayed rows as an Excel workbook.
func (c *Console) ExportXLSX(path string) error {
	result := c.Result()
	if !result.Tabular() {
		return ErrNoResult
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range result.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	for r, row := range result.Rows {
		for i, col := range result.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, FormatValue(row[col])); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

// FormatValue renders one cell. NULL (absent key or JSON null) renders
// distinctly from an empty string.
func FormatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}
