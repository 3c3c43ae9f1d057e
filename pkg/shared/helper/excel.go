package helper

import (
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteSheet builds a single sheet workbook with a bold header row.
func WriteSheet(sheet string, headers []string, rows [][]interface{}) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadSheet reads the first sheet and keys every data row by its header.
// Headers are matched case-insensitively and trimmed.
func ReadSheet(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, errors.New("no sheets found in the Excel file")
	}
	rows, err := f.GetRows(sheetList[0])
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.New("no data found in the Excel sheet")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	var result []map[string]string
	for _, row := range rows[1:] {
		data := make(map[string]string, len(headers))
		empty := true
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				empty = false
			}
			data[headers[i]] = cell
		}
		if !empty {
			result = append(result, data)
		}
	}
	return result, nil
}
