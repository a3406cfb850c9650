package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"docqa/internal/domain"
)

const (
	questionColumn = "Question"
	answerColumn   = "Answer"
	// missingCell is how an absent cell renders in the fallback layout.
	missingCell = "nan"
)

// XLSX reads the first worksheet of an Office Open XML workbook.
func XLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %v: %w", err, domain.ErrDecodeFailure)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %q: %v: %w", sheets[0], err, domain.ErrDecodeFailure)
	}
	return RenderTable(rows), nil
}

// XLS reads the first worksheet of a legacy BIFF workbook.
func XLS(data []byte) (text string, err error) {
	// The BIFF reader panics on truncated or corrupt streams.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read xls: %v: %w", r, domain.ErrDecodeFailure)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return "", fmt.Errorf("open xls: %v: %w", err, domain.ErrDecodeFailure)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return "", nil
	}
	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheetRow(sheet, i)
		if row == nil {
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return RenderTable(rows), nil
}

// sheetRow returns nil for rows the workbook never stored. The BIFF reader
// dereferences the missing row before handing it back.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// RenderTable renders sheet rows, the first of which is the header.
//
// With "Question" and "Answer" header cells every data row becomes
// "{n}. {question}?\n{answer}", numbered from 1, which is the layout the pair
// parser reads. Otherwise each data row is its cells joined by spaces; that
// layout is kept for compatibility although it rarely yields any pairs.
// Rows without any content are dropped before the header is chosen.
func RenderTable(rows [][]string) string {
	rows = dropEmptyRows(rows)
	if len(rows) == 0 {
		return ""
	}
	header, body := rows[0], rows[1:]

	qi, ai := columnIndex(header, questionColumn), columnIndex(header, answerColumn)
	lines := make([]string, 0, len(body))
	if qi >= 0 && ai >= 0 {
		for i, row := range body {
			q := strings.TrimSpace(cell(row, qi))
			a := strings.TrimSpace(cell(row, ai))
			lines = append(lines, fmt.Sprintf("%d. %s?\n%s", i+1, q, a))
		}
		return strings.Join(lines, "\n")
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	for _, row := range body {
		cells := make([]string, width)
		for j := range cells {
			cells[j] = cell(row, j)
			if cells[j] == "" {
				cells[j] = missingCell
			}
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func dropEmptyRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		for _, c := range row {
			if c != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
