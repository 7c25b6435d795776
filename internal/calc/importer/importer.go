// Package importer reads parameter rows from a spreadsheet and writes the
// solved rows back out.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"Thermo/internal/calc/batch"
	"Thermo/internal/calc/cycle"
)

const ResultSheet = "Resultados"

var ErrEmptySheet = errors.New("sheet has no data rows")

// Sheet is a parsed parameter table. Header holds the parameter keys.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// Read parses the first sheet of an xlsx workbook. The first row names the
// parameters; blank cells leave that parameter unset for the row.
func Read(r io.Reader) (Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Sheet{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Sheet{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return Sheet{}, ErrEmptySheet
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}
	var data [][]string
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		data = append(data, row)
	}
	if len(data) == 0 {
		return Sheet{}, ErrEmptySheet
	}
	return Sheet{Header: header, Rows: data}, nil
}

// Params turns every row into a parameter set keyed by the header.
func (s Sheet) Params() []cycle.Params {
	out := make([]cycle.Params, len(s.Rows))
	for i, row := range s.Rows {
		p := cycle.Params{}
		for j, cell := range row {
			if j >= len(s.Header) || s.Header[j] == "" {
				continue
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				p[s.Header[j]] = cell
			}
		}
		out[i] = p
	}
	return out
}

// Write renders the input rows with one column per result metric appended,
// plus an error column for rows that failed.
func Write(w io.Writer, s Sheet, res batch.Result) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), ResultSheet); err != nil {
		return err
	}

	cols := metricColumns(res)
	header := make([]any, 0, len(s.Header)+len(cols)+1)
	for _, h := range s.Header {
		header = append(header, h)
	}
	for _, c := range cols {
		header = append(header, c.title)
	}
	header = append(header, "error")
	if err := f.SetSheetRow(ResultSheet, "A1", &header); err != nil {
		return err
	}

	for i, item := range res.Items {
		row := make([]any, 0, len(header))
		for j := range s.Header {
			row = append(row, cellAt(s.Rows[i], j))
		}
		for _, c := range cols {
			row = append(row, metricCell(item, c.key))
		}
		if item.Error != nil {
			row = append(row, item.Error.Error)
		} else {
			row = append(row, "")
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ResultSheet, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}

type column struct {
	key, title string
}

// metricColumns collects the metric keys of all solved rows in first-seen
// order.
func metricColumns(res batch.Result) []column {
	seen := map[string]bool{}
	var cols []column
	for _, item := range res.Items {
		if item.Result == nil {
			continue
		}
		for _, m := range item.Result.Report.Metrics {
			if seen[m.Key] {
				continue
			}
			seen[m.Key] = true
			title := m.Label
			if m.Unit != "" {
				title += " (" + m.Unit + ")"
			}
			cols = append(cols, column{key: m.Key, title: title})
		}
	}
	return cols
}

func metricCell(item batch.Item, key string) any {
	if item.Result == nil {
		return ""
	}
	m, ok := item.Result.Report.Metric(key)
	if !ok {
		return ""
	}
	if m.Text != "" {
		return m.Text
	}
	return m.Value
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
