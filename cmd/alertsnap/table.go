package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/joacominatel/alertsnap/internal/database"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
)

func validateFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	default:
		return fmt.Errorf("Invalid format %q", format)
	}
}

func renderTable(w io.Writer, header []string, data [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	table.AppendBulk(data)
	table.Render()
}

// renderResult prints a statement outcome. In JSON a row is an object keyed
// by column with NULL as null.
func renderResult(w io.Writer, format string, result *database.QueryResult) error {
	if format == formatJSON {
		return renderResultJSON(w, result)
	}

	if !result.HasRows {
		_, err := fmt.Fprintf(w, "Rows affected: %d\n", result.UpdateCount)
		return err
	}

	renderTable(w, result.Columns, result.StringRows())
	_, err := fmt.Fprintf(w, "%d row(s) in %s\n", result.RowCount, result.Duration)
	return err
}

type jsonRow struct {
	columns []string
	cells   []database.Cell
}

// MarshalJSON keeps the column order of the result.
func (r jsonRow) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, col := range r.columns {
		if i > 0 {
			buf = append(buf, ',')
		}

		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}

		cell := database.Null
		if i < len(r.cells) {
			cell = r.cells[i]
		}

		val, err := json.Marshal(cell)
		if err != nil {
			return nil, err
		}

		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}

	return append(buf, '}'), nil
}

func renderResultJSON(w io.Writer, result *database.QueryResult) error {
	var out any
	if result.HasRows {
		rows := make([]jsonRow, len(result.Rows))
		for i, cells := range result.Rows {
			rows[i] = jsonRow{columns: result.Columns, cells: cells}
		}

		out = struct {
			Columns []string  `json:"columns"`
			Rows    []jsonRow `json:"rows"`
		}{result.Columns, rows}
	} else {
		out = struct {
			RowsAffected int64 `json:"rowsAffected"`
		}{result.UpdateCount}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
