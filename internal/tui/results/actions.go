package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joacominatel/alertsnap/internal/database"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

func (m Model) selectedCell() (database.Cell, bool) {
	if m.result == nil || m.cursorY < 0 || m.cursorY >= len(m.result.Rows) {
		return database.Cell{}, false
	}
	row := m.result.Rows[m.cursorY]
	if m.cursorX < 0 || m.cursorX >= len(row) {
		return database.Cell{}, false
	}
	return row[m.cursorX], true
}

func (m Model) selectedRow() ([]database.Cell, bool) {
	if m.result == nil || m.cursorY < 0 || m.cursorY >= len(m.result.Rows) {
		return nil, false
	}
	return m.result.Rows[m.cursorY], true
}

func (m Model) selectedColumn() string {
	if m.result == nil || m.cursorX < 0 || m.cursorX >= len(m.result.Columns) {
		return ""
	}
	return m.result.Columns[m.cursorX]
}

func (m *Model) copyText(text, done string) {
	if err := writeClipboard(text); err != nil {
		m.statusMessage = "Copy failed: " + err.Error()
		return
	}
	m.statusMessage = done
}

// --- Copy ---

func (m *Model) doCopyCell() {
	cell, ok := m.selectedCell()
	if !ok {
		m.statusMessage = "Nothing to copy"
		return
	}
	m.copyText(cell.String(), "Copied: "+truncateStatus(cell.String(), 40))
}

func (m *Model) doCopyRowJSON() {
	row, ok := m.selectedRow()
	if !ok {
		m.statusMessage = "No row to copy"
		return
	}
	m.copyText(rowToJSON(m.result.Columns, row), "Copied row as JSON")
}

func (m *Model) doCopyRowCSV() {
	row, ok := m.selectedRow()
	if !ok {
		m.statusMessage = "No row to copy"
		return
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(m.result.Columns)
	line := make([]string, len(row))
	for i, c := range row {
		line[i] = c.String()
	}
	_ = w.Write(line)
	w.Flush()

	m.copyText(b.String(), "Copied row as CSV")
}

// --- Filter ---

// doFilterByValue puts a query selecting rows with the selected value in the editor.
func (m *Model) doFilterByValue() tea.Cmd {
	col := m.selectedColumn()
	cell, ok := m.selectedCell()
	table := extractTableName(m.lastQuery)
	if col == "" || !ok {
		m.statusMessage = "Cannot filter: no cell selected"
		return nil
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s", table, condition(col, cell))

	return func() tea.Msg {
		return SetEditorQueryMsg{Query: query}
	}
}

func condition(col string, cell database.Cell) string {
	if !cell.Valid {
		return col + " IS NULL"
	}
	escaped := strings.ReplaceAll(cell.Value, "'", "''")
	return fmt.Sprintf("%s = '%s'", col, escaped)
}

// --- Helpers ---

func extractTableName(query string) string {
	if query == "" {
		return "<table>"
	}
	tokens := strings.Fields(query)
	for i, tok := range tokens {
		upper := strings.ToUpper(tok)
		if (upper == "FROM" || upper == "INTO" || upper == "UPDATE") && i+1 < len(tokens) {
			name := strings.TrimRight(tokens[i+1], ";,()")
			if name != "" {
				return name
			}
		}
	}
	return "<table>"
}

// rowToJSON preserves column order unlike map marshaling.
func rowToJSON(columns []string, row []database.Cell) string {
	var b strings.Builder
	b.WriteString("{")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		key, _ := json.Marshal(col)
		b.Write(key)
		b.WriteString(": ")
		if i < len(row) {
			val, _ := json.Marshal(row[i])
			b.Write(val)
		} else {
			b.WriteString("null")
		}
	}
	b.WriteString("}")
	return b.String()
}

func truncateStatus(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
