package results

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joacominatel/alertsnap/internal/database"
	"github.com/joacominatel/alertsnap/internal/tui/theme"
)

const maxColWidth = 40

// Model is the query results component.
type Model struct {
	result    *database.QueryResult
	lastQuery string
	err       error
	width     int
	height    int
	focused   bool
	scrollY   int
	cursorY   int
	cursorX   int
	loading   bool
	colWidths []int

	statusMessage string
}

// New creates a new results model.
func New() Model {
	return Model{}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// Loading reports whether a query is running.
func (m Model) Loading() bool {
	return m.loading
}

// SetResult sets the query result to display.
func (m *Model) SetResult(query string, r *database.QueryResult) {
	m.result = r
	m.lastQuery = query
	m.err = nil
	m.scrollY = 0
	m.cursorY = 0
	m.cursorX = 0
	m.loading = false
	m.calculateColumnWidths()
}

// SetError sets an error to display.
func (m *Model) SetError(err error) {
	m.err = err
	m.result = nil
	m.scrollY = 0
	m.cursorY = 0
	m.cursorX = 0
	m.loading = false
	m.colWidths = nil
}

// Reset clears the pane.
func (m *Model) Reset() {
	m.result = nil
	m.err = nil
	m.loading = false
	m.colWidths = nil
	m.lastQuery = ""
}

// Cursor returns the selected row and column.
func (m Model) Cursor() (row, col int) {
	return m.cursorY, m.cursorX
}

// TakeStatus returns and clears the message produced by the last action.
func (m *Model) TakeStatus() string {
	s := m.statusMessage
	m.statusMessage = ""
	return s
}

func (m *Model) calculateColumnWidths() {
	if m.result == nil || len(m.result.Columns) == 0 {
		m.colWidths = nil
		return
	}

	m.colWidths = make([]int, len(m.result.Columns))

	// Use display width (not byte length) for accurate measurement
	for i, col := range m.result.Columns {
		m.colWidths[i] = lipgloss.Width(col)
	}

	for _, row := range m.result.Rows {
		for i, cell := range row {
			w := lipgloss.Width(cell.String())
			if i < len(m.colWidths) && w > m.colWidths[i] {
				m.colWidths[i] = w
			}
		}
	}

	for i := range m.colWidths {
		if m.colWidths[i] < 1 {
			m.colWidths[i] = 1
		}
		if m.colWidths[i] > maxColWidth {
			m.colWidths[i] = maxColWidth
		}
	}
}

func (m Model) rowCount() int {
	if m.result == nil {
		return 0
	}
	return len(m.result.Rows)
}

func (m Model) colCount() int {
	if m.result == nil {
		return 0
	}
	return len(m.result.Columns)
}

func (m Model) visibleRows() int {
	v := m.height - 4
	if v < 1 {
		v = 1
	}
	return v
}

func (m *Model) moveCursor(dy int) {
	n := m.rowCount()
	if n == 0 {
		return
	}

	m.cursorY += dy
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.cursorY > n-1 {
		m.cursorY = n - 1
	}

	if m.cursorY < m.scrollY {
		m.scrollY = m.cursorY
	}
	if m.cursorY >= m.scrollY+m.visibleRows() {
		m.scrollY = m.cursorY - m.visibleRows() + 1
	}
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			m.moveCursor(-1)
		case "down", "j":
			m.moveCursor(1)
		case "pgup":
			m.moveCursor(-m.height / 2)
		case "pgdown":
			m.moveCursor(m.height / 2)
		case "home", "g":
			m.moveCursor(-m.rowCount())
		case "end", "G":
			m.moveCursor(m.rowCount())
		case "left", "h":
			if m.cursorX > 0 {
				m.cursorX--
			}
		case "right", "l":
			if m.cursorX < m.colCount()-1 {
				m.cursorX++
			}
		case "y":
			m.doCopyCell()
		case "Y":
			m.doCopyRowJSON()
		case "c":
			m.doCopyRowCSV()
		case "f":
			return m, m.doFilterByValue()
		}
	}

	if m.statusMessage != "" {
		status := m.TakeStatus()
		return m, func() tea.Msg {
			return StatusNotifyMsg{Message: status}
		}
	}

	return m, nil
}

// View renders the results pane.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	if m.loading {
		return titleStyle.Render("Results") + "\n" + theme.StyleMuted.Render("  Executing query...")
	}

	if m.err != nil {
		return titleStyle.Render("Results") + "\n" +
			theme.StyleError.Render("  Error: "+m.err.Error())
	}

	if m.result == nil {
		return titleStyle.Render("Results") + "\n" +
			theme.StyleMuted.Render("  Execute a query to see results")
	}

	if !m.result.HasRows {
		stats := m.result.Duration.Round(time.Microsecond).String()
		return titleStyle.Render("Results") + "  " + theme.StyleMuted.Render(stats) + "\n" +
			theme.StyleSuccess.Render(fmt.Sprintf("  Rows affected: %d", m.result.UpdateCount))
	}

	stats := fmt.Sprintf("%d row(s) | %s",
		m.result.RowCount,
		m.result.Duration.Round(time.Microsecond).String(),
	)
	header := titleStyle.Render("Results") + "  " +
		theme.StyleMuted.Render(stats)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSeparator())

	if len(m.result.Rows) == 0 {
		b.WriteString("\n")
		b.WriteString(theme.StyleMuted.Render("  (no rows)"))
		return b.String()
	}

	end := m.scrollY + m.visibleRows()
	for i := m.scrollY; i < len(m.result.Rows) && i < end; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderRow(i))
	}

	return b.String()
}

func (m Model) colWidth(i int) int {
	if i < len(m.colWidths) && m.colWidths[i] > 0 {
		return m.colWidths[i]
	}
	return 10
}

func (m Model) renderHeader() string {
	parts := make([]string, len(m.result.Columns))
	for i, col := range m.result.Columns {
		parts[i] = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorPrimary).
			Render(fit(col, m.colWidth(i)))
	}
	return "  " + strings.Join(parts, " │ ")
}

func (m Model) renderRow(rowIdx int) string {
	row := m.result.Rows[rowIdx]
	parts := make([]string, len(row))
	for i, cell := range row {
		display := fit(cell.String(), m.colWidth(i))

		style := lipgloss.NewStyle()
		if !cell.Valid {
			style = theme.StyleNull
		}
		if m.focused && rowIdx == m.cursorY {
			if i == m.cursorX {
				style = style.Reverse(true)
			} else {
				style = style.Foreground(theme.ColorHighlight)
			}
		}
		parts[i] = style.Render(display)
	}

	prefix := "  "
	if rowIdx == m.cursorY {
		prefix = "> "
	}
	return prefix + strings.Join(parts, " │ ")
}

// fit truncates or pads s to exactly width display cells.
func fit(s string, width int) string {
	if width < 1 {
		width = 1
	}

	s = strings.ReplaceAll(s, "\n", " ")
	display := s
	if lipgloss.Width(display) > width {
		runes := []rune(display)
		if width > 1 {
			for lipgloss.Width(string(runes)) >= width && len(runes) > 0 {
				runes = runes[:len(runes)-1]
			}
			display = string(runes) + "…"
		} else {
			display = "…"
		}
	}

	pad := width - lipgloss.Width(display)
	if pad > 0 {
		display += strings.Repeat(" ", pad)
	}
	return display
}

func (m Model) renderSeparator() string {
	parts := make([]string, len(m.colWidths))
	for i, w := range m.colWidths {
		if w < 1 {
			w = 1
		}
		parts[i] = strings.Repeat("─", w)
	}
	return "  " + lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Join(parts, "─┼─"))
}
