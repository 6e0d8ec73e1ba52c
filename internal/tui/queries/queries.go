// Package queries is the saved query list pane.
package queries

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joacominatel/alertsnap/internal/savedquery"
	"github.com/joacominatel/alertsnap/internal/tui/theme"
)

// LoadQueryMsg asks the app to put a saved query in the editor.
type LoadQueryMsg struct {
	Query savedquery.Query
}

// DeleteQueryMsg asks the app to remove a saved query.
type DeleteQueryMsg struct {
	Query savedquery.Query
}

// Model is the saved query list component.
type Model struct {
	items   []savedquery.Query
	cursor  int
	width   int
	height  int
	focused bool
	loading bool
}

// New creates a new query list model.
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

// SetQueries replaces the listed queries.
func (m *Model) SetQueries(items []savedquery.Query) {
	m.items = items
	m.loading = false
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

// Selected returns the query under the cursor.
func (m Model) Selected() (savedquery.Query, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return savedquery.Query{}, false
	}
	return m.items[m.cursor], true
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter":
		if q, ok := m.Selected(); ok {
			return m, func() tea.Msg { return LoadQueryMsg{Query: q} }
		}
	case "d", "delete":
		if q, ok := m.Selected(); ok {
			return m, func() tea.Msg { return DeleteQueryMsg{Query: q} }
		}
	}

	return m, nil
}

// View renders the list.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := titleStyle.Render("Saved Queries")

	if m.loading {
		return title + "\n" + theme.StyleMuted.Render("  Loading...")
	}

	if len(m.items) == 0 {
		return title + "\n" + theme.StyleMuted.Render("  None yet (Ctrl+S saves)")
	}

	var b strings.Builder
	b.WriteString(title)

	visibleHeight := (m.height - 2) / 2 // two lines per item
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	scrollOffset := 0
	if m.cursor >= visibleHeight {
		scrollOffset = m.cursor - visibleHeight + 1
	}

	for i := scrollOffset; i < len(m.items) && i < scrollOffset+visibleHeight; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderItem(m.items[i], i == m.cursor))
	}

	return b.String()
}

func (m Model) renderItem(q savedquery.Query, selected bool) string {
	name := truncate(q.Name, m.width-4)
	stamp := ""
	if !q.CreatedAt.IsZero() {
		stamp = q.CreatedAt.Format("2006-01-02 15:04")
	}

	if selected {
		name = theme.StyleSelected.Render("> " + name)
	} else {
		name = "  " + name
	}

	return name + "\n" + theme.StyleMuted.Render("    "+stamp)
}

func truncate(s string, width int) string {
	if width < 3 || lipgloss.Width(s) <= width {
		return s
	}

	runes := []rune(s)
	for lipgloss.Width(string(runes)) > width-2 && len(runes) > 0 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ".."
}
