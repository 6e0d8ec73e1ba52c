package queries

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/alertsnap/internal/savedquery"
)

func listWith(names ...string) Model {
	items := make([]savedquery.Query, len(names))
	for i, n := range names {
		items[i] = savedquery.New(n, "SELECT '"+n+"'")
	}

	m := New()
	m.SetSize(30, 20)
	m.SetFocused(true)
	m.SetQueries(items)
	return m
}

func TestEnterLoadsSelected(t *testing.T) {
	m := listWith("a", "b")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(LoadQueryMsg)
	require.True(t, ok)
	assert.Equal(t, "b", msg.Query.Name)
}

func TestDeleteSelected(t *testing.T) {
	m := listWith("a", "b")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.NotNil(t, cmd)

	msg, ok := cmd().(DeleteQueryMsg)
	require.True(t, ok)
	assert.Equal(t, "a", msg.Query.Name)
}

func TestCursorClampedAfterShrink(t *testing.T) {
	m := listWith("a", "b", "c")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})

	m.SetQueries([]savedquery.Query{savedquery.New("only", "SELECT 1")})
	q, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "only", q.Name)
}

func TestEmptyListHasNoActions(t *testing.T) {
	m := listWith()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "None yet")
}
