package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatKeywords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"select id from users where name = 'select'", "SELECT id FROM users WHERE name = 'select'"},
		{"delete from t", "DELETE FROM t"},
		{`select "from" from dual`, `SELECT "from" FROM DUAL`},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatKeywords(tt.in))
	}
}

func TestExecuteKey(t *testing.T) {
	m := New()
	m.SetFocused(true)
	m.SetQuery("  SELECT 1  ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	require.NotNil(t, cmd)
	assert.Equal(t, ExecuteQueryMsg{Query: "SELECT 1"}, cmd())
}

func TestSaveKey(t *testing.T) {
	m := New()
	m.SetFocused(true)
	m.SetQuery("SELECT 2")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Equal(t, SaveQueryMsg{Query: "SELECT 2"}, cmd())
}

func TestEmptyEditorDoesNothing(t *testing.T) {
	m := New()
	m.SetFocused(true)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Nil(t, cmd)
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	m := New()
	m.SetQuery("SELECT 1")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	assert.Nil(t, cmd)
}

func TestOpenSavedQuery(t *testing.T) {
	m := New()
	m.SetFocused(true)
	m.Open("users", "SELECT * FROM users")

	assert.Equal(t, "users", m.Name())
	assert.False(t, m.Modified())
	assert.Equal(t, "Query Editor: users", m.Title())
	assert.Contains(t, m.View(), "Query Editor: users")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	assert.Equal(t, SaveQueryMsg{Name: "users", Query: "SELECT * FROM users"}, cmd())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(" ")})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.True(t, m.Modified())
	assert.Equal(t, "Query Editor: users *", m.Title())
}

func TestSetQueryForgetsName(t *testing.T) {
	m := New()
	m.Open("users", "SELECT 1")

	m.SetQuery("SELECT 2")
	assert.Empty(t, m.Name())
	assert.Equal(t, "Query Editor", m.Title())
	assert.True(t, m.Modified())

	m.Open("users", "SELECT 1")
	m.Clear()
	assert.Empty(t, m.Name())
	assert.False(t, m.Modified())
}
