package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/joacominatel/alertsnap/internal/profile"
	"github.com/joacominatel/alertsnap/internal/tui/theme"
)

const (
	fieldName = iota
	fieldEngine
	fieldURL
	fieldUsername
	fieldPassword
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldName:     "Name",
	fieldEngine:   "Type",
	fieldURL:      "URL",
	fieldUsername: "Username",
	fieldPassword: "Password",
}

// profileForm collects a new connection profile.
type profileForm struct {
	inputs []textinput.Model
	focus  int
}

func newProfileForm() profileForm {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 500
		ti.Width = 60
		inputs[i] = ti
	}

	inputs[fieldName].Placeholder = "local-dev"
	inputs[fieldEngine].Placeholder = engineChoices() + " (←/→ to pick)"
	inputs[fieldURL].Placeholder = "jdbc:postgresql://localhost:5432/app"
	inputs[fieldUsername].Placeholder = "app"
	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'

	f := profileForm{inputs: inputs}
	f.setFocus(fieldName)
	return f
}

func (f *profileForm) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func engineChoices() string {
	names := make([]string, 0, len(profile.Engines))
	for _, e := range profile.Engines {
		names = append(names, string(e))
	}

	return strings.Join(names, " or ")
}

// cycleEngine replaces the engine field with the next (or previous) supported
// engine. An unrecognized value starts from the first one.
func (f *profileForm) cycleEngine(step int) {
	n := len(profile.Engines)
	next := 0

	current, err := profile.ParseEngine(f.inputs[fieldEngine].Value())
	if err == nil {
		for i, e := range profile.Engines {
			if e == current {
				next = (i + step + n) % n
				break
			}
		}
	}

	f.inputs[fieldEngine].SetValue(string(profile.Engines[next]))
}

// profile builds and validates the profile described by the inputs.
func (f profileForm) profile() (profile.Profile, error) {
	engine, err := profile.ParseEngine(f.inputs[fieldEngine].Value())
	if err != nil {
		return profile.Profile{}, err
	}

	p := profile.Profile{
		Name:     strings.TrimSpace(f.inputs[fieldName].Value()),
		Engine:   engine,
		URL:      strings.TrimSpace(f.inputs[fieldURL].Value()),
		Username: strings.TrimSpace(f.inputs[fieldUsername].Value()),
		Password: f.inputs[fieldPassword].Value(),
	}

	return p, p.Validate()
}

// update moves between fields and reports submit when enter is pressed on
// the last one.
func (f profileForm) update(msg tea.Msg) (profileForm, tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.setFocus((f.focus + 1) % fieldCount)
			return f, nil, false
		case "shift+tab", "up":
			f.setFocus((f.focus + fieldCount - 1) % fieldCount)
			return f, nil, false
		case "enter":
			if f.focus == fieldCount-1 {
				return f, nil, true
			}
			f.setFocus(f.focus + 1)
			return f, nil, false
		case "left", "right":
			if f.focus == fieldEngine {
				step := 1
				if key.String() == "left" {
					step = -1
				}
				f.cycleEngine(step)
				return f, nil, false
			}
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, false
}

func (f profileForm) view() string {
	labelStyle := lipgloss.NewStyle().Width(10)

	lines := make([]string, 0, fieldCount)
	for i, in := range f.inputs {
		label := labelStyle.Render(fieldLabels[i])
		if i == f.focus {
			label = theme.StyleSelected.Render(labelStyle.Render(fieldLabels[i]))
		}
		lines = append(lines, "  "+label+" "+in.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
