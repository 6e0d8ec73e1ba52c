package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/joacominatel/alertsnap/internal/app"
	"github.com/joacominatel/alertsnap/internal/config"
	"github.com/joacominatel/alertsnap/internal/database"
	"github.com/joacominatel/alertsnap/internal/logger"
	"github.com/joacominatel/alertsnap/internal/profile"
	"github.com/joacominatel/alertsnap/internal/savedquery"
	"github.com/joacominatel/alertsnap/internal/storage"
	"github.com/joacominatel/alertsnap/internal/tui/editor"
	"github.com/joacominatel/alertsnap/internal/tui/queries"
	"github.com/joacominatel/alertsnap/internal/tui/results"
	"github.com/joacominatel/alertsnap/internal/tui/statusbar"
	"github.com/joacominatel/alertsnap/internal/tui/theme"
)

// Pane identifies a focusable area.
type Pane int

const (
	PaneQueries Pane = iota
	PaneEditor
	PaneResults
)

func (p Pane) String() string {
	switch p {
	case PaneQueries:
		return "queries"
	case PaneEditor:
		return "editor"
	case PaneResults:
		return "results"
	default:
		return "unknown"
	}
}

// AppMode tracks the current UI state.
type AppMode int

const (
	ModeSelectConnection AppMode = iota // saved profiles list
	ModeNewProfile                      // profile form
	ModeMain                            // main TUI
	ModeSaveQuery                       // name prompt over the main TUI
)

// Custom messages for async operations.
type (
	profilesLoadedMsg struct {
		profiles []profile.Profile
		status   string
		err      error
	}
	queriesLoadedMsg struct {
		queries []savedquery.Query
		status  string
		err     error
	}
	connectedMsg struct {
		session *app.Session
		err     error
	}
	testedMsg struct {
		name string
		err  error
	}
	queryExecutedMsg struct {
		sessionID uuid.UUID
		query     string
		result    *database.QueryResult
		err       error
	}
	sessionClosedMsg struct {
		err error
	}
	pingedMsg struct {
		sessionID uuid.UUID
		err       error
	}
	configSavedMsg struct {
		status string
		err    error
	}
)

// Model is the top-level bubbletea model orchestrating all components.
type Model struct {
	service  *app.Service
	cfg      *config.Config
	profiles *profile.Store
	saved    *savedquery.Store

	profileList []profile.Profile
	connCursor  int
	form        profileForm
	nameInput   textinput.Model
	pendingSQL  string

	queries    queries.Model
	editor     editor.Model
	results    results.Model
	statusbar  statusbar.Model
	activePane Pane
	mode       AppMode
	width      int
	height     int
	err        error
	showHelp   bool

	session    *app.Session
	connecting bool
	running    bool
}

// NewModel creates the top-level model.
func NewModel(service *app.Service, cfg *config.Config, profiles *profile.Store, saved *savedquery.Store) Model {
	ti := textinput.New()
	ti.Placeholder = "query name"
	ti.CharLimit = 200
	ti.Width = 50

	m := Model{
		service:    service,
		cfg:        cfg,
		profiles:   profiles,
		saved:      saved,
		form:       newProfileForm(),
		nameInput:  ti,
		queries:    queries.New(),
		editor:     editor.New(),
		results:    results.New(),
		statusbar:  statusbar.New(),
		activePane: PaneEditor,
		mode:       ModeSelectConnection,
	}
	m.queries.SetLoading(true)

	return m
}

// Session returns the open session, if any.
func (m Model) Session() *app.Session {
	return m.session
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadProfilesCmd(),
		m.loadQueriesCmd(),
	)
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		// Global keys
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if msg.String() == "ctrl+t" {
			return m.toggleTheme()
		}

		// Help toggle
		if msg.String() == "?" && m.mode == ModeMain && m.activePane != PaneEditor {
			m.showHelp = !m.showHelp
			return m, nil
		}

		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch m.mode {
		case ModeSelectConnection:
			return m.updateSelectConnection(msg)
		case ModeNewProfile:
			return m.updateNewProfile(msg)
		case ModeSaveQuery:
			return m.updateSaveQuery(msg)
		case ModeMain:
			return m.updateMain(msg)
		}

	case profilesLoadedMsg:
		m.profileList = msg.profiles
		m.clampConnCursor()
		if msg.err != nil {
			logger.Warn("Connection profiles", logger.Ctx{"err": msg.err})
			m.err = msg.err
		} else if msg.status != "" {
			m.err = nil
		}
		m.statusbar.SetMessage(msg.status)
		return m, nil

	case queriesLoadedMsg:
		m.queries.SetQueries(msg.queries)
		if msg.err != nil {
			logger.Warn("Saved queries", logger.Ctx{"err": msg.err})
			m.statusbar.SetMessage("Saved queries: " + msg.err.Error())
			return m, nil
		}
		if msg.status != "" {
			m.statusbar.SetMessage(msg.status)
		}
		return m, nil

	case connectedMsg:
		m.connecting = false
		if msg.err != nil {
			m.err = msg.err
			m.statusbar.SetMessage("Connection failed")
			return m, nil
		}

		var cmd tea.Cmd
		if m.session != nil {
			cmd = closeSessionCmd(m.session)
		}
		m.session = msg.session
		m.running = false
		m.err = nil
		m.mode = ModeMain
		m.results.Reset()
		m.statusbar.SetBusy(false)
		m.statusbar.SetConnected(true, sessionLabel(msg.session))
		m.statusbar.SetMessage("Connected to " + msg.session.Profile.Name)
		m.setFocus(PaneEditor)
		m.layout()
		return m, cmd

	case testedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.statusbar.SetMessage("Test failed: " + msg.name)
			return m, nil
		}
		m.err = nil
		m.statusbar.SetMessage("Connection OK: " + msg.name)
		return m, nil

	case pingedMsg:
		if m.session == nil || msg.sessionID != m.session.ID {
			return m, nil
		}
		if msg.err != nil {
			m.statusbar.SetConnected(false, sessionLabel(m.session))
			m.statusbar.SetMessage("Connection lost: " + msg.err.Error())
			return m, nil
		}
		m.statusbar.SetConnected(true, sessionLabel(m.session))
		m.statusbar.SetMessage("Connection alive")
		return m, nil

	case configSavedMsg:
		if msg.err != nil {
			logger.Warn("Saving preferences failed", logger.Ctx{"err": msg.err})
			m.statusbar.SetMessage("Preferences not saved: " + msg.err.Error())
			return m, nil
		}
		m.statusbar.SetMessage(msg.status)
		return m, nil

	case sessionClosedMsg:
		if msg.err != nil {
			logger.Debug("Closing session failed", logger.Ctx{"err": msg.err})
		}
		return m, nil

	case queryExecutedMsg:
		if m.session == nil || msg.sessionID != m.session.ID {
			logger.Debug("Dropping result from a replaced session", logger.Ctx{"session": msg.sessionID.String()})
			return m, nil
		}
		m.running = false
		m.statusbar.SetBusy(false)
		if msg.err != nil {
			m.results.SetError(queryErrorText(msg.err))
			m.statusbar.SetMessage("Query failed")
			return m, nil
		}
		m.results.SetResult(msg.query, msg.result)
		m.statusbar.SetMessage("")
		return m, nil

	case editor.ExecuteQueryMsg:
		return m.startQuery(msg.Query)

	case editor.SaveQueryMsg:
		m.pendingSQL = msg.Query
		m.nameInput.Reset()
		m.nameInput.SetValue(msg.Name)
		m.nameInput.Focus()
		m.mode = ModeSaveQuery
		return m, textinput.Blink

	case queries.LoadQueryMsg:
		m.editor.Open(msg.Query.Name, msg.Query.SQL)
		m.setFocus(PaneEditor)
		m.statusbar.SetMessage("Loaded " + msg.Query.Name)
		return m, nil

	case queries.DeleteQueryMsg:
		return m, m.removeQueryCmd(msg.Query)

	case results.SetEditorQueryMsg:
		m.editor.SetQuery(msg.Query)
		m.setFocus(PaneEditor)
		return m, nil

	case results.StatusNotifyMsg:
		m.statusbar.SetMessage(msg.Message)
		return m, nil
	}

	// Pass through to active component
	switch m.mode {
	case ModeMain:
		return m.updateComponents(msg)
	case ModeNewProfile:
		var cmd tea.Cmd
		m.form, cmd, _ = m.form.update(msg)
		return m, cmd
	case ModeSaveQuery:
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) clampConnCursor() {
	if m.connCursor >= len(m.profileList) {
		m.connCursor = max(0, len(m.profileList)-1)
	}

	if m.session == nil && m.connCursor == 0 {
		if p, ok := config.DefaultConnection(m.cfg, m.profileList); ok {
			for i := range m.profileList {
				if m.profileList[i].Equal(p) {
					m.connCursor = i
					break
				}
			}
		}
	}
}

func (m Model) selectedProfile() (profile.Profile, bool) {
	if m.connCursor < 0 || m.connCursor >= len(m.profileList) {
		return profile.Profile{}, false
	}
	return m.profileList[m.connCursor], true
}

func (m Model) updateSelectConnection(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.connCursor > 0 {
			m.connCursor--
		}
	case "down", "j":
		if m.connCursor < len(m.profileList)-1 {
			m.connCursor++
		}
	case "enter":
		p, ok := m.selectedProfile()
		if !ok || m.connecting {
			return m, nil
		}
		m.connecting = true
		m.err = nil
		m.statusbar.SetMessage("Connecting to " + p.Name + "...")
		return m, m.connectCmd(p)
	case "t":
		if p, ok := m.selectedProfile(); ok {
			m.statusbar.SetMessage("Testing " + p.Name + "...")
			return m, m.testCmd(p)
		}
	case "d", "delete":
		if p, ok := m.selectedProfile(); ok {
			return m, m.removeProfileCmd(p)
		}
	case "s":
		if p, ok := m.selectedProfile(); ok {
			m.cfg.Preferences.DefaultConnection = p.Name
			return m, m.saveConfigCmd("Default connection: " + p.Name)
		}
	case "n":
		m.form = newProfileForm()
		m.err = nil
		m.mode = ModeNewProfile
		return m, textinput.Blink
	case "esc":
		if m.session != nil {
			m.mode = ModeMain
		}
	case "q":
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) updateNewProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.err = nil
		m.mode = ModeSelectConnection
		return m, nil
	}

	form, cmd, submit := m.form.update(msg)
	m.form = form
	if !submit {
		return m, cmd
	}

	p, err := m.form.profile()
	if err != nil {
		m.err = err
		return m, nil
	}

	m.err = nil
	m.mode = ModeSelectConnection
	return m, m.addProfileCmd(p)
}

func (m Model) updateSaveQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeMain
		m.pendingSQL = ""
		m.nameInput.Blur()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			return m, nil
		}
		q := savedquery.New(name, m.pendingSQL)
		m.editor.Open(q.Name, q.SQL)
		m.mode = ModeMain
		m.pendingSQL = ""
		m.nameInput.Blur()
		return m, m.addQueryCmd(q)
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		if m.activePane != PaneEditor {
			return m, tea.Quit
		}
	case "ctrl+o":
		m.mode = ModeSelectConnection
		return m, nil
	case "ctrl+p":
		if m.session != nil {
			m.statusbar.SetMessage("Checking connection...")
			return m, pingCmd(m.session)
		}
		return m, nil
	case "tab":
		m.cyclePane()
		return m, nil
	case "shift+tab":
		m.cyclePaneBack()
		return m, nil
	}

	return m.updateComponents(msg)
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	name := theme.Toggle(m.cfg.Preferences.Theme)
	theme.Apply(name)
	m.editor.RefreshStyles()
	m.cfg.Preferences.Theme = name

	return m, m.saveConfigCmd("Theme: " + name)
}

func (m Model) startQuery(query string) (tea.Model, tea.Cmd) {
	if m.session == nil || m.session.Closed() {
		m.statusbar.SetMessage("Not connected")
		return m, nil
	}
	if m.running {
		m.statusbar.SetMessage("A query is already running")
		return m, nil
	}

	m.running = true
	m.results.SetLoading(true)
	m.statusbar.SetBusy(true)
	m.statusbar.SetMessage("Executing query...")
	return m, m.executeQueryCmd(m.session, query)
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.activePane {
	case PaneQueries:
		m.queries, cmd = m.queries.Update(msg)
	case PaneEditor:
		m.editor, cmd = m.editor.Update(msg)
	case PaneResults:
		m.results, cmd = m.results.Update(msg)
	}

	return m, cmd
}

func (m *Model) cyclePane() {
	switch m.activePane {
	case PaneQueries:
		m.setFocus(PaneEditor)
	case PaneEditor:
		m.setFocus(PaneResults)
	case PaneResults:
		m.setFocus(PaneQueries)
	}
}

func (m *Model) cyclePaneBack() {
	switch m.activePane {
	case PaneQueries:
		m.setFocus(PaneResults)
	case PaneEditor:
		m.setFocus(PaneQueries)
	case PaneResults:
		m.setFocus(PaneEditor)
	}
}

func (m *Model) setFocus(pane Pane) {
	m.activePane = pane
	m.queries.SetFocused(pane == PaneQueries)
	m.editor.SetFocused(pane == PaneEditor)
	m.results.SetFocused(pane == PaneResults)
	m.statusbar.SetActivePane(pane.String())
}

func (m Model) sideWidth() int {
	w := m.width / 4
	if w < 22 {
		w = 22
	}
	if w > 35 {
		w = 35
	}
	return w
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	statusHeight := 1
	availHeight := m.height - statusHeight

	sideWidth := m.sideWidth()
	rightWidth := m.width - sideWidth - 1

	editorHeight := availHeight * 40 / 100
	if editorHeight < 5 {
		editorHeight = 5
	}
	resultsHeight := availHeight - editorHeight - 1

	m.queries.SetSize(sideWidth, availHeight)
	m.editor.SetSize(rightWidth, editorHeight)
	m.results.SetSize(rightWidth, resultsHeight)
	m.statusbar.SetWidth(m.width)
}

func sessionLabel(s *app.Session) string {
	label := s.Profile.Name
	if db := s.DatabaseName(); db != "" {
		label += " · " + db
	}
	return label
}

func queryErrorText(err error) error {
	var qerr *app.ErrQuery
	if errors.As(err, &qerr) {
		return qerr.Cause
	}
	return err
}

// Async commands. Every store and database call runs inside one of these.

func (m Model) loadProfilesCmd() tea.Cmd {
	store := m.profiles
	return func() tea.Msg {
		list, err := store.Load()
		return profilesLoadedMsg{profiles: list, err: err}
	}
}

func (m Model) addProfileCmd(p profile.Profile) tea.Cmd {
	store := m.profiles
	return func() tea.Msg {
		err := store.Add(p)
		if err != nil {
			return profilesLoadedMsg{profiles: store.List(), err: err}
		}
		logger.Info("Profile added", logger.Ctx{"profile": p.Name})
		return profilesLoadedMsg{profiles: store.List(), status: "Saved profile " + p.Name}
	}
}

func (m Model) removeProfileCmd(p profile.Profile) tea.Cmd {
	store := m.profiles
	return func() tea.Msg {
		err := store.Remove(p)
		if err != nil {
			return profilesLoadedMsg{profiles: store.List(), err: err}
		}
		logger.Info("Profile removed", logger.Ctx{"profile": p.Name})
		return profilesLoadedMsg{profiles: store.List(), status: "Removed profile " + p.Name}
	}
}

func (m Model) loadQueriesCmd() tea.Cmd {
	store := m.saved
	return func() tea.Msg {
		list, err := store.Load()
		return queriesLoadedMsg{queries: list, err: err}
	}
}

func (m Model) addQueryCmd(q savedquery.Query) tea.Cmd {
	store := m.saved
	return func() tea.Msg {
		err := store.Add(q)
		if err != nil {
			return queriesLoadedMsg{queries: store.List(), err: err}
		}
		return queriesLoadedMsg{queries: store.List(), status: "Saved query " + q.Name}
	}
}

func (m Model) removeQueryCmd(q savedquery.Query) tea.Cmd {
	store := m.saved
	return func() tea.Msg {
		err := store.Remove(q)
		if err != nil {
			return queriesLoadedMsg{queries: store.List(), err: err}
		}
		return queriesLoadedMsg{queries: store.List(), status: "Removed query " + q.Name}
	}
}

func (m Model) connectCmd(p profile.Profile) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		sess, err := service.Connect(context.Background(), p)
		return connectedMsg{session: sess, err: err}
	}
}

func (m Model) testCmd(p profile.Profile) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		err := service.Test(context.Background(), p)
		return testedMsg{name: p.Name, err: err}
	}
}

func (m Model) executeQueryCmd(sess *app.Session, query string) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		task := service.Submit(context.Background(), sess, query, nil)
		result, err := task.Wait()
		return queryExecutedMsg{sessionID: sess.ID, query: query, result: result, err: err}
	}
}

func (m Model) saveConfigCmd(status string) tea.Cmd {
	cfg := *m.cfg
	return func() tea.Msg {
		return configSavedMsg{status: status, err: config.Save(&cfg)}
	}
}

func pingCmd(sess *app.Session) tea.Cmd {
	return func() tea.Msg {
		return pingedMsg{sessionID: sess.ID, err: sess.Ping(context.Background())}
	}
}

func closeSessionCmd(sess *app.Session) tea.Cmd {
	return func() tea.Msg {
		return sessionClosedMsg{err: sess.Close()}
	}
}

// View renders the entire application.
func (m Model) View() string {
	if m.showHelp {
		return m.viewHelp()
	}

	switch m.mode {
	case ModeSelectConnection:
		return m.viewSelectConnection()
	case ModeNewProfile:
		return m.viewNewProfile()
	case ModeSaveQuery:
		return m.viewSaveQuery()
	default:
		return m.viewMain()
	}
}

func (m Model) viewHeader() []string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(1, 0)

	return []string{
		"",
		titleStyle.Render("alertsnap"),
		theme.StyleMuted.Render("Saved connections, saved queries, one keystroke away."),
		"",
	}
}

func (m Model) viewError() string {
	var perr *storage.PersistenceError
	switch {
	case m.err == nil:
		return ""
	case errors.As(m.err, &perr):
		return theme.StyleError.Render("  Warning: " + m.err.Error())
	default:
		return theme.StyleError.Render("  Error: " + m.err.Error())
	}
}

func (m Model) viewSelectConnection() string {
	sectionTitle := theme.StyleTitle.Render("Saved Connections")

	var items []string
	if len(m.profileList) == 0 {
		items = append(items, theme.StyleMuted.Render("  No profiles yet. Press n to add one."))
	}
	for i, p := range m.profileList {
		mark := ""
		if p.Name == m.cfg.Preferences.DefaultConnection {
			mark = theme.StyleSuccess.Render("  (default)")
		}
		if i == m.connCursor {
			items = append(items, theme.StyleSelected.Render("> "+p.String())+"  "+theme.StyleMuted.Render(p.URL)+mark)
		} else {
			items = append(items, fmt.Sprintf("  %s  %s%s", p.String(), theme.StyleMuted.Render(p.URL), mark))
		}
	}

	hint := "  ↑/↓: Navigate  Enter: Connect  t: Test  s: Default  n: New  d: Delete  Ctrl+T: Theme  q: Quit"
	if m.session != nil {
		hint += "  Esc: Back"
	}

	parts := append(m.viewHeader(), sectionTitle)
	parts = append(parts, items...)
	if e := m.viewError(); e != "" {
		parts = append(parts, "", e)
	}
	if msg := m.statusbar.Message(); msg != "" {
		parts = append(parts, "", theme.StyleMuted.Render("  "+msg))
	}
	parts = append(parts, "", theme.StyleMuted.Render(hint))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

func (m Model) viewNewProfile() string {
	parts := append(m.viewHeader(),
		theme.StyleTitle.Render("New Connection"),
		"",
		m.form.view(),
	)
	if e := m.viewError(); e != "" {
		parts = append(parts, "", e)
	}
	parts = append(parts, "",
		theme.StyleMuted.Render("  Tab/↓: Next field  Enter on Password: Save  Esc: Back"))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

func (m Model) viewSaveQuery() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.StyleTitle.Render("Save Query"),
		"",
		"  "+m.nameInput.View(),
		"",
		theme.StyleMuted.Render("  Enter: Save  Esc: Cancel"),
	)

	box := theme.StyleActiveBorder.Padding(1, 2).Render(content)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

func (m Model) viewMain() string {
	sideBorder := theme.StyleBorder
	if m.activePane == PaneQueries {
		sideBorder = theme.StyleActiveBorder
	}

	sideWidth := m.sideWidth()
	rightWidth := m.width - sideWidth - 1

	statusHeight := 1
	availHeight := m.height - statusHeight - 2

	sideView := sideBorder.
		Width(sideWidth - 2).
		Height(availHeight).
		Render(m.queries.View())

	editorHeight := availHeight * 40 / 100
	if editorHeight < 5 {
		editorHeight = 5
	}
	resultsHeight := availHeight - editorHeight - 2

	editorBorder := theme.StyleBorder
	if m.activePane == PaneEditor {
		editorBorder = theme.StyleActiveBorder
	}
	editorView := editorBorder.
		Width(rightWidth - 2).
		Height(editorHeight).
		Render(m.editor.View())

	resultsBorder := theme.StyleBorder
	if m.activePane == PaneResults {
		resultsBorder = theme.StyleActiveBorder
	}
	resultsView := resultsBorder.
		Width(rightWidth - 2).
		Height(resultsHeight).
		Render(m.results.View())

	rightPane := lipgloss.JoinVertical(lipgloss.Left,
		editorView,
		resultsView,
	)

	mainArea := lipgloss.JoinHorizontal(lipgloss.Top,
		sideView,
		rightPane,
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		mainArea,
		m.statusbar.View(),
	)
}

func (m Model) viewHelp() string {
	sectionStyle := lipgloss.NewStyle().
		Foreground(theme.ColorHighlight).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(theme.ColorText)

	row := func(key, desc string) string {
		return keyStyle.Render(fmt.Sprintf("  %-14s", key)) + theme.StyleMuted.Render(desc)
	}

	help := lipgloss.JoinVertical(lipgloss.Left,
		theme.StyleTitle.Render("alertsnap - Keyboard Shortcuts"),
		"",
		sectionStyle.Render("Global"),
		row("q / Ctrl+C", "Quit application"),
		row("Tab", "Switch between panes"),
		row("Shift+Tab", "Switch panes (reverse)"),
		row("Ctrl+O", "Switch connection"),
		row("Ctrl+T", "Toggle light/dark theme"),
		row("Ctrl+P", "Check the connection"),
		row("?", "Toggle this help"),
		"",
		sectionStyle.Render("Saved Queries"),
		row("↑/k  ↓/j", "Navigate up/down"),
		row("Enter", "Load into editor"),
		row("d", "Delete"),
		"",
		sectionStyle.Render("Editor"),
		row("Ctrl+E / F5", "Execute query"),
		row("Ctrl+S", "Save query"),
		row("Ctrl+K", "Clear editor"),
		row("Ctrl+L", "Format query (uppercase keywords)"),
		"",
		sectionStyle.Render("Results"),
		row("↑/k  ↓/j", "Move row"),
		row("←/h  →/l", "Move column"),
		row("PgUp/PgDn", "Page up/down"),
		row("y", "Copy cell"),
		row("Y / c", "Copy row as JSON / CSV"),
		row("f", "Filter by selected value"),
		"",
		theme.StyleMuted.Render("Press any key to close"),
	)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		help,
	)
}
