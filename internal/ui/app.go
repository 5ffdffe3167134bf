package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/thinkwright/novelflow/internal/api"
	"github.com/thinkwright/novelflow/internal/config"
	"github.com/thinkwright/novelflow/internal/conversation"
	"github.com/thinkwright/novelflow/internal/novel"
	"github.com/thinkwright/novelflow/internal/state"
	"github.com/thinkwright/novelflow/internal/watcher"
	"go.uber.org/zap"
)

type pane int

const (
	paneNav pane = iota
	paneChat
	paneSidebar
)

const modalCharacter = "character"

type Model struct {
	backend Backend
	store   *state.Store
	session *conversation.Session
	cfg     config.Config
	log     *zap.Logger

	nav     NavList
	chat    ChatPane
	sidebar Sidebar
	picker  ProjectPicker
	card    CharacterModal

	focus       pane
	width       int
	height      int
	ready       bool
	confirmQuit bool

	// ids of notifications that already have an expiry timer
	scheduled map[string]bool
}

type Option func(*Model)

func WithLogger(log *zap.Logger) Option {
	return func(m *Model) {
		m.log = log
	}
}

func NewModel(backend Backend, st *state.Store, cfg config.Config, opts ...Option) Model {
	m := Model{
		backend:   backend,
		store:     st,
		cfg:       cfg,
		log:       zap.NewNop(),
		focus:     paneChat,
		scheduled: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.log = m.log.With(zap.String("component", "ui"))
	m.session = conversation.New(backend, st,
		conversation.WithTypedEcho(cfg.EchoTypedMessage),
		conversation.WithLogger(m.log))

	cur := st.State()
	ApplyTheme(cur.UI.Theme)

	m.nav = NewNavList()
	m.nav.Follow(cur.CurrentPhase)
	m.chat = NewChatPane()
	m.chat.SetTheme(cur.UI.Theme)
	m.chat.SetPhase(cur.CurrentPhase)
	m.sidebar = NewSidebar()
	m.picker = NewProjectPicker()
	m.card = NewCharacterModal()
	if cur.CurrentProject != nil {
		m.picker.Close()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		loadProjectsCmd(m.backend),
		watcher.Watch(config.Path()),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.sidebar.Clamp(m.store.State().ProjectData)
	return m, tea.Batch(cmd, m.scheduleExpiry())
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layoutPanes()
		return m, nil

	case spinner.TickMsg:
		cmd := m.chat.UpdateSpinner(msg)
		return m, cmd

	case projectsLoadedMsg:
		if msg.err != nil {
			m.log.Warn("list projects", zap.Error(msg.err))
			m.picker.SetError(api.UserMessage(msg.err))
			return m, nil
		}
		m.picker.SetProjects(msg.projects)
		return m, nil

	case projectCreatedMsg:
		if msg.err != nil {
			m.store.Notify(novel.NotifyError, "Project not created", api.UserMessage(msg.err))
			return m, nil
		}
		m.picker.Add(msg.project)
		m.store.Notify(novel.NotifySuccess, "Project created", msg.project.Title)
		cmd := m.openProject(msg.project)
		return m, cmd

	case projectDataMsg:
		if msg.projectID != m.store.State().ProjectID() {
			return m, nil
		}
		if msg.err != nil {
			m.log.Warn("load project data", zap.String("project_id", msg.projectID), zap.Error(msg.err))
			m.store.Notify(novel.NotifyError, "Could not load project", api.UserMessage(msg.err))
			return m, nil
		}
		insp, chars := msg.data.Inspirations, msg.data.Characters
		if insp == nil {
			insp = []novel.Inspiration{}
		}
		if chars == nil {
			chars = []novel.Character{}
		}
		m.store.Dispatch(state.SetProjectData{Inspirations: insp, Characters: chars})
		m.log.Debug("project data loaded",
			zap.String("project_id", msg.projectID),
			zap.Int("inspirations", len(insp)),
			zap.Int("characters", len(chars)),
			zap.Int("conversations", len(msg.data.Conversations)))
		return m, nil

	case replyMsg:
		if err := m.session.Complete(msg.res); errors.Is(err, conversation.ErrStale) {
			m.log.Debug("reply dropped", zap.String("project_id", msg.res.Request.ProjectID))
		}
		cmd := m.chat.SetLoading(false)
		m.chat.SetMessages(m.session.Messages())
		if m.focus == paneChat {
			cmd = tea.Batch(cmd, m.chat.Focus())
		}
		return m, cmd

	case inspirationCreatedMsg:
		if msg.projectID != m.store.State().ProjectID() {
			return m, nil
		}
		if msg.err != nil {
			m.store.Notify(novel.NotifyError, "Inspiration not saved", api.UserMessage(msg.err))
			return m, nil
		}
		m.store.Dispatch(state.AddInspiration{Inspiration: msg.inspiration})
		m.store.Notify(novel.NotifySuccess, "Inspiration saved", novel.Truncate(msg.inspiration.Content, 40))
		return m, nil

	case inspirationDeletedMsg:
		if msg.projectID != m.store.State().ProjectID() {
			return m, nil
		}
		if msg.err != nil {
			m.store.Notify(novel.NotifyError, "Inspiration not deleted", api.UserMessage(msg.err))
			return m, nil
		}
		m.store.Dispatch(state.RemoveInspiration{ID: msg.id})
		return m, nil

	case inspirationDevelopedMsg:
		st := m.store.State()
		if msg.projectID != st.ProjectID() {
			return m, nil
		}
		if msg.err != nil {
			m.store.Notify(novel.NotifyError, "Could not develop inspiration", api.UserMessage(msg.err))
			return m, nil
		}
		m.store.Dispatch(state.UpdateInspiration{
			ID:    msg.id,
			Patch: novel.InspirationPatch{Status: novel.Ptr(novel.InspirationDeveloped)},
		})
		local := novel.Message{
			Role:    novel.MessageAssistant,
			Content: developedSummary(msg.expanded),
			Persona: st.Persona(),
		}
		if len(msg.expanded.ConflictOptions) > 0 {
			local.StructuredData = novel.StructuredData{
				novel.ConflictOptionsPayload{Options: msg.expanded.ConflictOptions},
			}
		}
		m.session.AppendLocal(local)
		m.chat.SetMessages(m.session.Messages())
		m.store.Notify(novel.NotifySuccess, "Inspiration developed", fmt.Sprintf("%d conflict options", len(msg.expanded.ConflictOptions)))
		return m, nil

	case characterEnhancedMsg:
		if msg.projectID != m.store.State().ProjectID() {
			return m, nil
		}
		if msg.err != nil {
			m.store.Notify(novel.NotifyError, "Could not deepen character", api.UserMessage(msg.err))
			return m, nil
		}
		m.store.Dispatch(state.AddCharacter{Character: msg.character})
		m.card.Refresh(msg.character)
		m.store.Notify(novel.NotifySuccess, "Character deepened", msg.character.Name)
		return m, nil

	case personaSwitchedMsg:
		if msg.err != nil {
			m.store.Notify(novel.NotifyWarning, "Persona not switched", api.UserMessage(msg.err))
		}
		return m, nil

	case notificationExpiredMsg:
		delete(m.scheduled, msg.id)
		m.store.Dispatch(state.RemoveNotification{ID: msg.id})
		return m, nil

	case watcher.ConfigChangedMsg:
		cmd := tea.Batch(m.reloadConfig(), watcher.Watch(msg.Path))
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirmQuit {
			return m.handleConfirmQuit(msg)
		}
		if m.card.IsVisible() {
			return m.handleCardKey(msg)
		}
		if m.picker.IsVisible() {
			return m.handlePickerKey(msg)
		}
		if m.sidebar.IsAdding() {
			return m.handleAddInspirationKey(msg)
		}
		if m.sidebar.IsConfirmingDelete() {
			return m.handleDeleteConfirm(msg)
		}
		return m.handleKey(msg)
	}

	// Cursor blinks and other input-owned messages.
	switch {
	case m.picker.IsCreating():
		cmd := m.picker.UpdateInput(msg)
		return m, cmd
	case m.sidebar.IsAdding():
		cmd := m.sidebar.UpdateInput(msg)
		return m, cmd
	}
	cmd := m.chat.UpdateInput(msg)
	return m, cmd
}

// scheduleExpiry starts one timer per notification that does not have one.
func (m Model) scheduleExpiry() tea.Cmd {
	ttl := time.Duration(m.cfg.NotificationTTLSeconds) * time.Second
	var cmds []tea.Cmd
	for _, n := range m.store.State().UI.Notifications {
		if m.scheduled[n.ID] {
			continue
		}
		m.scheduled[n.ID] = true
		cmds = append(cmds, expireCmd(n.ID, ttl))
	}
	return tea.Batch(cmds...)
}

func (m *Model) reloadConfig() tea.Cmd {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		m.log.Warn("config reload rejected", zap.Error(err))
		m.store.Notify(novel.NotifyWarning, "Config not applied", err.Error())
		return nil
	}
	prev := m.cfg
	m.cfg = cfg
	m.session.SetTypedEcho(cfg.EchoTypedMessage)
	if cfg.Theme != prev.Theme {
		m.setTheme(state.Theme(cfg.Theme))
	}
	if cfg.APIURL != prev.APIURL {
		m.store.Notify(novel.NotifyInfo, "Config reloaded", "Restart to use the new server address")
		return nil
	}
	m.store.Notify(novel.NotifyInfo, "Config reloaded", config.Path())
	return nil
}

func (m *Model) setTheme(t state.Theme) {
	m.store.Dispatch(state.SetTheme{Theme: t})
	ApplyTheme(t)
	m.chat.SetTheme(t)
	m.sidebar.Restyle()
	m.picker.Restyle()
}

func (m Model) handleConfirmQuit(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "q", "enter":
		return m, tea.Quit
	default:
		m.confirmQuit = false
	}
	return m, nil
}

func (m Model) handleCardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.card.Close()
		m.store.Dispatch(state.SetActiveModal{Modal: ""})
	case "up", "k":
		m.card.ScrollUp(3)
	case "down", "j":
		m.card.ScrollDown(3)
	case "pgup":
		m.card.ScrollUp(m.height / 2)
	case "pgdown":
		m.card.ScrollDown(m.height / 2)
	case "left", "h":
		m.card.PrevTab()
	case "right", "l", "tab":
		m.card.NextTab()
	case "3":
		return m, makeCharacter3DCmd(m.backend, m.store.State().ProjectID(), m.card.CharacterID())
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.picker.IsCreating() {
		switch msg.String() {
		case "esc":
			m.picker.CancelCreate()
			return m, nil
		case "enter":
			title := m.picker.FinishCreate()
			if title == "" {
				return m, nil
			}
			return m, createProjectCmd(m.backend, title)
		default:
			cmd := m.picker.UpdateInput(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "up", "k":
		m.picker.Up()
	case "down", "j":
		m.picker.Down()
	case "n":
		cmd := m.picker.StartCreate()
		return m, cmd
	case "r":
		m.picker.Show()
		return m, loadProjectsCmd(m.backend)
	case "enter":
		if p := m.picker.Selected(); p != nil {
			cmd := m.openProject(*p)
			return m, cmd
		}
	case "esc":
		if m.store.State().CurrentProject != nil {
			m.picker.Close()
		}
	case "q":
		m.confirmQuit = true
	}
	return m, nil
}

func (m Model) handleAddInspirationKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.sidebar.CancelAdd()
		return m, nil
	case "enter":
		content := m.sidebar.FinishAdd()
		id := m.store.State().ProjectID()
		if content == "" || id == "" {
			return m, nil
		}
		return m, createInspirationCmd(m.backend, id, content)
	default:
		cmd := m.sidebar.UpdateInput(msg)
		return m, cmd
	}
}

func (m Model) handleDeleteConfirm(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.sidebar.CancelDelete()
	if msg.String() != "y" && msg.String() != "Y" {
		return m, nil
	}
	st := m.store.State()
	insp := m.sidebar.SelectedInspiration(st.ProjectData)
	if insp == nil {
		return m, nil
	}
	return m, deleteInspirationCmd(m.backend, st.ProjectID(), insp.ID)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		cmd := m.setFocus(m.nextPane(1))
		return m, cmd
	case "shift+tab":
		cmd := m.setFocus(m.nextPane(-1))
		return m, cmd
	case "esc":
		if n := m.latestNotification(); n != nil {
			m.store.Dispatch(state.RemoveNotification{ID: n.ID})
			return m, nil
		}
		if m.focus == paneChat {
			cmd := m.setFocus(paneNav)
			return m, cmd
		}
		return m, nil
	}

	if m.focus == paneChat {
		return m.handleChatKey(msg)
	}

	switch msg.String() {
	case "q":
		m.confirmQuit = true
		return m, nil
	case "t":
		next := state.ThemeLight
		if m.store.State().UI.Theme == state.ThemeLight {
			next = state.ThemeDark
		}
		m.setTheme(next)
		return m, nil
	case "p":
		m.picker.Show()
		return m, loadProjectsCmd(m.backend)
	}

	if m.focus == paneNav {
		return m.handleNavKey(msg)
	}
	return m.handleSidebarKey(msg)
}

func (m Model) handleChatKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.send(m.chat.Value())
	case "f1", "f2":
		if text := quickStart(msg.String(), m.store.State().CurrentPhase); text != "" {
			return m.send(text)
		}
		return m, nil
	case "pgup":
		m.chat.ScrollUp(max(m.height/2, 1))
		return m, nil
	case "pgdown":
		m.chat.ScrollDown(max(m.height/2, 1))
		return m, nil
	}
	cmd := m.chat.UpdateInput(msg)
	return m, cmd
}

func (m Model) send(text string) (Model, tea.Cmd) {
	req, err := m.session.Begin(text)
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage), errors.Is(err, conversation.ErrBusy):
		return m, nil
	case errors.Is(err, conversation.ErrNoProject):
		m.store.Notify(novel.NotifyWarning, "No project", "Pick a project with [p] first")
		return m, nil
	case err != nil:
		m.store.Notify(novel.NotifyError, "Message not sent", err.Error())
		return m, nil
	}
	m.log.Debug("send", zap.String("project_id", req.ProjectID), zap.String("persona", string(req.Persona)))
	m.chat.ResetInput()
	cmd := tea.Batch(m.chat.SetLoading(true), exchangeCmd(m.session, req))
	return m, cmd
}

func (m Model) handleNavKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.nav.Up()
	case "down", "j":
		m.nav.Down()
	case "enter":
		cmd := m.selectPhase(m.nav.Selected())
		cmd = tea.Batch(cmd, m.setFocus(paneChat))
		return m, cmd
	}
	return m, nil
}

// selectPhase moves to p, switches the sidebar, and tells the server about
// the new persona when a conversation is open.
func (m *Model) selectPhase(p novel.Phase) tea.Cmd {
	before := m.store.State()
	m.store.Dispatch(
		state.SetCurrentPhase{Phase: p},
		state.SetSidebarPanel{Panel: novel.PanelForPhase(p)},
	)
	m.chat.SetPhase(p)
	m.sidebar.CancelDelete()

	persona := novel.PersonaForPhase(p)
	if conv := before.ActiveConversation; conv != nil && persona != before.Persona() {
		return switchPersonaCmd(m.session, conv.ID, persona)
	}
	return nil
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	st := m.store.State()
	panel := st.SidebarPanel

	switch msg.String() {
	case "up", "k":
		m.sidebar.Up(panel)
	case "down", "j":
		m.sidebar.Down(panel, st.ProjectData)
	case "[":
		m.store.Dispatch(state.SetSidebarPanel{Panel: CyclePanel(panel, -1)})
	case "]":
		m.store.Dispatch(state.SetSidebarPanel{Panel: CyclePanel(panel, 1)})
	case "a":
		if panel == novel.PanelInspirations && st.CurrentProject != nil {
			cmd := m.sidebar.StartAdd()
			return m, cmd
		}
	case "x":
		if panel == novel.PanelInspirations && m.sidebar.SelectedInspiration(st.ProjectData) != nil {
			m.sidebar.AskDelete()
		}
	case "d":
		if panel != novel.PanelInspirations {
			return m, nil
		}
		insp := m.sidebar.SelectedInspiration(st.ProjectData)
		if insp == nil {
			return m, m.notifyNoSelection()
		}
		m.store.Notify(novel.NotifyInfo, "Developing inspiration", novel.Truncate(insp.Content, 40))
		return m, developInspirationCmd(m.backend, st.ProjectID(), insp.ID)
	case "3":
		if panel != novel.PanelCharacters {
			return m, nil
		}
		ch := m.sidebar.SelectedCharacter(st.ProjectData)
		if ch == nil {
			return m, m.notifyNoSelection()
		}
		return m, makeCharacter3DCmd(m.backend, st.ProjectID(), ch.ID)
	case "enter":
		if panel != novel.PanelCharacters {
			return m, nil
		}
		if ch := m.sidebar.SelectedCharacter(st.ProjectData); ch != nil {
			m.card.SetSize(m.width, m.height)
			m.card.Show(*ch)
			m.store.Dispatch(state.SetActiveModal{Modal: modalCharacter})
		}
	}
	return m, nil
}

func (m Model) notifyNoSelection() tea.Cmd {
	m.log.Debug("sidebar action", zap.Error(errNoSelection))
	m.store.Notify(novel.NotifyWarning, "Nothing selected", "Move the cursor onto an item first")
	return nil
}

// openProject makes p current and starts loading its collections. The
// conversation starts over.
func (m *Model) openProject(p novel.Project) tea.Cmd {
	m.store.Dispatch(
		state.SetCurrentProject{Project: &p},
		state.ResetProjectData{},
		state.SetActiveConversation{},
	)
	m.session.Reset()
	m.chat.SetMessages(nil)
	m.sidebar.CancelAdd()
	m.sidebar.CancelDelete()
	m.picker.Close()
	m.log.Info("project opened", zap.String("project_id", p.ID))
	return tea.Batch(loadProjectDataCmd(m.backend, p.ID), m.setFocus(paneChat))
}

func (m *Model) setFocus(p pane) tea.Cmd {
	m.focus = p
	if p == paneChat {
		return m.chat.Focus()
	}
	m.chat.Blur()
	return nil
}

func (m Model) nextPane(dir int) pane {
	panes := []pane{paneNav, paneChat, paneSidebar}
	for i, p := range panes {
		if p == m.focus {
			return panes[(i+dir+len(panes))%len(panes)]
		}
	}
	return paneChat
}

func (m Model) latestNotification() *novel.Notification {
	ns := m.store.State().UI.Notifications
	if len(ns) == 0 {
		return nil
	}
	n := ns[len(ns)-1]
	return &n
}

// developedSummary renders an expanded inspiration as markdown for the chat.
func developedSummary(exp novel.ExpandedInspiration) string {
	var b strings.Builder
	b.WriteString("### Inspiration developed\n\n")
	if c := exp.Analysis.Classification; c != "" {
		fmt.Fprintf(&b, "**Classification:** %s\n\n", c)
	}
	if len(exp.Analysis.CoreElements) > 0 {
		fmt.Fprintf(&b, "**Core elements:** %s\n\n", strings.Join(exp.Analysis.CoreElements, ", "))
	}
	if len(exp.Analysis.PotentialGenres) > 0 {
		fmt.Fprintf(&b, "**Potential genres:** %s\n\n", strings.Join(exp.Analysis.PotentialGenres, ", "))
	}
	for _, p := range exp.Perspectives {
		fmt.Fprintf(&b, "- %s\n", p)
	}
	if len(exp.Perspectives) > 0 {
		b.WriteString("\n")
	}
	q := exp.CoreQuestions
	for _, kv := range [][2]string{{"Theme", q.Theme}, {"Goal", q.Goal}, {"Obstacle", q.Obstacle}, {"Stakes", q.Stakes}} {
		if kv[1] != "" {
			fmt.Fprintf(&b, "**%s?** %s\n\n", kv[0], kv[1])
		}
	}
	if ns := exp.NextSteps; ns.RecommendedStep != "" {
		fmt.Fprintf(&b, "**Next:** %s", ns.RecommendedStep)
		if ns.Reason != "" {
			fmt.Fprintf(&b, " (%s)", ns.Reason)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func (m Model) columns() (navW, chatW, sideW int) {
	navW = max(m.width*20/100, 24)
	sideW = max(m.width*28/100, 30)
	chatW = max(m.width-navW-sideW, 20)
	return navW, chatW, sideW
}

func (m *Model) layoutPanes() {
	navW, chatW, sideW := m.columns()
	// header and status bar, then the panel borders
	contentH := max(m.height-2-2, 3)

	m.nav.SetSize(navW, contentH)
	m.chat.SetSize(chatW, contentH)
	m.sidebar.SetSize(sideW, contentH)
	m.picker.SetSize(m.width, m.height)
	m.card.SetSize(m.width, m.height)
}

func (m Model) View() string {
	if !m.ready {
		return ""
	}
	st := m.store.State()

	var b strings.Builder
	b.WriteString(m.renderHeader(st))
	b.WriteString("\n")

	navW, chatW, sideW := m.columns()
	contentH := max(m.height-2-2, 3)

	navBox := RenderPanel("PHASES", m.nav.View(st.CurrentPhase), navW, contentH, m.focus == paneNav)
	chatBox := RenderPanel(m.chat.Title(), m.chat.View(), chatW, contentH, m.focus == paneChat)
	sideBox := RenderPanel(m.sidebar.Title(st.SidebarPanel), m.sidebar.View(st), sideW, contentH, m.focus == paneSidebar)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, navBox, chatBox, sideBox))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar(st))

	bg := b.String()
	switch {
	case m.confirmQuit:
		return overlayCenter(bg, m.renderConfirmQuit(), m.width, m.height)
	case m.card.IsVisible():
		return overlayCenter(bg, m.card.View(), m.width, m.height)
	case m.picker.IsVisible():
		return overlayCenter(bg, m.picker.View(), m.width, m.height)
	}
	return bg
}

func (m Model) renderHeader(st state.State) string {
	bg := lipgloss.NewStyle().Background(ColorBarBg)

	star := bg.Foreground(ColorGreen).Bold(true).Render("✦")
	titleLabel := bg.Foreground(ColorCyan).Bold(true).Render("NOVELFLOW")

	navW, _, _ := m.columns()
	leftContent := bg.Render(" ") + star + bg.Render(" ") + titleLabel
	leftCol := leftContent + bg.Render(strings.Repeat(" ", max(navW-visibleLen(leftContent), 0)))

	project := "no project"
	if p := st.CurrentProject; p != nil {
		project = p.Title
	}
	mid := bg.Foreground(ColorWhite).Bold(true).Render(" "+novel.Truncate(project, 40)) +
		bg.Foreground(ColorDim).Render("  ·  ") +
		bg.Foreground(ColorCyan).Render(st.CurrentPhase.Label())

	right := bg.Foreground(ColorBarText).Render(fmt.Sprintf("%s  %s  ", st.UI.Theme, time.Now().Format("15:04")))

	spacer := bg.Render(strings.Repeat(" ", max(m.width-visibleLen(leftCol)-visibleLen(mid)-visibleLen(right), 1)))
	return leftCol + mid + spacer + right
}

func (m Model) renderConfirmQuit() string {
	bc := lipgloss.NewStyle().Foreground(ColorYellow)
	tc := lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	dim := lipgloss.NewStyle().Foreground(ColorDim)

	innerW := 30
	side := bc.Render("┃")

	var rows []string
	title := " QUIT "
	fillLen := max(innerW-3-len(title), 0)
	rows = append(rows, bc.Render("┏━╸")+tc.Render(title)+bc.Render("╺"+strings.Repeat("━", fillLen)+"┓"))
	rows = append(rows, side+strings.Repeat(" ", innerW)+side)

	q := "  Exit novelflow?"
	if m.store.State().UI.IsLoading {
		q = "  Exit? A reply is pending."
	}
	qStyled := lipgloss.NewStyle().Foreground(ColorWhite).Bold(true).Render(q)
	rows = append(rows, side+qStyled+strings.Repeat(" ", max(innerW-visibleLen(qStyled), 0))+side)
	rows = append(rows, side+strings.Repeat(" ", innerW)+side)

	opts := fmt.Sprintf("  %s yes  %s no", SelectedStyle.Render("[y/q]"), dim.Render("[n]"))
	rows = append(rows, side+opts+strings.Repeat(" ", max(innerW-visibleLen(opts), 0))+side)
	rows = append(rows, side+strings.Repeat(" ", innerW)+side)
	rows = append(rows, bc.Render("┗"+strings.Repeat("━", innerW)+"┛"))

	return strings.Join(rows, "\n")
}

func notificationColor(t novel.NotificationType) lipgloss.Color {
	switch t {
	case novel.NotifyError:
		return ColorRed
	case novel.NotifyWarning:
		return ColorYellow
	case novel.NotifySuccess:
		return ColorGreen
	default:
		return ColorCyan
	}
}

func (m Model) renderStatusBar(st state.State) string {
	bg := lipgloss.NewStyle().Background(ColorBarBg)

	var leftText string
	switch m.focus {
	case paneChat:
		leftText = "  [Enter] Send  [Alt+Enter] Newline  [PgUp/PgDn] Scroll  [Tab] Switch  [Esc] Leave"
	case paneNav:
		leftText = "  [↑↓] Move  [Enter] Go  [p] Projects  [t] Theme  [Tab] Switch  [q] Quit"
	default:
		leftText = "  [ / ] Panel  [a] Add  [x] Delete  [d] Develop  [3] Make 3D  [Enter] Card  [q] Quit"
	}
	left := bg.Foreground(ColorBarText).Render(leftText)
	leftLen := runewidth.StringWidth(leftText)

	var right string
	if n := m.latestNotification(); n != nil {
		text := n.Title
		if n.Message != "" {
			text += ": " + n.Message
		}
		if extra := len(st.UI.Notifications) - 1; extra > 0 {
			text += fmt.Sprintf("  (+%d)", extra)
		}
		text = novel.Truncate(text, max(m.width-leftLen-6, 10))
		right = bg.Foreground(notificationColor(n.Type)).Render("● "+text) + bg.Render("  ")
	} else if st.UI.IsLoading {
		right = bg.Foreground(ColorYellow).Render("SENDING...") + bg.Render("  ")
	}

	spacer := bg.Render(strings.Repeat(" ", max(m.width-leftLen-visibleLen(right), 1)))
	return left + spacer + right
}

// overlayCenter draws modal centered over bg, with the panes still visible
// around it.
func overlayCenter(bg, modal string, width, height int) string {
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	modalLines := strings.Split(modal, "\n")
	modalW := 0
	for _, ml := range modalLines {
		modalW = max(modalW, visibleLen(ml))
	}
	top := max((height-len(modalLines))/2, 0)
	left := max((width-modalW)/2, 0)

	for i, ml := range modalLines {
		if row := top + i; row < len(bgLines) {
			bgLines[row] = spliceAnsiLine(bgLines[row], ml, left)
		}
	}
	return strings.Join(bgLines, "\n")
}

// ansiSeg is one escape sequence (width 0) or one printable rune with its
// cell width.
type ansiSeg struct {
	text  string
	width int
}

func splitAnsiSegments(s string) []ansiSeg {
	var segs []ansiSeg
	for i := 0; i < len(s); {
		if s[i] == '\x1b' {
			j := i + 1
			for j < len(s) && !isAnsiFinal(s[j]) {
				j++
			}
			j = min(j+1, len(s))
			segs = append(segs, ansiSeg{text: s[i:j]})
			i = j
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		segs = append(segs, ansiSeg{text: s[i : i+size], width: runewidth.RuneWidth(r)})
		i += size
	}
	return segs
}

func isAnsiFinal(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// spliceAnsiLine writes modalLine over bgLine from cell column left. The
// background keeps its styling on both sides.
func spliceAnsiLine(bgLine, modalLine string, left int) string {
	segs := splitAnsiSegments(bgLine)
	prefix := sliceCells(segs, 0, left)
	pad := strings.Repeat(" ", max(left-visibleLen(prefix), 0))
	return prefix + pad + "\x1b[0m" + modalLine + sliceCells(segs, left+visibleLen(modalLine), -1)
}

// sliceCells returns the cells [from, to) of segs, or [from, end) when to is
// negative. Every escape before the cut is kept so styling carries over. A
// wide rune that straddles an edge becomes spaces.
func sliceCells(segs []ansiSeg, from, to int) string {
	var b strings.Builder
	col := 0
	for _, seg := range segs {
		if to >= 0 && col >= to {
			break
		}
		if seg.width == 0 {
			b.WriteString(seg.text)
			continue
		}
		start, end := col, col+seg.width
		col = end
		switch {
		case end <= from:
		case start >= from && (to < 0 || end <= to):
			b.WriteString(seg.text)
		default:
			hi := end
			if to >= 0 {
				hi = min(end, to)
			}
			b.WriteString(strings.Repeat(" ", hi-max(start, from)))
		}
	}
	return b.String()
}

func visibleLen(s string) int {
	return runewidth.StringWidth(stripAnsi(s))
}

func stripAnsi(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		if r == '\x1b' {
			inEsc = true
			continue
		}
		if inEsc {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
