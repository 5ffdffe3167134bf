package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/thinkwright/novelflow/internal/novel"
	"github.com/thinkwright/novelflow/internal/state"
)

const inputHeight = 3

// ChatPane shows the conversation with the current persona and owns the
// message input.
type ChatPane struct {
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer
	theme    state.Theme

	messages []novel.Message
	phase    novel.Phase
	loading  bool
	width    int
	height   int
}

func NewChatPane() ChatPane {
	ta := textarea.New()
	ta.Placeholder = novel.Placeholder(novel.PhaseInspiration)
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.Prompt = "┃ "
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetKeys("alt+enter")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorGreen)

	return ChatPane{
		viewport: viewport.New(80, 20),
		input:    ta,
		spinner:  sp,
		theme:    state.ThemeDark,
		phase:    novel.PhaseInspiration,
	}
}

func (c *ChatPane) SetSize(w, h int) {
	c.width = w
	c.height = h
	c.viewport.Width = max(w-3, 10)
	c.viewport.Height = c.historyHeight()
	c.input.SetWidth(max(w-4, 10))
	c.buildRenderer()
	c.refresh(true)
}

func (c *ChatPane) historyHeight() int {
	// persona header (2) + separator (1) + input
	return max(c.height-3-inputHeight, 1)
}

func (c *ChatPane) SetTheme(t state.Theme) {
	c.theme = t
	c.spinner.Style = lipgloss.NewStyle().Foreground(ColorGreen)
	c.buildRenderer()
	c.refresh(false)
}

func (c *ChatPane) buildRenderer() {
	style := "dark"
	if c.theme == state.ThemeLight {
		style = "light"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(max(c.viewport.Width-4, 20)),
	)
	if err != nil {
		c.renderer = nil
		return
	}
	c.renderer = r
}

func (c *ChatPane) SetPhase(p novel.Phase) {
	c.phase = p
	c.input.Placeholder = novel.Placeholder(p)
	c.refresh(false)
}

func (c *ChatPane) SetMessages(msgs []novel.Message) {
	c.messages = msgs
	c.refresh(true)
}

// SetLoading toggles the thinking indicator. Input is blurred while a reply
// is pending.
func (c *ChatPane) SetLoading(loading bool) tea.Cmd {
	c.loading = loading
	c.refresh(true)
	if loading {
		c.input.Blur()
		return c.spinner.Tick
	}
	return nil
}

func (c *ChatPane) Focus() tea.Cmd {
	if c.loading {
		return nil
	}
	return c.input.Focus()
}

func (c *ChatPane) Blur() {
	c.input.Blur()
}

func (c *ChatPane) Focused() bool {
	return c.input.Focused()
}

func (c *ChatPane) Value() string {
	return c.input.Value()
}

func (c *ChatPane) ResetInput() {
	c.input.Reset()
}

func (c *ChatPane) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// UpdateSpinner advances the spinner while loading and lets it stop
// otherwise.
func (c *ChatPane) UpdateSpinner(msg spinner.TickMsg) tea.Cmd {
	if !c.loading {
		return nil
	}
	var cmd tea.Cmd
	c.spinner, cmd = c.spinner.Update(msg)
	c.refresh(false)
	return cmd
}

func (c *ChatPane) ScrollUp(n int) {
	c.viewport.SetYOffset(c.viewport.YOffset - n)
}

func (c *ChatPane) ScrollDown(n int) {
	c.viewport.SetYOffset(c.viewport.YOffset + n)
}

func (c *ChatPane) IsEmpty() bool {
	return len(c.messages) == 0
}

func (c *ChatPane) refresh(toBottom bool) {
	follow := toBottom || c.viewport.AtBottom()
	c.viewport.SetContent(strings.Join(c.renderLines(), "\n"))
	if follow {
		c.viewport.GotoBottom()
	}
}

func (c *ChatPane) renderLines() []string {
	contentWidth := max(c.viewport.Width-6, 20)
	persona := novel.PersonaForPhase(c.phase).Info()

	if len(c.messages) == 0 && !c.loading {
		return c.renderWelcome(persona, contentWidth)
	}

	var lines []string
	sepWidth := min(contentWidth, 40)
	makeSep := func(style lipgloss.Style, ts string) string {
		tsStr := formatMsgTime(ts)
		if tsStr == "" {
			return style.Render("  ┃") + DimStyle.Render(strings.Repeat("╌", sepWidth))
		}
		dashLen := max(sepWidth-len(tsStr)-1, 4)
		return style.Render("  ┃") + DimStyle.Render(strings.Repeat("╌", dashLen)+" "+tsStr)
	}

	for i, msg := range c.messages {
		switch msg.Role {
		case novel.MessageUser:
			if i > 0 {
				lines = append(lines, makeSep(UserMsgStyle, msg.Timestamp))
			}
			lines = append(lines, UserMsgStyle.Render("  ┃ ▶ YOU"))
			for _, line := range wrapText(msg.Content, contentWidth) {
				lines = append(lines, UserMsgStyle.Render("  ┃ ")+NormalStyle.Render(line))
			}
			lines = append(lines, "")

		case novel.MessageSystem:
			if msg.Content == "" {
				continue
			}
			lines = append(lines, SystemMsgStyle.Render("  ┃ ◌ "+msg.Content), "")

		default:
			if i > 0 {
				lines = append(lines, makeSep(AssistantMsgStyle, msg.Timestamp))
			}
			who := msg.Persona
			if who == "" {
				who = novel.PersonaForPhase(c.phase)
			}
			info := who.Info()
			lines = append(lines, AssistantMsgStyle.Render("  ┃ ")+info.Emoji+AssistantMsgStyle.Render(" "+strings.ToUpper(info.Name)))

			for _, line := range strings.Split(strings.TrimRight(c.renderMarkdown(msg.Content, contentWidth), "\n"), "\n") {
				lines = append(lines, AssistantMsgStyle.Render("  ┃ ")+line)
			}
			for _, p := range orderedPayloads(msg.StructuredData) {
				for _, line := range renderPayload(p, contentWidth) {
					lines = append(lines, AssistantMsgStyle.Render("  ┃ ")+line)
				}
			}
			if md := msg.Metadata; md != nil && md.Usage != nil && md.Usage.OutputTokens > 0 {
				usage := fmt.Sprintf("  ┃   ⊘ %s in / %s out",
					novel.FormatTokens(md.Usage.InputTokens), novel.FormatTokens(md.Usage.OutputTokens))
				if md.Model != "" {
					usage += "  " + md.Model
				}
				lines = append(lines, DimStyle.Render(usage))
			}
			lines = append(lines, "")
		}
	}

	if c.loading {
		lines = append(lines, "  "+c.spinner.View()+DimStyle.Render(" "+persona.Name+" is thinking..."))
	}
	return lines
}

func (c *ChatPane) renderWelcome(persona novel.PersonaInfo, width int) []string {
	center := func(s string) string {
		pad := max((width-visibleLen(s))/2, 0)
		return strings.Repeat(" ", pad) + s
	}
	top := max(c.viewport.Height/2-5, 0)
	lines := make([]string, top)
	lines = append(lines,
		center(persona.Emoji),
		"",
		center(HeaderStyle.Render("Talk with "+persona.Name)),
		center(DimStyle.Render(persona.Description+". Start writing!")),
		"",
		center(ActionStyle.Render("[F1]")+NormalStyle.Render(" ✦ Start new project")+"    "+
			ActionStyle.Render("[F2]")+NormalStyle.Render(" ◎ Introduce features")),
	)
	return lines
}

// quickStart returns the preset message for one of the welcome shortcuts.
func quickStart(key string, phase novel.Phase) string {
	switch key {
	case "f1":
		if phase == novel.PhaseInspiration {
			return "I want to start recording inspiration"
		}
		return "I want to start working on this"
	case "f2":
		return "Please introduce your features"
	}
	return ""
}

func (c *ChatPane) renderMarkdown(content string, width int) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = strings.Join(wrapText(content, width), "\n")
		}
	}()
	if c.renderer != nil && content != "" {
		if out, err := c.renderer.Render(content); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return strings.Join(wrapText(content, width), "\n")
}

// Title returns the pane title string for the border header.
func (c *ChatPane) Title() string {
	title := "CONVERSATION"
	if !c.viewport.AtBottom() {
		title += fmt.Sprintf("  ↑ %d%%", int(c.viewport.ScrollPercent()*100))
	}
	if c.loading {
		title += "  ● WAITING"
	}
	return title
}

func (c *ChatPane) View() string {
	info := novel.PersonaForPhase(c.phase).Info()
	header := " " + info.Emoji + " " + HeaderStyle.Render(info.Name) +
		"  " + lipgloss.NewStyle().Foreground(ColorGreen).Render("● online")
	desc := " " + DimStyle.Render(info.Description)

	body := strings.Split(c.viewport.View(), "\n")
	scrollbar := RenderScrollbar(c.viewport.Height, c.viewport.TotalLineCount(), c.viewport.YOffset)
	innerW := c.width - 3
	for i := range body {
		sb := " "
		if i < len(scrollbar) {
			sb = scrollbar[i]
		}
		pad := max(innerW-visibleLen(body[i]), 0)
		body[i] = body[i] + strings.Repeat(" ", pad) + sb
	}

	rule := DimStyle.Render(strings.Repeat("─", max(c.width-2, 0)))
	input := c.input.View()
	if c.loading {
		input = DimStyle.Render("  waiting for reply...")
	}

	parts := append([]string{header, desc}, body...)
	parts = append(parts, rule, input)
	return strings.Join(parts, "\n")
}

// orderedPayloads returns payloads in render order: conflict options,
// character, outline, then suggested actions.
func orderedPayloads(sd novel.StructuredData) []novel.Payload {
	rank := map[novel.PayloadKind]int{
		novel.KindConflictOptions:  0,
		novel.KindCharacter:        1,
		novel.KindOutline:          2,
		novel.KindSuggestedActions: 3,
	}
	out := slices.Clone([]novel.Payload(sd))
	slices.SortStableFunc(out, func(a, b novel.Payload) int {
		return rank[a.Kind()] - rank[b.Kind()]
	})
	return out
}

func renderPayload(p novel.Payload, width int) []string {
	var lines []string
	head := func(s string) {
		lines = append(lines, "", ActionStyle.Bold(true).Render(s))
	}
	field := func(label, value string) {
		if value == "" {
			return
		}
		wrapped := wrapText(value, max(width-len(label)-4, 10))
		for i, w := range wrapped {
			if i == 0 {
				lines = append(lines, "  "+DimStyle.Render(label+": ")+NormalStyle.Render(w))
			} else {
				lines = append(lines, "  "+strings.Repeat(" ", len(label)+2)+NormalStyle.Render(w))
			}
		}
	}

	switch v := p.(type) {
	case novel.ConflictOptionsPayload:
		head("⚔ CONFLICT OPTIONS")
		for i, o := range v.Options {
			lines = append(lines, SelectedStyle.Render(fmt.Sprintf(" %d. %s", i+1, o.Type)))
			field("routine", o.RoutineElement)
			field("abnormal", o.AbnormalElement)
			field("goal", o.Goal)
			field("obstacle", o.Obstacle)
			field("inescapable", o.Inescapable)
		}
	case novel.CharacterPayload:
		ch := v.Character
		head("☺ CHARACTER")
		lines = append(lines, " "+SelectedStyle.Render(ch.Name)+DimStyle.Render(" ("+string(ch.RoleType)+")"))
		for _, g := range ch.Profile.Groups() {
			lines = append(lines, "  "+UserMsgStyle.Render(g.Title))
			for _, f := range g.Fields {
				field(f.Label, f.Value)
			}
		}
	case novel.OutlinePayload:
		head("▤ OUTLINE")
		if v.Outline.TargetWordCount > 0 {
			lines = append(lines, "  "+DimStyle.Render("target: "+novel.FormatCount(v.Outline.TargetWordCount)+" words"))
		}
		for _, act := range v.Outline.Acts {
			pct := int(act.Percentage + 0.5)
			lines = append(lines, fmt.Sprintf("  Act %d  %s  %s %d%%",
				act.ActNumber, NormalStyle.Render(act.Title), RenderBar(pct, 12), pct))
			for _, kp := range act.KeyPoints {
				lines = append(lines, "    "+DimStyle.Render("· ")+NormalStyle.Render(kp))
			}
		}
	case novel.SuggestedActionsPayload:
		head("→ SUGGESTED NEXT STEPS")
		for _, a := range v.Actions {
			line := "  " + SelectedStyle.Render("▸ "+a.Label)
			if a.Description != "" {
				line += DimStyle.Render("  " + a.Description)
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// formatMsgTime parses an ISO timestamp and returns a compact time string.
func formatMsgTime(ts string) string {
	if ts == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04:05.000Z", ts)
		if err != nil {
			return ""
		}
	}
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}

// wrapText breaks text into lines no wider than width columns, preferring
// to break at spaces.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		if paragraph == "" {
			lines = append(lines, "")
			continue
		}

		runes := []rune(paragraph)
		for runewidth.StringWidth(string(runes)) > width {
			cut := fitRunes(runes, width)
			for i := cut; i > cut/2; i-- {
				if runes[i] == ' ' {
					cut = i
					break
				}
			}
			lines = append(lines, string(runes[:cut]))
			runes = []rune(strings.TrimLeft(string(runes[cut:]), " "))
		}
		if len(runes) > 0 {
			lines = append(lines, string(runes))
		}
	}

	return lines
}

// fitRunes is the number of leading runes that fit in width columns, at
// least one.
func fitRunes(runes []rune, width int) int {
	col := 0
	for i, r := range runes {
		col += runewidth.RuneWidth(r)
		if col > width {
			return max(i, 1)
		}
	}
	return len(runes)
}
