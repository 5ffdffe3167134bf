package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thinkwright/novelflow/internal/novel"
)

type cardTab int

const (
	tabProfile cardTab = iota
	tabRelationships
	tabArc
)

var cardTabs = []struct {
	tab   cardTab
	label string
}{
	{tabProfile, "Profile"},
	{tabRelationships, "Relationships"},
	{tabArc, "Arc"},
}

// CharacterModal shows one character's card in a centered overlay. The tab
// resets to the profile every time the card opens.
type CharacterModal struct {
	visible   bool
	character novel.Character
	tab       cardTab
	scroll    int
	lines     []string
	width     int
	height    int
}

func NewCharacterModal() CharacterModal {
	return CharacterModal{}
}

func (m *CharacterModal) IsVisible() bool {
	return m.visible
}

func (m *CharacterModal) Show(ch novel.Character) {
	m.visible = true
	m.character = ch
	m.tab = tabProfile
	m.scroll = 0
	m.renderLines()
}

// Refresh swaps in an updated copy of the open character.
func (m *CharacterModal) Refresh(ch novel.Character) {
	if !m.visible || ch.ID != m.character.ID {
		return
	}
	m.character = ch
	m.renderLines()
}

func (m *CharacterModal) CharacterID() string {
	return m.character.ID
}

func (m *CharacterModal) Close() {
	m.visible = false
}

func (m *CharacterModal) SetSize(w, h int) {
	m.width = w
	m.height = h
	if m.visible {
		m.renderLines()
	}
}

func (m *CharacterModal) ScrollUp(n int) {
	m.scroll = max(m.scroll-n, 0)
}

func (m *CharacterModal) ScrollDown(n int) {
	maxScroll := max(len(m.lines)-m.contentHeight(), 0)
	m.scroll = min(m.scroll+n, maxScroll)
}

func (m *CharacterModal) NextTab() {
	m.tab = (m.tab + 1) % cardTab(len(cardTabs))
	m.scroll = 0
	m.renderLines()
}

func (m *CharacterModal) PrevTab() {
	m.tab = (m.tab + cardTab(len(cardTabs)) - 1) % cardTab(len(cardTabs))
	m.scroll = 0
	m.renderLines()
}

func (m *CharacterModal) Tab() cardTab {
	return m.tab
}

func (m *CharacterModal) contentHeight() int {
	return max(m.height*60/100, 5)
}

func (m *CharacterModal) modalWidth() int {
	return min(max(m.width*60/100, 40), 90)
}

func (m *CharacterModal) renderLines() {
	contentW := max(m.modalWidth()-8, 20)
	ch := m.character

	var lines []string
	entry := func(label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, DimStyle.Render(label))
		for _, l := range wrapText(value, contentW) {
			lines = append(lines, "  "+NormalStyle.Render(l))
		}
	}
	list := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		lines = append(lines, DimStyle.Render(label))
		for _, it := range items {
			lines = append(lines, "  "+DimStyle.Render("·")+" "+NormalStyle.Render(it))
		}
	}

	switch m.tab {
	case tabProfile:
		groups := ch.Profile.Groups()
		if len(groups) == 0 {
			lines = append(lines, DimStyle.Render("No profile yet. Press [3] to deepen this character."))
		}
		for _, g := range groups {
			lines = append(lines, lipgloss.NewStyle().Foreground(ColorCyan).Bold(true).Render(g.Title))
			for _, f := range g.Fields {
				entry("  "+f.Label, f.Value)
			}
			lines = append(lines, "")
		}

	case tabRelationships:
		if len(ch.Relationships) == 0 {
			lines = append(lines, DimStyle.Render("No relationships recorded"))
		}
		names := make([]string, 0, len(ch.Relationships))
		for name := range ch.Relationships {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			lines = append(lines, SelectedStyle.Render(name))
			for _, l := range wrapText(ch.Relationships[name], contentW) {
				lines = append(lines, "  "+NormalStyle.Render(l))
			}
			lines = append(lines, "")
		}

	case tabArc:
		arc := ch.Arc
		if arc == nil {
			lines = append(lines, DimStyle.Render("No arc yet"))
			break
		}
		entry("Behavior chain", arc.BehaviorChain)
		lines = append(lines, "", lipgloss.NewStyle().Foreground(ColorCyan).Bold(true).Render("Goals"))
		entry("  Big goal", arc.GoalSystem.BigGoal)
		list("  Mid goals", arc.GoalSystem.MidGoals)
		list("  Short goals", arc.GoalSystem.ShortGoals)
		lines = append(lines, "", lipgloss.NewStyle().Foreground(ColorCyan).Bold(true).Render("Obstacles"))
		entry("  External", arc.ObstacleSystem.External)
		entry("  Internal", arc.ObstacleSystem.Internal)
		entry("  Philosophical", arc.ObstacleSystem.Philosophical)
	}

	m.lines = lines
}

// View renders the centered modal overlay.
func (m *CharacterModal) View() string {
	if !m.visible {
		return ""
	}

	modalW := m.modalWidth()
	contentH := m.contentHeight()
	innerW := modalW - 2

	bc := lipgloss.NewStyle().Foreground(ColorAccent)
	tc := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	dim := lipgloss.NewStyle().Foreground(ColorDim)
	side := bc.Render("┃")

	var rows []string
	addLine := func(content string) {
		if visibleLen(content) > innerW {
			content = truncateToWidth(content, innerW)
		}
		pad := max(innerW-visibleLen(content), 0)
		rows = append(rows, side+content+strings.Repeat(" ", pad)+side)
	}

	title := fmt.Sprintf(" %s · %s ", strings.ToUpper(m.character.Name), m.character.RoleType)
	fillLen := max(innerW-3-visibleLen(title), 0)
	rows = append(rows, bc.Render("┏━╸")+tc.Render(title)+bc.Render("╺"+strings.Repeat("━", fillLen)+"┓"))

	var tabs []string
	for _, t := range cardTabs {
		if t.tab == m.tab {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(ColorSelect).Bold(true).Render(" "+t.label+" "))
		} else {
			tabs = append(tabs, dim.Render(" "+t.label+" "))
		}
	}
	addLine("  " + strings.Join(tabs, dim.Render("│")))
	addLine(dim.Render("  " + strings.Repeat("─", max(innerW-4, 0))))

	for i := 0; i < contentH; i++ {
		idx := m.scroll + i
		content := ""
		if idx < len(m.lines) {
			content = "  " + m.lines[idx]
		}
		addLine(content)
	}

	addLine(dim.Render("  ←/→ switch tab  ↑/↓ scroll  [3] make 3D  Esc close"))
	if len(m.lines) > contentH {
		pct := (m.scroll * 100) / max(len(m.lines)-contentH, 1)
		pos := dim.Render(fmt.Sprintf("%d%%  ", pct))
		rows = append(rows, side+strings.Repeat(" ", max(innerW-visibleLen(pos), 0))+pos+side)
	}
	rows = append(rows, bc.Render("┗"+strings.Repeat("━", innerW)+"┛"))

	return strings.Join(rows, "\n")
}
