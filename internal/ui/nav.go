package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/thinkwright/novelflow/internal/novel"
)

// navEntries is the navigation order: the dashboard, the seven creation
// phases, then the knowledge base.
var navEntries = append(append([]novel.Phase{novel.PhaseDashboard}, novel.Phases...), novel.PhaseKnowledge)

var navGlyphs = map[novel.Phase]string{
	novel.PhaseDashboard:   "⌂",
	novel.PhaseInspiration: "✦",
	novel.PhaseStructure:   "▤",
	novel.PhaseCharacter:   "☺",
	novel.PhasePlot:        "◈",
	novel.PhaseContent:     "✎",
	novel.PhaseRhythm:      "∿",
	novel.PhaseEditing:     "✂",
	novel.PhaseKnowledge:   "◎",
}

type NavList struct {
	cursor int
	width  int
	height int
}

func NewNavList() NavList {
	return NavList{cursor: 1}
}

func (n *NavList) SetSize(w, h int) {
	n.width = w
	n.height = h
}

func (n *NavList) Up() {
	if n.cursor > 0 {
		n.cursor--
	}
}

func (n *NavList) Down() {
	if n.cursor < len(navEntries)-1 {
		n.cursor++
	}
}

func (n *NavList) Selected() novel.Phase {
	return navEntries[n.cursor]
}

// Follow moves the cursor onto p, so the list tracks phase changes made
// elsewhere.
func (n *NavList) Follow(p novel.Phase) {
	for i, e := range navEntries {
		if e == p {
			n.cursor = i
			return
		}
	}
}

func (n *NavList) View(current novel.Phase) string {
	innerW := n.width - 2
	var lines []string
	lines = append(lines, "")

	for i, phase := range navEntries {
		glyph := navGlyphs[phase]
		label := phase.Label()
		if idx := phase.Index(); idx >= 0 {
			label = fmt.Sprintf("%d. %s", idx+1, label)
		}

		marker := " "
		if phase == current {
			marker = lipgloss.NewStyle().Foreground(ColorGreen).Render("●")
		}

		var line string
		if i == n.cursor {
			sel := lipgloss.NewStyle().Background(ColorSelectBg)
			line = sel.Foreground(ColorSelect).Render(" ▸ ") +
				sel.Render(marker+" ") +
				sel.Foreground(ColorSelect).Bold(true).Render(glyph+" "+label)
			pad := max(innerW-visibleLen(line), 0)
			line += sel.Render(strings.Repeat(" ", pad))
		} else {
			line = "   " + marker + " " + NormalStyle.Render(glyph+" "+label)
		}
		lines = append(lines, line)

		// Separate the phases from the bracketing entries.
		if phase == novel.PhaseDashboard || phase == novel.PhaseEditing {
			lines = append(lines, DimStyle.Render("  "+strings.Repeat("─", max(innerW-4, 0))))
		}
	}

	persona := novel.PersonaForPhase(current).Info()
	lines = append(lines, "", DimStyle.Render("  ASSISTANT"))
	lines = append(lines, "  "+persona.Emoji+" "+AssistantMsgStyle.Render(persona.Name))

	return strings.Join(lines, "\n")
}
