package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/thinkwright/novelflow/internal/novel"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "short line", 20, []string{"short line"}},
		{"breaks at space", "the quick brown fox", 10, []string{"the quick", "brown fox"}},
		{"keeps blank lines", "a\n\nb", 10, []string{"a", "", "b"}},
		{"hard break", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"zero width", "anything", 0, []string{"anything"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.text, tt.width))
		})
	}
}

func TestWrapText_WideRunes(t *testing.T) {
	// Each CJK rune is two columns wide.
	for _, line := range wrapText("灵感来自一个梦境", 6) {
		assert.LessOrEqual(t, visibleLen(line), 6, line)
	}
}

func TestVisibleLen_IgnoresEscapes(t *testing.T) {
	styled := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000")).Render("hello")
	assert.Equal(t, 5, visibleLen(styled))
	assert.Equal(t, "hello", stripAnsi(styled))
}

func TestTruncateToWidth(t *testing.T) {
	styled := "\x1b[31mabcdef\x1b[0m"
	got := truncateToWidth(styled, 3)
	assert.Equal(t, "abc", stripAnsi(got))
	assert.True(t, strings.HasSuffix(got, "\x1b[0m"))
}

func TestRenderBar_Width(t *testing.T) {
	for _, pct := range []int{-10, 0, 33, 50, 99, 100, 250} {
		assert.Equal(t, 20, visibleLen(RenderBar(pct, 20)), "pct=%d", pct)
	}
	assert.Equal(t, "", RenderBar(50, 0))
	assert.Equal(t, strings.Repeat("█", 10), stripAnsi(RenderBar(100, 10)))
	assert.Equal(t, strings.Repeat("░", 10), stripAnsi(RenderBar(0, 10)))
}

func TestProjectInfoView_WithTarget(t *testing.T) {
	p := &novel.Project{Title: "Salt", CurrentWordCount: 50000, TargetWordCount: 100000, Status: novel.StatusWriting}
	out := stripAnsi(strings.Join(projectInfoView(p, 40), "\n"))

	assert.Contains(t, out, "50,000")
	assert.Contains(t, out, "100,000")
	assert.Contains(t, out, "50% complete")
	assert.Contains(t, out, "not set", "missing genre falls back")
}

func TestProjectInfoView_NoTarget(t *testing.T) {
	p := &novel.Project{Title: "Salt", CurrentWordCount: 1200}
	out := stripAnsi(strings.Join(projectInfoView(p, 40), "\n"))

	assert.Contains(t, out, "1,200 / ∞")
	assert.NotContains(t, out, "complete")
	assert.NotContains(t, out, "█")
}

func TestProjectInfoView_NoProject(t *testing.T) {
	out := stripAnsi(strings.Join(projectInfoView(nil, 40), "\n"))
	assert.Contains(t, out, "No project selected")
}

func TestProgressView(t *testing.T) {
	out := stripAnsi(strings.Join(progressView(novel.PhaseCharacter, 40), "\n"))

	assert.Contains(t, out, "✓ Inspiration")
	assert.Contains(t, out, "● Characters")
	assert.Contains(t, out, "○ Editing")
	assert.Contains(t, out, "43% overall")
}

func TestOutlineView(t *testing.T) {
	assert.Contains(t, stripAnsi(strings.Join(outlineView(nil, 40), "")), "No outline yet")

	o := &novel.Outline{Acts: []novel.Act{{ActNumber: 1, Title: "Setup", Percentage: 25}}}
	out := stripAnsi(strings.Join(outlineView(o, 40), "\n"))
	assert.Contains(t, out, "Act 1")
	assert.Contains(t, out, "25%")
}

func TestOrderedPayloads(t *testing.T) {
	sd := novel.StructuredData{
		novel.SuggestedActionsPayload{},
		novel.OutlinePayload{},
		novel.ConflictOptionsPayload{},
		novel.CharacterPayload{},
	}
	var kinds []novel.PayloadKind
	for _, p := range orderedPayloads(sd) {
		kinds = append(kinds, p.Kind())
	}
	assert.Equal(t, []novel.PayloadKind{
		novel.KindConflictOptions,
		novel.KindCharacter,
		novel.KindOutline,
		novel.KindSuggestedActions,
	}, kinds)
	assert.IsType(t, novel.SuggestedActionsPayload{}, sd[0], "input order is left alone")
}

func TestRenderPayload_ConflictOptions(t *testing.T) {
	p := novel.ConflictOptionsPayload{Options: []novel.ConflictOption{
		{Type: "moral", Goal: "save the lighthouse", Obstacle: "the storm"},
	}}
	out := stripAnsi(strings.Join(renderPayload(p, 60), "\n"))
	assert.Contains(t, out, "CONFLICT OPTIONS")
	assert.Contains(t, out, "1. moral")
	assert.Contains(t, out, "goal: save the lighthouse")
	assert.NotContains(t, out, "routine:", "empty fields are skipped")
}

func TestCyclePanel(t *testing.T) {
	assert.Equal(t, novel.PanelInspirations, CyclePanel(novel.PanelProjectInfo, 1))
	assert.Equal(t, novel.PanelProgress, CyclePanel(novel.PanelProjectInfo, -1))
	assert.Equal(t, novel.PanelProjectInfo, CyclePanel(novel.PanelProgress, 1))
	assert.Equal(t, novel.Panels[0], CyclePanel(novel.PanelSettings, 1), "unknown panels restart")
}

func TestQuickStart(t *testing.T) {
	assert.Equal(t, "I want to start recording inspiration", quickStart("f1", novel.PhaseInspiration))
	assert.Equal(t, "I want to start working on this", quickStart("f1", novel.PhasePlot))
	assert.Equal(t, "Please introduce your features", quickStart("f2", novel.PhaseEditing))
	assert.Equal(t, "", quickStart("f3", novel.PhaseEditing))
}

func TestWindow(t *testing.T) {
	start, end := window(0, 10, 4)
	assert.Equal(t, [2]int{0, 4}, [2]int{start, end})
	start, end = window(7, 10, 4)
	assert.Equal(t, [2]int{4, 8}, [2]int{start, end})
	start, end = window(1, 2, 4)
	assert.Equal(t, [2]int{0, 2}, [2]int{start, end})
}

func TestOverlayCenter(t *testing.T) {
	bg := strings.TrimRight(strings.Repeat(strings.Repeat(".", 10)+"\n", 5), "\n")
	out := strings.Split(overlayCenter(bg, "XX", 10, 5), "\n")

	assert.Len(t, out, 5)
	assert.Equal(t, "....XX....", stripAnsi(out[2]))
	assert.Equal(t, "..........", out[0])
}

func TestSpliceAnsiLine_WideRunes(t *testing.T) {
	// 灵感来自梦 is ten cells; the modal covers cells 3 and 4, cutting 感 and 来.
	out := spliceAnsiLine("灵感来自梦", "XX", 3)
	assert.Equal(t, 10, visibleLen(out))
	assert.Equal(t, "灵 XX 自梦", stripAnsi(out))
}

func TestSpliceAnsiLine_KeepsStyleRightOfModal(t *testing.T) {
	bg := "\x1b[31m" + strings.Repeat("r", 8) + "\x1b[0m"
	out := spliceAnsiLine(bg, "XX", 3)

	assert.Equal(t, "rrrXXrrr", stripAnsi(out))
	right := out[strings.Index(out, "XX")+2:]
	assert.True(t, strings.HasPrefix(right, "\x1b[31m"), "red resumes after the modal: %q", right)
}

func TestSpliceAnsiLine_ShortBackground(t *testing.T) {
	assert.Equal(t, "ab  XX", stripAnsi(spliceAnsiLine("ab", "XX", 4)))
}

func TestRenderPanel_Height(t *testing.T) {
	out := RenderPanel("TITLE", "one\ntwo", 20, 4, false)
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, 6)
	for _, l := range lines {
		assert.Equal(t, 20, visibleLen(l))
	}
	assert.Contains(t, stripAnsi(lines[0]), "TITLE")
}

func TestNavList_Follow(t *testing.T) {
	n := NewNavList()
	assert.Equal(t, novel.PhaseInspiration, n.Selected())

	n.Follow(novel.PhaseRhythm)
	assert.Equal(t, novel.PhaseRhythm, n.Selected())

	for range navEntries {
		n.Down()
	}
	assert.Equal(t, novel.PhaseKnowledge, n.Selected())
}

func TestFormatMsgTime(t *testing.T) {
	assert.Equal(t, "", formatMsgTime(""))
	assert.Equal(t, "", formatMsgTime("not a time"))
	assert.NotEmpty(t, formatMsgTime("2024-05-01T10:30:00Z"))
}
