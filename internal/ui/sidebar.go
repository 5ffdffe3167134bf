package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/thinkwright/novelflow/internal/novel"
	"github.com/thinkwright/novelflow/internal/state"
)

// Sidebar renders the project panels. Which panel is showing lives in the
// store; the sidebar only keeps list cursors and the add-inspiration input.
type Sidebar struct {
	inspCursor    int
	charCursor    int
	width         int
	height        int
	adding        bool
	input         textinput.Model
	confirmDelete bool
}

func NewSidebar() Sidebar {
	ti := textinput.New()
	ti.Placeholder = "a scene, an image, a line..."
	ti.CharLimit = 1000
	ti.Prompt = "spark: "
	styleInput(&ti)
	return Sidebar{input: ti}
}

// styleInput colours ti from the current palette.
func styleInput(ti *textinput.Model) {
	ti.PromptStyle = lipgloss.NewStyle().Foreground(ColorCyan)
	ti.TextStyle = lipgloss.NewStyle().Foreground(ColorWhite)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(ColorDim)
}

// Restyle picks up a palette change.
func (s *Sidebar) Restyle() { styleInput(&s.input) }

func (s *Sidebar) SetSize(w, h int) {
	s.width = w
	s.height = h
	s.input.Width = max(w-12, 10)
}

// Clamp keeps the cursors inside the current collections.
func (s *Sidebar) Clamp(data state.ProjectData) {
	s.inspCursor = clampCursor(s.inspCursor, len(data.Inspirations))
	s.charCursor = clampCursor(s.charCursor, len(data.Characters))
}

func clampCursor(c, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(c, 0), n-1)
}

func (s *Sidebar) Up(panel novel.Panel) {
	switch panel {
	case novel.PanelInspirations:
		s.inspCursor = max(s.inspCursor-1, 0)
	case novel.PanelCharacters:
		s.charCursor = max(s.charCursor-1, 0)
	}
}

func (s *Sidebar) Down(panel novel.Panel, data state.ProjectData) {
	switch panel {
	case novel.PanelInspirations:
		s.inspCursor = clampCursor(s.inspCursor+1, len(data.Inspirations))
	case novel.PanelCharacters:
		s.charCursor = clampCursor(s.charCursor+1, len(data.Characters))
	}
}

func (s *Sidebar) SelectedInspiration(data state.ProjectData) *novel.Inspiration {
	if s.inspCursor < len(data.Inspirations) {
		return &data.Inspirations[s.inspCursor]
	}
	return nil
}

func (s *Sidebar) SelectedCharacter(data state.ProjectData) *novel.Character {
	if s.charCursor < len(data.Characters) {
		return &data.Characters[s.charCursor]
	}
	return nil
}

func (s *Sidebar) IsAdding() bool {
	return s.adding
}

func (s *Sidebar) StartAdd() tea.Cmd {
	s.adding = true
	s.input.SetValue("")
	return s.input.Focus()
}

func (s *Sidebar) CancelAdd() {
	s.adding = false
	s.input.Blur()
}

// FinishAdd closes the input and returns the trimmed text.
func (s *Sidebar) FinishAdd() string {
	s.adding = false
	s.input.Blur()
	return strings.TrimSpace(s.input.Value())
}

func (s *Sidebar) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *Sidebar) IsConfirmingDelete() bool { return s.confirmDelete }
func (s *Sidebar) AskDelete()               { s.confirmDelete = true }
func (s *Sidebar) CancelDelete()            { s.confirmDelete = false }

// CyclePanel steps through novel.Panels.
func CyclePanel(current novel.Panel, dir int) novel.Panel {
	for i, p := range novel.Panels {
		if p == current {
			return novel.Panels[(i+dir+len(novel.Panels))%len(novel.Panels)]
		}
	}
	return novel.Panels[0]
}

func (s *Sidebar) Title(panel novel.Panel) string {
	return panel.Label() + "  [ ]"
}

func (s *Sidebar) View(st state.State) string {
	innerW := max(s.width-2, 10)
	var lines []string

	switch st.SidebarPanel {
	case novel.PanelInspirations:
		lines = s.inspirationsView(st.ProjectData.Inspirations, innerW)
	case novel.PanelCharacters:
		lines = s.charactersView(st.ProjectData.Characters, innerW)
	case novel.PanelOutline:
		lines = outlineView(st.ProjectData.Outline, innerW)
	case novel.PanelProgress:
		lines = progressView(st.CurrentPhase, innerW)
	default:
		lines = projectInfoView(st.CurrentProject, innerW)
	}
	return strings.Join(lines, "\n")
}

func projectInfoView(p *novel.Project, w int) []string {
	if p == nil {
		return []string{"", DimStyle.Render("  No project selected  [p]")}
	}
	row := func(label, value string) string {
		return "  " + DimStyle.Render(fmt.Sprintf("%-10s", label)) + NormalStyle.Render(value)
	}
	genre := p.Genre
	if genre == "" {
		genre = "not set"
	}
	structure := string(p.StructureType)
	if structure == "" {
		structure = "not set"
	}
	created := p.CreatedAt
	if len(created) >= 10 {
		created = created[:10]
	}

	lines := []string{
		"",
		"  " + HeaderStyle.Render(novel.Truncate(p.Title, w-4)),
		"",
		row("genre", genre),
		row("status", string(p.Status)),
		row("structure", structure),
		row("created", created),
		"",
		DimStyle.Render("  WORD COUNT"),
	}

	prog := novel.WordCountProgress(p.CurrentWordCount, p.TargetWordCount)
	lines = append(lines, "  "+SelectedStyle.Render(novel.FormatCount(prog.Current))+
		DimStyle.Render(" / ")+NormalStyle.Render(prog.Denominator()))
	if prog.HasTarget {
		lines = append(lines,
			"  "+RenderBar(prog.Percent, max(w-6, 4)),
			"  "+DimStyle.Render(fmt.Sprintf("%d%% complete", prog.Percent)))
	}
	return lines
}

func (s *Sidebar) inspirationsView(items []novel.Inspiration, w int) []string {
	var lines []string
	if s.adding {
		lines = append(lines, "", "  "+s.input.View(), DimStyle.Render("  Enter save  Esc cancel"))
	}
	if s.confirmDelete {
		if insp := s.SelectedInspiration(state.ProjectData{Inspirations: items}); insp != nil {
			lines = append(lines, "", ErrorStyle.Render(fmt.Sprintf("  Delete \"%s\"?  y/n", novel.Truncate(insp.Content, w-20))))
		}
	}
	if len(items) == 0 {
		return append(lines, "", DimStyle.Render("  No inspirations yet  [a] to add"))
	}

	lines = append(lines, "")
	start, end := window(s.inspCursor, len(items), max((s.height-len(lines))/4, 1))
	for i := start; i < end; i++ {
		insp := items[i]
		text := wrapText(insp.Content, w-6)
		if len(text) > 2 {
			text = text[:2]
			text[1] = novel.Truncate(text[1]+"...", w-6)
		}
		meta := string(insp.Category)
		if len(insp.Tags) > 0 {
			meta += "  #" + strings.Join(insp.Tags, " #")
		}
		if insp.Status == novel.InspirationDeveloped {
			meta += "  ✓ developed"
		}

		marker, style := "   ", NormalStyle
		if i == s.inspCursor {
			marker, style = SelectedStyle.Render(" ▸ "), SelectedStyle
		}
		for j, t := range text {
			prefix := "   "
			if j == 0 {
				prefix = marker
			}
			lines = append(lines, prefix+style.Render(t))
		}
		lines = append(lines, "   "+BadgeStyle.Render(novel.Truncate(meta, w-4)), "")
	}
	lines = append(lines, DimStyle.Render("  [a] add  [x] delete  [d] develop"))
	return lines
}

func (s *Sidebar) charactersView(chars []novel.Character, w int) []string {
	if len(chars) == 0 {
		return []string{"", DimStyle.Render("  No characters yet")}
	}
	lines := []string{""}
	start, end := window(s.charCursor, len(chars), max(s.height-3, 1))
	for i := start; i < end; i++ {
		ch := chars[i]
		initial := "?"
		if r := []rune(ch.Name); len(r) > 0 {
			initial = string(r[0])
		}
		badge := lipgloss.NewStyle().Foreground(ColorBg).Background(ColorCyan).Bold(true).Render(" " + initial + " ")
		role := DimStyle.Render(string(ch.RoleType))
		name := novel.Truncate(ch.Name, w-20)
		if i == s.charCursor {
			lines = append(lines, SelectedStyle.Render(" ▸ ")+badge+" "+SelectedStyle.Render(name)+"  "+role)
		} else {
			lines = append(lines, "   "+badge+" "+NormalStyle.Render(name)+"  "+role)
		}
	}
	lines = append(lines, "", DimStyle.Render("  Enter card  [3] make 3D"))
	return lines
}

func outlineView(o *novel.Outline, w int) []string {
	if o == nil || len(o.Acts) == 0 {
		return []string{"", DimStyle.Render("  No outline yet")}
	}
	lines := []string{""}
	for _, act := range o.Acts {
		pct := int(act.Percentage + 0.5)
		lines = append(lines,
			"  "+HeaderStyle.Render(fmt.Sprintf("Act %d", act.ActNumber))+" "+NormalStyle.Render(novel.Truncate(act.Title, w-12)),
			"  "+RenderBar(pct, max(w-10, 4))+DimStyle.Render(fmt.Sprintf(" %d%%", pct)),
			"")
	}
	return lines
}

func progressView(current novel.Phase, w int) []string {
	lines := []string{""}
	idx := current.Index()
	for i, p := range novel.Phases {
		var mark string
		switch {
		case idx >= 0 && i < idx:
			mark = lipgloss.NewStyle().Foreground(ColorGreen).Render("  ✓ ") + DimStyle.Render(p.Label())
		case i == idx:
			mark = SelectedStyle.Render("  ● "+p.Label()) + DimStyle.Render("  current")
		default:
			mark = DimStyle.Render("  ○ " + p.Label())
		}
		lines = append(lines, mark)
	}
	pct := novel.PhaseProgress(current)
	lines = append(lines,
		"",
		"  "+RenderBar(pct, max(w-6, 4)),
		"  "+DimStyle.Render(fmt.Sprintf("%d%% overall", pct)))
	return lines
}

// window picks the visible slice of n rows that keeps cursor on screen.
func window(cursor, n, available int) (start, end int) {
	if cursor >= available {
		start = cursor - available + 1
	}
	return start, min(start+available, n)
}
