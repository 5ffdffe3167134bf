package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/thinkwright/novelflow/internal/novel"
)

// ProjectPicker lists the user's projects and creates new ones.
type ProjectPicker struct {
	visible  bool
	projects []novel.Project
	loading  bool
	err      string
	cursor   int
	width    int
	height   int
	creating bool
	input    textinput.Model
}

func NewProjectPicker() ProjectPicker {
	ti := textinput.New()
	ti.Placeholder = "working title"
	ti.CharLimit = 200
	ti.Prompt = "title: "
	styleInput(&ti)
	return ProjectPicker{input: ti, visible: true, loading: true}
}

func (p *ProjectPicker) IsVisible() bool { return p.visible }

func (p *ProjectPicker) Restyle() { styleInput(&p.input) }

func (p *ProjectPicker) Show() {
	p.visible = true
	p.loading = true
	p.err = ""
}

func (p *ProjectPicker) Close() {
	p.visible = false
	p.CancelCreate()
}

func (p *ProjectPicker) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.input.Width = max(p.modalWidth()-16, 10)
}

func (p *ProjectPicker) SetProjects(projects []novel.Project) {
	p.projects = projects
	p.loading = false
	p.err = ""
	p.cursor = clampCursor(p.cursor, len(projects))
}

func (p *ProjectPicker) SetError(msg string) {
	p.loading = false
	p.err = msg
}

// Add puts a freshly created project at the top and selects it.
func (p *ProjectPicker) Add(project novel.Project) {
	p.projects = append([]novel.Project{project}, p.projects...)
	p.cursor = 0
}

func (p *ProjectPicker) Up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *ProjectPicker) Down() {
	if p.cursor < len(p.projects)-1 {
		p.cursor++
	}
}

func (p *ProjectPicker) Selected() *novel.Project {
	if len(p.projects) == 0 {
		return nil
	}
	return &p.projects[p.cursor]
}

func (p *ProjectPicker) IsCreating() bool { return p.creating }

func (p *ProjectPicker) StartCreate() tea.Cmd {
	p.creating = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *ProjectPicker) CancelCreate() {
	p.creating = false
	p.input.Blur()
}

func (p *ProjectPicker) FinishCreate() string {
	p.creating = false
	p.input.Blur()
	return strings.TrimSpace(p.input.Value())
}

func (p *ProjectPicker) UpdateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *ProjectPicker) modalWidth() int {
	return min(max(p.width*60/100, 44), 90)
}

// projectGlyph returns a status glyph based on how recently the project was
// touched.
func projectGlyph(updated string) string {
	t, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return lipgloss.NewStyle().Foreground(ColorMuted).Render("◇")
	}
	age := time.Since(t)
	switch {
	case age < 24*time.Hour:
		return lipgloss.NewStyle().Foreground(ColorGreen).Render("◆")
	case age < 7*24*time.Hour:
		return lipgloss.NewStyle().Foreground(ColorCyan).Render("◆")
	default:
		return lipgloss.NewStyle().Foreground(ColorDim).Render("◇")
	}
}

// View renders the picker as a bordered box; the caller centers it.
func (p *ProjectPicker) View() string {
	modalW := p.modalWidth()
	innerW := modalW - 2

	bc := lipgloss.NewStyle().Foreground(ColorAccent)
	tc := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	side := bc.Render("┃")

	var rows []string
	title := " PROJECTS "
	fillLen := max(innerW-3-len(title), 0)
	rows = append(rows, bc.Render("┏━╸")+tc.Render(title)+bc.Render("╺"+strings.Repeat("━", fillLen)+"┓"))

	addLine := func(content string) {
		if visibleLen(content) > innerW {
			content = truncateToWidth(content, innerW)
		}
		pad := max(innerW-visibleLen(content), 0)
		rows = append(rows, side+content+strings.Repeat(" ", pad)+side)
	}

	addLine("")
	available := max(p.height*50/100, 5)
	switch {
	case p.loading:
		addLine(DimStyle.Render("  Loading projects..."))
	case p.err != "":
		addLine(ErrorStyle.Render("  " + novel.Truncate(p.err, innerW-4)))
		addLine(DimStyle.Render("  [r] retry"))
	case len(p.projects) == 0:
		addLine(DimStyle.Render("  No projects yet. Press [n] to start one."))
	default:
		start, end := window(p.cursor, len(p.projects), available)
		for i := start; i < end; i++ {
			proj := p.projects[i]
			prog := novel.WordCountProgress(proj.CurrentWordCount, proj.TargetWordCount)
			count := fmt.Sprintf("%s / %s", novel.FormatTokens(prog.Current), prog.Denominator())
			name := novel.Truncate(proj.Title, innerW-visibleLen(count)-12)
			glyph := projectGlyph(proj.UpdatedAt)

			if i == p.cursor {
				sel := lipgloss.NewStyle().Background(ColorSelectBg)
				line := fmt.Sprintf(" %s %s %s", sel.Foreground(ColorSelect).Render("▸"), sel.Render(glyph),
					sel.Foreground(ColorSelect).Bold(true).Render(name))
				pad := max(innerW-visibleLen(line)-visibleLen(count)-2, 1)
				addLine(line + sel.Render(strings.Repeat(" ", pad)) + sel.Foreground(ColorSelect).Render(count) + sel.Render("  "))
			} else {
				line := fmt.Sprintf("   %s %s", glyph, NormalStyle.Render(name))
				pad := max(innerW-visibleLen(line)-visibleLen(count)-2, 1)
				addLine(line + strings.Repeat(" ", pad) + BadgeStyle.Render(count) + "  ")
			}
		}
	}

	addLine("")
	if p.creating {
		addLine("  " + p.input.View())
		addLine(DimStyle.Render("  Enter create  Esc cancel"))
	} else {
		addLine(DimStyle.Render("  ↑↓ navigate  Enter open  [n] new  [r] refresh  Esc close"))
	}
	rows = append(rows, bc.Render("┗"+strings.Repeat("━", innerW)+"┛"))

	return strings.Join(rows, "\n")
}
