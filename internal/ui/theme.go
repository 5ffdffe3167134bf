package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/thinkwright/novelflow/internal/state"
)

type palette struct {
	Cyan, CyanDim, Accent        lipgloss.Color
	Green, GreenDim              lipgloss.Color
	Red, Yellow, YellowDim       lipgloss.Color
	Dim, Muted, Bg               lipgloss.Color
	BarBg, BarText, White        lipgloss.Color
	Select, SelectBg             lipgloss.Color
	Focus, FocusTitle            lipgloss.Color
}

// Ink on parchment for dark terminals.
var darkPalette = palette{
	Cyan:       "#5a9ab5",
	CyanDim:    "#3a6678",
	Accent:     "#7fcfdf",
	Green:      "#5aaa7a",
	GreenDim:   "#3a6648",
	Red:        "#b56a6a",
	Yellow:     "#b5a05a",
	YellowDim:  "#5a5030",
	Dim:        "#3a5565",
	Muted:      "#1a2a35",
	Bg:         "#000000",
	BarBg:      "#0f1e28",
	BarText:    "#d0dde5",
	White:      "#8899a5",
	Select:     "#c8d84a",
	SelectBg:   "#1a2a1a",
	Focus:      "#70cc90",
	FocusTitle: "#a0ffbb",
}

var lightPalette = palette{
	Cyan:       "#1f5f7a",
	CyanDim:    "#7a9eae",
	Accent:     "#0f7f9f",
	Green:      "#2f7a4a",
	GreenDim:   "#9ac4a8",
	Red:        "#a03a3a",
	Yellow:     "#8a6a10",
	YellowDim:  "#c8b884",
	Dim:        "#6a7f8a",
	Muted:      "#d8e0e4",
	Bg:         "#ffffff",
	BarBg:      "#e4ecf0",
	BarText:    "#1a2a35",
	White:      "#2a3a45",
	Select:     "#5a6a00",
	SelectBg:   "#eef4d8",
	Focus:      "#2f8a50",
	FocusTitle: "#1a5a30",
}

var (
	ColorCyan      lipgloss.Color
	ColorCyanDim   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorGreen     lipgloss.Color
	ColorGreenDim  lipgloss.Color
	ColorRed       lipgloss.Color
	ColorYellow    lipgloss.Color
	ColorYellowDim lipgloss.Color
	ColorDim       lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorBg        lipgloss.Color
	ColorBarBg     lipgloss.Color
	ColorBarText   lipgloss.Color
	ColorWhite     lipgloss.Color
	ColorSelect    lipgloss.Color
	ColorSelectBg  lipgloss.Color
	colorFocus     lipgloss.Color
	colorFocusText lipgloss.Color

	HeaderStyle       lipgloss.Style
	TitleStyle        lipgloss.Style
	SubtitleStyle     lipgloss.Style
	SelectedStyle     lipgloss.Style
	NormalStyle       lipgloss.Style
	DimStyle          lipgloss.Style
	UserMsgStyle      lipgloss.Style
	AssistantMsgStyle lipgloss.Style
	ActionStyle       lipgloss.Style
	SystemMsgStyle    lipgloss.Style
	ErrorStyle        lipgloss.Style
	BadgeStyle        lipgloss.Style
	StatusBarStyle    lipgloss.Style
)

func init() {
	ApplyTheme(state.ThemeDark)
}

// ApplyTheme swaps the package palette and rebuilds the shared styles.
func ApplyTheme(t state.Theme) {
	p := darkPalette
	if t == state.ThemeLight {
		p = lightPalette
	}

	ColorCyan, ColorCyanDim, ColorAccent = p.Cyan, p.CyanDim, p.Accent
	ColorGreen, ColorGreenDim = p.Green, p.GreenDim
	ColorRed, ColorYellow, ColorYellowDim = p.Red, p.Yellow, p.YellowDim
	ColorDim, ColorMuted, ColorBg = p.Dim, p.Muted, p.Bg
	ColorBarBg, ColorBarText, ColorWhite = p.BarBg, p.BarText, p.White
	ColorSelect, ColorSelectBg = p.Select, p.SelectBg
	colorFocus, colorFocusText = p.Focus, p.FocusTitle

	HeaderStyle = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	TitleStyle = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true).Padding(0, 1)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorDim)
	SelectedStyle = lipgloss.NewStyle().Foreground(ColorSelect).Bold(true)
	NormalStyle = lipgloss.NewStyle().Foreground(ColorWhite)
	DimStyle = lipgloss.NewStyle().Foreground(ColorDim)
	UserMsgStyle = lipgloss.NewStyle().Foreground(ColorCyan)
	AssistantMsgStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	ActionStyle = lipgloss.NewStyle().Foreground(ColorYellow)
	SystemMsgStyle = lipgloss.NewStyle().Foreground(ColorDim)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorRed)
	BadgeStyle = lipgloss.NewStyle().Foreground(ColorYellowDim)
	StatusBarStyle = lipgloss.NewStyle().Foreground(ColorDim).Background(ColorBarBg).Padding(0, 1)
}

// ─── Custom Border Rendering ──────────────────────────────────────────
// Renders panels with inline title in the top border:
//   ┏━━╸ STORY ╺━━━━━━━━━━━━━━━━┓
//   ┃                             ┃
//   ┗━━━━━━━━━━━━━━━━━━━━━━━━━━━━┛
// Heavy top/bottom (━), thin sides (┃), custom corners.

// RenderPanel draws a panel with an inline title in the top border.
func RenderPanel(title string, content string, w, h int, focused bool) string {
	borderColor := ColorCyanDim
	titleColor := ColorCyan
	if focused {
		borderColor = colorFocus
		titleColor = colorFocusText
	}

	bc := lipgloss.NewStyle().Foreground(borderColor)
	tc := lipgloss.NewStyle().Foreground(titleColor).Bold(true)

	innerW := w - 2

	titleText := " " + title + " "
	titleVisLen := runewidth.StringWidth(titleText)
	fillLen := max(w-5-titleVisLen, 0)

	var topBorder, bottomBorder, side string
	if focused {
		// Double-line border for focused pane: ╔═╗ ║ ╚═╝
		topBorder = bc.Render("╔═╸") + tc.Render(titleText) + bc.Render("╺"+strings.Repeat("═", fillLen)+"╗")
		bottomBorder = bc.Render("╚" + strings.Repeat("═", innerW) + "╝")
		side = bc.Render("║")
	} else {
		topBorder = bc.Render("┏━╸") + tc.Render(titleText) + bc.Render("╺"+strings.Repeat("━", fillLen)+"┓")
		bottomBorder = bc.Render("┗" + strings.Repeat("━", innerW) + "┛")
		side = bc.Render("┃")
	}

	lines := strings.Split(content, "\n")
	for len(lines) < h {
		lines = append(lines, "")
	}
	if len(lines) > h {
		lines = lines[:h]
	}

	var rows []string
	rows = append(rows, topBorder)
	for _, line := range lines {
		visible := visibleLen(line)
		if visible > innerW {
			line = truncateToWidth(line, innerW)
			visible = visibleLen(line)
		}
		pad := ""
		if visible < innerW {
			pad = strings.Repeat(" ", innerW-visible)
		}
		rows = append(rows, side+line+pad+side)
	}
	rows = append(rows, bottomBorder)

	return strings.Join(rows, "\n")
}

// truncateToWidth cuts a styled line to at most w visible columns, keeping
// escape sequences intact and resetting styles at the cut.
func truncateToWidth(s string, w int) string {
	var out strings.Builder
	col := 0
	for _, seg := range splitAnsiSegments(s) {
		if seg.text[0] == '\x1b' {
			out.WriteString(seg.text)
			continue
		}
		r, _ := utf8.DecodeRuneInString(seg.text)
		rw := runewidth.RuneWidth(r)
		if col+rw > w {
			break
		}
		out.WriteString(seg.text)
		col += rw
	}
	out.WriteString("\x1b[0m")
	return out.String()
}

// ─── Scrollbar ────────────────────────────────────────────────────────

// RenderScrollbar returns a vertical slice of scrollbar characters for the given
// viewport. height is the visible rows, totalLines is the total content lines,
// and offset is the current scroll position.
func RenderScrollbar(height, totalLines, offset int) []string {
	track := make([]string, max(height, 0))

	if totalLines <= height || height < 1 {
		for i := range track {
			track[i] = " "
		}
		return track
	}

	thumbSize := max((height*height)/totalLines, 1)
	maxOffset := max(totalLines-height, 1)
	thumbPos := (offset * (height - thumbSize)) / maxOffset

	thumbChar := lipgloss.NewStyle().Foreground(ColorAccent).Render("┃")
	trackChar := lipgloss.NewStyle().Foreground(ColorMuted).Render("╎")

	for i := range track {
		if i >= thumbPos && i < thumbPos+thumbSize {
			track[i] = thumbChar
		} else {
			track[i] = trackChar
		}
	}

	return track
}

// ─── Progress bar ─────────────────────────────────────────────────────

// RenderBar draws a horizontal bar filled to pct percent, using eighth-block
// characters for the partial cell.
func RenderBar(pct, width int) string {
	if width <= 0 {
		return ""
	}
	pct = min(max(pct, 0), 100)
	eighths := []rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

	total := pct * width * 8 / 100
	full := total / 8
	part := total % 8

	var b strings.Builder
	b.WriteString(strings.Repeat("█", full))
	cells := full
	if part > 0 && cells < width {
		b.WriteRune(eighths[part])
		cells++
	}
	filled := lipgloss.NewStyle().Foreground(ColorGreen).Render(b.String())
	rest := lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("░", width-cells))
	return filled + rest
}
