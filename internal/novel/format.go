package novel

import (
	"fmt"
	"math"
)

// WordProgress is the word-count ratio of a project, ready for display.
type WordProgress struct {
	Current   int
	Target    int
	HasTarget bool
	Percent   int // clamped to [0, 100]
}

// WordCountProgress computes round(current/target*100) clamped to [0, 100].
// A target of zero or less means the project has no target.
func WordCountProgress(current, target int) WordProgress {
	wp := WordProgress{Current: current, Target: target}
	if target <= 0 {
		return wp
	}
	wp.HasTarget = true
	pct := int(math.Round(float64(current) / float64(target) * 100))
	wp.Percent = max(0, min(pct, 100))
	return wp
}

// Denominator renders the target, or "∞" when there is none.
func (w WordProgress) Denominator() string {
	if !w.HasTarget {
		return "∞"
	}
	return FormatCount(w.Target)
}

// PhaseProgress is the overall workflow percentage for the current phase.
// Phases outside the workflow report zero.
func PhaseProgress(p Phase) int {
	idx := p.Index()
	if idx < 0 {
		return 0
	}
	return int(math.Round(float64(idx+1) / float64(len(Phases)) * 100))
}

// FormatTokens renders a token count as 950, 1.5K or 2.0M.
func FormatTokens(n int) string {
	if n >= 1_000_000 {
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	}
	if n >= 1_000 {
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return fmt.Sprintf("%d", n)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	pre := len(s) % 3
	if pre > 0 {
		out = append(out, s[:pre]...)
	}
	for i := pre; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

// Truncate shortens s to at most n runes, ending with "..." when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
