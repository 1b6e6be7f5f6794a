package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/orgtree/pkg/hierarchy"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// ui writes human-facing status lines. Commands that stream an artifact to
// stdout point it at stderr so the two never mix.
type ui struct {
	w io.Writer
}

func (u ui) success(format string, args ...any) {
	fmt.Fprintln(u.w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (u ui) errorf(format string, args ...any) {
	fmt.Fprintln(u.w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func (u ui) warning(format string, args ...any) {
	fmt.Fprintln(u.w, styleIconWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

func (u ui) info(format string, args ...any) {
	fmt.Fprintln(u.w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func (u ui) detail(format string, args ...any) {
	fmt.Fprintln(u.w, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a file output line.
func (u ui) file(path string) {
	fmt.Fprintln(u.w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// nextStep prints a suggested next command.
func (u ui) nextStep(description, cmd string) {
	fmt.Fprintln(u.w, styleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// stats prints build statistics on a single line.
func (u ui) stats(s hierarchy.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d positions", s.Positions),
		fmt.Sprintf("%d relationships", s.Relationships),
		fmt.Sprintf("%d roots", s.Roots),
	}
	if s.IsolatedCycles > 0 {
		parts = append(parts, fmt.Sprintf("%d isolated cycles", s.IsolatedCycles))
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += styleDim.Render(" · ")
		}
		line += styleDim.Render(part)
	}
	line += styleDim.Render(" · ") + statusStyle.Render(status)
	fmt.Fprintln(u.w, line)
}

// diagnostics prints one warning per diagnostic kind and, when verbose,
// every finding beneath it.
func (u ui) diagnostics(res hierarchy.Result, verbose bool) {
	labels := []struct {
		kind  hierarchy.DiagnosticKind
		label string
	}{
		{hierarchy.KindDanglingReference, "relationships reference missing or filtered-out positions"},
		{hierarchy.KindCycle, "reporting cycles"},
		{hierarchy.KindIsolatedCycle, "groups only reachable through a cycle"},
		{hierarchy.KindMultipleParents, "positions with more than one manager"},
	}
	for _, l := range labels {
		n := res.Count(l.kind)
		if n == 0 {
			continue
		}
		u.warning("%d %s", n, l.label)
		if !verbose {
			continue
		}
		for _, d := range res.Diagnostics {
			if d.Kind == l.kind {
				u.detail("%s", d.Message)
			}
		}
	}
}
