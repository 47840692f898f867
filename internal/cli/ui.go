package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// ANSI 256 palette shared by status lines and the watch view.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	StyleError   = lipgloss.NewStyle().Foreground(colorRed)

	styleLabel = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// statusOut receives human-facing status lines. Logs go to the logger's
// writer instead, so piping one does not interleave the other.
var statusOut io.Writer = os.Stdout

// status writes one line prefixed with a styled marker.
func status(marker string, style lipgloss.Style, msg string) {
	fmt.Fprintln(statusOut, style.Render(marker)+" "+msg)
}

func printSuccess(format string, args ...any) {
	status("✓", StyleSuccess, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status("!", StyleWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status("›", lipgloss.NewStyle().Foreground(colorGray), fmt.Sprintf(format, args...))
}

// printFile lists a written artifact under the preceding status line.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(statusOut, styleLabel.Render(key)+" "+StyleValue.Render(value))
}

// outcomeStyle colors a render outcome: drawn is good, missing anchors and
// suppression deserve attention, headless is neutral.
func outcomeStyle(outcome string) lipgloss.Style {
	switch outcome {
	case "drawn":
		return StyleSuccess
	case "anchors-missing", "suppressed":
		return StyleWarning
	default:
		return StyleDim
	}
}
