package cli

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

// Output destinations. Tests replace them with buffers.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// colorEnabled is resolved once per command from --no-color, the config
// file and whether stdout is a terminal.
var colorEnabled = false

var (
	colorGreen  = lipgloss.Color("10")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("204")
	colorCyan   = lipgloss.Color("14")
	colorGray   = lipgloss.Color("240")
)

var (
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	styleNoun    = lipgloss.NewStyle().Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader  = lipgloss.NewStyle().Bold(true)
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// paint renders s with style when color is enabled.
func paint(style lipgloss.Style, s string) string {
	if !colorEnabled {
		return s
	}
	return style.Render(s)
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visibleWidth is the terminal width of s without ANSI escapes.
func visibleWidth(s string) int {
	return runewidth.StringWidth(ansiPattern.ReplaceAllString(s, ""))
}

// printInfo prints an informational message
func printInfo(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintln(stdout, msg)
}

// printSuccess prints a success message
func printSuccess(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", paint(styleSuccess, "✓"), msg)
}

// printWarning prints a warning message
func printWarning(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", paint(styleWarning, "⚠"), msg)
}

// printHint prints an indented remediation line under a warning or error.
func printHint(w io.Writer, hint string) {
	if hint == "" {
		return
	}
	fmt.Fprintf(w, "  %s\n", paint(styleDim, "→ "+hint))
}

// printErrorMsg prints an error message to stderr
func printErrorMsg(msg string) {
	fmt.Fprintf(stderr, "%s %s\n", paint(styleError, "✗"), msg)
}

// printHeader prints a section header
func printHeader(title string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "\n%s\n", paint(styleHeader, "=== "+title+" ==="))
}

// noun highlights a path, repository or other identifier.
func noun(s string) string {
	return paint(styleNoun, s)
}
