package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/cyzmcl/Lunarian/pkg/errors"
	"github.com/cyzmcl/Lunarian/pkg/fonts"
	"github.com/cyzmcl/Lunarian/pkg/history"
	"github.com/cyzmcl/Lunarian/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleFailed   = lipgloss.NewStyle().Foreground(colorRed)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell   = lipgloss.NewStyle().PaddingRight(1)
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
	iconFailed  = "failed"
)

// out is where user-facing output goes. Tests replace it.
var out io.Writer = os.Stdout

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(out, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(out, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(out, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(out, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(out, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
}

// resultTable renders one row per format.
func resultTable(res *pipeline.Result, paths map[string]string) string {
	t := newTable("Format", "Size", "Status", "Time", "File")
	for _, f := range res.Formats {
		status := styleComputed.Render(iconFresh)
		switch {
		case f.Err != nil:
			status = styleFailed.Render(iconFailed)
		case f.Cached:
			status = styleCached.Render(iconCached)
		}
		file := paths[f.Format.ID]
		if f.Err != nil {
			file = errors.UserMessage(f.Err)
		}
		t.Row(
			f.Format.ID,
			fmt.Sprintf("%dx%d", f.Format.Width, f.Format.Height),
			status,
			f.Duration.Round(time.Millisecond).String(),
			file,
		)
	}
	return t.String()
}

// fontTable renders the registry's family mappings.
func fontTable(families []fonts.Family) string {
	t := newTable("Family", "File", "Available")
	for _, f := range families {
		avail := styleFailed.Render("no")
		if f.Available {
			avail = styleCached.Render("yes")
		}
		t.Row(f.Name, f.File, avail)
	}
	return t.String()
}

// historyTable renders generation records, newest first.
func historyTable(recs []history.Record) string {
	t := newTable("When", "Request", "Formats", "Failed", "Hero", "Time")
	for _, r := range recs {
		hero := StyleDim.Render("none")
		if r.Hero != nil {
			hero = r.Hero.String()
		}
		t.Row(
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.RequestID,
			fmt.Sprint(len(r.Formats)),
			fmt.Sprint(r.Failed()),
			hero,
			r.Duration.Round(time.Millisecond).String(),
		)
	}
	return t.String()
}
