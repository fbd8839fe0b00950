// Package report renders diagnostics for terminals and for SARIF
// consumers.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"hooklint/internal/engine"
	"hooklint/internal/shared/util"
)

var (
	locationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)
)

// Console writes human-readable diagnostics, one per line, in the
// grep-friendly "file:line:col: [rule] message" shape.
type Console struct {
	out   io.Writer
	color bool
}

func NewConsole(out io.Writer, color bool) *Console {
	return &Console{out: out, color: color}
}

func (c *Console) Print(diags []engine.Diagnostic) {
	for _, d := range diags {
		location := fmt.Sprintf("%s:%d:%d:", d.File, d.Line, d.Column)
		rule := fmt.Sprintf("[%s]", d.Rule)
		if c.color {
			location = locationStyle.Render(location)
			switch d.Severity {
			case engine.SeverityError:
				rule = errorStyle.Render(rule)
			default:
				rule = warningStyle.Render(rule)
			}
		}
		fmt.Fprintf(c.out, "%s %s %s\n", location, rule, d.Message)
	}
}

// PrintErrors reports files the run could not analyze.
func (c *Console) PrintErrors(errs []engine.FileError) {
	for _, fe := range errs {
		prefix := "error:"
		if c.color {
			prefix = errorStyle.Render(prefix)
		}
		fmt.Fprintf(c.out, "%s %s: %v\n", prefix, fe.File, fe.Err)
	}
}

// Summary prints per-rule counts and the overall verdict.
func (c *Console) Summary(counts map[string]int, fileCount int, failed bool) {
	total := 0
	for _, n := range counts {
		total += n
	}
	rules := util.SortedStringKeys(counts)

	if total == 0 {
		msg := fmt.Sprintf("%d files checked, no findings", fileCount)
		if c.color {
			msg = successStyle.Render(msg)
		}
		fmt.Fprintln(c.out, msg)
		return
	}

	for _, rule := range rules {
		fmt.Fprintf(c.out, "  %-40s %d\n", rule, counts[rule])
	}
	msg := fmt.Sprintf("%d files checked, %d findings", fileCount, total)
	if c.color && failed {
		msg = errorStyle.Render(msg)
	}
	fmt.Fprintln(c.out, msg)
}
