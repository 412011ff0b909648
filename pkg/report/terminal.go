package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

type terminalStyles struct {
	header lipgloss.Style
	green  lipgloss.Style
	yellow lipgloss.Style
	red    lipgloss.Style
	warn   lipgloss.Style
	dim    lipgloss.Style
	bold   lipgloss.Style
}

func newTerminalStyles() terminalStyles {
	return terminalStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		green:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		yellow: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		red:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		warn:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		bold:   lipgloss.NewStyle().Bold(true),
	}
}

// TerminalFormatter writes a color-coded report to a terminal.
type TerminalFormatter struct {
	styles terminalStyles
}

// NewTerminalFormatter creates a terminal report formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{styles: newTerminalStyles()}
}

// Format writes the report to the given writer.
func (f *TerminalFormatter) Format(w io.Writer, report *interfaces.AssessmentReport) error {
	f.writeHeader(w)
	f.writeSummary(w, report)
	f.writeElements(w, report)
	f.writeFooter(w, report)
	return nil
}

func (f *TerminalFormatter) writeHeader(w io.Writer) {
	rule := strings.Repeat("═", 42)
	fmt.Fprintf(w, "\n%s\n", f.styles.header.Render(rule))
	fmt.Fprintf(w, "%s\n", f.styles.header.Render("  Condition Assessment (NEN 2767)"))
	fmt.Fprintf(w, "%s\n\n", f.styles.header.Render(rule))
}

func (f *TerminalFormatter) writeSummary(w io.Writer, report *interfaces.AssessmentReport) {
	style := f.ratingStyle(report.Rating)
	fmt.Fprintf(w, "  %s\n\n", style.Bold(true).Render(report.Summary))
}

func (f *TerminalFormatter) writeElements(w io.Writer, report *interfaces.AssessmentReport) {
	if len(report.Elements) == 0 {
		fmt.Fprintf(w, "  %s\n\n", f.styles.dim.Render("No elements."))
		return
	}

	for _, el := range report.Elements {
		name := el.Name
		if name == "" {
			name = el.ID
		}
		fmt.Fprintf(w, "  %s  %s\n", f.styles.bold.Render(name), f.conditionBadge(el.Condition, el.Label, el.Rating))

		for _, r := range el.Reports {
			date := "undated"
			if r.Date != nil {
				date = r.Date.String()
			}
			kind := fmt.Sprintf("%d defects", r.DefectCount)
			if r.AgeBased {
				kind = "age-based"
			}
			fmt.Fprintf(w, "    %s %s  %s  %s\n",
				f.styles.dim.Render("•"), date,
				f.conditionBadge(r.Condition, r.Label, r.Rating),
				f.styles.dim.Render(fmt.Sprintf("%s, %d tasks", kind, r.TaskCount)))
			if r.Description != "" {
				fmt.Fprintf(w, "      %s\n", r.Description)
			}
			for _, warn := range r.Warnings {
				fmt.Fprintf(w, "      %s\n", f.styles.warn.Render("! "+warn.Message))
			}
		}
		fmt.Fprintln(w)
	}
}

func (f *TerminalFormatter) writeFooter(w io.Writer, report *interfaces.AssessmentReport) {
	fmt.Fprintf(w, "  %s\n", f.styles.dim.Render(strings.Repeat("─", 42)))
	fmt.Fprintf(w, "  %s\n\n", f.styles.dim.Render(fmt.Sprintf("Report: %s | Generated: %s",
		report.ID, report.Timestamp.Format("2006-01-02 15:04:05"))))
}

func (f *TerminalFormatter) conditionBadge(c interfaces.ConditionScore, label string, rating interfaces.Rating) string {
	if c == 0 {
		return f.styles.dim.Render(label)
	}
	return f.ratingStyle(rating).Render(fmt.Sprintf("%d %s [%s]", c, label, rating))
}

func (f *TerminalFormatter) ratingStyle(r interfaces.Rating) lipgloss.Style {
	switch r {
	case interfaces.RatingGreen:
		return f.styles.green
	case interfaces.RatingYellow:
		return f.styles.yellow
	case interfaces.RatingRed:
		return f.styles.red
	default:
		return f.styles.dim
	}
}
