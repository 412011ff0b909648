package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

// MarkdownFormatter writes a report as Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a Markdown report formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes the report as Markdown to the given writer.
func (f *MarkdownFormatter) Format(w io.Writer, report *interfaces.AssessmentReport) error {
	fmt.Fprintf(w, "# Condition Assessment %s\n\n", ratingBadge(report.Rating))
	fmt.Fprintf(w, "%s\n\n", report.Summary)

	f.writeElementTable(w, report)
	f.writeReports(w, report)

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "*Report ID: %s | Generated: %s*\n",
		report.ID, report.Timestamp.Format("2006-01-02 15:04:05"))
	return nil
}

func (f *MarkdownFormatter) writeElementTable(w io.Writer, report *interfaces.AssessmentReport) {
	if len(report.Elements) == 0 {
		fmt.Fprintln(w, "> No elements.")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, "| Element | Condition | Rating | Reports |")
	fmt.Fprintln(w, "|---------|-----------|--------|---------|")
	for _, el := range report.Elements {
		condition := el.Label
		if el.Condition > 0 {
			condition = fmt.Sprintf("%d (%s)", el.Condition, el.Label)
		}
		fmt.Fprintf(w, "| %s | %s | %s %s | %d |\n",
			escapeCell(elementName(el)), condition, ratingBadge(el.Rating), el.Rating, len(el.Reports))
	}
	fmt.Fprintln(w)
}

func (f *MarkdownFormatter) writeReports(w io.Writer, report *interfaces.AssessmentReport) {
	for _, el := range report.Elements {
		if len(el.Reports) == 0 {
			continue
		}
		fmt.Fprintf(w, "## %s\n\n", elementName(el))

		for _, r := range el.Reports {
			date := "undated"
			if r.Date != nil {
				date = r.Date.String()
			}
			basis := fmt.Sprintf("%d defects", r.DefectCount)
			if r.AgeBased {
				basis = "age-based"
			}

			fmt.Fprintf(w, "- **%s**: %d (%s) %s, %s, %d tasks\n",
				date, r.Condition, r.Label, ratingBadge(r.Rating), basis, r.TaskCount)
			if r.Description != "" {
				fmt.Fprintf(w, "  %s\n", r.Description)
			}
			for _, warn := range r.Warnings {
				fmt.Fprintf(w, "  - ⚠️ `%s` %s\n", warn.Code, warn.Message)
			}
		}
		fmt.Fprintln(w)
	}
}

// ratingBadge returns a text badge based on the rating.
func ratingBadge(r interfaces.Rating) string {
	switch r {
	case interfaces.RatingGreen:
		return "🟢"
	case interfaces.RatingYellow:
		return "🟡"
	case interfaces.RatingRed:
		return "🔴"
	default:
		return "⚪"
	}
}

func elementName(el interfaces.ElementSummary) string {
	if el.Name != "" {
		return el.Name
	}
	return el.ID
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
