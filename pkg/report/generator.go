// Package report renders condition assessments of scored snapshots.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/toyinlola/mjop/pkg/interfaces"
	"github.com/toyinlola/mjop/pkg/scorer"
)

// Generator builds assessment reports from scored snapshots.
type Generator struct {
	yellowFrom int
	redFrom    int
	now        func() time.Time
}

// Option configures the Generator.
type Option func(*Generator)

// WithThresholds sets the condition scores from which an element is rated
// YELLOW and RED.
func WithThresholds(yellowFrom, redFrom int) Option {
	return func(g *Generator) {
		g.yellowFrom = yellowFrom
		g.redFrom = redFrom
	}
}

// WithClock sets the clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a report generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		yellowFrom: scorer.DefaultYellowFrom,
		redFrom:    scorer.DefaultRedFrom,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces an AssessmentReport from a snapshot whose reports have
// already been scored. An element's current condition is the score of its
// most recent report; elements without reports are listed as not inspected
// and do not count towards the worst condition.
func (g *Generator) Generate(snap *interfaces.Snapshot) *interfaces.AssessmentReport {
	report := &interfaces.AssessmentReport{
		ID:        "asm-" + uuid.NewString(),
		Timestamp: g.now(),
	}
	if snap == nil {
		report.Rating = interfaces.RatingGreen
		report.Summary = buildSummary(report, 0)
		return report
	}

	warnings := 0
	for _, el := range snap.Elements {
		summary := g.summarizeElement(el)
		for _, r := range summary.Reports {
			warnings += len(r.Warnings)
		}
		if summary.Condition > report.Worst {
			report.Worst = summary.Condition
		}
		report.Elements = append(report.Elements, summary)
	}

	report.Rating = g.rating(report.Worst)
	report.Summary = buildSummary(report, warnings)
	return report
}

func (g *Generator) summarizeElement(el interfaces.Element) interfaces.ElementSummary {
	summary := interfaces.ElementSummary{
		ID:      el.ID,
		Name:    el.Name,
		Label:   "not inspected",
		Rating:  interfaces.RatingGreen,
		Reports: make([]interfaces.ReportSummary, 0, len(el.Reports)),
	}
	for _, r := range el.Reports {
		summary.Reports = append(summary.Reports, g.summarizeReport(r))
	}

	if latest := latestReport(el.Reports); latest != nil {
		summary.Condition = latest.Condition
		summary.Label = scorer.Label(latest.Condition)
		summary.Rating = g.rating(latest.Condition)
	}
	return summary
}

func (g *Generator) summarizeReport(r interfaces.InspectionReport) interfaces.ReportSummary {
	return interfaces.ReportSummary{
		ID:          r.ID,
		Description: r.Description,
		Date:        r.Date,
		Condition:   r.Condition,
		Label:       scorer.Label(r.Condition),
		Rating:      g.rating(r.Condition),
		AgeBased:    r.AgeBased,
		DefectCount: len(r.Defects),
		TaskCount:   len(r.Tasks),
		Warnings:    r.Warnings,
	}
}

func (g *Generator) rating(c interfaces.ConditionScore) interfaces.Rating {
	return scorer.RatingFromScore(c, g.yellowFrom, g.redFrom)
}

// latestReport returns the report with the latest date. Undated reports sort
// before dated ones; on equal dates the later entry wins.
func latestReport(reports []interfaces.InspectionReport) *interfaces.InspectionReport {
	var latest *interfaces.InspectionReport
	for i := range reports {
		r := &reports[i]
		if latest == nil || !dateBefore(r.Date, latest.Date) {
			latest = r
		}
	}
	return latest
}

func dateBefore(a, b *interfaces.Date) bool {
	switch {
	case b == nil:
		return false
	case a == nil:
		return true
	default:
		return a.Before(b.Time)
	}
}

// buildSummary creates a one-line summary of the assessment.
func buildSummary(report *interfaces.AssessmentReport, warnings int) string {
	inspected := 0
	for _, el := range report.Elements {
		if el.Condition > 0 {
			inspected++
		}
	}
	if inspected == 0 {
		return fmt.Sprintf("%d elements, none inspected", len(report.Elements))
	}

	s := fmt.Sprintf("Worst condition: %d (%s) [%s]: %d of %d elements inspected",
		report.Worst, scorer.Label(report.Worst), report.Rating, inspected, len(report.Elements))
	if warnings > 0 {
		s += fmt.Sprintf(", %d warnings", warnings)
	}
	return s
}
