package scorer

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

// Calculator computes condition scores for inspection reports.
type Calculator struct {
	factors CorrectionFactors
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures the Calculator.
type Option func(*Calculator)

// WithCorrectionFactors overrides the default correction factor table.
func WithCorrectionFactors(f CorrectionFactors) Option {
	return func(c *Calculator) {
		c.factors = f
	}
}

// WithClock sets the clock used as "today" by age-based scoring.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) {
		c.now = now
	}
}

// WithLogger sets the logger for scoring diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) {
		c.logger = l
	}
}

// NewCalculator creates a scorer with optional configuration.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		factors: DefaultCorrectionFactors(),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the calculator's notion of today.
func (c *Calculator) Now() time.Time {
	return c.now()
}

// ScoreReport computes the overall condition of a report. Age-based reports
// are scored from the element's installation date and lifespan only;
// all other reports are scored from their defects.
func (c *Calculator) ScoreReport(el interfaces.Element, r interfaces.InspectionReport) (interfaces.ConditionScore, []interfaces.Warning) {
	if r.AgeBased {
		score, w := ScoreByAge(el.InstallationDate, c.now(), el.LifespanYears)
		if w != nil {
			return score, []interfaces.Warning{*w}
		}
		return score, nil
	}

	sections, warnings := c.Sections(r.Defects)
	score, aggWarnings := c.Aggregate(sections, el.ReplacementValue)
	return score, append(warnings, aggWarnings...)
}

type groupKey struct {
	severity  interfaces.Severity
	intensity int
}

// Sections turns defects into scored sections.
// Defects that cannot be scored are excluded with a warning.
// Defects sharing severity and intensity form one section: their extents are
// summed (capped at 100%) and their weights added.
func (c *Calculator) Sections(defects []interfaces.DefectInstance) ([]interfaces.Section, []interfaces.Warning) {
	var (
		warnings []interfaces.Warning
		order    []groupKey
		groups   = make(map[groupKey][]interfaces.DefectInstance)
	)

	for _, d := range defects {
		if err := validateDefect(d); err != nil {
			c.logger.Debug("defect excluded from scoring", "defect", d.ID, "error", err)
			warnings = append(warnings, invalidDefectWarning(d, err))
			continue
		}
		key := groupKey{severity: d.Severity, intensity: *d.Intensity}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], d)
	}

	sections := make([]interfaces.Section, 0, len(order))
	for _, key := range order {
		members := groups[key]
		if len(members) == 1 {
			s, err := ScoreDefect(members[0])
			if err != nil {
				warnings = append(warnings, invalidDefectWarning(members[0], err))
				continue
			}
			sections = append(sections, s)
			continue
		}

		var extent, weight float64
		for _, m := range members {
			extent += *m.Extent
			weight += defectWeight(m)
		}
		extent = math.Min(extent, MaxExtent)

		cond, err := scoreAt(key.severity, key.intensity, extent)
		if err != nil {
			warnings = append(warnings, invalidDefectWarning(members[0], err))
			continue
		}
		sections = append(sections, interfaces.Section{Condition: cond, Weight: weight})
	}

	return sections, warnings
}

// Aggregate combines sections into one condition score.
// Whatever part of the replacement value is not covered by a section counts
// as a pristine (score 1) section. The weighted correction-factor index is
// mapped back onto the scale as round(index*10)+1, clamped to [1,6].
func (c *Calculator) Aggregate(sections []interfaces.Section, replacementValue *float64) (interfaces.ConditionScore, []interfaces.Warning) {
	if len(sections) == 0 {
		return interfaces.ConditionExcellent, nil
	}
	if replacementValue == nil || math.IsNaN(*replacementValue) || *replacementValue < 0 {
		return interfaces.ConditionExcellent, []interfaces.Warning{{
			Code:    interfaces.WarningMissingPrerequisite,
			Message: "aggregation: element replacement value not set",
		}}
	}

	var warnings []interfaces.Warning
	var assessed float64
	for _, s := range sections {
		assessed += s.Weight
	}

	total := *replacementValue
	if assessed > total {
		warnings = append(warnings, interfaces.Warning{
			Code:    interfaces.WarningWeightOverflow,
			Message: fmt.Sprintf("aggregation: section weights %.2f exceed replacement value %.2f", assessed, total),
		})
	}
	if remainder := total - assessed; remainder > 0 {
		sections = append(sections, interfaces.Section{Condition: interfaces.ConditionExcellent, Weight: remainder})
	}

	index := c.index(sections)
	return clampScore(int(math.Round(index*10)) + 1), warnings
}

// index returns Σ(weight × factor) / Σ weight, or 0 when there is no weight.
func (c *Calculator) index(sections []interfaces.Section) float64 {
	var weighted, total float64
	for _, s := range sections {
		weighted += s.Weight * c.factors.Factor(s.Condition)
		total += s.Weight
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

func invalidDefectWarning(d interfaces.DefectInstance, err error) interfaces.Warning {
	return interfaces.Warning{
		Code:     interfaces.WarningInvalidDefect,
		Message:  fmt.Sprintf("defect %q excluded: %v", d.Category, err),
		DefectID: d.ID,
	}
}
