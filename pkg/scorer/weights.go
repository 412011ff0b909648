// Package scorer calculates NEN 2767 condition scores from observed defects.
package scorer

import "github.com/toyinlola/mjop/pkg/interfaces"

// Default correction factors per condition score, as defined by the
// aggregation method of NEN 2767.
const (
	DefaultFactorExcellent = 0.0
	DefaultFactorGood      = 0.1
	DefaultFactorFair      = 0.2
	DefaultFactorModerate  = 0.3
	DefaultFactorPoor      = 0.4
	DefaultFactorVeryPoor  = 0.5
)

// DefaultWeight is the replacement-value weight of a defect that does not
// carry one.
const DefaultWeight = 1.0

// CorrectionFactors maps condition scores to their aggregation factor.
type CorrectionFactors map[interfaces.ConditionScore]float64

// DefaultCorrectionFactors returns the default correction factor table.
func DefaultCorrectionFactors() CorrectionFactors {
	return CorrectionFactors{
		1: DefaultFactorExcellent,
		2: DefaultFactorGood,
		3: DefaultFactorFair,
		4: DefaultFactorModerate,
		5: DefaultFactorPoor,
		6: DefaultFactorVeryPoor,
	}
}

// Factor returns the correction factor for a score, falling back to 0 for
// scores outside the table.
func (f CorrectionFactors) Factor(c interfaces.ConditionScore) float64 {
	if v, ok := f[c]; ok {
		return v
	}
	return 0
}
