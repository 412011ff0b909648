package scorer

import (
	"fmt"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

// matrix holds condition scores indexed by [intensity-1][extentClass-1].
type matrix [3][5]interfaces.ConditionScore

// NEN 2767 condition matrices. Rows are intensity (initial, advanced, final),
// columns are extent classes 1..5.
var matrices = map[interfaces.Severity]matrix{
	interfaces.SeverityMinor: {
		{1, 1, 1, 1, 2},
		{1, 1, 1, 2, 3},
		{1, 1, 2, 3, 4},
	},
	interfaces.SeveritySignificant: {
		{1, 1, 1, 2, 3},
		{1, 1, 2, 3, 4},
		{1, 2, 3, 4, 5},
	},
	interfaces.SeveritySerious: {
		{1, 1, 2, 3, 4},
		{1, 2, 3, 4, 5},
		{2, 3, 4, 5, 6},
	},
}

// LookupConditionScore returns the matrix score for a severity, intensity
// (1..3) and extent class (1..5).
func LookupConditionScore(sev interfaces.Severity, intensity int, class interfaces.ExtentClass) (interfaces.ConditionScore, error) {
	m, ok := matrices[sev]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSeverity, sev)
	}
	if intensity < 1 || intensity > 3 {
		return 0, fmt.Errorf("%w: intensity %d", ErrInvalidIndex, intensity)
	}
	if class < 1 || class > 5 {
		return 0, fmt.Errorf("%w: extent class %d", ErrInvalidIndex, class)
	}
	return m[intensity-1][class-1], nil
}
