package scorer

import (
	"fmt"
	"math"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

// Extent class breakpoints, in percent of the element affected.
const (
	ExtentBreakpoint2 = 2.0
	ExtentBreakpoint3 = 10.0
	ExtentBreakpoint4 = 30.0
	ExtentBreakpoint5 = 70.0
	MaxExtent         = 100.0
)

// ClassifyExtent maps an extent percentage in [0,100] to its class:
// <2 → 1, [2,10) → 2, [10,30) → 3, [30,70) → 4, ≥70 → 5.
func ClassifyExtent(pct float64) (interfaces.ExtentClass, error) {
	if math.IsNaN(pct) || pct < 0 || pct > MaxExtent {
		return 0, fmt.Errorf("%w: %v%%", ErrInvalidExtent, pct)
	}
	switch {
	case pct < ExtentBreakpoint2:
		return 1, nil
	case pct < ExtentBreakpoint3:
		return 2, nil
	case pct < ExtentBreakpoint4:
		return 3, nil
	case pct < ExtentBreakpoint5:
		return 4, nil
	default:
		return 5, nil
	}
}
