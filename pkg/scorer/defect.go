package scorer

import (
	"fmt"
	"math"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

// ScoreDefect scores a single defect through the condition matrices.
// The returned section carries the defect's weight, or DefaultWeight when unset.
// Errors are per-defect: the defect is not yet assessable.
func ScoreDefect(d interfaces.DefectInstance) (interfaces.Section, error) {
	if err := validateDefect(d); err != nil {
		return interfaces.Section{}, err
	}
	cond, err := scoreAt(d.Severity, *d.Intensity, *d.Extent)
	if err != nil {
		return interfaces.Section{}, err
	}
	return interfaces.Section{Condition: cond, Weight: defectWeight(d)}, nil
}

// validateDefect checks that every scoring input is present and in range.
func validateDefect(d interfaces.DefectInstance) error {
	if !d.Severity.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSeverity, d.Severity)
	}
	if d.Intensity == nil {
		return ErrMissingIntensity
	}
	if *d.Intensity < 1 || *d.Intensity > 3 {
		return fmt.Errorf("%w: intensity %d", ErrInvalidIndex, *d.Intensity)
	}
	if d.Extent == nil {
		return ErrMissingExtent
	}
	if e := *d.Extent; math.IsNaN(e) || e < 0 || e > MaxExtent {
		return fmt.Errorf("%w: %v%%", ErrInvalidExtent, e)
	}
	if d.Weight != nil && (math.IsNaN(*d.Weight) || *d.Weight < 0) {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, *d.Weight)
	}
	return nil
}

func scoreAt(sev interfaces.Severity, intensity int, extent float64) (interfaces.ConditionScore, error) {
	class, err := ClassifyExtent(extent)
	if err != nil {
		return 0, err
	}
	return LookupConditionScore(sev, intensity, class)
}

func defectWeight(d interfaces.DefectInstance) float64 {
	if d.Weight == nil {
		return DefaultWeight
	}
	return *d.Weight
}
