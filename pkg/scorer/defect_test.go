package scorer

import (
	"errors"
	"math"
	"testing"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

func TestScoreDefect_DefaultsWeightToOne(t *testing.T) {
	s, err := ScoreDefect(defect("d1", interfaces.SeveritySerious, 2, 13))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Condition != 3 {
		t.Errorf("expected condition 3, got %d", s.Condition)
	}
	if s.Weight != DefaultWeight {
		t.Errorf("expected default weight %v, got %v", DefaultWeight, s.Weight)
	}
}

func TestScoreDefect_UsesExplicitWeight(t *testing.T) {
	d := withWeight(defect("d1", interfaces.SeverityMinor, 1, 50), 250)
	s, err := ScoreDefect(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Weight != 250 {
		t.Errorf("expected weight 250, got %v", s.Weight)
	}
}

func TestScoreDefect_RecoverableErrors(t *testing.T) {
	noIntensity := defect("d1", interfaces.SeverityMinor, 1, 5)
	noIntensity.Intensity = nil

	noExtent := defect("d2", interfaces.SeverityMinor, 1, 5)
	noExtent.Extent = nil

	nan := defect("d3", interfaces.SeverityMinor, 1, math.NaN())

	tests := []struct {
		name string
		d    interfaces.DefectInstance
		want error
	}{
		{"missing intensity", noIntensity, ErrMissingIntensity},
		{"missing extent", noExtent, ErrMissingExtent},
		{"NaN extent", nan, ErrInvalidExtent},
		{"negative extent", defect("d4", interfaces.SeverityMinor, 1, -1), ErrInvalidExtent},
		{"intensity out of range", defect("d5", interfaces.SeverityMinor, 4, 5), ErrInvalidIndex},
		{"bad severity", defect("d6", interfaces.Severity("fatal"), 1, 5), ErrInvalidSeverity},
		{"negative weight", withWeight(defect("d7", interfaces.SeverityMinor, 1, 5), -3), ErrInvalidWeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ScoreDefect(tt.d)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// defect builds a fully assessed defect for testing.
func defect(id string, sev interfaces.Severity, intensity int, extent float64) interfaces.DefectInstance {
	return interfaces.DefectInstance{
		ID:        id,
		Category:  "test-" + id,
		Severity:  sev,
		Intensity: &intensity,
		Extent:    &extent,
	}
}

func withWeight(d interfaces.DefectInstance, w float64) interfaces.DefectInstance {
	d.Weight = &w
	return d
}
