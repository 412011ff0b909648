package scorer

import (
	"errors"
	"math"
	"testing"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

func TestClassifyExtent_Boundaries(t *testing.T) {
	tests := []struct {
		pct  float64
		want interfaces.ExtentClass
	}{
		{0, 1},
		{1.99, 1},
		{2, 2},
		{9.99, 2},
		{10, 3},
		{29.99, 3},
		{30, 4},
		{69.99, 4},
		{70, 5},
		{100, 5},
	}
	for _, tt := range tests {
		got, err := ClassifyExtent(tt.pct)
		if err != nil {
			t.Fatalf("ClassifyExtent(%v): %v", tt.pct, err)
		}
		if got != tt.want {
			t.Errorf("ClassifyExtent(%v) = %d, want %d", tt.pct, got, tt.want)
		}
	}
}

func TestClassifyExtent_InvalidInput(t *testing.T) {
	for _, pct := range []float64{math.NaN(), -0.01, 100.01, math.Inf(1)} {
		if _, err := ClassifyExtent(pct); !errors.Is(err, ErrInvalidExtent) {
			t.Errorf("ClassifyExtent(%v): expected ErrInvalidExtent, got %v", pct, err)
		}
	}
}
