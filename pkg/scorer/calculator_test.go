package scorer

import (
	"testing"
	"time"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

func TestCalculator_NoDefects_Score1(t *testing.T) {
	calc := NewCalculator()
	el := element(1000)

	score, warnings := calc.ScoreReport(el, interfaces.InspectionReport{ID: "r1"})
	if score != 1 {
		t.Errorf("expected score 1, got %d", score)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestCalculator_AggregationArithmetic(t *testing.T) {
	calc := NewCalculator()
	total := 1000.0

	// factors [0.0, 0.2] → index = (0×600 + 0.2×400) / 1000 = 0.08 → round(0.8)+1 = 2
	score, warnings := calc.Aggregate([]interfaces.Section{
		{Condition: 1, Weight: 600},
		{Condition: 3, Weight: 400},
	}, &total)

	if score != 2 {
		t.Errorf("expected score 2, got %d", score)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestCalculator_RemainderIsPristine(t *testing.T) {
	calc := NewCalculator()
	total := 1000.0

	// One section of 400 at score 3; the missing 600 must count as score 1.
	withRemainder, _ := calc.Aggregate([]interfaces.Section{{Condition: 3, Weight: 400}}, &total)
	explicit, _ := calc.Aggregate([]interfaces.Section{
		{Condition: 3, Weight: 400},
		{Condition: 1, Weight: 600},
	}, &total)

	if withRemainder != explicit {
		t.Errorf("implicit remainder scored %d, explicit remainder scored %d", withRemainder, explicit)
	}
	if withRemainder != 2 {
		t.Errorf("expected score 2, got %d", withRemainder)
	}

	// Without the remainder the section alone would score round(2)+1 = 3.
	exact := 400.0
	alone, _ := calc.Aggregate([]interfaces.Section{{Condition: 3, Weight: 400}}, &exact)
	if alone != 3 {
		t.Errorf("expected score 3 without remainder, got %d", alone)
	}
}

func TestCalculator_WeightOverflowWarns(t *testing.T) {
	calc := NewCalculator()
	total := 1000.0

	score, warnings := calc.Aggregate([]interfaces.Section{{Condition: 6, Weight: 2000}}, &total)
	if score != 6 {
		t.Errorf("expected score 6, got %d", score)
	}
	if !hasWarning(warnings, interfaces.WarningWeightOverflow) {
		t.Errorf("expected weight_overflow warning, got %v", warnings)
	}
}

func TestCalculator_UnknownReplacementValue_Score1WithWarning(t *testing.T) {
	calc := NewCalculator()

	score, warnings := calc.Aggregate([]interfaces.Section{{Condition: 5, Weight: 1}}, nil)
	if score != 1 {
		t.Errorf("expected conservative score 1, got %d", score)
	}
	if !hasWarning(warnings, interfaces.WarningMissingPrerequisite) {
		t.Errorf("expected missing_prerequisite warning, got %v", warnings)
	}
}

func TestCalculator_ZeroWeight_IndexZero(t *testing.T) {
	calc := NewCalculator()
	zero := 0.0

	score, _ := calc.Aggregate([]interfaces.Section{{Condition: 6, Weight: 0}}, &zero)
	if score != 1 {
		t.Errorf("expected score 1 for zero total weight, got %d", score)
	}
}

func TestCalculator_ClampsToSix(t *testing.T) {
	calc := NewCalculator(WithCorrectionFactors(CorrectionFactors{6: 1.0}))
	total := 10.0

	score, _ := calc.Aggregate([]interfaces.Section{{Condition: 6, Weight: 10}}, &total)
	if score != 6 {
		t.Errorf("expected clamp to 6, got %d", score)
	}
}

func TestCalculator_Sections_GroupsIdenticalCharacter(t *testing.T) {
	calc := NewCalculator()

	sections, warnings := calc.Sections([]interfaces.DefectInstance{
		defect("a", interfaces.SeveritySerious, 2, 5),
		defect("b", interfaces.SeveritySerious, 2, 8),
	})

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(sections) != 1 {
		t.Fatalf("expected 1 grouped section, got %d", len(sections))
	}
	// 5% + 8% = 13% → extent class 3 → serious/2/3 = 3
	if sections[0].Condition != 3 {
		t.Errorf("expected condition 3, got %d", sections[0].Condition)
	}
	if sections[0].Weight != 2 {
		t.Errorf("expected summed weight 2, got %v", sections[0].Weight)
	}
}

func TestCalculator_Sections_CapsSummedExtent(t *testing.T) {
	calc := NewCalculator()

	sections, _ := calc.Sections([]interfaces.DefectInstance{
		defect("a", interfaces.SeveritySerious, 3, 60),
		defect("b", interfaces.SeveritySerious, 3, 50),
	})
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].Condition != 6 {
		t.Errorf("expected capped extent to score 6, got %d", sections[0].Condition)
	}
}

func TestCalculator_Sections_DifferentCharacterStaysSeparate(t *testing.T) {
	calc := NewCalculator()

	sections, _ := calc.Sections([]interfaces.DefectInstance{
		defect("a", interfaces.SeveritySerious, 2, 5),
		defect("b", interfaces.SeveritySerious, 3, 5),
		defect("c", interfaces.SeverityMinor, 2, 5),
	})
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	want := []interfaces.ConditionScore{2, 3, 1}
	for i, s := range sections {
		if s.Condition != want[i] {
			t.Errorf("section %d: expected condition %d, got %d", i, want[i], s.Condition)
		}
	}
}

func TestCalculator_Sections_ExcludesUnassessable(t *testing.T) {
	calc := NewCalculator()

	pending := defect("p", interfaces.SeveritySerious, 1, 50)
	pending.Intensity = nil

	sections, warnings := calc.Sections([]interfaces.DefectInstance{
		pending,
		defect("a", interfaces.SeverityMinor, 1, 5),
	})

	if len(sections) != 1 {
		t.Errorf("expected only the assessable defect to be scored, got %d sections", len(sections))
	}
	if len(warnings) != 1 || warnings[0].DefectID != "p" {
		t.Errorf("expected one warning for defect p, got %v", warnings)
	}
}

func TestCalculator_ScoreReport_GroupingChangesOutcome(t *testing.T) {
	calc := NewCalculator()
	el := element(1000)

	a := withWeight(defect("a", interfaces.SeveritySerious, 2, 5), 200)
	b := withWeight(defect("b", interfaces.SeveritySerious, 2, 8), 200)

	// Grouped: one section {3, 400} + remainder {1, 600} → 2.
	// Scored independently both would be class 2 → score 2 → index 0.04 → 1.
	score, _ := calc.ScoreReport(el, interfaces.InspectionReport{Defects: []interfaces.DefectInstance{a, b}})
	if score != 2 {
		t.Errorf("expected grouped score 2, got %d", score)
	}
}

func TestCalculator_ScoreReport_AgeBasedBypassesDefects(t *testing.T) {
	now := time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)
	calc := NewCalculator(WithClock(func() time.Time { return now }))

	installed := mustDate(t, "2011-01-01")
	lifespan := 30.0
	el := element(1000)
	el.InstallationDate = &installed
	el.LifespanYears = &lifespan

	r := interfaces.InspectionReport{
		AgeBased: true,
		Defects:  []interfaces.DefectInstance{withWeight(defect("a", interfaces.SeveritySerious, 3, 100), 1000)},
	}

	score, warnings := calc.ScoreReport(el, r)
	if score != 4 {
		t.Errorf("expected age-based score 4, got %d", score)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestCalculator_ScoreReport_AgeBasedMissingLifespan(t *testing.T) {
	calc := NewCalculator()
	installed := mustDate(t, "2011-01-01")
	el := element(1000)
	el.InstallationDate = &installed

	score, warnings := calc.ScoreReport(el, interfaces.InspectionReport{AgeBased: true})
	if score != 1 {
		t.Errorf("expected fallback score 1, got %d", score)
	}
	if !hasWarning(warnings, interfaces.WarningMissingPrerequisite) {
		t.Errorf("expected missing_prerequisite warning, got %v", warnings)
	}
}

func TestRatingFromScore(t *testing.T) {
	tests := []struct {
		score interfaces.ConditionScore
		want  interfaces.Rating
	}{
		{1, interfaces.RatingGreen},
		{2, interfaces.RatingGreen},
		{3, interfaces.RatingYellow},
		{4, interfaces.RatingYellow},
		{5, interfaces.RatingRed},
		{6, interfaces.RatingRed},
	}
	for _, tt := range tests {
		if got := RatingFromScore(tt.score, DefaultYellowFrom, DefaultRedFrom); got != tt.want {
			t.Errorf("RatingFromScore(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
	if Label(6) != "very poor" {
		t.Errorf("unexpected label %q", Label(6))
	}
}

// element builds an element with the given replacement value.
func element(replacementValue float64) interfaces.Element {
	return interfaces.Element{ID: "e1", Name: "Roof", ReplacementValue: &replacementValue}
}

func hasWarning(warnings []interfaces.Warning, code interfaces.WarningCode) bool {
	for _, w := range warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}
