package scorer

import "github.com/toyinlola/mjop/pkg/interfaces"

// Default rating thresholds.
const (
	DefaultYellowFrom = 3
	DefaultRedFrom    = 5
)

var labels = map[interfaces.ConditionScore]string{
	1: "excellent",
	2: "good",
	3: "fair",
	4: "moderate",
	5: "poor",
	6: "very poor",
}

// Label returns the NEN 2767 description of a condition score.
func Label(c interfaces.ConditionScore) string {
	if l, ok := labels[c]; ok {
		return l
	}
	return "unknown"
}

// RatingFromScore returns the rating for a condition score.
// RED: score >= redFrom
// YELLOW: score >= yellowFrom
// GREEN: otherwise
func RatingFromScore(c interfaces.ConditionScore, yellowFrom, redFrom int) interfaces.Rating {
	switch {
	case int(c) >= redFrom:
		return interfaces.RatingRed
	case int(c) >= yellowFrom:
		return interfaces.RatingYellow
	default:
		return interfaces.RatingGreen
	}
}
