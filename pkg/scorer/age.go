package scorer

import (
	"fmt"
	"math"
	"time"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

// AgeInYears returns the number of whole years between installed and now.
// A year only counts once its anniversary has passed.
func AgeInYears(installed, now time.Time) int {
	age := now.Year() - installed.Year()
	if now.Month() < installed.Month() ||
		(now.Month() == installed.Month() && now.Day() < installed.Day()) {
		age--
	}
	return age
}

// ScoreByAge computes the theoretical condition of an element from its age
// and expected lifespan: C = 6 / (1 + age/lifespan), rounded, capped at 6 and
// floored at 1. Missing or unusable inputs yield score 1 and a warning.
func ScoreByAge(installed *interfaces.Date, now time.Time, lifespan *float64) (interfaces.ConditionScore, *interfaces.Warning) {
	switch {
	case installed == nil:
		return interfaces.ConditionExcellent, prerequisiteWarning("installation date not set")
	case lifespan == nil:
		return interfaces.ConditionExcellent, prerequisiteWarning("lifespan not set")
	case math.IsNaN(*lifespan) || *lifespan <= 0:
		return interfaces.ConditionExcellent, prerequisiteWarning(fmt.Sprintf("lifespan must be positive, got %v", *lifespan))
	}

	age := AgeInYears(installed.Time, now)
	if age < 0 {
		return interfaces.ConditionExcellent, prerequisiteWarning(
			fmt.Sprintf("installation date %s lies in the future", installed))
	}

	c := 6 / (1 + float64(age)/(*lifespan))
	return clampScore(int(math.Round(c))), nil
}

func prerequisiteWarning(msg string) *interfaces.Warning {
	return &interfaces.Warning{
		Code:    interfaces.WarningMissingPrerequisite,
		Message: "age-based scoring: " + msg,
	}
}

func clampScore(v int) interfaces.ConditionScore {
	if v < int(interfaces.ConditionExcellent) {
		return interfaces.ConditionExcellent
	}
	if v > int(interfaces.ConditionVeryPoor) {
		return interfaces.ConditionVeryPoor
	}
	return interfaces.ConditionScore(v)
}
