// Package interfaces defines the shared types and contracts for all mjop modules.
// This package has ZERO dependencies on any other pkg/ package.
// All cross-module communication goes through types and interfaces defined here.
package interfaces

import (
	"encoding/json"
	"strings"
	"time"
)

// Severity is the intrinsic seriousness of a defect.
type Severity string

const (
	SeverityMinor       Severity = "minor"       // gering
	SeveritySignificant Severity = "significant" // serieus
	SeveritySerious     Severity = "serious"     // ernstig
)

// Severities lists the valid severities in display order.
var Severities = []Severity{SeverityMinor, SeveritySignificant, SeveritySerious}

// IsValid reports whether s is one of the three recognized severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityMinor, SeveritySignificant, SeveritySerious:
		return true
	}
	return false
}

// ParseSeverity accepts the English names as well as the Dutch names used by
// the inspection forms. Unknown values are returned unchanged and fail IsValid.
func ParseSeverity(v string) Severity {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "minor", "gering":
		return SeverityMinor
	case "significant", "serieus":
		return SeveritySignificant
	case "serious", "ernstig":
		return SeveritySerious
	default:
		return Severity(v)
	}
}

// UnmarshalJSON accepts any name ParseSeverity understands.
func (s *Severity) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = ParseSeverity(raw)
	return nil
}

// UnmarshalYAML accepts any name ParseSeverity understands.
func (s *Severity) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	*s = ParseSeverity(raw)
	return nil
}

// ExtentClass is the discrete class 1..5 of an extent percentage.
type ExtentClass int

// ConditionScore is a condition on the 1 (excellent) .. 6 (very poor) scale.
type ConditionScore int

const (
	ConditionExcellent ConditionScore = 1
	ConditionVeryPoor  ConditionScore = 6
)

// IsValid reports whether c lies on the 1..6 scale.
func (c ConditionScore) IsValid() bool {
	return c >= ConditionExcellent && c <= ConditionVeryPoor
}

// DefectInstance is one concrete observed defect on an element.
type DefectInstance struct {
	ID          string   `json:"id" yaml:"id"`
	Category    string   `json:"category" yaml:"category"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Intensity   *int     `json:"intensity" yaml:"intensity"`
	Extent      *float64 `json:"extent" yaml:"extent"`
	Description string   `json:"description" yaml:"description"`
	Media       []string `json:"media,omitempty" yaml:"media,omitempty"`
	Weight      *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Task is a planned remediation step attached to an inspection report.
type Task struct {
	ID            string   `json:"id" yaml:"id"`
	Description   string   `json:"description" yaml:"description"`
	PlannedYear   int      `json:"planned_year,omitempty" yaml:"planned_year,omitempty"`
	EstimatedCost float64  `json:"estimated_cost,omitempty" yaml:"estimated_cost,omitempty"`
	Done          bool     `json:"done" yaml:"done"`
	Media         []string `json:"media,omitempty" yaml:"media,omitempty"`
}

// WarningCode classifies a recoverable scoring problem.
type WarningCode string

const (
	WarningInvalidDefect       WarningCode = "invalid_defect"
	WarningMissingPrerequisite WarningCode = "missing_prerequisite"
	WarningWeightOverflow      WarningCode = "weight_overflow"
)

// Warning is a diagnostic recorded while rescoring a report.
type Warning struct {
	Code     WarningCode `json:"code" yaml:"code"`
	Message  string      `json:"message" yaml:"message"`
	DefectID string      `json:"defect_id,omitempty" yaml:"defect_id,omitempty"`
}

// InspectionReport is one dated assessment of an element.
type InspectionReport struct {
	ID          string           `json:"id" yaml:"id"`
	Description string           `json:"description" yaml:"description"`
	Done        bool             `json:"done" yaml:"done"`
	Date        *Date            `json:"date,omitempty" yaml:"date,omitempty"`
	Defects     []DefectInstance `json:"defects" yaml:"defects"`
	Tasks       []Task           `json:"tasks" yaml:"tasks"`
	Remarks     string           `json:"remarks" yaml:"remarks"`
	Condition   ConditionScore   `json:"condition" yaml:"condition"` // derived
	AgeBased    bool             `json:"age_based" yaml:"age_based"`
	Warnings    []Warning        `json:"warnings,omitempty" yaml:"warnings,omitempty"` // derived
}

// Element is a tracked building component (roof, facade, ...).
type Element struct {
	ID               string             `json:"id" yaml:"id"`
	Name             string             `json:"name" yaml:"name"`
	Category         string             `json:"category" yaml:"category"`
	Type             string             `json:"type" yaml:"type"`
	Material         string             `json:"material" yaml:"material"`
	Catalog          Catalog            `json:"catalog" yaml:"catalog"`
	Reports          []InspectionReport `json:"reports" yaml:"reports"`
	InstallationDate *Date              `json:"installation_date,omitempty" yaml:"installation_date,omitempty"`
	LifespanYears    *float64           `json:"lifespan_years,omitempty" yaml:"lifespan_years,omitempty"`
	ReplacementValue *float64           `json:"replacement_value,omitempty" yaml:"replacement_value,omitempty"`
}

// Snapshot is the full state tree handed to the persistence collaborator.
type Snapshot struct {
	Version  string    `json:"version" yaml:"version"`
	Elements []Element `json:"elements" yaml:"elements"`
}

// SnapshotVersion is written into every snapshot produced by the engine.
const SnapshotVersion = "1"

// Section is one scored unit fed to the aggregator.
type Section struct {
	Condition ConditionScore `json:"condition"`
	Weight    float64        `json:"weight"`
}

// Rating is the traffic-light rating derived from a condition score.
type Rating string

const (
	RatingGreen  Rating = "GREEN"
	RatingYellow Rating = "YELLOW"
	RatingRed    Rating = "RED"
)

// ReportSummary is the rendered view of one inspection report.
type ReportSummary struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Date        *Date          `json:"date,omitempty"`
	Condition   ConditionScore `json:"condition"`
	Label       string         `json:"label"`
	Rating      Rating         `json:"rating"`
	AgeBased    bool           `json:"age_based"`
	DefectCount int            `json:"defect_count"`
	TaskCount   int            `json:"task_count"`
	Warnings    []Warning      `json:"warnings,omitempty"`
}

// ElementSummary is the rendered view of one element.
type ElementSummary struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Condition ConditionScore  `json:"condition"`
	Label     string          `json:"label"`
	Rating    Rating          `json:"rating"`
	Reports   []ReportSummary `json:"reports"`
}

// AssessmentReport is the final output of an mjop scoring run.
type AssessmentReport struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Worst     ConditionScore   `json:"worst"`
	Rating    Rating           `json:"rating"`
	Elements  []ElementSummary `json:"elements"`
	Summary   string           `json:"summary"`
}
