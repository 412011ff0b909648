package state

import "github.com/toyinlola/mjop/pkg/interfaces"

// Action is a single state transition request.
type Action interface {
	// Kind returns the action's wire name.
	Kind() string
}

// Action kinds as they appear in action files.
const (
	KindAddElement              = "add_element"
	KindRemoveElement           = "remove_element"
	KindEditElement             = "edit_element"
	KindAddDefectToCatalog      = "add_defect_to_catalog"
	KindRemoveDefectFromCatalog = "remove_defect_from_catalog"
	KindAddInspectionReport     = "add_inspection_report"
	KindRemoveInspectionReport  = "remove_inspection_report"
	KindEditInspectionReport    = "edit_inspection_report"
	KindAddDefectInstance       = "add_defect_instance"
	KindEditDefectInstance      = "edit_defect_instance"
	KindRemoveDefectInstance    = "remove_defect_instance"
	KindAddTask                 = "add_task"
	KindEditTask                = "edit_task"
	KindRemoveTask              = "remove_task"
	KindAttachMedia             = "attach_media"
	KindRescoreAll              = "rescore_all"
)

// Field names an edit action can target.
type Field string

// Defect instance fields.
const (
	FieldCategory    Field = "category"
	FieldSeverity    Field = "severity"
	FieldIntensity   Field = "intensity"
	FieldExtent      Field = "extent"
	FieldDescription Field = "description"
	FieldMedia       Field = "media"
	FieldWeight      Field = "weight"
)

// Inspection report fields. FieldDescription applies as well.
const (
	FieldDone     Field = "done"
	FieldDate     Field = "date"
	FieldRemarks  Field = "remarks"
	FieldAgeBased Field = "age_based"
)

// Task fields. FieldDescription, FieldDone and FieldMedia apply as well.
const (
	FieldPlannedYear   Field = "planned_year"
	FieldEstimatedCost Field = "estimated_cost"
)

// Element fields.
const (
	FieldName             Field = "name"
	FieldElementCategory  Field = "element_category"
	FieldType             Field = "type"
	FieldMaterial         Field = "material"
	FieldInstallationDate Field = "installation_date"
	FieldLifespanYears    Field = "lifespan_years"
	FieldReplacementValue Field = "replacement_value"
)

// AddElement inserts a new element. An empty ID is generated.
type AddElement struct {
	Element interfaces.Element `json:"element"`
}

// RemoveElement deletes an element with all of its reports.
type RemoveElement struct {
	ElementID string `json:"element_id"`
}

// EditElement replaces one field of an element. Edits to the age or
// replacement-value fields rescore every report of the element.
type EditElement struct {
	ElementID string `json:"element_id"`
	Field     Field  `json:"field"`
	Value     any    `json:"value"`
}

// AddDefectToCatalog adds names to an element's catalog (set union).
type AddDefectToCatalog struct {
	ElementID string              `json:"element_id"`
	Severity  interfaces.Severity `json:"severity"`
	Names     []string            `json:"names"`
}

// RemoveDefectFromCatalog removes names from an element's catalog and deletes
// every defect instance of that element with a matching category and severity.
type RemoveDefectFromCatalog struct {
	ElementID string              `json:"element_id"`
	Severity  interfaces.Severity `json:"severity"`
	Names     []string            `json:"names"`
}

// AddInspectionReport appends a report to an element. An empty ID is generated.
type AddInspectionReport struct {
	ElementID string                      `json:"element_id"`
	Report    interfaces.InspectionReport `json:"report"`
}

// RemoveInspectionReport deletes a report.
type RemoveInspectionReport struct {
	ReportID string `json:"report_id"`
}

// EditInspectionReport replaces one field of a report.
type EditInspectionReport struct {
	ReportID string `json:"report_id"`
	Field    Field  `json:"field"`
	Value    any    `json:"value"`
}

// AddDefectInstance creates an unassessed defect on a report. A category that
// is new to the element's catalog is added to it. An empty ID is generated.
type AddDefectInstance struct {
	ReportID string              `json:"report_id"`
	ID       string              `json:"id,omitempty"`
	Category string              `json:"category"`
	Severity interfaces.Severity `json:"severity"`
}

// EditDefectInstance replaces one field of a defect instance.
type EditDefectInstance struct {
	ReportID   string `json:"report_id"`
	InstanceID string `json:"instance_id"`
	Field      Field  `json:"field"`
	Value      any    `json:"value"`
}

// RemoveDefectInstance deletes a defect instance. The catalog is not touched.
type RemoveDefectInstance struct {
	ReportID   string `json:"report_id"`
	InstanceID string `json:"instance_id"`
}

// AddTask appends a task to a report. An empty ID is generated.
type AddTask struct {
	ReportID string          `json:"report_id"`
	Task     interfaces.Task `json:"task"`
}

// EditTask replaces one field of a task.
type EditTask struct {
	ReportID string `json:"report_id"`
	TaskID   string `json:"task_id"`
	Field    Field  `json:"field"`
	Value    any    `json:"value"`
}

// RemoveTask deletes a task.
type RemoveTask struct {
	ReportID string `json:"report_id"`
	TaskID   string `json:"task_id"`
}

// AttachMedia appends a file reference to the defect or task with TargetID.
type AttachMedia struct {
	ReportID string `json:"report_id"`
	TargetID string `json:"target_id"`
	Ref      string `json:"ref"`
}

// RescoreAll recomputes every report. Used after loading a snapshot.
type RescoreAll struct{}

func (AddElement) Kind() string              { return KindAddElement }
func (RemoveElement) Kind() string           { return KindRemoveElement }
func (EditElement) Kind() string             { return KindEditElement }
func (AddDefectToCatalog) Kind() string      { return KindAddDefectToCatalog }
func (RemoveDefectFromCatalog) Kind() string { return KindRemoveDefectFromCatalog }
func (AddInspectionReport) Kind() string     { return KindAddInspectionReport }
func (RemoveInspectionReport) Kind() string  { return KindRemoveInspectionReport }
func (EditInspectionReport) Kind() string    { return KindEditInspectionReport }
func (AddDefectInstance) Kind() string       { return KindAddDefectInstance }
func (EditDefectInstance) Kind() string      { return KindEditDefectInstance }
func (RemoveDefectInstance) Kind() string    { return KindRemoveDefectInstance }
func (AddTask) Kind() string                 { return KindAddTask }
func (EditTask) Kind() string                { return KindEditTask }
func (RemoveTask) Kind() string              { return KindRemoveTask }
func (AttachMedia) Kind() string             { return KindAttachMedia }
func (RescoreAll) Kind() string              { return KindRescoreAll }
