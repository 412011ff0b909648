// Package state owns the defect catalog and inspection reports of a snapshot
// and keeps them consistent with the derived condition scores.
//
// All mutation goes through Reducer.Reduce, a pure transition
// (snapshot, action) -> snapshot. Every transition ends by rescoring the
// reports it touched, so a returned snapshot never carries a stale score.
package state

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/toyinlola/mjop/pkg/interfaces"
	"github.com/toyinlola/mjop/pkg/scorer"
)

// Reducer applies actions to snapshots.
type Reducer struct {
	calc   *scorer.Calculator
	newID  func() string
	logger *slog.Logger
}

// Option configures the Reducer.
type Option func(*Reducer)

// WithCalculator sets the calculator used for rescoring.
func WithCalculator(c *scorer.Calculator) Option {
	return func(r *Reducer) {
		r.calc = c
	}
}

// WithIDGenerator overrides the generator for new element, report, defect
// and task ids.
func WithIDGenerator(f func() string) Option {
	return func(r *Reducer) {
		r.newID = f
	}
}

// WithLogger sets the logger for transition diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reducer) {
		r.logger = l
	}
}

// NewReducer creates a reducer with optional configuration.
func NewReducer(opts ...Option) *Reducer {
	r := &Reducer{
		calc:   scorer.NewCalculator(),
		newID:  uuid.NewString,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Calculator returns the calculator used for rescoring.
func (r *Reducer) Calculator() *scorer.Calculator {
	return r.calc
}

// Reduce applies action to a copy of snap and returns the copy.
// snap itself is never modified. On error the returned snapshot is snap.
func (r *Reducer) Reduce(snap *interfaces.Snapshot, action Action) (*interfaces.Snapshot, error) {
	if action == nil {
		return snap, fmt.Errorf("state: %w: nil action", ErrUnknownAction)
	}

	next := snap.Clone()
	if next.Version == "" {
		next.Version = interfaces.SnapshotVersion
	}

	t := &txn{snap: next, dirty: make(map[string]bool)}
	if err := r.apply(t, action); err != nil {
		return snap, fmt.Errorf("state: %s: %w", action.Kind(), err)
	}

	n := r.rescoreDirty(t)
	r.logger.Debug("transition applied", "action", action.Kind(), "rescored", n)
	return next, nil
}

// ReduceAll applies actions in order. Either all of them apply or none do.
func (r *Reducer) ReduceAll(snap *interfaces.Snapshot, actions []Action) (*interfaces.Snapshot, error) {
	next := snap
	for i, a := range actions {
		var err error
		next, err = r.Reduce(next, a)
		if err != nil {
			return snap, fmt.Errorf("action %d: %w", i, err)
		}
	}
	return next, nil
}

func (r *Reducer) apply(t *txn, action Action) error {
	switch a := action.(type) {
	case AddElement:
		return r.addElement(t, a)
	case RemoveElement:
		return t.removeElement(a.ElementID)
	case EditElement:
		return editElement(t, a)
	case AddDefectToCatalog:
		return addToCatalog(t, a)
	case RemoveDefectFromCatalog:
		return removeFromCatalog(t, a)
	case AddInspectionReport:
		return r.addReport(t, a)
	case RemoveInspectionReport:
		return t.removeReport(a.ReportID)
	case EditInspectionReport:
		return editReport(t, a)
	case AddDefectInstance:
		return r.addDefect(t, a)
	case EditDefectInstance:
		return editDefect(t, a)
	case RemoveDefectInstance:
		return removeDefect(t, a)
	case AddTask:
		return r.addTask(t, a)
	case EditTask:
		return editTask(t, a)
	case RemoveTask:
		return removeTask(t, a)
	case AttachMedia:
		return attachMedia(t, a)
	case RescoreAll:
		t.all = true
		normalizeDefects(t.snap)
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
}

func (r *Reducer) addElement(t *txn, a AddElement) error {
	el := a.Element.Clone()
	if el.ID == "" {
		el.ID = r.newID()
	}
	if _, err := t.element(el.ID); err == nil {
		return fmt.Errorf("%w: element %q", ErrDuplicateID, el.ID)
	}
	seen := make(map[string]bool, len(el.Reports))
	for i := range el.Reports {
		if err := r.prepareReport(t, &el, &el.Reports[i]); err != nil {
			return err
		}
		if seen[el.Reports[i].ID] {
			return fmt.Errorf("%w: report %q", ErrDuplicateID, el.Reports[i].ID)
		}
		seen[el.Reports[i].ID] = true
	}
	t.snap.Elements = append(t.snap.Elements, el)
	t.markElement(&t.snap.Elements[len(t.snap.Elements)-1])
	return nil
}

func editElement(t *txn, a EditElement) error {
	el, err := t.element(a.ElementID)
	if err != nil {
		return err
	}

	switch a.Field {
	case FieldName:
		el.Name, err = asString(a.Value)
	case FieldElementCategory:
		el.Category, err = asString(a.Value)
	case FieldType:
		el.Type, err = asString(a.Value)
	case FieldMaterial:
		el.Material, err = asString(a.Value)
	case FieldInstallationDate:
		el.InstallationDate, err = asOptionalDate(a.Value)
	case FieldLifespanYears:
		el.LifespanYears, err = asOptionalFloat(a.Value)
	case FieldReplacementValue:
		el.ReplacementValue, err = asOptionalFloat(a.Value)
	default:
		return fmt.Errorf("%w: element field %q", ErrInvalidField, a.Field)
	}
	if err != nil {
		return fmt.Errorf("element field %q: %w", a.Field, err)
	}

	t.markElement(el)
	return nil
}

func addToCatalog(t *txn, a AddDefectToCatalog) error {
	el, err := t.element(a.ElementID)
	if err != nil {
		return err
	}
	sev, err := parseSeverity(string(a.Severity))
	if err != nil {
		return err
	}

	el.Catalog.Add(sev, cleanNames(a.Names)...)
	t.markElement(el)
	return nil
}

func removeFromCatalog(t *txn, a RemoveDefectFromCatalog) error {
	el, err := t.element(a.ElementID)
	if err != nil {
		return err
	}
	sev, err := parseSeverity(string(a.Severity))
	if err != nil {
		return err
	}

	names := cleanNames(a.Names)
	el.Catalog.Remove(sev, names...)

	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	for ri := range el.Reports {
		rep := &el.Reports[ri]
		kept := rep.Defects[:0:0]
		for _, d := range rep.Defects {
			if interfaces.ParseSeverity(string(d.Severity)) == sev && drop[strings.TrimSpace(d.Category)] {
				continue
			}
			kept = append(kept, d)
		}
		if len(kept) != len(rep.Defects) {
			rep.Defects = kept
		}
		t.mark(rep.ID)
	}
	return nil
}

func (r *Reducer) addReport(t *txn, a AddInspectionReport) error {
	el, err := t.element(a.ElementID)
	if err != nil {
		return err
	}
	rep := a.Report.Clone()
	if err := r.prepareReport(t, el, &rep); err != nil {
		return err
	}
	el.Reports = append(el.Reports, rep)
	t.mark(rep.ID)
	return nil
}

// prepareReport assigns missing ids, rejects invalid severities and adds the
// report's defect categories to the element catalog.
func (r *Reducer) prepareReport(t *txn, el *interfaces.Element, rep *interfaces.InspectionReport) error {
	if rep.ID == "" {
		rep.ID = r.newID()
	}
	if _, _, err := t.report(rep.ID); err == nil {
		return fmt.Errorf("%w: report %q", ErrDuplicateID, rep.ID)
	}

	for i := range rep.Defects {
		d := &rep.Defects[i]
		if d.ID == "" {
			d.ID = r.newID()
		}
		sev, err := parseSeverity(string(d.Severity))
		if err != nil {
			return fmt.Errorf("defect %q: %w", d.ID, err)
		}
		d.Severity = sev
		d.Category = strings.TrimSpace(d.Category)
		el.Catalog.Add(sev, d.Category)
	}
	for i := range rep.Tasks {
		if rep.Tasks[i].ID == "" {
			rep.Tasks[i].ID = r.newID()
		}
	}
	return nil
}

func editReport(t *txn, a EditInspectionReport) error {
	_, rep, err := t.report(a.ReportID)
	if err != nil {
		return err
	}

	switch a.Field {
	case FieldDescription:
		rep.Description, err = asString(a.Value)
	case FieldRemarks:
		rep.Remarks, err = asString(a.Value)
	case FieldDone:
		rep.Done, err = asBool(a.Value)
	case FieldDate:
		rep.Date, err = asOptionalDate(a.Value)
	case FieldAgeBased:
		rep.AgeBased, err = asBool(a.Value)
	default:
		return fmt.Errorf("%w: report field %q", ErrInvalidField, a.Field)
	}
	if err != nil {
		return fmt.Errorf("report field %q: %w", a.Field, err)
	}

	t.mark(rep.ID)
	return nil
}

func (r *Reducer) addDefect(t *txn, a AddDefectInstance) error {
	el, rep, err := t.report(a.ReportID)
	if err != nil {
		return err
	}
	sev, err := parseSeverity(string(a.Severity))
	if err != nil {
		return err
	}
	category := strings.TrimSpace(a.Category)
	if category == "" {
		return fmt.Errorf("%w: category must not be empty", ErrInvalidValue)
	}

	id := a.ID
	if id == "" {
		id = r.newID()
	}
	if defectIndex(rep, id) >= 0 {
		return fmt.Errorf("%w: defect %q", ErrDuplicateID, id)
	}

	rep.Defects = append(rep.Defects, interfaces.DefectInstance{
		ID:       id,
		Category: category,
		Severity: sev,
	})
	el.Catalog.Add(sev, category)
	t.mark(rep.ID)
	return nil
}

func editDefect(t *txn, a EditDefectInstance) error {
	el, rep, err := t.report(a.ReportID)
	if err != nil {
		return err
	}
	i := defectIndex(rep, a.InstanceID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownInstance, a.InstanceID)
	}
	d := &rep.Defects[i]

	switch a.Field {
	case FieldCategory:
		var category string
		if category, err = asString(a.Value); err != nil {
			break
		}
		category = strings.TrimSpace(category)
		if category == "" {
			return fmt.Errorf("%w: category must not be empty", ErrInvalidValue)
		}
		d.Category = category
		el.Catalog.Add(d.Severity, category)
	case FieldSeverity:
		var sev interfaces.Severity
		if sev, err = asSeverity(a.Value); err != nil {
			break
		}
		d.Severity = sev
		el.Catalog.Add(sev, d.Category)
	case FieldIntensity:
		d.Intensity, err = asOptionalInt(a.Value)
	case FieldExtent:
		d.Extent, err = asOptionalFloat(a.Value)
	case FieldWeight:
		d.Weight, err = asOptionalFloat(a.Value)
	case FieldDescription:
		d.Description, err = asString(a.Value)
	case FieldMedia:
		d.Media, err = asStrings(a.Value)
	default:
		return fmt.Errorf("%w: defect field %q", ErrInvalidField, a.Field)
	}
	if err != nil {
		return fmt.Errorf("defect field %q: %w", a.Field, err)
	}

	t.mark(rep.ID)
	return nil
}

func removeDefect(t *txn, a RemoveDefectInstance) error {
	_, rep, err := t.report(a.ReportID)
	if err != nil {
		return err
	}
	i := defectIndex(rep, a.InstanceID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownInstance, a.InstanceID)
	}
	rep.Defects = append(rep.Defects[:i], rep.Defects[i+1:]...)
	t.mark(rep.ID)
	return nil
}

func (r *Reducer) addTask(t *txn, a AddTask) error {
	_, rep, err := t.report(a.ReportID)
	if err != nil {
		return err
	}
	task := a.Task
	task.Media = append([]string(nil), a.Task.Media...)
	if task.ID == "" {
		task.ID = r.newID()
	}
	if taskIndex(rep, task.ID) >= 0 {
		return fmt.Errorf("%w: task %q", ErrDuplicateID, task.ID)
	}
	rep.Tasks = append(rep.Tasks, task)
	t.mark(rep.ID)
	return nil
}

func editTask(t *txn, a EditTask) error {
	_, rep, err := t.report(a.ReportID)
	if err != nil {
		return err
	}
	i := taskIndex(rep, a.TaskID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownTask, a.TaskID)
	}
	task := &rep.Tasks[i]

	switch a.Field {
	case FieldDescription:
		task.Description, err = asString(a.Value)
	case FieldPlannedYear:
		task.PlannedYear, err = asInt(a.Value)
	case FieldEstimatedCost:
		task.EstimatedCost, err = asFloat(a.Value)
	case FieldDone:
		task.Done, err = asBool(a.Value)
	case FieldMedia:
		task.Media, err = asStrings(a.Value)
	default:
		return fmt.Errorf("%w: task field %q", ErrInvalidField, a.Field)
	}
	if err != nil {
		return fmt.Errorf("task field %q: %w", a.Field, err)
	}

	t.mark(rep.ID)
	return nil
}

func removeTask(t *txn, a RemoveTask) error {
	_, rep, err := t.report(a.ReportID)
	if err != nil {
		return err
	}
	i := taskIndex(rep, a.TaskID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownTask, a.TaskID)
	}
	rep.Tasks = append(rep.Tasks[:i], rep.Tasks[i+1:]...)
	t.mark(rep.ID)
	return nil
}

func attachMedia(t *txn, a AttachMedia) error {
	_, rep, err := t.report(a.ReportID)
	if err != nil {
		return err
	}
	ref := strings.TrimSpace(a.Ref)
	if ref == "" {
		return fmt.Errorf("%w: media reference must not be empty", ErrInvalidValue)
	}

	if i := defectIndex(rep, a.TargetID); i >= 0 {
		rep.Defects[i].Media = append(rep.Defects[i].Media, ref)
	} else if i := taskIndex(rep, a.TargetID); i >= 0 {
		rep.Tasks[i].Media = append(rep.Tasks[i].Media, ref)
	} else {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, a.TargetID)
	}

	t.mark(rep.ID)
	return nil
}

// normalizeDefects brings defects that did not enter through an action in line
// with the ones that did: severity names parsed, categories trimmed and
// cataloged. Defects with an unknown severity are left for the scorer to flag.
func normalizeDefects(snap *interfaces.Snapshot) {
	for ei := range snap.Elements {
		el := &snap.Elements[ei]
		for ri := range el.Reports {
			rep := &el.Reports[ri]
			for di := range rep.Defects {
				d := &rep.Defects[di]
				d.Severity = interfaces.ParseSeverity(string(d.Severity))
				d.Category = strings.TrimSpace(d.Category)
				if d.Severity.IsValid() {
					el.Catalog.Add(d.Severity, d.Category)
				}
			}
		}
	}
}

// cleanNames trims names and drops empty ones.
func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
