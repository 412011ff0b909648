package interfaces

// Clone returns a deep copy of the snapshot. A nil snapshot clones to an
// empty one.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return &Snapshot{Version: SnapshotVersion}
	}
	out := &Snapshot{Version: s.Version}
	if s.Elements != nil {
		out.Elements = make([]Element, len(s.Elements))
		for i := range s.Elements {
			out.Elements[i] = s.Elements[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	out := e
	out.Catalog = e.Catalog.Clone()
	out.InstallationDate = clonePtr(e.InstallationDate)
	out.LifespanYears = clonePtr(e.LifespanYears)
	out.ReplacementValue = clonePtr(e.ReplacementValue)
	if e.Reports != nil {
		out.Reports = make([]InspectionReport, len(e.Reports))
		for i := range e.Reports {
			out.Reports[i] = e.Reports[i].Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the catalog.
func (c Catalog) Clone() Catalog {
	return Catalog{
		Minor:       cloneSlice(c.Minor),
		Significant: cloneSlice(c.Significant),
		Serious:     cloneSlice(c.Serious),
	}
}

// Clone returns a deep copy of the report.
func (r InspectionReport) Clone() InspectionReport {
	out := r
	out.Date = clonePtr(r.Date)
	out.Warnings = cloneSlice(r.Warnings)
	if r.Defects != nil {
		out.Defects = make([]DefectInstance, len(r.Defects))
		for i := range r.Defects {
			out.Defects[i] = r.Defects[i].Clone()
		}
	}
	if r.Tasks != nil {
		out.Tasks = make([]Task, len(r.Tasks))
		for i := range r.Tasks {
			out.Tasks[i] = r.Tasks[i]
			out.Tasks[i].Media = cloneSlice(r.Tasks[i].Media)
		}
	}
	return out
}

// Clone returns a deep copy of the defect.
func (d DefectInstance) Clone() DefectInstance {
	out := d
	out.Intensity = clonePtr(d.Intensity)
	out.Extent = clonePtr(d.Extent)
	out.Weight = clonePtr(d.Weight)
	out.Media = cloneSlice(d.Media)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
