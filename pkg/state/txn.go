package state

import (
	"fmt"

	"github.com/toyinlola/mjop/pkg/interfaces"
)

// txn is the working copy of one transition plus the reports it touched.
type txn struct {
	snap  *interfaces.Snapshot
	dirty map[string]bool
	all   bool
}

func (t *txn) element(id string) (*interfaces.Element, error) {
	for i := range t.snap.Elements {
		if t.snap.Elements[i].ID == id {
			return &t.snap.Elements[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownElement, id)
}

// report finds a report by id across all elements. Report ids are unique
// within a snapshot.
func (t *txn) report(id string) (*interfaces.Element, *interfaces.InspectionReport, error) {
	for ei := range t.snap.Elements {
		el := &t.snap.Elements[ei]
		for ri := range el.Reports {
			if el.Reports[ri].ID == id {
				return el, &el.Reports[ri], nil
			}
		}
	}
	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownReport, id)
}

func (t *txn) removeElement(id string) error {
	for i := range t.snap.Elements {
		if t.snap.Elements[i].ID == id {
			t.snap.Elements = append(t.snap.Elements[:i], t.snap.Elements[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownElement, id)
}

func (t *txn) removeReport(id string) error {
	for ei := range t.snap.Elements {
		el := &t.snap.Elements[ei]
		for ri := range el.Reports {
			if el.Reports[ri].ID == id {
				el.Reports = append(el.Reports[:ri], el.Reports[ri+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownReport, id)
}

func (t *txn) mark(reportID string) {
	t.dirty[reportID] = true
}

func (t *txn) markElement(el *interfaces.Element) {
	for _, rep := range el.Reports {
		t.mark(rep.ID)
	}
}

func defectIndex(rep *interfaces.InspectionReport, id string) int {
	for i := range rep.Defects {
		if rep.Defects[i].ID == id {
			return i
		}
	}
	return -1
}

func taskIndex(rep *interfaces.InspectionReport, id string) int {
	for i := range rep.Tasks {
		if rep.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}
