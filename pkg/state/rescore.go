package state

import (
	"github.com/toyinlola/mjop/pkg/interfaces"
	"github.com/toyinlola/mjop/pkg/scorer"
)

// RescoreReport returns rep with its condition and warnings recomputed from
// its current defects, or from the element's age inputs when the report is
// age-based. It is the only place a report's condition is ever written.
func RescoreReport(calc *scorer.Calculator, el interfaces.Element, rep interfaces.InspectionReport) interfaces.InspectionReport {
	score, warnings := calc.ScoreReport(el, rep)
	rep.Condition = score
	rep.Warnings = warnings
	return rep
}

// rescoreDirty rescores every report the transaction touched.
func (r *Reducer) rescoreDirty(t *txn) int {
	n := 0
	for ei := range t.snap.Elements {
		el := &t.snap.Elements[ei]
		for ri := range el.Reports {
			rep := el.Reports[ri]
			if !t.all && !t.dirty[rep.ID] {
				continue
			}
			rescored := RescoreReport(r.calc, *el, rep)
			el.Reports[ri] = rescored
			n++

			if len(rescored.Warnings) > 0 {
				r.logger.Debug("report scored with warnings",
					"element", el.ID,
					"report", rep.ID,
					"condition", int(rescored.Condition),
					"warnings", len(rescored.Warnings),
				)
			}
		}
	}
	return n
}
