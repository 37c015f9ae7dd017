package engine

import (
	"math"

	"github.com/ingyamilmolinar/timeline/core/interaction"
)

// apply is the consumer side of the interaction controller: it decides what
// each proposal does to the models.
func (s *Session) apply(p interaction.Proposal) {
	switch p.Kind {
	case interaction.ProposeNone:
		return
	case interaction.ProposeBegin:
		if p.Target.Kind == interaction.TargetSelection {
			s.prevSelection, s.prevHasSelection = s.selection, s.hasSelection
			s.setSelection(p.Target.Owner, p.Value)
		}
	case interaction.ProposeUpdate:
		s.applyValue(p.Target, p.Value)
	case interaction.ProposeCommit:
		applied, ok := s.applyValue(p.Target, p.Value)
		s.selectionOut.Flush()
		s.curveOut.Flush()
		if ok {
			s.record(p.Target, p.Origin, applied)
		}
	case interaction.ProposeRevert:
		s.restore(p.Target, p.Origin)
		s.selectionOut.Flush()
		s.curveOut.Flush()
	case interaction.ProposeDiscard:
		s.selectionOut.Cancel()
		s.curveOut.Cancel()
		s.discard(p.Target, p.Origin)
	}
}

// applyValue performs an in-progress or final edit and returns the value the
// model actually took, which may differ after clamping. It reports false when
// the target no longer exists.
func (s *Session) applyValue(target interaction.Target, v interaction.Value) (interaction.Value, bool) {
	switch target.Kind {
	case interaction.TargetPoint:
		t, ok := s.tracks[target.Owner]
		if !ok || !t.Envelope.Move(target.Point, v.X, v.Y) {
			return v, false
		}
		pt, _ := t.Envelope.Point(target.Point)
		s.curveOut.Propose(CurveUpdate{Track: t.ID, Point: pt})
		return interaction.Value{X: pt.Time, Y: pt.Gain}, true
	case interaction.TargetResize:
		return v, s.setSize(target.Owner, v.X)
	case interaction.TargetSelection:
		return v, s.setSelection(target.Owner, v)
	}
	return v, false
}

// restore puts the origin value back after a cancelled interaction.
func (s *Session) restore(target interaction.Target, origin interaction.Value) {
	if target.Kind == interaction.TargetSelection {
		s.selection, s.hasSelection = s.prevSelection, s.prevHasSelection
		// an empty selection tells the consumer the range was cleared
		s.selectionOut.Propose(s.selection)
		return
	}
	s.applyValue(target, origin)
}

// discard puts the origin value back without telling any consumer.
func (s *Session) discard(target interaction.Target, origin interaction.Value) {
	switch target.Kind {
	case interaction.TargetSelection:
		s.selection, s.hasSelection = s.prevSelection, s.prevHasSelection
	case interaction.TargetPoint:
		if t, ok := s.tracks[target.Owner]; ok {
			t.Envelope.Move(target.Point, origin.X, origin.Y)
		}
	case interaction.TargetResize:
		s.setSize(target.Owner, origin.X)
	}
}

func (s *Session) setSize(owner string, size float64) bool {
	if owner == RulerID {
		s.rulerHeight = size
		return true
	}
	if err := s.Layout.SetHeight(owner, size); err != nil {
		s.logger.Debugf("[SESSION] Resize of %s ignored: %v", owner, err)
		return false
	}
	return true
}

func (s *Session) setSelection(track string, v interaction.Value) bool {
	if _, ok := s.tracks[track]; !ok {
		return false
	}
	sel := Selection{Track: track, Start: math.Min(v.X, v.Y), End: math.Max(v.X, v.Y)}
	s.selection, s.hasSelection = sel, true
	s.selectionOut.Propose(sel)
	return true
}

// record pushes an undo step for a committed document edit. Selections are
// view state and are not recorded.
func (s *Session) record(target interaction.Target, before, after interaction.Value) {
	if before == after {
		return
	}
	switch target.Kind {
	case interaction.TargetPoint:
		t, ok := s.tracks[target.Owner]
		if !ok {
			return
		}
		env, id := t.Envelope, target.Point
		s.history.push(edit{
			label: "move point",
			undo:  func() { env.Move(id, before.X, before.Y) },
			redo:  func() { env.Move(id, after.X, after.Y) },
		})
	case interaction.TargetResize:
		owner := target.Owner
		s.history.push(edit{
			label: "resize " + owner,
			undo:  func() { s.setSize(owner, before.X) },
			redo:  func() { s.setSize(owner, after.X) },
		})
	}
}
