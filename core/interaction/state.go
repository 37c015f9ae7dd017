package interaction

import (
	"fmt"

	"github.com/ingyamilmolinar/timeline/core/envelope"
)

type Mode int

const (
	Idle Mode = iota
	Hovering
	Dragging
	Resizing
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Hovering:
		return "hovering"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetPoint           // an envelope point
	TargetResize          // the grab band below a resizable element
	TargetSelection       // empty track area; dragging selects a time range
)

// Target identifies the hit region under the pointer.
type Target struct {
	Kind  TargetKind
	Owner string           // id of the owning track or element
	Point envelope.PointID // set for TargetPoint
}

// Pointer is a position in surface coordinates.
type Pointer struct{ X, Y float64 }

// Value is what an interaction edits. Its meaning depends on the target:
// (time, gain) for a point, (size, 0) for a resize and (anchor, cursor) times
// for a selection.
type Value struct{ X, Y float64 }

// Affordance tells the surface which cursor to show.
type Affordance int

const (
	AffordanceNone Affordance = iota
	AffordanceGrab
	AffordanceGrabbing
	AffordanceResize
	AffordanceSelect
)

// State is the interaction state of one surface. Handlers take the current
// State and return the next one; the zero value is Idle.
type State struct {
	Mode          Mode
	Target        Target
	OriginPointer Pointer
	OriginValue   Value
	Current       Value

	capture *Capture
}

// Active reports whether a drag or resize is in progress.
func (s State) Active() bool { return s.Mode == Dragging || s.Mode == Resizing }

// Captured reports whether the state holds a pointer capture.
func (s State) Captured() bool { return s.capture.Held() }

func (s State) Affordance() Affordance {
	switch s.Mode {
	case Resizing:
		return AffordanceResize
	case Dragging:
		if s.Target.Kind == TargetSelection {
			return AffordanceSelect
		}
		return AffordanceGrabbing
	case Hovering:
		switch s.Target.Kind {
		case TargetResize:
			return AffordanceResize
		case TargetPoint:
			return AffordanceGrab
		case TargetSelection:
			return AffordanceSelect
		}
	}
	return AffordanceNone
}

func (s State) String() string {
	if s.Mode == Idle {
		return "idle"
	}
	return fmt.Sprintf("%s kind=%d owner=%s point=%d value=(%g,%g)",
		s.Mode, s.Target.Kind, s.Target.Owner, s.Target.Point, s.Current.X, s.Current.Y)
}
