// Package interaction turns raw pointer notifications into proposed edits.
//
// The Controller is a state machine over an explicit State value:
//
//	Idle -> Hovering           pointer enters a hit region
//	Hovering -> Idle           pointer leaves every region
//	Hovering -> Dragging       press on a point or selection area
//	Hovering -> Resizing       press on a resize band
//	Dragging/Resizing -> same  every move, projected from the origin
//	Dragging/Resizing -> Idle  release (anywhere), cancel or teardown
//
// Moves never accumulate deltas on the live value: each one projects a copy
// of the origin value by the total pointer delta, so lost events cannot make
// the result drift. The controller never touches models itself; it returns
// Proposals that the owner may apply, transform or reject.
package interaction

import (
	"math"

	game_log "github.com/ingyamilmolinar/timeline/internal/log"
)

const DefaultMinSize = 44.0

// Geometry resolves pointer positions against whatever the surface shows.
type Geometry interface {
	// HitTest returns the region under p and its current value.
	HitTest(p Pointer) (Target, Value, bool)
	// Project returns origin moved by the pointer delta (dx, dy).
	Project(t Target, origin Value, dx, dy float64) Value
}

type ProposalKind int

const (
	ProposeNone ProposalKind = iota
	// ProposeBegin opens an interaction; Value is the origin value.
	ProposeBegin
	// ProposeUpdate carries an in-progress value.
	ProposeUpdate
	// ProposeCommit carries the final value of a released interaction.
	ProposeCommit
	// ProposeRevert asks to restore the origin value after a cancel.
	ProposeRevert
	// ProposeDiscard asks to drop the in-progress value on teardown.
	ProposeDiscard
)

func (k ProposalKind) String() string {
	switch k {
	case ProposeNone:
		return "none"
	case ProposeBegin:
		return "begin"
	case ProposeUpdate:
		return "update"
	case ProposeCommit:
		return "commit"
	case ProposeRevert:
		return "revert"
	case ProposeDiscard:
		return "discard"
	}
	return "unknown"
}

type Proposal struct {
	Kind   ProposalKind
	Target Target
	Value  Value
	Origin Value
}

type Controller struct {
	geometry Geometry
	surface  Surface
	minSize  float64
	logger   *game_log.Logger
}

type Option func(*Controller)

// WithMinSize sets the smallest size a resize may produce. There is no
// maximum.
func WithMinSize(px float64) Option {
	return func(c *Controller) {
		if px >= 0 && !math.IsInf(px, 0) {
			c.minSize = px
		}
	}
}

func WithLogger(l *game_log.Logger) Option {
	return func(c *Controller) { c.logger = game_log.OrDiscard(l) }
}

func NewController(geometry Geometry, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		geometry: geometry,
		surface:  surface,
		minSize:  DefaultMinSize,
		logger:   game_log.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) MinSize() float64 { return c.minSize }

func (c *Controller) project(s State, p Pointer) Value {
	v := c.geometry.Project(s.Target, s.OriginValue, p.X-s.OriginPointer.X, p.Y-s.OriginPointer.Y)
	if s.Mode == Resizing && !(v.X >= c.minSize) {
		v.X = c.minSize
	}
	return v
}

func (c *Controller) hover(p Pointer) State {
	target, value, ok := c.geometry.HitTest(p)
	if !ok || target.Kind == TargetNone {
		return State{}
	}
	return State{Mode: Hovering, Target: target, Current: value}
}

// Move handles a pointer move. While a drag or resize is active it proposes
// the projected value; otherwise it only updates hover.
func (c *Controller) Move(s State, p Pointer) (State, Proposal) {
	if !s.Active() {
		return c.hover(p), Proposal{}
	}
	v := c.project(s, p)
	if v == s.Current {
		return s, Proposal{}
	}
	s.Current = v
	return s, Proposal{Kind: ProposeUpdate, Target: s.Target, Value: v, Origin: s.OriginValue}
}

// Press starts a drag or resize on the region under p and acquires the
// pointer capture. Presses while already active, or outside every region,
// start nothing.
func (c *Controller) Press(s State, p Pointer) (State, Proposal) {
	if s.Active() {
		return s, Proposal{}
	}
	h := c.hover(p)
	if h.Mode != Hovering {
		return h, Proposal{}
	}
	h.Mode = Dragging
	if h.Target.Kind == TargetResize {
		h.Mode = Resizing
	}
	h.OriginPointer = p
	h.OriginValue = h.Current
	h.capture = acquire(c.surface)
	c.logger.Debugf("[INTERACTION] Begin %s", h)
	return h, Proposal{Kind: ProposeBegin, Target: h.Target, Value: h.OriginValue, Origin: h.OriginValue}
}

// Release ends an active interaction wherever the pointer is, proposing the
// value at p as final, and returns to Idle.
func (c *Controller) Release(s State, p Pointer) (State, Proposal) {
	if !s.Active() {
		return s, Proposal{}
	}
	v := c.project(s, p)
	s.capture.Release()
	c.logger.Debugf("[INTERACTION] Commit kind=%d owner=%s value=(%g,%g)", s.Target.Kind, s.Target.Owner, v.X, v.Y)
	return State{}, Proposal{Kind: ProposeCommit, Target: s.Target, Value: v, Origin: s.OriginValue}
}

// Cancel aborts an active interaction and proposes restoring the origin
// value. A hover is simply cleared.
func (c *Controller) Cancel(s State) (State, Proposal) {
	if !s.Active() {
		return State{}, Proposal{}
	}
	s.capture.Release()
	c.logger.Debugf("[INTERACTION] Revert kind=%d owner=%s", s.Target.Kind, s.Target.Owner)
	return State{}, Proposal{Kind: ProposeRevert, Target: s.Target, Value: s.OriginValue, Origin: s.OriginValue}
}

// Teardown is Cancel for a surface going away: the in-progress value is
// discarded and the capture released.
func (c *Controller) Teardown(s State) (State, Proposal) {
	if !s.Active() {
		return State{}, Proposal{}
	}
	s.capture.Release()
	return State{}, Proposal{Kind: ProposeDiscard, Target: s.Target, Value: s.OriginValue, Origin: s.OriginValue}
}
