// Package envelope implements a piecewise-linear gain curve anchored to clip
// time.
//
// Points are kept strictly increasing by time after every operation. Point ids
// are never handed to a different point, so a stale id held by an
// interaction simply stops matching once its point is removed; Move and
// Remove on unknown ids are no-ops. Restore brings a removed point back
// under its own id.
package envelope

import (
	"math"
	"sort"

	game_log "github.com/ingyamilmolinar/timeline/internal/log"
	"github.com/ingyamilmolinar/timeline/internal/utils"
)

const (
	Unity          = 1.0
	DefaultMinGain = 0.0
	DefaultMaxGain = 2.0
)

type PointID uint64

// InvalidPointID never names a point.
const InvalidPointID PointID = 0

type Point struct {
	ID   PointID
	Time float64 // seconds from clip start
	Gain float64 // 1.0 is unity
}

// InsertMode selects what Insert does when a point already sits within
// epsilon of the requested time.
type InsertMode int

const (
	// Replace updates the gain of the existing point.
	Replace InsertMode = iota
	// RejectDuplicate fails with *DuplicatePointError.
	RejectDuplicate
)

type Envelope struct {
	points  []Point
	nextID  PointID
	epsilon float64
	minGain float64
	maxGain float64
	logger  *game_log.Logger
}

type Option func(*Envelope)

// WithEpsilon sets the time tolerance under which two points count as the
// same point. Sessions derive it from the current zoom.
func WithEpsilon(eps float64) Option {
	return func(e *Envelope) { e.SetEpsilon(eps) }
}

// WithGainRange sets the range gains are clamped into. The range must be
// finite and non-empty (min < max); anything else keeps the default.
func WithGainRange(min, max float64) Option {
	return func(e *Envelope) {
		if utils.Finite(min) && utils.Finite(max) && min < max {
			e.minGain, e.maxGain = min, max
		}
	}
}

func WithLogger(l *game_log.Logger) Option {
	return func(e *Envelope) { e.logger = game_log.OrDiscard(l) }
}

// New returns an empty envelope, i.e. unity gain everywhere.
func New(opts ...Option) *Envelope {
	e := &Envelope{
		nextID:  1,
		minGain: DefaultMinGain,
		maxGain: DefaultMaxGain,
		logger:  game_log.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Envelope) Epsilon() float64 { return e.epsilon }

// SetEpsilon changes the duplicate tolerance. Negative and non-finite values
// become 0, which still treats identical times as duplicates.
func (e *Envelope) SetEpsilon(eps float64) {
	if !utils.Finite(eps) || eps < 0 {
		eps = 0
	}
	e.epsilon = eps
}

func (e *Envelope) GainRange() (min, max float64) { return e.minGain, e.maxGain }

func (e *Envelope) Len() int { return len(e.points) }

// Points returns a copy of the points in time order.
func (e *Envelope) Points() []Point {
	out := make([]Point, len(e.points))
	copy(out, e.points)
	return out
}

func (e *Envelope) Point(id PointID) (Point, bool) {
	if i := e.index(id); i >= 0 {
		return e.points[i], true
	}
	return Point{}, false
}

func (e *Envelope) index(id PointID) int {
	for i, p := range e.points {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// search returns the index of the first point with Time >= t.
func (e *Envelope) search(t float64) int {
	return sort.Search(len(e.points), func(i int) bool { return e.points[i].Time >= t })
}

func (e *Envelope) sanitizeTime(t float64) float64 {
	switch {
	case math.IsNaN(t) || t < 0:
		return 0
	case math.IsInf(t, 1):
		return math.MaxFloat64
	}
	return t
}

func (e *Envelope) sanitizeGain(g float64) float64 {
	if math.IsNaN(g) {
		g = Unity
	}
	return utils.Clamp(g, e.minGain, e.maxGain)
}

// closest returns the index of the point nearest to t if it lies within
// radius, or -1.
func (e *Envelope) closest(t, radius float64) int {
	i := e.search(t)
	best, bestD := -1, math.Inf(1)
	for _, j := range [2]int{i - 1, i} {
		if j < 0 || j >= len(e.points) {
			continue
		}
		if d := math.Abs(e.points[j].Time - t); d <= radius && d < bestD {
			best, bestD = j, d
		}
	}
	return best
}

// Insert adds a point at time with the given gain. Out-of-range input is
// clamped. When a point already lies within epsilon of time, Replace mode
// updates that point's gain and returns its id; RejectDuplicate mode returns
// a *DuplicatePointError and leaves the envelope untouched.
func (e *Envelope) Insert(time, gain float64, mode InsertMode) (PointID, error) {
	time = e.sanitizeTime(time)
	gain = e.sanitizeGain(gain)

	if j := e.closest(time, e.epsilon); j >= 0 {
		if mode == RejectDuplicate {
			return InvalidPointID, &DuplicatePointError{Time: time, Existing: e.points[j]}
		}
		e.points[j].Gain = gain
		e.logger.Debugf("[ENVELOPE] Replaced point %d at t=%g gain=%g", e.points[j].ID, e.points[j].Time, gain)
		return e.points[j].ID, nil
	}

	p := Point{ID: e.nextID, Time: time, Gain: gain}
	e.nextID++
	i := e.search(time)
	e.points = append(e.points, Point{})
	copy(e.points[i+1:], e.points[i:])
	e.points[i] = p
	e.logger.Debugf("[ENVELOPE] Inserted point %d at t=%g gain=%g", p.ID, time, gain)
	return p.ID, nil
}

// Restore puts a previously removed point back under its original id, as an
// undo does. Time and gain are clamped like Insert. It fails with
// ErrPointExists when the id is live and with *DuplicatePointError when
// another point already sits at exactly that time.
func (e *Envelope) Restore(p Point) error {
	if p.ID == InvalidPointID {
		return ErrInvalidPoint
	}
	if e.index(p.ID) >= 0 {
		return ErrPointExists
	}
	p.Time = e.sanitizeTime(p.Time)
	p.Gain = e.sanitizeGain(p.Gain)

	i := e.search(p.Time)
	if i < len(e.points) && e.points[i].Time == p.Time {
		return &DuplicatePointError{Time: p.Time, Existing: e.points[i]}
	}
	e.points = append(e.points, Point{})
	copy(e.points[i+1:], e.points[i:])
	e.points[i] = p
	if p.ID >= e.nextID {
		e.nextID = p.ID + 1
	}
	e.logger.Debugf("[ENVELOPE] Restored point %d at t=%g gain=%g", p.ID, p.Time, p.Gain)
	return nil
}

// Move repositions a point. newTime is clamped to stay strictly between the
// point's neighbours; a neighbour is a hard boundary and is never moved or
// removed. It reports false, changing nothing, when id is unknown.
func (e *Envelope) Move(id PointID, newTime, newGain float64) bool {
	i := e.index(id)
	if i < 0 {
		e.logger.Debugf("[ENVELOPE] Move of unknown point %d ignored", id)
		return false
	}
	newTime = e.sanitizeTime(newTime)
	newGain = e.sanitizeGain(newGain)

	if i > 0 {
		if lo := math.Nextafter(e.points[i-1].Time, math.Inf(1)); newTime < lo {
			newTime = lo
		}
	}
	if i < len(e.points)-1 {
		if hi := math.Nextafter(e.points[i+1].Time, math.Inf(-1)); newTime > hi {
			newTime = hi
		}
	}

	e.points[i].Time = newTime
	e.points[i].Gain = newGain
	e.logger.Debugf("[ENVELOPE] Moved point %d to t=%g gain=%g", id, newTime, newGain)
	return true
}

// Remove deletes a point and reports whether it existed.
func (e *Envelope) Remove(id PointID) bool {
	i := e.index(id)
	if i < 0 {
		return false
	}
	e.points = append(e.points[:i], e.points[i+1:]...)
	e.logger.Debugf("[ENVELOPE] Removed point %d", id)
	return true
}

// Clear removes every point, returning the envelope to unity gain.
func (e *Envelope) Clear() {
	e.points = e.points[:0]
	e.logger.Debugf("[ENVELOPE] Cleared")
}

// Load replaces the contents with pts, assigning fresh ids. Points must be
// strictly increasing in time; times and gains are clamped like Insert.
func (e *Envelope) Load(pts []Point) ([]PointID, error) {
	loaded := make([]Point, len(pts))
	ids := make([]PointID, len(pts))
	next := e.nextID
	for i, p := range pts {
		t := e.sanitizeTime(p.Time)
		if i > 0 && t <= loaded[i-1].Time {
			return nil, ErrUnordered
		}
		loaded[i] = Point{ID: next, Time: t, Gain: e.sanitizeGain(p.Gain)}
		ids[i] = next
		next++
	}
	e.points = loaded
	e.nextID = next
	e.logger.Debugf("[ENVELOPE] Loaded %d points", len(loaded))
	return ids, nil
}

// GainAt evaluates the curve at time t. An empty envelope is unity; outside
// the point range the nearest edge point's gain extends flat.
func (e *Envelope) GainAt(t float64) float64 {
	n := len(e.points)
	if n == 0 {
		return Unity
	}
	if t <= e.points[0].Time {
		return e.points[0].Gain
	}
	if t >= e.points[n-1].Time {
		return e.points[n-1].Gain
	}
	i := e.search(t) // points[i-1].Time < t <= points[i].Time
	a, b := e.points[i-1], e.points[i]
	return utils.Lerp(a.Gain, b.Gain, (t-a.Time)/(b.Time-a.Time))
}

// Sample fills out with the gain at start, start+step, start+2*step, ... in
// a single pass over the points. step must be positive.
func (e *Envelope) Sample(start, step float64, out []float64) {
	if len(e.points) == 0 || step <= 0 {
		g := e.GainAt(start)
		for i := range out {
			out[i] = g
		}
		return
	}
	seg := e.search(start)
	for i := range out {
		t := start + float64(i)*step
		for seg < len(e.points) && e.points[seg].Time < t {
			seg++
		}
		switch {
		case seg == 0:
			out[i] = e.points[0].Gain
		case seg == len(e.points):
			out[i] = e.points[seg-1].Gain
		default:
			a, b := e.points[seg-1], e.points[seg]
			out[i] = utils.Lerp(a.Gain, b.Gain, (t-a.Time)/(b.Time-a.Time))
		}
	}
}

// Nearest returns the point closest in time to t if it is within radius.
func (e *Envelope) Nearest(t, radius float64) (Point, bool) {
	if i := e.closest(t, radius); i >= 0 {
		return e.points[i], true
	}
	return Point{}, false
}
