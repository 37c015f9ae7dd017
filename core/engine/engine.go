// Package engine is the editor session behind one timeline surface. It owns
// the viewport, track layout, per-track envelopes and the interaction state,
// turns pointer notifications into model edits and pushes live selection and
// curve changes to consumers through throttled dispatchers.
//
// A Session is single-threaded: call every method from the UI loop, and call
// Tick once per frame so deferred deliveries run.
package engine

import (
	"math"

	"github.com/ingyamilmolinar/timeline/core/envelope"
	"github.com/ingyamilmolinar/timeline/core/interaction"
	"github.com/ingyamilmolinar/timeline/core/layout"
	"github.com/ingyamilmolinar/timeline/core/throttle"
	"github.com/ingyamilmolinar/timeline/core/viewport"
	"github.com/ingyamilmolinar/timeline/core/waveform"
	game_log "github.com/ingyamilmolinar/timeline/internal/log"
)

// RulerID is the resize owner of the time ruler above the tracks.
const RulerID = "ruler"

const historyLimit = 256

type Track struct {
	ID         string
	Name       string
	Samples    waveform.Buffer
	SampleRate int
	Envelope   *envelope.Envelope

	columns []waveform.Column
	gains   []float64
}

// Duration is the clip length in seconds.
func (t *Track) Duration() float64 {
	if t.SampleRate <= 0 {
		return 0
	}
	return float64(len(t.Samples)) / float64(t.SampleRate)
}

// Selection is a time range on one track, Start <= End.
type Selection struct {
	Track string
	Start float64
	End   float64
}

func (s Selection) Empty() bool { return s.End <= s.Start }

// CurveUpdate reports a changed envelope point to curve consumers.
type CurveUpdate struct {
	Track string
	Point envelope.Point
}

type Session struct {
	opts   Options
	logger *game_log.Logger

	View   *viewport.Viewport
	Layout *layout.Layout
	tracks map[string]*Track

	rulerHeight float64

	ctrl  *interaction.Controller
	state interaction.State
	clock *throttle.LoopClock

	selection    Selection
	hasSelection bool
	selectionOut *throttle.Dispatcher[Selection]
	curveOut     *throttle.Dispatcher[CurveUpdate]

	// OnSelection and OnCurve receive throttled updates; the final value of
	// every interaction is always delivered.
	OnSelection func(Selection)
	OnCurve     func(CurveUpdate)

	history *history

	// snapshot taken when the current interaction began
	prevSelection    Selection
	prevHasSelection bool
}

// New creates a session. surface is the pointer source used for capture
// during drags (nil is allowed in headless use); clock drives throttled
// deliveries and defaults to a wall-clock LoopClock.
func New(opts Options, surface interaction.Surface, clock *throttle.LoopClock, logger *game_log.Logger) *Session {
	logger = game_log.OrDiscard(logger)
	if clock == nil {
		clock = throttle.NewLoopClock(nil)
	}
	s := &Session{
		opts:        opts,
		logger:      logger,
		View:        viewport.New(opts.PixelsPerSecond),
		Layout:      layout.New(opts.TopGap, opts.TrackGap, logger),
		tracks:      map[string]*Track{},
		rulerHeight: math.Max(opts.RulerHeight, opts.MinResize),
		clock:       clock,
		history:     newHistory(historyLimit),
	}
	s.ctrl = interaction.NewController(geometry{s}, surface,
		interaction.WithMinSize(opts.MinResize),
		interaction.WithLogger(logger),
	)
	s.selectionOut = throttle.New(opts.ThrottleInterval, clock, func(sel Selection) {
		if s.OnSelection != nil {
			s.OnSelection(sel)
		}
	})
	s.curveOut = throttle.New(opts.ThrottleInterval, clock, func(u CurveUpdate) {
		if s.OnCurve != nil {
			s.OnCurve(u)
		}
	})
	return s
}

// Tick runs deferred deliveries that are due. Call it once per frame.
func (s *Session) Tick() { s.clock.RunDue() }

func (s *Session) Options() Options { return s.opts }

func (s *Session) State() interaction.State { return s.state }

func (s *Session) RulerHeight() float64 { return s.rulerHeight }

// TracksTop is the surface y where the track layout starts: below the ruler
// and its resize band.
func (s *Session) TracksTop() float64 { return s.rulerHeight + s.opts.ResizeBand }

func (s *Session) Selection() (Selection, bool) { return s.selection, s.hasSelection }

func (s *Session) epsilon() float64 { return s.View.Epsilon() * s.opts.EpsilonPixels }

/* ─── tracks ─────────────────────────────────────────────────── */

// AddTrack appends a clip track and returns its id.
func (s *Session) AddTrack(name string, samples waveform.Buffer, sampleRate int, height float64) (string, error) {
	id, err := s.Layout.Add(height)
	if err != nil {
		return "", err
	}
	s.tracks[id] = &Track{
		ID:         id,
		Name:       name,
		Samples:    samples,
		SampleRate: sampleRate,
		Envelope:   envelope.New(envelope.WithEpsilon(s.epsilon()), envelope.WithLogger(s.logger)),
	}
	s.logger.Infof("[SESSION] Added track %q (%s) samples=%d rate=%d", name, id, len(samples), sampleRate)
	return id, nil
}

// RemoveTrack drops a track. An interaction still pointing at it keeps
// running but its proposals no longer match anything.
func (s *Session) RemoveTrack(id string) bool {
	if !s.Layout.Remove(id) {
		return false
	}
	delete(s.tracks, id)
	if s.hasSelection && s.selection.Track == id {
		s.hasSelection = false
		s.selection = Selection{}
	}
	s.logger.Infof("[SESSION] Removed track %s", id)
	return true
}

func (s *Session) Track(id string) (*Track, bool) {
	t, ok := s.tracks[id]
	return t, ok
}

// Tracks returns the tracks in display order.
func (s *Session) Tracks() []*Track {
	out := make([]*Track, 0, s.Layout.Len())
	for _, e := range s.Layout.Entries() {
		if t, ok := s.tracks[e.ID]; ok {
			out = append(out, t)
		}
	}
	return out
}

// TrackExtent returns the surface-space vertical span of a track.
func (s *Session) TrackExtent(id string) (layout.Extent, bool) {
	ext, ok := s.Layout.Extent(s.Layout.Index(id))
	if !ok {
		return layout.Extent{}, false
	}
	top := s.TracksTop()
	return layout.Extent{Top: ext.Top + top, Bottom: ext.Bottom + top}, true
}

// GainY maps a gain on a track to a surface y: the maximum gain sits at the
// top edge and the minimum at the bottom edge.
func (s *Session) GainY(id string, gain float64) (float64, bool) {
	t, ok := s.tracks[id]
	if !ok {
		return 0, false
	}
	ext, ok := s.TrackExtent(id)
	if !ok {
		return 0, false
	}
	lo, hi := t.Envelope.GainRange()
	f := (gain - lo) / (hi - lo)
	return ext.Bottom - f*(ext.Bottom-ext.Top), true
}

func (s *Session) gainAtY(id string, y float64) float64 {
	t := s.tracks[id]
	ext, _ := s.TrackExtent(id)
	lo, hi := t.Envelope.GainRange()
	f := (ext.Bottom - y) / (ext.Bottom - ext.Top)
	return lo + f*(hi-lo)
}

// trackAtY returns the track containing surface y, if any.
func (s *Session) trackAtY(y float64) (*Track, bool) {
	i, ok := s.Layout.TrackIndexAtY(y - s.TracksTop())
	if !ok {
		return nil, false
	}
	e, _ := s.Layout.Entry(i)
	t, ok := s.tracks[e.ID]
	return t, ok
}

/* ─── view ───────────────────────────────────────────────────── */

// Zoom scales the time axis around screen x. Envelope duplicate tolerance
// follows the new zoom.
func (s *Session) Zoom(anchorX, steps float64) {
	s.View.ZoomAt(anchorX, steps)
	s.View.Snap()
	eps := s.epsilon()
	for _, t := range s.tracks {
		t.Envelope.SetEpsilon(eps)
	}
}

// Scroll pans the time axis by dx pixels.
func (s *Session) Scroll(dx float64) {
	s.View.Scroll(dx)
	s.View.Snap()
}

// Columns downsamples the part of a track's clip visible in a surface of
// the given width. left is the surface x of the first column. The returned
// slice is reused by the next call for the same track.
func (s *Session) Columns(id string, width int) (left int, cols []waveform.Column) {
	t, ok := s.tracks[id]
	if !ok || t.SampleRate <= 0 || len(t.Samples) == 0 || width < 1 {
		return 0, nil
	}
	x0 := math.Max(0, math.Floor(s.View.XAt(0)))
	x1 := math.Min(float64(width), math.Ceil(s.View.XAt(t.Duration())))
	if x1 <= x0 {
		return 0, nil
	}
	start, end := s.View.SampleRange(t.SampleRate, x0, x1-x0)
	t.columns = waveform.DownsampleInto(t.columns, waveform.Window(t.Samples, start, end), int(x1-x0))
	return int(x0), t.columns
}

// Gains evaluates a track's envelope at each pixel of [left, left+width).
// The returned slice is reused by the next call for the same track.
func (s *Session) Gains(id string, left, width int) []float64 {
	t, ok := s.tracks[id]
	if !ok || width < 1 {
		return nil
	}
	if cap(t.gains) < width {
		t.gains = make([]float64, width)
	}
	t.gains = t.gains[:width]
	t.Envelope.Sample(s.View.TimeAt(float64(left)), s.View.Seconds(1), t.gains)
	return t.gains
}

/* ─── pointer input ──────────────────────────────────────────── */

func (s *Session) PointerMove(x, y float64) {
	var p interaction.Proposal
	s.state, p = s.ctrl.Move(s.state, interaction.Pointer{X: x, Y: y})
	s.apply(p)
}

func (s *Session) PointerDown(x, y float64) {
	var p interaction.Proposal
	s.state, p = s.ctrl.Press(s.state, interaction.Pointer{X: x, Y: y})
	s.apply(p)
}

func (s *Session) PointerUp(x, y float64) {
	var p interaction.Proposal
	s.state, p = s.ctrl.Release(s.state, interaction.Pointer{X: x, Y: y})
	s.apply(p)
}

// PointerLeave clears hover when the pointer exits the surface. Captured
// interactions ignore it.
func (s *Session) PointerLeave() {
	if !s.state.Active() {
		s.state = interaction.State{}
	}
}

// Cancel aborts the current interaction and restores its origin value.
func (s *Session) Cancel() {
	var p interaction.Proposal
	s.state, p = s.ctrl.Cancel(s.state)
	s.apply(p)
}

// Close tears the surface down: any interaction in progress is discarded,
// the models return to their origin values and nothing is delivered, not
// even the restored value.
func (s *Session) Close() {
	var p interaction.Proposal
	s.state, p = s.ctrl.Teardown(s.state)
	s.apply(p)
	s.selectionOut.Cancel()
	s.curveOut.Cancel()
}

/* ─── envelope editing outside drags ─────────────────────────── */

// InsertPointAt adds (or replaces, within the zoom tolerance) an envelope
// point under the surface position.
func (s *Session) InsertPointAt(x, y float64) (envelope.PointID, bool) {
	if s.state.Active() {
		return envelope.InvalidPointID, false
	}
	t, ok := s.trackAtY(y)
	if !ok {
		return envelope.InvalidPointID, false
	}
	env := t.Envelope
	tm := math.Max(0, s.View.TimeAt(x))
	prev, replacing := env.Nearest(tm, env.Epsilon())
	id, err := env.Insert(tm, s.gainAtY(t.ID, y), envelope.Replace)
	if err != nil {
		s.logger.Warnf("[SESSION] Insert on %s failed: %v", t.ID, err)
		return envelope.InvalidPointID, false
	}
	pt, _ := env.Point(id)
	s.curveOut.Propose(CurveUpdate{Track: t.ID, Point: pt})
	s.curveOut.Flush()

	if replacing {
		s.history.push(edit{
			label: "change point",
			undo:  func() { env.Move(prev.ID, prev.Time, prev.Gain) },
			redo:  func() { env.Move(pt.ID, pt.Time, pt.Gain) },
		})
	} else {
		s.history.push(edit{
			label: "add point",
			undo:  func() { env.Remove(pt.ID) },
			redo:  func() { s.restorePoint(env, pt) },
		})
	}
	return id, true
}

// DeleteHovered removes the envelope point under the pointer, if any.
func (s *Session) DeleteHovered() bool {
	if s.state.Mode != interaction.Hovering || s.state.Target.Kind != interaction.TargetPoint {
		return false
	}
	t, ok := s.tracks[s.state.Target.Owner]
	if !ok {
		return false
	}
	env := t.Envelope
	pt, ok := env.Point(s.state.Target.Point)
	if !ok || !env.Remove(pt.ID) {
		return false
	}
	s.state = interaction.State{}
	s.history.push(edit{
		label: "delete point",
		undo:  func() { s.restorePoint(env, pt) },
		redo:  func() { env.Remove(pt.ID) },
	})
	return true
}

// restorePoint re-inserts a point under its original id so later history
// entries that name it keep matching.
func (s *Session) restorePoint(env *envelope.Envelope, pt envelope.Point) {
	if err := env.Restore(pt); err != nil {
		s.logger.Warnf("[SESSION] Restore of point %d failed: %v", pt.ID, err)
	}
}

// ResetEnvelope clears a track's envelope back to unity. A drag on one of
// its points keeps running as a no-op.
func (s *Session) ResetEnvelope(id string) bool {
	t, ok := s.tracks[id]
	if !ok {
		return false
	}
	t.Envelope.Clear()
	return true
}

func (s *Session) Undo() bool {
	if s.state.Active() {
		return false
	}
	label, ok := s.history.undo()
	if ok {
		s.logger.Debugf("[SESSION] Undo %s", label)
	}
	return ok
}

func (s *Session) Redo() bool {
	if s.state.Active() {
		return false
	}
	label, ok := s.history.redo()
	if ok {
		s.logger.Debugf("[SESSION] Redo %s", label)
	}
	return ok
}
