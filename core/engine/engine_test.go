package engine

import (
	"testing"
	"time"

	"github.com/ingyamilmolinar/timeline/core/interaction"
	"github.com/ingyamilmolinar/timeline/core/throttle"
	"github.com/ingyamilmolinar/timeline/core/waveform"
)

// With the default options the ruler band covers y in [44,46), tracks start
// at y=46 and the first 120px track spans [48,168). A point at (t=1, gain=1)
// is drawn at (100,108).

type fakeTime struct{ now time.Time }

func (f *fakeTime) Now() time.Time          { return f.now }
func (f *fakeTime) advance(d time.Duration) { f.now = f.now.Add(d) }

type countingSurface struct{ acquired, released int }

func (c *countingSurface) CapturePointer() func() {
	c.acquired++
	return func() { c.released++ }
}

type harness struct {
	s       *Session
	ft      *fakeTime
	clock   *throttle.LoopClock
	surface *countingSurface
	curves  []CurveUpdate
	sels    []Selection
}

func newHarness(t *testing.T, tracks int) (*harness, []string) {
	t.Helper()
	h := &harness{ft: &fakeTime{now: time.Unix(1_700_000_000, 0)}, surface: &countingSurface{}}
	h.clock = throttle.NewLoopClock(h.ft.Now)
	h.s = New(DefaultOptions(), h.surface, h.clock, nil)
	h.s.OnCurve = func(u CurveUpdate) { h.curves = append(h.curves, u) }
	h.s.OnSelection = func(sel Selection) { h.sels = append(h.sels, sel) }
	var ids []string
	for i := 0; i < tracks; i++ {
		id, err := h.s.AddTrack("clip", make(waveform.Buffer, 200), 100, 120)
		if err != nil {
			t.Fatalf("AddTrack: %v", err)
		}
		ids = append(ids, id)
	}
	return h, ids
}

func (h *harness) insertPoint(t *testing.T, track string) {
	t.Helper()
	if _, ok := h.s.InsertPointAt(100, 108); !ok {
		t.Fatalf("InsertPointAt failed")
	}
	tr, _ := h.s.Track(track)
	if tr.Envelope.Len() != 1 {
		t.Fatalf("expected one point, got %d", tr.Envelope.Len())
	}
}

func TestDragPointOutsideSurfaceCommitsOnce(t *testing.T) {
	h, ids := newHarness(t, 1)
	h.insertPoint(t, ids[0])
	before := len(h.curves)

	h.s.PointerMove(100, 108)
	if h.s.State().Affordance() != interaction.AffordanceGrab {
		t.Fatalf("affordance over point = %v", h.s.State().Affordance())
	}
	h.s.PointerDown(100, 108)
	if h.s.State().Mode != interaction.Dragging || h.surface.acquired != 1 {
		t.Fatalf("press should drag with capture: %v acquired=%d", h.s.State(), h.surface.acquired)
	}

	h.s.PointerMove(900, -500)
	h.s.PointerUp(1000, -600)

	tr, _ := h.s.Track(ids[0])
	pt := tr.Envelope.Points()[0]
	if pt.Time != 10 || pt.Gain != 2 {
		t.Fatalf("point after drag = %+v, want t=10 gain=2", pt)
	}
	if got := len(h.curves) - before; got != 1 {
		t.Fatalf("curve deliveries during drag = %d, want 1", got)
	}
	if last := h.curves[len(h.curves)-1]; last.Point != pt || last.Track != ids[0] {
		t.Fatalf("last curve update = %+v, want %+v", last, pt)
	}
	if h.surface.released != 1 || h.s.State().Mode != interaction.Idle {
		t.Fatalf("release: state=%v released=%d", h.s.State(), h.surface.released)
	}

	h.ft.advance(time.Second)
	h.s.Tick()
	if got := len(h.curves) - before; got != 1 {
		t.Fatalf("late delivery after commit: %d", got)
	}
}

func TestCancelRevertsPoint(t *testing.T) {
	h, ids := newHarness(t, 1)
	h.insertPoint(t, ids[0])

	h.s.PointerDown(100, 108)
	h.s.PointerMove(300, 108)
	tr, _ := h.s.Track(ids[0])
	if got := tr.Envelope.Points()[0].Time; got != 3 {
		t.Fatalf("time during drag = %v, want 3", got)
	}
	h.s.Cancel()

	pt := tr.Envelope.Points()[0]
	if pt.Time != 1 || pt.Gain != 1 {
		t.Fatalf("point after cancel = %+v, want origin", pt)
	}
	if last := h.curves[len(h.curves)-1]; last.Point != pt {
		t.Fatalf("consumer last saw %+v, want restored %+v", last.Point, pt)
	}
	if h.surface.released != 1 {
		t.Fatalf("capture released %d times", h.surface.released)
	}

	// a release arriving after the cancel does nothing
	h.s.PointerUp(500, 108)
	if got := tr.Envelope.Points()[0].Time; got != 1 {
		t.Fatalf("stray release moved the point to %v", got)
	}
}

func TestCloseDiscardsPendingWork(t *testing.T) {
	h, ids := newHarness(t, 1)
	h.insertPoint(t, ids[0])
	before := len(h.curves)

	h.s.PointerDown(100, 108)
	h.s.PointerMove(400, 108)
	h.s.Close()

	tr, _ := h.s.Track(ids[0])
	if got := tr.Envelope.Points()[0].Time; got != 1 {
		t.Fatalf("teardown left point at t=%v", got)
	}
	if len(h.curves) != before {
		t.Fatalf("teardown delivered %d curve updates", len(h.curves)-before)
	}
	if h.clock.Scheduled() != 0 {
		t.Fatalf("teardown left %d scheduled deliveries", h.clock.Scheduled())
	}
	if h.surface.released != 1 {
		t.Fatalf("capture released %d times", h.surface.released)
	}
}

func TestRulerResize(t *testing.T) {
	h, _ := newHarness(t, 1)

	h.s.PointerMove(10, 45)
	if h.s.State().Affordance() != interaction.AffordanceResize {
		t.Fatalf("ruler band affordance = %v", h.s.State().Affordance())
	}
	h.s.PointerDown(10, 45)
	h.s.PointerMove(10, 145)
	if h.s.RulerHeight() != 144 || h.s.TracksTop() != 146 {
		t.Fatalf("ruler=%v tracksTop=%v", h.s.RulerHeight(), h.s.TracksTop())
	}
	h.s.PointerMove(10, -300)
	if h.s.RulerHeight() != 44 {
		t.Fatalf("ruler shrunk to %v, want minimum 44", h.s.RulerHeight())
	}
	h.s.PointerUp(10, 95)
	if h.s.RulerHeight() != 94 {
		t.Fatalf("committed ruler = %v", h.s.RulerHeight())
	}

	if !h.s.Undo() || h.s.RulerHeight() != 44 {
		t.Fatalf("undo: ruler = %v", h.s.RulerHeight())
	}
	if !h.s.Redo() || h.s.RulerHeight() != 94 {
		t.Fatalf("redo: ruler = %v", h.s.RulerHeight())
	}
}

func TestTrackResizeThroughGapBand(t *testing.T) {
	h, ids := newHarness(t, 2)

	h.s.PointerDown(10, 168.5)
	if st := h.s.State(); st.Mode != interaction.Resizing || st.Target.Owner != ids[0] {
		t.Fatalf("press in gap band: %v", st)
	}
	h.s.PointerMove(10, 228.5)
	ext, _ := h.s.TrackExtent(ids[1])
	if ext.Top != 230 {
		t.Fatalf("second track top = %v, want 230", ext.Top)
	}
	h.s.PointerMove(10, 0)
	if e, _ := h.s.Layout.Entry(0); e.Height != 44 {
		t.Fatalf("height below minimum: %v", e.Height)
	}
	h.s.PointerUp(10, 228.5)
	if e, _ := h.s.Layout.Entry(0); e.Height != 180 {
		t.Fatalf("committed height = %v", e.Height)
	}

	h.s.Undo()
	if ext, _ = h.s.TrackExtent(ids[1]); ext.Top != 170 {
		t.Fatalf("after undo second track top = %v, want 170", ext.Top)
	}
}

func TestSelectionIsThrottledAndFlushedOnRelease(t *testing.T) {
	h, ids := newHarness(t, 1)

	h.ft.advance(20 * time.Millisecond)
	h.s.PointerDown(100, 60)
	if len(h.sels) != 1 || h.sels[0] != (Selection{Track: ids[0], Start: 1, End: 1}) {
		t.Fatalf("begin deliveries = %+v", h.sels)
	}

	for _, x := range []float64{150, 200, 250} {
		h.ft.advance(4 * time.Millisecond)
		h.s.PointerMove(x, 60)
		h.s.Tick()
	}
	if len(h.sels) != 1 {
		t.Fatalf("moves inside the interval delivered %d times", len(h.sels)-1)
	}

	h.ft.advance(time.Millisecond)
	h.s.PointerUp(300, 60)
	if len(h.sels) != 2 {
		t.Fatalf("release should flush once, got %d deliveries", len(h.sels))
	}
	want := Selection{Track: ids[0], Start: 1, End: 3}
	if h.sels[1] != want {
		t.Fatalf("final selection = %+v, want %+v", h.sels[1], want)
	}
	if sel, ok := h.s.Selection(); !ok || sel != want {
		t.Fatalf("session selection = %+v %v", sel, ok)
	}

	h.ft.advance(100 * time.Millisecond)
	h.s.Tick()
	if len(h.sels) != 2 {
		t.Fatalf("delivery after release: %+v", h.sels)
	}
}

func TestSelectionDeliversWhenIntervalElapsed(t *testing.T) {
	h, _ := newHarness(t, 1)
	h.ft.advance(20 * time.Millisecond)
	h.s.PointerDown(100, 60)
	h.ft.advance(16 * time.Millisecond)
	h.s.PointerMove(150, 60)
	if len(h.sels) != 2 || h.sels[1].End != 1.5 {
		t.Fatalf("move after a full interval should deliver: %+v", h.sels)
	}
	h.ft.advance(5 * time.Millisecond)
	h.s.PointerMove(200, 60)
	h.ft.advance(11 * time.Millisecond)
	h.s.Tick()
	if len(h.sels) != 3 || h.sels[2].End != 2 {
		t.Fatalf("scheduled delivery missing: %+v", h.sels)
	}
	h.s.PointerUp(200, 60)
}

func TestSelectionDraggedBackwardsIsOrdered(t *testing.T) {
	h, _ := newHarness(t, 1)
	h.s.PointerDown(300, 60)
	h.s.PointerUp(100, 60)
	sel, ok := h.s.Selection()
	if !ok || sel.Start != 1 || sel.End != 3 {
		t.Fatalf("selection = %+v", sel)
	}
}

func TestCancelledSelectionRestoresPrevious(t *testing.T) {
	h, _ := newHarness(t, 1)
	h.s.PointerDown(100, 60)
	h.s.PointerUp(200, 60)
	prev, _ := h.s.Selection()

	h.s.PointerDown(400, 60)
	h.s.PointerMove(600, 60)
	h.s.Cancel()
	if sel, _ := h.s.Selection(); sel != prev {
		t.Fatalf("selection after cancel = %+v, want %+v", sel, prev)
	}
	if last := h.sels[len(h.sels)-1]; last != prev {
		t.Fatalf("consumer last saw %+v, want %+v", last, prev)
	}
}

func TestInsertUndoRedo(t *testing.T) {
	h, ids := newHarness(t, 1)
	tr, _ := h.s.Track(ids[0])
	h.insertPoint(t, ids[0])

	if !h.s.Undo() || tr.Envelope.Len() != 0 {
		t.Fatalf("undo insert: len=%d", tr.Envelope.Len())
	}
	if !h.s.Redo() || tr.Envelope.Len() != 1 {
		t.Fatalf("redo insert: len=%d", tr.Envelope.Len())
	}

	// same time, higher position: replaces the gain
	if _, ok := h.s.InsertPointAt(100, 78); !ok {
		t.Fatalf("replace insert failed")
	}
	if tr.Envelope.Len() != 1 || tr.Envelope.Points()[0].Gain != 1.5 {
		t.Fatalf("replace: %+v", tr.Envelope.Points())
	}
	h.s.Undo()
	if g := tr.Envelope.Points()[0].Gain; g != 1 {
		t.Fatalf("undo replace: gain=%v", g)
	}
}

func TestInsertOutsideTracksIsRejected(t *testing.T) {
	h, _ := newHarness(t, 1)
	if _, ok := h.s.InsertPointAt(100, 20); ok {
		t.Fatalf("insert over the ruler should fail")
	}
	if _, ok := h.s.InsertPointAt(100, 400); ok {
		t.Fatalf("insert below the tracks should fail")
	}
}

func TestDeleteHoveredPoint(t *testing.T) {
	h, ids := newHarness(t, 1)
	tr, _ := h.s.Track(ids[0])
	h.insertPoint(t, ids[0])

	if h.s.DeleteHovered() {
		t.Fatalf("delete without hover should fail")
	}
	h.s.PointerMove(101, 107)
	if !h.s.DeleteHovered() || tr.Envelope.Len() != 0 {
		t.Fatalf("delete hovered: len=%d", tr.Envelope.Len())
	}
	if h.s.State().Mode != interaction.Idle {
		t.Fatalf("state after delete = %v", h.s.State())
	}
	h.s.Undo()
	if pts := tr.Envelope.Points(); len(pts) != 1 || pts[0].Time != 1 || pts[0].Gain != 1 {
		t.Fatalf("undo delete: %+v", pts)
	}
}

func TestDragOfClearedPointIsNoop(t *testing.T) {
	h, ids := newHarness(t, 1)
	tr, _ := h.s.Track(ids[0])
	h.insertPoint(t, ids[0])

	h.s.PointerDown(100, 108)
	h.s.ResetEnvelope(ids[0])
	before := len(h.curves)
	h.s.PointerMove(300, 108)
	h.s.PointerUp(350, 108)

	if tr.Envelope.Len() != 0 {
		t.Fatalf("stale drag recreated points: %+v", tr.Envelope.Points())
	}
	if len(h.curves) != before {
		t.Fatalf("stale drag delivered %d curve updates", len(h.curves)-before)
	}
	if h.s.State().Mode != interaction.Idle {
		t.Fatalf("state = %v", h.s.State())
	}
}

func TestUndoRefusedWhileDragging(t *testing.T) {
	h, ids := newHarness(t, 1)
	h.insertPoint(t, ids[0])
	h.s.PointerDown(100, 108)
	if h.s.Undo() {
		t.Fatalf("undo during a drag should be refused")
	}
	if _, ok := h.s.InsertPointAt(50, 108); ok {
		t.Fatalf("insert during a drag should be refused")
	}
	h.s.PointerUp(200, 108)
	if !h.s.Undo() {
		t.Fatalf("undo after release failed")
	}
	tr, _ := h.s.Track(ids[0])
	if got := tr.Envelope.Points()[0].Time; got != 1 {
		t.Fatalf("undo move: t=%v", got)
	}
}

func TestRemoveTrackClearsSelection(t *testing.T) {
	h, ids := newHarness(t, 2)
	h.s.PointerDown(100, 60)
	h.s.PointerUp(200, 60)
	if !h.s.RemoveTrack(ids[0]) {
		t.Fatalf("RemoveTrack failed")
	}
	if _, ok := h.s.Selection(); ok {
		t.Fatalf("selection on a removed track survived")
	}
	if n := len(h.s.Tracks()); n != 1 {
		t.Fatalf("tracks = %d", n)
	}
}

func TestColumnsFollowViewport(t *testing.T) {
	h, ids := newHarness(t, 1)

	left, cols := h.s.Columns(ids[0], 150)
	if left != 0 || len(cols) != 150 {
		t.Fatalf("columns: left=%d len=%d", left, len(cols))
	}
	h.s.Scroll(50)
	left, cols = h.s.Columns(ids[0], 150)
	if left != 50 || len(cols) != 100 {
		t.Fatalf("scrolled columns: left=%d len=%d", left, len(cols))
	}

	gains := h.s.Gains(ids[0], left, len(cols))
	if len(gains) != 100 {
		t.Fatalf("gains len = %d", len(gains))
	}
	for i, g := range gains {
		if g != 1 {
			t.Fatalf("gain[%d] = %v, want unity", i, g)
		}
	}

	if _, cols = h.s.Columns("missing", 150); cols != nil {
		t.Fatalf("columns for unknown track: %v", cols)
	}
}

func TestZoomTracksEpsilon(t *testing.T) {
	h, ids := newHarness(t, 1)
	tr, _ := h.s.Track(ids[0])
	h.s.Zoom(0, 20)
	want := h.s.View.Epsilon() * h.s.Options().EpsilonPixels
	if tr.Envelope.Epsilon() != want {
		t.Fatalf("epsilon = %v, want %v", tr.Envelope.Epsilon(), want)
	}
}

func TestRedoInsertKeepsLaterMovesWorking(t *testing.T) {
	h, ids := newHarness(t, 1)
	tr, _ := h.s.Track(ids[0])
	h.insertPoint(t, ids[0])
	id := tr.Envelope.Points()[0].ID

	h.s.PointerDown(100, 108)
	h.s.PointerUp(200, 108)

	h.s.Undo() // move
	h.s.Undo() // insert
	if tr.Envelope.Len() != 0 {
		t.Fatalf("undo insert left %+v", tr.Envelope.Points())
	}
	h.s.Redo() // insert
	h.s.Redo() // move
	pts := tr.Envelope.Points()
	if len(pts) != 1 || pts[0].ID != id || pts[0].Time != 2 {
		t.Fatalf("after redo = %+v, want point %d at t=2", pts, id)
	}
}

func TestUndoDeleteKeepsEarlierMovesWorking(t *testing.T) {
	h, ids := newHarness(t, 1)
	tr, _ := h.s.Track(ids[0])
	h.insertPoint(t, ids[0])

	h.s.PointerDown(100, 108)
	h.s.PointerUp(200, 108)
	h.s.PointerMove(200, 108)
	if !h.s.DeleteHovered() {
		t.Fatalf("delete of moved point failed")
	}

	h.s.Undo() // delete
	if pts := tr.Envelope.Points(); len(pts) != 1 || pts[0].Time != 2 {
		t.Fatalf("undo delete = %+v", pts)
	}
	h.s.Undo() // move
	if pts := tr.Envelope.Points(); pts[0].Time != 1 {
		t.Fatalf("undo move after undo delete: t=%v, want 1", pts[0].Time)
	}
}

func TestCloseDuringSelectionDeliversNothing(t *testing.T) {
	h, _ := newHarness(t, 1)
	h.ft.advance(20 * time.Millisecond)
	h.s.PointerDown(100, 60)
	h.ft.advance(20 * time.Millisecond)
	h.s.PointerMove(200, 60)
	before := len(h.sels)

	h.ft.advance(20 * time.Millisecond)
	h.s.Close()
	if len(h.sels) != before {
		t.Fatalf("close delivered %+v", h.sels[before:])
	}
	if _, ok := h.s.Selection(); ok {
		t.Fatalf("discarded selection survived close")
	}
}
