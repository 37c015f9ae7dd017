// Package ui renders a timeline session with ebiten and feeds it mouse and
// keyboard input.
package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ingyamilmolinar/timeline/core/engine"
	"github.com/ingyamilmolinar/timeline/core/interaction"
	"github.com/ingyamilmolinar/timeline/core/throttle"
	game_log "github.com/ingyamilmolinar/timeline/internal/log"
	"github.com/ingyamilmolinar/timeline/internal/utils"
)

const (
	doubleClickFrames = 20 // at 60 TPS
	doubleClickSlop   = 4  // px
	scrollStep        = 40 // px per arrow key press
)

// pointerCapture is the window's interaction.Surface. While held, every
// move and the release are routed to the session even when the cursor is
// outside the window.
type pointerCapture struct {
	held int
}

func (c *pointerCapture) CapturePointer() func() {
	c.held++
	return func() { c.held-- }
}

func (c *pointerCapture) active() bool { return c.held > 0 }

// Timeline is the ebiten.Game for one timeline surface.
type Timeline struct {
	session *engine.Session
	capture *pointerCapture
	logger  *game_log.Logger

	winW, winH int
	frame      int

	prevX, prevY int
	prevPressed  bool
	prevInside   bool
	started      bool

	lastPressFrame int
	lastPressX     int
	lastPressY     int

	keys  keyEdges
	shape ebiten.CursorShapeType
}

func New(opts engine.Options, logger *game_log.Logger) *Timeline {
	logger = game_log.OrDiscard(logger)
	capture := &pointerCapture{}
	t := &Timeline{
		capture:        capture,
		logger:         logger,
		lastPressFrame: -doubleClickFrames - 1,
		shape:          ebiten.CursorShapeDefault,
	}
	t.session = engine.New(opts, capture, throttle.NewLoopClock(nil), logger)
	return t
}

func (t *Timeline) Session() *engine.Session { return t.session }

// Close discards any interaction in progress. Call it once the window is
// gone.
func (t *Timeline) Close() { t.session.Close() }

func (t *Timeline) Layout(w, h int) (int, int) {
	if w != t.winW || h != t.winH {
		t.logger.Debugf("[UI] Layout: %dx%d", w, h)
	}
	t.winW, t.winH = w, h
	return w, h
}

func (t *Timeline) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < t.winW && y < t.winH
}

func (t *Timeline) Update() error {
	t.handlePointer()
	t.handleWheel()
	t.handleKeys()
	t.updateCursor()
	t.session.Tick()
	t.frame++
	return nil
}

func (t *Timeline) handlePointer() {
	x, y := cursorPosition()
	pressed := isMouseButtonPressed(ebiten.MouseButtonLeft)
	in := t.inside(x, y)
	fx, fy := float64(x), float64(y)

	moved := !t.started || x != t.prevX || y != t.prevY
	switch {
	case moved && (in || t.capture.active()):
		t.session.PointerMove(fx, fy)
	case !in && t.prevInside:
		t.session.PointerLeave()
	}

	if pressed && !t.prevPressed && in {
		if t.isDoubleClick(x, y) {
			if _, ok := t.session.InsertPointAt(fx, fy); ok {
				t.logger.Debugf("[UI] Inserted point at (%d,%d)", x, y)
			}
			t.lastPressFrame = -doubleClickFrames - 1
		} else {
			t.lastPressFrame, t.lastPressX, t.lastPressY = t.frame, x, y
			t.session.PointerDown(fx, fy)
		}
	}
	if !pressed && t.prevPressed {
		t.session.PointerUp(fx, fy)
	}

	t.prevX, t.prevY = x, y
	t.prevPressed = pressed
	t.prevInside = in
	t.started = true
}

func (t *Timeline) isDoubleClick(x, y int) bool {
	return t.frame-t.lastPressFrame <= doubleClickFrames &&
		utils.Abs(x-t.lastPressX) <= doubleClickSlop &&
		utils.Abs(y-t.lastPressY) <= doubleClickSlop
}

// handleWheel zooms around the cursor with the vertical wheel and scrolls
// with the horizontal one. The view stays put during a drag so the
// projection from the drag origin stays valid.
func (t *Timeline) handleWheel() {
	wx, wy := wheel()
	if (wx == 0 && wy == 0) || t.session.State().Active() {
		return
	}
	if wy != 0 {
		x, _ := cursorPosition()
		t.session.Zoom(float64(x), wy)
	}
	if wx != 0 {
		t.session.Scroll(wx * scrollStep)
	}
}

func (t *Timeline) handleKeys() {
	if t.keys.pressed(ebiten.KeyEscape) {
		t.session.Cancel()
	}
	del := t.keys.pressed(ebiten.KeyDelete)
	if t.keys.pressed(ebiten.KeyBackspace) || del {
		t.session.DeleteHovered()
	}
	if t.keys.pressed(ebiten.KeyArrowLeft) && !t.session.State().Active() {
		t.session.Scroll(scrollStep)
	}
	if t.keys.pressed(ebiten.KeyArrowRight) && !t.session.State().Active() {
		t.session.Scroll(-scrollStep)
	}
	z := t.keys.pressed(ebiten.KeyZ)
	y := t.keys.pressed(ebiten.KeyY)
	if ctrlHeld() {
		switch {
		case z && shiftHeld(), y:
			t.session.Redo()
		case z:
			t.session.Undo()
		}
	}
}

func cursorFor(a interaction.Affordance) ebiten.CursorShapeType {
	switch a {
	case interaction.AffordanceGrab:
		return ebiten.CursorShapePointer
	case interaction.AffordanceGrabbing:
		return ebiten.CursorShapeMove
	case interaction.AffordanceResize:
		return ebiten.CursorShapeNSResize
	case interaction.AffordanceSelect:
		return ebiten.CursorShapeText
	}
	return ebiten.CursorShapeDefault
}

func (t *Timeline) updateCursor() {
	shape := cursorFor(t.session.State().Affordance())
	if shape != t.shape {
		t.shape = shape
		setCursorShape(shape)
	}
}
