package ui

import "github.com/hajimehoshi/ebiten/v2"

var (
	cursorPosition       = ebiten.CursorPosition
	isMouseButtonPressed = ebiten.IsMouseButtonPressed
	isKeyPressed         = ebiten.IsKeyPressed
	wheel                = ebiten.Wheel
	setCursorShape       = ebiten.SetCursorShape
)

// SetInputForTest replaces input functions during tests and returns a function
// to restore the originals.
func SetInputForTest(
	cursor func() (int, int),
	mouse func(ebiten.MouseButton) bool,
	key func(ebiten.Key) bool,
	wh func() (float64, float64),
	shape func(ebiten.CursorShapeType),
) func() {
	oldCursor := cursorPosition
	oldMouse := isMouseButtonPressed
	oldKey := isKeyPressed
	oldWheel := wheel
	oldShape := setCursorShape
	cursorPosition = cursor
	isMouseButtonPressed = mouse
	isKeyPressed = key
	wheel = wh
	setCursorShape = shape
	return func() {
		cursorPosition = oldCursor
		isMouseButtonPressed = oldMouse
		isKeyPressed = oldKey
		wheel = oldWheel
		setCursorShape = oldShape
	}
}

// keyEdges turns polled key state into press edges.
type keyEdges struct {
	down map[ebiten.Key]bool
}

// pressed reports whether k went down since the previous call for k.
func (e *keyEdges) pressed(k ebiten.Key) bool {
	if e.down == nil {
		e.down = map[ebiten.Key]bool{}
	}
	now := isKeyPressed(k)
	was := e.down[k]
	e.down[k] = now
	return now && !was
}

func ctrlHeld() bool {
	return isKeyPressed(ebiten.KeyControlLeft) || isKeyPressed(ebiten.KeyControlRight) ||
		isKeyPressed(ebiten.KeyMetaLeft) || isKeyPressed(ebiten.KeyMetaRight)
}

func shiftHeld() bool {
	return isKeyPressed(ebiten.KeyShiftLeft) || isKeyPressed(ebiten.KeyShiftRight)
}
