package interaction

// Surface is the pointer source of an interactive element. CapturePointer
// must keep delivering move and release notifications for the whole
// interaction, wherever the pointer goes, until the returned function is
// called.
type Surface interface {
	CapturePointer() (release func())
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func() (release func())

func (f SurfaceFunc) CapturePointer() func() { return f() }

// Capture is a held pointer subscription. It is acquired when a drag or
// resize starts and released exactly once when it ends.
type Capture struct {
	release func()
	held    bool
}

func acquire(s Surface) *Capture {
	c := &Capture{held: true}
	if s != nil {
		c.release = s.CapturePointer()
	}
	return c
}

// Held reports whether the capture has not been released yet.
func (c *Capture) Held() bool { return c != nil && c.held }

// Release gives the subscription back. Later calls do nothing.
func (c *Capture) Release() {
	if c == nil || !c.held {
		return
	}
	c.held = false
	if c.release != nil {
		c.release()
	}
}
