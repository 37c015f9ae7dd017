package viewport

import "math"

const (
	MinPixelsPerSecond = 1.0
	MaxPixelsPerSecond = 48000.0

	zoomFactor      = 1.05
	zoomSensitivity = 1.0
	offsetLimit     = 1e9 // keep offsets in a sane range for numeric stability
)

// Viewport maps clip time to horizontal screen pixels:
// x = t*PixelsPerSecond + OffsetX.
type Viewport struct {
	PixelsPerSecond float64
	OffsetX         float64 // screen x of t=0; negative when scrolled right
}

func New(pixelsPerSecond float64) *Viewport {
	return &Viewport{PixelsPerSecond: clampScale(pixelsPerSecond)}
}

func clampScale(s float64) float64 {
	if math.IsNaN(s) || s < MinPixelsPerSecond {
		return MinPixelsPerSecond
	}
	if s > MaxPixelsPerSecond {
		return MaxPixelsPerSecond
	}
	return s
}

func (v *Viewport) XAt(t float64) float64 { return t*v.PixelsPerSecond + v.OffsetX }

func (v *Viewport) TimeAt(x float64) float64 { return (x - v.OffsetX) / v.PixelsPerSecond }

// Seconds converts a horizontal pixel distance to a duration in seconds.
func (v *Viewport) Seconds(dx float64) float64 { return dx / v.PixelsPerSecond }

// Epsilon is the duration of one pixel at the current zoom.
func (v *Viewport) Epsilon() float64 { return 1 / v.PixelsPerSecond }

// ZoomAt scales around screen x anchorX so the time under the cursor stays
// put. steps > 0 zooms in.
func (v *Viewport) ZoomAt(anchorX, steps float64) {
	t := v.TimeAt(anchorX)
	v.PixelsPerSecond = clampScale(v.PixelsPerSecond * math.Pow(zoomFactor, steps*zoomSensitivity))
	v.OffsetX = anchorX - t*v.PixelsPerSecond
}

// Scroll pans by dx screen pixels.
func (v *Viewport) Scroll(dx float64) { v.OffsetX += dx }

// Snap rounds the offset to whole pixels so columns stay aligned between
// frames, and bounds it.
func (v *Viewport) Snap() {
	v.OffsetX = math.Round(v.OffsetX)
	if v.OffsetX > offsetLimit {
		v.OffsetX = offsetLimit
	} else if v.OffsetX < -offsetLimit {
		v.OffsetX = -offsetLimit
	}
}

// SampleRange returns the half-open sample range visible in a window of
// width pixels starting at screen x = left.
func (v *Viewport) SampleRange(sampleRate int, left, width float64) (start, end int) {
	t0 := v.TimeAt(left)
	t1 := v.TimeAt(left + width)
	start = int(math.Floor(t0 * float64(sampleRate)))
	end = int(math.Ceil(t1 * float64(sampleRate)))
	return start, end
}
