package viewport

import (
	"math"
	"testing"
)

func TestViewportSnap(t *testing.T) {
	v := &Viewport{PixelsPerSecond: 1, OffsetX: 12.7}
	v.Snap()
	if v.OffsetX != 13 {
		t.Fatalf("rounded offset=%f want 13", v.OffsetX)
	}
	v.OffsetX = -2e9
	v.Snap()
	if v.OffsetX != -1e9 {
		t.Fatalf("clamped offset=%f", v.OffsetX)
	}
}

func TestZoomAnchorsCursor(t *testing.T) {
	v := &Viewport{PixelsPerSecond: 100, OffsetX: 10}
	cursorX := 250.0
	tm := v.TimeAt(cursorX)
	v.ZoomAt(cursorX, 1)
	if x := v.XAt(tm); math.Abs(x-cursorX) > 1e-9 {
		t.Fatalf("cursor moved after zoom: got %f want %f", x, cursorX)
	}
	if want := 100 * 1.05; math.Abs(v.PixelsPerSecond-want) > 1e-9 {
		t.Fatalf("scale=%f want %f", v.PixelsPerSecond, want)
	}
}

func TestZoomClamps(t *testing.T) {
	v := New(2)
	v.ZoomAt(0, -1000)
	if v.PixelsPerSecond != MinPixelsPerSecond {
		t.Fatalf("scale=%f want min", v.PixelsPerSecond)
	}
	v.ZoomAt(0, 1e6)
	if v.PixelsPerSecond != MaxPixelsPerSecond {
		t.Fatalf("scale=%f want max", v.PixelsPerSecond)
	}
}

func TestTimeMapping(t *testing.T) {
	v := &Viewport{PixelsPerSecond: 200, OffsetX: -100}
	if got := v.TimeAt(100); got != 1 {
		t.Fatalf("TimeAt(100)=%f want 1", got)
	}
	if got := v.Epsilon(); got != 0.005 {
		t.Fatalf("Epsilon()=%f want 0.005", got)
	}
	start, end := v.SampleRange(1000, 100, 200)
	if start != 1000 || end != 2000 {
		t.Fatalf("SampleRange=(%d,%d) want (1000,2000)", start, end)
	}
	v.Scroll(50)
	if v.OffsetX != -50 {
		t.Fatalf("OffsetX=%f want -50", v.OffsetX)
	}
}
