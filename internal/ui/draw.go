package ui

import (
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/ingyamilmolinar/timeline/core/engine"
	"github.com/ingyamilmolinar/timeline/core/interaction"
)

// rulerSteps are the candidate tick spacings, in seconds.
var rulerSteps = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 300, 600}

const minTickSpacing = 80 // px between labelled ticks

func (t *Timeline) Draw(screen *ebiten.Image) {
	drawRect(screen, image.Rect(0, 0, t.winW, t.winH), colBackground, true)
	t.drawTracks(screen)
	t.drawRuler(screen)
	t.drawStatus(screen)
}

// tickStep picks the smallest tick spacing that keeps labels apart.
func tickStep(pixelsPerSecond float64) float64 {
	for _, s := range rulerSteps {
		if s*pixelsPerSecond >= minTickSpacing {
			return s
		}
	}
	return rulerSteps[len(rulerSteps)-1]
}

func (t *Timeline) drawRuler(dst *ebiten.Image) {
	s := t.session
	h := int(s.RulerHeight())
	drawRect(dst, image.Rect(0, 0, t.winW, h), colRuler, true)

	step := tickStep(s.View.PixelsPerSecond)
	first := math.Max(0, math.Floor(s.View.TimeAt(0)/step))
	for i := first; ; i++ {
		tm := i * step
		x := s.View.XAt(tm)
		if x >= float64(t.winW) {
			break
		}
		drawLine(dst, x, float64(h)-10, x, float64(h), colRulerTick)
		ebitenutil.DebugPrintAt(dst, formatTime(tm, step), int(x)+3, h-24)
	}

	band := colBand
	if t.bandHot(engine.RulerID) {
		band = colBandHot
	}
	drawRect(dst, image.Rect(0, h, t.winW, int(s.TracksTop())), band, true)
}

func formatTime(tm, step float64) string {
	switch {
	case step < 0.01:
		return fmt.Sprintf("%.3fs", tm)
	case step < 1:
		return fmt.Sprintf("%.2fs", tm)
	case tm >= 60:
		return fmt.Sprintf("%d:%02d", int(tm)/60, int(tm)%60)
	}
	return fmt.Sprintf("%gs", tm)
}

// bandHot reports whether the resize band of owner is hovered or dragged.
func (t *Timeline) bandHot(owner string) bool {
	st := t.session.State()
	return st.Mode != interaction.Idle && st.Target.Kind == interaction.TargetResize && st.Target.Owner == owner
}

func (t *Timeline) drawTracks(dst *ebiten.Image) {
	s := t.session
	sel, hasSel := s.Selection()
	for _, tr := range s.Tracks() {
		ext, ok := s.TrackExtent(tr.ID)
		if !ok {
			continue
		}
		top, bottom := int(ext.Top), int(ext.Bottom)
		if top >= t.winH {
			break
		}
		drawRect(dst, image.Rect(0, top, t.winW, bottom), colTrack, true)

		t.drawWaveform(dst, tr, ext.Top, ext.Bottom)
		if hasSel && sel.Track == tr.ID && !sel.Empty() {
			x0, x1 := int(s.View.XAt(sel.Start)), int(s.View.XAt(sel.End))
			drawRect(dst, image.Rect(x0, top, x1+1, bottom), colSelection, true)
		}
		t.drawEnvelope(dst, tr)

		drawRect(dst, image.Rect(0, top, t.winW, bottom), colTrackEdge, false)
		ebitenutil.DebugPrintAt(dst, tr.Name, 6, top+4)

		band := colBand
		if t.bandHot(tr.ID) {
			band = colBandHot
		}
		drawRect(dst, image.Rect(0, bottom, t.winW, bottom+int(s.Options().ResizeBand)), band, true)
	}
}

func (t *Timeline) drawWaveform(dst *ebiten.Image, tr *engine.Track, top, bottom float64) {
	left, cols := t.session.Columns(tr.ID, t.winW)
	mid := (top + bottom) / 2
	half := (bottom - top) / 2
	for i, c := range cols {
		x := left + i
		y0 := int(mid - float64(c.Max)*half)
		y1 := int(mid - float64(c.Min)*half)
		drawRect(dst, image.Rect(x, y0, x+1, y1+1), colWave, true)
	}
}

func (t *Timeline) drawEnvelope(dst *ebiten.Image, tr *engine.Track) {
	s := t.session
	gains := s.Gains(tr.ID, 0, t.winW)
	prevY := 0.0
	for x, g := range gains {
		y, _ := s.GainY(tr.ID, g)
		if x > 0 {
			drawLine(dst, float64(x-1), prevY, float64(x), y, colEnvelope)
		}
		prevY = y
	}

	st := s.State()
	r := s.Options().PointRadius
	for _, pt := range tr.Envelope.Points() {
		x := s.View.XAt(pt.Time)
		if x < -r || x > float64(t.winW)+r {
			continue
		}
		y, _ := s.GainY(tr.ID, pt.Gain)
		c := colPoint
		if st.Target.Kind == interaction.TargetPoint && st.Target.Owner == tr.ID && st.Target.Point == pt.ID {
			c = colPointHot
		}
		drawCircle(dst, x, y, r-2, c)
	}
}

func (t *Timeline) drawStatus(dst *ebiten.Image) {
	s := t.session
	msg := fmt.Sprintf("%s  zoom=%.0fpx/s", s.State().Mode, s.View.PixelsPerSecond)
	if sel, ok := s.Selection(); ok && !sel.Empty() {
		msg += fmt.Sprintf("  sel=[%.3f, %.3f]", sel.Start, sel.End)
	}
	ebitenutil.DebugPrintAt(dst, msg, 6, t.winH-16)
}
