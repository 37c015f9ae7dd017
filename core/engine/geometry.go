package engine

import (
	"math"

	"github.com/ingyamilmolinar/timeline/core/interaction"
)

// geometry resolves pointer positions against the session's ruler, tracks
// and envelopes.
type geometry struct{ s *Session }

func (g geometry) HitTest(p interaction.Pointer) (interaction.Target, interaction.Value, bool) {
	s := g.s
	band := s.opts.ResizeBand

	if p.Y >= s.rulerHeight && p.Y < s.rulerHeight+band {
		return interaction.Target{Kind: interaction.TargetResize, Owner: RulerID},
			interaction.Value{X: s.rulerHeight}, true
	}

	local := p.Y - s.TracksTop()
	if i, ok := s.Layout.TrackIndexAtY(local); ok {
		e, _ := s.Layout.Entry(i)
		t, ok := s.tracks[e.ID]
		if !ok {
			return interaction.Target{}, interaction.Value{}, false
		}
		if target, value, ok := g.hitPoint(t, p); ok {
			return target, value, true
		}
		tm := math.Max(0, s.View.TimeAt(p.X))
		return interaction.Target{Kind: interaction.TargetSelection, Owner: t.ID},
			interaction.Value{X: tm, Y: tm}, true
	}

	if i, ok := s.Layout.GapAfterY(local, band); ok {
		e, _ := s.Layout.Entry(i)
		return interaction.Target{Kind: interaction.TargetResize, Owner: e.ID},
			interaction.Value{X: e.Height}, true
	}
	return interaction.Target{}, interaction.Value{}, false
}

// hitPoint returns the envelope point of t closest to p within the point
// radius.
func (g geometry) hitPoint(t *Track, p interaction.Pointer) (interaction.Target, interaction.Value, bool) {
	s := g.s
	r := s.opts.PointRadius
	best, bestD := -1, math.Inf(1)
	pts := t.Envelope.Points()
	for i, pt := range pts {
		x := s.View.XAt(pt.Time)
		if math.Abs(x-p.X) > r {
			continue
		}
		y, _ := s.GainY(t.ID, pt.Gain)
		if d := math.Hypot(x-p.X, y-p.Y); d <= r && d < bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return interaction.Target{}, interaction.Value{}, false
	}
	pt := pts[best]
	return interaction.Target{Kind: interaction.TargetPoint, Owner: t.ID, Point: pt.ID},
		interaction.Value{X: pt.Time, Y: pt.Gain}, true
}

func (g geometry) Project(target interaction.Target, origin interaction.Value, dx, dy float64) interaction.Value {
	s := g.s
	switch target.Kind {
	case interaction.TargetPoint:
		t, ok := s.tracks[target.Owner]
		ext, extOK := s.TrackExtent(target.Owner)
		if !ok || !extOK {
			return origin
		}
		lo, hi := t.Envelope.GainRange()
		return interaction.Value{
			X: origin.X + s.View.Seconds(dx),
			Y: origin.Y - dy*(hi-lo)/(ext.Bottom-ext.Top),
		}
	case interaction.TargetResize:
		return interaction.Value{X: origin.X + dy}
	case interaction.TargetSelection:
		return interaction.Value{X: origin.X, Y: math.Max(0, origin.Y+s.View.Seconds(dx))}
	}
	return origin
}
