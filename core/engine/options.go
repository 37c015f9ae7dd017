package engine

import (
	"time"

	"github.com/ingyamilmolinar/timeline/internal/config"
)

// Options are the session's geometry and timing settings, in px unless
// noted.
type Options struct {
	TopGap           float64
	TrackGap         float64
	RulerHeight      float64
	MinResize        float64
	ResizeBand       float64
	PointRadius      float64
	EpsilonPixels    float64 // duplicate-point tolerance at the current zoom
	PixelsPerSecond  float64
	ThrottleInterval time.Duration
}

func DefaultOptions() Options { return OptionsFromConfig(config.Default()) }

func OptionsFromConfig(c config.Config) Options {
	return Options{
		TopGap:           c.TopGap,
		TrackGap:         c.TrackGap,
		RulerHeight:      c.RulerHeight,
		MinResize:        c.MinResize,
		ResizeBand:       c.ResizeBand,
		PointRadius:      c.PointRadius,
		EpsilonPixels:    c.EpsilonPixels,
		PixelsPerSecond:  c.PixelsPerSecond,
		ThrottleInterval: c.ThrottleInterval,
	}
}
