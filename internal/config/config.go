package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/ossrs/go-oryx-lib/errors"
)

// Config holds runtime settings for the timeline, loaded from the
// environment (optionally seeded from a .env file).
type Config struct {
	LogLevel string

	// Window
	WindowW int
	WindowH int

	// Layout, in px
	TopGap      float64
	TrackGap    float64
	RulerHeight float64
	TrackHeight float64

	// Interaction
	MinResize        float64 // smallest size a resize drag may produce
	ResizeBand       float64 // height of the grab strip below resizable content
	PointRadius      float64 // hit radius of an envelope point
	EpsilonPixels    float64 // duplicate-point tolerance, in px at current zoom
	ThrottleInterval time.Duration

	// View
	PixelsPerSecond float64

	// Optional WAV clip shown in the demo
	ClipPath string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogLevel:         "INFO",
		WindowW:          1280,
		WindowH:          720,
		TopGap:           2,
		TrackGap:         2,
		RulerHeight:      44,
		TrackHeight:      120,
		MinResize:        44,
		ResizeBand:       2,
		PointRadius:      6,
		EpsilonPixels:    0.5,
		ThrottleInterval: 16 * time.Millisecond,
		PixelsPerSecond:  100,
	}
}

// Load reads an optional env file and then the environment. A missing env
// file is not an error; a malformed one is.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, "load %v", envFile)
		}
	}

	d := Default()
	c := Config{
		LogLevel:         envStr("TIMELINE_LOG_LEVEL", d.LogLevel),
		WindowW:          envInt("TIMELINE_WINDOW_W", d.WindowW),
		WindowH:          envInt("TIMELINE_WINDOW_H", d.WindowH),
		TopGap:           envFloat("TIMELINE_TOP_GAP", d.TopGap),
		TrackGap:         envFloat("TIMELINE_TRACK_GAP", d.TrackGap),
		RulerHeight:      envFloat("TIMELINE_RULER_HEIGHT", d.RulerHeight),
		TrackHeight:      envFloat("TIMELINE_TRACK_HEIGHT", d.TrackHeight),
		MinResize:        envFloat("TIMELINE_MIN_RESIZE", d.MinResize),
		ResizeBand:       envFloat("TIMELINE_RESIZE_BAND", d.ResizeBand),
		PointRadius:      envFloat("TIMELINE_POINT_RADIUS", d.PointRadius),
		EpsilonPixels:    envFloat("TIMELINE_EPSILON_PX", d.EpsilonPixels),
		ThrottleInterval: time.Duration(envInt("TIMELINE_THROTTLE_MS", int(d.ThrottleInterval/time.Millisecond))) * time.Millisecond,
		PixelsPerSecond:  envFloat("TIMELINE_PIXELS_PER_SECOND", d.PixelsPerSecond),
		ClipPath:         envStr("TIMELINE_CLIP", ""),
	}
	if err := c.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "validate")
	}
	return c, nil
}

// Validate rejects settings the engine cannot work with.
func (c Config) Validate() error {
	switch {
	case c.WindowW <= 0 || c.WindowH <= 0:
		return errors.Errorf("window size %vx%v must be positive", c.WindowW, c.WindowH)
	case c.TopGap < 0 || c.TrackGap < 0:
		return errors.Errorf("gaps top=%v track=%v must not be negative", c.TopGap, c.TrackGap)
	case c.RulerHeight <= 0 || c.TrackHeight <= 0:
		return errors.Errorf("heights ruler=%v track=%v must be positive", c.RulerHeight, c.TrackHeight)
	case c.MinResize <= 0:
		return errors.Errorf("min resize %v must be positive", c.MinResize)
	case c.ResizeBand <= 0:
		return errors.Errorf("resize band %v must be positive", c.ResizeBand)
	case c.PointRadius <= 0:
		return errors.Errorf("point radius %v must be positive", c.PointRadius)
	case c.EpsilonPixels < 0:
		return errors.Errorf("epsilon %v must not be negative", c.EpsilonPixels)
	case c.ThrottleInterval < 0:
		return errors.Errorf("throttle interval %v must not be negative", c.ThrottleInterval)
	case c.PixelsPerSecond <= 0:
		return errors.Errorf("pixels per second %v must be positive", c.PixelsPerSecond)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
