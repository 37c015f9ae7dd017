package main

import (
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ossrs/go-oryx-lib/errors"

	"github.com/ingyamilmolinar/timeline/core/engine"
	"github.com/ingyamilmolinar/timeline/internal/clip"
	"github.com/ingyamilmolinar/timeline/internal/config"
	game_log "github.com/ingyamilmolinar/timeline/internal/log"
	"github.com/ingyamilmolinar/timeline/internal/ui"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("timeline: %+v", err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return errors.Wrapf(err, "config")
	}
	logger := game_log.New(os.Stderr, game_log.LevelFromString(cfg.LogLevel))

	c := clip.Demo(44100, 6)
	if cfg.ClipPath != "" {
		if c, err = clip.LoadWAV(cfg.ClipPath); err != nil {
			return errors.Wrapf(err, "clip")
		}
	}

	tl := ui.New(engine.OptionsFromConfig(cfg), logger)
	defer tl.Close()

	s := tl.Session()
	s.OnSelection = func(sel engine.Selection) {
		logger.Infof("[MAIN] Selection %s [%.3f, %.3f]", sel.Track, sel.Start, sel.End)
	}
	s.OnCurve = func(u engine.CurveUpdate) {
		logger.Debugf("[MAIN] Curve %s point=%d t=%.3f gain=%.3f", u.Track, u.Point.ID, u.Point.Time, u.Point.Gain)
	}
	for i := 0; i < 2; i++ {
		if _, err := s.AddTrack(c.Name, c.Samples, c.SampleRate, cfg.TrackHeight); err != nil {
			return errors.Wrapf(err, "add track %v", c.Name)
		}
	}

	ebiten.SetWindowSize(cfg.WindowW, cfg.WindowH)
	ebiten.SetWindowTitle("Timeline")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Infof("[MAIN] Starting: %d samples at %d Hz", len(c.Samples), c.SampleRate)
	if err := ebiten.RunGame(tl); err != nil {
		return errors.Wrapf(err, "run")
	}
	return nil
}
