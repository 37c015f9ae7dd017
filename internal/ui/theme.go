package ui

import "image/color"

var (
	colBackground = color.RGBA{18, 18, 24, 255}
	colRuler      = color.RGBA{32, 32, 44, 255}
	colRulerTick  = color.RGBA{120, 120, 140, 255}
	colBand       = color.RGBA{60, 60, 72, 255}
	colBandHot    = color.RGBA{255, 200, 40, 255}

	colTrack     = color.RGBA{28, 30, 40, 255}
	colTrackEdge = color.RGBA{70, 70, 90, 255}
	colWave      = color.RGBA{0, 200, 255, 255}
	colSelection = color.RGBA{255, 255, 255, 40}
	colEnvelope  = color.RGBA{255, 160, 40, 255}
	colPoint     = color.RGBA{240, 240, 240, 255}
	colPointHot  = color.RGBA{255, 255, 0, 255}
)
