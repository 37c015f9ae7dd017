package waveform

import (
	"errors"

	"github.com/go-audio/audio"
)

var (
	ErrNilBuffer         = errors.New("waveform: nil audio buffer")
	ErrChannelOutOfRange = errors.New("waveform: channel out of range")
)

// FromAudio extracts one channel of an interleaved go-audio buffer as a
// normalized Buffer. Integer PCM is scaled by its source bit depth; values
// outside [-1, 1] are clamped.
func FromAudio(buf audio.Buffer, channel int) (Buffer, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}
	f := buf.AsFloat32Buffer()
	if f == nil {
		return nil, ErrNilBuffer
	}
	channels := 1
	if f.Format != nil && f.Format.NumChannels > 0 {
		channels = f.Format.NumChannels
	}
	if channel < 0 || channel >= channels {
		return nil, ErrChannelOutOfRange
	}

	frames := len(f.Data) / channels
	out := make(Buffer, frames)
	for i := range out {
		v := f.Data[i*channels+channel]
		switch {
		case v > 1:
			v = 1
		case v < -1:
			v = -1
		case v != v: // NaN
			v = 0
		}
		out[i] = v
	}
	return out, nil
}
