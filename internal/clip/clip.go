// Package clip loads the audio shown on a timeline track.
package clip

import (
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/ossrs/go-oryx-lib/errors"

	"github.com/ingyamilmolinar/timeline/core/waveform"
)

// Clip is one channel of decoded audio.
type Clip struct {
	Name       string
	Samples    waveform.Buffer
	SampleRate int
}

// LoadWAV decodes the first channel of a WAV file.
func LoadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %v", path)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.Errorf("invalid wav file %v", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrapf(err, "decode %v", path)
	}
	samples, err := waveform.FromAudio(buf, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "channel 0 of %v", path)
	}
	return &Clip{Name: path, Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// SaveWAV writes samples as 16-bit mono PCM.
func SaveWAV(path string, samples waveform.Buffer, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %v", path)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s * 32767)
	}
	if err := enc.Write(buf); err != nil {
		return errors.Wrapf(err, "write %v", path)
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "close %v", path)
	}
	return nil
}

// Demo synthesizes a few seconds of decaying tone bursts so the editor has
// something to show without a file. It goes through the same go-audio path
// as a decoded file.
func Demo(sampleRate int, seconds float64) *Clip {
	n := int(float64(sampleRate) * seconds)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, n),
		SourceBitDepth: 16,
	}
	const burst = 0.5 // seconds between onsets
	for i := range buf.Data {
		t := float64(i) / float64(sampleRate)
		local := math.Mod(t, burst)
		amp := math.Exp(-local * 6)
		freq := 220 * math.Pow(2, math.Floor(t/burst)/12)
		buf.Data[i] = int(32767 * 0.9 * amp * math.Sin(2*math.Pi*freq*local))
	}
	samples, _ := waveform.FromAudio(buf, 0)
	return &Clip{Name: "demo", Samples: samples, SampleRate: sampleRate}
}
