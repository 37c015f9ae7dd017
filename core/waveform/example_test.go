package waveform_test

import (
	"fmt"

	"github.com/ingyamilmolinar/timeline/core/waveform"
)

func ExampleDownsample() {
	samples := waveform.Buffer{0.1, -0.4, 0.9, 0.2, -1, 0.3}
	for _, c := range waveform.Downsample(samples, 3) {
		fmt.Printf("[%.1f %.1f]\n", c.Min, c.Max)
	}
	// Output:
	// [-0.4 0.1]
	// [0.2 0.9]
	// [-1.0 0.3]
}
