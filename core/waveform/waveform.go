// Package waveform reduces sample buffers to one min/max column per pixel.
//
// Every column holds the true minimum and maximum of the samples that map to
// it, so short transients stay visible at any zoom level. The functions here
// are pure and keep no state between calls; callers re-run them on every
// resize or zoom change.
package waveform

// Buffer is one channel of normalized samples in [-1, 1]. The downsampler
// only reads it.
type Buffer []float32

// Column is the value range of all samples mapped to one pixel.
type Column struct {
	Min float32
	Max float32
}

// SourceRange returns the half-open sample range [start, end) that pixel p of
// width columns covers in a buffer of n samples. The range is empty when n is
// smaller than width and no sample starts inside the pixel.
func SourceRange(p, n, width int) (start, end int) {
	if width < 1 || n < 1 || p < 0 || p >= width {
		return 0, 0
	}
	start = int(int64(p) * int64(n) / int64(width))
	end = int(int64(p+1) * int64(n) / int64(width))
	return start, end
}

// Downsample returns width columns describing samples. A width below 1
// yields nil.
func Downsample(samples Buffer, width int) []Column {
	return DownsampleInto(nil, samples, width)
}

// DownsampleInto is Downsample writing into dst, reusing its capacity.
func DownsampleInto(dst []Column, samples Buffer, width int) []Column {
	if width < 1 {
		return dst[:0]
	}
	if cap(dst) < width {
		dst = make([]Column, width)
	}
	dst = dst[:width]

	n := len(samples)
	if n == 0 {
		for p := range dst {
			dst[p] = Column{}
		}
		return dst
	}

	for p := range dst {
		start, end := SourceRange(p, n, width)
		if start >= end {
			// fewer samples than pixels: the sample whose span covers p
			v := samples[start]
			dst[p] = Column{Min: v, Max: v}
			continue
		}
		lo, hi := samples[start], samples[start]
		for _, v := range samples[start+1 : end] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		dst[p] = Column{Min: lo, Max: hi}
	}
	return dst
}

// Window returns samples[start:end] with both bounds clamped into the buffer.
// It is used to pick the part of a clip visible at the current scroll and
// zoom.
func Window(samples Buffer, start, end int) Buffer {
	n := len(samples)
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return samples[:0]
	}
	return samples[start:end]
}
