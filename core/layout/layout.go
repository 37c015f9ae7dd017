// Package layout stacks tracks vertically and maps y coordinates back to
// tracks.
package layout

import (
	"errors"
	"sort"

	"github.com/google/uuid"
	game_log "github.com/ingyamilmolinar/timeline/internal/log"
	"github.com/ingyamilmolinar/timeline/internal/utils"
)

var (
	ErrInvalidHeight = errors.New("layout: track height must be positive and finite")
	ErrUnknownTrack  = errors.New("layout: unknown track")
)

type Entry struct {
	ID     string
	Height float64
}

// Extent is the half-open pixel span [Top, Bottom) of one track.
type Extent struct {
	Top    float64
	Bottom float64
}

func (e Extent) Contains(y float64) bool { return y >= e.Top && y < e.Bottom }

// Layout holds an ordered list of tracks. Track i starts at
// TopGap + sum(height_k + TrackGap) over k < i; consecutive tracks are
// separated by exactly TrackGap.
type Layout struct {
	topGap   float64
	trackGap float64
	entries  []Entry
	offsets  []float64 // offsets[i] = YOffsetOf(i), len(entries)+1 values
	logger   *game_log.Logger
}

func New(topGap, trackGap float64, logger *game_log.Logger) *Layout {
	l := &Layout{topGap: topGap, trackGap: trackGap, logger: game_log.OrDiscard(logger)}
	l.recompute()
	return l
}

func (l *Layout) TopGap() float64   { return l.topGap }
func (l *Layout) TrackGap() float64 { return l.trackGap }

// SetGaps changes both gaps and recomputes offsets.
func (l *Layout) SetGaps(topGap, trackGap float64) {
	l.topGap, l.trackGap = topGap, trackGap
	l.recompute()
}

func (l *Layout) recompute() {
	if cap(l.offsets) < len(l.entries)+1 {
		l.offsets = make([]float64, len(l.entries)+1)
	}
	l.offsets = l.offsets[:len(l.entries)+1]
	y := l.topGap
	for i, e := range l.entries {
		l.offsets[i] = y
		y += e.Height + l.trackGap
	}
	l.offsets[len(l.entries)] = y
}

func validHeight(h float64) bool { return utils.Finite(h) && h > 0 }

// Add appends a track and returns its generated id.
func (l *Layout) Add(height float64) (string, error) {
	return l.AddWithID(uuid.NewString(), height)
}

// AddWithID appends a track under a caller-chosen id, as a persistence
// collaborator restoring a saved layout would.
func (l *Layout) AddWithID(id string, height float64) (string, error) {
	if !validHeight(height) {
		return "", ErrInvalidHeight
	}
	l.entries = append(l.entries, Entry{ID: id, Height: height})
	l.recompute()
	l.logger.Debugf("[LAYOUT] Added track %s height=%g", id, height)
	return id, nil
}

// SetHeight resizes a track.
func (l *Layout) SetHeight(id string, height float64) error {
	if !validHeight(height) {
		return ErrInvalidHeight
	}
	i := l.Index(id)
	if i < 0 {
		return ErrUnknownTrack
	}
	l.entries[i].Height = height
	l.recompute()
	l.logger.Debugf("[LAYOUT] Track %s height=%g", id, height)
	return nil
}

// Remove deletes a track and reports whether it existed.
func (l *Layout) Remove(id string) bool {
	i := l.Index(id)
	if i < 0 {
		return false
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	l.recompute()
	l.logger.Debugf("[LAYOUT] Removed track %s", id)
	return true
}

func (l *Layout) Len() int { return len(l.entries) }

// Entries returns a copy of the tracks in display order.
func (l *Layout) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Layout) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(l.entries) {
		return Entry{}, false
	}
	return l.entries[i], true
}

// Index returns the position of the track with the given id, or -1.
func (l *Layout) Index(id string) int {
	for i, e := range l.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// YOffsetOf returns the top of track i. i == Len() gives the position a
// track appended next would take; other indexes are clamped to [0, Len()].
func (l *Layout) YOffsetOf(i int) float64 {
	return l.offsets[utils.ClampInt(i, 0, len(l.entries))]
}

func (l *Layout) Extent(i int) (Extent, bool) {
	if i < 0 || i >= len(l.entries) {
		return Extent{}, false
	}
	top := l.offsets[i]
	return Extent{Top: top, Bottom: top + l.entries[i].Height}, true
}

// TotalHeight is the bottom of the last track, or TopGap when empty.
func (l *Layout) TotalHeight() float64 {
	n := len(l.entries)
	if n == 0 {
		return l.topGap
	}
	return l.offsets[n-1] + l.entries[n-1].Height
}

// candidate returns the last track whose top is <= y, or -1.
func (l *Layout) candidate(y float64) int {
	n := len(l.entries)
	return sort.Search(n, func(i int) bool { return l.offsets[i] > y }) - 1
}

// TrackIndexAtY returns the track whose extent contains y. Points in a gap,
// above the first track or below the last one resolve to no track.
func (l *Layout) TrackIndexAtY(y float64) (int, bool) {
	i := l.candidate(y)
	if i < 0 {
		return -1, false
	}
	if ext, _ := l.Extent(i); ext.Contains(y) {
		return i, true
	}
	return -1, false
}

// GapAfterY reports the track whose trailing band of height band contains y.
// The band starts at the track's bottom edge, so it overlaps the gap to the
// next track (and may extend past it when band > TrackGap).
func (l *Layout) GapAfterY(y, band float64) (int, bool) {
	if band <= 0 {
		return -1, false
	}
	i := l.candidate(y)
	for ; i >= 0; i-- {
		ext, _ := l.Extent(i)
		if y >= ext.Bottom && y < ext.Bottom+band {
			return i, true
		}
		if y >= ext.Bottom+band {
			break
		}
	}
	return -1, false
}
