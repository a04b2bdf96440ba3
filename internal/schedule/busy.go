package schedule

import (
	"sort"
	"time"

	"golang.org/x/exp/slices"
)

// BusyInterval is one calendar commitment, inclusive start, exclusive end.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// BlockedSet holds busy intervals normalized to Eastern time and padded by
// the buffer on both sides, kept as a sorted, merged interval list so point
// queries are a binary search.
type BlockedSet struct {
	intervals []BusyInterval
}

// NewBlockedSet pads each busy interval by BufferMinutes on each side,
// normalizes to Eastern, then sorts and merges overlaps. Padding happens
// exactly once, here; callers must pass raw intervals.
func NewBlockedSet(busy []BusyInterval) *BlockedSet {
	padded := make([]BusyInterval, 0, len(busy))
	for _, b := range busy {
		padded = append(padded, BusyInterval{
			Start: b.Start.In(eastern).Add(-BufferMinutes * time.Minute),
			End:   b.End.In(eastern).Add(BufferMinutes * time.Minute),
		})
	}

	slices.SortFunc(padded, func(a, b BusyInterval) int {
		return a.Start.Compare(b.Start)
	})

	var merged []BusyInterval
	for _, iv := range padded {
		if n := len(merged); n > 0 && !iv.Start.After(merged[n-1].End) {
			if iv.End.After(merged[n-1].End) {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}

	return &BlockedSet{intervals: merged}
}

// Contains reports whether t falls inside any padded interval, half-open:
// [start-buffer, end+buffer).
func (s *BlockedSet) Contains(t time.Time) bool {
	// First interval starting strictly after t; the candidate is the one
	// before it.
	i := sort.Search(len(s.intervals), func(i int) bool {
		return s.intervals[i].Start.After(t)
	})
	if i == 0 {
		return false
	}
	return t.Before(s.intervals[i-1].End)
}

// Len returns the number of merged blocked intervals.
func (s *BlockedSet) Len() int {
	return len(s.intervals)
}
