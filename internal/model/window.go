package model

// TimeWindow is a half-open [Start, End) availability interval on one day at
// one location, in minutes since midnight. Priority 1 is the most preferred.
type TimeWindow struct {
	Day      Day
	Start    int
	End      int
	Location string
	Priority int
}

func (w TimeWindow) Duration() int {
	return w.End - w.Start
}

// Overlaps reports whether the two windows share any minute. Windows on
// different days never overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Day == other.Day && w.Start < other.End && other.Start < w.End
}

// Covers reports whether a lesson of the given duration starting at start
// fits entirely inside the window.
func (w TimeWindow) Covers(start, duration int) bool {
	return w.Start <= start && start+duration <= w.End
}
