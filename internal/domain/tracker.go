package domain

import "sort"

const (
	// WindowSize is the number of most recent daily deltas kept per region.
	WindowSize = 14

	// WeekLength is the span of each averaged half of a window, and the
	// divisor used for every average.
	WeekLength = 7
)

type regionState struct {
	previous     int64
	window       []int64
	observations int
}

// Tracker derives daily deltas from cumulative counts and keeps a bounded
// window of them per region. Rows must be fed in chronological order per
// region; a Tracker is not safe for concurrent use.
type Tracker struct {
	regions map[string]*regionState
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{regions: make(map[string]*regionState)}
}

// Update records a region's cumulative count. The first count seen for a
// region only seeds its previous count; every later count appends the
// difference to the region's window, evicting the oldest entry once the
// window holds more than WindowSize deltas.
func (t *Tracker) Update(region string, cumulative int64) {
	st, ok := t.regions[region]
	if !ok {
		t.regions[region] = &regionState{
			previous:     cumulative,
			window:       make([]int64, 0, WindowSize+1),
			observations: 1,
		}
		return
	}

	st.window = append(st.window, cumulative-st.previous)
	st.previous = cumulative
	st.observations++

	if len(st.window) > WindowSize {
		// Shift in place so the backing array never grows past WindowSize+1.
		copy(st.window, st.window[len(st.window)-WindowSize:])
		st.window = st.window[:WindowSize]
	}
}

// Known reports whether the region has appeared in any row.
func (t *Tracker) Known(region string) bool {
	_, ok := t.regions[region]
	return ok
}

// Window returns a copy of the region's deltas, oldest first.
func (t *Tracker) Window(region string) ([]int64, bool) {
	st, ok := t.regions[region]
	if !ok {
		return nil, false
	}
	return append([]int64(nil), st.window...), true
}

// Windows returns a copy of every region's window.
func (t *Tracker) Windows() map[string][]int64 {
	out := make(map[string][]int64, len(t.regions))
	for name, st := range t.regions {
		out[name] = append([]int64{}, st.window...)
	}
	return out
}

// Observations returns how many rows have been recorded for the region.
func (t *Tracker) Observations(region string) int {
	if st, ok := t.regions[region]; ok {
		return st.observations
	}
	return 0
}

// Regions returns the known region names in sorted order.
func (t *Tracker) Regions() []string {
	names := make([]string, 0, len(t.regions))
	for name := range t.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of known regions.
func (t *Tracker) Len() int {
	return len(t.regions)
}
