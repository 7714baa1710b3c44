package core

import "math"

// Interval is a closed range of reals. Min > Max denotes the empty interval.
type Interval struct {
	Min, Max float64
}

var (
	// EmptyInterval contains no real number
	EmptyInterval = Interval{Min: math.Inf(1), Max: math.Inf(-1)}
	// UniverseInterval contains every real number
	UniverseInterval = Interval{Min: math.Inf(-1), Max: math.Inf(1)}
)

// NewInterval creates the interval [lo, hi]
func NewInterval(lo, hi float64) Interval {
	return Interval{Min: lo, Max: hi}
}

// Size returns Max - Min, negative for empty intervals
func (i Interval) Size() float64 {
	return i.Max - i.Min
}

// Contains reports whether x lies in [Min, Max]
func (i Interval) Contains(x float64) bool {
	return i.Min <= x && x <= i.Max
}

// Surrounds reports whether x lies in (Min, Max)
func (i Interval) Surrounds(x float64) bool {
	return i.Min < x && x < i.Max
}

// Clamp limits x to [Min, Max]
func (i Interval) Clamp(x float64) float64 {
	if x < i.Min {
		return i.Min
	}
	if x > i.Max {
		return i.Max
	}
	return x
}
