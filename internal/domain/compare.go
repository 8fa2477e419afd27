package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrDivisionByZero is carried by a Change whose reference value is zero.
var ErrDivisionByZero = errors.New("percentage change: division by zero")

// Change is the outcome of a percentage calculation. Exactly one of Percent
// and Err is meaningful.
type Change struct {
	Percent float64
	Err     error
}

// OK reports whether the percentage was computed.
func (c Change) OK() bool {
	return c.Err == nil
}

// Comparison is the week-over-week result for one region.
type Comparison struct {
	Region          string
	Average         float64
	PreviousAverage float64
	Trend           Trend
	Change          Change
	// Days is the number of deltas the comparison was computed from.
	Days int
}

// RoundedAverage returns the recent average rounded half to even.
func (c Comparison) RoundedAverage() int64 {
	return int64(math.RoundToEven(c.Average))
}

// RoundedPercent returns the percentage rounded half to even. The second
// result is false when the comparison is unchanged or the percentage could not
// be computed.
func (c Comparison) RoundedPercent() (int64, bool) {
	if c.Trend == TrendUnchanged || !c.Change.OK() {
		return 0, false
	}
	return int64(math.RoundToEven(c.Change.Percent)), true
}

// Partial reports whether the window was shorter than two full weeks.
func (c Comparison) Partial() bool {
	return c.Days < WindowSize
}

// String renders the console report line.
func (c Comparison) String() string {
	avg := c.RoundedAverage()
	pct, ok := c.RoundedPercent()

	switch c.Trend {
	case TrendIncrease:
		if !ok {
			return fmt.Sprintf("%s had a 7-day average of %d.", c.Region, avg)
		}
		return fmt.Sprintf("%s had a 7-day average of %d and an increase of %d%%.", c.Region, avg, pct)
	case TrendDecrease:
		if !ok {
			return fmt.Sprintf("%s had a 7-day average of %d.", c.Region, avg)
		}
		return fmt.Sprintf("%s had a 7-day average of %d and a decrease of %d%%.", c.Region, avg, pct)
	default:
		return fmt.Sprintf("%s had a 7-day average of %d, same as last week.", c.Region, avg)
	}
}

// SevenDayAverage sums the deltas and divides by WeekLength, whatever the
// slice length.
func SevenDayAverage(deltas []int64) float64 {
	var sum int64
	for _, d := range deltas {
		sum += d
	}
	return float64(sum) / WeekLength
}

// PercentChange returns ((newValue-oldValue)/oldValue)*100, or a Change
// carrying ErrDivisionByZero when oldValue is zero.
func PercentChange(newValue, oldValue float64) Change {
	if oldValue == 0 {
		return Change{Err: ErrDivisionByZero}
	}
	return Change{Percent: ((newValue - oldValue) / oldValue) * 100}
}

// Compare averages the last and first WeekLength entries of a window and
// classifies the difference. Windows of any length are accepted; when fewer
// than 2*WeekLength deltas exist the two halves overlap.
func Compare(region string, window []int64) Comparison {
	recent := window[max(0, len(window)-WeekLength):]
	previous := window[:min(WeekLength, len(window))]

	c := Comparison{
		Region:          region,
		Average:         SevenDayAverage(recent),
		PreviousAverage: SevenDayAverage(previous),
		Days:            len(window),
	}

	switch {
	case c.Average > c.PreviousAverage:
		c.Trend = TrendIncrease
		c.Change = PercentChange(c.Average, c.PreviousAverage)
	case c.Average < c.PreviousAverage:
		c.Trend = TrendDecrease
		c.Change = PercentChange(c.PreviousAverage, c.Average)
	default:
		c.Trend = TrendUnchanged
	}
	return c
}
