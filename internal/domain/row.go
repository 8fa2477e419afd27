package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedDataset marks input that downloaded but could not be decoded.
var ErrMalformedDataset = errors.New("malformed dataset")

// Row is one dataset record: a region's cumulative case count on a date.
type Row struct {
	Date       string
	Region     string
	Cumulative int64
}

// RegionSet answers whether a region has been seen in the dataset.
type RegionSet interface {
	Known(region string) bool
}

// Trend classifies how the recent week compares to the week before it.
type Trend int

const (
	TrendUnchanged Trend = iota
	TrendIncrease
	TrendDecrease
)

func (t Trend) String() string {
	switch t {
	case TrendIncrease:
		return "increase"
	case TrendDecrease:
		return "decrease"
	default:
		return "unchanged"
	}
}

// MarshalJSON encodes the trend as its name.
func (t Trend) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a trend name.
func (t *Trend) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode trend: %w", err)
	}
	switch s {
	case "increase":
		*t = TrendIncrease
	case "decrease":
		*t = TrendDecrease
	case "unchanged":
		*t = TrendUnchanged
	default:
		return fmt.Errorf("unknown trend %q", s)
	}
	return nil
}

// Report is the set of comparisons produced by one run.
type Report struct {
	GeneratedAt time.Time
	Comparisons []Comparison
}

// NewReport stamps the comparisons with the package clock.
func NewReport(comparisons []Comparison) Report {
	return Report{
		GeneratedAt: clock.Now().UTC(),
		Comparisons: comparisons,
	}
}
