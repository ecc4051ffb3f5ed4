// Package query answers analytical questions about an observation series.
//
// The package-level functions are pure: they take a slice of observations,
// never modify it, and keep no state between calls. Engine wraps them and
// reads the series from a store on every call.
//
// Supported queries:
//   - AverageInRange: mean of present values between two dates (inclusive)
//   - FindExtremes: maximum and minimum present values with their dates
//   - FilterByRange: observations whose value lies within [min, max]
//   - LatestEntries: the most recent n observations, oldest first
//
// Dates are ISO 8601 strings (YYYY-MM-DD) and are compared as strings.
// Missing values never take part in a computation.
package query

import (
	"errors"
	"iter"

	"github.com/tejusbharadwaj/ppistats/internal/models"
)

var (
	// ErrNoDataInRange means a date range held no present values
	ErrNoDataInRange = errors.New("no valid data in range")
	// ErrNoDataAvailable means the series held no present values at all
	ErrNoDataAvailable = errors.New("no data available")
)

// Average is the arithmetic mean of Count present values
type Average struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Extreme is a value paired with the date it was observed
type Extreme struct {
	Value float64 `json:"value"`
	Date  string  `json:"date"`
}

// Extremes holds the maximum and minimum of a series
type Extremes struct {
	Max Extreme `json:"max"`
	Min Extreme `json:"min"`
}

// AverageInRange computes the mean of present values dated within
// [start, end]. It returns ErrNoDataInRange when nothing qualifies, which
// includes every range with start > end.
func AverageInRange(observations []models.Observation, start, end string) (Average, error) {
	var sum float64
	var count int

	for _, o := range observations {
		if o.Date < start || o.Date > end {
			continue
		}
		v, ok := o.Value.Get()
		if !ok {
			continue
		}
		sum += v
		count++
	}

	if count == 0 {
		return Average{}, ErrNoDataInRange
	}
	return Average{Value: sum / float64(count), Count: count}, nil
}

// FindExtremes returns the maximum and minimum present values in one pass.
// On ties the first observation in series order wins.
func FindExtremes(observations []models.Observation) (Extremes, error) {
	var ext Extremes
	found := false

	for _, o := range observations {
		v, ok := o.Value.Get()
		if !ok {
			continue
		}
		if !found {
			ext.Max = Extreme{Value: v, Date: o.Date}
			ext.Min = Extreme{Value: v, Date: o.Date}
			found = true
			continue
		}
		if v > ext.Max.Value {
			ext.Max = Extreme{Value: v, Date: o.Date}
		}
		if v < ext.Min.Value {
			ext.Min = Extreme{Value: v, Date: o.Date}
		}
	}

	if !found {
		return Extremes{}, ErrNoDataAvailable
	}
	return ext, nil
}

// FilterByRange yields observations with a present value v where
// minValue <= v <= maxValue, in series order. The sequence is lazy and can be
// ranged over any number of times. Bounds are compared as given.
func FilterByRange(observations []models.Observation, minValue, maxValue float64) iter.Seq[models.Observation] {
	return func(yield func(models.Observation) bool) {
		if minValue > maxValue {
			return
		}
		for _, o := range observations {
			v, ok := o.Value.Get()
			if !ok || v < minValue || v > maxValue {
				continue
			}
			if !yield(o) {
				return
			}
		}
	}
}

// LatestEntries returns the last n observations in their original order.
// n <= 0 gives an empty result; n beyond the series length gives all of it.
// The result is a copy and never aliases the input.
func LatestEntries(observations []models.Observation, n int) []models.Observation {
	if n <= 0 {
		return []models.Observation{}
	}
	if n > len(observations) {
		n = len(observations)
	}

	out := make([]models.Observation, n)
	copy(out, observations[len(observations)-n:])
	return out
}
