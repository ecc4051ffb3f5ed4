package query

import (
	"iter"

	"github.com/tejusbharadwaj/ppistats/internal/models"
	"github.com/tejusbharadwaj/ppistats/internal/store"
)

// Engine runs queries against whatever series a store currently holds.
// Every method returns store.ErrNoDataLoaded before the first load.
type Engine struct {
	store store.Reader
}

// NewEngine creates an engine reading from st
func NewEngine(st store.Reader) *Engine {
	return &Engine{store: st}
}

// SeriesID returns the identifier of the loaded series
func (e *Engine) SeriesID() (string, error) {
	series, err := e.store.Current()
	if err != nil {
		return "", err
	}
	return series.ID, nil
}

// Snapshot returns the loaded series from a single store read. Queries run
// on a snapshot always agree with its ID, whatever loads happen meanwhile.
func (e *Engine) Snapshot() (models.Series, error) {
	return e.store.Current()
}

// AverageInRange averages the present values dated within [start, end]
func (e *Engine) AverageInRange(start, end string) (Average, error) {
	series, err := e.store.Current()
	if err != nil {
		return Average{}, err
	}
	return AverageInRange(series.Observations, start, end)
}

// FindExtremes returns the largest and smallest present values
func (e *Engine) FindExtremes() (Extremes, error) {
	series, err := e.store.Current()
	if err != nil {
		return Extremes{}, err
	}
	return FindExtremes(series.Observations)
}

// FilterByRange binds the filter to the series loaded at call time; a later
// load does not change what the returned sequence yields.
func (e *Engine) FilterByRange(minValue, maxValue float64) (iter.Seq[models.Observation], error) {
	series, err := e.store.Current()
	if err != nil {
		return nil, err
	}
	return FilterByRange(series.Observations, minValue, maxValue), nil
}

// LatestEntries returns the last n observations, missing values included
func (e *Engine) LatestEntries(n int) ([]models.Observation, error) {
	series, err := e.store.Current()
	if err != nil {
		return nil, err
	}
	return LatestEntries(series.Observations, n), nil
}
