//go:generate go run github.com/golang/mock/mockgen -destination=./mocks/fetcher.go -package=mocks . Fetcher

// Package selector turns a menu choice into a loaded series.
//
// The set of series is closed: each numbered choice maps to one provider
// series identifier. A failed selection, whether the choice is unknown or
// the fetch fails, leaves the store exactly as it was.
package selector

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/ppistats/internal/models"
	"github.com/tejusbharadwaj/ppistats/internal/store"
)

var (
	ErrInvalidSelection = errors.New("invalid selection")
	ErrFetchFailed      = errors.New("fetch failed")
)

// FetchFailedError carries the reason a fetch could not produce a series
type FetchFailedError struct {
	SeriesID string
	Reason   error
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("%s for %s: %v", ErrFetchFailed, e.SeriesID, e.Reason)
}

func (e *FetchFailedError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Reason}
}

// Fetcher retrieves a raw series from the data provider.
type Fetcher interface {
	FetchSeries(ctx context.Context, seriesID string) (*models.RawSeries, error)
}

// Option is one entry of the series menu
type Option struct {
	Choice   int    `json:"choice"`
	SeriesID string `json:"series_id"`
	Title    string `json:"title"`
}

var options = []Option{
	{Choice: 1, SeriesID: "PCU325325", Title: "PPI by Industry: Pesticide, Fertilizer, and Other Agricultural Chemical Manufacturing"},
	{Choice: 2, SeriesID: "WPU061", Title: "PPI by Commodity: Chemicals and Allied Products: Industrial Chemicals"},
	{Choice: 3, SeriesID: "WPU06", Title: "PPI by Commodity: Chemicals and Allied Products"},
}

// Options returns the menu entries in choice order
func Options() []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}

// SeriesID resolves a menu choice
func SeriesID(choice int) (string, bool) {
	for _, o := range options {
		if o.Choice == choice {
			return o.SeriesID, true
		}
	}
	return "", false
}

// Loader is the write side of the store
type Loader interface {
	store.Reader
	Load(series models.Series)
}

// Selector fetches the chosen series and loads it into the store
type Selector struct {
	fetcher Fetcher
	store   Loader
	logger  logrus.FieldLogger
}

func New(fetcher Fetcher, st Loader, logger logrus.FieldLogger) *Selector {
	return &Selector{
		fetcher: fetcher,
		store:   st,
		logger:  logger,
	}
}

// Select loads the series behind choice.
func (s *Selector) Select(ctx context.Context, choice int) (models.LoadReport, error) {
	seriesID, ok := SeriesID(choice)
	if !ok {
		return models.LoadReport{}, fmt.Errorf("%w: %d", ErrInvalidSelection, choice)
	}
	return s.load(ctx, seriesID)
}

// Refresh fetches the currently loaded series again.
// It returns store.ErrNoDataLoaded when there is nothing to refresh.
func (s *Selector) Refresh(ctx context.Context) (models.LoadReport, error) {
	current, err := s.store.Current()
	if err != nil {
		return models.LoadReport{}, err
	}
	return s.load(ctx, current.ID)
}

func (s *Selector) load(ctx context.Context, seriesID string) (models.LoadReport, error) {
	raw, err := s.fetcher.FetchSeries(ctx, seriesID)
	if err == nil && raw == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"series_id": seriesID,
			"error":     err,
		}).Error("Failed to fetch series")
		return models.LoadReport{}, &FetchFailedError{SeriesID: seriesID, Reason: err}
	}

	// the provider may echo a different id; the store is keyed by what we asked for
	raw.ID = seriesID
	series, report := store.Normalize(*raw)
	s.store.Load(series)

	entry := s.logger.WithFields(logrus.Fields{
		"series_id":    seriesID,
		"observations": report.Observations,
		"missing":      report.Missing,
		"malformed":    report.Malformed,
	})
	if report.Malformed > 0 {
		entry.Warn("Skipped malformed observations")
	}
	entry.Info("Loaded series")

	return report, nil
}
