// Package store holds the observation series currently selected for analysis.
//
// A Store owns exactly one series at a time. Loading replaces the whole
// series under a write lock, so readers never observe a half-loaded series.
// Query code only reads through Current and must not modify the returned
// observations.
//
// Example usage:
//
//	st := store.New()
//	series, report := store.Normalize(raw)
//	st.Load(series)
//
//	current, err := st.Current()
//	if errors.Is(err, store.ErrNoDataLoaded) {
//	    // nothing selected yet
//	}
package store

import (
	"errors"
	"sync"

	"github.com/tejusbharadwaj/ppistats/internal/models"
)

// ErrNoDataLoaded is returned when a series is requested before any load
var ErrNoDataLoaded = errors.New("no data loaded")

// Reader is the read side of the store used by the query engine
type Reader interface {
	Current() (models.Series, error)
}

// Store is the in-memory holder of the current series.
type Store struct {
	mu      sync.RWMutex
	series  models.Series
	loaded  bool
	version uint64
}

// New creates an empty Store
func New() *Store {
	return &Store{}
}

// Load replaces the current series wholesale.
//
// Every load bumps the version, which callers can use to detect that
// anything computed earlier is stale.
func (s *Store) Load(series models.Series) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.series = series
	s.loaded = true
	s.version++
}

// Current returns the held series, or ErrNoDataLoaded before the first load.
func (s *Store) Current() (models.Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return models.Series{}, ErrNoDataLoaded
	}
	return s.series, nil
}

// Version returns the load generation, 0 before any load
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Compile-time interface implementation check
var _ Reader = (*Store)(nil)
