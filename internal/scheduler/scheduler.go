package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/tejusbharadwaj/ppistats/internal/models"
	"github.com/tejusbharadwaj/ppistats/internal/store"
)

// refreshTimeout bounds a single scheduled refresh
const refreshTimeout = 2 * time.Minute

// Refresher reloads the currently selected series
type Refresher interface {
	Refresh(ctx context.Context) (models.LoadReport, error)
}

type Scheduler struct {
	ctx       context.Context
	refresher Refresher
	logger    logrus.FieldLogger
	cron      *cron.Cron
	schedule  string
}

// NewScheduler creates a scheduler that refreshes on schedule, a standard
// five field cron expression.
func NewScheduler(ctx context.Context, refresher Refresher, schedule string, logger logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		ctx:       ctx,
		refresher: refresher,
		logger:    logger,
		cron:      cron.New(),
		schedule:  schedule,
	}
}

// Start the scheduler
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.refreshSeries); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.WithField("schedule", s.schedule).Info("Refresh scheduler started")
	return nil
}

// refreshSeries fetches the selected series again and replaces it in the store
func (s *Scheduler) refreshSeries() {
	ctx, cancel := context.WithTimeout(s.ctx, refreshTimeout)
	defer cancel()

	report, err := s.refresher.Refresh(ctx)
	switch {
	case errors.Is(err, store.ErrNoDataLoaded):
		s.logger.Debug("No series selected, skipping refresh")
	case err != nil:
		s.logger.WithError(err).Error("Failed to refresh series")
	default:
		s.logger.WithFields(logrus.Fields{
			"series_id":    report.SeriesID,
			"observations": report.Observations,
		}).Info("Refreshed series")
	}
}

// Stop the scheduler and wait for a running refresh to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
