package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aussiebroadwan/campusparty/internal/party/metrics"
	"github.com/aussiebroadwan/campusparty/internal/party/store"
)

const (
	DefaultHousekeepingSchedule = "@every 1h"
	DefaultRideExpiry           = 12 * time.Hour
)

// HousekeepingReport counts the rows one run changed.
type HousekeepingReport struct {
	ExpiredRides       int64
	DeactivatedDrivers int64
}

// HousekeepingService winds down safety state for parties that ended long
// ago: pending ride requests expire and drivers go inactive.
type HousekeepingService struct {
	Store      store.Store
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	RideExpiry time.Duration

	cron  *cron.Cron
	entry cron.EntryID
	wg    sync.WaitGroup
}

// NewHousekeepingService schedules cleanup on a cron spec such as
// "@every 1h" or "0 * * * *". Empty values take the defaults.
func NewHousekeepingService(
	store store.Store,
	logger *slog.Logger,
	m *metrics.Metrics,
	schedule string,
	rideExpiry time.Duration,
) (*HousekeepingService, error) {
	if schedule == "" {
		schedule = DefaultHousekeepingSchedule
	}
	if rideExpiry <= 0 {
		rideExpiry = DefaultRideExpiry
	}

	s := &HousekeepingService{
		Store:      store,
		Logger:     logger,
		Metrics:    m,
		RideExpiry: rideExpiry,
	}

	cl := cronLogger{logger}
	s.cron = cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)), cron.WithLogger(cl))
	id, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) })
	if err != nil {
		return nil, fmt.Errorf("invalid housekeeping schedule %q: %w", schedule, err)
	}
	s.entry = id
	return s, nil
}

// Start runs cleanup once immediately and then on schedule. It does not
// block. The immediate run goes through the same wrapped job as scheduled
// ones, so it recovers panics and never overlaps a scheduled run.
func (s *HousekeepingService) Start() {
	job := s.cron.Entry(s.entry).WrappedJob
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		job.Run()
	}()
	s.cron.Start()
	s.Logger.Info("housekeeping service started", "ride_expiry", s.RideExpiry)
}

// Stop halts the schedule and waits for any in-flight run to finish.
func (s *HousekeepingService) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.Logger.Info("housekeeping service stopped")
}

// RunOnce performs one cleanup pass. Each step is independent, a failure in
// one does not stop the others.
func (s *HousekeepingService) RunOnce(ctx context.Context) HousekeepingReport {
	now := time.Now().UTC()
	cutoff := now.Add(-s.RideExpiry)

	s.Logger.Info("starting housekeeping cleanup", "cutoff", cutoff)

	var report HousekeepingReport

	// Expire pending ride requests
	if n, err := s.Store.Rides().ExpirePendingRidesEndedBefore(ctx, cutoff, now); err != nil {
		s.Logger.Error("failed to expire pending ride requests", "error", err)
	} else {
		report.ExpiredRides = n
		s.Metrics.HousekeepingRows("expire_rides", n)
		s.Logger.Debug("expired pending ride requests", "rows", n)
	}

	// Deactivate designated drivers
	if n, err := s.Store.Drivers().DeactivateDriversEndedBefore(ctx, cutoff, now); err != nil {
		s.Logger.Error("failed to deactivate designated drivers", "error", err)
	} else {
		report.DeactivatedDrivers = n
		s.Metrics.HousekeepingRows("deactivate_drivers", n)
		s.Logger.Debug("deactivated designated drivers", "rows", n)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"expired_rides", report.ExpiredRides,
		"deactivated_drivers", report.DeactivatedDrivers,
	)
	return report
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
