// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/gripfinance/grip-backend/internal/logger"
	"github.com/gripfinance/grip-backend/internal/model"
)

// SIPDetectionJob is the name of the scheduled SIP detection job.
const SIPDetectionJob = "sip-detection"

// SIPDetector runs SIP detection over all stored holdings.
type SIPDetector interface {
	DetectSIPs(ctx context.Context) ([]model.SIPDetection, error)
}

// Scheduler wraps a cron runner. Jobs of the same entry never overlap and a
// panicking job does not stop the runner.
type Scheduler struct {
	cron   *cron.Cron
	log    zerolog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a stopped scheduler. Schedules use the standard five field
// cron syntax plus descriptors such as "@daily" or "@every 1h".
func New(log zerolog.Logger) *Scheduler {
	cl := cronLogger{log: log}
	ctx, cancel := context.WithCancel(logger.WithContext(context.Background(), log))

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob registers fn under name on the given schedule.
func (s *Scheduler) AddJob(name, schedule string, fn func(ctx context.Context) error) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(schedule, func() {
		start := time.Now()
		log := s.log.With().Str("job", name).Logger()

		if err := fn(logger.WithContext(s.ctx, log)); err != nil {
			log.Error().Err(err).Dur("duration", time.Since(start)).Msg("scheduled job failed")
			return
		}
		log.Info().Dur("duration", time.Since(start)).Msg("scheduled job finished")
	})
	if err != nil {
		return 0, fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
	}

	s.log.Info().Str("job", name).Str("schedule", schedule).Msg("registered scheduled job")
	return id, nil
}

// RegisterSIPDetection schedules SIP detection over all holdings.
func (s *Scheduler) RegisterSIPDetection(schedule string, detector SIPDetector) (cron.EntryID, error) {
	return s.AddJob(SIPDetectionJob, schedule, func(ctx context.Context) error {
		detections, err := detector.DetectSIPs(ctx)
		if err != nil {
			return err
		}
		log := logger.FromContext(ctx)
		log.Info().Int("sips_detected", len(detections)).Msg("SIP detection run complete")
		return nil
	})
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs to finish. If ctx ends
// first, running jobs see their context cancelled and ctx.Err() is returned.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.cancel()
		return nil
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}
}

// Entries returns the registered jobs with their next run times.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// cronLogger adapts zerolog to the cron.Logger interface.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
