package rate

import (
	"context"
	"errors"
	"eurofx/internal/domain"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const (
	defaultRefreshCron = "0 1 * * *"
	refreshJobName     = "refresh-exchange-rates"
)

type refreshRunner interface {
	Refresh(ctx context.Context) error
}

// Scheduler triggers the nightly reload of the rate history.
type Scheduler struct {
	refresher refreshRunner
	cron      string
	location  *time.Location
	// -----
	sched gocron.Scheduler
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(s.location))
	if err != nil {
		return err
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(s.cron, false),
		gocron.NewTask(s.refresh),
		gocron.WithName(refreshJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}
	s.sched = scheduler

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

// refresh is the job task; a run that collides with a manual refresh is skipped.
func (s *Scheduler) refresh(ctx context.Context) error {
	err := s.refresher.Refresh(ctx)
	switch {
	case errors.Is(err, domain.ErrRefreshInProgress):
		logrus.Info("Scheduled refresh skipped, another refresh is running")
		return nil
	case err != nil:
		logrus.WithError(err).Error("Scheduled refresh failed")
	}
	return err
}

func (s *Scheduler) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func NewScheduler(refresher refreshRunner, cron string, location *time.Location) *Scheduler {
	if cron == "" {
		cron = defaultRefreshCron
	}
	if location == nil {
		location = time.UTC
	}
	return &Scheduler{refresher: refresher, cron: cron, location: location}
}
