package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

// Scheduler runs the housekeeping jobs of the API process.
type Scheduler struct {
	sched gocron.Scheduler
}

// New registers the session purge job to run every interval. Call Start to
// begin running it and Shutdown to stop.
func New(purger SessionPurger, interval time.Duration) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("gocron.NewScheduler -> %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(purgeSessions, purger),
		gocron.WithName("purge-expired-sessions"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("sched.NewJob -> %w", err)
	}

	return &Scheduler{sched: sched}, nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}

func purgeSessions(purger SessionPurger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	purged, err := purger.PurgeExpiredSessions(ctx)
	if err != nil {
		zap.L().Error("failed to purge expired sessions", zap.Error(err))
		return
	}
	if purged > 0 {
		zap.L().Info("purged expired sessions", zap.Int64("count", purged))
	}
}
