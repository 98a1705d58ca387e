package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-co-op/gocron/v2"
)

// Lifecycle advances tournaments whose dates have passed.
// Implemented by tournament.Service.
type Lifecycle interface {
	AdvanceLifecycle(ctx context.Context, now time.Time) (int, error)
}

// Scheduler runs the lifecycle job on a fixed interval.
type Scheduler struct {
	sched     gocron.Scheduler
	lifecycle Lifecycle
	timeout   time.Duration
}

// New registers the lifecycle job. The first run happens immediately after
// Start, later runs every interval; a run still in progress is never
// overlapped.
func New(lifecycle Lifecycle, interval time.Duration) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler interval must be positive, got %s", interval)
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	s := &Scheduler{sched: sched, lifecycle: lifecycle, timeout: interval}
	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.RunOnce, context.Background()),
		gocron.WithName("tournament-lifecycle"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to register lifecycle job: %w", err)
	}
	return s, nil
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	log.Info("Starting scheduler")
	s.sched.Start()
}

// Shutdown stops the scheduler and waits for running jobs.
func (s *Scheduler) Shutdown() error {
	log.Info("Stopping scheduler")
	return s.sched.Shutdown()
}

// RunOnce advances every due tournament. Errors are logged; the next run
// tries again.
func (s *Scheduler) RunOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	n, err := s.lifecycle.AdvanceLifecycle(ctx, time.Now().UTC())
	if err != nil {
		log.Error("Lifecycle run failed", "error", err)
		return
	}
	if n > 0 {
		log.Info("Lifecycle run advanced tournaments", "count", n)
	}
}
