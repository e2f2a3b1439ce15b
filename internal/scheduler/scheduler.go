package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSpec runs the check-in every evening at 21:00 UTC.
const DefaultSpec = "0 21 * * *"

// Scheduler runs the daily check-in job.
type Scheduler struct {
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	spec      string
	checkInFn func(ctx context.Context) error
}

func New(spec string) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		ctx:    ctx,
		cancel: cancel,
		spec:   spec,
	}
}

// SetCheckInFunction sets the job run on every tick.
func (s *Scheduler) SetCheckInFunction(f func(ctx context.Context) error) {
	s.checkInFn = f
}

// Start registers the job and starts the cron loop. Without a job it is a no-op.
func (s *Scheduler) Start() error {
	if s.checkInFn == nil {
		log.Println("⚠️ Check-in function not set, scheduler will not run")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, s.runOnce)
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("📅 Scheduler started - daily check-in at %q UTC", s.spec)
	return nil
}

func (s *Scheduler) runOnce() {
	log.Println("🕘 Triggered daily check-in")
	if err := s.checkInFn(s.ctx); err != nil {
		log.Printf("❌ Daily check-in failed: %v", err)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

// IsRunning reports whether a job has been registered.
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
