package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/TRAPZZY/AGRO--007-sub000/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is a unit of scheduled work
type Job interface {
	Name() string
	Execute(ctx context.Context)
}

// Scheduler runs jobs on cron schedules
type Scheduler struct {
	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Register schedules job. spec accepts standard five-field expressions and
// descriptors such as "@every 15m".
func (s *Scheduler) Register(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		logger.Debug(s.ctx, "Running scheduled job", zap.String("job", job.Name()))
		job.Execute(s.ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", job.Name(), err)
	}
	return nil
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	logger.Info(context.Background(), "Job scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cancel()
	<-s.cron.Stop().Done()
	s.running = false
	logger.Info(context.Background(), "Job scheduler stopped")
}
