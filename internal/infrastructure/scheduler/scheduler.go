// Package scheduler runs periodic maintenance jobs (calendar version polling,
// catalog reloads) on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/turtacn/PrazoCerto/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PrazoCerto/pkg/errors"
)

// Job is one unit of scheduled work. The context is cancelled when the
// scheduler stops or the job timeout elapses.
type Job func(ctx context.Context) error

// EntryInfo describes a registered job.
type EntryInfo struct {
	Name string    `json:"name"`
	Spec string    `json:"spec"`
	Next time.Time `json:"next"`
	Prev time.Time `json:"prev"`
}

// Scheduler wraps cron.Cron. Runs of the same job never overlap and panics
// are recovered and logged.
type Scheduler struct {
	cron    *cron.Cron
	logger  logging.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	names map[cron.EntryID]string
	specs map[cron.EntryID]string
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithJobTimeout bounds each run. Zero means no bound.
func WithJobTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.timeout = d }
}

// New returns a stopped scheduler.
func New(log logging.Logger, opts ...Option) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		logger: log.Named("scheduler"),
		ctx:    ctx,
		cancel: cancel,
		names:  make(map[cron.EntryID]string),
		specs:  make(map[cron.EntryID]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	cl := cronLogger{s.logger}
	s.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return s
}

// Add registers job under name. spec is a standard five-field cron
// expression or a descriptor such as "@every 5m".
func (s *Scheduler) Add(name, spec string, job Job) error {
	if job == nil {
		return errors.InvalidParam("job is required").WithDetail(name)
	}
	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeValidation, "invalid schedule").WithDetail(fmt.Sprintf("%s: %q", name, spec))
	}
	s.mu.Lock()
	s.names[id] = name
	s.specs[id] = spec
	s.mu.Unlock()
	s.logger.Info("job scheduled", logging.String("job", name), logging.String("spec", spec))
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Warn("job failed", logging.String("job", name), logging.Duration("elapsed", time.Since(start)), logging.Err(err))
		return
	}
	s.logger.Debug("job finished", logging.String("job", name), logging.Duration("elapsed", time.Since(start)))
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs, cancels the job context and waits for running jobs
// until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Entries lists registered jobs ordered by name.
func (s *Scheduler) Entries() []EntryInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []EntryInfo
	for _, e := range s.cron.Entries() {
		out = append(out, EntryInfo{Name: s.names[e.ID], Spec: s.specs[e.ID], Next: e.Next, Prev: e.Prev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct{ l logging.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, kvFields(keysAndValues)...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(kvFields(keysAndValues), logging.Err(err))...)
}

func kvFields(kv []interface{}) []logging.Field {
	out := make([]logging.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, logging.Any(fmt.Sprint(kv[i]), kv[i+1]))
	}
	return out
}

//Personal.AI order the ending
