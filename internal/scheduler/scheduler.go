package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/memetide/memetide/internal/logger"
)

// TriggerKind selects how a job fires.
type TriggerKind int

const (
	// Interval fires every Every duration.
	Interval TriggerKind = iota
	// Daily fires once a day at Hour:Minute.
	Daily
	// Once fires a single time at At and never again.
	Once
)

// Trigger describes when a job runs.
type Trigger struct {
	Kind   TriggerKind
	Every  time.Duration
	Hour   int
	Minute int
	At     time.Time
}

// Action is the work a job performs.
type Action func(ctx context.Context) error

// JobStatus is a read-only snapshot of one registered job.
type JobStatus struct {
	ID      string     `json:"id"`
	Label   string     `json:"label"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

type job struct {
	id      string
	label   string
	trigger Trigger
	action  Action
	entry   cron.EntryID
	timer   *time.Timer

	running atomic.Bool
	fired   atomic.Bool
}

// Scheduler runs registered jobs on their triggers. Jobs may be
// registered before or after Start; registration with an existing ID
// replaces the previous definition.
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	jobs    map[string]*job
	started bool
	stopped bool
	ctx     context.Context
	wg      sync.WaitGroup
}

// New creates a scheduler.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		jobs: make(map[string]*job),
	}
}

// Register adds or replaces a job. Recurring jobs also get an immediate
// one-shot twin registered under "<id>:initial" so new deployments do
// not wait a full interval for first output.
func (s *Scheduler) Register(id, label string, trigger Trigger, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(id)
	j := &job{id: id, label: label, trigger: trigger, action: action}
	s.jobs[id] = j
	if s.started && !s.stopped {
		s.armLocked(j)
	}

	if trigger.Kind != Once {
		twinID := id + ":initial"
		s.removeLocked(twinID)
		twin := &job{
			id:      twinID,
			label:   label + " (initial)",
			trigger: Trigger{Kind: Once, At: time.Now().Add(5 * time.Second)},
			action:  action,
		}
		s.jobs[twinID] = twin
		if s.started && !s.stopped {
			s.armLocked(twin)
		}
	}

	logger.Debug().Str("job", id).Msg("Registered scheduled job")
}

// Remove unregisters a job and its initial twin.
func (s *Scheduler) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(id)
	s.removeLocked(id + ":initial")
}

func (s *Scheduler) removeLocked(id string) {
	j, ok := s.jobs[id]
	if !ok {
		return
	}
	if j.entry != 0 {
		s.cron.Remove(j.entry)
	}
	if j.timer != nil {
		j.timer.Stop()
	}
	delete(s.jobs, id)
}

// Start arms every registered job. The context is handed to job
// actions; cancelling it does not tear the scheduler down, Stop does.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.ctx = ctx

	for _, j := range s.jobs {
		s.armLocked(j)
	}
	s.cron.Start()
	logger.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
}

func (s *Scheduler) armLocked(j *job) {
	switch j.trigger.Kind {
	case Interval:
		j.entry = s.cron.Schedule(cron.Every(j.trigger.Every), cron.FuncJob(func() { s.run(j) }))
	case Daily:
		spec := fmt.Sprintf("%d %d * * *", j.trigger.Minute, j.trigger.Hour)
		entry, err := s.cron.AddFunc(spec, func() { s.run(j) })
		if err != nil {
			logger.WithError(err).Str("job", j.id).Msg("Failed to arm daily job")
			return
		}
		j.entry = entry
	case Once:
		delay := time.Until(j.trigger.At)
		if delay < 0 {
			delay = 0
		}
		j.timer = time.AfterFunc(delay, func() { s.run(j) })
	}
}

// run executes one firing. Overlapping firings are skipped rather
// than queued, and a failing or panicking action stays registered.
func (s *Scheduler) run(j *job) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	if j.trigger.Kind == Once && !j.fired.CompareAndSwap(false, true) {
		s.mu.Unlock()
		return
	}
	ctx := s.ctx
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	if !j.running.CompareAndSwap(false, true) {
		logger.Warn().Str("job", j.id).Msg("Previous run still in progress, skipping")
		return
	}
	defer j.running.Store(false)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("job", j.id).Interface("panic", r).Msg("Job panicked")
		}
	}()

	start := time.Now()
	logger.Debug().Str("job", j.id).Msg("Job starting")
	if err := j.action(ctx); err != nil {
		logger.WithError(err).Str("job", j.id).Msg("Job failed")
		return
	}
	logger.Debug().Str("job", j.id).Dur("took", time.Since(start)).Msg("Job finished")
}

// Stop disarms every trigger and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for _, j := range s.jobs {
		if j.timer != nil {
			j.timer.Stop()
		}
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.wg.Wait()
	logger.Info().Msg("Scheduler stopped")
}

// Status reports every registered job with its next firing time.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for _, j := range s.jobs {
		st := JobStatus{ID: j.id, Label: j.label}
		switch {
		case j.trigger.Kind == Once:
			if !j.fired.Load() {
				at := j.trigger.At
				st.NextRun = &at
			}
		case j.entry != 0:
			if next := s.cron.Entry(j.entry).Next; !next.IsZero() {
				n := next
				st.NextRun = &n
			}
		}
		out = append(out, st)
	}
	return out
}
