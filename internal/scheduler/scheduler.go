// Package scheduler triggers a daily automatic search at a configured
// wall-clock time. Disabling only prevents future launches; an in-flight
// job always runs to completion or failure.
package scheduler

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ecosdelseo/prospector/internal/model"
	"github.com/ecosdelseo/prospector/internal/store"
)

// timePattern validates 24-hour HH:MM input.
var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// Launcher starts a search job and returns its id.
type Launcher interface {
	Start(ctx context.Context, city string) (string, error)
}

// Notifier sends the completion notification for a scheduled run.
type Notifier interface {
	Enabled() bool
	SendCompletion(to string, job *model.Job) error
}

// Schedule describes the active automatic search configuration.
type Schedule struct {
	City         string    `json:"city"`
	Time         string    `json:"time"`
	Email        string    `json:"email,omitempty"`
	CronExpr     string    `json:"cron_expr"`
	ConfiguredAt time.Time `json:"configured_at"`
	NextRun      time.Time `json:"next_run"`
}

// Scheduler owns a single cron entry. Configuring replaces any prior entry.
type Scheduler struct {
	mu       sync.Mutex
	cron     *cron.Cron
	entryID  cron.EntryID
	schedule *Schedule

	launcher Launcher
	notifier Notifier
	jobs     *store.JobStore

	// pollInterval and waitTimeout bound the post-launch wait before a
	// notification is sent. Overridable in tests.
	pollInterval time.Duration
	waitTimeout  time.Duration
}

// New creates and starts a Scheduler with no schedule configured.
func New(launcher Launcher, notifier Notifier, jobs *store.JobStore) *Scheduler {
	s := &Scheduler{
		cron:         cron.New(),
		launcher:     launcher,
		notifier:     notifier,
		jobs:         jobs,
		pollInterval: 5 * time.Second,
		waitTimeout:  30 * time.Minute,
	}
	s.cron.Start()
	return s
}

// Configure sets the daily search. time must be 24-hour HH:MM.
func (s *Scheduler) Configure(city, hhmm, email string) (*Schedule, error) {
	if city == "" {
		return nil, eris.Wrap(model.ErrValidation, "scheduler: city is required")
	}
	m := timePattern.FindStringSubmatch(hhmm)
	if m == nil {
		return nil, eris.Wrapf(model.ErrValidation, "scheduler: invalid time %q, want 24-hour HH:MM", hhmm)
	}
	cronExpr := fmt.Sprintf("%s %s * * *", m[2], m[1])

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule != nil {
		s.cron.Remove(s.entryID)
	}

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		s.trigger(city, email)
	})
	if err != nil {
		return nil, eris.Wrapf(err, "scheduler: add cron entry %q", cronExpr)
	}

	s.entryID = entryID
	s.schedule = &Schedule{
		City:         city,
		Time:         hhmm,
		Email:        email,
		CronExpr:     cronExpr,
		ConfiguredAt: time.Now().UTC(),
		NextRun:      s.cron.Entry(entryID).Next,
	}

	zap.L().Info("scheduler: configured",
		zap.String("city", city),
		zap.String("time", hhmm),
	)
	return s.snapshotLocked(), nil
}

// Status returns the active schedule, or false when none is configured.
func (s *Scheduler) Status() (*Schedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil {
		return nil, false
	}
	s.schedule.NextRun = s.cron.Entry(s.entryID).Next
	return s.snapshotLocked(), true
}

// Disable removes the schedule. In-flight jobs are not interrupted.
func (s *Scheduler) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil {
		return
	}
	s.cron.Remove(s.entryID)
	s.schedule = nil
	zap.L().Info("scheduler: disabled")
}

// Stop shuts the cron runner down. Already-started trigger functions finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) snapshotLocked() *Schedule {
	cp := *s.schedule
	return &cp
}

// trigger launches the scheduled search and, once the job reaches a
// terminal state, sends the notification email when one is configured.
func (s *Scheduler) trigger(city, email string) {
	log := zap.L().With(zap.String("city", city))
	log.Info("scheduler: launching automatic search")

	jobID, err := s.launcher.Start(context.Background(), city)
	if err != nil {
		log.Error("scheduler: automatic search failed to start", zap.Error(err))
		return
	}

	if email == "" || s.notifier == nil || !s.notifier.Enabled() {
		return
	}

	job, ok := s.awaitTerminal(jobID)
	if !ok {
		log.Warn("scheduler: job did not finish before notification timeout",
			zap.String("job_id", jobID),
		)
		return
	}
	if err := s.notifier.SendCompletion(email, job); err != nil {
		log.Error("scheduler: notification failed", zap.Error(err))
		return
	}
	log.Info("scheduler: notification sent", zap.String("to", email))
}

func (s *Scheduler) awaitTerminal(jobID string) (*model.Job, bool) {
	deadline := time.Now().Add(s.waitTimeout)
	for time.Now().Before(deadline) {
		if job, ok := s.jobs.Get(jobID); ok && job.Status.Terminal() {
			return job, true
		}
		time.Sleep(s.pollInterval)
	}
	return nil, false
}
