package service

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// DefaultAutosaveSchedule is used when autosave is enabled without a schedule.
const DefaultAutosaveSchedule = "@every 30s"

// SaveFunc persists the current session.
type SaveFunc func(ctx context.Context) error

// Autosaver runs a SaveFunc on a cron schedule. A tick that fires while the
// previous save is still running is skipped.
type Autosaver struct {
	schedule string
	save     SaveFunc
	emitter  EventEmitter

	sched *cron.Cron
	guard saveGuard
}

const (
	EventAutosaved     = "session:autosaved"
	EventAutosaveError = "session:autosave-error"

	autosaveJob = "autosave"
)

// NewAutosaver validates schedule and returns a stopped Autosaver.
func NewAutosaver(schedule string, save SaveFunc, emitter EventEmitter) (*Autosaver, error) {
	if schedule == "" {
		schedule = DefaultAutosaveSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("autosave schedule %q: %w", schedule, err)
	}
	return &Autosaver{schedule: schedule, save: save, emitter: emitter}, nil
}

// Start schedules the save job. Calling Start twice restarts the schedule.
func (a *Autosaver) Start(ctx context.Context) error {
	a.Stop()
	c := cron.New()
	if _, err := c.AddFunc(a.schedule, func() { a.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("autosave schedule %q: %w", a.schedule, err)
	}
	c.Start()
	a.sched = c
	log.Printf("[AUTOSAVE] scheduled %q", a.schedule)
	return nil
}

// RunOnce performs one save unless another one is still in flight.
// Returns false when the save was skipped.
func (a *Autosaver) RunOnce(ctx context.Context) bool {
	if !a.guard.TryLock(autosaveJob) {
		log.Printf("[AUTOSAVE] previous save still running, skipping")
		return false
	}
	defer a.guard.Unlock(autosaveJob)

	if err := a.save(ctx); err != nil {
		log.Printf("[AUTOSAVE] save failed: %v", err)
		a.emit(ctx, EventAutosaveError, err.Error())
		return true
	}
	a.emit(ctx, EventAutosaved, nil)
	return true
}

// Stop halts the schedule. In-flight saves keep running; see Wait.
func (a *Autosaver) Stop() {
	if a.sched != nil {
		a.sched.Stop()
		a.sched = nil
	}
}

// Wait blocks until in-flight saves finish or ctx is done.
func (a *Autosaver) Wait(ctx context.Context) {
	a.guard.WaitAll(ctx)
}

func (a *Autosaver) emit(ctx context.Context, event string, data any) {
	if a.emitter != nil {
		a.emitter.Emit(ctx, event, data)
	}
}
