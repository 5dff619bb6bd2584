package efa

import (
	"sync"
	"time"
)

// Timer is a scheduled task that can be stopped before it runs
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer holds at most one pending task. Scheduling a new task stops and
// replaces the pending one, so only the latest task of a burst ever runs.
type Debouncer struct {
	scheduler Scheduler

	mutex      sync.Mutex
	pending    Timer
	generation uint64
}

// NewDebouncer uses the wall clock when scheduler is nil
func NewDebouncer(scheduler Scheduler) *Debouncer {
	if scheduler == nil {
		scheduler = realScheduler{}
	}

	return &Debouncer{
		scheduler: scheduler,
	}
}

func (d *Debouncer) Schedule(delay time.Duration, task func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.stopPending()

	d.generation++
	generation := d.generation

	d.pending = d.scheduler.AfterFunc(delay, func() {
		d.mutex.Lock()
		// A timer that fired while being replaced must not run
		if generation != d.generation {
			d.mutex.Unlock()
			return
		}
		d.pending = nil
		d.mutex.Unlock()

		task()
	})
}

// Cancel drops the pending task, if any
func (d *Debouncer) Cancel() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.stopPending()
	d.generation++
}

// Pending reports whether a task is waiting to run
func (d *Debouncer) Pending() bool {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.pending != nil
}

func (d *Debouncer) stopPending() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
