package scheduler

import "time"

// Scheduler runs a function after a delay without blocking the caller. The
// card game uses it for pacing between phases; those delays must never hold
// a room's lock or stall the sweeper.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// DefaultScheduler implements Scheduler with time.AfterFunc
type DefaultScheduler struct{}

// After schedules fn to run once d has elapsed
func (s *DefaultScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Immediate is a Scheduler for tests; it runs fn synchronously.
type Immediate struct{}

// After runs fn right away, ignoring the delay
func (s *Immediate) After(d time.Duration, fn func()) {
	fn()
}
