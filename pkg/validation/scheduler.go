package validation

// Scheduler defers work to the host's next update tick.
type Scheduler interface {
	Schedule(fn func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(fn func())

// Schedule implements Scheduler.
func (s SchedulerFunc) Schedule(fn func()) {
	s(fn)
}

// Immediate runs scheduled work inline. It suits callers without an update
// loop, such as one-shot HTTP handlers.
type Immediate struct{}

// Schedule implements Scheduler.
func (Immediate) Schedule(fn func()) {
	if fn != nil {
		fn()
	}
}
