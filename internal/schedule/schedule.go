// Package schedule provides the cancellable recurring task the countdown
// consumes: a callback every interval until the duration elapses or the task
// is cancelled.
package schedule

import "time"

// Handle cancels a scheduled task. After Cancel returns no further callback of
// the task runs. Cancel may be called more than once.
type Handle interface {
	Cancel()
}

// Scheduler invokes onTick every interval with the time left out of total,
// then onComplete once when nothing is left.
type Scheduler interface {
	Schedule(interval, total time.Duration, onTick func(remaining time.Duration), onComplete func()) Handle
}

// remainingAfter returns how much of total is left after n ticks.
func remainingAfter(total, interval time.Duration, n int64) time.Duration {
	left := total - time.Duration(n)*interval
	if left < 0 {
		return 0
	}
	return left
}
