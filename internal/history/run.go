package history

import "time"

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomePaused    Outcome = "paused"
	OutcomeReset     Outcome = "reset"
)

// Run is one stretch of counting down, from a start or resume until the timer
// stopped for whatever reason.
type Run struct {
	ID        int64
	StartedAt time.Time
	EndedAt   time.Time
	Total     time.Duration
	Remaining time.Duration
	Outcome   Outcome
}

// Counted is how much time the run actually counted down.
func (r Run) Counted() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// Stats summarizes the runs of the current process.
type Stats struct {
	Runs      int
	Completed int
	Paused    int
	Reset     int
	Counted   time.Duration
}
