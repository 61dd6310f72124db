package history

import (
	"context"
	"log/slog"
	"time"

	"countdown_tui/internal/timer"
)

// Recorder turns machine events into Runs. A run opens when the countdown
// starts or resumes and is written when it pauses, completes or is reset.
type Recorder struct {
	repo   *Repository
	logger *slog.Logger
	now    func() time.Time

	open      bool
	started   time.Time
	total     time.Duration
	remaining time.Duration

	// OnRecord, if set, is called after each run is stored.
	OnRecord func(Run)
}

func NewRecorder(repo *Repository, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, logger: logger, now: time.Now}
}

// Attach subscribes the recorder to m and returns the unsubscribe func.
func (r *Recorder) Attach(m *timer.Machine) func() {
	return m.Subscribe(r.Observe)
}

func (r *Recorder) Observe(ev timer.Event) {
	switch ev.Kind {
	case timer.EventStarted, timer.EventResumed:
		r.open = true
		r.started = r.now()
		r.total = ev.Snapshot.Total
		r.remaining = ev.Snapshot.Remaining
	case timer.EventTicked:
		r.remaining = ev.Snapshot.Remaining
	case timer.EventPaused:
		r.close(OutcomePaused, ev.Snapshot.Remaining)
	case timer.EventCompleted:
		r.close(OutcomeCompleted, 0)
	case timer.EventReset:
		if ev.From == timer.InProgress {
			r.close(OutcomeReset, r.remaining)
		}
	}
}

// close writes the open run. Reset restores the snapshot to the full
// duration, so the remaining time comes from the last tick instead.
func (r *Recorder) close(outcome Outcome, remaining time.Duration) {
	if !r.open {
		return
	}
	r.open = false

	run := Run{
		StartedAt: r.started,
		EndedAt:   r.now(),
		Total:     r.total,
		Remaining: remaining,
		Outcome:   outcome,
	}
	if err := r.repo.Create(context.Background(), &run); err != nil {
		r.logger.Error("failed to record run", "outcome", outcome, "error", err)
		return
	}
	r.logger.Debug("run recorded", "id", run.ID, "outcome", outcome, "counted", run.Counted())
	if r.OnRecord != nil {
		r.OnRecord(run)
	}
}
