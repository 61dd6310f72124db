package schedule

import "time"

// Manual is a Scheduler driven by explicit Advance calls. Callbacks run
// synchronously inside Advance, which makes it suitable for tests.
type Manual struct {
	tasks     []*ManualTask
	Cancelled int
}

// NewManual returns an empty Manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// ManualTask is one task registered with a Manual scheduler.
type ManualTask struct {
	m          *Manual
	Interval   time.Duration
	Total      time.Duration
	Remaining  time.Duration
	Cancelled  bool
	Completed  bool
	onTick     func(time.Duration)
	onComplete func()
	carry      time.Duration
}

func (t *ManualTask) Cancel() {
	if t.Cancelled {
		return
	}
	t.Cancelled = true
	t.m.Cancelled++
}

func (m *Manual) Schedule(interval, total time.Duration, onTick func(time.Duration), onComplete func()) Handle {
	if interval <= 0 {
		interval = time.Second
	}
	t := &ManualTask{
		m:          m,
		Interval:   interval,
		Total:      total,
		Remaining:  total,
		onTick:     onTick,
		onComplete: onComplete,
	}
	m.tasks = append(m.tasks, t)
	return t
}

// Tasks returns every task scheduled so far, oldest first.
func (m *Manual) Tasks() []*ManualTask {
	return m.tasks
}

// Last returns the most recently scheduled task, or nil.
func (m *Manual) Last() *ManualTask {
	if len(m.tasks) == 0 {
		return nil
	}
	return m.tasks[len(m.tasks)-1]
}

// Active returns the tasks that are neither cancelled nor completed.
func (m *Manual) Active() []*ManualTask {
	var active []*ManualTask
	for _, t := range m.tasks {
		if !t.Cancelled && !t.Completed {
			active = append(active, t)
		}
	}
	return active
}

// Advance moves every active task forward by d, firing one tick per whole
// interval crossed.
func (m *Manual) Advance(d time.Duration) {
	for _, t := range m.Active() {
		t.advance(d)
	}
}

func (t *ManualTask) advance(d time.Duration) {
	t.carry += d
	for t.carry >= t.Interval && !t.Cancelled && !t.Completed {
		t.carry -= t.Interval
		t.Remaining = remainingAfter(t.Remaining, t.Interval, 1)
		if t.Remaining == 0 {
			t.Completed = true
			t.onComplete()
			return
		}
		t.onTick(t.Remaining)
	}
}
