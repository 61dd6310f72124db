// Package timer holds the countdown state machine. It owns the configured
// duration, the remaining time and the derived progress, and it is the only
// thing that mutates them. All methods are expected to run on a single event
// loop; the scheduler delivers its callbacks there too.
package timer

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"countdown_tui/internal/duration"
	"countdown_tui/internal/schedule"
)

type State int

const (
	Setting State = iota
	InProgress
	Paused
)

func (s State) String() string {
	switch s {
	case Setting:
		return "Setting"
	case InProgress:
		return "InProgress"
	case Paused:
		return "Paused"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Config is the duration the user entered.
type Config struct {
	Hours   int
	Minutes int
	Seconds int
}

// MaxHours is the largest hour count whose total, with 59:59 on top, still
// fits in a time.Duration.
const MaxHours = int((math.MaxInt64 - int64(59*time.Minute+59*time.Second)) / int64(time.Hour))

// Duration returns the configured length. Hours beyond MaxHours saturate.
func (c Config) Duration() time.Duration {
	return time.Duration(min(c.Hours, MaxHours))*time.Hour +
		time.Duration(c.Minutes)*time.Minute +
		time.Duration(c.Seconds)*time.Second
}

// Snapshot is the read-only view handed to the presentation layer.
type Snapshot struct {
	State     State
	Total     time.Duration
	Remaining time.Duration
	Progress  float64
	Text      string
}

const DefaultInterval = time.Second

type Option func(*Machine)

// WithInterval sets how often the scheduler reports the remaining time.
func WithInterval(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.interval = d
		}
	}
}

type Machine struct {
	sched    schedule.Scheduler
	interval time.Duration

	state     State
	config    Config
	total     time.Duration
	remaining time.Duration
	progress  float64
	text      string

	handle    schedule.Handle
	observers map[int]func(Event)
	nextObs   int
}

func New(s schedule.Scheduler, opts ...Option) *Machine {
	m := &Machine{
		sched:     s,
		interval:  DefaultInterval,
		state:     Setting,
		observers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.refresh()
	return m
}

// Configure stores a new duration. It only has an effect while Setting.
// Minutes and seconds go through the same clipping as typed input, so 75
// becomes 7; hours are capped at MaxHours.
func (m *Machine) Configure(hours, minutes, seconds int) {
	if m.state != Setting {
		return
	}
	m.config = Config{
		Hours:   min(max(hours, 0), MaxHours),
		Minutes: clampClock(minutes),
		Seconds: clampClock(seconds),
	}
	m.total = m.config.Duration()
	m.remaining = m.total
	m.refresh()
	m.notify(EventConfigured, Setting)
}

func clampClock(v int) int {
	return duration.NormalizeMinuteOrSecond(strconv.Itoa(v))
}

// Start begins, resumes or repeats the countdown. It reports whether the
// machine accepted the request; a running timer or an empty duration is
// silently left alone.
func (m *Machine) Start() bool {
	from := m.state
	kind := EventResumed
	switch m.state {
	case InProgress:
		return false
	case Setting:
		m.total = m.config.Duration()
		m.remaining = m.total
		if m.total <= 0 {
			return false
		}
		kind = EventStarted
	case Paused:
		if m.remaining == 0 {
			m.remaining = m.total
			kind = EventStarted
		}
	}
	if m.total <= 0 || !m.StartEnabled() {
		return false
	}

	m.cancel()
	m.handle = m.sched.Schedule(m.interval, m.remaining, m.Tick, func() { m.Tick(0) })
	m.state = InProgress
	m.refresh()
	m.notify(kind, from)
	return true
}

// Tick records the remaining time reported by the scheduler. Reaching zero
// completes the run, which leaves the machine Paused at 00:00:00.
func (m *Machine) Tick(remaining time.Duration) {
	if m.state != InProgress {
		return
	}
	m.remaining = min(max(remaining, 0), m.total)
	if m.remaining > 0 {
		m.refresh()
		m.notify(EventTicked, InProgress)
		return
	}

	m.cancel()
	m.state = Paused
	m.refresh()
	m.notify(EventCompleted, InProgress)
}

func (m *Machine) Pause() {
	if m.state != InProgress {
		return
	}
	m.cancel()
	m.state = Paused
	m.refresh()
	m.notify(EventPaused, InProgress)
}

// Reset cancels any run and returns to Setting. The entered duration is kept
// and the remaining time is restored to it.
func (m *Machine) Reset() {
	from := m.state
	m.cancel()
	m.state = Setting
	m.total = m.config.Duration()
	m.remaining = m.total
	m.refresh()
	m.notify(EventReset, from)
}

func (m *Machine) StartEnabled() bool {
	switch m.state {
	case InProgress, Paused:
		return true
	}
	return m.config.Duration() > 0
}

func (m *Machine) StopEnabled() bool {
	return m.state == InProgress || m.state == Paused
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Config() Config {
	return m.config
}

func (m *Machine) Snapshot() Snapshot {
	return Snapshot{
		State:     m.state,
		Total:     m.total,
		Remaining: m.remaining,
		Progress:  m.progress,
		Text:      m.text,
	}
}

func (m *Machine) cancel() {
	if m.handle != nil {
		m.handle.Cancel()
		m.handle = nil
	}
}

func (m *Machine) refresh() {
	m.progress = 0
	if m.total > 0 {
		m.progress = float64(m.remaining) / float64(m.total)
	}
	m.text = FormatClock(m.remaining)
}

// FormatClock renders d as HH:MM:SS, dropping any fraction of a second.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
