package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"countdown_tui/internal/duration"
	"countdown_tui/internal/history"
	"countdown_tui/internal/schedule"
	"countdown_tui/internal/timer"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldHours = iota
	fieldMinutes
	fieldSeconds
	fieldCount
)

// eventMsg carries a scheduler callback onto the update loop.
type eventMsg func()

type Config struct {
	Interval time.Duration
	Hours    int
	Minutes  int
	Seconds  int
	// AutoStart starts the countdown as soon as the model is built.
	AutoStart bool

	GradientStart string
	GradientEnd   string
	HistoryLimit  int

	Logger *slog.Logger
	// Scheduler overrides the wall-clock scheduler.
	Scheduler schedule.Scheduler
}

type Model struct {
	machine  *timer.Machine
	events   chan func()
	recorder *history.Recorder
	repo     *history.Repository
	logger   *slog.Logger

	Inputs     [fieldCount]textinput.Model
	InputFocus int
	Progress   progress.Model

	ShowHistory  bool
	History      viewport.Model
	HistoryLimit int
	Runs         []history.Run
	Stats        history.Stats
	LastRun      *history.Run

	Width  int
	Height int
	Err    error
}

func NewModel(cfg Config) (*Model, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	repo, err := history.Open(context.Background(), history.MemoryDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	events := make(chan func(), 1)
	sched := cfg.Scheduler
	if sched == nil {
		sched = schedule.NewTicker(events)
	}

	m := &Model{
		machine:      timer.New(sched, timer.WithInterval(cfg.Interval)),
		events:       events,
		repo:         repo,
		logger:       logger,
		Progress:     newProgress(cfg.GradientStart, cfg.GradientEnd),
		History:      viewport.New(60, 15),
		HistoryLimit: cfg.HistoryLimit,
		Width:        80,
		Height:       24,
	}

	m.recorder = history.NewRecorder(repo, logger)
	m.recorder.OnRecord = func(run history.Run) {
		m.LastRun = &run
	}
	m.recorder.Attach(m.machine)
	m.machine.Subscribe(m.logEvent)

	for i := range m.Inputs {
		m.Inputs[i] = newField(i)
	}
	m.setField(fieldHours, strconv.Itoa(max(cfg.Hours, 0)), false)
	m.setField(fieldMinutes, strconv.Itoa(cfg.Minutes), false)
	m.setField(fieldSeconds, strconv.Itoa(cfg.Seconds), false)
	m.configure()
	m.Inputs[fieldHours].Focus()

	if cfg.AutoStart {
		m.start()
	}
	return m, nil
}

func newField(i int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "00"
	in.Width = 4
	in.CharLimit = 3
	if i == fieldHours {
		in.CharLimit = 4
	}
	return in
}

func newProgress(start, end string) progress.Model {
	if start == "" || end == "" {
		return progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	}
	return progress.New(progress.WithGradient(start, end), progress.WithoutPercentage())
}

func waitForEvent(events <-chan func()) tea.Cmd {
	return func() tea.Msg {
		return eventMsg(<-events)
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.events))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		msg()
		return m, waitForEvent(m.events)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.Progress.Width = min(max(msg.Width-8, 10), 60)
		m.History.Width = max(msg.Width-4, 20)
		m.History.Height = max(msg.Height-8, 5)
		return m, nil
	}

	if m.machine.State() == timer.Setting {
		var cmd tea.Cmd
		m.Inputs[m.InputFocus], cmd = m.Inputs[m.InputFocus].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) Snapshot() timer.Snapshot {
	return m.machine.Snapshot()
}

func (m *Model) Machine() *timer.Machine {
	return m.machine
}

// Close pauses a running countdown so its run is logged, then releases the
// history database.
func (m *Model) Close() error {
	m.machine.Pause()
	return m.repo.Close()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowHistory {
		return m.handleHistoryInput(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "enter":
		m.start()
	case " ":
		if m.machine.State() == timer.InProgress {
			m.machine.Pause()
		} else {
			m.start()
		}
	case "p":
		m.machine.Pause()
	case "r":
		if m.machine.StopEnabled() {
			m.machine.Reset()
			return m, m.Inputs[m.InputFocus].Focus()
		}
	case "l":
		m.openHistory()
	case "tab", "down":
		return m, m.moveFocus(1)
	case "shift+tab", "up":
		return m, m.moveFocus(-1)
	default:
		return m.handleFieldInput(msg)
	}
	return m, nil
}

func (m *Model) start() {
	if m.machine.State() == timer.Setting {
		m.configure()
	}
	if m.machine.Start() {
		for i := range m.Inputs {
			m.Inputs[i].Blur()
		}
	}
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	if m.machine.State() != timer.Setting {
		return nil
	}
	m.Inputs[m.InputFocus].Blur()
	m.InputFocus = (m.InputFocus + delta + fieldCount) % fieldCount
	return m.Inputs[m.InputFocus].Focus()
}

// handleFieldInput lets the focused field take the key, then runs the new
// text through the validator and writes the normalized value back.
func (m *Model) handleFieldInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.machine.State() != timer.Setting {
		return m, nil
	}
	var cmd tea.Cmd
	m.Inputs[m.InputFocus], cmd = m.Inputs[m.InputFocus].Update(msg)
	m.setField(m.InputFocus, m.Inputs[m.InputFocus].Value(), true)
	m.configure()
	return m, cmd
}

func (m *Model) setField(i int, text string, keepEmpty bool) {
	if keepEmpty && text == "" {
		m.Inputs[i].SetValue("")
		return
	}
	var v int
	if i == fieldHours {
		v = duration.NormalizeHours(text)
	} else {
		v = duration.NormalizeMinuteOrSecond(text)
	}
	if !keepEmpty && v == 0 {
		m.Inputs[i].SetValue("")
		return
	}
	m.Inputs[i].SetValue(strconv.Itoa(v))
}

func (m *Model) configure() {
	m.machine.Configure(
		duration.NormalizeHours(m.Inputs[fieldHours].Value()),
		duration.NormalizeMinuteOrSecond(m.Inputs[fieldMinutes].Value()),
		duration.NormalizeMinuteOrSecond(m.Inputs[fieldSeconds].Value()),
	)
}

func (m *Model) openHistory() {
	ctx := context.Background()
	runs, err := m.repo.List(ctx, m.HistoryLimit)
	if err != nil {
		m.Err = err
		m.logger.Error("failed to load history", "error", err)
	}
	stats, err := m.repo.Stats(ctx)
	if err != nil {
		m.Err = err
		m.logger.Error("failed to load history stats", "error", err)
	}
	m.Runs = runs
	m.Stats = stats
	m.History.SetContent(m.historyContent())
	m.History.GotoTop()
	m.ShowHistory = true
}

func (m *Model) handleHistoryInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc", "l":
		m.ShowHistory = false
		m.Runs = nil
		return m, nil
	}
	var cmd tea.Cmd
	m.History, cmd = m.History.Update(msg)
	return m, cmd
}

func (m *Model) logEvent(ev timer.Event) {
	if ev.Kind == timer.EventTicked || ev.Kind == timer.EventConfigured {
		return
	}
	m.logger.Info("timer "+ev.Kind.String(),
		"from", ev.From.String(),
		"to", ev.To.String(),
		"total", ev.Snapshot.Total,
		"remaining", ev.Snapshot.Remaining,
	)
}
