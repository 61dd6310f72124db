package timer

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"countdown_tui/internal/duration"
	"countdown_tui/internal/schedule"
)

func newMachine(t *testing.T) (*Machine, *schedule.Manual) {
	t.Helper()
	s := schedule.NewManual()
	return New(s), s
}

func TestInitialState(t *testing.T) {
	m, _ := newMachine(t)
	snap := m.Snapshot()
	assert.Equal(t, Setting, snap.State)
	assert.Equal(t, "00:00:00", snap.Text)
	assert.Zero(t, snap.Progress)
	assert.False(t, m.StartEnabled())
	assert.False(t, m.StopEnabled())
}

func TestConfigureComputesTotal(t *testing.T) {
	m, _ := newMachine(t)
	m.Configure(1, 2, 3)

	snap := m.Snapshot()
	assert.Equal(t, int64(3723000), snap.Total.Milliseconds())
	assert.Equal(t, snap.Total, snap.Remaining)
	assert.Equal(t, "01:02:03", snap.Text)
	assert.Equal(t, Setting, m.State())
	assert.True(t, m.StartEnabled())
}

func TestConfigureClampsFields(t *testing.T) {
	m, _ := newMachine(t)
	m.Configure(-1, 75, -4)
	assert.Equal(t, Config{Hours: 0, Minutes: 7, Seconds: 0}, m.Config())

	m.Configure(0, 120, 599)
	assert.Equal(t, Config{Minutes: 12, Seconds: 59}, m.Config())
}

func TestConfigureHugeHours(t *testing.T) {
	m, s := newMachine(t)
	m.Configure(duration.NormalizeHours("3000000"), 59, 59)

	assert.Equal(t, MaxHours, m.Config().Hours)
	snap := m.Snapshot()
	assert.Positive(t, snap.Total)
	assert.Equal(t, snap.Total, snap.Remaining)
	assert.True(t, m.StartEnabled())

	require.True(t, m.Start())
	assert.Equal(t, InProgress, m.State())
	assert.Positive(t, s.Last().Total)

	assert.Equal(t, Config{Hours: MaxHours}.Duration(), Config{Hours: math.MaxInt}.Duration())
}

func TestConfigureIgnoredOutsideSetting(t *testing.T) {
	m, _ := newMachine(t)
	m.Configure(0, 0, 10)
	require.True(t, m.Start())

	m.Configure(0, 5, 0)
	assert.Equal(t, 10*time.Second, m.Snapshot().Total)
	assert.Equal(t, Config{Seconds: 10}, m.Config())
}

func TestStartWithZeroDurationStaysSetting(t *testing.T) {
	m, s := newMachine(t)
	m.Configure(0, 0, 0)

	assert.False(t, m.Start())
	assert.Equal(t, Setting, m.State())
	assert.Empty(t, s.Tasks())
}

func TestStartFromSetting(t *testing.T) {
	m, s := newMachine(t)
	m.Configure(0, 1, 0)

	require.True(t, m.Start())
	snap := m.Snapshot()
	assert.Equal(t, InProgress, snap.State)
	assert.Equal(t, 1.0, snap.Progress)
	assert.Equal(t, snap.Total, snap.Remaining)

	task := s.Last()
	require.NotNil(t, task)
	assert.Equal(t, DefaultInterval, task.Interval)
	assert.Equal(t, time.Minute, task.Total)
	assert.True(t, m.StopEnabled())
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	m, s := newMachine(t)
	m.Configure(0, 0, 30)
	require.True(t, m.Start())

	assert.False(t, m.Start())
	assert.Len(t, s.Tasks(), 1)
	assert.Len(t, s.Active(), 1)
}

func TestTicksUpdateSnapshot(t *testing.T) {
	m, s := newMachine(t)
	m.Configure(0, 0, 4)
	require.True(t, m.Start())

	s.Advance(time.Second)
	snap := m.Snapshot()
	assert.Equal(t, 3*time.Second, snap.Remaining)
	assert.InDelta(t, 0.75, snap.Progress, 1e-9)
	assert.Equal(t, "00:00:03", snap.Text)
	assert.Equal(t, InProgress, snap.State)
}

func TestCountdownCompletesToPaused(t *testing.T) {
	m, s := newMachine(t)
	m.Configure(0, 0, 3)
	require.True(t, m.Start())

	s.Advance(3 * time.Second)
	snap := m.Snapshot()
	assert.Equal(t, Paused, snap.State)
	assert.Zero(t, snap.Progress)
	assert.Zero(t, snap.Remaining)
	assert.Equal(t, "00:00:00", snap.Text)
	assert.Equal(t, 3*time.Second, snap.Total)
	assert.Empty(t, s.Active())
}

func TestTickClampsInput(t *testing.T) {
	m, _ := newMachine(t)
	m.Configure(0, 0, 10)
	require.True(t, m.Start())

	m.Tick(time.Hour)
	assert.Equal(t, 10*time.Second, m.Snapshot().Remaining)

	m.Tick(-time.Second)
	assert.Equal(t, Paused, m.State())
	assert.Zero(t, m.Snapshot().Remaining)
}

func TestTickIgnoredUnlessRunning(t *testing.T) {
	m, _ := newMachine(t)
	m.Configure(0, 0, 10)
	m.Tick(5 * time.Second)
	assert.Equal(t, 10*time.Second, m.Snapshot().Remaining)
	assert.Equal(t, Setting, m.State())
}

func TestPauseCancelsTask(t *testing.T) {
	m, s := newMachine(t)
	m.Configure(0, 0, 10)
	require.True(t, m.Start())
	s.Advance(2 * time.Second)

	m.Pause()
	assert.Equal(t, Paused, m.State())
	assert.Equal(t, 1, s.Cancelled)
	assert.True(t, s.Last().Cancelled)

	s.Advance(5 * time.Second)
	assert.Equal(t, 8*time.Second, m.Snapshot().Remaining)
}

func TestPauseFromSettingIsNoop(t *testing.T) {
	m, s := newMachine(t)
	m.Configure(0, 0, 10)
	m.Pause()
	assert.Equal(t, Setting, m.State())
	assert.Zero(t, s.Cancelled)
}

func TestResumeFromPause(t *testing.T) {
	m, s := newMachine(t)
	m.Configure(0, 0, 10)
	require.True(t, m.Start())
	s.Advance(4 * time.Second)
	m.Pause()

	require.True(t, m.Start())
	assert.Equal(t, InProgress, m.State())
	assert.Equal(t, 6*time.Second, s.Last().Total)
	assert.InDelta(t, 0.6, m.Snapshot().Progress, 1e-9)
	assert.Len(t, s.Active(), 1)
}

func TestResumeAfterCompletionRepeatsLastTotal(t *testing.T) {
	m, s := newMachine(t)
	m.Configure(0, 0, 5)
	require.True(t, m.Start())
	s.Advance(5 * time.Second)
	require.Equal(t, Paused, m.State())

	require.True(t, m.Start())
	snap := m.Snapshot()
	assert.Equal(t, InProgress, snap.State)
	assert.Equal(t, 5*time.Second, snap.Remaining)
	assert.Equal(t, 1.0, snap.Progress)
	assert.Equal(t, 5*time.Second, s.Last().Total)
}

func TestResetReturnsToSetting(t *testing.T) {
	for _, tc := range []struct {
		name  string
		setup func(m *Machine, s *schedule.Manual)
	}{
		{"running", func(m *Machine, s *schedule.Manual) {
			m.Start()
			s.Advance(2 * time.Second)
		}},
		{"paused", func(m *Machine, s *schedule.Manual) {
			m.Start()
			s.Advance(2 * time.Second)
			m.Pause()
		}},
		{"completed", func(m *Machine, s *schedule.Manual) {
			m.Start()
			s.Advance(time.Minute)
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			m, s := newMachine(t)
			m.Configure(0, 0, 10)
			tc.setup(m, s)

			m.Reset()
			assert.Equal(t, Setting, m.State())
			assert.Empty(t, s.Active())
			for _, task := range s.Tasks() {
				assert.True(t, task.Cancelled)
			}
			assert.Equal(t, Config{Seconds: 10}, m.Config())
			assert.Equal(t, 10*time.Second, m.Snapshot().Remaining)
			assert.Equal(t, "00:00:10", m.Snapshot().Text)
			assert.False(t, m.StopEnabled())
		})
	}
}

func TestResetWhileRunningDropsLaterTicks(t *testing.T) {
	m, s := newMachine(t)
	m.Configure(0, 0, 10)
	require.True(t, m.Start())
	m.Reset()
	assert.Equal(t, 1, s.Cancelled)

	s.Advance(3 * time.Second)
	assert.Equal(t, Setting, m.State())
	assert.Equal(t, 10*time.Second, m.Snapshot().Remaining)
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	m, s := newMachine(t)
	var kinds []EventKind
	unsubscribe := m.Subscribe(func(ev Event) { kinds = append(kinds, ev.Kind) })

	m.Configure(0, 0, 2)
	m.Start()
	s.Advance(time.Second)
	m.Pause()
	m.Start()
	s.Advance(time.Second)
	m.Reset()
	unsubscribe()
	m.Configure(0, 0, 3)

	assert.Equal(t, []EventKind{
		EventConfigured,
		EventStarted,
		EventTicked,
		EventPaused,
		EventResumed,
		EventCompleted,
		EventReset,
	}, kinds)
}

func TestEventCarriesStates(t *testing.T) {
	m, _ := newMachine(t)
	var last Event
	m.Subscribe(func(ev Event) { last = ev })

	m.Configure(0, 1, 0)
	m.Start()
	assert.Equal(t, Setting, last.From)
	assert.Equal(t, InProgress, last.To)
	assert.Equal(t, time.Minute, last.Snapshot.Remaining)
}

func TestWithInterval(t *testing.T) {
	s := schedule.NewManual()
	m := New(s, WithInterval(250*time.Millisecond))
	m.Configure(0, 0, 1)
	require.True(t, m.Start())
	assert.Equal(t, 250*time.Millisecond, s.Last().Interval)

	s.Advance(250 * time.Millisecond)
	assert.Equal(t, "00:00:00", m.Snapshot().Text)
	assert.InDelta(t, 0.75, m.Snapshot().Progress, 1e-9)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatClock(0))
	assert.Equal(t, "00:00:00", FormatClock(-time.Second))
	assert.Equal(t, "00:00:59", FormatClock(59999*time.Millisecond))
	assert.Equal(t, "01:02:03", FormatClock(3723*time.Second))
	assert.Equal(t, "120:00:00", FormatClock(120*time.Hour))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Setting", Setting.String())
	assert.Equal(t, "InProgress", InProgress.String())
	assert.Equal(t, "Paused", Paused.String())
	assert.Equal(t, "State(9)", State(9).String())
}
