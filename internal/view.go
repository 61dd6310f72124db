package internal

import (
	"fmt"
	"strings"
	"time"

	"countdown_tui/internal/history"
	"countdown_tui/internal/timer"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("69")).
			Bold(true).
			Padding(0, 2)

	clockRunningStyle = clockStyle.
				Foreground(lipgloss.Color("82"))

	clockDoneStyle = clockStyle.
			Foreground(lipgloss.Color("203"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	inputInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	logTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	logTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))
)

var fieldLabels = [fieldCount]string{"Hours", "Minutes", "Seconds"}

func (m *Model) View() string {
	if m.ShowHistory {
		return m.historyView()
	}
	return m.mainView()
}

func (m *Model) mainView() string {
	snap := m.machine.Snapshot()

	var sb strings.Builder
	sb.WriteString(m.fieldsView(snap.State))
	sb.WriteString("\n\n")
	sb.WriteString(lipgloss.PlaceHorizontal(m.Progress.Width, lipgloss.Center, m.clockView(snap)))
	sb.WriteString("\n\n")
	sb.WriteString(m.Progress.ViewAs(snap.Progress))
	sb.WriteString("\n\n")
	sb.WriteString(m.statusView(snap))
	if m.LastRun != nil {
		sb.WriteString("\n")
		sb.WriteString(inactiveStyle.Render("Last: " + formatRun(*m.LastRun)))
	}
	if m.Err != nil {
		sb.WriteString("\n")
		sb.WriteString(errStyle.Render(m.Err.Error()))
	}

	body := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Countdown"),
		"",
		boxStyle.Render(sb.String()),
		"",
		helpStyle.Render(wordwrap.String(m.helpText(snap.State), max(m.Width-4, 20))),
	)
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) fieldsView(state timer.State) string {
	cols := make([]string, 0, fieldCount*2)
	for i := range m.Inputs {
		label := fieldLabels[i]
		value := m.Inputs[i].Value()
		if value == "" {
			value = "0"
		}
		var cell string
		switch {
		case state != timer.Setting:
			cell = inputInactiveStyle.Render(fmt.Sprintf("%s\n%s", label, value))
		case i == m.InputFocus:
			cell = inputStyle.Render("→ "+label) + "\n" + inputStyle.Render(m.Inputs[i].View())
		default:
			cell = inputInactiveStyle.Render("  "+label) + "\n" + m.Inputs[i].View()
		}
		if i > 0 {
			cols = append(cols, "   ")
		}
		cols = append(cols, cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m *Model) clockView(snap timer.Snapshot) string {
	switch {
	case snap.State == timer.InProgress:
		return clockRunningStyle.Render(snap.Text)
	case snap.State == timer.Paused && snap.Remaining == 0:
		return clockDoneStyle.Render(snap.Text)
	}
	return clockStyle.Render(snap.Text)
}

func (m *Model) statusView(snap timer.Snapshot) string {
	status := snap.State.String()
	style := inactiveStyle
	switch {
	case snap.State == timer.InProgress:
		status = "Running"
		style = runningStyle
	case snap.State == timer.Paused && snap.Remaining == 0:
		status = "Done"
		style = clockDoneStyle.UnsetPadding()
	}
	return fmt.Sprintf("%s  %s", style.Render(status),
		inactiveStyle.Render(fmt.Sprintf("of %s (%3.0f%%)", timer.FormatClock(snap.Total), snap.Progress*100)))
}

func (m *Model) helpText(state timer.State) string {
	switch state {
	case timer.Setting:
		if m.machine.StartEnabled() {
			return "Tab: Next field | Enter: Start | History: l | Quit: q"
		}
		return "Tab: Next field | Type a duration to start | History: l | Quit: q"
	case timer.InProgress:
		return "Pause: p/space | Reset: r | History: l | Quit: q"
	}
	return "Resume: Enter/space | Reset: r | History: l | Quit: q"
}

func (m *Model) historyView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(m.History.Width).Render("Run History"))
	sb.WriteString("\n\n")
	sb.WriteString(m.History.View())
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("Scroll: Up/Down | Close: l/Esc"))
	return sb.String()
}

func (m *Model) historyContent() string {
	if len(m.Runs) == 0 {
		return inactiveStyle.Render("No runs yet. Start a countdown to record one.")
	}

	var sb strings.Builder
	sb.WriteString(logHeaderStyle.Render(fmt.Sprintf(
		"%d runs | %d completed | %d paused | %d reset | counted %s",
		m.Stats.Runs, m.Stats.Completed, m.Stats.Paused, m.Stats.Reset,
		timer.FormatClock(m.Stats.Counted),
	)))
	sb.WriteString("\n\n")
	for _, run := range m.Runs {
		sb.WriteString(logTimeStyle.Render(run.EndedAt.Format("Jan 02 15:04:05")))
		sb.WriteString("  ")
		sb.WriteString(formatRun(run))
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatRun(run history.Run) string {
	return fmt.Sprintf("%s of %s %s",
		timer.FormatClock(run.Counted().Round(time.Second)),
		timer.FormatClock(run.Total),
		logTagStyle.Render("["+string(run.Outcome)+"]"),
	)
}
