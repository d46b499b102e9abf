package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/stepr/internal/fitness"
	"github.com/sadopc/stepr/internal/sensor"
	"github.com/sadopc/stepr/internal/state"
)

type dashboardModel struct {
	state   *state.Stores
	spinner spinner.Model
	width   int
	height  int

	starting bool
	// startErr is the outcome of starting the sensor; nil once tracking.
	startErr error
	sensor   sensor.State
	now      time.Time
}

func newDashboardModel(st *state.Stores) dashboardModel {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(colorSecondary)
	return dashboardModel{
		state:    st,
		spinner:  sp,
		starting: true,
		now:      time.Now(),
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sensorStartedMsg:
		d.starting = false
		d.startErr = msg.err
		return d, nil

	case spinner.TickMsg:
		if !d.starting {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case tickMsg:
		d.now = time.Time(msg)
		return d, nil
	}
	return d, nil
}

func (d dashboardModel) denied() bool {
	return d.sensor == sensor.StateDenied || errors.Is(d.startErr, sensor.ErrPermissionDenied)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	var top string
	switch {
	case d.starting:
		top = d.renderStarting(w)
	case errors.Is(d.startErr, sensor.ErrSensorUnavailable):
		top = d.renderUnavailable(w)
	case d.denied():
		top = d.renderPermissionPrompt(w)
	default:
		top = d.renderSteps(w)
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, d.renderBody(w))
}

func (d dashboardModel) renderStarting(w int) string {
	line := d.spinner.View() + " Starting step sensor..."
	return panelStyle.Width(w).Render(line)
}

func (d dashboardModel) renderUnavailable(w int) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		warningStyle.Render("Step counting is not available on this device."),
		mutedStyle.Render("Profile and goal can still be edited."),
	)
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderPermissionPrompt(w int) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render("Motion access denied"),
		"",
		"Step counting needs permission to read your motion data.",
		"Allow it in your system settings and restart stepr.",
		"",
		highlightStyle.Render("o")+mutedStyle.Render(": open settings"),
	)
	return activePanelStyle.BorderForeground(colorError).Width(w).Render(content)
}

func (d dashboardModel) renderSteps(w int) string {
	s := d.state.Summary()

	count := stepsStyle.Render(formatSteps(s.Steps))
	goal := mutedStyle.Render(" / " + formatSteps(s.Goal) + " steps")

	bar := progress.New(
		progress.WithSolidFill(fitness.ProgressColor(s.Progress)),
		progress.WithWidth(max(10, w-14)),
		progress.WithoutPercentage(),
	)
	percent := lipgloss.NewStyle().
		Foreground(lipgloss.Color(fitness.ProgressColor(s.Progress))).
		Render(fmt.Sprintf(" %3d%%", fitness.Percent(s.Progress)))

	var remaining string
	if s.Remaining == 0 {
		remaining = goalReachedStyle.Render("Goal reached!")
	} else {
		remaining = mutedStyle.Render(formatSteps(s.Remaining) + " steps to go")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		count+goal,
		"",
		bar.ViewAs(s.Progress)+percent,
		remaining,
	)
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderBody(w int) string {
	s := d.state.Summary()
	p := d.state.Profile.Get()

	title := titleStyle.Render("Today") + "  " + mutedStyle.Render(d.now.Format("Mon Jan 2, 15:04"))

	var rows []string
	rows = append(rows, title, "")
	if p.IsSet() {
		rows = append(rows, row("Calories", accentStyle.Render(formatCalories(s.Calories))))
	} else {
		rows = append(rows, row("Calories", mutedStyle.Render("set your profile (4) to estimate")))
	}
	rows = append(rows, row("Goal", formatSteps(s.Goal)+" steps"))
	rows = append(rows, row("Sensor", d.sensorLabel()))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) sensorLabel() string {
	switch d.sensor {
	case sensor.StateActive:
		return successStyle.Render("● " + d.sensor.String())
	case sensor.StateDenied, sensor.StateUnavailable:
		return errorStyle.Render("■ " + d.sensor.String())
	}
	return mutedStyle.Render(d.sensor.String())
}

func row(label, value string) string {
	return "  " + lipgloss.NewStyle().Width(12).Render(label) + " " + value
}
