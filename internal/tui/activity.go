package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/stepr/internal/fitness"
	"github.com/sadopc/stepr/internal/sensor"
)

// hourlySource is the part of the sensor service the activity view reads.
type hourlySource interface {
	Hourly(ctx context.Context) ([]sensor.HourlyCount, error)
}

type activityModel struct {
	source hourlySource
	width  int
	height int

	hours  []sensor.HourlyCount
	err    error
	loaded bool
	goal   int

	chart barchart.Model
}

func newActivityModel(src hourlySource) activityModel {
	return activityModel{
		source: src,
		goal:   fitness.DefaultGoal,
		chart:  barchart.New(60, 12),
	}
}

func (a *activityModel) setSize(w, h int) {
	a.width = w
	a.height = h
	if a.loaded {
		a.buildChart()
	}
}

func (a activityModel) refresh() tea.Cmd {
	src := a.source
	return func() tea.Msg {
		hours, err := src.Hourly(context.Background())
		return activityDataMsg{hours: hours, err: err}
	}
}

func (a activityModel) update(msg tea.Msg) (activityModel, tea.Cmd) {
	switch msg := msg.(type) {
	case activityDataMsg:
		a.hours = msg.hours
		a.err = msg.err
		a.loaded = true
		a.buildChart()
		return a, nil
	}
	return a, nil
}

// hourTarget spreads the daily goal over the waking day, so an hour at or
// above it is on pace.
func (a activityModel) hourTarget() int {
	if a.goal <= 0 {
		return 0
	}
	return a.goal / 16
}

func (a *activityModel) buildChart() {
	chartWidth := a.width - 8
	if chartWidth < 24 {
		chartWidth = 24
	}
	chartHeight := 12
	if a.height > 30 {
		chartHeight = 16
	}

	a.chart = barchart.New(chartWidth, chartHeight)

	target := a.hourTarget()
	var bars []barchart.BarData
	for _, h := range a.hours {
		color := fitness.ProgressColor(fitness.Progress(h.Steps, target))
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		if h.Steps == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}
		bars = append(bars, barchart.BarData{
			Label: h.Start.Format("15"),
			Values: []barchart.BarValue{{
				Name:  h.Start.Format("15:04"),
				Value: float64(h.Steps),
				Style: style,
			}},
		})
	}

	a.chart.PushAll(bars)
	a.chart.Draw()
}

func (a activityModel) view() string {
	w := a.width - 4
	title := titleStyle.Render("Activity") + "  " + mutedStyle.Render("steps per hour, today")

	switch {
	case errors.Is(a.err, sensor.ErrNotActive):
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("  Hourly activity needs an active step sensor."),
		))
	case a.err != nil:
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", errorStyle.Render("  "+a.err.Error()),
		))
	case !a.loaded:
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("  Loading..."),
		))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, "", a.chart.View(), "", a.renderSummary(w), "",
			mutedStyle.Render("  r: refresh"),
		),
	)
}

func (a activityModel) renderSummary(w int) string {
	if len(a.hours) == 0 {
		return mutedStyle.Render("  No steps recorded yet today")
	}

	total, active := 0, 0
	peak := a.hours[0]
	for _, h := range a.hours {
		total += h.Steps
		if h.Steps > 0 {
			active++
		}
		if h.Steps > peak.Steps {
			peak = h
		}
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %10s", "", "Steps")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 26)))))
	rows = append(rows, fmt.Sprintf("  %-14s %10s", "Total", formatSteps(total)))
	rows = append(rows, fmt.Sprintf("  %-14s %10d", "Active hours", active))
	if peak.Steps > 0 {
		rows = append(rows, fmt.Sprintf("  %-14s %10s  %s",
			"Peak hour", formatSteps(peak.Steps), highlightStyle.Render(peak.Start.Format("15:04")),
		))
	}
	return strings.Join(rows, "\n")
}
