package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/stepr/internal/fitness"
	"github.com/sadopc/stepr/internal/store"
)

type goalModel struct {
	store  *store.Store
	width  int
	height int

	current int
	// cursor indexes GoalPresets; len(GoalPresets) is the custom entry.
	cursor int

	formActive bool
	form       *huh.Form
	custom     *string
}

func newGoalModel(s *store.Store, current int) goalModel {
	custom := ""
	g := goalModel{store: s, current: current, custom: &custom}
	g.cursor = g.presetIndex()
	return g
}

func (g *goalModel) setSize(w, h int) {
	g.width = w
	g.height = h
}

func (g goalModel) presetIndex() int {
	for i, p := range fitness.GoalPresets {
		if p == g.current {
			return i
		}
	}
	return len(fitness.GoalPresets)
}

func (g goalModel) update(msg tea.Msg) (goalModel, tea.Cmd) {
	if g.formActive && g.form != nil {
		return g.updateForm(msg)
	}

	switch msg := msg.(type) {
	case goalSavedMsg:
		g.current = msg.goal
		g.cursor = g.presetIndex()
		return g, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if g.cursor > 0 {
				g.cursor--
			}
		case key.Matches(msg, keys.Down):
			if g.cursor < len(fitness.GoalPresets) {
				g.cursor++
			}
		case key.Matches(msg, keys.Enter):
			if g.cursor < len(fitness.GoalPresets) {
				return g, g.save(fitness.GoalPresets[g.cursor])
			}
			return g.showForm()
		}
	}
	return g, nil
}

func (g goalModel) showForm() (goalModel, tea.Cmd) {
	*g.custom = strconv.Itoa(g.current)
	g.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Daily step goal").
				Description("1 to 100,000 steps").
				Value(g.custom).
				Validate(func(s string) error {
					_, err := fitness.ParseGoal(s)
					return err
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	g.formActive = true
	return g, g.form.Init()
}

func (g goalModel) updateForm(msg tea.Msg) (goalModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			g.formActive = false
			g.form = nil
			return g, nil
		}
	}

	form, cmd := g.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		g.form = f
	}

	if g.form.State == huh.StateCompleted {
		g.formActive = false
		n, err := fitness.ParseGoal(*g.custom)
		if err != nil {
			return g, statusCmd(err.Error(), true)
		}
		return g, g.save(n)
	}

	return g, cmd
}

// save persists n and reports the result; state is only updated once the
// write succeeded.
func (g goalModel) save(n int) tea.Cmd {
	s := g.store
	return func() tea.Msg {
		if err := s.SetGoal(n); err != nil {
			return statusMsg{text: fmt.Sprintf("Could not save goal: %v", err), isError: true}
		}
		return goalSavedMsg{goal: n}
	}
}

func (g goalModel) view() string {
	w := g.width - 4
	title := titleStyle.Render("Daily Goal")
	current := "Current goal: " + highlightStyle.Render(formatSteps(g.current)+" steps")

	if g.formActive && g.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, current, "", g.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title, current, "")
	for i, p := range fitness.GoalPresets {
		rows = append(rows, g.item(i, fmt.Sprintf("%dK steps", p/1000), p == g.current))
	}
	rows = append(rows, g.item(len(fitness.GoalPresets), "Custom...", g.presetIndex() == len(fitness.GoalPresets)))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: set goal  ↑/↓: choose"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (g goalModel) item(i int, label string, active bool) string {
	cursor := "  "
	style := normalItemStyle
	if i == g.cursor {
		cursor = "> "
		style = selectedItemStyle
	}
	mark := ""
	if active {
		mark = successStyle.Render(" ✓")
	}
	return style.Render(cursor+label) + mark
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}
