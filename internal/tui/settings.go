package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/stepr/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	heightUnit *string
	weightUnit *string
}

func newSettingsModel(s *store.Store) settingsModel {
	hu, wu := store.HeightMetric, store.WeightKilos
	return settingsModel{
		store:      s,
		heightUnit: &hu,
		weightUnit: &wu,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	st := s.store
	return func() tea.Msg {
		settings, err := st.GetAllSettings()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Could not load settings: %v", err), isError: true}
		}
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Edit) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.heightUnit, *s.weightUnit = s.store.Units()

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Height unit").
				Options(
					huh.NewOption("Meters", store.HeightMetric),
					huh.NewOption("Feet / inches", store.HeightImperial),
				).Value(s.heightUnit),
			huh.NewSelect[string]().Title("Weight unit").
				Options(
					huh.NewOption("Kilograms (kg)", store.WeightKilos),
					huh.NewOption("Pounds (lbs)", store.WeightPounds),
				).Value(s.weightUnit),
		).Title("Units"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, tea.Sequence(s.saveUnits(*s.heightUnit, *s.weightUnit), s.refresh())
	}

	return s, cmd
}

func (s settingsModel) saveUnits(height, weight string) tea.Cmd {
	st := s.store
	return func() tea.Msg {
		if err := st.SetUnits(height, weight); err != nil {
			return statusMsg{text: fmt.Sprintf("Could not save units: %v", err), isError: true}
		}
		return unitsSavedMsg{heightUnit: height, weightUnit: weight}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title, "")
	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(settingLabel(setting.Key))
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to change units. The goal is set on the Goal tab."))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingLabel(k string) string {
	switch k {
	case store.KeyDailyGoal:
		return "Daily goal"
	case store.KeyHeightUnit:
		return "Height unit"
	case store.KeyWeightUnit:
		return "Weight unit"
	}
	return k
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.KeyDailyGoal:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return formatSteps(n) + " steps"
		}
	case store.KeyHeightUnit:
		if v == store.HeightImperial {
			return "feet / inches"
		}
		return "meters"
	}
	return v
}
