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

type profileModel struct {
	store  *store.Store
	width  int
	height int

	profile    fitness.Profile
	updatedAt  string
	heightUnit string
	weightUnit string

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	formHeightUnit *string
	formWeightUnit *string
	meters         *string
	feet           *string
	inches         *string
	kilos          *string
	pounds         *string
}

func newProfileModel(s *store.Store, p fitness.Profile) profileModel {
	hu, wu := store.HeightMetric, store.WeightKilos
	m, ft, in, kg, lb := "", "", "", "", ""
	return profileModel{
		store:          s,
		profile:        p,
		heightUnit:     hu,
		weightUnit:     wu,
		formHeightUnit: &hu,
		formWeightUnit: &wu,
		meters:         &m,
		feet:           &ft,
		inches:         &in,
		kilos:          &kg,
		pounds:         &lb,
	}
}

func (p *profileModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type profileDataMsg struct {
	row        *store.Profile
	heightUnit string
	weightUnit string
}

func (p profileModel) refresh() tea.Cmd {
	s := p.store
	return func() tea.Msg {
		row, err := s.LoadProfile()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Could not load profile: %v", err), isError: true}
		}
		hu, wu := s.Units()
		return profileDataMsg{row: row, heightUnit: hu, weightUnit: wu}
	}
}

func (p profileModel) update(msg tea.Msg) (profileModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case profileDataMsg:
		p.heightUnit, p.weightUnit = msg.heightUnit, msg.weightUnit
		if msg.row != nil {
			p.profile = msg.row.Fitness()
			p.updatedAt = msg.row.UpdatedAt.Local().Format("Jan 2, 15:04")
		}
		return p, nil

	case profileSavedMsg:
		p.heightUnit, p.weightUnit = msg.heightUnit, msg.weightUnit
		if msg.profile != nil {
			p.profile = msg.profile.Fitness()
			p.updatedAt = msg.profile.UpdatedAt.Local().Format("Jan 2, 15:04")
		}
		return p, nil

	case unitsSavedMsg:
		p.heightUnit, p.weightUnit = msg.heightUnit, msg.weightUnit
		return p, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Edit) {
			return p.showForm()
		}
	}
	return p, nil
}

func (p profileModel) showForm() (profileModel, tea.Cmd) {
	*p.formHeightUnit = p.heightUnit
	*p.formWeightUnit = p.weightUnit
	*p.meters, *p.feet, *p.inches = "", "", ""
	*p.kilos, *p.pounds = "", ""
	if p.profile.IsSet() {
		ft, in := fitness.MetersToFeetInches(p.profile.HeightMeters)
		*p.meters = fitness.FormatMeters(p.profile.HeightMeters)
		*p.feet = strconv.Itoa(ft)
		*p.inches = strconv.Itoa(in)
		*p.kilos = fitness.FormatKilos(p.profile.WeightKilos)
		*p.pounds = fitness.FormatPounds(p.profile.WeightKilos)
	}

	metric := func() bool { return *p.formHeightUnit == store.HeightMetric }
	kilos := func() bool { return *p.formWeightUnit == store.WeightKilos }

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Height unit").
				Options(
					huh.NewOption("Meters", store.HeightMetric),
					huh.NewOption("Feet / inches", store.HeightImperial),
				).Value(p.formHeightUnit),
			huh.NewSelect[string]().Title("Weight unit").
				Options(
					huh.NewOption("Kilograms", store.WeightKilos),
					huh.NewOption("Pounds", store.WeightPounds),
				).Value(p.formWeightUnit),
		).Title("Units"),
		huh.NewGroup(
			huh.NewInput().Title("Height (m)").Placeholder("1.75").Value(p.meters).
				Validate(func(s string) error {
					_, err := fitness.ParseMeters(s)
					return err
				}),
		).Title("Height").WithHideFunc(func() bool { return !metric() }),
		huh.NewGroup(
			huh.NewInput().Title("Feet").Placeholder("5").Value(p.feet).
				Validate(func(s string) error {
					_, err := fitness.ParseFeetInches(s, *p.inches)
					return err
				}),
			huh.NewInput().Title("Inches").Placeholder("9").Value(p.inches).
				Validate(func(s string) error {
					_, err := fitness.ParseFeetInches(*p.feet, s)
					return err
				}),
		).Title("Height").WithHideFunc(metric),
		huh.NewGroup(
			huh.NewInput().Title("Weight (kg)").Placeholder("70").Value(p.kilos).
				Validate(func(s string) error {
					_, err := fitness.ParseKilos(s)
					return err
				}),
		).Title("Weight").WithHideFunc(func() bool { return !kilos() }),
		huh.NewGroup(
			huh.NewInput().Title("Weight (lbs)").Placeholder("154").Value(p.pounds).
				Validate(func(s string) error {
					_, err := fitness.ParsePounds(s)
					return err
				}),
		).Title("Weight").WithHideFunc(kilos),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p profileModel) updateForm(msg tea.Msg) (profileModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		prof, err := p.formProfile()
		if err != nil {
			return p, statusCmd(err.Error(), true)
		}
		return p, p.save(prof, *p.formHeightUnit, *p.formWeightUnit)
	}

	return p, cmd
}

// formProfile converts the submitted form into a validated metric profile.
func (p profileModel) formProfile() (fitness.Profile, error) {
	var (
		m   float64
		kg  float64
		err error
	)
	if *p.formHeightUnit == store.HeightImperial {
		m, err = fitness.ParseFeetInches(*p.feet, *p.inches)
	} else {
		m, err = fitness.ParseMeters(*p.meters)
	}
	if err != nil {
		return fitness.Profile{}, err
	}
	if *p.formWeightUnit == store.WeightPounds {
		kg, err = fitness.ParsePounds(*p.pounds)
	} else {
		kg, err = fitness.ParseKilos(*p.kilos)
	}
	if err != nil {
		return fitness.Profile{}, err
	}
	return fitness.NewProfile(m, kg)
}

// save writes the profile first; a failed write leaves the in-memory
// profile untouched. Once the row is written it is always published, and a
// units failure keeps the previous units.
func (p profileModel) save(prof fitness.Profile, heightUnit, weightUnit string) tea.Cmd {
	s := p.store
	oldHeight, oldWeight := p.heightUnit, p.weightUnit
	return func() tea.Msg {
		row, err := s.SaveProfile(prof)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Could not save profile: %v", err), isError: true}
		}
		if err := s.SetUnits(heightUnit, weightUnit); err != nil {
			return profileSavedMsg{profile: row, heightUnit: oldHeight, weightUnit: oldWeight, unitsErr: err}
		}
		return profileSavedMsg{profile: row, heightUnit: heightUnit, weightUnit: weightUnit}
	}
}

func (p profileModel) view() string {
	w := p.width - 4
	title := titleStyle.Render("Profile")

	if p.formActive && p.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title, "")
	if !p.profile.IsSet() {
		rows = append(rows, warningStyle.Render("  No profile yet."))
		rows = append(rows, mutedStyle.Render("  Your weight is needed to estimate calories burned."))
	} else {
		rows = append(rows, row("Height", highlightStyle.Render(formatHeight(p.profile.HeightMeters, p.heightUnit))))
		rows = append(rows, row("Weight", highlightStyle.Render(formatWeight(p.profile.WeightKilos, p.weightUnit))))
		if p.updatedAt != "" {
			rows = append(rows, row("Updated", subtitleStyle.Render(p.updatedAt)))
		}
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit profile"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
