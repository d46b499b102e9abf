package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/stepr/internal/export"
	"github.com/sadopc/stepr/internal/fitness"
	"github.com/sadopc/stepr/internal/sensor"
	"github.com/sadopc/stepr/internal/state"
	"github.com/sadopc/stepr/internal/store"
)

// Options wires the App to the rest of the program.
type Options struct {
	Store   *store.Store
	Service *sensor.Service
	State   *state.Stores
	// OpenSettings launches the OS settings so a refused permission can be
	// granted. Nil disables the shortcut.
	OpenSettings func(ctx context.Context) error
	// ExportDir is where exports are written; defaults to the home directory.
	ExportDir string
}

// App is the root Bubble Tea model.
type App struct {
	store        *store.Store
	service      *sensor.Service
	state        *state.Stores
	openSettings func(ctx context.Context) error
	exportDir    string

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	activity  activityModel
	goal      goalModel
	profile   profileModel
	settings  settingsModel

	steps       stepsFeed
	unsubscribe func()

	help        help.Model
	status      string
	statusError bool
}

func NewApp(opts Options) App {
	h := help.New()
	h.ShowAll = false

	feed := make(stepsFeed, 1)
	unsubscribe := opts.State.Steps.Subscribe(feed.push)

	return App{
		store:        opts.Store,
		service:      opts.Service,
		state:        opts.State,
		openSettings: opts.OpenSettings,
		exportDir:    opts.ExportDir,
		activeView:   viewDashboard,
		dashboard:    newDashboardModel(opts.State),
		activity:     newActivityModel(opts.Service),
		goal:         newGoalModel(opts.Store, opts.State.Goal.Get()),
		profile:      newProfileModel(opts.Store, opts.State.Profile.Get()),
		settings:     newSettingsModel(opts.Store),
		steps:        feed,
		unsubscribe:  unsubscribe,
		help:         h,
	}
}

// Close detaches the App from the step count.
func (a App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.startSensor(),
		a.dashboard.spinner.Tick,
		waitForSteps(a.steps),
		a.profile.refresh(),
		a.settings.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// stepsFeed hands the latest step count from the service goroutine to the
// Bubble Tea loop. It holds at most one value; older values are dropped.
type stepsFeed chan int

func (f stepsFeed) push(n int) {
	for {
		select {
		case f <- n:
			return
		default:
		}
		select {
		case <-f:
		default:
		}
	}
}

func waitForSteps(f stepsFeed) tea.Cmd {
	return func() tea.Msg {
		return stepsMsg(<-f)
	}
}

func (a App) startSensor() tea.Cmd {
	svc := a.service
	return func() tea.Msg {
		return sensorStartedMsg{err: svc.Start(context.Background())}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.activity.setSize(a.width, contentHeight)
		a.goal.setSize(a.width, contentHeight)
		a.profile.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Refresh):
			a.service.Refresh()
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.OpenSettings) && a.dashboard.denied():
			return a, a.doOpenSettings()
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewActivity)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewGoal)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewProfile)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case sensorStartedMsg:
		a.dashboard, _ = a.dashboard.update(msg)
		a.dashboard.sensor = a.service.State()
		a.setStatus(startStatus(msg.err))
		if msg.err == nil && a.activeView == viewActivity {
			return a, a.activity.refresh()
		}
		return a, nil

	case stepsMsg:
		return a, waitForSteps(a.steps)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case tickMsg:
		cmds = append(cmds, tickCmd())
		a.dashboard, _ = a.dashboard.update(msg)
		a.dashboard.sensor = a.service.State()
		return a, tea.Batch(cmds...)

	case goalSavedMsg:
		a.state.Goal.Set(msg.goal)
		a.goal, _ = a.goal.update(msg)
		a.activity.goal = msg.goal
		a.setStatus(statusMsg{text: fmt.Sprintf("Daily goal set to %s steps", formatSteps(msg.goal))})
		return a, nil

	case profileSavedMsg:
		a.state.Profile.Set(msg.profile.Fitness())
		a.profile, _ = a.profile.update(msg)
		if msg.unitsErr != nil {
			a.setStatus(statusMsg{text: fmt.Sprintf("Profile saved, but units were not: %v", msg.unitsErr), isError: true})
			return a, nil
		}
		a.setStatus(statusMsg{text: "Profile saved"})
		return a, nil

	case unitsSavedMsg:
		a.profile, _ = a.profile.update(msg)
		a.setStatus(statusMsg{text: "Units saved"})
		return a, nil

	case profileDataMsg:
		a.profile, _ = a.profile.update(msg)
		return a, nil

	case settingsDataMsg:
		a.settings, _ = a.settings.update(msg)
		return a, nil

	case activityDataMsg:
		a.activity, _ = a.activity.update(msg)
		return a, nil

	case statusMsg:
		a.setStatus(msg)
		return a, nil

	case exportDoneMsg:
		a.setStatus(statusMsg{text: "Exported to " + msg.path})
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(msg statusMsg) {
	a.status = msg.text
	a.statusError = msg.isError
	if msg.isError {
		log.Printf("tui: %s", msg.text)
	}
}

func startStatus(err error) statusMsg {
	switch {
	case err == nil:
		return statusMsg{text: "Step tracking active"}
	case errors.Is(err, sensor.ErrSensorUnavailable):
		return statusMsg{text: "Step sensor not available", isError: true}
	case errors.Is(err, sensor.ErrPermissionDenied):
		return statusMsg{text: "Motion permission denied", isError: true}
	}
	return statusMsg{text: fmt.Sprintf("Step sensor error: %v", err), isError: true}
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	if v == viewActivity {
		a.activity.goal = a.state.Goal.Get()
	}
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewActivity:
		a.activity, cmd = a.activity.update(msg)
	case viewGoal:
		a.goal, cmd = a.goal.update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewGoal:
		return a.goal.formActive
	case viewProfile:
		return a.profile.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewActivity:
		return a.activity.refresh()
	case viewProfile:
		return a.profile.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) doOpenSettings() tea.Cmd {
	open := a.openSettings
	return func() tea.Msg {
		if open == nil {
			return statusMsg{text: "Opening settings is not supported here", isError: true}
		}
		if err := open(context.Background()); err != nil {
			return statusMsg{text: fmt.Sprintf("Could not open settings: %v", err), isError: true}
		}
		return statusMsg{text: "Opened system settings"}
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewActivity:
		content = a.activity.view()
	case viewGoal:
		content = a.goal.view()
	case viewProfile:
		content = a.profile.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("stepr")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Live step count in footer
	stepsInfo := ""
	if a.dashboard.sensor == sensor.StateActive {
		steps := a.state.Steps.Get()
		progress := fitness.Progress(steps, a.state.Goal.Get())
		stepsInfo = lipgloss.NewStyle().
			Foreground(lipgloss.Color(fitness.ProgressColor(progress))).
			Render(" ● " + formatSteps(steps))
	}

	left := footerStyle.Render(helpView)
	right := stepsInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Today")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	summary := a.state.Summary()
	svc := a.service
	dir := a.exportDir
	return func() tea.Msg {
		// Without an active sensor the export still carries the summary.
		hours, err := svc.Hourly(context.Background())
		if err != nil && !errors.Is(err, sensor.ErrNotActive) {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			dir = home
		}

		var path string
		if format == 0 {
			path = filepath.Join(dir, export.FileName(summary.Date, "csv"))
			if err := export.ToCSV(summary, hours, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, export.FileName(summary.Date, "json"))
			if err := export.ToJSON(summary, hours, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
