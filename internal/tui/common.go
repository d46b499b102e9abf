package tui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sadopc/stepr/internal/fitness"
	"github.com/sadopc/stepr/internal/sensor"
	"github.com/sadopc/stepr/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewActivity
	viewGoal
	viewProfile
	viewSettings
)

var viewNames = []string{"Today", "Activity", "Goal", "Profile", "Settings"}

// --- Messages ---

// sensorStartedMsg carries the outcome of Service.Start.
type sensorStartedMsg struct {
	err error
}

// stepsMsg is a new authoritative step count.
type stepsMsg int

type goalSavedMsg struct {
	goal int
}

type profileSavedMsg struct {
	profile    *store.Profile
	heightUnit string
	weightUnit string
	unitsErr   error
}

type unitsSavedMsg struct {
	heightUnit string
	weightUnit string
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type activityDataMsg struct {
	hours []sensor.HourlyCount
	err   error
}

// --- Helpers ---

func formatSteps(n int) string {
	return humanize.Comma(int64(n))
}

func formatCalories(kcal float64) string {
	return fmt.Sprintf("%.2f kcal", kcal)
}

// formatHeight renders a height in the preferred unit.
func formatHeight(m float64, unit string) string {
	if m <= 0 {
		return "not set"
	}
	if unit == store.HeightImperial {
		ft, in := fitness.MetersToFeetInches(m)
		return fmt.Sprintf("%d'%d\"", ft, in)
	}
	return fitness.FormatMeters(m) + " m"
}

func formatWeight(kg float64, unit string) string {
	if kg <= 0 {
		return "not set"
	}
	if unit == store.WeightPounds {
		return fitness.FormatPounds(kg) + " lbs"
	}
	return fitness.FormatKilos(kg) + " kg"
}
