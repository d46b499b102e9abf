package fitness

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultGoal = 10000
	MaxGoal     = 100000
)

// GoalPresets are the quick-set step targets.
var GoalPresets = []int{5000, 10000, 15000, 20000}

// ParseGoal accepts an integer step target in 1..MaxGoal.
func ParseGoal(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, invalid("goal", "enter a valid number greater than 0")
	}
	if n > MaxGoal {
		return 0, invalid("goal", "goal cannot exceed 100,000 steps")
	}
	return n, nil
}

func ValidateGoal(n int) error {
	_, err := ParseGoal(strconv.Itoa(n))
	return err
}

// Progress returns current/target clamped to [0, 1].
func Progress(current, target int) float64 {
	if target <= 0 || current <= 0 {
		return 0
	}
	return math.Min(float64(current)/float64(target), 1)
}

func Remaining(current, target int) int {
	if current >= target {
		return 0
	}
	return target - current
}

// Percent renders a progress fraction as a whole percentage.
func Percent(progress float64) int {
	return int(math.Round(progress * 100))
}

var (
	progressLow  = mustHex("#FF5252")
	progressMid  = mustHex("#FFC107")
	progressHigh = mustHex("#4CAF50")
)

// ProgressColor maps progress onto a red, yellow, green gradient.
func ProgressColor(progress float64) string {
	switch {
	case progress <= 0:
		return progressLow.Hex()
	case progress >= 1:
		return progressHigh.Hex()
	case progress < 0.5:
		return progressLow.BlendRgb(progressMid, progress/0.5).Clamped().Hex()
	default:
		return progressMid.BlendRgb(progressHigh, (progress-0.5)/0.5).Clamped().Hex()
	}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Summary is a derived snapshot of one day.
type Summary struct {
	Date         time.Time
	Steps        int
	Goal         int
	Progress     float64
	Remaining    int
	Calories     float64
	HeightMeters float64
	WeightKilos  float64
}

// Summarize derives the day summary from the three state values.
func Summarize(date time.Time, steps int, p Profile, goal int) Summary {
	return Summary{
		Date:         date,
		Steps:        steps,
		Goal:         goal,
		Progress:     Progress(steps, goal),
		Remaining:    Remaining(steps, goal),
		Calories:     Calories(steps, p.WeightKilos),
		HeightMeters: p.HeightMeters,
		WeightKilos:  p.WeightKilos,
	}
}
