package fitness

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalories(t *testing.T) {
	tests := []struct {
		name   string
		steps  int
		weight float64
		want   float64
	}{
		{"reference walk", 8000, 70, 465.5},
		{"no steps", 0, 70, 0},
		{"unset profile", 8000, 0, 0},
		{"negative steps", -10, 70, 0},
		{"rounds to two places", 1234, 81.3, 83.39},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Calories(tt.steps, tt.weight), 0.001)
		})
	}
}

func TestCaloriesNeverNegative(t *testing.T) {
	for steps := 0; steps <= 50000; steps += 2500 {
		for _, w := range []float64{0, 0.5, 45, 70, 120, 500} {
			assert.GreaterOrEqual(t, Calories(steps, w), 0.0)
		}
		assert.Zero(t, Calories(0, float64(steps)))
	}
}

func TestHeightRoundTrip(t *testing.T) {
	feet, inches := MetersToFeetInches(1.75)
	assert.Equal(t, 5, feet)
	assert.Equal(t, 9, inches)

	back := FeetInchesToMeters(float64(feet), float64(inches))
	assert.InDelta(t, 1.75, back, 0.01)
}

func TestMetersToFeetInchesCarry(t *testing.T) {
	// 1.8288 m is exactly 6 ft; float noise must not yield 5'12".
	feet, inches := MetersToFeetInches(1.8287)
	assert.Equal(t, 6, feet)
	assert.Equal(t, 0, inches)

	feet, inches = MetersToFeetInches(0)
	assert.Zero(t, feet)
	assert.Zero(t, inches)
}

func TestWeightRoundTrip(t *testing.T) {
	assert.Equal(t, "154.3", FormatPounds(70))

	kg, err := ParsePounds("154.3")
	require.NoError(t, err)
	assert.InDelta(t, 70, kg, 0.1)
}

func TestValidateHeight(t *testing.T) {
	for _, bad := range []float64{0, 3.5, -1} {
		err := ValidateHeight(bad)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "height %v should be rejected", bad)
		assert.Equal(t, "height", verr.Field)
		assert.NotEmpty(t, verr.Message)
	}
	assert.NoError(t, ValidateHeight(1.75))
	assert.NoError(t, ValidateHeight(3))
}

func TestValidateWeight(t *testing.T) {
	for _, bad := range []float64{0, 600, -3} {
		assert.Error(t, ValidateWeight(bad), "weight %v should be rejected", bad)
	}
	assert.NoError(t, ValidateWeight(70))
	assert.NoError(t, ValidateWeight(500))
}

func TestParseHeightInputs(t *testing.T) {
	m, err := ParseMeters(" 1.75 ")
	require.NoError(t, err)
	assert.Equal(t, 1.75, m)

	_, err = ParseMeters("tall")
	assert.Error(t, err)

	m, err = ParseFeetInches("5", "9")
	require.NoError(t, err)
	assert.InDelta(t, 1.7526, m, 0.0001)

	m, err = ParseFeetInches("6", "")
	require.NoError(t, err)
	assert.InDelta(t, 1.8288, m, 0.0001)

	_, err = ParseFeetInches("12", "0")
	assert.Error(t, err, "12 ft exceeds 3 m")

	_, err = ParseFeetInches("5", "x")
	assert.Error(t, err)
}

func TestParseWeightInputs(t *testing.T) {
	kg, err := ParseKilos("70")
	require.NoError(t, err)
	assert.Equal(t, 70.0, kg)

	_, err = ParseKilos("600")
	assert.Error(t, err)

	_, err = ParsePounds("1200")
	assert.Error(t, err)
}

func TestNewProfile(t *testing.T) {
	p, err := NewProfile(1.75, 70)
	require.NoError(t, err)
	assert.True(t, p.IsSet())
	assert.NoError(t, p.Validate())

	_, err = NewProfile(0, 70)
	assert.Error(t, err)
	_, err = NewProfile(1.75, 0)
	assert.Error(t, err)

	assert.False(t, Profile{}.IsSet())
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 1.0, Progress(12000, 10000))
	assert.Equal(t, 0.5, Progress(5000, 10000))
	assert.Equal(t, 0.0, Progress(0, 10000))
	assert.Equal(t, 0.0, Progress(500, 0))
}

func TestRemainingAndPercent(t *testing.T) {
	assert.Equal(t, 2500, Remaining(7500, 10000))
	assert.Equal(t, 0, Remaining(12000, 10000))
	assert.Equal(t, 75, Percent(Progress(7500, 10000)))
	assert.Equal(t, 100, Percent(Progress(20000, 10000)))
}

func TestParseGoal(t *testing.T) {
	for _, bad := range []string{"0", "-5", "abc", "200000", ""} {
		_, err := ParseGoal(bad)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), "goal %q should be rejected", bad)
	}

	n, err := ParseGoal("15000")
	require.NoError(t, err)
	assert.Equal(t, 15000, n)

	n, err = ParseGoal("100000")
	require.NoError(t, err)
	assert.Equal(t, MaxGoal, n)
}

func TestGoalPresetsAreValid(t *testing.T) {
	require.Len(t, GoalPresets, 4)
	for _, p := range GoalPresets {
		assert.NoError(t, ValidateGoal(p))
	}
	assert.Contains(t, GoalPresets, DefaultGoal)
}

func TestProgressColor(t *testing.T) {
	assert.Equal(t, "#ff5252", ProgressColor(0))
	assert.Equal(t, "#ffc107", ProgressColor(0.5))
	assert.Equal(t, "#4caf50", ProgressColor(1))
	assert.Equal(t, "#4caf50", ProgressColor(1.7))

	mid := ProgressColor(0.25)
	assert.NotEqual(t, ProgressColor(0), mid)
	assert.NotEqual(t, ProgressColor(0.5), mid)
}

func TestSummarize(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.Local)
	s := Summarize(day, 8000, Profile{HeightMeters: 1.75, WeightKilos: 70}, 10000)

	assert.Equal(t, day, s.Date)
	assert.Equal(t, 8000, s.Steps)
	assert.Equal(t, 0.8, s.Progress)
	assert.Equal(t, 2000, s.Remaining)
	assert.InDelta(t, 465.5, s.Calories, 0.001)
	assert.Equal(t, 1.75, s.HeightMeters)
}
