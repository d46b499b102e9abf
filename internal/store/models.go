package store

import "time"

// Profile is the persisted body profile row. Imperial columns are derived
// from the metric ones on save.
type Profile struct {
	HeightMeters float64
	HeightFeet   float64
	HeightInches float64
	WeightKilos  float64
	WeightPounds float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Setting struct {
	Key   string
	Value string
}

// Setting keys.
const (
	KeyDailyGoal  = "daily_goal"
	KeyHeightUnit = "height_unit"
	KeyWeightUnit = "weight_unit"
)

// Unit preference values.
const (
	HeightMetric   = "metric"
	HeightImperial = "imperial"
	WeightKilos    = "kg"
	WeightPounds   = "lbs"
)
