package fitness

import "math"

const (
	// IntensityMET is the metabolic equivalent of a moderate walk.
	IntensityMET = 3.8
	// Cadence is the assumed walking pace in steps per minute.
	Cadence = 80
)

// Calories estimates kilocalories burned walking steps at Cadence for a
// person weighing weightKilos. The result is rounded to two decimals and is
// zero when either input is not positive (e.g. the profile is unset).
func Calories(steps int, weightKilos float64) float64 {
	if steps <= 0 || weightKilos <= 0 {
		return 0
	}
	minutes := float64(steps) / Cadence
	perMinute := IntensityMET * 3.5 * weightKilos / 200
	return roundTo(minutes*perMinute, 2)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
