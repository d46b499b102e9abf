package fitness

import (
	"math"
	"strconv"
	"strings"
)

const (
	FeetPerMeter   = 3.28084
	InchesPerFoot  = 12
	MetersPerInch  = 0.0254
	PoundsPerKilo  = 2.20462
	MaxHeightMeter = 3.0
	MaxWeightKilo  = 500.0
)

// Profile is the user's body profile. The zero value means "not set yet".
type Profile struct {
	HeightMeters float64
	WeightKilos  float64
}

// NewProfile validates both measurements and returns the profile.
func NewProfile(heightMeters, weightKilos float64) (Profile, error) {
	if err := ValidateHeight(heightMeters); err != nil {
		return Profile{}, err
	}
	if err := ValidateWeight(weightKilos); err != nil {
		return Profile{}, err
	}
	return Profile{HeightMeters: heightMeters, WeightKilos: weightKilos}, nil
}

func (p Profile) IsSet() bool {
	return p.HeightMeters > 0 && p.WeightKilos > 0
}

func (p Profile) Validate() error {
	_, err := NewProfile(p.HeightMeters, p.WeightKilos)
	return err
}

// MetersToFeetInches splits a height into whole feet and rounded inches.
func MetersToFeetInches(m float64) (feet, inches int) {
	if m <= 0 {
		return 0, 0
	}
	totalFeet := m * FeetPerMeter
	whole := math.Floor(totalFeet)
	feet = int(whole)
	inches = int(math.Round((totalFeet - whole) * InchesPerFoot))
	if inches == InchesPerFoot {
		feet++
		inches = 0
	}
	return feet, inches
}

func FeetInchesToMeters(feet, inches float64) float64 {
	return (feet*InchesPerFoot + inches) * MetersPerInch
}

func KilosToPounds(kg float64) float64 {
	return kg * PoundsPerKilo
}

func PoundsToKilos(lb float64) float64 {
	return lb / PoundsPerKilo
}

// ValidateHeight accepts heights in (0, 3] meters.
func ValidateHeight(m float64) error {
	if math.IsNaN(m) || m <= 0 || m > MaxHeightMeter {
		return invalid("height", "enter a valid height (up to 3 m or 9'10\")")
	}
	return nil
}

// ValidateWeight accepts weights in (0, 500] kilograms.
func ValidateWeight(kg float64) error {
	if math.IsNaN(kg) || kg <= 0 || kg > MaxWeightKilo {
		return invalid("weight", "enter a valid weight (up to 500 kg or 1100 lbs)")
	}
	return nil
}

// ParseMeters parses and validates a metric height.
func ParseMeters(s string) (float64, error) {
	m, err := parseNumber(s)
	if err != nil {
		return 0, invalid("height", "height must be a number")
	}
	if err := ValidateHeight(m); err != nil {
		return 0, err
	}
	return m, nil
}

// ParseFeetInches parses an imperial height. An empty inches field counts
// as zero.
func ParseFeetInches(feet, inches string) (float64, error) {
	ft, err := parseNumber(feet)
	if err != nil {
		return 0, invalid("height", "feet must be a number")
	}
	var in float64
	if strings.TrimSpace(inches) != "" {
		in, err = parseNumber(inches)
		if err != nil {
			return 0, invalid("height", "inches must be a number")
		}
	}
	if ft < 0 || in < 0 {
		return 0, invalid("height", "enter a valid height (up to 3 m or 9'10\")")
	}
	m := FeetInchesToMeters(ft, in)
	if err := ValidateHeight(m); err != nil {
		return 0, err
	}
	return m, nil
}

func ParseKilos(s string) (float64, error) {
	kg, err := parseNumber(s)
	if err != nil {
		return 0, invalid("weight", "weight must be a number")
	}
	if err := ValidateWeight(kg); err != nil {
		return 0, err
	}
	return kg, nil
}

// ParsePounds parses a weight in pounds and returns it in kilograms.
func ParsePounds(s string) (float64, error) {
	lb, err := parseNumber(s)
	if err != nil {
		return 0, invalid("weight", "weight must be a number")
	}
	kg := PoundsToKilos(lb)
	if err := ValidateWeight(kg); err != nil {
		return 0, err
	}
	return kg, nil
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// FormatMeters renders a height with two decimals, e.g. "1.75".
func FormatMeters(m float64) string {
	return strconv.FormatFloat(roundTo(m, 2), 'f', 2, 64)
}

// FormatPounds renders a weight in pounds with one decimal, e.g. "154.3".
func FormatPounds(kg float64) string {
	return strconv.FormatFloat(roundTo(KilosToPounds(kg), 1), 'f', 1, 64)
}

func FormatKilos(kg float64) string {
	return strconv.FormatFloat(roundTo(kg, 1), 'f', 1, 64)
}
