package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/stepr/internal/fitness"
	"github.com/sadopc/stepr/internal/sensor"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Date       string     `json:"date"`
	Steps      int        `json:"steps"`
	Goal       int        `json:"goal"`
	Percent    int        `json:"percent"`
	Remaining  int        `json:"remaining"`
	Calories   float64    `json:"calories"`
	Profile    *jsonBody  `json:"profile,omitempty"`
	Hours      []jsonHour `json:"hours"`
}

type jsonBody struct {
	HeightMeters float64 `json:"height_meters"`
	WeightKilos  float64 `json:"weight_kilos"`
}

type jsonHour struct {
	Start string `json:"start"`
	Steps int    `json:"steps"`
}

// ToJSON writes the day summary together with its hourly breakdown.
func ToJSON(summary fitness.Summary, hours []sensor.HourlyCount, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Date:       summary.Date.Format(time.DateOnly),
		Steps:      summary.Steps,
		Goal:       summary.Goal,
		Percent:    fitness.Percent(summary.Progress),
		Remaining:  summary.Remaining,
		Calories:   summary.Calories,
		Hours:      []jsonHour{},
	}
	if summary.HeightMeters > 0 && summary.WeightKilos > 0 {
		export.Profile = &jsonBody{HeightMeters: summary.HeightMeters, WeightKilos: summary.WeightKilos}
	}
	for _, h := range hours {
		export.Hours = append(export.Hours, jsonHour{
			Start: h.Start.Format(time.RFC3339),
			Steps: h.Steps,
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// FileName returns the default export file name for a day, e.g.
// "stepr-2026-03-14.csv".
func FileName(date time.Time, ext string) string {
	return "stepr-" + date.Format(time.DateOnly) + "." + ext
}
