package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/stepr/internal/fitness"
	"github.com/sadopc/stepr/internal/sensor"
)

// ToCSV writes one row per hour of today with a running total.
func ToCSV(summary fitness.Summary, hours []sensor.HourlyCount, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"Date", "Hour", "Steps", "Cumulative", "Calories"}); err != nil {
		return err
	}

	date := summary.Date.Format(time.DateOnly)
	total := 0
	for _, h := range hours {
		total += h.Steps
		row := []string{
			date,
			h.Start.Format("15:04"),
			strconv.Itoa(h.Steps),
			strconv.Itoa(total),
			formatCalories(fitness.Calories(h.Steps, summary.WeightKilos)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatCalories(kcal float64) string {
	return strconv.FormatFloat(kcal, 'f', 2, 64)
}
