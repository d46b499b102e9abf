package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/sadopc/stepr/internal/fitness"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// GetGoal returns the saved daily step goal, falling back to the default
// when the stored value is missing or out of range.
func (s *Store) GetGoal() (int, error) {
	v, err := s.GetSetting(KeyDailyGoal)
	if errors.Is(err, sql.ErrNoRows) {
		return fitness.DefaultGoal, nil
	}
	if err != nil {
		return fitness.DefaultGoal, err
	}
	n, err := fitness.ParseGoal(v)
	if err != nil {
		return fitness.DefaultGoal, nil
	}
	return n, nil
}

func (s *Store) SetGoal(n int) error {
	if err := fitness.ValidateGoal(n); err != nil {
		return err
	}
	return s.SetSetting(KeyDailyGoal, strconv.Itoa(n))
}

// Units returns the preferred height and weight units.
func (s *Store) Units() (height, weight string) {
	height, weight = HeightMetric, WeightKilos
	if v, err := s.GetSetting(KeyHeightUnit); err == nil && (v == HeightMetric || v == HeightImperial) {
		height = v
	}
	if v, err := s.GetSetting(KeyWeightUnit); err == nil && (v == WeightKilos || v == WeightPounds) {
		weight = v
	}
	return height, weight
}

func (s *Store) SetUnits(height, weight string) error {
	if height != HeightMetric && height != HeightImperial {
		return fmt.Errorf("unknown height unit %q", height)
	}
	if weight != WeightKilos && weight != WeightPounds {
		return fmt.Errorf("unknown weight unit %q", weight)
	}
	if err := s.SetSetting(KeyHeightUnit, height); err != nil {
		return err
	}
	return s.SetSetting(KeyWeightUnit, weight)
}
