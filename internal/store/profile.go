package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/stepr/internal/fitness"
)

// LoadProfile returns the saved profile, or nil if none was ever saved.
func (s *Store) LoadProfile() (*Profile, error) {
	p := &Profile{}
	var createdAt, updatedAt string
	err := s.db.QueryRow(
		`SELECT height_meters, height_feet, height_inches, weight_kilos, weight_pounds, created_at, updated_at
		 FROM user_profile WHERE id = 1`,
	).Scan(&p.HeightMeters, &p.HeightFeet, &p.HeightInches, &p.WeightKilos, &p.WeightPounds, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

// SaveProfile validates p and writes it as the one profile row. The latest
// save wins; created_at is kept from the first save.
func (s *Store) SaveProfile(p fitness.Profile) (*Profile, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	feet, inches := fitness.MetersToFeetInches(p.HeightMeters)
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO user_profile (id, height_meters, height_feet, height_inches, weight_kilos, weight_pounds, created_at, updated_at)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			height_meters = excluded.height_meters,
			height_feet   = excluded.height_feet,
			height_inches = excluded.height_inches,
			weight_kilos  = excluded.weight_kilos,
			weight_pounds = excluded.weight_pounds,
			updated_at    = excluded.updated_at`,
		p.HeightMeters, feet, inches, p.WeightKilos, fitness.KilosToPounds(p.WeightKilos), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return s.LoadProfile()
}

// Fitness converts the row into the in-memory profile.
func (p *Profile) Fitness() fitness.Profile {
	if p == nil {
		return fitness.Profile{}
	}
	return fitness.Profile{HeightMeters: p.HeightMeters, WeightKilos: p.WeightKilos}
}
