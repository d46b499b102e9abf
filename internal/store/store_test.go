package store

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/sadopc/stepr/internal/fitness"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPathKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "stepr.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveProfile(fitness.Profile{HeightMeters: 1.8, WeightKilos: 75}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetGoal(12000); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	p, err := s2.LoadProfile()
	if err != nil {
		t.Fatal(err)
	}
	if p == nil || !near(p.HeightMeters, 1.8) {
		t.Fatalf("profile not persisted: %+v", p)
	}
	goal, _ := s2.GetGoal()
	if goal != 12000 {
		t.Fatalf("goal not persisted, got %d", goal)
	}
}

func TestDefaultDBPath(t *testing.T) {
	path, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "stepr.db" {
		t.Fatalf("unexpected path %q", path)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Profile
// ============================================================

func TestLoadProfileEmpty(t *testing.T) {
	s := newTestStore(t)

	p, err := s.LoadProfile()
	if err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Fatalf("expected no profile, got %+v", p)
	}
	if p.Fitness().IsSet() {
		t.Fatal("nil profile should convert to the unset profile")
	}
}

func TestSaveProfileStoresBothUnits(t *testing.T) {
	s := newTestStore(t)

	p, err := s.SaveProfile(fitness.Profile{HeightMeters: 1.75, WeightKilos: 70})
	if err != nil {
		t.Fatal(err)
	}
	if !near(p.HeightMeters, 1.75) || !near(p.WeightKilos, 70) {
		t.Fatalf("metric values wrong: %+v", p)
	}
	if p.HeightFeet != 5 || p.HeightInches != 9 {
		t.Fatalf("expected 5'9\", got %v'%v\"", p.HeightFeet, p.HeightInches)
	}
	if !near(p.WeightPounds, 154.32) {
		t.Fatalf("expected ~154.32 lbs, got %v", p.WeightPounds)
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Fatal("timestamps not set")
	}
	got := p.Fitness()
	if !near(got.HeightMeters, 1.75) || !near(got.WeightKilos, 70) {
		t.Fatalf("Fitness() = %+v", got)
	}
}

func TestSaveProfileLatestWins(t *testing.T) {
	s := newTestStore(t)

	first, err := s.SaveProfile(fitness.Profile{HeightMeters: 1.6, WeightKilos: 60})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.SaveProfile(fitness.Profile{HeightMeters: 1.9, WeightKilos: 90})
	if err != nil {
		t.Fatal(err)
	}
	if !near(second.HeightMeters, 1.9) || !near(second.WeightKilos, 90) {
		t.Fatalf("expected latest values, got %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at changed: %v -> %v", first.CreatedAt, second.CreatedAt)
	}

	var rows int
	s.db.QueryRow("SELECT COUNT(*) FROM user_profile").Scan(&rows)
	if rows != 1 {
		t.Fatalf("expected a single profile row, got %d", rows)
	}
}

func TestSaveProfileRejectsInvalid(t *testing.T) {
	s := newTestStore(t)

	cases := []fitness.Profile{
		{HeightMeters: 0, WeightKilos: 70},
		{HeightMeters: 3.5, WeightKilos: 70},
		{HeightMeters: 1.7, WeightKilos: -1},
		{HeightMeters: 1.7, WeightKilos: 600},
	}
	for _, c := range cases {
		_, err := s.SaveProfile(c)
		var verr *fitness.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("SaveProfile(%+v): expected validation error, got %v", c, err)
		}
	}

	p, _ := s.LoadProfile()
	if p != nil {
		t.Fatalf("invalid saves must not write, got %+v", p)
	}
}

func TestSingletonConstraint(t *testing.T) {
	s := newTestStore(t)

	_, err := s.db.Exec(`INSERT INTO user_profile (id, height_meters, height_feet, height_inches, weight_kilos, weight_pounds)
		VALUES (2, 1.7, 5, 7, 70, 154)`)
	if err == nil {
		t.Fatal("expected second profile row to be rejected")
	}
}

// ============================================================
// Goal
// ============================================================

func TestGoalDefault(t *testing.T) {
	s := newTestStore(t)

	goal, err := s.GetGoal()
	if err != nil {
		t.Fatal(err)
	}
	if goal != fitness.DefaultGoal {
		t.Fatalf("expected %d, got %d", fitness.DefaultGoal, goal)
	}
}

func TestSetGoal(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetGoal(15000); err != nil {
		t.Fatal(err)
	}
	goal, _ := s.GetGoal()
	if goal != 15000 {
		t.Fatalf("expected 15000, got %d", goal)
	}
}

func TestSetGoalRejectsOutOfRange(t *testing.T) {
	s := newTestStore(t)

	for _, n := range []int{0, -5, 100001} {
		if err := s.SetGoal(n); err == nil {
			t.Fatalf("SetGoal(%d) should fail", n)
		}
	}
	goal, _ := s.GetGoal()
	if goal != fitness.DefaultGoal {
		t.Fatalf("rejected goals must not be stored, got %d", goal)
	}
}

func TestGetGoalCorruptValueFallsBack(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting(KeyDailyGoal, "lots")
	goal, err := s.GetGoal()
	if err != nil {
		t.Fatal(err)
	}
	if goal != fitness.DefaultGoal {
		t.Fatalf("expected default, got %d", goal)
	}
}

func TestGetGoalMissingRow(t *testing.T) {
	s := newTestStore(t)

	s.db.Exec(`DELETE FROM settings WHERE key = ?`, KeyDailyGoal)
	goal, err := s.GetGoal()
	if err != nil {
		t.Fatal(err)
	}
	if goal != fitness.DefaultGoal {
		t.Fatalf("expected default, got %d", goal)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		KeyDailyGoal:  "10000",
		KeyHeightUnit: HeightMetric,
		KeyWeightUnit: WeightKilos,
	}
	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("key", "v1")
	s.SetSetting("key", "v2")
	val, _ := s.GetSetting("key")
	if val != "v2" {
		t.Fatalf("expected v2, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetSetting("nonexistent"); err == nil {
		t.Fatal("expected error for missing key")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)

	settings, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(settings) != 3 {
		t.Fatalf("expected 3 settings, got %d", len(settings))
	}
	if settings[0].Key != KeyDailyGoal {
		t.Fatalf("expected sorted keys, first is %q", settings[0].Key)
	}
}

func TestUnits(t *testing.T) {
	s := newTestStore(t)

	h, w := s.Units()
	if h != HeightMetric || w != WeightKilos {
		t.Fatalf("defaults = %s/%s", h, w)
	}
	if err := s.SetUnits(HeightImperial, WeightPounds); err != nil {
		t.Fatal(err)
	}
	h, w = s.Units()
	if h != HeightImperial || w != WeightPounds {
		t.Fatalf("after set = %s/%s", h, w)
	}
	if err := s.SetUnits("cubits", WeightKilos); err == nil {
		t.Fatal("expected unknown unit error")
	}

	s.SetSetting(KeyWeightUnit, "stone")
	if _, w = s.Units(); w != WeightKilos {
		t.Fatalf("unknown stored unit should fall back, got %s", w)
	}
}
