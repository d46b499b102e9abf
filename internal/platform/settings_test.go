package platform

import (
	"errors"
	"testing"
)

func TestSettingsCommand(t *testing.T) {
	tests := []struct {
		goos string
		name string
	}{
		{"darwin", "open"},
		{"windows", "cmd"},
		{"linux", "xdg-open"},
	}
	for _, tt := range tests {
		name, args, err := settingsCommand(tt.goos)
		if err != nil {
			t.Fatalf("%s: %v", tt.goos, err)
		}
		if name != tt.name || len(args) == 0 {
			t.Fatalf("%s: got %q %v", tt.goos, name, args)
		}
	}
}

func TestSettingsCommandUnsupported(t *testing.T) {
	_, _, err := settingsCommand("plan9")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
