// Package platform opens the operating system's privacy settings so a user
// who refused motion access can change their mind.
package platform

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

var ErrUnsupported = errors.New("opening system settings is not supported on this platform")

// settingsCommand returns the launcher for goos's privacy settings.
func settingsCommand(goos string) (name string, args []string, err error) {
	switch goos {
	case "darwin":
		return "open", []string{"x-apple.systempreferences:com.apple.preference.security?Privacy_Motion"}, nil
	case "windows":
		return "cmd", []string{"/c", "start", "ms-settings:privacy-motion"}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{"settings://privacy"}, nil
	}
	return "", nil, ErrUnsupported
}

// OpenSettings launches the settings app and returns once it has started.
func OpenSettings(ctx context.Context) error {
	name, args, err := settingsCommand(runtime.GOOS)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open settings: %w", err)
	}
	go cmd.Wait()
	return nil
}
