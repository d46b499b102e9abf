// Package sensor acquires today's step count from a pedometer and keeps it
// reconciled against the device's authoritative daily total.
package sensor

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSensorUnavailable = errors.New("step sensor is not available on this device")
	ErrPermissionDenied  = errors.New("motion sensor permission denied")
	ErrNotActive         = errors.New("step tracking is not active")
	ErrAlreadyStarted    = errors.New("step tracking already started")
)

type PermissionStatus string

const (
	PermissionGranted      PermissionStatus = "granted"
	PermissionDenied       PermissionStatus = "denied"
	PermissionUndetermined PermissionStatus = "undetermined"
)

// ParsePermission maps a config string onto a status; unknown values are
// treated as undetermined.
func ParsePermission(s string) PermissionStatus {
	switch PermissionStatus(s) {
	case PermissionGranted, PermissionDenied:
		return PermissionStatus(s)
	}
	return PermissionUndetermined
}

// Pedometer is the device step-sensor API.
type Pedometer interface {
	IsAvailable(ctx context.Context) (bool, error)
	PermissionStatus(ctx context.Context) (PermissionStatus, error)
	RequestPermission(ctx context.Context) (PermissionStatus, error)
	// StepCount returns the steps recorded in [start, end).
	StepCount(ctx context.Context, start, end time.Time) (int, error)
	// Watch calls fn with a step count relative to an arbitrary point near
	// the start of the subscription. fn may run on any goroutine.
	Watch(fn func(steps int)) (Subscription, error)
}

type Subscription interface {
	Cancel()
}

// Publisher receives each authoritative step count. Set is called with the
// service lock held, so implementations must not call back into the Service.
type Publisher interface {
	Set(steps int)
}

// State is the acquisition lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateCheckingAvailability
	StateUnavailable
	StateRequestingPermission
	StateDenied
	StateActive
	StateTornDown
)

var stateNames = map[State]string{
	StateUninitialized:        "uninitialized",
	StateCheckingAvailability: "checking availability",
	StateUnavailable:          "unavailable",
	StateRequestingPermission: "requesting permission",
	StateDenied:               "permission denied",
	StateActive:               "active",
	StateTornDown:             "stopped",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Starting reports whether Start is still deciding the outcome.
func (s State) Starting() bool {
	return s == StateUninitialized || s == StateCheckingAvailability || s == StateRequestingPermission
}

// HourlyCount is the number of steps taken in one local hour.
type HourlyCount struct {
	Start time.Time
	Steps int
}
