package sensor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sadopc/stepr/internal/fitness"
)

const DefaultReconcileInterval = 30 * time.Second

// Service owns the pedometer lifecycle: permission, one watch subscription
// and one reconciliation ticker. Only its reconcile goroutine publishes.
type Service struct {
	pedometer Pedometer
	steps     Publisher
	interval  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	state    State
	sub      Subscription
	cancel   context.CancelFunc
	done     chan struct{}
	kick     chan struct{}
	baseline *int
}

type Option func(*Service)

// WithReconcileInterval overrides the periodic re-query interval.
func WithReconcileInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(p Pedometer, steps Publisher, opts ...Option) *Service {
	s := &Service{
		pedometer: p,
		steps:     steps,
		interval:  DefaultReconcileInterval,
		now:       time.Now,
		kick:      make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Baseline returns the counter carried by the first watch event, if any.
func (s *Service) Baseline() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseline == nil {
		return 0, false
	}
	return *s.baseline, true
}

// advance moves from one state to the next only if the service is still in
// from. It reports false once Stop has torn the service down.
func (s *Service) advance(from, to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		return false
	}
	s.state = to
	return true
}

// Start checks the sensor, obtains permission and, once granted, publishes
// today's count and begins reconciling. ctx bounds the running service.
// ErrSensorUnavailable and ErrPermissionDenied are terminal for the session.
// If Stop runs while Start is still checking, Start returns nil and the
// service stays torn down.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUninitialized {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = StateCheckingAvailability
	s.mu.Unlock()

	ok, err := s.pedometer.IsAvailable(ctx)
	if err != nil || !ok {
		if !s.advance(StateCheckingAvailability, StateUnavailable) {
			return nil
		}
		if err != nil {
			log.Printf("sensor: availability check failed: %v", err)
		} else {
			log.Printf("sensor: pedometer not available on this device")
		}
		return ErrSensorUnavailable
	}

	if !s.advance(StateCheckingAvailability, StateRequestingPermission) {
		return nil
	}
	status, err := s.ensurePermission(ctx)
	if err != nil {
		if !s.advance(StateRequestingPermission, StateDenied) {
			return nil
		}
		return fmt.Errorf("check permission: %w", err)
	}
	if status != PermissionGranted {
		if !s.advance(StateRequestingPermission, StateDenied) {
			return nil
		}
		log.Printf("sensor: permission %s, not tracking", status)
		return ErrPermissionDenied
	}
	if s.State() != StateRequestingPermission {
		return nil
	}

	s.reconcile(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	sub, err := s.pedometer.Watch(s.onSensorEvent)
	if err != nil {
		log.Printf("sensor: watch failed, relying on periodic refresh: %v", err)
	}

	s.mu.Lock()
	if s.state != StateRequestingPermission {
		// Stop ran while we were reading.
		s.mu.Unlock()
		cancel()
		if sub != nil {
			sub.Cancel()
		}
		return nil
	}
	s.state = StateActive
	s.sub = sub
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.run(runCtx, done)
	log.Printf("sensor: tracking active, reconciling every %s", s.interval)
	return nil
}

// ensurePermission asks at most once, and only when undetermined.
func (s *Service) ensurePermission(ctx context.Context) (PermissionStatus, error) {
	status, err := s.pedometer.PermissionStatus(ctx)
	if err != nil {
		return "", err
	}
	if status != PermissionUndetermined {
		return status, nil
	}
	return s.pedometer.RequestPermission(ctx)
}

func (s *Service) onSensorEvent(steps int) {
	s.mu.Lock()
	if s.baseline == nil {
		b := steps
		s.baseline = &b
		log.Printf("sensor: first watch event, baseline %d", steps)
	}
	s.mu.Unlock()
	s.Refresh()
}

// Refresh schedules an authoritative re-query. Requests made while one is
// pending collapse into a single read.
func (s *Service) Refresh() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Service) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reconcile(ctx)
		case <-s.kick:
			s.reconcile(ctx)
		}
	}
}

// reconcile reads [local midnight, now) and publishes the result. Failures
// are logged and skipped until the next tick or event.
func (s *Service) reconcile(ctx context.Context) {
	end := s.now()
	start := fitness.StartOfDay(end)
	steps, err := s.pedometer.StepCount(ctx, start, end)
	if err != nil {
		log.Printf("sensor: read step count: %v", err)
		return
	}
	if steps < 0 {
		steps = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateActive, StateRequestingPermission:
		s.steps.Set(steps)
	}
}

// Stop cancels the subscription and the ticker and waits for the
// reconcile goroutine to exit. It is safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	if s.sub != nil {
		s.sub.Cancel()
		s.sub = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	done := s.done
	s.done = nil
	switch s.state {
	case StateActive, StateRequestingPermission, StateCheckingAvailability, StateUninitialized:
		s.state = StateTornDown
	}
	s.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Hourly returns today's steps per local hour, from midnight up to the
// current hour.
func (s *Service) Hourly(ctx context.Context) ([]HourlyCount, error) {
	if s.State() != StateActive {
		return nil, ErrNotActive
	}
	now := s.now()
	var out []HourlyCount
	for h := fitness.StartOfDay(now); h.Before(now); h = h.Add(time.Hour) {
		end := h.Add(time.Hour)
		if end.After(now) {
			end = now
		}
		n, err := s.pedometer.StepCount(ctx, h, end)
		if err != nil {
			return nil, fmt.Errorf("read hour %s: %w", h.Format("15:04"), err)
		}
		out = append(out, HourlyCount{Start: h, Steps: n})
	}
	return out, nil
}
