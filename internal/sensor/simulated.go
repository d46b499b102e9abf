package sensor

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/sadopc/stepr/internal/fitness"
)

const (
	bucketSize           = 10 * time.Second
	defaultWatchInterval = 2 * time.Second
)

// SimulatedConfig configures an in-process pedometer.
type SimulatedConfig struct {
	Available      bool
	Permission     PermissionStatus
	GrantOnRequest bool
	// Cadence is steps per minute while walking.
	Cadence       int
	Seed          uint64
	Now           func() time.Time
	WatchInterval time.Duration
}

// Simulated is a pedometer for machines without motion hardware. It
// generates a random walk in 10 second buckets from local midnight on, lazily
// as time passes, so window queries are stable once a bucket is complete.
type Simulated struct {
	cfg SimulatedConfig

	mu      sync.Mutex
	status  PermissionStatus
	rng     *rand.Rand
	origin  time.Time
	buckets []int // steps per bucket since origin
	walking bool
}

func NewSimulated(cfg SimulatedConfig) *Simulated {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Cadence <= 0 {
		cfg.Cadence = fitness.Cadence
	}
	if cfg.WatchInterval <= 0 {
		cfg.WatchInterval = defaultWatchInterval
	}
	if cfg.Permission == "" {
		cfg.Permission = PermissionUndetermined
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(cfg.Now().UnixNano())
	}
	return &Simulated{
		cfg:    cfg,
		status: cfg.Permission,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		origin: fitness.StartOfDay(cfg.Now()),
	}
}

func (p *Simulated) IsAvailable(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.cfg.Available, nil
}

func (p *Simulated) PermissionStatus(ctx context.Context) (PermissionStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, nil
}

// RequestPermission resolves an undetermined status according to
// GrantOnRequest. A decided status is returned unchanged.
func (p *Simulated) RequestPermission(ctx context.Context) (PermissionStatus, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == PermissionUndetermined {
		if p.cfg.GrantOnRequest {
			p.status = PermissionGranted
		} else {
			p.status = PermissionDenied
		}
	}
	return p.status, nil
}

func (p *Simulated) StepCount(ctx context.Context, start, end time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != PermissionGranted {
		return 0, ErrPermissionDenied
	}
	p.advance(p.cfg.Now())
	return p.count(start, end), nil
}

func (p *Simulated) Watch(fn func(steps int)) (Subscription, error) {
	if !p.cfg.Available {
		return nil, ErrSensorUnavailable
	}
	p.mu.Lock()
	granted := p.status == PermissionGranted
	p.mu.Unlock()
	if !granted {
		return nil, ErrPermissionDenied
	}

	sub := &simSubscription{stop: make(chan struct{})}
	since := p.cfg.Now()
	go func() {
		ticker := time.NewTicker(p.cfg.WatchInterval)
		defer ticker.Stop()
		last := 0
		for {
			select {
			case <-sub.stop:
				return
			case <-ticker.C:
				p.mu.Lock()
				now := p.cfg.Now()
				p.advance(now)
				n := p.count(since, now)
				p.mu.Unlock()
				if n != last {
					last = n
					fn(n)
				}
			}
		}
	}()
	return sub, nil
}

// advance generates every bucket that has completed by now. Callers hold mu.
func (p *Simulated) advance(now time.Time) {
	complete := int(now.Sub(p.origin) / bucketSize)
	for len(p.buckets) < complete {
		at := p.origin.Add(time.Duration(len(p.buckets)) * bucketSize)
		p.buckets = append(p.buckets, p.nextBucket(at))
	}
}

// nextBucket runs one step of a two-state walk/rest chain that is more
// likely to start walking during waking hours.
func (p *Simulated) nextBucket(at time.Time) int {
	startP := 0.002
	if h := at.Hour(); h >= 7 && h < 22 {
		startP = 0.012
	}
	if p.walking {
		if p.rng.Float64() < 0.1 {
			p.walking = false
		}
	} else if p.rng.Float64() < startP {
		p.walking = true
	}
	if !p.walking {
		return 0
	}
	perBucket := p.cfg.Cadence * int(bucketSize/time.Second) / 60
	return max(0, perBucket+p.rng.IntN(5)-2)
}

// count sums buckets whose start lies in [start, end). Callers hold mu.
func (p *Simulated) count(start, end time.Time) int {
	first := p.index(start)
	last := min(p.index(end), len(p.buckets))
	total := 0
	for i := first; i < last; i++ {
		total += p.buckets[i]
	}
	return total
}

// index is the first bucket starting at or after t.
func (p *Simulated) index(t time.Time) int {
	d := t.Sub(p.origin)
	if d <= 0 {
		return 0
	}
	return int((d + bucketSize - 1) / bucketSize)
}

type simSubscription struct {
	once sync.Once
	stop chan struct{}
}

func (s *simSubscription) Cancel() {
	s.once.Do(func() { close(s.stop) })
}

var _ Pedometer = (*Simulated)(nil)
