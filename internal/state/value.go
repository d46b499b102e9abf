// Package state holds the process-wide values the rest of the app observes:
// today's step count, the body profile and the daily goal. Each value has a
// single writer; readers either poll Get or Subscribe for changes.
package state

import (
	"sync"
	"time"

	"github.com/sadopc/stepr/internal/fitness"
)

// Value is a mutex-guarded observable value.
type Value[T any] struct {
	mu   sync.RWMutex
	v    T
	next int
	subs map[int]func(T)
	// order keeps notification order stable across subscribers.
	order []int
}

func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{v: initial, subs: make(map[int]func(T))}
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.v
}

// Set stores x and then notifies every subscriber, outside the lock, in
// subscription order.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	v.v = x
	fns := make([]func(T), 0, len(v.order))
	for _, id := range v.order {
		fns = append(fns, v.subs[id])
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(x)
	}
}

// Subscribe registers fn for future changes. The returned function removes
// the subscription and is safe to call more than once.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.next
	v.next++
	v.subs[id] = fn
	v.order = append(v.order, id)
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			delete(v.subs, id)
			for i, o := range v.order {
				if o == id {
					v.order = append(v.order[:i], v.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Stores bundles the three values the app derives everything else from.
type Stores struct {
	Steps   *Value[int]
	Profile *Value[fitness.Profile]
	Goal    *Value[int]
}

func NewStores() *Stores {
	return &Stores{
		Steps:   NewValue(0),
		Profile: NewValue(fitness.Profile{}),
		Goal:    NewValue(fitness.DefaultGoal),
	}
}

// Summary derives today's summary from the current values.
func (s *Stores) Summary() fitness.Summary {
	return fitness.Summarize(fitness.StartOfDay(time.Now()), s.Steps.Get(), s.Profile.Get(), s.Goal.Get())
}
