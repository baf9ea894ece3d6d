package session

import (
	"context"
	"sync"
)

// Loop runs Effects on their own goroutines and applies their Outcomes to a
// Machine in arrival order. Start, Pending and Drain must be called from the
// goroutine that owns the Machine.
//
// Finished outcomes queue inside the Loop, so effect goroutines never block
// on a Drain that is not running.
type Loop struct {
	m        *Machine
	inflight int

	mu     sync.Mutex
	queue  []Outcome
	notify chan struct{}
}

// NewLoop creates a Loop applying outcomes to m
func NewLoop(m *Machine) *Loop {
	return &Loop{m: m, notify: make(chan struct{}, 1)}
}

// Start runs eff in the background. A nil Effect is ignored.
func (l *Loop) Start(ctx context.Context, eff Effect) {
	if eff == nil {
		return
	}
	l.inflight++
	go func() { l.deliver(eff(ctx)) }()
}

func (l *Loop) deliver(o Outcome) {
	l.mu.Lock()
	l.queue = append(l.queue, o)
	l.mu.Unlock()

	select {
	case l.notify <- struct{}{}:
	default:
	}
}

func (l *Loop) take() []Outcome {
	l.mu.Lock()
	defer l.mu.Unlock()
	q := l.queue
	l.queue = nil
	return q
}

// Pending returns the number of effects whose outcome was not applied yet.
func (l *Loop) Pending() int {
	return l.inflight
}

// Drain applies outcomes until no effect is in flight, calling onApply after
// each one. It returns early with ctx's error if ctx is done; outcomes that
// arrive later are kept for the next Drain.
func (l *Loop) Drain(ctx context.Context, onApply func(View)) error {
	for l.inflight > 0 {
		for _, o := range l.take() {
			l.inflight--
			l.m.Apply(o)
			if onApply != nil {
				onApply(l.m.View())
			}
		}
		if l.inflight == 0 {
			return nil
		}

		select {
		case <-l.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
