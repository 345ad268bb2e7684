// Package scheduler drives the engine's lifecycle on a fixed interval.
package scheduler

import (
	"time"

	"auction-engine/internal/engine"
)

// DefaultInterval is the tick period. Closing an auction is delayed by at
// most one interval past its true deadline.
const DefaultInterval = time.Second

// Scheduler invokes engine.Tick at a fixed cadence until stopped.
type Scheduler struct {
	engine   *engine.Engine
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

// New creates a scheduler. A non-positive interval falls back to
// DefaultInterval.
func New(e *engine.Engine, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		engine:   e,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the tick loop in its own goroutine.
func (s *Scheduler) Start() {
	go s.run()
}

func (s *Scheduler) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.engine.Tick(now.UTC())
		}
	}
}

// Stop halts the loop and waits for any in-flight tick to finish. Safe to
// call once.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}
