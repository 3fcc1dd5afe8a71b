package ecs

import (
	"fmt"
	"strings"
	"time"
)

// System updates a world once per tick.
type System interface {
	Update(w *World)
}

// Scheduler runs systems in registration order, once per simulation tick.
type Scheduler struct {
	stages  []stage
	observe func(system string, elapsed time.Duration)
}

type stage struct {
	name string
	sys  System
}

// NewScheduler returns a scheduler that runs systems in the given order.
// Nil systems are skipped.
func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{stages: make([]stage, 0, len(systems))}
	for _, sys := range systems {
		s.Add(sys)
	}
	return s
}

// Add appends sys after the systems already registered.
func (s *Scheduler) Add(sys System) {
	if sys == nil {
		return
	}
	name := strings.TrimPrefix(fmt.Sprintf("%T", sys), "*")
	s.stages = append(s.stages, stage{name: name, sys: sys})
}

// Observe installs fn to be called after every system update with the
// system's type name and the time it took. A nil fn disables timing.
func (s *Scheduler) Observe(fn func(system string, elapsed time.Duration)) {
	s.observe = fn
}

// Update runs every system once against w.
func (s *Scheduler) Update(w *World) {
	for _, st := range s.stages {
		if s.observe == nil {
			st.sys.Update(w)
			continue
		}
		start := time.Now()
		st.sys.Update(w)
		s.observe(st.name, time.Since(start))
	}
}

// Systems returns the registered systems in run order.
func (s *Scheduler) Systems() []System {
	out := make([]System, len(s.stages))
	for i, st := range s.stages {
		out[i] = st.sys
	}
	return out
}

// Names returns the names reported to the observer, in run order.
func (s *Scheduler) Names() []string {
	out := make([]string, len(s.stages))
	for i, st := range s.stages {
		out[i] = st.name
	}
	return out
}
