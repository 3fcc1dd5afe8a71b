package sim

import (
	"sort"

	"github.com/milk9111/motionseq/ecs"
	"github.com/milk9111/motionseq/ecs/component"
	"github.com/milk9111/motionseq/motion"
)

// Frame is a read-only view of the simulation after a tick.
type Frame struct {
	Tick   uint64      `json:"tick"`
	Actors []ActorView `json:"actors"`
	Events []EventView `json:"events,omitempty"`
}

type ActorView struct {
	Name       string          `json:"name"`
	Entity     string          `json:"entity"`
	Position   [3]float64      `json:"position"`
	Motion     string          `json:"motion,omitempty"`
	Frame      int32           `json:"frame"`
	Controller motion.Snapshot `json:"controller"`
}

type EventView struct {
	Type  string `json:"type"`
	Actor string `json:"actor,omitempty"`
	Name  string `json:"name,omitempty"`
	Frame int32  `json:"frame,omitempty"`
}

// Snapshot returns the frame published by the last Step.
func (s *Simulation) Snapshot() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.frame
	f.Actors = append([]ActorView(nil), s.frame.Actors...)
	f.Events = append([]EventView(nil), s.frame.Events...)
	return f
}

func (s *Simulation) publish(events []ecs.Event) {
	f := Frame{Tick: s.clock.Tick}

	names := make([]string, 0, len(s.actors))
	for name := range s.actors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		e := s.actors[name]
		if !s.world.IsAlive(e) {
			continue
		}
		view := ActorView{Name: name, Entity: e.String()}
		if tf, ok := ecs.Get(s.world, e, component.TransformComponent.Kind()); ok {
			view.Position = [3]float64(tf.Position)
		}
		if anim, ok := ecs.Get(s.world, e, component.AnimationComponent.Kind()); ok {
			view.Motion = anim.Motion
			view.Frame = anim.Frame
		}
		if mc, ok := ecs.Get(s.world, e, component.MotionControllerComponent.Kind()); ok && mc.Controller != nil {
			view.Controller = mc.Controller.Snapshot()
		}
		f.Actors = append(f.Actors, view)
	}

	for _, evt := range events {
		ev := EventView{Type: evt.Type, Actor: s.names[evt.Entity]}
		if me, ok := evt.Data.(motion.Event); ok {
			ev.Name = me.Name
			ev.Frame = me.Frame
		}
		f.Events = append(f.Events, ev)
	}

	s.mu.Lock()
	s.frame = f
	s.mu.Unlock()
}
