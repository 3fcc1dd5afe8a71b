package system

import (
	"github.com/milk9111/motionseq/ecs"
	"github.com/milk9111/motionseq/ecs/component"
	"github.com/milk9111/motionseq/motion"
)

// MotionSystem advances every motion controller by one tick and forwards
// controller notifications to the world event queue.
type MotionSystem struct {
	clock *Clock
}

func NewMotionSystem(clock *Clock) *MotionSystem {
	return &MotionSystem{clock: clock}
}

func (m *MotionSystem) Update(w *ecs.World) {
	if m == nil || w == nil {
		return
	}
	var delta int32
	if m.clock != nil {
		delta = motion.ClampDelta(m.clock.DeltaMs)
	}

	ecs.ForEach(w, component.MotionControllerComponent.Kind(), func(e ecs.Entity, mc *component.MotionController) {
		ctrl := mc.Controller
		if ctrl == nil {
			return
		}
		ctrl.Advance(delta)

		for _, evt := range ctrl.Events() {
			w.Events().Push(ecs.Event{Type: evt.Kind.String(), Entity: e, Data: evt})
		}

		a := ctrl.Active()
		running := a.Enabled && !a.Complete
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && running && drivesRoot(a) {
			body.Flags |= motion.PhysicsFlagRootMotion
			body.RootMotion = body.RootMotion.Add(ctrl.RootMotion())
		}
		if anim, ok := ecs.Get(w, e, component.AnimationComponent.Kind()); ok && a.Enabled {
			anim.Motion = a.Motion.Name()
			anim.Terminal = a.Complete
		}
	})
}

func drivesRoot(p *motion.Playback) bool {
	clip := p.Motion.Clip
	return clip != nil && len(clip.Root) > 0 && !clip.Has(motion.FlagNoRootMotion)
}
