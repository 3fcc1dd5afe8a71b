package system

import (
	"github.com/milk9111/motionseq/ecs"
	"github.com/milk9111/motionseq/ecs/component"
	"github.com/milk9111/motionseq/motion"
)

// EntityOf maps a motion object id back to its entity.
func EntityOf(id motion.ObjectID) ecs.Entity {
	return ecs.Entity(id)
}

// ObjectOf returns the motion object id of an entity.
func ObjectOf(e ecs.Entity) motion.ObjectID {
	return motion.ObjectID(e)
}

// Objects resolves sequence request targets against a world.
type Objects struct {
	w *ecs.World
}

func NewObjects(w *ecs.World) Objects {
	return Objects{w: w}
}

func (o Objects) MotionController(id motion.ObjectID) (*motion.Controller, bool) {
	if o.w == nil {
		return nil, false
	}
	e := EntityOf(id)
	if !o.w.IsAlive(e) {
		return nil, false
	}
	mc, ok := ecs.Get(o.w, e, component.MotionControllerComponent.Kind())
	if !ok || mc.Controller == nil {
		return nil, false
	}
	return mc.Controller, true
}

// Posture is the end posture of the object's last promoted motion, the
// posture new sequences transition from. It runs ahead of the reached
// posture while a motion plays.
func (o Objects) Posture(id motion.ObjectID) (motion.Posture, bool) {
	ctrl, ok := o.MotionController(id)
	if !ok {
		return motion.PostureNone, false
	}
	return ctrl.TargetPosture(), true
}

// FindActor returns the first live entity whose Actor name matches.
func FindActor(w *ecs.World, name string) (ecs.Entity, bool) {
	if w == nil || name == "" {
		return 0, false
	}
	for _, e := range ecs.Query(w, component.ActorComponent.Kind()) {
		actor, ok := ecs.Get(w, e, component.ActorComponent.Kind())
		if ok && actor.Name == name {
			return e, true
		}
	}
	return 0, false
}
