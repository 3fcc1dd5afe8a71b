package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/motionseq/ecs"
	"github.com/milk9111/motionseq/ecs/component"
	"github.com/milk9111/motionseq/motion"
)

const defaultBodySize = 32

// PhysicsSystem owns the Chipmunk2D space. Root motion gathered by the
// motion system is applied to bodies as velocity over one step, so the
// step moves each body by exactly its root displacement in the plane.
// The depth axis is applied to the transform directly.
//
// PhysicsSystem is also the motion controllers' Physics collaborator.
type PhysicsSystem struct {
	w     *ecs.World
	clock *Clock
	space *cp.Space

	entities map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

func NewPhysicsSystem(w *ecs.World, clock *Clock) *PhysicsSystem {
	return &PhysicsSystem{
		w:        w,
		clock:    clock,
		space:    newSpace(),
		entities: make(map[ecs.Entity]*bodyInfo),
	}
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) ClearRootMotion(owner motion.ObjectID) {
	body, ok := ps.body(owner)
	if !ok {
		return
	}
	body.RootMotion = mgl64.Vec3{}
	if body.Body != nil && !body.Static {
		body.Body.SetVelocityVector(cp.Vector{})
	}
}

func (ps *PhysicsSystem) ClearFlag(owner motion.ObjectID, flag motion.PhysicsFlag) {
	if body, ok := ps.body(owner); ok {
		body.Flags &^= flag
	}
}

func (ps *PhysicsSystem) Alive(owner motion.ObjectID) bool {
	return ps != nil && ps.w.IsAlive(EntityOf(owner))
}

func (ps *PhysicsSystem) body(owner motion.ObjectID) (*component.PhysicsBody, bool) {
	if ps == nil || ps.w == nil {
		return nil, false
	}
	e := EntityOf(owner)
	if !ps.w.IsAlive(e) {
		return nil, false
	}
	return ecs.Get(ps.w, e, component.PhysicsBodyComponent.Kind())
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = newSpace()
	}

	ps.syncEntities(w)

	dt := ps.clock.Seconds()
	if dt <= 0 {
		return
	}
	ps.applyRootMotion(w, dt)
	ps.space.Step(dt)
	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info := ps.entities[e]; info != nil {
			bodyComp.Body = info.body
			bodyComp.Shape = info.shape
			return
		}
		info := ps.createBodyInfo(transform, bodyComp)
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.shape
	})
}

// createBodyInfo adds a body for an entity. Bodies with no mass are
// kinematic: only root motion moves them.
func (ps *PhysicsSystem) createBodyInfo(transform *component.Transform, bodyComp *component.PhysicsBody) *bodyInfo {
	width, height := bodyComp.Width, bodyComp.Height
	if width <= 0 || height <= 0 {
		width, height = defaultBodySize, defaultBodySize
	}
	center := cp.Vector{X: transform.Position.X(), Y: transform.Position.Y()}

	if bodyComp.Static {
		bb := cp.BB{L: center.X - width/2, B: center.Y - height/2, R: center.X + width/2, T: center.Y + height/2}
		shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
		shape.SetFriction(bodyComp.Friction)
		ps.space.AddShape(shape)
		return &bodyInfo{body: ps.space.StaticBody, shape: shape, static: true}
	}

	var body *cp.Body
	if bodyComp.Mass > 0 {
		body = cp.NewBody(bodyComp.Mass, cp.MomentForBox(bodyComp.Mass, width, height))
	} else {
		body = cp.NewKinematicBody()
	}
	body.SetPosition(center)
	body.SetAngle(transform.Facing)
	body.SetAngularVelocity(0)

	shape := cp.NewBox(body, width, height, 0)
	shape.SetFriction(bodyComp.Friction)
	// Actors never push each other around; only root motion moves them.
	shape.SetSensor(true)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	return &bodyInfo{body: body, shape: shape}
}

func (ps *PhysicsSystem) applyRootMotion(w *ecs.World, dt float64) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Static {
			return
		}
		if !bodyComp.HasFlag(motion.PhysicsFlagRootMotion) {
			bodyComp.Body.SetVelocityVector(cp.Vector{})
			return
		}
		planar := mgl64.Rotate2D(transform.Facing).Mul2x1(bodyComp.RootMotion.Vec2())
		bodyComp.Body.SetVelocityVector(cp.Vector{X: planar.X() / dt, Y: planar.Y() / dt})
		transform.Position[2] += bodyComp.RootMotion.Z()
		bodyComp.RootMotion = mgl64.Vec3{}
	})
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Static {
			return
		}
		pos := bodyComp.Body.Position()
		transform.Position[0] = pos.X
		transform.Position[1] = pos.Y
		bodyComp.Body.SetVelocityVector(cp.Vector{})
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		if info.shape != nil {
			ps.space.RemoveShape(info.shape)
		}
		if info.body != nil && !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}
