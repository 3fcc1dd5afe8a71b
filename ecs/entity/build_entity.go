package entity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/motionseq/ecs"
	"github.com/milk9111/motionseq/ecs/component"
	"github.com/milk9111/motionseq/ecs/system"
	"github.com/milk9111/motionseq/motion"
	"github.com/milk9111/motionseq/prefabs"
)

// BuildOptions carries the runtime collaborators and per-instance overrides
// used while building a prefab.
type BuildOptions struct {
	Animator motion.Animator
	Physics  motion.Physics

	// Name overrides the actor name from the prefab.
	Name string
	// Position overrides the prefab transform position when set.
	Position *mgl64.Vec3
	// Posture overrides the controller's initial posture unless PostureNone.
	Posture motion.Posture
}

type buildContext struct {
	opts BuildOptions
}

// componentBuilders runs in slice order, so the transform exists before the
// body that mirrors it and the controller is created last.
var componentBuilders = []struct {
	key   string
	build func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error
}{
	{"actor", addActor},
	{"transform", addTransform},
	{"physics_body", addPhysicsBody},
	{"animation", addAnimation},
	{"motion_controller", addMotionController},
}

func BuildEntity(w *ecs.World, prefabPath string, opts BuildOptions) (ecs.Entity, error) {
	if w == nil {
		return 0, errors.New("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	known := make(map[string]bool, len(componentBuilders))
	for _, b := range componentBuilders {
		known[b.key] = true
	}
	var unknown []string
	for key := range spec.Components {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, unknown[0])
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{opts: opts}
	for _, b := range componentBuilders {
		raw, present := spec.Components[b.key]
		if !present {
			continue
		}
		if err := b.build(w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, b.key, err)
		}
	}

	if opts.Name != "" && !ecs.Has(w, e, component.ActorComponent.Kind()) {
		_ = ecs.Add(w, e, component.ActorComponent.Kind(), &component.Actor{Name: opts.Name})
	}
	return e, nil
}

// SetEntityPosition moves an entity, adding a transform when it has none.
func SetEntityPosition(w *ecs.World, e ecs.Entity, pos mgl64.Vec3) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.Position = pos
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

type actorSpec = prefabs.ActorComponentSpec

func addActor(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[actorSpec](raw)
	if err != nil {
		return fmt.Errorf("decode actor spec: %w", err)
	}
	name := spec.Name
	if ctx.opts.Name != "" {
		name = ctx.opts.Name
	}
	return ecs.Add(w, e, component.ActorComponent.Kind(), &component.Actor{Name: name})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	pos := mgl64.Vec3{spec.X, spec.Y, spec.Z}
	if ctx.opts.Position != nil {
		pos = *ctx.opts.Position
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: pos,
		Facing:   spec.Facing,
	})
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}
	if spec.Width < 0 || spec.Height < 0 || spec.Mass < 0 {
		return fmt.Errorf("physics body: negative size or mass")
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:    spec.Width,
		Height:   spec.Height,
		Mass:     spec.Mass,
		Friction: spec.Friction,
		Static:   spec.Static,
	})
}

type animationSpec = prefabs.AnimationComponentSpec

func addAnimation(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[animationSpec](raw)
	if err != nil {
		return fmt.Errorf("decode animation spec: %w", err)
	}
	frameEvents := true
	if spec.FrameEvents != nil {
		frameEvents = *spec.FrameEvents
	}
	return ecs.Add(w, e, component.AnimationComponent.Kind(), &component.Animation{FrameEvents: frameEvents})
}

type motionControllerSpec = prefabs.MotionControllerComponentSpec

func addMotionController(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[motionControllerSpec](raw)
	if err != nil {
		return fmt.Errorf("decode motion controller spec: %w", err)
	}

	posture := motion.PostureStand
	if spec.Posture != "" {
		if posture, err = motion.ParsePosture(spec.Posture); err != nil {
			return err
		}
	}
	if ctx.opts.Posture != motion.PostureNone {
		posture = ctx.opts.Posture
	}

	opts := []motion.Option{motion.WithPosture(posture)}
	if ctx.opts.Animator != nil {
		opts = append(opts, motion.WithAnimator(ctx.opts.Animator))
	}
	if ctx.opts.Physics != nil {
		opts = append(opts, motion.WithPhysics(ctx.opts.Physics))
	}
	ctrl := motion.NewController(system.ObjectOf(e), opts...)
	ctrl.SetRejectRequests(spec.Locked)
	return ecs.Add(w, e, component.MotionControllerComponent.Kind(), &component.MotionController{Controller: ctrl})
}
