package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/motionseq/ecs"
	"github.com/milk9111/motionseq/ecs/component"
	"github.com/milk9111/motionseq/ecs/system"
	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/motion"
	"github.com/milk9111/motionseq/prefabs"
)

const defaultActorPrefab = "actor.yaml"

// SpawnScene builds every actor of a scene and requests its opening
// sequence. Opening sequences skip posture transitions since actors start in
// the posture they were placed in.
func SpawnScene(w *ecs.World, scene prefabs.SceneSpec, opts BuildOptions) (map[string]ecs.Entity, error) {
	log := logging.WithComponent("scene")
	out := make(map[string]ecs.Entity, len(scene.Actors))
	for i, a := range scene.Actors {
		if a.Name == "" {
			return out, fmt.Errorf("scene %q: actor %d has no name", scene.Name, i)
		}
		if _, dup := out[a.Name]; dup {
			return out, fmt.Errorf("scene %q: duplicate actor %q", scene.Name, a.Name)
		}

		actorOpts := opts
		actorOpts.Name = a.Name
		pos := mgl64.Vec3{a.Position[0], a.Position[1], a.Position[2]}
		actorOpts.Position = &pos
		if a.Posture != "" {
			p, err := motion.ParsePosture(a.Posture)
			if err != nil {
				return out, fmt.Errorf("scene %q: actor %q: %w", scene.Name, a.Name, err)
			}
			actorOpts.Posture = p
		}

		prefab := a.Prefab
		if prefab == "" {
			prefab = defaultActorPrefab
		}
		e, err := BuildEntity(w, prefab, actorOpts)
		if err != nil {
			return out, fmt.Errorf("scene %q: %w", scene.Name, err)
		}
		out[a.Name] = e

		if a.Sequence != "" {
			system.RequestSequence(w, &component.SequenceRequest{
				Target:         system.ObjectOf(e),
				Sequence:       a.Sequence,
				SkipTransition: true,
			})
		}
		log.Debug().Str("actor", a.Name).Str(logging.FieldSequence, a.Sequence).Stringer("entity", e).Msg("actor spawned")
	}
	return out, nil
}
