package prefabs

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/motionseq/motion"
)

func TestLoadEmbeddedLibrary(t *testing.T) {
	lib, err := LoadLibrary("", "")
	require.NoError(t, err)

	for _, name := range []string{"idle", "walk", "jump", "hit", "crouch", "sneak", "crawl", "sit", "knockdown", "swim"} {
		_, ok := lib.Catalog.FindName(name)
		require.True(t, ok, name)
	}
	require.Equal(t, 9, lib.Transitions.Len())

	stp, ok := lib.Transitions.Lookup(motion.PostureStand, motion.PostureProne)
	require.True(t, ok)
	require.Len(t, stp.Motions, 2)

	walk, _ := lib.Catalog.FindName("walk")
	require.Equal(t, motion.PostureStand, walk.Begin)
	require.Equal(t, 2, walk.Motions[0].RepeatCount)
	require.Len(t, walk.Motions[0].FrameCallbacks(), 2)
	require.True(t, walk.Motions[1].Looping)
	require.True(t, walk.Motions[1].TransitionGuard)

	crawl, _ := lib.Catalog.FindName("crawl")
	require.Equal(t, motion.PostureProne, crawl.Begin)
	require.True(t, crawl.Motions[0].NotifyEnd)

	hit, _ := lib.Catalog.FindName("hit")
	require.True(t, hit.Motions[0].Immediate)
	require.True(t, hit.Motions[0].Clip.Has(motion.FlagSkipLastFrame))

	jump, _ := lib.Catalog.FindName("jump")
	require.True(t, jump.Motions[0].Sped())
	require.True(t, jump.Motions[0].NotifyOnInterrupt)

	knock, _ := lib.Catalog.FindName("knockdown")
	require.Equal(t, motion.PostureStand, knock.Begin)
	require.Equal(t, motion.PostureStand, knock.End)

	require.Equal(t, mgl64.Vec3{0, 0, 55}, lib.DefaultCOG[motion.PostureCrouch])
	require.True(t, lib.Clips["stand_idle"].Has(motion.FlagNoRootMotion))
	require.Equal(t, int32(33), lib.Clips["stand_idle"].BaseTicksPerFrame)
	require.Equal(t, int32(40), lib.Clips["crouch_walk"].BaseTicksPerFrame)
}

func TestLibraryInstall(t *testing.T) {
	lib, err := LoadLibrary("", "")
	require.NoError(t, err)

	seq := motion.NewSequencer(nil, nil)
	lib.Install(seq)
	require.Same(t, lib.Catalog, seq.Catalog())
	cog, ok := seq.DefaultCOG(motion.PostureStand)
	require.True(t, ok)
	require.Equal(t, mgl64.Vec3{0, 0, 90}, cog)
}

func TestBuildLibraryUnknownClip(t *testing.T) {
	defs, err := ParseDefs(strings.NewReader("BEGIN_SEQUENCE a\nMOTION missing\nEND_SEQUENCE"), "inline")
	require.NoError(t, err)
	clips := ClipsSpec{Clips: []ClipSpec{{Name: "present", Frames: 4, From: "stand"}}}

	_, err = BuildLibrary(defs, clips)
	require.True(t, errors.Is(err, ErrUnknownClip))
	require.Contains(t, err.Error(), "missing")
}

func TestClipsBuild(t *testing.T) {
	spec := ClipsSpec{
		DefaultTicksPerFrame: 20,
		Clips: []ClipSpec{
			{Name: "kneel", Frames: 6, From: "stand", To: "crouch", Root: [][3]float64{{0, 0, 0}, {1, 2, 3}}},
			{Name: "idle", Frames: 10, TicksPerFrame: 50, From: "MSEQ_STATE_SIT"},
		},
	}
	clips, err := spec.Build(map[string]motion.ClipFlags{"idle": motion.FlagSped})
	require.NoError(t, err)

	kneel := clips["kneel"]
	require.Equal(t, motion.PostureStand, kneel.From)
	require.Equal(t, motion.PostureCrouch, kneel.To)
	require.Equal(t, int32(20), kneel.BaseTicksPerFrame)
	require.Equal(t, []mgl64.Vec3{{0, 0, 0}, {1, 2, 3}}, kneel.Root)

	idle := clips["idle"]
	require.Equal(t, motion.PostureSit, idle.To)
	require.Equal(t, int32(50), idle.BaseTicksPerFrame)
	require.True(t, idle.Has(motion.FlagSped))

	_, err = ClipsSpec{Clips: []ClipSpec{{Name: "bad", Frames: 0}}}.Build(nil)
	require.Error(t, err)
	_, err = ClipsSpec{Clips: []ClipSpec{{Name: "bad", Frames: 2, From: "hover"}}}.Build(nil)
	require.ErrorIs(t, err, motion.ErrInvalidPosture)
}

func TestLoadSceneAndActorSpecs(t *testing.T) {
	scene, err := LoadSceneSpec("scene.yaml")
	require.NoError(t, err)
	require.Len(t, scene.Actors, 3)
	require.Equal(t, "hero", scene.Actors[0].Name)
	require.Equal(t, "actor.yaml", scene.Actors[0].Prefab)

	actor, err := LoadEntityBuildSpec("prefabs/actor.yaml")
	require.NoError(t, err)
	require.Contains(t, actor.Components, "motion_controller")

	mc, err := DecodeComponentSpec[MotionControllerComponentSpec](actor.Components["motion_controller"])
	require.NoError(t, err)
	require.Equal(t, "stand", mc.Posture)

	script, err := LoadScript("demo.tengo")
	require.NoError(t, err)
	require.Contains(t, string(script), "update")
}
