package sim

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/motionseq/config"
	"github.com/milk9111/motionseq/metrics"
	"github.com/milk9111/motionseq/motion"
	"github.com/milk9111/motionseq/prefabs"
	"github.com/milk9111/motionseq/script"
)

func newSceneSim(t *testing.T, opts Options) *Simulation {
	t.Helper()
	lib, err := prefabs.LoadLibrary("", "")
	require.NoError(t, err)
	scene, err := prefabs.LoadSceneSpec("scene.yaml")
	require.NoError(t, err)

	if opts.DeltaMs == 0 {
		opts.DeltaMs = 33
	}
	s := New(lib, opts)
	require.NoError(t, s.Spawn(scene))
	return s
}

func activeMotion(f Frame, actor string) string {
	for _, a := range f.Actors {
		if a.Name == actor && a.Controller.Active != nil {
			return a.Controller.Active.Motion
		}
	}
	return ""
}

func TestSimulationRunsScene(t *testing.T) {
	s := newSceneSim(t, Options{RunID: "test"})
	require.True(t, s.Idle("hero"))

	require.NoError(t, s.Run(context.Background(), 0, 5))
	f := s.Snapshot()
	require.Equal(t, uint64(5), f.Tick)
	require.Len(t, f.Actors, 3)
	require.Equal(t, []string{"diver", "hero", "scout"}, []string{f.Actors[0].Name, f.Actors[1].Name, f.Actors[2].Name})

	require.Equal(t, "stand_idle", activeMotion(f, "hero"))
	require.Equal(t, "crouch_idle", activeMotion(f, "scout"))
	require.Equal(t, "swim_forward", activeMotion(f, "diver"))
	require.Equal(t, "scuba", s.Posture("diver"))
	require.False(t, s.Idle("hero"))
	require.Equal(t, 0, s.QueueLen("hero"))
	require.Contains(t, s.String(), "tick=5")

	for _, name := range []string{"system.SequenceRequestSystem", "system.MotionSystem", "system.PhysicsSystem"} {
		require.Contains(t, s.scheduler.Names(), name)
	}
	require.GreaterOrEqual(t, testutil.CollectAndCount(metrics.SystemUpdateSeconds), 3)
}

func TestSimulationWalkMovesHero(t *testing.T) {
	s := newSceneSim(t, Options{})
	require.True(t, s.Request("hero", "walk", script.RequestOptions{}))
	require.NoError(t, s.Run(context.Background(), 0, 80))

	f := s.Snapshot()
	var x float64
	for _, a := range f.Actors {
		if a.Name == "hero" {
			x = a.Position[0]
		}
	}
	require.Greater(t, x, 0.0)
	require.Equal(t, "stand_walk", activeMotion(f, "hero"))
}

func TestSimulationScriptDriven(t *testing.T) {
	d, err := script.Compile("inline", []byte(`
update := func(engine, tick) {
	if tick == 1 {
		engine.request("hero", "jump", {dedupe: true, force_clear: true})
	}
}
`))
	require.NoError(t, err)
	s := newSceneSim(t, Options{Script: d})

	_, err = s.Step()
	require.NoError(t, err)
	require.Equal(t, "stand_jump", activeMotion(s.Snapshot(), "hero"))
	require.Equal(t, 1, s.QueueLen("hero"))

	apex := false
	for i := 0; i < 20 && !apex; i++ {
		_, err := s.Step()
		require.NoError(t, err)
		apex = s.HasEvent("hero", "apex")
		if apex {
			require.True(t, s.HasEvent("hero", motion.EventFrame.String()))
			require.False(t, s.HasEvent("scout", "apex"))
		}
	}
	require.True(t, apex)
}

func TestSimulationScriptError(t *testing.T) {
	d, err := script.Compile("bad", []byte(`
update := func(engine, tick) {
	return tick()
}
`))
	require.NoError(t, err)
	s := newSceneSim(t, Options{Script: d})
	_, err = s.Step()
	require.Error(t, err)
	require.Error(t, s.Run(context.Background(), 0, 3))
}

func TestSimulationNotifyEndEvent(t *testing.T) {
	s := newSceneSim(t, Options{})
	require.True(t, s.Request("hero", "hit", script.RequestOptions{}))

	found := false
	for i := 0; i < 20 && !found; i++ {
		_, err := s.Step()
		require.NoError(t, err)
		for _, ev := range s.Snapshot().Events {
			if ev.Type == motion.EventNotifyEnd.String() && ev.Actor == "hero" {
				require.Equal(t, "stand_hit", ev.Name)
				found = true
			}
		}
	}
	require.True(t, found)
}

func TestSimulationUnknownActor(t *testing.T) {
	s := newSceneSim(t, Options{})
	require.False(t, s.Request("ghost", "walk", script.RequestOptions{}))
	require.False(t, s.Idle("ghost"))
	require.Equal(t, "", s.Posture("ghost"))
	require.Equal(t, 0, s.QueueLen("ghost"))
	require.False(t, s.HasEvent("ghost", "apex"))
	_, ok := s.Actor("ghost")
	require.False(t, ok)
}

func TestApplyLibrarySwapsBetweenTicks(t *testing.T) {
	s := newSceneSim(t, Options{})
	wave := motion.NewSequence("wave", motion.NewDescriptor(&motion.Clip{Name: "wave", FrameCount: 4, BaseTicksPerFrame: 33, From: motion.PostureStand, To: motion.PostureStand}))
	cat, err := motion.NewCatalog(wave)
	require.NoError(t, err)
	table, err := motion.NewTransitionTable()
	require.NoError(t, err)

	stale := &prefabs.Library{Catalog: cat}
	fresh := &prefabs.Library{Catalog: cat, Transitions: table}
	s.ApplyLibrary(stale)
	s.ApplyLibrary(fresh)
	s.ApplyLibrary(nil)

	before := testutil.ToFloat64(metrics.ReloadsTotal.WithLabelValues("applied"))
	_, err = s.Step()
	require.NoError(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.ReloadsTotal.WithLabelValues("applied"))-before)
	require.Same(t, table, s.Sequencer().Transitions())

	_, ok := s.Sequencer().Catalog().FindName("walk")
	require.False(t, ok)
	_, ok = s.Sequencer().Catalog().FindName("wave")
	require.True(t, ok)
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Run(ctx, 0, 0), context.Canceled)
	require.ErrorIs(t, s.Run(ctx, 1, 0), context.Canceled)
	require.Equal(t, uint64(0), s.Tick())
}

func TestLoadFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Script = "demo.tengo"
	s, err := Load(cfg, "cfg")
	require.NoError(t, err)
	require.Len(t, s.Snapshot().Actors, 3)
	require.NoError(t, s.Run(context.Background(), 0, 3))

	cfg = config.Default()
	cfg.ScenePath = "missing_scene.yaml"
	_, err = Load(cfg, "cfg")
	require.Error(t, err)

	cfg = config.Default()
	cfg.Script = "missing.tengo"
	_, err = Load(cfg, "cfg")
	require.Error(t, err)
}
