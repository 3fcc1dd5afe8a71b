package sim

import (
	"fmt"

	"github.com/milk9111/motionseq/config"
	"github.com/milk9111/motionseq/prefabs"
	"github.com/milk9111/motionseq/script"
)

// Load builds a simulation from cfg: it loads the motion library, the scene
// and the optional script, then spawns the scene.
func Load(cfg config.Config, runID string) (*Simulation, error) {
	lib, err := prefabs.LoadLibrary(cfg.DefsPath, cfg.ClipsPath)
	if err != nil {
		return nil, err
	}
	scene, err := prefabs.LoadSceneSpec(cfg.ScenePath)
	if err != nil {
		return nil, fmt.Errorf("sim: load scene %s: %w", cfg.ScenePath, err)
	}
	posture, err := cfg.Posture()
	if err != nil {
		return nil, err
	}

	opts := Options{
		DeltaMs:        cfg.TickDeltaMs(),
		InitialPosture: posture,
		RunID:          runID,
	}
	if cfg.Script != "" {
		if opts.Script, err = script.Load(cfg.Script); err != nil {
			return nil, err
		}
	}

	s := New(lib, opts)
	if err := s.Spawn(scene); err != nil {
		return nil, err
	}
	return s, nil
}
