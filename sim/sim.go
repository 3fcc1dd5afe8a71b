// Package sim wires the motion sequencer into an ECS world and runs it one
// tick at a time.
package sim

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/milk9111/motionseq/ecs"
	"github.com/milk9111/motionseq/ecs/component"
	"github.com/milk9111/motionseq/ecs/entity"
	"github.com/milk9111/motionseq/ecs/system"
	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/metrics"
	"github.com/milk9111/motionseq/motion"
	"github.com/milk9111/motionseq/prefabs"
	"github.com/milk9111/motionseq/script"
)

// Options configures a Simulation.
type Options struct {
	// DeltaMs is the simulated time per tick.
	DeltaMs int32
	// InitialPosture is used for actors placed without a posture.
	InitialPosture motion.Posture
	// Script, when set, runs before the systems every tick.
	Script *script.Driver
	RunID  string
}

// Simulation owns a world and its systems. Step, Spawn and Request must be
// called from one goroutine; Snapshot and ApplyLibrary are safe from any.
type Simulation struct {
	world     *ecs.World
	clock     *system.Clock
	scheduler *ecs.Scheduler
	sequencer *motion.Sequencer
	physics   *system.PhysicsSystem
	sampler   *system.KeyframeSampler
	opts      Options
	log       zerolog.Logger

	actors     map[string]ecs.Entity
	names      map[ecs.Entity]string
	lastEvents []ecs.Event

	reload chan *prefabs.Library

	mu    sync.RWMutex
	frame Frame
}

func New(lib *prefabs.Library, opts Options) *Simulation {
	if opts.DeltaMs <= 0 {
		opts.DeltaMs = motion.MaxDeltaMs
	}
	w := ecs.NewWorld()
	clock := &system.Clock{DeltaMs: opts.DeltaMs}

	seq := motion.NewSequencer(nil, nil)
	if lib != nil {
		lib.Install(seq)
	}

	s := &Simulation{
		world:     w,
		clock:     clock,
		sequencer: seq,
		physics:   system.NewPhysicsSystem(w, clock),
		sampler:   system.NewKeyframeSampler(w),
		opts:      opts,
		actors:    map[string]ecs.Entity{},
		names:     map[ecs.Entity]string{},
		reload:    make(chan *prefabs.Library, 1),
	}
	s.scheduler = ecs.NewScheduler(
		system.NewSequenceRequestSystem(seq),
		system.NewMotionSystem(clock),
		s.physics,
	)
	s.scheduler.Observe(metrics.ObserveSystem)
	s.log = logging.Derive(func(c *zerolog.Context) {
		*c = c.Str(logging.FieldComponent, "sim")
		if opts.RunID != "" {
			*c = c.Str(logging.FieldRunID, opts.RunID)
		}
	})
	return s
}

func (s *Simulation) World() *ecs.World            { return s.world }
func (s *Simulation) Sequencer() *motion.Sequencer { return s.sequencer }
func (s *Simulation) Tick() uint64                 { return s.clock.Tick }

// Spawn places a scene's actors and queues their opening sequences.
func (s *Simulation) Spawn(scene prefabs.SceneSpec) error {
	actors, err := entity.SpawnScene(s.world, scene, entity.BuildOptions{
		Animator: s.sampler,
		Physics:  s.physics,
		Posture:  s.opts.InitialPosture,
	})
	for name, e := range actors {
		s.actors[name] = e
		s.names[e] = name
	}
	if err != nil {
		return err
	}
	s.log.Info().Str("scene", scene.Name).Int("actors", len(actors)).Msg("scene spawned")
	s.publish(nil)
	return nil
}

// ApplyLibrary hands a reloaded library to the tick loop. It is installed at
// the start of the next Step; a newer library replaces one still waiting.
func (s *Simulation) ApplyLibrary(lib *prefabs.Library) {
	if lib == nil {
		return
	}
	for {
		select {
		case s.reload <- lib:
			return
		default:
		}
		select {
		case <-s.reload:
		default:
		}
	}
}

// Step runs the script and all systems for one tick and returns the events
// raised during it.
func (s *Simulation) Step() ([]ecs.Event, error) {
	select {
	case lib := <-s.reload:
		lib.Install(s.sequencer)
		metrics.ReloadsTotal.WithLabelValues("applied").Inc()
		s.log.Info().Int("sequences", lib.Catalog.Len()).Uint64(logging.FieldTick, s.clock.Tick).Msg("motion library swapped")
	default:
	}

	s.clock.Tick++
	if s.opts.Script != nil {
		if err := s.opts.Script.Update(s, s.clock.Tick); err != nil {
			return nil, err
		}
	}

	s.scheduler.Update(s.world)
	events := s.world.Events().Drain()
	s.lastEvents = events
	for _, evt := range events {
		s.log.Debug().
			Str(logging.FieldEvent, evt.Type).
			Str("actor", s.names[evt.Entity]).
			Uint64(logging.FieldTick, s.clock.Tick).
			Msg("event")
	}
	s.publish(events)
	return events, nil
}

func (s *Simulation) controller(actor string) (*motion.Controller, bool) {
	e, ok := s.actors[actor]
	if !ok {
		return nil, false
	}
	return system.NewObjects(s.world).MotionController(system.ObjectOf(e))
}

// Actor returns the entity of a named actor.
func (s *Simulation) Actor(name string) (ecs.Entity, bool) {
	e, ok := s.actors[name]
	return e, ok && s.world.IsAlive(e)
}

// Request queues a sequence request for the next tick. It reports false for
// unknown actors.
func (s *Simulation) Request(actor, sequence string, opts script.RequestOptions) bool {
	e, ok := s.Actor(actor)
	if !ok {
		s.log.Warn().Str("actor", actor).Str(logging.FieldSequence, sequence).Msg("request for unknown actor")
		return false
	}
	system.RequestSequence(s.world, &component.SequenceRequest{
		Target:         system.ObjectOf(e),
		Sequence:       sequence,
		Dedupe:         opts.Dedupe,
		ForceClear:     opts.ForceClear,
		SkipTransition: opts.SkipTransition,
		Speed:          opts.Speed,
		StartTime:      opts.StartTime,
	})
	return true
}

// Idle reports whether an actor has nothing left to play.
func (s *Simulation) Idle(actor string) bool {
	ctrl, ok := s.controller(actor)
	if !ok {
		return false
	}
	a := ctrl.Active()
	return ctrl.QueueLen() == 0 && (!a.Enabled || a.Complete)
}

func (s *Simulation) Posture(actor string) string {
	ctrl, ok := s.controller(actor)
	if !ok {
		return ""
	}
	return ctrl.Posture().String()
}

func (s *Simulation) QueueLen(actor string) int {
	ctrl, ok := s.controller(actor)
	if !ok {
		return 0
	}
	return ctrl.QueueLen()
}

// HasEvent reports whether the last tick raised event for actor. Frame
// callbacks also match by callback name.
func (s *Simulation) HasEvent(actor, event string) bool {
	e, ok := s.actors[actor]
	if !ok {
		return false
	}
	for _, evt := range s.lastEvents {
		if evt.Entity != e {
			continue
		}
		if evt.Type == event {
			return true
		}
		if me, ok := evt.Data.(motion.Event); ok && me.Kind == motion.EventFrame && me.Name == event {
			return true
		}
	}
	return false
}

func (s *Simulation) String() string {
	return fmt.Sprintf("sim(tick=%d actors=%d)", s.clock.Tick, len(s.actors))
}
