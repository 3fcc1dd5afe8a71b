package motion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/metrics"
)

// Request asks for a sequence to be played on an object.
type Request struct {
	// Object is the entity that should play the sequence.
	Object ObjectID
	// Sequence is the hash of the requested sequence.
	Sequence Hash
	// Dedupe skips the request when the sequence's first motion is already the
	// most recently queued motion.
	Dedupe bool
	// PlaybackSpeed applies to every queued motion, transitions included.
	PlaybackSpeed float64
	// ForceClear resets the controller when a deduped request does not match.
	ForceClear bool
	// SkipTransition disables posture transition insertion.
	SkipTransition bool
	// StartTime, when set, overrides the start tick of the first target motion.
	StartTime *int32
}

// NewRequest returns a request with normal speed and no options.
func NewRequest(object ObjectID, sequence Hash) Request {
	return Request{
		Object:        object,
		Sequence:      sequence,
		PlaybackSpeed: 1,
	}
}

// StartAt returns a copy of r whose first target motion starts at ticks.
func (r Request) StartAt(ticks int32) Request {
	r.StartTime = &ticks
	return r
}

// Sequencer resolves requests against read-only definitions and queues the
// resulting motions on the target controller. It keeps no per-object state.
type Sequencer struct {
	catalog     *Catalog
	transitions *TransitionTable
	defaultCOG  map[Posture]mgl64.Vec3
	log         zerolog.Logger
}

// NewSequencer creates a sequencer over a catalog and transition table.
func NewSequencer(catalog *Catalog, transitions *TransitionTable) *Sequencer {
	return &Sequencer{
		catalog:     catalog,
		transitions: transitions,
		defaultCOG:  map[Posture]mgl64.Vec3{},
		log:         logging.WithComponent("sequencer"),
	}
}

// Swap replaces the definitions. Call it between ticks only.
func (s *Sequencer) Swap(catalog *Catalog, transitions *TransitionTable, cog map[Posture]mgl64.Vec3) {
	s.catalog = catalog
	s.transitions = transitions
	if cog == nil {
		cog = map[Posture]mgl64.Vec3{}
	}
	s.defaultCOG = cog
}

// Catalog returns the current sequence catalog.
func (s *Sequencer) Catalog() *Catalog { return s.catalog }

// Transitions returns the current transition table.
func (s *Sequencer) Transitions() *TransitionTable { return s.transitions }

// SetDefaultCOG records the resting root position for a posture.
func (s *Sequencer) SetDefaultCOG(p Posture, pos mgl64.Vec3) {
	s.defaultCOG[p] = pos
}

// DefaultCOG returns the resting root position for a posture.
func (s *Sequencer) DefaultCOG(p Posture) (mgl64.Vec3, bool) {
	pos, ok := s.defaultCOG[p]
	return pos, ok
}

// Request resolves req.Object through objects and queues the sequence.
//
// It returns false, without touching any state, for the sentinel hash, a
// target without a controller, or an unknown sequence. Once motions start
// being queued it returns true even if individual enqueues were dropped.
func (s *Sequencer) Request(objects ObjectProvider, req Request) bool {
	if !req.Sequence.Valid() {
		metrics.RecordRequest(metrics.ResultInvalidHash)
		return false
	}
	if objects == nil {
		metrics.RecordRequest(metrics.ResultNoController)
		return false
	}
	ctrl, ok := objects.MotionController(req.Object)
	if !ok || ctrl == nil {
		metrics.RecordRequest(metrics.ResultNoController)
		return false
	}
	return s.request(ctrl, req, func() Posture {
		if p, ok := objects.Posture(req.Object); ok {
			return p
		}
		return ctrl.TargetPosture()
	})
}

// RequestOn queues req on ctrl directly, transitioning from the controller's
// target posture.
func (s *Sequencer) RequestOn(ctrl *Controller, req Request) bool {
	if !req.Sequence.Valid() {
		metrics.RecordRequest(metrics.ResultInvalidHash)
		return false
	}
	if ctrl == nil {
		metrics.RecordRequest(metrics.ResultNoController)
		return false
	}
	return s.request(ctrl, req, ctrl.TargetPosture)
}

func (s *Sequencer) request(ctrl *Controller, req Request, posture func() Posture) bool {
	seq, ok := s.catalog.Find(req.Sequence)
	if !ok {
		metrics.RecordRequest(metrics.ResultUnknownSequence)
		s.log.Debug().
			Uint64(logging.FieldObject, uint64(req.Object)).
			Stringer(logging.FieldSequence, req.Sequence).
			Msg("unknown sequence requested")
		return false
	}

	if req.Dedupe {
		if matched, ok := tailMatches(ctrl, seq); ok {
			if matched {
				metrics.RecordRequest(metrics.ResultDeduped)
				return true
			}
			if req.ForceClear {
				ctrl.Reset()
			}
		}
	}

	if !req.SkipTransition {
		s.queueTransition(ctrl, seq, posture(), req)
	}

	for i, d := range seq.Motions {
		var start *int32
		if i == 0 {
			start = req.StartTime
		}
		// Dropped enqueues do not change the result.
		_ = ctrl.Enqueue(d, req.PlaybackSpeed, start)
	}

	metrics.RecordRequest(metrics.ResultQueued)
	s.log.Debug().
		Uint64(logging.FieldObject, uint64(req.Object)).
		Str(logging.FieldSequence, seq.Name).
		Int(logging.FieldQueueLen, ctrl.QueueLen()).
		Msg("sequence queued")
	return true
}

func (s *Sequencer) queueTransition(ctrl *Controller, seq *Sequence, from Posture, req Request) {
	to := seq.Begin
	if from == to {
		return
	}
	if !from.Valid() || !to.Valid() {
		metrics.InvalidTransitionsTotal.Inc()
		s.log.Error().
			Uint64(logging.FieldObject, uint64(req.Object)).
			Str(logging.FieldSequence, seq.Name).
			Uint8(logging.FieldFrom, uint8(from)).
			Uint8(logging.FieldTo, uint8(to)).
			Msg("invalid transition")
		return
	}
	transition, ok := s.transitions.Lookup(from, to)
	if !ok {
		return
	}
	for _, d := range transition.Motions {
		_ = ctrl.Enqueue(d, req.PlaybackSpeed, nil)
	}
	metrics.TransitionsInsertedTotal.Inc()
}

// tailMatches compares the sequence's first motion with the most recently
// queued motion. ok is false when either is missing; nothing is compared and
// the queue must be left alone.
func tailMatches(ctrl *Controller, seq *Sequence) (matched, ok bool) {
	first, ok := seq.First()
	if !ok {
		return false, false
	}
	tail, ok := ctrl.Tail()
	if !ok {
		return false, false
	}
	return tail.Record.Hash() == first.Hash, true
}
