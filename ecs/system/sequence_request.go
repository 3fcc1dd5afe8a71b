package system

import (
	"github.com/rs/zerolog"

	"github.com/milk9111/motionseq/ecs"
	"github.com/milk9111/motionseq/ecs/component"
	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/motion"
)

// EventSequenceRejected is raised for requests the sequencer turned down.
const EventSequenceRejected = "sequence.rejected"

// SequenceRequestSystem drains request entities into the sequencer.
type SequenceRequestSystem struct {
	sequencer *motion.Sequencer
	log       zerolog.Logger
}

func NewSequenceRequestSystem(s *motion.Sequencer) *SequenceRequestSystem {
	return &SequenceRequestSystem{
		sequencer: s,
		log:       logging.WithComponent("sequence_requests"),
	}
}

// RequestSequence queues a request entity for the next update.
func RequestSequence(w *ecs.World, req *component.SequenceRequest) {
	if w == nil || req == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.SequenceRequestComponent.Kind(), req)
}

// RequestSequenceByName queues a plain request for target.
func RequestSequenceByName(w *ecs.World, target ecs.Entity, sequence string) {
	RequestSequence(w, &component.SequenceRequest{Target: ObjectOf(target), Sequence: sequence})
}

func (s *SequenceRequestSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	objects := NewObjects(w)
	for _, ent := range ecs.Query(w, component.SequenceRequestComponent.Kind()) {
		req, ok := ecs.Get(w, ent, component.SequenceRequestComponent.Kind())
		if ok && s.sequencer != nil {
			r := requestOf(req)
			if !s.sequencer.Request(objects, r) {
				s.log.Debug().
					Uint64(logging.FieldObject, uint64(req.Target)).
					Str(logging.FieldSequence, req.Sequence).
					Str("hash", r.Sequence.String()).
					Msg("sequence request rejected")
				w.Events().Push(ecs.Event{Type: EventSequenceRejected, Entity: EntityOf(req.Target), Data: *req})
			}
		}
		ecs.DestroyEntity(w, ent)
	}
}

func requestOf(req *component.SequenceRequest) motion.Request {
	hash := motion.NoSequence
	switch {
	case req.Hash != nil:
		hash = *req.Hash
	case req.Sequence != "":
		hash = motion.HashName(req.Sequence)
	}
	r := motion.NewRequest(req.Target, hash)
	r.Dedupe = req.Dedupe
	r.ForceClear = req.ForceClear
	r.SkipTransition = req.SkipTransition
	if req.Speed > 0 {
		r.PlaybackSpeed = req.Speed
	}
	if req.StartTime != nil {
		r = r.StartAt(*req.StartTime)
	}
	return r
}
