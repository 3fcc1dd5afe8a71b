package component

import "github.com/milk9111/motionseq/motion"

// SequenceRequest is a one-shot request to play a sequence on Target. The
// request entity is destroyed once the sequence request system has run.
//
// Hash, when set, names the sequence directly and Sequence is ignored.
type SequenceRequest struct {
	Target         motion.ObjectID
	Sequence       string
	Hash           *motion.Hash
	Dedupe         bool
	ForceClear     bool
	SkipTransition bool
	Speed          float64
	StartTime      *int32
}

var SequenceRequestComponent = NewComponent[SequenceRequest]()
