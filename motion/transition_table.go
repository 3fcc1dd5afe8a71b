package motion

import (
	"fmt"

	"github.com/milk9111/motionseq/logging"
)

// TransitionTable maps (from, to) posture pairs to the sequence that bridges
// them. Empty cells mean no transition is defined.
type TransitionTable struct {
	cells [PostureCount][PostureCount]*Sequence
}

// NewTransitionTable places each sequence at (Begin, End). A later sequence
// for the same pair replaces an earlier one.
func NewTransitionTable(seqs ...*Sequence) (*TransitionTable, error) {
	log := logging.WithComponent("transitions")
	t := &TransitionTable{}
	for _, s := range seqs {
		if s == nil {
			return nil, ErrNilSequence
		}
		if !s.Begin.Valid() || !s.End.Valid() {
			return nil, fmt.Errorf("%w: transition %q %d->%d", ErrInvalidPosture, s.Name, s.Begin, s.End)
		}
		if prev := t.cells[s.Begin][s.End]; prev != nil {
			log.Warn().
				Str(logging.FieldSequence, s.Name).
				Str("replaced", prev.Name).
				Stringer(logging.FieldFrom, s.Begin).
				Stringer(logging.FieldTo, s.End).
				Msg("duplicate transition sequence")
		}
		t.cells[s.Begin][s.End] = s
	}
	return t, nil
}

// Lookup returns the transition from one posture to another. Out-of-range
// postures and empty cells both report no transition.
func (t *TransitionTable) Lookup(from, to Posture) (*Sequence, bool) {
	if t == nil || !from.Valid() || !to.Valid() {
		return nil, false
	}
	s := t.cells[from][to]
	return s, s != nil
}

// Len returns the number of defined transitions.
func (t *TransitionTable) Len() int {
	if t == nil {
		return 0
	}
	n := 0
	for i := range t.cells {
		for j := range t.cells[i] {
			if t.cells[i][j] != nil {
				n++
			}
		}
	}
	return n
}
