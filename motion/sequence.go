package motion

// Sequence is a named, ordered list of motions with begin and end postures.
type Sequence struct {
	Name    string
	Hash    Hash
	Begin   Posture
	End     Posture
	Motions []*Descriptor
}

// NewSequence creates a sequence and infers its postures from the first and
// last clip.
func NewSequence(name string, motions ...*Descriptor) *Sequence {
	s := &Sequence{
		Name:    name,
		Hash:    HashName(name),
		Motions: motions,
	}
	s.Begin, s.End = inferPostures(motions)
	return s
}

// NewTransitionSequence creates a sequence with explicit postures.
func NewTransitionSequence(name string, from, to Posture, motions ...*Descriptor) *Sequence {
	return &Sequence{
		Name:    name,
		Hash:    HashName(name),
		Begin:   from,
		End:     to,
		Motions: motions,
	}
}

// First returns the first motion, if any.
func (s *Sequence) First() (*Descriptor, bool) {
	if s == nil || len(s.Motions) == 0 {
		return nil, false
	}
	return s.Motions[0], true
}

// Clear resets a scratch sequence. Catalog entries are never cleared.
func (s *Sequence) Clear() {
	s.Name = ""
	s.Hash = NoSequence
	s.Begin = PostureNone
	s.End = PostureNone
	s.Motions = nil
}

func inferPostures(motions []*Descriptor) (Posture, Posture) {
	if len(motions) == 0 || motions[0] == nil || motions[0].Clip == nil {
		return PostureNone, PostureNone
	}
	begin := motions[0].Clip.From
	end := begin
	if last := motions[len(motions)-1]; last != nil && last.Clip != nil {
		end = last.Clip.To
	}
	return begin, end
}
