package motion

import (
	"fmt"
	"sort"

	"github.com/milk9111/motionseq/logging"
)

// Catalog is an immutable hash-keyed lookup of sequences.
type Catalog struct {
	sequences map[Hash]*Sequence
}

// NewCatalog indexes seqs by hash. A later sequence with the same hash
// replaces an earlier one.
func NewCatalog(seqs ...*Sequence) (*Catalog, error) {
	log := logging.WithComponent("catalog")
	c := &Catalog{sequences: make(map[Hash]*Sequence, len(seqs))}
	for _, s := range seqs {
		if s == nil {
			return nil, ErrNilSequence
		}
		if !s.Hash.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrSentinelHash, s.Name)
		}
		if prev, ok := c.sequences[s.Hash]; ok {
			log.Warn().
				Str(logging.FieldSequence, s.Name).
				Str("replaced", prev.Name).
				Msg("duplicate sequence hash")
		}
		c.sequences[s.Hash] = s
	}
	return c, nil
}

// Find looks up a sequence. A miss is a normal outcome.
func (c *Catalog) Find(h Hash) (*Sequence, bool) {
	if c == nil || !h.Valid() {
		return nil, false
	}
	s, ok := c.sequences[h]
	return s, ok
}

// FindName looks up a sequence by name.
func (c *Catalog) FindName(name string) (*Sequence, bool) {
	return c.Find(HashName(name))
}

// Len returns the number of sequences.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.sequences)
}

// Names returns sorted sequence names.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.sequences))
	for _, s := range c.sequences {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}
