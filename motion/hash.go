package motion

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Hash identifies sequences and motions.
type Hash uint32

// NoSequence is the sentinel hash meaning "no sequence".
const NoSequence Hash = 0xFFFFFFFF

// HashName hashes a sequence or clip name. The result is never NoSequence.
func HashName(name string) Hash {
	sum := xxhash.Sum64String(name)
	h := Hash(uint32(sum) ^ uint32(sum>>32))
	if h == NoSequence {
		return NoSequence - 1
	}
	return h
}

// Valid reports whether h is not the sentinel.
func (h Hash) Valid() bool {
	return h != NoSequence
}

func (h Hash) String() string {
	return fmt.Sprintf("%08x", uint32(h))
}
