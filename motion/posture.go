package motion

import (
	"fmt"
	"strings"
)

// Posture is the discrete body state an object is in or moving toward.
type Posture uint8

const (
	PostureNone Posture = iota
	PostureStand
	PostureCrouch
	PostureProne
	PostureOnBack
	PostureSit
	PostureScuba
)

// PostureCount is the number of postures and the transition table dimension.
const PostureCount = 7

var postureNames = [PostureCount]string{
	"none",
	"stand",
	"crouch",
	"prone",
	"on_back",
	"sit",
	"scuba",
}

// Valid reports whether p can index the transition table.
func (p Posture) Valid() bool {
	return int(p) < PostureCount
}

func (p Posture) String() string {
	if !p.Valid() {
		return fmt.Sprintf("posture(%d)", uint8(p))
	}
	return postureNames[p]
}

// PostureFromID converts a raw clip state id. Unknown ids map to PostureNone.
func PostureFromID(id uint32) Posture {
	if id >= PostureCount {
		return PostureNone
	}
	return Posture(id)
}

// ParsePosture accepts both MSEQ_STATE_* labels and plain names such as
// "crouch" or "on_back".
func ParsePosture(s string) (Posture, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "mseq_state_")
	switch name {
	case "", "none", "no_state":
		return PostureNone, nil
	}
	for i, n := range postureNames {
		if n == name {
			return Posture(i), nil
		}
	}
	return PostureNone, fmt.Errorf("%w: %q", ErrInvalidPosture, s)
}
