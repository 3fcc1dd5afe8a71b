package motion

import "errors"

var (
	ErrInvalidPosture = errors.New("motion: invalid posture")
	ErrSentinelHash   = errors.New("motion: sequence hash is the no-sequence sentinel")
	ErrNilSequence    = errors.New("motion: sequence is nil")
	ErrNilClip        = errors.New("motion: descriptor has no clip")
)
