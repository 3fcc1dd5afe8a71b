package motion

import "github.com/go-gl/mathgl/mgl64"

// ClipFlags are per-clip declarations read from the sequencer defs.
type ClipFlags uint32

const (
	// FlagZIndependent marks clips that ignore depth ordering.
	FlagZIndependent ClipFlags = 1 << iota
	// FlagNoRootMotion disables root displacement extraction.
	FlagNoRootMotion
	// FlagSkipLastFrame ends the clip one frame early and skips its terminal keyframe.
	FlagSkipLastFrame
	// FlagSped plays the clip at 1.5x the tick delta.
	FlagSped
)

// Clip is the static timing data of one animation clip. Keyframe data lives
// with the animation sampler; the controller only needs timing, postures and
// root displacement.
type Clip struct {
	Name              string
	FrameCount        int32
	BaseTicksPerFrame int32
	From              Posture
	To                Posture
	Flags             ClipFlags
	// Root holds the cumulative root displacement at each frame.
	Root []mgl64.Vec3
}

// Has reports whether all flags are set.
func (c *Clip) Has(flags ClipFlags) bool {
	return c != nil && c.Flags&flags == flags
}

// EndFrameCount is the number of frames used for completion timing.
func (c *Clip) EndFrameCount() int32 {
	if c == nil {
		return 0
	}
	n := c.FrameCount
	if c.Has(FlagSkipLastFrame) {
		n--
	}
	if n < 0 {
		return 0
	}
	return n
}

// TerminalKeyframe returns the keyframe applied when the clip ends.
func (c *Clip) TerminalKeyframe() (int32, bool) {
	if c == nil || c.FrameCount <= 0 || c.Has(FlagSkipLastFrame) {
		return 0, false
	}
	return c.FrameCount - 1, true
}

// RootAt samples the cumulative root displacement at a fractional frame.
func (c *Clip) RootAt(frame float64) mgl64.Vec3 {
	if c == nil || len(c.Root) == 0 {
		return mgl64.Vec3{}
	}
	last := len(c.Root) - 1
	if frame <= 0 {
		return c.Root[0]
	}
	if frame >= float64(last) {
		return c.Root[last]
	}
	left := int(frame)
	t := frame - float64(left)
	a, b := c.Root[left], c.Root[left+1]
	return a.Add(b.Sub(a).Mul(t))
}
