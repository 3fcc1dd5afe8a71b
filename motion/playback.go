package motion

import "math"

// Playback is the runtime instance of a motion. The controller owns exactly
// one active Playback; queue entries carry candidate copies.
type Playback struct {
	Motion           *Descriptor
	Enabled          bool
	ClockTicks       int32
	TicksPerFrame    int32
	PlaybackSpeed    float64
	RemainingRepeats int
	TransitionGuard  bool
	Immediate        bool
	StartTimeTicks   int32
	DurationTicks    int32
	// Complete is set once the clip reached its end with no repeats left and
	// no guard; the record then holds its terminal pose until handed off.
	Complete bool
	// Serial numbers promotions on the owning controller, starting at 1.
	Serial uint64
}

func newPlayback(d *Descriptor, speed float64) Playback {
	p := Playback{
		Motion:          d,
		Enabled:         true,
		PlaybackSpeed:   speed,
		TransitionGuard: d.TransitionGuard,
		Immediate:       d.Immediate,
		StartTimeTicks:  d.StartTimeTicks,
		ClockTicks:      d.StartTimeTicks,
	}
	if d.RepeatCount > 0 {
		p.RemainingRepeats = d.RepeatCount
	}
	p.retime()
	return p
}

// Hash returns the motion hash, or NoSequence when the record is empty.
func (p *Playback) Hash() Hash {
	if p == nil || p.Motion == nil {
		return NoSequence
	}
	return p.Motion.Hash
}

// Frame returns the keyframe index under the clock.
func (p *Playback) Frame() int32 {
	if p == nil || p.Motion == nil || p.TicksPerFrame <= 0 || p.ClockTicks <= 0 {
		return 0
	}
	frame := p.ClockTicks / p.TicksPerFrame
	if end := p.Motion.Clip.EndFrameCount(); end > 0 && frame >= end {
		return end - 1
	}
	return frame
}

// retime recomputes ticks per frame and the cached duration from the
// descriptor's base timing and the playback speed.
func (p *Playback) retime() {
	var base int32 = 1
	if p.Motion != nil && p.Motion.Clip != nil && p.Motion.Clip.BaseTicksPerFrame > 0 {
		base = p.Motion.Clip.BaseTicksPerFrame
	}
	p.TicksPerFrame = scaledTicksPerFrame(base, p.PlaybackSpeed)
	var frames int32
	if p.Motion != nil {
		frames = p.Motion.Clip.EndFrameCount()
	}
	p.DurationTicks = p.TicksPerFrame * frames
}

// atEnd reports whether the clock has entered the final frame interval.
func (p *Playback) atEnd() bool {
	if p.DurationTicks <= 0 {
		return true
	}
	return p.ClockTicks > p.DurationTicks-p.TicksPerFrame
}

// wrap moves the clock into the next cycle, keeping it in [0, duration).
func (p *Playback) wrap() {
	if p.DurationTicks <= 0 {
		p.ClockTicks = 0
		return
	}
	p.ClockTicks -= p.DurationTicks
	if p.ClockTicks < 0 {
		p.ClockTicks = 0
	}
	p.ClockTicks %= p.DurationTicks
}

func scaledTicksPerFrame(base int32, speed float64) int32 {
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		speed = 1
	}
	tpf := int32(math.Round(float64(base) * speed))
	if tpf < 1 {
		return 1
	}
	return tpf
}
