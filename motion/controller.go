package motion

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/metrics"
)

// MaxDeltaMs is the largest tick delta the controller is expected to see.
// Callers clamp with ClampDelta before calling Advance.
const MaxDeltaMs int32 = 125

// ClampDelta bounds a tick delta to [0, MaxDeltaMs].
func ClampDelta(deltaMs int32) int32 {
	if deltaMs < 0 {
		return 0
	}
	if deltaMs > MaxDeltaMs {
		return MaxDeltaMs
	}
	return deltaMs
}

// Controller owns the active motion and the pending queue of one object.
// It is not safe for concurrent use.
type Controller struct {
	owner    ObjectID
	animator Animator
	physics  Physics
	log      zerolog.Logger

	active Playback
	queue  Queue

	// posture is the last posture actually reached; target is the end
	// posture of the most recently promoted motion.
	posture Posture
	target  Posture

	idle           bool
	rejectRequests bool

	rootMotion   mgl64.Vec3
	rootBaseline float64 // last sampled frame position, -1 after a reset
	events       []Event
	// interrupted holds the notification for a motion cut short by an
	// immediate enqueue; it is emitted when the immediate motion is promoted.
	interrupted *Event
	promotions  uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithAnimator sets the keyframe sampler.
func WithAnimator(a Animator) Option {
	return func(c *Controller) {
		if a != nil {
			c.animator = a
		}
	}
}

// WithPhysics sets the physics integration of the owning object.
func WithPhysics(p Physics) Option {
	return func(c *Controller) {
		if p != nil {
			c.physics = p
		}
	}
}

// WithPosture sets the starting posture.
func WithPosture(p Posture) Option {
	return func(c *Controller) {
		c.posture = p
		c.target = p
	}
}

// NewController creates an idle controller for owner.
func NewController(owner ObjectID, opts ...Option) *Controller {
	c := &Controller{
		owner:        owner,
		animator:     nopAnimator{},
		physics:      nopPhysics{},
		posture:      PostureStand,
		target:       PostureStand,
		idle:         true,
		rootBaseline: -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logging.WithComponent("controller").With().Uint64(logging.FieldObject, uint64(owner)).Logger()
	return c
}

// Owner returns the object this controller belongs to.
func (c *Controller) Owner() ObjectID { return c.owner }

// Active returns the active record. Check Enabled before using it.
func (c *Controller) Active() *Playback { return &c.active }

// Posture returns the last posture the object actually reached.
func (c *Controller) Posture() Posture { return c.posture }

// TargetPosture returns the posture the controller is driving toward. Newly
// requested sequences transition from here.
func (c *Controller) TargetPosture() Posture { return c.target }

// Idle reports whether the last Advance found nothing to play.
func (c *Controller) Idle() bool { return c.idle }

// QueueLen returns the number of pending motions.
func (c *Controller) QueueLen() int { return c.queue.Len() }

// Pending returns a copy of the pending entries in FIFO order.
func (c *Controller) Pending() []QueueEntry { return c.queue.Entries() }

// Head returns the next motion to be promoted.
func (c *Controller) Head() (*QueueEntry, bool) { return c.queue.Head() }

// Tail returns the most recently queued motion.
func (c *Controller) Tail() (*QueueEntry, bool) { return c.queue.Tail() }

// PopHead drops the next pending motion.
func (c *Controller) PopHead() (QueueEntry, bool) {
	e, ok := c.queue.PopHead()
	if ok {
		metrics.QueuedMotions.Dec()
	}
	return e, ok
}

// CheckQueue verifies the pending queue invariants.
func (c *Controller) CheckQueue() error { return c.queue.Check() }

// RootMotion returns the root displacement produced by the last Advance.
func (c *Controller) RootMotion() mgl64.Vec3 { return c.rootMotion }

// SetRejectRequests locks the queue. While locked Enqueue drops motions.
func (c *Controller) SetRejectRequests(reject bool) { c.rejectRequests = reject }

// Events drains notifications produced since the last call.
func (c *Controller) Events() []Event {
	out := c.events
	c.events = nil
	return out
}

func (c *Controller) emit(evt Event) {
	evt.Object = c.owner
	c.events = append(c.events, evt)
}

// Reset drops all pending motions and disables the active one. It also
// clears root motion on the owning object. Calling it twice is harmless.
func (c *Controller) Reset() {
	if n := c.queue.Len(); n > 0 {
		metrics.QueuedMotions.Sub(float64(n))
	}
	c.queue.Clear()
	c.rootMotion = mgl64.Vec3{}
	c.rootBaseline = -1
	c.physics.ClearRootMotion(c.owner)
	c.physics.ClearFlag(c.owner, PhysicsFlagRootMotion)
	c.active.Enabled = false
	c.active.TransitionGuard = false
	c.interrupted = nil
}

// Enqueue appends a motion at the given playback speed. startOverride, when
// non-nil, replaces the descriptor's start time for this entry only.
// Immediate motions reset the controller first. It returns false when the
// motion was dropped.
func (c *Controller) Enqueue(d *Descriptor, speed float64, startOverride *int32) bool {
	c.active.TransitionGuard = false

	if d == nil {
		return false
	}
	if c.rejectRequests {
		c.log.Debug().Str(logging.FieldMotion, d.Name()).Msg("controller locked, motion dropped")
		return false
	}
	if d.Immediate {
		cut := c.interruptNotice()
		if cut == nil {
			// An earlier immediate already cut the active motion.
			cut = c.interrupted
		}
		c.Reset()
		c.interrupted = cut
	}

	entry := QueueEntry{
		Record: newPlayback(d, speed),
		Speed:  speed,
	}
	if startOverride != nil {
		entry.HasStartOverride = true
		entry.StartOverride = *startOverride
		entry.Record.StartTimeTicks = *startOverride
		entry.Record.ClockTicks = *startOverride
	}
	c.queue.Push(entry)
	metrics.QueuedMotions.Inc()
	return true
}

// Advance runs one simulation tick. deltaMs should already be clamped with
// ClampDelta. The result is whatever keyframe sampling reported, true when
// nothing was sampled, or the promotion outcome when a hand-off happened.
func (c *Controller) Advance(deltaMs int32) bool {
	a := &c.active
	running := a.Enabled && !a.Complete

	delta := deltaMs
	if delta < 0 {
		delta = 0
	}
	if a.Enabled && a.Motion.Sped() {
		delta = (delta * 3) / 2
	}

	prevClock := a.ClockTicks
	if running {
		a.ClockTicks += delta
	}
	c.rootMotion = mgl64.Vec3{}

	if !a.Enabled && c.queue.Empty() {
		c.idle = true
		return true
	}
	c.idle = false

	head, pending := c.queue.Head()
	if pending {
		a.TransitionGuard = false
	}

	if running {
		wrapped := false
		if a.atEnd() {
			wrapped = c.finishCycle(a)
			running = !a.Complete
		}
		if running {
			c.sampleRootMotion(prevClock, wrapped)
		}
	}

	if !pending {
		if running {
			return c.animator.AdvanceKeyframes(c.owner, a, delta)
		}
		return true
	}

	if !head.Record.Immediate && running {
		return c.animator.AdvanceKeyframes(c.owner, a, delta)
	}

	cut := c.interruptNotice()
	if cut == nil {
		cut = c.interrupted
	}
	c.interrupted = nil
	if cut != nil {
		c.log.Debug().
			Str(logging.FieldMotion, cut.Name).
			Str("next", head.Record.Motion.Name()).
			Msg("interrupting active motion")
		c.emit(*cut)
		metrics.InterruptsTotal.Inc()
	}
	return c.beginQueuedTransition()
}

// interruptNotice returns the notification owed if the active motion were
// cut short now, or nil when it is not running or does not ask for one.
func (c *Controller) interruptNotice() *Event {
	a := &c.active
	if !a.Enabled || a.Complete || !a.Motion.NotifyOnInterrupt {
		return nil
	}
	return &Event{Kind: EventInterrupted, Object: c.owner, Motion: a.Hash(), Name: a.Motion.Name()}
}

// finishCycle handles the active clip reaching its end. It reports whether
// the clock wrapped into another cycle.
func (c *Controller) finishCycle(a *Playback) bool {
	if _, ok := a.Motion.Clip.TerminalKeyframe(); ok {
		c.animator.ApplyTerminalKeyframe(c.owner, a)
	}

	if !a.TransitionGuard && a.RemainingRepeats < 1 {
		a.Complete = true
		if a.Motion.Clip != nil {
			c.posture = a.Motion.Clip.To
		}
		if a.Motion.NotifyEnd {
			c.emit(Event{Kind: EventNotifyEnd, Motion: a.Hash(), Name: a.Motion.Name()})
		}
		return false
	}

	if a.RemainingRepeats > 0 {
		a.RemainingRepeats--
		metrics.RepeatsTotal.Inc()
	}
	a.wrap()
	c.rootBaseline = -1
	return true
}

// sampleRootMotion accumulates the root displacement covered this tick.
func (c *Controller) sampleRootMotion(prevClock int32, wrapped bool) {
	a := &c.active
	clip := a.Motion.Clip
	if clip == nil || clip.Has(FlagNoRootMotion) || len(clip.Root) == 0 || a.TicksPerFrame <= 0 {
		return
	}
	end := float64(clip.EndFrameCount())
	if end <= 0 {
		return
	}
	tpf := float64(a.TicksPerFrame)
	to := clampFrame(float64(a.ClockTicks)/tpf, end)

	if wrapped {
		from := clampFrame(float64(prevClock)/tpf, end)
		tail := clip.RootAt(end).Sub(clip.RootAt(from))
		head := clip.RootAt(to).Sub(clip.RootAt(0))
		c.rootMotion = c.rootMotion.Add(tail).Add(head)
		c.rootBaseline = to
		return
	}

	from := c.rootBaseline
	if from < 0 {
		from = clampFrame(float64(prevClock)/tpf, end)
	}
	c.rootMotion = c.rootMotion.Add(clip.RootAt(to).Sub(clip.RootAt(from)))
	c.rootBaseline = to
}

func clampFrame(f, end float64) float64 {
	if f < 0 {
		return 0
	}
	if f > end {
		return end
	}
	return f
}
