package motion

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestController(owner ObjectID) (*Controller, *recordingAnimator, *recordingPhysics) {
	anim := newRecordingAnimator()
	phys := &recordingPhysics{alive: true}
	return NewController(owner, WithAnimator(anim), WithPhysics(phys)), anim, phys
}

// promote enqueues d and runs the promotion tick.
func promote(t *testing.T, c *Controller, d *Descriptor) {
	t.Helper()
	require.True(t, c.Enqueue(d, 1, nil))
	require.True(t, c.Advance(0))
	require.True(t, c.Active().Enabled)
	require.Equal(t, d.Name(), c.Active().Motion.Name())
}

func TestClampDelta(t *testing.T) {
	cases := []struct {
		in, want int32
	}{
		{-5, 0},
		{0, 0},
		{16, 16},
		{125, 125},
		{126, 125},
		{500, 125},
		{1 << 30, 125},
	}
	for _, c := range cases {
		if got := ClampDelta(c.in); got != c.want {
			t.Fatalf("ClampDelta(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestAdvanceIdle(t *testing.T) {
	c, anim, _ := newTestController(1)
	require.True(t, c.Advance(16))
	require.True(t, c.Idle())
	require.Empty(t, anim.advances)
}

func TestAdvancePromotesHead(t *testing.T) {
	c, anim, _ := newTestController(1)
	d := testMotion("crouch_down", PostureStand, PostureCrouch)
	require.True(t, c.Enqueue(d, 1, nil))

	require.True(t, c.Advance(16))
	require.False(t, c.Idle())
	require.Equal(t, 0, c.QueueLen())
	require.Equal(t, int32(0), c.Active().ClockTicks)
	require.Equal(t, PostureCrouch, c.TargetPosture())
	require.Equal(t, PostureStand, c.Posture())

	anim.result = false
	require.False(t, c.Advance(100))
	require.Equal(t, int32(100), c.Active().ClockTicks)
	require.Equal(t, []int32{100}, anim.advances)
	require.NoError(t, c.CheckQueue())
}

func TestSpedClipScalesClampedDelta(t *testing.T) {
	c, anim, _ := newTestController(1)
	clip := testClip("sprint", 10, 100, PostureStand, PostureStand)
	clip.Flags = FlagSped
	promote(t, c, NewDescriptor(clip))

	c.Advance(ClampDelta(500))
	require.Equal(t, int32(187), c.Active().ClockTicks)
	require.Equal(t, []int32{187}, anim.advances)
}

func TestPlaybackSpeedScalesTiming(t *testing.T) {
	cases := []struct {
		speed    float64
		tpf      int32
		duration int32
	}{
		{1, 100, 400},
		{2, 200, 800},
		{0.5, 50, 200},
		{1.26, 126, 504},
		{0, 100, 400},
		{-1, 100, 400},
		{0.001, 1, 4},
	}
	for _, tc := range cases {
		c, _, _ := newTestController(1)
		require.True(t, c.Enqueue(testMotion("walk", PostureStand, PostureStand), tc.speed, nil))
		c.Advance(0)
		a := c.Active()
		if a.TicksPerFrame != tc.tpf || a.DurationTicks != tc.duration {
			t.Fatalf("speed %v: tpf=%d duration=%d, want %d/%d", tc.speed, a.TicksPerFrame, a.DurationTicks, tc.tpf, tc.duration)
		}
	}
}

func TestSkipLastFrameShortensClip(t *testing.T) {
	c, anim, _ := newTestController(1)
	clip := testClip("land", 4, 100, PostureStand, PostureStand)
	clip.Flags = FlagSkipLastFrame
	promote(t, c, NewDescriptor(clip))
	require.Equal(t, int32(300), c.Active().DurationTicks)

	c.Advance(250)
	require.True(t, c.Active().Complete)
	require.Empty(t, anim.terminal)
}

func TestRepeatWrapsInsteadOfHandOff(t *testing.T) {
	c, _, _ := newTestController(1)
	a := testMotion("a", PostureStand, PostureStand)
	a.RepeatCount = 1
	b := testMotion("b", PostureStand, PostureCrouch)

	require.True(t, c.Enqueue(a, 1, nil))
	require.True(t, c.Enqueue(b, 1, nil))
	c.Advance(0)
	require.Equal(t, "a", c.Active().Motion.Name())

	for i := 0; i < 3; i++ {
		c.Advance(100)
	}
	require.Equal(t, int32(300), c.Active().ClockTicks)

	// End of the first cycle with b pending.
	c.Advance(100)
	act := c.Active()
	require.Equal(t, "a", act.Motion.Name())
	require.False(t, act.Complete)
	require.GreaterOrEqual(t, act.ClockTicks, int32(0))
	require.Less(t, act.ClockTicks, act.DurationTicks)
	require.Equal(t, 0, act.RemainingRepeats)
	require.Equal(t, 1, c.QueueLen())

	c.Advance(400)
	require.Equal(t, "b", c.Active().Motion.Name())
	require.Equal(t, 0, c.QueueLen())
}

func TestWrapCarriesOvershoot(t *testing.T) {
	c, _, _ := newTestController(1)
	a := testMotion("a", PostureStand, PostureStand)
	a.RepeatCount = 3
	promote(t, c, a)

	c.Advance(200)
	c.Advance(250)
	require.Equal(t, int32(50), c.Active().ClockTicks)
	require.Equal(t, 2, c.Active().RemainingRepeats)
}

func TestTransitionGuardHoldsUntilEnqueue(t *testing.T) {
	c, _, _ := newTestController(1)
	loop := testMotion("idle_loop", PostureStand, PostureStand)
	loop.Looping = true
	loop.TransitionGuard = true
	promote(t, c, loop)

	for i := 0; i < 3; i++ {
		c.Advance(400)
		require.Equal(t, "idle_loop", c.Active().Motion.Name())
		require.False(t, c.Active().Complete)
		require.True(t, c.Active().TransitionGuard)
	}

	require.True(t, c.Enqueue(testMotion("walk", PostureStand, PostureStand), 1, nil))
	require.False(t, c.Active().TransitionGuard)

	c.Advance(400)
	require.Equal(t, "walk", c.Active().Motion.Name())
}

func TestCompletedMotionHandsOffNextTick(t *testing.T) {
	c, anim, _ := newTestController(1)
	promote(t, c, testMotion("a", PostureStand, PostureCrouch))

	c.Advance(350)
	require.Equal(t, []string{"a"}, anim.terminal)
	require.True(t, c.Active().Enabled)
	require.True(t, c.Active().Complete)
	require.Equal(t, PostureCrouch, c.Posture())

	clock := c.Active().ClockTicks
	require.True(t, c.Advance(16))
	require.Equal(t, clock, c.Active().ClockTicks)
	require.Len(t, anim.terminal, 1)

	b := testMotion("b", PostureCrouch, PostureCrouch)
	require.True(t, c.Enqueue(b, 1, nil))
	require.Equal(t, "a", c.Active().Motion.Name())

	require.True(t, c.Advance(16))
	require.Equal(t, "b", c.Active().Motion.Name())
	require.False(t, c.Active().Complete)
	require.Empty(t, c.Events())
}

func TestImmediateEnqueueResets(t *testing.T) {
	c, _, phys := newTestController(1)
	promote(t, c, testMotion("a", PostureStand, PostureStand))
	require.True(t, c.Enqueue(testMotion("b", PostureStand, PostureStand), 1, nil))
	require.True(t, c.Enqueue(testMotion("c", PostureStand, PostureStand), 1, nil))

	hit := testMotion("hit", PostureStand, PostureStand)
	hit.Immediate = true
	require.True(t, c.Enqueue(hit, 1, nil))

	require.Equal(t, []string{"hit"}, pendingNames(c))
	require.False(t, c.Active().Enabled)
	require.Equal(t, 1, phys.rootClears)
	require.Equal(t, 1, phys.flagClears)

	c.Advance(16)
	require.Equal(t, "hit", c.Active().Motion.Name())
	require.False(t, c.Active().Immediate)
}

func TestImmediateInterruptNotifies(t *testing.T) {
	c, _, _ := newTestController(3)
	a := testMotion("a", PostureStand, PostureStand)
	a.NotifyOnInterrupt = true
	promote(t, c, a)
	c.Advance(50)

	hit := testMotion("hit", PostureStand, PostureStand)
	hit.Immediate = true
	require.True(t, c.Enqueue(hit, 1, nil))
	require.Empty(t, c.Events())

	c.Advance(16)
	require.Equal(t, "hit", c.Active().Motion.Name())
	evts := c.Events()
	want := []Event{{Kind: EventInterrupted, Object: 3, Motion: a.Hash, Name: "a"}}
	if diff := cmp.Diff(want, evts); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	require.Empty(t, c.Events())
}

func TestSecondImmediateKeepsInterruptNotice(t *testing.T) {
	c, _, _ := newTestController(4)
	aim := testMotion("aim", PostureStand, PostureStand)
	aim.NotifyOnInterrupt = true
	promote(t, c, aim)

	for _, name := range []string{"dive1", "dive2"} {
		d := testMotion(name, PostureStand, PostureProne)
		d.Immediate = true
		require.True(t, c.Enqueue(d, 1, nil))
	}
	require.Equal(t, []string{"dive2"}, pendingNames(c))

	c.Advance(16)
	require.Equal(t, "dive2", c.Active().Motion.Name())
	want := []Event{{Kind: EventInterrupted, Object: 4, Motion: aim.Hash, Name: "aim"}}
	if diff := cmp.Diff(want, c.Events()); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestImmediateHeadInterruptsRunningMotion(t *testing.T) {
	c, _, _ := newTestController(3)
	a := testMotion("a", PostureStand, PostureStand)
	a.NotifyOnInterrupt = true
	promote(t, c, a)

	hit := testMotion("hit", PostureStand, PostureStand)
	hit.Immediate = true
	c.queue.Push(QueueEntry{Record: newPlayback(hit, 1), Speed: 1})

	c.Advance(16)
	require.Equal(t, "hit", c.Active().Motion.Name())
	evts := c.Events()
	require.Len(t, evts, 1)
	require.Equal(t, EventInterrupted, evts[0].Kind)
	require.Equal(t, "a", evts[0].Name)
}

func TestCompletedMotionIsNotInterrupted(t *testing.T) {
	c, _, _ := newTestController(1)
	a := testMotion("a", PostureStand, PostureStand)
	a.NotifyOnInterrupt = true
	promote(t, c, a)
	c.Advance(400)
	require.True(t, c.Active().Complete)

	hit := testMotion("hit", PostureStand, PostureStand)
	hit.Immediate = true
	require.True(t, c.Enqueue(hit, 1, nil))
	c.Advance(16)
	require.Empty(t, c.Events())
}

func TestNotifyEnd(t *testing.T) {
	c, _, _ := newTestController(9)
	a := testMotion("a", PostureStand, PostureSit)
	a.NotifyEnd = true
	promote(t, c, a)

	c.Advance(400)
	evts := c.Events()
	require.Len(t, evts, 1)
	require.Equal(t, EventNotifyEnd, evts[0].Kind)
	require.Equal(t, ObjectID(9), evts[0].Object)
	require.Equal(t, PostureSit, c.Posture())
}

func TestPromotionOnEmptyQueueCleansUp(t *testing.T) {
	c, _, phys := newTestController(1)
	promote(t, c, testMotion("a", PostureStand, PostureStand))

	require.False(t, c.beginQueuedTransition())
	require.False(t, c.Active().Enabled)
	require.Equal(t, 1, phys.rootClears)
	require.Equal(t, 1, phys.flagClears)

	phys.alive = false
	require.False(t, c.beginQueuedTransition())
	require.Equal(t, 2, phys.rootClears)
	require.Equal(t, 1, phys.flagClears)
}

func TestStartOverride(t *testing.T) {
	c, _, _ := newTestController(1)
	d := testMotion("a", PostureStand, PostureStand)
	d.StartTimeTicks = 50
	start := int32(200)

	require.True(t, c.Enqueue(d, 1, &start))
	c.Advance(0)
	require.Equal(t, int32(200), c.Active().ClockTicks)
	require.Equal(t, int32(50), d.StartTimeTicks)

	require.True(t, c.Enqueue(d, 1, nil))
	c.Advance(400)
	require.Equal(t, int32(50), c.Active().ClockTicks)
}

func TestRejectRequests(t *testing.T) {
	c, _, _ := newTestController(1)
	c.SetRejectRequests(true)
	require.False(t, c.Enqueue(testMotion("a", PostureStand, PostureStand), 1, nil))
	require.Equal(t, 0, c.QueueLen())
	require.False(t, c.Enqueue(nil, 1, nil))

	c.SetRejectRequests(false)
	require.True(t, c.Enqueue(testMotion("a", PostureStand, PostureStand), 1, nil))
}

func TestResetIsIdempotent(t *testing.T) {
	c, _, _ := newTestController(1)
	promote(t, c, testMotion("a", PostureStand, PostureStand))
	require.True(t, c.Enqueue(testMotion("b", PostureStand, PostureStand), 1, nil))

	c.Reset()
	c.Reset()
	require.Equal(t, 0, c.QueueLen())
	require.False(t, c.Active().Enabled)
	require.NoError(t, c.CheckQueue())
	require.True(t, c.Advance(16))
	require.True(t, c.Idle())
}

func TestRootMotionSampling(t *testing.T) {
	c, _, _ := newTestController(1)
	clip := testClip("step", 4, 100, PostureStand, PostureStand)
	clip.Root = []mgl64.Vec3{{0, 0, 0}, {10, 0, 0}, {20, 0, 0}, {30, 0, 0}, {40, 0, 0}}
	promote(t, c, NewDescriptor(clip))
	require.Equal(t, mgl64.Vec3{}, c.RootMotion())

	c.Advance(100)
	require.True(t, c.RootMotion().ApproxEqual(mgl64.Vec3{10, 0, 0}), "got %v", c.RootMotion())
	c.Advance(50)
	require.True(t, c.RootMotion().ApproxEqual(mgl64.Vec3{5, 0, 0}), "got %v", c.RootMotion())

	c.Reset()
	require.Equal(t, mgl64.Vec3{}, c.RootMotion())
}

func TestRootMotionDisabledByFlag(t *testing.T) {
	c, _, _ := newTestController(1)
	clip := testClip("step", 4, 100, PostureStand, PostureStand)
	clip.Flags = FlagNoRootMotion
	clip.Root = []mgl64.Vec3{{0, 0, 0}, {10, 0, 0}, {20, 0, 0}, {30, 0, 0}, {40, 0, 0}}
	promote(t, c, NewDescriptor(clip))

	c.Advance(100)
	require.Equal(t, mgl64.Vec3{}, c.RootMotion())
}

func TestSnapshot(t *testing.T) {
	c, _, _ := newTestController(7)
	promote(t, c, testMotion("a", PostureStand, PostureCrouch))
	require.True(t, c.Enqueue(testMotion("b", PostureCrouch, PostureCrouch), 2, nil))

	want := Snapshot{
		Object:  7,
		Posture: "stand",
		Target:  "crouch",
		Active: &PlaybackSnapshot{
			Motion:        "a",
			Hash:          HashName("a").String(),
			Enabled:       true,
			DurationTicks: 400,
			Speed:         1,
		},
		Pending: []PlaybackSnapshot{{
			Motion:        "b",
			Hash:          HashName("b").String(),
			Enabled:       true,
			DurationTicks: 800,
			Speed:         2,
		}},
	}
	if diff := cmp.Diff(want, c.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}
