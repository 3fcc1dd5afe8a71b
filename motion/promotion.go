package motion

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/motionseq/logging"
	"github.com/milk9111/motionseq/metrics"
)

// beginQueuedTransition promotes the queue head to active. It reports false
// when nothing was queued, after disabling playback and clearing root motion
// on the owner.
func (c *Controller) beginQueuedTransition() bool {
	c.rootMotion = mgl64.Vec3{}
	c.rootBaseline = -1

	if !c.activateNextPending() {
		c.active.Enabled = false
		c.physics.ClearRootMotion(c.owner)
		if c.physics.Alive(c.owner) {
			c.physics.ClearFlag(c.owner, PhysicsFlagRootMotion)
		}
		metrics.PromotionFailuresTotal.Inc()
		return false
	}

	a := &c.active
	immediate := a.Immediate
	a.retime()
	a.ClockTicks = a.StartTimeTicks
	a.Immediate = false
	a.Complete = false
	c.promotions++
	a.Serial = c.promotions
	if a.Motion.Clip != nil {
		c.target = a.Motion.Clip.To
	}

	metrics.RecordPromotion(immediate)
	c.log.Debug().
		Str(logging.FieldMotion, a.Motion.Name()).
		Bool("immediate", immediate).
		Int32("start", a.StartTimeTicks).
		Int32("duration", a.DurationTicks).
		Int(logging.FieldQueueLen, c.queue.Len()).
		Msg("motion promoted")
	return true
}

// activateNextPending moves the queue head into the active slot by value and
// releases the entry.
func (c *Controller) activateNextPending() bool {
	e, ok := c.queue.PopHead()
	if !ok {
		return false
	}
	metrics.QueuedMotions.Dec()

	c.active = e.Record
	c.active.Enabled = true
	c.active.PlaybackSpeed = e.Speed
	if e.HasStartOverride {
		c.active.StartTimeTicks = e.StartOverride
	}
	c.active.retime()
	return true
}
