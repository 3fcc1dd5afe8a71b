package system

import (
	"github.com/milk9111/motionseq/ecs"
	"github.com/milk9111/motionseq/ecs/component"
	"github.com/milk9111/motionseq/motion"
)

// KeyframeSampler is the controller's Animator. It tracks the keyframe under
// each controller's clock in the entity's Animation component and raises
// frame callback events as frames are crossed.
type KeyframeSampler struct {
	w *ecs.World
}

func NewKeyframeSampler(w *ecs.World) *KeyframeSampler {
	return &KeyframeSampler{w: w}
}

func (k *KeyframeSampler) AdvanceKeyframes(owner motion.ObjectID, p *motion.Playback, _ int32) bool {
	e := EntityOf(owner)
	anim, ok := k.animation(e)
	if !ok || p == nil || p.Motion == nil {
		return true
	}
	prev := k.rebase(anim, p)
	cur := p.Frame()
	anim.Terminal = false
	if anim.FrameEvents {
		k.fire(e, p, prev, cur)
	}
	anim.Frame = cur
	return true
}

func (k *KeyframeSampler) ApplyTerminalKeyframe(owner motion.ObjectID, p *motion.Playback) {
	e := EntityOf(owner)
	anim, ok := k.animation(e)
	if !ok || p == nil || p.Motion == nil {
		return
	}
	terminal, ok := p.Motion.Clip.TerminalKeyframe()
	if !ok {
		return
	}
	prev := k.rebase(anim, p)
	if anim.FrameEvents && terminal > prev {
		k.fire(e, p, prev, terminal)
	}
	anim.Frame = terminal
	anim.Terminal = true
}

func (k *KeyframeSampler) animation(e ecs.Entity) (*component.Animation, bool) {
	if k == nil || k.w == nil || !k.w.IsAlive(e) {
		return nil, false
	}
	return ecs.Get(k.w, e, component.AnimationComponent.Kind())
}

// rebase returns the last sampled frame, or -1 when p is a newly promoted
// record.
func (k *KeyframeSampler) rebase(anim *component.Animation, p *motion.Playback) int32 {
	if anim.Serial != p.Serial {
		anim.Serial = p.Serial
		anim.Motion = p.Motion.Name()
		anim.Terminal = false
		return -1
	}
	return anim.Frame
}

// fire raises callbacks for frames in (prev, cur]. A cur below prev means the
// clock wrapped, so the tail of the previous cycle is included.
func (k *KeyframeSampler) fire(e ecs.Entity, p *motion.Playback, prev, cur int32) {
	for _, cb := range p.Motion.FrameCallbacks() {
		if !crossed(prev, cur, cb.Frame) {
			continue
		}
		k.w.Events().Push(ecs.Event{
			Type:   motion.EventFrame.String(),
			Entity: e,
			Data: motion.Event{
				Kind:   motion.EventFrame,
				Object: ObjectOf(e),
				Motion: p.Hash(),
				Name:   cb.Name,
				Frame:  cb.Frame,
			},
		})
	}
}

func crossed(prev, cur, frame int32) bool {
	if cur >= prev {
		return frame > prev && frame <= cur
	}
	return frame > prev || frame <= cur
}
