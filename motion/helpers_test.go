package motion

type recordingAnimator struct {
	advances []int32
	terminal []string
	result   bool
}

func newRecordingAnimator() *recordingAnimator {
	return &recordingAnimator{result: true}
}

func (a *recordingAnimator) AdvanceKeyframes(_ ObjectID, _ *Playback, deltaTicks int32) bool {
	a.advances = append(a.advances, deltaTicks)
	return a.result
}

func (a *recordingAnimator) ApplyTerminalKeyframe(_ ObjectID, p *Playback) {
	a.terminal = append(a.terminal, p.Motion.Name())
}

type recordingPhysics struct {
	rootClears int
	flagClears int
	alive      bool
}

func (p *recordingPhysics) ClearRootMotion(ObjectID) { p.rootClears++ }

func (p *recordingPhysics) ClearFlag(_ ObjectID, flag PhysicsFlag) {
	if flag == PhysicsFlagRootMotion {
		p.flagClears++
	}
}

func (p *recordingPhysics) Alive(ObjectID) bool { return p.alive }

type objectTable struct {
	controllers map[ObjectID]*Controller
	postures    map[ObjectID]Posture
}

func newObjectTable() *objectTable {
	return &objectTable{
		controllers: map[ObjectID]*Controller{},
		postures:    map[ObjectID]Posture{},
	}
}

func (o *objectTable) add(c *Controller) *Controller {
	o.controllers[c.Owner()] = c
	return c
}

func (o *objectTable) MotionController(id ObjectID) (*Controller, bool) {
	c, ok := o.controllers[id]
	return c, ok
}

func (o *objectTable) Posture(id ObjectID) (Posture, bool) {
	if p, ok := o.postures[id]; ok {
		return p, true
	}
	if c, ok := o.controllers[id]; ok {
		return c.TargetPosture(), true
	}
	return PostureNone, false
}

// testClip returns a clip of frames frames at tpf ticks per frame.
func testClip(name string, frames, tpf int32, from, to Posture) *Clip {
	return &Clip{Name: name, FrameCount: frames, BaseTicksPerFrame: tpf, From: from, To: to}
}

func testMotion(name string, from, to Posture) *Descriptor {
	return NewDescriptor(testClip(name, 4, 100, from, to))
}

func pendingNames(c *Controller) []string {
	var names []string
	for _, e := range c.Pending() {
		names = append(names, e.Record.Motion.Name())
	}
	return names
}
