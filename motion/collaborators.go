package motion

// ObjectID identifies a simulated object that may own a controller.
type ObjectID uint64

// PhysicsFlag names a physics integration flag on the owning object.
type PhysicsFlag uint32

const (
	// PhysicsFlagRootMotion marks a body as driven by animation root motion.
	PhysicsFlagRootMotion PhysicsFlag = 1 << iota
)

// ObjectProvider resolves request targets.
type ObjectProvider interface {
	MotionController(id ObjectID) (*Controller, bool)
	Posture(id ObjectID) (Posture, bool)
}

// Animator samples keyframes for the active record.
type Animator interface {
	AdvanceKeyframes(owner ObjectID, p *Playback, deltaTicks int32) bool
	ApplyTerminalKeyframe(owner ObjectID, p *Playback)
}

// Physics is the owning object's physics/transform integration.
type Physics interface {
	ClearRootMotion(owner ObjectID)
	ClearFlag(owner ObjectID, flag PhysicsFlag)
	Alive(owner ObjectID) bool
}

type nopAnimator struct{}

func (nopAnimator) AdvanceKeyframes(ObjectID, *Playback, int32) bool { return true }
func (nopAnimator) ApplyTerminalKeyframe(ObjectID, *Playback)        {}

type nopPhysics struct{}

func (nopPhysics) ClearRootMotion(ObjectID)        {}
func (nopPhysics) ClearFlag(ObjectID, PhysicsFlag) {}
func (nopPhysics) Alive(ObjectID) bool             { return false }
