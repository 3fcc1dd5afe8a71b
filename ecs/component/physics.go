package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/motionseq/motion"
)

// PhysicsBody stores Chipmunk2D runtime data, collider configuration and the
// root motion waiting to be applied to the body.
type PhysicsBody struct {
	Body     *cp.Body
	Shape    *cp.Shape
	Width    float64
	Height   float64
	Mass     float64
	Friction float64
	Static   bool

	Flags      motion.PhysicsFlag
	RootMotion mgl64.Vec3
}

// HasFlag reports whether flag is set.
func (p *PhysicsBody) HasFlag(flag motion.PhysicsFlag) bool {
	return p != nil && p.Flags&flag != 0
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
