package component

import "github.com/milk9111/motionseq/motion"

// MotionController attaches a motion controller to an entity. The entity id
// is the controller's owner.
type MotionController struct {
	Controller *motion.Controller
}

var MotionControllerComponent = NewComponent[MotionController]()
