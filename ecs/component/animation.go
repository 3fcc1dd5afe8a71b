package component

// Animation is the sampled pose of an entity: the clip and keyframe the
// motion controller last drove it to.
type Animation struct {
	Motion   string
	Frame    int32
	Terminal bool
	// Serial is the promotion serial of the record last sampled.
	Serial uint64
	// FrameEvents enables frame callback events for this entity.
	FrameEvents bool
}

var AnimationComponent = NewComponent[Animation]()
