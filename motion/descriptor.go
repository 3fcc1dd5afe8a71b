package motion

// CallbackKind distinguishes the callbacks a descriptor can carry.
type CallbackKind uint8

const (
	CallbackFrame CallbackKind = iota
	CallbackNotifyEnd
	CallbackNotifyInterrupt
)

// Callback is a named event attached to a motion.
type Callback struct {
	Kind  CallbackKind
	Frame int32
	Name  string
}

// Descriptor is the immutable per-motion data shared from the catalog into
// queue entries.
type Descriptor struct {
	Hash        Hash
	Clip        *Clip
	RepeatCount int
	Looping     bool
	// TransitionGuard blocks hand-off at the clip boundary until cleared.
	TransitionGuard   bool
	Immediate         bool
	NotifyOnInterrupt bool
	NotifyEnd         bool
	StartTimeTicks    int32
	Callbacks         []Callback
}

// NewDescriptor builds a descriptor for clip with no modifiers.
func NewDescriptor(clip *Clip) *Descriptor {
	d := &Descriptor{Clip: clip}
	if clip != nil {
		d.Hash = HashName(clip.Name)
	}
	return d
}

// Name returns the clip name, or "" when there is no clip.
func (d *Descriptor) Name() string {
	if d == nil || d.Clip == nil {
		return ""
	}
	return d.Clip.Name
}

// Sped reports whether the clip is declared sped.
func (d *Descriptor) Sped() bool {
	return d != nil && d.Clip.Has(FlagSped)
}

// FrameCallbacks returns callbacks fired on a specific frame.
func (d *Descriptor) FrameCallbacks() []Callback {
	if d == nil {
		return nil
	}
	var out []Callback
	for _, cb := range d.Callbacks {
		if cb.Kind == CallbackFrame {
			out = append(out, cb)
		}
	}
	return out
}
