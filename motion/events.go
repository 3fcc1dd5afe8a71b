package motion

// EventKind identifies controller notifications.
type EventKind uint8

const (
	// EventInterrupted is emitted when a running motion flagged
	// notify-on-interrupt is replaced before it completes.
	EventInterrupted EventKind = iota + 1
	// EventNotifyEnd is emitted when a motion flagged notify-end completes.
	EventNotifyEnd
	// EventFrame is emitted by samplers for frame callbacks.
	EventFrame
)

func (k EventKind) String() string {
	switch k {
	case EventInterrupted:
		return "motion.interrupted"
	case EventNotifyEnd:
		return "motion.notify_end"
	case EventFrame:
		return "motion.frame"
	default:
		return "motion.unknown"
	}
}

// Event is a notification for observers outside the controller.
type Event struct {
	Kind   EventKind
	Object ObjectID
	Motion Hash
	Name   string
	Frame  int32
}
