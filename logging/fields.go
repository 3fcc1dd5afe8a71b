package logging

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldEvent     = "event"

	// Motion fields
	FieldObject   = "object"
	FieldSequence = "sequence"
	FieldMotion   = "motion"
	FieldFrom     = "from_posture"
	FieldTo       = "to_posture"
	FieldQueueLen = "queue_len"
	FieldTick     = "tick"

	// Files
	FieldPath = "path"
	FieldLine = "line"
)
