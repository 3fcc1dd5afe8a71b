package system

// Clock carries the tick delta shared by the per-tick systems. The
// simulation writes it before each scheduler update.
type Clock struct {
	Tick    uint64
	DeltaMs int32
}

// Seconds returns the tick delta in seconds.
func (c *Clock) Seconds() float64 {
	if c == nil || c.DeltaMs <= 0 {
		return 0
	}
	return float64(c.DeltaMs) / 1000
}
