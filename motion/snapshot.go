package motion

// PlaybackSnapshot is a JSON friendly view of a playback record.
type PlaybackSnapshot struct {
	Motion           string  `json:"motion"`
	Hash             string  `json:"hash"`
	Enabled          bool    `json:"enabled"`
	Complete         bool    `json:"complete,omitempty"`
	ClockTicks       int32   `json:"clock_ticks"`
	DurationTicks    int32   `json:"duration_ticks"`
	Frame            int32   `json:"frame"`
	Speed            float64 `json:"speed"`
	RemainingRepeats int     `json:"remaining_repeats,omitempty"`
	TransitionGuard  bool    `json:"transition_guard,omitempty"`
	Immediate        bool    `json:"immediate,omitempty"`
}

// Snapshot is a point-in-time view of a controller for diagnostics.
type Snapshot struct {
	Object  ObjectID           `json:"object"`
	Idle    bool               `json:"idle"`
	Posture string             `json:"posture"`
	Target  string             `json:"target"`
	Active  *PlaybackSnapshot  `json:"active,omitempty"`
	Pending []PlaybackSnapshot `json:"pending,omitempty"`
}

func snapshotOf(p *Playback) PlaybackSnapshot {
	return PlaybackSnapshot{
		Motion:           p.Motion.Name(),
		Hash:             p.Hash().String(),
		Enabled:          p.Enabled,
		Complete:         p.Complete,
		ClockTicks:       p.ClockTicks,
		DurationTicks:    p.DurationTicks,
		Frame:            p.Frame(),
		Speed:            p.PlaybackSpeed,
		RemainingRepeats: p.RemainingRepeats,
		TransitionGuard:  p.TransitionGuard,
		Immediate:        p.Immediate,
	}
}

// Snapshot captures the controller state.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Object:  c.owner,
		Idle:    c.idle,
		Posture: c.posture.String(),
		Target:  c.target.String(),
	}
	if c.active.Enabled {
		a := snapshotOf(&c.active)
		s.Active = &a
	}
	for _, e := range c.queue.Entries() {
		rec := e.Record
		rec.PlaybackSpeed = e.Speed
		s.Pending = append(s.Pending, snapshotOf(&rec))
	}
	return s
}
