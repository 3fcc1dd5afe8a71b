package sim

import (
	"context"
	"time"

	"github.com/milk9111/motionseq/logging"
)

// Run steps the simulation every interval until ctx is done or maxTicks
// ticks have run. A zero interval steps as fast as possible; a zero maxTicks
// runs until cancelled.
func (s *Simulation) Run(ctx context.Context, interval time.Duration, maxTicks int) error {
	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}

	for n := 0; maxTicks == 0 || n < maxTicks; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
		if _, err := s.Step(); err != nil {
			return err
		}
	}
	s.log.Info().Uint64(logging.FieldTick, s.clock.Tick).Msg("run finished")
	return nil
}
