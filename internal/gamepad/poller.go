package gamepad

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/depeter/mediahand/internal/log"
)

// DefaultInterval is the poll cadence, about 20 Hz.
const DefaultInterval = 50 * time.Millisecond

// Poller samples a Pad at a fixed interval and hands each frame to OnState.
type Poller struct {
	Pad      Pad
	Interval time.Duration
	Clock    clockwork.Clock
	OnState  func(State)
}

// Run polls until ctx is done or the pad is unplugged; both end the loop
// with a nil error. Any other pad error is returned.
func (p *Poller) Run(ctx context.Context) error {
	logger := log.WithComponent("gamepad")

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	clock := p.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	logger.Debug().Dur("interval", interval).Msg("poll loop started")
	for {
		state, err := p.Pad.Poll()
		switch {
		case errors.Is(err, ErrUnplugged):
			logger.Info().Msg("controller unplugged, poll loop stopped")
			return nil
		case err != nil:
			return fmt.Errorf("poll gamepad: %w", err)
		}

		if ctx.Err() != nil {
			logger.Debug().Msg("poll loop cancelled")
			return nil
		}
		if p.OnState != nil {
			p.OnState(state)
		}

		select {
		case <-ctx.Done():
			logger.Debug().Msg("poll loop cancelled")
			return nil
		case <-ticker.Chan():
		}
	}
}
