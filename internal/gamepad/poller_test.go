package gamepad

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// scriptPad plays back held-button frames, then reports end.
type scriptPad struct {
	mu     sync.Mutex
	frames [][]Button
	end    error
	edges  EdgeTracker
	polls  int
}

func (p *scriptPad) Poll() (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.polls++
	if len(p.frames) == 0 {
		if p.end != nil {
			return State{}, p.end
		}
		return p.edges.Next(func(Button) bool { return false }), nil
	}
	held := p.frames[0]
	p.frames = p.frames[1:]
	return p.edges.Next(func(b Button) bool {
		for _, h := range held {
			if h == b {
				return true
			}
		}
		return false
	}), nil
}

func TestEdgeTracker(t *testing.T) {
	var tr EdgeTracker
	held := map[Button]bool{ButtonB: true}
	fn := func(b Button) bool { return held[b] }

	s := tr.Next(fn)
	assert.True(t, s.Pressed(ButtonB))
	assert.True(t, s.JustPressed(ButtonB))

	s = tr.Next(fn)
	assert.True(t, s.Pressed(ButtonB))
	assert.False(t, s.JustPressed(ButtonB), "held button is not a new press")

	held[ButtonB] = false
	s = tr.Next(fn)
	assert.False(t, s.Pressed(ButtonB))

	held[ButtonB] = true
	s = tr.Next(fn)
	assert.True(t, s.JustPressed(ButtonB))

	tr.Reset()
	s = tr.Next(fn)
	assert.True(t, s.JustPressed(ButtonB))

	assert.False(t, s.Pressed(Button(-1)))
	assert.False(t, s.JustPressed(buttonCount))
	assert.Equal(t, "RB", ButtonRightBumper.String())
	assert.Equal(t, "Unknown", Button(99).String())
	assert.Len(t, Buttons(), int(buttonCount))
}

func TestEdgeTracker_SeedSuppressesHeldButtons(t *testing.T) {
	var tr EdgeTracker
	held := map[Button]bool{ButtonRightBumper: true}
	fn := func(b Button) bool { return held[b] }

	tr.Seed(fn)
	s := tr.Next(fn)
	assert.True(t, s.Pressed(ButtonRightBumper))
	assert.False(t, s.JustPressed(ButtonRightBumper), "a button held when seeded is not a press")

	held[ButtonLeftBumper] = true
	s = tr.Next(fn)
	assert.True(t, s.JustPressed(ButtonLeftBumper))
}

func TestPoller_UnplugStopsLoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	clock := clockwork.NewFakeClock()
	pad := &scriptPad{
		frames: [][]Button{{ButtonB}, {ButtonB}},
		end:    ErrUnplugged,
	}
	states := make(chan State, 4)
	p := &Poller{Pad: pad, Interval: 50 * time.Millisecond, Clock: clock, OnState: func(s State) { states <- s }}

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	first := <-states
	assert.True(t, first.JustPressed(ButtonB))
	clock.Advance(50 * time.Millisecond)

	second := <-states
	assert.True(t, second.Pressed(ButtonB))
	assert.False(t, second.JustPressed(ButtonB))
	clock.Advance(50 * time.Millisecond)

	select {
	case err := <-done:
		require.NoError(t, err, "unplugging must end the loop without an error")
	case <-time.After(2 * time.Second):
		t.Fatal("poll loop did not stop after unplug")
	}
	assert.Equal(t, 3, pad.polls)
}

func TestPoller_WaitsForInterval(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	clock := clockwork.NewFakeClock()
	pad := &scriptPad{}
	states := make(chan State, 4)
	p := &Poller{Pad: pad, Interval: 50 * time.Millisecond, Clock: clock, OnState: func(s State) { states <- s }}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	<-states
	select {
	case <-states:
		t.Fatal("polled again before the interval elapsed")
	case <-time.After(20 * time.Millisecond):
	}

	clock.Advance(50 * time.Millisecond)
	<-states

	cancel()
	require.NoError(t, <-done)
}

func TestPoller_CancelStopsLoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{Pad: &scriptPad{}, Interval: time.Millisecond}

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poll loop ignored cancellation")
	}
}

func TestPoller_OtherErrorsAreReturned(t *testing.T) {
	boom := errors.New("hid read failed")
	p := &Poller{Pad: &scriptPad{end: boom}, Clock: clockwork.NewFakeClock()}

	err := p.Run(context.Background())
	require.ErrorIs(t, err, boom)
}
