package player

import (
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/gen2brain/go-mpv"
	"github.com/rs/zerolog"

	"github.com/depeter/mediahand/internal/config"
	"github.com/depeter/mediahand/internal/log"
)

// Player wraps libmpv for embedded video playback.
type Player struct {
	m        *mpv.Mpv
	mu       sync.Mutex
	playing  bool
	paused   bool
	duration float64
	position float64
	itemID   string
	// loads and ends count loadfile commands and end-file events, so the
	// end of a replaced file is not taken for the end of the current one.
	loads, ends int

	logger zerolog.Logger

	// Callbacks run on the mpv event goroutine, never under the lock.
	OnPlaybackEnd     func()
	OnTimeChanged     func(seconds float64)
	OnDurationChanged func(seconds float64)
}

// New creates and initializes a new mpv player instance.
func New(cfg *config.Config) (*Player, error) {
	m := mpv.New()
	p := &Player{m: m, logger: log.WithComponent("player")}

	// Core options; mpv owns the render pipeline, our overlay draws through osd-overlay
	p.must(m.SetOptionString("hwdec", cfg.Playback.HWAccel))
	p.must(m.SetOptionString("vo", "gpu"))
	p.must(m.SetOptionString("osc", "no"))
	p.must(m.SetOptionString("input-default-bindings", "no"))
	p.must(m.SetOptionString("input-vo-keyboard", "no"))
	p.must(m.SetOptionString("keep-open", "yes"))
	p.must(m.SetOptionString("idle", "yes"))
	p.must(m.SetOptionString("volume", strconv.Itoa(cfg.Playback.Volume)))

	if err := m.Initialize(); err != nil {
		return nil, fmt.Errorf("mpv init: %w", err)
	}

	m.ObserveProperty(0, "time-pos", mpv.FormatDouble)
	m.ObserveProperty(0, "duration", mpv.FormatDouble)
	m.ObserveProperty(0, "pause", mpv.FormatFlag)
	m.ObserveProperty(0, "eof-reached", mpv.FormatFlag)

	go p.eventLoop()

	return p, nil
}

func (p *Player) must(err error) {
	if err != nil {
		p.logger.Warn().Err(err).Msg("mpv option")
	}
}

// SetWindowID sets the native window handle for embedded playback.
func (p *Player) SetWindowID(wid int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m.SetOptionString("wid", strconv.FormatInt(wid, 10))
}

// LoadFile starts playback of a path or URL. itemID is an opaque tag
// returned by ItemID.
func (p *Player) LoadFile(url string, itemID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.itemID = itemID
	p.loads++
	p.playing = true
	p.paused = false
	p.position = 0
	p.duration = 0
	return p.m.Command([]string{"loadfile", url})
}

// Seek seeks relative to current position.
func (p *Player) Seek(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m.Command([]string{"seek", fmt.Sprintf("%.1f", seconds), "relative"})
}

// SeekAbsolute seeks to an absolute position.
func (p *Player) SeekAbsolute(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	return p.m.Command([]string{"seek", fmt.Sprintf("%.1f", seconds), "absolute"})
}

// TogglePause toggles pause state.
func (p *Player) TogglePause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m.Command([]string{"cycle", "pause"})
}

// SetVolume sets the volume (0-100).
func (p *Player) SetVolume(vol int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m.SetPropertyString("volume", strconv.Itoa(vol))
}

// Stop stops playback.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
	return p.m.Command([]string{"stop"})
}

// Destroy cleans up the mpv instance.
func (p *Player) Destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m.TerminateDestroy()
}

// Playing returns whether media is currently loaded.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Paused returns the current pause state.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position in seconds.
func (p *Player) Position() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// Duration returns the total duration in seconds.
func (p *Player) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

// ItemID returns the tag of the currently loaded file.
func (p *Player) ItemID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.itemID
}

func flagValue(v any) (bool, bool) {
	switch f := v.(type) {
	case bool:
		return f, true
	case int:
		return f == 1, true
	case int64:
		return f == 1, true
	}
	return false, false
}

func (p *Player) eventLoop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	for {
		ev := p.m.WaitEvent(1.0)
		if ev == nil {
			continue
		}

		switch ev.EventID {
		case mpv.EventPropertyChange:
			if ev.Data == nil {
				continue
			}
			prop := ev.Property()
			var onTime, onDuration func(float64)
			var value float64
			p.mu.Lock()
			ended := false
			switch prop.Name {
			case "time-pos":
				if v, ok := prop.Data.(float64); ok {
					p.position = v
					value, onTime = v, p.OnTimeChanged
				}
			case "duration":
				if v, ok := prop.Data.(float64); ok {
					p.duration = v
					value, onDuration = v, p.OnDurationChanged
				}
			case "pause":
				if v, ok := flagValue(prop.Data); ok {
					p.paused = v
				}
			case "eof-reached":
				// keep-open holds the last frame instead of ending the file.
				if v, ok := flagValue(prop.Data); ok && v && p.playing {
					p.playing = false
					ended = true
				}
			}
			onEnd := p.OnPlaybackEnd
			p.mu.Unlock()
			if onTime != nil {
				onTime(value)
			}
			if onDuration != nil {
				onDuration(value)
			}
			if ended && onEnd != nil {
				onEnd()
			}

		case mpv.EventEnd:
			p.mu.Lock()
			p.ends++
			current := p.ends >= p.loads
			wasPlaying := p.playing && current
			if current {
				p.playing = false
			}
			onEnd := p.OnPlaybackEnd
			p.mu.Unlock()
			if ev.Data != nil {
				ef := ev.EndFile()
				p.logger.Debug().Str("reason", fmt.Sprint(ef.Reason)).Bool("current", current).
					Bool("was_playing", wasPlaying).Msg("mpv end-file")
			}
			// Stop() clears playing first, so user stops arrive here with
			// wasPlaying=false.
			if wasPlaying && onEnd != nil {
				onEnd()
			}

		case mpv.EventShutdown:
			return
		}
	}
}
