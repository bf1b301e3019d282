package player

import "strconv"

// SetOSDOverlay places ASS events into mpv overlay slot id, in a
// resX x resY coordinate space. Empty text removes the slot.
func (p *Player) SetOSDOverlay(id int, text string, resX, resY int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if text == "" {
		return p.m.Command([]string{"osd-overlay", strconv.Itoa(id), "none", ""})
	}
	return p.m.Command([]string{"osd-overlay", strconv.Itoa(id), "ass-events", text,
		strconv.Itoa(resX), strconv.Itoa(resY)})
}

// ShowText flashes a plain message on the video for ms milliseconds.
func (p *Player) ShowText(text string, ms int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.m.Command([]string{"show-text", text, strconv.Itoa(ms)})
}
