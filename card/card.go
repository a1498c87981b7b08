package card

import (
	"fmt"
	"math"
	"sync"

	"github.com/lixenwraith/persona-soundscape/constant"
)

// Soundscape is the playback control behind the toolbar button
type Soundscape interface {
	Toggle() error
	IsPlaying() bool
}

// Card is the toolbar and display state of one persona card
// Announce may be called from any goroutine
type Card struct {
	mu sync.Mutex

	persona      Persona
	highContrast bool
	zoom         float64
	announcement string

	soundscape Soundscape
	changed    func()
}

// New creates a card at 100% zoom in the default view
// changed, if non-nil, is called after every announcement
func New(p Persona, soundscape Soundscape, changed func()) *Card {
	return &Card{
		persona:    p,
		zoom:       1.0,
		soundscape: soundscape,
		changed:    changed,
	}
}

// Persona returns the card content
func (c *Card) Persona() Persona {
	return c.persona
}

// Announce replaces the live announcement line
func (c *Card) Announce(msg string) {
	c.mu.Lock()
	c.announcement = msg
	c.mu.Unlock()

	if c.changed != nil {
		c.changed()
	}
}

// Announcement returns the latest announcement
func (c *Card) Announcement() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.announcement
}

// HighContrast reports whether the high-contrast view is active
func (c *Card) HighContrast() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highContrast
}

// ToggleContrast flips the view and announces the new mode
func (c *Card) ToggleContrast() {
	c.mu.Lock()
	c.highContrast = !c.highContrast
	on := c.highContrast
	c.mu.Unlock()

	if on {
		c.Announce(constant.AnnounceContrastOn)
	} else {
		c.Announce(constant.AnnounceContrastOff)
	}
}

// Zoom returns the text scale factor
func (c *Card) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// ZoomPercent returns the zoom as a whole percentage
func (c *Card) ZoomPercent() int {
	return percent(c.Zoom())
}

// CanZoomIn reports whether ZoomIn would change the zoom
func (c *Card) CanZoomIn() bool {
	return c.Zoom() < constant.MaxZoom
}

// CanZoomOut reports whether ZoomOut would change the zoom
func (c *Card) CanZoomOut() bool {
	return c.Zoom() > constant.MinZoom
}

// ZoomIn steps the zoom up, announcing only when it changes
func (c *Card) ZoomIn() {
	c.step(constant.ZoomStep, constant.AnnounceZoomIn)
}

// ZoomOut steps the zoom down, announcing only when it changes
func (c *Card) ZoomOut() {
	c.step(-constant.ZoomStep, constant.AnnounceZoomOut)
}

func (c *Card) step(delta float64, format string) {
	c.mu.Lock()
	current := roundTenth(c.zoom)
	next := roundTenth(math.Max(constant.MinZoom, math.Min(constant.MaxZoom, current+delta)))
	c.zoom = next
	c.mu.Unlock()

	if next != current {
		c.Announce(fmt.Sprintf(format, percent(next)))
	}
}

// ResetZoom returns to 100%, announcing only if the zoom was elsewhere
func (c *Card) ResetZoom() {
	c.mu.Lock()
	changed := c.zoom != 1.0
	c.zoom = 1.0
	c.mu.Unlock()

	if changed {
		c.Announce(constant.AnnounceZoomReset)
	}
}

// Playing reports whether the soundscape is running
func (c *Card) Playing() bool {
	return c.soundscape != nil && c.soundscape.IsPlaying()
}

// ToggleSoundscape starts or stops the soundscape
// Status announcements arrive through the player's status callback
func (c *Card) ToggleSoundscape() error {
	if c.soundscape == nil {
		return nil
	}
	return c.soundscape.Toggle()
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}
