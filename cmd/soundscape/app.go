package main

import (
	"errors"
	"fmt"
	"log"
	"math/rand"

	"github.com/gdamore/tcell/v2"
	"github.com/lixenwraith/persona-soundscape/audio"
	"github.com/lixenwraith/persona-soundscape/card"
	"github.com/lixenwraith/persona-soundscape/service"
	"github.com/lixenwraith/persona-soundscape/soundscape"
	"github.com/lixenwraith/persona-soundscape/status"
	"github.com/mattn/go-runewidth"
)

const (
	maxCardWidth = 96
	minTextWidth = 24
)

type action int

const (
	actNone action = iota
	actQuit
	actSoundscape
	actContrast
	actZoomOut
	actZoomIn
	actZoomReset
	actFocusNext
	actFocusPrev
	actActivate
)

// keyAction maps a key press to a toolbar action
func keyAction(key tcell.Key, r rune) action {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actQuit
	case tcell.KeyTab, tcell.KeyRight:
		return actFocusNext
	case tcell.KeyBacktab, tcell.KeyLeft:
		return actFocusPrev
	case tcell.KeyEnter:
		return actActivate
	case tcell.KeyRune:
		switch r {
		case 'q':
			return actQuit
		case 's':
			return actSoundscape
		case 'c':
			return actContrast
		case '-':
			return actZoomOut
		case '+', '=':
			return actZoomIn
		case '0':
			return actZoomReset
		case ' ':
			return actActivate
		}
	}
	return actNone
}

// button is one toolbar control
type button struct {
	action  action
	label   func(c *card.Card) string
	enabled func(c *card.Card) bool
}

func always(*card.Card) bool { return true }

var toolbar = []button{
	{actContrast, func(c *card.Card) string {
		if c.HighContrast() {
			return "Default View"
		}
		return "High Contrast"
	}, always},
	{actSoundscape, func(c *card.Card) string {
		if c.Playing() {
			return "Stop Soundscape"
		}
		return "Play Soundscape"
	}, always},
	{actZoomOut, func(*card.Card) string { return "Zoom -" }, (*card.Card).CanZoomOut},
	{actZoomIn, func(*card.Card) string { return "Zoom +" }, (*card.Card).CanZoomIn},
	{actZoomReset, func(c *card.Card) string { return fmt.Sprintf("Reset (%d%%)", c.ZoomPercent()) },
		func(c *card.Card) bool { return c.Zoom() != 1.0 }},
}

// App hosts one persona card on a terminal screen
type App struct {
	screen tcell.Screen
	hub    *service.Hub
	card   *card.Card
	focus  int

	metrics   *status.Registry
	showDebug bool
}

// NewApp initializes the screen and the soundscape service
// showDebug adds a metrics line above the announcement
func NewApp(cfg *audio.AudioConfig, seed int64, showDebug bool) (*App, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	a := &App{
		screen:    screen,
		hub:       service.NewHub(),
		metrics:   status.NewRegistry(),
		showDebug: showDebug,
	}

	svc := soundscape.NewService(soundscape.Options{
		Rand:    rand.New(rand.NewSource(seed)),
		Logger:  log.Default(),
		Metrics: a.metrics,
		OnStatus: func(s string) {
			a.card.Announce(s)
		},
	})
	for _, s := range []service.Service{audio.NewService(), svc} {
		if err := a.hub.Register(s); err != nil {
			screen.Fini()
			return nil, err
		}
	}
	if err := a.hub.InitAll(cfg); err != nil {
		screen.Fini()
		return nil, err
	}
	if err := a.hub.StartAll(); err != nil {
		screen.Fini()
		return nil, err
	}

	a.card = card.New(card.DefaultPersona(), svc.Player(), a.redraw)
	return a, nil
}

// redraw wakes the event loop from any goroutine
func (a *App) redraw() {
	a.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// apply runs one toolbar action, returning false to quit
func (a *App) apply(act action) bool {
	switch act {
	case actQuit:
		return false
	case actSoundscape:
		if err := a.card.ToggleSoundscape(); err != nil {
			if errors.Is(err, soundscape.ErrUnsupported) {
				log.Printf("host: soundscape unavailable: %v", err)
			} else {
				log.Printf("host: soundscape toggle failed: %v", err)
			}
		}
	case actContrast:
		a.card.ToggleContrast()
	case actZoomOut:
		a.card.ZoomOut()
	case actZoomIn:
		a.card.ZoomIn()
	case actZoomReset:
		a.card.ResetZoom()
	case actFocusNext:
		a.focus = (a.focus + 1) % len(toolbar)
	case actFocusPrev:
		a.focus = (a.focus + len(toolbar) - 1) % len(toolbar)
	case actActivate:
		if b := toolbar[a.focus]; b.enabled(a.card) {
			return a.apply(b.action)
		}
	}
	return true
}

func (a *App) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.apply(keyAction(ev.Key(), ev.Rune()))
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) run() {
	a.draw()
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		if !a.handleInput(ev) {
			return
		}
		a.draw()
	}
}

// textWidth narrows the text column as zoom grows, keeping a readable minimum
func textWidth(inner int, zoom float64) int {
	w := int(float64(inner) / zoom)
	if w < minTextWidth {
		w = minTextWidth
	}
	if w > inner {
		w = inner
	}
	return w
}

func (a *App) draw() {
	pal := paletteFor(a.card.HighContrast())
	base := tcell.StyleDefault.Background(pal.bg).Foreground(pal.fg)

	a.screen.SetStyle(base)
	a.screen.Clear()

	width, height := a.screen.Size()
	cardWidth := min(width-2, maxCardWidth)
	if cardWidth < minTextWidth+4 {
		cardWidth = width
	}
	left := (width - cardWidth) / 2
	inner := cardWidth - 4
	y := 1

	persona := a.card.Persona()
	a.putLine(left+2, y, inner, persona.Title, base.Foreground(pal.accent).Bold(true))
	y += 2

	// Toolbar
	x := left + 2
	for i, b := range toolbar {
		style := base.Foreground(pal.fg)
		if !b.enabled(a.card) {
			style = base.Foreground(pal.muted)
		}
		if i == a.focus {
			style = style.Reverse(true)
		}
		x = a.putString(x, y, "["+b.label(a.card)+"]", style) + 1
	}
	y++
	a.hline(left, y, cardWidth, base.Foreground(pal.border))
	y += 2

	// Sections
	tw := textWidth(inner, a.card.Zoom())
	for _, s := range persona.Sections {
		a.putLine(left+2, y, inner, s.Heading, base.Foreground(pal.accent).Bold(true))
		y += 2
		for _, line := range card.Wrap(s.Content, tw) {
			if y >= a.footerTop(height) {
				break
			}
			a.putLine(left+2, y, inner, line, base)
			y++
		}
		y++
	}

	// Live announcement and key help
	a.hline(left, a.footerTop(height), cardWidth, base.Foreground(pal.border))
	if a.showDebug {
		a.putLine(left+2, height-4, inner, a.metrics.Summary(), base.Foreground(pal.muted))
	}
	a.putLine(left+2, height-2, inner, a.card.Announcement(), base.Bold(true))
	a.putLine(left+2, height-1, inner, "s soundscape  c contrast  +/- zoom  0 reset  tab/enter toolbar  q quit",
		base.Foreground(pal.muted))

	a.screen.Show()
}

// footerTop is the row of the footer rule
func (a *App) footerTop(height int) int {
	if a.showDebug {
		return height - 5
	}
	return height - 3
}

// putString draws s from x and returns the column after it
func (a *App) putString(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		a.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

// putLine draws s truncated to width cells
func (a *App) putLine(x, y, width int, s string, style tcell.Style) {
	a.putString(x, y, runewidth.Truncate(s, width, ""), style)
}

func (a *App) hline(x, y, width int, style tcell.Style) {
	for i := 0; i < width; i++ {
		a.screen.SetContent(x+i, y, tcell.RuneHLine, nil, style)
	}
}

// cleanup stops the soundscape, then the audio device, before releasing the terminal
func (a *App) cleanup() {
	if err := a.hub.StopAll(); err != nil {
		log.Printf("host: stopping services: %v", err)
	}
	a.screen.Fini()
}
