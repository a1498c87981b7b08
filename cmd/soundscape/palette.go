package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// palette is one colour scheme of the card
type palette struct {
	bg     tcell.Color
	fg     tcell.Color
	accent tcell.Color
	border tcell.Color
	muted  tcell.Color
}

var (
	defaultPalette  = newPalette("#f7f7f7", "#222222", "#EE6677", "#BBBBBB")
	contrastPalette = newPalette("#000000", "#ffffff", "#fde047", "#fde047")
)

// newPalette builds a scheme from hex colours; muted text sits halfway between fg and bg
func newPalette(bg, fg, accent, border string) palette {
	bgc, fgc := mustHex(bg), mustHex(fg)
	return palette{
		bg:     toTcell(bgc),
		fg:     toTcell(fgc),
		accent: toTcell(mustHex(accent)),
		border: toTcell(mustHex(border)),
		muted:  toTcell(fgc.BlendLab(bgc, 0.5).Clamped()),
	}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func paletteFor(highContrast bool) palette {
	if highContrast {
		return contrastPalette
	}
	return defaultPalette
}
