package card

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap breaks text into lines no wider than width terminal cells
// Words wider than width are hard-split
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0

	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)

		if lineWidth > 0 && lineWidth+1+w > width {
			flush()
		}

		for w > width {
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// A single rune wider than the line
				head = string([]rune(word)[:1])
			}
			if lineWidth > 0 {
				flush()
			}
			line.WriteString(head)
			flush()
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		if word == "" {
			continue
		}

		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}

	if lineWidth > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}
