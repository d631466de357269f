package ascii

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// rulePadding is the number of spaces on each side of an embedded title.
const rulePadding = 2

// Rule draws a single horizontal line sized to the terminal, with the title
// embedded per alignment ("left", "center", "right"; anything else centers).
func Rule(w io.Writer, title string, char rune, align string) {
	fmt.Fprintln(w, RuleString(TerminalWidth(), title, char, align))
}

// RuleString renders the rule geometry for a given width. The rich console
// path reuses it and applies styling on top.
func RuleString(width int, title string, char rune, align string) string {
	if char == 0 {
		char = '─'
	}
	fill := string(char)

	if title == "" {
		return strings.Repeat(fill, width)
	}

	titleLen := runewidth.StringWidth(title)
	if titleLen+2*rulePadding >= width {
		// Too long for any fill; the rule degrades to the title alone.
		return center(title, width)
	}

	pad := strings.Repeat(" ", rulePadding)
	total := width - titleLen - 2*rulePadding

	switch align {
	case "left":
		return pad + title + pad + strings.Repeat(fill, total)
	case "right":
		return strings.Repeat(fill, total) + pad + title + pad
	default: // center, including unknown alignments
		left := total / 2

		return strings.Repeat(fill, left) + pad + title + pad + strings.Repeat(fill, total-left)
	}
}
