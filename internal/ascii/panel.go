// Package ascii draws plain-terminal approximations of the rich renderer's
// panels, rules, and progress bars. Everything writes to a supplied writer
// (stderr in production) and never touches the file sink.
package ascii

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pterm/pterm"
)

const (
	// DefaultPanelWidth is the fixed total width used outside compact mode.
	DefaultPanelWidth = 78

	// minPanelInner is the compact-mode interior floor.
	minPanelInner = 18

	// panelPadding is the fixed compact-mode padding added around content.
	panelPadding = 4
)

// PanelOptions control fallback panel rendering.
type PanelOptions struct {
	Title   string
	Compact bool
}

// Panel draws a rounded-corner box around content. Width is fixed unless
// Compact adapts it to max(longest content line, title, floor) + padding.
// Titles are centered and ellipsis-truncated; content lines are left-aligned
// and ellipsis-truncated to the interior.
func Panel(w io.Writer, content any, opts PanelOptions) {
	text := Stringify(content)

	contentLines := strings.Split(text, "\n")
	maxContent := 0
	for _, line := range contentLines {
		if lw := runewidth.StringWidth(line); lw > maxContent {
			maxContent = lw
		}
	}

	// Interior width excludes the two border cells; total rendered width is
	// inner + 2. Compact mode: total = max(content, title, floor) + padding.
	var inner int
	if opts.Compact {
		base := maxContent
		if tw := runewidth.StringWidth(opts.Title); tw > base {
			base = tw
		}
		if base < minPanelInner {
			base = minPanelInner
		}
		inner = base + panelPadding - 2
	} else {
		inner = DefaultPanelWidth - 2
	}

	var lines []string
	lines = append(lines, "╭"+strings.Repeat("─", inner)+"╮")

	if opts.Title != "" {
		lines = append(lines, "│"+titleRow(opts.Title, inner)+"│")
		lines = append(lines, "├"+strings.Repeat("─", inner)+"┤")
	}

	for _, line := range contentLines {
		if runewidth.StringWidth(line) > inner-1 {
			line = runewidth.Truncate(line, inner-1, "…")
		}
		lines = append(lines, "│ "+runewidth.FillRight(line, inner-1)+"│")
	}

	lines = append(lines, "╰"+strings.Repeat("─", inner)+"╯")
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

// titleRow centers the decorated title within the interior, truncating with
// an ellipsis when it would overflow.
func titleRow(title string, inner int) string {
	decorated := " " + title + " "
	if runewidth.StringWidth(decorated) > inner {
		decorated = " " + runewidth.Truncate(title, inner-3, "…") + " "

		return runewidth.FillRight(decorated, inner)
	}

	return center(decorated, inner)
}

func center(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	left := gap / 2

	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

// Stringify flattens a renderable for fallback output. Complex renderables
// are summarized rather than reproduced: a pterm table becomes a one-line
// descriptor with its column headers and row count.
func Stringify(content any) string {
	switch v := content.(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, "\n")
	case pterm.TableData:
		return summarizeTable(v)
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
		return fmt.Sprint(v)
	default:
		return fmt.Sprintf("[%T object]", v)
	}
}

func summarizeTable(td pterm.TableData) string {
	if len(td) == 0 {
		return "[Table: empty]"
	}

	return fmt.Sprintf("[Table cols: %s, %d row(s)]", strings.Join(td[0], ", "), len(td)-1)
}
