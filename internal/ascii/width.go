package ascii

import (
	"os"
	"strconv"
)

// fallbackWidth is used when the terminal size cannot be determined.
const fallbackWidth = DefaultPanelWidth + 2

// TerminalWidth queries the terminal at call time, honoring COLUMNS when no
// tty is attached (CI), with a fixed fallback.
func TerminalWidth() int {
	if cols, ok := systemTerminalWidth(); ok {
		return cols
	}

	if env := os.Getenv("COLUMNS"); env != "" {
		if cols, err := strconv.Atoi(env); err == nil && cols > 0 {
			return cols
		}
	}

	return fallbackWidth
}
