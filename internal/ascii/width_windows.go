//go:build windows

package ascii

import (
	"os"

	"golang.org/x/term"
)

func systemTerminalWidth() (int, bool) {
	cols, _, err := term.GetSize(int(os.Stderr.Fd()))
	if err != nil || cols == 0 {
		return 0, false
	}

	return cols, true
}
