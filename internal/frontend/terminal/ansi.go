// Package terminal renders a match to a character terminal and reads the
// human player's guesses from a line-oriented stream.
package terminal

import (
	"fmt"
	"strings"
)

// ANSI escape code constants for terminal styling.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
	White  = "\033[37m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightCyan   = "\033[96m"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
//
// Precondition: color must be a valid ANSI escape sequence.
// Postcondition: Returns text wrapped with the color code and Reset.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
func Colorf(color, format string, args ...any) string {
	return color + fmt.Sprintf(format, args...) + Reset
}

// StripANSI removes all \033[...m sequences from s.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			if end := strings.IndexByte(s[i+2:], 'm'); end >= 0 {
				i += end + 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// PadRight pads s with spaces to width printable columns, ignoring escape sequences.
//
// Postcondition: len(StripANSI(result)) == max(width, len(StripANSI(s))).
func PadRight(s string, width int) string {
	n := len(StripANSI(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// palette applies colour only when enabled.
type palette struct {
	enabled bool
}

func (p palette) paint(color, text string) string {
	if !p.enabled {
		return text
	}
	return Colorize(color, text)
}
