package log

import "fmt"

// ANSI codes
const (
	// Text colors
	textRed   = "31"
	textGreen = "32"
	textWhite = "37"
	textGray  = "90"

	// Text styles
	styleBold = "1"
)

// Public style helpers
var (
	ColorRed   = ansiWrapper(textRed)
	ColorGreen = ansiWrapper(textGreen)
	ColorWhite = ansiWrapper(textWhite)
	ColorGray  = ansiWrapper(textGray)

	Bold = ansiWrapper(styleBold)
)

func ansiWrapper(code string) func(any) string {
	return func(msg any) string {
		return fmt.Sprintf("\x1b[%sm%v\x1b[0m", code, msg)
	}
}
