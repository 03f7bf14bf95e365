// Package printer formats CLI output with color. Colors are suppressed
// when the NO_COLOR environment variable is set.
package printer

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func init() {
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

// Success prints a green checkmarked message.
func Success(format string, a ...any) {
	green.Printf("✓ "+format, a...)
}

// Warning prints a yellow message.
func Warning(format string, a ...any) {
	yellow.Printf("! "+format, a...)
}

// Failure prints a red message to stderr.
func Failure(format string, a ...any) {
	red.Fprintf(os.Stderr, "✗ "+format, a...)
}

// Step prints a cyan progress message.
func Step(format string, a ...any) {
	cyan.Printf("→ "+format, a...)
}

// Printf prints a plain formatted message.
func Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}
