// Package logging provides leveled console logging with the same
// color.Red/color.Yellow-style conventions the proxy pack uses for
// operator-facing output (grounded on SKBotNL-GoMCProxy's
// gomcproxy.go).
package logging

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
)

var std = log.New(os.Stdout, "", log.LstdFlags)

// Info logs a routine event in the default color.
func Info(format string, args ...any) {
	std.Print(fmt.Sprintf(format, args...))
}

// Warn logs a recoverable problem in yellow.
func Warn(format string, args ...any) {
	std.Print(color.YellowString(format, args...))
}

// Error logs a failed operation in red.
func Error(format string, args ...any) {
	std.Print(color.RedString(format, args...))
}

// Connection logs a per-connection event, prefixed with the remote
// address so concurrent connections' logs stay distinguishable.
func Connection(remote, format string, args ...any) {
	std.Print(color.CyanString("[%s] ", remote) + fmt.Sprintf(format, args...))
}
