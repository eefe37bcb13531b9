// Package util provides the leveled logging and assertion helpers
// shared by the pipeline stages.
package util

import (
	"fmt"
	"io"
	"os"

	"github.com/ttacon/chalk"
)

var logOut io.Writer = os.Stderr

// SetLogOutput redirects log output, mainly for tests. A nil writer
// restores stderr.
func SetLogOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	logOut = w
}

// LogInfo reports normal pipeline progress.
func LogInfo(format string, args ...interface{}) {
	fmt.Fprintln(logOut, chalk.Blue.Color("[info] ")+fmt.Sprintf(format, args...))
}

// LogSevere reports an error the run survives, like a skipped slice.
func LogSevere(format string, args ...interface{}) {
	fmt.Fprintln(logOut, chalk.Red.Color("[severe] ")+fmt.Sprintf(format, args...))
}

// LogDebug reports detail that only matters when chasing a bug.
func LogDebug(format string, args ...interface{}) {
	fmt.Fprintln(logOut, chalk.Dim.TextStyle("[debug] ")+fmt.Sprintf(format, args...))
}

// Check aborts on errors no run can continue past: the error is
// logged through the severe channel and re-raised as a panic.
func Check(err error, msg string) {
	if err != nil {
		LogSevere("%s: %v", msg, err)
		panic(err)
	}
}

// Assert aborts on invariant violations. The condition message is
// both the log line and the panic value.
func Assert(ok bool, msg string) {
	if !ok {
		LogSevere("%s", msg)
		panic(msg)
	}
}
