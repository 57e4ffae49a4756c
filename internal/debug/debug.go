// Package debug holds the precondition checks that are fatal in builds tagged
// collidedebug and compiled out otherwise.
package debug

import "fmt"

// Assert panics with the formatted message when Enabled and cond is false.
func Assert(cond bool, format string, args ...any) {
	if Enabled && !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
