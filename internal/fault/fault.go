// Package fault reports internal invariant violations.
//
// The core never treats a broken invariant as a recoverable error: a
// free page marked invalid twice, an IPC that strays out of range, or
// an allocator that runs out of free lines when one is required are
// all internal bugs. Assert dumps the call chain and panics, mirroring
// how the teacher kernel treats these conditions as fatal rather than
// retryable.
package fault

import (
	"fmt"
	"runtime"
)

// Assert panics with msg, preceded by a call-stack dump, when cond is
// false.
func Assert(cond bool, format string, args ...interface{}) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	panic(fmt.Sprintf("%s\n%s", msg, Callerdump(1)))
}

// Callerdump renders the call stack starting at the given depth (0 is
// the caller of Callerdump).
func Callerdump(start int) string {
	i := start + 1
	s := ""
	for {
		_, f, l, ok := runtime.Caller(i)
		if !ok {
			break
		}
		i++
		if s == "" {
			s = fmt.Sprintf("%s:%d\n", f, l)
		} else {
			s += fmt.Sprintf("\t<-%s:%d\n", f, l)
		}
	}
	return s
}
