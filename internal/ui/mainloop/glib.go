// Package mainloop serializes widget work onto the GTK main loop and
// collapses redundant updates queued within the same burst.
package mainloop

import (
	"runtime"

	"github.com/diamondburned/gotk4/pkg/glib/v2"
)

// Init pins the calling goroutine to its OS thread. GTK requires every
// widget call to happen on the thread that initialized it; call this first
// in main.
func Init() {
	runtime.LockOSThread()
}

// Post schedules fn on the GTK main loop and returns immediately.
func Post(fn func()) {
	glib.IdleAdd(func() bool {
		fn()
		return false
	})
}

// Call runs fn on the GTK main loop and waits for it to finish. Calling
// this from the main loop itself deadlocks; it is for the bridge and
// worker goroutines only.
func Call(fn func()) {
	done := make(chan struct{})
	Post(func() {
		defer close(done)
		fn()
	})
	<-done
}
