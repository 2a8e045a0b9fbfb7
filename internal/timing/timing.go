// Package timing provides the microsecond waits and the critical section
// used while a pulse train is on the air.
package timing

import (
	"runtime"
	"time"
)

// spinThreshold is the tail of every wait that is busy-waited.
// Scheduler wakeups on a Raspberry Pi are routinely late by a few hundred
// microseconds, so only the part beyond this is handed to time.Sleep.
const spinThreshold = 2 * time.Millisecond

// Wait blocks for d. Short waits spin on the monotonic clock.
func Wait(d time.Duration) {
	deadline := time.Now().Add(d)
	if d > spinThreshold {
		time.Sleep(d - spinThreshold)
	}
	for time.Now().Before(deadline) {
	}
}

// Section is a scoped claim on timing priority.
// Enter returns the release func; release MUST be called on every path.
type Section interface {
	Enter() (release func())
}

// NewSection returns the section for this platform.
// With realtime set, the calling thread's priority is raised while inside.
func NewSection(realtime bool) Section {
	return newSection(realtime)
}

// threadSection pins the goroutine to its OS thread.
type threadSection struct{}

func (threadSection) Enter() func() {
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}
