//go:build linux

package timing

import (
	"runtime"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"
)

// niceBoost is the nice value used while transmitting.
const niceBoost = -20

type prioritySection struct {
	warnOnce sync.Once
}

func newSection(realtime bool) Section {
	if !realtime {
		return threadSection{}
	}
	return &prioritySection{}
}

// Enter locks the thread and renices it. The raw getpriority syscall
// returns 20-nice, so the previous nice value is recovered before restoring.
func (s *prioritySection) Enter() func() {
	runtime.LockOSThread()

	tid := unix.Gettid()
	raw, err := unix.Getpriority(unix.PRIO_PROCESS, tid)
	if err != nil {
		return runtime.UnlockOSThread
	}
	prev := 20 - raw

	if err := unix.Setpriority(unix.PRIO_PROCESS, tid, niceBoost); err != nil {
		s.warnOnce.Do(func() {
			log.Warn().Err(err).Msg("cannot raise transmit thread priority; timing may jitter")
		})
		return runtime.UnlockOSThread
	}

	return func() {
		_ = unix.Setpriority(unix.PRIO_PROCESS, tid, prev)
		runtime.UnlockOSThread()
	}
}

// LockMemory keeps the process resident so page faults cannot stretch a pulse.
func LockMemory() error {
	return unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
}
