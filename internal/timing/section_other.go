//go:build !linux

package timing

func newSection(bool) Section {
	return threadSection{}
}

// LockMemory is a no-op outside Linux.
func LockMemory() error { return nil }
