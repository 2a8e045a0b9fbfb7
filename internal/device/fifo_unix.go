//go:build unix

// internal/device/fifo_unix.go
package device

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// DefaultPath is where the command node is created.
const DefaultPath = "/run/rsswitch/rsswitch"

// Mode lets any local user write commands but only the daemon read them.
const Mode = 0o622

// FIFO is the command node. It stands in for a character device.
type FIFO struct {
	path string
	*os.File
}

// OpenFIFO creates the named pipe at path if needed and opens it.
// The node is opened read-write so the reader never sees EOF when the
// last writer goes away.
func OpenFIFO(path string) (*FIFO, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "fifo dir")
	}

	fi, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		if err := unix.Mkfifo(path, Mode); err != nil {
			return nil, errors.Wrapf(err, "mkfifo %s", path)
		}
	case err != nil:
		return nil, errors.Wrapf(err, "stat %s", path)
	case fi.Mode()&os.ModeNamedPipe == 0:
		return nil, errors.Errorf("%s exists and is not a fifo", path)
	}

	// mkfifo is subject to the umask
	if err := os.Chmod(path, Mode); err != nil {
		return nil, errors.Wrapf(err, "chmod %s", path)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return &FIFO{path: path, File: f}, nil
}

// Close closes the node and removes it.
func (f *FIFO) Close() error {
	err := f.File.Close()
	if rmErr := os.Remove(f.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	return err
}
