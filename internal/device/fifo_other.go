//go:build !unix

// internal/device/fifo_other.go
package device

import (
	"os"

	"github.com/pkg/errors"
)

const DefaultPath = "rsswitch.fifo"

const Mode = 0o622

type FIFO struct {
	*os.File
}

func OpenFIFO(path string) (*FIFO, error) {
	return nil, errors.Errorf("fifo %s: named pipes are not supported on this platform", path)
}
