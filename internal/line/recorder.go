package line

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// dryRunHistory is how many levels the dry-run backend keeps: one request
// at the highest repeat count.
const dryRunHistory = 16 * 25 * 2

// Recorder is an in-memory Line. It backs the dry-run backend and tests.
type Recorder struct {
	Pin int

	mu     sync.Mutex
	levels []bool
	limit  int // 0 keeps every level
	writes int
	high   bool
	closed bool
}

// NewRecorder keeps every level written; meant for tests.
func NewRecorder(pin int) *Recorder {
	return &Recorder{Pin: pin}
}

func newDryRun(pin int, history int) *Recorder {
	log.Warn().Int("pin", pin).Msg("dry-run line: no GPIO will be driven")
	return &Recorder{Pin: pin, limit: history}
}

func (r *Recorder) SetHigh() error { return r.set(true) }

func (r *Recorder) SetLow() error { return r.set(false) }

func (r *Recorder) set(level bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrUnavailable
	}
	r.high = level
	r.writes++
	r.levels = append(r.levels, level)
	if r.limit > 0 && len(r.levels) >= 2*r.limit {
		r.levels = append(r.levels[:0], r.levels[len(r.levels)-r.limit:]...)
	}
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.high = false
	r.closed = true
	return nil
}

// Levels returns the levels written so far, or the most recent ones when
// the history is bounded.
func (r *Recorder) Levels() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	levels := r.levels
	if r.limit > 0 && len(levels) > r.limit {
		levels = levels[len(levels)-r.limit:]
	}
	return append([]bool(nil), levels...)
}

// Writes counts every level written, including those dropped from the history.
func (r *Recorder) Writes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

// High reports the current level.
func (r *Recorder) High() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.high
}
