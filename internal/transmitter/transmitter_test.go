package transmitter

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/tamzrod/rsswitch/internal/line"
	"github.com/tamzrod/rsswitch/internal/waveform"
)

const unit = 350 * time.Microsecond

// ---- fake pulser ----

type fakePulser struct {
	mu    sync.Mutex
	pairs []waveform.PulsePair
	idles int

	failAt int           // 1-based pulse index that fails; 0 = never
	hold   chan struct{} // if set, the first pulse blocks until closed
	held   chan struct{}
}

func (f *fakePulser) Pulse(_ time.Duration, p waveform.PulsePair) error {
	f.mu.Lock()
	n := len(f.pairs) + 1
	first := n == 1
	f.mu.Unlock()

	if first && f.hold != nil {
		close(f.held)
		<-f.hold
	}
	if f.failAt != 0 && n == f.failAt {
		return ErrHardwareFault
	}

	f.mu.Lock()
	f.pairs = append(f.pairs, p)
	f.mu.Unlock()
	return nil
}

func (f *fakePulser) Idle() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.idles++
	return nil
}

func (f *fakePulser) recorded() []waveform.PulsePair {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]waveform.PulsePair(nil), f.pairs...)
}

func repeatFrame(cw string, n int) []waveform.PulsePair {
	var out []waveform.PulsePair
	for i := 0; i < n; i++ {
		out = append(out, waveform.Frame(cw)...)
	}
	return out
}

// ---- tests ----

func TestTransmitRepeats(t *testing.T) {
	c := qt.New(t)
	p := &fakePulser{}
	tx := New(Config{}, p)

	err := tx.Transmit(context.Background(), "1FFF1FF00010", unit, 4)
	c.Assert(err, qt.IsNil)

	got := p.recorded()
	c.Assert(got, qt.DeepEquals, repeatFrame("1FFF1FF00010", 4))

	syncs := 0
	for _, pp := range got {
		if pp == waveform.Sync {
			syncs++
		}
	}
	c.Assert(syncs, qt.Equals, 4)
	c.Assert(tx.Busy(), qt.IsFalse)
}

func TestTransmitSerializesConcurrentCalls(t *testing.T) {
	c := qt.New(t)
	p := &fakePulser{}
	tx := New(Config{Policy: PolicyWait}, p)

	codewords := []string{"000000000000", "111111111111", "FFFFFFFFFFFF"}
	var wg sync.WaitGroup
	for _, cw := range codewords {
		wg.Add(1)
		go func(cw string) {
			defer wg.Done()
			c.Check(tx.Transmit(context.Background(), cw, unit, 3), qt.IsNil)
		}(cw)
	}
	wg.Wait()

	got := p.recorded()
	frameLen := len(repeatFrame("000000000000", 3))
	c.Assert(got, qt.HasLen, frameLen*len(codewords))

	// every block of one call must be one codeword's frames, uninterrupted
	seen := map[string]bool{}
	for i := 0; i < len(got); i += frameLen {
		block := got[i : i+frameLen]
		matched := ""
		for _, cw := range codewords {
			if reflect.DeepEqual(block, repeatFrame(cw, 3)) {
				matched = cw
			}
		}
		c.Assert(matched, qt.Not(qt.Equals), "", qt.Commentf("interleaved block at %d", i))
		seen[matched] = true
	}
	c.Assert(seen, qt.HasLen, len(codewords))
}

func TestRejectPolicyReturnsBusy(t *testing.T) {
	c := qt.New(t)
	p := &fakePulser{hold: make(chan struct{}), held: make(chan struct{})}
	tx := New(Config{Policy: PolicyReject}, p)

	done := make(chan error, 1)
	go func() { done <- tx.Transmit(context.Background(), "0", unit, 1) }()
	<-p.held

	c.Assert(tx.Busy(), qt.IsTrue)
	err := tx.Transmit(context.Background(), "1", unit, 1)
	c.Assert(errors.Is(err, ErrBusy), qt.IsTrue)

	close(p.hold)
	c.Assert(<-done, qt.IsNil)
	c.Assert(p.recorded(), qt.DeepEquals, waveform.Frame("0"))
}

func TestWaitPolicyHonoursContext(t *testing.T) {
	c := qt.New(t)
	p := &fakePulser{hold: make(chan struct{}), held: make(chan struct{})}
	tx := New(Config{Policy: PolicyWait}, p)

	done := make(chan error, 1)
	go func() { done <- tx.Transmit(context.Background(), "F", unit, 1) }()
	<-p.held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := tx.Transmit(ctx, "1", unit, 1)
	c.Assert(errors.Is(err, ErrBusy), qt.IsTrue)

	close(p.hold)
	c.Assert(<-done, qt.IsNil)
}

func TestHardwareFaultAbortsAndIdles(t *testing.T) {
	c := qt.New(t)
	p := &fakePulser{failAt: 30}
	tx := New(Config{}, p)

	err := tx.Transmit(context.Background(), "1FFF1FF00010", unit, 4)
	c.Assert(errors.Is(err, ErrHardwareFault), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, `repetition 2/4: hardware fault`)
	c.Assert(p.recorded(), qt.HasLen, 29)
	c.Assert(p.idles, qt.Equals, 1)

	// the line is free again
	c.Assert(tx.Busy(), qt.IsFalse)
	p.failAt = 0
	c.Assert(tx.Transmit(context.Background(), "0", unit, 1), qt.IsNil)
}

type countingSection struct {
	enters, releases int
}

func (s *countingSection) Enter() func() {
	s.enters++
	return func() { s.releases++ }
}

func TestSectionPerRepetition(t *testing.T) {
	c := qt.New(t)
	sec := &countingSection{}
	tx := New(Config{Section: sec}, &fakePulser{failAt: 3})

	c.Assert(tx.Transmit(context.Background(), "01", unit, 3), qt.Not(qt.IsNil))
	c.Assert(sec.enters, qt.Equals, 1)
	c.Assert(sec.releases, qt.Equals, 1)

	sec = &countingSection{}
	tx = New(Config{Section: sec}, &fakePulser{})
	c.Assert(tx.Transmit(context.Background(), "01", unit, 3), qt.IsNil)
	c.Assert(sec.enters, qt.Equals, 3)
	c.Assert(sec.releases, qt.Equals, 3)
}

// ---- emitter ----

type failingLine struct{ *line.Recorder }

func (failingLine) SetHigh() error { return errors.New("gpio write: EIO") }

func TestEmitterPulse(t *testing.T) {
	c := qt.New(t)
	rec := line.NewRecorder(4)
	var waits []time.Duration
	e := NewEmitter(rec, func(d time.Duration) { waits = append(waits, d) })

	c.Assert(e.Pulse(unit, waveform.Sync), qt.IsNil)
	c.Assert(rec.Levels(), qt.DeepEquals, []bool{true, false})
	c.Assert(waits, qt.DeepEquals, []time.Duration{unit, 31 * unit})

	c.Assert(e.Close(), qt.IsNil)
	c.Assert(rec.High(), qt.IsFalse)
}

func TestEmitterFaultIsHardwareFault(t *testing.T) {
	c := qt.New(t)
	e := NewEmitter(failingLine{line.NewRecorder(4)}, func(time.Duration) {})

	err := e.Pulse(unit, waveform.PulsePair{High: 1, Low: 3})
	c.Assert(errors.Is(err, ErrHardwareFault), qt.IsTrue)
}

func TestEndToEndOnRecorder(t *testing.T) {
	c := qt.New(t)
	rec := line.NewRecorder(4)
	tx := New(Config{}, NewEmitter(rec, func(time.Duration) {}))

	c.Assert(tx.Transmit(context.Background(), "1FFF1FF00010", unit, 2), qt.IsNil)

	// 24 symbol pairs + 1 sync per repetition, two level writes per pair
	c.Assert(rec.Levels(), qt.HasLen, 2*25*2)
	c.Assert(rec.High(), qt.IsFalse)
}
