// internal/poller/poller_test.go
package poller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tamzrod/rsswitch/internal/encoder"
)

type fakeClient struct {
	regs  []uint16
	fail  bool
	addrs []uint16
}

func (f *fakeClient) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	f.addrs = append(f.addrs, addr)
	if f.fail {
		return nil, errors.New("fail fc3")
	}
	out := make([]uint16, qty)
	copy(out, f.regs)
	return out, nil
}

func newPoller(t *testing.T, c Client) *Poller {
	t.Helper()
	p, err := New(Config{Interval: time.Second, Address: 40}, c)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return p
}

func TestPollOnce_PrimesOnFirstRead(t *testing.T) {
	c := &fakeClient{regs: []uint16{7, 0, 0, 0, 1}}
	p := newPoller(t, c)

	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if res.Command != nil {
		t.Fatalf("stale command replayed at startup: %+v", res.Command)
	}
	if c.addrs[0] != 40 {
		t.Fatalf("expected read at 40, got %d", c.addrs[0])
	}

	// unchanged sequence: nothing new
	if res := p.PollOnce(); res.Command != nil {
		t.Fatalf("unchanged sequence produced a command")
	}
}

func TestPollOnce_SequenceChange(t *testing.T) {
	c := &fakeClient{regs: []uint16{0, 0, 0, 0, 0}}
	p := newPoller(t, c)
	p.PollOnce()

	c.regs = []uint16{1, 1, 15, 3, 1}
	res := p.PollOnce()
	if res.Command == nil {
		t.Fatalf("expected a command")
	}
	want := encoder.Request{Kind: encoder.PT2262, Group: 15, Socket: 3, Data: 1}
	if res.Command.Sequence != 1 || res.Command.Request != want {
		t.Fatalf("unexpected command %+v", res.Command)
	}

	// back to idle
	c.regs = []uint16{0, 1, 15, 3, 1}
	if res := p.PollOnce(); res.Command != nil {
		t.Fatalf("sequence 0 must be idle, got %+v", res.Command)
	}

	// same payload, new sequence: a second press
	c.regs = []uint16{2, 1, 15, 3, 1}
	if res := p.PollOnce(); res.Command == nil || res.Command.Sequence != 2 {
		t.Fatalf("expected second press, got %+v", res.Command)
	}
}

func TestPollOnce_EncoderRegisterOutOfKindRange(t *testing.T) {
	for _, kind := range []uint16{256, 257, 65535} {
		c := &fakeClient{regs: []uint16{0, 0, 0, 0, 0}}
		p := newPoller(t, c)
		p.PollOnce()

		c.regs = []uint16{1, kind, 0, 0, 1}
		res := p.PollOnce()
		if res.Command == nil {
			t.Fatalf("kind %d: expected a command to acknowledge", kind)
		}
		if !errors.Is(res.Command.Err, encoder.ErrUnknownEncoder) {
			t.Fatalf("kind %d: err=%v, want unknown encoder", kind, res.Command.Err)
		}
		if res.Command.Sequence != 1 || res.Command.Request != (encoder.Request{}) {
			t.Fatalf("kind %d: unexpected command %+v", kind, res.Command)
		}
	}
}

func TestPollOnce_Failure(t *testing.T) {
	c := &fakeClient{fail: true}
	p := newPoller(t, c)

	res := p.PollOnce()
	if res.Err == nil {
		t.Fatalf("expected error, got nil")
	}

	// a failed read must not prime
	c.fail = false
	c.regs = []uint16{5}
	if res := p.PollOnce(); res.Command != nil {
		t.Fatalf("first good read must only prime")
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{}, &fakeClient{}); err == nil {
		t.Fatalf("expected interval error")
	}
	if _, err := New(Config{Interval: time.Second}, nil); err == nil {
		t.Fatalf("expected client error")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	p, err := New(Config{Interval: time.Millisecond}, &fakeClient{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	<-out
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop")
	}
}
