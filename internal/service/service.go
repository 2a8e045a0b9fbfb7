// internal/service/service.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tamzrod/rsswitch/internal/encoder"
	"github.com/tamzrod/rsswitch/internal/metrics"
	"github.com/tamzrod/rsswitch/internal/status"
)

// Transmitter is the part of *transmitter.Transmitter the service drives.
type Transmitter interface {
	Transmit(ctx context.Context, codeword string, unit time.Duration, repeat int) error
	Busy() bool
}

// Config is the transmit policy.
type Config struct {
	Repeat      int
	Strict      bool          // reject codewords with symbols outside {0,1,F}
	WaitTimeout time.Duration // bound on waiting for the line; 0 = caller's ctx only
}

// Event describes one handled request. It is what listeners and API clients see.
type Event struct {
	ID       string          `json:"id"`
	Source   string          `json:"source"`
	Request  encoder.Request `json:"request"`
	Codeword string          `json:"codeword,omitempty"`
	Repeat   int             `json:"repeat"`
	At       time.Time       `json:"at"`
	Duration time.Duration   `json:"duration_ns"`
	Code     uint16          `json:"code"`
	Result   string          `json:"result"`
	Error    string          `json:"error,omitempty"`
}

// Service is the single entry point for every input source.
type Service struct {
	cfg     Config
	tx      Transmitter
	metrics *metrics.Metrics
	encode  func(encoder.Request) (encoder.Profile, encoder.Codeword, error)

	mu        sync.RWMutex
	listeners []func(Event)
}

func New(cfg Config, tx Transmitter, m *metrics.Metrics) *Service {
	if cfg.Repeat < 1 {
		cfg.Repeat = 1
	}
	m.WatchLine(tx.Busy)
	return &Service{cfg: cfg, tx: tx, metrics: m, encode: encoder.Encode}
}

// Subscribe registers fn for every handled request. fn runs on the submitting
// goroutine after the line is released and MUST NOT block.
func (s *Service) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Preview resolves req without touching the line.
func (s *Service) Preview(req encoder.Request) (encoder.Profile, encoder.Codeword, error) {
	p, cw, err := s.encode(req)
	if err != nil {
		return p, cw, err
	}
	if s.cfg.Strict {
		if err := cw.Check(); err != nil {
			return p, cw, err
		}
	}
	return p, cw, nil
}

// Submit validates req, builds its codeword and transmits it.
// Validation failures never reach the transmitter.
func (s *Service) Submit(ctx context.Context, source string, req encoder.Request) (Event, error) {
	ev := Event{
		ID:      uuid.NewString(),
		Source:  source,
		Request: req,
		Repeat:  s.cfg.Repeat,
		At:      time.Now(),
	}
	logger := log.With().Str("id", ev.ID).Str("source", source).Stringer("request", req).Logger()

	p, cw, err := s.Preview(req)
	if err == nil {
		ev.Codeword = string(cw)
		logger.Debug().Str("codeword", ev.Codeword).Int("repeat", ev.Repeat).Msg("transmitting")

		if s.cfg.WaitTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.cfg.WaitTimeout)
			defer cancel()
		}

		start := time.Now()
		err = s.tx.Transmit(ctx, ev.Codeword, p.PulseLength, ev.Repeat)
		ev.Duration = time.Since(start)
	}

	ev.Code = status.Code(err)
	ev.Result = status.Name(ev.Code)
	if err != nil {
		ev.Error = err.Error()
		logger.Warn().Err(err).Str("result", ev.Result).Msg("request failed")
	} else {
		logger.Info().Str("codeword", ev.Codeword).Dur("took", ev.Duration).Msg("transmitted")
	}

	s.metrics.RecordTransmission(req.Kind.String(), ev.Result, ev.Duration)
	s.notify(ev)
	return ev, err
}

func (s *Service) notify(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fn := range s.listeners {
		fn(ev)
	}
}
