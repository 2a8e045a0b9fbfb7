// internal/api/server.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/tamzrod/rsswitch/internal/command"
	"github.com/tamzrod/rsswitch/internal/encoder"
	"github.com/tamzrod/rsswitch/internal/line"
	"github.com/tamzrod/rsswitch/internal/service"
	"github.com/tamzrod/rsswitch/internal/status"
	"github.com/tamzrod/rsswitch/internal/transmitter"
)

// Source tags requests submitted over HTTP.
const Source = "http"

// Service is implemented by *service.Service.
type Service interface {
	Submit(ctx context.Context, source string, req encoder.Request) (service.Event, error)
	Preview(req encoder.Request) (encoder.Profile, encoder.Codeword, error)
}

// Server is the HTTP surface of the daemon.
type Server struct {
	svc      Service
	hub      *Hub
	gatherer prometheus.Gatherer
	mux      *http.ServeMux
}

// New wires all routes. hub and gatherer may be nil.
func New(svc Service, hub *Hub, gatherer prometheus.Gatherer) *Server {
	s := &Server{svc: svc, hub: hub, gatherer: gatherer, mux: http.NewServeMux()}

	s.mux.HandleFunc("POST /api/v1/transmit", s.handleTransmit)
	s.mux.HandleFunc("GET /api/v1/codeword", s.handleCodeword)
	s.mux.HandleFunc("GET /api/v1/encoders", s.handleEncoders)
	s.mux.HandleFunc("GET /socket", s.handleSocket)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if hub != nil {
		s.mux.Handle("GET /api/v1/events", hub)
	}
	if gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Info().Str("listen", addr).Msg("http api started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// ---- handlers ----

type transmitResponse struct {
	ID         string       `json:"id"`
	Encoder    encoder.Kind `json:"encoder"`
	Codeword   string       `json:"codeword"`
	Repeat     int          `json:"repeat"`
	DurationMS float64      `json:"duration_ms"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Result string `json:"result"`
	Code   uint16 `json:"code"`
}

func (s *Server) handleTransmit(w http.ResponseWriter, r *http.Request) {
	var req encoder.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, encoder.ErrUnknownEncoder) {
			s.writeError(w, err)
			return
		}
		s.writeError(w, malformed("body: %v", err))
		return
	}
	s.transmit(w, r, req)
}

func (s *Server) transmit(w http.ResponseWriter, r *http.Request, req encoder.Request) {
	ev, err := s.svc.Submit(r.Context(), Source, req)
	if err != nil {
		writeJSON(w, StatusCode(err), errorResponse{Error: ev.Error, Result: ev.Result, Code: ev.Code})
		return
	}
	writeJSON(w, http.StatusOK, transmitResponse{
		ID:         ev.ID,
		Encoder:    req.Kind,
		Codeword:   ev.Codeword,
		Repeat:     ev.Repeat,
		DurationMS: float64(ev.Duration) / float64(time.Millisecond),
	})
}

func (s *Server) handleCodeword(w http.ResponseWriter, r *http.Request) {
	req, err := requestFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	p, cw, err := s.svc.Preview(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"encoder":      p.Name,
		"codeword":     string(cw),
		"pulse_length": p.PulseLength.String(),
	})
}

type profileResponse struct {
	Kind          uint8    `json:"kind"`
	Name          string   `json:"name"`
	Groups        []string `json:"groups"`
	Sockets       []string `json:"sockets"`
	Data          []string `json:"data"`
	PulseLengthUS int64    `json:"pulse_length_us"`
}

func (s *Server) handleEncoders(w http.ResponseWriter, _ *http.Request) {
	var out []profileResponse
	for _, p := range encoder.Profiles() {
		out = append(out, profileResponse{
			Kind:          uint8(p.Kind),
			Name:          p.Name,
			Groups:        p.Groups,
			Sockets:       p.Sockets,
			Data:          p.Data,
			PulseLengthUS: p.PulseLength.Microseconds(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSocket keeps the old CGI form working:
// /socket?encoder=0&group=0&socket=1&state=on, or the form fields
// sock_groupN=on|off and groupN=<socket> posted by the old page.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	req, err := legacyRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.transmit(w, r, req)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := status.Code(err)
	writeJSON(w, StatusCode(err), errorResponse{Error: err.Error(), Result: status.Name(code), Code: code})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

// StatusCode maps a request error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, encoder.ErrUnknownEncoder),
		errors.Is(err, encoder.ErrOutOfRange),
		errors.Is(err, encoder.ErrMalformedCodeword),
		errors.Is(err, command.ErrMalformed):
		return http.StatusBadRequest
	case errors.Is(err, transmitter.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, line.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
