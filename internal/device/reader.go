// internal/device/reader.go
package device

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/tamzrod/rsswitch/internal/command"
	"github.com/tamzrod/rsswitch/internal/encoder"
	"github.com/tamzrod/rsswitch/internal/metrics"
	"github.com/tamzrod/rsswitch/internal/service"
)

// Submitter is implemented by *service.Service.
type Submitter interface {
	Submit(ctx context.Context, source string, req encoder.Request) (service.Event, error)
}

// Reader turns a byte stream of commands into submissions.
type Reader struct {
	Source  string
	Format  command.Format
	Submit  Submitter
	Metrics *metrics.Metrics
}

// Serve reads commands from r until it returns an error or EOF.
// Malformed tokens are logged and skipped. Transmission errors are
// reported by the service and do not stop the stream.
func (rd *Reader) Serve(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Split(command.Split(rd.Format))

	for sc.Scan() {
		tok := sc.Bytes()
		req, err := command.Decode(rd.Format, tok)
		if err != nil {
			rd.Metrics.RecordSourceError(rd.Source)
			log.Warn().Err(err).Str("source", rd.Source).Msg("dropping command")
			continue
		}
		// errors are already logged and counted by the service
		_, _ = rd.Submit.Submit(ctx, rd.Source, req)

		if ctx.Err() != nil {
			return nil
		}
	}
	return sc.Err()
}

// Run serves rc until ctx is done, then closes it before returning.
func (rd *Reader) Run(ctx context.Context, rc io.ReadCloser) error {
	done := make(chan struct{})
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		select {
		case <-ctx.Done():
			_ = rc.Close()
		case <-done:
		}
	}()

	err := rd.Serve(ctx, rc)
	close(done)
	// rc is fully released once Run returns
	<-closed
	if ctx.Err() != nil || errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
