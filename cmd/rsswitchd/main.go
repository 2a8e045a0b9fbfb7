// cmd/rsswitchd/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/rsswitch/internal/api"
	"github.com/tamzrod/rsswitch/internal/command"
	"github.com/tamzrod/rsswitch/internal/config"
	"github.com/tamzrod/rsswitch/internal/device"
	"github.com/tamzrod/rsswitch/internal/line"
	"github.com/tamzrod/rsswitch/internal/metrics"
	"github.com/tamzrod/rsswitch/internal/modbus"
	"github.com/tamzrod/rsswitch/internal/mqtt"
	"github.com/tamzrod/rsswitch/internal/poller"
	"github.com/tamzrod/rsswitch/internal/service"
	"github.com/tamzrod/rsswitch/internal/timing"
	"github.com/tamzrod/rsswitch/internal/transmitter"
	"github.com/tamzrod/rsswitch/internal/writer"
)

func main() {
	cfgPath := flag.String("config", "/etc/rsswitch/rsswitch.yaml", "path to the YAML config")
	flag.Parse()
	if flag.NArg() > 0 {
		*cfgPath = flag.Arg(0)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validation failed")
	}
	warnings := config.Normalize(cfg)
	c := cfg.RSSwitch

	setupLogging(c.Log)
	for _, w := range warnings {
		log.Warn().Msg(w)
	}

	if err := run(c); err != nil {
		log.Fatal().Err(err).Msg("rsswitchd stopped")
	}
}

func setupLogging(lc config.LogConfig) {
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.DurationFieldUnit = time.Millisecond

	if lc.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func run(c config.RSSwitchConfig) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Output line + transmitter
	// --------------------

	if c.Transmit.Realtime {
		if err := timing.LockMemory(); err != nil {
			log.Warn().Err(err).Msg("cannot lock memory; page faults may stretch pulses")
		}
	}

	l, err := line.Open(c.Line.Backend, c.Line.Pin)
	if err != nil {
		return err
	}
	emitter := transmitter.NewEmitter(l, nil)
	// forces the line low on every exit path
	defer func() {
		if err := emitter.Close(); err != nil {
			log.Error().Err(err).Msg("line release failed")
		}
	}()

	policy := transmitter.PolicyWait
	if c.Transmit.Busy == "reject" {
		policy = transmitter.PolicyReject
	}
	tx := transmitter.New(transmitter.Config{
		Policy:  policy,
		Section: timing.NewSection(c.Transmit.Realtime),
	}, emitter)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := service.New(service.Config{
		Repeat:      c.Transmit.Repeat,
		Strict:      c.Transmit.StrictSymbols,
		WaitTimeout: time.Duration(c.Transmit.WaitTimeoutMs) * time.Millisecond,
	}, tx, m)

	log.Info().
		Str("station", c.Station).
		Str("backend", c.Line.Backend).
		Int("pin", c.Line.Pin).
		Int("repeat", c.Transmit.Repeat).
		Str("busy", c.Transmit.Busy).
		Msg("rsswitchd starting")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// --------------------
	// Inputs
	// --------------------

	if c.Device != nil {
		path := c.Device.Path
		if path == "" {
			path = device.DefaultPath
		}
		fifo, err := device.OpenFIFO(path)
		if err != nil {
			return abort(cancel, g, err)
		}
		rd := &device.Reader{Source: "device", Format: command.Format(c.Device.Format), Submit: svc, Metrics: m}
		g.Go(func() error { return rd.Run(ctx, fifo) })
		log.Info().Str("path", path).Msg("command node ready")
	}

	if c.Serial != nil {
		port, err := device.OpenSerial(c.Serial.Port, c.Serial.Baud)
		if err != nil {
			return abort(cancel, g, err)
		}
		rd := &device.Reader{Source: "serial", Format: command.Format(c.Serial.Format), Submit: svc, Metrics: m}
		g.Go(func() error { return rd.Run(ctx, port) })
		log.Info().Str("port", c.Serial.Port).Int("baud", c.Serial.Baud).Msg("serial input ready")
	}

	if c.HTTP != nil {
		hub := api.NewHub()
		svc.Subscribe(hub.Broadcast)
		srv := api.New(svc, hub, reg)
		g.Go(func() error {
			if err := srv.ListenAndServe(ctx, c.HTTP.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http: %w", err)
			}
			return nil
		})
	}

	if c.MQTT != nil {
		b := mqtt.New(mqtt.Config{
			Broker:   c.MQTT.Broker,
			Prefix:   c.MQTT.Prefix,
			ClientID: c.MQTT.ClientID,
			Username: c.MQTT.Username,
			Password: c.MQTT.Password,
			QoS:      c.MQTT.QoS,
		}, svc, m)
		svc.Subscribe(b.OnEvent)
		g.Go(func() error { return b.Run(ctx) })
	}

	if c.Modbus != nil {
		if err := startMailbox(ctx, g, *c.Modbus, c.Station, svc); err != nil {
			return abort(cancel, g, err)
		}
	}

	// --------------------
	// Block until signal or first fatal input error
	// --------------------

	err = g.Wait()
	log.Info().Msg("rsswitchd stopped")
	return err
}

// abort stops the inputs already started and waits for them to release
// what they hold (the FIFO node in particular) before err is returned.
func abort(cancel context.CancelFunc, g *errgroup.Group, err error) error {
	cancel()
	_ = g.Wait()
	return err
}

// startMailbox wires poller -> service -> status writer for the Modbus mailbox.
func startMailbox(ctx context.Context, g *errgroup.Group, mc config.Modbus, station string, svc *service.Service) error {
	cli, err := modbus.New(modbus.Config{
		Endpoint: mc.Endpoint,
		UnitID:   mc.UnitID,
		Timeout:  time.Duration(mc.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	p, err := poller.Build(mc, cli)
	if err != nil {
		_ = cli.Close()
		return err
	}

	sw := writer.NewStatusWriter(writer.BuildPlan(mc, station), cli)
	mb := writer.NewMailbox(svc, sw)

	// ---- channel between poller and mailbox ----
	out := make(chan poller.PollResult)

	// Orchestrator (runner-owned status snapshot)
	g.Go(func() error {
		defer cli.Close()

		// Full block write on start (identity re-assert).
		if err := mb.Start(); err != nil {
			log.Warn().Err(err).Msg("status write failed on start")
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case res := <-out:
				// errors are logged by the mailbox; the next poll retries
				_ = mb.Handle(ctx, res)
			}
		}
	})

	// poller producer
	g.Go(func() error {
		p.Run(ctx, out)
		return nil
	})

	log.Info().Str("endpoint", mc.Endpoint).Uint8("unit_id", mc.UnitID).Msg("modbus mailbox polling")
	return nil
}
