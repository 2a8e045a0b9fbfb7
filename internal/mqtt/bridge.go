// internal/mqtt/bridge.go
package mqtt

import (
	"context"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/tamzrod/rsswitch/internal/encoder"
	"github.com/tamzrod/rsswitch/internal/metrics"
	"github.com/tamzrod/rsswitch/internal/service"
)

// Source tags requests that arrived over MQTT.
const Source = "mqtt"

const disconnectQuiesce = 250 // ms

// Config is the broker connection.
type Config struct {
	Broker   string
	Prefix   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// Submitter is implemented by *service.Service.
type Submitter interface {
	Submit(ctx context.Context, source string, req encoder.Request) (service.Event, error)
}

// Bridge maps set topics to transmissions and publishes the commanded state.
type Bridge struct {
	cfg     Config
	svc     Submitter
	metrics *metrics.Metrics

	client  paho.Client
	publish func(topic string, retained bool, payload string)
	ctx     context.Context
}

func New(cfg Config, svc Submitter, m *metrics.Metrics) *Bridge {
	if cfg.ClientID == "" {
		cfg.ClientID = "rsswitch-" + uuid.NewString()[:8]
	}
	b := &Bridge{cfg: cfg, svc: svc, metrics: m, ctx: context.Background()}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(10*time.Second).
		SetKeepAlive(60*time.Second).
		SetOrderMatters(false).
		SetWill(StatusTopic(cfg.Prefix), StatusOffline, cfg.QoS, true)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	// resubscribe on every (re)connect; the session is clean
	opts.SetOnConnectHandler(func(c paho.Client) {
		log.Info().Str("broker", cfg.Broker).Msg("mqtt connected")
		c.Publish(StatusTopic(cfg.Prefix), cfg.QoS, true, StatusOnline)
		c.Subscribe(SetFilter(cfg.Prefix), cfg.QoS, func(_ paho.Client, msg paho.Message) {
			b.handle(msg.Topic(), msg.Payload())
		})
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warn().Err(err).Msg("mqtt connection lost")
	})

	b.client = paho.NewClient(opts)
	b.publish = func(topic string, retained bool, payload string) {
		if b.client.IsConnected() {
			b.client.Publish(topic, cfg.QoS, retained, payload)
		}
	}
	return b
}

// Run connects and serves until ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	b.ctx = ctx
	tok := b.client.Connect()
	select {
	case <-tok.Done():
		if err := tok.Error(); err != nil {
			return errors.Wrapf(err, "mqtt connect %s", b.cfg.Broker)
		}
	case <-ctx.Done():
		return nil
	}

	<-ctx.Done()
	if b.client.IsConnected() {
		b.client.Publish(StatusTopic(b.cfg.Prefix), b.cfg.QoS, true, StatusOffline).WaitTimeout(time.Second)
	}
	b.client.Disconnect(disconnectQuiesce)
	return nil
}

// OnEvent publishes the commanded state after a successful transmission,
// whatever input it came from.
func (b *Bridge) OnEvent(ev service.Event) {
	if ev.Error != "" {
		return
	}
	b.publish(StateTopic(b.cfg.Prefix, ev.Request), true, StatePayload(ev.Request.Data))
}

func (b *Bridge) handle(topic string, payload []byte) {
	req, err := ParseSetTopic(b.cfg.Prefix, topic)
	if err == nil {
		req.Data, err = ParsePayload(payload)
	}
	if err != nil {
		b.metrics.RecordSourceError(Source)
		log.Warn().Err(err).Str("topic", topic).Msg("dropping mqtt command")
		return
	}
	// the service logs and counts failures
	_, _ = b.svc.Submit(b.ctx, Source, req)
}
