// Package metrics holds the Prometheus collectors of the transmitter daemon.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all collectors; a nil *Metrics records nothing.
type Metrics struct {
	factory promauto.Factory

	transmissions *prometheus.CounterVec   // by encoder and result
	duration      *prometheus.HistogramVec // on-air time by encoder
	sourceErrors  *prometheus.CounterVec   // undecodable input by source
}

// New registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		factory: f,
		transmissions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rsswitch_transmissions_total",
				Help: "Transmission requests by encoder and result",
			},
			[]string{"encoder", "result"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rsswitch_transmit_duration_seconds",
				Help:    "Time a request held the output line",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 8),
			},
			[]string{"encoder"},
		),
		sourceErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rsswitch_source_errors_total",
				Help: "Undecodable commands by input source",
			},
			[]string{"source"},
		),
	}
}

func (m *Metrics) RecordTransmission(encoder, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.transmissions.WithLabelValues(encoder, result).Inc()
	if d > 0 {
		m.duration.WithLabelValues(encoder).Observe(d.Seconds())
	}
}

// WatchLine exports busy as rsswitch_line_busy.
func (m *Metrics) WatchLine(busy func() bool) {
	if m == nil {
		return
	}
	m.factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "rsswitch_line_busy",
			Help: "1 while a pulse train is on the air",
		},
		func() float64 {
			if busy() {
				return 1
			}
			return 0
		},
	)
}

func (m *Metrics) RecordSourceError(source string) {
	if m == nil {
		return
	}
	m.sourceErrors.WithLabelValues(source).Inc()
}
