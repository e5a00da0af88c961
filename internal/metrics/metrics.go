package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luma/ldds/dcp"
	"github.com/luma/ldds/storage"
)

const (
	ResultOK     = "ok"
	ResultFailed = "failed"
)

// Metrics holds the retrieval counters. Each Metrics has its own registry
// so several can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	Records     prometheus.Counter
	RecordBytes prometheus.Counter
	Sessions    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Records: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ldds_records_total",
				Help: "Number of DCP records received",
			},
		),
		RecordBytes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ldds_record_bytes_total",
				Help: "Number of DCP record bytes received, headers included",
			},
		),
		Sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ldds_sessions_total",
				Help: "Number of retrieval sessions by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(m.Records, m.RecordBytes, m.Sessions)

	return m
}

// Sink counts every record before passing it on to next.
func (m *Metrics) Sink(next storage.Sink) storage.Sink {
	return storage.SinkFunc(func(ctx context.Context, record dcp.Record) error {
		m.Records.Inc()
		m.RecordBytes.Add(float64(len(record)))

		return next.Append(ctx, record)
	})
}

// Session records the outcome of one retrieval session.
func (m *Metrics) Session(err error) {
	result := ResultOK
	if err != nil {
		result = ResultFailed
	}

	m.Sessions.WithLabelValues(result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
