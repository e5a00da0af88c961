package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/luma/ldds/dcp"
)

// Publisher is the part of *nats.Conn a NATSPublisher uses.
type Publisher interface {
	Publish(subject string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// NATSPublisher publishes every record, unchanged, to
// "<prefix>.<address>".
type NATSPublisher struct {
	pub    Publisher
	prefix string
	log    *zap.Logger
}

func NewNATSPublisher(pub Publisher, prefix string, log *zap.Logger) *NATSPublisher {
	return &NATSPublisher{
		pub:    pub,
		prefix: prefix,
		log:    log,
	}
}

func (p *NATSPublisher) Subject(address string) string {
	return p.prefix + "." + address
}

func (p *NATSPublisher) Append(ctx context.Context, record dcp.Record) error {
	subject := p.Subject(record.Address())

	if err := p.pub.Publish(subject, record); err != nil {
		p.log.Warn("Failed to publish record",
			zap.String("subject", subject),
			zap.Error(err))

		return fmt.Errorf("Failed to publish to %s: %w", subject, err)
	}

	return nil
}

// ConnectNATS connects to the NATS server at url, reconnecting forever if
// the connection drops.
func ConnectNATS(url string, log *zap.Logger) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("ldds"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
}

var _ Sink = (*NATSPublisher)(nil)
