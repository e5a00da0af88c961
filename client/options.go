package client

import (
	"time"

	"go.uber.org/zap"

	"github.com/luma/ldds/protocol"
	"github.com/luma/ldds/transport"
)

type Options struct {
	Host string

	// Port defaults to 16003
	Port int

	// Timeout bounds connecting and each request, 30s by default
	Timeout time.Duration

	// ProtocolVersion sent in the auth hello, protocol.LatestVersion by
	// default
	ProtocolVersion int

	// Trace dumps frames to the debug log
	Trace bool

	Log *zap.Logger

	// Transport replaces the TCP transport built from Host and Port
	Transport Transport

	// Now is used to timestamp authenticators
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Port == 0 {
		o.Port = transport.DefaultPort
	}

	if o.Timeout <= 0 {
		o.Timeout = transport.DefaultTimeout
	}

	if o.ProtocolVersion == 0 {
		o.ProtocolVersion = protocol.LatestVersion
	}

	if o.Log == nil {
		o.Log = zap.NewNop()
	}

	if o.Now == nil {
		o.Now = time.Now
	}

	return o
}
