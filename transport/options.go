package transport

import (
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPort    = 16003
	DefaultTimeout = 30 * time.Second
)

type Options struct {
	// Host of the LRGS server
	Host string

	// Port of the LRGS server, DefaultPort if zero
	Port int

	// Timeout bounds connecting and every read or write, DefaultTimeout if
	// zero
	Timeout time.Duration

	// Trace will dump frames to the debug log. This is only useful in local
	// debugging
	Trace bool

	Log *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Port == 0 {
		o.Port = DefaultPort
	}

	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}

	if o.Log == nil {
		o.Log = zap.NewNop()
	}

	return o
}
