package storage

import (
	"context"
	"errors"

	"go.uber.org/multierr"

	"github.com/luma/ldds/dcp"
)

var ErrNotFound = errors.New("Not found")

// Sink receives the records of a stream in order.
type Sink interface {
	Append(ctx context.Context, record dcp.Record) error
}

type SinkFunc func(ctx context.Context, record dcp.Record) error

func (f SinkFunc) Append(ctx context.Context, record dcp.Record) error {
	return f(ctx, record)
}

// Update is sent to listeners for every record appended to a Store.
type Update struct {
	Address string
	Record  dcp.Record
}

type Store interface {
	Sink

	// Get returns the JSON summary kept for a DCP address.
	Get(ctx context.Context, address string) ([]byte, error)

	// Records returns every stored record from address, or every record if
	// address is empty.
	Records(address string) []dcp.Record

	Restore(values []byte) error
	Backup() ([]byte, error)

	ListenToUpdates() <-chan *Update

	Close() error
}

type tee []Sink

// Tee appends every record to each of sinks. A failing sink doesn't stop
// the others; their errors are combined.
func Tee(sinks ...Sink) Sink {
	return tee(sinks)
}

func (t tee) Append(ctx context.Context, record dcp.Record) (err error) {
	for _, s := range t {
		err = multierr.Append(err, s.Append(ctx, record))
	}

	return err
}
