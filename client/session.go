// Package client runs an LDDS session against an LRGS server: connect,
// authenticate, submit search criteria, then stream DCP records until the
// server reports the end of the requested range.
//
// A Session is not safe for concurrent use. Cancelling the context passed to
// a call drops the connection and aborts it. Run one Session per goroutine
// for concurrent retrieval.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/luma/ldds/auth"
	"github.com/luma/ldds/criteria"
	"github.com/luma/ldds/dcp"
	"github.com/luma/ldds/protocol"
	"github.com/luma/ldds/storage"
	"github.com/luma/ldds/transport"
)

var (
	ErrInvalidState         = errors.New("Invalid session state")
	ErrAuthenticationFailed = errors.New("Authentication failed")
)

// StateError is returned when an operation is called in the wrong state.
type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", ErrInvalidState, e.Op, e.State)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}

// AuthenticationError carries the server's reason for rejecting a login.
type AuthenticationError struct {
	User string
	Last *protocol.ServerError
}

func (e *AuthenticationError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("%s for user '%s'", ErrAuthenticationFailed, e.User)
	}

	return fmt.Sprintf("%s for user '%s': %s", ErrAuthenticationFailed, e.User, e.Last)
}

func (e *AuthenticationError) Unwrap() []error {
	if e.Last == nil {
		return []error{ErrAuthenticationFailed}
	}

	return []error{ErrAuthenticationFailed, e.Last}
}

// Transport is what a Session needs from its connection.
type Transport interface {
	Connect(ctx context.Context) error
	Request(msgType protocol.MessageType, payload []byte) (*protocol.Message, error)
	Disconnect() error
	Connected() bool
}

var _ Transport = (*transport.TCP)(nil)

type Session struct {
	transport Transport
	version   int
	now       func() time.Time

	state           State
	err             error
	needLocalFilter bool

	log *zap.Logger
}

func New(options Options) *Session {
	options = options.withDefaults()

	t := options.Transport
	if t == nil {
		t = transport.NewTCP(transport.Options{
			Host:    options.Host,
			Port:    options.Port,
			Timeout: options.Timeout,
			Trace:   options.Trace,
			Log:     options.Log.Named("transport"),
		})
	}

	return &Session{
		transport: t,
		version:   options.ProtocolVersion,
		now:       options.Now,
		state:     Idle,
		log:       options.Log.Named("session"),
	}
}

func (s *Session) State() State {
	return s.state
}

// Err is the error that failed the session, if it has failed.
func (s *Session) Err() error {
	return s.err
}

// NeedLocalFilter reports whether the criteria last submitted could not be
// fully expressed for the server's protocol version, so records streamed
// back may include some the criteria exclude.
func (s *Session) NeedLocalFilter() bool {
	return s.needLocalFilter
}

func (s *Session) Connect(ctx context.Context) error {
	if err := s.expect("connect", Idle); err != nil {
		return err
	}

	if err := s.transport.Connect(ctx); err != nil {
		return s.fail(err)
	}

	s.state = Connected
	return nil
}

// Authenticate logs in with a SHA-1 authenticator, retrying once with
// SHA-256 if the server demands it.
func (s *Session) Authenticate(ctx context.Context, username, password string) error {
	if err := s.expect("authenticate", Connected); err != nil {
		return err
	}

	creds := auth.NewCredentials(username, password)

	var last *protocol.ServerError
	for _, alg := range []auth.HashAlgorithm{auth.SHA1, auth.SHA256} {
		hello, err := creds.Hello(s.now(), alg, s.version)
		if err != nil {
			return s.fail(err)
		}

		resp, err := s.request(ctx, protocol.AuthHello, []byte(hello))
		if err != nil {
			return s.fail(err)
		}

		se, err := resp.ServerError()
		if err != nil {
			return s.fail(err)
		}

		if se == nil || !se.Failed() {
			s.log.Info("Authenticated",
				zap.String("user", username),
				zap.Stringer("algorithm", alg))

			s.state = Authenticated
			return nil
		}

		last = se
		if !se.StrongRequired() {
			break
		}

		s.log.Debug("Server requires a stronger authenticator",
			zap.Stringer("algorithm", alg),
			zap.Error(se))
	}

	return s.fail(&AuthenticationError{User: username, Last: last})
}

// SubmitCriteria sends c, serialized for version. It returns whether the
// caller must filter records locally; see NeedLocalFilter.
func (s *Session) SubmitCriteria(ctx context.Context, c *criteria.SearchCriteria, version int) (bool, error) {
	if err := s.expect("submit criteria", Authenticated); err != nil {
		return false, err
	}

	payload, needLocalFilter := c.Payload(version)

	s.log.Debug("Sending criteria",
		zap.Int("version", version),
		zap.Int("size", len(payload)),
		zap.Bool("needLocalFilter", needLocalFilter))

	resp, err := s.request(ctx, protocol.Criteria, payload)
	if err != nil {
		return false, s.fail(err)
	}

	se, err := resp.ServerError()
	if err != nil {
		return false, s.fail(err)
	}
	if se != nil && se.Failed() {
		return false, s.fail(se)
	}

	s.needLocalFilter = needLocalFilter
	return needLocalFilter, nil
}

// StreamRecords requests blocks of records until the server reports that
// the criteria's end time was reached, appending every record to sink. It
// returns the number of records appended.
//
// Reaching the end of the range leaves the session Authenticated, so new
// criteria can be submitted. Any other server error fails the session.
func (s *Session) StreamRecords(ctx context.Context, sink storage.Sink) (int, error) {
	if err := s.expect("stream records", Authenticated); err != nil {
		return 0, err
	}

	s.state = Streaming
	count := 0

	for {
		resp, err := s.request(ctx, protocol.DcpBlock, nil)
		if err != nil {
			return count, s.fail(err)
		}

		se, err := resp.ServerError()
		if err != nil {
			return count, s.fail(err)
		}

		if se != nil {
			if se.UntilReached() {
				s.log.Info("Until reached",
					zap.Int("records", count),
					zap.String("reason", se.Message))

				s.state = Authenticated
				return count, nil
			}

			if se.Failed() {
				return count, s.fail(se)
			}

			// A success report carries no records.
			s.log.Debug("Empty block", zap.String("reason", se.Message))
			continue
		}

		ex := dcp.Explode(resp.Data())
		for ex.Next() {
			if err := sink.Append(ctx, ex.Record()); err != nil {
				return count, s.fail(fmt.Errorf("Failed to store record: %w", err))
			}
			count++
		}

		if err := ex.Err(); err != nil {
			return count, s.fail(err)
		}

		s.log.Debug("Received block",
			zap.Int("size", resp.Len()),
			zap.Int("records", count))
	}
}

// Records streams into a slice.
func (s *Session) Records(ctx context.Context) ([]dcp.Record, error) {
	var records []dcp.Record

	_, err := s.StreamRecords(ctx, storage.SinkFunc(func(_ context.Context, r dcp.Record) error {
		records = append(records, r)
		return nil
	}))

	return records, err
}

// Goodbye tells the server the session is over.
func (s *Session) Goodbye(ctx context.Context) error {
	if s.state == Idle || s.state == Closed || !s.transport.Connected() {
		return nil
	}

	_, err := s.request(ctx, protocol.Goodbye, nil)
	return err
}

// Close says goodbye and disconnects. It always leaves the session Closed,
// even if it had failed. The returned error is only informational.
func (s *Session) Close() error {
	if s.state == Closed {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := multierr.Combine(
		s.Goodbye(ctx),
		s.transport.Disconnect(),
	)
	if err != nil {
		s.log.Debug("Session did not close cleanly", zap.Error(err))
	}

	s.state = Closed
	return err
}

// request makes one round trip. If ctx ends while waiting the connection is
// dropped, which unblocks the read.
func (s *Session) request(ctx context.Context, msgType protocol.MessageType, payload []byte) (*protocol.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() {
		s.transport.Disconnect()
	})
	defer stop()

	resp, err := s.transport.Request(msgType, payload)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", ctxErr, err)
		}
		return nil, err
	}

	return resp, nil
}

func (s *Session) expect(op string, want State) error {
	if s.state != want {
		return &StateError{Op: op, State: s.state}
	}

	return nil
}

func (s *Session) fail(err error) error {
	s.state = Failed
	s.err = err

	s.log.Error("Session failed", zap.Error(err))

	return err
}
