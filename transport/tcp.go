// Package transport carries LDDS frames over a single blocking TCP
// connection. Every call completes, fails or times out before returning;
// there are no background goroutines.
package transport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/luma/ldds/byteutil"
	"github.com/luma/ldds/protocol"
)

var (
	ErrConnectTimeout   = errors.New("Timed out connecting to server")
	ErrConnectFailed    = errors.New("Failed to connect to server")
	ErrAlreadyConnected = errors.New("Already connected")
	ErrNotConnected     = errors.New("Not connected")
	ErrConnectionClosed = errors.New("Connection closed")
	ErrTimeout          = errors.New("Timed out waiting for server")
)

const traceBytes = 64

type TCP struct {
	addr    string
	timeout time.Duration

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader

	log   *zap.Logger
	trace bool
}

func NewTCP(options Options) *TCP {
	options = options.withDefaults()

	return &TCP{
		addr:    net.JoinHostPort(options.Host, strconv.Itoa(options.Port)),
		timeout: options.Timeout,
		log:     options.Log,
		trace:   options.Trace,
	}
}

func (t *TCP) Addr() string {
	return t.addr
}

func (t *TCP) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.conn != nil
}

// Connect dials the server, giving up after the configured timeout or when
// ctx is done.
func (t *TCP) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn != nil {
		return ErrAlreadyConnected
	}

	dialer := net.Dialer{
		Timeout:   t.timeout,
		KeepAlive: t.timeout,
	}

	conn, err := dialer.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return fmt.Errorf("%w %s after %s: %w", ErrConnectTimeout, t.addr, t.timeout, err)
		}

		return fmt.Errorf("%w %s: %w", ErrConnectFailed, t.addr, err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			t.log.Warn("Failed to set TCP_NODELAY", zap.Error(err))
		}
	}

	t.conn = conn
	t.reader = bufio.NewReader(conn)

	t.log.Info("Connected", zap.String("addr", t.addr))

	return nil
}

// Disconnect closes the connection. It is safe to call more than once, and
// from another goroutine to unblock a pending ReceiveFrame. Close errors are
// logged, not returned.
func (t *TCP) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}

	if err := t.conn.Close(); err != nil {
		t.log.Warn("Connection did not close cleanly", zap.Error(err))
	}

	t.conn = nil
	t.reader = nil

	t.log.Info("Disconnected", zap.String("addr", t.addr))

	return nil
}

// Send writes b in full.
func (t *TCP) Send(b []byte) error {
	conn, _, err := t.current()
	if err != nil {
		return err
	}

	if err := conn.SetWriteDeadline(time.Now().Add(t.timeout)); err != nil {
		return t.mapError(err)
	}

	// net.Conn.Write only returns short with an error, the loop is kept so
	// that stays true whatever conn is.
	for len(b) > 0 {
		n, err := conn.Write(b)
		if err != nil {
			return t.mapError(err)
		}
		b = b[n:]
	}

	return nil
}

func (t *TCP) SendMessage(m *protocol.Message) error {
	if t.trace {
		t.traceFrame("send", m)
	}

	return t.Send(m.Bytes())
}

// ReceiveFrame blocks until one complete frame has been read.
func (t *TCP) ReceiveFrame() (*protocol.Message, error) {
	conn, reader, err := t.current()
	if err != nil {
		return nil, err
	}

	if err := conn.SetReadDeadline(time.Now().Add(t.timeout)); err != nil {
		return nil, t.mapError(err)
	}

	m, err := protocol.ReadMessage(reader)
	if err != nil {
		if errors.Is(err, protocol.ErrProtocol) {
			return nil, err
		}

		return nil, t.mapError(err)
	}

	t.log.Debug("Received frame",
		zap.Stringer("type", m.Type()),
		zap.Int("length", m.Len()))

	if t.trace {
		t.traceFrame("receive", m)
	}

	return m, nil
}

// Request sends one message and waits for the reply.
func (t *TCP) Request(msgType protocol.MessageType, payload []byte) (*protocol.Message, error) {
	m, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return nil, err
	}

	if err := t.SendMessage(m); err != nil {
		return nil, err
	}

	return t.ReceiveFrame()
}

func (t *TCP) current() (net.Conn, *bufio.Reader, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil, nil, ErrNotConnected
	}

	return t.conn, t.reader, nil
}

func (t *TCP) mapError(err error) error {
	var netErr net.Error

	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE):
		return fmt.Errorf("%w: %w", ErrConnectionClosed, err)

	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w after %s: %w", ErrTimeout, t.timeout, err)

	default:
		return err
	}
}

func (t *TCP) traceFrame(direction string, m *protocol.Message) {
	n := m.Len()
	if n > traceBytes {
		n = traceBytes
	}

	t.log.Debug("Frame",
		zap.String("direction", direction),
		zap.Stringer("type", m.Type()),
		zap.Int("length", m.Len()),
		zap.String("data", byteutil.HexASCIIString(m.Data(), 0, n)))
}
