package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/luma/ldds/byteutil"
)

var (
	// ErrServer matches any *ServerError with errors.Is.
	ErrServer = errors.New("LDDS server error")

	ErrBadServerError = fmt.Errorf("%w: malformed server error report", ErrProtocol)
)

// ServerErrorPrefix starts every server error report payload.
const ServerErrorPrefix = '?'

// ServerError is an error reported by the server in a response payload.
type ServerError struct {
	Code    ErrorCode
	Errno   int
	Message string
}

// ParseServerError parses a `?derrno,errno,message` payload. It returns nil
// and no error if the payload is not an error report.
func ParseServerError(payload []byte) (*ServerError, error) {
	if len(payload) == 0 || payload[0] != ServerErrorPrefix {
		return nil, nil
	}

	report := byteutil.CString(payload, 1)
	fields := strings.SplitN(report, ",", 3)
	if len(fields) < 2 {
		return nil, fmt.Errorf("Failed to parse '%s': %w", report, ErrBadServerError)
	}

	code, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return nil, fmt.Errorf("Failed to parse derrno of '%s': %w", report, ErrBadServerError)
	}

	errno, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return nil, fmt.Errorf("Failed to parse errno of '%s': %w", report, ErrBadServerError)
	}

	se := &ServerError{Code: ErrorCode(code), Errno: errno}
	if len(fields) == 3 {
		se.Message = strings.TrimSpace(fields[2])
	}

	return se, nil
}

func (e *ServerError) Error() string {
	if e.Code == DSUCCESS && e.Errno == 0 {
		return "No Server Error"
	}

	return fmt.Sprintf("System Code #%d; Server Code #%d - %s (%s)",
		e.Errno, int(e.Code), e.Message, e.Code.Description())
}

func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// UntilReached reports whether the error is the server telling us the end of
// the requested time range was reached.
func (e *ServerError) UntilReached() bool {
	return e.Code.UntilReached()
}

// StrongRequired reports whether the server rejected the authenticator's
// hash algorithm.
func (e *ServerError) StrongRequired() bool {
	return e.Code == DSTRONGREQUIRED
}

// Failed reports whether the error stops the current operation.
func (e *ServerError) Failed() bool {
	return e.Code != DSUCCESS && !e.UntilReached()
}
