package client

// State of a Session. Sessions move forward through
// Idle, Connected, Authenticated and Streaming, returning to Authenticated
// after each completed stream. Failed is reached on any fatal error and only
// Close leaves it.
type State int

const (
	Idle State = iota
	Connected
	Authenticated
	Streaming
	Closed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connected:
		return "connected"
	case Authenticated:
		return "authenticated"
	case Streaming:
		return "streaming"
	case Closed:
		return "closed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
