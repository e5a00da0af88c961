package client

import (
	"context"

	"go.uber.org/zap"

	"github.com/luma/ldds/criteria"
	"github.com/luma/ldds/storage"
)

// Fetch runs a whole session: connect, authenticate, submit c and stream
// every matching record into sink. The session is always closed.
func Fetch(
	ctx context.Context,
	options Options,
	username, password string,
	c *criteria.SearchCriteria,
	sink storage.Sink,
) (count int, err error) {
	s := New(options)
	defer func() {
		// Close errors don't change the outcome of the retrieval.
		_ = s.Close()
	}()

	if err = s.Connect(ctx); err != nil {
		return 0, err
	}

	if err = s.Authenticate(ctx, username, password); err != nil {
		return 0, err
	}

	needLocalFilter, err := s.SubmitCriteria(ctx, c, s.version)
	if err != nil {
		return 0, err
	}

	if needLocalFilter {
		s.log.Warn("Server can't apply all of the criteria, records may need filtering",
			zap.Int("version", s.version))
	}

	return s.StreamRecords(ctx, sink)
}
