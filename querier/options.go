package querier

import (
	"github.com/dltoth/ssdp/internal/protocol"
	"github.com/dltoth/ssdp/internal/transport"
	"github.com/dltoth/ssdp/log"
)

// Option is a functional option for configuring a QueryClient, applied in
// New before the transport is opened.
type Option func(*QueryClient) error

// WithConfig overrides the default protocol configuration (timeout, poll
// interval).
func WithConfig(cfg protocol.Config) Option {
	return func(q *QueryClient) error {
		q.cfg = cfg
		return nil
	}
}

// WithLogger sets the logger used for diagnostic tracing. A nil logger is
// replaced with log.NoopLogger{}, which silences output.
func WithLogger(logger log.Logger) Option {
	return func(q *QueryClient) error {
		if logger == nil {
			logger = log.NoopLogger{}
		}
		q.logger = logger
		return nil
	}
}

// WithTransport injects a Transport directly instead of having New open a
// real UDPv4Transport. Intended for tests.
func WithTransport(t transport.Transport) Option {
	return func(q *QueryClient) error {
		q.transport = t
		return nil
	}
}
