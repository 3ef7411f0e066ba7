package responder

import (
	"github.com/dltoth/ssdp/internal/protocol"
	"github.com/dltoth/ssdp/internal/transport"
	"github.com/dltoth/ssdp/log"
)

// Option is a functional option for configuring a Responder, applied in
// New before the transport is opened.
//
// Grounded on the teacher's options.go (same Option signature, same
// with-prefix naming); WithHostname's concerns don't carry over (this
// protocol advertises a LOCATION URL per request's source interface, not
// a fixed hostname record), so the set of options is rebuilt around what
// this responder actually configures.
type Option func(*Responder) error

// WithConfig overrides the default protocol configuration (ports, buffer
// size, response delay).
func WithConfig(cfg protocol.Config) Option {
	return func(r *Responder) error {
		r.cfg = cfg
		return nil
	}
}

// WithLogger sets the logger used for truncation warnings, send failures,
// and silent-drop tracing. A nil logger is replaced with log.NoopLogger{},
// which silences output.
func WithLogger(logger log.Logger) Option {
	return func(r *Responder) error {
		if logger == nil {
			logger = log.NoopLogger{}
		}
		r.logger = logger
		return nil
	}
}

// WithTransport injects a Transport directly instead of having New open a
// real UDPv4Transport. Intended for tests: a hand-written fake transport
// lets dispatcher/responder wiring be exercised with no socket at all.
func WithTransport(t transport.Transport) Option {
	return func(r *Responder) error {
		r.transport = t
		return nil
	}
}
