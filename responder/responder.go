// Package responder implements the server half of the engine: given a
// device tree (an external collaborator, never mutated here) and a
// Transport, it drains both sockets once per tick, classifies whatever
// arrived, and — if the request is gated and recognized — walks the tree
// and posts the correct set of responses in the correct order.
//
// Grounded on the teacher's responder package for its shape (a
// constructor taking functional options, a Transport field, a
// ResponseBuilder field) but not its scheduling model: the teacher runs a
// background goroutine per responder; this engine is single-threaded
// cooperative (design §5) — there is one Tick entry point, and the caller
// decides how often to invoke it. Run is a convenience loop for callers
// who want the old "just start it and forget it" ergonomics built on top
// of that primitive.
package responder

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/dltoth/ssdp/device"
	"github.com/dltoth/ssdp/internal/message"
	"github.com/dltoth/ssdp/internal/protocol"
	"github.com/dltoth/ssdp/internal/transport"
	"github.com/dltoth/ssdp/log"
)

// Responder drains both SSDP sockets each Tick and answers recognized
// M-SEARCH requests against root.
type Responder struct {
	root            device.Root
	transport       transport.Transport
	dispatcher      *SearchDispatcher
	responseBuilder *ResponseBuilder
	cfg             protocol.Config
	logger          log.Logger
}

// New builds a Responder over root. By default it opens a real
// UDPv4Transport bound to the configured SSDP port; WithTransport injects
// a test double instead.
func New(root device.Root, opts ...Option) (*Responder, error) {
	r := &Responder{
		root:   root,
		cfg:    protocol.DefaultConfig(),
		logger: log.NoopLogger{},
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if r.transport == nil {
		t, err := transport.NewUDPv4Transport(r.cfg, r.cfg.SSDPPort)
		if err != nil {
			return nil, fmt.Errorf("failed to create transport: %w", err)
		}
		r.transport = t
	}

	r.dispatcher = NewSearchDispatcher()
	r.responseBuilder = NewResponseBuilder(r.cfg.PacketBufferBytes, r.logger)

	return r, nil
}

// Tick checks the multicast socket, then the unicast socket, for one
// pending packet each, in that fixed order (§5's ordering guarantee). If a
// packet is present it is classified and, if it elicits a response, every
// response in the dispatcher's plan is sent before Tick moves to the next
// socket. Tick never blocks longer than ctx allows plus the bounded
// inter-response delay between posted responses.
//
// A receive failure on one socket is logged, not returned: per §7,
// internal failures are logged but do not abort the tick, so the unicast
// drain still runs even if the multicast receive failed (e.g. because ctx
// was already past its deadline when Tick was called).
func (r *Responder) Tick(ctx context.Context) error {
	r.drainOne(ctx, r.transport.ReceiveMulticast, "multicast")
	r.drainOne(ctx, r.transport.ReceiveUnicast, "unicast")
	return nil
}

type receiveFunc func(context.Context) ([]byte, *net.UDPAddr, error)

func (r *Responder) drainOne(ctx context.Context, receive receiveFunc, socketName string) {
	packet, src, err := receive(ctx)
	if err != nil {
		r.logger.Log(log.Event{
			Level: log.LevelInfo, Message: "receive failed", Component: "responder.Responder",
			Target: socketName, Err: err,
		})
		return
	}
	if packet == nil {
		return
	}
	r.handlePacket(ctx, packet, src)
}

func (r *Responder) handlePacket(ctx context.Context, packet []byte, src *net.UDPAddr) {
	view := message.NewPacketView(packet)
	req, ok := message.Classify(view, protocol.GateHeader)
	if !ok {
		r.logger.Log(log.Event{Level: log.LevelFinest, Message: "silent drop", Component: "responder.Responder"})
		return
	}

	ifaceAddr := r.transport.InterfaceOf(src.IP).String()
	plan := r.dispatcher.Plan(req, r.root)

	for i, intent := range plan {
		wire := intent.Build(r.responseBuilder, req.Literal, ifaceAddr)
		if err := r.transport.SendUnicast(ctx, wire, src); err != nil {
			r.logger.Log(log.Event{
				Level: log.LevelInfo, Message: "response send failed", Component: "responder.Responder",
				Target: req.Literal, Err: err,
			})
			continue
		}
		if i < len(plan)-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(r.cfg.ResponseDelay):
			}
		}
	}
}

// Run calls Tick in a loop, sleeping interval between calls, until ctx is
// done. It is a convenience wrapper for callers who don't want to drive
// Tick themselves; it holds no state Tick doesn't already have.
func (r *Responder) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.Tick(ctx); err != nil {
				r.logger.Log(log.Event{Level: log.LevelInfo, Message: "tick failed", Component: "responder.Responder", Err: err})
			}
		}
	}
}

// LocalPort returns the port the unicast socket is bound to.
func (r *Responder) LocalPort() int { return r.transport.LocalPort() }

// MulticastPort returns the configured SSDP multicast port.
func (r *Responder) MulticastPort() int { return r.cfg.SSDPPort }

// Close releases the responder's transport.
func (r *Responder) Close() error {
	if r.transport == nil {
		return nil
	}
	return r.transport.Close()
}
