// Package querier implements the client half of the engine: build an
// M-SEARCH request for one of the three target shapes, send it to the
// SSDP multicast group, and collect matching responses until a
// deadline — reset on every match — expires or a uuid-mode search finds
// its one match and exits early.
package querier

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/dltoth/ssdp/internal/errors"
	"github.com/dltoth/ssdp/internal/message"
	"github.com/dltoth/ssdp/internal/protocol"
	"github.com/dltoth/ssdp/internal/transport"
	"github.com/dltoth/ssdp/log"
)

// Response is one matching search response: the echoed ST, the
// advertised display name, and the peer that sent it.
type Response struct {
	ST          string
	DisplayName string
	Source      *net.UDPAddr
}

// Handler is invoked once per matching response, in arrival order.
type Handler func(Response)

// QueryClient sends M-SEARCH requests and collects responses against a
// Transport it owns (or, in tests, one injected via WithTransport).
type QueryClient struct {
	transport transport.Transport
	cfg       protocol.Config
	logger    log.Logger
}

// New opens a QueryClient. By default it binds an ephemeral unicast port
// on a real UDPv4Transport; WithTransport injects a test double instead.
func New(opts ...Option) (*QueryClient, error) {
	q := &QueryClient{
		cfg:    protocol.DefaultConfig(),
		logger: log.NoopLogger{},
	}

	for _, opt := range opts {
		if err := opt(q); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if q.transport == nil {
		t, err := transport.NewUDPv4Transport(q.cfg, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to create transport: %w", err)
		}
		q.transport = t
	}

	return q, nil
}

// Search issues an M-SEARCH for an arbitrary target string, dispatching to
// SearchRoot/SearchUUID/SearchType once target's shape is recognized. It
// returns an *errors.InvalidSearchTargetError, with no packet transmitted,
// for any target that is neither "upnp:rootdevice" nor "uuid:..." nor
// "urn:...". Prefer the typed methods when the shape is known at the call
// site; Search exists for callers building the target dynamically (e.g.
// forwarding a value from user input or a config file).
func (q *QueryClient) Search(ctx context.Context, target string, all bool, handler Handler) error {
	switch {
	case target == protocol.RootDeviceTarget:
		return q.SearchRoot(ctx, all, handler)
	case strings.HasPrefix(target, "uuid:"):
		return q.SearchUUID(ctx, strings.TrimPrefix(target, "uuid:"), handler)
	case strings.HasPrefix(target, "urn:"):
		return q.SearchType(ctx, target, handler)
	default:
		return &errors.InvalidSearchTargetError{Target: target}
	}
}

// SearchRoot issues an "upnp:rootdevice" search. If all is true the vendor
// gate header requests ssdp:all expansion, so embedded devices and
// services reply too.
func (q *QueryClient) SearchRoot(ctx context.Context, all bool, handler Handler) error {
	return q.search(ctx, protocol.RootDeviceTarget, all, false, handler)
}

// SearchUUID issues a "uuid:<id>" search. The loop exits as soon as one
// matching response is dispatched, per the design's uuid early-exit rule —
// a uuid identifies exactly one device, so there is nothing left to wait
// for once it has answered.
func (q *QueryClient) SearchUUID(ctx context.Context, uuid string, handler Handler) error {
	return q.search(ctx, uuidTarget(uuid), true, true, handler)
}

// SearchType issues a "urn:...:device|service:...:..." search against
// every node of that type. The loop runs for the full (possibly extended)
// timeout window since more than one device may share a type.
func (q *QueryClient) SearchType(ctx context.Context, urn string, handler Handler) error {
	return q.search(ctx, urn, true, false, handler)
}

func (q *QueryClient) search(ctx context.Context, st string, all, uuidMode bool, handler Handler) error {
	packet := buildRequest(st, all)
	if err := q.transport.SendMulticast(ctx, packet); err != nil {
		return fmt.Errorf("ssdp: search send failed: %w", err)
	}

	deadline := time.Now().Add(q.cfg.DefaultQueryTimeout)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return nil
		}

		pollCtx, cancel := context.WithTimeout(ctx, q.cfg.QueryPollInterval)
		packetBytes, src, err := q.transport.ReceiveUnicast(pollCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("ssdp: receive failed: %w", err)
		}
		if packetBytes == nil {
			continue
		}

		resp, ok := q.matchResponse(packetBytes, src, st)
		if !ok {
			q.logger.Log(log.Event{Level: log.LevelFinest, Message: "ignored non-matching response", Component: "querier.QueryClient", Target: st})
			continue
		}

		handler(resp)
		deadline = time.Now().Add(q.cfg.DefaultQueryTimeout)
		if uuidMode {
			return nil
		}
	}
	return nil
}

func (q *QueryClient) matchResponse(packetBytes []byte, src *net.UDPAddr, st string) (Response, bool) {
	view := message.NewPacketView(packetBytes)
	if !view.IsSearchResponse() {
		return Response{}, false
	}
	gotST, ok := view.HeaderValue(protocol.SearchTargetHeader)
	if !ok || gotST != st {
		return Response{}, false
	}
	name, ok := view.DisplayName(protocol.DescHeader)
	if !ok || name == "" {
		return Response{}, false
	}
	return Response{ST: gotST, DisplayName: name, Source: src}, true
}

// LocalPort returns the unicast socket's bound (ephemeral, by default)
// port.
func (q *QueryClient) LocalPort() int { return q.transport.LocalPort() }

// Close releases the query client's transport.
func (q *QueryClient) Close() error {
	if q.transport == nil {
		return nil
	}
	return q.transport.Close()
}
