// Package transport implements the thin capability set the engine treats
// as an external collaborator: join the SSDP multicast group, send/receive
// on both the multicast and a unicast socket, report the locally bound
// port, and resolve which local interface a peer address belongs to.
//
// Grounded on the teacher's internal/transport package (Transport
// interface + UDPv4Transport wrapping golang.org/x/net/ipv4 for control-
// message access), generalized from a single mDNS socket to the two-socket
// (multicast + unicast) model the server loop drains each tick.
package transport

import (
	"context"
	"net"
)

// Transport abstracts the two SSDP sockets: the multicast-joined socket
// requests arrive on, and the unicast socket used to send responses and to
// run queries. Implementations:
//
//   - UDPv4Transport: production IPv4 transport.
//   - a hand-written fake in tests (per the design's own "mock transports
//     for testing" rationale — no mocking framework is pulled in for
//     something this small).
type Transport interface {
	// SendMulticast transmits packet to the SSDP multicast group and port.
	SendMulticast(ctx context.Context, packet []byte) error

	// SendUnicast transmits packet to a specific peer address, from the
	// unicast socket.
	SendUnicast(ctx context.Context, packet []byte, dest *net.UDPAddr) error

	// ReceiveMulticast waits for one packet on the multicast socket until
	// ctx's deadline. When ctx has no deadline it is a non-blocking poll.
	// A nil packet with a nil error means nothing arrived; a ctx that is
	// already done is reported as an error.
	ReceiveMulticast(ctx context.Context) (packet []byte, src *net.UDPAddr, err error)

	// ReceiveUnicast waits for one packet on the unicast socket.
	ReceiveUnicast(ctx context.Context) (packet []byte, src *net.UDPAddr, err error)

	// LocalPort is the port the unicast socket is bound to (the ephemeral
	// port the querier sends from, or the configured SSDP port for a
	// responder that binds it explicitly).
	LocalPort() int

	// InterfaceOf returns the local address whose subnet contains peer,
	// matching local-before-soft-AP priority order, or net.IPv4zero if
	// neither local interface's subnet contains it.
	InterfaceOf(peer net.IP) net.IP

	// Close releases both sockets.
	Close() error
}
