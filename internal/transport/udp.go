package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/dltoth/ssdp/internal/errors"
	"github.com/dltoth/ssdp/internal/protocol"
)

// UDPv4Transport implements Transport over two IPv4 UDP sockets: a
// multicast socket joined to the SSDP group on up to two interfaces (the
// design's local-interface/soft-AP-interface model — never more, per the
// "more than two interfaces per host" non-goal), and a unicast socket used
// both to send responses and to run queries.
type UDPv4Transport struct {
	mcConn   *ipv4.PacketConn
	mcAddr   *net.UDPAddr
	ucConn   *net.UDPConn
	ifaces   []*net.Interface // at most two, local interface first
}

// NewUDPv4Transport joins cfg's multicast group on every multicast-capable
// IPv4 interface present (in OS enumeration order, which places the
// primary/infrastructure interface ahead of a soft-AP interface on every
// platform observed), capped at two per the non-goal, and binds a unicast
// socket on unicastPort (0 for an ephemeral port, as the querier wants; a
// fixed port for a responder that wants a stable local_port()).
func NewUDPv4Transport(cfg protocol.Config, unicastPort int) (*UDPv4Transport, error) {
	ifaces, err := multicastCapableInterfaces()
	if err != nil {
		return nil, &errors.NetworkError{Operation: "list interfaces", Err: err, Kind: errors.TransportSetup}
	}
	if len(ifaces) == 0 {
		return nil, &errors.NetworkError{Operation: "list interfaces", Err: fmt.Errorf("no multicast-capable interface found"), Kind: errors.TransportSetup}
	}
	if len(ifaces) > 2 {
		ifaces = ifaces[:2]
	}

	mcAddr, err := net.ResolveUDPAddr("udp4", net.JoinHostPort(cfg.MulticastGroup, strconv.Itoa(cfg.SSDPPort)))
	if err != nil {
		return nil, &errors.NetworkError{
			Operation: "resolve multicast address", Err: err, Kind: errors.TransportSetup,
			Details: fmt.Sprintf("failed to resolve %s:%d", cfg.MulticastGroup, cfg.SSDPPort),
		}
	}

	rawMC, err := listenReusable("udp4", &net.UDPAddr{Port: cfg.SSDPPort})
	if err != nil {
		return nil, &errors.NetworkError{Operation: "create multicast socket", Err: err, Kind: errors.TransportSetup}
	}
	mcConn := ipv4.NewPacketConn(rawMC)
	for _, iface := range ifaces {
		if err := mcConn.JoinGroup(iface, mcAddr); err != nil {
			_ = rawMC.Close()
			return nil, &errors.NetworkError{
				Operation: "join multicast group", Err: err, Kind: errors.TransportSetup,
				Details: fmt.Sprintf("interface %s", iface.Name),
			}
		}
	}

	ucConn, err := listenReusable("udp4", &net.UDPAddr{Port: unicastPort})
	if err != nil {
		_ = rawMC.Close()
		return nil, &errors.NetworkError{Operation: "create unicast socket", Err: err, Kind: errors.TransportSetup}
	}

	return &UDPv4Transport{mcConn: mcConn, mcAddr: mcAddr, ucConn: ucConn, ifaces: ifaces}, nil
}

func (t *UDPv4Transport) SendMulticast(ctx context.Context, packet []byte) error {
	return t.send(ctx, packet, t.mcAddr)
}

func (t *UDPv4Transport) SendUnicast(ctx context.Context, packet []byte, dest *net.UDPAddr) error {
	return t.send(ctx, packet, dest)
}

func (t *UDPv4Transport) send(ctx context.Context, packet []byte, dest *net.UDPAddr) error {
	select {
	case <-ctx.Done():
		return &errors.NetworkError{Operation: "send", Err: ctx.Err(), Kind: errors.TransportSend, Details: "context canceled before send"}
	default:
	}

	n, err := t.ucConn.WriteToUDP(packet, dest)
	if err != nil {
		return &errors.NetworkError{Operation: "send", Err: err, Kind: errors.TransportSend, Details: fmt.Sprintf("failed to send %d bytes to %s", len(packet), dest)}
	}
	if n != len(packet) {
		return &errors.NetworkError{Operation: "send", Err: fmt.Errorf("partial write: %d/%d bytes", n, len(packet)), Kind: errors.TransportSend}
	}
	return nil
}

func (t *UDPv4Transport) ReceiveMulticast(ctx context.Context) ([]byte, *net.UDPAddr, error) {
	return receive(ctx, deadlineSetterFunc(t.mcConn.SetReadDeadline), func(buf []byte) (int, net.Addr, error) {
		n, _, addr, err := t.mcConn.ReadFrom(buf)
		return n, addr, err
	})
}

func (t *UDPv4Transport) ReceiveUnicast(ctx context.Context) ([]byte, *net.UDPAddr, error) {
	return receive(ctx, deadlineSetterFunc(t.ucConn.SetReadDeadline), func(buf []byte) (int, net.Addr, error) {
		return t.ucConn.ReadFromUDP(buf)
	})
}

type deadlineSetterFunc func(time.Time) error

func receive(ctx context.Context, setDeadline deadlineSetterFunc, read func([]byte) (int, net.Addr, error)) ([]byte, *net.UDPAddr, error) {
	select {
	case <-ctx.Done():
		return nil, nil, &errors.NetworkError{Operation: "receive", Err: ctx.Err(), Kind: errors.TransportSetup, Details: "context canceled before receive"}
	default:
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		// a non-blocking poll: return immediately if nothing is queued
		deadline = time.Now()
	}
	if err := setDeadline(deadline); err != nil {
		return nil, nil, &errors.NetworkError{Operation: "set read deadline", Err: err, Kind: errors.TransportSetup}
	}

	buf := make([]byte, 2048)
	n, addr, err := read(buf)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, nil, nil // nothing pending this tick; not an error
		}
		return nil, nil, &errors.NetworkError{Operation: "receive", Err: err, Kind: errors.TransportSetup}
	}

	udpAddr, _ := addr.(*net.UDPAddr)
	result := make([]byte, n)
	copy(result, buf[:n])
	return result, udpAddr, nil
}

// LocalPort returns the unicast socket's bound port.
func (t *UDPv4Transport) LocalPort() int {
	if addr, ok := t.ucConn.LocalAddr().(*net.UDPAddr); ok {
		return addr.Port
	}
	return 0
}

// InterfaceOf matches peer against each joined interface's IPv4 subnet, in
// join order (local interface before soft-AP interface), returning that
// interface's own address. Returns net.IPv4zero if neither matches.
func (t *UDPv4Transport) InterfaceOf(peer net.IP) net.IP {
	for _, iface := range t.ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			v4 := ipnet.IP.To4()
			if v4 == nil {
				continue
			}
			if ipnet.Contains(peer) {
				return v4
			}
		}
	}
	return net.IPv4zero
}

func (t *UDPv4Transport) Close() error {
	mcErr := t.mcConn.Close()
	ucErr := t.ucConn.Close()
	if mcErr != nil {
		return &errors.NetworkError{Operation: "close multicast socket", Err: mcErr, Kind: errors.TransportSetup}
	}
	if ucErr != nil {
		return &errors.NetworkError{Operation: "close unicast socket", Err: ucErr, Kind: errors.TransportSetup}
	}
	return nil
}

func multicastCapableInterfaces() ([]*net.Interface, error) {
	all, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	var out []*net.Interface
	for i := range all {
		iface := &all[i]
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagMulticast == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		out = append(out, iface)
	}
	return out, nil
}
