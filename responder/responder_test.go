package responder

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dltoth/ssdp/device"
)

// fakeTransport is a hand-written Transport double: queued packets for
// ReceiveMulticast/ReceiveUnicast, and a log of everything SendUnicast was
// given. No mocking framework, matching the design's own rationale for
// keeping test doubles this small.
type fakeTransport struct {
	multicastQueue [][]byte
	unicastQueue   [][]byte
	srcAddr        *net.UDPAddr
	sent           [][]byte
	ifaceAddr      net.IP
	closed         bool
	multicastErr   error // when set, ReceiveMulticast returns this instead of popping the queue
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		srcAddr:   &net.UDPAddr{IP: net.ParseIP("192.168.1.50"), Port: 55000},
		ifaceAddr: net.ParseIP("192.168.1.5"),
	}
}

func (f *fakeTransport) SendMulticast(ctx context.Context, packet []byte) error { return nil }

func (f *fakeTransport) SendUnicast(ctx context.Context, packet []byte, dest *net.UDPAddr) error {
	cp := make([]byte, len(packet))
	copy(cp, packet)
	f.sent = append(f.sent, cp)
	return nil
}

func (f *fakeTransport) ReceiveMulticast(ctx context.Context) ([]byte, *net.UDPAddr, error) {
	if f.multicastErr != nil {
		return nil, nil, f.multicastErr
	}
	return f.pop(&f.multicastQueue)
}

func (f *fakeTransport) ReceiveUnicast(ctx context.Context) ([]byte, *net.UDPAddr, error) {
	return f.pop(&f.unicastQueue)
}

func (f *fakeTransport) pop(q *[][]byte) ([]byte, *net.UDPAddr, error) {
	if len(*q) == 0 {
		return nil, nil, nil
	}
	packet := (*q)[0]
	*q = (*q)[1:]
	return packet, f.srcAddr, nil
}

func (f *fakeTransport) LocalPort() int { return 1900 }

func (f *fakeTransport) InterfaceOf(peer net.IP) net.IP { return f.ifaceAddr }

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func buildResponderTree(t *testing.T) *device.Tree {
	t.Helper()
	tree := device.NewTree("R", "urn:x-com:device:Root:1", "House", 8080)
	if _, err := tree.AddService("S1", "urn:x-com:service:Status:1", "Status"); err != nil {
		t.Fatal(err)
	}
	return tree
}

func rawRequest(lines ...string) []byte {
	var out []byte
	for _, l := range lines {
		out = append(out, []byte(l)...)
		out = append(out, '\r', '\n')
	}
	out = append(out, '\r', '\n')
	return out
}

// Scenario 1: a packet missing the gate header is silently dropped — no
// response is ever sent.
func TestResponderSilentlyDropsUngatedPacket(t *testing.T) {
	ft := newFakeTransport()
	ft.multicastQueue = append(ft.multicastQueue, rawRequest(
		"M-SEARCH * HTTP/1.1",
		"HOST: 239.255.255.250:1900",
		"MAN: \"ssdp:discover\"",
		"ST: upnp:rootdevice",
	))

	r, err := New(buildResponderTree(t).Root(), WithTransport(ft))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := r.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(ft.sent) != 0 {
		t.Errorf("sent %d responses for an ungated packet, want 0", len(ft.sent))
	}
}

// A gated, well-formed root-device search elicits exactly one response on
// the multicast-drain step.
func TestResponderAnswersGatedRootSearch(t *testing.T) {
	ft := newFakeTransport()
	ft.multicastQueue = append(ft.multicastQueue, rawRequest(
		"M-SEARCH * HTTP/1.1",
		"HOST: 239.255.255.250:1900",
		"MAN: \"ssdp:discover\"",
		"ST: upnp:rootdevice",
		"ST.LEELANAUSOFTWARE.COM: ssdp:discover",
	))

	r, err := New(buildResponderTree(t).Root(), WithTransport(ft))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := r.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(ft.sent) != 1 {
		t.Fatalf("sent %d responses, want 1", len(ft.sent))
	}
}

// A request on the unicast socket elicits the same response behavior as
// one on the multicast socket: both sockets are drained the same way.
func TestResponderDrainsUnicastSocketToo(t *testing.T) {
	ft := newFakeTransport()
	ft.unicastQueue = append(ft.unicastQueue, rawRequest(
		"M-SEARCH * HTTP/1.1",
		"HOST: 239.255.255.250:1900",
		"MAN: \"ssdp:discover\"",
		"ST: upnp:rootdevice",
		"ST.LEELANAUSOFTWARE.COM: ssdp:discover",
	))

	r, err := New(buildResponderTree(t).Root(), WithTransport(ft))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(ft.sent) != 1 {
		t.Fatalf("sent %d responses, want 1", len(ft.sent))
	}
}

// Multiple queued responses (an ssdp:all search) are all sent within one
// Tick, with the inter-response delay bounded by ctx cancellation.
func TestResponderSendsAllPlannedResponsesInOneTick(t *testing.T) {
	tree := buildResponderTree(t)
	if _, err := tree.AddDevice("D1", "urn:x-com:device:Clock:1", "Kitchen Clock"); err != nil {
		t.Fatal(err)
	}

	ft := newFakeTransport()
	ft.multicastQueue = append(ft.multicastQueue, rawRequest(
		"M-SEARCH * HTTP/1.1",
		"HOST: 239.255.255.250:1900",
		"MAN: \"ssdp:discover\"",
		"ST: upnp:rootdevice",
		"ST.LEELANAUSOFTWARE.COM: ssdp:all",
	))

	r, err := New(tree.Root(), WithTransport(ft))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := r.Tick(ctx); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	// root, S1, D1 = 3 responses for an all-search with no embedded services.
	if len(ft.sent) != 3 {
		t.Fatalf("sent %d responses, want 3", len(ft.sent))
	}
}

// A receive error on the multicast socket must not short-circuit the
// tick: the unicast socket is still drained in the same Tick call.
func TestResponderStillDrainsUnicastAfterMulticastReceiveError(t *testing.T) {
	ft := newFakeTransport()
	ft.multicastErr = errors.New("simulated receive failure")
	ft.unicastQueue = append(ft.unicastQueue, rawRequest(
		"M-SEARCH * HTTP/1.1",
		"HOST: 239.255.255.250:1900",
		"MAN: \"ssdp:discover\"",
		"ST: upnp:rootdevice",
		"ST.LEELANAUSOFTWARE.COM: ssdp:discover",
	))

	r, err := New(buildResponderTree(t).Root(), WithTransport(ft))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := r.Tick(context.Background()); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(ft.sent) != 1 {
		t.Fatalf("sent %d responses, want 1 (unicast drain must still run)", len(ft.sent))
	}
}

func TestResponderLocalPortAndMulticastPort(t *testing.T) {
	ft := newFakeTransport()
	r, err := New(buildResponderTree(t).Root(), WithTransport(ft))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.LocalPort() != 1900 {
		t.Errorf("LocalPort() = %d, want 1900", r.LocalPort())
	}
	if r.MulticastPort() != 1900 {
		t.Errorf("MulticastPort() = %d, want 1900", r.MulticastPort())
	}
}

func TestResponderCloseDelegatesToTransport(t *testing.T) {
	ft := newFakeTransport()
	r, err := New(buildResponderTree(t).Root(), WithTransport(ft))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !ft.closed {
		t.Error("Close did not reach the transport")
	}
}

func TestResponderRunStopsOnContextCancel(t *testing.T) {
	ft := newFakeTransport()
	r, err := New(buildResponderTree(t).Root(), WithTransport(ft))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, 10*time.Millisecond) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
