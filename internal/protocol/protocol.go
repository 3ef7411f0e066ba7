// Package protocol holds the wire constants and tunable knobs shared by the
// responder and querier: the multicast group and port, the vendor-namespaced
// header names, the fixed search-target literals, and the Config bundle that
// parameterizes timing and sizing across the engine. The response templates
// themselves are formatted in the responder package.
//
// None of this is meant to vary at runtime except through Config — the
// vendor suffix in particular is a wire-interop constant, not a setting
// (§9 of the design notes: changing it breaks peers).
package protocol

import "time"

// MulticastGroup is the SSDP multicast address search requests are sent
// to. Responses, including ssdp:all-expanded ones, go unicast to the
// requester.
const MulticastGroup = "239.255.255.250"

// Port is the well-known SSDP UDP port, used for both the multicast
// group and as the default unicast listen port.
const Port = 1900

// VendorSuffix is the single compile-time constant appended to both the
// inbound gate header and the outbound description header. It is part of
// the wire contract with peer implementations.
const VendorSuffix = "LEELANAUSOFTWARE.COM"

// GateHeader is the inbound header whose presence is mandatory on any
// request; its absence causes a silent drop.
const GateHeader = "ST." + VendorSuffix

// DescHeader is the outbound header carrying the colon-keyed description
// bag (:name:...:devices:...:services:...:puuid:...:).
const DescHeader = "DESC." + VendorSuffix

// SearchTargetHeader and UniqueServiceNameHeader are the two headers every
// request/response carries: the search target and the echoed/advertised
// unique service name.
const (
	SearchTargetHeader      = "ST"
	UniqueServiceNameHeader = "USN"
)

// RootDeviceTarget is the fixed ST literal for a root-device search.
const RootDeviceTarget = "upnp:rootdevice"

// AllValue is the gate header value (or value prefix) that expands a
// search to include embedded devices and services.
const AllValue = "ssdp:all"

// Config bundles the tunable knobs named in the wire-protocol section:
// multicast address, timing, and sizing. Zero-value Config is not usable;
// build one with DefaultConfig and override fields via the functional
// options in responder and querier.
type Config struct {
	MulticastGroup      string
	SSDPPort            int
	ResponseDelay       time.Duration
	QueryPollInterval   time.Duration
	DefaultQueryTimeout time.Duration
	MaxChildren         int
	PacketBufferBytes   int
}

// DefaultConfig returns the configuration named in the wire-protocol
// section: 239.255.255.250:1900, 500ms inter-response delay, 100ms query
// poll interval, a 2s default query timeout, up to 8 children per node,
// and a 1536-byte packet buffer.
func DefaultConfig() Config {
	return Config{
		MulticastGroup:      MulticastGroup,
		SSDPPort:            Port,
		ResponseDelay:       500 * time.Millisecond,
		QueryPollInterval:   100 * time.Millisecond,
		DefaultQueryTimeout: 2 * time.Second,
		MaxChildren:         8,
		PacketBufferBytes:   1536,
	}
}
