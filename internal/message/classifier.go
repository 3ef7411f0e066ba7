package message

import "strings"

// SearchKind tags which of the three recognized search-target shapes a
// classified request carries.
type SearchKind int

const (
	// RootSearch is "upnp:rootdevice".
	RootSearch SearchKind = iota
	// UuidSearch is "uuid:<device-uuid>".
	UuidSearch
	// TypeSearch is "urn:<domain>:device|service:<type>:<ver>".
	TypeSearch
)

// SearchRequest is the tagged variant the classifier produces for a valid
// inbound M-SEARCH: which shape the search target has, the literal target
// value (echoed verbatim into every response), the extracted uuid or urn
// when applicable, and whether the gate header requested ssdp:all
// expansion.
type SearchRequest struct {
	Kind      SearchKind
	Literal   string // the raw ST value, echoed into responses unchanged
	UUID      string // set when Kind == UuidSearch
	URN       string // set when Kind == TypeSearch
	All       bool
}

// Classify rejects a received packet silently unless it is an M-SEARCH
// whose gate header (ST.<vendor>) is present and whose ST header is one of
// the three recognized shapes. ok is false for every other case: not a
// request, missing gate header, missing or unrecognized ST. None of this
// ever surfaces as an error — a silent drop, per the design, is not
// reported to the application.
func Classify(p PacketView, gateHeader string) (SearchRequest, bool) {
	if !p.IsSearchRequest() {
		return SearchRequest{}, false
	}
	gate, hasGate := p.HeaderValue(gateHeader)
	if !hasGate {
		return SearchRequest{}, false
	}
	st, hasST := p.HeaderValue("ST")
	if !hasST {
		return SearchRequest{}, false
	}

	all := strings.HasPrefix(gate, "ssdp:all")

	switch {
	case st == "upnp:rootdevice":
		return SearchRequest{Kind: RootSearch, Literal: st, All: all}, true
	case strings.HasPrefix(st, "uuid:"):
		uuid := strings.TrimSpace(strings.TrimPrefix(st, "uuid:"))
		if uuid == "" {
			return SearchRequest{}, false
		}
		return SearchRequest{Kind: UuidSearch, Literal: st, UUID: uuid, All: all}, true
	case strings.HasPrefix(st, "urn:"):
		return SearchRequest{Kind: TypeSearch, Literal: st, URN: st, All: all}, true
	default:
		return SearchRequest{}, false
	}
}
