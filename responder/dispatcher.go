package responder

import (
	"github.com/dltoth/ssdp/device"
	"github.com/dltoth/ssdp/internal/message"
)

// intentKind discriminates which ResponseBuilder method a ResponseIntent
// resolves to.
type intentKind int

const (
	intentRoot intentKind = iota
	intentDevice
	intentService
)

// ResponseIntent is the small plain-data value the dispatcher produces in
// place of emitting a response immediately — the "post-handler pattern"
// (§9): classify and walk the tree first, drop nothing but a handful of
// interface references, then let the caller build and send each one
// against a Transport it still has to resolve an interface address for.
type ResponseIntent struct {
	kind   intentKind
	root   device.Root
	device device.Device
	parent device.Root
	svc    device.Service
}

// Build renders this intent's wire bytes via rb, echoing st and formatting
// LOCATION against ifaceAddr.
func (ri ResponseIntent) Build(rb *ResponseBuilder, st, ifaceAddr string) []byte {
	switch ri.kind {
	case intentRoot:
		return rb.BuildRoot(ri.root, st, ifaceAddr)
	case intentDevice:
		return rb.BuildDevice(ri.device, ri.parent, st, ifaceAddr)
	case intentService:
		return rb.BuildService(ri.svc, st, ifaceAddr)
	default:
		return nil
	}
}

func rootIntent(root device.Root) ResponseIntent { return ResponseIntent{kind: intentRoot, root: root} }

func deviceIntent(d device.Device, parent device.Root) ResponseIntent {
	return ResponseIntent{kind: intentDevice, device: d, parent: parent}
}

func serviceIntent(s device.Service) ResponseIntent { return ResponseIntent{kind: intentService, svc: s} }

// SearchDispatcher turns a classified request and a device tree into the
// ordered list of responses that request elicits. Plan never touches a
// Transport and never sleeps — it is a pure function over the tree, so the
// dispatcher's ordering invariants are testable with no socket at all.
type SearchDispatcher struct{}

// NewSearchDispatcher returns a ready-to-use dispatcher. It carries no
// state of its own; the tree is passed to Plan on every call since the
// engine never owns it.
func NewSearchDispatcher() *SearchDispatcher { return &SearchDispatcher{} }

// Plan returns the ordered response intents req's search elicits against
// root, per §4.4's per-shape rules. A nil or empty result means no
// response: a uuid search that matched nothing, most commonly.
func (d *SearchDispatcher) Plan(req message.SearchRequest, root device.Root) []ResponseIntent {
	switch req.Kind {
	case message.RootSearch:
		if req.All {
			return allNodesInOrder(root)
		}
		return []ResponseIntent{rootIntent(root)}

	case message.UuidSearch:
		if root.UUID() == req.UUID {
			if req.All {
				return allNodesInOrder(root)
			}
			return []ResponseIntent{rootIntent(root)}
		}
		for _, dev := range root.Devices() {
			if dev.UUID() == req.UUID {
				out := []ResponseIntent{deviceIntent(dev, root)}
				if req.All {
					for _, s := range dev.Services() {
						out = append(out, serviceIntent(s))
					}
				}
				return out
			}
		}
		return nil

	case message.TypeSearch:
		var out []ResponseIntent
		for _, intent := range allNodesInOrder(root) {
			if intentType(intent) == req.URN {
				out = append(out, intent)
			}
		}
		return out

	default:
		return nil
	}
}

// allNodesInOrder walks root in the fixed tree order the design requires:
// root, then root-owned services, then each embedded device followed by
// its own services, in registration order.
func allNodesInOrder(root device.Root) []ResponseIntent {
	out := []ResponseIntent{rootIntent(root)}
	for _, s := range root.Services() {
		out = append(out, serviceIntent(s))
	}
	for _, dev := range root.Devices() {
		out = append(out, deviceIntent(dev, root))
		for _, s := range dev.Services() {
			out = append(out, serviceIntent(s))
		}
	}
	return out
}

func intentType(ri ResponseIntent) string {
	switch ri.kind {
	case intentRoot:
		return ri.root.Type()
	case intentDevice:
		return ri.device.Type()
	case intentService:
		return ri.svc.Type()
	default:
		return ""
	}
}
