// Package device defines the device-tree contract the responder consumes
// but never mutates: a root node owning embedded devices and services,
// each exposing identity, type, a presentation URL, and (for containers)
// iteration over its children. It also ships Tree, a small in-memory
// reference implementation so the module is runnable without a caller
// supplying their own tree.
//
// The dispatcher only ever imports the interfaces in this file, never
// Tree's concrete types — the external-collaborator boundary the design
// draws around the device hierarchy.
package device

// Kind discriminates the three node shapes in the hierarchy.
type Kind int

const (
	KindRoot Kind = iota
	KindDevice
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindDevice:
		return "device"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// Node is the identity every tree entry exposes, regardless of kind.
type Node interface {
	// UUID is this node's own unique identifier, in canonical 36-char
	// form.
	UUID() string
	// Type is the urn:<domain>:device|service:<type>:<ver> string
	// advertised as this node's ST/type.
	Type() string
	// DisplayName is the human-readable name carried in DESC:name.
	DisplayName() string
	// IsType reports whether Type() equals t, by byte-exact comparison.
	IsType(t string) bool
	// Kind reports which of the three shapes this node is.
	Kind() Kind
}

// Device is a node that owns services: a root or an embedded device. A
// service's ParentDevice() always satisfies this interface.
type Device interface {
	Node
	// Services iterates this device's owned services, in registration
	// order.
	Services() []Service
	// NumServices is len(Services()), cached or computed.
	NumServices() int
	// Location is the presentation URL for this node, built against the
	// interface address the requester's datagram arrived on.
	Location(ifaceAddr string) string
	// AsRoot returns the Root view of this device when it is the root,
	// and ok=false for an embedded device. (The responder's dispatcher
	// tells the root apart by comparing uuids against the Root it was
	// given, not through AsRoot.)
	AsRoot() (Root, bool)
}

// Root is the top of one device's tree: it owns both embedded devices and
// services directly.
type Root interface {
	Device
	// Devices iterates the root's embedded devices, in registration
	// order.
	Devices() []Device
	// NumDevices is len(Devices()).
	NumDevices() int
}

// Service is a leaf node: it advertises its own identity but owns nothing
// further.
type Service interface {
	Node
	// ParentDevice is the device (root or embedded) this service belongs
	// to. A service's USN and DESC:puuid are built from
	// ParentDevice().UUID(), never the service's own uuid.
	ParentDevice() Device
	// Location is the presentation URL for this service, built against
	// the interface address the requester's datagram arrived on.
	Location(ifaceAddr string) string
}
