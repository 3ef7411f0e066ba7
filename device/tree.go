package device

import "fmt"

// maxChildren is the per-container child limit named in the data model: a
// root owns 0..8 embedded devices and 0..8 services, and each embedded
// device owns 0..8 services.
const maxChildren = 8

// Tree is a small in-memory reference implementation of the device-tree
// contract, useful for tests, examples, and any caller that doesn't
// already have its own device hierarchy to adapt. It is not required by
// the responder or querier, which only ever depend on the Node/Device/
// Root/Service interfaces.
type Tree struct {
	root *TreeRoot
}

// NewTree builds a tree with a single root node. port is the TCP port the
// root's (and by extension every descendant's) presentation URL advertises.
func NewTree(uuid, typ, name string, port int) *Tree {
	return &Tree{root: &TreeRoot{uuid: uuid, typ: typ, name: name, port: port}}
}

// Root returns the tree's root node.
func (t *Tree) Root() Root { return t.root }

// AddDevice adds an embedded device directly under the root. It returns an
// error if the root already owns maxChildren devices.
func (t *Tree) AddDevice(uuid, typ, name string) (*TreeDevice, error) {
	if len(t.root.devices) >= maxChildren {
		return nil, fmt.Errorf("device: root already owns %d devices, max is %d", len(t.root.devices), maxChildren)
	}
	d := &TreeDevice{uuid: uuid, typ: typ, name: name, parent: t.root}
	t.root.devices = append(t.root.devices, d)
	return d, nil
}

// AddService adds a service directly under the root.
func (t *Tree) AddService(uuid, typ, name string) (*TreeService, error) {
	return addService(&t.root.services, t.root, uuid, typ, name)
}

// TreeRoot is the root implementation backing Tree.
type TreeRoot struct {
	uuid, typ, name string
	port            int
	devices         []*TreeDevice
	services        []*TreeService
}

func (r *TreeRoot) UUID() string        { return r.uuid }
func (r *TreeRoot) Type() string        { return r.typ }
func (r *TreeRoot) DisplayName() string { return r.name }
func (r *TreeRoot) IsType(t string) bool { return r.typ == t }
func (r *TreeRoot) Kind() Kind          { return KindRoot }
func (r *TreeRoot) NumServices() int    { return len(r.services) }
func (r *TreeRoot) NumDevices() int     { return len(r.devices) }

func (r *TreeRoot) Services() []Service {
	out := make([]Service, len(r.services))
	for i, s := range r.services {
		out[i] = s
	}
	return out
}

func (r *TreeRoot) Devices() []Device {
	out := make([]Device, len(r.devices))
	for i, d := range r.devices {
		out[i] = d
	}
	return out
}

func (r *TreeRoot) Location(ifaceAddr string) string {
	return fmt.Sprintf("http://%s:%d/%s", ifaceAddr, r.port, r.uuid)
}

func (r *TreeRoot) AsRoot() (Root, bool) { return r, true }

// TreeDevice is an embedded-device implementation backing Tree.
type TreeDevice struct {
	uuid, typ, name string
	parent          *TreeRoot
	services        []*TreeService
}

func (d *TreeDevice) UUID() string        { return d.uuid }
func (d *TreeDevice) Type() string        { return d.typ }
func (d *TreeDevice) DisplayName() string { return d.name }
func (d *TreeDevice) IsType(t string) bool { return d.typ == t }
func (d *TreeDevice) Kind() Kind          { return KindDevice }
func (d *TreeDevice) NumServices() int    { return len(d.services) }

func (d *TreeDevice) Services() []Service {
	out := make([]Service, len(d.services))
	for i, s := range d.services {
		out[i] = s
	}
	return out
}

func (d *TreeDevice) Location(ifaceAddr string) string {
	return fmt.Sprintf("%s/%s", d.parent.Location(ifaceAddr), d.uuid)
}

func (d *TreeDevice) AsRoot() (Root, bool) { return nil, false }

// AddService adds a service under this embedded device.
func (d *TreeDevice) AddService(uuid, typ, name string) (*TreeService, error) {
	return addService(&d.services, d, uuid, typ, name)
}

// TreeService is a leaf-service implementation backing Tree.
type TreeService struct {
	uuid, typ, name string
	parent          Device
}

func (s *TreeService) UUID() string         { return s.uuid }
func (s *TreeService) Type() string         { return s.typ }
func (s *TreeService) DisplayName() string  { return s.name }
func (s *TreeService) IsType(t string) bool { return s.typ == t }
func (s *TreeService) Kind() Kind           { return KindService }
func (s *TreeService) ParentDevice() Device { return s.parent }

func (s *TreeService) Location(ifaceAddr string) string {
	return fmt.Sprintf("%s/%s", s.parent.Location(ifaceAddr), s.uuid)
}

func addService(into *[]*TreeService, parent Device, uuid, typ, name string) (*TreeService, error) {
	if len(*into) >= maxChildren {
		return nil, fmt.Errorf("service: parent %q already owns %d services, max is %d", parent.UUID(), len(*into), maxChildren)
	}
	s := &TreeService{uuid: uuid, typ: typ, name: name, parent: parent}
	*into = append(*into, s)
	return s, nil
}
