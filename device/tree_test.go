package device

import "testing"

func buildSampleTree(t *testing.T) *Tree {
	t.Helper()
	tree := NewTree("root-uuid", "urn:x-com:device:Root:1", "House", 8080)
	d1, err := tree.AddDevice("dev-1-uuid", "urn:x-com:device:Clock:1", "Kitchen Clock")
	if err != nil {
		t.Fatalf("AddDevice: %v", err)
	}
	if _, err := tree.AddService("svc-root-uuid", "urn:x-com:service:Status:1", "Status"); err != nil {
		t.Fatalf("AddService on root: %v", err)
	}
	if _, err := d1.AddService("svc-dev-1-uuid", "urn:x-com:service:Alarm:1", "Alarm"); err != nil {
		t.Fatalf("AddService on device: %v", err)
	}
	return tree
}

func TestTreeShape(t *testing.T) {
	tree := buildSampleTree(t)
	root := tree.Root()

	if root.Kind() != KindRoot {
		t.Errorf("root.Kind() = %v, want %v", root.Kind(), KindRoot)
	}
	if root.NumDevices() != 1 {
		t.Errorf("root.NumDevices() = %d, want 1", root.NumDevices())
	}
	if root.NumServices() != 1 {
		t.Errorf("root.NumServices() = %d, want 1", root.NumServices())
	}

	devices := root.Devices()
	if len(devices) != 1 || devices[0].Kind() != KindDevice {
		t.Fatalf("root.Devices() shape mismatch: %+v", devices)
	}
	if devices[0].NumServices() != 1 {
		t.Errorf("device.NumServices() = %d, want 1", devices[0].NumServices())
	}
}

func TestServiceParentDevice(t *testing.T) {
	tree := buildSampleTree(t)
	root := tree.Root()

	rootService := root.Services()[0]
	if rootService.ParentDevice().UUID() != root.UUID() {
		t.Errorf("root service's parent uuid = %q, want %q", rootService.ParentDevice().UUID(), root.UUID())
	}

	deviceService := root.Devices()[0].Services()[0]
	if deviceService.ParentDevice().UUID() != root.Devices()[0].UUID() {
		t.Errorf("device service's parent uuid = %q, want %q", deviceService.ParentDevice().UUID(), root.Devices()[0].UUID())
	}
}

func TestAsRoot(t *testing.T) {
	tree := buildSampleTree(t)
	root := tree.Root()

	if _, ok := root.AsRoot(); !ok {
		t.Error("root.AsRoot() ok = false, want true")
	}
	if _, ok := root.Devices()[0].AsRoot(); ok {
		t.Error("embedded device.AsRoot() ok = true, want false")
	}
}

func TestLocationNesting(t *testing.T) {
	tree := buildSampleTree(t)
	root := tree.Root()
	device := root.Devices()[0]
	service := device.Services()[0]

	rootLoc := root.Location("192.168.1.5")
	deviceLoc := device.Location("192.168.1.5")
	serviceLoc := service.Location("192.168.1.5")

	if rootLoc != "http://192.168.1.5:8080/root-uuid" {
		t.Errorf("root.Location() = %q", rootLoc)
	}
	if deviceLoc != rootLoc+"/dev-1-uuid" {
		t.Errorf("device.Location() = %q, want suffix of root location", deviceLoc)
	}
	if serviceLoc != deviceLoc+"/svc-dev-1-uuid" {
		t.Errorf("service.Location() = %q, want suffix of device location", serviceLoc)
	}
}

func TestMaxChildrenEnforced(t *testing.T) {
	tree := NewTree("root-uuid", "urn:x-com:device:Root:1", "House", 8080)
	for i := 0; i < maxChildren; i++ {
		if _, err := tree.AddDevice("d", "t", "n"); err != nil {
			t.Fatalf("AddDevice #%d: %v", i, err)
		}
	}
	if _, err := tree.AddDevice("d", "t", "n"); err == nil {
		t.Error("AddDevice beyond max children: got nil error, want error")
	}
}
