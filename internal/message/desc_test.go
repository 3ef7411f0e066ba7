package message

import "testing"

func TestParseDescKind(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want EntityKind
	}{
		{"root", ":name:House:devices:1:services:1:", KindRoot},
		{"device", ":name:Thermostat:services:1:puuid:root-uuid:", KindDevice},
		{"service", ":name:Relay:puuid:device-uuid:", KindService},
		{"malformed both puuid and devices", ":name:X:devices:2:services:0:puuid:root-uuid:", KindDevice},
		{"unrecognized", ":name:Nothing:", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ParseDesc(tt.raw)
			if got := d.Kind(); got != tt.want {
				t.Errorf("ParseDesc(%q).Kind() = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseDescFields(t *testing.T) {
	d := ParseDesc(":name:Kitchen Clock:devices:2:services:3:puuid:abc:")
	if d.Name != "Kitchen Clock" {
		t.Errorf("Name = %q, want %q", d.Name, "Kitchen Clock")
	}
	if !d.HasDevice || d.Devices != 2 {
		t.Errorf("Devices = (%d, %v), want (2, true)", d.Devices, d.HasDevice)
	}
	if !d.HasSvcs || d.Services != 3 {
		t.Errorf("Services = (%d, %v), want (3, true)", d.Services, d.HasSvcs)
	}
	if !d.HasPUUID || d.PUUID != "abc" {
		t.Errorf("PUUID = (%q, %v), want (\"abc\", true)", d.PUUID, d.HasPUUID)
	}
}
