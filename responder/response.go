package responder

import (
	"fmt"
	"strings"

	"github.com/dltoth/ssdp/device"
	"github.com/dltoth/ssdp/internal/protocol"
	"github.com/dltoth/ssdp/log"
)

// ResponseBuilder formats the three fixed response templates (root,
// embedded device, service) into a fixed-size buffer reused across calls,
// per the data model's "response buffer" requirement. Overflow truncates
// the output and is logged; the caller proceeds to the next response
// rather than retrying.
//
// Grounded on original_source/src/ssdp.cpp's three snprintf templates
// (ROOT_RESPONSE, DEVICE_RESPONSE, SERVICE_RESPONSE): same field order,
// same "HTTP/1.1 200 OK " status line with its one trailing space, same CRLF line
// endings and blank-line terminator.
type ResponseBuilder struct {
	buf    []byte
	logger log.Logger
}

// NewResponseBuilder allocates a reusable buffer of bufferBytes (the
// packet_buffer_bytes configuration knob) and uses logger to report
// truncation. A nil logger is replaced with log.NoopLogger.
func NewResponseBuilder(bufferBytes int, logger log.Logger) *ResponseBuilder {
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &ResponseBuilder{buf: make([]byte, bufferBytes), logger: logger}
}

const statusLine = "HTTP/1.1 200 OK " // trailing space preserved: some peers are sensitive to it
const cacheControl = "CACHE-CONTROL: max-age = 1800 "

// BuildRoot formats the root template: USN carries the root's own uuid;
// DESC carries devices and services counts, no puuid.
func (b *ResponseBuilder) BuildRoot(root device.Root, st, ifaceAddr string) []byte {
	desc := fmt.Sprintf(":name:%s:devices:%d:services:%d:", root.DisplayName(), root.NumDevices(), root.NumServices())
	return b.build(root.Location(ifaceAddr), st, root.UUID(), root.Type(), desc)
}

// BuildDevice formats the embedded-device template: USN carries the
// device's own uuid; DESC replaces the devices counter with
// puuid:<parent-uuid>.
func (b *ResponseBuilder) BuildDevice(dev device.Device, parent device.Root, st, ifaceAddr string) []byte {
	desc := fmt.Sprintf(":name:%s:services:%d:puuid:%s:", dev.DisplayName(), dev.NumServices(), parent.UUID())
	return b.build(dev.Location(ifaceAddr), st, dev.UUID(), dev.Type(), desc)
}

// BuildService formats the service template: both USN and DESC:puuid
// carry the owning device's uuid, never the service's own — the builder
// never writes the service's own uuid; only LOCATION, which comes from
// svc.Location, may contain it (resolved against
// original_source/src/ssdp.cpp's postServiceResponse, which fills both
// fields from the parent).
func (b *ResponseBuilder) BuildService(svc device.Service, st, ifaceAddr string) []byte {
	parent := svc.ParentDevice()
	desc := fmt.Sprintf(":name:%s:puuid:%s:", svc.DisplayName(), parent.UUID())
	return b.build(svc.Location(ifaceAddr), st, parent.UUID(), svc.Type(), desc)
}

func (b *ResponseBuilder) build(location, st, usnUUID, typ, desc string) []byte {
	var sb strings.Builder
	sb.WriteString(statusLine)
	sb.WriteString("\r\n")
	sb.WriteString(cacheControl)
	sb.WriteString("\r\n")
	sb.WriteString("LOCATION: " + location)
	sb.WriteString("\r\n")
	sb.WriteString(protocol.SearchTargetHeader + ": " + st)
	sb.WriteString("\r\n")
	sb.WriteString(fmt.Sprintf("%s: uuid:%s::%s", protocol.UniqueServiceNameHeader, usnUUID, typ))
	sb.WriteString("\r\n")
	sb.WriteString(protocol.DescHeader + ": " + desc)
	sb.WriteString("\r\n\r\n")

	full := sb.String()
	n := copy(b.buf, full)
	if n < len(full) {
		b.logger.Log(log.Event{
			Level:     log.LevelInfo,
			Message:   fmt.Sprintf("response truncated: %d bytes dropped", len(full)-n),
			Component: "responder.ResponseBuilder",
			Target:    st,
		})
	}
	return b.buf[:n]
}
