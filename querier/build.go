package querier

import (
	"fmt"

	"github.com/dltoth/ssdp/internal/protocol"
)

// buildRequest formats an M-SEARCH datagram for st, gating the vendor
// expansion header to ssdp:all when all is true and to empty otherwise.
//
// Grounded on original_source/src/ssdp.cpp's three PROGMEM request
// templates (SSDP_RootSearch, SSDP_RootAllSearch, SSDP_Search): same
// header set and order (HOST, MAN, ST, the vendor gate, USER-AGENT), same
// CRLF line endings and blank-line terminator. The three templates
// collapse into one formatting path since only ST and the gate value
// differ between them.
func buildRequest(st string, all bool) []byte {
	gate := ""
	if all {
		gate = protocol.AllValue
	}
	msg := fmt.Sprintf(
		"M-SEARCH * HTTP/1.1\r\n"+
			"HOST: %s:%d\r\n"+
			"MAN: ssdp:discover\r\n"+
			"ST: %s\r\n"+
			"%s: %s\r\n"+
			"USER-AGENT: ssdp-go QueryClient/1.0\r\n\r\n",
		protocol.MulticastGroup, protocol.Port, st, protocol.GateHeader, gate,
	)
	return []byte(msg)
}

func uuidTarget(uuid string) string { return "uuid:" + uuid }
