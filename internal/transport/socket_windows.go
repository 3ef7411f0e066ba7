//go:build windows

package transport

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/windows"
)

// listenReusable opens a UDP listener with SO_REUSEADDR set before bind.
// Windows has no SO_REUSEPORT (unlike the Unix build of this function).
func listenReusable(network string, laddr *net.UDPAddr) (*net.UDPConn, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			var sockErr error
			err := c.Control(func(fd uintptr) {
				sockErr = setSocketOptions(fd)
			})
			if err != nil {
				return err
			}
			return sockErr
		},
	}
	conn, err := lc.ListenPacket(context.Background(), network, laddr.String())
	if err != nil {
		return nil, err
	}
	return conn.(*net.UDPConn), nil
}

// setSocketOptions sets SO_REUSEADDR on fd. Per F-9 REQ-F9-3: Windows
// supports SO_REUSEADDR only, there is no SO_REUSEPORT.
func setSocketOptions(fd uintptr) error {
	return windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
}
