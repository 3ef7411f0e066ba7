//go:build !windows

package transport

import (
	"context"
	"net"
	"syscall"

	"golang.org/x/sys/unix"
)

// listenReusable opens a UDP listener with SO_REUSEADDR and SO_REUSEPORT
// set before bind, so a responder and a querier on the same host can both
// bind the SSDP port concurrently — net.ListenUDP alone would reject the
// second bind with "address already in use". This is the Unix counterpart
// to a platform split the original source only shipped a Windows test
// double for; setSocketOptions below follows that double's name and error
// shape.
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

// setSocketOptions sets SO_REUSEADDR and SO_REUSEPORT on fd.
func setSocketOptions(fd uintptr) error {
	if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return err
	}
	return unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
}
