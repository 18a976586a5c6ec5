//go:build !linux

package simnet

import (
	"net"
	"time"
)

// ReadPacket waits up to timeout for a datagram using an ordinary read
// deadline, the portable fallback where no epoll fast path exists.
func ReadPacket(conn *net.UDPConn, buf []byte, timeout time.Duration) (int, *net.UDPAddr, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, nil, err
	}
	n, addr, err := conn.ReadFromUDP(buf)
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return 0, nil, errTimeout
	}
	return n, addr, err
}
