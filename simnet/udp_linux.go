//go:build linux

package simnet

import (
	"net"
	"time"

	"golang.org/x/sys/unix"
)

// ReadPacket waits up to timeout for conn to become readable using an
// epoll instance, then performs a single ReadFromUDP. A thin x/sys/unix
// layer under an otherwise ordinary net.PacketConn-shaped API, avoiding
// a SetReadDeadline syscall on every poll when nothing has arrived.
func ReadPacket(conn *net.UDPConn, buf []byte, timeout time.Duration) (int, *net.UDPAddr, error) {
	sc, err := conn.SyscallConn()
	if err != nil {
		return 0, nil, err
	}

	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return 0, nil, err
	}
	defer unix.Close(epfd)

	var ctlErr error
	if err := sc.Control(func(fd uintptr) {
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
		ctlErr = unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, int(fd), &ev)
	}); err != nil {
		return 0, nil, err
	}
	if ctlErr != nil {
		return 0, nil, ctlErr
	}

	ms := int(timeout / time.Millisecond)
	if ms <= 0 {
		ms = 1
	}
	events := make([]unix.EpollEvent, 1)
	n, err := unix.EpollWait(epfd, events, ms)
	if err != nil {
		return 0, nil, err
	}
	if n == 0 {
		return 0, nil, errTimeout
	}
	return conn.ReadFromUDP(buf)
}
