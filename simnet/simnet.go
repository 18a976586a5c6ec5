// Package simnet provides a datagram substrate for tests: an in-memory
// medium between two endpoints that can drop and delay packets, letting
// Engine tests exercise loss and fast-retransmit behavior without a real
// NIC. It also holds ReadPacket, the UDP read-with-timeout helper the
// kcpecho demo uses.
package simnet

import "github.com/arqnet/kcp/internal"

// Config tunes the medium's loss and latency behavior.
type Config struct {
	// LossPercent is the integer percentage (0-100) of datagrams dropped in
	// each direction.
	LossPercent int
	// MinLatency and MaxLatency bound the one-way delay applied to a
	// delivered datagram, in milliseconds. A datagram's delay is chosen
	// uniformly in [MinLatency, MaxLatency].
	MinLatency, MaxLatency uint32
}

type packet struct {
	data      []byte
	deliverAt uint32
}

// Medium connects two endpoints, A and B, driven by an explicit millisecond
// clock supplied by the caller on every call (the same clock discipline the
// Engine itself uses) rather than real wall time, so tests stay
// deterministic.
type Medium struct {
	cfg  Config
	rng  uint32
	toB  []packet
	toA  []packet
}

// New constructs a Medium with the given configuration and PRNG seed. A
// zero seed is replaced by 1; a fixed seed makes a test's loss/jitter
// pattern reproducible.
func New(cfg Config, seed uint32) *Medium {
	if seed == 0 {
		seed = 1
	}
	return &Medium{cfg: cfg, rng: seed}
}

func (m *Medium) next() uint32 {
	m.rng = internal.Prand32(m.rng)
	return m.rng
}

func (m *Medium) drop() bool {
	if m.cfg.LossPercent <= 0 {
		return false
	}
	if m.cfg.LossPercent >= 100 {
		return true
	}
	return int(m.next()%100) < m.cfg.LossPercent
}

func (m *Medium) delay(now uint32) uint32 {
	lo, hi := m.cfg.MinLatency, m.cfg.MaxLatency
	if hi <= lo {
		return now + lo
	}
	span := hi - lo
	return now + lo + m.next()%(span+1)
}

// SendAtoB enqueues data for delivery to B, subject to loss and latency. A
// copy of data is retained; the caller's slice may be reused immediately.
func (m *Medium) SendAtoB(now uint32, data []byte) {
	m.send(now, data, &m.toB)
}

// SendBtoA enqueues data for delivery to A, subject to loss and latency.
func (m *Medium) SendBtoA(now uint32, data []byte) {
	m.send(now, data, &m.toA)
}

func (m *Medium) send(now uint32, data []byte, queue *[]packet) {
	if m.drop() {
		return
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	*queue = append(*queue, packet{data: cp, deliverAt: m.delay(now)})
}

// RecvAtoB returns every datagram sent by A whose delay has elapsed by now,
// removing them from the medium. Datagrams that are due at the same call
// are returned in the order they were sent.
func (m *Medium) RecvAtoB(now uint32) [][]byte {
	return recv(now, &m.toB)
}

// RecvBtoA returns every datagram sent by B whose delay has elapsed by now.
func (m *Medium) RecvBtoA(now uint32) [][]byte {
	return recv(now, &m.toA)
}

func recv(now uint32, queue *[]packet) [][]byte {
	var ready [][]byte
	rest := (*queue)[:0]
	for _, p := range *queue {
		if int32(now-p.deliverAt) >= 0 {
			ready = append(ready, p.data)
		} else {
			rest = append(rest, p)
		}
	}
	*queue = rest
	return ready
}
