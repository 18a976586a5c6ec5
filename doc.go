// Package kcp implements a reliable, ordered ARQ transport engine on top of
// an unreliable datagram substrate. An Engine owns all state for a single
// conversation: segment codec, send/receive queues, retransmission timers,
// congestion window and zero-window probing. It performs no network I/O of
// its own; the caller supplies an output sink, a millisecond clock value on
// every call, and the raw datagrams read from whatever substrate it uses.
package kcp
