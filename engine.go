package kcp

import (
	"log/slog"

	"github.com/arqnet/kcp/internal"
)

// Default tuning parameters, matching the well-known defaults of this
// protocol family (conservative mode: no fast retransmit, cwnd enabled).
const (
	defaultMTU       = 1400
	defaultSndWnd    = 32
	defaultRcvWnd    = 128
	defaultInterval  = 100 // ms
	defaultRTO       = 200 // ms, initial rx_rto before any sample
	defaultMinRTO    = 100 // ms
	fastMinRTO       = 30  // ms, used when nodelay >= 1
	defaultDeadLink  = 20
	defaultFastLimit = 5
	maxFragments     = 255
	maxMessageFrags  = 128 // rcv_wnd floor, matches max fragments per message
	probeInit        = 7000   // ms
	probeLimit       = 120000 // ms
)

// probe flag bits: probeAskReply is set on segment.cmd==83 receipt and on
// rcv_queue drain-below-window, probeAskSend by the zero-window probe
// schedule; both are cleared every flush.
const (
	probeAskSend  uint32 = 1 << iota // we should send a probe request
	probeAskReply                    // we should answer with a probe response
)

// Output is the sink an Engine writes encoded datagrams to. It is invoked
// synchronously from Send, Update and Flush; it must not call back into the
// Engine that invoked it.
type Output func(datagram []byte) error

// ackEntry is a pending acknowledgement awaiting transmission in the next
// flush.
type ackEntry struct {
	sn Value
	ts Value
}

// Engine owns all state for a single conversation. It is not internally
// synchronized: callers needing concurrent access must supply their own
// serialization around Send/Input/Receive/Update/Check/Flush.
type Engine struct {
	conv Value
	mtu  int
	mss  int
	state int32

	sndUna Value
	sndNxt Value
	rcvNxt Value

	sndWnd Size
	rcvWnd Size
	rmtWnd Size

	cwnd     Size
	incr     Size
	ssthresh Size

	rxSrtt   int64
	rxRttval int64
	rxRto    int64
	rxMinrto int64

	interval int64
	tsFlush  Value
	current  Value
	updated  bool

	probe      uint32
	tsProbe    Value
	probeArmed bool
	probeWait  internal.Backoff

	nodelay int
	nocwnd  bool
	stream  bool

	fastresend int
	fastlimit  int
	deadLink   int

	sndQueue []segment
	rcvQueue []segment
	sndBuf   []segment
	rcvBuf   []segment
	acklist  []ackEntry
	buffer   []byte

	output  Output
	log     logger
	metrics *Metrics

	retransmits   uint64
	deadLinkTrips uint64
}

// New constructs an Engine for the given conversation id, writing outgoing
// datagrams to output. The engine starts with the conventional defaults for
// this protocol family (1400-byte MTU, 32-segment send window, 128-segment
// receive window, normal-mode RTO); use NoDelay/SetMTU/SetWindowSize/SetStreamMode to tune
// it before the first Send/Input.
func New(conv uint32, output Output) *Engine {
	e := &Engine{
		conv:      Value(conv),
		mtu:       defaultMTU,
		mss:       defaultMTU - headerSize,
		sndWnd:    defaultSndWnd,
		rcvWnd:    defaultRcvWnd,
		rmtWnd:    defaultSndWnd,
		ssthresh:  2,
		cwnd:      1,
		rxRto:     defaultRTO,
		rxMinrto:  defaultMinRTO,
		interval:  defaultInterval,
		fastlimit: defaultFastLimit,
		deadLink:  defaultDeadLink,
		output:    output,
		probeWait: internal.NewBackoff(probeInit, probeLimit),
	}
	e.incr = Size(e.mss)
	e.buffer = make([]byte, 0, 3*e.mtu)
	return e
}

// SetLogger wires structured logging; nil disables it (the default).
func (e *Engine) SetLogger(l *slog.Logger) {
	e.log = logger{log: l}
}

// Conv returns the conversation id this Engine was constructed with.
func (e *Engine) Conv() uint32 {
	return uint32(e.conv)
}

// WaitSnd returns the number of segments still queued for transmission or
// in flight, the sum of len(snd_queue) and len(snd_buf).
func (e *Engine) WaitSnd() int {
	return len(e.sndQueue) + len(e.sndBuf)
}

// Dead reports whether some segment's transmission count (the first send
// included) has reached dead_link. The engine keeps accepting Input/Receive after this;
// only further retransmits are expected to keep failing.
func (e *Engine) Dead() bool {
	return e.state != 0
}

// windowUnused returns the receive-window headroom advertised to the
// remote: how many more segments it may enqueue before rcv_queue is full.
func (e *Engine) windowUnused() uint16 {
	if len(e.rcvQueue) < int(e.rcvWnd) {
		return uint16(int(e.rcvWnd) - len(e.rcvQueue))
	}
	return 0
}
