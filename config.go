package kcp

// NoDelay configures the retransmission aggressiveness. nodelay is 0 to
// disable the aggressive mode or >=1 to enable it (2 uses a different RTO
// backoff than 1, see flush's timeout handling); interval is the flush
// period in ms, clamped to [10, 5000]; resend sets fastresend (0 disables
// fast retransmit); nc disables the congestion window entirely when 1.
func (e *Engine) NoDelay(nodelay, interval, resend, nc int) {
	e.nodelay = nodelay
	if nodelay >= 1 {
		e.rxMinrto = fastMinRTO
	} else {
		e.rxMinrto = defaultMinRTO
	}

	if interval < 10 {
		interval = 10
	} else if interval > 5000 {
		interval = 5000
	}
	e.interval = int64(interval)

	e.fastresend = resend
	e.nocwnd = nc == 1
}

// SetMTU changes the outgoing datagram size budget and recomputes the
// per-segment payload budget (mss = mtu - 24). Rejects mtu smaller than 50
// bytes, the floor required to keep mss positive with headroom.
func (e *Engine) SetMTU(mtu int) error {
	if mtu < 50 {
		return ErrInvalidArgument
	}
	e.mtu = mtu
	e.mss = mtu - headerSize
	e.buffer = make([]byte, 0, 3*mtu)
	return nil
}

// SetWindowSize updates the local send and receive window sizes, in
// segments. A non-positive value leaves the corresponding window
// unchanged; rcv is floored at 128, the maximum fragments a single message
// may span, so a full message can always be reassembled.
func (e *Engine) SetWindowSize(snd, rcv int) {
	if snd > 0 {
		e.sndWnd = Size(snd)
	}
	if rcv > 0 {
		if rcv < maxMessageFrags {
			rcv = maxMessageFrags
		}
		e.rcvWnd = Size(rcv)
	}
}

// SetStreamMode toggles stream framing: when enabled, Send may merge new
// bytes into the tail of snd_queue and every segment carries frg=0 instead
// of message-mode fragment counting.
func (e *Engine) SetStreamMode(on bool) {
	e.stream = on
}
