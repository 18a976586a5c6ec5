package kcp

// emit appends seg's encoded form to the scratch buffer, flushing the
// buffer to the output sink first if appending would exceed mtu.
func (e *Engine) emit(seg *segment) {
	e.log.trace("emit segment", "cmd", seg.cmd, "sn", uint32(seg.sn), "len", len(seg.data))
	if len(e.buffer)+seg.encodedLen() > e.mtu {
		e.flushBuffer()
	}
	e.buffer = seg.appendTo(e.buffer)
}

// flushBuffer writes any accumulated bytes to the output sink and resets
// the scratch buffer. Output errors are logged, never propagated: per the
// output sink contract its return value carries no protocol meaning.
func (e *Engine) flushBuffer() {
	if len(e.buffer) == 0 {
		return
	}
	if e.output != nil {
		if err := e.output(e.buffer); err != nil {
			e.log.logerr("output sink failed", err)
		}
	}
	e.buffer = e.buffer[:0]
}

// Flush drains pending acknowledgements, admits queued data, and performs
// retransmission immediately, bypassing the interval scheduling Update
// normally applies. Update calls this on its own schedule; callers rarely
// need to invoke it directly except right after a Send that should not
// wait for the next tick.
func (e *Engine) Flush() {
	e.flush()
}

func (e *Engine) flush() {
	// Step 1: pending acks.
	for i := range e.acklist {
		ack := e.acklist[i]
		seg := segment{
			conv: e.conv,
			cmd:  cmdAck,
			wnd:  e.windowUnused(),
			ts:   ack.ts,
			sn:   ack.sn,
			una:  e.rcvNxt,
		}
		e.emit(&seg)
	}
	e.acklist = e.acklist[:0]

	// Step 2: zero-window probing.
	e.updateProbe()
	if e.probe&probeAskSend != 0 {
		seg := segment{conv: e.conv, cmd: cmdProbeRequest, wnd: e.windowUnused(), ts: e.current, una: e.rcvNxt}
		e.emit(&seg)
	}
	if e.probe&probeAskReply != 0 {
		seg := segment{conv: e.conv, cmd: cmdProbeResponse, wnd: e.windowUnused(), ts: e.current, una: e.rcvNxt}
		e.emit(&seg)
	}
	e.probe = 0

	// Step 3: admission.
	e.admitSndBuf()

	// Step 4: retransmission scheduling.
	inflight := int(Diff(e.sndNxt, e.sndUna))
	fastResent := false
	lostResent := false
	deadLinkHit := false

	for i := range e.sndBuf {
		seg := &e.sndBuf[i]
		send := false
		switch {
		case seg.xmit == 0:
			send = true
			seg.xmit = 1
			seg.rto = Size(e.rxRto)
			seg.resendts = e.current.Add(Size(e.rxRto) + Size(2*e.interval))
		case e.current.After(seg.resendts) || e.current == seg.resendts:
			send = true
			seg.xmit++
			var grown int64
			if e.nodelay == 0 {
				base := int64(seg.rto)
				if e.rxRto > base {
					base = e.rxRto
				}
				grown = base + base/2
			} else {
				base := int64(seg.rto)
				if e.nodelay < 2 {
					grown = base + base/2
				} else {
					grown = base + e.rxRto/2
				}
			}
			seg.rto = Size(grown)
			seg.resendts = e.current.Add(Size(grown))
			lostResent = true
		case e.fastresend > 0 && seg.fastack >= e.fastresend &&
			(e.fastlimit == 0 || seg.xmit <= e.fastlimit):
			send = true
			seg.xmit++
			seg.fastack = 0
			seg.resendts = e.current.Add(seg.rto)
			fastResent = true
		}

		if !send {
			continue
		}
		if seg.xmit > 1 {
			e.retransmits++
			e.log.debug("retransmit", "sn", uint32(seg.sn), "xmit", seg.xmit, "rto", int64(seg.rto))
		}
		seg.ts = e.current
		seg.wnd = e.windowUnused()
		seg.una = e.rcvNxt
		e.emit(seg)

		if seg.xmit >= e.deadLink {
			deadLinkHit = true
		}
	}
	e.flushBuffer()

	// Step 5: congestion response.
	if !e.nocwnd {
		if fastResent {
			e.onFastRetransmit(inflight)
		}
		if lostResent {
			e.onTimeoutRetransmit()
		}
		e.clampCwndFloor()
	}

	// Step 6: dead-link detection.
	if deadLinkHit && e.state == 0 {
		e.deadLinkTrips++
		e.log.debug("dead link declared", "deadLink", e.deadLink)
	}
	if deadLinkHit {
		e.state = 1
	}
}

// Update advances the engine's notion of time to current (milliseconds)
// and runs a flush if the scheduled flush time has arrived. The caller is
// expected to call Update (optionally preceded by Check to avoid spinning)
// at least once per interval for as long as the connection is alive.
func (e *Engine) Update(current uint32) {
	e.current = Value(current)
	if !e.updated {
		e.updated = true
		e.tsFlush = e.current
	}

	slap := Diff(e.current, e.tsFlush)
	if slap >= 10000 || slap < -10000 {
		e.tsFlush = e.current
		slap = 0
	}
	if slap >= 0 {
		e.tsFlush = e.tsFlush.Add(Size(e.interval))
		for Diff(e.current, e.tsFlush) >= 0 {
			e.tsFlush = e.tsFlush.Add(Size(e.interval))
		}
		e.flush()
	}
}

// Check returns how many milliseconds from current the caller may wait
// before it must call Update again without missing a scheduled flush or a
// retransmission deadline, capped at interval.
func (e *Engine) Check(current uint32) uint32 {
	if !e.updated {
		return 0
	}
	cur := Value(current)
	next := e.tsFlush
	for i := range e.sndBuf {
		resend := e.sndBuf[i].resendts
		if resend.LessThan(next) {
			next = resend
		}
	}
	delay := int64(Diff(next, cur))
	if delay < 0 {
		delay = 0
	}
	if delay > e.interval {
		delay = e.interval
	}
	return uint32(delay)
}
