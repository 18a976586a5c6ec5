package kcp

// Send submits application data for transmission. In stream mode, if the
// current tail of snd_queue has room and is not itself the tail of an
// already-fragmented message (frg==0), bytes are appended to it first;
// remaining bytes are split into new mss-sized segments. Admission of these
// segments into snd_buf (and thus onto the wire) happens later, during
// flush, gated by the congestion/flow windows.
func (e *Engine) Send(data []byte) error {
	if len(data) == 0 {
		return ErrInvalidArgument
	}

	if e.stream && len(e.sndQueue) > 0 {
		tail := &e.sndQueue[len(e.sndQueue)-1]
		if tail.frg == 0 && len(tail.data) < e.mss {
			room := e.mss - len(tail.data)
			take := room
			if take > len(data) {
				take = len(data)
			}
			tail.data = append(tail.data, data[:take]...)
			data = data[take:]
		}
	}
	if len(data) == 0 {
		// Fully absorbed into the stream-mode tail; nothing new to enqueue.
		e.primePump()
		return nil
	}

	count := (len(data) + e.mss - 1) / e.mss
	if count > maxFragments {
		return ErrFragmentOverflow
	}

	for i := 0; i < count; i++ {
		end := (i + 1) * e.mss
		if end > len(data) {
			end = len(data)
		}
		chunk := data[i*e.mss : end]
		buf := make([]byte, len(chunk))
		copy(buf, chunk)

		frg := uint8(0)
		if !e.stream {
			frg = uint8(count - i - 1)
		}
		e.sndQueue = append(e.sndQueue, segment{
			conv: e.conv,
			cmd:  cmdPush,
			frg:  frg,
			data: buf,
		})
	}
	e.primePump()
	return nil
}

// primePump runs an initial flush the first time data is queued before any
// Update has ever been called, so a freshly constructed Engine does not sit
// silent until its owner happens to call Update.
func (e *Engine) primePump() {
	if !e.updated {
		e.flush()
	}
}

// cwndEff returns the effective admission window: the minimum of the local
// send window, the remote's advertised receive window, and the congestion
// window (unless cwnd is disabled, in which case it is unbounded).
func (e *Engine) cwndEff() Size {
	eff := e.sndWnd
	if e.rmtWnd < eff {
		eff = e.rmtWnd
	}
	if !e.nocwnd && e.cwnd < eff {
		eff = e.cwnd
	}
	return eff
}

// admitSndBuf moves segments from the head of snd_queue into snd_buf while
// the admission window allows, assigning each its sequence number and
// initial retransmission bookkeeping.
func (e *Engine) admitSndBuf() {
	limit := e.sndUna.Add(e.cwndEff())
	for len(e.sndQueue) > 0 && e.sndNxt.LessThan(limit) {
		seg := e.sndQueue[0]
		e.sndQueue = e.sndQueue[1:]

		seg.wnd = e.windowUnused()
		seg.ts = e.current
		seg.sn = e.sndNxt
		seg.una = e.rcvNxt
		seg.resendts = e.current
		seg.rto = Size(e.rxRto)
		seg.fastack = 0
		seg.xmit = 0

		e.sndNxt = e.sndNxt.Add(1)
		e.sndBuf = append(e.sndBuf, seg)
	}
}

// sndBufTrimUna drops every snd_buf entry whose sn precedes una (the
// remote's cumulative ack) and recomputes snd_una from the new head.
func (e *Engine) sndBufTrimUna(una Value) {
	i := 0
	for i < len(e.sndBuf) && e.sndBuf[i].sn.LessThan(una) {
		i++
	}
	if i > 0 {
		e.sndBuf = e.sndBuf[i:]
	}
	if len(e.sndBuf) > 0 {
		e.sndUna = e.sndBuf[0].sn
	} else {
		e.sndUna = e.sndNxt
	}
}

// sndBufRemoveSn removes the single entry with the given sn, if present,
// reporting whether it was found. Used on ack (cmd=82) receipt, which may
// acknowledge any in-flight sn, not just the oldest.
func (e *Engine) sndBufRemoveSn(sn Value) bool {
	for i := range e.sndBuf {
		if e.sndBuf[i].sn == sn {
			e.sndBuf = append(e.sndBuf[:i], e.sndBuf[i+1:]...)
			return true
		}
	}
	return false
}
