package kcp

// growCwnd advances the congestion window by one slow-start step or one
// congestion-avoidance step, depending on where cwnd sits relative to
// ssthresh. Callers must only invoke this after confirming snd_una moved
// forward in the current input batch and that nocwnd is false.
func (e *Engine) growCwnd() {
	if e.cwnd >= e.rmtWnd {
		return
	}
	mss := int64(e.mss)
	cwnd := int64(e.cwnd)
	incr := int64(e.incr)

	if cwnd < int64(e.ssthresh) {
		cwnd++
		incr += mss
	} else {
		if incr < mss {
			incr = mss
		}
		step := mss*mss/incr + mss/16
		if step < 1 {
			step = 1
		}
		incr += step
		if (cwnd+1)*mss <= incr {
			grown := (incr + mss - 1) / mss
			if grown < cwnd+1 {
				grown = cwnd + 1
			}
			cwnd = grown
		}
	}
	if cwnd > int64(e.rmtWnd) {
		cwnd = int64(e.rmtWnd)
	}
	incr = cwnd * mss

	e.cwnd = Size(cwnd)
	e.incr = Size(incr)
}

// onFastRetransmit applies the congestion response to at least one fast
// (selective) retransmit happening during this flush.
func (e *Engine) onFastRetransmit(inflight int) {
	ssthresh := inflight / 2
	if ssthresh < 2 {
		ssthresh = 2
	}
	e.ssthresh = Size(ssthresh)
	e.cwnd = e.ssthresh + Size(e.fastresend)
	e.incr = e.cwnd * Size(e.mss)
}

// onTimeoutRetransmit applies the congestion response to at least one
// timeout-triggered retransmit happening during this flush.
func (e *Engine) onTimeoutRetransmit() {
	ssthresh := e.cwnd / 2
	if ssthresh < 2 {
		ssthresh = 2
	}
	e.ssthresh = ssthresh
	e.cwnd = 1
	e.incr = Size(e.mss)
}

// clampCwndFloor enforces cwnd >= 1 after the retransmit-triggered window
// reductions, run once per flush while cwnd is enabled.
func (e *Engine) clampCwndFloor() {
	if e.cwnd < 1 {
		e.cwnd = 1
		e.incr = Size(e.mss)
	}
}
