package kcp

// Input delivers one received datagram from the substrate to the engine.
// The datagram may concatenate several segments; Input parses and
// validates all of them before applying any effect, so a malformed
// datagram is rejected in full rather than partially processed.
func (e *Engine) Input(datagram []byte) error {
	if len(datagram) < headerSize {
		return newInputError("datagram shorter than header")
	}

	var segs []segment
	rest := datagram
	for len(rest) > 0 {
		seg, r, err := decodeSegment(rest, e.conv)
		if err != nil {
			return err
		}
		if len(seg.data) > 0 {
			cp := make([]byte, len(seg.data))
			copy(cp, seg.data)
			seg.data = cp
		}
		segs = append(segs, seg)
		rest = r
	}

	startUna := e.sndUna
	var maxAcked Value
	haveMaxAcked := false

	for _, seg := range segs {
		e.log.trace("input segment", "cmd", seg.cmd, "sn", uint32(seg.sn), "una", uint32(seg.una))
		e.rmtWnd = Size(seg.wnd)
		e.sndBufTrimUna(seg.una)

		switch seg.cmd {
		case cmdAck:
			if Diff(e.current, seg.ts) >= 0 {
				e.updateRTO(int64(Diff(e.current, seg.ts)))
			}
			e.sndBufRemoveSn(seg.sn)
			if !haveMaxAcked || seg.sn.After(maxAcked) {
				maxAcked = seg.sn
				haveMaxAcked = true
			}
		case cmdPush:
			if seg.sn.LessThan(e.rcvNxt.Add(e.rcvWnd)) {
				e.acklist = append(e.acklist, ackEntry{sn: seg.sn, ts: seg.ts})
				if !seg.sn.LessThan(e.rcvNxt) {
					e.insertRcvBuf(seg)
				}
				e.drainRcvBuf()
			} else {
				e.log.debug("push outside receive window, dropped", "sn", uint32(seg.sn))
			}
		case cmdProbeRequest:
			e.probe |= probeAskReply
		case cmdProbeResponse:
			// rmt_wnd already refreshed above; nothing else to do.
		}
	}

	if haveMaxAcked {
		for i := range e.sndBuf {
			if e.sndBuf[i].sn.LessThan(maxAcked) {
				e.sndBuf[i].fastack++
			}
		}
	}

	if e.sndUna != startUna && !e.nocwnd {
		e.growCwnd()
	}
	return nil
}
