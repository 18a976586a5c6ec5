package kcp

// insertRcvBuf inserts a freshly received push segment into rcv_buf, kept
// ordered by sn, ignoring duplicates and anything already delivered past
// rcv_nxt.
func (e *Engine) insertRcvBuf(seg segment) {
	if seg.sn.LessThan(e.rcvNxt) {
		return
	}
	i := len(e.rcvBuf)
	for i > 0 {
		if e.rcvBuf[i-1].sn == seg.sn {
			return // duplicate
		}
		if e.rcvBuf[i-1].sn.LessThan(seg.sn) {
			break
		}
		i--
	}
	e.rcvBuf = append(e.rcvBuf, segment{})
	copy(e.rcvBuf[i+1:], e.rcvBuf[i:])
	e.rcvBuf[i] = seg
}

// drainRcvBuf promotes the contiguous prefix of rcv_buf starting at rcv_nxt
// into rcv_queue, as long as rcv_queue has room under rcv_wnd.
func (e *Engine) drainRcvBuf() {
	i := 0
	for i < len(e.rcvBuf) && len(e.rcvQueue) < int(e.rcvWnd) {
		if e.rcvBuf[i].sn != e.rcvNxt {
			break
		}
		e.rcvQueue = append(e.rcvQueue, e.rcvBuf[i])
		e.rcvNxt = e.rcvNxt.Add(1)
		i++
	}
	if i > 0 {
		e.rcvBuf = e.rcvBuf[i:]
	}
}

// messageLen scans rcv_queue from the front for a complete reassembled
// message (a run of segments ending in one with frg==0) and returns its
// total payload length and the number of segments it spans. ok is false if
// rcv_queue holds no complete message yet.
func (e *Engine) messageLen() (size, nseg int, ok bool) {
	for i, seg := range e.rcvQueue {
		size += len(seg.data)
		if seg.frg == 0 {
			return size, i + 1, true
		}
	}
	return 0, 0, false
}

// PeekSize returns the size of the next complete message in rcv_queue
// without removing it, or (-1, false) if none is ready yet.
func (e *Engine) PeekSize() (int, bool) {
	size, _, ok := e.messageLen()
	if !ok {
		return -1, false
	}
	return size, true
}

// Receive copies the next complete message into buf and removes it from
// rcv_queue, reassembling fragments in message mode (in stream mode every
// segment has frg==0, so each call returns exactly one segment's payload).
// It returns ErrWouldBlock if no complete message is ready, or
// ErrBufferTooSmall if buf cannot hold it.
func (e *Engine) Receive(buf []byte) (int, error) {
	size, nseg, ok := e.messageLen()
	if !ok {
		return 0, ErrWouldBlock
	}
	if size > len(buf) {
		return 0, ErrBufferTooSmall
	}

	wasFull := len(e.rcvQueue) >= int(e.rcvWnd)

	off := 0
	for i := 0; i < nseg; i++ {
		off += copy(buf[off:], e.rcvQueue[i].data)
	}
	e.rcvQueue = e.rcvQueue[nseg:]
	e.drainRcvBuf()

	if wasFull && len(e.rcvQueue) < int(e.rcvWnd) {
		e.probe |= probeAskReply
	}
	return off, nil
}
