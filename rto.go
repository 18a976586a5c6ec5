package kcp

// updateRTO folds one more round-trip sample (in ms) into the smoothed RTT
// estimators and recomputes rx_rto, following the classic Jacobson/Karels
// smoothing used throughout this protocol family.
func (e *Engine) updateRTO(rtt int64) {
	if e.rxSrtt == 0 {
		e.rxSrtt = rtt
		e.rxRttval = rtt / 2
	} else {
		delta := rtt - e.rxSrtt
		if delta < 0 {
			delta = -delta
		}
		e.rxRttval = (3*e.rxRttval + delta) / 4
		e.rxSrtt = (7*e.rxSrtt + rtt) / 8
		if e.rxSrtt < 1 {
			e.rxSrtt = 1
		}
	}

	slack := e.interval
	if 4*e.rxRttval > slack {
		slack = 4 * e.rxRttval
	}
	rto := e.rxSrtt + slack
	if rto < e.rxMinrto {
		rto = e.rxMinrto
	}
	if rto > 60000 {
		rto = 60000
	}
	e.rxRto = rto
}
