package kcp

import "testing"

func TestGrowCwndSlowStart(t *testing.T) {
	e := New(1, nil)
	e.cwnd = 1
	e.ssthresh = 8
	e.rmtWnd = 32
	e.incr = Size(e.mss)

	before := e.cwnd
	e.growCwnd()
	if e.cwnd != before+1 {
		t.Fatalf("slow start cwnd = %d, want %d", e.cwnd, before+1)
	}
}

func TestGrowCwndStopsAtRemoteWindow(t *testing.T) {
	e := New(1, nil)
	e.cwnd = 32
	e.rmtWnd = 32
	e.ssthresh = 2

	e.growCwnd()
	if e.cwnd != 32 {
		t.Fatalf("cwnd should not exceed rmtWnd: got %d", e.cwnd)
	}
}

func TestOnFastRetransmitHalvesWindow(t *testing.T) {
	e := New(1, nil)
	e.fastresend = 2
	e.cwnd = 16

	e.onFastRetransmit(20)
	if e.ssthresh != 10 {
		t.Fatalf("ssthresh = %d, want 10", e.ssthresh)
	}
	if e.cwnd != e.ssthresh+Size(e.fastresend) {
		t.Fatalf("cwnd = %d, want ssthresh+fastresend = %d", e.cwnd, e.ssthresh+Size(e.fastresend))
	}
}

func TestOnTimeoutRetransmitResetsWindow(t *testing.T) {
	e := New(1, nil)
	e.cwnd = 16

	e.onTimeoutRetransmit()
	if e.cwnd != 1 {
		t.Fatalf("cwnd = %d, want 1 after timeout", e.cwnd)
	}
	if e.ssthresh != 8 {
		t.Fatalf("ssthresh = %d, want 8", e.ssthresh)
	}
}

func TestClampCwndFloor(t *testing.T) {
	e := New(1, nil)
	e.cwnd = 0
	e.clampCwndFloor()
	if e.cwnd != 1 {
		t.Fatalf("cwnd = %d, want floor of 1", e.cwnd)
	}
}

func TestCwndEffRespectsAllThreeWindows(t *testing.T) {
	e := New(1, nil)
	e.sndWnd = 10
	e.rmtWnd = 5
	e.cwnd = 3
	if got := e.cwndEff(); got != 3 {
		t.Fatalf("cwndEff = %d, want min(10,5,3) = 3", got)
	}
	e.nocwnd = true
	if got := e.cwndEff(); got != 5 {
		t.Fatalf("cwndEff with nocwnd = %d, want min(10,5) = 5", got)
	}
}
