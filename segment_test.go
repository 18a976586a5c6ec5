package kcp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSegmentRoundTrip(t *testing.T) {
	original := segment{
		conv: 0x11223344,
		cmd:  cmdPush,
		frg:  3,
		wnd:  128,
		ts:   55555,
		sn:   42,
		una:  41,
		data: []byte("hello, kcp"),
	}

	buf := original.appendTo(nil)
	if len(buf) != original.encodedLen() {
		t.Fatalf("encoded length = %d, want %d", len(buf), original.encodedLen())
	}

	decoded, rest, err := decodeSegment(buf, original.conv)
	if err != nil {
		t.Fatalf("decodeSegment: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("unexpected leftover bytes: %d", len(rest))
	}

	got := segment{
		conv: decoded.conv, cmd: decoded.cmd, frg: decoded.frg,
		wnd: decoded.wnd, ts: decoded.ts, sn: decoded.sn, una: decoded.una,
		data: decoded.data,
	}
	want := segment{
		conv: original.conv, cmd: original.cmd, frg: original.frg,
		wnd: original.wnd, ts: original.ts, sn: original.sn, una: original.una,
		data: original.data,
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(segment{})); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeSegmentConcatenated(t *testing.T) {
	a := segment{conv: 7, cmd: cmdAck, sn: 1}
	b := segment{conv: 7, cmd: cmdPush, sn: 2, data: []byte("xy")}
	buf := a.appendTo(nil)
	buf = b.appendTo(buf)

	seg1, rest, err := decodeSegment(buf, 7)
	if err != nil {
		t.Fatalf("first decode: %v", err)
	}
	if seg1.cmd != cmdAck || seg1.sn != 1 {
		t.Fatalf("first segment wrong: %+v", seg1)
	}
	seg2, rest, err := decodeSegment(rest, 7)
	if err != nil {
		t.Fatalf("second decode: %v", err)
	}
	if seg2.cmd != cmdPush || string(seg2.data) != "xy" {
		t.Fatalf("second segment wrong: %+v", seg2)
	}
	if len(rest) != 0 {
		t.Fatalf("expected no leftover bytes, got %d", len(rest))
	}
}

func TestDecodeSegmentRejectsShort(t *testing.T) {
	_, _, err := decodeSegment(make([]byte, 10), 0)
	if err == nil {
		t.Fatal("expected error for short datagram")
	}
}

func TestDecodeSegmentRejectsConvMismatch(t *testing.T) {
	seg := segment{conv: 5, cmd: cmdAck}
	buf := seg.appendTo(nil)
	_, _, err := decodeSegment(buf, 6)
	if err == nil {
		t.Fatal("expected error for conv mismatch")
	}
}

func TestDecodeSegmentRejectsOverlongLen(t *testing.T) {
	seg := segment{conv: 5, cmd: cmdPush, data: []byte("abc")}
	buf := seg.appendTo(nil)
	truncated := buf[:len(buf)-1]
	_, _, err := decodeSegment(truncated, 5)
	if err == nil {
		t.Fatal("expected error for declared length exceeding remaining bytes")
	}
}

func TestGetConv(t *testing.T) {
	seg := segment{conv: 0xCAFEBABE, cmd: cmdAck}
	buf := seg.appendTo(nil)
	conv, ok := GetConv(buf)
	if !ok || conv != 0xCAFEBABE {
		t.Fatalf("GetConv = (%#x, %v), want (0xcafebabe, true)", conv, ok)
	}
	if _, ok := GetConv([]byte{1, 2, 3}); ok {
		t.Fatal("GetConv should reject datagram shorter than 4 bytes")
	}
}
