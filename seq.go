package kcp

// Value is a 32-bit quantity that wraps around, used for sequence numbers
// (sn, una) and timestamps (ts, current). Ordering between two Values is
// only meaningful relative to each other and must go through the
// signed-difference helpers below; a plain "<" is wrong across wraparound.
type Value uint32

// Size is a span between two Values, or a plain count (window sizes,
// segment counts, byte counts). It never wraps in practice: spans observed
// by this engine are always far smaller than 2^31.
type Size uint32

// Diff returns a-b as a signed difference, positive when a is "later" than
// b in the modular sequence space.
func Diff(a, b Value) int32 {
	return int32(a - b)
}

// After reports whether a is strictly later than b.
func (a Value) After(b Value) bool {
	return Diff(a, b) > 0
}

// LessThan reports whether a is strictly earlier than b.
func (a Value) LessThan(b Value) bool {
	return Diff(a, b) < 0
}

// LessThanEq reports whether a is earlier than or equal to b.
func (a Value) LessThanEq(b Value) bool {
	return Diff(a, b) <= 0
}

// InWindow reports whether v lies in [lo, lo+size) in the modular space.
func (v Value) InWindow(lo Value, size Size) bool {
	return lo.LessThanEq(v) && v.LessThan(lo.Add(size))
}

// Add returns a+n, wrapping modulo 2^32 as Value always does.
func (a Value) Add(n Size) Value {
	return a + Value(n)
}

// Sizeof returns the forward span from a to b, i.e. how many steps of Add(1)
// starting at a reach b. Only meaningful when b is known not to precede a by
// more than half the sequence space.
func Sizeof(a, b Value) Size {
	return Size(Diff(b, a))
}
