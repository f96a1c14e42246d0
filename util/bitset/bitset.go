package bitset

/*
Package bitset implements a fixed-size bitset. Bit indexes wrap modulo the size
of the set, which makes it suitable as the backing store of a bloom-style
signature.
*/

////////////////////////////////////////////////////////////////////////////////

// Bitset is a fixed-size set of bits.
type Bitset []byte

// New returns an empty bitset of the given size in bytes.
func New(sizeBytes int) Bitset {
	return make([]byte, sizeBytes)
}

// Bits returns the number of bits in the set.
func (b Bitset) Bits() int {
	return len(b) * 8
}

// SetBit sets bit i modulo the size of the set.
func (b Bitset) SetBit(i uint32) {
	m := int(i % uint32(b.Bits()))
	b[m/8] |= 1 << (m % 8)
}

// HasBit reports whether bit i modulo the size of the set is set.
func (b Bitset) HasBit(i uint32) bool {
	m := int(i % uint32(b.Bits()))
	return b[m/8]&(1<<(m%8)) != 0
}

// Contains reports whether every bit set in other is also set in b. Both sets
// must be the same size.
func (b Bitset) Contains(other Bitset) bool {
	for i, v := range other {
		if b[i]&v != v {
			return false
		}
	}
	return true
}

// Union sets every bit of other in b.
func (b Bitset) Union(other Bitset) {
	for i, v := range other {
		b[i] |= v
	}
}

// Empty reports whether no bits are set.
func (b Bitset) Empty() bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
