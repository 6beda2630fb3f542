// Package bitset provides a fixed-universe mutable bit set over dense
// non-negative integer indices (ground-atom indices, in the planning core's
// hot loops).
//
// Unlike the teacher's copy-on-write BitSetDomain (pkg/minikanren/domain.go),
// state bitsets here are mutated in place: a single expansion owns one dense
// state's worth of scratch bitsets at a time (see spec §5), so there is no
// need for the teacher's immutable/pooled-by-size Domain discipline.
package bitset

import "math/bits"

const wordBits = 64

// Set is a fixed-capacity bit set backed by a []uint64 word array.
type Set struct {
	words []uint64
	n     int // capacity in bits
}

// New returns a Set with room for indices in [0, n).
func New(n int) *Set {
	return &Set{words: make([]uint64, wordCount(n)), n: n}
}

func wordCount(n int) int {
	return (n + wordBits - 1) / wordBits
}

// Len returns the bit set's declared capacity.
func (s *Set) Len() int { return s.n }

// Grow extends the set's capacity to at least n, preserving existing bits.
func (s *Set) Grow(n int) {
	if n <= s.n {
		return
	}
	want := wordCount(n)
	if want > len(s.words) {
		grown := make([]uint64, want)
		copy(grown, s.words)
		s.words = grown
	}
	s.n = n
}

// Set sets bit i.
func (s *Set) Set(i int) {
	s.words[i/wordBits] |= 1 << uint(i%wordBits)
}

// Clear clears bit i.
func (s *Set) Clear(i int) {
	s.words[i/wordBits] &^= 1 << uint(i%wordBits)
}

// Test reports whether bit i is set.
func (s *Set) Test(i int) bool {
	return s.words[i/wordBits]&(1<<uint(i%wordBits)) != 0
}

// Reset clears every bit without releasing the underlying array, so a
// caller such as novelty.Table can reuse the same Set across arities
// instead of reallocating.
func (s *Set) Reset() {
	for i := range s.words {
		s.words[i] = 0
	}
}

// Count returns the number of set bits.
func (s *Set) Count() int {
	c := 0
	for _, w := range s.words {
		c += bits.OnesCount64(w)
	}
	return c
}

// Copy returns an independent copy of s.
func (s *Set) Copy() *Set {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	return &Set{words: words, n: s.n}
}

// Or sets s to the union of s and other in place.
func (s *Set) Or(other *Set) {
	for i := range s.words {
		s.words[i] |= other.words[i]
	}
}

// AndNot clears from s every bit set in other.
func (s *Set) AndNot(other *Set) {
	for i := range s.words {
		s.words[i] &^= other.words[i]
	}
}

// And sets s to the intersection of s and other in place.
func (s *Set) And(other *Set) {
	for i := range s.words {
		s.words[i] &= other.words[i]
	}
}

// Equal reports whether s and other have identical bits over their shared
// capacity (both must have been constructed with the same universe size).
func (s *Set) Equal(other *Set) bool {
	if len(s.words) != len(other.words) {
		return false
	}
	for i := range s.words {
		if s.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// Each calls f for every set bit in ascending order.
func (s *Set) Each(f func(i int)) {
	for wi, w := range s.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			f(wi*wordBits + tz)
			w &= w - 1
		}
	}
}

// Slice returns the set bits as a sorted []int32.
func (s *Set) Slice() []int32 {
	out := make([]int32, 0, s.Count())
	s.Each(func(i int) { out = append(out, int32(i)) })
	return out
}

// FromSlice returns a set over universe with exactly the bits named by idx
// set; it does not grow the set, so every index must be below universe.
func FromSlice(idx []int32, universe int) *Set {
	s := New(universe)
	for _, i := range idx {
		s.Set(int(i))
	}
	return s
}
