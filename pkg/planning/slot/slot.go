// Package slot implements the content-addressed slot table of spec §3.2 /
// §4.1: a single append-only table mapping pairs of small integers to a
// dense 32-bit slot index, used to intern both individual pairs and, via
// balanced delta-encoded trees, arbitrary sorted sequences of uint32.
//
// The table has no teacher analogue (gokando is a relational engine with no
// structural-sharing arena); it is built directly from spec §3.2's
// algorithm description and the balanced-tree convention it specifies.
package slot

import "errors"

// ErrIndexSpaceExhausted is returned when the 32-bit slot index space would
// overflow; per spec §7 this is a resource-exhaustion condition, not a
// contract violation.
var ErrIndexSpaceExhausted = errors.New("slot: 32-bit index space exhausted")

// Slot is a pair of slot indices (or raw encoded leaf values); the table
// never removes entries, so a Slot once interned keeps its Index forever.
type Slot struct {
	Left, Right uint32
}

// Table is the process-wide, append-only content-addressed slot table.
type Table struct {
	slots []Slot
	index map[Slot]uint32

	// roots maps (treeRoot, length) to a canonical root-slot index, so two
	// equal sorted sequences always produce the same root-slot index
	// regardless of insertion order (spec §3.2 invariant i).
	roots map[rootKey]uint32
}

type rootKey struct {
	root   uint32
	length int
}

// New returns an empty table.
func New() *Table {
	return &Table{
		index: make(map[Slot]uint32),
		roots: make(map[rootKey]uint32),
	}
}

// InternSlot interns a (left, right) pair, returning its stable slot index.
// Idempotent: interning the same pair twice returns the same index.
func (t *Table) InternSlot(left, right uint32) (uint32, error) {
	s := Slot{Left: left, Right: right}
	if idx, ok := t.index[s]; ok {
		return idx, nil
	}
	if len(t.slots) >= 1<<32-1 {
		return 0, ErrIndexSpaceExhausted
	}
	idx := uint32(len(t.slots))
	t.slots = append(t.slots, s)
	t.index[s] = idx
	return idx, nil
}

// GetSlot looks up the (left, right) pair for a previously interned index.
func (t *Table) GetSlot(index uint32) (left, right uint32) {
	s := t.slots[index]
	return s.Left, s.Right
}

// Root is an interned sequence: a (treeRoot, length) pair. The empty
// sequence is Root{} with Length 0.
type Root struct {
	TreeRoot uint32
	Length   int
}

// IsEmpty reports whether r denotes the empty sequence.
func (r Root) IsEmpty() bool { return r.Length == 0 }

// InternSequence builds the balanced, delta-encoded binary tree of spec
// §3.2 for a sorted slice of uint32 and returns its (root, length) pair.
// Two calls with identical sorted multisets return an identical Root.
func (t *Table) InternSequence(sorted []uint32) (Root, error) {
	n := len(sorted)
	if n == 0 {
		return Root{}, nil
	}
	root, err := t.buildTree(sorted, 0)
	if err != nil {
		return Root{}, err
	}
	key := rootKey{root: root, length: n}
	if canon, ok := t.roots[key]; ok {
		root = canon
	} else {
		t.roots[key] = root
	}
	return Root{TreeRoot: root, Length: n}, nil
}

// buildTree builds a tree over sorted[start:] covering the caller-determined
// length implied by the recursion, delta-encoding every leaf but the first
// against its predecessor in the original (non-recursive) traversal order.
// The split point is determined solely by n (largest power of two < n),
// matching spec §3.2's shape invariant so that identical sequences always
// produce identical trees irrespective of how they were constructed.
func (t *Table) buildTree(seq []uint32, base uint32) (uint32, error) {
	n := len(seq)
	if n == 1 {
		delta := seq[0] - base
		return t.InternSlot(leafTag, delta)
	}
	split := largestPowerOfTwoLessThan(n)
	leftSlots := seq[:split]
	rightSlots := seq[split:]
	leftRoot, err := t.buildTree(leftSlots, base)
	if err != nil {
		return 0, err
	}
	rightRoot, err := t.buildTree(rightSlots, seq[split-1])
	if err != nil {
		return 0, err
	}
	return t.InternSlot(leftRoot, rightRoot)
}

// leafTag marks a slot's left field as "this is a delta-encoded leaf" so
// leaves are distinguishable from internal nodes during traversal; an
// internal node's children are ordinary slot indices, which in practice
// never reach leafTag's value.
const leafTag = ^uint32(0)

func largestPowerOfTwoLessThan(n int) int {
	p := 1
	for p*2 < n {
		p *= 2
	}
	return p
}

// Iterate performs a depth-first, left-to-right traversal of the tree
// rooted at r, yielding the decoded (delta-undone) elements in sorted
// order.
func (t *Table) Iterate(r Root) []uint32 {
	if r.IsEmpty() {
		return nil
	}
	out := make([]uint32, 0, r.Length)
	var base uint32
	t.walk(r.TreeRoot, r.Length, &base, &out)
	return out
}

func (t *Table) walk(node uint32, n int, base *uint32, out *[]uint32) {
	if n == 1 {
		left, delta := t.GetSlot(node)
		if left != leafTag {
			panic("slot: corrupt tree, expected leaf")
		}
		v := *base + delta
		*out = append(*out, v)
		*base = v
		return
	}
	split := largestPowerOfTwoLessThan(n)
	left, right := t.GetSlot(node)
	t.walk(left, split, base, out)
	t.walk(right, n-split, base, out)
}

// Lookup returns the k-th element (0-based) of the sequence rooted at r in
// O(log n) time with no allocation, by following the same power-of-two
// split used at construction time.
func (t *Table) Lookup(r Root, k int) (uint32, error) {
	if k < 0 || k >= r.Length {
		return 0, errOutOfRange
	}
	var base uint32
	return t.lookup(r.TreeRoot, r.Length, k, base)
}

var errOutOfRange = errors.New("slot: lookup index out of range")

func (t *Table) lookup(node uint32, n, k int, base uint32) (uint32, error) {
	if n == 1 {
		left, delta := t.GetSlot(node)
		if left != leafTag {
			return 0, errors.New("slot: corrupt tree, expected leaf")
		}
		return base + delta, nil
	}
	split := largestPowerOfTwoLessThan(n)
	left, right := t.GetSlot(node)
	if k < split {
		return t.lookup(left, split, k, base)
	}
	// Recompute the base at the split boundary by taking the last element
	// of the left subtree; this costs O(log n) but keeps Lookup
	// allocation-free and does not require storing per-node running sums.
	splitBase, err := t.lookup(left, split, split-1, base)
	if err != nil {
		return 0, err
	}
	return t.lookup(right, n-split, k-split, splitBase)
}

// Stats reports the table's current size, for events/metrics consumption.
type Stats struct {
	SlotCount int
	RootCount int
}

// Stats returns a snapshot of the table's current size.
func (t *Table) Stats() Stats {
	return Stats{SlotCount: len(t.slots), RootCount: len(t.roots)}
}
