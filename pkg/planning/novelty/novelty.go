// Package novelty implements the novelty table of spec §4.8: for a fixed
// atom-tuple arity k, tracks which ordered k-tuples of atom indices have
// been seen across a search run, used by the IW/SIW family (K) to prune
// non-novel successors.
//
// Grounded on internal/combinadic's combinatorial-number-system ranking
// (itself grounded on original_source/src/algorithms/kpkc.cpp's sibling
// combinatorics), which gives the table a contiguous bitset index for
// every k-tuple without materialising C(n,k) tuples up front.
package novelty

import (
	"errors"
	"sort"

	"github.com/mimir-planning/mimir/internal/bitset"
	"github.com/mimir-planning/mimir/internal/combinadic"
)

// ErrTableTooLarge is returned by New when C(n,k) would require more bits
// than this module considers a practical allocation (spec §7 resource
// exhaustion), or when combinadic itself reports overflow.
var ErrTableTooLarge = errors.New("novelty: table too large for this arity/universe")

// maxTableBits bounds how large a single novelty table's bitset may grow;
// beyond this, New fails instead of risking an unbounded allocation.
const maxTableBits = 1 << 28

// Table tracks, for a fixed arity and atom-universe size n, which ordered
// k-tuples of atom indices have already been observed.
type Table struct {
	arity int
	n     int
	bits  *bitset.Set
}

// New builds a novelty table for tuples of size k drawn from an n-atom
// universe.
func New(n, k int) (*Table, error) {
	count, err := combinadic.Count(n, k)
	if err != nil {
		return nil, ErrTableTooLarge
	}
	if count > maxTableBits {
		return nil, ErrTableTooLarge
	}
	return &Table{arity: k, n: n, bits: bitset.New(int(count))}, nil
}

// Arity returns the table's fixed tuple size.
func (t *Table) Arity() int { return t.arity }

// TestNovel reports whether at least one ordered k-tuple drawn from atoms
// (every atom index currently true in some state) is new to the table,
// recording every such tuple as seen in the same call. atoms need not be
// sorted; duplicates are tolerated but wasteful.
func (t *Table) TestNovel(atoms []int32) bool {
	if len(atoms) < t.arity {
		return false
	}
	sorted := append([]int32(nil), atoms...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	novel := false
	combo := make([]int, t.arity)
	var choose func(start, depth int)
	choose = func(start, depth int) {
		if depth == t.arity {
			rank := int(combinadic.RankSorted(combo))
			if !t.bits.Test(rank) {
				t.bits.Set(rank)
				novel = true
			}
			return
		}
		for i := start; i < len(sorted); i++ {
			combo[depth] = int(sorted[i])
			choose(i+1, depth+1)
		}
	}
	choose(0, 0)
	return novel
}

// Reset clears every tuple the table has observed.
func (t *Table) Reset() { t.bits.Reset() }
