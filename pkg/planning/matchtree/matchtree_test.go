package matchtree

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimir-planning/mimir/internal/bitset"
)

func cond(universe int, pos, neg []int) Condition {
	p, n := bitset.New(universe), bitset.New(universe)
	for _, i := range pos {
		p.Set(i)
	}
	for _, i := range neg {
		n.Set(i)
	}
	return Condition{Positive: p, Negative: n, Numeric: bitset.New(0)}
}

func numericCond(universe int, pos, neg []int, numericUniverse int, mentions []int) Condition {
	c := cond(universe, pos, neg)
	c.Numeric = bitset.New(numericUniverse)
	for _, i := range mentions {
		c.Numeric.Set(i)
	}
	return c
}

func TestBuildAndWalkYieldsOnlySatisfied(t *testing.T) {
	// atom 0: door-open, atom 1: box-here
	conds := []Condition{
		cond(2, []int{0}, nil),       // requires door-open
		cond(2, []int{1}, nil),       // requires box-here
		cond(2, []int{0, 1}, nil),    // requires both
		cond(2, nil, []int{0}),       // requires door NOT open
	}
	tree := Build(conds)

	holds := func(atom int32) bool {
		return atom == 0 // only door-open true
	}
	var got []int32
	Walk(tree, holds, func(int32) bool { return false }, func(e int32) bool {
		got = append(got, e)
		return true
	})
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	require.Equal(t, []int32{0}, got)
}

func TestBuildAndWalkDontcareAlwaysVisited(t *testing.T) {
	conds := []Condition{
		cond(1, []int{0}, nil), // cares about atom 0, positive
		cond(1, nil, nil),      // don't-care on everything
	}
	tree := Build(conds)

	var got []int32
	Walk(tree, func(int32) bool { return false }, func(int32) bool { return false }, func(e int32) bool {
		got = append(got, e)
		return true
	})
	// atom 0 false -> element 0 excluded via the False branch (empty),
	// element 1 (dontcare) always reached regardless of the atom's truth.
	require.Equal(t, []int32{1}, got)
}

func TestWalkStopsEarly(t *testing.T) {
	conds := []Condition{
		cond(1, nil, nil),
		cond(1, nil, nil),
		cond(1, nil, nil),
	}
	tree := Build(conds)

	count := 0
	Walk(tree, func(int32) bool { return true }, func(int32) bool { return false }, func(e int32) bool {
		count++
		return false
	})
	require.Equal(t, 1, count)
}

func TestBuildHandlesEmptyConditions(t *testing.T) {
	tree := Build(nil)
	var got []int32
	Walk(tree, func(int32) bool { return true }, func(int32) bool { return false }, func(e int32) bool {
		got = append(got, e)
		return true
	})
	require.Empty(t, got)
}

func TestNumericSplitHasNoFalseBranch(t *testing.T) {
	// constraint 0: fuel >= 1
	conds := []Condition{
		numericCond(0, nil, nil, 1, []int{0}), // mentions the constraint
		numericCond(0, nil, nil, 1, nil),      // doesn't mention it
	}
	tree := Build(conds)

	numericHolds := func(int32) bool { return false } // constraint false
	var got []int32
	Walk(tree, func(int32) bool { return false }, numericHolds, func(e int32) bool {
		got = append(got, e)
		return true
	})
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	// element 0 mentions the constraint and it evaluates false -> excluded;
	// element 1 never mentions it (dontcare) -> always reached.
	require.Equal(t, []int32{1}, got)

	numericHolds = func(int32) bool { return true }
	got = nil
	Walk(tree, func(int32) bool { return false }, numericHolds, func(e int32) bool {
		got = append(got, e)
		return true
	})
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	require.Equal(t, []int32{0, 1}, got)
}
