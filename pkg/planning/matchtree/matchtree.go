// Package matchtree builds and walks the discrimination (match) tree of
// spec §3.6/§4.4: a compiled index from atom-truth combinations to the set
// of ground elements (actions or axioms) whose precondition holds.
//
// Grounded directly on spec §4.4's construction algorithm; the three-way
// node shape (True/False/Dontcare) follows the §9 design note to collapse
// the source's several node-kind types into one struct with optional
// children, the same "tagged variant, not inheritance" idiom used by
// pkg/planning/ir's Node-free flat tables. The numeric-split kind spec
// §3.6/§4.4's node table adds alongside the atom splits is folded into the
// same struct too: it only ever grows a True/Dontcare pair, never a False
// branch, since a numeric constraint's truth depends on the state being
// matched, not on anything decidable while building the tree.
package matchtree

import "github.com/mimir-planning/mimir/internal/bitset"

// Condition is one ground element's precondition: two bitsets over a single
// combined atom universe (callers are responsible for giving fluent and
// derived atoms distinct indices in that universe, e.g. by offsetting
// derived indices past the fluent count), plus a bitset over a separate
// numeric-constraint universe recording which constraints this element's
// precondition mentions at all (no polarity — whether each mentioned
// constraint holds is only known at walk time, against a live state).
type Condition struct {
	Positive *bitset.Set
	Negative *bitset.Set
	Numeric  *bitset.Set
}

// Node is a single match-tree node. A leaf has Atom < 0, Numeric < 0, and a
// non-nil Leaf holding every element index that reached it. An atom-split
// interior node has Atom >= 0 and up to three children (True/False/
// Dontcare). A numeric-split interior node has Numeric >= 0 and only a
// True/Dontcare pair (no False): True holds elements whose precondition
// mentions the constraint, Dontcare holds the rest, and which side is taken
// at walk time is resolved by evaluating the constraint against the state
// in hand, not by anything fixed at build time.
type Node struct {
	Atom     int32
	Numeric  int32
	True     *Node
	False    *Node
	Dontcare *Node
	Leaf     []int32
}

// Build constructs a match tree over conditions, indexed 0..len(conditions).
// The returned tree's leaves hold exactly those indices, partitioned by the
// greedy highest-mention-count splitter of spec §4.4, scoring atom splits
// and numeric splits together and taking whichever is more discriminating.
func Build(conditions []Condition) *Node {
	all := make([]int32, len(conditions))
	for i := range all {
		all[i] = int32(i)
	}
	return build(conditions, all)
}

func build(conditions []Condition, candidates []int32) *Node {
	split, ok := pickSplit(conditions, candidates)
	if !ok {
		return &Node{Atom: -1, Numeric: -1, Leaf: candidates}
	}

	if split.numeric {
		var t, x []int32
		for _, idx := range candidates {
			if conditions[idx].Numeric.Test(int(split.idx)) {
				t = append(t, idx)
			} else {
				x = append(x, idx)
			}
		}
		n := &Node{Atom: -1, Numeric: split.idx}
		if len(t) > 0 {
			n.True = build(conditions, t)
		}
		if len(x) > 0 {
			n.Dontcare = build(conditions, x)
		}
		return n
	}

	atom := split.idx
	var t, f, x []int32
	for _, idx := range candidates {
		c := conditions[idx]
		switch {
		case c.Positive.Test(int(atom)):
			t = append(t, idx)
		case c.Negative.Test(int(atom)):
			f = append(f, idx)
		default:
			x = append(x, idx)
		}
	}

	n := &Node{Atom: atom, Numeric: -1}
	if len(t) > 0 {
		n.True = build(conditions, t)
	}
	if len(f) > 0 {
		n.False = build(conditions, f)
	}
	if len(x) > 0 {
		n.Dontcare = build(conditions, x)
	}
	return n
}

// splitCandidate is one atom or numeric-constraint index considered by
// pickSplit, tagged by which kind of split it would produce.
type splitCandidate struct {
	idx     int32
	numeric bool
	score   int
}

// pickSplit scores every atom and numeric constraint mentioned by at least
// one candidate by how many candidates mention it, breaks ties by kind
// (atoms before numeric constraints) then by index, and returns the first
// (highest-scoring) split whose partition of candidates is non-trivial: at
// least two groups for an atom split (T/F/X), or both groups non-empty for
// a numeric split (T/X, there being no F branch). A trivial split — one
// every remaining candidate agrees on — makes no progress and is skipped in
// favour of the next-best candidate.
func pickSplit(conditions []Condition, candidates []int32) (splitCandidate, bool) {
	atomCounts := map[int32]int{}
	numericCounts := map[int32]int{}
	for _, idx := range candidates {
		c := conditions[idx]
		c.Positive.Each(func(i int) { atomCounts[int32(i)]++ })
		c.Negative.Each(func(i int) { atomCounts[int32(i)]++ })
		c.Numeric.Each(func(i int) { numericCounts[int32(i)]++ })
	}
	if len(atomCounts) == 0 && len(numericCounts) == 0 {
		return splitCandidate{}, false
	}

	ranked := make([]splitCandidate, 0, len(atomCounts)+len(numericCounts))
	for a, n := range atomCounts {
		ranked = append(ranked, splitCandidate{idx: a, numeric: false, score: n})
	}
	for nc, n := range numericCounts {
		ranked = append(ranked, splitCandidate{idx: nc, numeric: true, score: n})
	}
	sortCandidates(ranked)

	for _, cand := range ranked {
		if cand.numeric {
			sawT, sawX := false, false
			for _, idx := range candidates {
				if conditions[idx].Numeric.Test(int(cand.idx)) {
					sawT = true
				} else {
					sawX = true
				}
			}
			if sawT && sawX {
				return cand, true
			}
			continue
		}

		groups := 0
		var sawT, sawF, sawX bool
		for _, idx := range candidates {
			c := conditions[idx]
			switch {
			case c.Positive.Test(int(cand.idx)):
				sawT = true
			case c.Negative.Test(int(cand.idx)):
				sawF = true
			default:
				sawX = true
			}
		}
		if sawT {
			groups++
		}
		if sawF {
			groups++
		}
		if sawX {
			groups++
		}
		if groups >= 2 {
			return cand, true
		}
	}
	return splitCandidate{}, false
}

// sortCandidates orders by descending score, then atom splits before
// numeric splits, then ascending index, by insertion sort (candidate lists
// here are small — one entry per atom/constraint mentioned at this node).
func sortCandidates(cands []splitCandidate) {
	less := func(a, b splitCandidate) bool {
		if a.score != b.score {
			return a.score > b.score
		}
		if a.numeric != b.numeric {
			return !a.numeric
		}
		return a.idx < b.idx
	}
	for i := 1; i < len(cands); i++ {
		for j := i; j > 0 && less(cands[j], cands[j-1]); j-- {
			cands[j-1], cands[j] = cands[j], cands[j-1]
		}
	}
}

// Walk evaluates the tree against a dense state's truth predicates holds
// (atom truth) and numericHolds (numeric-constraint truth), yielding every
// leaf element index reached: at an atom node it descends into the branch
// matching holds(node.Atom) and always also into Dontcare if present; at a
// numeric node it descends into True when numericHolds(node.Numeric) and
// always also into Dontcare; per spec §4.5's grounded applicable-action
// generator. Returning false from yield stops the walk early.
func Walk(root *Node, holds func(atom int32) bool, numericHolds func(idx int32) bool, yield func(elem int32) bool) {
	walk(root, holds, numericHolds, yield)
}

func walk(n *Node, holds func(int32) bool, numericHolds func(int32) bool, yield func(int32) bool) bool {
	if n == nil {
		return true
	}
	if n.Atom < 0 && n.Numeric < 0 {
		for _, e := range n.Leaf {
			if !yield(e) {
				return false
			}
		}
		return true
	}
	if n.Numeric >= 0 {
		if numericHolds(n.Numeric) {
			if !walk(n.True, holds, numericHolds, yield) {
				return false
			}
		}
		return walk(n.Dontcare, holds, numericHolds, yield)
	}
	var branch *Node
	if holds(n.Atom) {
		branch = n.True
	} else {
		branch = n.False
	}
	if !walk(branch, holds, numericHolds, yield) {
		return false
	}
	return walk(n.Dontcare, holds, numericHolds, yield)
}
