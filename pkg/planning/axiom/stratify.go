// Package axiom implements the stratified axiom evaluator of spec §4.6:
// partitioning axioms into a topologically ordered sequence of strata over
// derived predicates, then closing a dense state's derived bitset stratum
// by stratum to its least fixpoint.
//
// Grounded directly on gokando's pkg/minikanren/slg_engine.go, whose
// `strata map[string]int` plus SCC-based dependency analysis over
// predicate/functor names is the same shape of problem (stratified
// negation for a Datalog-like rule set) generalised here from string
// functors to this module's dense predicate indices.
package axiom

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mimir-planning/mimir/pkg/planning/ir"
)

// ErrUnstratifiable wraps every error Stratify returns, so callers (and
// perrors.Classify at the CLI boundary) can recognise "no valid stratum
// order exists" without parsing the message.
var ErrUnstratifiable = errors.New("axiom: no valid stratum order exists")

type depEdge struct {
	to      int32
	negated bool
}

// Stratify partitions domain's axioms into a topologically ordered
// sequence of strata, each a list of axiom schema indices, such that
// within one stratum no axiom's head predicate negatively depends
// (directly or transitively, through axioms of a later stratum) on a
// predicate defined in the same stratum. It returns an error instead of
// panicking when no such partition exists (the §9 design note converting
// the source's process-abort-on-unstratifiable-input into a Go error).
func Stratify(pool *ir.Pool, domain *ir.Domain) ([][]int32, error) {
	edges := map[int32][]depEdge{}
	nodes := map[int32]bool{}
	axiomsByHead := map[int32][]int32{}

	for _, schemaIdx := range domain.Axioms {
		ax := pool.Axiom(schemaIdx)
		head := pool.Atom(ax.Head.Atom).Predicate
		nodes[head] = true
		axiomsByHead[head] = append(axiomsByHead[head], schemaIdx)

		addDeps := func(lits []ir.Literal, negated bool) {
			for _, l := range lits {
				pred := pool.Atom(l.Atom).Predicate
				if pool.Predicate(pred).Kind != ir.Derived {
					continue
				}
				nodes[pred] = true
				edges[head] = append(edges[head], depEdge{to: pred, negated: negated})
			}
		}
		addDeps(ax.Body.DerivedPositive, false)
		addDeps(ax.Body.DerivedNegative, true)
	}

	sccOf, order := tarjanSCC(nodes, edges)

	for head, es := range edges {
		for _, e := range es {
			if e.negated && sccOf[head] == sccOf[e.to] {
				return nil, fmt.Errorf("%w: predicate %d negatively recurses within its own stratum", ErrUnstratifiable, head)
			}
		}
	}

	strata := make([][]int32, 0, len(order))
	for _, comp := range order {
		var schemas []int32
		for _, pred := range comp {
			schemas = append(schemas, axiomsByHead[pred]...)
		}
		if len(schemas) > 0 {
			strata = append(strata, schemas)
		}
	}
	return strata, nil
}

// tarjanSCC computes strongly connected components of the predicate
// dependency graph, visiting nodes in a fixed (sorted) order for
// deterministic output. Components are returned in the order Tarjan's
// algorithm naturally completes them, which — since edges point from a
// predicate to the predicates its axioms depend on — is already a valid
// dependency order: a component is only closed off, and appended to the
// result, after every component it depends on has already been closed.
func tarjanSCC(nodes map[int32]bool, edges map[int32][]depEdge) (map[int32]int, [][]int32) {
	index := 0
	indices := map[int32]int{}
	low := map[int32]int{}
	onStack := map[int32]bool{}
	var stack []int32
	var result [][]int32
	sccOf := map[int32]int{}

	var strongconnect func(v int32)
	strongconnect = func(v int32) {
		indices[v] = index
		low[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, e := range edges[v] {
			w := e.to
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if low[w] < low[v] {
					low[v] = low[w]
				}
			} else if onStack[w] {
				if indices[w] < low[v] {
					low[v] = indices[w]
				}
			}
		}

		if low[v] == indices[v] {
			var comp []int32
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			compID := len(result)
			for _, w := range comp {
				sccOf[w] = compID
			}
			result = append(result, comp)
		}
	}

	sorted := make([]int32, 0, len(nodes))
	for n := range nodes {
		sorted = append(sorted, n)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, v := range sorted {
		if _, seen := indices[v]; !seen {
			strongconnect(v)
		}
	}
	return sccOf, result
}
