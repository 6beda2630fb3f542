package ground

import (
	"github.com/mimir-planning/mimir/pkg/planning/binding"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

// DynamicFilters builds graph-pruning vertex/edge filters that check a
// condition's unary/binary fluent and derived literals (both polarities)
// against a live dense state, for use by the lifted applicable-action
// generator (spec §4.5): unlike exploreDeleteRelaxed's relaxedFilters,
// these are exact, not an over-approximation, since the caller already has
// the real state in hand.
func (g *Grounder) DynamicFilters(cond ir.ConjunctiveCondition, ds *state.DenseState) (binding.VertexFilter, binding.EdgeFilter) {
	type lit struct {
		atom      int32
		negated   bool
		derived   bool
		positions []int
	}
	var unary, pairwise []lit
	collect := func(lits []ir.Literal, negated, derived bool) {
		for _, l := range lits {
			atom := g.pool.Atom(l.Atom)
			positions := paramPositions(g.pool, atom.Terms)
			e := lit{atom: l.Atom, negated: negated, derived: derived, positions: positions}
			switch len(positions) {
			case 1:
				unary = append(unary, e)
			case 2:
				pairwise = append(pairwise, e)
			}
		}
	}
	collect(cond.FluentPositive, false, false)
	collect(cond.FluentNegative, true, false)
	collect(cond.DerivedPositive, false, true)
	collect(cond.DerivedNegative, true, true)

	holds := func(atomIdx int32, objs []int32, derived bool) bool {
		a := g.pool.Atom(atomIdx)
		universe := ds.Fluent
		if derived {
			universe = ds.Derived
		}
		rank := int(g.rankOf(a.Predicate, objs, universe))
		return universe.Test(rank)
	}

	vertexOK := func(pos int, obj int32) bool {
		for _, e := range unary {
			if e.positions[0] != pos {
				continue
			}
			a := g.pool.Atom(e.atom)
			objs := make([]int32, len(a.Terms))
			for i, t := range a.Terms {
				if t.IsVariable() {
					objs[i] = obj
				} else {
					objs[i] = t.Obj
				}
			}
			if holds(e.atom, objs, e.derived) == e.negated {
				return false
			}
		}
		return true
	}

	edgeOK := func(pos1 int, obj1 int32, pos2 int, obj2 int32) bool {
		for _, e := range pairwise {
			if e.positions[0] != pos1 || e.positions[1] != pos2 {
				continue
			}
			a := g.pool.Atom(e.atom)
			bind := map[int]int32{pos1: obj1, pos2: obj2}
			objs := make([]int32, len(a.Terms))
			for i, t := range a.Terms {
				if t.IsVariable() {
					objs[i] = bind[g.pool.Variable(t.Var).Position]
				} else {
					objs[i] = t.Obj
				}
			}
			if holds(e.atom, objs, e.derived) == e.negated {
				return false
			}
		}
		return true
	}

	return vertexOK, edgeOK
}

// VerifyCondition is the exported form of verifyCondition for the lifted
// applicable-action generator: the exhaustive, final check of every
// literal in cond (including nullary and higher-arity ones the graph never
// prunes) against a candidate binding and a live dense state.
func (g *Grounder) VerifyCondition(cond ir.ConjunctiveCondition, bind []int32, ds *state.DenseState) bool {
	return g.verifyCondition(cond, bind, ds.Fluent, ds.Derived, ds.Numeric)
}
