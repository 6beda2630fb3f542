package ground

import (
	"github.com/mimir-planning/mimir/internal/bitset"
	"github.com/mimir-planning/mimir/pkg/planning/binding"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
)

// growFor records that a ground atom of kind was just interned with dense
// rank, extending the grounder's recorded universe size for that kind if
// needed. Ground atoms discovered mid-grounding (any literal an action or
// axiom references that wasn't already present in the problem's initial
// state) routinely push a kind's dense range past the size it had at
// Grounder construction time, so every intern site in this file funnels
// through here rather than trusting g.numFluent/g.numDerived/g.numStatic
// to stay fixed. Static atoms additionally grow the persistent
// g.staticAtoms bitset in place, since every caller shares that one
// instance; fluent/derived universes are grown at their own local bitset
// by the caller (see rankOf).
func (g *Grounder) growFor(kind ir.PredicateKind, rank int32) {
	switch kind {
	case ir.Fluent:
		if n := int(rank) + 1; n > g.numFluent {
			g.numFluent = n
		}
	case ir.Derived:
		if n := int(rank) + 1; n > g.numDerived {
			g.numDerived = n
		}
	case ir.Static:
		if n := int(rank) + 1; n > g.numStatic {
			g.numStatic = n
		}
		g.staticAtoms.Grow(g.numStatic)
	}
}

// rankOf interns (predicate, objs) as a ground atom, grows the grounder's
// universe bookkeeping for its kind, and grows universe (the specific
// bitset the caller is about to Test/Set against) to cover the resulting
// rank before returning it.
func (g *Grounder) rankOf(predicate int32, objs []int32, universe *bitset.Set) int32 {
	idx := g.pool.InternGroundAtom(predicate, objs)
	rank := g.pool.DenseRank(idx)
	g.growFor(g.pool.Predicate(predicate).Kind, rank)
	universe.Grow(int(rank) + 1)
	return rank
}

// literalIndex grounds a single lifted literal against a complete binding,
// keyed by the two-level cache of spec §4.3: the literal's atom index plus
// only the binding entries its terms reference (its relevant subsequence),
// so two bindings agreeing on those positions alone share one grounding.
func (g *Grounder) literalIndex(atomIdx int32, bind []int32) int32 {
	atom := g.pool.Atom(atomIdx)
	objs := substituteWithPool(g.pool, atom.Terms, bind)
	relevant := encodeBinding(objs)
	inner, ok := g.litc.byAtom[atomIdx]
	if !ok {
		inner = make(map[string]int32)
		g.litc.byAtom[atomIdx] = inner
	}
	if idx, ok := inner[relevant]; ok {
		return idx
	}
	idx := g.pool.InternGroundAtom(atom.Predicate, objs)
	g.growFor(g.pool.Predicate(atom.Predicate).Kind, g.pool.DenseRank(idx))
	inner[relevant] = idx
	return idx
}

// buildLiteralSet renders a conjunctive condition's fluent/derived literals
// into the bitset form GroundLiteralSet carries; static literals are
// discharged at grounding time (spec §3.4) and never appear here.
//
// Every literal's dense rank is resolved (and the grounder's universe
// counters grown to cover it) before any bitset is allocated, so the sizes
// below always cover every rank this condition will ever set — allocating
// first and resolving ranks second would risk sizing a bitset too small
// for a literal that turns out to ground a ground atom discovered for the
// first time right here.
func (g *Grounder) buildLiteralSet(cond ir.ConjunctiveCondition, bind []int32) GroundLiteralSet {
	rank := func(lit ir.Literal) int32 { return g.pool.DenseRank(g.literalIndex(lit.Atom, bind)) }

	posFluent := make([]int32, len(cond.FluentPositive))
	for i, lit := range cond.FluentPositive {
		posFluent[i] = rank(lit)
	}
	negFluent := make([]int32, len(cond.FluentNegative))
	for i, lit := range cond.FluentNegative {
		negFluent[i] = rank(lit)
	}
	posDerived := make([]int32, len(cond.DerivedPositive))
	for i, lit := range cond.DerivedPositive {
		posDerived[i] = rank(lit)
	}
	negDerived := make([]int32, len(cond.DerivedNegative))
	for i, lit := range cond.DerivedNegative {
		negDerived[i] = rank(lit)
	}

	s := GroundLiteralSet{
		PosFluent:  bitset.New(g.numFluent),
		NegFluent:  bitset.New(g.numFluent),
		PosDerived: bitset.New(g.numDerived),
		NegDerived: bitset.New(g.numDerived),
	}
	for _, r := range posFluent {
		s.PosFluent.Set(int(r))
	}
	for _, r := range negFluent {
		s.NegFluent.Set(int(r))
	}
	for _, r := range posDerived {
		s.PosDerived.Set(int(r))
	}
	for _, r := range negDerived {
		s.NegDerived.Set(int(r))
	}
	if len(cond.Numeric) > 0 {
		s.Numeric = make([]GroundNumericConstraint, len(cond.Numeric))
		for i, nc := range cond.Numeric {
			s.Numeric[i] = GroundNumericConstraint{Function: nc.Function, Op: nc.Op, Value: nc.Value}
		}
	}
	return s
}

// GroundAction returns the memoised GroundAction for (schema, bind),
// constructing it on first use. Callers are expected to only ever pass a
// binding that already satisfies the schema's static precondition (every
// caller in this module reaches GroundAction through a binding generator
// whose graph was built from that same precondition), so construction here
// never fails.
//
// Conditional effects with existentially-quantified parameters beyond the
// schema's own (ConditionalEffect.Arity > 0) are out of scope for this
// module's fixtures, which declare none; such an effect's condition and
// atom are substituted directly against the schema's own binding.
func (g *Grounder) GroundAction(schema int32, bind []int32) *GroundAction {
	if idx, ok := g.actions.lookup(schema, bind); ok {
		return &g.groundActions[idx]
	}

	sch := g.pool.Action(schema)
	precond := g.buildLiteralSet(sch.Precondition, bind)

	addRanks := make([]int32, len(sch.Effect.Positive))
	for i, lit := range sch.Effect.Positive {
		addRanks[i] = g.pool.DenseRank(g.literalIndex(lit.Atom, bind))
	}
	delRanks := make([]int32, len(sch.Effect.Negative))
	for i, lit := range sch.Effect.Negative {
		delRanks[i] = g.pool.DenseRank(g.literalIndex(lit.Atom, bind))
	}

	ga := GroundAction{
		Schema:       schema,
		Binding:      append([]int32(nil), bind...),
		Precondition: precond,
		EffectAdd:    bitset.New(g.numFluent),
		EffectDel:    bitset.New(g.numFluent),
	}
	for _, r := range addRanks {
		ga.EffectAdd.Set(int(r))
	}
	for _, r := range delRanks {
		ga.EffectDel.Set(int(r))
	}
	for _, ne := range sch.Effect.Numeric {
		ga.NumericEffects = append(ga.NumericEffects, GroundNumericEffect{
			Function: ne.Function,
			Op:       ne.Op,
			Value:    ne.Value,
		})
	}
	for _, ce := range sch.ConditionalEffects {
		cond := g.buildLiteralSet(ce.Condition, bind)
		negated := len(ce.Effect.Negative) > 0
		var atom int32
		if negated {
			atom = g.literalIndex(ce.Effect.Negative[0].Atom, bind)
		} else if len(ce.Effect.Positive) > 0 {
			atom = g.literalIndex(ce.Effect.Positive[0].Atom, bind)
		}
		ga.ConditionalEffects = append(ga.ConditionalEffects, CondEffect{
			Condition: cond,
			Negated:   negated,
			Atom:      g.pool.DenseRank(atom),
		})
	}

	idx := int32(len(g.groundActions))
	ga.Index = idx
	g.groundActions = append(g.groundActions, ga)
	g.actions.store(schema, bind, idx)
	return &g.groundActions[idx]
}

// GroundAxiom returns the memoised GroundAxiom for (schema, bind),
// constructing it on first use. Same no-failure assumption as GroundAction.
func (g *Grounder) GroundAxiom(schema int32, bind []int32) *GroundAxiom {
	if idx, ok := g.axioms.lookup(schema, bind); ok {
		return &g.groundAxioms[idx]
	}

	ax := g.pool.Axiom(schema)
	precond := g.buildLiteralSet(ax.Body, bind)
	headIdx := g.literalIndex(ax.Head.Atom, bind)
	ga := GroundAxiom{
		Schema:       schema,
		Binding:      append([]int32(nil), bind...),
		Precondition: precond,
		Head:         g.pool.DenseRank(headIdx),
	}

	idx := int32(len(g.groundAxioms))
	ga.Index = idx
	g.groundAxioms = append(g.groundAxioms, ga)
	g.axioms.store(schema, bind, idx)
	return &g.groundAxioms[idx]
}

// exploreDeleteRelaxed computes the delete-relaxed reachable set of spec
// §4.3: starting from the problem's initial fluent atoms and an empty
// derived set, it repeatedly grounds every action/axiom binding whose
// positive fluent/derived preconditions already hold in the relaxed
// reachable set (negative preconditions and deletes are ignored, the
// standard delete relaxation), adding each grounded action's add effects
// and each grounded axiom's head to the relaxed set, until a fixpoint.
// Because dropping negative preconditions only admits MORE bindings, the
// real reachable set at search time is always a subset of what this
// fixpoint discovers.
//
// relaxedFluent/relaxedDerived are grown to g.numFluent/g.numDerived right
// before every mutation, since grounding an action or axiom over the
// course of this loop routinely discovers ground atoms past either
// bitset's current capacity.
func (g *Grounder) exploreDeleteRelaxed() {
	relaxedFluent := bitset.New(g.numFluent)
	for _, lit := range g.problem.InitFluent {
		relaxedFluent.Set(int(g.pool.DenseRank(lit.Atom)))
	}
	relaxedDerived := bitset.New(g.numDerived)

	for {
		changed := false

		for _, schemaIdx := range g.domain.Actions {
			sch := g.pool.Action(schemaIdx)
			graph := g.actionGraphs[schemaIdx]
			vOK, eOK := g.relaxedFilters(sch.Precondition, relaxedFluent, relaxedDerived)
			verify := func(bind []int32) bool {
				return g.verifyRelaxed(sch.Precondition, bind, relaxedFluent, relaxedDerived)
			}
			binding.Bind(graph, vOK, eOK, verify, func(bind []int32) bool {
				ga := g.GroundAction(schemaIdx, bind)
				// ga.EffectAdd may have been allocated for an earlier,
				// smaller g.numFluent than the universe has since grown
				// to; bitset.Or iterates bounded by the receiver's word
				// count, so both operands are grown to the current
				// universe size before the union (Or would otherwise
				// index out of range reading the shorter operand).
				relaxedFluent.Grow(g.numFluent)
				ga.EffectAdd.Grow(g.numFluent)
				before := relaxedFluent.Count()
				relaxedFluent.Or(ga.EffectAdd)
				if relaxedFluent.Count() != before {
					changed = true
				}
				return true
			})
		}

		for _, schemaIdx := range g.domain.Axioms {
			ax := g.pool.Axiom(schemaIdx)
			graph := g.axiomGraphs[schemaIdx]
			vOK, eOK := g.relaxedFilters(ax.Body, relaxedFluent, relaxedDerived)
			verify := func(bind []int32) bool {
				return g.verifyRelaxed(ax.Body, bind, relaxedFluent, relaxedDerived)
			}
			binding.Bind(graph, vOK, eOK, verify, func(bind []int32) bool {
				gx := g.GroundAxiom(schemaIdx, bind)
				relaxedDerived.Grow(g.numDerived)
				if !relaxedDerived.Test(int(gx.Head)) {
					relaxedDerived.Set(int(gx.Head))
					changed = true
				}
				return true
			})
		}

		if !changed {
			break
		}
	}

	g.reachableActions = make([]int32, len(g.groundActions))
	for i := range g.groundActions {
		g.reachableActions[i] = int32(i)
	}
	g.reachableAxioms = make([]int32, len(g.groundAxioms))
	for i := range g.groundAxioms {
		g.reachableAxioms[i] = int32(i)
	}
}

// relaxedFilters builds graph-pruning vertex/edge filters that check only
// a condition's positive fluent/derived unary/binary literals against the
// relaxed reachable set; negative literals are never pruned here (the
// relaxation), and static literals are already baked into the graph.
func (g *Grounder) relaxedFilters(cond ir.ConjunctiveCondition, fluent, derived *bitset.Set) (binding.VertexFilter, binding.EdgeFilter) {
	type posLit struct {
		atom        int32
		positions   []int
		fromDerived bool
	}
	var unary []posLit
	var pairwise []posLit
	collect := func(lits []ir.Literal, fromDerived bool) {
		for _, lit := range lits {
			atom := g.pool.Atom(lit.Atom)
			positions := paramPositions(g.pool, atom.Terms)
			pl := posLit{atom: lit.Atom, positions: positions, fromDerived: fromDerived}
			switch len(positions) {
			case 1:
				unary = append(unary, pl)
			case 2:
				pairwise = append(pairwise, pl)
			}
		}
	}
	collect(cond.FluentPositive, false)
	collect(cond.DerivedPositive, true)

	vertexOK := func(pos int, obj int32) bool {
		for _, pl := range unary {
			if pl.positions[0] != pos {
				continue
			}
			atom := g.pool.Atom(pl.atom)
			objs := make([]int32, len(atom.Terms))
			for i, t := range atom.Terms {
				if t.IsVariable() {
					objs[i] = obj
				} else {
					objs[i] = t.Obj
				}
			}
			universe := fluent
			if pl.fromDerived {
				universe = derived
			}
			rank := g.rankOf(atom.Predicate, objs, universe)
			if !universe.Test(int(rank)) {
				return false
			}
		}
		return true
	}

	edgeOK := func(pos1 int, obj1 int32, pos2 int, obj2 int32) bool {
		for _, pl := range pairwise {
			if pl.positions[0] != pos1 || pl.positions[1] != pos2 {
				continue
			}
			atom := g.pool.Atom(pl.atom)
			bind := map[int]int32{pos1: obj1, pos2: obj2}
			objs := make([]int32, len(atom.Terms))
			for i, t := range atom.Terms {
				if t.IsVariable() {
					objs[i] = bind[g.pool.Variable(t.Var).Position]
				} else {
					objs[i] = t.Obj
				}
			}
			universe := fluent
			if pl.fromDerived {
				universe = derived
			}
			rank := g.rankOf(atom.Predicate, objs, universe)
			if !universe.Test(int(rank)) {
				return false
			}
		}
		return true
	}

	return vertexOK, edgeOK
}

// verifyRelaxed is the delete-relaxed counterpart of verifyCondition: it
// checks static literals in full and positive fluent/derived literals in
// full, but always accepts negative fluent/derived literals and numeric
// constraints (the relaxation drops both).
func (g *Grounder) verifyRelaxed(cond ir.ConjunctiveCondition, bind []int32, fluent, derived *bitset.Set) bool {
	check := func(lits []ir.Literal, universe *bitset.Set) bool {
		for _, lit := range lits {
			atom := g.pool.Atom(lit.Atom)
			objs := substituteWithPool(g.pool, atom.Terms, bind)
			rank := g.rankOf(atom.Predicate, objs, universe)
			if !universe.Test(int(rank)) {
				return false
			}
		}
		return true
	}
	if !check(cond.StaticPositive, g.staticAtoms) {
		return false
	}
	for _, lit := range cond.StaticNegative {
		atom := g.pool.Atom(lit.Atom)
		objs := substituteWithPool(g.pool, atom.Terms, bind)
		rank := g.rankOf(atom.Predicate, objs, g.staticAtoms)
		if g.staticAtoms.Test(int(rank)) {
			return false
		}
	}
	if !check(cond.FluentPositive, fluent) {
		return false
	}
	if !check(cond.DerivedPositive, derived) {
		return false
	}
	return true
}
