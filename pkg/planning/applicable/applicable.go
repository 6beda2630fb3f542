// Package applicable implements the applicable-action generator of spec
// §4.5: grounded (match-tree walk) and lifted (on-the-fly binding +
// grounding) variants behind the same shape of call.
//
// Grounded on gokando's lazy ResultStream/iterator idiom in
// pkg/minikanren/stream.go, rendered as a Go 1.23-style explicit-yield
// generator consistent with pkg/planning/binding.Bind.
package applicable

import (
	"github.com/mimir-planning/mimir/internal/bitset"
	"github.com/mimir-planning/mimir/pkg/planning/binding"
	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
	"github.com/mimir-planning/mimir/pkg/planning/matchtree"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

// Grounded walks a pre-built match tree over a fixed universe of ground
// elements (actions or axioms, or a single axiom stratum), yielding the
// caller-supplied element index of every leaf the dense state reaches.
type Grounded struct {
	tree      *matchtree.Node
	elements  []int32
	numFluent int
	numeric   []ground.GroundNumericConstraint
}

// precondition is implemented by ground.GroundAction and ground.GroundAxiom
// via their shared GroundLiteralSet field, referenced here purely to keep
// NewGrounded's signature element-type agnostic.
type precondition = ground.GroundLiteralSet

// numericKey identifies a numeric constraint by value, not identity, so
// that the same (function, operator, bound) appearing in more than one
// element's precondition is folded into a single match-tree split
// candidate, the same way repeated atom indices naturally are.
type numericKey struct {
	function int32
	op       ir.NumericOp
	value    float64
}

// NewGrounded builds the match tree for elements (each identified by a
// caller-meaningful int32, usually a ground action/axiom dense index),
// using precondOf to fetch each element's grounded precondition. Every
// distinct numeric constraint mentioned across elements is assigned one
// dense index up front, so combineCondition can render "this element
// mentions constraint i" the same way it renders atom mentions.
func NewGrounded(elements []int32, precondOf func(idx int32) precondition, numFluent, numDerived int) *Grounded {
	preconds := make([]precondition, len(elements))
	numericIndex := map[numericKey]int32{}
	var numeric []ground.GroundNumericConstraint
	for i, idx := range elements {
		p := precondOf(idx)
		preconds[i] = p
		for _, nc := range p.Numeric {
			key := numericKey{function: nc.Function, op: nc.Op, value: nc.Value}
			if _, ok := numericIndex[key]; !ok {
				numericIndex[key] = int32(len(numeric))
				numeric = append(numeric, nc)
			}
		}
	}

	conds := make([]matchtree.Condition, len(elements))
	for i, p := range preconds {
		conds[i] = combineCondition(p, numFluent, numDerived, numericIndex)
	}
	return &Grounded{
		tree:      matchtree.Build(conds),
		elements:  elements,
		numFluent: numFluent,
		numeric:   numeric,
	}
}

func combineCondition(p precondition, numFluent, numDerived int, numericIndex map[numericKey]int32) matchtree.Condition {
	universe := numFluent + numDerived
	pos := make([]int32, 0, p.PosFluent.Count()+p.PosDerived.Count())
	neg := make([]int32, 0, p.NegFluent.Count()+p.NegDerived.Count())
	p.PosFluent.Each(func(i int) { pos = append(pos, int32(i)) })
	p.NegFluent.Each(func(i int) { neg = append(neg, int32(i)) })
	p.PosDerived.Each(func(i int) { pos = append(pos, int32(numFluent+i)) })
	p.NegDerived.Each(func(i int) { neg = append(neg, int32(numFluent+i)) })

	numericMentions := make([]int32, 0, len(p.Numeric))
	for _, nc := range p.Numeric {
		key := numericKey{function: nc.Function, op: nc.Op, value: nc.Value}
		numericMentions = append(numericMentions, numericIndex[key])
	}

	c := matchtree.Condition{}
	c.Positive = bitsetFromSlice(pos, universe)
	c.Negative = bitsetFromSlice(neg, universe)
	c.Numeric = bitsetFromSlice(numericMentions, len(numericIndex))
	return c
}

// Actions yields, in tree order, the element index of every leaf whose
// precondition holds in ds: at an atom node it descends into the branch
// matching the dense state and always also into the don't-care branch; at
// a numeric node it descends into the matching branch by evaluating the
// constraint against ds.Numeric, the exhaustive final check spec §4.5
// requires the grounded generator to perform (mirroring what the lifted
// generator already gets from ground.Grounder.VerifyCondition).
func (g *Grounded) Actions(ds *state.DenseState, yield func(elem int32) bool) {
	holds := func(atom int32) bool {
		if int(atom) < g.numFluent {
			return ds.Fluent.Test(int(atom))
		}
		return ds.Derived.Test(int(atom) - g.numFluent)
	}
	numericHolds := func(idx int32) bool {
		return g.numeric[idx].Holds(ds.Numeric)
	}
	matchtree.Walk(g.tree, holds, numericHolds, func(i int32) bool {
		return yield(g.elements[i])
	})
}

// Lifted grounds ground actions on demand from a schema's binding
// generator, never materialising a match tree.
type Lifted struct {
	grounder *ground.Grounder
}

// NewLifted wraps a grounder for on-the-fly lifted applicable-action
// generation.
func NewLifted(g *ground.Grounder) *Lifted {
	return &Lifted{grounder: g}
}

// Actions enumerates, for every action schema in the domain, every ground
// action whose precondition holds in st, grounding bindings the moment
// they are discovered rather than walking a pre-built tree.
func (l *Lifted) Actions(store *state.Store, st state.State, yield func(*ground.GroundAction) bool) {
	ds := store.Dense(st, l.grounder.NumFluentAtoms(), l.grounder.NumDerivedAtoms())
	pool := l.grounder.Pool()
	for _, schemaIdx := range l.grounder.Domain().Actions {
		sch := pool.Action(schemaIdx)
		graph := l.grounder.ActionGraph(schemaIdx)
		vOK, eOK := l.grounder.DynamicFilters(sch.Precondition, ds)
		verify := func(bind []int32) bool {
			return l.grounder.VerifyCondition(sch.Precondition, bind, ds)
		}
		stop := false
		binding.Bind(graph, vOK, eOK, verify, func(bind []int32) bool {
			ga := l.grounder.GroundAction(schemaIdx, bind)
			if !yield(ga) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}

func bitsetFromSlice(idx []int32, universe int) *bitset.Set {
	s := bitset.New(universe)
	for _, i := range idx {
		s.Set(int(i))
	}
	return s
}
