// Package ground implements the grounder of spec §4.3: turning a (schema,
// binding) pair into a memoised ground action or ground axiom, building the
// per-schema static consistency graph of spec §3.5, and computing the
// delete-relaxed reachable set of spec §4.3 at construction time.
//
// Grounded on gokando's registry/cache pattern in constraint_manager.go
// (ConstraintManager routes and memoises solver selections the way this
// package routes and memoises ground elements by (schema, binding)). The
// element caches count their hits and misses; Options.Logger is accepted
// and stored, but nothing in this package logs through it.
package ground

import (
	"sort"

	"go.uber.org/zap"

	"github.com/mimir-planning/mimir/internal/bitset"
	"github.com/mimir-planning/mimir/pkg/planning/binding"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
)

// GroundLiteralSet is the bitset rendering of a conjunctive condition's
// fluent/derived literals for a specific (schema, binding): spec §3.4's
// "strips precondition (positive/negative bitsets over fluent and derived
// atom indices, static preconditions already discharged at grounding
// time)", plus its grounded numeric constraints (spec §3.1's
// ConjunctiveCondition.Numeric carried through grounding rather than
// discharged, since a numeric constraint's truth depends on the state
// being checked, not the binding alone).
type GroundLiteralSet struct {
	PosFluent, NegFluent   *bitset.Set
	PosDerived, NegDerived *bitset.Set
	Numeric                []GroundNumericConstraint
}

// GroundNumericConstraint is a numeric precondition with its function
// skeleton and bound already resolved, left to evaluate against a live
// numeric state (spec §3.4/§3.6's "numeric split" node).
type GroundNumericConstraint struct {
	Function int32
	Op       ir.NumericOp
	Value    float64
}

// Holds reports whether nc currently holds against numeric, treating a
// function with no recorded value as vacuously true (mirrors
// evalNumeric's fallback for a function this condition's caller never
// populated).
func (nc GroundNumericConstraint) Holds(numeric map[int32]float64) bool {
	v, ok := numeric[nc.Function]
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

// Holds reports whether every literal and numeric constraint in s holds
// against fluent/derived/numeric.
func (s GroundLiteralSet) Holds(fluent, derived *bitset.Set, numeric map[int32]float64) bool {
	ok := true
	s.PosFluent.Each(func(i int) {
		if !fluent.Test(i) {
			ok = false
		}
	})
	s.NegFluent.Each(func(i int) {
		if fluent.Test(i) {
			ok = false
		}
	})
	s.PosDerived.Each(func(i int) {
		if !derived.Test(i) {
			ok = false
		}
	})
	s.NegDerived.Each(func(i int) {
		if derived.Test(i) {
			ok = false
		}
	})
	for _, nc := range s.Numeric {
		if !nc.Holds(numeric) {
			ok = false
		}
	}
	return ok
}

// CondEffect is a single conditional effect of a ground action (spec §3.4):
// its own condition bitsets plus a simple (isNegated, atom) effect.
type CondEffect struct {
	Condition GroundLiteralSet
	Negated   bool
	Atom      int32
}

// GroundNumericEffect is a grounded numeric update, its function/value
// resolved from the schema's numeric effect and the binding.
type GroundNumericEffect struct {
	Function int32
	Op       ir.NumericEffectOp
	Value    float64
}

// GroundAction is the grounded analogue of an ir.ActionSchema for one
// specific binding (spec §3.4).
type GroundAction struct {
	Index             int32
	Schema            int32
	Binding           []int32
	Precondition      GroundLiteralSet
	EffectAdd         *bitset.Set
	EffectDel         *bitset.Set
	ConditionalEffects []CondEffect
	NumericEffects    []GroundNumericEffect
}

// GroundAxiom is the grounded analogue of an ir.AxiomSchema: the single
// derived-atom-effect case of GroundAction.
type GroundAxiom struct {
	Index        int32
	Schema       int32
	Binding      []int32
	Precondition GroundLiteralSet
	Head         int32
}

// Name renders the plan-file line format of spec §6: the schema's name
// followed by its user-declared (OriginalArity) parameter objects.
func (a *GroundAction) Name(pool *ir.Pool) string {
	sch := pool.Action(a.Schema)
	out := "(" + sch.Name
	for i := 0; i < sch.OriginalArity; i++ {
		out += " " + pool.Object(a.Binding[i]).Name
	}
	return out + ")"
}

type cacheEntry struct {
	index int32
}

// elementCache memoises ground elements by (schema, binding): the first
// insertion of a given pair assigns the dense index (spec §3.4).
type elementCache struct {
	bySchemaBinding map[int32]map[string]cacheEntry
	hits, misses    int64
}

func newElementCache() *elementCache {
	return &elementCache{bySchemaBinding: make(map[int32]map[string]cacheEntry)}
}

func encodeBinding(b []int32) string {
	buf := make([]byte, len(b)*4)
	for i, v := range b {
		buf[i*4] = byte(v >> 24)
		buf[i*4+1] = byte(v >> 16)
		buf[i*4+2] = byte(v >> 8)
		buf[i*4+3] = byte(v)
	}
	return string(buf)
}

func (c *elementCache) lookup(schema int32, binding []int32) (int32, bool) {
	inner, ok := c.bySchemaBinding[schema]
	if !ok {
		c.misses++
		return 0, false
	}
	e, ok := inner[encodeBinding(binding)]
	if ok {
		c.hits++
		return e.index, true
	}
	c.misses++
	return 0, false
}

func (c *elementCache) store(schema int32, binding []int32, index int32) {
	inner, ok := c.bySchemaBinding[schema]
	if !ok {
		inner = make(map[string]cacheEntry)
		c.bySchemaBinding[schema] = inner
	}
	inner[encodeBinding(binding)] = cacheEntry{index: index}
}

// literalCache is the two-level ground-literal cache of spec §4.3: an
// outer table per lifted literal, an inner table keyed by only the binding
// values the literal's terms actually reference (its "relevant
// subsequence"), so two different bindings that agree on those positions
// share one grounding.
type literalCache struct {
	byAtom map[int32]map[string]int32
}

func newLiteralCache() *literalCache {
	return &literalCache{byAtom: make(map[int32]map[string]int32)}
}

// Grounder builds and memoises ground actions/axioms for a domain+problem.
type Grounder struct {
	pool    *ir.Pool
	domain  *ir.Domain
	problem *ir.Problem
	log     *zap.Logger

	numFluent, numDerived, numStatic int

	staticAtoms *bitset.Set // dense static-atom universe, fixed by the problem's initial static atoms

	actionGraphs map[int32]*binding.StaticGraph
	axiomGraphs  map[int32]*binding.StaticGraph

	actions *elementCache
	axioms  *elementCache
	litc    *literalCache

	groundActions []GroundAction
	groundAxioms  []GroundAxiom

	reachableActions []int32 // delete-relaxed reachable ground action indices
	reachableAxioms  []int32
}

// Options configures Grounder construction.
type Options struct {
	Logger *zap.Logger
}

// New builds a Grounder for domain/problem, constructing every schema's
// static consistency graph and computing the delete-relaxed reachable set
// (spec §4.3).
func New(pool *ir.Pool, domain *ir.Domain, problem *ir.Problem, opts Options) *Grounder {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Grounder{
		pool:         pool,
		domain:       domain,
		problem:      problem,
		log:          logger,
		numFluent:    pool.NumGroundAtomsOfKind(ir.Fluent),
		numDerived:   pool.NumGroundAtomsOfKind(ir.Derived),
		numStatic:    pool.NumGroundAtomsOfKind(ir.Static),
		actionGraphs: make(map[int32]*binding.StaticGraph),
		axiomGraphs:  make(map[int32]*binding.StaticGraph),
		actions:      newElementCache(),
		axioms:       newElementCache(),
		litc:         newLiteralCache(),
	}

	g.staticAtoms = bitset.New(g.numStatic)
	for _, lit := range problem.InitStatic {
		g.staticAtoms.Set(int(pool.DenseRank(lit.Atom)))
	}

	for _, schemaIdx := range domain.Actions {
		g.actionGraphs[schemaIdx] = g.buildStaticGraph(pool.Action(schemaIdx).Precondition, pool.Action(schemaIdx).Parameters)
	}
	for _, schemaIdx := range domain.Axioms {
		g.axiomGraphs[schemaIdx] = g.buildStaticGraph(pool.Axiom(schemaIdx).Body, pool.Axiom(schemaIdx).Parameters)
	}

	g.exploreDeleteRelaxed()

	return g
}

// NumFluentAtoms, NumDerivedAtoms return the dense bitset universe sizes.
func (g *Grounder) NumFluentAtoms() int  { return g.numFluent }
func (g *Grounder) NumDerivedAtoms() int { return g.numDerived }

// Pool returns the IR pool this grounder was built against.
func (g *Grounder) Pool() *ir.Pool { return g.pool }

// Domain returns the domain this grounder was built against.
func (g *Grounder) Domain() *ir.Domain { return g.domain }

// ActionGraph returns the static consistency graph for an action schema.
func (g *Grounder) ActionGraph(schema int32) *binding.StaticGraph { return g.actionGraphs[schema] }

// AxiomGraph returns the static consistency graph for an axiom schema.
func (g *Grounder) AxiomGraph(schema int32) *binding.StaticGraph { return g.axiomGraphs[schema] }

// GroundActionByIndex returns a previously-grounded action by its dense
// index.
func (g *Grounder) GroundActionByIndex(idx int32) *GroundAction { return &g.groundActions[idx] }

// GroundAxiomByIndex returns a previously-grounded axiom by its dense
// index.
func (g *Grounder) GroundAxiomByIndex(idx int32) *GroundAxiom { return &g.groundAxioms[idx] }

// NumGroundActions, NumGroundAxioms report how many distinct ground
// elements have been created so far.
func (g *Grounder) NumGroundActions() int { return len(g.groundActions) }
func (g *Grounder) NumGroundAxioms() int  { return len(g.groundAxioms) }

// ReachableActions returns the delete-relaxed reachable ground action
// indices computed at construction time (spec §4.3).
func (g *Grounder) ReachableActions() []int32 { return g.reachableActions }

// ReachableAxioms returns the delete-relaxed reachable ground axiom
// indices computed at construction time.
func (g *Grounder) ReachableAxioms() []int32 { return g.reachableAxioms }

// sortedAtomsOf returns the sorted dense ranks of a bitset's set bits, used
// wherever a deterministic key or iteration order is needed.
func sortedAtomsOf(s *bitset.Set) []int32 {
	out := s.Slice()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
