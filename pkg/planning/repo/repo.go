// Package repo implements the state repository of spec §4.7 (component I):
// the seam that ties the state store (C), grounder (E), and axiom
// evaluator (H) together into initial_state/apply.
//
// Grounded on gokando's constraint_manager.go "store" role — the component
// that owns the other subsystems and exposes the two operations a search
// loop actually calls — generalised from constraint-store bookkeeping to
// state transitions.
package repo

import (
	"github.com/mimir-planning/mimir/internal/bitset"
	"github.com/mimir-planning/mimir/pkg/planning/axiom"
	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

// Repository owns the state store, grounder, and axiom evaluator for one
// domain+problem, and is the sole producer of State values during search.
type Repository struct {
	pool      *ir.Pool
	problem   *ir.Problem
	store     *state.Store
	grounder  *ground.Grounder
	evaluator *axiom.Evaluator

	totalCostFunc int32 // -1 if the domain declares no total-cost function
}

// New builds a Repository over store (already constructed against the
// shared slot table) and grounder, stratifying and preparing the axiom
// evaluator.
func New(pool *ir.Pool, problem *ir.Problem, store *state.Store, grounder *ground.Grounder) (*Repository, error) {
	ev, err := axiom.NewEvaluator(grounder)
	if err != nil {
		return nil, err
	}

	return &Repository{
		pool:          pool,
		problem:       problem,
		store:         store,
		grounder:      grounder,
		evaluator:     ev,
		totalCostFunc: pool.FindFunctionSkeleton("total-cost"),
	}, nil
}

// numFluent, numDerived read the grounder's universe sizes live rather than
// caching a snapshot, since grounding can still discover new ground atoms
// of either kind after this Repository was constructed (spec §4.3's
// delete-relaxation is a sound over-approximation, not a guarantee that
// every atom live search ever touches was already interned at construction
// time).
func (r *Repository) numFluent() int  { return r.grounder.NumFluentAtoms() }
func (r *Repository) numDerived() int { return r.grounder.NumDerivedAtoms() }

// isAuxiliary reports whether fn is declared FuncAuxiliary (spec.md:49,194:
// cost bookkeeping such as total-cost, kept out of state identity).
func (r *Repository) isAuxiliary(fn int32) bool {
	return r.pool.FunctionSkeleton(fn).Kind == ir.FuncAuxiliary
}

// InitialState grounds the problem's initial fluent and numeric
// assignments, closes derived atoms under the axiom set, and interns the
// resulting state (spec §4.7).
func (r *Repository) InitialState() (state.State, error) {
	ds := &state.DenseState{
		Fluent:  bitset.New(r.numFluent()),
		Derived: bitset.New(r.numDerived()),
		Numeric: make(map[int32]float64),
	}
	for _, lit := range r.problem.InitFluent {
		ds.Fluent.Set(int(r.pool.DenseRank(lit.Atom)))
	}
	for fn, v := range r.problem.InitNumeric {
		if r.isAuxiliary(fn) {
			continue
		}
		ds.Numeric[fn] = v
	}

	r.evaluator.Close(ds)

	return r.store.Pack(ds)
}

// Apply applies ga to st, producing the successor state and ga's cost
// evaluated in the pre-state (spec §4.7's action-cost semantics): the
// grounded value of its effect on the domain's total-cost function if one
// is declared, otherwise unit cost 1. Applying the same action to the same
// state always yields the same successor and cost.
func (r *Repository) Apply(st state.State, ga *ground.GroundAction) (state.State, float64, error) {
	numFluent, numDerived := r.numFluent(), r.numDerived()
	pre := r.store.Dense(st, numFluent, numDerived)

	cost := 1.0
	if r.totalCostFunc >= 0 {
		cost = 0
		for _, ne := range ga.NumericEffects {
			if ne.Function == r.totalCostFunc {
				cost = ne.Value
				break
			}
		}
	}

	next := &state.DenseState{
		Fluent:  pre.Fluent.Copy(),
		Derived: bitset.New(numDerived),
		Numeric: make(map[int32]float64, len(pre.Numeric)),
	}
	for fn, v := range pre.Numeric {
		next.Numeric[fn] = v
	}

	// ga.EffectAdd/EffectDel were sized to the fluent universe as of the
	// moment this action was first grounded; grounding may have discovered
	// further fluent atoms since (through a different schema or binding),
	// so both the effect bitsets and next.Fluent are grown to the current
	// universe before the union/difference (bitset.Or/AndNot iterate
	// bounded by the receiver's own word count and index the other operand
	// directly, so a shorter operand would panic, not merely truncate).
	next.Fluent.Grow(numFluent)
	ga.EffectAdd.Grow(numFluent)
	ga.EffectDel.Grow(numFluent)
	next.Fluent.Or(ga.EffectAdd)
	next.Fluent.AndNot(ga.EffectDel)

	for _, ce := range ga.ConditionalEffects {
		if !ce.Condition.Holds(pre.Fluent, pre.Derived, pre.Numeric) {
			continue
		}
		if ce.Negated {
			next.Fluent.Clear(int(ce.Atom))
		} else {
			next.Fluent.Set(int(ce.Atom))
		}
	}

	for _, ne := range ga.NumericEffects {
		// total-cost and other auxiliary functions (spec.md:194) are cost
		// bookkeeping, not world state: they are returned from Apply as cost
		// above and never folded into the packed numeric tuple, so that two
		// fluent-identical states reached at different accumulated cost
		// still intern to the same State (spec §2/§3.3's content-addressing).
		if r.isAuxiliary(ne.Function) {
			continue
		}
		prev := pre.Numeric[ne.Function]
		switch ne.Op {
		case ir.NumAssign:
			next.Numeric[ne.Function] = ne.Value
		case ir.NumIncrease:
			next.Numeric[ne.Function] = prev + ne.Value
		case ir.NumDecrease:
			next.Numeric[ne.Function] = prev - ne.Value
		case ir.NumScaleUp:
			next.Numeric[ne.Function] = prev * ne.Value
		case ir.NumScaleDown:
			next.Numeric[ne.Function] = prev / ne.Value
		}
	}

	r.evaluator.Close(next)

	succ, err := r.store.Pack(next)
	if err != nil {
		return state.State{}, 0, err
	}
	return succ, cost, nil
}

// Grounder returns the grounder this repository was built against.
func (r *Repository) Grounder() *ground.Grounder { return r.grounder }

// Store returns the state store this repository was built against.
func (r *Repository) Store() *state.Store { return r.store }

// Problem returns the problem this repository was built against.
func (r *Repository) Problem() *ir.Problem { return r.problem }
