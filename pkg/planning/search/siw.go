package search

import (
	"context"

	"github.com/mimir-planning/mimir/pkg/planning/events"
	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
	"github.com/mimir-planning/mimir/pkg/planning/repo"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

// SIW runs serialised iterated-width search of spec §4.9: it decomposes
// the problem's goal into its individual atom conjuncts and, round by
// round, runs IW from the "current" state toward any state with fewer
// unsatisfied goal atoms than "current" has (goal atoms reached in earlier
// rounds may be undone on the way), replacing "current" with each
// sub-result. This trades IW's width
// guarantees for the ability to reach goals IW(k) alone cannot serialise
// into a single novelty-bounded search; it reports Exhausted (not
// Unsolvable) on the first sub-goal IW cannot solve, for the same
// incompleteness reason IW itself never reports Unsolvable.
func SIW(ctx context.Context, r *repo.Repository, gen ActionGenerator, problem *ir.Problem, opts IWOptions) Result {
	grounder := r.Grounder()

	current, err := r.InitialState()
	if err != nil {
		return Result{Outcome: Exhausted}
	}

	goalAtoms := collectGoalAtoms(grounder, problem)

	var fullPlan []*ground.GroundAction
	var stats events.Statistics

	// Re-scan for the first still-unsatisfied goal atom on every round,
	// rather than assuming earlier atoms stay true once reached: a later
	// sub-plan's side effects can undo an earlier goal atom, and the next
	// round should target whichever atom is actually unsatisfied now.
	for round := 0; round < len(goalAtoms); round++ {
		var pending *goalAtom
		for i := range goalAtoms {
			if !atomSatisfied(r, current, goalAtoms[i]) {
				pending = &goalAtoms[i]
				break
			}
		}
		if pending == nil {
			return Result{Outcome: Solved, Plan: fullPlan, Stats: stats}
		}

		// A round succeeds once the unsatisfied-goal-atom count drops below
		// what it was at the round's start, however that happens — not just
		// when the one atom picked above (for the solved/unsolved check)
		// becomes true.
		baseline := countUnsatisfied(r, current, goalAtoms)
		subGoal := func(ds *state.DenseState) bool {
			return countUnsatisfiedDense(ds, goalAtoms) < baseline
		}

		res := solveSubProblemFrom(ctx, r, gen, current, subGoal, opts)
		stats = res.Stats
		if res.Outcome != Solved {
			return Result{Outcome: Exhausted, Plan: fullPlan, Stats: stats}
		}

		fullPlan = append(fullPlan, res.Plan...)
		current = finalState(r, current, res.Plan)
	}

	if allSatisfied(r, current, goalAtoms) {
		return Result{Outcome: Solved, Plan: fullPlan, Stats: stats}
	}
	return Result{Outcome: Exhausted, Plan: fullPlan, Stats: stats}
}

func allSatisfied(r *repo.Repository, st state.State, atoms []goalAtom) bool {
	for _, a := range atoms {
		if !atomSatisfied(r, st, a) {
			return false
		}
	}
	return true
}

// goalAtom is one conjunct of a (necessarily ground) goal condition.
type goalAtom struct {
	dense   int32
	derived bool
	negated bool
}

// collectGoalAtoms flattens problem.Goal's literal lists into individual
// goal atoms, resolving each lifted (but fully ground, since goal
// conditions carry no parameters) atom to its dense fluent/derived rank.
func collectGoalAtoms(g *ground.Grounder, problem *ir.Problem) []goalAtom {
	pool := g.Pool()
	var out []goalAtom
	add := func(lits []ir.Literal, negated, derived bool) {
		for _, lit := range lits {
			atom := pool.Atom(lit.Atom)
			objs := make([]int32, len(atom.Terms))
			for i, t := range atom.Terms {
				objs[i] = t.Obj
			}
			gidx := pool.InternGroundAtom(atom.Predicate, objs)
			out = append(out, goalAtom{dense: pool.DenseRank(gidx), derived: derived, negated: negated})
		}
	}
	add(problem.Goal.FluentPositive, false, false)
	add(problem.Goal.FluentNegative, true, false)
	add(problem.Goal.DerivedPositive, false, true)
	add(problem.Goal.DerivedNegative, true, true)
	return out
}

func testAtom(ga goalAtom, ds *state.DenseState) bool {
	var holds bool
	if ga.derived {
		holds = ds.Derived.Test(int(ga.dense))
	} else {
		holds = ds.Fluent.Test(int(ga.dense))
	}
	return holds != ga.negated
}

func atomSatisfied(r *repo.Repository, st state.State, ga goalAtom) bool {
	g := r.Grounder()
	ds := r.Store().Dense(st, g.NumFluentAtoms(), g.NumDerivedAtoms())
	return testAtom(ga, ds)
}

// countUnsatisfiedDense counts how many of atoms are false in ds.
func countUnsatisfiedDense(ds *state.DenseState, atoms []goalAtom) int {
	n := 0
	for _, a := range atoms {
		if !testAtom(a, ds) {
			n++
		}
	}
	return n
}

// countUnsatisfied is countUnsatisfiedDense over an interned state.State.
func countUnsatisfied(r *repo.Repository, st state.State, atoms []goalAtom) int {
	g := r.Grounder()
	ds := r.Store().Dense(st, g.NumFluentAtoms(), g.NumDerivedAtoms())
	return countUnsatisfiedDense(ds, atoms)
}

// solveSubProblemFrom is IW's escalating-arity loop run against an
// explicit start state and a private sub-goal rather than the problem's
// own initial state and full goal (SIW drives iwLayerFrom directly so it
// can search from an intermediate state).
func solveSubProblemFrom(ctx context.Context, r *repo.Repository, gen ActionGenerator, start state.State, subGoal Goal, opts IWOptions) Result {
	maxArity := opts.MaxArity
	if maxArity <= 0 {
		maxArity = 2
	}

	grounder := r.Grounder()
	universe := grounder.NumFluentAtoms() + grounder.NumDerivedAtoms()

	var lastStats events.Statistics
	for k := 1; k <= maxArity; k++ {
		tbl, err := noveltyTable(universe, k)
		if err != nil {
			break
		}
		res := iwLayerFrom(ctx, r, gen, start, subGoal, opts.Options, tbl)
		lastStats = res.Stats
		if res.Outcome == Solved || res.Outcome == TimedOut {
			return res
		}
	}
	return Result{Outcome: Exhausted, Stats: lastStats}
}

// finalState replays plan from start through the repository, returning the
// resulting state; SIW keeps the search node table internal to each
// iwLayerFrom call, so it re-derives the successor state from the plan it
// was handed rather than threading state.State pointers across calls.
func finalState(r *repo.Repository, start state.State, plan []*ground.GroundAction) state.State {
	cur := start
	for _, ga := range plan {
		next, _, err := r.Apply(cur, ga)
		if err != nil {
			return cur
		}
		cur = next
	}
	return cur
}
