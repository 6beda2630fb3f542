package search

import (
	"context"

	"github.com/mimir-planning/mimir/pkg/planning/events"
	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/novelty"
	"github.com/mimir-planning/mimir/pkg/planning/repo"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

// noveltyTable wraps novelty.New, named so search.go and siw.go share one
// call site for the "table too large at this width" bail-out.
func noveltyTable(universe, arity int) (*novelty.Table, error) {
	return novelty.New(universe, arity)
}

// IWOptions configures an IW run in addition to the shared Options.
type IWOptions struct {
	Options
	// MaxArity bounds how far IW escalates its novelty width (spec §4.9:
	// "IW(k) ... escalates k from 1 until either a goal is found or k
	// exceeds a caller-supplied maximum"). Zero defaults to 2, the
	// standard IW(1)/IW(2) pairing.
	MaxArity int
}

// IW runs iterated-width search of spec §4.9: for each width k = 1 up to
// opts.MaxArity, it runs a single BrFS-shaped exploration in which a
// successor is only enqueued if novelty.Table.TestNovel(k) reports it
// introduces an atom-tuple combination not yet seen at that width. The
// first width whose exploration reaches the goal wins; if every width up
// to MaxArity exhausts without reaching the goal, IW reports Exhausted
// (never Unsolvable: width-bounded search is incomplete, so exhaustion is
// not proof of unsolvability).
func IW(ctx context.Context, r *repo.Repository, gen ActionGenerator, goal Goal, opts IWOptions) Result {
	maxArity := opts.MaxArity
	if maxArity <= 0 {
		maxArity = 2
	}

	initial, err := r.InitialState()
	if err != nil {
		return Result{Outcome: Exhausted}
	}

	grounder := r.Grounder()
	universe := grounder.NumFluentAtoms() + grounder.NumDerivedAtoms()

	var lastStats events.Statistics
	for k := 1; k <= maxArity; k++ {
		tbl, err := noveltyTable(universe, k)
		if err != nil {
			// The table would be too large at this width; escalating
			// further can only make it larger, so stop here.
			break
		}
		res := iwLayerFrom(ctx, r, gen, initial, goal, opts.Options, tbl)
		lastStats = res.Stats
		if res.Outcome == Solved || res.Outcome == TimedOut {
			return res
		}
	}
	return Result{Outcome: Exhausted, Stats: lastStats}
}

// iwLayerFrom runs one fixed-width novelty-pruned BrFS exploration
// starting at start (spec §4.9; SIW reuses this to search from an
// intermediate state rather than the problem's own initial state).
func iwLayerFrom(ctx context.Context, r *repo.Repository, gen ActionGenerator, start state.State, goal Goal, opts Options, tbl *novelty.Table) Result {
	h := opts.handler()
	d := newDeadline(ctx, opts.Timeout)

	grounder := r.Grounder()
	nodes := []node{{state: start, parent: -1}}
	queue := []int32{0}

	denseAtoms := func(idx int32) []int32 {
		ds := r.Store().Dense(nodes[idx].state, grounder.NumFluentAtoms(), grounder.NumDerivedAtoms())
		out := make([]int32, 0, ds.Fluent.Count()+ds.Derived.Count())
		ds.Fluent.Each(func(i int) { out = append(out, int32(i)) })
		ds.Derived.Each(func(i int) { out = append(out, int32(grounder.NumFluentAtoms()+i)) })
		return out
	}

	checkGoal := func(idx int32) bool {
		ds := r.Store().Dense(nodes[idx].state, grounder.NumFluentAtoms(), grounder.NumDerivedAtoms())
		return goal(ds)
	}

	// The root always counts as novel (spec §4.8: the first state seen at
	// any width is always novel), so its atom tuples seed the table.
	tbl.TestNovel(denseAtoms(0))

	if checkGoal(0) {
		h.Solve(0)
		return Result{Outcome: Solved, Stats: statsFrom(h)}
	}

	expanded := 0
	for len(queue) > 0 {
		if d.expired() {
			return Result{Outcome: TimedOut, Stats: statsFrom(h)}
		}
		if opts.MaxExpansions > 0 && expanded >= opts.MaxExpansions {
			return Result{Outcome: TimedOut, Stats: statsFrom(h)}
		}

		curIdx := queue[0]
		queue = queue[1:]
		h.Expand(nodes[curIdx].state.Index)
		expanded++

		cur := nodes[curIdx].state
		stop := false
		var solvedAt int32 = -1
		gen(cur, func(ga *ground.GroundAction) bool {
			succ, _, err := r.Apply(cur, ga)
			if err != nil {
				return true
			}
			nextIdx := int32(len(nodes))
			nodes = append(nodes, node{state: succ, action: ga, parent: curIdx})

			if !tbl.TestNovel(denseAtoms(nextIdx)) {
				h.Prune(succ.Index)
				nodes = nodes[:nextIdx]
				return true
			}
			h.Generate(succ.Index)

			if checkGoal(nextIdx) {
				solvedAt = nextIdx
				stop = true
				return false
			}
			queue = append(queue, nextIdx)
			return true
		})
		if stop {
			plan := reconstructPlan(nodes, solvedAt)
			h.Solve(len(plan))
			return Result{Outcome: Solved, Plan: plan, Stats: statsFrom(h)}
		}
	}

	h.Exhaust()
	return Result{Outcome: Exhausted, Stats: statsFrom(h)}
}
