package search

import (
	"context"

	"github.com/mimir-planning/mimir/pkg/planning/events"
	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/repo"
)

// BrFS runs plain breadth-first search from the repository's initial state
// to the first state satisfying goal (spec §4.9): complete and optimal in
// the number of actions, since every edge has an implicit unit step cost
// for search-layer purposes regardless of the domain's declared
// total-cost.
func BrFS(ctx context.Context, r *repo.Repository, gen ActionGenerator, goal Goal, opts Options) Result {
	h := opts.handler()
	d := newDeadline(ctx, opts.Timeout)

	initial, err := r.InitialState()
	if err != nil {
		return Result{Outcome: Exhausted}
	}

	nodes := []node{{state: initial, parent: -1}}
	visited := map[int32]bool{initial.Index: true}
	queue := []int32{0}

	grounder := r.Grounder()
	expanded := 0

	checkGoal := func(idx int32) bool {
		ds := r.Store().Dense(nodes[idx].state, grounder.NumFluentAtoms(), grounder.NumDerivedAtoms())
		return goal(ds)
	}

	if checkGoal(0) {
		h.Solve(0)
		return Result{Outcome: Solved, Plan: nil, Stats: statsFrom(h)}
	}

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
			if visited[succ.Index] {
				h.Prune(succ.Index)
				return true
			}
			visited[succ.Index] = true
			h.Generate(succ.Index)

			nextIdx := int32(len(nodes))
			nodes = append(nodes, node{state: succ, action: ga, parent: curIdx})

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
	return Result{Outcome: Unsolvable, Stats: statsFrom(h)}
}

// statsFrom reads a snapshot off h if it implements the optional
// Statistics() accessor (events.Debug and events.Default both do, Default
// returning the zero value); any other handler contributes the zero value.
func statsFrom(h events.SearchHandler) events.Statistics {
	if sp, ok := h.(interface{ Statistics() events.Statistics }); ok {
		return sp.Statistics()
	}
	return events.Statistics{}
}
