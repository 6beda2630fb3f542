// Package search implements the search algorithms of spec §4.9: plain
// breadth-first search (BrFS), width-bounded iterated-width search (IW),
// and its goal-serialised variant (SIW).
//
// Grounded on gokando's search.go (DFSSearch's iterative open-list shape,
// here rendered as a FIFO queue instead of a stack) and strategy.go
// (pluggable strategy selection, mirrored by IW's escalating-arity loop);
// events carries every observer hook so the core loop never depends on a
// concrete handler.
package search

import (
	"context"
	"time"

	"github.com/mimir-planning/mimir/pkg/planning/events"
	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
	"github.com/mimir-planning/mimir/pkg/planning/novelty"
	"github.com/mimir-planning/mimir/pkg/planning/repo"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

// Outcome is the terminal status of a search run (spec §4.9).
type Outcome int

const (
	// Exhausted means the open list emptied without reaching a goal state:
	// the problem is unsolvable within the explored state space.
	Exhausted Outcome = iota
	// Solved means a goal state was reached; Result.Plan carries the path.
	Solved
	// Unsolvable means the search algorithm proved no plan exists (IW/SIW
	// report Exhausted instead, since width-bounded search is incomplete;
	// this value is reserved for algorithms that are complete over the
	// full state space, i.e. BrFS).
	Unsolvable
	// TimedOut means Options.Timeout or ctx elapsed before the
	// search reached a terminal state.
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Solved:
		return "solved"
	case Unsolvable:
		return "unsolvable"
	case TimedOut:
		return "timed-out"
	default:
		return "exhausted"
	}
}

// Result is what every search algorithm in this package returns.
type Result struct {
	Outcome Outcome
	Plan    []*ground.GroundAction
	Stats   events.Statistics
}

// Goal evaluates whether a dense state satisfies a problem's goal
// condition.
type Goal func(ds *state.DenseState) bool

// GoalFromProblem builds a Goal closure over problem.Goal: since a goal
// condition's literals are never parameterised (Problem.Goal.Parameters is
// always empty — every term is a constant object), it can be checked with
// grounder.VerifyCondition and an empty binding.
func GoalFromProblem(g *ground.Grounder, problem *ir.Problem) Goal {
	return func(ds *state.DenseState) bool {
		return g.VerifyCondition(problem.Goal, nil, ds)
	}
}

// Options configures a search run (spec §4.9).
type Options struct {
	// MaxExpansions bounds how many states may be popped from the open
	// list before the run reports Exhausted/TimedOut instead of
	// continuing indefinitely (spec §7 resource exhaustion). Zero means
	// unbounded.
	MaxExpansions int
	// Timeout bounds wall-clock time; zero means unbounded.
	Timeout time.Duration
	// Handler receives expand/generate/prune/solve/exhaust events. A nil
	// Handler is replaced with events.Default.
	Handler events.SearchHandler
}

func (o Options) handler() events.SearchHandler {
	if o.Handler == nil {
		return events.Default{}
	}
	return o.Handler
}

// node is one entry in a BrFS/IW search tree: the state it represents,
// the ground action taken to reach it, and a pointer to its parent node
// (spec §4.9's plan-reconstruction-via-parent-pointers description).
type node struct {
	state  state.State
	action *ground.GroundAction
	parent int32 // index into the algorithm's node table, -1 for the root
}

// reconstructPlan walks parent pointers from leaf back to the root,
// reversing the order along the way.
func reconstructPlan(nodes []node, leaf int32) []*ground.GroundAction {
	var rev []*ground.GroundAction
	for i := leaf; i != -1; i = nodes[i].parent {
		if nodes[i].action != nil {
			rev = append(rev, nodes[i].action)
		}
	}
	plan := make([]*ground.GroundAction, len(rev))
	for i, a := range rev {
		plan[len(rev)-1-i] = a
	}
	return plan
}

// deadline bundles a context and a wall-clock cutoff so every algorithm's
// open-list loop can check both with one call.
type deadline struct {
	ctx context.Context
	at  time.Time
}

func newDeadline(ctx context.Context, timeout time.Duration) deadline {
	d := deadline{ctx: ctx}
	if timeout > 0 {
		d.at = time.Now().Add(timeout)
	}
	return d
}

func (d deadline) expired() bool {
	if d.ctx != nil && d.ctx.Err() != nil {
		return true
	}
	return !d.at.IsZero() && time.Now().After(d.at)
}

// ActionGenerator enumerates the ground actions applicable in st, yielding
// each until the caller signals stop. *applicable.Lifted satisfies this
// via its Actions method once its receiver/store argument pair is bound by
// a small closure (see NewLiftedGenerator).
type ActionGenerator func(st state.State, yield func(*ground.GroundAction) bool)

// NewLiftedGenerator adapts an applicable.Lifted generator and the
// repository's state store into an ActionGenerator for search.
func NewLiftedGenerator(lifted interface {
	Actions(store *state.Store, st state.State, yield func(*ground.GroundAction) bool)
}, store *state.Store) ActionGenerator {
	return func(st state.State, yield func(*ground.GroundAction) bool) {
		lifted.Actions(store, st, yield)
	}
}

// NewGroundedGenerator adapts an applicable.Grounded match-tree walk (which
// yields int32 ground-action dense indices, element-type agnostic) back
// into an ActionGenerator by resolving each index through the grounder
// that built them.
func NewGroundedGenerator(grounded interface {
	Actions(ds *state.DenseState, yield func(elem int32) bool)
}, g *ground.Grounder, store *state.Store) ActionGenerator {
	return func(st state.State, yield func(*ground.GroundAction) bool) {
		ds := store.Dense(st, g.NumFluentAtoms(), g.NumDerivedAtoms())
		grounded.Actions(ds, func(idx int32) bool {
			return yield(g.GroundActionByIndex(idx))
		})
	}
}
