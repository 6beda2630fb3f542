package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimir-planning/mimir/pkg/planning/applicable"
	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
	"github.com/mimir-planning/mimir/pkg/planning/repo"
	"github.com/mimir-planning/mimir/pkg/planning/slot"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

// buildHallFixture builds a three-room corridor (a - b - c) with one ball
// that must move from room-a to room-c, forcing at least a two-step plan
// so BrFS/IW have more than a trivial goal-at-root case to chew on.
func buildHallFixture(t *testing.T) (*ir.Pool, *ground.Grounder, *repo.Repository) {
	t.Helper()
	pool := ir.NewPool()

	rA := pool.InternObject("room-a")
	rB := pool.InternObject("room-b")
	rC := pool.InternObject("room-c")
	ball := pool.InternObject("ball-1")

	v0 := pool.NewVariable("r1", 0)
	v1 := pool.NewVariable("r2", 1)
	conn := pool.InternPredicate("conn", 2, ir.Static, []int32{v0, v1})

	vb := pool.NewVariable("b", 0)
	vr := pool.NewVariable("r", 1)
	atBall := pool.InternPredicate("at-ball", 2, ir.Fluent, []int32{vb, vr})

	connAtom := pool.InternAtom(conn, []ir.Term{{Var: v0}, {Var: v1}})
	atFrom := pool.InternAtom(atBall, []ir.Term{{Var: -1, Obj: ball}, {Var: v0}})
	atTo := pool.InternAtom(atBall, []ir.Term{{Var: -1, Obj: ball}, {Var: v1}})

	move := ir.ActionSchema{
		Name:          "move",
		Parameters:    []int32{v0, v1},
		OriginalArity: 2,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{v0, v1},
			StaticPositive: []ir.Literal{{Atom: connAtom}},
			FluentPositive: []ir.Literal{{Atom: atFrom}},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{{Atom: atTo}},
			Negative: []ir.Literal{{Atom: atFrom}},
		},
	}
	moveIdx := pool.NewAction(move)
	domain := &ir.Domain{Name: "hall", Actions: []int32{moveIdx}}

	connAB := pool.InternGroundAtom(conn, []int32{rA, rB})
	connBA := pool.InternGroundAtom(conn, []int32{rB, rA})
	connBC := pool.InternGroundAtom(conn, []int32{rB, rC})
	connCB := pool.InternGroundAtom(conn, []int32{rC, rB})
	atBallIdx := pool.InternGroundAtom(atBall, []int32{ball, rA})

	goalAtom := pool.InternAtom(atBall, []ir.Term{{Var: -1, Obj: ball}, {Var: -1, Obj: rC}})

	problem := &ir.Problem{
		Name:    "hall-p",
		Objects: []int32{rA, rB, rC, ball},
		InitStatic: []ir.GroundLiteral{
			{Atom: connAB}, {Atom: connBA}, {Atom: connBC}, {Atom: connCB},
		},
		InitFluent: []ir.GroundLiteral{{Atom: atBallIdx}},
		Goal: ir.ConjunctiveCondition{
			FluentPositive: []ir.Literal{{Atom: goalAtom}},
		},
	}

	g := ground.New(pool, domain, problem, ground.Options{})
	store := state.NewStore(slot.New())
	r, err := repo.New(pool, problem, store, g)
	require.NoError(t, err)
	return pool, g, r
}

func TestBrFSFindsTwoStepPlan(t *testing.T) {
	_, g, r := buildHallFixture(t)
	lifted := applicable.NewLifted(g)
	gen := NewLiftedGenerator(lifted, r.Store())
	goal := GoalFromProblem(g, mustProblem(t, r))

	res := BrFS(context.Background(), r, gen, goal, Options{})
	require.Equal(t, Solved, res.Outcome)
	require.Len(t, res.Plan, 2)
}

func TestIWSolvesWithinArityTwo(t *testing.T) {
	_, g, r := buildHallFixture(t)
	lifted := applicable.NewLifted(g)
	gen := NewLiftedGenerator(lifted, r.Store())
	goal := GoalFromProblem(g, mustProblem(t, r))

	res := IW(context.Background(), r, gen, goal, IWOptions{MaxArity: 2})
	require.Equal(t, Solved, res.Outcome)
	require.Len(t, res.Plan, 2)
}

func TestSIWSolvesSerialised(t *testing.T) {
	_, g, r := buildHallFixture(t)
	lifted := applicable.NewLifted(g)
	gen := NewLiftedGenerator(lifted, r.Store())

	res := SIW(context.Background(), r, gen, r.Problem(), IWOptions{MaxArity: 2})
	require.Equal(t, Solved, res.Outcome)
	require.Len(t, res.Plan, 2)
}

func TestBrFSFindsTwoStepPlanWithGroundedGenerator(t *testing.T) {
	_, g, r := buildHallFixture(t)
	precondOf := func(idx int32) ground.GroundLiteralSet {
		return g.GroundActionByIndex(idx).Precondition
	}
	grounded := applicable.NewGrounded(g.ReachableActions(), precondOf, g.NumFluentAtoms(), g.NumDerivedAtoms())
	gen := NewGroundedGenerator(grounded, g, r.Store())
	goal := GoalFromProblem(g, mustProblem(t, r))

	res := BrFS(context.Background(), r, gen, goal, Options{})
	require.Equal(t, Solved, res.Outcome)
	require.Len(t, res.Plan, 2)
}

// mustProblem exists only to keep the goal-construction call site at the
// BrFS/IW test sites symmetric with SIW's explicit r.Problem() argument.
func mustProblem(t *testing.T, r *repo.Repository) *ir.Problem {
	t.Helper()
	return r.Problem()
}
