package repo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
	"github.com/mimir-planning/mimir/pkg/planning/slot"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

func buildMoveFixture(t *testing.T) (*ir.Pool, *ir.Domain, *ir.Problem, int32) {
	t.Helper()
	pool := ir.NewPool()

	rA := pool.InternObject("room-a")
	rB := pool.InternObject("room-b")
	ball := pool.InternObject("ball-1")

	v0 := pool.NewVariable("r1", 0)
	v1 := pool.NewVariable("r2", 1)
	conn := pool.InternPredicate("conn", 2, ir.Static, []int32{v0, v1})

	vb := pool.NewVariable("b", 0)
	vr := pool.NewVariable("r", 1)
	atBall := pool.InternPredicate("at-ball", 2, ir.Fluent, []int32{vb, vr})

	totalCost := pool.InternFunctionSkeleton("total-cost", 0, ir.FuncAuxiliary, nil)

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
			Numeric: []ir.NumericEffect{
				{Function: totalCost, Op: ir.NumIncrease, Value: 3},
			},
		},
	}
	moveIdx := pool.NewAction(move)
	domain := &ir.Domain{Name: "tiny", Actions: []int32{moveIdx}}

	connIdx := pool.InternGroundAtom(conn, []int32{rA, rB})
	atBallIdx := pool.InternGroundAtom(atBall, []int32{ball, rA})
	problem := &ir.Problem{
		Name:        "tiny-p",
		Objects:     []int32{rA, rB, ball},
		InitStatic:  []ir.GroundLiteral{{Atom: connIdx}},
		InitFluent:  []ir.GroundLiteral{{Atom: atBallIdx}},
		InitNumeric: map[int32]float64{totalCost: 0},
	}
	return pool, domain, problem, totalCost
}

func TestApplyMovesAndAccumulatesCost(t *testing.T) {
	pool, domain, problem, totalCost := buildMoveFixture(t)
	g := ground.New(pool, domain, problem, ground.Options{})

	store := state.NewStore(slot.New())
	r, err := New(pool, problem, store, g)
	require.NoError(t, err)

	initial, err := r.InitialState()
	require.NoError(t, err)

	ga := g.GroundActionByIndex(0)
	next, cost, err := r.Apply(initial, ga)
	require.NoError(t, err)
	require.Equal(t, 3.0, cost)

	// total-cost is auxiliary (cost bookkeeping, spec.md:194): Apply's
	// returned cost carries it, but it never enters the packed numeric
	// tuple that participates in state identity.
	ds := store.Dense(next, g.NumFluentAtoms(), g.NumDerivedAtoms())
	_, tracked := ds.Numeric[totalCost]
	require.False(t, tracked)
}

// TestInitialStateIgnoresAuxiliaryCostForIdentity confirms two problems that
// differ only in their auxiliary total-cost's initial value, but agree on
// every fluent, intern to the same State: auxiliary functions are cost
// bookkeeping, not world state, so they must not affect content-addressing
// (spec §2/§3.3).
func TestInitialStateIgnoresAuxiliaryCostForIdentity(t *testing.T) {
	pool, domain, problem, totalCost := buildMoveFixture(t)
	store := state.NewStore(slot.New())

	gA := ground.New(pool, domain, problem, ground.Options{})
	rA, err := New(pool, problem, store, gA)
	require.NoError(t, err)
	stA, err := rA.InitialState()
	require.NoError(t, err)

	problemB := &ir.Problem{
		Name:        problem.Name,
		Objects:     problem.Objects,
		InitStatic:  problem.InitStatic,
		InitFluent:  problem.InitFluent,
		InitNumeric: map[int32]float64{totalCost: 100},
	}
	gB := ground.New(pool, domain, problemB, ground.Options{})
	rB, err := New(pool, problemB, store, gB)
	require.NoError(t, err)
	stB, err := rB.InitialState()
	require.NoError(t, err)

	require.Equal(t, stA.Index, stB.Index)
}

func TestApplyIsPure(t *testing.T) {
	pool, domain, problem, _ := buildMoveFixture(t)
	g := ground.New(pool, domain, problem, ground.Options{})

	store := state.NewStore(slot.New())
	r, err := New(pool, problem, store, g)
	require.NoError(t, err)

	initial, err := r.InitialState()
	require.NoError(t, err)
	ga := g.GroundActionByIndex(0)

	a, costA, err := r.Apply(initial, ga)
	require.NoError(t, err)
	b, costB, err := r.Apply(initial, ga)
	require.NoError(t, err)

	require.Equal(t, a.Index, b.Index)
	require.Equal(t, costA, costB)
}
