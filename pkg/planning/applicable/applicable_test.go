package applicable

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimir-planning/mimir/internal/bitset"
	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
	"github.com/mimir-planning/mimir/pkg/planning/slot"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

func buildFixture(t *testing.T) (*ir.Pool, *ground.Grounder, *state.Store) {
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

	connAtom := pool.InternAtom(conn, []ir.Term{{Var: v0}, {Var: v1}})
	atAtomFrom := pool.InternAtom(atBall, []ir.Term{{Var: -1, Obj: ball}, {Var: v0}})
	atAtomTo := pool.InternAtom(atBall, []ir.Term{{Var: -1, Obj: ball}, {Var: v1}})

	move := ir.ActionSchema{
		Name:          "move",
		Parameters:    []int32{v0, v1},
		OriginalArity: 2,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{v0, v1},
			StaticPositive: []ir.Literal{{Atom: connAtom}},
			FluentPositive: []ir.Literal{{Atom: atAtomFrom}},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{{Atom: atAtomTo}},
			Negative: []ir.Literal{{Atom: atAtomFrom}},
		},
	}
	moveIdx := pool.NewAction(move)
	domain := &ir.Domain{Name: "tiny", Actions: []int32{moveIdx}}

	connIdx := pool.InternGroundAtom(conn, []int32{rA, rB})
	atBallIdx := pool.InternGroundAtom(atBall, []int32{ball, rA})
	problem := &ir.Problem{
		Name:       "tiny-p",
		Objects:    []int32{rA, rB, ball},
		InitStatic: []ir.GroundLiteral{{Atom: connIdx}},
		InitFluent: []ir.GroundLiteral{{Atom: atBallIdx}},
	}

	g := ground.New(pool, domain, problem, ground.Options{})

	slots := slot.New()
	store := state.NewStore(slots)
	return pool, g, store
}

// initialState interns the problem's initial fluent/derived/numeric roots
// into a State by hand, mirroring what pkg/planning/repo's InitialState()
// does, so these tests need no repository. at-ball(ball-1,room-a) is the only
// fluent ground atom interned before grounding runs, so it holds dense
// rank 0 (pool.InternGroundAtom assigns ranks in first-intern order).
func initialState(t *testing.T, g *ground.Grounder, store *state.Store) state.State {
	t.Helper()
	fluentRoot, err := store.InternAtoms([]int32{0})
	require.NoError(t, err)
	derivedRoot, err := store.InternAtoms(nil)
	require.NoError(t, err)
	numericRoot, err := store.InternNumeric(nil)
	require.NoError(t, err)
	return store.Intern(fluentRoot, derivedRoot, numericRoot)
}

func TestLiftedActionsFindsMove(t *testing.T) {
	_, g, store := buildFixture(t)
	st := initialState(t, g, store)

	lifted := NewLifted(g)
	var names []string
	lifted.Actions(store, st, func(ga *ground.GroundAction) bool {
		names = append(names, ga.Name(g.Pool()))
		return true
	})
	sort.Strings(names)
	require.Equal(t, []string{"(move room-a room-b)"}, names)
}

// buildNumericFixture is buildFixture plus a fuel>=1 precondition on move
// and a fuel decrease effect, so a numeric constraint actually gates
// applicability and changes value as actions apply.
func buildNumericFixture(t *testing.T) (*ir.Pool, *ground.Grounder, *state.Store, int32) {
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

	fuel := pool.InternFunctionSkeleton("fuel", 0, ir.FuncFluent, nil)

	connAtom := pool.InternAtom(conn, []ir.Term{{Var: v0}, {Var: v1}})
	atAtomFrom := pool.InternAtom(atBall, []ir.Term{{Var: -1, Obj: ball}, {Var: v0}})
	atAtomTo := pool.InternAtom(atBall, []ir.Term{{Var: -1, Obj: ball}, {Var: v1}})

	move := ir.ActionSchema{
		Name:          "move",
		Parameters:    []int32{v0, v1},
		OriginalArity: 2,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{v0, v1},
			StaticPositive: []ir.Literal{{Atom: connAtom}},
			FluentPositive: []ir.Literal{{Atom: atAtomFrom}},
			Numeric:        []ir.NumericConstraint{{Function: fuel, Op: ir.OpGe, Value: 1}},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{{Atom: atAtomTo}},
			Negative: []ir.Literal{{Atom: atAtomFrom}},
			Numeric: []ir.NumericEffect{
				{Function: fuel, Op: ir.NumDecrease, Value: 1},
			},
		},
	}
	moveIdx := pool.NewAction(move)
	domain := &ir.Domain{Name: "tiny", Actions: []int32{moveIdx}}

	connIdx := pool.InternGroundAtom(conn, []int32{rA, rB})
	atBallIdx := pool.InternGroundAtom(atBall, []int32{ball, rA})
	problem := &ir.Problem{
		Name:       "tiny-p",
		Objects:    []int32{rA, rB, ball},
		InitStatic: []ir.GroundLiteral{{Atom: connIdx}},
		InitFluent: []ir.GroundLiteral{{Atom: atBallIdx}},
	}

	g := ground.New(pool, domain, problem, ground.Options{})

	slots := slot.New()
	store := state.NewStore(slots)
	return pool, g, store, fuel
}

// TestGroundedActionsRespectsLiveNumericPrecondition proves the grounded
// match-tree path re-checks a numeric precondition against the dense
// state's current value at walk time, not the problem's frozen initial
// value: move is excluded once fuel has been driven below the threshold
// by a prior numeric effect, even though the action's ground literal
// preconditions (conn, at-ball) still hold.
func TestGroundedActionsRespectsLiveNumericPrecondition(t *testing.T) {
	_, g, _, fuel := buildNumericFixture(t)

	fluent := bitset.New(g.NumFluentAtoms())
	fluent.Set(0) // at-ball(ball-1,room-a), interned first at rank 0

	low := &state.DenseState{
		Fluent:  fluent.Copy(),
		Derived: bitset.New(g.NumDerivedAtoms()),
		Numeric: map[int32]float64{fuel: 0},
	}
	ok := &state.DenseState{
		Fluent:  fluent.Copy(),
		Derived: bitset.New(g.NumDerivedAtoms()),
		Numeric: map[int32]float64{fuel: 1},
	}

	grounded := NewGrounded(g.ReachableActions(), func(idx int32) precondition {
		return g.GroundActionByIndex(idx).Precondition
	}, g.NumFluentAtoms(), g.NumDerivedAtoms())

	var lowNames, okNames []string
	grounded.Actions(low, func(idx int32) bool {
		lowNames = append(lowNames, g.GroundActionByIndex(idx).Name(g.Pool()))
		return true
	})
	grounded.Actions(ok, func(idx int32) bool {
		okNames = append(okNames, g.GroundActionByIndex(idx).Name(g.Pool()))
		return true
	})

	require.Empty(t, lowNames)
	require.Equal(t, []string{"(move room-a room-b)"}, okNames)
}

func TestGroundedActionsMatchesLifted(t *testing.T) {
	_, g, store := buildFixture(t)
	st := initialState(t, g, store)

	grounded := NewGrounded(g.ReachableActions(), func(idx int32) precondition {
		return g.GroundActionByIndex(idx).Precondition
	}, g.NumFluentAtoms(), g.NumDerivedAtoms())

	ds := store.Dense(st, g.NumFluentAtoms(), g.NumDerivedAtoms())
	var names []string
	grounded.Actions(ds, func(idx int32) bool {
		names = append(names, g.GroundActionByIndex(idx).Name(g.Pool()))
		return true
	})
	sort.Strings(names)
	require.Equal(t, []string{"(move room-a room-b)"}, names)
}
