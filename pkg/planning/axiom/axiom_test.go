package axiom

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimir-planning/mimir/internal/bitset"
	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
	"github.com/mimir-planning/mimir/pkg/planning/slot"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

// buildRoomsDomain: static conn(r1,r2); derived reachable(r1,r2) defined as
// conn(r1,r2) directly, or conn(r1,mid) and reachable(mid,r2) transitively
// (non-recursive-through-negation, a single stratum).
func buildRoomsDomain(t *testing.T) (*ir.Pool, *ir.Domain, *ir.Problem) {
	t.Helper()
	pool := ir.NewPool()

	rA := pool.InternObject("room-a")
	rB := pool.InternObject("room-b")
	rC := pool.InternObject("room-c")

	v0 := pool.NewVariable("x", 0)
	v1 := pool.NewVariable("y", 1)
	conn := pool.InternPredicate("conn", 2, ir.Static, []int32{v0, v1})

	w0 := pool.NewVariable("x", 0)
	w1 := pool.NewVariable("y", 1)
	reachable := pool.InternPredicate("reachable", 2, ir.Derived, []int32{w0, w1})

	// base case: reachable(x,y) :- conn(x,y)
	connAtomBase := pool.InternAtom(conn, []ir.Term{{Var: w0}, {Var: w1}})
	reachHead1 := pool.InternAtom(reachable, []ir.Term{{Var: w0}, {Var: w1}})
	baseAxiom := pool.NewAxiom(ir.AxiomSchema{
		Name:       "reach-base",
		Parameters: []int32{w0, w1},
		Body: ir.ConjunctiveCondition{
			Parameters:     []int32{w0, w1},
			StaticPositive: []ir.Literal{{Atom: connAtomBase}},
		},
		Head: ir.Literal{Atom: reachHead1},
	})

	// transitive case: reachable(x,y) :- conn(x,m), reachable(m,y)
	m := pool.NewVariable("m", 2)
	connAtomTrans := pool.InternAtom(conn, []ir.Term{{Var: w0}, {Var: m}})
	reachBody := pool.InternAtom(reachable, []ir.Term{{Var: m}, {Var: w1}})
	reachHead2 := pool.InternAtom(reachable, []ir.Term{{Var: w0}, {Var: w1}})
	transAxiom := pool.NewAxiom(ir.AxiomSchema{
		Name:       "reach-trans",
		Parameters: []int32{w0, w1, m},
		Body: ir.ConjunctiveCondition{
			Parameters:      []int32{w0, w1, m},
			StaticPositive:  []ir.Literal{{Atom: connAtomTrans}},
			DerivedPositive: []ir.Literal{{Atom: reachBody}},
		},
		Head: ir.Literal{Atom: reachHead2},
	})

	domain := &ir.Domain{
		Name:       "rooms",
		Predicates: []int32{conn, reachable},
		Axioms:     []int32{baseAxiom, transAxiom},
	}

	connAB := pool.InternGroundAtom(conn, []int32{rA, rB})
	connBC := pool.InternGroundAtom(conn, []int32{rB, rC})
	problem := &ir.Problem{
		Name:    "rooms-p",
		Objects: []int32{rA, rB, rC},
		InitStatic: []ir.GroundLiteral{
			{Atom: connAB},
			{Atom: connBC},
		},
	}

	return pool, domain, problem
}

func TestStratifyPositiveRecursionSingleStratum(t *testing.T) {
	pool, domain, _ := buildRoomsDomain(t)
	strata, err := Stratify(pool, domain)
	require.NoError(t, err)
	require.Len(t, strata, 1)
	require.ElementsMatch(t, domain.Axioms, strata[0])
}

func TestStratifyRejectsNegativeSelfRecursion(t *testing.T) {
	pool := ir.NewPool()
	w0 := pool.NewVariable("x", 0)
	p := pool.InternPredicate("p", 1, ir.Derived, []int32{w0})
	bodyAtom := pool.InternAtom(p, []ir.Term{{Var: w0}})
	headAtom := pool.InternAtom(p, []ir.Term{{Var: w0}})
	bad := pool.NewAxiom(ir.AxiomSchema{
		Name:       "p-not-p",
		Parameters: []int32{w0},
		Body: ir.ConjunctiveCondition{
			Parameters:      []int32{w0},
			DerivedNegative: []ir.Literal{{Atom: bodyAtom, Negated: true}},
		},
		Head: ir.Literal{Atom: headAtom},
	})
	domain := &ir.Domain{Name: "bad", Axioms: []int32{bad}}

	_, err := Stratify(pool, domain)
	require.Error(t, err)
}

func TestEvaluatorClosesTransitiveReachability(t *testing.T) {
	pool, domain, problem := buildRoomsDomain(t)
	g := ground.New(pool, domain, problem, ground.Options{})

	ev, err := NewEvaluator(g)
	require.NoError(t, err)

	slots := slot.New()
	store := state.NewStore(slots)
	ds := &state.DenseState{
		Fluent:  bitset.New(g.NumFluentAtoms()),
		Derived: bitset.New(g.NumDerivedAtoms()),
		Numeric: map[int32]float64{},
	}
	_ = store

	ev.Close(ds)
	require.Equal(t, 3, ds.Derived.Count()) // reachable(a,b), reachable(b,c), reachable(a,c)
}
