package pddlio

import "github.com/mimir-planning/mimir/pkg/planning/ir"

// BuildVisitAll constructs a visit-every-cell domain over a line of n
// locations: a single agent starts at loc-0 and must step along the static
// link chain to mark every location visited. A derived predicate,
// all-visited, closes over the full conjunction of per-location visited
// atoms via an axiom, and is the sole goal condition — so solving this
// fixture exercises the axiom evaluator, not just plain fluent goals.
func BuildVisitAll(n int) *Fixture {
	pool := ir.NewPool()

	locs := make([]int32, n)
	for i := range locs {
		locs[i] = pool.InternObject(locName(i))
	}

	vFrom, vTo := pool.NewVariable("f", 0), pool.NewVariable("t", 1)
	link := pool.InternPredicate("link", 2, ir.Static, []int32{vFrom, vTo})

	vLoc := pool.NewVariable("l", 0)
	at := pool.InternPredicate("at", 1, ir.Fluent, []int32{vLoc})

	vLoc2 := pool.NewVariable("l", 0)
	visited := pool.InternPredicate("visited", 1, ir.Fluent, []int32{vLoc2})

	allVisited := pool.InternPredicate("all-visited", 0, ir.Derived, nil)

	move := pool.NewAction(buildVisitMove(pool, at, link, visited))

	var bodyLits []ir.Literal
	for _, l := range locs {
		bodyLits = append(bodyLits, lit(pool.InternAtom(visited, []ir.Term{{Var: -1, Obj: l}})))
	}
	allVisitedHead := pool.InternAtom(allVisited, nil)
	axiomIdx := pool.NewAxiom(ir.AxiomSchema{
		Name: "all-visited-axiom",
		Body: ir.ConjunctiveCondition{FluentPositive: bodyLits},
		Head: ir.Literal{Atom: allVisitedHead},
	})

	domain := &ir.Domain{
		Name:    "visitall",
		Actions: []int32{move},
		Axioms:  []int32{axiomIdx},
	}

	var initStatic []ir.GroundLiteral
	for i := 0; i+1 < n; i++ {
		initStatic = append(initStatic,
			ir.GroundLiteral{Atom: pool.InternGroundAtom(link, []int32{locs[i], locs[i+1]})},
			ir.GroundLiteral{Atom: pool.InternGroundAtom(link, []int32{locs[i+1], locs[i]})},
		)
	}

	initFluent := []ir.GroundLiteral{
		{Atom: pool.InternGroundAtom(at, []int32{locs[0]})},
		{Atom: pool.InternGroundAtom(visited, []int32{locs[0]})},
	}

	goalAtom := pool.InternAtom(allVisited, nil)
	problem := &ir.Problem{
		Name:       "visitall-p",
		Objects:    locs,
		InitStatic: initStatic,
		InitFluent: initFluent,
		Goal:       ir.ConjunctiveCondition{DerivedPositive: []ir.Literal{lit(goalAtom)}},
	}

	return &Fixture{Pool: pool, Domain: domain, Problem: problem}
}

func buildVisitMove(pool *ir.Pool, at, link, visited int32) ir.ActionSchema {
	from := pool.NewVariable("from", 0)
	to := pool.NewVariable("to", 1)
	atFromAtom := pool.InternAtom(at, []ir.Term{{Var: from}})
	atToAtom := pool.InternAtom(at, []ir.Term{{Var: to}})
	linkAtom := pool.InternAtom(link, []ir.Term{{Var: from}, {Var: to}})
	visitedToAtom := pool.InternAtom(visited, []ir.Term{{Var: to}})

	return ir.ActionSchema{
		Name:          "move",
		Parameters:    []int32{from, to},
		OriginalArity: 2,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{from, to},
			StaticPositive: []ir.Literal{lit(linkAtom)},
			FluentPositive: []ir.Literal{lit(atFromAtom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(atToAtom), lit(visitedToAtom)},
			Negative: []ir.Literal{lit(atFromAtom)},
		},
	}
}
