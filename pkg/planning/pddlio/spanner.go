package pddlio

import "github.com/mimir-planning/mimir/pkg/planning/ir"

// BuildSpanner constructs a simplified spanner domain: a man walks along a
// chain of locations (gate at the far end), picking up the spanners lying
// one per location before the gate, and must tighten numNuts nuts. Nuts
// have no location in this model: tighten needs only a carried, usable
// spanner, wherever the man stands. Each spanner is usable exactly once,
// so the man needs at least numNuts spanners to succeed.
func BuildSpanner(numNuts int) *Fixture {
	pool := ir.NewPool()

	numLocs := numNuts + 1 // one location per spanner, plus the gate
	locs := make([]int32, numLocs)
	for i := range locs {
		locs[i] = pool.InternObject(locName(i))
	}
	gate := locs[numLocs-1]

	man := pool.InternObject("bob")
	spanners := make([]int32, numNuts)
	for i := range spanners {
		spanners[i] = pool.InternObject(spannerName(i))
	}
	nuts := make([]int32, numNuts)
	for i := range nuts {
		nuts[i] = pool.InternObject(nutName(i))
	}

	vFrom, vTo := pool.NewVariable("f", 0), pool.NewVariable("t", 1)
	link := pool.InternPredicate("link", 2, ir.Static, []int32{vFrom, vTo})

	vLoc := pool.NewVariable("l", 0)
	atMan := pool.InternPredicate("at-man", 1, ir.Fluent, []int32{vLoc})

	vSpanner, vSpannerLoc := pool.NewVariable("s", 0), pool.NewVariable("l", 1)
	atSpanner := pool.InternPredicate("at-spanner", 2, ir.Fluent, []int32{vSpanner, vSpannerLoc})

	vSpanner2 := pool.NewVariable("s", 0)
	carrying := pool.InternPredicate("carrying", 1, ir.Fluent, []int32{vSpanner2})

	vSpanner3 := pool.NewVariable("s", 0)
	usable := pool.InternPredicate("usable", 1, ir.Fluent, []int32{vSpanner3})

	vNut := pool.NewVariable("n", 0)
	tightened := pool.InternPredicate("tightened", 1, ir.Fluent, []int32{vNut})

	walk := pool.NewAction(buildWalk(pool, atMan, link))
	pickupSpanner := pool.NewAction(buildPickupSpanner(pool, atMan, atSpanner, carrying))
	tighten := pool.NewAction(buildTighten(pool, atMan, carrying, usable, tightened))

	domain := &ir.Domain{
		Name:    "spanner",
		Actions: []int32{walk, pickupSpanner, tighten},
	}

	var initStatic []ir.GroundLiteral
	for i := 0; i+1 < numLocs; i++ {
		initStatic = append(initStatic, ir.GroundLiteral{Atom: pool.InternGroundAtom(link, []int32{locs[i], locs[i+1]})})
	}

	initFluent := []ir.GroundLiteral{
		{Atom: pool.InternGroundAtom(atMan, []int32{locs[0]})},
	}
	for i, s := range spanners {
		initFluent = append(initFluent,
			ir.GroundLiteral{Atom: pool.InternGroundAtom(atSpanner, []int32{s, locs[i]})},
			ir.GroundLiteral{Atom: pool.InternGroundAtom(usable, []int32{s})},
		)
	}

	goalLits := make([]ir.Literal, numNuts)
	for i, n := range nuts {
		goalLits[i] = lit(pool.InternAtom(tightened, []ir.Term{{Var: -1, Obj: n}}))
	}
	_ = gate

	objects := append([]int32{man}, locs...)
	objects = append(objects, spanners...)
	objects = append(objects, nuts...)

	problem := &ir.Problem{
		Name:       "spanner-p",
		Objects:    objects,
		InitStatic: initStatic,
		InitFluent: initFluent,
		Goal:       ir.ConjunctiveCondition{FluentPositive: goalLits},
	}

	return &Fixture{Pool: pool, Domain: domain, Problem: problem}
}

func locName(i int) string {
	names := "abcdefghijklmnopqrstuvwxyz"
	if i < len(names) {
		return "loc-" + string(names[i])
	}
	return "loc-extra"
}

func spannerName(i int) string {
	names := "abcdefghijklmnopqrstuvwxyz"
	if i < len(names) {
		return "spanner-" + string(names[i])
	}
	return "spanner-extra"
}

func nutName(i int) string {
	names := "abcdefghijklmnopqrstuvwxyz"
	if i < len(names) {
		return "nut-" + string(names[i])
	}
	return "nut-extra"
}

func buildWalk(pool *ir.Pool, atMan, link int32) ir.ActionSchema {
	from := pool.NewVariable("from", 0)
	to := pool.NewVariable("to", 1)
	atFromAtom := pool.InternAtom(atMan, []ir.Term{{Var: from}})
	atToAtom := pool.InternAtom(atMan, []ir.Term{{Var: to}})
	linkAtom := pool.InternAtom(link, []ir.Term{{Var: from}, {Var: to}})

	return ir.ActionSchema{
		Name:          "walk",
		Parameters:    []int32{from, to},
		OriginalArity: 2,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{from, to},
			StaticPositive: []ir.Literal{lit(linkAtom)},
			FluentPositive: []ir.Literal{lit(atFromAtom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(atToAtom)},
			Negative: []ir.Literal{lit(atFromAtom)},
		},
	}
}

func buildPickupSpanner(pool *ir.Pool, atMan, atSpanner, carrying int32) ir.ActionSchema {
	loc := pool.NewVariable("loc", 0)
	spanner := pool.NewVariable("spanner", 1)
	atManAtom := pool.InternAtom(atMan, []ir.Term{{Var: loc}})
	atSpannerAtom := pool.InternAtom(atSpanner, []ir.Term{{Var: spanner}, {Var: loc}})
	carryingAtom := pool.InternAtom(carrying, []ir.Term{{Var: spanner}})

	return ir.ActionSchema{
		Name:          "pickup-spanner",
		Parameters:    []int32{loc, spanner},
		OriginalArity: 2,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{loc, spanner},
			FluentPositive: []ir.Literal{lit(atManAtom), lit(atSpannerAtom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(carryingAtom)},
			Negative: []ir.Literal{lit(atSpannerAtom)},
		},
	}
}

func buildTighten(pool *ir.Pool, atMan, carrying, usable, tightened int32) ir.ActionSchema {
	loc := pool.NewVariable("loc", 0)
	spanner := pool.NewVariable("spanner", 1)
	nut := pool.NewVariable("nut", 2)
	atManAtom := pool.InternAtom(atMan, []ir.Term{{Var: loc}})
	carryingAtom := pool.InternAtom(carrying, []ir.Term{{Var: spanner}})
	usableAtom := pool.InternAtom(usable, []ir.Term{{Var: spanner}})
	tightenedAtom := pool.InternAtom(tightened, []ir.Term{{Var: nut}})

	return ir.ActionSchema{
		Name:          "tighten",
		Parameters:    []int32{loc, spanner, nut},
		OriginalArity: 3,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{loc, spanner, nut},
			FluentPositive: []ir.Literal{lit(atManAtom), lit(carryingAtom), lit(usableAtom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(tightenedAtom)},
			Negative: []ir.Literal{lit(usableAtom)},
		},
	}
}
