package pddlio

import "github.com/mimir-planning/mimir/pkg/planning/ir"

// BuildFerry constructs the classic car-ferry domain: a single ferry with
// one-car capacity sails between locA and locB, carrying numCars cars that
// all start at locA and must all end at locB.
func BuildFerry(numCars int) *Fixture {
	pool := ir.NewPool()

	locA := pool.InternObject("loc-a")
	locB := pool.InternObject("loc-b")
	cars := make([]int32, numCars)
	for i := range cars {
		cars[i] = pool.InternObject(carName(i))
	}

	vLoc := pool.NewVariable("l", 0)
	atFerry := pool.InternPredicate("at-ferry", 1, ir.Fluent, []int32{vLoc})

	vCar, vCarLoc := pool.NewVariable("c", 0), pool.NewVariable("l", 1)
	atCar := pool.InternPredicate("at", 2, ir.Fluent, []int32{vCar, vCarLoc})

	vCar2 := pool.NewVariable("c", 0)
	on := pool.InternPredicate("on", 1, ir.Fluent, []int32{vCar2})

	emptyFerry := pool.InternPredicate("empty-ferry", 0, ir.Fluent, nil)

	sail := pool.NewAction(buildSail(pool, atFerry))
	board := pool.NewAction(buildBoard(pool, atFerry, atCar, emptyFerry, on))
	debark := pool.NewAction(buildDebark(pool, on, atFerry, atCar, emptyFerry))

	domain := &ir.Domain{
		Name:    "ferry",
		Actions: []int32{sail, board, debark},
	}

	initFluent := []ir.GroundLiteral{
		{Atom: pool.InternGroundAtom(atFerry, []int32{locA})},
		{Atom: pool.InternGroundAtom(emptyFerry, nil)},
	}
	for _, c := range cars {
		initFluent = append(initFluent, ir.GroundLiteral{Atom: pool.InternGroundAtom(atCar, []int32{c, locA})})
	}

	goalLits := make([]ir.Literal, numCars)
	for i, c := range cars {
		goalLits[i] = lit(pool.InternAtom(atCar, []ir.Term{{Var: -1, Obj: c}, {Var: -1, Obj: locB}}))
	}

	problem := &ir.Problem{
		Name:       "ferry-p",
		Objects:    append([]int32{locA, locB}, cars...),
		InitFluent: initFluent,
		Goal:       ir.ConjunctiveCondition{FluentPositive: goalLits},
	}

	return &Fixture{Pool: pool, Domain: domain, Problem: problem}
}

func carName(i int) string {
	names := "abcdefghijklmnopqrstuvwxyz"
	if i < len(names) {
		return "car-" + string(names[i])
	}
	return "car-extra"
}

func buildSail(pool *ir.Pool, atFerry int32) ir.ActionSchema {
	from := pool.NewVariable("from", 0)
	to := pool.NewVariable("to", 1)
	atFrom := pool.InternAtom(atFerry, []ir.Term{{Var: from}})
	atTo := pool.InternAtom(atFerry, []ir.Term{{Var: to}})
	return ir.ActionSchema{
		Name:          "sail",
		Parameters:    []int32{from, to},
		OriginalArity: 2,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{from, to},
			FluentPositive: []ir.Literal{lit(atFrom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(atTo)},
			Negative: []ir.Literal{lit(atFrom)},
		},
	}
}

func buildBoard(pool *ir.Pool, atFerry, atCar, emptyFerry, on int32) ir.ActionSchema {
	car := pool.NewVariable("car", 0)
	loc := pool.NewVariable("loc", 1)
	atFerryAtom := pool.InternAtom(atFerry, []ir.Term{{Var: loc}})
	atCarAtom := pool.InternAtom(atCar, []ir.Term{{Var: car}, {Var: loc}})
	emptyAtom := pool.InternAtom(emptyFerry, nil)
	onAtom := pool.InternAtom(on, []ir.Term{{Var: car}})

	return ir.ActionSchema{
		Name:          "board",
		Parameters:    []int32{car, loc},
		OriginalArity: 2,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{car, loc},
			FluentPositive: []ir.Literal{lit(atFerryAtom), lit(atCarAtom), lit(emptyAtom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(onAtom)},
			Negative: []ir.Literal{lit(atCarAtom), lit(emptyAtom)},
		},
	}
}

func buildDebark(pool *ir.Pool, on, atFerry, atCar, emptyFerry int32) ir.ActionSchema {
	car := pool.NewVariable("car", 0)
	loc := pool.NewVariable("loc", 1)
	onAtom := pool.InternAtom(on, []ir.Term{{Var: car}})
	atFerryAtom := pool.InternAtom(atFerry, []ir.Term{{Var: loc}})
	atCarAtom := pool.InternAtom(atCar, []ir.Term{{Var: car}, {Var: loc}})
	emptyAtom := pool.InternAtom(emptyFerry, nil)

	return ir.ActionSchema{
		Name:          "debark",
		Parameters:    []int32{car, loc},
		OriginalArity: 2,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{car, loc},
			FluentPositive: []ir.Literal{lit(onAtom), lit(atFerryAtom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(atCarAtom), lit(emptyAtom)},
			Negative: []ir.Literal{lit(onAtom)},
		},
	}
}
