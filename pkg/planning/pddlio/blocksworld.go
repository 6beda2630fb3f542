package pddlio

import "github.com/mimir-planning/mimir/pkg/planning/ir"

// BuildBlocksworld constructs the standard four-operator blocksworld: n
// blocks start stacked in a single tower (block 0 on the table, each
// following block on the one before it); the goal reverses the tower.
func BuildBlocksworld(n int) *Fixture {
	pool := ir.NewPool()

	blocks := make([]int32, n)
	for i := range blocks {
		blocks[i] = pool.InternObject(blockName(i))
	}

	vx := pool.NewVariable("x", 0)
	vy := pool.NewVariable("y", 1)
	on := pool.InternPredicate("on", 2, ir.Fluent, []int32{vx, vy})

	vx2 := pool.NewVariable("x", 0)
	onTable := pool.InternPredicate("ontable", 1, ir.Fluent, []int32{vx2})

	vx3 := pool.NewVariable("x", 0)
	clear := pool.InternPredicate("clear", 1, ir.Fluent, []int32{vx3})

	handempty := pool.InternPredicate("handempty", 0, ir.Fluent, nil)

	vx4 := pool.NewVariable("x", 0)
	holding := pool.InternPredicate("holding", 1, ir.Fluent, []int32{vx4})

	pickup := pool.NewAction(buildPickup(pool, clear, onTable, handempty, holding))
	putdown := pool.NewAction(buildPutdown(pool, holding, onTable, clear, handempty))
	stack := pool.NewAction(buildStack(pool, holding, clear, on, handempty))
	unstack := pool.NewAction(buildUnstack(pool, on, clear, handempty, holding))

	domain := &ir.Domain{
		Name:    "blocksworld",
		Actions: []int32{pickup, putdown, stack, unstack},
	}

	var initFluent []ir.GroundLiteral
	initFluent = append(initFluent, ir.GroundLiteral{Atom: pool.InternGroundAtom(handempty, nil)})
	initFluent = append(initFluent, ir.GroundLiteral{Atom: pool.InternGroundAtom(onTable, []int32{blocks[0]})})
	initFluent = append(initFluent, ir.GroundLiteral{Atom: pool.InternGroundAtom(clear, []int32{blocks[n-1]})})
	for i := 1; i < n; i++ {
		initFluent = append(initFluent, ir.GroundLiteral{Atom: pool.InternGroundAtom(on, []int32{blocks[i], blocks[i-1]})})
	}

	var goalLits []ir.Literal
	goalLits = append(goalLits, lit(pool.InternAtom(onTable, []ir.Term{{Var: -1, Obj: blocks[n-1]}})))
	for i := 0; i < n-1; i++ {
		goalLits = append(goalLits, lit(pool.InternAtom(on, []ir.Term{{Var: -1, Obj: blocks[i]}, {Var: -1, Obj: blocks[i+1]}})))
	}

	problem := &ir.Problem{
		Name:       "blocksworld-p",
		Objects:    blocks,
		InitFluent: initFluent,
		Goal:       ir.ConjunctiveCondition{FluentPositive: goalLits},
	}

	return &Fixture{Pool: pool, Domain: domain, Problem: problem}
}

func blockName(i int) string {
	names := "abcdefghijklmnopqrstuvwxyz"
	if i < len(names) {
		return "block-" + string(names[i])
	}
	return "block-extra"
}

func buildPickup(pool *ir.Pool, clear, onTable, handempty, holding int32) ir.ActionSchema {
	x := pool.NewVariable("x", 0)
	clearAtom := pool.InternAtom(clear, []ir.Term{{Var: x}})
	onTableAtom := pool.InternAtom(onTable, []ir.Term{{Var: x}})
	handemptyAtom := pool.InternAtom(handempty, nil)
	holdingAtom := pool.InternAtom(holding, []ir.Term{{Var: x}})

	return ir.ActionSchema{
		Name:          "pickup",
		Parameters:    []int32{x},
		OriginalArity: 1,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{x},
			FluentPositive: []ir.Literal{lit(clearAtom), lit(onTableAtom), lit(handemptyAtom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(holdingAtom)},
			Negative: []ir.Literal{lit(onTableAtom), lit(clearAtom), lit(handemptyAtom)},
		},
	}
}

func buildPutdown(pool *ir.Pool, holding, onTable, clear, handempty int32) ir.ActionSchema {
	x := pool.NewVariable("x", 0)
	holdingAtom := pool.InternAtom(holding, []ir.Term{{Var: x}})
	onTableAtom := pool.InternAtom(onTable, []ir.Term{{Var: x}})
	clearAtom := pool.InternAtom(clear, []ir.Term{{Var: x}})
	handemptyAtom := pool.InternAtom(handempty, nil)

	return ir.ActionSchema{
		Name:          "putdown",
		Parameters:    []int32{x},
		OriginalArity: 1,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{x},
			FluentPositive: []ir.Literal{lit(holdingAtom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(onTableAtom), lit(clearAtom), lit(handemptyAtom)},
			Negative: []ir.Literal{lit(holdingAtom)},
		},
	}
}

func buildStack(pool *ir.Pool, holding, clear, on, handempty int32) ir.ActionSchema {
	x := pool.NewVariable("x", 0)
	y := pool.NewVariable("y", 1)
	holdingAtom := pool.InternAtom(holding, []ir.Term{{Var: x}})
	clearYAtom := pool.InternAtom(clear, []ir.Term{{Var: y}})
	onAtom := pool.InternAtom(on, []ir.Term{{Var: x}, {Var: y}})
	clearXAtom := pool.InternAtom(clear, []ir.Term{{Var: x}})
	handemptyAtom := pool.InternAtom(handempty, nil)

	return ir.ActionSchema{
		Name:          "stack",
		Parameters:    []int32{x, y},
		OriginalArity: 2,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{x, y},
			FluentPositive: []ir.Literal{lit(holdingAtom), lit(clearYAtom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(onAtom), lit(clearXAtom), lit(handemptyAtom)},
			Negative: []ir.Literal{lit(holdingAtom), lit(clearYAtom)},
		},
	}
}

func buildUnstack(pool *ir.Pool, on, clear, handempty, holding int32) ir.ActionSchema {
	x := pool.NewVariable("x", 0)
	y := pool.NewVariable("y", 1)
	onAtom := pool.InternAtom(on, []ir.Term{{Var: x}, {Var: y}})
	clearXAtom := pool.InternAtom(clear, []ir.Term{{Var: x}})
	handemptyAtom := pool.InternAtom(handempty, nil)
	holdingAtom := pool.InternAtom(holding, []ir.Term{{Var: x}})
	clearYAtom := pool.InternAtom(clear, []ir.Term{{Var: y}})

	return ir.ActionSchema{
		Name:          "unstack",
		Parameters:    []int32{x, y},
		OriginalArity: 2,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{x, y},
			FluentPositive: []ir.Literal{lit(onAtom), lit(clearXAtom), lit(handemptyAtom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(holdingAtom), lit(clearYAtom)},
			Negative: []ir.Literal{lit(onAtom), lit(clearXAtom), lit(handemptyAtom)},
		},
	}
}
