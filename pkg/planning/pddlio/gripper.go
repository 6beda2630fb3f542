package pddlio

import "github.com/mimir-planning/mimir/pkg/planning/ir"

// BuildGripper constructs the classic two-room, two-gripper transport
// domain: a robot with a left and right gripper carries balls between
// room-a and room-b. numBalls balls all start in room-a; the goal moves
// every one of them to room-b.
func BuildGripper(numBalls int) *Fixture {
	pool := ir.NewPool()

	roomA := pool.InternObject("room-a")
	roomB := pool.InternObject("room-b")
	left := pool.InternObject("left")
	right := pool.InternObject("right")
	balls := make([]int32, numBalls)
	for i := range balls {
		balls[i] = pool.InternObject(ballName(i))
	}

	vRoom := pool.NewVariable("r", 0)
	atRobby := pool.InternPredicate("at-robby", 1, ir.Fluent, []int32{vRoom})

	vGripper := pool.NewVariable("g", 0)
	free := pool.InternPredicate("free", 1, ir.Fluent, []int32{vGripper})

	vBall, vBallRoom := pool.NewVariable("b", 0), pool.NewVariable("r", 1)
	atBall := pool.InternPredicate("at-ball", 2, ir.Fluent, []int32{vBall, vBallRoom})

	vBall2, vBallGripper := pool.NewVariable("b", 0), pool.NewVariable("g", 1)
	carry := pool.InternPredicate("carry", 2, ir.Fluent, []int32{vBall2, vBallGripper})

	move := pool.NewAction(buildMove(pool, atRobby))
	pick := pool.NewAction(buildPick(pool, atBall, atRobby, free, carry))
	drop := pool.NewAction(buildDrop(pool, carry, atRobby, atBall, free))

	domain := &ir.Domain{
		Name:    "gripper",
		Actions: []int32{move, pick, drop},
	}

	var initFluent []ir.GroundLiteral
	initFluent = append(initFluent,
		ir.GroundLiteral{Atom: pool.InternGroundAtom(atRobby, []int32{roomA})},
		ir.GroundLiteral{Atom: pool.InternGroundAtom(free, []int32{left})},
		ir.GroundLiteral{Atom: pool.InternGroundAtom(free, []int32{right})},
	)
	for _, b := range balls {
		initFluent = append(initFluent, ir.GroundLiteral{Atom: pool.InternGroundAtom(atBall, []int32{b, roomA})})
	}

	goalAtoms := make([]ir.Literal, numBalls)
	for i, b := range balls {
		goalAtom := pool.InternAtom(atBall, []ir.Term{{Var: -1, Obj: b}, {Var: -1, Obj: roomB}})
		goalAtoms[i] = lit(goalAtom)
	}

	objects := append([]int32{roomA, roomB, left, right}, balls...)
	problem := &ir.Problem{
		Name:       "gripper-p",
		Objects:    objects,
		InitFluent: initFluent,
		Goal:       ir.ConjunctiveCondition{FluentPositive: goalAtoms},
	}

	return &Fixture{Pool: pool, Domain: domain, Problem: problem}
}

func ballName(i int) string {
	names := "abcdefghijklmnopqrstuvwxyz"
	if i < len(names) {
		return "ball-" + string(names[i])
	}
	return "ball-extra"
}

func buildMove(pool *ir.Pool, atRobby int32) ir.ActionSchema {
	from := pool.NewVariable("from", 0)
	to := pool.NewVariable("to", 1)
	atFrom := pool.InternAtom(atRobby, []ir.Term{{Var: from}})
	atTo := pool.InternAtom(atRobby, []ir.Term{{Var: to}})
	return ir.ActionSchema{
		Name:          "move",
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

func buildPick(pool *ir.Pool, atBall, atRobby, free, carry int32) ir.ActionSchema {
	ball := pool.NewVariable("ball", 0)
	room := pool.NewVariable("room", 1)
	gripper := pool.NewVariable("gripper", 2)

	atBallAtom := pool.InternAtom(atBall, []ir.Term{{Var: ball}, {Var: room}})
	atRobbyAtom := pool.InternAtom(atRobby, []ir.Term{{Var: room}})
	freeAtom := pool.InternAtom(free, []ir.Term{{Var: gripper}})
	carryAtom := pool.InternAtom(carry, []ir.Term{{Var: ball}, {Var: gripper}})

	return ir.ActionSchema{
		Name:          "pick",
		Parameters:    []int32{ball, room, gripper},
		OriginalArity: 3,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{ball, room, gripper},
			FluentPositive: []ir.Literal{lit(atBallAtom), lit(atRobbyAtom), lit(freeAtom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(carryAtom)},
			Negative: []ir.Literal{lit(atBallAtom), lit(freeAtom)},
		},
	}
}

func buildDrop(pool *ir.Pool, carry, atRobby, atBall, free int32) ir.ActionSchema {
	ball := pool.NewVariable("ball", 0)
	room := pool.NewVariable("room", 1)
	gripper := pool.NewVariable("gripper", 2)

	carryAtom := pool.InternAtom(carry, []ir.Term{{Var: ball}, {Var: gripper}})
	atRobbyAtom := pool.InternAtom(atRobby, []ir.Term{{Var: room}})
	atBallAtom := pool.InternAtom(atBall, []ir.Term{{Var: ball}, {Var: room}})
	freeAtom := pool.InternAtom(free, []ir.Term{{Var: gripper}})

	return ir.ActionSchema{
		Name:          "drop",
		Parameters:    []int32{ball, room, gripper},
		OriginalArity: 3,
		Precondition: ir.ConjunctiveCondition{
			Parameters:     []int32{ball, room, gripper},
			FluentPositive: []ir.Literal{lit(carryAtom), lit(atRobbyAtom)},
		},
		Effect: ir.ConjunctiveEffect{
			Positive: []ir.Literal{lit(atBallAtom), lit(freeAtom)},
			Negative: []ir.Literal{lit(carryAtom)},
		},
	}
}
