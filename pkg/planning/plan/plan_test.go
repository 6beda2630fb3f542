package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/ir"
)

func TestFormatOneActionPerLineNoHeader(t *testing.T) {
	pool := ir.NewPool()
	rA := pool.InternObject("room-a")
	rB := pool.InternObject("room-b")

	v0 := pool.NewVariable("r1", 0)
	v1 := pool.NewVariable("r2", 1)
	move := ir.ActionSchema{
		Name:          "move",
		Parameters:    []int32{v0, v1},
		OriginalArity: 2,
	}
	moveIdx := pool.NewAction(move)

	a1 := &ground.GroundAction{Schema: moveIdx, Binding: []int32{rA, rB}}
	a2 := &ground.GroundAction{Schema: moveIdx, Binding: []int32{rB, rA}}

	out := Format(pool, []*ground.GroundAction{a1, a2})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Equal(t, []string{"(move room-a room-b)", "(move room-b room-a)"}, lines)
}

func TestFormatEmptyPlanIsEmptyString(t *testing.T) {
	pool := ir.NewPool()
	require.Equal(t, "", Format(pool, nil))
}

func TestWriteMatchesFormat(t *testing.T) {
	pool := ir.NewPool()
	rA := pool.InternObject("room-a")
	v0 := pool.NewVariable("r", 0)
	wait := ir.ActionSchema{Name: "wait", Parameters: []int32{v0}, OriginalArity: 1}
	waitIdx := pool.NewAction(wait)
	a := &ground.GroundAction{Schema: waitIdx, Binding: []int32{rA}}

	var b strings.Builder
	require.NoError(t, Write(&b, pool, []*ground.GroundAction{a}))
	require.Equal(t, Format(pool, []*ground.GroundAction{a}), b.String())
}
