package pddlio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimir-planning/mimir/pkg/planning/applicable"
	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/repo"
	"github.com/mimir-planning/mimir/pkg/planning/search"
	"github.com/mimir-planning/mimir/pkg/planning/slot"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

// solve grounds and builds a repository for f, then runs BrFS to completion,
// the shared smoke-test shape every fixture below uses.
func solve(t *testing.T, f *Fixture) search.Result {
	t.Helper()
	g := ground.New(f.Pool, f.Domain, f.Problem, ground.Options{})
	store := state.NewStore(slot.New())
	r, err := repo.New(f.Pool, f.Problem, store, g)
	require.NoError(t, err)

	lifted := applicable.NewLifted(g)
	gen := search.NewLiftedGenerator(lifted, r.Store())
	goal := search.GoalFromProblem(g, r.Problem())

	return search.BrFS(context.Background(), r, gen, goal, search.Options{})
}

func TestGripperFixtureSolves(t *testing.T) {
	res := solve(t, BuildGripper(2))
	require.Equal(t, search.Solved, res.Outcome)
	require.NotEmpty(t, res.Plan)
}

func TestBlocksworldFixtureSolves(t *testing.T) {
	res := solve(t, BuildBlocksworld(3))
	require.Equal(t, search.Solved, res.Outcome)
	require.NotEmpty(t, res.Plan)
}

func TestFerryFixtureSolves(t *testing.T) {
	res := solve(t, BuildFerry(2))
	require.Equal(t, search.Solved, res.Outcome)
	require.NotEmpty(t, res.Plan)
}

func TestSpannerFixtureSolves(t *testing.T) {
	res := solve(t, BuildSpanner(2))
	require.Equal(t, search.Solved, res.Outcome)
	require.NotEmpty(t, res.Plan)
}

func TestVisitAllFixtureSolves(t *testing.T) {
	res := solve(t, BuildVisitAll(4))
	require.Equal(t, search.Solved, res.Outcome)
	require.NotEmpty(t, res.Plan)
}

func TestLoadFixtureMatchesByDomainFileName(t *testing.T) {
	f, err := LoadFixture("/problems/gripper/domain.pddl", "/problems/gripper/p01.pddl")
	require.NoError(t, err)
	require.Equal(t, "gripper", f.Domain.Name)

	f, err = LoadFixture("blocksworld-domain.pddl", "blocksworld-p1.pddl")
	require.NoError(t, err)
	require.Equal(t, "blocksworld", f.Domain.Name)
}

func TestLoadFixtureUnknownNameErrors(t *testing.T) {
	_, err := LoadFixture("mystery-domain.pddl", "mystery-p1.pddl")
	require.Error(t, err)
}
