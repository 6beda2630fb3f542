package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mimir-planning/mimir/pkg/planning/applicable"
	"github.com/mimir-planning/mimir/pkg/planning/events"
	"github.com/mimir-planning/mimir/pkg/planning/ground"
	"github.com/mimir-planning/mimir/pkg/planning/pddlio"
	"github.com/mimir-planning/mimir/pkg/planning/perrors"
	"github.com/mimir-planning/mimir/pkg/planning/plan"
	"github.com/mimir-planning/mimir/pkg/planning/repo"
	"github.com/mimir-planning/mimir/pkg/planning/search"
	"github.com/mimir-planning/mimir/pkg/planning/slot"
	"github.com/mimir-planning/mimir/pkg/planning/state"
)

// runSolve implements the whole §6 driver: load, ground, search, write.
// Only argument/parse failures return an error (and so exit 1, per §6);
// a search outcome of anything other than SOLVED still exits 0, and the
// plan file then holds the sub-plans SIW completed before it stopped
// (possibly none).
func runSolve(cmd *cobra.Command, cfg *solveConfig) error {
	logger := zap.NewNop()
	if cfg.verbosity > 0 {
		built, err := zap.NewDevelopment()
		if err != nil {
			return perrors.Classify("build-logger", err)
		}
		logger = built
	}
	defer func() { _ = logger.Sync() }()

	fixture, err := pddlio.LoadFixture(cfg.domainPath, cfg.problemPath)
	if err != nil {
		return perrors.Parse("load-fixture", err)
	}

	g := ground.New(fixture.Pool, fixture.Domain, fixture.Problem, ground.Options{Logger: logger})
	store := state.NewStore(slot.New())
	r, err := repo.New(fixture.Pool, fixture.Problem, store, g)
	if err != nil {
		return perrors.Classify("build-repository", err)
	}

	var handler events.SearchHandler = events.Default{}
	if cfg.verbosity > 0 {
		handler = events.NewDebug(logger)
	}

	gen := buildGenerator(cfg.generator, g, r)

	res := search.SIW(context.Background(), r, gen, r.Problem(), search.IWOptions{
		Options:  search.Options{Handler: handler},
		MaxArity: cfg.maxArity,
	})

	if cfg.verbosity > 0 {
		logger.Info("search finished",
			zap.String("outcome", res.Outcome.String()),
			zap.Int("plan_length", len(res.Plan)),
		)
	}

	out, err := os.Create(cfg.planPath)
	if err != nil {
		return perrors.Classify("open-plan-output", err)
	}
	defer out.Close()

	if err := plan.Write(out, fixture.Pool, res.Plan); err != nil {
		return perrors.Classify("write-plan", err)
	}

	return nil
}

// buildGenerator selects the grounded or lifted applicable-action
// generator per spec §6's -G flag.
func buildGenerator(mode int, g *ground.Grounder, r *repo.Repository) search.ActionGenerator {
	if mode == 0 {
		lifted := applicable.NewLifted(g)
		return search.NewLiftedGenerator(lifted, r.Store())
	}
	precondOf := func(idx int32) ground.GroundLiteralSet {
		return g.GroundActionByIndex(idx).Precondition
	}
	grounded := applicable.NewGrounded(g.ReachableActions(), precondOf, g.NumFluentAtoms(), g.NumDerivedAtoms())
	return search.NewGroundedGenerator(grounded, g, r.Store())
}
