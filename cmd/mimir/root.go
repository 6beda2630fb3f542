package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// solveConfig holds every flag spec §6 names for the front-end driver.
type solveConfig struct {
	domainPath  string
	problemPath string
	planPath    string
	maxArity    int
	generator   int
	verbosity   int
}

// NewRootCmd builds the mimir CLI: a single command since the driver has
// exactly one operation (solve a domain/problem pair and write a plan).
func NewRootCmd() *cobra.Command {
	cfg := &solveConfig{}

	cmd := &cobra.Command{
		Use:   "mimir",
		Short: "Ground and solve a classical-planning problem",
		Long: `mimir grounds a PDDL domain/problem pair, runs goal-serialised
iterated-width search (SIW), and writes the resulting plan to a file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSolve(cmd, cfg)
		},
	}

	var flags *pflag.FlagSet = cmd.Flags()
	flags.StringVarP(&cfg.domainPath, "domain", "D", "", "domain file (required)")
	flags.StringVarP(&cfg.problemPath, "problem", "P", "", "problem file (required)")
	flags.StringVarP(&cfg.planPath, "output", "O", "", "plan output file (required)")
	flags.IntVarP(&cfg.maxArity, "arity", "A", 1, "maximum IW arity for SIW")
	flags.IntVarP(&cfg.generator, "generator", "G", 0, "applicable-action generator: 0=lifted, 1=grounded")
	flags.IntVarP(&cfg.verbosity, "verbosity", "V", 0, "verbosity level")

	for _, name := range []string{"domain", "problem", "output"} {
		_ = cmd.MarkFlagRequired(name)
	}

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		fmt.Fprintf(c.OutOrStdout(), "Usage:\n  mimir [flags]\n\nFlags:\n%s\n", flags.FlagUsagesWrapped(80))
		return nil
	})

	return cmd
}
