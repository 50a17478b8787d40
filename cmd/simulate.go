package cmd

import (
	"context"
	"flag"
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/etnz/dcf"
	"github.com/etnz/dcf/renderer"
	"github.com/google/subcommands"
)

// simulateCmd holds the flags for the 'simulate' subcommand.
type simulateCmd struct {
	scenarioFlags
	outputFlags
	draws     int
	batchSize int
	seed      uint64
	engine    string
	growth    string
	discount  string
	interest  string
	bins      int
	quiet     bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "run a Monte Carlo simulation of a valuation" }
func (*simulateCmd) Usage() string {
	return `pvs simulate (-f <scenario file> | -p <property>) [-n <draws>] [-growth <dist>] [-discount <dist>] [-interest <dist>]

  Draws the rent growth, discount and interest rates from distributions and reports the
  statistics of the NPV and IRR of the draws. Distributions are written
  "normal(mean, stddev)", "pareto(mean, shape)" or as a constant number. A rate without
  distribution keeps its value in the scenario. See 'pvs topic simulation'.

Usage Examples:
$ pvs simulate -f flat.yaml -growth "normal(2, 1)" -discount "normal(15, 2)"
$ pvs simulate -p "1 Main St" -n 100000 -q '$.summary.probability_npv_positive'
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	c.scenarioFlags.SetFlags(f)
	c.outputFlags.SetFlags(f)
	f.IntVar(&c.draws, "n", 10000, "Number of draws.")
	f.IntVar(&c.batchSize, "batch", 0, "Draws per batch, one percent of the draws by default.")
	f.Uint64Var(&c.seed, "seed", 0, "Seed of the draws, PVS_SEED or the clock by default.")
	f.StringVar(&c.engine, "engine", "vectorized", "Simulation engine: exact or vectorized.")
	f.StringVar(&c.growth, "growth", "", "Distribution of the annual rent growth, in percent.")
	f.StringVar(&c.discount, "discount", "", "Distribution of the discount rate, in percent.")
	f.StringVar(&c.interest, "interest", "", "Distribution of the interest rate, in percent.")
	f.IntVar(&c.bins, "bins", 10, "Number of bars of the NPV histogram, 0 to skip it.")
	f.BoolVar(&c.quiet, "quiet", false, "Do not print the progress.")
}

// simulation builds the simulation of a.
func (c *simulateCmd) simulation(a dcf.Assumptions) (dcf.Simulation, error) {
	sim := dcf.Simulation{Base: a, Count: c.draws, BatchSize: c.batchSize, Seed: dcf.SeedOf(c.seed, config.Seed)}
	rates := []struct {
		text string
		dist *dcf.Distribution
	}{
		{c.growth, &sim.Growth},
		{c.discount, &sim.Discount},
		{c.interest, &sim.Interest},
	}
	for _, r := range rates {
		if r.text == "" {
			continue
		}
		d, err := dcf.ParseDistribution(r.text)
		if err != nil {
			return sim, err
		}
		*r.dist = d
	}
	return sim, sim.Validate()
}

func (c *simulateCmd) run(sim dcf.Simulation) (iter.Seq2[dcf.Batch, error], error) {
	switch c.engine {
	case "exact":
		return dcf.Simulate(sim), nil
	case "vectorized":
		return dcf.SimulateVectorized(sim), nil
	default:
		return nil, fmt.Errorf("unknown engine %q, want exact or vectorized", c.engine)
	}
}

func (c *simulateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	scenarios, err := c.load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	var md strings.Builder
	var results []*dcf.SimulationResult
	for _, s := range scenarios {
		sim, err := c.simulation(s.Assumptions)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error in %s: %v\n", s.title, err)
			return subcommands.ExitUsageError
		}
		seq, err := c.run(sim)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		res, err := dcf.Run(seq, c.progress(s.title))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error in %s: %v\n", s.title, err)
			return subcommands.ExitFailure
		}
		results = append(results, res)

		view := renderer.NewSimulation(s.title, c.engine, sim, res, config.Currency, c.bins)
		md.WriteString(renderer.RenderSimulation(view, renderer.SimulationRenderOptions{SkipHistogram: c.bins <= 0}))
		md.WriteString("\n")
	}

	var data any = results
	if len(results) == 1 {
		data = results[0]
	}
	if err := c.print(os.Stdout, md.String(), data); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// progress returns the callback printing the progress of a simulation on stderr.
func (c *simulateCmd) progress(title string) func(dcf.Batch) {
	if c.quiet {
		return nil
	}
	return func(b dcf.Batch) {
		fmt.Fprintf(os.Stderr, "\r%s: %3.0f%% (%d/%d draws)", title, b.Fraction()*100, b.Done, b.Total)
		if b.Complete() {
			fmt.Fprintln(os.Stderr)
		}
	}
}
