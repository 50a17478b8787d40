package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/dcf"
	"github.com/etnz/dcf/renderer"
	"github.com/google/subcommands"
)

// projectCmd holds the flags for the 'project' subcommand.
type projectCmd struct {
	scenarioFlags
	outputFlags
	paybackRate float64
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project the cash flows of a valuation and its metrics" }
func (*projectCmd) Usage() string {
	return `pvs project (-f <scenario file> | -p <property>) [-payback-rate <percent>] [-format md|raw|html|json] [-q <jsonpath>]

  Projects the year-by-year cash-flow ledger of each scenario, with its net present
  value, internal rate of return and payback periods.

Usage Examples:
$ pvs project -f flat.yaml
$ pvs project -p "1 Main St" -q '$.npv'
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	c.scenarioFlags.SetFlags(f)
	c.outputFlags.SetFlags(f)
	f.Float64Var(&c.paybackRate, "payback-rate", dcf.DefaultPaybackRate*100, "Discount rate of the discounted payback, in percent.")
}

func (c *projectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	scenarios, err := c.load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	var md strings.Builder
	reports := make([]*dcf.Report, 0, len(scenarios))
	for _, s := range scenarios {
		r, err := dcf.Evaluate(s.Assumptions, c.paybackRate/100)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error in %s: %v\n", s.title, err)
			return subcommands.ExitFailure
		}
		reports = append(reports, r)
		md.WriteString(renderer.RenderValuation(renderer.NewValuation(s.title, r, config.Currency)))
		md.WriteString("\n")
	}

	var data any = reports
	if len(reports) == 1 {
		data = reports[0]
	}
	if err := c.print(os.Stdout, md.String(), data); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
