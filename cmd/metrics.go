package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/dcf"
	"github.com/google/subcommands"
)

// parseFlows parses cash flows given as arguments.
func parseFlows(args []string) ([]float64, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("expected at least two cash flows, got %d", len(args))
	}
	flows := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid cash flow #%d: %w", i, err)
		}
		flows[i] = v
	}
	return flows, nil
}

type irrCmd struct {
	outputFlags
}

func (*irrCmd) Name() string     { return "irr" }
func (*irrCmd) Synopsis() string { return "compute the internal rate of return of cash flows" }
func (*irrCmd) Usage() string {
	return `pvs irr [-format md|json] -- <flow0> <flow1>...

  Computes the internal rate of return of yearly cash flows, the first one being the
  initial outlay. Use '--' before a negative first flow.

Usage Examples:
$ pvs irr -- -1000 300 400 500
`
}

func (c *irrCmd) SetFlags(f *flag.FlagSet) { c.outputFlags.SetFlags(f) }

func (c *irrCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	flows, err := parseFlows(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	irr := dcf.IRR(flows)
	md := "The IRR is undefined.\n"
	if v, ok := irr.Get(); ok {
		md = fmt.Sprintf("IRR: **%.2f%%**\n", v*100)
	}
	if err := c.print(os.Stdout, md, map[string]any{"irr": irr}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type paybackCmd struct {
	outputFlags
	rate float64
}

func (*paybackCmd) Name() string     { return "payback" }
func (*paybackCmd) Synopsis() string { return "compute the payback periods of cash flows" }
func (*paybackCmd) Usage() string {
	return `pvs payback [-rate <percent>] [-format md|json] -- <flow0> <flow1>...

  Computes the simple and discounted payback periods of yearly cash flows, the first one
  being the initial outlay.
`
}

func (c *paybackCmd) SetFlags(f *flag.FlagSet) {
	c.outputFlags.SetFlags(f)
	f.Float64Var(&c.rate, "rate", dcf.DefaultPaybackRate*100, "Discount rate of the discounted payback, in percent.")
}

func (c *paybackCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	flows, err := parseFlows(f.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	p := dcf.Payback(flows, c.rate/100)
	years := func(o dcf.Optional[float64]) string {
		if v, ok := o.Get(); ok {
			return fmt.Sprintf("%.2f years", v)
		}
		return "never"
	}
	md := fmt.Sprintf("| Payback | Period |\n|:---|---:|\n| Simple | %s |\n| Discounted at %g%% | %s |\n",
		years(p.Simple), c.rate, years(p.Discounted))
	if err := c.print(os.Stdout, md, p); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
