package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/dcf"
	"github.com/etnz/dcf/renderer"
	"github.com/etnz/dcf/store"
	"github.com/google/subcommands"
)

// portfolioCmd manages portfolios and values them as a whole.
type portfolioCmd struct {
	outputFlags
	paybackRate float64
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "list, add or value portfolios of properties" }
func (*portfolioCmd) Usage() string {
	return `pvs portfolio list
pvs portfolio add <name>
pvs portfolio show [-payback-rate <percent>] <portfolio>

  A portfolio is valued on the sum of the yearly net cash flows of its valued
  properties. Properties join a portfolio with 'pvs property update -portfolio'.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) { c.outputFlags.SetFlags(f) }

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAction(ctx, c.Name(), map[string]*action{
		"list": {run: c.list},
		"add":  {usage: "<name>", run: c.add},
		"show": {
			usage: "<portfolio>",
			flags: func(f *flag.FlagSet) {
				f.Float64Var(&c.paybackRate, "payback-rate", dcf.DefaultPaybackRate*100, "Discount rate of the discounted payback, in percent.")
			},
			run: c.show,
		},
	}, f.Args())
}

func (c *portfolioCmd) list(ctx context.Context, st *store.Store, _ []string) error {
	list, err := st.Portfolios(ctx)
	if err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintln(&b, "| Name | Properties | ID |")
	fmt.Fprintln(&b, "|:---|---:|:---|")
	for _, p := range list {
		props, err := st.PortfolioProperties(ctx, p.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "| %s | %d | %s |\n", p.Name, len(props), p.ID)
	}
	return c.print(os.Stdout, b.String(), list)
}

func (c *portfolioCmd) add(ctx context.Context, st *store.Store, args []string) error {
	name, err := oneArg(args, "portfolio name")
	if err != nil {
		return err
	}
	p, err := st.CreatePortfolio(ctx, name)
	if err != nil {
		return err
	}
	fmt.Printf("Added portfolio %q with ID %s\n", p.Name, p.ID)
	return nil
}

// portfolioReport is the json rendition of a valued portfolio.
type portfolioReport struct {
	Portfolio  store.Portfolio        `json:"portfolio"`
	Properties map[string]*dcf.Report `json:"properties"`
	CashFlows  []float64              `json:"cash_flows"`
	IRR        dcf.Optional[float64]  `json:"irr"`
	Payback    dcf.PaybackPeriod      `json:"payback"`
}

func (c *portfolioCmd) show(ctx context.Context, st *store.Store, args []string) error {
	ref, err := oneArg(args, "portfolio")
	if err != nil {
		return err
	}
	pf, err := st.FindPortfolio(ctx, ref)
	if err != nil {
		return err
	}
	props, err := st.PortfolioProperties(ctx, pf.ID)
	if err != nil {
		return err
	}

	rate := c.paybackRate / 100
	out := portfolioReport{Portfolio: pf, Properties: make(map[string]*dcf.Report)}
	var valued []renderer.PortfolioProperty
	var ledgers [][]dcf.CashFlowRow
	for _, p := range props {
		v, err := st.Valuation(ctx, p.ID)
		if errors.Is(err, store.ErrNotFound) {
			valued = append(valued, renderer.PortfolioProperty{Address: p.Address})
			continue
		}
		if err != nil {
			return err
		}
		r, err := dcf.Evaluate(v.Assumptions, rate)
		if err != nil {
			return fmt.Errorf("property %q: %w", p.Address, err)
		}
		valued = append(valued, renderer.PortfolioProperty{Address: p.Address, Report: r})
		ledgers = append(ledgers, r.Rows)
		out.Properties[p.Address] = r
	}
	if len(ledgers) == 0 {
		return fmt.Errorf("portfolio %q has no valued property", pf.Name)
	}
	out.CashFlows = dcf.AggregateRows(ledgers...)
	out.IRR = dcf.IRR(out.CashFlows)
	out.Payback = dcf.Payback(out.CashFlows, rate)
	md := renderer.PortfolioMarkdown(pf.Name, valued, out.CashFlows, rate, config.Currency)
	return c.print(os.Stdout, md, out)
}
