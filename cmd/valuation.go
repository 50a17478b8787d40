package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dcf"
	"github.com/etnz/dcf/renderer"
	"github.com/etnz/dcf/store"
	"github.com/google/subcommands"
)

// valuationCmd records the assumptions of stored properties.
type valuationCmd struct {
	outputFlags
	file        string
	paybackRate float64
}

func (*valuationCmd) Name() string     { return "valuation" }
func (*valuationCmd) Synopsis() string { return "set, show or remove the valuation of a property" }
func (*valuationCmd) Usage() string {
	return `pvs valuation set -f <scenario file> <property>
pvs valuation show [-payback-rate <percent>] <property>
pvs valuation rm <property>

  A property has at most one valuation: setting it replaces the previous one. The
  scenario file must hold a single scenario. See 'pvs topic scenarios'.
`
}

func (c *valuationCmd) SetFlags(f *flag.FlagSet) { c.outputFlags.SetFlags(f) }

func (c *valuationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAction(ctx, c.Name(), map[string]*action{
		"set": {
			usage: "-f <scenario file> <property>",
			flags: func(f *flag.FlagSet) { f.StringVar(&c.file, "f", "", "Scenario file holding the assumptions.") },
			run:   c.set,
		},
		"show": {
			usage: "<property>",
			flags: func(f *flag.FlagSet) {
				f.Float64Var(&c.paybackRate, "payback-rate", dcf.DefaultPaybackRate*100, "Discount rate of the discounted payback, in percent.")
			},
			run: c.show,
		},
		"rm": {usage: "<property>", run: c.remove},
	}, f.Args())
}

func (c *valuationCmd) set(ctx context.Context, st *store.Store, args []string) error {
	ref, err := oneArg(args, "property")
	if err != nil {
		return err
	}
	if c.file == "" {
		return fmt.Errorf("%w: missing -f <scenario file>", errUsage)
	}
	list, err := dcf.ReadAssumptionsFile(c.file)
	if err != nil {
		return err
	}
	if len(list) != 1 {
		return fmt.Errorf("%q holds %d scenarios, want one", c.file, len(list))
	}
	if err := list[0].Validate(); err != nil {
		return err
	}
	p, err := st.FindProperty(ctx, ref)
	if err != nil {
		return err
	}
	v, created, err := st.PutValuation(ctx, p.ID, list[0])
	if err != nil {
		return err
	}
	verb := "Updated"
	if created {
		verb = "Recorded"
	}
	fmt.Printf("%s valuation %s of %q\n", verb, v.ID, p.Address)
	return nil
}

func (c *valuationCmd) show(ctx context.Context, st *store.Store, args []string) error {
	ref, err := oneArg(args, "property")
	if err != nil {
		return err
	}
	p, err := st.FindProperty(ctx, ref)
	if err != nil {
		return err
	}
	v, err := st.Valuation(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("property %q has no valuation: %w", p.Address, err)
	}
	r, err := dcf.Evaluate(v.Assumptions, c.paybackRate/100)
	if err != nil {
		return err
	}
	return c.print(os.Stdout, renderer.RenderValuation(renderer.NewValuation(p.Address, r, config.Currency)), v)
}

func (c *valuationCmd) remove(ctx context.Context, st *store.Store, args []string) error {
	ref, err := oneArg(args, "property")
	if err != nil {
		return err
	}
	p, err := st.FindProperty(ctx, ref)
	if err != nil {
		return err
	}
	v, err := st.Valuation(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("property %q has no valuation: %w", p.Address, err)
	}
	if err := st.DeleteValuation(ctx, v.ID); err != nil {
		return err
	}
	fmt.Printf("Removed the valuation of %q\n", p.Address)
	return nil
}
