package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/etnz/dcf/store"
	"github.com/google/subcommands"
)

// action is a verb of a store command, with its own flags.
type action struct {
	usage string
	flags func(f *flag.FlagSet)
	run   func(ctx context.Context, st *store.Store, args []string) error
}

// runAction parses the flags of the action named by the first argument and runs it.
func runAction(ctx context.Context, name string, actions map[string]*action, args []string) subcommands.ExitStatus {
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "missing action, want one of: %s\n", strings.Join(actionNames(actions), ", "))
		return subcommands.ExitUsageError
	}
	a, ok := actions[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown action %q, want one of: %s\n", args[0], strings.Join(actionNames(actions), ", "))
		return subcommands.ExitUsageError
	}
	fs := flag.NewFlagSet(name+" "+args[0], flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprintf(os.Stderr, "pvs %s %s %s\n", name, args[0], a.usage); fs.PrintDefaults() }
	if a.flags != nil {
		a.flags(fs)
	}
	if err := fs.Parse(args[1:]); err != nil {
		return subcommands.ExitUsageError
	}

	st, ok := openStore(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer st.Close()
	if err := a.run(ctx, st, fs.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

var errUsage = errors.New("usage")

// oneArg returns the single argument of an action.
func oneArg(args []string, what string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: expected the %s, got %d arguments", errUsage, what, len(args))
	}
	return args[0], nil
}

func actionNames(actions map[string]*action) []string {
	var names []string
	for name := range actions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// propertyCmd manages the stored properties.
type propertyCmd struct {
	outputFlags
	property  store.Property
	portfolio string
}

func (*propertyCmd) Name() string     { return "property" }
func (*propertyCmd) Synopsis() string { return "list, add, update or remove properties" }
func (*propertyCmd) Usage() string {
	return `pvs property list
pvs property add -address <address> [-postcode <postcode>] [-link <url>] [-portfolio <portfolio>]
pvs property update [-address <address>] [-postcode <postcode>] [-link <url>] [-portfolio <portfolio>] <property>
pvs property rm <property>

  Manages the properties of the store. A property is named by its address or its ID.
  Removing a property removes its valuation.
`
}

func (c *propertyCmd) SetFlags(f *flag.FlagSet) { c.outputFlags.SetFlags(f) }

func (c *propertyCmd) fieldFlags(f *flag.FlagSet) {
	f.StringVar(&c.property.Address, "address", "", "Address of the property.")
	f.StringVar(&c.property.Postcode, "postcode", "", "Postcode of the property.")
	f.StringVar(&c.property.ListingLink, "link", "", "Link to the listing of the property.")
	f.StringVar(&c.portfolio, "portfolio", "", "Name or ID of the portfolio of the property.")
}

func (c *propertyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runAction(ctx, c.Name(), map[string]*action{
		"list":   {usage: "", run: c.list},
		"add":    {usage: "-address <address> [...]", flags: c.fieldFlags, run: c.add},
		"update": {usage: "[-address <address>] [...] <property>", flags: c.fieldFlags, run: c.update},
		"rm":     {usage: "<property>", run: c.remove},
	}, f.Args())
}

func (c *propertyCmd) list(ctx context.Context, st *store.Store, _ []string) error {
	list, err := st.Properties(ctx)
	if err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintln(&b, "| Address | Postcode | Portfolio | Valued | ID |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---:|:---|")
	for _, p := range list {
		portfolio := ""
		if p.PortfolioID != "" {
			pf, err := st.Portfolio(ctx, p.PortfolioID)
			if err != nil {
				return err
			}
			portfolio = pf.Name
		}
		valued := "yes"
		if _, err := st.Valuation(ctx, p.ID); errors.Is(err, store.ErrNotFound) {
			valued = "no"
		} else if err != nil {
			return err
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", p.Address, p.Postcode, portfolio, valued, p.ID)
	}
	return c.print(os.Stdout, b.String(), list)
}

// resolvePortfolio sets the portfolio ID of the property from the -portfolio flag.
func (c *propertyCmd) resolvePortfolio(ctx context.Context, st *store.Store) error {
	if c.portfolio == "" {
		return nil
	}
	pf, err := st.FindPortfolio(ctx, c.portfolio)
	if err != nil {
		return err
	}
	c.property.PortfolioID = pf.ID
	return nil
}

func (c *propertyCmd) add(ctx context.Context, st *store.Store, _ []string) error {
	if err := c.resolvePortfolio(ctx, st); err != nil {
		return err
	}
	p, err := st.CreateProperty(ctx, c.property)
	if err != nil {
		return err
	}
	fmt.Printf("Added property %q with ID %s\n", p.Address, p.ID)
	return nil
}

func (c *propertyCmd) update(ctx context.Context, st *store.Store, args []string) error {
	ref, err := oneArg(args, "property")
	if err != nil {
		return err
	}
	p, err := st.FindProperty(ctx, ref)
	if err != nil {
		return err
	}
	if err := c.resolvePortfolio(ctx, st); err != nil {
		return err
	}
	// only the given fields change.
	for _, f := range []struct{ from, to *string }{
		{&c.property.Address, &p.Address},
		{&c.property.Postcode, &p.Postcode},
		{&c.property.ListingLink, &p.ListingLink},
		{&c.property.PortfolioID, &p.PortfolioID},
	} {
		if *f.from != "" {
			*f.to = *f.from
		}
	}
	if p, err = st.UpdateProperty(ctx, p); err != nil {
		return err
	}
	fmt.Printf("Updated property %q\n", p.Address)
	return nil
}

func (c *propertyCmd) remove(ctx context.Context, st *store.Store, args []string) error {
	ref, err := oneArg(args, "property")
	if err != nil {
		return err
	}
	p, err := st.FindProperty(ctx, ref)
	if err != nil {
		return err
	}
	if err := st.DeleteProperty(ctx, p.ID); err != nil {
		return err
	}
	fmt.Printf("Removed property %q\n", p.Address)
	return nil
}
