package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/dcf/docs"
	"github.com/google/subcommands"
)

// topicCmd prints the embedded documentation.
type topicCmd struct {
	outputFlags
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `pvs topic [-list] [-format md|raw|html] [<topic>...]

  Shows the documentation of the given topics, '*' for all of them. Without topic, shows
  the index of the documentation.

Usage Examples:
$ pvs topic simulation
$ pvs topic -format html '*' > pvs.html
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	c.outputFlags.SetFlags(f)
	f.BoolVar(&c.list, "list", false, "List the topic names only.")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var md string
	var data any
	switch {
	case c.list:
		names, err := docs.AllTopics()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		md, data = "- "+strings.Join(names, "\n- ")+"\n", names
	case f.NArg() == 0:
		md = docs.Index()
		data = md
	default:
		doc, err := docs.Topics(f.Args()...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading doc: %v\n", err)
			return subcommands.ExitFailure
		}
		md, data = doc, doc
	}
	if err := c.print(os.Stdout, md, data); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
