// Command pvs values property investments with discounted cash flows.
//
// Shell completion is installed with: COMP_INSTALL=1 pvs
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/etnz/dcf/cmd"
	"github.com/etnz/dcf/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	name := path.Base(os.Args[0])
	completion(name).Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	if err := cmd.Register(commander); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitFailure))
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the subcommands and their flags to the shell.
func completion(name string) *complete.Command {
	root := &complete.Command{Sub: map[string]*complete.Command{}}
	for _, cmds := range cmd.Commands() {
		for _, c := range cmds {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			sub := &complete.Command{Flags: map[string]complete.Predictor{}}
			fs.VisitAll(func(f *flag.Flag) { sub.Flags[f.Name] = predictor(f) })
			root.Sub[c.Name()] = sub
		}
	}
	if topics, err := docs.AllTopics(); err == nil {
		root.Sub["topic"].Args = predict.Set(topics)
	}
	return root
}

func predictor(f *flag.Flag) complete.Predictor {
	switch {
	case f.Name == "f":
		return predict.Files("*")
	case f.Name == "format":
		return predict.Set{"md", "raw", "html", "json"}
	case f.Name == "engine":
		return predict.Set{"exact", "vectorized"}
	case strings.HasPrefix(f.DefValue, "true"), strings.HasPrefix(f.DefValue, "false"):
		return predict.Nothing
	default:
		return predict.Something
	}
}
