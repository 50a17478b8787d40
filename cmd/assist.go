package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/dcf/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd starts a chat with the valuation assistant.
type assistCmd struct{}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "start an interactive session with the AI assistant" }
func (*assistCmd) Usage() string {
	return `pvs assist [<question>...]

  Starts an interactive session with an assistant that can read the store, project
  scenarios and run simulations. The arguments, if any, are the first question.

  The Gemini client is configured by GEMINI_API_KEY (or GOOGLE_API_KEY), and the model
  by $GEMINI_MODEL.
`
}

func (*assistCmd) SetFlags(_ *flag.FlagSet) {}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	st, ok := openStore(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer st.Close()

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	model := config.GeminiModel
	valuer := agent.NewValuer(model, &agent.Tools{Store: st, Currency: config.Currency, Seed: config.Seed})
	analyst := agent.NewMarketAnalyst(model)
	a := agent.New(os.Stdout, os.Stdin, model, valuer, analyst)
	a.Render = func(md string) string {
		var b strings.Builder
		if err := renderMarkdown(&b, md); err != nil {
			return md
		}
		return b.String()
	}

	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
