// Package agent is a chat assistant answering questions about the user's properties
// with Gemini models and the valuation tools of pvs.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

// Agent runs a chat session between the user and a facilitator in charge of experts.
type Agent struct {
	out         io.Writer
	in          *bufio.Scanner
	Facilitator *Expert
	Experts     []*Expert
	// Render formats the markdown answers for the terminal, nil prints them as is.
	Render func(markdown string) string
}

// New returns an Agent whose facilitator, using model, asks experts. The session is
// written to out and the user's questions are read from in, one per line.
func New(out io.Writer, in io.Reader, model string, experts ...*Expert) *Agent {
	return &Agent{
		out:         out,
		in:          bufio.NewScanner(in),
		Experts:     experts,
		Facilitator: NewFacilitator(model, experts...),
	}
}

// Start creates the chats of the facilitator and every expert.
func (a *Agent) Start(ctx context.Context, client *genai.Client) error {
	for _, e := range a.Experts {
		if err := e.Start(ctx, client); err != nil {
			return err
		}
	}
	return a.Facilitator.Start(ctx, client)
}

const prompt = "assist> "

// Run answers prompts, then the user's questions until "bye" or the end of the input.
func (a *Agent) Run(ctx context.Context, client *genai.Client, prompts ...string) error {
	if a.Facilitator.chat == nil {
		if err := a.Start(ctx, client); err != nil {
			return err
		}
	}

	fmt.Fprintln(a.out, "Welcome to pvs valuation assist. Type 'bye' to exit.")
	next := a.questions(prompts)
	for {
		fmt.Fprint(a.out, prompt)
		question, ok := next()
		if !ok {
			fmt.Fprintln(a.out)
			return a.in.Err()
		}
		switch strings.ToLower(question) {
		case "":
			continue
		case "bye", "exit", "quit":
			return nil
		}

		answer, err := a.Facilitator.Ask(ctx, question)
		if err != nil {
			return err
		}
		if a.Render != nil {
			answer = a.Render(answer)
		}
		fmt.Fprintln(a.out, answer)
	}
}

// questions returns the iterator over the questions of the session: prompts, echoed as
// if typed, then the lines of the input.
func (a *Agent) questions(prompts []string) func() (string, bool) {
	return func() (string, bool) {
		if len(prompts) > 0 {
			q := strings.TrimSpace(prompts[0])
			prompts = prompts[1:]
			fmt.Fprintln(a.out, q)
			return q, true
		}
		if !a.in.Scan() {
			return "", false
		}
		return strings.TrimSpace(a.in.Text()), true
	}
}
