package agent

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// Expert is a chat with a model specialized by its system instruction and tools.
type Expert struct {
	Name        string
	Description string // tells the facilitator when to ask this expert.
	ModelName   string
	Config      *genai.GenerateContentConfig
	Library     Library // makes the function calls of the expert, nil if it has none.
	chat        *genai.Chat
}

// maxRounds bounds the function-call rounds of a single question.
const maxRounds = 10

var errNotStarted = errors.New("expert chat is not started")

// Start creates the chat of the expert.
func (e *Expert) Start(ctx context.Context, client *genai.Client) error {
	chat, err := client.Chats.Create(ctx, e.ModelName, e.Config, nil)
	if err != nil {
		return fmt.Errorf("cannot start %s: %w", e.Name, err)
	}
	e.chat = chat
	return nil
}

// Ask sends question to the expert and returns its answer. The function calls the
// expert requests on the way are made, and their responses sent back, until it answers
// with text.
func (e *Expert) Ask(ctx context.Context, question string) (string, error) {
	if e.chat == nil {
		return "", fmt.Errorf("%s: %w", e.Name, errNotStarted)
	}
	parts := []*genai.Part{{Text: question}}
	for range maxRounds {
		resp, err := e.chat.Send(ctx, parts...)
		if err != nil {
			return "", err
		}
		calls := resp.FunctionCalls()
		if len(calls) == 0 {
			if text := resp.Text(); text != "" {
				return text, nil
			}
			return "", fmt.Errorf("no response from expert %s", e.Name)
		}
		if e.Library == nil {
			return "", fmt.Errorf("expert %s cannot make function calls", e.Name)
		}
		// failed calls are reported to the expert, not to the caller.
		parts = parts[:0]
		for _, call := range calls {
			parts = append(parts, &genai.Part{FunctionResponse: e.Library(ctx, call)})
		}
	}
	return "", fmt.Errorf("expert %s made more than %d rounds of function calls", e.Name, maxRounds)
}

// Declaration returns the function declaration to ask this expert a question.
func (e *Expert) Declaration() *genai.FunctionDeclaration {
	return declare(e.Name, e.Description, map[string]*genai.Schema{
		"question": {Type: genai.TypeString, Description: "The question to ask the expert."},
	}, "question")
}

// Call asks the question in args to this expert.
func (e *Expert) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	question, ok := args["question"].(string)
	if !ok {
		return failure(id, e.Name, fmt.Errorf("question must be a string, got %T", args["question"]))
	}
	answer, err := e.Ask(ctx, question)
	if err != nil {
		return failure(id, e.Name, fmt.Errorf("expert %s failed: %w", e.Name, err))
	}
	log.Printf("%s was asked %q", e.Name, question)
	return success(id, e.Name, answer)
}
