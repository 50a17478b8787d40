package agent

import (
	"github.com/etnz/dcf/docs"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

func instruction(text string) *genai.Content {
	return &genai.Content{Parts: []*genai.Part{{Text: text}}}
}

// NewFacilitator returns the expert in charge of the conversation, asking the other
// experts.
func NewFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: instruction(`
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep the context of your previous questions.

			The user is a property investor. They want to know whether a property is worth its
			price, how sensitive its value is to rent growth, discount and interest rates, and how
			their portfolio performs.

			Devise a plan of questions to ask to each expert and come up with the best response to
			the user's request. Answer in markdown.
		`),
		},
		Library: NewLibrary(experts),
	}
}

// NewMarketAnalyst returns an expert of the property market, grounded with Google Search.
func NewMarketAnalyst(model string) *Expert {
	return &Expert{
		Name: "MarketAnalyst",
		Description: `This is an expert of the property market. It knows the recent trends of rents,
		prices, yields and interest rates. Ask the MarketAnalyst whenever you need recent or
		grounding information to choose an assumption.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: instruction(`
			You are an expert of the residential property market. You search for the latest rents,
			prices, yields, mortgage rates and inflation figures, and relate them to the user's
			request. Leverage Google Search to ground your assertions.
			`),
		},
	}
}

// NewValuer returns the expert that values the user's properties with tools.
func NewValuer(model string, tools *Tools) *Expert {
	lib := tools.Functions()
	return &Expert{
		Name: "Valuer",
		Description: `This is the Valuer. It knows the user's properties and their valuation assumptions,
		and computes cash-flow ledgers, NPV, IRR, payback periods and Monte Carlo simulations.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: instruction(`
				You are a valuer in charge of the user's properties. Use the Tools to list the
				properties, read their valuation, evaluate new assumptions and simulate the
				uncertainty of rates. Never make up a figure that a tool can compute.

				` + mustTopic("assumptions") + mustTopic("metrics") + mustTopic("simulation")),
		},
		Library: NewLibrary(lib),
	}
}

func mustTopic(name string) string {
	content, err := docs.Topic(name)
	if err != nil {
		panic(err)
	}
	return content
}
