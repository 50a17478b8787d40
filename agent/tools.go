package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/dcf"
	"github.com/etnz/dcf/renderer"
	"github.com/etnz/dcf/store"
	"google.golang.org/genai"
)

// Tools are the functions of the Valuer, backed by the store.
type Tools struct {
	Store    *store.Store
	Currency string
	Seed     uint64 // seed of simulations.
}

// Functions returns the functions the Valuer can call.
func (t *Tools) Functions() []Function {
	return []Function{
		&Func{Decl: propertiesDecl, Func: t.properties},
		&Func{Decl: valuationDecl, Func: t.valuation},
		&Func{Decl: evaluateDecl, Func: t.evaluate},
		&Func{Decl: simulateDecl, Func: t.simulate},
		&Func{Decl: irrDecl, Func: t.irr},
	}
}

var propertyParam = &genai.Schema{
	Type:        genai.TypeString,
	Description: "The address or the ID of the property.",
}

var propertiesDecl = &genai.FunctionDeclaration{
	Name:        "Properties",
	Description: "Properties lists the user's properties, and whether they have a valuation.",
	Response: &genai.Schema{
		Type:        genai.TypeString,
		Description: "A markdown list of the properties with their ID and postcode.",
	},
}

func (t *Tools) properties(ctx context.Context, args map[string]any) (string, error) {
	list, err := t.Store.Properties(ctx)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "The user has no property.", nil
	}
	var b strings.Builder
	for _, p := range list {
		status := "valued"
		if _, err := t.Store.Valuation(ctx, p.ID); errors.Is(err, store.ErrNotFound) {
			status = "not valued"
		} else if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "- %s, %s (ID %s): %s\n", p.Address, p.Postcode, p.ID, status)
	}
	return b.String(), nil
}

var valuationDecl = &genai.FunctionDeclaration{
	Name:        "Valuation",
	Description: "Valuation returns the assumptions, cash-flow ledger and metrics of a property.",
	Parameters: &genai.Schema{
		Type:       genai.TypeObject,
		Properties: map[string]*genai.Schema{"property": propertyParam},
		Required:   []string{"property"},
	},
	Response: &genai.Schema{
		Type:        genai.TypeString,
		Description: "The assumptions in JSON followed by a markdown report of the valuation.",
	},
}

func (t *Tools) valuation(ctx context.Context, args map[string]any) (string, error) {
	p, v, err := t.lookup(ctx, args)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(v.Assumptions)
	if err != nil {
		return "", err
	}
	report, err := t.report(p.Address, v.Assumptions)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Assumptions: %s\n\n%s", data, report), nil
}

var evaluateDecl = &genai.FunctionDeclaration{
	Name: "Evaluate",
	Description: `Evaluate computes the cash-flow ledger, NPV, IRR and payback periods of assumptions,
	without saving them. Use it to answer "what if" questions.`,
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"assumptions": {
				Type:        genai.TypeObject,
				Description: "The assumptions, with the field names of the assumptions topic. Rates are percentages.",
				Properties:  assumptionsSchema(),
			},
		},
		Required: []string{"assumptions"},
	},
	Response: &genai.Schema{
		Type:        genai.TypeString,
		Description: "A markdown report of the valuation.",
	},
}

// assumptionsSchema declares every field of the assumptions as a number.
func assumptionsSchema() map[string]*genai.Schema {
	fields := []string{
		"initial_investment", "annual_rental_income", "vacancy_rate", "service_charge",
		"ground_rent", "maintenance", "property_tax", "insurance", "management_fee_rate",
		"transaction_costs", "annual_rent_growth", "discount_rate", "holding_period",
		"loan_to_value", "interest_rate", "capex", "exit_cap_rate", "selling_costs_rate",
	}
	props := make(map[string]*genai.Schema, len(fields))
	for _, f := range fields {
		props[f] = &genai.Schema{Type: genai.TypeNumber}
	}
	props["holding_period"].Type = genai.TypeInteger
	return props
}

func (t *Tools) evaluate(ctx context.Context, args map[string]any) (string, error) {
	data, err := json.Marshal(args["assumptions"])
	if err != nil {
		return "", err
	}
	var a dcf.Assumptions
	if err := json.Unmarshal(data, &a); err != nil {
		return "", fmt.Errorf("invalid assumptions: %w", err)
	}
	return t.report("", a)
}

var simulateDecl = &genai.FunctionDeclaration{
	Name: "Simulate",
	Description: `Simulate runs a Monte Carlo simulation of a property's valuation, drawing rates from
	distributions written as "normal(mean, stddev)", "pareto(mean, shape)" or a plain number.`,
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"property": propertyParam,
			"growth":   {Type: genai.TypeString, Description: "Distribution of the annual rent growth, in percent."},
			"discount": {Type: genai.TypeString, Description: "Distribution of the discount rate, in percent."},
			"interest": {Type: genai.TypeString, Description: "Distribution of the interest rate, in percent."},
			"draws":    {Type: genai.TypeInteger, Description: "Number of draws, 10000 by default."},
		},
		Required: []string{"property"},
	},
	Response: &genai.Schema{
		Type:        genai.TypeString,
		Description: "A markdown report of the simulation statistics and the NPV distribution.",
	},
}

func (t *Tools) simulate(ctx context.Context, args map[string]any) (string, error) {
	p, v, err := t.lookup(ctx, args)
	if err != nil {
		return "", err
	}
	sim := dcf.Simulation{Base: v.Assumptions, Count: 10000, Seed: dcf.SeedOf(t.Seed)}
	if draws, ok := args["draws"].(float64); ok {
		sim.Count = int(draws)
	}
	rates := []struct {
		key  string
		dist *dcf.Distribution
	}{
		{"growth", &sim.Growth},
		{"discount", &sim.Discount},
		{"interest", &sim.Interest},
	}
	for _, r := range rates {
		s, ok := args[r.key].(string)
		if !ok {
			continue
		}
		if *r.dist, err = dcf.ParseDistribution(s); err != nil {
			return "", err
		}
	}
	res, err := dcf.Run(dcf.SimulateVectorized(sim), nil)
	if err != nil {
		return "", err
	}
	view := renderer.NewSimulation(p.Address, "vectorized", sim, res, t.Currency, 10)
	return renderer.RenderSimulation(view, renderer.SimulationRenderOptions{}), nil
}

var irrDecl = &genai.FunctionDeclaration{
	Name:        "IRR",
	Description: "IRR computes the internal rate of return of yearly cash flows, the first one being the initial outlay.",
	Parameters: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"cash_flows": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeNumber}},
		},
		Required: []string{"cash_flows"},
	},
	Response: &genai.Schema{
		Type:        genai.TypeString,
		Description: "The IRR in percent, or why it is undefined.",
	},
}

func (t *Tools) irr(ctx context.Context, args map[string]any) (string, error) {
	list, ok := args["cash_flows"].([]any)
	if !ok {
		return "", fmt.Errorf("invalid cash_flows type got %T, expected a list of numbers", args["cash_flows"])
	}
	flows := make([]float64, len(list))
	for i, v := range list {
		if flows[i], ok = v.(float64); !ok {
			return "", fmt.Errorf("invalid cash flow #%d type got %T, expected a number", i, v)
		}
	}
	irr, ok := dcf.IRR(flows).Get()
	if !ok {
		return "The IRR is undefined: the flows never change sign or no rate between -99% and 1000% cancels their NPV.", nil
	}
	return fmt.Sprintf("%.2f%%", irr*100), nil
}

// lookup finds the property named by the "property" argument and its valuation.
func (t *Tools) lookup(ctx context.Context, args map[string]any) (store.Property, store.Valuation, error) {
	name, _ := args["property"].(string)
	p, err := t.Store.FindProperty(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return p, store.Valuation{}, fmt.Errorf("unknown property %q", name)
	}
	if err != nil {
		return p, store.Valuation{}, err
	}
	v, err := t.Store.Valuation(ctx, p.ID)
	if err != nil {
		return p, v, fmt.Errorf("property %q has no valuation: %w", p.Address, err)
	}
	return p, v, nil
}

func (t *Tools) report(title string, a dcf.Assumptions) (string, error) {
	r, err := dcf.Evaluate(a, dcf.DefaultPaybackRate)
	if err != nil {
		return "", err
	}
	return renderer.RenderValuation(renderer.NewValuation(title, r, t.Currency)), nil
}
