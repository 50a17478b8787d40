package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templateFS embed.FS

var templates, _ = fs.Sub(templateFS, "templates")

// RenderValuation renders a valuation to a markdown string.
func RenderValuation(v *Valuation) string {
	partials := map[string]string{
		"valuation_title":   "valuation_title.md",
		"valuation_metrics": "valuation_metrics.md",
		"valuation_ledger":  "valuation_ledger.md",
	}
	return renderTemplate("valuation", "valuation.md", partials, v)
}

// SimulationRenderOptions holds configuration for rendering a simulation.
type SimulationRenderOptions struct {
	SkipHistogram bool // Do not render the NPV distribution.
}

// RenderSimulation renders a Monte Carlo simulation to a markdown string.
func RenderSimulation(s *Simulation, opts SimulationRenderOptions) string {
	partials := map[string]string{
		"simulation_inputs":  "simulation_inputs.md",
		"simulation_summary": "simulation_summary.md",
	}
	// An empty file name results in an empty template.
	if opts.SkipHistogram {
		partials["simulation_histogram"] = ""
	} else {
		partials["simulation_histogram"] = "simulation_histogram.md"
	}
	return renderTemplate("simulation", "simulation.md", partials, s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
