package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/dcf"
)

// PortfolioProperty is a property of a portfolio with its valuation, nil if it has none.
type PortfolioProperty struct {
	Address string
	Report  *dcf.Report
}

// PortfolioMarkdown renders the properties of a portfolio and the metrics of their
// aggregated cash flows.
func PortfolioMarkdown(name string, properties []PortfolioProperty, flows []float64, paybackRate float64, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio %s\n\n", name)
	fmt.Fprintln(&b, "| Property | Holding Period | NPV | IRR | Simple Payback |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	total := dcf.A(0)
	for _, p := range properties {
		if p.Report == nil {
			continue
		}
		total = total.Add(p.Report.NPV)
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
			p.Address,
			p.Report.Assumptions.HoldingPeriod,
			p.Report.NPV.Format(currency),
			formatRate(p.Report.IRR),
			formatYears(p.Report.Payback.Simple),
		)
	}
	payback := dcf.Payback(flows, paybackRate)
	fmt.Fprintf(&b, "| **%s** | | **%s** | **%s** | **%s** |\n",
		"Total",
		total.Format(currency),
		formatRate(dcf.IRR(flows)),
		formatYears(payback.Simple),
	)
	fmt.Fprintf(&b, "\nDiscounted payback at %g%%: %s.\n", paybackRate*100, formatYears(payback.Discounted))

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Not Valued\n\n")
		missing := false
		for _, p := range properties {
			if p.Report == nil {
				fmt.Fprintf(w, "- %s\n", p.Address)
				missing = true
			}
		}
		return missing
	})
	return b.String()
}
