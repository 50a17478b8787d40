package renderer

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/etnz/dcf"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// histogramWidth is the length of the longest histogram bar.
const histogramWidth = 40

// Simulation is a struct to represent a Monte Carlo simulation for rendering.
type Simulation struct {
	Title    string `json:"title,omitempty"`
	Engine   string `json:"engine"`
	Draws    int    `json:"draws"`
	Seed     uint64 `json:"seed"`
	Growth   string `json:"growth"`
	Discount string `json:"discount"`
	Interest string `json:"interest"`

	ValidNPV               int    `json:"validNpv"`
	NPVMean                string `json:"npvMean"`
	NPVStdDev              string `json:"npvStdDev"`
	NPV5th                 string `json:"npv5th"`
	NPV95th                string `json:"npv95th"`
	IRRMean                string `json:"irrMean"`
	IRR5th                 string `json:"irr5th"`
	IRR95th                string `json:"irr95th"`
	ProbabilityNPVPositive string `json:"probabilityNpvPositive"`
	ValidIRRFraction       string `json:"validIrrFraction"`

	Histogram []Bin `json:"histogram"`
}

// Bin is one bar of the NPV histogram.
type Bin struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
	Bar   string `json:"bar"`
}

// NewSimulation formats the result of sim with amounts in currency, and an NPV histogram
// of bins bars.
func NewSimulation(title, engine string, sim dcf.Simulation, res *dcf.SimulationResult, currency string, bins int) *Simulation {
	rate := func(d dcf.Distribution, base fmt.Stringer) string {
		if d.Kind == "" {
			return base.String() + "%"
		}
		return d.String()
	}
	s := res.Summary
	return &Simulation{
		Title:    title,
		Engine:   engine,
		Draws:    s.Draws,
		Seed:     sim.Seed,
		Growth:   rate(sim.Growth, sim.Base.AnnualRentGrowth),
		Discount: rate(sim.Discount, sim.Base.DiscountRate),
		Interest: rate(sim.Interest, sim.Base.InterestRate),

		ValidNPV:               s.ValidNPV,
		NPVMean:                formatMoney(s.NPVMean, currency),
		NPVStdDev:              formatMoney(s.NPVStdDev, currency),
		NPV5th:                 formatMoney(s.NPV5th, currency),
		NPV95th:                formatMoney(s.NPV95th, currency),
		IRRMean:                formatRate(s.IRRMean),
		IRR5th:                 formatRate(s.IRR5th),
		IRR95th:                formatRate(s.IRR95th),
		ProbabilityNPVPositive: fmt.Sprintf("%.1f%%", s.ProbabilityNPVPositive*100),
		ValidIRRFraction:       fmt.Sprintf("%.1f%%", s.ValidIRRFraction*100),

		Histogram: histogram(res.NPV, bins, currency),
	}
}

// histogram counts the defined values in bins of equal width between their minimum and
// maximum.
func histogram(values []dcf.Optional[float64], bins int, currency string) []Bin {
	var x []float64
	for _, v := range values {
		if f, ok := v.Get(); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
			x = append(x, f)
		}
	}
	if len(x) == 0 || bins < 1 {
		return nil
	}
	slices.Sort(x)
	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		bins = 1
	}
	dividers := make([]float64, bins+1)
	if !math.IsInf(hi-lo, 0) {
		floats.Span(dividers, lo, hi)
	} else {
		// spanned on a unit scale when hi-lo overflows.
		scale := math.Max(-lo, hi)
		floats.Span(dividers, lo/scale, hi/scale)
		floats.Scale(scale, dividers)
		dividers[0] = lo
	}
	// the highest divider is exclusive.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, x, nil)

	most := floats.Max(counts)
	list := make([]Bin, bins)
	for i, c := range counts {
		list[i] = Bin{
			From:  formatMoney(dividers[i], currency),
			To:    formatMoney(math.Min(dividers[i+1], hi), currency),
			Count: int(c),
			Bar:   strings.Repeat("█", int(math.Round(c/most*histogramWidth))),
		}
	}
	return list
}
