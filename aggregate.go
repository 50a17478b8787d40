package dcf

// Aggregate sums cash-flow sequences year by year, so that a group of properties bought
// at the same time can be valued as one investment.
//
// Shorter sequences contribute nothing past their last year.
func Aggregate(flows ...[]float64) []float64 {
	n := 0
	for _, f := range flows {
		n = max(n, len(f))
	}
	total := make([]float64, n)
	for _, f := range flows {
		for year, cf := range f {
			total[year] += cf
		}
	}
	return total
}

// AggregateRows sums the net cash flows of several ledgers year by year.
func AggregateRows(ledgers ...[]CashFlowRow) []float64 {
	flows := make([][]float64, len(ledgers))
	for i, rows := range ledgers {
		flows[i] = NetCashFlows(rows)
	}
	return Aggregate(flows...)
}
