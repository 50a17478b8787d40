package dcf

import "math"

// DefaultPaybackRate is the discount rate of the discounted payback, as a fraction.
const DefaultPaybackRate = 0.08

// PaybackPeriod is the time, in fractional years, needed to recover the initial outlay.
type PaybackPeriod struct {
	Simple     Optional[float64] `json:"simple_payback"`
	Discounted Optional[float64] `json:"discounted_payback"`
}

// Payback computes the simple and discounted payback periods of flows.
//
// flows[0] is the initial outlay, it must be negative for a payback to exist. Only
// positive yearly inflows count toward the recovery, which is linearly interpolated
// within the year it completes. rate is a fraction (0.08 is 8%). A period is undefined
// when the outlay is not recovered by the last year.
func Payback(flows []float64, rate float64) PaybackPeriod {
	var p PaybackPeriod
	if len(flows) < 2 || !(flows[0] < 0) {
		return p
	}
	investment := math.Abs(flows[0])

	var simple, discounted float64
	factor := 1.0
	for year := 1; year < len(flows); year++ {
		factor *= 1 + rate
		inflow := flows[year]
		if !(inflow > 0) {
			continue
		}
		dinflow := inflow / factor

		if !p.Simple.IsDefined() && simple+inflow >= investment {
			p.Simple = DefinedFloat(float64(year-1) + (investment-simple)/inflow)
		}
		if !p.Discounted.IsDefined() && discounted+dinflow >= investment {
			p.Discounted = DefinedFloat(float64(year-1) + (investment-discounted)/dinflow)
		}
		simple += inflow
		discounted += dinflow
	}
	return p
}

// PaybackOf computes the payback periods of a projection ledger.
func PaybackOf(rows []CashFlowRow, rate float64) PaybackPeriod {
	return Payback(NetCashFlows(rows), rate)
}
