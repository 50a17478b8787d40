package dcf

// Report is a projection with its investment metrics.
type Report struct {
	Assumptions Assumptions       `json:"assumptions"`
	Rows        []CashFlowRow     `json:"cash_flows"`
	NPV         Amount            `json:"npv"`
	IRR         Optional[float64] `json:"irr"` // fraction, 0.15 is 15%.
	Payback     PaybackPeriod     `json:"payback"`
	PaybackRate float64           `json:"payback_rate"` // fraction of the discounted payback.
}

// Evaluate projects a and computes its NPV, IRR and payback periods, the discounted
// payback using paybackRate (a fraction).
func Evaluate(a Assumptions, paybackRate float64) (*Report, error) {
	rows, err := Project(a)
	if err != nil {
		return nil, err
	}
	flows := NetCashFlows(rows)
	return &Report{
		Assumptions: a,
		Rows:        rows,
		NPV:         NPV(rows),
		IRR:         IRR(flows),
		Payback:     Payback(flows, paybackRate),
		PaybackRate: paybackRate,
	}, nil
}
