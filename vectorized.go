package dcf

import (
	"iter"
	"math"

	"gonum.org/v1/gonum/mat"
)

// column holds one value per draw, with element-wise arithmetic.
type column struct{ v *mat.VecDense }

func constant(n int, value float64) column {
	data := make([]float64, n)
	for i := range data {
		data[i] = value
	}
	return column{mat.NewVecDense(n, data)}
}

// vector wraps values without copying them.
func vector(values []float64) column { return column{mat.NewVecDense(len(values), values)} }

func (c column) Add(d column) column {
	var r mat.VecDense
	r.AddVec(c.v, d.v)
	return column{&r}
}

func (c column) Sub(d column) column {
	var r mat.VecDense
	r.SubVec(c.v, d.v)
	return column{&r}
}

func (c column) Mul(d column) column {
	var r mat.VecDense
	r.MulElemVec(c.v, d.v)
	return column{&r}
}

func (c column) Div(d column) column {
	var r mat.VecDense
	r.DivElemVec(c.v, d.v)
	return column{&r}
}

func (c column) apply(fn func(float64) float64) column {
	n := c.v.Len()
	r := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		r.SetVec(i, fn(c.v.AtVec(i)))
	}
	return column{r}
}

func (c column) data() []float64 { return c.v.RawVector().Data }

// SimulateVectorized runs sim like Simulate, computing each batch of draws at once in
// floating point.
//
// Draws are the same as Simulate's for the same seed, results agree within floating
// point tolerance. Each batch builds a draws × years matrix of net cash flows and of
// present values; the IRR is then solved row by row.
func SimulateVectorized(sim Simulation) iter.Seq2[Batch, error] {
	return func(yield func(Batch, error) bool) {
		if err := sim.Validate(); err != nil {
			yield(Batch{}, err)
			return
		}
		d, err := sim.draw()
		if err != nil {
			yield(Batch{}, err)
			return
		}
		solver := sim.solver()
		run := func(start, end int, npv, irr []Optional[float64]) {
			l := newLedger(sim.Base, d.growth[start:end], d.discount[start:end], d.interest[start:end])
			for i, ok := range l.valid {
				if !ok {
					continue
				}
				npv[start+i] = DefinedFloat(l.npv.AtVec(i))
				irr[start+i] = solver.IRR(l.flows.RawRowView(i))
			}
		}
		batches(sim, run)(yield)
	}
}

// ledger is the projection of many draws at once, one row per draw and one column per
// year.
type ledger struct {
	flows *mat.Dense
	pv    *mat.Dense
	npv   *mat.VecDense
	valid []bool // false when the exact projection would reject the draw.
}

func newLedger(a Assumptions, growth, discount, interest []float64) ledger {
	n, years := len(growth), a.HoldingPeriod+1
	value := func(v float64) column { return constant(n, v) }
	pct := func(v float64) column { return constant(n, v/100) }
	ones := value(1)

	valid := make([]bool, n)
	for i := range valid {
		valid[i] = finite(growth[i]) && finite(discount[i]) && finite(interest[i]) && discount[i] > -100
	}

	t := terms[column]{
		rent:       value(a.AnnualRentalIncome.InexactFloat64()),
		growth:     vector(growth).apply(func(g float64) float64 { return 1 + g/100 }),
		vacancy:    pct(a.VacancyRate.InexactFloat64()),
		fixedCosts: value(a.ServiceCharge.Add(a.GroundRent).Add(a.Maintenance).Add(a.Insurance).InexactFloat64()),
		management: pct(a.ManagementFeeRate.InexactFloat64()),
		capex:      value(a.Capex.InexactFloat64()),
		debt:       debtColumn(a, interest),
		discount:   vector(discount).apply(func(d float64) float64 { return 1 + d/100 }),
		exitCap:    pct(a.ExitCapRate.InexactFloat64()),
		netOfSale:  value(1 - a.SellingCostsRate.InexactFloat64()/100),
	}

	l := ledger{
		flows: mat.NewDense(n, years, nil),
		pv:    mat.NewDense(n, years, nil),
		npv:   mat.NewVecDense(n, nil),
		valid: valid,
	}
	outlay := value(-a.InitialInvestment.Add(a.TransactionCosts).Add(a.PropertyTax).InexactFloat64())
	l.flows.SetCol(0, outlay.data())
	l.pv.SetCol(0, outlay.data())

	compounding, discounting := ones, ones
	for year := 1; year < years; year++ {
		if year > 1 {
			compounding = compounding.Mul(t.growth)
		}
		discounting = discounting.Mul(t.discount)

		op := operatingYear(t, compounding)
		ncf := op.netCashFlow
		if year == a.HoldingPeriod && a.ExitCapRate.IsPositive() {
			ncf = ncf.Add(terminalValue(t, op.noi))
		}
		l.flows.SetCol(year, ncf.data())
		l.pv.SetCol(year, ncf.Div(discounting).data())
	}
	l.npv.MulVec(l.pv, constant(years, 1).v)
	return l
}

// debtColumn returns the annual debt service of each draw's interest rate.
//
// Draws where (1+r)^n rounds to 1, a zero rate included, amortize linearly.
func debtColumn(a Assumptions, interest []float64) column {
	n := len(interest)
	if !a.HasDebt() || a.HoldingPeriod == 0 {
		return constant(n, 0)
	}
	months := float64(a.HoldingPeriod * 12)
	principal := a.InitialInvestment.InexactFloat64() * a.LoanToValue.InexactFloat64() / 100

	r := vector(interest).apply(func(x float64) float64 { return x / 1200 })
	growth := r.apply(func(x float64) float64 { return math.Pow(1+x, months) })
	payment := amortizingPayment(constant(n, principal), r, growth, constant(n, 1))
	for i := 0; i < n; i++ {
		if growth.v.AtVec(i) == 1 {
			payment.v.SetVec(i, principal/months)
		}
	}
	return payment.apply(func(x float64) float64 { return 12 * x })
}
