package dcf

// arithmetic is what the ledger formulas need from a number type.
//
// Amount implements it with exact rationals for a single projection, column implements
// it element-wise over all the draws of a simulation.
type arithmetic[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Div(T) T
}

// terms are the assumptions converted into the number type, as factors ready to use.
type terms[T arithmetic[T]] struct {
	rent       T // annual rental income in year 1
	growth     T // 1 + annual_rent_growth/100
	vacancy    T // vacancy_rate/100
	fixedCosts T // service charge + ground rent + maintenance + insurance
	management T // management_fee_rate/100
	capex      T
	debt       T // annual debt service
	discount   T // 1 + discount_rate/100
	exitCap    T // exit_cap_rate/100
	netOfSale  T // 1 - selling_costs_rate/100
}

// operating holds the operating figures of one year.
type operating[T any] struct {
	gross, vacancyLoss, effective, expenses, noi, netCashFlow T
}

// operatingYear computes a year's operating figures; compounding is rent growth
// compounded (year-1) times.
func operatingYear[T arithmetic[T]](t terms[T], compounding T) operating[T] {
	gross := t.rent.Mul(compounding)
	loss := gross.Mul(t.vacancy)
	effective := gross.Sub(loss)
	expenses := t.fixedCosts.Add(effective.Mul(t.management))
	noi := effective.Sub(expenses)
	return operating[T]{
		gross:       gross,
		vacancyLoss: loss,
		effective:   effective,
		expenses:    expenses,
		noi:         noi,
		netCashFlow: noi.Sub(t.capex).Sub(t.debt),
	}
}

// terminalValue is the sale price capitalized from the final NOI, net of selling costs.
func terminalValue[T arithmetic[T]](t terms[T], noi T) T {
	return noi.Div(t.exitCap).Mul(t.netOfSale)
}

// amortizingPayment is the constant monthly payment of a loan of principal at monthly
// rate r over n months; growth is (1+r)^n.
func amortizingPayment[T arithmetic[T]](principal, r, growth, one T) T {
	return principal.Mul(r).Mul(growth).Div(growth.Sub(one))
}
