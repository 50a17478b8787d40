package dcf

import "fmt"

// CashFlowRow is one year of a projection ledger.
//
// Year 0 is the acquisition: GrossRent is the negated initial investment and
// OperatingExpenses are the transaction costs and property tax.
// Rows are never modified once created.
type CashFlowRow struct {
	Year               int
	GrossRent          Amount
	VacancyLoss        Amount
	EffectiveRent      Amount
	OperatingExpenses  Amount // NOI basis, without debt service.
	NetOperatingIncome Amount
	Capex              Amount
	DebtService        Amount
	TotalExpenses      Amount // OperatingExpenses + DebtService.
	TerminalValue      Amount // net sale proceeds, final year only.
	NetCashFlow        Amount
	DiscountFactor     Amount
	PresentValue       Amount
	CumulativePV       Amount
}

// MarshalJSON writes the row with the ledger column order.
func (r CashFlowRow) MarshalJSON() ([]byte, error) {
	var o orderedObject
	o.Field("year", r.Year)
	o.Field("gross_rent", r.GrossRent)
	o.Field("vacancy_loss", r.VacancyLoss)
	o.Field("effective_rent", r.EffectiveRent)
	o.Field("operating_expenses", r.OperatingExpenses)
	o.Field("noi", r.NetOperatingIncome)
	o.Field("capex", r.Capex)
	o.Field("debt_service", r.DebtService)
	o.Field("total_expenses", r.TotalExpenses)
	o.FieldIf(!r.TerminalValue.IsZero(), "terminal_value", r.TerminalValue)
	o.Field("net_cash_flow", r.NetCashFlow)
	o.Field("discount_factor", r.DiscountFactor.Decimal(10))
	o.Field("present_value", r.PresentValue)
	o.Field("cumulative_pv", r.CumulativePV)
	return o.MarshalJSON()
}

// Project computes the ledger of a, one row per year from 0 to the holding period.
//
// Computation is exact: every input goes through its decimal text into a rational, so
// that projections are reproducible bit for bit. Invalid assumptions are rejected before
// any row is computed.
func Project(a Assumptions) ([]CashFlowRow, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	debt, err := annualDebtService(a)
	if err != nil {
		return nil, err
	}

	t := terms[Amount]{
		rent:       A(a.AnnualRentalIncome),
		growth:     one.Add(A(a.AnnualRentGrowth).Percent()),
		vacancy:    A(a.VacancyRate).Percent(),
		fixedCosts: A(a.ServiceCharge).Add(A(a.GroundRent)).Add(A(a.Maintenance)).Add(A(a.Insurance)),
		management: A(a.ManagementFeeRate).Percent(),
		capex:      A(a.Capex),
		debt:       debt,
		discount:   one.Add(A(a.DiscountRate).Percent()),
		exitCap:    A(a.ExitCapRate).Percent(),
		netOfSale:  one.Sub(A(a.SellingCostsRate).Percent()),
	}

	rows := make([]CashFlowRow, 0, a.HoldingPeriod+1)

	// Year 0, the acquisition.
	gross := A(a.InitialInvestment).Neg()
	expenses := A(a.TransactionCosts).Add(A(a.PropertyTax))
	ncf := gross.Sub(expenses)
	cumulative := ncf
	rows = append(rows, CashFlowRow{
		Year:               0,
		GrossRent:          gross,
		EffectiveRent:      gross,
		OperatingExpenses:  expenses,
		NetOperatingIncome: ncf,
		TotalExpenses:      expenses,
		NetCashFlow:        ncf,
		DiscountFactor:     one,
		PresentValue:       ncf,
		CumulativePV:       cumulative,
	})

	compounding := one // growth^(year-1)
	discounting := one // discount^year
	for year := 1; year <= a.HoldingPeriod; year++ {
		if year > 1 {
			compounding = compounding.Mul(t.growth)
		}
		discounting = discounting.Mul(t.discount)

		op := operatingYear(t, compounding)
		row := CashFlowRow{
			Year:               year,
			GrossRent:          op.gross,
			VacancyLoss:        op.vacancyLoss,
			EffectiveRent:      op.effective,
			OperatingExpenses:  op.expenses,
			NetOperatingIncome: op.noi,
			Capex:              t.capex,
			DebtService:        t.debt,
			TotalExpenses:      op.expenses.Add(t.debt),
			NetCashFlow:        op.netCashFlow,
		}
		if year == a.HoldingPeriod && t.exitCap.IsPositive() {
			row.TerminalValue = terminalValue(t, op.noi)
			row.NetCashFlow = row.NetCashFlow.Add(row.TerminalValue)
		}
		row.DiscountFactor = discounting.Inv()
		row.PresentValue = row.NetCashFlow.Mul(row.DiscountFactor)
		cumulative = cumulative.Add(row.PresentValue)
		row.CumulativePV = cumulative
		rows = append(rows, row)
	}
	return rows, nil
}

// annualDebtService returns the constant yearly payment of the acquisition loan.
//
// The loan fully amortizes monthly over the holding period; a zero interest rate
// amortizes the principal linearly.
func annualDebtService(a Assumptions) (Amount, error) {
	if !a.HasDebt() || a.HoldingPeriod == 0 {
		return zero, nil
	}
	principal := A(a.InitialInvestment).Mul(A(a.LoanToValue).Percent())
	months := A(a.HoldingPeriod * 12)
	if a.InterestRate.IsZero() {
		return principal.Div(months).Mul(twelve), nil
	}
	r := A(a.InterestRate).Percent().Div(twelve)
	growth := one.Add(r).Pow(a.HoldingPeriod * 12)
	if growth.Equal(one) {
		return zero, fmt.Errorf("%w: interest_rate %s%% makes the loan payment undefined", ErrInvalidAssumptions, a.InterestRate)
	}
	return amortizingPayment(principal, r, growth, one).Mul(twelve), nil
}

// NPV returns the net present value of a ledger, its final cumulative present value.
func NPV(rows []CashFlowRow) Amount {
	if len(rows) == 0 {
		return zero
	}
	return rows[len(rows)-1].CumulativePV
}

// NetCashFlows returns the net cash flow of each row, as floats.
func NetCashFlows(rows []CashFlowRow) []float64 {
	flows := make([]float64, len(rows))
	for i, r := range rows {
		flows[i] = r.NetCashFlow.Float64()
	}
	return flows
}
