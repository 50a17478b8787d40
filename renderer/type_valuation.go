package renderer

import (
	"fmt"

	"github.com/etnz/dcf"
)

// Valuation is a struct to represent a valuation report for rendering.
type Valuation struct {
	Title             string         `json:"title,omitempty"`
	HoldingPeriod     int            `json:"holdingPeriod"`
	DiscountRate      string         `json:"discountRate"`
	NPV               string         `json:"npv"`
	IRR               string         `json:"irr"`
	PaybackRate       string         `json:"paybackRate"`
	SimplePayback     string         `json:"simplePayback"`
	DiscountedPayback string         `json:"discountedPayback"`
	Rows              []ValuationRow `json:"rows"`
}

// ValuationRow holds the formatted amounts of one year of the ledger.
type ValuationRow struct {
	Year              int    `json:"year"`
	GrossRent         string `json:"grossRent"`
	VacancyLoss       string `json:"vacancyLoss"`
	OperatingExpenses string `json:"operatingExpenses"`
	NOI               string `json:"noi"`
	Capex             string `json:"capex"`
	DebtService       string `json:"debtService"`
	TerminalValue     string `json:"terminalValue"`
	NetCashFlow       string `json:"netCashFlow"`
	DiscountFactor    string `json:"discountFactor"`
	PresentValue      string `json:"presentValue"`
	CumulativePV      string `json:"cumulativePv"`
}

// NewValuation formats a report with amounts in currency.
func NewValuation(title string, r *dcf.Report, currency string) *Valuation {
	v := &Valuation{
		Title:             title,
		HoldingPeriod:     r.Assumptions.HoldingPeriod,
		DiscountRate:      r.Assumptions.DiscountRate.String() + "%",
		NPV:               r.NPV.Format(currency),
		IRR:               formatRate(r.IRR),
		PaybackRate:       fmt.Sprintf("%g%%", r.PaybackRate*100),
		SimplePayback:     formatYears(r.Payback.Simple),
		DiscountedPayback: formatYears(r.Payback.Discounted),
	}
	for _, row := range r.Rows {
		terminal := ""
		if !row.TerminalValue.IsZero() {
			terminal = row.TerminalValue.Format(currency)
		}
		v.Rows = append(v.Rows, ValuationRow{
			Year:              row.Year,
			GrossRent:         row.GrossRent.Format(currency),
			VacancyLoss:       row.VacancyLoss.Format(currency),
			OperatingExpenses: row.OperatingExpenses.Format(currency),
			NOI:               row.NetOperatingIncome.Format(currency),
			Capex:             row.Capex.Format(currency),
			DebtService:       row.DebtService.Format(currency),
			TerminalValue:     terminal,
			NetCashFlow:       row.NetCashFlow.Format(currency),
			DiscountFactor:    row.DiscountFactor.FloatString(4),
			PresentValue:      row.PresentValue.Format(currency),
			CumulativePV:      row.CumulativePV.Format(currency),
		})
	}
	return v
}
