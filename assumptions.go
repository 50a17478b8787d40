package dcf

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Assumptions are the financial assumptions of one valuation.
//
// Every rate is a percentage (15 means 15%). Values are decimals so that the exact
// decimal text of each input is kept; missing fields are zero.
type Assumptions struct {
	InitialInvestment  decimal.Decimal `json:"initial_investment" yaml:"initial_investment"`
	AnnualRentalIncome decimal.Decimal `json:"annual_rental_income" yaml:"annual_rental_income"`
	VacancyRate        decimal.Decimal `json:"vacancy_rate" yaml:"vacancy_rate"`
	ServiceCharge      decimal.Decimal `json:"service_charge" yaml:"service_charge"`
	GroundRent         decimal.Decimal `json:"ground_rent" yaml:"ground_rent"`
	Maintenance        decimal.Decimal `json:"maintenance" yaml:"maintenance"`
	PropertyTax        decimal.Decimal `json:"property_tax" yaml:"property_tax"`
	Insurance          decimal.Decimal `json:"insurance" yaml:"insurance"`
	ManagementFeeRate  decimal.Decimal `json:"management_fee_rate" yaml:"management_fee_rate"`
	TransactionCosts   decimal.Decimal `json:"transaction_costs" yaml:"transaction_costs"`
	AnnualRentGrowth   decimal.Decimal `json:"annual_rent_growth" yaml:"annual_rent_growth"`
	DiscountRate       decimal.Decimal `json:"discount_rate" yaml:"discount_rate"`
	HoldingPeriod      int             `json:"holding_period" yaml:"holding_period"`
	LoanToValue        decimal.Decimal `json:"loan_to_value" yaml:"loan_to_value"`
	InterestRate       decimal.Decimal `json:"interest_rate" yaml:"interest_rate"`
	Capex              decimal.Decimal `json:"capex" yaml:"capex"`
	ExitCapRate        decimal.Decimal `json:"exit_cap_rate" yaml:"exit_cap_rate"`
	SellingCostsRate   decimal.Decimal `json:"selling_costs_rate" yaml:"selling_costs_rate"`
}

// UnmarshalJSON decodes assumptions, accepting the legacy field names
// "management_fees", "ltv" and "selling_costs".
func (a *Assumptions) UnmarshalJSON(data []byte) error {
	type plain Assumptions
	var temp struct {
		plain
		ManagementFees *decimal.Decimal `json:"management_fees"`
		LTV            *decimal.Decimal `json:"ltv"`
		SellingCosts   *decimal.Decimal `json:"selling_costs"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*a = Assumptions(temp.plain)
	if temp.ManagementFees != nil && a.ManagementFeeRate.IsZero() {
		a.ManagementFeeRate = *temp.ManagementFees
	}
	if temp.LTV != nil && a.LoanToValue.IsZero() {
		a.LoanToValue = *temp.LTV
	}
	if temp.SellingCosts != nil && a.SellingCostsRate.IsZero() {
		a.SellingCostsRate = *temp.SellingCosts
	}
	return nil
}

// Validate checks that every field is in its domain.
//
// It returns an error wrapping ErrInvalidAssumptions and every failure found, or nil.
func (a Assumptions) Validate() error {
	var errs []error
	if a.HoldingPeriod < 0 {
		errs = append(errs, fmt.Errorf("holding_period must be a non-negative integer, got %d", a.HoldingPeriod))
	}
	if a.InitialInvestment.IsNegative() {
		errs = append(errs, fmt.Errorf("initial_investment must not be negative, got %s", a.InitialInvestment))
	}
	if a.DiscountRate.LessThanOrEqual(decimal.NewFromInt(-100)) {
		errs = append(errs, fmt.Errorf("discount_rate must be greater than -100%%, got %s%%", a.DiscountRate))
	}
	for _, f := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"vacancy_rate", a.VacancyRate},
		{"loan_to_value", a.LoanToValue},
		{"selling_costs_rate", a.SellingCostsRate},
	} {
		if f.value.IsNegative() || f.value.GreaterThan(decimal.NewFromInt(100)) {
			errs = append(errs, fmt.Errorf("%s must be between 0 and 100, got %s", f.name, f.value))
		}
	}
	if a.ExitCapRate.IsNegative() {
		errs = append(errs, fmt.Errorf("exit_cap_rate must not be negative, got %s", a.ExitCapRate))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidAssumptions, errors.Join(errs...))
}

// WithRates returns a copy of a with the rent growth, discount and interest rates replaced.
//
// Rates are converted through their shortest decimal representation.
func (a Assumptions) WithRates(growth, discount, interest float64) Assumptions {
	a.AnnualRentGrowth = decimal.NewFromFloat(growth)
	a.DiscountRate = decimal.NewFromFloat(discount)
	a.InterestRate = decimal.NewFromFloat(interest)
	return a
}

// HasDebt reports whether a is financed with a loan.
func (a Assumptions) HasDebt() bool { return a.LoanToValue.IsPositive() }
