package dcf

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

// D is a helper for test to create decimals from const.
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// reference returns the assumptions of the reference scenario: a 200k flat let for 20k
// a year, held 25 years.
func reference() Assumptions {
	return Assumptions{
		InitialInvestment:  D(200000),
		AnnualRentalIncome: D(20000),
		ServiceCharge:      D(1000),
		GroundRent:         D(500),
		Maintenance:        D(1000),
		PropertyTax:        D(6000),
		Insurance:          D(300),
		ManagementFeeRate:  D(12),
		TransactionCosts:   D(3000),
		AnnualRentGrowth:   D(2),
		DiscountRate:       D(15),
		HoldingPeriod:      25,
	}
}

// mustProject projects a or fails the test.
func mustProject(t *testing.T, a Assumptions) []CashFlowRow {
	t.Helper()
	rows, err := Project(a)
	if err != nil {
		t.Fatalf("Project() unexpected error: %v", err)
	}
	return rows
}

// near reports whether got is within a relative tolerance of want.
func near(got, want, tolerance float64) bool {
	return math.Abs(got-want) <= tolerance*math.Max(1, math.Abs(want))
}
