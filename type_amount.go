package dcf

import (
	"math"
	"math/big"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount is an exact rational value, a ratio of two integers.
//
// Amounts are immutable: every operation returns a new Amount. The zero value is 0.
type Amount struct {
	r *big.Rat
}

// newAmount is a convenient factory for Amount.
//
// Floats go through their shortest decimal representation, so that A(0.1) is exactly 1/10.
func newAmount[T int | int64 | float64 | decimal.Decimal](value T) Amount {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return Amount{r: v.Rat()}
	case float64:
		return Amount{r: decimal.NewFromFloat(v).Rat()}
	case int:
		return Amount{r: new(big.Rat).SetInt64(int64(v))}
	case int64:
		return Amount{r: new(big.Rat).SetInt64(v)}
	default:
		panic("unsupported type")
	}
}

// A returns the exact Amount of value.
func A[T int | int64 | float64 | decimal.Decimal](value T) Amount { return newAmount(value) }

// rat returns the underlying value, never nil. It must not be modified.
func (a Amount) rat() *big.Rat {
	if a.r == nil {
		return new(big.Rat)
	}
	return a.r
}

func (a Amount) Add(b Amount) Amount { return Amount{r: new(big.Rat).Add(a.rat(), b.rat())} }
func (a Amount) Sub(b Amount) Amount { return Amount{r: new(big.Rat).Sub(a.rat(), b.rat())} }
func (a Amount) Mul(b Amount) Amount { return Amount{r: new(big.Rat).Mul(a.rat(), b.rat())} }
func (a Amount) Neg() Amount         { return Amount{r: new(big.Rat).Neg(a.rat())} }
func (a Amount) Inv() Amount         { return Amount{r: new(big.Rat).Inv(a.rat())} }

// Div returns a/b. It panics if b is zero, callers check it first.
func (a Amount) Div(b Amount) Amount { return Amount{r: new(big.Rat).Quo(a.rat(), b.rat())} }

// Pow returns a to the power n, n >= 0.
func (a Amount) Pow(n int) Amount {
	num := new(big.Int).Exp(a.rat().Num(), big.NewInt(int64(n)), nil)
	den := new(big.Int).Exp(a.rat().Denom(), big.NewInt(int64(n)), nil)
	return Amount{r: new(big.Rat).SetFrac(num, den)}
}

// Percent returns a/100, the fraction of a percentage.
func (a Amount) Percent() Amount { return a.Div(hundred) }

func (a Amount) Cmp(b Amount) int          { return a.rat().Cmp(b.rat()) }
func (a Amount) Equal(b Amount) bool       { return a.Cmp(b) == 0 }
func (a Amount) GreaterThan(b Amount) bool { return a.Cmp(b) > 0 }
func (a Amount) LessThan(b Amount) bool    { return a.Cmp(b) < 0 }
func (a Amount) IsZero() bool              { return a.rat().Sign() == 0 }
func (a Amount) IsPositive() bool          { return a.rat().Sign() > 0 }
func (a Amount) IsNegative() bool          { return a.rat().Sign() < 0 }
func (a Amount) Sign() int                 { return a.rat().Sign() }
func (a Amount) FloatString(n int) string  { return a.rat().FloatString(n) }

// Decimal returns the value rounded to n decimal places, halves away from zero.
func (a Amount) Decimal(n int) decimal.Decimal { return decimal.RequireFromString(a.FloatString(n)) }

// Float64 returns the nearest float64 value.
func (a Amount) Float64() float64 {
	f, _ := a.rat().Float64()
	return f
}

// String returns the value rounded to cents.
func (a Amount) String() string { return a.FloatString(2) }

// Format returns the value formatted as money in currency.
func (a Amount) Format(currency string) string {
	cur := *money.New(0, currency).Currency()
	dec := a.Decimal(cur.Fraction).Shift(int32(cur.Fraction))
	if dec.Abs().GreaterThan(maxMinorUnits) {
		// beyond the int64 minor units of go-money.
		return a.FloatString(cur.Fraction) + " " + cur.Code
	}
	return cur.Formatter().Format(dec.IntPart())
}

// MarshalJSON writes the value rounded to cents, as a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.FloatString(2)), nil
}

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

var (
	zero    = A(0)
	one     = A(1)
	twelve  = A(12)
	hundred = A(100)
)
