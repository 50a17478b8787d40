package dcf

import "fmt"

// Percent is a rate expressed in percent, 15 means 15%.
//
// The core computes with fractional rates; Percent is how they are shown and exchanged
// with users.
type Percent float64

// PercentOf converts a fractional rate (0.15) into a Percent (15).
func PercentOf(rate float64) Percent { return Percent(rate * 100) }

// Fraction returns the fractional rate, 15% is 0.15.
func (p Percent) Fraction() float64 { return float64(p) / 100 }

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// InPercent converts a fractional rate that may be undefined.
func InPercent(rate Optional[float64]) Optional[Percent] {
	if v, ok := rate.Get(); ok {
		return Defined(PercentOf(v))
	}
	return Undefined[Percent]()
}
