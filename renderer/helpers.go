package renderer

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/etnz/dcf"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// formatMoney formats v as an amount of currency, "n/a" if not finite.
func formatMoney(v float64, currency string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return dcf.A(v).Format(currency)
}

// formatRate formats a fractional rate as a percentage, "n/a" if undefined.
func formatRate(rate dcf.Optional[float64]) string {
	if p, ok := dcf.InPercent(rate).Get(); ok {
		return p.String()
	}
	return "n/a"
}

// formatYears formats a payback period, "never" if undefined.
func formatYears(years dcf.Optional[float64]) string {
	if v, ok := years.Get(); ok {
		return fmt.Sprintf("%.2f years", v)
	}
	return "never"
}
