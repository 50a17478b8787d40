package dcf

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the statistics of a simulation.
//
// Statistics skip undefined and non-finite draws, and are always finite. IRR statistics are undefined when no draw has an
// IRR. IRRs are fractions (0.15 is 15%).
type Summary struct {
	Draws                  int               `json:"draws"`
	ValidNPV               int               `json:"valid_npv"`
	NPVMean                float64           `json:"npv_mean"`
	NPVStdDev              float64           `json:"npv_std_dev"`
	NPV5th                 float64           `json:"npv_5th_percentile"`
	NPV95th                float64           `json:"npv_95th_percentile"`
	IRRMean                Optional[float64] `json:"irr_mean"`
	IRR5th                 Optional[float64] `json:"irr_5th_percentile"`
	IRR95th                Optional[float64] `json:"irr_95th_percentile"`
	ProbabilityNPVPositive float64           `json:"probability_npv_positive"`
	ValidIRRFraction       float64           `json:"valid_irr_fraction"`
}

// Summarize computes the statistics of per-draw NPVs and IRRs.
//
// ProbabilityNPVPositive and ValidIRRFraction are over all draws, undefined ones
// included. It fails with ErrNoValidDraws when no NPV is defined.
func Summarize(npv, irr []Optional[float64]) (Summary, error) {
	s := Summary{Draws: len(npv)}
	npvs := defined(npv)
	if len(npvs) == 0 {
		return s, fmt.Errorf("%w: %d draws, none with an NPV", ErrNoValidDraws, len(npv))
	}
	s.ValidNPV = len(npvs)
	s.NPVMean, s.NPVStdDev = meanStdDev(npvs)
	slices.Sort(npvs)
	s.NPV5th = Percentile(npvs, 5)
	s.NPV95th = Percentile(npvs, 95)

	positive := 0
	for _, v := range npvs {
		if v > 0 {
			positive++
		}
	}
	s.ProbabilityNPVPositive = float64(positive) / float64(len(npv))

	irrs := defined(irr)
	if len(irr) > 0 {
		s.ValidIRRFraction = float64(len(irrs)) / float64(len(irr))
	}
	if len(irrs) > 0 {
		slices.Sort(irrs)
		s.IRRMean = DefinedFloat(stat.Mean(irrs, nil))
		s.IRR5th = DefinedFloat(Percentile(irrs, 5))
		s.IRR95th = DefinedFloat(Percentile(irrs, 95))
	}
	return s, nil
}

// Percentile returns the p-th percentile (0 to 100) of sorted values, interpolating
// linearly between the closest ranks.
//
// This is the default definition of numpy and spreadsheets, where the k-th of n sorted
// values sits at percentile 100·k/(n-1). It returns NaN for no values.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p / 100
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	if i < 0 {
		return sorted[0]
	}
	f := h - lo
	if d := sorted[i+1] - sorted[i]; !math.IsInf(d, 0) {
		return sorted[i] + f*d
	}
	return sorted[i]*(1-f) + sorted[i+1]*f
}

// meanStdDev returns the mean and the sample standard deviation of x, computed on x
// scaled by its largest magnitude so that draws near the float64 limit cannot overflow
// the sums. Both are finite; a standard deviation beyond the float64 range is capped.
func meanStdDev(x []float64) (mean, std float64) {
	scale := floats.Norm(x, math.Inf(1))
	if scale == 0 {
		return 0, 0
	}
	scaled := make([]float64, len(x))
	floats.ScaleTo(scaled, 1/scale, x)
	mean = stat.Mean(scaled, nil) * scale
	if len(x) > 1 {
		std = math.Min(stat.StdDev(scaled, nil)*scale, math.MaxFloat64)
	}
	return mean, std
}

func defined(values []Optional[float64]) []float64 {
	var out []float64
	for _, v := range values {
		if x, ok := v.Get(); ok && !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	return out
}
