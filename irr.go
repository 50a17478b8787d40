package dcf

import (
	"fmt"
	"math"
)

// IRR search interval, from -99% to 1000% per period.
const (
	MinIRR = -0.99
	MaxIRR = 10.0
)

// RootFinder finds a root of f in [a, b].
//
// It returns an error wrapping ErrNoRootFound when f does not change sign on the
// bracket, is not finite, or when it does not converge.
type RootFinder interface {
	Root(f func(float64) float64, a, b float64) (float64, error)
}

// IRRSolver computes the internal rate of return of a cash-flow sequence.
type IRRSolver interface {
	IRR(flows []float64) Optional[float64]
}

// BrentSolver is a RootFinder and IRRSolver using Brent's method.
//
// Its zero value uses the same tolerances as scipy's brentq.
type BrentSolver struct {
	XTol    float64 // absolute tolerance, defaults to 2e-12.
	RTol    float64 // relative tolerance, defaults to 4 machine epsilon.
	MaxIter int     // defaults to 100.
}

// IRR returns the internal rate of return of flows as a fraction (0.15 is 15%),
// using the default BrentSolver.
//
// The result is undefined when flows do not change sign or when no root is bracketed
// in [MinIRR, MaxIRR]. With several sign changes there may be several roots,
// only one of them is returned.
func IRR(flows []float64) Optional[float64] { return BrentSolver{}.IRR(flows) }

// IRR implements IRRSolver.
func (s BrentSolver) IRR(flows []float64) Optional[float64] {
	if !changesSign(flows) {
		return Undefined[float64]()
	}
	r, err := s.Root(func(r float64) float64 { return NPVAt(r, flows) }, MinIRR, MaxIRR)
	if err != nil {
		return Undefined[float64]()
	}
	return DefinedFloat(r)
}

// NPVAt returns the net present value of flows discounted at rate r per period,
// flows[0] being undiscounted.
func NPVAt(r float64, flows []float64) float64 {
	var npv float64
	base := 1 + r
	factor := 1.0
	for i, cf := range flows {
		if i > 0 {
			factor *= base
		}
		npv += cf / factor
	}
	return npv
}

// Root implements RootFinder.
func (s BrentSolver) Root(f func(float64) float64, a, b float64) (float64, error) {
	xtol, rtol, maxIter := s.XTol, s.RTol, s.MaxIter
	if xtol <= 0 {
		xtol = 2e-12
	}
	if rtol <= 0 {
		rtol = 4 * epsilon
	}
	if maxIter <= 0 {
		maxIter = 100
	}

	fa, fb := f(a), f(b)
	if !finite(fa) || !finite(fb) {
		return math.NaN(), fmt.Errorf("%w: f is not finite on [%g, %g]", ErrNoRootFound, a, b)
	}
	if fa == 0 {
		return a, nil
	}
	if fb == 0 {
		return b, nil
	}
	if math.Signbit(fa) == math.Signbit(fb) {
		return math.NaN(), fmt.Errorf("%w: f(%g) and f(%g) have the same sign", ErrNoRootFound, a, b)
	}

	// pre is the previous estimate, cur the current one, blk the contrapoint.
	pre, cur := a, b
	fpre, fcur := fa, fb
	var blk, fblk, spre, scur float64

	for i := 0; i < maxIter; i++ {
		if fpre != 0 && fcur != 0 && math.Signbit(fpre) != math.Signbit(fcur) {
			blk, fblk = pre, fpre
			spre = cur - pre
			scur = spre
		}
		if math.Abs(fblk) < math.Abs(fcur) {
			pre, cur, blk = cur, blk, cur
			fpre, fcur, fblk = fcur, fblk, fcur
		}

		delta := (xtol + rtol*math.Abs(cur)) / 2
		sbis := (blk - cur) / 2
		if fcur == 0 || math.Abs(sbis) < delta {
			return cur, nil
		}

		if math.Abs(spre) > delta && math.Abs(fcur) < math.Abs(fpre) {
			var stry float64
			if pre == blk {
				// secant
				stry = -fcur * (cur - pre) / (fcur - fpre)
			} else {
				// inverse quadratic interpolation
				dpre := (fpre - fcur) / (pre - cur)
				dblk := (fblk - fcur) / (blk - cur)
				stry = -fcur * (fblk*dblk - fpre*dpre) / (dblk * dpre * (fblk - fpre))
			}
			if 2*math.Abs(stry) < math.Min(math.Abs(spre), 3*math.Abs(sbis)-delta) {
				// accept the interpolation
				spre, scur = scur, stry
			} else {
				spre, scur = sbis, sbis
			}
		} else {
			spre, scur = sbis, sbis
		}

		pre, fpre = cur, fcur
		if math.Abs(scur) > delta {
			cur += scur
		} else if sbis > 0 {
			cur += delta
		} else {
			cur -= delta
		}

		fcur = f(cur)
		if !finite(fcur) {
			return math.NaN(), fmt.Errorf("%w: f(%g) is not finite", ErrNoRootFound, cur)
		}
	}
	return math.NaN(), fmt.Errorf("%w: no convergence after %d iterations", ErrNoRootFound, maxIter)
}

func changesSign(flows []float64) bool {
	var pos, neg bool
	for _, cf := range flows {
		pos = pos || cf > 0
		neg = neg || cf < 0
	}
	return pos && neg
}

const epsilon = 2.220446049250313e-16

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
