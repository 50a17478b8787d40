package dcf

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// DistributionKind names a probability distribution.
type DistributionKind string

const (
	Constant DistributionKind = "constant"
	Normal   DistributionKind = "normal"
	Pareto   DistributionKind = "pareto"
)

// Distribution describes a random variable.
//
// Mean is used by every kind, StdDev by Normal and Shape by Pareto.
type Distribution struct {
	Kind   DistributionKind `json:"distribution" yaml:"distribution"`
	Mean   float64          `json:"mean" yaml:"mean"`
	StdDev float64          `json:"stddev,omitempty" yaml:"stddev,omitempty"`
	Shape  float64          `json:"shape,omitempty" yaml:"shape,omitempty"`
}

// Fixed returns a constant distribution of value v.
func Fixed(v float64) Distribution { return Distribution{Kind: Constant, Mean: v} }

// Gaussian returns a normal distribution.
func Gaussian(mean, stddev float64) Distribution {
	return Distribution{Kind: Normal, Mean: mean, StdDev: stddev}
}

// PowerLaw returns a Pareto distribution anchored at mean.
func PowerLaw(mean, shape float64) Distribution {
	return Distribution{Kind: Pareto, Mean: mean, Shape: shape}
}

// Validate checks the kind and parameters of d.
func (d Distribution) Validate() error {
	switch d.Kind {
	case Constant:
	case Normal:
		if d.StdDev < 0 {
			return fmt.Errorf("%w: stddev must not be negative, got %g", ErrInvalidDistribution, d.StdDev)
		}
	case Pareto:
		if !(d.Shape > 0) {
			return fmt.Errorf("%w: shape must be positive, got %g", ErrInvalidDistribution, d.Shape)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDistribution, d.Kind)
	}
	return nil
}

func (d Distribution) String() string {
	switch d.Kind {
	case Normal:
		return fmt.Sprintf("normal(%g, %g)", d.Mean, d.StdDev)
	case Pareto:
		return fmt.Sprintf("pareto(%g, %g)", d.Mean, d.Shape)
	default:
		return fmt.Sprintf("%g", d.Mean)
	}
}

// Sampler draws values from distributions.
//
// It owns its generator: two samplers created with the same seed draw the same values.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	src rand.Source
}

// NewSampler returns a Sampler seeded with seed.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{src: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// Sample returns n values drawn from d.
//
// Normal draws are independent Gaussian values, a zero stddev degenerates to the mean.
// Pareto draws are mean × (1 + x) where x follows a Pareto distribution of the given
// shape shifted to start at zero, so mean is the minimum of a heavy right tail.
func (s *Sampler) Sample(d Distribution, n int) ([]float64, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	values := make([]float64, n)
	switch d.Kind {
	case Constant:
		for i := range values {
			values[i] = d.Mean
		}
	case Normal:
		dist := distuv.Normal{Mu: d.Mean, Sigma: d.StdDev, Src: s.src}
		for i := range values {
			values[i] = dist.Rand()
		}
	case Pareto:
		// Xm = 1 makes Rand() the 1 + x factor.
		dist := distuv.Pareto{Xm: 1, Alpha: d.Shape, Src: s.src}
		for i := range values {
			values[i] = d.Mean * dist.Rand()
		}
	}
	return values, nil
}
