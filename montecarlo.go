package dcf

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

// Simulation describes a Monte Carlo valuation.
//
// Rent growth, discount rate and interest rate of Base are replaced, draw by draw, with
// values sampled from their distributions. A distribution with an empty Kind is
// constant at the Base value.
type Simulation struct {
	Base      Assumptions
	Growth    Distribution
	Discount  Distribution
	Interest  Distribution
	Count     int       // number of draws.
	BatchSize int       // draws per progress batch, defaults to 1% of Count.
	Seed      uint64    // seed of the sampler.
	Solver    IRRSolver // defaults to BrentSolver.
}

// SeedOf returns the first nonzero seed, or a seed from the clock when all are 0.
func SeedOf(seeds ...uint64) uint64 {
	for _, seed := range seeds {
		if seed != 0 {
			return seed
		}
	}
	return uint64(time.Now().UnixNano()) | 1
}

// SimulationResult holds the per-draw outcomes of a simulation and their summary.
//
// NPV and IRR have exactly one entry per draw; a draw that failed is undefined.
type SimulationResult struct {
	NPV     []Optional[float64] `json:"npv_results"`
	IRR     []Optional[float64] `json:"irr_results"`
	Summary Summary             `json:"summary"`
}

// Batch is the progress of a simulation after a batch of draws.
//
// NPV and IRR hold the outcomes of the draws of this batch only. The final batch
// carries the complete Result.
type Batch struct {
	Done   int
	Total  int
	NPV    []Optional[float64]
	IRR    []Optional[float64]
	Result *SimulationResult
}

// Fraction returns the completion of the simulation, between 0 and 1.
func (b Batch) Fraction() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Done) / float64(b.Total)
}

// Complete reports whether b is the final batch.
func (b Batch) Complete() bool { return b.Result != nil }

// Validate checks the simulation parameters.
func (sim Simulation) Validate() error {
	if sim.Count < 1 {
		return fmt.Errorf("%w: simulation count must be positive, got %d", ErrInvalidAssumptions, sim.Count)
	}
	if err := sim.Base.Validate(); err != nil {
		return err
	}
	for _, d := range []Distribution{sim.Growth, sim.Discount, sim.Interest} {
		if d.Kind == "" {
			continue
		}
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (sim Simulation) batchSize() int {
	if sim.BatchSize > 0 {
		return sim.BatchSize
	}
	return max(1, sim.Count/100)
}

func (sim Simulation) solver() IRRSolver {
	if sim.Solver == nil {
		return BrentSolver{}
	}
	return sim.Solver
}

// draws are the sampled rates, one value per draw.
type draws struct {
	growth, discount, interest []float64
}

// draw samples every rate, growth first, then discount and interest.
//
// Both simulation paths use it so that they see the same values for the same seed.
func (sim Simulation) draw() (draws, error) {
	s := NewSampler(sim.Seed)
	sample := func(d Distribution, base float64) ([]float64, error) {
		if d.Kind == "" {
			d = Fixed(base)
		}
		return s.Sample(d, sim.Count)
	}
	var d draws
	var err error
	if d.growth, err = sample(sim.Growth, sim.Base.AnnualRentGrowth.InexactFloat64()); err != nil {
		return d, fmt.Errorf("sampling rent growth: %w", err)
	}
	if d.discount, err = sample(sim.Discount, sim.Base.DiscountRate.InexactFloat64()); err != nil {
		return d, fmt.Errorf("sampling discount rate: %w", err)
	}
	if d.interest, err = sample(sim.Interest, sim.Base.InterestRate.InexactFloat64()); err != nil {
		return d, fmt.Errorf("sampling interest rate: %w", err)
	}
	return d, nil
}

// Simulate runs sim draw by draw, each draw being a full exact projection.
//
// This is the reference path. The returned sequence yields one Batch every BatchSize
// draws, the last one carrying the result. Iterating again restarts the simulation from
// scratch with the same draws; stopping the iteration stops the computation.
// A draw whose projection fails is undefined, the simulation fails only when no draw
// has an NPV.
func Simulate(sim Simulation) iter.Seq2[Batch, error] {
	return func(yield func(Batch, error) bool) {
		if err := sim.Validate(); err != nil {
			yield(Batch{}, err)
			return
		}
		d, err := sim.draw()
		if err != nil {
			yield(Batch{}, err)
			return
		}
		solver := sim.solver()
		run := func(start, end int, npv, irr []Optional[float64]) {
			for i := start; i < end; i++ {
				npv[i], irr[i] = scalarDraw(sim.Base, d.growth[i], d.discount[i], d.interest[i], solver)
			}
		}
		batches(sim, run)(yield)
	}
}

// scalarDraw projects one draw.
func scalarDraw(base Assumptions, growth, discount, interest float64, solver IRRSolver) (npv, irr Optional[float64]) {
	if !finite(growth) || !finite(discount) || !finite(interest) {
		return
	}
	rows, err := Project(base.WithRates(growth, discount, interest))
	if err != nil {
		return
	}
	return DefinedFloat(NPV(rows).Float64()), solver.IRR(NetCashFlows(rows))
}

// batches returns the batch sequence of sim, where run fills npv and irr in [start, end).
func batches(sim Simulation, run func(start, end int, npv, irr []Optional[float64])) iter.Seq2[Batch, error] {
	return func(yield func(Batch, error) bool) {
		npv := make([]Optional[float64], sim.Count)
		irr := make([]Optional[float64], sim.Count)
		size := sim.batchSize()
		for start := 0; start < sim.Count; start += size {
			end := min(start+size, sim.Count)
			run(start, end, npv, irr)
			b := Batch{Done: end, Total: sim.Count, NPV: npv[start:end], IRR: irr[start:end]}
			if end == sim.Count {
				summary, err := Summarize(npv, irr)
				if err != nil {
					yield(b, err)
					return
				}
				b.Result = &SimulationResult{NPV: npv, IRR: irr, Summary: summary}
			}
			if !yield(b, nil) {
				return
			}
		}
	}
}

// Run drains a simulation sequence and returns its result.
//
// progress, when not nil, is called with every batch, the final one included.
func Run(seq iter.Seq2[Batch, error], progress func(Batch)) (*SimulationResult, error) {
	for b, err := range seq {
		if err != nil {
			return nil, err
		}
		if progress != nil {
			progress(b)
		}
		if b.Complete() {
			return b.Result, nil
		}
	}
	return nil, errors.New("simulation ended without a result")
}
