package dcf

import (
	"errors"
	"iter"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// engines are the two simulation paths, they must behave the same.
var engines = []struct {
	name     string
	simulate func(Simulation) iter.Seq2[Batch, error]
}{
	{"scalar", Simulate},
	{"vectorized", SimulateVectorized},
}

// countingSolver counts the IRRs solved.
type countingSolver struct{ calls *int }

func (s countingSolver) IRR(flows []float64) Optional[float64] {
	*s.calls++
	return IRR(flows)
}

func TestSimulate_ConstantReproducesProjection(t *testing.T) {
	a := reference()
	a.LoanToValue, a.InterestRate = D(50), D(4)
	a.ExitCapRate, a.SellingCostsRate = D(6), D(2)
	want := NPV(mustProject(t, a)).Float64()

	sims := map[string]Simulation{
		"constant":    {Base: a, Growth: Fixed(2), Discount: Fixed(15), Interest: Fixed(4), Count: 20},
		"no stddev":   {Base: a, Growth: Gaussian(2, 0), Discount: Gaussian(15, 0), Interest: Gaussian(4, 0), Count: 20},
		"unspecified": {Base: a, Count: 20},
	}
	for _, e := range engines {
		for name, sim := range sims {
			t.Run(e.name+"/"+name, func(t *testing.T) {
				res, err := Run(e.simulate(sim), nil)
				if err != nil {
					t.Fatalf("Run() unexpected error: %v", err)
				}
				for i, npv := range res.NPV {
					if got, ok := npv.Get(); !ok || !near(got, want, 1e-6) {
						t.Errorf("draw %d NPV = %v, want %f", i, npv, want)
					}
				}
				if res.Summary.NPVStdDev > 1e-6*max(1, -want, want) {
					t.Errorf("NPV stddev = %g, want 0", res.Summary.NPVStdDev)
				}
			})
		}
	}
}

func TestSimulate_ScalarAndVectorizedAgree(t *testing.T) {
	a := reference()
	a.VacancyRate = D(4)
	a.LoanToValue = D(60)
	a.ExitCapRate, a.SellingCostsRate = D(5.5), D(1.5)
	sim := Simulation{
		Base:     a,
		Growth:   Gaussian(2, 1),
		Discount: Gaussian(8, 2),
		Interest: Gaussian(4, 1.5),
		Count:    60,
		Seed:     2024,
	}
	scalar, err := Run(Simulate(sim), nil)
	if err != nil {
		t.Fatalf("Simulate() unexpected error: %v", err)
	}
	vectorized, err := Run(SimulateVectorized(sim), nil)
	if err != nil {
		t.Fatalf("SimulateVectorized() unexpected error: %v", err)
	}
	for i := range scalar.NPV {
		s, sok := scalar.NPV[i].Get()
		v, vok := vectorized.NPV[i].Get()
		if sok != vok || !near(v, s, 1e-6) {
			t.Errorf("draw %d NPV: scalar %v, vectorized %v", i, scalar.NPV[i], vectorized.NPV[i])
		}
		s, sok = scalar.IRR[i].Get()
		v, vok = vectorized.IRR[i].Get()
		if sok != vok || !near(v, s, 1e-6) {
			t.Errorf("draw %d IRR: scalar %v, vectorized %v", i, scalar.IRR[i], vectorized.IRR[i])
		}
	}
}

func TestSimulate_ZeroInterestDrawsAmortizeLinearly(t *testing.T) {
	a := reference()
	a.LoanToValue = D(50)
	sim := Simulation{Base: a, Interest: Fixed(0), Count: 3}
	want := NPV(mustProject(t, a)).Float64()
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			res, err := Run(e.simulate(sim), nil)
			if err != nil {
				t.Fatalf("Run() unexpected error: %v", err)
			}
			if got, ok := res.NPV[0].Get(); !ok || !near(got, want, 1e-6) {
				t.Errorf("NPV = %v, want %f", res.NPV[0], want)
			}
		})
	}
}

func TestSimulate_DeviationWidensNPV(t *testing.T) {
	spread := func(growth, discount float64) float64 {
		t.Helper()
		sim := Simulation{
			Base:     reference(),
			Growth:   Gaussian(2, growth),
			Discount: Gaussian(15, discount),
			Count:    2000,
			Seed:     1,
		}
		res, err := Run(SimulateVectorized(sim), nil)
		if err != nil {
			t.Fatalf("SimulateVectorized() unexpected error: %v", err)
		}
		return res.Summary.NPVStdDev
	}
	narrow, wide := spread(0.5, 0.5), spread(1.5, 1.5)
	if !(wide > narrow) {
		t.Errorf("NPV stddev with wider rates = %f, want more than %f", wide, narrow)
	}
}

func TestSimulate_Batches(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		batchSize int
		wantDone  []int
	}{
		{"explicit size", 10, 3, []int{3, 6, 9, 10}},
		{"one percent", 200, 0, nil},
		{"fewer draws than a hundred", 7, 0, []int{1, 2, 3, 4, 5, 6, 7}},
		{"single batch", 5, 10, []int{5}},
	}
	for _, e := range engines {
		for _, tt := range tests {
			t.Run(e.name+"/"+tt.name, func(t *testing.T) {
				sim := Simulation{Base: reference(), Growth: Gaussian(2, 1), Count: tt.count, BatchSize: tt.batchSize}
				var done []int
				var last Batch
				for b, err := range e.simulate(sim) {
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if last.Complete() {
						t.Fatalf("batch after the complete one")
					}
					if len(b.NPV) != len(b.IRR) || b.Total != tt.count {
						t.Errorf("batch %+v is inconsistent", b)
					}
					done = append(done, b.Done)
					last = b
				}
				if tt.wantDone != nil {
					if diff := cmp.Diff(tt.wantDone, done); diff != "" {
						t.Errorf("batch boundaries mismatch (-want +got):\n%s", diff)
					}
				} else if len(done) != 100 {
					t.Errorf("got %d batches, want 100", len(done))
				}
				if !last.Complete() || last.Fraction() != 1 {
					t.Fatalf("final batch is not complete: %+v", last)
				}
				if len(last.Result.NPV) != tt.count || len(last.Result.IRR) != tt.count {
					t.Errorf("result has %d NPVs and %d IRRs, want %d", len(last.Result.NPV), len(last.Result.IRR), tt.count)
				}
			})
		}
	}
}

func TestSimulate_StopEarly(t *testing.T) {
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			calls := 0
			sim := Simulation{Base: reference(), Growth: Gaussian(2, 1), Count: 100, BatchSize: 10, Solver: countingSolver{&calls}}
			for b := range e.simulate(sim) {
				if b.Done != 10 {
					t.Errorf("first batch Done = %d, want 10", b.Done)
				}
				break
			}
			if calls != 10 {
				t.Errorf("solved %d IRRs, want 10", calls)
			}
		})
	}
}

func TestSimulate_Restart(t *testing.T) {
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			seq := e.simulate(Simulation{Base: reference(), Growth: Gaussian(2, 1), Discount: PowerLaw(10, 4), Count: 30, Seed: 9})
			first, err := Run(seq, nil)
			if err != nil {
				t.Fatalf("Run() unexpected error: %v", err)
			}
			second, err := Run(seq, nil)
			if err != nil {
				t.Fatalf("Run() unexpected error: %v", err)
			}
			if diff := cmp.Diff(first, second, cmp.AllowUnexported(Optional[float64]{})); diff != "" {
				t.Errorf("restarted simulation mismatch (-first +second):\n%s", diff)
			}
		})
	}
}

func TestSimulate_DrawFailuresAreAbsorbed(t *testing.T) {
	a := reference()
	a.AnnualRentalIncome = D(0) // no inflow: no IRR.
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			res, err := Run(e.simulate(Simulation{Base: a, Discount: Gaussian(15, 1), Count: 20}), nil)
			if err != nil {
				t.Fatalf("Run() unexpected error: %v", err)
			}
			s := res.Summary
			if s.ValidNPV != 20 || s.ValidIRRFraction != 0 || s.IRRMean.IsDefined() {
				t.Errorf("Summary = %+v, want 20 NPVs and no IRR", s)
			}
			if s.ProbabilityNPVPositive != 0 {
				t.Errorf("ProbabilityNPVPositive = %f, want 0", s.ProbabilityNPVPositive)
			}
		})
	}
}

func TestSimulate_Errors(t *testing.T) {
	tests := []struct {
		name string
		sim  Simulation
		want error
	}{
		{"no draw", Simulation{Base: reference()}, ErrInvalidAssumptions},
		{"invalid base", Simulation{Base: Assumptions{HoldingPeriod: -1}, Count: 10}, ErrInvalidAssumptions},
		{"unknown distribution", Simulation{Base: reference(), Growth: Distribution{Kind: "beta"}, Count: 10}, ErrUnknownDistribution},
		{"every draw fails", Simulation{Base: reference(), Discount: Fixed(-150), Count: 10}, ErrNoValidDraws},
	}
	for _, e := range engines {
		for _, tt := range tests {
			t.Run(e.name+"/"+tt.name, func(t *testing.T) {
				res, err := Run(e.simulate(tt.sim), nil)
				if !errors.Is(err, tt.want) {
					t.Errorf("Run() error = %v, want %v", err, tt.want)
				}
				if res != nil {
					t.Errorf("Run() returned a result on error")
				}
			})
		}
	}
}

func TestRun_Progress(t *testing.T) {
	var fractions []float64
	_, err := Run(Simulate(Simulation{Base: reference(), Count: 4, BatchSize: 2}), func(b Batch) {
		fractions = append(fractions, b.Fraction())
	})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]float64{0.5, 1}, fractions); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

func TestSeedOf(t *testing.T) {
	if got := SeedOf(0, 7, 9); got != 7 {
		t.Errorf("SeedOf(0, 7, 9) = %d, want 7", got)
	}
	if got := SeedOf(3); got != 3 {
		t.Errorf("SeedOf(3) = %d, want 3", got)
	}
	if got := SeedOf(0, 0); got == 0 {
		t.Error("SeedOf(0, 0) = 0, want a seed from the clock")
	}
	if got := SeedOf(); got == 0 {
		t.Error("SeedOf() = 0, want a seed from the clock")
	}
}
