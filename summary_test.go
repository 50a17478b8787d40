package dcf

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{5, 1.2},
		{25, 2},
		{50, 3},
		{95, 4.8},
		{100, 5},
	}
	for _, tt := range tests {
		if got := Percentile(values, tt.p); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Percentile(%v, %g) = %g, want %g", values, tt.p, got, tt.want)
		}
	}
	if got := Percentile([]float64{7}, 95); got != 7 {
		t.Errorf("Percentile of a single value = %g, want 7", got)
	}
	if got := Percentile(nil, 50); !math.IsNaN(got) {
		t.Errorf("Percentile of no value = %g, want NaN", got)
	}
}

func TestSummarize(t *testing.T) {
	u := Undefined[float64]()
	npv := []Optional[float64]{Defined(-10.0), Defined(10.0), u, Defined(30.0)}
	irr := []Optional[float64]{u, Defined(0.05), u, Defined(0.15)}

	s, err := Summarize(npv, irr)
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"npv mean", s.NPVMean, 10},
		{"npv stddev", s.NPVStdDev, 20},
		{"npv 5th", s.NPV5th, -8},
		{"npv 95th", s.NPV95th, 28},
		{"irr mean", s.IRRMean.Or(math.NaN()), 0.1},
		{"irr 5th", s.IRR5th.Or(math.NaN()), 0.055},
		{"irr 95th", s.IRR95th.Or(math.NaN()), 0.145},
		{"positive", s.ProbabilityNPVPositive, 0.5},
		{"valid irr", s.ValidIRRFraction, 0.5},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-12 {
			t.Errorf("%s = %g, want %g", c.name, c.got, c.want)
		}
	}
	if s.Draws != 4 || s.ValidNPV != 3 {
		t.Errorf("Draws = %d, ValidNPV = %d, want 4 and 3", s.Draws, s.ValidNPV)
	}
}

func TestSummarize_NoValidDraw(t *testing.T) {
	u := Undefined[float64]()
	_, err := Summarize([]Optional[float64]{u, u}, []Optional[float64]{u, u})
	if !errors.Is(err, ErrNoValidDraws) {
		t.Errorf("Summarize() error = %v, want %v", err, ErrNoValidDraws)
	}
}

func TestSummary_MarshalJSON(t *testing.T) {
	s, err := Summarize([]Optional[float64]{Defined(1.0)}, []Optional[float64]{Undefined[float64]()})
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error: %v", err)
	}
	want := `{"draws":1,"valid_npv":1,"npv_mean":1,"npv_std_dev":0,"npv_5th_percentile":1,"npv_95th_percentile":1,"irr_mean":null,"irr_5th_percentile":null,"irr_95th_percentile":null,"probability_npv_positive":1,"valid_irr_fraction":0}`
	if string(data) != want {
		t.Errorf("json.Marshal() =\n%s\nwant\n%s", data, want)
	}
}

func TestSummarize_ExtremeDraws(t *testing.T) {
	npv := []Optional[float64]{Defined(1e308), Defined(-1e308), Defined(1e308), Defined(math.Inf(1)), Defined(math.NaN())}
	s, err := Summarize(npv, nil)
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}
	if s.ValidNPV != 3 {
		t.Errorf("ValidNPV = %d, want 3 finite draws", s.ValidNPV)
	}
	for name, v := range map[string]float64{"mean": s.NPVMean, "stddev": s.NPVStdDev, "5th": s.NPV5th, "95th": s.NPV95th} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("NPV %s = %g, want a finite value", name, v)
		}
	}
	if want := 1e308 / 3; math.Abs(s.NPVMean-want) > 1e-12*want {
		t.Errorf("NPV mean = %g, want %g", s.NPVMean, want)
	}
	if _, err := json.Marshal(s); err != nil {
		t.Errorf("json.Marshal() unexpected error: %v", err)
	}
}

func TestSimulate_LongHoldingWideDiscount(t *testing.T) {
	a := reference()
	a.HoldingPeriod = 100
	sim := Simulation{Base: a, Discount: Gaussian(15, 40), Count: 500, Seed: 7}
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			res, err := Run(e.simulate(sim), nil)
			if err != nil {
				t.Fatalf("Run() unexpected error: %v", err)
			}
			s := res.Summary
			for name, v := range map[string]float64{"mean": s.NPVMean, "stddev": s.NPVStdDev, "5th": s.NPV5th, "95th": s.NPV95th} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Errorf("NPV %s = %g, want a finite value", name, v)
				}
			}
			if _, err := json.Marshal(res); err != nil {
				t.Errorf("json.Marshal() unexpected error: %v", err)
			}
		})
	}
}
