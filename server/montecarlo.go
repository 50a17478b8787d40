package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"log"
	"net/http"

	"github.com/etnz/dcf"
	"github.com/gin-gonic/gin"
)

const (
	defaultSimulations       = 1000
	defaultStreamSimulations = 10000
)

// simulationRequest is a simulation and the engine to run it with.
type simulationRequest struct {
	sim   dcf.Simulation
	exact bool
}

func (r simulationRequest) run() iter.Seq2[dcf.Batch, error] {
	if r.exact {
		return dcf.Simulate(r.sim)
	}
	return dcf.SimulateVectorized(r.sim)
}

// parseSimulation builds a simulation from request fields.
//
// Fields are assumptions, where each simulated rate (annual_rent_growth, discount_rate,
// interest_rate) may be a distribution object instead of a number, plus the controls
// num_simulations, batch_size, seed and engine ("exact" or "vectorized"). Rent growth
// and discount rate default to normal(2, 1) and normal(15, 2) when absent.
func (s *Server) parseSimulation(fields map[string]json.RawMessage, count int) (simulationRequest, error) {
	req := simulationRequest{sim: dcf.Simulation{Count: count, Seed: s.cfg.Seed}}
	sim := &req.sim
	sim.Growth, sim.Discount = dcf.Gaussian(2, 1), dcf.Gaussian(15, 2)

	rates := []struct {
		key  string
		dist *dcf.Distribution
	}{
		{"annual_rent_growth", &sim.Growth},
		{"discount_rate", &sim.Discount},
		{"interest_rate", &sim.Interest},
	}
	for _, r := range rates {
		raw, ok := fields[r.key]
		if !ok {
			continue
		}
		if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
			// a plain number is a constant rate of the base assumptions.
			*r.dist = dcf.Distribution{}
			continue
		}
		if err := json.Unmarshal(raw, r.dist); err != nil {
			return req, fmt.Errorf("%w: %s: %w", errBadRequest, r.key, err)
		}
		delete(fields, r.key)
	}

	controls := []struct {
		key   string
		value any
	}{
		{"num_simulations", &sim.Count},
		{"batch_size", &sim.BatchSize},
		{"seed", &sim.Seed},
		{"engine", new(string)},
	}
	for _, ctl := range controls {
		raw, ok := fields[ctl.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, ctl.value); err != nil {
			return req, fmt.Errorf("%w: %s: %w", errBadRequest, ctl.key, err)
		}
		delete(fields, ctl.key)
		if engine, ok := ctl.value.(*string); ok {
			switch *engine {
			case "exact":
				req.exact = true
			case "", "vectorized":
			default:
				return req, fmt.Errorf("%w: unknown engine %q", errBadRequest, *engine)
			}
		}
	}
	sim.Count = max(1, min(sim.Count, s.cfg.MaxSimulations))
	sim.Seed = dcf.SeedOf(sim.Seed)

	data, err := json.Marshal(fields)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(data, &sim.Base); err != nil {
		return req, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	if err := checkAssumptions(sim.Base); err != nil {
		return req, err
	}
	return req, sim.Validate()
}

// monteCarlo runs a simulation and writes its complete result.
func (s *Server) monteCarlo(c *gin.Context) {
	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil {
		fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	req, err := s.parseSimulation(fields, defaultSimulations)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := dcf.Run(req.run(), nil)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// progressEvent is sent after each batch of draws.
type progressEvent struct {
	Progress int                     `json:"progress"`
	Total    int                     `json:"total"`
	Fraction float64                 `json:"fraction"`
	NPVs     []dcf.Optional[float64] `json:"npvs"`
	IRRs     []dcf.Optional[float64] `json:"irrs"`
}

// completeEvent is sent once, after the last progress event.
type completeEvent struct {
	Done    bool                    `json:"done"`
	Summary dcf.Summary             `json:"summary"`
	NPVs    []dcf.Optional[float64] `json:"npvs"`
	IRRs    []dcf.Optional[float64] `json:"irrs"`
}

// monteCarloStream runs a simulation described by the query parameters and streams its
// progress as server-sent events. Distributions are URL-encoded JSON objects.
//
// The simulation stops as soon as the client goes away.
func (s *Server) monteCarloStream(c *gin.Context) {
	fields := make(map[string]json.RawMessage)
	for key, values := range c.Request.URL.Query() {
		v := values[0]
		if json.Valid([]byte(v)) {
			fields[key] = json.RawMessage(v)
			continue
		}
		data, _ := json.Marshal(v)
		fields[key] = data
	}
	req, err := s.parseSimulation(fields, defaultStreamSimulations)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	ctx := c.Request.Context()
	for b, err := range req.run() {
		if err != nil {
			c.SSEvent("error", gin.H{"error": err.Error()})
			c.Writer.Flush()
			return
		}
		c.SSEvent("progress", progressEvent{
			Progress: b.Done,
			Total:    b.Total,
			Fraction: b.Fraction(),
			NPVs:     b.NPV,
			IRRs:     b.IRR,
		})
		if b.Complete() {
			c.SSEvent("complete", completeEvent{
				Done:    true,
				Summary: b.Result.Summary,
				NPVs:    b.Result.NPV,
				IRRs:    b.Result.IRR,
			})
		}
		c.Writer.Flush()
		if ctx.Err() != nil {
			log.Printf("simulation stopped after %d of %d draws: %v", b.Done, b.Total, ctx.Err())
			return
		}
	}
}
