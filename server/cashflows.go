package server

import (
	"fmt"
	"net/http"

	"github.com/etnz/dcf"
	"github.com/gin-gonic/gin"
)

// calculate projects ad-hoc assumptions.
func (s *Server) calculate(c *gin.Context) {
	a, ok := bindAssumptions(c)
	if !ok {
		return
	}
	s.writeCashFlows(c, a)
}

type flowsRequest struct {
	CashFlows    []float64 `json:"cash_flows"`
	DiscountRate *float64  `json:"discount_rate"` // percent.
}

func bindFlows(c *gin.Context) (flowsRequest, bool) {
	var req flowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return req, false
	}
	if len(req.CashFlows) < 2 {
		fail(c, fmt.Errorf("%w: cash_flows must be a list of at least two numbers", errBadRequest))
		return req, false
	}
	return req, true
}

// irr writes the IRR of cash flows, in percent.
func (s *Server) irr(c *gin.Context) {
	req, ok := bindFlows(c)
	if !ok {
		return
	}
	irr, ok := dcf.IRR(req.CashFlows).Get()
	if !ok {
		fail(c, fmt.Errorf("%w: IRR could not be calculated", errBadRequest))
		return
	}
	c.JSON(http.StatusOK, gin.H{"irr": irr * 100})
}

// payback writes the payback periods of cash flows, discounted at discount_rate or at
// the default payback rate.
func (s *Server) payback(c *gin.Context) {
	req, ok := bindFlows(c)
	if !ok {
		return
	}
	rate := dcf.DefaultPaybackRate
	if req.DiscountRate != nil {
		rate = *req.DiscountRate / 100
	}
	c.JSON(http.StatusOK, dcf.Payback(req.CashFlows, rate))
}
