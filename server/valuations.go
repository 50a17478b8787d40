package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/etnz/dcf"
	"github.com/etnz/dcf/store"
	"github.com/gin-gonic/gin"
)

// cashFlowsResponse is a ledger with its metrics, rates in percent.
type cashFlowsResponse struct {
	CashFlows []dcf.CashFlowRow         `json:"cash_flows"`
	NPV       dcf.Amount                `json:"npv"`
	IRR       dcf.Optional[dcf.Percent] `json:"irr"`
	dcf.PaybackPeriod
}

func newCashFlowsResponse(r *dcf.Report) cashFlowsResponse {
	return cashFlowsResponse{
		CashFlows:     r.Rows,
		NPV:           r.NPV,
		IRR:           dcf.InPercent(r.IRR),
		PaybackPeriod: r.Payback,
	}
}

// checkAssumptions rejects assumptions a valuation cannot be computed from.
func checkAssumptions(a dcf.Assumptions) error {
	var errs []error
	if !a.InitialInvestment.IsPositive() {
		errs = append(errs, errors.New("initial_investment must be positive"))
	}
	if a.HoldingPeriod <= 0 {
		errs = append(errs, errors.New("holding_period must be positive"))
	}
	if err := a.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", errBadRequest, errors.Join(errs...))
}

// bindAssumptions decodes and checks the assumptions of the request body.
func bindAssumptions(c *gin.Context) (dcf.Assumptions, bool) {
	var a dcf.Assumptions
	if err := c.ShouldBindJSON(&a); err != nil {
		fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return a, false
	}
	if err := checkAssumptions(a); err != nil {
		fail(c, err)
		return a, false
	}
	return a, true
}

// getPropertyValuation writes the valuation of a property, or an empty object if it has
// none.
func (s *Server) getPropertyValuation(c *gin.Context) {
	ctx := c.Request.Context()
	if _, err := s.store.Property(ctx, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	v, err := s.store.Valuation(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) putPropertyValuation(c *gin.Context) {
	a, ok := bindAssumptions(c)
	if !ok {
		return
	}
	v, created, err := s.store.PutValuation(c.Request.Context(), c.Param("id"), a)
	if err != nil {
		fail(c, err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	c.JSON(code, v)
}

func (s *Server) propertyCashFlows(c *gin.Context) {
	v, err := s.store.Valuation(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	s.writeCashFlows(c, v.Assumptions)
}

func (s *Server) getValuation(c *gin.Context) {
	v, err := s.store.ValuationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *Server) deleteValuation(c *gin.Context) {
	if err := s.store.DeleteValuation(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) valuationCashFlows(c *gin.Context) {
	v, err := s.store.ValuationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	s.writeCashFlows(c, v.Assumptions)
}

func (s *Server) writeCashFlows(c *gin.Context, a dcf.Assumptions) {
	r, err := dcf.Evaluate(a, dcf.DefaultPaybackRate)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newCashFlowsResponse(r))
}
