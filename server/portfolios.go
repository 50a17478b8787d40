package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/etnz/dcf"
	"github.com/etnz/dcf/store"
	"github.com/gin-gonic/gin"
)

func (s *Server) listPortfolios(c *gin.Context) {
	list, err := s.store.Portfolios(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) createPortfolio(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	p, err := s.store.CreatePortfolio(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) getPortfolio(c *gin.Context) {
	p, err := s.store.Portfolio(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) portfolioProperties(c *gin.Context) {
	list, err := s.store.PortfolioProperties(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// portfolioFlows returns the aggregated cash flows of the valued properties of a
// portfolio.
func (s *Server) portfolioFlows(c *gin.Context) ([]float64, error) {
	ctx := c.Request.Context()
	props, err := s.store.PortfolioProperties(ctx, c.Param("id"))
	if err != nil {
		return nil, err
	}
	var ledgers [][]dcf.CashFlowRow
	for _, p := range props {
		v, err := s.store.Valuation(ctx, p.ID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		rows, err := dcf.Project(v.Assumptions)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", p.Address, err)
		}
		ledgers = append(ledgers, rows)
	}
	if len(ledgers) == 0 {
		return nil, fmt.Errorf("portfolio %q has no valued property: %w", c.Param("id"), store.ErrNotFound)
	}
	return dcf.AggregateRows(ledgers...), nil
}

// portfolioIRR writes the IRR of the portfolio as a whole, in percent.
func (s *Server) portfolioIRR(c *gin.Context) {
	flows, err := s.portfolioFlows(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"irr": dcf.InPercent(dcf.IRR(flows))})
}

// portfolioPayback writes the payback periods of the portfolio, discounted at the
// discount_rate query parameter (percent) or at the default payback rate.
func (s *Server) portfolioPayback(c *gin.Context) {
	rate := dcf.DefaultPaybackRate
	if q := c.Query("discount_rate"); q != "" {
		v, err := strconv.ParseFloat(q, 64)
		if err != nil {
			fail(c, fmt.Errorf("%w: discount_rate: %w", errBadRequest, err))
			return
		}
		rate = v / 100
	}
	flows, err := s.portfolioFlows(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dcf.Payback(flows, rate))
}
