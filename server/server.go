// Package server exposes properties, valuations and simulations over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/etnz/dcf"
	"github.com/etnz/dcf/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Config holds the server settings.
type Config struct {
	FrontendURL    string // allowed CORS origin.
	MaxSimulations int    // upper bound of the draws of one simulation.
	Seed           uint64 // default simulation seed, 0 seeds each simulation from the clock.
}

// Server serves the API.
type Server struct {
	store  *store.Store
	cfg    Config
	engine *gin.Engine
}

// New returns a Server backed by st.
func New(st *store.Store, cfg Config) *Server {
	if cfg.MaxSimulations <= 0 {
		cfg.MaxSimulations = 100000
	}
	s := &Server{store: st, cfg: cfg, engine: gin.New()}
	s.engine.Use(gin.Logger(), gin.Recovery())
	if cfg.FrontendURL != "" {
		s.engine.Use(cors.New(cors.Config{
			AllowOrigins:     []string{cfg.FrontendURL},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api")
	{
		api.GET("/properties", s.listProperties)
		api.POST("/properties", s.createProperty)
		api.GET("/properties/:id", s.getProperty)
		api.PUT("/properties/:id", s.updateProperty)
		api.DELETE("/properties/:id", s.deleteProperty)

		api.GET("/properties/:id/valuation", s.getPropertyValuation)
		api.PUT("/properties/:id/valuation", s.putPropertyValuation)
		api.POST("/properties/:id/valuation", s.putPropertyValuation)
		api.GET("/properties/:id/valuation/cashflows", s.propertyCashFlows)

		api.GET("/valuations/:id", s.getValuation)
		api.DELETE("/valuations/:id", s.deleteValuation)
		api.GET("/valuations/:id/cashflows", s.valuationCashFlows)
		api.POST("/valuations/monte-carlo", s.monteCarlo)
		api.GET("/valuations/monte-carlo-stream", s.monteCarloStream)

		api.POST("/cashflows/calculate", s.calculate)
		api.POST("/cashflows/irr", s.irr)
		api.POST("/cashflows/payback", s.payback)

		api.GET("/portfolios", s.listPortfolios)
		api.POST("/portfolios", s.createPortfolio)
		api.GET("/portfolios/:id", s.getPortfolio)
		api.GET("/portfolios/:id/properties", s.portfolioProperties)
		api.GET("/portfolios/:id/irr", s.portfolioIRR)
		api.GET("/portfolios/:id/payback", s.portfolioPayback)
	}
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves the API on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Printf("serving the API on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// fail writes err with the status matching its kind.
func fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, store.ErrInvalid),
		errors.Is(err, errBadRequest),
		errors.Is(err, dcf.ErrInvalidAssumptions),
		errors.Is(err, dcf.ErrUnknownDistribution),
		errors.Is(err, dcf.ErrInvalidDistribution),
		errors.Is(err, dcf.ErrNoValidDraws):
		code = http.StatusBadRequest
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

var errBadRequest = errors.New("bad request")
