package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/dcf/server"
	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
)

// serveCmd serves the HTTP API.
type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the valuation API over HTTP" }
func (*serveCmd) Usage() string {
	return `pvs serve [-addr <address>]

  Serves the properties, valuations, portfolios and simulations of the store as a JSON
  API under /api. See 'pvs topic api'.

  The server stops gracefully on interrupt.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Address to listen on, defaults to $PVS_ADDR.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	addr := c.addr
	if addr == "" {
		addr = config.Addr
	}
	if !config.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	st, ok := openStore(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(st, server.Config{
		FrontendURL:    config.FrontendURL,
		MaxSimulations: config.MaxSimulations,
		Seed:           config.Seed,
	})
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintln(os.Stderr, "Server failed:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
