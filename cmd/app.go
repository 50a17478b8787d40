// Package cmd implements the pvs command-line application: valuation of property
// investments, their store, and the API server.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/etnz/dcf/store"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Config holds the settings of pvs, read from the environment and the .env file.
type Config struct {
	DBFile         string `env:"PVS_DB_FILE" envDefault:"pvs.db"`
	Addr           string `env:"PVS_ADDR" envDefault:":8000"`
	FrontendURL    string `env:"PVS_FRONTEND_URL"`
	Currency       string `env:"PVS_CURRENCY" envDefault:"GBP"`
	Seed           uint64 `env:"PVS_SEED"`
	MaxSimulations int    `env:"PVS_MAX_SIMULATIONS" envDefault:"100000"`
	Verbose        bool   `env:"PVS_VERBOSE"`
	GeminiModel    string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

// LoadConfig reads the .env file of the working directory, if any, then parses the
// configuration from the environment. Variables already set take precedence over the
// file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("cannot load .env: %w", err)
	}
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use a
// global configuration.
var config Config

// Commands returns the subcommands of pvs, by group.
func Commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"valuation": {&projectCmd{}, &irrCmd{}, &paybackCmd{}, &simulateCmd{}},
		"store":     {&propertyCmd{}, &valuationCmd{}, &portfolioCmd{}},
		"server":    {&serveCmd{}, &assistCmd{}},
		"help":      {&topicCmd{}},
	}
}

// Register loads the configuration and registers the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	config = cfg
	if !config.Verbose {
		log.SetFlags(0)
	}
	for group, cmds := range Commands() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
	return nil
}

// openStore opens the configured store, or reports why it cannot.
func openStore(ctx context.Context) (*store.Store, bool) {
	st, err := openStoreErr(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, false
	}
	return st, true
}

func openStoreErr(ctx context.Context) (*store.Store, error) {
	st, err := store.Open(ctx, config.DBFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open the store %q: %w", config.DBFile, err)
	}
	return st, nil
}
