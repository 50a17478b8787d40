package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/dcf"
	"github.com/google/go-cmp/cmp"
	"github.com/google/subcommands"
)

func TestParseFlows(t *testing.T) {
	got, err := parseFlows([]string{"-100", "60", "60.5"})
	if err != nil {
		t.Fatalf("parseFlows() unexpected error: %v", err)
	}
	if diff := cmp.Diff([]float64{-100, 60, 60.5}, got); diff != "" {
		t.Errorf("parseFlows() mismatch (-want +got):\n%s", diff)
	}
	for _, args := range [][]string{{"-100"}, {"-100", "abc"}} {
		if _, err := parseFlows(args); err == nil {
			t.Errorf("parseFlows(%q) expected an error", args)
		}
	}
}

func TestPrintJSON(t *testing.T) {
	v := map[string]any{"npv": 12.5, "payback": map[string]any{"simple": 7}}
	tests := []struct {
		query string
		want  string
	}{
		{"", "{\n  \"npv\": 12.5,\n  \"payback\": {\n    \"simple\": 7\n  }\n}\n"},
		{"$.npv", "12.5\n"},
		{"$.payback.simple", "7\n"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var b bytes.Buffer
			if err := printJSON(&b, v, tt.query); err != nil {
				t.Fatalf("printJSON() unexpected error: %v", err)
			}
			if got := b.String(); got != tt.want {
				t.Errorf("printJSON() = %q, want %q", got, tt.want)
			}
		})
	}
	if err := printJSON(&bytes.Buffer{}, v, "$.missing"); err == nil {
		t.Errorf("printJSON() with an unknown key expected an error")
	}
}

func TestOutputFlags(t *testing.T) {
	md := "| A |\n|:---|\n| 1 |\n"
	tests := []struct {
		format string
		want   string
	}{
		{"raw", md},
		{"html", "<table>"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var b bytes.Buffer
			o := outputFlags{format: tt.format}
			if err := o.print(&b, md, nil); err != nil {
				t.Fatalf("print() unexpected error: %v", err)
			}
			if !strings.Contains(b.String(), tt.want) {
				t.Errorf("print() = %q, want it to contain %q", b.String(), tt.want)
			}
		})
	}
	o := outputFlags{format: "pdf"}
	if err := o.print(&bytes.Buffer{}, md, nil); err == nil {
		t.Errorf("print() with an unknown format expected an error")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PVS_CURRENCY", "EUR")
	t.Setenv("PVS_SEED", "42")
	t.Cleanup(func() { os.Unsetenv("PVS_DB_FILE") })
	if err := os.WriteFile(".env", []byte("PVS_CURRENCY=USD\nPVS_DB_FILE=test.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}
	want := Config{
		DBFile:         "test.db",
		Addr:           ":8000",
		Currency:       "EUR",
		Seed:           42,
		MaxSimulations: 100000,
		GeminiModel:    "gemini-2.5-flash",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

// execute runs a command as pvs would, with args on its command line.
func execute(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("%s %q: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), fs)
}

func TestStoreCommands(t *testing.T) {
	dir := t.TempDir()
	saved := config
	t.Cleanup(func() { config = saved })
	config = Config{DBFile: filepath.Join(dir, "pvs.db"), Currency: "GBP"}

	scenario := filepath.Join(dir, "flat.json")
	data := `{"initial_investment": 200000, "annual_rental_income": 20000, "maintenance": 5200, "transaction_costs": 9000, "annual_rent_growth": 2, "discount_rate": 15, "holding_period": 25}`
	if err := os.WriteFile(scenario, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{&portfolioCmd{}, []string{"add", "Rentals"}, subcommands.ExitSuccess},
		{&propertyCmd{}, []string{"add", "-address", "1 Main St", "-postcode", "AB1 2CD"}, subcommands.ExitSuccess},
		{&propertyCmd{}, []string{"add", "-address", "1 Main St"}, subcommands.ExitFailure},
		{&propertyCmd{}, []string{"add", "-address", "2 High St", "-portfolio", "Rentals"}, subcommands.ExitSuccess},
		{&propertyCmd{}, []string{"update", "-portfolio", "Rentals", "1 Main St"}, subcommands.ExitSuccess},
		{&propertyCmd{}, []string{"update", "-portfolio", "Unknown", "1 Main St"}, subcommands.ExitFailure},
		{&portfolioCmd{}, []string{"show", "Rentals"}, subcommands.ExitFailure},
		{&valuationCmd{}, []string{"set", "-f", scenario, "1 Main St"}, subcommands.ExitSuccess},
		{&valuationCmd{}, []string{"set", "1 Main St"}, subcommands.ExitUsageError},
		{&valuationCmd{}, []string{"-format", "json", "show", "1 main st"}, subcommands.ExitSuccess},
		{&portfolioCmd{}, []string{"-q", "$.payback", "show", "Rentals"}, subcommands.ExitSuccess},
		{&propertyCmd{}, []string{"-format", "raw", "list"}, subcommands.ExitSuccess},
		{&valuationCmd{}, []string{"rm", "1 Main St"}, subcommands.ExitSuccess},
		{&valuationCmd{}, []string{"show", "1 Main St"}, subcommands.ExitFailure},
		{&propertyCmd{}, []string{"rm", "2 High St"}, subcommands.ExitSuccess},
		{&propertyCmd{}, []string{"rm", "2 High St"}, subcommands.ExitFailure},
		{&propertyCmd{}, []string{"move"}, subcommands.ExitUsageError},
		{&propertyCmd{}, nil, subcommands.ExitUsageError},
	}
	for i, s := range steps {
		if got := execute(t, s.cmd, s.args...); got != s.want {
			t.Fatalf("step %d: pvs %s %q = %v, want %v", i, s.cmd.Name(), s.args, got, s.want)
		}
	}
}

func TestSimulateSeed(t *testing.T) {
	saved := config
	t.Cleanup(func() { config = saved })

	tests := []struct {
		name   string
		flag   uint64
		config uint64
		want   uint64 // 0 for any clock seed.
	}{
		{"flag", 5, 42, 5},
		{"environment", 0, 42, 42},
		{"clock", 0, 0, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config = Config{Seed: test.config}
			c := &simulateCmd{seed: test.flag, draws: 10}
			sim, err := c.simulation(dcf.Assumptions{})
			if err != nil {
				t.Fatalf("simulation() unexpected error: %v", err)
			}
			switch {
			case test.want != 0 && sim.Seed != test.want:
				t.Errorf("simulation().Seed = %d, want %d", sim.Seed, test.want)
			case sim.Seed == 0:
				t.Error("simulation().Seed = 0, want a seed from the clock")
			}
		})
	}
}
