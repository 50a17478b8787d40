package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/etnz/dcf"
)

// scenario is a titled set of assumptions.
type scenario struct {
	title string
	dcf.Assumptions
}

// scenarioFlags select the assumptions a command works on: the scenarios of a file, or
// the valuation of a stored property.
type scenarioFlags struct {
	file     string
	property string
}

func (s *scenarioFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&s.file, "f", "", "Scenario file (.json, .jsonl, .yaml or .yml). See 'pvs topic scenarios'.")
	f.StringVar(&s.property, "p", "", "Address or ID of a stored property to use the valuation of.")
}

// load returns the selected scenarios.
func (s *scenarioFlags) load(ctx context.Context) ([]scenario, error) {
	switch {
	case s.file != "" && s.property != "":
		return nil, errors.New("-f and -p are mutually exclusive")
	case s.file != "":
		list, err := dcf.ReadAssumptionsFile(s.file)
		if err != nil {
			return nil, err
		}
		base := filepath.Base(s.file)
		scenarios := make([]scenario, len(list))
		for i, a := range list {
			title := base
			if len(list) > 1 {
				title = fmt.Sprintf("%s #%d", base, i+1)
			}
			scenarios[i] = scenario{title, a}
		}
		return scenarios, nil
	case s.property != "":
		st, err := openStoreErr(ctx)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		p, err := st.FindProperty(ctx, s.property)
		if err != nil {
			return nil, err
		}
		v, err := st.Valuation(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("property %q has no valuation: %w", p.Address, err)
		}
		return []scenario{{p.Address, v.Assumptions}}, nil
	default:
		return nil, errors.New("missing scenario: use -f <file> or -p <property>")
	}
}
