package dcf

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario files hold one or more Assumptions.
//
//   - JSON files (.json, .jsonl) are a stream of objects, typically one per line. Legacy
//     field names are accepted.
//   - YAML files (.yaml, .yml) are one document per scenario, separated by "---".

// DecodeAssumptions reads a stream of JSON objects.
func DecodeAssumptions(r io.Reader) ([]Assumptions, error) {
	var list []Assumptions
	dec := json.NewDecoder(r)
	for i := 1; ; i++ {
		var a Assumptions
		if err := dec.Decode(&a); err == io.EOF {
			return list, nil
		} else if err != nil {
			return nil, fmt.Errorf("cannot decode scenario #%d: %w", i, err)
		}
		list = append(list, a)
	}
}

// EncodeAssumptions writes each scenario as a JSON object on its own line.
func EncodeAssumptions(w io.Writer, list ...Assumptions) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i, a := range list {
		if err := enc.Encode(a); err != nil {
			return fmt.Errorf("cannot encode scenario #%d: %w", i+1, err)
		}
	}
	return bw.Flush()
}

// DecodeAssumptionsYAML reads a stream of YAML documents.
func DecodeAssumptionsYAML(r io.Reader) ([]Assumptions, error) {
	var list []Assumptions
	dec := yaml.NewDecoder(r)
	for i := 1; ; i++ {
		var a Assumptions
		if err := dec.Decode(&a); errors.Is(err, io.EOF) {
			return list, nil
		} else if err != nil {
			return nil, fmt.Errorf("cannot decode scenario #%d: %w", i, err)
		}
		list = append(list, a)
	}
}

// EncodeAssumptionsYAML writes each scenario as a YAML document.
func EncodeAssumptionsYAML(w io.Writer, list ...Assumptions) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for i, a := range list {
		if err := enc.Encode(a); err != nil {
			return fmt.Errorf("cannot encode scenario #%d: %w", i+1, err)
		}
	}
	return enc.Close()
}

// ReadAssumptionsFile reads the scenarios of a file, choosing the format from its
// extension.
func ReadAssumptionsFile(name string) ([]Assumptions, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("cannot open scenario file %q: %w", name, err)
	}
	defer f.Close()

	var list []Assumptions
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		list, err = DecodeAssumptionsYAML(f)
	default:
		list, err = DecodeAssumptions(f)
	}
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", name, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("no scenario in %q", name)
	}
	return list, nil
}

// ParseDistribution parses the short notation of a distribution, as printed by
// Distribution.String: "2.5", "normal(2.5, 1)" or "pareto(2.5, 3)".
func ParseDistribution(s string) (Distribution, error) {
	s = strings.TrimSpace(s)
	name, args, ok := strings.Cut(s, "(")
	if !ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Distribution{}, fmt.Errorf("invalid distribution %q: %w", s, err)
		}
		return Fixed(v), nil
	}
	args, ok = strings.CutSuffix(strings.TrimSpace(args), ")")
	if !ok {
		return Distribution{}, fmt.Errorf("invalid distribution %q: missing closing parenthesis", s)
	}
	var params []float64
	for _, arg := range strings.Split(args, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil {
			return Distribution{}, fmt.Errorf("invalid distribution %q: %w", s, err)
		}
		params = append(params, v)
	}

	var d Distribution
	switch DistributionKind(strings.ToLower(strings.TrimSpace(name))) {
	case Constant:
		if len(params) != 1 {
			return d, fmt.Errorf("invalid distribution %q: constant takes one parameter", s)
		}
		d = Fixed(params[0])
	case Normal:
		if len(params) != 2 {
			return d, fmt.Errorf("invalid distribution %q: normal takes a mean and a stddev", s)
		}
		d = Gaussian(params[0], params[1])
	case Pareto:
		if len(params) != 2 {
			return d, fmt.Errorf("invalid distribution %q: pareto takes a mean and a shape", s)
		}
		d = PowerLaw(params[0], params[1])
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownDistribution, name)
	}
	return d, d.Validate()
}
