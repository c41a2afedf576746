package preflight

import (
	"strings"

	"clippair/internal/config"
	"clippair/internal/pairing"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string

	// Advisory marks a passing check whose setup is usable but probably
	// not what the operator intended.
	Advisory bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckCatalogue("Catalogue", cfg.Paths.Catalogue),
		CheckOutputTarget("Output", cfg.Paths.Output),
		CheckPolicy(cfg.Pairing.Policy, cfg.Pairing.Collision),
	}

	if strings.TrimSpace(cfg.Pairing.PivotFile) != "" {
		results = append(results, CheckPivotFile("Pivot file", cfg.Pairing.PivotFile))
	}
	if policy, err := pairing.ParsePolicy(cfg.Pairing.Policy); err == nil && policy == pairing.PolicyBaseline {
		results = append(results, CheckBaselinePivots(cfg.Pairing.PivotFile, cfg.Pairing.Pivots))
	}

	results = append(results, CheckCreatableDirectory("State directory", cfg.Paths.StateDir))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
