package pairing

import (
	"strings"

	"golang.org/x/text/cases"
)

// Axis is the facet a policy varies to form a comparison.
type Axis string

const (
	AxisAgent   Axis = "agent"
	AxisVariant Axis = "variant"
)

// Policy selects how candidate pairs are drawn from each group.
type Policy string

const (
	PolicyCrossAgent   Policy = "cross-agent"
	PolicyCrossVariant Policy = "cross-variant"
	PolicyBaseline     Policy = "baseline"
	PolicyTournament   Policy = "tournament"
)

// Policies lists the recognised policies in documentation order.
var Policies = []Policy{PolicyCrossAgent, PolicyCrossVariant, PolicyBaseline, PolicyTournament}

var policyAliases = map[string]Policy{
	"cross-agent":            PolicyCrossAgent,
	"cross-axis-by-agent":    PolicyCrossAgent,
	"a":                      PolicyCrossAgent,
	"cross-variant":          PolicyCrossVariant,
	"cross-axis-by-variant":  PolicyCrossVariant,
	"b":                      PolicyCrossVariant,
	"baseline":               PolicyBaseline,
	"baseline-vs-challenger": PolicyBaseline,
	"c":                      PolicyBaseline,
	"tournament":             PolicyTournament,
	"d":                      PolicyTournament,
}

// ParsePolicy resolves a policy name or strategy letter (A-D).
func ParsePolicy(value string) (Policy, error) {
	key := cases.Fold().String(strings.TrimSpace(value))
	key = strings.ReplaceAll(key, "_", "-")
	if policy, ok := policyAliases[key]; ok {
		return policy, nil
	}
	return "", configError("policy", value, "unknown policy (want one of "+policyNames()+")")
}

// Axis reports the pairing axis the policy varies.
func (p Policy) Axis() Axis {
	if p == PolicyCrossVariant {
		return AxisVariant
	}
	return AxisAgent
}

func (p Policy) String() string { return string(p) }

func policyNames() string {
	names := make([]string, 0, len(Policies))
	for _, p := range Policies {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
