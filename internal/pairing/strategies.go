package pairing

import (
	"math/rand/v2"
	"slices"
	"sort"

	"clippair/internal/catalogue"
)

// Candidate is an unordered pair of entries drawn from one group.
type Candidate struct {
	Group GroupKey
	A     catalogue.Entry
	B     catalogue.Entry
}

// Candidates dispatches to the strategy selected by opts.Policy. The index
// must have been built along the policy's axis.
func Candidates(idx *Index, opts Options) ([]Candidate, error) {
	if idx.Axis != opts.Policy.Axis() {
		return nil, configError("policy", string(opts.Policy), "index built along "+string(idx.Axis)+" axis")
	}
	switch opts.Policy {
	case PolicyCrossAgent, PolicyCrossVariant:
		return CrossAxis(idx), nil
	case PolicyBaseline:
		return BaselineVsChallenger(idx, ResolvePivots(idx, opts.Pivots)), nil
	case PolicyTournament:
		if opts.SampleSize < 2 {
			return nil, configError("k", "", "tournament sample size must be at least 2")
		}
		return Tournament(idx, opts.SampleSize, NewSource(opts.Seed)), nil
	default:
		return nil, configError("policy", string(opts.Policy), "unknown policy")
	}
}

// CrossAxis pairs every two distinct axis values within each group, giving
// C(n,2) candidates for a group of n values.
func CrossAxis(idx *Index) []Candidate {
	var out []Candidate
	for _, g := range idx.Groups() {
		out = appendCombinations(out, g, g.Values())
	}
	return out
}

// Scope is the (scenario, variant) range a baseline pivot applies to.
type Scope struct {
	Scenario string
	Variant  string
}

// IgnoredOverride is a pivot override naming an agent never observed in the
// scope it would apply to.
type IgnoredOverride struct {
	Scope Scope
	Agent string
}

// Pivots holds the baseline agent chosen for each scope.
type Pivots struct {
	byScope map[Scope]string
	order   []Scope
	Ignored []IgnoredOverride
}

// For returns the pivot agent of scope.
func (p Pivots) For(scope Scope) (string, bool) {
	pivot, ok := p.byScope[scope]
	return pivot, ok
}

// Scopes returns the scopes in first-seen order.
func (p Pivots) Scopes() []Scope { return p.order }

// ResolvePivots picks a baseline agent per (scenario, variant) scope of an
// agent-axis index. An override keyed by variant wins when its agent was
// observed in the scope; otherwise the lexicographically smallest observed
// agent is used.
func ResolvePivots(idx *Index, overrides map[string]string) Pivots {
	observed := make(map[Scope]map[string]struct{})
	var order []Scope
	for _, g := range idx.Groups() {
		scope := Scope{Scenario: g.Key.Scenario, Variant: g.Key.Label}
		agents, ok := observed[scope]
		if !ok {
			agents = make(map[string]struct{})
			observed[scope] = agents
			order = append(order, scope)
		}
		for _, v := range g.Values() {
			agents[v] = struct{}{}
		}
	}

	pivots := Pivots{byScope: make(map[Scope]string, len(order)), order: order}
	for _, scope := range order {
		agents := observed[scope]
		if agent, ok := overrides[scope.Variant]; ok {
			if _, seen := agents[agent]; seen {
				pivots.byScope[scope] = agent
				continue
			}
			pivots.Ignored = append(pivots.Ignored, IgnoredOverride{Scope: scope, Agent: agent})
		}
		pivots.byScope[scope] = smallest(agents)
	}
	return pivots
}

// BaselineVsChallenger pairs the scope's pivot with every other agent of
// each group that contains the pivot. Groups without the pivot yield nothing.
func BaselineVsChallenger(idx *Index, pivots Pivots) []Candidate {
	var out []Candidate
	for _, g := range idx.Groups() {
		pivot, ok := pivots.For(Scope{Scenario: g.Key.Scenario, Variant: g.Key.Label})
		if !ok {
			continue
		}
		base, ok := g.Entry(pivot)
		if !ok {
			continue
		}
		for _, v := range g.Values() {
			if v == pivot {
				continue
			}
			challenger, _ := g.Entry(v)
			out = append(out, Candidate{Group: g.Key, A: base, B: challenger})
		}
	}
	return out
}

// Tournament pairs all agents of groups with at most k agents; larger groups
// are cut to a uniform sample of exactly k drawn from rng first. Groups with
// fewer than two agents yield nothing and draw nothing from rng.
func Tournament(idx *Index, k int, rng *rand.Rand) []Candidate {
	var out []Candidate
	for _, g := range idx.Groups() {
		values := g.Values()
		if len(values) < 2 {
			continue
		}
		if len(values) > k {
			values = sample(values, k, rng)
		}
		out = appendCombinations(out, g, values)
	}
	return out
}

// NewSource returns the random source the tournament policy draws from.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
}

// sample draws k values without replacement using a partial Fisher-Yates
// shuffle and returns them sorted.
func sample(values []string, k int, rng *rand.Rand) []string {
	pool := slices.Clone(values)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	picked := pool[:k]
	sort.Strings(picked)
	return picked
}

func appendCombinations(out []Candidate, g *Group, values []string) []Candidate {
	for i := 0; i < len(values); i++ {
		a, _ := g.Entry(values[i])
		for j := i + 1; j < len(values); j++ {
			b, _ := g.Entry(values[j])
			out = append(out, Candidate{Group: g.Key, A: a, B: b})
		}
	}
	return out
}

func smallest(values map[string]struct{}) string {
	var best string
	first := true
	for v := range values {
		if first || v < best {
			best = v
			first = false
		}
	}
	return best
}
