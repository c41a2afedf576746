package pairing

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"clippair/internal/catalogue"
)

func mustIndex(t *testing.T, entries []catalogue.Entry, axis Axis) *Index {
	t.Helper()
	idx, err := BuildIndex(entries, axis, CollisionLastWins)
	if err != nil {
		t.Fatalf("BuildIndex returned error: %v", err)
	}
	return idx
}

func pairAgents(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.A.Agent+"-"+c.B.Agent)
	}
	return out
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]Policy{
		"A":                      PolicyCrossAgent,
		"cross-agent":            PolicyCrossAgent,
		"cross_axis_by_agent":    PolicyCrossAgent,
		"b":                      PolicyCrossVariant,
		"Cross-Axis-By-Variant":  PolicyCrossVariant,
		"C":                      PolicyBaseline,
		"baseline-vs-challenger": PolicyBaseline,
		" D ":                    PolicyTournament,
		"TOURNAMENT":             PolicyTournament,
	}
	for input, want := range cases {
		got, err := ParsePolicy(input)
		if err != nil {
			t.Fatalf("ParsePolicy(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParsePolicy(%q) = %q, want %q", input, got, want)
		}
	}

	_, err := ParsePolicy("E")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Option != "policy" || cfgErr.Value != "E" {
		t.Fatalf("unexpected configuration error: %#v", err)
	}
}

func TestPolicyAxis(t *testing.T) {
	if PolicyCrossVariant.Axis() != AxisVariant {
		t.Fatal("expected cross-variant to vary the variant")
	}
	for _, p := range []Policy{PolicyCrossAgent, PolicyBaseline, PolicyTournament} {
		if p.Axis() != AxisAgent {
			t.Fatalf("expected %s to vary the agent", p)
		}
	}
}

func TestCrossAxisEmitsAllCombinations(t *testing.T) {
	for n := 0; n <= 6; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			var entries []catalogue.Entry
			for i := 0; i < n; i++ {
				entries = append(entries, clip("s", "v1", fmt.Sprintf("agent%d", i), 1, 1))
			}
			cands := CrossAxis(mustIndex(t, entries, AxisAgent))
			want := n * (n - 1) / 2
			if len(cands) != want {
				t.Fatalf("expected %d candidates, got %d", want, len(cands))
			}
		})
	}
}

func TestCrossAxisOrderIsSortedCombinations(t *testing.T) {
	entries := []catalogue.Entry{
		clip("s", "v1", "c", 1, 1),
		clip("s", "v1", "a", 1, 1),
		clip("s", "v1", "b", 1, 1),
	}
	got := pairAgents(CrossAxis(mustIndex(t, entries, AxisAgent)))
	want := []string{"a-b", "a-c", "b-c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCrossVariantPairsVariantsOfOneAgent(t *testing.T) {
	entries := []catalogue.Entry{
		clip("s", "v1", "a", 1, 1),
		clip("s", "v2", "a", 1, 1),
		clip("s", "v3", "b", 1, 1),
	}
	cands := CrossAxis(mustIndex(t, entries, AxisVariant))
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	if cands[0].A.Variant != "v1" || cands[0].B.Variant != "v2" {
		t.Fatalf("unexpected candidate: %#v", cands[0])
	}
}

func TestBaselineFallsBackToSmallestAgent(t *testing.T) {
	entries := []catalogue.Entry{
		clip("s", "v1", "c", 1, 1),
		clip("s", "v1", "b", 1, 1),
		clip("s", "v1", "d", 1, 1),
	}
	idx := mustIndex(t, entries, AxisAgent)
	pivots := ResolvePivots(idx, nil)
	pivot, ok := pivots.For(Scope{Scenario: "s", Variant: "v1"})
	if !ok || pivot != "b" {
		t.Fatalf("expected pivot b, got %q", pivot)
	}
	got := pairAgents(BaselineVsChallenger(idx, pivots))
	want := []string{"b-c", "b-d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBaselineHonoursObservedOverride(t *testing.T) {
	entries := []catalogue.Entry{
		clip("s", "v1", "a", 1, 1),
		clip("s", "v1", "b", 1, 1),
		clip("s", "v1", "c", 1, 1),
		clip("s", "v2", "a", 1, 1),
		clip("s", "v2", "b", 1, 1),
	}
	idx := mustIndex(t, entries, AxisAgent)
	pivots := ResolvePivots(idx, map[string]string{"v1": "c", "v2": "zzz"})

	if p, _ := pivots.For(Scope{"s", "v1"}); p != "c" {
		t.Fatalf("expected override pivot c, got %q", p)
	}
	if p, _ := pivots.For(Scope{"s", "v2"}); p != "a" {
		t.Fatalf("expected unobserved override to fall back to a, got %q", p)
	}
	if len(pivots.Ignored) != 1 || pivots.Ignored[0].Agent != "zzz" {
		t.Fatalf("expected one ignored override, got %#v", pivots.Ignored)
	}

	got := pairAgents(BaselineVsChallenger(idx, pivots))
	want := []string{"c-a", "c-b", "a-b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestBaselineSkipsGroupsWithoutPivot(t *testing.T) {
	entries := []catalogue.Entry{
		clip("s", "v1", "a", 1, 1),
		clip("s", "v1", "b", 1, 1),
		clip("s", "v1", "b", 1, 2),
		clip("s", "v1", "c", 1, 2),
	}
	idx := mustIndex(t, entries, AxisAgent)
	cands := BaselineVsChallenger(idx, ResolvePivots(idx, nil))
	if len(cands) != 1 {
		t.Fatalf("expected only the group holding pivot a to pair, got %d", len(cands))
	}
	if cands[0].Group.ClipIdx != 1 {
		t.Fatalf("unexpected group paired: %v", cands[0].Group)
	}
}

func TestBaselinePivotIsScopedByScenario(t *testing.T) {
	entries := []catalogue.Entry{
		clip("s1", "v1", "a", 1, 1),
		clip("s1", "v1", "b", 1, 1),
		clip("s2", "v1", "b", 1, 1),
		clip("s2", "v1", "c", 1, 1),
	}
	idx := mustIndex(t, entries, AxisAgent)
	pivots := ResolvePivots(idx, nil)
	if p, _ := pivots.For(Scope{"s2", "v1"}); p != "b" {
		t.Fatalf("expected scenario s2 pivot b, got %q", p)
	}
	if got := len(pivots.Scopes()); got != 2 {
		t.Fatalf("expected 2 scopes, got %d", got)
	}
}

func tournamentGroup(n int) []catalogue.Entry {
	var entries []catalogue.Entry
	for i := 0; i < n; i++ {
		entries = append(entries, clip("s", "v1", fmt.Sprintf("agent%02d", i), 1, 1))
	}
	return entries
}

func sampledAgents(cands []Candidate) map[string]struct{} {
	out := make(map[string]struct{})
	for _, c := range cands {
		out[c.A.Agent] = struct{}{}
		out[c.B.Agent] = struct{}{}
	}
	return out
}

func TestTournamentSamplesExactlyK(t *testing.T) {
	idx := mustIndex(t, tournamentGroup(10), AxisAgent)
	for _, k := range []int{2, 3, 4, 7} {
		cands := Tournament(idx, k, NewSource(123))
		if want := k * (k - 1) / 2; len(cands) != want {
			t.Fatalf("k=%d: expected %d candidates, got %d", k, want, len(cands))
		}
		if got := len(sampledAgents(cands)); got != k {
			t.Fatalf("k=%d: expected %d sampled agents, got %d", k, k, got)
		}
	}
}

func TestTournamentUsesAllAgentsWhenGroupIsSmall(t *testing.T) {
	idx := mustIndex(t, tournamentGroup(3), AxisAgent)
	cands := Tournament(idx, 4, NewSource(1))
	if len(cands) != 3 {
		t.Fatalf("expected C(3,2)=3 candidates, got %d", len(cands))
	}

	single := mustIndex(t, tournamentGroup(1), AxisAgent)
	if got := Tournament(single, 4, NewSource(1)); len(got) != 0 {
		t.Fatalf("expected no candidates for a single-agent group, got %d", len(got))
	}
}

func TestTournamentIsReproducibleForSeed(t *testing.T) {
	entries := append(tournamentGroup(12), clip("s", "v1", "x", 2, 1), clip("s", "v1", "y", 2, 1))
	for i := 0; i < 9; i++ {
		entries = append(entries, clip("s", "v2", fmt.Sprintf("agent%02d", i), 1, 1))
	}
	idx := mustIndex(t, entries, AxisAgent)

	first := pairAgents(Tournament(idx, 4, NewSource(42)))
	second := pairAgents(Tournament(idx, 4, NewSource(42)))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical samples for identical seeds:\n%v\n%v", first, second)
	}
}

func TestCandidatesDispatch(t *testing.T) {
	entries := tournamentGroup(5)
	agentIdx := mustIndex(t, entries, AxisAgent)

	cases := []struct {
		opts Options
		want int
	}{
		{Options{Policy: PolicyCrossAgent}, 10},
		{Options{Policy: PolicyBaseline}, 4},
		{Options{Policy: PolicyTournament, SampleSize: 3, Seed: 7}, 3},
	}
	for _, tc := range cases {
		cands, err := Candidates(agentIdx, tc.opts)
		if err != nil {
			t.Fatalf("%s: Candidates returned error: %v", tc.opts.Policy, err)
		}
		if len(cands) != tc.want {
			t.Fatalf("%s: expected %d candidates, got %d", tc.opts.Policy, tc.want, len(cands))
		}
	}

	if _, err := Candidates(agentIdx, Options{Policy: PolicyCrossVariant}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected axis mismatch to be a configuration error, got %v", err)
	}
	if _, err := Candidates(agentIdx, Options{Policy: PolicyTournament, SampleSize: 1}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected k < 2 to be a configuration error, got %v", err)
	}
	if _, err := Candidates(agentIdx, Options{Policy: "E"}); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected unknown policy to be a configuration error, got %v", err)
	}
}
