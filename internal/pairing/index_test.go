package pairing

import (
	"errors"
	"fmt"
	"testing"

	"clippair/internal/catalogue"
)

func clip(scenario, variant, agent string, route, idx int) catalogue.Entry {
	return catalogue.Entry{
		Scenario: scenario,
		Variant:  variant,
		Agent:    agent,
		RouteID:  route,
		ClipIdx:  idx,
		RelPath:  fmt.Sprintf("%s/%s/%s/%d/clip_%03d.mp4", scenario, variant, agent, route, idx),
	}
}

func TestBuildIndexGroupsByAxis(t *testing.T) {
	entries := []catalogue.Entry{
		clip("s", "v2", "b", 1, 1),
		clip("s", "v1", "a", 1, 1),
		clip("s", "v1", "b", 1, 1),
		clip("s", "v1", "a", 1, 2),
	}

	byAgent, err := BuildIndex(entries, AxisAgent, CollisionLastWins)
	if err != nil {
		t.Fatalf("BuildIndex returned error: %v", err)
	}
	groups := byAgent.Groups()
	if len(groups) != 3 {
		t.Fatalf("expected 3 agent-axis groups, got %d", len(groups))
	}
	if groups[0].Key != (GroupKey{Scenario: "s", Label: "v2", RouteID: 1, ClipIdx: 1}) {
		t.Fatalf("expected first-seen group first, got %v", groups[0].Key)
	}
	if got := groups[1].Values(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected axis values: %v", got)
	}

	byVariant, err := BuildIndex(entries, AxisVariant, CollisionLastWins)
	if err != nil {
		t.Fatalf("BuildIndex returned error: %v", err)
	}
	g, ok := byVariant.Lookup(GroupKey{Scenario: "s", Label: "b", RouteID: 1, ClipIdx: 1})
	if !ok {
		t.Fatal("expected variant-axis group for agent b")
	}
	if got := g.Values(); len(got) != 2 || got[0] != "v1" || got[1] != "v2" {
		t.Fatalf("unexpected variant values: %v", got)
	}
}

func TestBuildIndexCollisionPolicies(t *testing.T) {
	first := clip("s", "v1", "a", 1, 1)
	second := first
	second.RelPath = "elsewhere/clip_001.mp4"
	entries := []catalogue.Entry{first, second}
	key := GroupKey{Scenario: "s", Label: "v1", RouteID: 1, ClipIdx: 1}

	cases := []struct {
		mode CollisionPolicy
		want string
	}{
		{CollisionLastWins, second.RelPath},
		{"", second.RelPath},
		{CollisionFirstWins, first.RelPath},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			idx, err := BuildIndex(entries, AxisAgent, tc.mode)
			if err != nil {
				t.Fatalf("BuildIndex returned error: %v", err)
			}
			g, _ := idx.Lookup(key)
			kept, _ := g.Entry("a")
			if kept.RelPath != tc.want {
				t.Fatalf("kept %q, want %q", kept.RelPath, tc.want)
			}
			if len(idx.Collisions) != 1 || idx.Collisions[0].Kept.RelPath != tc.want {
				t.Fatalf("unexpected collisions: %#v", idx.Collisions)
			}
		})
	}

	_, err := BuildIndex(entries, AxisAgent, CollisionReject)
	if !errors.Is(err, ErrCollision) {
		t.Fatalf("expected ErrCollision, got %v", err)
	}
	var collisionErr *CollisionError
	if !errors.As(err, &collisionErr) || collisionErr.Collision.Dropped.RelPath != second.RelPath {
		t.Fatalf("unexpected collision error: %v", err)
	}
}

func TestParseCollisionPolicy(t *testing.T) {
	cases := map[string]CollisionPolicy{
		"":                 CollisionLastWins,
		"LAST_WRITE_WINS":  CollisionLastWins,
		"first":            CollisionFirstWins,
		"First-Write-Wins": CollisionFirstWins,
		"reject":           CollisionReject,
	}
	for input, want := range cases {
		got, err := ParseCollisionPolicy(input)
		if err != nil {
			t.Fatalf("ParseCollisionPolicy(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseCollisionPolicy(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := ParseCollisionPolicy("random"); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
