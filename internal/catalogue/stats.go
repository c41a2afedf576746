package catalogue

import (
	"sort"
)

// ScopeSummary counts the clips catalogued for one scenario/variant pair.
type ScopeSummary struct {
	Scenario string
	Variant  string
	Agents   int
	Routes   int
	Clips    int

	// DurationS sums duration_s over the Timed clips that carry one.
	DurationS float64
	Timed     int

	// MinFPS and MaxFPS span the clips that carry a frame rate; zero when none do.
	MinFPS float64
	MaxFPS float64
}

// Summarize groups entries by scenario and variant, ordered by both labels.
func Summarize(entries []Entry) []ScopeSummary {
	type scope struct{ scenario, variant string }
	type counters struct {
		agents map[string]struct{}
		routes map[int]struct{}
		clips  int
		sum    ScopeSummary
	}

	byScope := make(map[scope]*counters)
	for _, e := range entries {
		key := scope{e.Scenario, e.Variant}
		c, ok := byScope[key]
		if !ok {
			c = &counters{agents: map[string]struct{}{}, routes: map[int]struct{}{}}
			byScope[key] = c
		}
		c.agents[e.Agent] = struct{}{}
		c.routes[e.RouteID] = struct{}{}
		c.clips++
		if e.DurationS > 0 {
			c.sum.DurationS += e.DurationS
			c.sum.Timed++
		}
		if e.FPS > 0 {
			if c.sum.MinFPS == 0 || e.FPS < c.sum.MinFPS {
				c.sum.MinFPS = e.FPS
			}
			if e.FPS > c.sum.MaxFPS {
				c.sum.MaxFPS = e.FPS
			}
		}
	}

	out := make([]ScopeSummary, 0, len(byScope))
	for key, c := range byScope {
		out = append(out, ScopeSummary{
			Scenario:  key.scenario,
			Variant:   key.variant,
			Agents:    len(c.agents),
			Routes:    len(c.routes),
			Clips:     c.clips,
			DurationS: c.sum.DurationS,
			Timed:     c.sum.Timed,
			MinFPS:    c.sum.MinFPS,
			MaxFPS:    c.sum.MaxFPS,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scenario != out[j].Scenario {
			return out[i].Scenario < out[j].Scenario
		}
		return out[i].Variant < out[j].Variant
	})
	return out
}

// DuplicateAddresses returns addresses held by more than one entry, in the
// order their second occupant appears.
func DuplicateAddresses(entries []Entry) []Address {
	seen := make(map[Address]int, len(entries))
	var dups []Address
	for _, e := range entries {
		addr := e.Address()
		seen[addr]++
		if seen[addr] == 2 {
			dups = append(dups, addr)
		}
	}
	return dups
}
