package pairing

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"clippair/internal/catalogue"
)

// CollisionPolicy decides which entry a group keeps when two entries share
// the same group key and axis value.
type CollisionPolicy string

const (
	CollisionLastWins  CollisionPolicy = "last-write-wins"
	CollisionFirstWins CollisionPolicy = "first-write-wins"
	CollisionReject    CollisionPolicy = "reject"
)

// ParseCollisionPolicy resolves a collision policy name. Empty selects
// last-write-wins.
func ParseCollisionPolicy(value string) (CollisionPolicy, error) {
	key := strings.ReplaceAll(cases.Fold().String(strings.TrimSpace(value)), "_", "-")
	switch key {
	case "", "last", string(CollisionLastWins):
		return CollisionLastWins, nil
	case "first", string(CollisionFirstWins):
		return CollisionFirstWins, nil
	case string(CollisionReject):
		return CollisionReject, nil
	}
	return "", configError("collision", value, "unknown collision policy (want last-write-wins, first-write-wins, or reject)")
}

// GroupKey holds every facet of an entry except the pairing axis. Label is
// the variant when pairing across agents and the agent when pairing across
// variants.
type GroupKey struct {
	Scenario string
	Label    string
	RouteID  int
	ClipIdx  int
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%s/%s/%d/%d", k.Scenario, k.Label, k.RouteID, k.ClipIdx)
}

// Group is the set of mutually comparable entries sharing one GroupKey,
// keyed by axis value.
type Group struct {
	Key     GroupKey
	members map[string]catalogue.Entry
}

// Len returns the number of distinct axis values in the group.
func (g *Group) Len() int { return len(g.members) }

// Values returns the axis values present, sorted ascending.
func (g *Group) Values() []string {
	values := make([]string, 0, len(g.members))
	for v := range g.members {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Entry returns the entry holding axis value v.
func (g *Group) Entry(v string) (catalogue.Entry, bool) {
	e, ok := g.members[v]
	return e, ok
}

// Collision records two entries that landed on the same group slot.
type Collision struct {
	Axis    Axis
	Key     GroupKey
	Value   string
	Kept    catalogue.Entry
	Dropped catalogue.Entry
}

// Index maps group keys to groups in first-seen order.
type Index struct {
	Axis       Axis
	Collisions []Collision

	groups []*Group
	byKey  map[GroupKey]*Group
}

// Groups returns the groups in the order their first entry was seen.
func (idx *Index) Groups() []*Group { return idx.groups }

// Lookup returns the group for key.
func (idx *Index) Lookup(key GroupKey) (*Group, bool) {
	g, ok := idx.byKey[key]
	return g, ok
}

// BuildIndex aggregates entries into groups along axis. It performs no
// pairing. Collisions are resolved by mode and recorded on the index; the
// reject mode fails on the first one.
func BuildIndex(entries []catalogue.Entry, axis Axis, mode CollisionPolicy) (*Index, error) {
	if mode == "" {
		mode = CollisionLastWins
	}
	idx := &Index{
		Axis:  axis,
		byKey: make(map[GroupKey]*Group),
	}
	for _, e := range entries {
		key, value := keyFor(e, axis)
		group, ok := idx.byKey[key]
		if !ok {
			group = &Group{Key: key, members: make(map[string]catalogue.Entry)}
			idx.byKey[key] = group
			idx.groups = append(idx.groups, group)
		}
		existing, taken := group.members[value]
		if !taken {
			group.members[value] = e
			continue
		}

		collision := Collision{Axis: axis, Key: key, Value: value}
		switch mode {
		case CollisionFirstWins:
			collision.Kept, collision.Dropped = existing, e
		case CollisionReject:
			collision.Kept, collision.Dropped = existing, e
			return nil, &CollisionError{Collision: collision}
		default:
			collision.Kept, collision.Dropped = e, existing
			group.members[value] = e
		}
		idx.Collisions = append(idx.Collisions, collision)
	}
	return idx, nil
}

func keyFor(e catalogue.Entry, axis Axis) (GroupKey, string) {
	if axis == AxisVariant {
		return GroupKey{Scenario: e.Scenario, Label: e.Agent, RouteID: e.RouteID, ClipIdx: e.ClipIdx}, e.Variant
	}
	return GroupKey{Scenario: e.Scenario, Label: e.Variant, RouteID: e.RouteID, ClipIdx: e.ClipIdx}, e.Agent
}
