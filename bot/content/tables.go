package content

import (
	"fmt"
	"sort"
)

// Tables holds every static game table after loading. It is built once at
// startup and read concurrently without locking afterwards.
type Tables struct {
	races     map[string]Race
	origins   map[string]Origin
	dreams    map[string]Dream
	factions  map[string]Faction
	shipTypes map[string]ShipType
	upgrades  map[string]ShipUpgrade
	quests    map[string]Quest
	allies    map[string]Ally

	questOrder []string
	allyOrder  []string
}

func (t *Tables) Race(name string) (Race, bool) {
	r, ok := t.races[name]
	return r, ok
}

func (t *Tables) Origin(name string) (Origin, bool) {
	o, ok := t.origins[name]
	return o, ok
}

func (t *Tables) Dream(name string) (Dream, bool) {
	d, ok := t.dreams[name]
	return d, ok
}

func (t *Tables) Faction(name string) (Faction, bool) {
	f, ok := t.factions[name]
	return f, ok
}

func (t *Tables) ShipType(name string) (ShipType, bool) {
	s, ok := t.shipTypes[name]
	return s, ok
}

func (t *Tables) Upgrade(id string) (ShipUpgrade, bool) {
	u, ok := t.upgrades[id]
	return u, ok
}

func (t *Tables) Quest(id string) (Quest, bool) {
	q, ok := t.quests[id]
	return q, ok
}

func (t *Tables) Ally(id string) (Ally, bool) {
	a, ok := t.allies[id]
	return a, ok
}

// Quests returns every quest in content order.
func (t *Tables) Quests() []Quest {
	out := make([]Quest, 0, len(t.questOrder))
	for _, id := range t.questOrder {
		out = append(out, t.quests[id])
	}
	return out
}

// Allies returns every ally in content order.
func (t *Tables) Allies() []Ally {
	out := make([]Ally, 0, len(t.allyOrder))
	for _, id := range t.allyOrder {
		out = append(out, t.allies[id])
	}
	return out
}

// Upgrades returns every ship upgrade sorted by id.
func (t *Tables) Upgrades() []ShipUpgrade {
	ids := make([]string, 0, len(t.upgrades))
	for id := range t.upgrades {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]ShipUpgrade, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.upgrades[id])
	}
	return out
}

// RaceNames returns every race name sorted for option lists.
func (t *Tables) RaceNames() []string {
	return sortedKeys(t.races)
}

// OriginNames returns every origin name sorted for option lists.
func (t *Tables) OriginNames() []string {
	return sortedKeys(t.origins)
}

// DreamNames returns every dream name sorted for option lists.
func (t *Tables) DreamNames() []string {
	return sortedKeys(t.dreams)
}

// FactionNames returns every faction name sorted for option lists.
func (t *Tables) FactionNames() []string {
	return sortedKeys(t.factions)
}

// ShipTypeNames returns every hull class sorted for option lists.
func (t *Tables) ShipTypeNames() []string {
	return sortedKeys(t.shipTypes)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// validate checks cross-table references so a broken content file fails at
// startup instead of mid-command.
func (t *Tables) validate() error {
	for name, o := range t.origins {
		if _, ok := t.factions[o.StartingFaction]; !ok {
			return fmt.Errorf("origin %q: unknown starting faction %q", name, o.StartingFaction)
		}
	}
	for name, f := range t.factions {
		for other := range f.Relationships {
			if _, ok := t.factions[other]; !ok {
				return fmt.Errorf("faction %q: relationship with unknown faction %q", name, other)
			}
		}
		for i := 1; i < len(f.Ranks); i++ {
			if f.Ranks[i].Threshold <= f.Ranks[i-1].Threshold {
				return fmt.Errorf("faction %q: rank thresholds must be strictly increasing", name)
			}
		}
		for i := 1; i < len(f.Milestones); i++ {
			if f.Milestones[i].Threshold <= f.Milestones[i-1].Threshold {
				return fmt.Errorf("faction %q: milestone thresholds must be strictly increasing", name)
			}
		}
	}
	for id, q := range t.quests {
		if len(q.Objectives) == 0 {
			return fmt.Errorf("quest %q: no objectives", id)
		}
		seen := make(map[string]bool, len(q.Objectives))
		for _, obj := range q.Objectives {
			if obj.Required <= 0 {
				return fmt.Errorf("quest %q: objective %q: required must be positive", id, obj.ID)
			}
			if seen[obj.ID] {
				return fmt.Errorf("quest %q: duplicate objective %q", id, obj.ID)
			}
			seen[obj.ID] = true
		}
		for _, origin := range q.Origins {
			if _, ok := t.origins[origin]; !ok {
				return fmt.Errorf("quest %q: unknown origin %q", id, origin)
			}
		}
		for _, dream := range q.Dreams {
			if _, ok := t.dreams[dream]; !ok {
				return fmt.Errorf("quest %q: unknown dream %q", id, dream)
			}
		}
		for _, faction := range q.Factions {
			if _, ok := t.factions[faction]; !ok {
				return fmt.Errorf("quest %q: unknown faction %q", id, faction)
			}
		}
		for _, prereq := range q.Prerequisites {
			if _, ok := t.quests[prereq]; !ok {
				return fmt.Errorf("quest %q: unknown prerequisite %q", id, prereq)
			}
		}
		if q.Rewards.Ship != "" {
			if _, ok := t.shipTypes[q.Rewards.Ship]; !ok {
				return fmt.Errorf("quest %q: unknown reward ship %q", id, q.Rewards.Ship)
			}
		}
		for faction := range q.Rewards.Reputation {
			if _, ok := t.factions[faction]; !ok {
				return fmt.Errorf("quest %q: reputation reward for unknown faction %q", id, faction)
			}
		}
	}
	for id, a := range t.allies {
		if a.Faction != "" {
			if _, ok := t.factions[a.Faction]; !ok {
				return fmt.Errorf("ally %q: unknown faction %q", id, a.Faction)
			}
		}
		for _, req := range a.Requirements {
			if err := t.validateRequirement(req); err != nil {
				return fmt.Errorf("ally %q: %w", id, err)
			}
		}
	}
	for id, u := range t.upgrades {
		for _, req := range u.Requirements {
			if err := t.validateRequirement(req); err != nil {
				return fmt.Errorf("upgrade %q: %w", id, err)
			}
		}
	}
	return nil
}

func (t *Tables) validateRequirement(req Requirement) error {
	switch req.Kind {
	case ReqFactionIs:
		if _, ok := t.factions[req.Value]; !ok {
			return fmt.Errorf("requirement %q: unknown faction", req.Raw)
		}
	case ReqDreamIs:
		if _, ok := t.dreams[req.Value]; !ok {
			return fmt.Errorf("requirement %q: unknown dream", req.Raw)
		}
	case ReqQuestCompleted:
		if _, ok := t.quests[req.Value]; !ok {
			return fmt.Errorf("requirement %q: unknown quest", req.Raw)
		}
	case ReqShipTypeIs:
		if _, ok := t.shipTypes[req.Value]; !ok {
			return fmt.Errorf("requirement %q: unknown ship type", req.Raw)
		}
	case ReqUpgradeApplied:
		if _, ok := t.upgrades[req.Value]; !ok {
			return fmt.Errorf("requirement %q: unknown upgrade", req.Raw)
		}
	}
	return nil
}
