package content

import (
	"testing"
)

// The shipped content directory doubles as the loader fixture. If this test
// fails the bot would refuse to boot with the same error.
func TestLoad(t *testing.T) {
	tables, err := Load("../../data/content")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	counts := []struct {
		name string
		got  int
		want int
	}{
		{"races", len(tables.RaceNames()), 5},
		{"origins", len(tables.OriginNames()), 6},
		{"dreams", len(tables.DreamNames()), 7},
		{"factions", len(tables.FactionNames()), 8},
		{"ship types", len(tables.ShipTypeNames()), 5},
		{"upgrades", len(tables.Upgrades()), 8},
		{"quests", len(tables.Quests()), 15},
		{"allies", len(tables.Allies()), 9},
	}
	for _, c := range counts {
		if c.got != c.want {
			t.Errorf("loaded %d %s, want %d", c.got, c.name, c.want)
		}
	}
}

func TestLoad_RequirementsParsed(t *testing.T) {
	tables, err := Load("../../data/content")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	ally, ok := tables.Ally("zoro_early")
	if !ok {
		t.Fatal("zoro_early missing")
	}
	if len(ally.Requirements) != len(ally.RawRequirements) {
		t.Errorf("ally requirements: parsed %d of %d tokens", len(ally.Requirements), len(ally.RawRequirements))
	}

	upgrade, ok := tables.Upgrade("armored_prow")
	if !ok {
		t.Fatal("armored_prow missing")
	}
	var hasUpgradeReq bool
	for _, req := range upgrade.Requirements {
		if req.Kind == ReqUpgradeApplied && req.Value == "reinforced_hull" {
			hasUpgradeReq = true
		}
	}
	if !hasUpgradeReq {
		t.Errorf("armored_prow requirements = %+v, want a reinforced_hull prerequisite", upgrade.Requirements)
	}
}

func TestLoad_CrossReferences(t *testing.T) {
	tables, err := Load("../../data/content")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	for _, name := range tables.OriginNames() {
		origin, _ := tables.Origin(name)
		if _, ok := tables.Faction(origin.StartingFaction); !ok {
			t.Errorf("origin %q starts in unknown faction %q", name, origin.StartingFaction)
		}
	}

	for _, q := range tables.Quests() {
		for _, prereq := range q.Prerequisites {
			if _, ok := tables.Quest(prereq); !ok {
				t.Errorf("quest %q requires unknown quest %q", q.ID, prereq)
			}
		}
		if q.Rewards.Ship != "" {
			if _, ok := tables.ShipType(q.Rewards.Ship); !ok {
				t.Errorf("quest %q awards unknown ship %q", q.ID, q.Rewards.Ship)
			}
		}
	}
}

func TestLoad_MissingDir(t *testing.T) {
	if _, err := Load("testdata/nope"); err == nil {
		t.Fatal("Load of a missing directory succeeded")
	}
}

func TestQuestsKeepContentOrder(t *testing.T) {
	tables, err := Load("../../data/content")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	quests := tables.Quests()
	if len(quests) == 0 || quests[0].ID != "romance_dawn_marine" {
		t.Errorf("first quest = %q, want romance_dawn_marine", quests[0].ID)
	}
}
