package engine

import (
	"reflect"
	"testing"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
)

func TestSatisfied(t *testing.T) {
	subject := Subject{
		Character: &models.Character{
			Level:           6,
			Faction:         "Pirate",
			Dream:           "Become Pirate King",
			CompletedQuests: []string{"romance_dawn_pirate"},
		},
		Crew: &models.Crew{Level: 3},
		Ship: &models.Ship{Type: "Caravel", Upgrades: []string{"reinforced_hull"}},
	}

	tests := []struct {
		token string
		want  bool
	}{
		{"level:5", true},
		{"level:7", false},
		{"faction:Pirate", true},
		{"faction:Marine", false},
		{"dream:Become Pirate King", true},
		{"complete_quest:romance_dawn_pirate", true},
		{"complete_quest:orange_town", false},
		{"crew_level:3", true},
		{"crew_level:4", false},
		{"ship_type:Caravel", true},
		{"ship_type:Galleon", false},
		{"upgrade:reinforced_hull", true},
		{"upgrade:improved_sails", false},
		{"location:shells_town", true}, // inert tokens always pass
		{"rank:Captain", true},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			req := content.ParseRequirement(tt.token)
			if got := Satisfied(req, subject); got != tt.want {
				t.Errorf("Satisfied(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestSatisfied_NilCrewAndShip(t *testing.T) {
	subject := Subject{Character: &models.Character{Level: 10}}
	for _, token := range []string{"crew_level:1", "ship_type:Dinghy", "upgrade:reinforced_hull"} {
		if Satisfied(content.ParseRequirement(token), subject) {
			t.Errorf("Satisfied(%q) without crew or ship = true, want false", token)
		}
	}
}

func TestMissing(t *testing.T) {
	subject := Subject{Character: &models.Character{Level: 2, Faction: "Marine"}}
	reqs := []content.Requirement{
		content.ParseRequirement("level:5"),
		content.ParseRequirement("faction:Marine"),
		content.ParseRequirement("complete_quest:shells_town"),
	}
	missing := Missing(reqs, subject)
	if len(missing) != 2 {
		t.Fatalf("missing = %v, want 2 entries", missing)
	}
	if missing[0].Raw != "level:5" || missing[1].Raw != "complete_quest:shells_town" {
		t.Errorf("missing order = %q, %q", missing[0].Raw, missing[1].Raw)
	}
}

func TestQuestMissing(t *testing.T) {
	quest := content.Quest{
		ID:            "orange_town",
		Name:          "Orange Town",
		LevelRequired: 3,
		Origins:       []string{"Shells Town", "Syrup Village"},
		Factions:      []string{"Pirate"},
		Prerequisites: []string{"romance_dawn_pirate"},
	}

	tests := []struct {
		name string
		ch   *models.Character
		want []string
	}{
		{
			name: "everything missing",
			ch:   &models.Character{Level: 1, Origin: "Baratie", Faction: "Marine"},
			want: []string{
				"Reach level 3",
				"Hail from Shells Town or Syrup Village",
				"Belong to the Pirate faction",
				"Complete quest romance_dawn_pirate",
			},
		},
		{
			name: "available",
			ch: &models.Character{
				Level:           4,
				Origin:          "Shells Town",
				Faction:         "Pirate",
				CompletedQuests: []string{"romance_dawn_pirate"},
			},
			want: nil,
		},
		{
			name: "already completed",
			ch: &models.Character{
				Level:           4,
				Origin:          "Shells Town",
				Faction:         "Pirate",
				CompletedQuests: []string{"romance_dawn_pirate", "orange_town"},
			},
			want: []string{"Already completed"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuestMissing(quest, tt.ch)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("QuestMissing = %v, want %v", got, tt.want)
			}
			if avail := QuestAvailable(quest, tt.ch); avail != (len(tt.want) == 0) {
				t.Errorf("QuestAvailable = %v with missing %v", avail, got)
			}
		})
	}
}

func TestDescribeRequirement(t *testing.T) {
	tables, err := content.Load("../../data/content")
	if err != nil {
		t.Fatalf("load content: %v", err)
	}

	tests := []struct {
		token string
		want  string
	}{
		{"level:5", "Reach level 5"},
		{"faction:Marine", "Belong to the Marine faction"},
		{"crew_level:3", "Crew level 3"},
		{"ship_type:Galleon", "Sail a Galleon"},
		{"upgrade:reinforced_hull", "Install Reinforced Hull"},
		{"complete_quest:orange_town_main", `Complete "The Clown's Challenge"`},
		{"location:shells_town", "location:shells_town"},
	}
	for _, tt := range tests {
		req := content.ParseRequirement(tt.token)
		if got := DescribeRequirement(req, tables); got != tt.want {
			t.Errorf("DescribeRequirement(%q) = %q, want %q", tt.token, got, tt.want)
		}
	}
}
