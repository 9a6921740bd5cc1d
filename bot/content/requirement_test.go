package content

import (
	"reflect"
	"testing"
)

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		token string
		want  Requirement
	}{
		{"level:5", Requirement{Kind: ReqLevelAtLeast, Level: 5, Raw: "level:5"}},
		{"crew_level:3", Requirement{Kind: ReqCrewLevelAtLeast, Level: 3, Raw: "crew_level:3"}},
		{"faction:Marine", Requirement{Kind: ReqFactionIs, Value: "Marine", Raw: "faction:Marine"}},
		{"dream:Become Pirate King", Requirement{Kind: ReqDreamIs, Value: "Become Pirate King", Raw: "dream:Become Pirate King"}},
		{"complete_quest:orange_town_main", Requirement{Kind: ReqQuestCompleted, Value: "orange_town_main", Raw: "complete_quest:orange_town_main"}},
		{"ship_type:Caravel", Requirement{Kind: ReqShipTypeIs, Value: "Caravel", Raw: "ship_type:Caravel"}},
		{"upgrade:reinforced_hull", Requirement{Kind: ReqUpgradeApplied, Value: "reinforced_hull", Raw: "upgrade:reinforced_hull"}},
		{"level:abc", Requirement{Kind: ReqUnimplemented, Raw: "level:abc"}},
		{"crew_level:", Requirement{Kind: ReqUnimplemented, Raw: "crew_level:"}},
		{"location:shells_town", Requirement{Kind: ReqUnimplemented, Raw: "location:shells_town"}},
		{"special_event:meet_ace", Requirement{Kind: ReqUnimplemented, Raw: "special_event:meet_ace"}},
		{"rank:Captain", Requirement{Kind: ReqUnimplemented, Raw: "rank:Captain"}},
		{"no_separator", Requirement{Kind: ReqUnimplemented, Raw: "no_separator"}},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := ParseRequirement(tt.token); got != tt.want {
				t.Errorf("ParseRequirement(%q) = %+v, want %+v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseRequirements(t *testing.T) {
	if got := ParseRequirements(nil); got != nil {
		t.Errorf("ParseRequirements(nil) = %v, want nil", got)
	}
	got := ParseRequirements([]string{"level:2", "faction:Pirate"})
	want := []Requirement{
		{Kind: ReqLevelAtLeast, Level: 2, Raw: "level:2"},
		{Kind: ReqFactionIs, Value: "Pirate", Raw: "faction:Pirate"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseRequirements = %+v, want %+v", got, want)
	}
}
