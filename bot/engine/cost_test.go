package engine

import (
	"reflect"
	"testing"

	"github.com/grandline-rpg/grandline/bot/content"
)

func TestRecruitDiscount(t *testing.T) {
	tests := []struct {
		score int
		want  float64
	}{
		{-200, 0},
		{0, 0},
		{99, 0},
		{100, 0.05},
		{199, 0.05},
		{200, 0.15},
		{499, 0.15},
		{500, 0.30},
		{2000, 0.30},
	}
	for _, tt := range tests {
		if got := RecruitDiscount(tt.score); got != tt.want {
			t.Errorf("RecruitDiscount(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestRecruitCost(t *testing.T) {
	ally := content.Ally{
		ID: "zoro_early",
		RecruitCost: map[string]int64{
			"berry": 10000,
			"Sake":  3,
		},
	}

	tests := []struct {
		name  string
		score int
		want  map[string]int64
	}{
		{"no standing", 0, map[string]int64{"berry": 10000, "Sake": 3}},
		{"low discount", 100, map[string]int64{"berry": 9500, "Sake": 3}},
		{"mid discount", 200, map[string]int64{"berry": 8500, "Sake": 3}},
		{"high discount", 500, map[string]int64{"berry": 7000, "Sake": 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RecruitCost(ally, tt.score)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RecruitCost = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecruitCost_TruncatesBerry(t *testing.T) {
	ally := content.Ally{RecruitCost: map[string]int64{"berry": 333}}
	got := RecruitCost(ally, 100) // 333 * 0.95 = 316.35
	if got["berry"] != 316 {
		t.Errorf("berry = %d, want 316", got["berry"])
	}
}

func TestUpgradeCost(t *testing.T) {
	upgrade := content.ShipUpgrade{ID: "reinforced_hull", BaseCost: 5000}

	tests := []struct {
		hull content.ShipType
		want int64
	}{
		{content.ShipType{Name: "Dinghy", CostMultiplier: 0.5}, 2500},
		{content.ShipType{Name: "Caravel", CostMultiplier: 1.0}, 5000},
		{content.ShipType{Name: "Legendary", CostMultiplier: 2.0}, 10000},
	}
	for _, tt := range tests {
		if got := UpgradeCost(upgrade, tt.hull); got != tt.want {
			t.Errorf("UpgradeCost on %s = %d, want %d", tt.hull.Name, got, tt.want)
		}
	}
}
