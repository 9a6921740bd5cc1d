package models

import (
	"reflect"
	"testing"

	"github.com/grandline-rpg/grandline/bot/content"
)

func TestAllyXPForLevel(t *testing.T) {
	if got := AllyXPForLevel(1); got != 125 {
		t.Errorf("AllyXPForLevel(1) = %d, want 125", got)
	}
	if got := AllyXPForLevel(10); got != 1250 {
		t.Errorf("AllyXPForLevel(10) = %d, want 1250", got)
	}
}

func TestPlayerAlly_GrantXP(t *testing.T) {
	a := &PlayerAlly{Level: 1}
	// 125 clears level 1, 250 clears level 2, 25 left.
	if got := a.GrantXP(400); got != 2 {
		t.Errorf("GrantXP(400) levels = %d, want 2", got)
	}
	if a.Level != 3 || a.XP != 25 {
		t.Errorf("after grant: level %d xp %d, want level 3 xp 25", a.Level, a.XP)
	}

	capped := &PlayerAlly{Level: MaxAllyLevel}
	if got := capped.GrantXP(100000); got != 0 {
		t.Errorf("capped ally gained %d levels, want 0", got)
	}
	if capped.XP != 0 {
		t.Errorf("capped ally banked %d xp, want 0", capped.XP)
	}
}

func TestPlayerAlly_GrantBond(t *testing.T) {
	a := &PlayerAlly{Level: 1, Bond: 1}
	// 70 clears bond 1.
	if got := a.GrantBond(80); got != 1 {
		t.Errorf("GrantBond(80) levels = %d, want 1", got)
	}
	if a.Bond != 2 || a.BondXP != 10 {
		t.Errorf("after grant: bond %d bondxp %d, want bond 2 bondxp 10", a.Bond, a.BondXP)
	}

	capped := &PlayerAlly{Level: 1, Bond: MaxAllyBond}
	if got := capped.GrantBond(10000); got != 0 {
		t.Errorf("capped bond gained %d levels, want 0", got)
	}
}

func TestPlayerAlly_StatBonus(t *testing.T) {
	base := content.StatBlock{Strength: 5, Agility: 3}

	tests := []struct {
		name  string
		level int
		bond  int
		want  content.StatBlock
	}{
		{
			name:  "fresh recruit passes base through",
			level: 1,
			bond:  1,
			want:  content.StatBlock{Strength: 5, Agility: 3},
		},
		{
			// 5 * 1.4 * 1.1 = 7.7 -> 7; 3 * 1.4 * 1.1 = 4.62 -> 4.
			name:  "level and bond scale and truncate",
			level: 5,
			bond:  3,
			want:  content.StatBlock{Strength: 7, Agility: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &PlayerAlly{Level: tt.level, Bond: tt.bond}
			if got := a.StatBonus(base); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("StatBonus() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPlayerAlly_PassiveValue(t *testing.T) {
	a := &PlayerAlly{Level: 1, Bond: 1}
	if got := a.PassiveValue(0.2); got != 0.2 {
		t.Errorf("PassiveValue at 1/1 = %v, want 0.2", got)
	}

	// 0.2 * 1.08 * 1.06
	a = &PlayerAlly{Level: 5, Bond: 3}
	want := 0.2 * 1.08 * 1.06
	if got := a.PassiveValue(0.2); got != want {
		t.Errorf("PassiveValue at 5/3 = %v, want %v", got, want)
	}
}
