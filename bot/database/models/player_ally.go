package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/grandline-rpg/grandline/bot/content"
)

// Ally progression caps.
const (
	MaxAllyLevel = 50
	MaxAllyBond  = 10
)

// PlayerAlly is a recruited companion. Level grows from shared battles and
// bond from spending time together; both scale the ally's contribution.
type PlayerAlly struct {
	bun.BaseModel `bun:"table:player_allies"`

	ID          int64     `bun:"id,pk,autoincrement"`
	CharacterID int64     `bun:"character_id,notnull"`
	AllyID      string    `bun:"ally_id,notnull"`
	Level       int       `bun:"level,notnull,default:1"`
	XP          int64     `bun:"xp,notnull,default:0"`
	Bond        int       `bun:"bond,notnull,default:1"`
	BondXP      int64     `bun:"bond_xp,notnull,default:0"`
	RecruitedAt time.Time `bun:"recruited_at,notnull,default:current_timestamp"`
}

// AllyXPForLevel returns the experience an ally needs to advance from the
// given level.
func AllyXPForLevel(level int) int64 {
	return int64(level*100 + level*25)
}

// BondXPForLevel returns the bond points needed to advance from the given
// bond level.
func BondXPForLevel(bond int) int64 {
	return int64(bond*50 + bond*20)
}

// GrantXP cascades ally level-ups up to the cap. Experience past the cap is
// discarded. Returns levels gained.
func (a *PlayerAlly) GrantXP(amount int64) int {
	if a.Level >= MaxAllyLevel {
		return 0
	}
	a.XP += amount
	levels := 0
	for a.Level < MaxAllyLevel && a.XP >= AllyXPForLevel(a.Level) {
		a.XP -= AllyXPForLevel(a.Level)
		a.Level++
		levels++
	}
	if a.Level >= MaxAllyLevel {
		a.XP = 0
	}
	return levels
}

// GrantBond cascades bond level-ups up to the cap. Returns bond levels gained.
func (a *PlayerAlly) GrantBond(amount int64) int {
	if a.Bond >= MaxAllyBond {
		return 0
	}
	a.BondXP += amount
	levels := 0
	for a.Bond < MaxAllyBond && a.BondXP >= BondXPForLevel(a.Bond) {
		a.BondXP -= BondXPForLevel(a.Bond)
		a.Bond++
		levels++
	}
	if a.Bond >= MaxAllyBond {
		a.BondXP = 0
	}
	return levels
}

// StatBonus scales the ally's base stats by level and bond, truncating each
// attribute to a whole point.
func (a *PlayerAlly) StatBonus(base content.StatBlock) content.StatBlock {
	mult := (1 + float64(a.Level-1)*0.10) * (1 + float64(a.Bond-1)*0.05)
	return content.StatBlock{
		Strength:     int(float64(base.Strength) * mult),
		Agility:      int(float64(base.Agility) * mult),
		Durability:   int(float64(base.Durability) * mult),
		Intelligence: int(float64(base.Intelligence) * mult),
	}
}

// PassiveValue scales the ally's passive effect by level and bond. Passives
// stay fractional; display code rounds.
func (a *PlayerAlly) PassiveValue(base float64) float64 {
	return base * (1 + float64(a.Level-1)*0.02) * (1 + float64(a.Bond-1)*0.03)
}
