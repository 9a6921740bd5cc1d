package combat

import (
	"fmt"
	"math/rand"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
)

// Action is a player's choice for one battle turn.
type Action int

const (
	ActionAttack Action = iota
	ActionDefend
	ActionSpecial
	ActionFlee
)

// Outcome is the battle state after a turn resolves.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeFled
)

// Defeat penalty: a quarter of carried berries, capped.
const MaxDefeatBerryLoss = 5000

// Battle is one character's fight against a generated enemy. Derived combat
// stats are frozen at encounter time; the character row is not touched until
// the battle resolves.
type Battle struct {
	rng *rand.Rand

	CharacterID   int64
	CharacterName string
	Race          content.Race
	Enemy         Enemy
	Location      string

	PlayerHP      int
	PlayerMaxHP   int
	PlayerAttack  int
	PlayerDefense int
	agility       int

	EnemyHP int
	Log     []string
}

// NewBattle derives the player's combat stats from level and effective
// attributes and opens the fight at full health on both sides.
func NewBattle(rng *rand.Rand, ch *models.Character, race content.Race, enemy Enemy, location string) *Battle {
	stats := ch.EffectiveStats(race)
	maxHP := 100 + ch.Level*20 + stats.Durability*5
	return &Battle{
		rng:           rng,
		CharacterID:   ch.ID,
		CharacterName: ch.Name,
		Race:          race,
		Enemy:         enemy,
		Location:      location,
		PlayerHP:      maxHP,
		PlayerMaxHP:   maxHP,
		PlayerAttack:  20 + ch.Level*3 + stats.Strength*2,
		PlayerDefense: 10 + ch.Level*2 + stats.Durability,
		agility:       stats.Agility,
		EnemyHP:       enemy.HP,
	}
}

// SpecialAttackName is the race-flavored name for the heavy attack.
func (b *Battle) SpecialAttackName() string {
	if b.Race.SpecialAttack != "" {
		return b.Race.SpecialAttack
	}
	return "Special Attack"
}

// Turn resolves one player action and, unless the fight ended or the player
// escaped, the enemy's reply.
func (b *Battle) Turn(action Action) Outcome {
	defended := false

	switch action {
	case ActionAttack:
		dmg := b.attackDamage(b.PlayerAttack)
		b.EnemyHP = maxInt(0, b.EnemyHP-dmg)
		b.logf("%s attacks for %d damage!", b.CharacterName, dmg)

	case ActionSpecial:
		// The special never misses its mark: a flat 1.5x hit, no roll.
		dmg := maxInt(1, int(float64(b.PlayerAttack)*1.5)-b.Enemy.Defense/2)
		b.EnemyHP = maxInt(0, b.EnemyHP-dmg)
		b.logf("%s uses %s for %d damage!", b.CharacterName, b.SpecialAttackName(), dmg)

	case ActionDefend:
		defended = true
		b.logf("%s takes a defensive stance!", b.CharacterName)

	case ActionFlee:
		if b.rng.Float64() < 0.5+float64(b.agility)*0.02 {
			b.logf("%s escaped from %s!", b.CharacterName, b.Enemy.Name)
			return OutcomeFled
		}
		// Failed escape leaves the player exposed to an unmitigated hit.
		dmg := maxInt(1, b.enemyRoll())
		b.PlayerHP = maxInt(0, b.PlayerHP-dmg)
		b.logf("%s failed to escape! %s attacks for %d damage!", b.CharacterName, b.Enemy.Name, dmg)
		if b.PlayerHP <= 0 {
			return OutcomeDefeat
		}
		return OutcomeOngoing
	}

	if b.EnemyHP <= 0 {
		return OutcomeVictory
	}

	dmg := b.enemyRoll()
	if defended {
		dmg = maxInt(1, dmg/2)
	} else {
		dmg = maxInt(1, dmg-b.PlayerDefense/3)
	}
	b.PlayerHP = maxInt(0, b.PlayerHP-dmg)
	b.logf("%s attacks for %d damage!", b.Enemy.Name, dmg)

	if b.PlayerHP <= 0 {
		return OutcomeDefeat
	}
	return OutcomeOngoing
}

// attackDamage rolls 80% to 120% of the attack value, then halves the enemy
// defense off the top. A landed hit always costs at least one point.
func (b *Battle) attackDamage(attack int) int {
	roll := b.randIncl(int(float64(attack)*0.8), int(float64(attack)*1.2))
	return maxInt(1, roll-b.Enemy.Defense/2)
}

// enemyRoll is the enemy's raw 70% to 130% damage roll, before mitigation.
func (b *Battle) enemyRoll() int {
	return b.randIncl(int(float64(b.Enemy.Attack)*0.7), int(float64(b.Enemy.Attack)*1.3))
}

// RecentLog returns the last n log lines.
func (b *Battle) RecentLog(n int) []string {
	if len(b.Log) <= n {
		return b.Log
	}
	return b.Log[len(b.Log)-n:]
}

// DefeatBerryLoss returns the berry penalty for losing with the given purse.
func DefeatBerryLoss(berries int64) int64 {
	loss := berries / 4
	if loss > MaxDefeatBerryLoss {
		return MaxDefeatBerryLoss
	}
	return loss
}

func (b *Battle) randIncl(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + b.rng.Intn(hi-lo+1)
}

func (b *Battle) logf(format string, args ...any) {
	b.Log = append(b.Log, fmt.Sprintf(format, args...))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
