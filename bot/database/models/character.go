package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/grandline-rpg/grandline/bot/content"
)

// MaxCharactersPerUser caps how many characters a single Discord account can
// hold at once.
const MaxCharactersPerUser = 3

// BerryItem is the inventory key for currency. Berries are an item stack, not
// a dedicated column, so quest item rewards and money share one code path.
const BerryItem = "Berry"

// Character is a player character. Stats are stored as earned base values;
// racial bonuses apply on read so a content rebalance never needs a backfill.
type Character struct {
	bun.BaseModel `bun:"table:characters"`

	ID              int64             `bun:"id,pk,autoincrement"`
	UserID          string            `bun:"user_id,notnull"`
	Name            string            `bun:"name,notnull"`
	Race            string            `bun:"race,notnull"`
	Origin          string            `bun:"origin,notnull"`
	Dream           string            `bun:"dream,notnull"`
	Faction         string            `bun:"faction,notnull"`
	Level           int               `bun:"level,notnull,default:1"`
	XP              int64             `bun:"xp,notnull,default:0"`
	Bounty          int64             `bun:"bounty,notnull,default:0"`
	BaseStats       content.StatBlock `bun:"base_stats,type:jsonb"`
	Inventory       map[string]int64  `bun:"inventory,type:jsonb"`
	CompletedQuests []string          `bun:"completed_quests,type:jsonb"`
	Achievements    []string          `bun:"achievements,type:jsonb"`
	CrewID          string            `bun:"crew_id,nullzero"`
	CreatedAt       time.Time         `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt       time.Time         `bun:"updated_at,notnull,default:current_timestamp"`
}

// Clone returns a deep copy. Callers mutate clones freely without bleeding
// into copies held elsewhere.
func (c *Character) Clone() *Character {
	out := *c
	if c.Inventory != nil {
		out.Inventory = make(map[string]int64, len(c.Inventory))
		for k, v := range c.Inventory {
			out.Inventory[k] = v
		}
	}
	out.CompletedQuests = append([]string(nil), c.CompletedQuests...)
	out.Achievements = append([]string(nil), c.Achievements...)
	return &out
}

// XPForLevel returns the experience needed to advance from the given level.
func XPForLevel(level int) int64 {
	return int64(level*100 + level*50)
}

// GrantXP applies the race multiplier, truncates, and cascades level-ups.
// Every level gained adds two points to every base stat. Returns the number
// of levels gained.
func (c *Character) GrantXP(amount int64, race content.Race) int {
	if race.XPMultiplier > 0 {
		amount = int64(float64(amount) * race.XPMultiplier)
	}
	c.XP += amount

	levels := 0
	for c.XP >= XPForLevel(c.Level) {
		c.XP -= XPForLevel(c.Level)
		c.Level++
		levels++
		c.BaseStats = c.BaseStats.Add(content.StatBlock{
			Strength: 2, Agility: 2, Durability: 2, Intelligence: 2,
		})
	}
	return levels
}

// EffectiveStats returns base stats plus the racial bonus.
func (c *Character) EffectiveStats(race content.Race) content.StatBlock {
	return c.BaseStats.Add(race.StatBonuses)
}

// Berries reports the character's currency balance.
func (c *Character) Berries() int64 {
	return c.Inventory[BerryItem]
}

// AddItem adds count of an item to the inventory, creating the stack if
// needed. Empty stacks are removed so the inventory round-trips cleanly.
func (c *Character) AddItem(name string, count int64) {
	if c.Inventory == nil {
		c.Inventory = make(map[string]int64)
	}
	c.Inventory[name] += count
	if c.Inventory[name] <= 0 {
		delete(c.Inventory, name)
	}
}

// RemoveItem takes count of an item out of the inventory. It fails without
// mutating anything when the stack is too small.
func (c *Character) RemoveItem(name string, count int64) bool {
	if count <= 0 || c.Inventory[name] < count {
		return false
	}
	c.Inventory[name] -= count
	if c.Inventory[name] == 0 {
		delete(c.Inventory, name)
	}
	return true
}

// AddBounty adjusts the bounty, flooring it at zero.
func (c *Character) AddBounty(amount int64) {
	c.Bounty += amount
	if c.Bounty < 0 {
		c.Bounty = 0
	}
}

// SpendBerries deducts a cost and reports whether the balance covered it.
func (c *Character) SpendBerries(cost int64) bool {
	if c.Berries() < cost {
		return false
	}
	c.AddItem(BerryItem, -cost)
	return true
}

// HasCompletedQuest reports whether the quest id is in the completion log.
func (c *Character) HasCompletedQuest(questID string) bool {
	for _, id := range c.CompletedQuests {
		if id == questID {
			return true
		}
	}
	return false
}

// CompleteQuest records a quest completion once.
func (c *Character) CompleteQuest(questID string) {
	if !c.HasCompletedQuest(questID) {
		c.CompletedQuests = append(c.CompletedQuests, questID)
	}
}

// HasAchievement reports whether the achievement id has been earned.
func (c *Character) HasAchievement(id string) bool {
	for _, a := range c.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// AddAchievement records an achievement once.
func (c *Character) AddAchievement(id string) {
	if !c.HasAchievement(id) {
		c.Achievements = append(c.Achievements, id)
	}
}
