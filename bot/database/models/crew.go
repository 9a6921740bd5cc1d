package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MaxCrewCapacity is the hard ceiling on crew size regardless of level.
const MaxCrewCapacity = 15

// Crew roles. Every crew has exactly one Captain.
const (
	RoleCaptain    = "Captain"
	RoleFirstMate  = "First Mate"
	RoleNavigator  = "Navigator"
	RoleCook       = "Cook"
	RoleDoctor     = "Doctor"
	RoleShipwright = "Shipwright"
	RoleMusician   = "Musician"
	RoleFighter    = "Fighter"
)

// CrewRoles lists every assignable role in display order.
var CrewRoles = []string{
	RoleCaptain, RoleFirstMate, RoleNavigator, RoleCook,
	RoleDoctor, RoleShipwright, RoleMusician, RoleFighter,
}

// roleBonuses maps a filled role to the activity multiplier it raises.
var roleBonuses = map[string]struct {
	Activity string
	Bonus    float64
}{
	RoleCaptain:    {"morale", 0.1},
	RoleNavigator:  {"navigation", 0.15},
	RoleCook:       {"cooking", 0.2},
	RoleDoctor:     {"healing", 0.25},
	RoleShipwright: {"crafting", 0.15},
	RoleMusician:   {"morale", 0.15},
	RoleFighter:    {"combat", 0.1},
}

// CrewMember is one roster entry, stored inline on the crew row.
type CrewMember struct {
	CharacterID   int64     `json:"character_id"`
	UserID        string    `json:"user_id"`
	CharacterName string    `json:"character_name"`
	Role          string    `json:"role"`
	JoinedAt      time.Time `json:"joined_at"`
	Contribution  int64     `json:"contribution"`
}

// Crew is a group of characters sailing under one captain. Crew reputation is
// fed by member bounty gains and unlocks nothing directly; it is a leaderboard
// stat.
type Crew struct {
	bun.BaseModel `bun:"table:crews"`

	ID              string       `bun:"id,pk"`
	Name            string       `bun:"name,notnull,unique"`
	Description     string       `bun:"description"`
	Motto           string       `bun:"motto"`
	Faction         string       `bun:"faction"`
	CaptainID       int64        `bun:"captain_id,notnull"`
	Members         []CrewMember `bun:"members,type:jsonb"`
	Level           int          `bun:"level,notnull,default:1"`
	XP              int64        `bun:"xp,notnull,default:0"`
	Reputation      int64        `bun:"reputation,notnull,default:0"`
	Treasury        int64        `bun:"treasury,notnull,default:0"`
	TotalBounty     int64        `bun:"total_bounty,notnull,default:0"`
	ShipID          string       `bun:"ship_id,nullzero"`
	CompletedQuests []string     `bun:"completed_quests,type:jsonb"`
	CreatedAt       time.Time    `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt       time.Time    `bun:"updated_at,notnull,default:current_timestamp"`
}

// CrewXPForLevel returns the experience a crew needs to advance from the
// given level.
func CrewXPForLevel(level int) int64 {
	return int64(level*200 + level*100)
}

// Capacity returns how many members the crew can hold at its current level.
func (c *Crew) Capacity() int {
	cap := 5 + 2*(c.Level-1)
	if cap > MaxCrewCapacity {
		return MaxCrewCapacity
	}
	return cap
}

// GrantXP cascades crew level-ups and returns the number of levels gained.
func (c *Crew) GrantXP(amount int64) int {
	c.XP += amount
	levels := 0
	for c.XP >= CrewXPForLevel(c.Level) {
		c.XP -= CrewXPForLevel(c.Level)
		c.Level++
		levels++
	}
	return levels
}

// RecordBounty tracks a member's bounty gain, converting it into crew
// reputation at a thousand berries of bounty per point.
func (c *Crew) RecordBounty(bounty int64) {
	c.TotalBounty += bounty
	c.Reputation += bounty / 1000
}

// Member returns the roster entry for a character, if present.
func (c *Crew) Member(characterID int64) (CrewMember, bool) {
	for _, m := range c.Members {
		if m.CharacterID == characterID {
			return m, true
		}
	}
	return CrewMember{}, false
}

// AddMember appends a roster entry. It fails when the crew is full, the
// character is already aboard, or a second Captain would be created.
func (c *Crew) AddMember(m CrewMember) bool {
	if len(c.Members) >= c.Capacity() {
		return false
	}
	if _, aboard := c.Member(m.CharacterID); aboard {
		return false
	}
	if m.Role == RoleCaptain && c.HasRole(RoleCaptain) {
		return false
	}
	c.Members = append(c.Members, m)
	return true
}

// RemoveMember drops a character from the roster. The captain cannot be
// removed; the crew disbands instead.
func (c *Crew) RemoveMember(characterID int64) bool {
	if characterID == c.CaptainID {
		return false
	}
	for i, m := range c.Members {
		if m.CharacterID == characterID {
			c.Members = append(c.Members[:i], c.Members[i+1:]...)
			return true
		}
	}
	return false
}

// ChangeRole reassigns a member's role. The Captain role cannot be granted or
// taken this way.
func (c *Crew) ChangeRole(characterID int64, role string) bool {
	if role == RoleCaptain {
		return false
	}
	for i, m := range c.Members {
		if m.CharacterID == characterID {
			if m.Role == RoleCaptain {
				return false
			}
			c.Members[i].Role = role
			return true
		}
	}
	return false
}

// HasRole reports whether any member currently fills the role.
func (c *Crew) HasRole(role string) bool {
	for _, m := range c.Members {
		if m.Role == role {
			return true
		}
	}
	return false
}

// AddContribution credits points to a member's roster entry.
func (c *Crew) AddContribution(characterID int64, points int64) {
	for i, m := range c.Members {
		if m.CharacterID == characterID {
			c.Members[i].Contribution += points
			return
		}
	}
}

// Bonuses returns the crew's activity multipliers from filled roles, starting
// at 1.0. Multiple members in the same role stack additively.
func (c *Crew) Bonuses() map[string]float64 {
	out := map[string]float64{
		"morale":     1.0,
		"navigation": 1.0,
		"cooking":    1.0,
		"healing":    1.0,
		"crafting":   1.0,
		"combat":     1.0,
	}
	for _, m := range c.Members {
		if rb, ok := roleBonuses[m.Role]; ok {
			out[rb.Activity] += rb.Bonus
		}
	}
	return out
}
