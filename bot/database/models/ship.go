package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/grandline-rpg/grandline/bot/content"
)

// RepairCostPerPoint is the berry cost to restore one point of durability.
const RepairCostPerPoint = 100

// Ship is a crew's vessel. Applied upgrades are stored by id; their boosts are
// baked into the stat columns when installed.
type Ship struct {
	bun.BaseModel `bun:"table:ships"`

	ID            string           `bun:"id,pk"`
	CrewID        string           `bun:"crew_id,notnull"`
	Name          string           `bun:"name,notnull"`
	Type          string           `bun:"type,notnull"`
	Durability    int              `bun:"durability,notnull"`
	MaxDurability int              `bun:"max_durability,notnull"`
	Speed         int              `bun:"speed,notnull"`
	CargoCapacity int              `bun:"cargo_capacity,notnull"`
	CrewCapacity  int              `bun:"crew_capacity,notnull"`
	Firepower     int              `bun:"firepower,notnull"`
	Cargo         map[string]int64 `bun:"cargo,type:jsonb"`
	Upgrades      []string         `bun:"upgrades,type:jsonb"`
	BattlesWon    int              `bun:"battles_won,notnull,default:0"`
	BattlesLost   int              `bun:"battles_lost,notnull,default:0"`
	CreatedAt     time.Time        `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time        `bun:"updated_at,notnull,default:current_timestamp"`
}

// NewShip builds a fresh ship of the given hull class at full durability.
func NewShip(id, crewID, name string, hull content.ShipType) *Ship {
	return &Ship{
		ID:            id,
		CrewID:        crewID,
		Name:          name,
		Type:          hull.Name,
		Durability:    hull.BaseDurability,
		MaxDurability: hull.BaseDurability,
		Speed:         hull.BaseSpeed,
		CargoCapacity: hull.CargoCapacity,
		CrewCapacity:  hull.CrewCapacity,
		Firepower:     hull.Firepower,
	}
}

// HasUpgrade reports whether the upgrade is already installed.
func (s *Ship) HasUpgrade(id string) bool {
	for _, u := range s.Upgrades {
		if u == id {
			return true
		}
	}
	return false
}

// ApplyUpgrade installs an upgrade. Raising max durability heals the hull by
// the same amount. Installing twice is a no-op.
func (s *Ship) ApplyUpgrade(u content.ShipUpgrade) bool {
	if s.HasUpgrade(u.ID) {
		return false
	}
	s.Upgrades = append(s.Upgrades, u.ID)
	s.MaxDurability += u.DurabilityBoost
	s.Durability += u.DurabilityBoost
	s.Speed += u.SpeedBoost
	s.CargoCapacity += u.CargoBoost
	s.Firepower += u.FirepowerBoost
	return true
}

// CargoUsed returns how many units of cargo are aboard.
func (s *Ship) CargoUsed() int64 {
	var used int64
	for _, n := range s.Cargo {
		used += n
	}
	return used
}

// AddCargo loads goods aboard. It fails without mutating anything when the
// hold cannot fit the amount.
func (s *Ship) AddCargo(item string, amount int64) bool {
	if amount <= 0 || s.CargoUsed()+amount > int64(s.CargoCapacity) {
		return false
	}
	if s.Cargo == nil {
		s.Cargo = make(map[string]int64)
	}
	s.Cargo[item] += amount
	return true
}

// RemoveCargo unloads goods. It fails without mutating anything when the hold
// does not carry that much.
func (s *Ship) RemoveCargo(item string, amount int64) bool {
	if amount <= 0 || s.Cargo[item] < amount {
		return false
	}
	s.Cargo[item] -= amount
	if s.Cargo[item] == 0 {
		delete(s.Cargo, item)
	}
	return true
}

// Damage returns how many durability points the hull is missing.
func (s *Ship) Damage() int {
	return s.MaxDurability - s.Durability
}

// RepairCost returns the berry cost to restore full durability.
func (s *Ship) RepairCost() int64 {
	return int64(s.Damage()) * RepairCostPerPoint
}

// Repair restores the hull to full durability.
func (s *Ship) Repair() {
	s.Durability = s.MaxDurability
}

// TakeDamage reduces durability, never below zero.
func (s *Ship) TakeDamage(points int) {
	s.Durability -= points
	if s.Durability < 0 {
		s.Durability = 0
	}
}

// RecordBattle tallies a ship battle outcome.
func (s *Ship) RecordBattle(won bool) {
	if won {
		s.BattlesWon++
	} else {
		s.BattlesLost++
	}
}
