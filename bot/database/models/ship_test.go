package models

import (
	"testing"

	"github.com/grandline-rpg/grandline/bot/content"
)

var caravel = content.ShipType{
	Name:           "Caravel",
	BaseDurability: 150,
	BaseSpeed:      15,
	CargoCapacity:  100,
	CrewCapacity:   5,
	Firepower:      1,
	CostMultiplier: 1.0,
	Price:          50000,
}

func TestNewShip(t *testing.T) {
	s := NewShip("s1", "c1", "Going Merry", caravel)
	if s.Durability != 150 || s.MaxDurability != 150 {
		t.Errorf("durability = %d/%d, want 150/150", s.Durability, s.MaxDurability)
	}
	if s.Speed != 15 || s.CargoCapacity != 100 || s.Firepower != 1 {
		t.Errorf("stats = spd %d cargo %d fp %d, want 15/100/1", s.Speed, s.CargoCapacity, s.Firepower)
	}
}

func TestShip_ApplyUpgrade(t *testing.T) {
	hull := content.ShipUpgrade{ID: "reinforced_hull", DurabilityBoost: 50}
	s := NewShip("s1", "c1", "Going Merry", caravel)
	s.TakeDamage(50)

	if !s.ApplyUpgrade(hull) {
		t.Fatal("first install should succeed")
	}
	if s.MaxDurability != 200 {
		t.Errorf("MaxDurability = %d, want 200", s.MaxDurability)
	}
	// The boost heals by the same amount it raises the ceiling.
	if s.Durability != 150 {
		t.Errorf("Durability = %d, want 150", s.Durability)
	}
	if s.ApplyUpgrade(hull) {
		t.Error("second install must be a no-op")
	}
	if s.MaxDurability != 200 {
		t.Errorf("duplicate install changed MaxDurability to %d", s.MaxDurability)
	}
}

func TestShip_Cargo(t *testing.T) {
	s := NewShip("s1", "c1", "Going Merry", caravel)

	if !s.AddCargo("Rice", 60) {
		t.Fatal("loading 60 into an empty 100 hold should succeed")
	}
	if s.AddCargo("Rum", 41) {
		t.Error("overfilling the hold must fail")
	}
	if got := s.CargoUsed(); got != 60 {
		t.Errorf("CargoUsed() = %d, want 60", got)
	}
	if s.RemoveCargo("Rice", 61) {
		t.Error("unloading more than carried must fail")
	}
	if !s.RemoveCargo("Rice", 60) {
		t.Error("unloading the full stack should succeed")
	}
	if _, exists := s.Cargo["Rice"]; exists {
		t.Error("empty cargo stack should be deleted")
	}
}

func TestShip_RepairCost(t *testing.T) {
	s := NewShip("s1", "c1", "Going Merry", caravel)
	s.TakeDamage(40)

	if got := s.RepairCost(); got != 4000 {
		t.Errorf("RepairCost() = %d, want 4000", got)
	}
	s.Repair()
	if s.Durability != s.MaxDurability {
		t.Errorf("Repair() left durability at %d/%d", s.Durability, s.MaxDurability)
	}
	if got := s.RepairCost(); got != 0 {
		t.Errorf("RepairCost() after repair = %d, want 0", got)
	}
}

func TestShip_TakeDamage_Floor(t *testing.T) {
	s := NewShip("s1", "c1", "Going Merry", caravel)
	s.TakeDamage(9999)
	if s.Durability != 0 {
		t.Errorf("Durability = %d, want 0", s.Durability)
	}
}
