package engine

import (
	"github.com/grandline-rpg/grandline/bot/content"
)

// Recruit discount fences. Standing with an ally's home faction cheapens
// recruiting them; the discount applies to the berry cost only.
const (
	discountHighScore = 500
	discountMidScore  = 200
	discountLowScore  = 100
)

// RecruitDiscount returns the fractional discount earned by the given
// standing with the ally's faction.
func RecruitDiscount(score int) float64 {
	switch {
	case score >= discountHighScore:
		return 0.30
	case score >= discountMidScore:
		return 0.15
	case score >= discountLowScore:
		return 0.05
	default:
		return 0
	}
}

// RecruitCost returns the ally's recruitment cost after the faction discount.
// Only the berry component is discounted, truncated to a whole berry; item
// components pass through untouched.
func RecruitCost(ally content.Ally, factionScore int) map[string]int64 {
	out := make(map[string]int64, len(ally.RecruitCost))
	discount := RecruitDiscount(factionScore)
	for resource, amount := range ally.RecruitCost {
		if resource == "berry" {
			amount = int64(float64(amount) * (1 - discount))
		}
		out[resource] = amount
	}
	return out
}

// UpgradeCost scales an upgrade's base cost by the hull class multiplier,
// truncated to a whole berry.
func UpgradeCost(upgrade content.ShipUpgrade, hull content.ShipType) int64 {
	return int64(float64(upgrade.BaseCost) * hull.CostMultiplier)
}
