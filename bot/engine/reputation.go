package engine

import (
	"fmt"
	"math"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
)

// Spillover tuning. A reputation change with one faction echoes onto factions
// it has a declared relationship with, at a fraction of the original.
const (
	spilloverFactor   = 0.3
	allyRelationship  = 0.5
	enemyRelationship = -0.5
)

// RepChange is the outcome of applying a delta to one faction score.
type RepChange struct {
	Faction      string
	Delta        int
	OldScore     int
	NewScore     int
	OldAlignment string
	NewAlignment string
	Milestones   []string // threshold milestone ids newly crossed
	Spillover    bool
}

// ApplyReputation mutates the reputation row by delta and reports what
// changed. Milestones fire for thresholds crossed upward, each at most once
// per row.
func ApplyReputation(rep *models.FactionReputation, faction content.Faction, delta int) RepChange {
	ch := RepChange{
		Faction:      faction.Name,
		Delta:        delta,
		OldScore:     rep.Score,
		OldAlignment: rep.Alignment(),
	}
	rep.Score += delta
	ch.NewScore = rep.Score
	ch.NewAlignment = rep.Alignment()
	rep.Rank = Rank(faction, rep.Score)

	for _, m := range faction.Milestones {
		if m.Threshold > ch.OldScore && m.Threshold <= ch.NewScore {
			id := MilestoneID(faction.Name, m.Threshold)
			if !rep.HasMilestone(id) {
				rep.RecordMilestone(id)
				ch.Milestones = append(ch.Milestones, m.Name)
			}
		}
	}
	return ch
}

// MilestoneID names the one-shot reward marker for crossing a rank threshold.
func MilestoneID(faction string, threshold int) string {
	return fmt.Sprintf("%s_%d", faction, threshold)
}

// SpilloverDelta computes the echoed delta for a faction related to the one
// that changed. Returns 0 for unrelated factions and for echoes that round
// away to nothing.
func SpilloverDelta(delta int, relationship string) int {
	var mod float64
	switch relationship {
	case "ally":
		mod = allyRelationship
	case "enemy":
		mod = enemyRelationship
	default:
		return 0
	}
	return int(math.Round(float64(delta) * mod * spilloverFactor))
}

// Rank returns the highest named rank whose threshold the score meets, or
// "Unknown" when the faction has no ranks or the score is below them all.
func Rank(faction content.Faction, score int) string {
	name := "Unknown"
	for _, r := range faction.Ranks {
		if score >= r.Threshold {
			name = r.Name
		}
	}
	return name
}

// BenefitScale maps a reputation score to the multiplier applied to numeric
// faction benefits. Non-positive standing earns nothing; the scale caps at
// double value.
func BenefitScale(score int) float64 {
	if score <= 0 {
		return 0
	}
	scale := float64(score) / 500
	if scale > 2.0 {
		return 2.0
	}
	return scale
}

// BenefitValue resolves a single benefit at the given score. Boolean benefits
// are all-or-nothing and switch on at any positive scale.
func BenefitValue(b content.FactionBenefit, score int) float64 {
	scale := BenefitScale(score)
	if scale == 0 {
		return 0
	}
	if b.Boolean {
		return b.Value
	}
	return b.Value * scale
}

// CombinedBenefits sums benefits across every faction the character holds
// positive standing with. Numeric benefits of the same name accumulate;
// boolean ones pass through unscaled.
func CombinedBenefits(scores map[string]int, tables *content.Tables) map[string]float64 {
	out := make(map[string]float64)
	for name, score := range scores {
		if score <= 0 {
			continue
		}
		faction, ok := tables.Faction(name)
		if !ok {
			continue
		}
		for _, b := range faction.Benefits {
			if b.Boolean {
				out[b.Name] = b.Value
			} else {
				out[b.Name] += BenefitValue(b, score)
			}
		}
	}
	return out
}
