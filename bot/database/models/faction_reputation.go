package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Alignment tiers, from best to worst standing.
const (
	AlignmentAlly     = "Ally"
	AlignmentFriendly = "Friendly"
	AlignmentNeutral  = "Neutral"
	AlignmentHostile  = "Hostile"
	AlignmentEnemy    = "Enemy"
)

// FactionReputation is one character's standing with one faction. Milestones
// records which threshold rewards already fired so score oscillation around a
// fence never pays twice.
type FactionReputation struct {
	bun.BaseModel `bun:"table:faction_reputations"`

	ID          int64     `bun:"id,pk,autoincrement"`
	CharacterID int64     `bun:"character_id,notnull"`
	Faction     string    `bun:"faction,notnull"`
	Score       int       `bun:"score,notnull,default:0"`
	Rank        string    `bun:"rank,notnull,default:'Unknown'"`
	Milestones  []string  `bun:"milestones,type:jsonb"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Alignment maps the score to its coarse tier. The fences are shared by every
// faction; named ranks are faction-specific and layered on top.
func (r *FactionReputation) Alignment() string {
	switch {
	case r.Score >= 500:
		return AlignmentAlly
	case r.Score >= 200:
		return AlignmentFriendly
	case r.Score >= -200:
		return AlignmentNeutral
	case r.Score >= -500:
		return AlignmentHostile
	default:
		return AlignmentEnemy
	}
}

// HasMilestone reports whether the milestone id already fired.
func (r *FactionReputation) HasMilestone(id string) bool {
	for _, m := range r.Milestones {
		if m == id {
			return true
		}
	}
	return false
}

// RecordMilestone marks a milestone as fired, once.
func (r *FactionReputation) RecordMilestone(id string) {
	if !r.HasMilestone(id) {
		r.Milestones = append(r.Milestones, id)
	}
}
