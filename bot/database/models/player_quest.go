package models

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/grandline-rpg/grandline/bot/content"
)

// Quest progress states.
const (
	QuestStatusActive    = "active"
	QuestStatusCompleted = "completed"
	QuestStatusAbandoned = "abandoned"
	QuestStatusFailed    = "failed"
)

// PlayerQuest tracks one character's progress through one quest. Completed
// rows stay around as history; the character's CompletedQuests list is the
// authoritative completion log used by requirement checks.
type PlayerQuest struct {
	bun.BaseModel `bun:"table:player_quests"`

	ID          int64             `bun:"id,pk,autoincrement"`
	CharacterID int64             `bun:"character_id,notnull"`
	QuestID     string            `bun:"quest_id,notnull"`
	Status      string            `bun:"status,notnull,default:'active'"`
	Progress    map[string]int    `bun:"progress,type:jsonb"`
	ChoicesMade map[string]string `bun:"choices_made,type:jsonb"`
	StartedAt   time.Time         `bun:"started_at,notnull,default:current_timestamp"`
	CompletedAt *time.Time        `bun:"completed_at"`
}

// NewPlayerQuest starts a quest with every objective at zero progress.
func NewPlayerQuest(characterID int64, quest content.Quest, at time.Time) *PlayerQuest {
	progress := make(map[string]int, len(quest.Objectives))
	for _, obj := range quest.Objectives {
		progress[obj.ID] = 0
	}
	return &PlayerQuest{
		CharacterID: characterID,
		QuestID:     quest.ID,
		Status:      QuestStatusActive,
		Progress:    progress,
		ChoicesMade: make(map[string]string),
		StartedAt:   at,
	}
}

// Advance adds progress toward one objective, clamped to its requirement.
// Returns the objective's new count.
func (q *PlayerQuest) Advance(obj content.QuestObjective, amount int) int {
	if q.Progress == nil {
		q.Progress = make(map[string]int)
	}
	n := q.Progress[obj.ID] + amount
	if n > obj.Required {
		n = obj.Required
	}
	if n < 0 {
		n = 0
	}
	q.Progress[obj.ID] = n
	return n
}

// ObjectivesComplete reports whether every objective has met its requirement.
func (q *PlayerQuest) ObjectivesComplete(quest content.Quest) bool {
	for _, obj := range quest.Objectives {
		if q.Progress[obj.ID] < obj.Required {
			return false
		}
	}
	return true
}

// ProgressPercent returns overall completion as a percentage of all required
// objective counts.
func (q *PlayerQuest) ProgressPercent(quest content.Quest) float64 {
	var done, required int
	for _, obj := range quest.Objectives {
		n := q.Progress[obj.ID]
		if n > obj.Required {
			n = obj.Required
		}
		done += n
		required += obj.Required
	}
	if required == 0 {
		return 0
	}
	return float64(done) / float64(required) * 100
}

// RecordChoice stores a decision at a named decision point. The first choice
// sticks.
func (q *PlayerQuest) RecordChoice(point, option string) bool {
	if q.ChoicesMade == nil {
		q.ChoicesMade = make(map[string]string)
	}
	if _, made := q.ChoicesMade[point]; made {
		return false
	}
	q.ChoicesMade[point] = option
	return true
}

// Complete marks the quest finished at the given time.
func (q *PlayerQuest) Complete(at time.Time) {
	q.Status = QuestStatusCompleted
	q.CompletedAt = &at
}
