package models

import (
	"testing"
	"time"

	"github.com/grandline-rpg/grandline/bot/content"
)

var defendQuest = content.Quest{
	ID: "defend_village",
	Objectives: []content.QuestObjective{
		{ID: "warn", Description: "Warn the villagers", Required: 1},
		{ID: "fight", Description: "Fight off bandits", Required: 4},
	},
}

func TestNewPlayerQuest(t *testing.T) {
	pq := NewPlayerQuest(7, defendQuest, time.Now())
	if pq.Status != QuestStatusActive {
		t.Errorf("Status = %q, want %q", pq.Status, QuestStatusActive)
	}
	if pq.Progress["warn"] != 0 || pq.Progress["fight"] != 0 {
		t.Errorf("Progress = %v, want all zero", pq.Progress)
	}
}

func TestPlayerQuest_Advance(t *testing.T) {
	pq := NewPlayerQuest(7, defendQuest, time.Now())
	fight := defendQuest.Objectives[1]

	if got := pq.Advance(fight, 3); got != 3 {
		t.Errorf("Advance(3) = %d, want 3", got)
	}
	// Overshoot clamps to the requirement.
	if got := pq.Advance(fight, 10); got != 4 {
		t.Errorf("Advance(10) = %d, want 4", got)
	}
	if got := pq.Advance(fight, -100); got != 0 {
		t.Errorf("negative advance should floor at 0, got %d", got)
	}
}

func TestPlayerQuest_ObjectivesComplete(t *testing.T) {
	pq := NewPlayerQuest(7, defendQuest, time.Now())
	if pq.ObjectivesComplete(defendQuest) {
		t.Error("fresh quest must not be complete")
	}
	pq.Advance(defendQuest.Objectives[0], 1)
	pq.Advance(defendQuest.Objectives[1], 4)
	if !pq.ObjectivesComplete(defendQuest) {
		t.Error("all objectives met, want complete")
	}
}

func TestPlayerQuest_ProgressPercent(t *testing.T) {
	pq := NewPlayerQuest(7, defendQuest, time.Now())
	pq.Advance(defendQuest.Objectives[0], 1)
	// 1 of 5 total required counts.
	if got := pq.ProgressPercent(defendQuest); got != 20 {
		t.Errorf("ProgressPercent() = %v, want 20", got)
	}
	pq.Advance(defendQuest.Objectives[1], 4)
	if got := pq.ProgressPercent(defendQuest); got != 100 {
		t.Errorf("ProgressPercent() = %v, want 100", got)
	}
}

func TestPlayerQuest_RecordChoice(t *testing.T) {
	pq := NewPlayerQuest(7, defendQuest, time.Now())
	if !pq.RecordChoice("approach", "fight") {
		t.Fatal("first choice should succeed")
	}
	if pq.RecordChoice("approach", "negotiate") {
		t.Error("second choice at the same point must fail")
	}
	if pq.ChoicesMade["approach"] != "fight" {
		t.Errorf("choice = %q, want %q", pq.ChoicesMade["approach"], "fight")
	}
}

func TestPlayerQuest_Complete(t *testing.T) {
	pq := NewPlayerQuest(7, defendQuest, time.Now())
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	pq.Complete(at)
	if pq.Status != QuestStatusCompleted {
		t.Errorf("Status = %q, want %q", pq.Status, QuestStatusCompleted)
	}
	if pq.CompletedAt == nil || !pq.CompletedAt.Equal(at) {
		t.Errorf("CompletedAt = %v, want %v", pq.CompletedAt, at)
	}
}
