package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
	"github.com/grandline-rpg/grandline/bot/database/repositories"
	"github.com/grandline-rpg/grandline/bot/engine"
)

// ReputationService applies standing changes, including the spillover a
// change echoes onto allied and opposing factions.
type ReputationService struct {
	reputation repositories.ReputationRepository
	tables     *content.Tables
	locks      *Locks
}

func NewReputationService(reputation repositories.ReputationRepository, tables *content.Tables, locks *Locks) *ReputationService {
	return &ReputationService{reputation: reputation, tables: tables, locks: locks}
}

// Adjust changes a character's standing with one faction and echoes spillover
// onto related factions. Events report the direct shift first, then alignment
// changes, milestones, and spillover shifts.
func (s *ReputationService) Adjust(ctx context.Context, characterID int64, factionName string, delta int) ([]engine.Event, error) {
	faction, ok := s.tables.Faction(factionName)
	if !ok {
		return nil, fmt.Errorf("unknown faction %q", factionName)
	}

	unlock := s.locks.Lock(fmt.Sprintf("rep:%d", characterID))
	defer unlock()

	events, err := s.apply(ctx, characterID, faction, delta, false)
	if err != nil {
		return nil, err
	}

	for other, relationship := range faction.Relationships {
		echoed := engine.SpilloverDelta(delta, relationship)
		if echoed == 0 {
			continue
		}
		otherFaction, ok := s.tables.Faction(other)
		if !ok {
			continue
		}
		spill, err := s.apply(ctx, characterID, otherFaction, echoed, true)
		if err != nil {
			return nil, err
		}
		events = append(events, spill...)
	}
	return events, nil
}

func (s *ReputationService) apply(ctx context.Context, characterID int64, faction content.Faction, delta int, spillover bool) ([]engine.Event, error) {
	rep, err := s.reputation.GetOrCreate(ctx, characterID, faction.Name)
	if err != nil {
		return nil, err
	}

	ch := engine.ApplyReputation(rep, faction, delta)
	if err := s.reputation.Update(ctx, rep); err != nil {
		return nil, err
	}

	detail := ""
	if spillover {
		detail = "spillover"
	}
	events := []engine.Event{{
		Kind:    engine.EventReputationShift,
		Subject: faction.Name,
		Value:   int64(delta),
		Detail:  detail,
	}}
	if ch.NewAlignment != ch.OldAlignment {
		events = append(events, engine.Event{
			Kind:    engine.EventAlignmentChange,
			Subject: faction.Name,
			Detail:  ch.NewAlignment,
		})
	}
	for _, milestone := range ch.Milestones {
		events = append(events, engine.Event{
			Kind:    engine.EventMilestoneReached,
			Subject: faction.Name,
			Detail:  milestone,
		})
	}

	slog.Debug("Reputation adjusted",
		slog.Int64("character_id", characterID),
		slog.String("faction", faction.Name),
		slog.Int("delta", delta),
		slog.Int("score", rep.Score),
		slog.Bool("spillover", spillover))
	return events, nil
}

// Standing returns the character's row for one faction, creating it at zero
// on first contact.
func (s *ReputationService) Standing(ctx context.Context, characterID int64, faction string) (*models.FactionReputation, error) {
	if _, ok := s.tables.Faction(faction); !ok {
		return nil, fmt.Errorf("unknown faction %q", faction)
	}
	return s.reputation.GetOrCreate(ctx, characterID, faction)
}

// Standings returns every faction row the character has touched.
func (s *ReputationService) Standings(ctx context.Context, characterID int64) ([]*models.FactionReputation, error) {
	return s.reputation.ListByCharacter(ctx, characterID)
}

// Benefits returns the character's combined faction perks across every
// positive standing.
func (s *ReputationService) Benefits(ctx context.Context, characterID int64) (map[string]float64, error) {
	rows, err := s.reputation.ListByCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}
	scores := make(map[string]int, len(rows))
	for _, row := range rows {
		scores[row.Faction] = row.Score
	}
	return engine.CombinedBenefits(scores, s.tables), nil
}

// Score returns the character's score with one faction without creating a
// row, for read-only paths like recruit cost previews.
func (s *ReputationService) Score(ctx context.Context, characterID int64, faction string) (int, error) {
	rows, err := s.reputation.ListByCharacter(ctx, characterID)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		if row.Faction == faction {
			return row.Score, nil
		}
	}
	return 0, nil
}
