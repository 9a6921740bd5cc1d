package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
	"github.com/grandline-rpg/grandline/bot/database/repositories"
	"github.com/grandline-rpg/grandline/bot/engine"
)

var (
	ErrQuestUnavailable = errors.New("quest requirements not met")
	ErrChoiceMade       = errors.New("that decision was already made")
	ErrBadChoice        = errors.New("not an option at that decision point")
)

// QuestService owns quest progress: starting, advancing objectives, choices,
// and paying out rewards on completion.
type QuestService struct {
	quests     repositories.QuestRepository
	characters repositories.CharacterRepository
	crews      repositories.CrewRepository
	ships      repositories.ShipRepository
	reputation *ReputationService
	tables     *content.Tables
	locks      *Locks
}

func NewQuestService(
	quests repositories.QuestRepository,
	characters repositories.CharacterRepository,
	crews repositories.CrewRepository,
	ships repositories.ShipRepository,
	reputation *ReputationService,
	tables *content.Tables,
	locks *Locks,
) *QuestService {
	return &QuestService{
		quests:     quests,
		characters: characters,
		crews:      crews,
		ships:      ships,
		reputation: reputation,
		tables:     tables,
		locks:      locks,
	}
}

// Available returns every quest the character could start right now.
func (s *QuestService) Available(ctx context.Context, ch *models.Character) ([]content.Quest, error) {
	active, err := s.quests.ListActive(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	activeIDs := make(map[string]bool, len(active))
	for _, pq := range active {
		activeIDs[pq.QuestID] = true
	}

	var out []content.Quest
	for _, q := range s.tables.Quests() {
		if activeIDs[q.ID] {
			continue
		}
		if engine.QuestAvailable(q, ch) {
			out = append(out, q)
		}
	}
	return out, nil
}

// Start begins a quest for the character with every objective at zero.
func (s *QuestService) Start(ctx context.Context, ch *models.Character, questID string) (*models.PlayerQuest, error) {
	quest, ok := s.tables.Quest(questID)
	if !ok {
		return nil, fmt.Errorf("unknown quest %q", questID)
	}
	if missing := engine.QuestMissing(quest, ch); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrQuestUnavailable, missing)
	}

	unlock := s.locks.Lock(characterLockKey(ch.ID))
	defer unlock()

	pq := models.NewPlayerQuest(ch.ID, quest, time.Now())
	if err := s.quests.Start(ctx, pq); err != nil {
		return nil, err
	}
	slog.Info("Quest started",
		slog.Int64("character_id", ch.ID),
		slog.String("quest_id", questID))
	return pq, nil
}

// Active returns the character's in-progress quests paired with their
// definitions. Rows pointing at content that no longer exists are skipped.
func (s *QuestService) Active(ctx context.Context, characterID int64) ([]*models.PlayerQuest, []content.Quest, error) {
	rows, err := s.quests.ListActive(ctx, characterID)
	if err != nil {
		return nil, nil, err
	}
	var (
		kept   []*models.PlayerQuest
		quests []content.Quest
	)
	for _, pq := range rows {
		if q, ok := s.tables.Quest(pq.QuestID); ok {
			kept = append(kept, pq)
			quests = append(quests, q)
		}
	}
	return kept, quests, nil
}

// Advance adds progress toward one objective. When every objective is met the
// quest completes and rewards pay out.
func (s *QuestService) Advance(ctx context.Context, ch *models.Character, questID, objectiveID string, amount int) ([]engine.Event, error) {
	quest, ok := s.tables.Quest(questID)
	if !ok {
		return nil, fmt.Errorf("unknown quest %q", questID)
	}
	var objective content.QuestObjective
	found := false
	for _, obj := range quest.Objectives {
		if obj.ID == objectiveID {
			objective = obj
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("quest %q has no objective %q", questID, objectiveID)
	}

	unlock := s.locks.Lock(characterLockKey(ch.ID))
	defer unlock()

	pq, err := s.quests.GetActive(ctx, ch.ID, questID)
	if err != nil {
		return nil, err
	}
	pq.Advance(objective, amount)

	if !pq.ObjectivesComplete(quest) {
		if err := s.quests.Update(ctx, pq); err != nil {
			return nil, err
		}
		return nil, nil
	}

	// Rewards land on a fresh row read under the lock; the caller's snapshot
	// may predate a concurrent spend.
	fresh, err := s.characters.GetByID(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	events, err := s.complete(ctx, fresh, quest, pq)
	if err != nil {
		return nil, err
	}
	*ch = *fresh
	return events, nil
}

// Choose records a decision at one of the quest's decision points.
func (s *QuestService) Choose(ctx context.Context, ch *models.Character, questID, point, option string) error {
	quest, ok := s.tables.Quest(questID)
	if !ok {
		return fmt.Errorf("unknown quest %q", questID)
	}
	options, ok := quest.Choices[point]
	if !ok {
		return fmt.Errorf("quest %q has no decision point %q", questID, point)
	}
	valid := false
	for _, o := range options {
		if o == option {
			valid = true
			break
		}
	}
	if !valid {
		return ErrBadChoice
	}

	unlock := s.locks.Lock(characterLockKey(ch.ID))
	defer unlock()

	pq, err := s.quests.GetActive(ctx, ch.ID, questID)
	if err != nil {
		return err
	}
	if !pq.RecordChoice(point, option) {
		return ErrChoiceMade
	}
	return s.quests.Update(ctx, pq)
}

// Abandon drops an active quest. Progress is lost; the quest can be started
// again later.
func (s *QuestService) Abandon(ctx context.Context, ch *models.Character, questID string) error {
	unlock := s.locks.Lock(characterLockKey(ch.ID))
	defer unlock()

	pq, err := s.quests.GetActive(ctx, ch.ID, questID)
	if err != nil {
		return err
	}
	pq.Status = models.QuestStatusAbandoned
	return s.quests.Update(ctx, pq)
}

func (s *QuestService) complete(ctx context.Context, ch *models.Character, quest content.Quest, pq *models.PlayerQuest) ([]engine.Event, error) {
	pq.Complete(time.Now())
	if err := s.quests.Update(ctx, pq); err != nil {
		return nil, err
	}

	events := []engine.Event{{
		Kind:    engine.EventQuestCompleted,
		Subject: quest.Name,
	}}

	ch.CompleteQuest(quest.ID)
	race, _ := s.tables.Race(ch.Race)
	levels := ch.GrantXP(quest.Rewards.XP, race)
	for i := levels; i > 0; i-- {
		events = append(events, engine.Event{
			Kind:    engine.EventLevelUp,
			Subject: ch.Name,
			Value:   int64(ch.Level - i + 1),
		})
	}
	if quest.Rewards.Berry > 0 {
		ch.AddItem(models.BerryItem, quest.Rewards.Berry)
	}
	ch.AddBounty(quest.Rewards.Bounty)
	for item, count := range quest.Rewards.Items {
		ch.AddItem(item, int64(count))
		events = append(events, engine.Event{
			Kind:    engine.EventItemGained,
			Subject: item,
			Value:   int64(count),
		})
	}
	if err := s.characters.Update(ctx, ch); err != nil {
		return nil, err
	}

	for faction, delta := range quest.Rewards.Reputation {
		repEvents, err := s.reputation.Adjust(ctx, ch.ID, faction, delta)
		if err != nil {
			return nil, err
		}
		events = append(events, repEvents...)
	}

	// Reputation milestones double as character achievements.
	earned := false
	for _, ev := range events {
		if ev.Kind == engine.EventMilestoneReached && !ch.HasAchievement(ev.Detail) {
			ch.AddAchievement(ev.Detail)
			earned = true
		}
	}
	if earned {
		if err := s.characters.Update(ctx, ch); err != nil {
			return nil, err
		}
	}

	if quest.Rewards.Bounty > 0 && ch.CrewID != "" {
		unlockCrew := s.locks.Lock(crewLockKey(ch.CrewID))
		defer unlockCrew()
		if crew, err := s.crews.GetByID(ctx, ch.CrewID); err == nil {
			crew.RecordBounty(quest.Rewards.Bounty)
			if err := s.crews.Update(ctx, crew); err != nil {
				return nil, err
			}
		}
	}

	if quest.Rewards.Ship != "" {
		shipEvents, err := s.awardShip(ctx, ch, quest.Rewards.Ship)
		if err != nil {
			return nil, err
		}
		events = append(events, shipEvents...)
	}

	slog.Info("Quest completed",
		slog.Int64("character_id", ch.ID),
		slog.String("quest_id", quest.ID))
	return events, nil
}

// awardShip replaces the crew's ship with the rewarded hull. A character
// without a crew forfeits the ship; the rest of the rewards stand.
func (s *QuestService) awardShip(ctx context.Context, ch *models.Character, hullName string) ([]engine.Event, error) {
	hull, ok := s.tables.ShipType(hullName)
	if !ok {
		return nil, fmt.Errorf("reward ship has unknown hull %q", hullName)
	}
	if ch.CrewID == "" {
		return []engine.Event{{
			Kind:    engine.EventShipAwarded,
			Subject: hull.Name,
			Detail:  "forfeited without a crew",
		}}, nil
	}

	crew, err := s.crews.GetByID(ctx, ch.CrewID)
	if err != nil {
		return nil, err
	}
	if crew.ShipID != "" {
		if err := s.ships.Delete(ctx, crew.ShipID); err != nil && !repositories.IsNotFound(err) {
			return nil, err
		}
	}
	ship := models.NewShip(uuid.NewString(), crew.ID, crew.Name+"'s "+hull.Name, hull)
	if err := s.ships.Create(ctx, ship); err != nil {
		return nil, err
	}
	crew.ShipID = ship.ID
	if err := s.crews.Update(ctx, crew); err != nil {
		return nil, err
	}
	return []engine.Event{{
		Kind:    engine.EventShipAwarded,
		Subject: hull.Name,
	}}, nil
}
