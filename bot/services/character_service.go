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

// defaultStat is the value every attribute starts at before origin and dream
// bonuses.
const defaultStat = 10

// CharacterService owns character lifecycle and progression.
type CharacterService struct {
	characters repositories.CharacterRepository
	quests     repositories.QuestRepository
	allies     repositories.AllyRepository
	reputation repositories.ReputationRepository
	tables     *content.Tables
	locks      *Locks
}

func NewCharacterService(
	characters repositories.CharacterRepository,
	quests repositories.QuestRepository,
	allies repositories.AllyRepository,
	reputation repositories.ReputationRepository,
	tables *content.Tables,
	locks *Locks,
) *CharacterService {
	return &CharacterService{
		characters: characters,
		quests:     quests,
		allies:     allies,
		reputation: reputation,
		tables:     tables,
		locks:      locks,
	}
}

// Create rolls a fresh character. Stats start at the default and pick up the
// origin and dream bonuses; the faction comes from the origin.
func (s *CharacterService) Create(ctx context.Context, userID, name, raceName, originName, dreamName string) (*models.Character, error) {
	race, ok := s.tables.Race(raceName)
	if !ok {
		return nil, fmt.Errorf("unknown race %q", raceName)
	}
	origin, ok := s.tables.Origin(originName)
	if !ok {
		return nil, fmt.Errorf("unknown origin %q", originName)
	}
	dream, ok := s.tables.Dream(dreamName)
	if !ok {
		return nil, fmt.Errorf("unknown dream %q", dreamName)
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	ch := &models.Character{
		UserID:  userID,
		Name:    name,
		Race:    race.Name,
		Origin:  origin.Name,
		Dream:   dream.Name,
		Faction: origin.StartingFaction,
		Level:   1,
		BaseStats: content.StatBlock{
			Strength: defaultStat, Agility: defaultStat,
			Durability: defaultStat, Intelligence: defaultStat,
		}.Add(origin.StartingStats).Add(dream.StartingStats),
		Inventory: make(map[string]int64),
	}
	for _, item := range origin.StartingItems {
		ch.AddItem(item, 1)
	}
	for _, item := range dream.StartingItems {
		ch.AddItem(item, 1)
	}

	if err := s.characters.Create(ctx, ch); err != nil {
		return nil, err
	}
	slog.Info("Character created",
		slog.String("user_id", userID),
		slog.String("name", name),
		slog.String("race", race.Name),
		slog.String("origin", origin.Name))
	return ch, nil
}

// Active returns the character a user's commands act on.
func (s *CharacterService) Active(ctx context.Context, userID string) (*models.Character, error) {
	return s.characters.GetActive(ctx, userID)
}

// List returns every character the user owns.
func (s *CharacterService) List(ctx context.Context, userID string) ([]*models.Character, error) {
	return s.characters.GetByUser(ctx, userID)
}

// Delete removes a character and every row hanging off it.
func (s *CharacterService) Delete(ctx context.Context, ch *models.Character) error {
	unlock := s.locks.Lock(characterLockKey(ch.ID))
	defer unlock()

	if err := s.quests.DeleteByCharacter(ctx, ch.ID); err != nil && !repositories.IsNotFound(err) {
		return err
	}
	if err := s.allies.DeleteByCharacter(ctx, ch.ID); err != nil && !repositories.IsNotFound(err) {
		return err
	}
	if err := s.reputation.DeleteByCharacter(ctx, ch.ID); err != nil && !repositories.IsNotFound(err) {
		return err
	}
	return s.characters.Delete(ctx, ch.ID)
}

// GrantXP applies experience with the race multiplier and persists the
// character. Emits one event per level gained.
func (s *CharacterService) GrantXP(ctx context.Context, ch *models.Character, amount int64) ([]engine.Event, error) {
	unlock := s.locks.Lock(characterLockKey(ch.ID))
	defer unlock()

	fresh, err := s.characters.GetByID(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	race, _ := s.tables.Race(fresh.Race)
	levels := fresh.GrantXP(amount, race)
	if err := s.characters.Update(ctx, fresh); err != nil {
		return nil, err
	}
	*ch = *fresh

	var events []engine.Event
	for i := levels; i > 0; i-- {
		events = append(events, engine.Event{
			Kind:    engine.EventLevelUp,
			Subject: ch.Name,
			Value:   int64(ch.Level - i + 1),
		})
	}
	return events, nil
}

// EffectiveStats resolves the character's stats with the racial bonus.
func (s *CharacterService) EffectiveStats(ch *models.Character) content.StatBlock {
	race, _ := s.tables.Race(ch.Race)
	return ch.EffectiveStats(race)
}
