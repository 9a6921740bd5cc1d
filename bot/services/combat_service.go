package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
	"github.com/grandline-rpg/grandline/bot/database/repositories"
	"github.com/grandline-rpg/grandline/bot/engine"
	"github.com/grandline-rpg/grandline/bot/engine/combat"
)

// Companion ally progression per PvE victory.
const (
	allyXPPerVictory   = 25
	allyBondPerVictory = 5
)

// CombatService glues the in-memory battle manager to persistence: battles
// run in memory, payouts and penalties land on the character row when a fight
// resolves.
type CombatService struct {
	manager    *combat.Manager
	characters repositories.CharacterRepository
	crews      repositories.CrewRepository
	allies     *AllyService
	tables     *content.Tables
	locks      *Locks
}

func NewCombatService(
	manager *combat.Manager,
	characters repositories.CharacterRepository,
	crews repositories.CrewRepository,
	allies *AllyService,
	tables *content.Tables,
	locks *Locks,
) *CombatService {
	return &CombatService{
		manager:    manager,
		characters: characters,
		crews:      crews,
		allies:     allies,
		tables:     tables,
		locks:      locks,
	}
}

// Explore opens a battle against a random enemy from the location pool.
func (s *CombatService) Explore(ctx context.Context, userID string, ch *models.Character, location string) (*combat.Battle, error) {
	race, ok := s.tables.Race(ch.Race)
	if !ok {
		return nil, fmt.Errorf("character has unknown race %q", ch.Race)
	}
	return s.manager.StartBattle(userID, ch, race, location)
}

// Battle returns the user's active battle.
func (s *CombatService) Battle(userID string) (*combat.Battle, error) {
	return s.manager.Battle(userID)
}

// Cooldown returns how long until the user can fight again.
func (s *CombatService) Cooldown(userID string) (remaining int64) {
	return int64(s.manager.Remaining(userID).Seconds())
}

// Act resolves one turn of the user's battle. Terminal outcomes are persisted
// before returning.
func (s *CombatService) Act(ctx context.Context, userID string, action combat.Action) (*combat.Battle, combat.Outcome, []engine.Event, error) {
	battle, outcome, err := s.manager.Turn(userID, action)
	if err != nil {
		return nil, combat.OutcomeOngoing, nil, err
	}

	var events []engine.Event
	switch outcome {
	case combat.OutcomeVictory:
		events, err = s.settleVictory(ctx, battle)
	case combat.OutcomeDefeat:
		events, err = s.settleDefeat(ctx, battle)
	}
	if err != nil {
		return nil, outcome, nil, err
	}
	return battle, outcome, events, nil
}

func (s *CombatService) settleVictory(ctx context.Context, battle *combat.Battle) ([]engine.Event, error) {
	unlock := s.locks.Lock(characterLockKey(battle.CharacterID))
	defer unlock()

	ch, err := s.characters.GetByID(ctx, battle.CharacterID)
	if err != nil {
		return nil, err
	}

	race, _ := s.tables.Race(ch.Race)
	levels := ch.GrantXP(battle.Enemy.XPReward, race)
	ch.AddItem(models.BerryItem, battle.Enemy.BerryReward)

	var events []engine.Event
	for i := levels; i > 0; i-- {
		events = append(events, engine.Event{
			Kind:    engine.EventLevelUp,
			Subject: ch.Name,
			Value:   int64(ch.Level - i + 1),
		})
	}
	for _, drop := range battle.Enemy.Drops {
		ch.AddItem(drop, 1)
		events = append(events, engine.Event{
			Kind:    engine.EventItemGained,
			Subject: drop,
			Value:   1,
		})
	}
	if err := s.characters.Update(ctx, ch); err != nil {
		return nil, err
	}

	allyEvents, err := s.progressAllies(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	events = append(events, allyEvents...)

	slog.Info("Battle won",
		slog.Int64("character_id", ch.ID),
		slog.String("enemy", battle.Enemy.Name),
		slog.Int64("xp", battle.Enemy.XPReward),
		slog.Int64("berries", battle.Enemy.BerryReward))
	return events, nil
}

func (s *CombatService) settleDefeat(ctx context.Context, battle *combat.Battle) ([]engine.Event, error) {
	unlock := s.locks.Lock(characterLockKey(battle.CharacterID))
	defer unlock()

	ch, err := s.characters.GetByID(ctx, battle.CharacterID)
	if err != nil {
		return nil, err
	}
	loss := combat.DefeatBerryLoss(ch.Berries())
	if loss > 0 {
		ch.AddItem(models.BerryItem, -loss)
	}
	if err := s.characters.Update(ctx, ch); err != nil {
		return nil, err
	}
	slog.Info("Battle lost",
		slog.Int64("character_id", ch.ID),
		slog.String("enemy", battle.Enemy.Name),
		slog.Int64("berries_lost", loss))
	if loss == 0 {
		return nil, nil
	}
	return []engine.Event{{
		Kind:    engine.EventItemGained,
		Subject: models.BerryItem,
		Value:   -loss,
	}}, nil
}

// progressAllies shares a PvE victory with every recruited ally.
func (s *CombatService) progressAllies(ctx context.Context, characterID int64) ([]engine.Event, error) {
	rows, _, err := s.allies.Roster(ctx, characterID)
	if err != nil {
		return nil, err
	}
	var events []engine.Event
	for _, pa := range rows {
		xpEvents, err := s.allies.GrantXP(ctx, pa, allyXPPerVictory)
		if err != nil {
			return nil, err
		}
		bondEvents, err := s.allies.GrantBond(ctx, pa, allyBondPerVictory)
		if err != nil {
			return nil, err
		}
		events = append(events, xpEvents...)
		events = append(events, bondEvents...)
	}
	return events, nil
}

// Duel settles PvP between two characters and persists both sides. The
// winner's crew records the bounty gain.
func (s *CombatService) Duel(ctx context.Context, challengerUserID, challengedUserID string, challenger, challenged *models.Character) (combat.PvPResult, error) {
	challengerRace, ok := s.tables.Race(challenger.Race)
	if !ok {
		return combat.PvPResult{}, fmt.Errorf("character has unknown race %q", challenger.Race)
	}
	challengedRace, ok := s.tables.Race(challenged.Race)
	if !ok {
		return combat.PvPResult{}, fmt.Errorf("character has unknown race %q", challenged.Race)
	}

	// Both purses move; take both locks in ascending id order so two
	// crossing duels cannot deadlock.
	first, second := challenger, challenged
	if second.ID < first.ID {
		first, second = second, first
	}
	unlockFirst := s.locks.Lock(characterLockKey(first.ID))
	defer unlockFirst()
	unlockSecond := s.locks.Lock(characterLockKey(second.ID))
	defer unlockSecond()

	freshChallenger, err := s.characters.GetByID(ctx, challenger.ID)
	if err != nil {
		return combat.PvPResult{}, err
	}
	freshChallenged, err := s.characters.GetByID(ctx, challenged.ID)
	if err != nil {
		return combat.PvPResult{}, err
	}

	res, err := s.manager.ResolveDuel(challengerUserID, challengedUserID, freshChallenger, freshChallenged, challengerRace, challengedRace)
	if err != nil {
		return combat.PvPResult{}, err
	}

	if err := s.characters.Update(ctx, res.Winner); err != nil {
		return res, err
	}
	if err := s.characters.Update(ctx, res.Loser); err != nil {
		return res, err
	}
	if res.Winner.CrewID != "" {
		unlockCrew := s.locks.Lock(crewLockKey(res.Winner.CrewID))
		defer unlockCrew()
		if crew, err := s.crews.GetByID(ctx, res.Winner.CrewID); err == nil {
			crew.RecordBounty(combat.PvPWinnerBounty)
			if err := s.crews.Update(ctx, crew); err != nil {
				return res, err
			}
		}
	}
	*challenger = *freshChallenger
	*challenged = *freshChallenged

	slog.Info("Duel resolved",
		slog.String("winner", res.Winner.Name),
		slog.String("loser", res.Loser.Name),
		slog.Int64("berries_transferred", res.BerryTransfer))
	return res, nil
}

// Locations lists the explorable seas.
func (s *CombatService) Locations() []string {
	return combat.Locations()
}
