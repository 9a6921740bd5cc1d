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

// StarterHull is the hull class every new crew launches with.
const StarterHull = "Dinghy"

var (
	ErrAlreadyInCrew  = errors.New("character already belongs to a crew")
	ErrNotInCrew      = errors.New("character does not belong to this crew")
	ErrCrewFull       = errors.New("crew is at capacity")
	ErrNotCaptain     = errors.New("only the captain can do that")
	ErrCaptainLeaving = errors.New("the captain cannot leave; disband instead")
)

// CrewService owns crew lifecycle, the roster, and the treasury.
type CrewService struct {
	crews      repositories.CrewRepository
	ships      repositories.ShipRepository
	characters repositories.CharacterRepository
	tables     *content.Tables
	locks      *Locks
}

func NewCrewService(
	crews repositories.CrewRepository,
	ships repositories.ShipRepository,
	characters repositories.CharacterRepository,
	tables *content.Tables,
	locks *Locks,
) *CrewService {
	return &CrewService{crews: crews, ships: ships, characters: characters, tables: tables, locks: locks}
}

// Create founds a crew with the character as Captain and launches its starter
// ship.
func (s *CrewService) Create(ctx context.Context, captain *models.Character, name, description, motto, shipName string) (*models.Crew, *models.Ship, error) {
	hull, ok := s.tables.ShipType(StarterHull)
	if !ok {
		return nil, nil, fmt.Errorf("starter hull %q missing from content", StarterHull)
	}

	unlock := s.locks.Lock(characterLockKey(captain.ID))
	defer unlock()
	unlockName := s.locks.Lock(crewLockKey(name))
	defer unlockName()

	fresh, err := s.characters.GetByID(ctx, captain.ID)
	if err != nil {
		return nil, nil, err
	}
	if fresh.CrewID != "" {
		return nil, nil, ErrAlreadyInCrew
	}

	crew := &models.Crew{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Motto:       motto,
		Faction:     fresh.Faction,
		CaptainID:   fresh.ID,
		Level:       1,
	}
	crew.AddMember(models.CrewMember{
		CharacterID:   fresh.ID,
		UserID:        fresh.UserID,
		CharacterName: fresh.Name,
		Role:          models.RoleCaptain,
		JoinedAt:      time.Now(),
	})
	if err := s.crews.Create(ctx, crew); err != nil {
		return nil, nil, err
	}

	if shipName == "" {
		shipName = name + "'s " + StarterHull
	}
	ship := models.NewShip(uuid.NewString(), crew.ID, shipName, hull)
	if err := s.ships.Create(ctx, ship); err != nil {
		return nil, nil, err
	}
	crew.ShipID = ship.ID
	if err := s.crews.Update(ctx, crew); err != nil {
		return nil, nil, err
	}

	fresh.CrewID = crew.ID
	if err := s.characters.Update(ctx, fresh); err != nil {
		return nil, nil, err
	}
	*captain = *fresh

	slog.Info("Crew founded",
		slog.String("crew", name),
		slog.Int64("captain_id", fresh.ID))
	return crew, ship, nil
}

// Join adds a character to the crew in the given role.
func (s *CrewService) Join(ctx context.Context, crew *models.Crew, ch *models.Character, role string) error {
	unlock := s.locks.Lock(characterLockKey(ch.ID))
	defer unlock()
	unlockCrew := s.locks.Lock(crewLockKey(crew.ID))
	defer unlockCrew()

	fresh, err := s.characters.GetByID(ctx, ch.ID)
	if err != nil {
		return err
	}
	if fresh.CrewID != "" {
		return ErrAlreadyInCrew
	}
	row, err := s.crews.GetByID(ctx, crew.ID)
	if err != nil {
		return err
	}

	ok := row.AddMember(models.CrewMember{
		CharacterID:   fresh.ID,
		UserID:        fresh.UserID,
		CharacterName: fresh.Name,
		Role:          role,
		JoinedAt:      time.Now(),
	})
	if !ok {
		return ErrCrewFull
	}
	if err := s.crews.Update(ctx, row); err != nil {
		return err
	}
	fresh.CrewID = row.ID
	if err := s.characters.Update(ctx, fresh); err != nil {
		return err
	}
	*crew = *row
	*ch = *fresh
	return nil
}

// Leave removes a character from the crew. A solo captain leaving disbands
// the crew; a captain with members aboard must disband instead.
func (s *CrewService) Leave(ctx context.Context, crew *models.Crew, ch *models.Character) error {
	if ch.CrewID != crew.ID {
		return ErrNotInCrew
	}
	if ch.ID == crew.CaptainID {
		if len(crew.Members) > 1 {
			return ErrCaptainLeaving
		}
		return s.Disband(ctx, crew, ch)
	}

	unlock := s.locks.Lock(characterLockKey(ch.ID))
	defer unlock()
	unlockCrew := s.locks.Lock(crewLockKey(crew.ID))
	defer unlockCrew()

	fresh, err := s.characters.GetByID(ctx, ch.ID)
	if err != nil {
		return err
	}
	if fresh.CrewID != crew.ID {
		return ErrNotInCrew
	}
	row, err := s.crews.GetByID(ctx, crew.ID)
	if err != nil {
		return err
	}

	if !row.RemoveMember(fresh.ID) {
		return ErrNotInCrew
	}
	if err := s.crews.Update(ctx, row); err != nil {
		return err
	}
	fresh.CrewID = ""
	if err := s.characters.Update(ctx, fresh); err != nil {
		return err
	}
	*crew = *row
	*ch = *fresh
	return nil
}

// Disband dissolves the crew, scuttles its ship, and frees every member.
func (s *CrewService) Disband(ctx context.Context, crew *models.Crew, captain *models.Character) error {
	if captain.ID != crew.CaptainID {
		return ErrNotCaptain
	}

	unlock := s.locks.Lock(crewLockKey(crew.ID))
	defer unlock()

	members, err := s.characters.GetByCrew(ctx, crew.ID)
	if err != nil {
		return err
	}
	for _, member := range members {
		member.CrewID = ""
		if err := s.characters.Update(ctx, member); err != nil {
			return err
		}
	}
	if crew.ShipID != "" {
		if err := s.ships.Delete(ctx, crew.ShipID); err != nil && !repositories.IsNotFound(err) {
			return err
		}
	}
	captain.CrewID = ""
	return s.crews.Delete(ctx, crew.ID)
}

// ChangeRole reassigns a member's role. Only the captain may, and the Captain
// role itself never moves.
func (s *CrewService) ChangeRole(ctx context.Context, crew *models.Crew, actor *models.Character, memberID int64, role string) error {
	if actor.ID != crew.CaptainID {
		return ErrNotCaptain
	}

	unlock := s.locks.Lock(crewLockKey(crew.ID))
	defer unlock()

	row, err := s.crews.GetByID(ctx, crew.ID)
	if err != nil {
		return err
	}
	if !row.ChangeRole(memberID, role) {
		return ErrNotInCrew
	}
	if err := s.crews.Update(ctx, row); err != nil {
		return err
	}
	*crew = *row
	return nil
}

// Deposit moves berries from a member's purse into the crew treasury and
// credits their contribution.
func (s *CrewService) Deposit(ctx context.Context, crew *models.Crew, ch *models.Character, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit must be positive, got %d", amount)
	}
	if ch.CrewID != crew.ID {
		return ErrNotInCrew
	}

	unlock := s.locks.Lock(characterLockKey(ch.ID))
	defer unlock()
	unlockCrew := s.locks.Lock(crewLockKey(crew.ID))
	defer unlockCrew()

	fresh, err := s.characters.GetByID(ctx, ch.ID)
	if err != nil {
		return err
	}
	if !fresh.SpendBerries(amount) {
		return fmt.Errorf("not enough berries: need %d, have %d", amount, fresh.Berries())
	}
	row, err := s.crews.GetByID(ctx, crew.ID)
	if err != nil {
		return err
	}

	row.Treasury += amount
	row.AddContribution(fresh.ID, amount)
	if err := s.crews.Update(ctx, row); err != nil {
		return err
	}
	if err := s.characters.Update(ctx, fresh); err != nil {
		return err
	}
	*crew = *row
	*ch = *fresh
	return nil
}

// Withdraw moves berries from the treasury to the captain's purse.
func (s *CrewService) Withdraw(ctx context.Context, crew *models.Crew, captain *models.Character, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("withdrawal must be positive, got %d", amount)
	}
	if captain.ID != crew.CaptainID {
		return ErrNotCaptain
	}

	unlock := s.locks.Lock(characterLockKey(captain.ID))
	defer unlock()
	unlockCrew := s.locks.Lock(crewLockKey(crew.ID))
	defer unlockCrew()

	fresh, err := s.characters.GetByID(ctx, captain.ID)
	if err != nil {
		return err
	}
	row, err := s.crews.GetByID(ctx, crew.ID)
	if err != nil {
		return err
	}

	if row.Treasury < amount {
		return fmt.Errorf("treasury holds %d, asked for %d", row.Treasury, amount)
	}
	row.Treasury -= amount
	fresh.AddItem(models.BerryItem, amount)
	if err := s.crews.Update(ctx, row); err != nil {
		return err
	}
	if err := s.characters.Update(ctx, fresh); err != nil {
		return err
	}
	*crew = *row
	*captain = *fresh
	return nil
}

// GrantXP applies crew experience and persists. Emits one event per level.
func (s *CrewService) GrantXP(ctx context.Context, crew *models.Crew, amount int64) ([]engine.Event, error) {
	unlock := s.locks.Lock(crewLockKey(crew.ID))
	defer unlock()

	levels := crew.GrantXP(amount)
	if err := s.crews.Update(ctx, crew); err != nil {
		return nil, err
	}

	var events []engine.Event
	for i := levels; i > 0; i-- {
		events = append(events, engine.Event{
			Kind:    engine.EventCrewLevelUp,
			Subject: crew.Name,
			Value:   int64(crew.Level - i + 1),
		})
	}
	return events, nil
}

// Get returns a crew by id.
func (s *CrewService) Get(ctx context.Context, id string) (*models.Crew, error) {
	return s.crews.GetByID(ctx, id)
}

// GetByName returns a crew by its exact name.
func (s *CrewService) GetByName(ctx context.Context, name string) (*models.Crew, error) {
	return s.crews.GetByName(ctx, name)
}

// Leaderboard returns the top crews by reputation.
func (s *CrewService) Leaderboard(ctx context.Context, limit int) ([]*models.Crew, error) {
	return s.crews.TopByReputation(ctx, limit)
}
