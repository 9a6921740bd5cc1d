package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
	"github.com/grandline-rpg/grandline/bot/database/repositories"
	"github.com/grandline-rpg/grandline/bot/engine"
)

var (
	ErrUpgradeInstalled = errors.New("upgrade already installed")
	ErrHoldFull         = errors.New("cargo hold cannot fit that")
	ErrNoSuchCargo      = errors.New("hold does not carry that much")
)

// RequirementError carries the human-readable conditions an operation still
// needs.
type RequirementError struct {
	Missing []string
}

func (e *RequirementError) Error() string {
	return fmt.Sprintf("requirements not met: %v", e.Missing)
}

// ShipService owns crew vessels: purchase, upgrades, repair, and cargo.
type ShipService struct {
	ships  repositories.ShipRepository
	crews  repositories.CrewRepository
	chars  repositories.CharacterRepository
	tables *content.Tables
	locks  *Locks
}

func NewShipService(
	ships repositories.ShipRepository,
	crews repositories.CrewRepository,
	chars repositories.CharacterRepository,
	tables *content.Tables,
	locks *Locks,
) *ShipService {
	return &ShipService{ships: ships, crews: crews, chars: chars, tables: tables, locks: locks}
}

// ForCrew returns the crew's ship.
func (s *ShipService) ForCrew(ctx context.Context, crewID string) (*models.Ship, error) {
	return s.ships.GetByCrew(ctx, crewID)
}

// Buy replaces the crew's ship with a fresh hull of a better class, paid from
// the crew treasury. The old ship's name and upgrades do not carry over.
func (s *ShipService) Buy(ctx context.Context, crew *models.Crew, captain *models.Character, hullName, shipName string) (*models.Ship, error) {
	if captain.ID != crew.CaptainID {
		return nil, ErrNotCaptain
	}
	hull, ok := s.tables.ShipType(hullName)
	if !ok {
		return nil, fmt.Errorf("unknown ship type %q", hullName)
	}

	unlockCrew := s.locks.Lock(crewLockKey(crew.ID))
	defer unlockCrew()
	unlock := s.locks.Lock(shipLockKey(crew.ID))
	defer unlock()

	row, err := s.crews.GetByID(ctx, crew.ID)
	if err != nil {
		return nil, err
	}
	if row.Treasury < hull.Price {
		return nil, fmt.Errorf("treasury holds %d, the %s costs %d", row.Treasury, hull.Name, hull.Price)
	}
	row.Treasury -= hull.Price

	if row.ShipID != "" {
		if err := s.ships.Delete(ctx, row.ShipID); err != nil && !repositories.IsNotFound(err) {
			return nil, err
		}
	}
	if shipName == "" {
		shipName = row.Name + "'s " + hull.Name
	}
	ship := models.NewShip(uuid.NewString(), row.ID, shipName, hull)
	if err := s.ships.Create(ctx, ship); err != nil {
		return nil, err
	}
	row.ShipID = ship.ID
	if err := s.crews.Update(ctx, row); err != nil {
		return nil, err
	}
	*crew = *row

	slog.Info("Ship purchased",
		slog.String("crew", row.Name),
		slog.String("hull", hull.Name),
		slog.Int64("price", hull.Price))
	return ship, nil
}

// Upgrade installs an upgrade on the crew's ship, paid by the acting member.
// The cost scales with the hull class.
func (s *ShipService) Upgrade(ctx context.Context, crew *models.Crew, ch *models.Character, ship *models.Ship, upgradeID string) ([]engine.Event, error) {
	upgrade, ok := s.tables.Upgrade(upgradeID)
	if !ok {
		return nil, fmt.Errorf("unknown upgrade %q", upgradeID)
	}
	hull, ok := s.tables.ShipType(ship.Type)
	if !ok {
		return nil, fmt.Errorf("ship has unknown hull %q", ship.Type)
	}

	unlockCh := s.locks.Lock(characterLockKey(ch.ID))
	defer unlockCh()
	unlock := s.locks.Lock(shipLockKey(crew.ID))
	defer unlock()

	if ship.HasUpgrade(upgrade.ID) {
		return nil, ErrUpgradeInstalled
	}

	// The payer's snapshot predates the lock; reload so concurrent spends
	// cannot draw from the same purse.
	fresh, err := s.chars.GetByID(ctx, ch.ID)
	if err != nil {
		return nil, err
	}

	subject := engine.Subject{Character: fresh, Crew: crew, Ship: ship}
	if missing := engine.Missing(upgrade.Requirements, subject); len(missing) > 0 {
		reasons := make([]string, len(missing))
		for i, req := range missing {
			reasons[i] = engine.DescribeRequirement(req, s.tables)
		}
		return nil, &RequirementError{Missing: reasons}
	}

	cost := engine.UpgradeCost(upgrade, hull)
	if !fresh.SpendBerries(cost) {
		return nil, fmt.Errorf("not enough berries: need %d, have %d", cost, fresh.Berries())
	}

	ship.ApplyUpgrade(upgrade)
	if err := s.ships.Update(ctx, ship); err != nil {
		return nil, err
	}
	if err := s.chars.Update(ctx, fresh); err != nil {
		return nil, err
	}
	*ch = *fresh

	return []engine.Event{{
		Kind:    engine.EventItemGained,
		Subject: upgrade.Name,
		Value:   1,
		Detail:  fmt.Sprintf("installed for %d berries", cost),
	}}, nil
}

// Repair restores full durability, paid by the acting member per missing
// point.
func (s *ShipService) Repair(ctx context.Context, crew *models.Crew, ch *models.Character, ship *models.Ship) (int64, error) {
	unlockCh := s.locks.Lock(characterLockKey(ch.ID))
	defer unlockCh()
	unlock := s.locks.Lock(shipLockKey(crew.ID))
	defer unlock()

	cost := ship.RepairCost()
	if cost == 0 {
		return 0, nil
	}
	fresh, err := s.chars.GetByID(ctx, ch.ID)
	if err != nil {
		return 0, err
	}
	if !fresh.SpendBerries(cost) {
		return 0, fmt.Errorf("not enough berries: need %d, have %d", cost, fresh.Berries())
	}
	ship.Repair()
	if err := s.ships.Update(ctx, ship); err != nil {
		return 0, err
	}
	if err := s.chars.Update(ctx, fresh); err != nil {
		return 0, err
	}
	*ch = *fresh
	return cost, nil
}

// LoadCargo puts goods aboard, bounded by hold capacity.
func (s *ShipService) LoadCargo(ctx context.Context, ship *models.Ship, item string, amount int64) error {
	unlock := s.locks.Lock(shipLockKey(ship.CrewID))
	defer unlock()

	if !ship.AddCargo(item, amount) {
		return ErrHoldFull
	}
	return s.ships.Update(ctx, ship)
}

// UnloadCargo takes goods out of the hold.
func (s *ShipService) UnloadCargo(ctx context.Context, ship *models.Ship, item string, amount int64) error {
	unlock := s.locks.Lock(shipLockKey(ship.CrewID))
	defer unlock()

	if !ship.RemoveCargo(item, amount) {
		return ErrNoSuchCargo
	}
	return s.ships.Update(ctx, ship)
}
