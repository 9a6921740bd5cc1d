package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/grandline-rpg/grandline/bot/database/models"
)

// ShipRepository stores crew ships.
type ShipRepository interface {
	Create(ctx context.Context, ship *models.Ship) error
	GetByID(ctx context.Context, id string) (*models.Ship, error)
	GetByCrew(ctx context.Context, crewID string) (*models.Ship, error)
	Update(ctx context.Context, ship *models.Ship) error
	Delete(ctx context.Context, id string) error
}

type shipRepository struct {
	*BaseRepository
}

func NewShipRepository(db *bun.DB) ShipRepository {
	return &shipRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *shipRepository) Create(ctx context.Context, ship *models.Ship) error {
	exists, err := r.Exists(ctx, "ship", r.GetDB().NewSelect().
		Model((*models.Ship)(nil)).
		Where("crew_id = ?", ship.CrewID))
	if err != nil {
		return err
	}
	if exists {
		return &ConflictError{Entity: "ship", Field: "crew_id", Value: ship.CrewID}
	}

	now := time.Now()
	ship.CreatedAt = now
	ship.UpdatedAt = now

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err = r.GetDB().NewInsert().Model(ship).Exec(timeoutCtx)
	return r.HandleError("create", "ship", err)
}

func (r *shipRepository) GetByID(ctx context.Context, id string) (*models.Ship, error) {
	ship := new(models.Ship)
	err := r.SelectOneWithTimeout(ctx, "get", "ship", id, func(ctx context.Context) error {
		return r.GetDB().NewSelect().Model(ship).Where("id = ?", id).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return ship, nil
}

func (r *shipRepository) GetByCrew(ctx context.Context, crewID string) (*models.Ship, error) {
	ship := new(models.Ship)
	err := r.SelectOneWithTimeout(ctx, "get_by_crew", "ship", crewID, func(ctx context.Context) error {
		return r.GetDB().NewSelect().Model(ship).Where("crew_id = ?", crewID).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return ship, nil
}

func (r *shipRepository) Update(ctx context.Context, ship *models.Ship) error {
	ship.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.GetDB().NewUpdate().Model(ship).WherePK().Exec(timeoutCtx)
	if err != nil {
		return r.HandleError("update", "ship", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "ship", ID: ship.ID}
	}
	return nil
}

func (r *shipRepository) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.GetDB().NewDelete().
		Model((*models.Ship)(nil)).
		Where("id = ?", id).
		Exec(timeoutCtx)
	if err != nil {
		return r.HandleErrorWithID("delete", "ship", id, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "ship", ID: id}
	}
	return nil
}
