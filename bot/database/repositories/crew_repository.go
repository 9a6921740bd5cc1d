package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/grandline-rpg/grandline/bot/database/models"
)

// CrewRepository stores crews.
type CrewRepository interface {
	Create(ctx context.Context, crew *models.Crew) error
	GetByID(ctx context.Context, id string) (*models.Crew, error)
	GetByName(ctx context.Context, name string) (*models.Crew, error)
	GetByCaptain(ctx context.Context, captainID int64) (*models.Crew, error)
	Update(ctx context.Context, crew *models.Crew) error
	Delete(ctx context.Context, id string) error
	TopByReputation(ctx context.Context, limit int) ([]*models.Crew, error)
}

type crewRepository struct {
	*BaseRepository
}

func NewCrewRepository(db *bun.DB) CrewRepository {
	return &crewRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *crewRepository) Create(ctx context.Context, crew *models.Crew) error {
	exists, err := r.Exists(ctx, "crew", r.GetDB().NewSelect().
		Model((*models.Crew)(nil)).
		Where("name = ?", crew.Name))
	if err != nil {
		return err
	}
	if exists {
		return &ConflictError{Entity: "crew", Field: "name", Value: crew.Name}
	}

	now := time.Now()
	crew.CreatedAt = now
	crew.UpdatedAt = now

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err = r.GetDB().NewInsert().Model(crew).Exec(timeoutCtx)
	return r.HandleError("create", "crew", err)
}

func (r *crewRepository) GetByID(ctx context.Context, id string) (*models.Crew, error) {
	crew := new(models.Crew)
	err := r.SelectOneWithTimeout(ctx, "get", "crew", id, func(ctx context.Context) error {
		return r.GetDB().NewSelect().Model(crew).Where("id = ?", id).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return crew, nil
}

func (r *crewRepository) GetByName(ctx context.Context, name string) (*models.Crew, error) {
	crew := new(models.Crew)
	err := r.SelectOneWithTimeout(ctx, "get_by_name", "crew", name, func(ctx context.Context) error {
		return r.GetDB().NewSelect().Model(crew).Where("name = ?", name).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return crew, nil
}

func (r *crewRepository) GetByCaptain(ctx context.Context, captainID int64) (*models.Crew, error) {
	crew := new(models.Crew)
	err := r.SelectOneWithTimeout(ctx, "get_by_captain", "crew", captainID, func(ctx context.Context) error {
		return r.GetDB().NewSelect().Model(crew).Where("captain_id = ?", captainID).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return crew, nil
}

func (r *crewRepository) Update(ctx context.Context, crew *models.Crew) error {
	crew.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.GetDB().NewUpdate().Model(crew).WherePK().Exec(timeoutCtx)
	if err != nil {
		return r.HandleError("update", "crew", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "crew", ID: crew.ID}
	}
	return nil
}

func (r *crewRepository) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.GetDB().NewDelete().
		Model((*models.Crew)(nil)).
		Where("id = ?", id).
		Exec(timeoutCtx)
	if err != nil {
		return r.HandleErrorWithID("delete", "crew", id, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "crew", ID: id}
	}
	return nil
}

func (r *crewRepository) TopByReputation(ctx context.Context, limit int) ([]*models.Crew, error) {
	var crews []*models.Crew
	err := r.SelectWithTimeout(ctx, "leaderboard", "crew", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&crews).
			Order("reputation DESC").
			Limit(limit).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return crews, nil
}
