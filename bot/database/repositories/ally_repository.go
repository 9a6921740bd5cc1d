package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/grandline-rpg/grandline/bot/database/models"
)

// AllyRepository stores recruited allies.
type AllyRepository interface {
	Recruit(ctx context.Context, pa *models.PlayerAlly) error
	Get(ctx context.Context, characterID int64, allyID string) (*models.PlayerAlly, error)
	ListByCharacter(ctx context.Context, characterID int64) ([]*models.PlayerAlly, error)
	Update(ctx context.Context, pa *models.PlayerAlly) error
	DeleteByCharacter(ctx context.Context, characterID int64) error
}

type allyRepository struct {
	*BaseRepository
}

func NewAllyRepository(db *bun.DB) AllyRepository {
	return &allyRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *allyRepository) Recruit(ctx context.Context, pa *models.PlayerAlly) error {
	exists, err := r.Exists(ctx, "ally", r.GetDB().NewSelect().
		Model((*models.PlayerAlly)(nil)).
		Where("character_id = ? AND ally_id = ?", pa.CharacterID, pa.AllyID))
	if err != nil {
		return err
	}
	if exists {
		return &ConflictError{Entity: "ally", Field: "ally_id", Value: pa.AllyID}
	}

	pa.RecruitedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err = r.GetDB().NewInsert().Model(pa).Exec(timeoutCtx)
	return r.HandleError("recruit", "ally", err)
}

func (r *allyRepository) Get(ctx context.Context, characterID int64, allyID string) (*models.PlayerAlly, error) {
	pa := new(models.PlayerAlly)
	err := r.SelectOneWithTimeout(ctx, "get", "ally", allyID, func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(pa).
			Where("character_id = ? AND ally_id = ?", characterID, allyID).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return pa, nil
}

func (r *allyRepository) ListByCharacter(ctx context.Context, characterID int64) ([]*models.PlayerAlly, error) {
	var allies []*models.PlayerAlly
	err := r.SelectWithTimeout(ctx, "list", "ally", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&allies).
			Where("character_id = ?", characterID).
			Order("recruited_at ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return allies, nil
}

func (r *allyRepository) Update(ctx context.Context, pa *models.PlayerAlly) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.GetDB().NewUpdate().Model(pa).WherePK().Exec(timeoutCtx)
	if err != nil {
		return r.HandleError("update", "ally", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "ally", ID: pa.ID}
	}
	return nil
}

func (r *allyRepository) DeleteByCharacter(ctx context.Context, characterID int64) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewDelete().
		Model((*models.PlayerAlly)(nil)).
		Where("character_id = ?", characterID).
		Exec(timeoutCtx)
	return r.HandleError("delete_by_character", "ally", err)
}
