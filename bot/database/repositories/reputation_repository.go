package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/grandline-rpg/grandline/bot/database/models"
)

// ReputationRepository stores per-character faction standings.
type ReputationRepository interface {
	// GetOrCreate returns the standing row, creating a zeroed one on first
	// contact with the faction.
	GetOrCreate(ctx context.Context, characterID int64, faction string) (*models.FactionReputation, error)
	ListByCharacter(ctx context.Context, characterID int64) ([]*models.FactionReputation, error)
	Update(ctx context.Context, rep *models.FactionReputation) error
	DeleteByCharacter(ctx context.Context, characterID int64) error
}

type reputationRepository struct {
	*BaseRepository
}

func NewReputationRepository(db *bun.DB) ReputationRepository {
	return &reputationRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *reputationRepository) GetOrCreate(ctx context.Context, characterID int64, faction string) (*models.FactionReputation, error) {
	rep := new(models.FactionReputation)
	err := r.SelectOneWithTimeout(ctx, "get", "reputation", faction, func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(rep).
			Where("character_id = ? AND faction = ?", characterID, faction).
			Scan(ctx)
	})
	if err == nil {
		return rep, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	rep = &models.FactionReputation{
		CharacterID: characterID,
		Faction:     faction,
		UpdatedAt:   time.Now(),
	}

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	// Concurrent first contact races on the unique index; the loser reloads.
	_, err = r.GetDB().NewInsert().
		Model(rep).
		On("CONFLICT (character_id, faction) DO NOTHING").
		Exec(timeoutCtx)
	if err != nil {
		return nil, r.HandleError("create", "reputation", err)
	}
	if rep.ID != 0 {
		return rep, nil
	}

	err = r.SelectOneWithTimeout(ctx, "get", "reputation", faction, func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(rep).
			Where("character_id = ? AND faction = ?", characterID, faction).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *reputationRepository) ListByCharacter(ctx context.Context, characterID int64) ([]*models.FactionReputation, error) {
	var reps []*models.FactionReputation
	err := r.SelectWithTimeout(ctx, "list", "reputation", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&reps).
			Where("character_id = ?", characterID).
			Order("faction ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return reps, nil
}

func (r *reputationRepository) Update(ctx context.Context, rep *models.FactionReputation) error {
	rep.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.GetDB().NewUpdate().Model(rep).WherePK().Exec(timeoutCtx)
	if err != nil {
		return r.HandleError("update", "reputation", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "reputation", ID: rep.ID}
	}
	return nil
}

func (r *reputationRepository) DeleteByCharacter(ctx context.Context, characterID int64) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewDelete().
		Model((*models.FactionReputation)(nil)).
		Where("character_id = ?", characterID).
		Exec(timeoutCtx)
	return r.HandleError("delete_by_character", "reputation", err)
}
