package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/grandline-rpg/grandline/bot/database/models"
)

// QuestRepository stores per-character quest progress.
type QuestRepository interface {
	Start(ctx context.Context, pq *models.PlayerQuest) error
	GetActive(ctx context.Context, characterID int64, questID string) (*models.PlayerQuest, error)
	ListActive(ctx context.Context, characterID int64) ([]*models.PlayerQuest, error)
	Update(ctx context.Context, pq *models.PlayerQuest) error
	DeleteByCharacter(ctx context.Context, characterID int64) error
}

type questRepository struct {
	*BaseRepository
}

func NewQuestRepository(db *bun.DB) QuestRepository {
	return &questRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *questRepository) Start(ctx context.Context, pq *models.PlayerQuest) error {
	exists, err := r.Exists(ctx, "quest progress", r.GetDB().NewSelect().
		Model((*models.PlayerQuest)(nil)).
		Where("character_id = ? AND quest_id = ? AND status = ?", pq.CharacterID, pq.QuestID, models.QuestStatusActive))
	if err != nil {
		return err
	}
	if exists {
		return &ConflictError{Entity: "quest progress", Field: "quest_id", Value: pq.QuestID}
	}

	pq.Status = models.QuestStatusActive
	pq.StartedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err = r.GetDB().NewInsert().Model(pq).Exec(timeoutCtx)
	return r.HandleError("start", "quest progress", err)
}

func (r *questRepository) GetActive(ctx context.Context, characterID int64, questID string) (*models.PlayerQuest, error) {
	pq := new(models.PlayerQuest)
	err := r.SelectOneWithTimeout(ctx, "get_active", "quest progress", questID, func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(pq).
			Where("character_id = ? AND quest_id = ? AND status = ?", characterID, questID, models.QuestStatusActive).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return pq, nil
}

func (r *questRepository) ListActive(ctx context.Context, characterID int64) ([]*models.PlayerQuest, error) {
	var quests []*models.PlayerQuest
	err := r.SelectWithTimeout(ctx, "list_active", "quest progress", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&quests).
			Where("character_id = ? AND status = ?", characterID, models.QuestStatusActive).
			Order("started_at ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return quests, nil
}

func (r *questRepository) Update(ctx context.Context, pq *models.PlayerQuest) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.GetDB().NewUpdate().Model(pq).WherePK().Exec(timeoutCtx)
	if err != nil {
		return r.HandleError("update", "quest progress", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "quest progress", ID: pq.ID}
	}
	return nil
}

func (r *questRepository) DeleteByCharacter(ctx context.Context, characterID int64) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.GetDB().NewDelete().
		Model((*models.PlayerQuest)(nil)).
		Where("character_id = ?", characterID).
		Exec(timeoutCtx)
	return r.HandleError("delete_by_character", "quest progress", err)
}
