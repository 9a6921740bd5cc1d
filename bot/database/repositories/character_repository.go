package repositories

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"

	"github.com/grandline-rpg/grandline/bot/database/models"
)

const characterCacheSize = 1024

// CharacterRepository stores player characters.
type CharacterRepository interface {
	Create(ctx context.Context, ch *models.Character) error
	GetByID(ctx context.Context, id int64) (*models.Character, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Character, error)
	GetActive(ctx context.Context, userID string) (*models.Character, error)
	GetByCrew(ctx context.Context, crewID string) ([]*models.Character, error)
	Update(ctx context.Context, ch *models.Character) error
	Delete(ctx context.Context, id int64) error
	CountByUser(ctx context.Context, userID string) (int, error)
	TopByBounty(ctx context.Context, limit int) ([]*models.Character, error)
}

type characterRepository struct {
	*BaseRepository
	cache *lru.Cache // id -> *models.Character
}

func NewCharacterRepository(db *bun.DB) CharacterRepository {
	cache, _ := lru.New(characterCacheSize)
	return &characterRepository{
		BaseRepository: NewBaseRepository(db),
		cache:          cache,
	}
}

func (r *characterRepository) Create(ctx context.Context, ch *models.Character) error {
	count, err := r.CountByUser(ctx, ch.UserID)
	if err != nil {
		return err
	}
	if count >= models.MaxCharactersPerUser {
		return &ConflictError{Entity: "character", Field: "user_id", Value: ch.UserID}
	}

	exists, err := r.Exists(ctx, "character", r.GetDB().NewSelect().
		Model((*models.Character)(nil)).
		Where("user_id = ? AND name = ?", ch.UserID, ch.Name))
	if err != nil {
		return err
	}
	if exists {
		return &ConflictError{Entity: "character", Field: "name", Value: ch.Name}
	}

	now := time.Now()
	ch.CreatedAt = now
	ch.UpdatedAt = now

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err = r.GetDB().NewInsert().Model(ch).Exec(timeoutCtx)
	if err != nil {
		return r.HandleError("create", "character", err)
	}
	r.cache.Add(ch.ID, ch.Clone())
	return nil
}

// GetByID returns a private copy; cached rows are never handed out directly,
// so concurrent handlers cannot mutate each other's view.
func (r *characterRepository) GetByID(ctx context.Context, id int64) (*models.Character, error) {
	if v, ok := r.cache.Get(id); ok {
		return v.(*models.Character).Clone(), nil
	}

	ch := new(models.Character)
	err := r.SelectOneWithTimeout(ctx, "get", "character", id, func(ctx context.Context) error {
		return r.GetDB().NewSelect().Model(ch).Where("id = ?", id).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	r.cache.Add(id, ch.Clone())
	return ch, nil
}

func (r *characterRepository) GetByUser(ctx context.Context, userID string) ([]*models.Character, error) {
	var chars []*models.Character
	err := r.SelectWithTimeout(ctx, "list", "character", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&chars).
			Where("user_id = ?", userID).
			Order("created_at ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return chars, nil
}

// GetActive returns the user's first character, the one commands act on.
func (r *characterRepository) GetActive(ctx context.Context, userID string) (*models.Character, error) {
	ch := new(models.Character)
	err := r.SelectOneWithTimeout(ctx, "get_active", "character", userID, func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(ch).
			Where("user_id = ?", userID).
			Order("created_at ASC").
			Limit(1).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (r *characterRepository) GetByCrew(ctx context.Context, crewID string) ([]*models.Character, error) {
	var chars []*models.Character
	err := r.SelectWithTimeout(ctx, "list_crew", "character", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&chars).
			Where("crew_id = ?", crewID).
			Order("created_at ASC").
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return chars, nil
}

func (r *characterRepository) Update(ctx context.Context, ch *models.Character) error {
	ch.UpdatedAt = time.Now()

	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.GetDB().NewUpdate().
		Model(ch).
		WherePK().
		Exec(timeoutCtx)
	if err != nil {
		return r.HandleError("update", "character", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "character", ID: ch.ID}
	}
	r.cache.Add(ch.ID, ch.Clone())
	return nil
}

func (r *characterRepository) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.GetDB().NewDelete().
		Model((*models.Character)(nil)).
		Where("id = ?", id).
		Exec(timeoutCtx)
	if err != nil {
		return r.HandleErrorWithID("delete", "character", id, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return &NotFoundError{Entity: "character", ID: id}
	}
	r.cache.Remove(id)
	return nil
}

// TopByBounty returns the most wanted characters, highest bounty first.
func (r *characterRepository) TopByBounty(ctx context.Context, limit int) ([]*models.Character, error) {
	var chars []*models.Character
	err := r.SelectWithTimeout(ctx, "top_bounty", "character", func(ctx context.Context) error {
		return r.GetDB().NewSelect().
			Model(&chars).
			Where("bounty > 0").
			Order("bounty DESC").
			Limit(limit).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return chars, nil
}

func (r *characterRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	return r.Count(ctx, "character", r.GetDB().NewSelect().
		Model((*models.Character)(nil)).
		Where("user_id = ?", userID))
}
