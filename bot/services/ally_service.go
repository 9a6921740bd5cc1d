package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
	"github.com/grandline-rpg/grandline/bot/database/repositories"
	"github.com/grandline-rpg/grandline/bot/engine"
)

var (
	// ErrCannotAfford reports a recruitment the character's purse or
	// inventory cannot cover.
	ErrCannotAfford = errors.New("cannot afford recruitment cost")

	// ErrAlreadyRecruited reports a second recruitment of the same ally.
	ErrAlreadyRecruited = errors.New("ally already recruited")
)

// AllyService owns recruitment and ally progression.
type AllyService struct {
	allies     repositories.AllyRepository
	characters repositories.CharacterRepository
	reputation *ReputationService
	tables     *content.Tables
	locks      *Locks
}

func NewAllyService(
	allies repositories.AllyRepository,
	characters repositories.CharacterRepository,
	reputation *ReputationService,
	tables *content.Tables,
	locks *Locks,
) *AllyService {
	return &AllyService{
		allies:     allies,
		characters: characters,
		reputation: reputation,
		tables:     tables,
		locks:      locks,
	}
}

// Recruitable returns every ally the character meets the requirements for and
// has not yet recruited.
func (s *AllyService) Recruitable(ctx context.Context, ch *models.Character) ([]content.Ally, error) {
	owned, err := s.allies.ListByCharacter(ctx, ch.ID)
	if err != nil {
		return nil, err
	}
	ownedIDs := make(map[string]bool, len(owned))
	for _, pa := range owned {
		ownedIDs[pa.AllyID] = true
	}

	subject := engine.Subject{Character: ch}
	var out []content.Ally
	for _, ally := range s.tables.Allies() {
		if ownedIDs[ally.ID] {
			continue
		}
		if len(engine.Missing(ally.Requirements, subject)) == 0 {
			out = append(out, ally)
		}
	}
	return out, nil
}

// Cost returns the recruitment cost after the character's standing with the
// ally's home faction is applied.
func (s *AllyService) Cost(ctx context.Context, ch *models.Character, ally content.Ally) (map[string]int64, error) {
	score := 0
	if ally.Faction != "" {
		var err error
		score, err = s.reputation.Score(ctx, ch.ID, ally.Faction)
		if err != nil {
			return nil, err
		}
	}
	return engine.RecruitCost(ally, score), nil
}

// Recruit hires an ally: requirements checked, cost paid, row created.
func (s *AllyService) Recruit(ctx context.Context, ch *models.Character, allyID string) (*models.PlayerAlly, error) {
	ally, ok := s.tables.Ally(allyID)
	if !ok {
		return nil, fmt.Errorf("unknown ally %q", allyID)
	}

	unlock := s.locks.Lock(characterLockKey(ch.ID))
	defer unlock()

	// The caller's snapshot predates the lock; reload the row so a
	// concurrent command cannot spend the same berries twice.
	fresh, err := s.characters.GetByID(ctx, ch.ID)
	if err != nil {
		return nil, err
	}

	if _, err := s.allies.Get(ctx, fresh.ID, ally.ID); err == nil {
		return nil, ErrAlreadyRecruited
	} else if !repositories.IsNotFound(err) {
		return nil, err
	}

	if missing := engine.Missing(ally.Requirements, engine.Subject{Character: fresh}); len(missing) > 0 {
		reasons := make([]string, len(missing))
		for i, req := range missing {
			reasons[i] = engine.DescribeRequirement(req, s.tables)
		}
		return nil, &RequirementError{Missing: reasons}
	}

	cost, err := s.Cost(ctx, fresh, ally)
	if err != nil {
		return nil, err
	}
	if !payRecruitCost(fresh, cost) {
		return nil, ErrCannotAfford
	}

	pa := &models.PlayerAlly{
		CharacterID: fresh.ID,
		AllyID:      ally.ID,
		Level:       1,
		Bond:        1,
		RecruitedAt: time.Now(),
	}
	if err := s.allies.Recruit(ctx, pa); err != nil {
		return nil, err
	}
	if err := s.characters.Update(ctx, fresh); err != nil {
		return nil, err
	}
	*ch = *fresh

	slog.Info("Ally recruited",
		slog.Int64("character_id", ch.ID),
		slog.String("ally_id", ally.ID))
	return pa, nil
}

// payRecruitCost deducts every component or nothing. Berries are the "berry"
// component; everything else is an inventory item.
func payRecruitCost(ch *models.Character, cost map[string]int64) bool {
	for resource, amount := range cost {
		if resource == "berry" {
			if ch.Berries() < amount {
				return false
			}
		} else if ch.Inventory[resource] < amount {
			return false
		}
	}
	for resource, amount := range cost {
		if resource == "berry" {
			ch.SpendBerries(amount)
		} else {
			ch.RemoveItem(resource, amount)
		}
	}
	return true
}

// Roster returns the character's recruited allies with their definitions.
func (s *AllyService) Roster(ctx context.Context, characterID int64) ([]*models.PlayerAlly, []content.Ally, error) {
	rows, err := s.allies.ListByCharacter(ctx, characterID)
	if err != nil {
		return nil, nil, err
	}
	var (
		kept []*models.PlayerAlly
		defs []content.Ally
	)
	for _, pa := range rows {
		if ally, ok := s.tables.Ally(pa.AllyID); ok {
			kept = append(kept, pa)
			defs = append(defs, ally)
		}
	}
	return kept, defs, nil
}

// GrantXP applies ally experience and persists. Emits one event per level.
func (s *AllyService) GrantXP(ctx context.Context, pa *models.PlayerAlly, amount int64) ([]engine.Event, error) {
	ally, ok := s.tables.Ally(pa.AllyID)
	if !ok {
		return nil, fmt.Errorf("unknown ally %q", pa.AllyID)
	}

	unlock := s.locks.Lock(allyLockKey(pa.CharacterID))
	defer unlock()

	levels := pa.GrantXP(amount)
	if err := s.allies.Update(ctx, pa); err != nil {
		return nil, err
	}

	var events []engine.Event
	for i := levels; i > 0; i-- {
		events = append(events, engine.Event{
			Kind:    engine.EventAllyLevelUp,
			Subject: ally.Name,
			Value:   int64(pa.Level - i + 1),
		})
	}
	return events, nil
}

// GrantBond deepens the bond and persists. Emits one event per bond level.
func (s *AllyService) GrantBond(ctx context.Context, pa *models.PlayerAlly, amount int64) ([]engine.Event, error) {
	ally, ok := s.tables.Ally(pa.AllyID)
	if !ok {
		return nil, fmt.Errorf("unknown ally %q", pa.AllyID)
	}

	unlock := s.locks.Lock(allyLockKey(pa.CharacterID))
	defer unlock()

	levels := pa.GrantBond(amount)
	if err := s.allies.Update(ctx, pa); err != nil {
		return nil, err
	}

	var events []engine.Event
	for i := levels; i > 0; i-- {
		events = append(events, engine.Event{
			Kind:    engine.EventBondLevelUp,
			Subject: ally.Name,
			Value:   int64(pa.Bond - i + 1),
		})
	}
	return events, nil
}

// TotalBonus sums every recruited ally's scaled stat contribution.
func (s *AllyService) TotalBonus(ctx context.Context, characterID int64) (content.StatBlock, error) {
	rows, defs, err := s.Roster(ctx, characterID)
	if err != nil {
		return content.StatBlock{}, err
	}
	var total content.StatBlock
	for i, pa := range rows {
		total = total.Add(pa.StatBonus(defs[i].BaseStats))
	}
	return total, nil
}

// Passives resolves every recruited ally's scaled passive effects, summed by
// effect name.
func (s *AllyService) Passives(ctx context.Context, characterID int64) (map[string]float64, error) {
	rows, defs, err := s.Roster(ctx, characterID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	for i, pa := range rows {
		for name, base := range defs[i].PassiveEffects {
			out[name] += pa.PassiveValue(base)
		}
	}
	return out, nil
}

func allyLockKey(characterID int64) string {
	return fmt.Sprintf("ally:%d", characterID)
}
