package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/grandline-rpg/grandline/bot/database/models"
	"github.com/grandline-rpg/grandline/bot/database/repositories"
)

// In-memory repositories for service tests. They hand out clones the way the
// Postgres implementations do, so a stale snapshot in one handler cannot
// observe another handler's writes except through a fresh read.

type memCharacterRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*models.Character
}

func newMemCharacterRepo() *memCharacterRepo {
	return &memCharacterRepo{rows: make(map[int64]*models.Character)}
}

func (r *memCharacterRepo) Create(ctx context.Context, ch *models.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, row := range r.rows {
		if row.UserID != ch.UserID {
			continue
		}
		if row.Name == ch.Name {
			return &repositories.ConflictError{Entity: "character", Field: "name", Value: ch.Name}
		}
		count++
	}
	if count >= models.MaxCharactersPerUser {
		return &repositories.ConflictError{Entity: "character", Field: "user_id", Value: ch.UserID}
	}
	r.nextID++
	ch.ID = r.nextID
	r.rows[ch.ID] = ch.Clone()
	return nil
}

func (r *memCharacterRepo) GetByID(ctx context.Context, id int64) (*models.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "character", ID: id}
	}
	return row.Clone(), nil
}

func (r *memCharacterRepo) GetByUser(ctx context.Context, userID string) ([]*models.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Character
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row.Clone())
		}
	}
	return out, nil
}

func (r *memCharacterRepo) GetActive(ctx context.Context, userID string) (*models.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active *models.Character
	for _, row := range r.rows {
		if row.UserID == userID && (active == nil || row.ID < active.ID) {
			active = row
		}
	}
	if active == nil {
		return nil, &repositories.NotFoundError{Entity: "character", ID: userID}
	}
	return active.Clone(), nil
}

func (r *memCharacterRepo) GetByCrew(ctx context.Context, crewID string) ([]*models.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Character
	for _, row := range r.rows {
		if row.CrewID == crewID {
			out = append(out, row.Clone())
		}
	}
	return out, nil
}

func (r *memCharacterRepo) Update(ctx context.Context, ch *models.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[ch.ID]; !ok {
		return &repositories.NotFoundError{Entity: "character", ID: ch.ID}
	}
	r.rows[ch.ID] = ch.Clone()
	return nil
}

func (r *memCharacterRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *memCharacterRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, row := range r.rows {
		if row.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *memCharacterRepo) TopByBounty(ctx context.Context, limit int) ([]*models.Character, error) {
	return nil, nil
}

type memQuestRepo struct {
	mu   sync.Mutex
	rows []*models.PlayerQuest
}

func (r *memQuestRepo) Start(ctx context.Context, pq *models.PlayerQuest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CharacterID == pq.CharacterID && row.QuestID == pq.QuestID {
			return &repositories.ConflictError{Entity: "player_quest", Field: "quest_id", Value: pq.QuestID}
		}
	}
	r.rows = append(r.rows, pq)
	return nil
}

func (r *memQuestRepo) GetActive(ctx context.Context, characterID int64, questID string) (*models.PlayerQuest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CharacterID == characterID && row.QuestID == questID {
			return row, nil
		}
	}
	return nil, &repositories.NotFoundError{Entity: "player_quest", ID: questID}
}

func (r *memQuestRepo) ListActive(ctx context.Context, characterID int64) ([]*models.PlayerQuest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PlayerQuest
	for _, row := range r.rows {
		if row.CharacterID == characterID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memQuestRepo) Update(ctx context.Context, pq *models.PlayerQuest) error { return nil }

func (r *memQuestRepo) DeleteByCharacter(ctx context.Context, characterID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.CharacterID != characterID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type memAllyRepo struct {
	mu   sync.Mutex
	rows []*models.PlayerAlly
}

func (r *memAllyRepo) Recruit(ctx context.Context, pa *models.PlayerAlly) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CharacterID == pa.CharacterID && row.AllyID == pa.AllyID {
			return &repositories.ConflictError{Entity: "player_ally", Field: "ally_id", Value: pa.AllyID}
		}
	}
	r.rows = append(r.rows, pa)
	return nil
}

func (r *memAllyRepo) Get(ctx context.Context, characterID int64, allyID string) (*models.PlayerAlly, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CharacterID == characterID && row.AllyID == allyID {
			return row, nil
		}
	}
	return nil, &repositories.NotFoundError{Entity: "player_ally", ID: allyID}
}

func (r *memAllyRepo) ListByCharacter(ctx context.Context, characterID int64) ([]*models.PlayerAlly, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PlayerAlly
	for _, row := range r.rows {
		if row.CharacterID == characterID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memAllyRepo) Update(ctx context.Context, pa *models.PlayerAlly) error { return nil }

func (r *memAllyRepo) DeleteByCharacter(ctx context.Context, characterID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.CharacterID != characterID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type memReputationRepo struct {
	mu   sync.Mutex
	rows []*models.FactionReputation
}

func (r *memReputationRepo) GetOrCreate(ctx context.Context, characterID int64, faction string) (*models.FactionReputation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CharacterID == characterID && row.Faction == faction {
			return row, nil
		}
	}
	row := &models.FactionReputation{CharacterID: characterID, Faction: faction}
	r.rows = append(r.rows, row)
	return row, nil
}

func (r *memReputationRepo) ListByCharacter(ctx context.Context, characterID int64) ([]*models.FactionReputation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.FactionReputation
	for _, row := range r.rows {
		if row.CharacterID == characterID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *memReputationRepo) Update(ctx context.Context, rep *models.FactionReputation) error {
	return nil
}

func (r *memReputationRepo) DeleteByCharacter(ctx context.Context, characterID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.CharacterID != characterID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type memCrewRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Crew
}

func newMemCrewRepo() *memCrewRepo {
	return &memCrewRepo{rows: make(map[string]*models.Crew)}
}

func cloneCrew(c *models.Crew) *models.Crew {
	cp := *c
	cp.Members = append([]models.CrewMember(nil), c.Members...)
	cp.CompletedQuests = append([]string(nil), c.CompletedQuests...)
	return &cp
}

func (r *memCrewRepo) Create(ctx context.Context, crew *models.Crew) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Name == crew.Name {
			return &repositories.ConflictError{Entity: "crew", Field: "name", Value: crew.Name}
		}
	}
	r.rows[crew.ID] = cloneCrew(crew)
	return nil
}

func (r *memCrewRepo) GetByID(ctx context.Context, id string) (*models.Crew, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "crew", ID: id}
	}
	return cloneCrew(row), nil
}

func (r *memCrewRepo) GetByName(ctx context.Context, name string) (*models.Crew, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.Name == name {
			return cloneCrew(row), nil
		}
	}
	return nil, &repositories.NotFoundError{Entity: "crew", ID: name}
}

func (r *memCrewRepo) GetByCaptain(ctx context.Context, captainID int64) (*models.Crew, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CaptainID == captainID {
			return cloneCrew(row), nil
		}
	}
	return nil, &repositories.NotFoundError{Entity: "crew", ID: captainID}
}

func (r *memCrewRepo) Update(ctx context.Context, crew *models.Crew) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[crew.ID]; !ok {
		return &repositories.NotFoundError{Entity: "crew", ID: crew.ID}
	}
	r.rows[crew.ID] = cloneCrew(crew)
	return nil
}

func (r *memCrewRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func (r *memCrewRepo) TopByReputation(ctx context.Context, limit int) ([]*models.Crew, error) {
	return nil, nil
}

type memShipRepo struct {
	mu   sync.Mutex
	rows map[string]*models.Ship
}

func newMemShipRepo() *memShipRepo {
	return &memShipRepo{rows: make(map[string]*models.Ship)}
}

func (r *memShipRepo) Create(ctx context.Context, ship *models.Ship) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[ship.ID] = ship
	return nil
}

func (r *memShipRepo) GetByID(ctx context.Context, id string) (*models.Ship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, &repositories.NotFoundError{Entity: "ship", ID: id}
	}
	return row, nil
}

func (r *memShipRepo) GetByCrew(ctx context.Context, crewID string) (*models.Ship, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.CrewID == crewID {
			return row, nil
		}
	}
	return nil, &repositories.NotFoundError{Entity: "ship", ID: crewID}
}

func (r *memShipRepo) Update(ctx context.Context, ship *models.Ship) error { return nil }

func (r *memShipRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, id)
	return nil
}

func TestCharacterService_Create_OriginDefaults(t *testing.T) {
	ctx := context.Background()
	tables := loadTables(t)
	locks := NewLocks()
	characters := newMemCharacterRepo()
	quests := &memQuestRepo{}

	svc := NewCharacterService(characters, quests, &memAllyRepo{}, &memReputationRepo{}, tables, locks)
	ch, err := svc.Create(ctx, "user-1", "Rika", "Human", "Shells Town", "Brave Warrior of the Sea")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if ch.Faction != "Marine" {
		t.Errorf("Faction = %q, want the origin's default Marine", ch.Faction)
	}
	if ch.Level != 1 {
		t.Errorf("Level = %d, want 1", ch.Level)
	}
	if ch.BaseStats.Durability != defaultStat+2 {
		t.Errorf("Durability = %d, want %d with the Shells Town bonus", ch.BaseStats.Durability, defaultStat+2)
	}
	if ch.Inventory["Marine Uniform"] != 1 {
		t.Errorf("Inventory = %v, want the origin's starting items", ch.Inventory)
	}

	reputation := NewReputationService(&memReputationRepo{}, tables, locks)
	questSvc := NewQuestService(quests, characters, newMemCrewRepo(), newMemShipRepo(), reputation, tables, locks)
	available, err := questSvc.Available(ctx, ch)
	if err != nil {
		t.Fatalf("Available: %v", err)
	}
	if len(available) != 1 || available[0].ID != "romance_dawn_marine" {
		ids := make([]string, len(available))
		for i, q := range available {
			ids[i] = q.ID
		}
		t.Fatalf("available quests = %v, want only romance_dawn_marine", ids)
	}
}

func TestAllyService_Recruit_ReloadsPurseUnderLock(t *testing.T) {
	ctx := context.Background()
	tables := loadTables(t)
	locks := NewLocks()
	characters := newMemCharacterRepo()
	reputation := NewReputationService(&memReputationRepo{}, tables, locks)
	svc := NewAllyService(&memAllyRepo{}, characters, reputation, tables, locks)

	seed := &models.Character{
		UserID:  "user-1",
		Name:    "Rika",
		Race:    "Human",
		Origin:  "Shells Town",
		Dream:   "Brave Warrior of the Sea",
		Faction: "Marine",
		Level:   1,
		Inventory: map[string]int64{
			models.BerryItem: 10000,
		},
	}
	if err := characters.Create(ctx, seed); err != nil {
		t.Fatalf("seed character: %v", err)
	}

	snapA, err := characters.GetByID(ctx, seed.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	snapB, err := characters.GetByID(ctx, seed.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if _, err := svc.Recruit(ctx, snapA, "coby"); err != nil {
		t.Fatalf("Recruit(coby): %v", err)
	}
	if got := snapA.Berries(); got != 5000 {
		t.Errorf("Berries() after coby = %d, want 5000", got)
	}

	// snapB still shows the full purse, but the recruit must price against
	// the stored row, not the stale snapshot.
	if _, err := svc.Recruit(ctx, snapB, "usopp"); !errors.Is(err, ErrCannotAfford) {
		t.Fatalf("Recruit(usopp) with stale snapshot err = %v, want ErrCannotAfford", err)
	}

	row, err := characters.GetByID(ctx, seed.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got := row.Berries(); got != 5000 {
		t.Errorf("stored Berries() = %d, want 5000 after one recruit", got)
	}
}

func newDepositFixture(t *testing.T) (*CrewService, *memCharacterRepo, *memCrewRepo, *models.Character, *models.Crew) {
	t.Helper()
	ctx := context.Background()
	tables := loadTables(t)
	locks := NewLocks()
	characters := newMemCharacterRepo()
	crews := newMemCrewRepo()
	svc := NewCrewService(crews, newMemShipRepo(), characters, tables, locks)

	ch := &models.Character{
		UserID:    "user-1",
		Name:      "Rika",
		Race:      "Human",
		Origin:    "Shells Town",
		Faction:   "Marine",
		Level:     1,
		CrewID:    "crew-1",
		Inventory: map[string]int64{models.BerryItem: 1000},
	}
	if err := characters.Create(ctx, ch); err != nil {
		t.Fatalf("seed character: %v", err)
	}
	crew := &models.Crew{
		ID:        "crew-1",
		Name:      "White Chase Fleet",
		CaptainID: ch.ID,
		Level:     1,
		Members: []models.CrewMember{
			{CharacterID: ch.ID, UserID: ch.UserID, CharacterName: ch.Name, Role: models.RoleCaptain},
		},
	}
	if err := crews.Create(ctx, crew); err != nil {
		t.Fatalf("seed crew: %v", err)
	}
	return svc, characters, crews, ch, crew
}

func TestCrewService_Deposit_RejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	svc, characters, crews, ch, crew := newDepositFixture(t)

	for _, amount := range []int64{0, -500} {
		if err := svc.Deposit(ctx, crew, ch, amount); err == nil {
			t.Errorf("Deposit(%d) succeeded, want error", amount)
		}
		if err := svc.Withdraw(ctx, crew, ch, amount); err == nil {
			t.Errorf("Withdraw(%d) succeeded, want error", amount)
		}
	}

	row, err := characters.GetByID(ctx, ch.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got := row.Berries(); got != 1000 {
		t.Errorf("Berries() = %d, rejected amounts must not move money", got)
	}
	crewRow, err := crews.GetByID(ctx, crew.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if crewRow.Treasury != 0 {
		t.Errorf("Treasury = %d, rejected amounts must not move money", crewRow.Treasury)
	}
}

func TestCrewService_Deposit_SerializesPurse(t *testing.T) {
	ctx := context.Background()
	svc, characters, crews, ch, _ := newDepositFixture(t)

	// Two deposits race for a purse that only covers one of them.
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := characters.GetByID(ctx, ch.ID)
			if err != nil {
				errs <- err
				return
			}
			crewSnap, err := crews.GetByID(ctx, "crew-1")
			if err != nil {
				errs <- err
				return
			}
			errs <- svc.Deposit(ctx, crewSnap, snap, 600)
		}()
	}
	wg.Wait()
	close(errs)

	failed := 0
	for err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Fatalf("%d deposits failed, want exactly 1", failed)
	}

	row, err := characters.GetByID(ctx, ch.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got := row.Berries(); got != 400 {
		t.Errorf("Berries() = %d, want 400 after a single deposit", got)
	}
	crewRow, err := crews.GetByID(ctx, "crew-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if crewRow.Treasury != 600 {
		t.Errorf("Treasury = %d, want 600 after a single deposit", crewRow.Treasury)
	}
}
