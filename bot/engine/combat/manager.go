package combat

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
)

// Post-battle cooldowns. Losing hurts more than winning; running away gets
// you back on the road fastest.
const (
	CooldownVictory = 3 * time.Minute
	CooldownDefeat  = 10 * time.Minute
	CooldownFled    = 2 * time.Minute
	CooldownPvPWin  = 5 * time.Minute
	CooldownPvPLoss = 10 * time.Minute
)

var (
	ErrBattleInProgress = errors.New("already in battle")
	ErrNotInBattle      = errors.New("no active battle")
	ErrOnCooldown       = errors.New("battle cooldown active")
)

// Manager tracks active battles and per-user cooldowns in memory. Battles are
// ephemeral; a restart simply forgets them.
type Manager struct {
	mu  sync.Mutex
	rng *rand.Rand

	battles   sync.Map // userID -> *Battle
	cooldowns sync.Map // userID -> time.Time (cooldown end)
	now       func() time.Time
}

// NewManager seeds the shared RNG. Pass a fixed source in tests for
// deterministic rolls.
func NewManager(src rand.Source) *Manager {
	return &Manager{
		rng: rand.New(src),
		now: time.Now,
	}
}

// Remaining returns how long until the user can fight again.
func (m *Manager) Remaining(userID string) time.Duration {
	v, ok := m.cooldowns.Load(userID)
	if !ok {
		return 0
	}
	end := v.(time.Time)
	left := end.Sub(m.now())
	if left <= 0 {
		m.cooldowns.Delete(userID)
		return 0
	}
	return left
}

// SetCooldown starts a fresh cooldown for the user.
func (m *Manager) SetCooldown(userID string, d time.Duration) {
	m.cooldowns.Store(userID, m.now().Add(d))
}

// StartBattle rolls an enemy for the location and opens a battle for the
// user. Fails if the user is mid-battle or cooling down.
func (m *Manager) StartBattle(userID string, ch *models.Character, race content.Race, location string) (*Battle, error) {
	if m.Remaining(userID) > 0 {
		return nil, ErrOnCooldown
	}
	if _, busy := m.battles.Load(userID); busy {
		return nil, ErrBattleInProgress
	}

	m.mu.Lock()
	enemy := GenerateEnemy(m.rng, location, ch.Level)
	battle := NewBattle(m.rng, ch, race, enemy, location)
	m.mu.Unlock()

	if _, loaded := m.battles.LoadOrStore(userID, battle); loaded {
		return nil, ErrBattleInProgress
	}
	return battle, nil
}

// Battle returns the user's active battle.
func (m *Manager) Battle(userID string) (*Battle, error) {
	v, ok := m.battles.Load(userID)
	if !ok {
		return nil, ErrNotInBattle
	}
	return v.(*Battle), nil
}

// Turn resolves one action on the user's active battle. Terminal outcomes
// close the battle and start the matching cooldown.
func (m *Manager) Turn(userID string, action Action) (*Battle, Outcome, error) {
	battle, err := m.Battle(userID)
	if err != nil {
		return nil, OutcomeOngoing, err
	}

	m.mu.Lock()
	outcome := battle.Turn(action)
	m.mu.Unlock()

	switch outcome {
	case OutcomeVictory:
		m.close(userID, CooldownVictory)
	case OutcomeDefeat:
		m.close(userID, CooldownDefeat)
	case OutcomeFled:
		m.close(userID, CooldownFled)
	}
	return battle, outcome, nil
}

// Abandon drops the user's battle without a cooldown, for expired sessions.
func (m *Manager) Abandon(userID string) {
	m.battles.Delete(userID)
}

// ResolveDuel settles PvP between two users and starts their cooldowns.
func (m *Manager) ResolveDuel(challengerID, challengedID string, challenger, challenged *models.Character, challengerRace, challengedRace content.Race) (PvPResult, error) {
	if m.Remaining(challengerID) > 0 || m.Remaining(challengedID) > 0 {
		return PvPResult{}, ErrOnCooldown
	}
	if _, busy := m.battles.Load(challengerID); busy {
		return PvPResult{}, ErrBattleInProgress
	}
	if _, busy := m.battles.Load(challengedID); busy {
		return PvPResult{}, ErrBattleInProgress
	}

	m.mu.Lock()
	res := ResolvePvP(m.rng, challenger, challenged, challengerRace, challengedRace)
	m.mu.Unlock()

	winnerID, loserID := challengerID, challengedID
	if res.Winner == challenged {
		winnerID, loserID = challengedID, challengerID
	}
	m.SetCooldown(winnerID, CooldownPvPWin)
	m.SetCooldown(loserID, CooldownPvPLoss)
	return res, nil
}

func (m *Manager) close(userID string, cooldown time.Duration) {
	m.battles.Delete(userID)
	m.SetCooldown(userID, cooldown)
}
