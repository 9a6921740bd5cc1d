package combat

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/grandline-rpg/grandline/bot/content"
)

func testManager() (*Manager, *time.Time) {
	m := NewManager(rand.NewSource(1))
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestManager_StartBattle(t *testing.T) {
	m, _ := testManager()
	ch := testCharacter(2)

	b, err := m.StartBattle("u1", ch, content.Race{}, "East Blue")
	if err != nil {
		t.Fatalf("StartBattle: %v", err)
	}
	if b.Location != "East Blue" {
		t.Errorf("location = %q", b.Location)
	}

	if _, err := m.StartBattle("u1", ch, content.Race{}, "East Blue"); !errors.Is(err, ErrBattleInProgress) {
		t.Errorf("second start = %v, want ErrBattleInProgress", err)
	}

	got, err := m.Battle("u1")
	if err != nil || got != b {
		t.Errorf("Battle returned %v, %v", got, err)
	}
	if _, err := m.Battle("u2"); !errors.Is(err, ErrNotInBattle) {
		t.Errorf("stranger battle = %v, want ErrNotInBattle", err)
	}
}

func TestManager_TurnVictoryStartsCooldown(t *testing.T) {
	m, now := testManager()
	ch := testCharacter(2)

	b, err := m.StartBattle("u1", ch, content.Race{}, "East Blue")
	if err != nil {
		t.Fatalf("StartBattle: %v", err)
	}
	b.EnemyHP = 1

	_, outcome, err := m.Turn("u1", ActionAttack)
	if err != nil || outcome != OutcomeVictory {
		t.Fatalf("Turn = %v, %v, want victory", outcome, err)
	}

	if _, err := m.Battle("u1"); !errors.Is(err, ErrNotInBattle) {
		t.Errorf("battle survived its ending: %v", err)
	}
	if left := m.Remaining("u1"); left != CooldownVictory {
		t.Errorf("cooldown = %v, want %v", left, CooldownVictory)
	}
	if _, err := m.StartBattle("u1", ch, content.Race{}, "East Blue"); !errors.Is(err, ErrOnCooldown) {
		t.Errorf("start during cooldown = %v, want ErrOnCooldown", err)
	}

	*now = now.Add(CooldownVictory + time.Second)
	if left := m.Remaining("u1"); left != 0 {
		t.Errorf("expired cooldown = %v, want 0", left)
	}
	if _, err := m.StartBattle("u1", ch, content.Race{}, "East Blue"); err != nil {
		t.Errorf("start after cooldown: %v", err)
	}
}

func TestManager_TurnWithoutBattle(t *testing.T) {
	m, _ := testManager()
	if _, _, err := m.Turn("u1", ActionAttack); !errors.Is(err, ErrNotInBattle) {
		t.Errorf("Turn = %v, want ErrNotInBattle", err)
	}
}

func TestManager_Abandon(t *testing.T) {
	m, _ := testManager()
	ch := testCharacter(2)

	if _, err := m.StartBattle("u1", ch, content.Race{}, "East Blue"); err != nil {
		t.Fatalf("StartBattle: %v", err)
	}
	m.Abandon("u1")

	if _, err := m.Battle("u1"); !errors.Is(err, ErrNotInBattle) {
		t.Errorf("abandoned battle still live: %v", err)
	}
	if left := m.Remaining("u1"); left != 0 {
		t.Errorf("abandon set a cooldown of %v", left)
	}
}

func TestManager_ResolveDuel(t *testing.T) {
	m, _ := testManager()
	strong := testCharacter(50)
	strong.BaseStats = content.StatBlock{Strength: 100, Agility: 100, Durability: 100, Intelligence: 100}
	weak := testCharacter(1)

	res, err := m.ResolveDuel("u1", "u2", strong, weak, content.Race{}, content.Race{})
	if err != nil {
		t.Fatalf("ResolveDuel: %v", err)
	}
	if res.Winner != strong {
		t.Fatalf("winner = %v, want the stronger fighter", res.Winner.Name)
	}

	if left := m.Remaining("u1"); left != CooldownPvPWin {
		t.Errorf("winner cooldown = %v, want %v", left, CooldownPvPWin)
	}
	if left := m.Remaining("u2"); left != CooldownPvPLoss {
		t.Errorf("loser cooldown = %v, want %v", left, CooldownPvPLoss)
	}

	if _, err := m.ResolveDuel("u1", "u2", strong, weak, content.Race{}, content.Race{}); !errors.Is(err, ErrOnCooldown) {
		t.Errorf("second duel = %v, want ErrOnCooldown", err)
	}
}

func TestManager_ResolveDuelBlockedByBattle(t *testing.T) {
	m, _ := testManager()
	fighter := testCharacter(2)

	if _, err := m.StartBattle("u2", fighter, content.Race{}, "East Blue"); err != nil {
		t.Fatalf("StartBattle: %v", err)
	}
	if _, err := m.ResolveDuel("u1", "u2", testCharacter(2), fighter, content.Race{}, content.Race{}); !errors.Is(err, ErrBattleInProgress) {
		t.Errorf("duel against mid-battle user = %v, want ErrBattleInProgress", err)
	}
}
