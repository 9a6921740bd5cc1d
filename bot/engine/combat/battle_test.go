package combat

import (
	"math/rand"
	"testing"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
)

// seqSource replays a fixed cycle of Int63 values so turn outcomes that the
// real RNG would make flaky become deterministic.
type seqSource struct {
	values []int64
	i      int
}

func (s *seqSource) Int63() int64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func (s *seqSource) Seed(int64) {}

func testCharacter(level int) *models.Character {
	return &models.Character{
		ID:    1,
		Name:  "Test Pirate",
		Level: level,
		BaseStats: content.StatBlock{
			Strength: 10, Agility: 10, Durability: 14, Intelligence: 10,
		},
	}
}

func testEnemy(hp, attack, defense int) Enemy {
	return Enemy{Name: "Pirate Thug", Type: "Human Pirate", Level: 1, HP: hp, Attack: attack, Defense: defense}
}

func TestNewBattle_DerivedStats(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ch := testCharacter(3)
	b := NewBattle(rng, ch, content.Race{}, testEnemy(100, 20, 5), "East Blue")

	if b.PlayerMaxHP != 230 { // 100 + 3*20 + 14*5
		t.Errorf("max hp = %d, want 230", b.PlayerMaxHP)
	}
	if b.PlayerHP != b.PlayerMaxHP {
		t.Errorf("battle opened at %d/%d hp", b.PlayerHP, b.PlayerMaxHP)
	}
	if b.PlayerAttack != 49 { // 20 + 3*3 + 10*2
		t.Errorf("attack = %d, want 49", b.PlayerAttack)
	}
	if b.PlayerDefense != 30 { // 10 + 3*2 + 14
		t.Errorf("defense = %d, want 30", b.PlayerDefense)
	}
	if b.EnemyHP != 100 {
		t.Errorf("enemy hp = %d, want 100", b.EnemyHP)
	}
}

func TestNewBattle_RacialBonuses(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	giant := content.Race{
		Name:        "Giant",
		StatBonuses: content.StatBlock{Strength: 4, Agility: -2, Durability: 2},
	}
	b := NewBattle(rng, testCharacter(1), giant, testEnemy(100, 20, 5), "East Blue")

	if b.PlayerMaxHP != 200 { // 100 + 20 + 16*5
		t.Errorf("max hp = %d, want 200", b.PlayerMaxHP)
	}
	if b.PlayerAttack != 51 { // 20 + 3 + 14*2
		t.Errorf("attack = %d, want 51", b.PlayerAttack)
	}
}

func TestSpecialAttackName(t *testing.T) {
	b := &Battle{Race: content.Race{SpecialAttack: "Electro"}}
	if got := b.SpecialAttackName(); got != "Electro" {
		t.Errorf("special = %q, want Electro", got)
	}
	b = &Battle{}
	if got := b.SpecialAttackName(); got != "Special Attack" {
		t.Errorf("special fallback = %q", got)
	}
}

func TestBattle_Turn_AttackDamageBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := NewBattle(rng, testCharacter(3), content.Race{}, testEnemy(100000, 20, 10), "East Blue")

	before := b.EnemyHP
	b.Turn(ActionAttack)
	dmg := before - b.EnemyHP

	lo := int(float64(b.PlayerAttack)*0.8) - 5 // enemy defense / 2
	hi := int(float64(b.PlayerAttack)*1.2) - 5
	if dmg < lo || dmg > hi {
		t.Errorf("attack damage = %d, want within [%d, %d]", dmg, lo, hi)
	}
	if len(b.Log) != 2 {
		t.Errorf("log has %d lines, want player attack and enemy reply", len(b.Log))
	}
}

func TestBattle_Turn_SpecialIsDeterministic(t *testing.T) {
	// Unlike the basic attack, the special carries no damage roll: every use
	// against the same defense deals exactly floor(1.5*attack) - defense/2.
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		b := NewBattle(rng, testCharacter(3), content.Race{}, testEnemy(100000, 20, 10), "East Blue")

		want := int(float64(b.PlayerAttack)*1.5) - 10/2
		before := b.EnemyHP
		b.Turn(ActionSpecial)
		if dmg := before - b.EnemyHP; dmg != want {
			t.Fatalf("seed %d: special damage = %d, want %d", seed, dmg, want)
		}
	}
}

func TestBattle_Turn_DefendHalvesDamage(t *testing.T) {
	// Int63 of zero makes every enemy roll land on its floor.
	rng := rand.New(&seqSource{values: []int64{0}})
	b := NewBattle(rng, testCharacter(1), content.Race{}, testEnemy(100000, 40, 0), "East Blue")

	before := b.PlayerHP
	outcome := b.Turn(ActionDefend)
	if outcome != OutcomeOngoing {
		t.Fatalf("outcome = %v, want ongoing", outcome)
	}
	got := before - b.PlayerHP
	want := int(float64(40)*0.7) / 2 // floor roll, halved
	if got != want {
		t.Errorf("defended damage = %d, want %d", got, want)
	}
}

func TestBattle_Turn_Victory(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := NewBattle(rng, testCharacter(3), content.Race{}, testEnemy(1, 20, 0), "East Blue")

	before := b.PlayerHP
	if outcome := b.Turn(ActionAttack); outcome != OutcomeVictory {
		t.Fatalf("outcome = %v, want victory", outcome)
	}
	if b.PlayerHP != before {
		t.Errorf("defeated enemy still dealt damage")
	}
}

func TestBattle_Turn_Defeat(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := NewBattle(rng, testCharacter(1), content.Race{}, testEnemy(100000, 40, 50), "East Blue")
	b.PlayerHP = 1

	if outcome := b.Turn(ActionDefend); outcome != OutcomeDefeat {
		t.Fatalf("outcome = %v, want defeat", outcome)
	}
	if b.PlayerHP != 0 {
		t.Errorf("hp = %d, want 0", b.PlayerHP)
	}
}

func TestBattle_Turn_FleeAlwaysEscapesAtHighAgility(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	ch := testCharacter(1)
	ch.BaseStats.Agility = 25 // escape chance caps out
	b := NewBattle(rng, ch, content.Race{}, testEnemy(100, 20, 5), "East Blue")

	if outcome := b.Turn(ActionFlee); outcome != OutcomeFled {
		t.Errorf("outcome = %v, want fled", outcome)
	}
}

func TestBattle_Turn_FailedFleeTakesUnmitigatedHit(t *testing.T) {
	// First value sinks the escape roll, the zero floors the enemy roll.
	rng := rand.New(&seqSource{values: []int64{1 << 62, 0}})
	ch := testCharacter(1)
	ch.BaseStats.Agility = 0
	b := NewBattle(rng, ch, content.Race{}, testEnemy(100000, 40, 0), "East Blue")

	before := b.PlayerHP
	if outcome := b.Turn(ActionFlee); outcome != OutcomeOngoing {
		t.Fatalf("outcome = %v, want ongoing", outcome)
	}
	got := before - b.PlayerHP
	want := int(float64(40) * 0.7) // no defense applied
	if got != want {
		t.Errorf("failed flee damage = %d, want %d", got, want)
	}
}

func TestRecentLog(t *testing.T) {
	b := &Battle{Log: []string{"a", "b", "c", "d"}}
	got := b.RecentLog(2)
	if len(got) != 2 || got[0] != "c" || got[1] != "d" {
		t.Errorf("RecentLog(2) = %v", got)
	}
	if got := b.RecentLog(10); len(got) != 4 {
		t.Errorf("RecentLog(10) = %v", got)
	}
}

func TestDefeatBerryLoss(t *testing.T) {
	tests := []struct {
		berries int64
		want    int64
	}{
		{0, 0},
		{1000, 250},
		{20000, 5000},
		{100000, 5000}, // capped
	}
	for _, tt := range tests {
		if got := DefeatBerryLoss(tt.berries); got != tt.want {
			t.Errorf("DefeatBerryLoss(%d) = %d, want %d", tt.berries, got, tt.want)
		}
	}
}

func TestGenerateEnemy(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 50; i++ {
		e := GenerateEnemy(rng, "East Blue", 1)
		if e.Level < 1 {
			t.Fatalf("enemy level = %d, want >= 1", e.Level)
		}
		if e.HP <= 0 || e.Attack <= 0 || e.Defense <= 0 {
			t.Fatalf("enemy stats not positive: %+v", e)
		}
		if len(e.Drops) == 0 {
			t.Fatalf("enemy rolled no drops: %+v", e)
		}
	}
}

func TestGenerateEnemy_UnknownLocationFallsBack(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	e := GenerateEnemy(rng, "Calm Belt", 3)
	names := map[string]bool{}
	for _, tpl := range enemyPools["East Blue"] {
		names[tpl.name] = true
	}
	if !names[e.Name] {
		t.Errorf("unknown location rolled %q, want an East Blue enemy", e.Name)
	}
}

func TestLocations(t *testing.T) {
	want := []string{"East Blue", "Grand Line", "New World"}
	got := Locations()
	if len(got) != len(want) {
		t.Fatalf("Locations() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Locations()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
