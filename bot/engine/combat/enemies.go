package combat

import "math/rand"

// Enemy is a generated PvE opponent, fully resolved at encounter time.
type Enemy struct {
	Name        string
	Type        string
	Level       int
	Difficulty  float64
	HP          int
	Attack      int
	Defense     int
	XPReward    int64
	BerryReward int64
	Drops       []string
}

type enemyTemplate struct {
	name       string
	kind       string
	difficulty float64
}

// Enemy pools per explorable sea. Unknown locations fall back to East Blue.
var enemyPools = map[string][]enemyTemplate{
	"East Blue": {
		{"Pirate Thug", "Human Pirate", 0.8},
		{"Marine Soldier", "Marine", 1.0},
		{"Bandit", "Criminal", 0.7},
		{"Sea King (Small)", "Sea Monster", 1.5},
	},
	"Grand Line": {
		{"Veteran Pirate", "Experienced Fighter", 1.2},
		{"Baroque Works Agent", "Assassin", 1.4},
		{"Giant Warrior", "Giant", 2.0},
		{"Devil Fruit User", "Power User", 1.8},
	},
	"New World": {
		{"Yonko Subordinate", "Elite Pirate", 2.5},
		{"Marine Vice Admiral", "High-Ranking Marine", 2.8},
		{"CP9 Agent", "Government Assassin", 3.0},
		{"Sea King (Large)", "Ancient Beast", 3.5},
	},
}

var enemyDrops = map[string][]string{
	"Human Pirate": {"Rusty Sword", "Pirate Bandana", "Treasure Map Fragment"},
	"Marine":       {"Marine Badge", "Standard Sword", "Justice Medal"},
	"Criminal":     {"Stolen Goods", "Lockpicks", "Bounty Poster"},
	"Sea Monster":  {"Sea King Meat", "Monster Scale", "Ancient Bone"},
	"Giant":        {"Giant's Club", "Warrior's Honor", "Elbaf Steel"},
	"Power User":   {"Devil Fruit Guide", "Power Essence", "Rare Material"},
}

// Locations lists the explorable seas in difficulty order.
func Locations() []string {
	return []string{"East Blue", "Grand Line", "New World"}
}

// GenerateEnemy rolls an opponent from the location pool, scaled to within
// two levels of the player and up by the template's difficulty.
func GenerateEnemy(rng *rand.Rand, location string, playerLevel int) Enemy {
	pool, ok := enemyPools[location]
	if !ok {
		pool = enemyPools["East Blue"]
	}
	tpl := pool[rng.Intn(len(pool))]

	level := playerLevel + rng.Intn(5) - 2
	if level < 1 {
		level = 1
	}
	diff := tpl.difficulty

	return Enemy{
		Name:        tpl.name,
		Type:        tpl.kind,
		Level:       level,
		Difficulty:  diff,
		HP:          int(50 + float64(level*20)*diff),
		Attack:      int(10 + float64(level*5)*diff),
		Defense:     int(5 + float64(level*3)*diff),
		XPReward:    int64(50 + float64(level*25)*diff),
		BerryReward: int64(1000 + float64(level*500)*diff),
		Drops:       rollDrops(rng, tpl.kind, level),
	}
}

// rollDrops samples loot from the enemy type's table without replacement.
// Higher level enemies drop more, up to three items.
func rollDrops(rng *rand.Rand, enemyType string, level int) []string {
	table, ok := enemyDrops[enemyType]
	if !ok {
		return []string{"Basic Item"}
	}

	maxDrops := level / 5
	if maxDrops < 1 {
		maxDrops = 1
	}
	if maxDrops > 3 {
		maxDrops = 3
	}
	n := 1 + rng.Intn(maxDrops)
	if n > len(table) {
		n = len(table)
	}

	picks := rng.Perm(len(table))[:n]
	drops := make([]string, 0, n)
	for _, i := range picks {
		drops = append(drops, table[i])
	}
	return drops
}
