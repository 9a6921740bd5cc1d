package content

// StatBlock is the shared attribute layout for characters, races, allies and
// combat math.
type StatBlock struct {
	Strength     int `yaml:"strength" json:"strength"`
	Agility      int `yaml:"agility" json:"agility"`
	Durability   int `yaml:"durability" json:"durability"`
	Intelligence int `yaml:"intelligence" json:"intelligence"`
}

// Total sums every attribute in the block.
func (s StatBlock) Total() int {
	return s.Strength + s.Agility + s.Durability + s.Intelligence
}

// Add returns the component-wise sum of two blocks.
func (s StatBlock) Add(o StatBlock) StatBlock {
	return StatBlock{
		Strength:     s.Strength + o.Strength,
		Agility:      s.Agility + o.Agility,
		Durability:   s.Durability + o.Durability,
		Intelligence: s.Intelligence + o.Intelligence,
	}
}

// Race describes a playable race: stat bonuses, the experience multiplier
// applied on grants, and the flavor name of its special combat attack.
type Race struct {
	Name          string    `yaml:"name"`
	Description   string    `yaml:"description"`
	StatBonuses   StatBlock `yaml:"stat_bonuses"`
	XPMultiplier  float64   `yaml:"xp_multiplier"`
	SpecialAttack string    `yaml:"special_attack"`
}

// Origin is a starting location with its associated starting faction and the
// items and stat points a fresh character is seeded with.
type Origin struct {
	Name            string    `yaml:"name"`
	Description     string    `yaml:"description"`
	StartingFaction string    `yaml:"starting_faction"`
	StartingItems   []string  `yaml:"starting_items"`
	StartingStats   StatBlock `yaml:"starting_stats"`
}

// Dream is a long-term character goal referenced by quest and recruitment
// requirements.
type Dream struct {
	Name          string    `yaml:"name"`
	Description   string    `yaml:"description"`
	StartingItems []string  `yaml:"starting_items"`
	StartingStats StatBlock `yaml:"starting_stats"`
}

// FactionRank is a named reputation tier with its score threshold.
type FactionRank struct {
	Name      string `yaml:"name"`
	Threshold int    `yaml:"threshold"`
}

// FactionBenefit is a perk unlocked by standing with a faction. Numeric
// benefits scale with reputation; boolean ones are all-or-nothing.
type FactionBenefit struct {
	Name    string  `yaml:"name"`
	Value   float64 `yaml:"value"`
	Boolean bool    `yaml:"boolean"`
}

// FactionMilestone is a one-time achievement fired when reputation first
// crosses its threshold.
type FactionMilestone struct {
	Threshold int      `yaml:"threshold"`
	Name      string   `yaml:"name"`
	Bonus     string   `yaml:"bonus"`
	Unlocks   []string `yaml:"unlocks"`
}

// Faction is one of the world powers a character can hold standing with.
// Relationships map other faction names to ally/enemy and drive reputation
// spillover.
type Faction struct {
	Name          string             `yaml:"name"`
	Description   string             `yaml:"description"`
	Ranks         []FactionRank      `yaml:"ranks"`
	Benefits      []FactionBenefit   `yaml:"benefits"`
	Milestones    []FactionMilestone `yaml:"milestones"`
	Relationships map[string]string  `yaml:"relationships"`
}

// ShipType is a hull class with its base stats, purchase price and the
// multiplier it applies to upgrade costs.
type ShipType struct {
	Name           string  `yaml:"name"`
	Description    string  `yaml:"description"`
	BaseDurability int     `yaml:"base_durability"`
	BaseSpeed      int     `yaml:"base_speed"`
	CargoCapacity  int     `yaml:"cargo_capacity"`
	CrewCapacity   int     `yaml:"crew_capacity"`
	Firepower      int     `yaml:"firepower"`
	CostMultiplier float64 `yaml:"cost_multiplier"`
	Price          int64   `yaml:"price"`
}

// ShipUpgrade is an installable improvement. Requirements use crew_level:,
// ship_type: and upgrade: tokens.
type ShipUpgrade struct {
	ID              string        `yaml:"id"`
	Name            string        `yaml:"name"`
	Description     string        `yaml:"description"`
	BaseCost        int64         `yaml:"base_cost"`
	DurabilityBoost int           `yaml:"durability_boost"`
	SpeedBoost      int           `yaml:"speed_boost"`
	CargoBoost      int           `yaml:"cargo_boost"`
	FirepowerBoost  int           `yaml:"firepower_boost"`
	RawRequirements []string      `yaml:"requirements"`
	Requirements    []Requirement `yaml:"-"`
}

// QuestObjective is a single tracked goal inside a quest.
type QuestObjective struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Target      string `yaml:"target"`
	Required    int    `yaml:"required"`
}

// QuestReward is everything a quest pays out on completion.
type QuestReward struct {
	XP         int64          `yaml:"xp"`
	Berry      int64          `yaml:"berry"`
	Bounty     int64          `yaml:"bounty"`
	Items      map[string]int `yaml:"items"`
	Ship       string         `yaml:"ship"`
	Reputation map[string]int `yaml:"reputation"`
	Unlocks    []string       `yaml:"unlocks"`
}

// Quest is a story or side quest. Empty allow-lists pass everyone; choices map
// a decision point to its permitted options.
type Quest struct {
	ID            string              `yaml:"id"`
	Name          string              `yaml:"name"`
	Description   string              `yaml:"description"`
	Saga          string              `yaml:"saga"`
	Arc           string              `yaml:"arc"`
	Difficulty    string              `yaml:"difficulty"`
	LevelRequired int                 `yaml:"level_required"`
	Origins       []string            `yaml:"origins"`
	Dreams        []string            `yaml:"dreams"`
	Factions      []string            `yaml:"factions"`
	Prerequisites []string            `yaml:"prerequisites"`
	Objectives    []QuestObjective    `yaml:"objectives"`
	Choices       map[string][]string `yaml:"choices"`
	Rewards       QuestReward         `yaml:"rewards"`
}

// Ability is an active skill carried by an ally.
type Ability struct {
	Name     string             `yaml:"name"`
	Type     string             `yaml:"type"`
	Cooldown int                `yaml:"cooldown"`
	Effect   map[string]float64 `yaml:"effect"`
}

// Ally is a recruitable companion: base stats scale with ally level and bond,
// and passive effects apply outside combat. The recruit cost maps resource
// names to amounts; only the berry component is discounted by reputation.
type Ally struct {
	ID              string             `yaml:"id"`
	Name            string             `yaml:"name"`
	Title           string             `yaml:"title"`
	Description     string             `yaml:"description"`
	Rarity          string             `yaml:"rarity"`
	Faction         string             `yaml:"faction"`
	BaseStats       StatBlock          `yaml:"base_stats"`
	Abilities       []Ability          `yaml:"abilities"`
	PassiveEffects  map[string]float64 `yaml:"passive_effects"`
	RecruitCost     map[string]int64   `yaml:"recruit_cost"`
	RawRequirements []string           `yaml:"requirements"`
	Requirements    []Requirement      `yaml:"-"`
}
