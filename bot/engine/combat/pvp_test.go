package combat

import (
	"math/rand"
	"testing"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
)

func TestPvPPower(t *testing.T) {
	ch := testCharacter(3) // stats total 44
	if got := PvPPower(ch, content.Race{}); got != 74 {
		t.Errorf("power = %d, want 74", got)
	}
	giant := content.Race{StatBonuses: content.StatBlock{Strength: 4, Agility: -2, Durability: 2}}
	if got := PvPPower(ch, giant); got != 78 {
		t.Errorf("power with racial bonus = %d, want 78", got)
	}
}

func TestResolvePvP_StrongerFighterWins(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	strong := testCharacter(50)
	strong.BaseStats = content.StatBlock{Strength: 100, Agility: 100, Durability: 100, Intelligence: 100}
	weak := testCharacter(1)
	weak.AddItem(models.BerryItem, 100000)

	res := ResolvePvP(rng, strong, weak, content.Race{}, content.Race{})

	if res.Winner != strong || res.Loser != weak {
		t.Fatalf("winner = %q", res.Winner.Name)
	}
	if res.WinnerRoll <= res.LoserRoll {
		t.Errorf("rolls = %d vs %d", res.WinnerRoll, res.LoserRoll)
	}
	if res.BerryTransfer != MaxPvPBerryTransfer {
		t.Errorf("transfer = %d, want capped at %d", res.BerryTransfer, MaxPvPBerryTransfer)
	}
	if weak.Berries() != 90000 {
		t.Errorf("loser berries = %d, want 90000", weak.Berries())
	}
	if strong.Berries() != MaxPvPBerryTransfer {
		t.Errorf("winner berries = %d, want %d", strong.Berries(), MaxPvPBerryTransfer)
	}
	if strong.Bounty != PvPWinnerBounty {
		t.Errorf("winner bounty = %d, want %d", strong.Bounty, PvPWinnerBounty)
	}
	if strong.XP != PvPWinnerXP {
		t.Errorf("winner xp = %d, want %d", strong.XP, PvPWinnerXP)
	}
}

func TestResolvePvP_TieGoesToChallenged(t *testing.T) {
	// A constant source gives both sides the same roll.
	rng := rand.New(&seqSource{values: []int64{0}})
	challenger := testCharacter(2)
	challenged := testCharacter(2)

	res := ResolvePvP(rng, challenger, challenged, content.Race{}, content.Race{})
	if res.Winner != challenged {
		t.Errorf("tie went to the challenger")
	}
	if res.WinnerRoll != res.LoserRoll {
		t.Errorf("rolls = %d vs %d, want equal", res.WinnerRoll, res.LoserRoll)
	}
}

func TestResolvePvP_UncappedTransfer(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	strong := testCharacter(50)
	strong.BaseStats = content.StatBlock{Strength: 100, Agility: 100, Durability: 100, Intelligence: 100}
	weak := testCharacter(1)
	weak.AddItem(models.BerryItem, 4000)

	res := ResolvePvP(rng, strong, weak, content.Race{}, content.Race{})
	if res.BerryTransfer != 1000 {
		t.Errorf("transfer = %d, want 1000", res.BerryTransfer)
	}
	if weak.Berries() != 3000 {
		t.Errorf("loser berries = %d, want 3000", weak.Berries())
	}
}

func TestResolvePvP_BrokeFighterOwesNothing(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	strong := testCharacter(50)
	strong.BaseStats = content.StatBlock{Strength: 100, Agility: 100, Durability: 100, Intelligence: 100}
	weak := testCharacter(1)

	res := ResolvePvP(rng, strong, weak, content.Race{}, content.Race{})
	if res.BerryTransfer != 0 {
		t.Errorf("transfer = %d, want 0", res.BerryTransfer)
	}
	if strong.Berries() != 0 {
		t.Errorf("winner berries = %d, want 0", strong.Berries())
	}
}
