package combat

import (
	"math/rand"

	"github.com/grandline-rpg/grandline/bot/content"
	"github.com/grandline-rpg/grandline/bot/database/models"
)

// PvP stakes.
const (
	PvPWinnerXP         = 200
	PvPWinnerBounty     = 5_000_000
	MaxPvPBerryTransfer = 10_000
)

// PvPResult reports who won a duel and what changed hands. Winner and Loser
// alias the fighters passed to ResolvePvP.
type PvPResult struct {
	Winner        *models.Character
	Loser         *models.Character
	WinnerRoll    int
	LoserRoll     int
	BerryTransfer int64
}

// PvPPower is a fighter's deterministic duel power: total effective stats
// plus ten per level.
func PvPPower(ch *models.Character, race content.Race) int {
	return ch.EffectiveStats(race).Total() + ch.Level*10
}

// ResolvePvP settles a duel in a single opposed roll of d100 plus power.
// A tie goes to the challenged side. The loser hands over a quarter of their
// berries, capped; the winner takes experience and a bounty bump. Callers
// persist both characters afterwards.
func ResolvePvP(rng *rand.Rand, challenger, challenged *models.Character, challengerRace, challengedRace content.Race) PvPResult {
	challengerRoll := 1 + rng.Intn(100) + PvPPower(challenger, challengerRace)
	challengedRoll := 1 + rng.Intn(100) + PvPPower(challenged, challengedRace)

	res := PvPResult{}
	if challengerRoll > challengedRoll {
		res.Winner, res.Loser = challenger, challenged
		res.WinnerRoll, res.LoserRoll = challengerRoll, challengedRoll
	} else {
		res.Winner, res.Loser = challenged, challenger
		res.WinnerRoll, res.LoserRoll = challengedRoll, challengerRoll
	}

	winnerRace := challengerRace
	if res.Winner == challenged {
		winnerRace = challengedRace
	}
	res.Winner.GrantXP(PvPWinnerXP, winnerRace)
	res.Winner.AddBounty(PvPWinnerBounty)

	transfer := res.Loser.Berries() / 4
	if transfer > MaxPvPBerryTransfer {
		transfer = MaxPvPBerryTransfer
	}
	if transfer > 0 {
		res.Loser.AddItem(models.BerryItem, -transfer)
		res.Winner.AddItem(models.BerryItem, transfer)
	}
	res.BerryTransfer = transfer
	return res
}
