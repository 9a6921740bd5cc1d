package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/grandline-rpg/grandline/bot"
	"github.com/grandline-rpg/grandline/bot/engine/combat"
)

// A challenge left unanswered goes stale; acting on it afterward is refused.
const duelChallengeTTL = 2 * time.Minute

var Challenge = discord.SlashCommandCreate{
	Name:        "challenge",
	Description: "🤺 Challenge another player to a duel",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "opponent",
			Description: "The player to challenge",
			Required:    true,
		},
	},
}

func ChallengeHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}

		opponent := e.SlashCommandInteractionData().User("opponent")
		challengerID := e.User().ID.String()
		if opponent.ID.String() == challengerID {
			return errorMessage(e, "Dueling your own reflection impresses nobody.")
		}
		if opponent.Bot {
			return errorMessage(e, "The machine declines.")
		}

		target, err := b.CharacterService.Active(ctx, opponent.ID.String())
		if err != nil {
			return errorMessage(e, fmt.Sprintf("%s has no character to fight with.", opponent.Username))
		}

		issued := time.Now().Unix()
		components := []discord.ContainerComponent{
			discord.NewActionRow(
				discord.NewSuccessButton("⚔️ Accept", fmt.Sprintf("/duel/accept/%s/%s/%d", challengerID, opponent.ID, issued)),
				discord.NewDangerButton("🏳️ Decline", fmt.Sprintf("/duel/decline/%s/%s/%d", challengerID, opponent.ID, issued)),
			),
		}
		return e.CreateMessage(discord.MessageCreate{
			Content: opponent.Mention(),
			Embeds: []discord.Embed{{
				Title: "🤺 A duel is declared!",
				Description: fmt.Sprintf("**%s** (Lv %d) challenges **%s** (Lv %d). Do you accept?",
					ch.Name, ch.Level, target.Name, target.Level),
				Color: ColorGold,
			}},
			Components: components,
		})
	}
}

// DuelComponentHandler settles a duel once the challenged player answers.
// Only the challenged side may press the buttons.
func DuelComponentHandler(b *bot.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		data := e.Data.(discord.ButtonInteractionData)
		parts := strings.Split(data.CustomID(), "/")
		if len(parts) != 6 {
			return nil
		}
		verdict, challengerID, challengedID := parts[2], parts[3], parts[4]

		if e.User().ID.String() != challengedID {
			return e.CreateMessage(discord.MessageCreate{
				Content: "Only the challenged pirate can answer this.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		noButtons := []discord.ContainerComponent{}
		issued, err := strconv.ParseInt(parts[5], 10, 64)
		if err != nil || time.Since(time.Unix(issued, 0)) > duelChallengeTTL {
			return e.UpdateMessage(discord.MessageUpdate{
				Embeds: &[]discord.Embed{{
					Description: "⌛ This challenge has gone stale. Issue a fresh one.",
					Color:       ColorInfo,
				}},
				Components: &noButtons,
			})
		}

		if verdict == "decline" {
			return e.UpdateMessage(discord.MessageUpdate{
				Embeds: &[]discord.Embed{{
					Description: "🏳️ The challenge is declined. The sea stays calm, for now.",
					Color:       ColorInfo,
				}},
				Components: &noButtons,
			})
		}

		challenger, err := b.CharacterService.Active(ctx, challengerID)
		if err != nil {
			return duelError(e, "The challenger's character is gone.")
		}
		challenged, err := b.CharacterService.Active(ctx, challengedID)
		if err != nil {
			return duelError(e, "Your character is gone.")
		}

		res, err := b.CombatService.Duel(ctx, challengerID, challengedID, challenger, challenged)
		if err != nil {
			switch {
			case errors.Is(err, combat.ErrOnCooldown):
				return duelError(e, "One of you is still catching their breath.")
			case errors.Is(err, combat.ErrBattleInProgress):
				return duelError(e, "One of you is already mid-battle.")
			default:
				return duelError(e, "The duel could not be settled.")
			}
		}

		winnerMention := mentionFor(challengerID, res.Winner.ID == challenger.ID, challengedID)
		desc := fmt.Sprintf("**%s** rolls %d against **%s**'s %d and takes the day!\n\n%s claims +%d XP and a %s bounty bump.",
			res.Winner.Name, res.WinnerRoll, res.Loser.Name, res.LoserRoll,
			winnerMention, combat.PvPWinnerXP, formatBerries(combat.PvPWinnerBounty))
		if res.BerryTransfer > 0 {
			desc += fmt.Sprintf("\n%s hands over %s.", res.Loser.Name, formatBerries(res.BerryTransfer))
		}
		return e.UpdateMessage(discord.MessageUpdate{
			Embeds: &[]discord.Embed{{
				Title:       fmt.Sprintf("🏆 %s wins the duel!", res.Winner.Name),
				Description: desc,
				Color:       ColorGold,
			}},
			Components: &noButtons,
		})
	}
}

func duelError(e *handler.ComponentEvent, desc string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{Description: "❌ " + desc, Color: ColorError}},
		Flags:  discord.MessageFlagEphemeral,
	})
}

func mentionFor(challengerID string, challengerWon bool, challengedID string) string {
	id := challengedID
	if challengerWon {
		id = challengerID
	}
	sf, err := snowflake.Parse(id)
	if err != nil {
		return id
	}
	return discord.UserMention(sf)
}
