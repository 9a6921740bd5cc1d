package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/grandline-rpg/grandline/bot"
)

var Reputation = discord.SlashCommandCreate{
	Name:        "reputation",
	Description: "⚖️ Your standing with the world's factions",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "view",
			Description: "Your standing with every faction you have dealt with",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "benefits",
			Description: "The combined perks your reputation earns you",
		},
	},
}

func alignmentEmoji(alignment string) string {
	switch alignment {
	case "Ally":
		return "💚"
	case "Friendly":
		return "🙂"
	case "Hostile":
		return "😠"
	case "Enemy":
		return "💀"
	default:
		return "😐"
	}
}

func ReputationViewHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}
		standings, err := b.ReputationService.Standings(ctx, ch.ID)
		if err != nil {
			return errorMessage(e, "Failed to look up your standing.")
		}
		if len(standings) == 0 {
			return errorMessage(e, "The world does not know your name yet.")
		}

		var sb strings.Builder
		for _, rep := range standings {
			alignment := rep.Alignment()
			fmt.Fprintf(&sb, "%s **%s** — %d (%s), rank: %s\n",
				alignmentEmoji(alignment), rep.Faction, rep.Score, alignment, rep.Rank)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("⚖️ %s's reputation", ch.Name),
				Description: sb.String(),
				Color:       ColorInfo,
			}},
		})
	}
}

func ReputationBenefitsHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}
		benefits, err := b.ReputationService.Benefits(ctx, ch.ID)
		if err != nil {
			return errorMessage(e, "Failed to tally your perks.")
		}
		if len(benefits) == 0 {
			return errorMessage(e, "No faction owes you anything yet. Earn some goodwill first.")
		}

		names := make([]string, 0, len(benefits))
		for name := range benefits {
			names = append(names, name)
		}
		sort.Strings(names)

		var sb strings.Builder
		for _, name := range names {
			v := benefits[name]
			if v == 1 {
				fmt.Fprintf(&sb, "• **%s**\n", name)
				continue
			}
			fmt.Fprintf(&sb, "• **%s** +%.0f%%\n", name, v*100)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "⚖️ Earned perks",
				Description: sb.String(),
				Color:       ColorGold,
			}},
		})
	}
}
