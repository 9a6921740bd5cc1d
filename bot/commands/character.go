package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/grandline-rpg/grandline/bot"
	"github.com/grandline-rpg/grandline/bot/database/repositories"
)

var Character = discord.SlashCommandCreate{
	Name:        "character",
	Description: "🧭 Create and inspect your characters",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "create",
			Description: "Start a new adventure",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Your character's name",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:         "race",
					Description:  "Your character's race",
					Required:     true,
					Autocomplete: true,
				},
				discord.ApplicationCommandOptionString{
					Name:         "origin",
					Description:  "Where your story begins",
					Required:     true,
					Autocomplete: true,
				},
				discord.ApplicationCommandOptionString{
					Name:         "dream",
					Description:  "The dream you chase",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "info",
			Description: "Show your active character",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "List all your characters",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "delete",
			Description: "Delete one of your characters",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Name of the character to delete",
					Required:    true,
				},
			},
		},
	},
}

func CharacterCreateHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		data := e.SlashCommandInteractionData()
		ch, err := b.CharacterService.Create(ctx,
			e.User().ID.String(),
			data.String("name"),
			data.String("race"),
			data.String("origin"),
			data.String("dream"),
		)
		if err != nil {
			if repositories.IsConflict(err) {
				return errorMessage(e, "You already have a character by that name, or your roster is full.")
			}
			return errorMessage(e, err.Error())
		}

		stats := b.CharacterService.EffectiveStats(ch)
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: fmt.Sprintf("🌊 %s sets sail!", ch.Name),
				Description: fmt.Sprintf(
					"**Race:** %s\n**Origin:** %s\n**Dream:** %s\n**Faction:** %s\n\n"+
						"💪 %d  🏃 %d  🛡️ %d  🧠 %d",
					ch.Race, ch.Origin, ch.Dream, ch.Faction,
					stats.Strength, stats.Agility, stats.Durability, stats.Intelligence),
				Color: ColorSuccess,
			}},
		})
	}
}

func CharacterInfoHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := b.CharacterService.Active(ctx, e.User().ID.String())
		if err != nil {
			if repositories.IsNotFound(err) {
				return errorMessage(e, "You have no character yet. Use `/character create` to start.")
			}
			return errorMessage(e, "Failed to fetch your character.")
		}

		stats := b.CharacterService.EffectiveStats(ch)
		allyBonus, err := b.AllyService.TotalBonus(ctx, ch.ID)
		if err == nil {
			stats = stats.Add(allyBonus)
		}

		var inv strings.Builder
		for item, count := range ch.Inventory {
			fmt.Fprintf(&inv, "%s ×%d\n", item, count)
		}
		if inv.Len() == 0 {
			inv.WriteString("Empty")
		}

		now := time.Now()
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: fmt.Sprintf("%s — Level %d %s", ch.Name, ch.Level, ch.Race),
				Description: fmt.Sprintf(
					"**Origin:** %s\n**Dream:** %s\n**Faction:** %s\n**Bounty:** %s\n**Berries:** %s",
					ch.Origin, ch.Dream, ch.Faction,
					formatBerries(ch.Bounty), formatBerries(ch.Berries())),
				Fields: []discord.EmbedField{
					{Name: "Stats", Value: fmt.Sprintf(
						"💪 Strength %d\n🏃 Agility %d\n🛡️ Durability %d\n🧠 Intelligence %d",
						stats.Strength, stats.Agility, stats.Durability, stats.Intelligence)},
					{Name: "Inventory", Value: inv.String()},
				},
				Color:     ColorInfo,
				Timestamp: &now,
			}},
		})
	}
}

func CharacterListHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		chars, err := b.CharacterService.List(ctx, e.User().ID.String())
		if err != nil {
			return errorMessage(e, "Failed to list your characters.")
		}
		if len(chars) == 0 {
			return errorMessage(e, "You have no characters yet. Use `/character create` to start.")
		}

		var sb strings.Builder
		for _, ch := range chars {
			fmt.Fprintf(&sb, "**%s** — Level %d %s of %s\n", ch.Name, ch.Level, ch.Race, ch.Origin)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "Your characters",
				Description: sb.String(),
				Color:       ColorInfo,
			}},
		})
	}
}

func CharacterDeleteHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		name := e.SlashCommandInteractionData().String("name")
		chars, err := b.CharacterService.List(ctx, e.User().ID.String())
		if err != nil {
			return errorMessage(e, "Failed to look up your characters.")
		}
		for _, ch := range chars {
			if ch.Name != name {
				continue
			}
			if err := b.CharacterService.Delete(ctx, ch); err != nil {
				return errorMessage(e, "Failed to delete the character.")
			}
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Description: fmt.Sprintf("⚓ %s has left the seas.", name),
					Color:       ColorSuccess,
				}},
			})
		}
		return errorMessage(e, fmt.Sprintf("You have no character named %q.", name))
	}
}

// CharacterAutocompleteHandler fills race, origin and dream options from the
// content tables.
func CharacterAutocompleteHandler(b *bot.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		focused := e.Data.Focused()

		var names []string
		switch focused.Name {
		case "race":
			names = b.Tables.RaceNames()
		case "origin":
			names = b.Tables.OriginNames()
		case "dream":
			names = b.Tables.DreamNames()
		default:
			return e.AutocompleteResult(nil)
		}

		query := strings.ToLower(e.Data.String(focused.Name))
		choices := make([]discord.AutocompleteChoice, 0, maxAutocompleteChoices)
		for _, name := range names {
			if query != "" && !strings.Contains(strings.ToLower(name), query) {
				continue
			}
			if len(choices) >= maxAutocompleteChoices {
				break
			}
			choices = append(choices, discord.AutocompleteChoiceString{Name: name, Value: name})
		}
		return e.AutocompleteResult(choices)
	}
}
