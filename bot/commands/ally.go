package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/grandline-rpg/grandline/bot"
	"github.com/grandline-rpg/grandline/bot/database/models"
	"github.com/grandline-rpg/grandline/bot/database/repositories"
	"github.com/grandline-rpg/grandline/bot/services"
)

var Ally = discord.SlashCommandCreate{
	Name:        "ally",
	Description: "🤝 Recruit and train companions for your journey",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "recruitable",
			Description: "Allies you currently qualify to recruit",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "recruit",
			Description: "Recruit an ally",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "ally",
					Description:  "The ally to recruit",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "roster",
			Description: "Your recruited allies",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "train",
			Description: "Train an ally to raise their level",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "ally",
					Description:  "The ally to train",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "bond",
			Description: "Spend time with an ally to deepen your bond",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "ally",
					Description:  "The ally to bond with",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	},
}

const (
	trainingXP    = 50
	bondingPoints = 10
)

func formatCost(cost map[string]int64) string {
	keys := make([]string, 0, len(cost))
	for k := range cost {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "berry" {
			parts = append(parts, formatBerries(cost[k]))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d× %s", cost[k], k))
	}
	return strings.Join(parts, ", ")
}

func AllyRecruitableHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}
		allies, err := b.AllyService.Recruitable(ctx, ch)
		if err != nil {
			return errorMessage(e, "Failed to look up allies.")
		}
		if len(allies) == 0 {
			return errorMessage(e, "Nobody is willing to join you yet. Make a name for yourself first.")
		}

		fields := make([]discord.EmbedField, 0, len(allies))
		for _, a := range allies {
			cost, err := b.AllyService.Cost(ctx, ch, a)
			if err != nil {
				return errorMessage(e, "Failed to price a recruit.")
			}
			fields = append(fields, discord.EmbedField{
				Name:  fmt.Sprintf("%s — %s (%s)", a.Name, a.Title, a.Rarity),
				Value: fmt.Sprintf("%s\nCost: %s", a.Description, formatCost(cost)),
			})
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:  "🤝 Willing to join you",
				Fields: fields,
				Color:  ColorInfo,
			}},
		})
	}
}

func AllyRecruitHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}

		allyID := e.SlashCommandInteractionData().String("ally")
		if _, err := b.AllyService.Recruit(ctx, ch, allyID); err != nil {
			var reqErr *services.RequirementError
			switch {
			case errors.As(err, &reqErr):
				return errorMessage(e, "They size you up and shake their head. Still needed:\n• "+strings.Join(reqErr.Missing, "\n• "))
			case errors.Is(err, services.ErrCannotAfford):
				return errorMessage(e, "You cannot cover their price.")
			case errors.Is(err, services.ErrAlreadyRecruited), repositories.IsConflict(err):
				return errorMessage(e, "They already sail with you.")
			default:
				return errorMessage(e, err.Error())
			}
		}

		ally, _ := b.Tables.Ally(allyID)
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("🤝 %s joins your side!", ally.Name),
				Description: ally.Description,
				Color:       ColorSuccess,
			}},
		})
	}
}

func AllyRosterHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}
		rows, defs, err := b.AllyService.Roster(ctx, ch.ID)
		if err != nil {
			return errorMessage(e, "Failed to look up your allies.")
		}
		if len(rows) == 0 {
			return errorMessage(e, "You sail alone. Use `/ally recruitable` to find companions.")
		}

		fields := make([]discord.EmbedField, 0, len(rows))
		for i, pa := range rows {
			def := defs[i]
			bonus := pa.StatBonus(def.BaseStats)
			fields = append(fields, discord.EmbedField{
				Name: fmt.Sprintf("%s — Lv %d, Bond %d", def.Name, pa.Level, pa.Bond),
				Value: fmt.Sprintf("STR +%d · AGI +%d · DUR +%d · INT +%d",
					bonus.Strength, bonus.Agility, bonus.Durability, bonus.Intelligence),
			})
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:  fmt.Sprintf("🤝 %s's companions", ch.Name),
				Fields: fields,
				Color:  ColorInfo,
			}},
		})
	}
}

func allyByID(rows []*models.PlayerAlly, allyID string) *models.PlayerAlly {
	for _, pa := range rows {
		if pa.AllyID == allyID {
			return pa
		}
	}
	return nil
}

func AllyTrainHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}
		rows, _, err := b.AllyService.Roster(ctx, ch.ID)
		if err != nil {
			return errorMessage(e, "Failed to look up your allies.")
		}

		allyID := e.SlashCommandInteractionData().String("ally")
		pa := allyByID(rows, allyID)
		if pa == nil {
			return errorMessage(e, "That ally does not sail with you.")
		}

		events, err := b.AllyService.GrantXP(ctx, pa, trainingXP)
		if err != nil {
			return errorMessage(e, "The training session fell apart.")
		}

		ally, _ := b.Tables.Ally(allyID)
		desc := fmt.Sprintf("⚔️ You drill with **%s**. +%d XP.", ally.Name, trainingXP)
		if len(events) > 0 {
			desc += "\n" + eventLines(events)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{Description: desc, Color: ColorSuccess}},
		})
	}
}

func AllyBondHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}
		rows, _, err := b.AllyService.Roster(ctx, ch.ID)
		if err != nil {
			return errorMessage(e, "Failed to look up your allies.")
		}

		allyID := e.SlashCommandInteractionData().String("ally")
		pa := allyByID(rows, allyID)
		if pa == nil {
			return errorMessage(e, "That ally does not sail with you.")
		}

		events, err := b.AllyService.GrantBond(ctx, pa, bondingPoints)
		if err != nil {
			return errorMessage(e, "The evening went sour.")
		}

		ally, _ := b.Tables.Ally(allyID)
		desc := fmt.Sprintf("🍻 You share a meal with **%s**. +%d bond.", ally.Name, bondingPoints)
		if len(events) > 0 {
			desc += "\n" + eventLines(events)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{Description: desc, Color: ColorSuccess}},
		})
	}
}

// AllyAutocompleteHandler fuzzy-matches ally names.
func AllyAutocompleteHandler(b *bot.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		focused := e.Data.Focused()
		if focused.Name != "ally" {
			return e.AutocompleteResult(nil)
		}
		query := e.Data.String("ally")

		choices := make([]discord.AutocompleteChoice, 0, maxAutocompleteChoices)
		for _, m := range b.SearchService.Allies(query, maxAutocompleteChoices) {
			choices = append(choices, discord.AutocompleteChoiceString{Name: m.Name, Value: m.ID})
		}
		return e.AutocompleteResult(choices)
	}
}
