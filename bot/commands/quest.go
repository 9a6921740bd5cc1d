package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/grandline-rpg/grandline/bot"
	"github.com/grandline-rpg/grandline/bot/database/repositories"
	"github.com/grandline-rpg/grandline/bot/services"
)

var Quest = discord.SlashCommandCreate{
	Name:        "quest",
	Description: "📜 Take on and progress story quests",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "available",
			Description: "Quests you can start right now",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "start",
			Description: "Start a quest",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "quest",
					Description:  "The quest to start",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "active",
			Description: "Your quests in progress",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "advance",
			Description: "Report progress toward a quest objective",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "quest",
					Description:  "The quest",
					Required:     true,
					Autocomplete: true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "objective",
					Description: "The objective id",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "Progress to add",
					MinValue:    intPtr(1),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "choose",
			Description: "Make a decision at a quest decision point",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "quest",
					Description:  "The quest",
					Required:     true,
					Autocomplete: true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "decision",
					Description: "The decision point",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "option",
					Description: "Your choice",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "abandon",
			Description: "Abandon a quest in progress",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "quest",
					Description:  "The quest to abandon",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	},
}

func QuestAvailableHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}
		quests, err := b.QuestService.Available(ctx, ch)
		if err != nil {
			return errorMessage(e, "Failed to look up quests.")
		}
		if len(quests) == 0 {
			return errorMessage(e, "Nothing calls to you right now. Level up or finish what you started.")
		}

		totalPages := (len(quests) + questsPerPage - 1) / questsPerPage
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * questsPerPage
				end := min(start+questsPerPage, len(quests))

				var sb strings.Builder
				for _, q := range quests[start:end] {
					fmt.Fprintf(&sb, "**%s** (%s) — %s\n\n", q.Name, q.Difficulty, q.Description)
				}
				embed.
					SetTitle("📜 Available quests").
					SetDescription(sb.String()).
					SetColor(ColorInfo).
					SetFooter(fmt.Sprintf("Page %d/%d • %d quests", page+1, totalPages, len(quests)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func QuestStartHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}

		questID := e.SlashCommandInteractionData().String("quest")
		if _, err := b.QuestService.Start(ctx, ch, questID); err != nil {
			switch {
			case errors.Is(err, services.ErrQuestUnavailable):
				return errorMessage(e, err.Error())
			case repositories.IsConflict(err):
				return errorMessage(e, "You already have that quest underway.")
			default:
				return errorMessage(e, "Failed to start the quest.")
			}
		}

		quest, _ := b.Tables.Quest(questID)
		var objectives strings.Builder
		for _, obj := range quest.Objectives {
			fmt.Fprintf(&objectives, "• `%s` — %s (0/%d)\n", obj.ID, obj.Description, obj.Required)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("📜 %s begins!", quest.Name),
				Description: quest.Description,
				Fields: []discord.EmbedField{
					{Name: "Objectives", Value: objectives.String()},
				},
				Color: ColorSuccess,
			}},
		})
	}
}

func QuestActiveHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}
		rows, quests, err := b.QuestService.Active(ctx, ch.ID)
		if err != nil {
			return errorMessage(e, "Failed to look up your quests.")
		}
		if len(rows) == 0 {
			return errorMessage(e, "No quests underway. Use `/quest available`.")
		}

		fields := make([]discord.EmbedField, 0, len(rows))
		for i, pq := range rows {
			quest := quests[i]
			var sb strings.Builder
			for _, obj := range quest.Objectives {
				fmt.Fprintf(&sb, "`%s` %s — %d/%d\n", obj.ID, obj.Description, pq.Progress[obj.ID], obj.Required)
			}
			fields = append(fields, discord.EmbedField{
				Name:  fmt.Sprintf("%s (%.0f%%)", quest.Name, pq.ProgressPercent(quest)),
				Value: sb.String(),
			})
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:  "📜 Quests in progress",
				Fields: fields,
				Color:  ColorInfo,
			}},
		})
	}
}

func QuestAdvanceHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}

		data := e.SlashCommandInteractionData()
		amount := data.Int("amount")
		if amount == 0 {
			amount = 1
		}
		events, err := b.QuestService.Advance(ctx, ch, data.String("quest"), data.String("objective"), amount)
		if err != nil {
			if repositories.IsNotFound(err) {
				return errorMessage(e, "That quest is not underway.")
			}
			return errorMessage(e, err.Error())
		}

		if len(events) == 0 {
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Description: "📝 Progress noted. Keep going!",
					Color:       ColorInfo,
				}},
			})
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🎉 Quest complete!",
				Description: eventLines(events),
				Color:       ColorGold,
			}},
		})
	}
}

func QuestChooseHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}

		data := e.SlashCommandInteractionData()
		err = b.QuestService.Choose(ctx, ch, data.String("quest"), data.String("decision"), data.String("option"))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrChoiceMade):
				return errorMessage(e, "That decision was already made. It sticks.")
			case errors.Is(err, services.ErrBadChoice):
				return errorMessage(e, "That is not one of the options.")
			case repositories.IsNotFound(err):
				return errorMessage(e, "That quest is not underway.")
			default:
				return errorMessage(e, err.Error())
			}
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: fmt.Sprintf("🧭 Your path is chosen: **%s**.", data.String("option")),
				Color:       ColorSuccess,
			}},
		})
	}
}

func QuestAbandonHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}

		questID := e.SlashCommandInteractionData().String("quest")
		if err := b.QuestService.Abandon(ctx, ch, questID); err != nil {
			if repositories.IsNotFound(err) {
				return errorMessage(e, "That quest is not underway.")
			}
			return errorMessage(e, "Failed to abandon the quest.")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: "🗺️ The quest is abandoned. The sea remembers, but you can return to it later.",
				Color:       ColorInfo,
			}},
		})
	}
}

// QuestAutocompleteHandler fuzzy-matches quest names.
func QuestAutocompleteHandler(b *bot.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		focused := e.Data.Focused()
		if focused.Name != "quest" {
			return e.AutocompleteResult(nil)
		}
		query := e.Data.String("quest")

		choices := make([]discord.AutocompleteChoice, 0, maxAutocompleteChoices)
		for _, m := range b.SearchService.Quests(query, maxAutocompleteChoices) {
			choices = append(choices, discord.AutocompleteChoiceString{Name: m.Name, Value: m.ID})
		}
		return e.AutocompleteResult(choices)
	}
}
