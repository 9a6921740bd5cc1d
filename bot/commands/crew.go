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

var Crew = discord.SlashCommandCreate{
	Name:        "crew",
	Description: "🏴‍☠️ Found and manage your crew",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "create",
			Description: "Found a crew with yourself as captain",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "The crew's name",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "motto",
					Description: "The crew's motto",
				},
				discord.ApplicationCommandOptionString{
					Name:        "description",
					Description: "What this crew is about",
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "info",
			Description: "Show your crew",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "join",
			Description: "Join an existing crew",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Name of the crew to join",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "role",
					Description: "Role to fill",
					Choices:     roleChoices(),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "leave",
			Description: "Leave your crew",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "role",
			Description: "Reassign a member's role (captain only)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "member",
					Description: "The member to reassign",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "role",
					Description: "The new role",
					Required:    true,
					Choices:     roleChoices(),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "deposit",
			Description: "Deposit berries into the crew treasury",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "Berries to deposit",
					Required:    true,
					MinValue:    intPtr(1),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "withdraw",
			Description: "Withdraw from the treasury (captain only)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "Berries to withdraw",
					Required:    true,
					MinValue:    intPtr(1),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "disband",
			Description: "Dissolve your crew (captain only)",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "leaderboard",
			Description: "Top crews by reputation",
		},
	},
}

func roleChoices() []discord.ApplicationCommandOptionChoiceString {
	choices := make([]discord.ApplicationCommandOptionChoiceString, 0, len(models.CrewRoles))
	for _, role := range models.CrewRoles {
		if role == models.RoleCaptain {
			continue
		}
		choices = append(choices, discord.ApplicationCommandOptionChoiceString{Name: role, Value: role})
	}
	return choices
}

// activeCharacter resolves the caller's character or replies with guidance.
func activeCharacter(ctx context.Context, b *bot.Bot, e *handler.CommandEvent) (*models.Character, error) {
	ch, err := b.CharacterService.Active(ctx, e.User().ID.String())
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, errorMessage(e, "You have no character yet. Use `/character create` to start.")
		}
		return nil, errorMessage(e, "Failed to fetch your character.")
	}
	return ch, nil
}

// characterCrew resolves the caller's character and crew together.
func characterCrew(ctx context.Context, b *bot.Bot, e *handler.CommandEvent) (*models.Character, *models.Crew, error) {
	ch, err := activeCharacter(ctx, b, e)
	if ch == nil {
		return nil, nil, err
	}
	if ch.CrewID == "" {
		return nil, nil, errorMessage(e, "You are not in a crew.")
	}
	crew, err := b.CrewService.Get(ctx, ch.CrewID)
	if err != nil {
		return nil, nil, errorMessage(e, "Failed to fetch your crew.")
	}
	return ch, crew, nil
}

func CrewCreateHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}

		data := e.SlashCommandInteractionData()
		crew, ship, err := b.CrewService.Create(ctx, ch,
			data.String("name"), data.String("description"), data.String("motto"), "")
		if err != nil {
			if errors.Is(err, services.ErrAlreadyInCrew) {
				return errorMessage(e, "You already belong to a crew.")
			}
			if repositories.IsConflict(err) {
				return errorMessage(e, "A crew by that name already exists.")
			}
			return errorMessage(e, "Failed to found the crew.")
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: fmt.Sprintf("🏴‍☠️ The %s set sail!", crew.Name),
				Description: fmt.Sprintf("Captain **%s** launches the **%s** from the docks.",
					ch.Name, ship.Name),
				Color: ColorSuccess,
			}},
		})
	}
}

func CrewInfoHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_, crew, err := characterCrew(ctx, b, e)
		if crew == nil {
			return err
		}

		var roster strings.Builder
		for _, m := range crew.Members {
			fmt.Fprintf(&roster, "**%s** — %s (%d contributed)\n", m.CharacterName, m.Role, m.Contribution)
		}

		fields := []discord.EmbedField{
			{Name: "Roster", Value: roster.String()},
			{Name: "Treasury", Value: formatBerries(crew.Treasury)},
			{Name: "Total bounty", Value: formatBerries(crew.TotalBounty)},
		}
		if ship, err := b.ShipService.ForCrew(ctx, crew.ID); err == nil {
			fields = append(fields, discord.EmbedField{
				Name: "Ship",
				Value: fmt.Sprintf("**%s** (%s) — %d/%d durability",
					ship.Name, ship.Type, ship.Durability, ship.MaxDurability),
			})
		}

		bonuses := crew.Bonuses()
		boosted := make([]string, 0, len(bonuses))
		for activity, mult := range bonuses {
			if mult > 1.0 {
				boosted = append(boosted, activity)
			}
		}
		if len(boosted) > 0 {
			sort.Strings(boosted)
			var lines strings.Builder
			for _, activity := range boosted {
				fmt.Fprintf(&lines, "%s ×%.1f\n", activity, bonuses[activity])
			}
			fields = append(fields, discord.EmbedField{Name: "Crew bonuses", Value: lines.String()})
		}

		desc := crew.Description
		if crew.Motto != "" {
			desc = fmt.Sprintf("*\"%s\"*\n%s", crew.Motto, desc)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: fmt.Sprintf("%s — Level %d (%d/%d members)",
					crew.Name, crew.Level, len(crew.Members), crew.Capacity()),
				Description: desc,
				Fields:      fields,
				Color:       ColorInfo,
			}},
		})
	}
}

func CrewJoinHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}

		data := e.SlashCommandInteractionData()
		crew, err := b.CrewService.GetByName(ctx, data.String("name"))
		if err != nil {
			return errorMessage(e, "No crew by that name.")
		}
		role := data.String("role")
		if role == "" {
			role = models.RoleFighter
		}

		if err := b.CrewService.Join(ctx, crew, ch, role); err != nil {
			switch {
			case errors.Is(err, services.ErrAlreadyInCrew):
				return errorMessage(e, "You already belong to a crew.")
			case errors.Is(err, services.ErrCrewFull):
				return errorMessage(e, "That crew is at capacity.")
			default:
				return errorMessage(e, "Failed to join the crew.")
			}
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: fmt.Sprintf("⚓ %s joins the %s as %s!", ch.Name, crew.Name, role),
				Color:       ColorSuccess,
			}},
		})
	}
}

func CrewLeaveHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, crew, err := characterCrew(ctx, b, e)
		if crew == nil {
			return err
		}

		if err := b.CrewService.Leave(ctx, crew, ch); err != nil {
			if errors.Is(err, services.ErrCaptainLeaving) {
				return errorMessage(e, "A captain with crewmates aboard cannot walk away. Use `/crew disband`.")
			}
			return errorMessage(e, "Failed to leave the crew.")
		}
		desc := fmt.Sprintf("👋 %s leaves the %s.", ch.Name, crew.Name)
		if ch.ID == crew.CaptainID {
			desc = fmt.Sprintf("👋 %s abandons ship and the %s is no more.", ch.Name, crew.Name)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: desc,
				Color:       ColorInfo,
			}},
		})
	}
}

func CrewRoleHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, crew, err := characterCrew(ctx, b, e)
		if crew == nil {
			return err
		}

		data := e.SlashCommandInteractionData()
		memberUser := data.User("member")
		role := data.String("role")

		target, err := b.CharacterService.Active(ctx, memberUser.ID.String())
		if err != nil {
			return errorMessage(e, "That player has no character.")
		}

		if err := b.CrewService.ChangeRole(ctx, crew, ch, target.ID, role); err != nil {
			if errors.Is(err, services.ErrNotCaptain) {
				return errorMessage(e, "Only the captain can reassign roles.")
			}
			return errorMessage(e, "That character is not in your crew.")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: fmt.Sprintf("🎖️ %s is now the crew's %s.", target.Name, role),
				Color:       ColorSuccess,
			}},
		})
	}
}

func CrewDepositHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, crew, err := characterCrew(ctx, b, e)
		if crew == nil {
			return err
		}

		amount := int64(e.SlashCommandInteractionData().Int("amount"))
		if err := b.CrewService.Deposit(ctx, crew, ch, amount); err != nil {
			return errorMessage(e, err.Error())
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: fmt.Sprintf("💰 %s deposited %s. Treasury now holds %s.",
					ch.Name, formatBerries(amount), formatBerries(crew.Treasury)),
				Color: ColorSuccess,
			}},
		})
	}
}

func CrewWithdrawHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, crew, err := characterCrew(ctx, b, e)
		if crew == nil {
			return err
		}

		amount := int64(e.SlashCommandInteractionData().Int("amount"))
		if err := b.CrewService.Withdraw(ctx, crew, ch, amount); err != nil {
			if errors.Is(err, services.ErrNotCaptain) {
				return errorMessage(e, "Only the captain can withdraw from the treasury.")
			}
			return errorMessage(e, err.Error())
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: fmt.Sprintf("💸 Withdrew %s. Treasury now holds %s.",
					formatBerries(amount), formatBerries(crew.Treasury)),
				Color: ColorSuccess,
			}},
		})
	}
}

func CrewDisbandHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		ch, crew, err := characterCrew(ctx, b, e)
		if crew == nil {
			return err
		}

		if err := b.CrewService.Disband(ctx, crew, ch); err != nil {
			if errors.Is(err, services.ErrNotCaptain) {
				return errorMessage(e, "Only the captain can disband the crew.")
			}
			return errorMessage(e, "Failed to disband the crew.")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: fmt.Sprintf("🏴‍☠️ The %s has disbanded.", crew.Name),
				Color:       ColorInfo,
			}},
		})
	}
}

func CrewLeaderboardHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		crews, err := b.CrewService.Leaderboard(ctx, 10)
		if err != nil {
			return errorMessage(e, "Failed to fetch the leaderboard.")
		}
		if len(crews) == 0 {
			return errorMessage(e, "No crews sail the seas yet.")
		}

		var sb strings.Builder
		for i, crew := range crews {
			fmt.Fprintf(&sb, "%d. **%s** — %d reputation (level %d)\n",
				i+1, crew.Name, crew.Reputation, crew.Level)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🏆 Most renowned crews",
				Description: sb.String(),
				Color:       ColorGold,
			}},
		})
	}
}
