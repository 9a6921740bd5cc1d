package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/grandline-rpg/grandline/bot"
	"github.com/grandline-rpg/grandline/bot/engine/combat"
)

var Explore = discord.SlashCommandCreate{
	Name:        "explore",
	Description: "🗺️ Set out and see what the sea throws at you",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "location",
			Description: "The sea to explore",
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "East Blue", Value: "East Blue"},
				{Name: "Grand Line", Value: "Grand Line"},
				{Name: "New World", Value: "New World"},
			},
		},
	},
}

func battleButtons(userID string, battle *combat.Battle) []discord.ContainerComponent {
	return []discord.ContainerComponent{
		discord.NewActionRow(
			discord.NewPrimaryButton("⚔️ Attack", fmt.Sprintf("/battle/attack/%s", userID)),
			discord.NewSecondaryButton("🛡️ Defend", fmt.Sprintf("/battle/defend/%s", userID)),
			discord.NewSuccessButton(fmt.Sprintf("✨ %s", battle.SpecialAttackName()), fmt.Sprintf("/battle/special/%s", userID)),
			discord.NewDangerButton("💨 Flee", fmt.Sprintf("/battle/flee/%s", userID)),
		),
	}
}

func battleEmbed(battle *combat.Battle, color int) discord.Embed {
	return discord.Embed{
		Title: fmt.Sprintf("⚔️ %s vs %s", battle.CharacterName, battle.Enemy.Name),
		Description: fmt.Sprintf("A wild **%s** (%s, Lv %d) blocks your path in the %s!",
			battle.Enemy.Name, battle.Enemy.Type, battle.Enemy.Level, battle.Location),
		Fields: []discord.EmbedField{
			{
				Name:  battle.CharacterName,
				Value: fmt.Sprintf("❤️ %d/%d HP", battle.PlayerHP, battle.PlayerMaxHP),
			},
			{
				Name:  battle.Enemy.Name,
				Value: fmt.Sprintf("💢 %d HP", battle.EnemyHP),
			},
		},
		Color: color,
	}
}

func ExploreHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, err := activeCharacter(ctx, b, e)
		if ch == nil {
			return err
		}

		location := e.SlashCommandInteractionData().String("location")
		if location == "" {
			location = "East Blue"
		}

		userID := e.User().ID.String()
		battle, err := b.CombatService.Explore(ctx, userID, ch, location)
		if err != nil {
			switch {
			case errors.Is(err, combat.ErrOnCooldown):
				return errorMessage(e, fmt.Sprintf("Catch your breath first. Ready in %ds.", b.CombatService.Cooldown(userID)))
			case errors.Is(err, combat.ErrBattleInProgress):
				return errorMessage(e, "You are already mid-battle. Finish that fight.")
			default:
				return errorMessage(e, "The voyage never left port.")
			}
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds:     []discord.Embed{battleEmbed(battle, ColorInfo)},
			Components: battleButtons(userID, battle),
		})
	}
}

// BattleComponentHandler resolves one turn from a battle button press. The
// custom id carries the action and the owner's user id.
func BattleComponentHandler(b *bot.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		data := e.Data.(discord.ButtonInteractionData)
		parts := strings.Split(data.CustomID(), "/")
		if len(parts) != 4 {
			return nil
		}
		actionName, ownerID := parts[2], parts[3]

		userID := e.User().ID.String()
		if userID != ownerID {
			return e.CreateMessage(discord.MessageCreate{
				Content: "This is not your fight.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		var action combat.Action
		switch actionName {
		case "attack":
			action = combat.ActionAttack
		case "defend":
			action = combat.ActionDefend
		case "special":
			action = combat.ActionSpecial
		case "flee":
			action = combat.ActionFlee
		default:
			return nil
		}

		battle, outcome, events, err := b.CombatService.Act(ctx, userID, action)
		if err != nil {
			if errors.Is(err, combat.ErrNotInBattle) {
				return e.CreateMessage(discord.MessageCreate{
					Content: "That battle is over.",
					Flags:   discord.MessageFlagEphemeral,
				})
			}
			return e.CreateMessage(discord.MessageCreate{
				Content: "The battle could not be resolved.",
				Flags:   discord.MessageFlagEphemeral,
			})
		}

		logLines := strings.Join(battle.RecentLog(5), "\n")

		if outcome == combat.OutcomeOngoing {
			embed := battleEmbed(battle, ColorInfo)
			embed.Fields = append(embed.Fields, discord.EmbedField{Name: "Battle log", Value: logLines})
			components := battleButtons(userID, battle)
			return e.UpdateMessage(discord.MessageUpdate{
				Embeds:     &[]discord.Embed{embed},
				Components: &components,
			})
		}

		var title string
		var color int
		switch outcome {
		case combat.OutcomeVictory:
			title = fmt.Sprintf("🏆 %s defeated %s!", battle.CharacterName, battle.Enemy.Name)
			color = ColorGold
		case combat.OutcomeDefeat:
			title = fmt.Sprintf("💀 %s was defeated by %s...", battle.CharacterName, battle.Enemy.Name)
			color = ColorError
		case combat.OutcomeFled:
			title = fmt.Sprintf("💨 %s lives to fight another day.", battle.CharacterName)
			color = ColorInfo
		}

		desc := logLines
		if len(events) > 0 {
			desc += "\n\n" + eventLines(events)
		}
		components := []discord.ContainerComponent{}
		return e.UpdateMessage(discord.MessageUpdate{
			Embeds:     &[]discord.Embed{{Title: title, Description: desc, Color: color}},
			Components: &components,
		})
	}
}
