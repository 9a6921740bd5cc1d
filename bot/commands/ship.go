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
	"github.com/grandline-rpg/grandline/bot/services"
)

var Ship = discord.SlashCommandCreate{
	Name:        "ship",
	Description: "⛵ Your crew's vessel",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "info",
			Description: "Show your crew's ship",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "buy",
			Description: "Buy a new hull from the crew treasury (captain only)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "hull",
					Description:  "The hull class to buy",
					Required:     true,
					Autocomplete: true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Name for the new ship",
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "upgrade",
			Description: "Install an upgrade on the ship",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:         "upgrade",
					Description:  "The upgrade to install",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "repair",
			Description: "Repair hull damage",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "load",
			Description: "Load cargo into the hold",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "item",
					Description: "What to load",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "How much",
					Required:    true,
					MinValue:    intPtr(1),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "unload",
			Description: "Unload cargo from the hold",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "item",
					Description: "What to unload",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "How much",
					Required:    true,
					MinValue:    intPtr(1),
				},
			},
		},
	},
}

func ShipInfoHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_, crew, err := characterCrew(ctx, b, e)
		if crew == nil {
			return err
		}
		ship, err := b.ShipService.ForCrew(ctx, crew.ID)
		if err != nil {
			return errorMessage(e, "Your crew has no ship.")
		}

		var upgrades strings.Builder
		for _, id := range ship.Upgrades {
			if u, ok := b.Tables.Upgrade(id); ok {
				fmt.Fprintf(&upgrades, "%s\n", u.Name)
			}
		}
		if upgrades.Len() == 0 {
			upgrades.WriteString("None")
		}

		var cargo strings.Builder
		for item, n := range ship.Cargo {
			fmt.Fprintf(&cargo, "%s ×%d\n", item, n)
		}
		if cargo.Len() == 0 {
			cargo.WriteString("Empty")
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: fmt.Sprintf("%s — %s", ship.Name, ship.Type),
				Description: fmt.Sprintf(
					"🛡️ Durability %d/%d\n💨 Speed %d\n💣 Firepower %d\n📦 Cargo %d/%d\n⚔️ Record %d–%d",
					ship.Durability, ship.MaxDurability, ship.Speed, ship.Firepower,
					ship.CargoUsed(), ship.CargoCapacity, ship.BattlesWon, ship.BattlesLost),
				Fields: []discord.EmbedField{
					{Name: "Upgrades", Value: upgrades.String()},
					{Name: "Hold", Value: cargo.String()},
				},
				Color: ColorInfo,
			}},
		})
	}
}

func ShipBuyHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		ch, crew, err := characterCrew(ctx, b, e)
		if crew == nil {
			return err
		}

		data := e.SlashCommandInteractionData()
		ship, err := b.ShipService.Buy(ctx, crew, ch, data.String("hull"), data.String("name"))
		if err != nil {
			if errors.Is(err, services.ErrNotCaptain) {
				return errorMessage(e, "Only the captain can buy a ship.")
			}
			return errorMessage(e, err.Error())
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("⛵ The %s joins the fleet!", ship.Name),
				Description: fmt.Sprintf("A brand new %s. Treasury now holds %s.", ship.Type, formatBerries(crew.Treasury)),
				Color:       ColorSuccess,
			}},
		})
	}
}

func ShipUpgradeHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		ch, crew, err := characterCrew(ctx, b, e)
		if crew == nil {
			return err
		}
		ship, err := b.ShipService.ForCrew(ctx, crew.ID)
		if err != nil {
			return errorMessage(e, "Your crew has no ship.")
		}

		upgradeID := e.SlashCommandInteractionData().String("upgrade")
		events, err := b.ShipService.Upgrade(ctx, crew, ch, ship, upgradeID)
		if err != nil {
			var reqErr *services.RequirementError
			switch {
			case errors.Is(err, services.ErrUpgradeInstalled):
				return errorMessage(e, "That upgrade is already installed.")
			case errors.As(err, &reqErr):
				return errorMessage(e, "Still needed:\n• "+strings.Join(reqErr.Missing, "\n• "))
			default:
				return errorMessage(e, err.Error())
			}
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "🔧 Upgrade installed",
				Description: eventLines(events),
				Color:       ColorSuccess,
			}},
		})
	}
}

func ShipRepairHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ch, crew, err := characterCrew(ctx, b, e)
		if crew == nil {
			return err
		}
		ship, err := b.ShipService.ForCrew(ctx, crew.ID)
		if err != nil {
			return errorMessage(e, "Your crew has no ship.")
		}

		cost, err := b.ShipService.Repair(ctx, crew, ch, ship)
		if err != nil {
			return errorMessage(e, err.Error())
		}
		if cost == 0 {
			return errorMessage(e, "The hull is already in perfect shape.")
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: fmt.Sprintf("🔨 The %s is shipshape again for %s.", ship.Name, formatBerries(cost)),
				Color:       ColorSuccess,
			}},
		})
	}
}

func ShipLoadHandler(b *bot.Bot) handler.CommandHandler {
	return shipCargoHandler(b, true)
}

func ShipUnloadHandler(b *bot.Bot) handler.CommandHandler {
	return shipCargoHandler(b, false)
}

func shipCargoHandler(b *bot.Bot, load bool) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_, crew, err := characterCrew(ctx, b, e)
		if crew == nil {
			return err
		}
		ship, err := b.ShipService.ForCrew(ctx, crew.ID)
		if err != nil {
			return errorMessage(e, "Your crew has no ship.")
		}

		data := e.SlashCommandInteractionData()
		item := data.String("item")
		amount := int64(data.Int("amount"))

		verb := "loaded into"
		if load {
			err = b.ShipService.LoadCargo(ctx, ship, item, amount)
		} else {
			err = b.ShipService.UnloadCargo(ctx, ship, item, amount)
			verb = "unloaded from"
		}
		if err != nil {
			switch {
			case errors.Is(err, services.ErrHoldFull):
				return errorMessage(e, fmt.Sprintf("The hold can only fit %d more.", int64(ship.CargoCapacity)-ship.CargoUsed()))
			case errors.Is(err, services.ErrNoSuchCargo):
				return errorMessage(e, "The hold does not carry that much.")
			default:
				return errorMessage(e, err.Error())
			}
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: fmt.Sprintf("📦 %d× %s %s the %s. Hold: %d/%d.",
					amount, item, verb, ship.Name, ship.CargoUsed(), ship.CargoCapacity),
				Color: ColorSuccess,
			}},
		})
	}
}

// ShipAutocompleteHandler fills hull classes and upgrade ids.
func ShipAutocompleteHandler(b *bot.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		focused := e.Data.Focused()
		query := e.Data.String(focused.Name)

		choices := make([]discord.AutocompleteChoice, 0, maxAutocompleteChoices)
		switch focused.Name {
		case "hull":
			for _, name := range b.Tables.ShipTypeNames() {
				if query != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(query)) {
					continue
				}
				hull, _ := b.Tables.ShipType(name)
				choices = append(choices, discord.AutocompleteChoiceString{
					Name:  fmt.Sprintf("%s — %s", name, formatBerries(hull.Price)),
					Value: name,
				})
			}
		case "upgrade":
			for _, m := range b.SearchService.Upgrades(query, maxAutocompleteChoices) {
				choices = append(choices, discord.AutocompleteChoiceString{Name: m.Name, Value: m.ID})
			}
		}
		if len(choices) > maxAutocompleteChoices {
			choices = choices[:maxAutocompleteChoices]
		}
		return e.AutocompleteResult(choices)
	}
}
