package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/grandline-rpg/grandline/bot/engine"
)

// Embed colors.
const (
	ColorSuccess = 0x2ecc71
	ColorError   = 0xe74c3c
	ColorInfo    = 0x3498db
	ColorGold    = 0xf1c40f
)

const (
	maxAutocompleteChoices = 25
	questsPerPage          = 5
)

// errorMessage replies with an ephemeral error embed.
func errorMessage(e *handler.CommandEvent, description string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "Error",
			Description: description,
			Color:       ColorError,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

// eventLines renders domain events as embed bullet lines.
func eventLines(events []engine.Event) string {
	if len(events) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, ev := range events {
		switch ev.Kind {
		case engine.EventLevelUp:
			fmt.Fprintf(&sb, "⬆️ %s reached level %d!\n", ev.Subject, ev.Value)
		case engine.EventCrewLevelUp:
			fmt.Fprintf(&sb, "🏴‍☠️ %s reached crew level %d!\n", ev.Subject, ev.Value)
		case engine.EventAllyLevelUp:
			fmt.Fprintf(&sb, "🤝 %s reached level %d!\n", ev.Subject, ev.Value)
		case engine.EventBondLevelUp:
			fmt.Fprintf(&sb, "💞 Bond with %s deepened to %d!\n", ev.Subject, ev.Value)
		case engine.EventReputationShift:
			if ev.Detail == "spillover" {
				fmt.Fprintf(&sb, "↩️ %s reputation %+d (spillover)\n", ev.Subject, ev.Value)
			} else {
				fmt.Fprintf(&sb, "📊 %s reputation %+d\n", ev.Subject, ev.Value)
			}
		case engine.EventAlignmentChange:
			fmt.Fprintf(&sb, "⚖️ Now %s with %s\n", ev.Detail, ev.Subject)
		case engine.EventMilestoneReached:
			fmt.Fprintf(&sb, "🏅 Milestone: %s (%s)\n", ev.Detail, ev.Subject)
		case engine.EventQuestCompleted:
			fmt.Fprintf(&sb, "✅ Quest complete: %s\n", ev.Subject)
		case engine.EventItemGained:
			if ev.Value < 0 {
				fmt.Fprintf(&sb, "💸 Lost %d %s\n", -ev.Value, ev.Subject)
			} else {
				fmt.Fprintf(&sb, "🎁 Gained %d× %s\n", ev.Value, ev.Subject)
			}
		case engine.EventShipAwarded:
			fmt.Fprintf(&sb, "⛵ Ship awarded: %s\n", ev.Subject)
		}
	}
	return sb.String()
}

// formatBerries renders an amount with the currency symbol.
func formatBerries(amount int64) string {
	return fmt.Sprintf("₿ %d", amount)
}

func intPtr(v int) *int {
	return &v
}
