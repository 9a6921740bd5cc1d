package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/grandline-rpg/grandline/bot"
)

var Version = discord.SlashCommandCreate{
	Name:        "version",
	Description: "Show the running bot version",
}

func VersionHandler(b *bot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.CreateMessage(discord.MessageCreate{
			Content: fmt.Sprintf("Version: %s\nCommit: %s", b.Version, b.Commit),
			Flags:   discord.MessageFlagEphemeral,
		})
	}
}
