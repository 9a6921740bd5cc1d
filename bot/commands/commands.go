package commands

import "github.com/disgoorg/disgo/discord"

// Commands is every slash command the bot registers.
var Commands = []discord.ApplicationCommandCreate{
	Character,
	Crew,
	Ship,
	Quest,
	Ally,
	Reputation,
	Explore,
	Challenge,
	Version,
}
