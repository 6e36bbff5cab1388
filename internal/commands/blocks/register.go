// Package blocks provides the /blocks commands that switch link categories on and off
package blocks

import (
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
)

// RegisterBlocksCommands registers /blocks set and /blocks list
func RegisterBlocksCommands(client *discord.ExtendedClient, svc *moderation.Service) {
	group := client.CommandHandler.BuildCommandGroup(
		"blocks",
		"Configura qué enlaces se bloquean",
		createSetCommand(svc),
		createListCommand(svc),
	)
	client.CommandHandler.AddGlobalCommand(group)
}
