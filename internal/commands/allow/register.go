// Package allow provides the /allow commands that whitelist specific strings
package allow

import (
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
)

// RegisterAllowCommands registers the /allow command group
func RegisterAllowCommands(client *discord.ExtendedClient, svc *moderation.Service) {
	group := client.CommandHandler.BuildCommandGroup(
		"allow",
		"Textos permitidos aunque coincidan con un bloqueo",
		createAddCommand(svc),
		createRemoveCommand(svc),
		createListCommand(svc),
	)
	client.CommandHandler.AddGlobalCommand(group)
}
