// Package utils provides the /utils commands
package utils

import (
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
)

// StorageStatus reports the state of the persistence backend
type StorageStatus interface {
	GetStatus() (string, bool)
}

// RegisterUtilsCommands registers /utils ping, /utils status and /utils help
func RegisterUtilsCommands(client *discord.ExtendedClient, svc *moderation.Service, storage StorageStatus) {
	group := client.CommandHandler.BuildCommandGroup(
		"utils",
		"Comandos de utilidad",
		createPingCommand(),
		createStatusCommand(svc, storage),
		createHelpCommand(),
	)
	client.CommandHandler.AddGlobalCommand(group)
}
