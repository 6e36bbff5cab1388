// Package penalty provides the /penalty commands that edit the escalation ladder
package penalty

import (
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
)

// RegisterPenaltyCommands registers the /penalty command group
func RegisterPenaltyCommands(client *discord.ExtendedClient, svc *moderation.Service) {
	group := client.CommandHandler.BuildCommandGroup(
		"penalty",
		"Sanciones según el número de infracciones",
		createListCommand(svc),
		createSetCommand(svc),
		createRemoveCommand(svc),
	)
	client.CommandHandler.AddGlobalCommand(group)
}
