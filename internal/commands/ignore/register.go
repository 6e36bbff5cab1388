// Package ignore provides the /ignore commands that exempt users, channels and roles
package ignore

import (
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// RegisterIgnoreCommands registers the /ignore command group
func RegisterIgnoreCommands(client *discord.ExtendedClient, svc *moderation.Service) {
	group := client.CommandHandler.BuildCommandGroup(
		"ignore",
		"Excepciones de la moderación",
		createAddCommand(svc, models.IgnoreTypeUser, discordgo.ApplicationCommandOptionUser, "Ignora a un usuario"),
		createAddCommand(svc, models.IgnoreTypeChannel, discordgo.ApplicationCommandOptionChannel, "Ignora un canal"),
		createAddCommand(svc, models.IgnoreTypeRole, discordgo.ApplicationCommandOptionRole, "Ignora un rol"),
		createRemoveCommand(svc),
		createListCommand(svc),
	)
	client.CommandHandler.AddGlobalCommand(group)
}
