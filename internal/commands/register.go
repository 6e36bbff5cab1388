// Package commands registers every slash command group of the bot.
// Each group lives in its own package, one file per subcommand or per concern.
package commands

import (
	"github.com/PancyStudios/NoAdsHereGo/internal/commands/allow"
	"github.com/PancyStudios/NoAdsHereGo/internal/commands/blocks"
	"github.com/PancyStudios/NoAdsHereGo/internal/commands/ignore"
	"github.com/PancyStudios/NoAdsHereGo/internal/commands/penalty"
	"github.com/PancyStudios/NoAdsHereGo/internal/commands/utils"
	"github.com/PancyStudios/NoAdsHereGo/internal/commands/violations"
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, svc *moderation.Service, storage utils.StorageStatus) {
	blocks.RegisterBlocksCommands(client, svc)
	ignore.RegisterIgnoreCommands(client, svc)
	allow.RegisterAllowCommands(client, svc)
	penalty.RegisterPenaltyCommands(client, svc)
	violations.RegisterViolationsCommands(client, svc)
	utils.RegisterUtilsCommands(client, svc, storage)

	logger.System("Comandos cargados", "Commands")
}
