package blocks

import (
	"context"
	"fmt"

	"github.com/PancyStudios/NoAdsHereGo/internal/commands/cmdutil"
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createSetCommand creates the /blocks set subcommand
func createSetCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"set",
		"Activa o desactiva el bloqueo de una categoría",
		"blocks",
		cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
			category, err := cmdutil.ParseCategory(cmd.GetStringOption("categoria"), "", false)
			if err != nil {
				return nil, err
			}
			return setBlock(ctx, svc.Rules, cmd.GuildID(), category, cmd.GetBoolOption("activo"))
		}),
	).WithOptions(
		cmdutil.CategoryOption("Categoría a configurar", true, false),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "activo",
			Description: "Bloquear (true) o permitir (false)",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

func setBlock(ctx context.Context, rules *moderation.RuleCache, guildID string, category models.Category, enabled bool) (*discordgo.MessageEmbed, error) {
	toggle := rules.Disable
	if enabled {
		toggle = rules.Enable
	}

	changed, err := toggle(ctx, category, guildID)
	if err != nil {
		return nil, err
	}

	state := "desactivado"
	if enabled {
		state = "activado"
	}

	if !changed {
		return discord.NewEmbed(
			"ℹ️ Sin cambios",
			fmt.Sprintf("El bloqueo de %s ya estaba %s.", category.Label(), state),
			discord.ColorWarn,
		), nil
	}
	return discord.NewEmbed(
		"✅ Listo",
		fmt.Sprintf("Bloqueo de %s %s.", category.Label(), state),
		discord.ColorSuccess,
	), nil
}
