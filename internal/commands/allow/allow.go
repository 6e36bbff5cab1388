package allow

import (
	"context"
	"fmt"
	"strings"

	"github.com/PancyStudios/NoAdsHereGo/internal/commands/cmdutil"
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

const maxAllowedLength = 200

// createAddCommand creates the /allow add subcommand
func createAddCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"add",
		"Permite un texto para un usuario, canal o rol",
		"allow",
		cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
			ignoreType, ok := models.ParseIgnoreType(cmd.GetStringOption("tipo"))
			if !ok {
				return nil, cmdutil.Invalid("Tipo desconocido.")
			}
			targetID, err := cmdutil.ParseID(cmd.GetStringOption("objetivo"))
			if err != nil {
				return nil, err
			}
			return addAllowString(ctx, svc.Ignores, cmd.GuildID(), ignoreType, targetID, cmd.GetStringOption("texto"))
		}),
	).WithOptions(
		cmdutil.IgnoreTypeOption(),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "objetivo",
			Description: "ID o mención del usuario, canal o rol",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "texto",
			Description: "Texto permitido, por ejemplo discord.gg/micomunidad",
			Required:    true,
			MaxLength:   maxAllowedLength,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

func addAllowString(ctx context.Context, ignores *moderation.IgnoreResolver, guildID string, ignoreType models.IgnoreType, targetID, value string) (*discordgo.MessageEmbed, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, cmdutil.Invalid("El texto no puede estar vacío.")
	}
	if len(value) > maxAllowedLength {
		return nil, cmdutil.Invalid("El texto no puede superar %d caracteres.", maxAllowedLength)
	}

	allow, created, err := ignores.AddAllowString(ctx, guildID, ignoreType, targetID, value)
	if err != nil {
		return nil, err
	}

	target := ignoreType.Mention(targetID)
	if !created {
		return discord.NewEmbed(
			"ℹ️ Sin cambios",
			fmt.Sprintf("`%s` ya estaba permitido para %s (ID `%s`).", value, target, allow.ID),
			discord.ColorWarn,
		), nil
	}
	return discord.NewEmbed(
		"✅ Texto permitido",
		fmt.Sprintf("`%s` está permitido para %s.\nID: `%s`", value, target, allow.ID),
		discord.ColorSuccess,
	), nil
}

// createRemoveCommand creates the /allow remove subcommand
func createRemoveCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"remove",
		"Elimina un texto permitido por su ID",
		"allow",
		cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
			id := strings.TrimSpace(cmd.GetStringOption("id"))
			removed, err := svc.Ignores.RemoveAllowString(ctx, cmd.GuildID(), id)
			if err != nil {
				return nil, err
			}
			if !removed {
				return nil, cmdutil.Invalid("No existe ningún texto permitido con ID `%s`.", id)
			}
			return discord.NewEmbed("✅ Texto eliminado", fmt.Sprintf("ID `%s`", id), discord.ColorSuccess), nil
		}),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID mostrado en /allow list",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

// createListCommand creates the /allow list subcommand
func createListCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"list",
		"Muestra los textos permitidos",
		"allow",
		cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
			return listAllowStrings(ctx, svc.Ignores, cmd.GuildID())
		}),
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

func listAllowStrings(ctx context.Context, ignores *moderation.IgnoreResolver, guildID string) (*discordgo.MessageEmbed, error) {
	list, err := ignores.ListAllowStrings(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return discord.NewEmbed("📋 Textos permitidos", "No hay textos permitidos.", discord.ColorInfo), nil
	}

	var b strings.Builder
	for _, a := range list {
		fmt.Fprintf(&b, "`%s` %s → `%s`\n", a.ID, a.IgnoreType.Mention(a.TargetID), a.AllowedString)
	}
	return discord.NewEmbed("📋 Textos permitidos", b.String(), discord.ColorInfo), nil
}
