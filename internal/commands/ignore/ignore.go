package ignore

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

// createAddCommand creates /ignore user, /ignore channel and /ignore role
func createAddCommand(svc *moderation.Service, ignoreType models.IgnoreType, optType discordgo.ApplicationCommandOptionType, description string) *discord.Command {
	return discord.NewCommand(
		string(ignoreType),
		description,
		"ignore",
		cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
			category, err := cmdutil.ParseCategory(cmd.GetStringOption("categoria"), models.CategoryAll, true)
			if err != nil {
				return nil, err
			}
			return addIgnore(ctx, svc.Ignores, cmd.GuildID(), ignoreType, cmd.GetMentionableOption("objetivo"), category)
		}),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        optType,
			Name:        "objetivo",
			Description: "A quién ignorar",
			Required:    true,
		},
		cmdutil.CategoryOption("Categoría ignorada (por defecto todas)", false, true),
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

func addIgnore(ctx context.Context, ignores *moderation.IgnoreResolver, guildID string, ignoreType models.IgnoreType, targetID string, category models.Category) (*discordgo.MessageEmbed, error) {
	if targetID == "" {
		return nil, cmdutil.Invalid("Debes indicar a quién ignorar.")
	}

	ignore, created, err := ignores.AddIgnore(ctx, guildID, ignoreType, targetID, category)
	if err != nil {
		return nil, err
	}

	target := ignoreType.Mention(targetID)
	if !created {
		return discord.NewEmbed(
			"ℹ️ Sin cambios",
			fmt.Sprintf("%s ya estaba ignorado para %s (ID `%s`).", target, category.Label(), ignore.ID),
			discord.ColorWarn,
		), nil
	}
	return discord.NewEmbed(
		"✅ Excepción creada",
		fmt.Sprintf("%s será ignorado para %s.\nID: `%s`", target, category.Label(), ignore.ID),
		discord.ColorSuccess,
	), nil
}

// createRemoveCommand creates the /ignore remove subcommand
func createRemoveCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"remove",
		"Elimina una excepción por su ID",
		"ignore",
		cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
			return removeIgnore(ctx, svc.Ignores, cmd.GuildID(), cmd.GetStringOption("id"))
		}),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID mostrado en /ignore list",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

func removeIgnore(ctx context.Context, ignores *moderation.IgnoreResolver, guildID, id string) (*discordgo.MessageEmbed, error) {
	removed, err := ignores.RemoveIgnore(ctx, guildID, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, cmdutil.Invalid("No existe ninguna excepción con ID `%s`.", id)
	}
	return discord.NewEmbed("✅ Excepción eliminada", fmt.Sprintf("ID `%s`", id), discord.ColorSuccess), nil
}

// createListCommand creates the /ignore list subcommand
func createListCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"list",
		"Muestra las excepciones del servidor",
		"ignore",
		cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
			return listIgnores(ctx, svc.Ignores, cmd.GuildID())
		}),
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

func listIgnores(ctx context.Context, ignores *moderation.IgnoreResolver, guildID string) (*discordgo.MessageEmbed, error) {
	list, err := ignores.ListIgnores(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return discord.NewEmbed("📋 Excepciones", "No hay excepciones configuradas.", discord.ColorInfo), nil
	}

	var b strings.Builder
	for _, ig := range list {
		fmt.Fprintf(&b, "`%s` %s → %s\n", ig.ID, ig.IgnoreType.Mention(ig.TargetID), ig.Category.Label())
	}
	return discord.NewEmbed("📋 Excepciones", b.String(), discord.ColorInfo), nil
}
