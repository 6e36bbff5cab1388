// Package violations provides the /violations commands for moderators
package violations

import (
	"context"
	"fmt"

	"github.com/PancyStudios/NoAdsHereGo/internal/commands/cmdutil"
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// RegisterViolationsCommands registers /violations show and /violations reset
func RegisterViolationsCommands(client *discord.ExtendedClient, svc *moderation.Service) {
	group := client.CommandHandler.BuildCommandGroup(
		"violations",
		"Infracciones de los usuarios",
		discord.NewCommand(
			"show",
			"Muestra las infracciones de un usuario",
			"violations",
			cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
				return showViolations(ctx, svc, cmd.GuildID(), cmd.GetMentionableOption("usuario"))
			}),
		).WithOptions(userOption()).WithUserPermissions(discordgo.PermissionModerateMembers),
		discord.NewCommand(
			"reset",
			"Reinicia el contador de infracciones de un usuario",
			"violations",
			cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
				return resetViolations(ctx, svc.Violations, cmd.GuildID(), cmd.GetMentionableOption("usuario"))
			}),
		).WithOptions(userOption()).WithUserPermissions(discordgo.PermissionModerateMembers),
	)
	client.CommandHandler.AddGlobalCommand(group)
}

func userOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "usuario",
		Description: "Usuario a consultar",
		Required:    true,
	}
}

func showViolations(ctx context.Context, svc *moderation.Service, guildID, userID string) (*discordgo.MessageEmbed, error) {
	if userID == "" {
		return nil, cmdutil.Invalid("Debes indicar un usuario.")
	}

	count, err := svc.Violations.Count(ctx, guildID, userID)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("<@%s> tiene **%d** infracciones.", userID, count)

	// Next exact threshold above the current count
	penalties, err := svc.Penalties.List(ctx, guildID)
	if err != nil {
		return nil, err
	}
	for _, p := range penalties {
		if p.Threshold > count {
			description += fmt.Sprintf("\nPróxima sanción (`#%d`) al llegar a %d: `%s`.", p.PenaltyID, p.Threshold, p.Action)
			break
		}
	}

	return discord.NewEmbed("📊 Infracciones", description, discord.ColorInfo), nil
}

func resetViolations(ctx context.Context, violations *moderation.ViolationTracker, guildID, userID string) (*discordgo.MessageEmbed, error) {
	if userID == "" {
		return nil, cmdutil.Invalid("Debes indicar un usuario.")
	}
	if err := violations.Reset(ctx, guildID, userID); err != nil {
		return nil, err
	}
	return discord.NewEmbed(
		"✅ Contador reiniciado",
		fmt.Sprintf("Las infracciones de <@%s> vuelven a 0.", userID),
		discord.ColorSuccess,
	), nil
}
