package penalty

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

var actionLabels = map[models.PenaltyAction]string{
	models.PenaltyNone: "🔕 Solo borrar",
	models.PenaltyWarn: "⚠️ Advertencia",
	models.PenaltyKick: "👢 Expulsión",
	models.PenaltyBan:  "🔨 Baneo",
}

func actionLabel(a models.PenaltyAction) string {
	if label, ok := actionLabels[a]; ok {
		return label
	}
	return string(a)
}

// createListCommand creates the /penalty list subcommand
func createListCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"list",
		"Muestra las sanciones configuradas",
		"penalty",
		cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
			return listPenalties(ctx, svc.Penalties, cmd.GuildID())
		}),
	)
}

func listPenalties(ctx context.Context, penalties *moderation.PenaltyEscalator, guildID string) (*discordgo.MessageEmbed, error) {
	list, err := penalties.List(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return discord.NewEmbed("⚖️ Sanciones", "No hay sanciones configuradas.", discord.ColorInfo), nil
	}

	var b strings.Builder
	for _, p := range list {
		fmt.Fprintf(&b, "`#%d` al llegar a **%d** infracciones → %s\n", p.PenaltyID, p.Threshold, actionLabel(p.Action))
	}
	return discord.NewEmbed("⚖️ Sanciones", b.String(), discord.ColorInfo), nil
}

// createSetCommand creates the /penalty set subcommand
func createSetCommand(svc *moderation.Service) *discord.Command {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(actionLabels))
	for _, a := range []models.PenaltyAction{models.PenaltyNone, models.PenaltyWarn, models.PenaltyKick, models.PenaltyBan} {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: actionLabel(a), Value: string(a)})
	}
	minValue := float64(1)

	return discord.NewCommand(
		"set",
		"Crea o reemplaza una sanción",
		"penalty",
		cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
			action, ok := models.ParsePenaltyAction(cmd.GetStringOption("accion"))
			if !ok {
				return nil, cmdutil.Invalid("Acción desconocida.")
			}
			return setPenalty(ctx, svc.Penalties, models.Penalty{
				GuildID:   cmd.GuildID(),
				PenaltyID: int(cmd.GetIntOption("id")),
				Action:    action,
				Threshold: int(cmd.GetIntOption("umbral")),
			})
		}),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "Número de la sanción",
			Required:    true,
			MinValue:    &minValue,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "accion",
			Description: "Qué hacer al alcanzar el umbral",
			Required:    true,
			Choices:     choices,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "umbral",
			Description: "Número exacto de infracciones",
			Required:    true,
			MinValue:    &minValue,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

func setPenalty(ctx context.Context, penalties *moderation.PenaltyEscalator, p models.Penalty) (*discordgo.MessageEmbed, error) {
	if p.PenaltyID <= 0 {
		return nil, cmdutil.Invalid("El ID debe ser mayor que cero.")
	}
	if err := penalties.Set(ctx, p); err != nil {
		return nil, err
	}
	return discord.NewEmbed(
		"✅ Sanción guardada",
		fmt.Sprintf("`#%d` al llegar a **%d** infracciones → %s", p.PenaltyID, p.Threshold, actionLabel(p.Action)),
		discord.ColorSuccess,
	), nil
}

// createRemoveCommand creates the /penalty remove subcommand
func createRemoveCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"remove",
		"Elimina una sanción",
		"penalty",
		cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
			return removePenalty(ctx, svc.Penalties, cmd.GuildID(), int(cmd.GetIntOption("id")))
		}),
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "id",
			Description: "Número de la sanción",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionManageGuild)
}

func removePenalty(ctx context.Context, penalties *moderation.PenaltyEscalator, guildID string, id int) (*discordgo.MessageEmbed, error) {
	removed, err := penalties.Remove(ctx, guildID, id)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, cmdutil.Invalid("No existe la sanción `#%d`.", id)
	}
	return discord.NewEmbed("✅ Sanción eliminada", fmt.Sprintf("`#%d`", id), discord.ColorSuccess), nil
}
