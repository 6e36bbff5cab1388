package utils

import (
	"fmt"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/config"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/PancyStudios/NoAdsHereGo/pkg/errors"
	"github.com/bwmarrin/discordgo"
)

// createStatusCommand creates the /utils status subcommand
func createStatusCommand(svc *moderation.Service, storage StorageStatus) *discord.Command {
	return discord.NewCommand(
		"status",
		"Muestra el estado del bot",
		"utils",
		func(ctx *discord.CommandContext) error {
			go func() {
				defer errors.RecoverMiddleware()()
				dbStatus, _ := storage.GetStatus()
				_ = ctx.ReplyEmbed(statusEmbed(svc, dbStatus, ctx.Client.GuildCount(), time.Since(ctx.Client.StartTime)))
			}()
			return nil
		},
	).AllowDM()
}

func statusEmbed(svc *moderation.Service, dbStatus string, guilds int, uptime time.Duration) *discordgo.MessageEmbed {
	stats := svc.Dispatcher.Stats()
	loaded, _ := svc.Rules.Stats()

	embed := discord.NewEmbed("📊 Estado del Bot", "", discord.ColorInfo)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Bot", Value: "🟢 Online", Inline: true},
		{Name: "Base de datos", Value: dbStatus, Inline: true},
		{Name: "Servidores", Value: fmt.Sprintf("%d (%d con reglas cargadas)", guilds, loaded), Inline: true},
		{Name: "Mensajes analizados", Value: fmt.Sprintf("%d", stats.Processed), Inline: true},
		{Name: "Mensajes eliminados", Value: fmt.Sprintf("%d", stats.Suppressed), Inline: true},
		{Name: "Cola", Value: fmt.Sprintf("%d en espera, %d descartados", stats.Queued, stats.Dropped), Inline: true},
		{Name: "Uptime", Value: uptime.Truncate(time.Second).String(), Inline: true},
		{Name: "Versión", Value: config.Version, Inline: true},
	}
	return embed
}
