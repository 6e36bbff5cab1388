package events

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/errors"
	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const (
	// freshJoinWindow separates a new invite from a guild becoming available on reconnect
	freshJoinWindow = 10 * time.Second
	guildTimeout    = 15 * time.Second
)

func isFreshJoin(joinedAt, now time.Time) bool {
	return !joinedAt.IsZero() && !joinedAt.Before(now.Add(-freshJoinWindow))
}

// prepareGuild loads the guild rules and seeds penalties for guilds that have none,
// which also covers guilds the bot was added to while offline
func (h *handlers) prepareGuild(ctx context.Context, guildID string, fresh bool) (moderation.GuildSetup, error) {
	return h.svc.PrepareGuild(ctx, guildID, fresh)
}

// shouldNotify reports whether the inactive notice goes to the system channel
func shouldNotify(setup moderation.GuildSetup, fresh bool) bool {
	return (fresh || setup.Seeded) && setup.Inactive
}

// onGuildCreate runs for every guild announced by the gateway, including new joins
func (h *handlers) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil || g.Unavailable {
		return
	}
	fresh := isFreshJoin(g.JoinedAt, time.Now())

	go func() {
		defer errors.RecoverMiddleware()()

		ctx, cancel := context.WithTimeout(context.Background(), guildTimeout)
		defer cancel()

		setup, err := h.prepareGuild(ctx, g.ID, fresh)
		if err != nil {
			logger.Error(fmt.Sprintf("Error cargando reglas del servidor %s: %v", g.ID, err), "Guild")
			return
		}
		if !fresh && !setup.Seeded {
			return
		}

		logger.Info(fmt.Sprintf("➕ Bot agregado a servidor: %s (ID: %s)", g.Name, g.ID), "Guild")
		if shouldNotify(setup, fresh) && g.SystemChannelID != "" {
			sendInactiveNotice(s, g.SystemChannelID)
		}
	}()
}

func sendInactiveNotice(s *discordgo.Session, channelID string) {
	embed := &discordgo.MessageEmbed{
		Title: "¡Gracias por agregarme! 🛡️",
		Description: "Actualmente **ninguna protección está activa** en este servidor.\n" +
			"Usa `/blocks set` para empezar a bloquear invitaciones y enlaces.",
		Color: 0xFEE75C,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "📋 Reglas",
				Value:  "`/blocks list`",
				Inline: true,
			},
			{
				Name:   "⚖️ Sanciones",
				Value:  "`/penalty list`",
				Inline: true,
			},
			{
				Name:   "❓ Ayuda",
				Value:  "`/utils help`",
				Inline: true,
			},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		logger.Error(fmt.Sprintf("Error enviando mensaje de bienvenida: %v", err), "Guild")
	}
}

// onGuildDelete drops the cached rules when the bot leaves a guild.
// Outages also emit GuildDelete, with Unavailable set, and keep the cache.
func (h *handlers) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Guild == nil || g.Unavailable {
		return
	}
	h.svc.Rules.Unload(g.ID)
	logger.Info(fmt.Sprintf("➖ Bot removido del servidor ID: %s", g.ID), "Guild")
}
