package events

import (
	"context"
	"errors"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// submitTimeout bounds how long the gateway goroutine waits on a full queue
const submitTimeout = 2 * time.Second

// toMessage converts a gateway message into the moderation input.
// Bots, webhooks, DMs and empty messages are not moderated.
func toMessage(m *discordgo.MessageCreate) (moderation.Message, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return moderation.Message{}, false
	}
	if m.Author.Bot || m.WebhookID != "" || m.GuildID == "" || m.Content == "" {
		return moderation.Message{}, false
	}

	var roles []string
	if m.Member != nil {
		roles = m.Member.Roles
	}

	return moderation.Message{
		ID:          m.ID,
		GuildID:     m.GuildID,
		ChannelID:   m.ChannelID,
		AuthorID:    m.Author.ID,
		AuthorRoles: roles,
		Content:     m.Content,
	}, true
}

// onMessageCreate hands every guild message to the dispatcher
func (h *handlers) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	msg, ok := toMessage(m)
	if !ok {
		return
	}
	h.submit(msg)
}

func (h *handlers) submit(msg moderation.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
	defer cancel()

	err := h.svc.Dispatcher.Submit(ctx, msg)
	switch {
	case err == nil:
	case errors.Is(err, moderation.ErrQueueFull):
		logger.WithFields(logger.Fields{
			"guild":   msg.GuildID,
			"message": msg.ID,
		}, "Message").Warn("Cola de moderación llena, mensaje descartado")
	case errors.Is(err, moderation.ErrDispatcherStopped):
		logger.Debug("Mensaje ignorado durante el apagado", "Message")
	default:
		logger.Error("Error enviando mensaje a moderación: "+err.Error(), "Message")
	}
}
