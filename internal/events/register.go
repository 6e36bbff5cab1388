// Package events wires gateway events to the moderation service.
package events

import (
	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
)

// handlers carries what the gateway callbacks need
type handlers struct {
	svc *moderation.Service
}

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, svc *moderation.Service) {
	logger.System("📋 Registrando eventos del bot...", "Events")

	h := &handlers{svc: svc}

	client.EventHandler.OnReady(onReady)
	client.EventHandler.OnGuildCreate(h.onGuildCreate)
	client.EventHandler.OnGuildDelete(h.onGuildDelete)
	client.EventHandler.OnMessageCreate(h.onMessageCreate)
	client.EventHandler.OnDisconnect(onShardDisconnect)
	client.EventHandler.OnResumed(onShardResumed)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
