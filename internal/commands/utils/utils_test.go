package utils

import (
	"testing"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/database"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noop(ctx *discord.CommandContext) error { return nil }

func TestHelpEmbedGroupsByCategory(t *testing.T) {
	embed := helpEmbed(map[string]*discord.Command{
		"blocks.set":  discord.NewCommand("set", "Activa un bloqueo", "blocks", noop),
		"blocks.list": discord.NewCommand("list", "Lista bloqueos", "blocks", noop),
		"utils.ping":  discord.NewCommand("ping", "Latencia", "utils", noop),
	})

	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "blocks", embed.Fields[0].Name)
	assert.Equal(t, "`/blocks list` Lista bloqueos\n`/blocks set` Activa un bloqueo", embed.Fields[0].Value)
	assert.Equal(t, "utils", embed.Fields[1].Name)
}

func TestStatusEmbed(t *testing.T) {
	svc := moderation.NewService(moderation.Config{Store: database.NewMemoryStore()})
	svc.Rules.Populate()

	embed := statusEmbed(svc, "memory", 4, 90*time.Second+300*time.Millisecond)

	values := make(map[string]string, len(embed.Fields))
	for _, f := range embed.Fields {
		values[f.Name] = f.Value
	}
	assert.Equal(t, "memory", values["Base de datos"])
	assert.Equal(t, "4 (0 con reglas cargadas)", values["Servidores"])
	assert.Equal(t, "1m30s", values["Uptime"])
}
