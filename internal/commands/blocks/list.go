package blocks

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

// createListCommand creates the /blocks list subcommand
func createListCommand(svc *moderation.Service) *discord.Command {
	return discord.NewCommand(
		"list",
		"Muestra qué categorías están bloqueadas",
		"blocks",
		cmdutil.Deferred(func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error) {
			return listBlocks(ctx, svc.Rules, cmd.GuildID())
		}),
	)
}

func listBlocks(ctx context.Context, rules *moderation.RuleCache, guildID string) (*discordgo.MessageEmbed, error) {
	if err := rules.LoadGuild(ctx, guildID); err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, category := range models.Categories {
		icon := "🔴"
		if rules.IsActive(category, guildID) {
			icon = "🟢"
		}
		fmt.Fprintf(&b, "%s %s (`%s`)\n", icon, category.Label(), category)
	}

	return discord.NewEmbed("📋 Bloqueos del servidor", b.String(), discord.ColorInfo), nil
}
