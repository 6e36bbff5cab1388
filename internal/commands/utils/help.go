package utils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

// createHelpCommand creates the /utils help subcommand
func createHelpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Muestra información de ayuda",
		"utils",
		func(ctx *discord.CommandContext) error {
			return ctx.ReplyEphemeralEmbed(helpEmbed(ctx.Client.Commands.All()))
		},
	).AllowDM()
}

// helpEmbed lists the registered commands grouped by category
func helpEmbed(commands map[string]*discord.Command) *discordgo.MessageEmbed {
	byCategory := make(map[string][]string)
	for name, cmd := range commands {
		line := fmt.Sprintf("`/%s` %s", strings.ReplaceAll(name, ".", " "), cmd.Description)
		byCategory[cmd.Category] = append(byCategory[cmd.Category], line)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	embed := discord.NewEmbed(
		"📖 Ayuda de NoAdsHere",
		"Bloqueo de invitaciones de Discord y enlaces de Twitch y YouTube.",
		discord.ColorInfo,
	)
	for _, category := range categories {
		lines := byCategory[category]
		sort.Strings(lines)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  category,
			Value: strings.Join(lines, "\n"),
		})
	}
	return embed
}
