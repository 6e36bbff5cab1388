package discord

import (
	"fmt"

	"github.com/PancyStudios/NoAdsHereGo/pkg/config"
	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler manages command loading and registration
type CommandHandler struct {
	client        *ExtendedClient
	slashCommands []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:        client,
		slashCommands: make([]*discordgo.ApplicationCommand, 0),
	}
}

// RegisterCommand adds a top level command to the handler
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)
	ch.slashCommands = append(ch.slashCommands, cmd.ToApplicationCommand())
	logger.Debug("Comando registrado: "+cmd.Name, "CommandHandler")
}

// BuildCommandGroup creates a command group with subcommands.
// The group requires the union of the permissions its subcommands ask for.
func (ch *CommandHandler) BuildCommandGroup(name, description string, subcommands ...*Command) *discordgo.ApplicationCommand {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))
	var perms int64

	for _, cmd := range subcommands {
		fullName := name + "." + cmd.Name
		ch.client.Commands.Set(fullName, cmd)
		perms |= cmd.UserPermissions

		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		})
	}

	group := &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options:     options,
	}
	if perms != 0 {
		group.DefaultMemberPermissions = &perms
	}
	return group
}

// AddGlobalCommand adds a command to the global command list
func (ch *CommandHandler) AddGlobalCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommands = append(ch.slashCommands, cmd)
}

// ApplicationCommands returns the commands that will be synced with Discord
func (ch *CommandHandler) ApplicationCommands() []*discordgo.ApplicationCommand {
	return ch.slashCommands
}

// targetGuild returns where commands are synced: the dev guild outside production, global otherwise
func targetGuild(cfg *config.Config) string {
	if cfg == nil || cfg.IsProd() {
		return ""
	}
	return cfg.DevGuildID
}

// RegisterCommands syncs every slash command with Discord
func (ch *CommandHandler) RegisterCommands() {
	guildID := targetGuild(config.Get())

	scope := "globales"
	if guildID != "" {
		scope = "del servidor " + guildID
	}
	logger.Info("🔄 Registrando comandos "+scope+"...", "CommandHandler")

	synced, err := ch.SyncCommands(guildID)
	if err != nil {
		logger.Error("Error registrando comandos: "+err.Error(), "CommandHandler")
		return
	}

	logger.Success(fmt.Sprintf("✅ %d comandos %s registrados.", len(synced), scope), "CommandHandler")
}

// SyncCommands replaces the application commands of guildID (global when empty)
// with the registered ones in a single bulk overwrite
func (ch *CommandHandler) SyncCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommandBulkOverwrite(ch.appID(), guildID, ch.slashCommands)
}

// ListGlobalCommands returns the global commands currently known by Discord
func (ch *CommandHandler) ListGlobalCommands() ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.appID(), "")
}

// ListGuildCommands returns the commands registered on a single guild
func (ch *CommandHandler) ListGuildCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.appID(), guildID)
}

// UnregisterCommands removes all global commands from Discord
func (ch *CommandHandler) UnregisterCommands() error {
	return ch.unregister("")
}

// UnregisterGuildCommands removes all commands registered on guildID
func (ch *CommandHandler) UnregisterGuildCommands(guildID string) error {
	return ch.unregister(guildID)
}

func (ch *CommandHandler) unregister(guildID string) error {
	commands, err := ch.client.Session.ApplicationCommands(ch.appID(), guildID)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		if err := ch.client.Session.ApplicationCommandDelete(ch.appID(), guildID, cmd.ID); err != nil {
			logger.Error("Error eliminando comando "+cmd.Name+": "+err.Error(), "CommandHandler")
		}
	}

	logger.Success(fmt.Sprintf("%d comandos eliminados.", len(commands)), "CommandHandler")
	return nil
}

// appID is the bot user ID, available once the session is open
func (ch *CommandHandler) appID() string {
	return ch.client.Session.State.User.ID
}
