// Package cmdutil holds the pieces shared by the slash command packages:
// deferred replies, option builders and error rendering.
package cmdutil

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/discord"
	"github.com/PancyStudios/NoAdsHereGo/pkg/errors"
	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// CommandTimeout bounds the storage work done by a single command
const CommandTimeout = 10 * time.Second

// Handler does the work of a command and returns the embed to show
type Handler func(ctx context.Context, cmd *discord.CommandContext) (*discordgo.MessageEmbed, error)

// Deferred acknowledges the interaction at once and edits the reply when h returns.
// Storage round trips can exceed the three seconds Discord waits for an answer.
func Deferred(h Handler) discord.CommandRunFunc {
	return func(cmd *discord.CommandContext) error {
		if err := cmd.Defer(); err != nil {
			return err
		}

		go func() {
			defer errors.RecoverMiddleware()()

			ctx, cancel := context.WithTimeout(context.Background(), CommandTimeout)
			defer cancel()

			embed, err := h(ctx, cmd)
			if err != nil {
				embed = ErrorEmbed(err)
			}
			if err := cmd.EditReplyEmbed(embed); err != nil {
				logger.Error("Error editando respuesta: "+err.Error(), "Commands")
			}
		}()
		return nil
	}
}

// UserError is a validation failure whose text is shown as is
type UserError string

func (e UserError) Error() string { return string(e) }

// Invalid builds a UserError
func Invalid(format string, a ...interface{}) error {
	return UserError(fmt.Sprintf(format, a...))
}

// ErrorEmbed renders err for the user. Unexpected errors are logged.
func ErrorEmbed(err error) *discordgo.MessageEmbed {
	var userErr UserError
	var description string

	switch {
	case stderrors.As(err, &userErr):
		description = string(userErr)
	case stderrors.Is(err, moderation.ErrStorageUnavailable):
		description = "La base de datos no está disponible en este momento, intenta más tarde."
	case stderrors.Is(err, moderation.ErrPermissionDenied):
		description = "No tengo permisos suficientes para hacer eso."
	case stderrors.Is(err, moderation.ErrUnknownCategory):
		description = "Categoría desconocida."
	case stderrors.Is(err, moderation.ErrInvalidThreshold):
		description = "El umbral debe ser mayor que cero."
	case stderrors.Is(err, context.DeadlineExceeded):
		description = "La operación tardó demasiado, intenta de nuevo."
	default:
		logger.Error("Error inesperado en comando: "+err.Error(), "Commands")
		description = "Ocurrió un error inesperado."
	}
	return discord.NewEmbed("❌ Error", description, discord.ColorError)
}

// CategoryOption builds a category choice option, optionally offering "all"
func CategoryOption(description string, required, withAll bool) *discordgo.ApplicationCommandOption {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(models.Categories)+1)
	for _, c := range models.Categories {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: c.Label(), Value: string(c)})
	}
	if withAll {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  models.CategoryAll.Label(),
			Value: string(models.CategoryAll),
		})
	}

	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "categoria",
		Description: description,
		Required:    required,
		Choices:     choices,
	}
}

// IgnoreTypeOption builds the user/channel/role choice option
func IgnoreTypeOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "tipo",
		Description: "A quién aplica",
		Required:    true,
		Choices: []*discordgo.ApplicationCommandOptionChoice{
			{Name: "usuario", Value: string(models.IgnoreTypeUser)},
			{Name: "canal", Value: string(models.IgnoreTypeChannel)},
			{Name: "rol", Value: string(models.IgnoreTypeRole)},
		},
	}
}

// ParseCategory validates a category coming from a command option.
// Empty values fall back to def.
func ParseCategory(value string, def models.Category, allowAll bool) (models.Category, error) {
	if value == "" {
		return def, nil
	}
	c, ok := models.ParseCategory(value, allowAll)
	if !ok {
		return "", Invalid("Categoría desconocida: `%s`.", value)
	}
	return c, nil
}

// ParseID extracts a snowflake from a raw ID or a user, role or channel mention
func ParseID(value string) (string, error) {
	id := strings.TrimSpace(value)
	id = strings.TrimPrefix(id, "<")
	id = strings.TrimSuffix(id, ">")
	id = strings.TrimLeft(id, "@!&#")

	if id == "" {
		return "", Invalid("Debes indicar un ID o una mención.")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", Invalid("`%s` no es un ID válido.", value)
		}
	}
	return id, nil
}
