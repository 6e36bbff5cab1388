package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/bwmarrin/discordgo"
)

// Platform implements moderation.Platform over a discordgo session
type Platform struct {
	session *discordgo.Session
}

var _ moderation.Platform = (*Platform)(nil)

// NewPlatform creates a Platform bound to session
func NewPlatform(session *discordgo.Session) *Platform {
	return &Platform{session: session}
}

// CanManageMessages reports whether the bot may delete messages in channelID.
// The state cache is used first and REST is the fallback.
func (p *Platform) CanManageMessages(ctx context.Context, channelID string) (bool, error) {
	botID := p.session.State.User.ID

	perms, err := p.session.State.UserChannelPermissions(botID, channelID)
	if err != nil {
		perms, err = p.session.UserChannelPermissions(botID, channelID, discordgo.WithContext(ctx))
		if err != nil {
			return false, mapError(err)
		}
	}
	return canManage(perms), nil
}

// DeleteMessage removes a message from a channel
func (p *Platform) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return mapError(p.session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)))
}

// Warn posts a warning that mentions the user in the channel where the violation happened
func (p *Platform) Warn(ctx context.Context, guildID, channelID, userID, reason string) error {
	_, err := p.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: warnContent(userID, reason),
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Users: []string{userID},
		},
	}, discordgo.WithContext(ctx))
	return mapError(err)
}

// Kick removes the user from the guild
func (p *Platform) Kick(ctx context.Context, guildID, userID, reason string) error {
	return mapError(p.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)))
}

// Ban bans the user without deleting their message history
func (p *Platform) Ban(ctx context.Context, guildID, userID, reason string) error {
	return mapError(p.session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx)))
}

func warnContent(userID, reason string) string {
	return fmt.Sprintf("⚠️ <@%s>, %s", userID, reason)
}

func canManage(perms int64) bool {
	return perms&discordgo.PermissionAdministrator != 0 ||
		perms&discordgo.PermissionManageMessages != 0
}

// mapError translates Discord REST failures into moderation sentinel errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", moderation.ErrPermissionDenied, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", moderation.ErrNotFound, err)
		}
	}
	return err
}
