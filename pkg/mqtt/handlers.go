package mqtt

import (
	"context"
	"errors"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
)

const handlerTimeout = 5 * time.Second

var errMissingField = errors.New("missing field")

func stringField(payload map[string]interface{}, key string) (string, error) {
	v, ok := payload[key].(string)
	if !ok || v == "" {
		return "", errMissingField
	}
	return v, nil
}

// RulesHandler answers nah/request/guild.rules with the active categories of guildId
func RulesHandler(svc *moderation.Service) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		guildID, err := stringField(payload, "guildId")
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		if err := svc.Rules.LoadGuild(ctx, guildID); err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"guildId": guildID,
			"active":  svc.Rules.ActiveCategories(guildID),
		}, nil
	}
}

// ViolatorHandler answers nah/request/guild.violator with the violation count of userId
func ViolatorHandler(svc *moderation.Service) RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		guildID, err := stringField(payload, "guildId")
		if err != nil {
			return nil, err
		}
		userID, err := stringField(payload, "userId")
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		return svc.Violations.Get(ctx, guildID, userID)
	}
}
