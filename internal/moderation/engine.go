package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/google/uuid"
)

// Message is an inbound chat message as seen by the moderation pipeline
type Message struct {
	ID          string
	GuildID     string
	ChannelID   string
	AuthorID    string
	AuthorRoles []string
	Content     string
}

// Outcome is what the engine did about one matched category
type Outcome int

const (
	// NotActive means the category is not enforced in the guild
	NotActive Outcome = iota
	// Ignored means the author, channel or a role is exempt
	Ignored
	// FlaggedNoPermission means the bot cannot manage messages in the channel
	FlaggedNoPermission
	// Suppressed means the message was deleted and a violation recorded
	Suppressed
)

func (o Outcome) String() string {
	switch o {
	case NotActive:
		return "not_active"
	case Ignored:
		return "ignored"
	case FlaggedNoPermission:
		return "flagged_no_permission"
	case Suppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// Decision is the result for one matched category
type Decision struct {
	Category   models.Category
	Outcome    Outcome
	Violations int
	Penalty    *models.Penalty
	Err        error
}

// EngineDeps holds the collaborators of an Engine
type EngineDeps struct {
	Matcher    *Matcher
	Rules      *RuleCache
	Ignores    *IgnoreResolver
	Violations *ViolationTracker
	Penalties  *PenaltyEscalator
	Platform   Platform
	Events     EventSink
}

// Engine sequences match, exemption, suppression and recording for each message
type Engine struct {
	matcher    *Matcher
	rules      *RuleCache
	ignores    *IgnoreResolver
	violations *ViolationTracker
	penalties  *PenaltyEscalator
	platform   Platform
	events     EventSink
}

// NewEngine creates an engine. A nil Matcher gets the default one.
func NewEngine(deps EngineDeps) *Engine {
	if deps.Matcher == nil {
		deps.Matcher = NewMatcher()
	}
	return &Engine{
		matcher:    deps.Matcher,
		rules:      deps.Rules,
		ignores:    deps.Ignores,
		violations: deps.Violations,
		penalties:  deps.Penalties,
		platform:   deps.Platform,
		events:     deps.Events,
	}
}

// Evaluate classifies msg and acts on every matched category independently.
// The permission check and the delete happen at most once per message.
func (e *Engine) Evaluate(ctx context.Context, msg Message) []Decision {
	matches := e.matcher.Classify(msg.Content)
	if len(matches) == 0 {
		return nil
	}

	log := logger.WithFields(logger.Fields{
		"guild":   msg.GuildID,
		"channel": msg.ChannelID,
		"user":    msg.AuthorID,
		"message": msg.ID,
	}, "Engine")

	// A guild whose load failed on GuildCreate is retried here
	if !e.rules.Loaded(msg.GuildID) {
		if err := e.rules.LoadGuild(ctx, msg.GuildID); err != nil {
			log.Warn(fmt.Sprintf("No se pudieron cargar las reglas del servidor: %v", err))
		}
	}

	var (
		permChecked     bool
		canManage       bool
		permErr         error
		deleteAttempted bool
	)

	decisions := make([]Decision, 0, len(matches))
	for _, match := range matches {
		d := Decision{Category: match.Category}

		if !e.rules.IsActive(match.Category, msg.GuildID) {
			d.Outcome = NotActive
			decisions = append(decisions, d)
			continue
		}

		exempt, err := e.exempt(ctx, msg, match)
		if err != nil {
			log.Warn(fmt.Sprintf("No se pudo resolver la exención para %s, se omite: %v", match.Category, err))
			d.Outcome, d.Err = Ignored, err
			decisions = append(decisions, d)
			continue
		}
		if exempt {
			d.Outcome = Ignored
			decisions = append(decisions, d)
			continue
		}

		if !permChecked {
			permChecked = true
			canManage, permErr = e.platform.CanManageMessages(ctx, msg.ChannelID)
		}
		if !canManage {
			log.Warn(fmt.Sprintf("Sin permiso de gestionar mensajes, %s detectado pero no eliminado", match.Category))
			d.Outcome, d.Err = FlaggedNoPermission, permErr
			decisions = append(decisions, d)
			continue
		}

		if !deleteAttempted {
			deleteAttempted = true
			if err := e.platform.DeleteMessage(ctx, msg.ChannelID, msg.ID); err != nil {
				switch {
				case errors.Is(err, ErrNotFound):
					log.Debug("El mensaje ya había sido eliminado")
				case errors.Is(err, ErrPermissionDenied):
					log.Warn("Permiso denegado al eliminar el mensaje")
				default:
					log.Error(fmt.Sprintf("Fallo al eliminar el mensaje: %v", err))
				}
			} else {
				log.Info(fmt.Sprintf("Mensaje eliminado por %s", match.Category.Label()))
			}
		}
		d.Outcome = Suppressed

		count, err := e.violations.AddViolation(ctx, msg.GuildID, msg.AuthorID)
		if err != nil {
			log.Error(err.Error())
			d.Err = err
			decisions = append(decisions, d)
			continue
		}
		d.Violations = count
		e.publish(ctx, Event{
			Type:       EventSuppressed,
			GuildID:    msg.GuildID,
			ChannelID:  msg.ChannelID,
			UserID:     msg.AuthorID,
			MessageID:  msg.ID,
			Category:   match.Category,
			Violations: count,
		})

		penalty, ok, err := e.penalties.Evaluate(ctx, msg.GuildID, msg.AuthorID, count)
		if err != nil {
			log.Error(err.Error())
			d.Err = err
			decisions = append(decisions, d)
			continue
		}
		if ok {
			d.Penalty = &penalty
			e.applyPenalty(ctx, log, msg, penalty, match.Category, count)
		}
		decisions = append(decisions, d)
	}
	return decisions
}

func (e *Engine) exempt(ctx context.Context, msg Message, match Match) (bool, error) {
	exempt, err := e.ignores.IsExempt(ctx, msg.GuildID, match.Category, msg.AuthorID, msg.ChannelID, msg.AuthorRoles)
	if err != nil || exempt {
		return exempt, err
	}
	return e.ignores.Allowed(ctx, msg.GuildID, msg.AuthorID, msg.ChannelID, msg.AuthorRoles, match.Values)
}

func (e *Engine) applyPenalty(ctx context.Context, log *logger.Entry, msg Message, p models.Penalty, category models.Category, count int) {
	if p.Action == models.PenaltyNone {
		return
	}
	if err := e.penalties.Execute(ctx, msg, p, category); err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			log.Warn(fmt.Sprintf("Permiso denegado al aplicar %s", p.Action))
		} else {
			log.Error(fmt.Sprintf("Fallo al aplicar %s: %v", p.Action, err))
		}
		return
	}
	log.Info(fmt.Sprintf("Penalización %s aplicada con %d infracciones", p.Action, count))
	e.publish(ctx, Event{
		Type:       EventPenalty,
		GuildID:    msg.GuildID,
		ChannelID:  msg.ChannelID,
		UserID:     msg.AuthorID,
		MessageID:  msg.ID,
		Category:   category,
		Violations: count,
		Action:     p.Action,
	})
}

func (e *Engine) publish(ctx context.Context, event Event) {
	if e.events == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().Unix()
	if err := e.events.Publish(ctx, event); err != nil {
		logger.Debug(fmt.Sprintf("No se pudo publicar el evento %s: %v", event.Type, err), "Engine")
	}
}
