package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/config"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

// setupAPIRoutes sets up the API routes
func (s *Server) setupAPIRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/status", s.statusHandler)
		api.GET("/health", s.healthHandler)
		api.GET("/bot", s.botInfoHandler)

		guilds := api.Group("/guilds/:guildId")
		guilds.GET("/rules", s.rulesHandler)
		guilds.GET("/penalties", s.penaltiesHandler)
		guilds.GET("/violators/:userId", s.violatorHandler)
	}
}

// statusHandler returns the bot, storage and worker status
func (s *Server) statusHandler(c *gin.Context) {
	dbStatus, dbOnline := "", false
	if s.storage != nil {
		dbStatus, dbOnline = s.storage.GetStatus()
	}

	botOnline := s.bot != nil && s.bot.IsReady()

	body := gin.H{
		"status":  "ok",
		"version": config.Version,
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	}

	if s.moderation != nil {
		stats := s.moderation.Dispatcher.Stats()
		guilds, perCategory := s.moderation.Rules.Stats()
		body["moderation"] = gin.H{
			"dispatcher":   stats,
			"loadedGuilds": guilds,
			"activeRules":  perCategory,
		}
	}

	c.JSON(http.StatusOK, body)
}

// healthHandler returns a simple health check response
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "NoAdsHere Go is running",
	})
}

// botInfoHandler returns information about the bot
func (s *Server) botInfoHandler(c *gin.Context) {
	if s.bot == nil || !s.bot.IsReady() || s.bot.User() == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := s.bot.User()
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"avatar":   user.Avatar,
		"guilds":   s.bot.GuildCount(),
		"isReady":  true,
	})
}

// rulesHandler returns which categories are blocked in a guild
func (s *Server) rulesHandler(c *gin.Context) {
	if !s.requireModeration(c) {
		return
	}
	guildID := c.Param("guildId")

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := s.moderation.Rules.LoadGuild(ctx, guildID); err != nil {
		writeError(c, err)
		return
	}

	rules := make(map[models.Category]bool, len(models.Categories))
	for _, category := range models.Categories {
		rules[category] = s.moderation.Rules.IsActive(category, guildID)
	}

	c.JSON(http.StatusOK, gin.H{
		"guildId": guildID,
		"active":  s.moderation.Rules.ActiveCategories(guildID),
		"rules":   rules,
	})
}

// penaltiesHandler returns the penalty ladder of a guild ordered by threshold
func (s *Server) penaltiesHandler(c *gin.Context) {
	if !s.requireModeration(c) {
		return
	}
	guildID := c.Param("guildId")

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	penalties, err := s.moderation.Penalties.List(ctx, guildID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"guildId":   guildID,
		"penalties": penalties,
	})
}

// violatorHandler returns the violation count of a user in a guild
func (s *Server) violatorHandler(c *gin.Context) {
	if !s.requireModeration(c) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	violator, err := s.moderation.Violations.Get(ctx, c.Param("guildId"), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, violator)
}

func (s *Server) requireModeration(c *gin.Context) bool {
	if s.moderation != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":   "Moderation Offline",
		"message": "El módulo de moderación no está disponible.",
	})
	return false
}

// writeError maps moderation errors onto HTTP status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	title := "Internal Server Error"

	switch {
	case errors.Is(err, moderation.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
		title = "Storage Unavailable"
	case errors.Is(err, moderation.ErrNotFound):
		status = http.StatusNotFound
		title = "Not Found"
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		title = "Timeout"
	}

	c.JSON(status, gin.H{
		"error":   title,
		"message": err.Error(),
		"status":  status,
	})
}
