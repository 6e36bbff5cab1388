// Package web provides an HTTP server with routing and middleware.
// It uses Gin framework for high-performance web handling.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

// Bot is the part of the Discord client exposed over HTTP
type Bot interface {
	IsReady() bool
	GuildCount() int
	User() *discordgo.User
}

// StorageStatus reports the state of the persistence backend
type StorageStatus interface {
	GetStatus() (string, bool)
}

// Options configures a Server
type Options struct {
	WebhookURL string
	// AllowedHosts restricts the Host header, empty accepts every host
	AllowedHosts string
	RateLimit    RateLimitConfig
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Window      time.Duration
	MaxRequests int
}

// DefaultRateLimit allows 100 requests per minute and client
func DefaultRateLimit() RateLimitConfig {
	return RateLimitConfig{Window: time.Minute, MaxRequests: 100}
}

// Server represents the web server
type Server struct {
	engine           *gin.Engine
	mu               sync.Mutex
	httpServer       *http.Server
	webhookURL       string
	allowedHostRegex *regexp.Regexp
	client           *http.Client

	bot        Bot
	storage    StorageStatus
	moderation *moderation.Service
}

// NewServer creates a new web server
func NewServer(bot Bot, storage StorageStatus, svc *moderation.Service, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:     engine,
		webhookURL: opts.WebhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
		bot:        bot,
		storage:    storage,
		moderation: svc,
	}
	if opts.AllowedHosts != "" {
		s.allowedHostRegex = regexp.MustCompile(opts.AllowedHosts)
	}

	limit := opts.RateLimit
	if limit.MaxRequests <= 0 || limit.Window <= 0 {
		limit = DefaultRateLimit()
	}

	s.engine.Use(s.logsMiddleware())
	s.engine.Use(newRateLimiter(limit).middleware())

	s.setupErrorHandlers()
	s.setupAPIRoutes()

	return s
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// logsMiddleware logs every request and rejects hosts outside the allow list
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.allowedHostRegex != nil && !s.allowedHostRegex.MatchString(c.Request.Host) {
			logger.Warn(fmt.Sprintf("[LOG] Solicitud Sospechosa: %s %s | %s", c.Request.Method, c.Request.URL.Path, c.ClientIP()), "WebServer")
			go s.sendLogToWebhook(requestSummary(c), true)
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		start := time.Now()
		c.Next()

		logger.WithFields(logger.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"ip":      c.ClientIP(),
		}, "WebServer").Debug(fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path))
	}
}

type request struct {
	Method  string
	Path    string
	IP      string
	Headers http.Header
	Query   string
}

func requestSummary(c *gin.Context) request {
	return request{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		IP:      c.ClientIP(),
		Headers: c.Request.Header.Clone(),
		Query:   c.Request.URL.RawQuery,
	}
}

// sendLogToWebhook sends a request summary to the Discord webhook
func (s *Server) sendLogToWebhook(r request, suspicious bool) {
	if s.webhookURL == "" {
		return
	}

	title := fmt.Sprintf("💫 | Nueva solicitud al servidor web de tipo %s", r.Method)
	color := 0x00AE86
	if suspicious {
		title = fmt.Sprintf("💫 | Solicitud Sospechosa Rechazada: %s %s", r.Method, r.Path)
		color = 0xFFA500
	}

	headers, _ := json.Marshal(r.Headers)
	query := r.Query
	if query == "" {
		query = "{}"
	}

	payload, err := json.Marshal(map[string]interface{}{
		"embeds": []interface{}{
			map[string]interface{}{
				"title": title,
				"description": fmt.Sprintf(
					"> **Ruta:** `%s`\n> **IP:** `%s`\n> **Headers:** ```%s``` \n> **Query:** ```%s```",
					r.Path, r.IP, string(headers), query,
				),
				"color":     color,
				"timestamp": time.Now().Format(time.RFC3339),
			},
		},
	})
	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()
}

// rateLimiter is a fixed window limiter keyed by client IP
type rateLimiter struct {
	mu      sync.Mutex
	config  RateLimitConfig
	clients map[string]*clientWindow
	now     func() time.Time
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

func newRateLimiter(config RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		config:  config,
		clients: make(map[string]*clientWindow),
		now:     time.Now,
	}
}

// allow counts a request from ip and reports whether it is within the limit
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	info, ok := rl.clients[ip]
	if !ok || now.After(info.resetAt) {
		// Expired windows are dropped on the way so the map does not grow forever
		for key, w := range rl.clients {
			if now.After(w.resetAt) {
				delete(rl.clients, key)
			}
		}
		rl.clients[ip] = &clientWindow{count: 1, resetAt: now.Add(rl.config.Window)}
		return true
	}

	info.count++
	return info.count <= rl.config.MaxRequests
}

func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes, por favor intente de nuevo más tarde.",
			})
			return
		}
		c.Next()
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.HandleMethodNotAllowed = true

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La ruta solicitada no existe.",
			"status":  http.StatusNotFound,
		})
	})

	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "El método HTTP no está permitido para esta ruta.",
			"status":  http.StatusMethodNotAllowed,
		})
	})
}

// Start serves HTTP on port until Shutdown is called
func (s *Server) Start(port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	logger.Info(fmt.Sprintf("🚀 Servidor escuchando en http://localhost:%s", port), "WebServer")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	go func() {
		if err := s.Start(port); err != nil {
			logger.Error(fmt.Sprintf("Error starting web server: %v", err), "WebServer")
		}
	}()
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
