package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PancyStudios/NoAdsHereGo/internal/moderation"
	"github.com/PancyStudios/NoAdsHereGo/pkg/database"
	"github.com/PancyStudios/NoAdsHereGo/pkg/models"
	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	ready bool
}

func (b *fakeBot) IsReady() bool   { return b.ready }
func (b *fakeBot) GuildCount() int { return 3 }
func (b *fakeBot) User() *discordgo.User {
	return &discordgo.User{ID: "bot1", Username: "NoAdsHere"}
}

func newTestServer(t *testing.T, opts Options) (*Server, *moderation.Service, *database.MemoryStore) {
	t.Helper()

	store := database.NewMemoryStore()
	svc := moderation.NewService(moderation.Config{
		Store:      store,
		Dispatcher: moderation.DispatcherOptions{Workers: 1, QueueSize: 1, Timeout: time.Second},
	})
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)

	return NewServer(&fakeBot{ready: true}, store, svc, opts), svc, store
}

func get(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthAndStatus(t *testing.T) {
	s, _, _ := newTestServer(t, Options{})

	rec, body := get(t, s, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])

	rec, body = get(t, s, "/api/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	db := body["database"].(map[string]interface{})
	assert.Equal(t, "memory", db["status"])
	assert.Equal(t, true, db["isOnline"])
	assert.Contains(t, body, "moderation")
}

func TestBotInfo(t *testing.T) {
	s, _, _ := newTestServer(t, Options{})

	rec, body := get(t, s, "/api/bot")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NoAdsHere", body["username"])
	assert.Equal(t, float64(3), body["guilds"])

	s.bot = &fakeBot{ready: false}
	rec, _ = get(t, s, "/api/bot")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGuildRules(t *testing.T) {
	s, svc, _ := newTestServer(t, Options{})

	_, err := svc.Rules.Enable(context.Background(), models.CategoryInvite, "g1")
	require.NoError(t, err)

	rec, body := get(t, s, "/api/guilds/g1/rules")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "g1", body["guildId"])
	assert.Equal(t, []interface{}{string(models.CategoryInvite)}, body["active"])

	rules := body["rules"].(map[string]interface{})
	assert.Equal(t, true, rules[string(models.CategoryInvite)])
	assert.Equal(t, false, rules[string(models.CategoryYoutube)])
}

func TestViolatorAndPenalties(t *testing.T) {
	s, svc, _ := newTestServer(t, Options{})
	ctx := context.Background()

	_, err := svc.Violations.AddViolation(ctx, "g1", "u1")
	require.NoError(t, err)
	_, err = svc.Violations.AddViolation(ctx, "g1", "u1")
	require.NoError(t, err)

	rec, body := get(t, s, "/api/guilds/g1/violators/u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["violations"])

	_, err = svc.Penalties.SeedDefaults(ctx, "g1")
	require.NoError(t, err)

	rec, body = get(t, s, "/api/guilds/g1/penalties")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["penalties"], len(models.DefaultPenalties("g1")))
}

func TestNotFoundRoute(t *testing.T) {
	s, _, _ := newTestServer(t, Options{})

	rec, body := get(t, s, "/api/nothing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", body["error"])
}

func TestAllowedHosts(t *testing.T) {
	s, _, _ := newTestServer(t, Options{AllowedHosts: `^(.+\.)?example\.com$`})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Host = "evil.net"
	rec := httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Host = "api.example.com"
	rec = httptest.NewRecorder()
	s.Engine().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	now := time.Unix(1000, 0)
	rl := newRateLimiter(RateLimitConfig{Window: time.Minute, MaxRequests: 2})
	rl.now = func() time.Time { return now }

	assert.True(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("1.1.1.1"))
	assert.False(t, rl.allow("1.1.1.1"))
	assert.True(t, rl.allow("2.2.2.2"))

	now = now.Add(2 * time.Minute)
	assert.True(t, rl.allow("1.1.1.1"))
	assert.Len(t, rl.clients, 1)
}

func TestRateLimitMiddleware(t *testing.T) {
	s, _, _ := newTestServer(t, Options{RateLimit: RateLimitConfig{Window: time.Minute, MaxRequests: 1}})

	rec, _ := get(t, s, "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = get(t, s, "/api/health")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
