package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/innovation-hub/internal/handler"
	"github.com/iliyamo/innovation-hub/internal/middleware"
	"github.com/iliyamo/innovation-hub/internal/model"
)

// Handlers groups every handler the API mounts.
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Ideas       *handler.IdeaHandler
	Admin       *handler.AdminHandler
	Leaderboard *handler.LeaderboardHandler
	Assistant   *handler.AssistantHandler
}

// Middleware groups the cross-cutting middleware built in main.  Any field
// may be a pass-through when its backing service is disabled.
type Middleware struct {
	Auth       echo.MiddlewareFunc // BasicAuth
	RateLimit  echo.MiddlewareFunc // token bucket per user or IP
	Cache      echo.MiddlewareFunc // read cache for rankings
	Invalidate echo.MiddlewareFunc // bumps the cache generation on writes
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

// withDefaults replaces unset optional middleware with pass-throughs.
// Auth is never optional.
func (m Middleware) withDefaults() Middleware {
	if m.Auth == nil {
		panic("router: authentication middleware is required")
	}
	if m.RateLimit == nil {
		m.RateLimit = passThrough
	}
	if m.Cache == nil {
		m.Cache = passThrough
	}
	if m.Invalidate == nil {
		m.Invalidate = passThrough
	}
	return m
}

// RegisterRoutes mounts the whole API on e.
func RegisterRoutes(e *echo.Echo, h Handlers, mw Middleware) {
	mw = mw.withDefaults()
	// Unauthenticated: health check and self-registration.
	e.GET("/healthz", h.Health.Health)
	e.POST("/v1/auth/register", h.Auth.Register, mw.RateLimit, mw.Invalidate)

	// Every other /v1 route authenticates with Basic credentials.  Rate
	// limiting runs after authentication so buckets are keyed by username.
	v1 := e.Group("/v1", mw.Auth, mw.RateLimit)
	v1.GET("/me", h.Auth.Me)
	v1.GET("/users/:username", h.Auth.Profile)

	registerIdeas(v1, h.Ideas, mw)
	registerAdmin(v1, h.Admin, mw)
	registerLeaderboard(v1, h.Leaderboard, mw)
	registerAssistant(v1, h.Assistant)
}

// registerIdeas mounts browsing, submission, upvotes and comments.
func registerIdeas(g *echo.Group, h *handler.IdeaHandler, mw Middleware) {
	g.GET("/ideas", h.List)
	g.GET("/ideas/top", h.Top, mw.Cache)
	g.GET("/ideas/:id", h.Get)
	g.POST("/ideas", h.Submit, mw.Invalidate)
	g.POST("/ideas/:id/upvote", h.Upvote, mw.Invalidate)
	g.GET("/ideas/:id/comments", h.Comments)
	g.POST("/ideas/:id/comments", h.PostComment, mw.Invalidate)
	g.POST("/comments/:id/like", h.LikeComment)
}

// registerAdmin mounts the review workflow and user management under
// /v1/admin, restricted to the admin role.
func registerAdmin(g *echo.Group, h *handler.AdminHandler, mw Middleware) {
	a := g.Group("/admin", middleware.RequireRole(model.RoleAdmin), mw.Invalidate)
	a.POST("/ideas/:id/review", h.Review)
	a.POST("/ideas/:id/approve", h.Approve)
	a.POST("/ideas/:id/reject", h.Reject)
	a.POST("/ideas/:id/start", h.Start)
	a.POST("/ideas/:id/implement", h.Implement)
	a.POST("/users", h.CreateUser)
	a.POST("/users/:username/points", h.GrantPoints)
}

// registerLeaderboard mounts the cached read-only rankings.
func registerLeaderboard(g *echo.Group, h *handler.LeaderboardHandler, mw Middleware) {
	g.GET("/leaderboard", h.Users, mw.Cache)
	g.GET("/leaderboard/departments", h.Departments, mw.Cache)
	g.GET("/stats", h.Stats, mw.Cache)
}

// registerAssistant mounts the AI helpers.
func registerAssistant(g *echo.Group, h *handler.AssistantHandler) {
	a := g.Group("/assistant")
	a.POST("/translate", h.Translate)
	a.POST("/summarize", h.Summarize)
	a.POST("/detect-language", h.DetectLanguage)
	a.POST("/transcribe", h.Transcribe)
}
