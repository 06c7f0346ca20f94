package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/innovation-hub/internal/repository"
	"github.com/iliyamo/innovation-hub/internal/service"
)

// LeaderboardHandler serves the read-only rankings and dashboard.
type LeaderboardHandler struct {
	Game  *service.Gamification
	Store *repository.Store
}

// NewLeaderboardHandler constructs a LeaderboardHandler.
func NewLeaderboardHandler(g *service.Gamification, s *repository.Store) *LeaderboardHandler {
	return &LeaderboardHandler{Game: g, Store: s}
}

// Users returns users ranked by points; limit 0 (the default) returns all.
func (h *LeaderboardHandler) Users(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := h.Game.Leaderboard(ctx, queryInt(c, "limit", 0))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"leaderboard": entries})
}

// Departments returns per-department idea counts, upvotes and mean score.
func (h *LeaderboardHandler) Departments(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	rows, err := h.Game.DepartmentLeaderboard(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"departments": rows})
}

// Stats returns the dashboard aggregates.
func (h *LeaderboardHandler) Stats(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	st, err := service.Stats(ctx, h.Store)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
