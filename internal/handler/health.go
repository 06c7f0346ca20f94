package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	DB *sql.DB
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{DB: db} }

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems.  It pings the database and answers "ok" with 200, or
// 503 when the database cannot be reached.
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "error": "database unreachable"})
	}
	return c.String(http.StatusOK, "ok")
}
