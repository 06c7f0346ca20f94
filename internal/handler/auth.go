package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/innovation-hub/internal/service"
)

// AuthHandler bundles dependencies for account endpoints.
type AuthHandler struct {
	Accounts *service.Accounts
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(a *service.Accounts) *AuthHandler {
	return &AuthHandler{Accounts: a}
}

type registerReq struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// Register creates an Employee account.  No token is issued; the client
// authenticates every later request with Basic credentials.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := h.Accounts.Register(ctx, service.NewUser{
		Username:   strings.TrimSpace(req.Username),
		Password:   req.Password,
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Department: strings.TrimSpace(req.Department),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// Me returns the caller's profile with level progress and idea counters.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Accounts.Profile(ctx, u.Username)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Profile returns another user's public profile.
func (h *AuthHandler) Profile(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	p, err := h.Accounts.Profile(ctx, c.Param("username"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
