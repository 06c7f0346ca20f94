package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/innovation-hub/internal/model"
	"github.com/iliyamo/innovation-hub/internal/service"
)

// AdminHandler exposes the review workflow and user management.  Every
// route is mounted behind RequireRole(admin); the services check again.
type AdminHandler struct {
	Ideas    *service.Controller
	Accounts *service.Accounts
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(ctrl *service.Controller, acc *service.Accounts) *AdminHandler {
	if ctrl == nil || acc == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Ideas: ctrl, Accounts: acc}
}

// transitionTo builds a handler that moves the idea in :id to target.
func (h *AdminHandler) transitionTo(target model.Status) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, err := currentUser(c)
		if err != nil {
			return fail(c, err)
		}
		id, err := parseID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		var scores *service.Scores
		if target == model.StatusApproved {
			scores = new(service.Scores)
			if err := c.Bind(scores); err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
			}
		}
		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := h.Ideas.Transition(ctx, u, id, target, scores)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(http.StatusOK, res)
	}
}

// Review moves a New idea to Under Review.
func (h *AdminHandler) Review(c echo.Context) error {
	return h.transitionTo(model.StatusUnderReview)(c)
}

// Approve expects {"impact","feasibility","innovation","strategic"} in the
// body, each 1..10.
func (h *AdminHandler) Approve(c echo.Context) error {
	return h.transitionTo(model.StatusApproved)(c)
}

// Reject moves a New or Under Review idea to Rejected.
func (h *AdminHandler) Reject(c echo.Context) error {
	return h.transitionTo(model.StatusRejected)(c)
}

// Start moves an Approved idea to In Progress.
func (h *AdminHandler) Start(c echo.Context) error {
	return h.transitionTo(model.StatusInProgress)(c)
}

// Implement moves an In Progress idea to Implemented.
func (h *AdminHandler) Implement(c echo.Context) error {
	return h.transitionTo(model.StatusImplemented)(c)
}

// CreateUser creates an account with the requested role (employee by
// default).
func (h *AdminHandler) CreateUser(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.NewUser
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	ctx, cancel := requestContext(c)
	defer cancel()

	created, err := h.Accounts.CreateUser(ctx, u, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

type grantReq struct {
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// GrantPoints credits :username with {"points","reason"}.
func (h *AdminHandler) GrantPoints(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return fail(c, err)
	}
	var req grantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	award, err := h.Ideas.GrantPoints(ctx, u, c.Param("username"), req.Points, req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, award)
}
