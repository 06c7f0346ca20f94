package handler // handler defines http handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/innovation-hub/internal/middleware"
	"github.com/iliyamo/innovation-hub/internal/model"
	"github.com/iliyamo/innovation-hub/internal/service"
)

// requestTimeout bounds store work done on behalf of one request.  Calls to
// the AI collaborators carry their own timeouts and are not cut short.
const requestTimeout = 5 * time.Second

// requestContext derives the store context for a request.
func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// currentUser returns the user authenticated by BasicAuth.  Routes that
// call it are always mounted behind that middleware, so a missing user is a
// wiring bug and reported as 401.
func currentUser(c echo.Context) (model.User, error) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return model.User{}, fmt.Errorf("%w: authentication required", service.ErrInvalidCredentials)
	}
	return u, nil
}

// parseID reads a positive integer path parameter.  The error is an
// ErrValidation ready for fail.
func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", service.ErrValidation, name, c.Param(name))
	}
	return id, nil
}

// statusFor maps a service error kind to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrCollaborator):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error body.  Internal errors are logged and
// reported without detail.
func fail(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(code, echo.Map{"error": "internal error"})
	}
	return c.JSON(code, echo.Map{"error": err.Error()})
}

// queryInt reads an optional non-negative integer query parameter.
func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
