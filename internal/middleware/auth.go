package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/innovation-hub/internal/model"
	"github.com/iliyamo/innovation-hub/internal/service"
)

// Context keys populated by BasicAuth.
const (
	CtxUser     = "user"
	CtxUsername = "username"
	CtxRole     = "role"
)

// Authenticator checks a username/password pair and returns the account.
// *service.Accounts satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (model.User, error)
}

// BasicAuth returns a middleware that authenticates every request with HTTP
// Basic credentials.  There are no sessions or tokens: each request carries
// the username and password and is verified against the stored bcrypt
// hash.  On success the user, the username and the role are stored in the
// echo context under CtxUser, CtxUsername and CtxRole.  Unknown users and
// wrong passwords produce the same 401 response.
func BasicAuth(auth Authenticator) echo.MiddlewareFunc {
	return echomw.BasicAuthWithConfig(echomw.BasicAuthConfig{
		Realm: "Innovation Hub",
		Validator: func(username, password string, c echo.Context) (bool, error) {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()
			user, err := auth.Authenticate(ctx, username, password)
			if errors.Is(err, service.ErrInvalidCredentials) {
				return false, nil
			}
			if err != nil {
				return false, err
			}
			c.Set(CtxUser, user)
			c.Set(CtxUsername, user.Username)
			c.Set(CtxRole, string(user.Role))
			return true, nil
		},
	})
}

// CurrentUser returns the authenticated user stored by BasicAuth.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(CtxUser).(model.User)
	return u, ok
}
