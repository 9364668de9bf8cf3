package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sapaudit/auth-service/internal/api/middleware"
	"github.com/sapaudit/auth-service/internal/core/domain"
)

// ctxActor extracts the authenticated actor injected by the Auth middleware
// and performs a fast-fail check before any service call: a non-empty
// username proves the middleware ran and the role set was loaded from the
// directory.
func ctxActor(c echo.Context) (domain.Actor, error) {
	username, _ := c.Get(middleware.CtxUsername).(string)
	if username == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	roles, _ := c.Get(middleware.CtxRoles).([]string)
	return domain.Actor{Username: username, Roles: roles}, nil
}
