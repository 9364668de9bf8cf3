package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sapaudit/auth-service/internal/api/metrics"
	"github.com/sapaudit/auth-service/internal/core/ports"
	"github.com/sapaudit/auth-service/internal/core/security"
)

// Context keys populated by Auth.
const (
	CtxUsername = "username"
	CtxRoles    = "roles"
)

// NormalizePrefix guarantees the configured bearer prefix ends with a
// single space, so "Bearer" and "Bearer " behave identically.
func NormalizePrefix(prefix string) string {
	if !strings.HasSuffix(prefix, " ") {
		return prefix + " "
	}
	return prefix
}

// Auth validates the bearer token from the configured header and injects
// the authenticated identity into the request context. Role claims are not
// read from the token; the account's current roles are loaded from the
// directory on every request, so a role change takes effect immediately.
//
// Every verification failure is reported to the caller as the same 401; the
// distinct reasons feed metrics only.
func Auth(codec *security.TokenCodec, users ports.UserRepository, headerName, headerPrefix string) echo.MiddlewareFunc {
	if headerName == "" {
		headerName = "Authorization"
	}
	prefix := NormalizePrefix(headerPrefix)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(headerName)
			if header == "" || !strings.HasPrefix(header, prefix) {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid authorization header")
			}

			principal, err := codec.Verify(header[len(prefix):])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(verifyReason(err)).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			user, err := users.FindByUsername(c.Request().Context(), principal.Subject)
			if err != nil || !user.Enabled {
				metrics.TokenVerificationsTotal.WithLabelValues("unknown_subject").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(CtxUsername, user.Username)
			c.Set(CtxRoles, user.Roles)

			return next(c)
		}
	}
}

func verifyReason(err error) string {
	switch {
	case errors.Is(err, security.ErrTokenExpired):
		return "expired"
	case errors.Is(err, security.ErrTokenSignatureInvalid):
		return "bad_signature"
	case errors.Is(err, security.ErrTokenUnsupportedAlg):
		return "unsupported_alg"
	default:
		return "malformed"
	}
}
