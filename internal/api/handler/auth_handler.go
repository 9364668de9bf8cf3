package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sapaudit/auth-service/internal/api/metrics"
	"github.com/sapaudit/auth-service/internal/core/domain"
	"github.com/sapaudit/auth-service/internal/core/ports"
	"github.com/sapaudit/auth-service/internal/core/security"
)

type AuthHandler struct {
	authService ports.AuthService
	codec       *security.TokenCodec
}

func NewAuthHandler(authService ports.AuthService, codec *security.TokenCodec) *AuthHandler {
	return &AuthHandler{authService: authService, codec: codec}
}

type signinRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Username    string   `json:"username" validate:"required,min=3,max=20"`
	Password    string   `json:"password" validate:"required,min=6,max=40"`
	Email       string   `json:"email" validate:"required,email,max=50"`
	FirstName   string   `json:"first_name,omitempty" validate:"max=50"`
	LastName    string   `json:"last_name,omitempty" validate:"max=50"`
	DateOfBirth string   `json:"date_of_birth,omitempty"`
	PhoneNumber string   `json:"phone_number,omitempty" validate:"max=20"`
	Roles       []string `json:"roles,omitempty"`
}

// Signin authenticates a user and returns a session token.
//
// @Summary      Authenticate user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signinRequest  true  "Credentials"
// @Success      200   {object}  ports.Session
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/signin [post]
func (h *AuthHandler) Signin(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, session)
}

// Signup registers a new account and returns a session token for it.
//
// @Summary      Register user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Registration details"
// @Success      201   {object}  ports.Session
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		PhoneNumber: req.PhoneNumber,
		Roles:       req.Roles,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, session)
}

// ValidateToken reports whether a token verifies. Every failure mode
// collapses into false; the caller learns nothing about why.
//
// @Summary      Validate token
// @Tags         auth
// @Accept       plain
// @Produce      json
// @Param        body  body      string  true  "Token string"
// @Success      200   {boolean} boolean
// @Router       /api/auth/validate-token [post]
func (h *AuthHandler) ValidateToken(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, 16<<10))
	if err != nil {
		return c.JSON(http.StatusOK, false)
	}

	token := strings.Trim(strings.TrimSpace(string(body)), `"'`)
	return c.JSON(http.StatusOK, h.codec.Validate(token))
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAccountDisabled):
		return "disabled"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "invalid_credentials"
	}
}
