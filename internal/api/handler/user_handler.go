package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sapaudit/auth-service/internal/core/domain"
	"github.com/sapaudit/auth-service/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type createUserRequest struct {
	Username    string   `json:"username" validate:"required,min=3,max=20"`
	Password    string   `json:"password" validate:"required,min=6,max=40"`
	Email       string   `json:"email" validate:"required,email,max=50"`
	FirstName   string   `json:"first_name,omitempty" validate:"max=50"`
	LastName    string   `json:"last_name,omitempty" validate:"max=50"`
	DateOfBirth string   `json:"date_of_birth,omitempty"`
	PhoneNumber string   `json:"phone_number,omitempty" validate:"max=20"`
	Roles       []string `json:"roles,omitempty"`
}

type updateUserRequest struct {
	Username    *string  `json:"username,omitempty" validate:"omitempty,min=3,max=20"`
	Password    *string  `json:"password,omitempty" validate:"omitempty,min=6,max=40"`
	Email       *string  `json:"email,omitempty" validate:"omitempty,email,max=50"`
	FirstName   *string  `json:"first_name,omitempty"`
	LastName    *string  `json:"last_name,omitempty"`
	DateOfBirth *string  `json:"date_of_birth,omitempty"`
	PhoneNumber *string  `json:"phone_number,omitempty"`
	Enabled     *bool    `json:"enabled,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// List returns all accounts.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if !domain.Authorize(actor, domain.ActionListUsers, nil) {
		return domain.ErrForbidden
	}
	users, err := h.userService.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns one account by id.
//
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !domain.Authorize(actor, domain.ActionReadUser, user) {
		return domain.ErrForbidden
	}
	return c.JSON(http.StatusOK, user)
}

// Me returns the authenticated account.
//
// @Summary      Get current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	user, err := h.userService.GetByUsername(c.Request().Context(), actor.Username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create adds a new account.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if !domain.Authorize(actor, domain.ActionCreateUser, nil) {
		return domain.ErrForbidden
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Create(c.Request().Context(), ports.CreateUserInput{
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
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update applies a partial update to an account.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	target, err := h.userService.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !domain.Authorize(actor, domain.ActionUpdateUser, target) {
		return domain.ErrForbidden
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Update(c.Request().Context(), target.ID, ports.UpdateUserInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		PhoneNumber: req.PhoneNumber,
		Enabled:     req.Enabled,
		Roles:       req.Roles,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes an account.
//
// @Summary      Delete user
// @Tags         users
// @Param        id  path  string  true  "User ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if !domain.Authorize(actor, domain.ActionDeleteUser, nil) {
		return domain.ErrForbidden
	}
	if err := h.userService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
