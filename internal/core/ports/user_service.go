package ports

import (
	"context"

	"github.com/sapaudit/auth-service/internal/core/domain"
)

// CreateUserInput is an administrative account-creation request.
type CreateUserInput struct {
	Username    string
	Password    string
	Email       string
	FirstName   string
	LastName    string
	DateOfBirth string
	PhoneNumber string
	Roles       []string
}

// UpdateUserInput is a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Username    *string
	Password    *string
	Email       *string
	FirstName   *string
	LastName    *string
	DateOfBirth *string
	PhoneNumber *string
	Enabled     *bool
	Roles       []string
}

type UserService interface {
	GetAll(ctx context.Context) ([]*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
