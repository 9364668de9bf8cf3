package ports

import (
	"context"

	"github.com/sapaudit/auth-service/internal/core/domain"
)

// UserRepository is the persistence contract for the user directory.
//
// The existence pre-checks and Save are not atomic; implementations must
// enforce uniqueness on username and email at the storage layer and map a
// duplicate-key failure at insert time to domain.ErrUsernameTaken or
// domain.ErrEmailTaken, the same errors the pre-checks produce.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// RoleCatalog looks up entries in the role catalog. A missing canonical
// role is a data-integrity fault surfaced as domain.ErrRoleNotConfigured.
type RoleCatalog interface {
	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)
}
