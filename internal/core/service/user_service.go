package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sapaudit/auth-service/internal/core/domain"
	"github.com/sapaudit/auth-service/internal/core/ports"
)

// UserService implements administrative account management over the user
// directory.
type UserService struct {
	users    ports.UserRepository
	resolver *RoleResolver
	audit    ports.AuditSink
}

func NewUserService(users ports.UserRepository, resolver *RoleResolver) *UserService {
	return &UserService{users: users, resolver: resolver}
}

func (s *UserService) WithAudit(a ports.AuditSink) *UserService {
	s.audit = a
	return s
}

func (s *UserService) GetAll(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, email)
}

// Create adds an account on behalf of an administrator. Unlike Register it
// returns the stored account without opening a session.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" || input.Email == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if taken, err := s.users.ExistsByUsername(ctx, input.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrUsernameTaken
	}
	if taken, err := s.users.ExistsByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrEmailTaken
	}

	roles, err := s.resolver.Resolve(ctx, input.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := domain.NewUser(input.Username, input.Email, string(hash), roles)
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.DateOfBirth = input.DateOfBirth
	user.PhoneNumber = input.PhoneNumber

	created, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.record(created.Username, ports.AuditUserCreated, "")
	return created, nil
}

// Update applies a partial update. Username and email changes re-check
// uniqueness against other accounts; a role change runs through the
// resolver; a password change is rehashed.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil && *input.Username != "" && *input.Username != user.Username {
		if taken, err := s.users.ExistsByUsername(ctx, *input.Username); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrUsernameTaken
		}
		user.Username = *input.Username
	}

	if input.Email != nil && *input.Email != "" && *input.Email != user.Email {
		if taken, err := s.users.ExistsByEmail(ctx, *input.Email); err != nil {
			return nil, err
		} else if taken {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *input.Email
	}

	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.DateOfBirth != nil {
		user.DateOfBirth = *input.DateOfBirth
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.Enabled != nil {
		user.Enabled = *input.Enabled
	}

	if len(input.Roles) > 0 {
		roles, err := s.resolver.Resolve(ctx, input.Roles)
		if err != nil {
			return nil, err
		}
		user.Roles = roles
	}

	user.UpdatedAt = time.Now().UTC()
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	s.record(updated.Username, ports.AuditUserUpdated, "")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}
	s.record(user.Username, ports.AuditUserDeleted, "")
	return nil
}

func (s *UserService) record(subject, kind, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditEntry{
		Subject:   subject,
		Kind:      kind,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}
