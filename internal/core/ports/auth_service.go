package ports

import (
	"context"

	"github.com/sapaudit/auth-service/internal/core/domain"
)

// Session is the outcome of a successful authentication: a signed bearer
// token plus a summary of the authenticated account.
type Session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// RegisterInput carries a self-registration request. Roles may be empty, in
// which case the default auditor role is assigned.
type RegisterInput struct {
	Username    string
	Password    string
	Email       string
	FirstName   string
	LastName    string
	DateOfBirth string
	PhoneNumber string
	Roles       []string
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (*Session, error)
	Register(ctx context.Context, input RegisterInput) (*Session, error)
}

// LoginThrottle limits repeated failed logins per username.
type LoginThrottle interface {
	// Allow reports whether the account may attempt a login.
	Allow(ctx context.Context, username string) (bool, error)
	// RecordFailure counts one failed attempt inside the lockout window.
	RecordFailure(ctx context.Context, username string) error
	// Reset clears the failure count after a successful login.
	Reset(ctx context.Context, username string) error
}
