package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sapaudit/auth-service/internal/core/domain"
	"github.com/sapaudit/auth-service/internal/core/ports"
	"github.com/sapaudit/auth-service/internal/core/security"
)

// AuthService implements login and self-registration. Registration reuses
// the ordinary login path for session construction so the two entry points
// cannot drift apart.
type AuthService struct {
	users    ports.UserRepository
	resolver *RoleResolver
	codec    *security.TokenCodec
	throttle ports.LoginThrottle
	audit    ports.AuditSink
}

func NewAuthService(users ports.UserRepository, resolver *RoleResolver, codec *security.TokenCodec) *AuthService {
	return &AuthService{users: users, resolver: resolver, codec: codec}
}

// WithThrottle installs a failed-login limiter. Without one, logins are
// never throttled.
func (s *AuthService) WithThrottle(t ports.LoginThrottle) *AuthService {
	s.throttle = t
	return s
}

// WithAudit installs an audit sink. Without one, no events are recorded.
func (s *AuthService) WithAudit(a ports.AuditSink) *AuthService {
	s.audit = a
	return s
}

// Login verifies credentials and issues a session token. Unknown usernames
// and wrong passwords produce the same ErrInvalidCredentials so the
// response cannot be used to probe for accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, username)
		if err == nil && !allowed {
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.loginFailed(ctx, username, "unknown username")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Enabled {
		s.record(username, ports.AuditLoginFailed, "account disabled")
		return nil, domain.ErrAccountDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.loginFailed(ctx, username, "wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.Username)
	if err != nil {
		return nil, err
	}

	if s.throttle != nil {
		_ = s.throttle.Reset(ctx, username)
	}
	s.record(username, ports.AuditLoginSucceeded, "")

	return &ports.Session{Token: token, User: user}, nil
}

// Register creates an account and immediately authenticates it. The
// duplicate pre-checks and the insert are not atomic; the repository's
// unique indexes are the safety net and surface the same taken errors.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.Session, error) {
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

	if _, err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.record(input.Username, ports.AuditUserRegistered, "")

	// Token issuance runs through the ordinary login path with the
	// just-supplied credentials.
	return s.Login(ctx, input.Username, input.Password)
}

func (s *AuthService) loginFailed(ctx context.Context, username, detail string) {
	if s.throttle != nil {
		_ = s.throttle.RecordFailure(ctx, username)
	}
	s.record(username, ports.AuditLoginFailed, detail)
}

func (s *AuthService) record(subject, kind, detail string) {
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
