package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/sapaudit/auth-service/internal/core/domain"
	"github.com/sapaudit/auth-service/internal/core/ports"
	"github.com/sapaudit/auth-service/internal/core/security"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.users[username]
	return ok, nil
}

func (r *stubUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.Username]; ok {
		return nil, domain.ErrUsernameTaken
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	stored := cloneUser(user)
	r.nextID++
	stored.ID = "u-" + strconv.Itoa(r.nextID)
	r.users[stored.Username] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	for name, u := range r.users {
		if u.ID == user.ID {
			delete(r.users, name)
			r.users[user.Username] = cloneUser(user)
			return cloneUser(user), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	for name, u := range r.users {
		if u.ID == id {
			delete(r.users, name)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

type recordingSink struct {
	entries []ports.AuditEntry
}

func (s *recordingSink) Enqueue(entry ports.AuditEntry) {
	s.entries = append(s.entries, entry)
}

func testCodec(t *testing.T) *security.TokenCodec {
	t.Helper()
	key, err := security.DeriveKey(base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef")))
	if err != nil {
		t.Fatalf("derive key: %v", err)
	}
	return security.NewTokenCodec(key, "auth-service", time.Hour)
}

func newAuthService(repo *stubUserRepo, t *testing.T) *AuthService {
	return NewAuthService(repo, NewRoleResolver(fullCatalog()), testCodec(t))
}

func TestAuthService_Register_DefaultRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, t)

	session, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob", Password: "s3cret", Email: "bob@x.com",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("expected a session token for the new account")
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one stored account, got %d", len(repo.users))
	}

	stored := repo.users["bob"]
	if len(stored.Roles) != 1 || stored.Roles[0] != domain.RoleAuditor {
		t.Fatalf("expected default auditor role, got %v", stored.Roles)
	}
	if !stored.Enabled {
		t.Fatalf("new accounts must start enabled")
	}
	if stored.PasswordHash == "s3cret" {
		t.Fatalf("password stored unhashed")
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, t)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pw1", Email: "bob@x.com"}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pw2", Email: "bob2@x.com"})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("duplicate registration must not add an account, have %d", len(repo.users))
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, t)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "bob", Password: "pw", Email: "bob@x.com"})
	_, err := svc.Register(context.Background(), ports.RegisterInput{Username: "rob", Password: "pw", Email: "bob@x.com"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_Register_SessionMatchesLogin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, t)

	session, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Password: "pw", Email: "alice@x.com", Roles: []string{"admin"},
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// The registration token must verify exactly like a login token.
	p, err := testCodec(t).Verify(session.Token)
	if err != nil {
		t.Fatalf("registration token failed verification: %v", err)
	}
	if p.Subject != "alice" || p.Issuer != "auth-service" {
		t.Fatalf("unexpected principal: %+v", p)
	}
	if session.User == nil || !session.User.HasRole(domain.RoleAdmin) {
		t.Fatalf("expected admin role on session user, got %+v", session.User)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, t)
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "carol", Password: "pw", Email: "carol@x.com"})

	session, err := svc.Login(context.Background(), "carol", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Token == "" || session.User.Username != "carol" {
		t.Fatalf("unexpected session: %+v", session)
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, t)
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "dave", Password: "goodpw", Email: "dave@x.com"})

	// Unknown username and wrong password must be indistinguishable.
	_, unknownErr := svc.Login(context.Background(), "ghost", "pw")
	_, badPwErr := svc.Login(context.Background(), "dave", "badpw")
	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(badPwErr, domain.ErrInvalidCredentials) {
		t.Fatalf("bad password: expected ErrInvalidCredentials, got %v", badPwErr)
	}
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, t)
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "eve", Password: "pw", Email: "eve@x.com"})
	repo.users["eve"].Enabled = false

	if _, err := svc.Login(context.Background(), "eve", "pw"); !errors.Is(err, domain.ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

type stubThrottle struct {
	failures map[string]int
	limit    int
}

func (th *stubThrottle) Allow(_ context.Context, username string) (bool, error) {
	return th.failures[username] < th.limit, nil
}

func (th *stubThrottle) RecordFailure(_ context.Context, username string) error {
	th.failures[username]++
	return nil
}

func (th *stubThrottle) Reset(_ context.Context, username string) error {
	delete(th.failures, username)
	return nil
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	th := &stubThrottle{failures: make(map[string]int), limit: 2}
	svc := newAuthService(repo, t).WithThrottle(th)
	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "fred", Password: "pw", Email: "fred@x.com"})

	_, _ = svc.Login(context.Background(), "fred", "nope")
	_, _ = svc.Login(context.Background(), "fred", "nope")

	if _, err := svc.Login(context.Background(), "fred", "pw"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	// The window resets once the throttle clears.
	th.Reset(context.Background(), "fred")
	if _, err := svc.Login(context.Background(), "fred", "pw"); err != nil {
		t.Fatalf("login after reset failed: %v", err)
	}
}

func TestAuthService_AuditTrail(t *testing.T) {
	repo := newStubUserRepo()
	sink := &recordingSink{}
	svc := newAuthService(repo, t).WithAudit(sink)

	_, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "gina", Password: "pw", Email: "gina@x.com"})
	_, _ = svc.Login(context.Background(), "gina", "wrong")

	var kinds []string
	for _, e := range sink.entries {
		kinds = append(kinds, e.Kind)
	}
	want := []string{ports.AuditUserRegistered, ports.AuditLoginSucceeded, ports.AuditLoginFailed}
	if len(kinds) != len(want) {
		t.Fatalf("expected audit kinds %v, got %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected audit kinds %v, got %v", want, kinds)
		}
	}
}
