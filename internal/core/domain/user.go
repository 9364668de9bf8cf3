package domain

import (
	"strings"
	"time"
)

// RolePrefix is the fixed prefix every persisted role name carries.
const RolePrefix = "ROLE_"

// Canonical role names. Only these three values are ever persisted or
// attached to an account.
const (
	RoleAdmin   = "ROLE_ADMIN"
	RoleManager = "ROLE_MANAGER"
	RoleAuditor = "ROLE_AUDITOR"
)

// DefaultRole is assigned when a registration carries no role request.
const DefaultRole = RoleAuditor

// CanonicalRoles lists every role the catalog must contain.
func CanonicalRoles() []string {
	return []string{RoleAdmin, RoleManager, RoleAuditor}
}

// NormalizeRole maps an arbitrary caller-supplied label onto a canonical
// role name. Labels are upper-cased and prefixed with ROLE_ when the prefix
// is missing; anything that is not ADMIN or MANAGER degrades to the default
// AUDITOR role rather than being rejected.
func NormalizeRole(label string) string {
	name := strings.ToUpper(strings.TrimSpace(label))
	if !strings.HasPrefix(name, RolePrefix) {
		name = RolePrefix + name
	}
	switch name {
	case RoleAdmin, RoleManager:
		return name
	default:
		return DefaultRole
	}
}

// Role is an entry in the role catalog.
type Role struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// User models an account in the directory.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	DateOfBirth  string    `json:"date_of_birth,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Roles        []string  `json:"roles"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser builds an account with explicit defaults applied: accounts start
// enabled and timestamps are set to now (UTC).
func NewUser(username, email, passwordHash string, roles []string) *User {
	now := time.Now().UTC()
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Roles:        roles,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasRole reports whether the account carries the given canonical role.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r == name {
			return true
		}
	}
	return false
}
