package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sapaudit/auth-service/internal/core/domain"
)

type stubCatalog struct {
	roles map[string]*domain.Role
}

func newStubCatalog(names ...string) *stubCatalog {
	c := &stubCatalog{roles: make(map[string]*domain.Role)}
	for _, n := range names {
		c.roles[n] = &domain.Role{Name: n}
	}
	return c
}

func fullCatalog() *stubCatalog {
	return newStubCatalog(domain.CanonicalRoles()...)
}

func (c *stubCatalog) FindRoleByName(_ context.Context, name string) (*domain.Role, error) {
	role, ok := c.roles[name]
	if !ok {
		return nil, domain.ErrRoleNotConfigured
	}
	return role, nil
}

func assertRoles(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected roles %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected roles %v, got %v", want, got)
		}
	}
}

func TestRoleResolver_EmptyDefaultsToAuditor(t *testing.T) {
	resolver := NewRoleResolver(fullCatalog())

	got, err := resolver.Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("Resolve(nil) returned error: %v", err)
	}
	assertRoles(t, got, domain.RoleAuditor)

	got, err = resolver.Resolve(context.Background(), []string{})
	if err != nil {
		t.Fatalf("Resolve([]) returned error: %v", err)
	}
	assertRoles(t, got, domain.RoleAuditor)
}

func TestRoleResolver_KnownLabels(t *testing.T) {
	resolver := NewRoleResolver(fullCatalog())

	got, err := resolver.Resolve(context.Background(), []string{"admin"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	assertRoles(t, got, domain.RoleAdmin)

	got, err = resolver.Resolve(context.Background(), []string{"ROLE_MANAGER"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	assertRoles(t, got, domain.RoleManager)
}

// Unrecognized labels degrade to the auditor role; they are not rejected.
// This is deliberate and security-relevant, so it is pinned down here.
func TestRoleResolver_UnknownLabelDowngrades(t *testing.T) {
	resolver := NewRoleResolver(fullCatalog())

	got, err := resolver.Resolve(context.Background(), []string{"bogus"})
	if err != nil {
		t.Fatalf("expected downgrade, got error: %v", err)
	}
	assertRoles(t, got, domain.RoleAuditor)

	got, err = resolver.Resolve(context.Background(), []string{"ROLE_SUPERUSER", "garbage", "auditor"})
	if err != nil {
		t.Fatalf("expected downgrade, got error: %v", err)
	}
	assertRoles(t, got, domain.RoleAuditor)
}

func TestRoleResolver_Deduplicates(t *testing.T) {
	resolver := NewRoleResolver(fullCatalog())

	got, err := resolver.Resolve(context.Background(), []string{"admin", "ADMIN", "ROLE_ADMIN", "manager"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	assertRoles(t, got, domain.RoleAdmin, domain.RoleManager)
}

func TestRoleResolver_MissingCatalogEntryIsFatal(t *testing.T) {
	// Catalog seeded without the auditor role: default resolution must fail
	// with the data-integrity error instead of inventing a role.
	resolver := NewRoleResolver(newStubCatalog(domain.RoleAdmin, domain.RoleManager))

	if _, err := resolver.Resolve(context.Background(), nil); !errors.Is(err, domain.ErrRoleNotConfigured) {
		t.Fatalf("expected ErrRoleNotConfigured, got %v", err)
	}
	if _, err := resolver.Resolve(context.Background(), []string{"bogus"}); !errors.Is(err, domain.ErrRoleNotConfigured) {
		t.Fatalf("expected ErrRoleNotConfigured, got %v", err)
	}
}
