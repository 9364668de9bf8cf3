package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sapaudit/auth-service/internal/core/domain"
	"github.com/sapaudit/auth-service/internal/core/ports"
)

// RoleResolver maps requested role labels onto the closed canonical set,
// checking each resolved name against the role catalog.
type RoleResolver struct {
	catalog ports.RoleCatalog
}

func NewRoleResolver(catalog ports.RoleCatalog) *RoleResolver {
	return &RoleResolver{catalog: catalog}
}

// Resolve returns the canonical role set for a registration or role
// reassignment. An empty or nil request yields the default auditor role.
// Unrecognized labels degrade to auditor instead of failing, so garbage
// input always lands on the least-privileged role. The result is
// deduplicated and never empty.
//
// A catalog miss on a canonical name returns domain.ErrRoleNotConfigured:
// the catalog was not seeded, which is fatal rather than retriable.
func (r *RoleResolver) Resolve(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) == 0 {
		if err := r.lookup(ctx, domain.DefaultRole); err != nil {
			return nil, err
		}
		return []string{domain.DefaultRole}, nil
	}

	seen := make(map[string]struct{}, len(requested))
	resolved := make([]string, 0, len(requested))
	for _, label := range requested {
		name := domain.NormalizeRole(label)
		if _, ok := seen[name]; ok {
			continue
		}
		if err := r.lookup(ctx, name); err != nil {
			return nil, err
		}
		seen[name] = struct{}{}
		resolved = append(resolved, name)
	}
	return resolved, nil
}

func (r *RoleResolver) lookup(ctx context.Context, name string) error {
	role, err := r.catalog.FindRoleByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotConfigured) {
			return fmt.Errorf("%w: %s", domain.ErrRoleNotConfigured, name)
		}
		return err
	}
	if role == nil {
		return fmt.Errorf("%w: %s", domain.ErrRoleNotConfigured, name)
	}
	return nil
}
