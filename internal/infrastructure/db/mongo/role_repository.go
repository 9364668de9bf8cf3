package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sapaudit/auth-service/internal/core/domain"
)

const rolesCollection = "roles"

// RoleRepository is the MongoDB-backed role catalog.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

type mongoRole struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
}

func (r *RoleRepository) FindRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	var mr mongoRole
	if err := r.coll.FindOne(ctx, bson.M{"name": name}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", domain.ErrRoleNotConfigured, name)
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: mr.ID.Hex(), Name: mr.Name, Description: mr.Description}, nil
}

// SeedRoles makes sure every canonical role exists in the catalog. Run at
// startup; a catalog missing a role after seeding would otherwise abort the
// first registration that needs it.
func (r *RoleRepository) SeedRoles(ctx context.Context) error {
	descriptions := map[string]string{
		domain.RoleAdmin:   "Full account-management access",
		domain.RoleManager: "Read and update non-admin accounts",
		domain.RoleAuditor: "Read-only default role",
	}

	for _, name := range domain.CanonicalRoles() {
		filter := bson.M{"name": name}
		update := bson.M{"$setOnInsert": mongoRole{Name: name, Description: descriptions[name]}}
		if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}
