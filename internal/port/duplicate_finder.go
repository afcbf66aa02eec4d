package port

import (
	"context"

	"github.com/google/uuid"
)

// ExistingFrameFinder lists what an owner already has persisted so uploaded
// identifiers can be checked for collisions.
type ExistingFrameFinder interface {
	QueryExistingNames(ctx context.Context, ownerID uuid.UUID) ([]string, error)
	QueryExistingIdentifiers(ctx context.Context, ownerID uuid.UUID) ([]string, error)
}
