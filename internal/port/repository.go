package port

import (
	"context"

	"adframes/internal/domain"
)

// InventoryRepository defines the contract for frame persistence.
// Query methods are scoped to an owner.
type InventoryRepository interface {
	Insert(ctx context.Context, rec *domain.InventoryRecord) error
	ExistingFrameFinder
}
