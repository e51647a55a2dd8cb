package ports

import (
	"context"

	"pantry/internal/domain/inventory"
)

// InventoryReader is the read side the recipe gateway consumes.
type InventoryReader interface {
	ListItems(ctx context.Context, ownerID string) ([]inventory.Item, error)
}

type InventoryRepository interface {
	InventoryReader
	AddItem(ctx context.Context, item inventory.Item) error
	DeleteItem(ctx context.Context, ownerID string, itemID string) error
}
