package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"pantry/internal/domain/inventory"
	"pantry/internal/errs"
	"pantry/internal/infrastructure/persistence/sqlite/model"
	"pantry/internal/ports"
)

type InventoryRepository struct {
	db *gorm.DB
}

var _ ports.InventoryRepository = (*InventoryRepository)(nil)

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

// ListItems returns the owner's items oldest first.
func (r *InventoryRepository) ListItems(ctx context.Context, ownerID string) ([]inventory.Item, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	owner := strings.TrimSpace(ownerID)
	if owner == "" {
		return nil, inventory.ErrOwnerRequired
	}

	var rows []model.InventoryItem
	if err := db.Where("owner_id = ?", owner).Order("created_at asc, item_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query inventory items")
	}

	items := make([]inventory.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapItem(row))
	}
	return items, nil
}

func (r *InventoryRepository) AddItem(ctx context.Context, item inventory.Item) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	row := model.InventoryItem{
		ItemID:    item.ID,
		OwnerID:   item.OwnerID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Unit:      string(item.Unit),
		CreatedAt: item.CreatedAt,
	}
	if err := db.Create(&row).Error; err != nil {
		return errs.Wrap(err, "insert inventory item")
	}
	return nil
}

func (r *InventoryRepository) DeleteItem(ctx context.Context, ownerID string, itemID string) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	res := db.Where("owner_id = ? AND item_id = ?", ownerID, itemID).Delete(&model.InventoryItem{})
	if res.Error != nil {
		return errs.Wrap(res.Error, "delete inventory item")
	}
	if res.RowsAffected == 0 {
		return inventory.ErrItemNotFound
	}
	return nil
}

func mapItem(row model.InventoryItem) inventory.Item {
	return inventory.Item{
		ID:        row.ItemID,
		OwnerID:   row.OwnerID,
		Name:      row.Name,
		Quantity:  row.Quantity,
		Unit:      inventory.Unit(row.Unit),
		CreatedAt: row.CreatedAt,
	}
}
