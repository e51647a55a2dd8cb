package model

type InventoryItem struct {
	ItemID    string  `gorm:"column:item_id;type:text;primaryKey"`
	OwnerID   string  `gorm:"column:owner_id;type:text;not null;index:idx_inventory_items_owner"`
	Name      string  `gorm:"column:name;type:text;not null"`
	Quantity  float64 `gorm:"column:quantity;not null;default:0"`
	Unit      string  `gorm:"column:unit;type:text;not null"`
	CreatedAt string  `gorm:"column:created_at;type:text;not null"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
