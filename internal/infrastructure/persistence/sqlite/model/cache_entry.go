package model

// CacheEntry is one cached value. ExpiresAt is unix milliseconds so expired rows
// can be purged through the index without parsing timestamps.
type CacheEntry struct {
	Key       string `gorm:"column:key;type:text;primaryKey"`
	Value     string `gorm:"column:value;type:text;not null"`
	CreatedAt string `gorm:"column:created_at;type:text;not null"`
	ExpiresAt int64  `gorm:"column:expires_at;not null;index:idx_cache_entries_expires_at"`
}

func (CacheEntry) TableName() string {
	return "cache_entries"
}
