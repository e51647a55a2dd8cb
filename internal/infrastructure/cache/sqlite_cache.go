package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pantry/internal/errs"
	"pantry/internal/infrastructure/persistence/sqlite/model"
	"pantry/internal/ports"
)

// SQLiteCache stores entries in the cache_entries table. Expiry is passive:
// reads ignore rows past their expiry and Purge deletes them in bulk.
type SQLiteCache struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

var (
	_ ports.Cache       = (*SQLiteCache)(nil)
	_ ports.CachePurger = (*SQLiteCache)(nil)
)

func NewSQLiteCache(db *gorm.DB, ttl time.Duration) *SQLiteCache {
	return &SQLiteCache{db: db, ttl: ttl, now: time.Now}
}

func (c *SQLiteCache) Get(ctx context.Context, key string) (string, bool, error) {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return "", false, err
	}

	var row model.CacheEntry
	if err := c.db.WithContext(ctx).Where("key = ?", trimmedKey).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errs.Wrap(err, "query cache by key")
	}

	if c.now().UnixMilli() > row.ExpiresAt {
		return "", false, nil
	}
	return row.Value, true, nil
}

func (c *SQLiteCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = c.ttl
	}

	now := c.now().UTC()
	row := model.CacheEntry{
		Key:       trimmedKey,
		Value:     value,
		CreatedAt: now.Format(time.RFC3339Nano),
		ExpiresAt: expiresAt(now, ttl),
	}

	if err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"created_at": row.CreatedAt,
			"expires_at": row.ExpiresAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert cache key")
	}

	return nil
}

func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	trimmedKey, err := checkKey(ctx, key)
	if err != nil {
		return err
	}

	if err := c.db.WithContext(ctx).Where("key = ?", trimmedKey).Delete(&model.CacheEntry{}).Error; err != nil {
		return errs.Wrap(err, "delete cache key")
	}
	return nil
}

// Purge deletes every expired row.
func (c *SQLiteCache) Purge(ctx context.Context) (int64, error) {
	if ctx == nil {
		return 0, errors.New("context is required")
	}

	res := c.db.WithContext(ctx).Where("expires_at < ?", c.now().UnixMilli()).Delete(&model.CacheEntry{})
	if res.Error != nil {
		return 0, errs.Wrap(res.Error, "purge expired cache entries")
	}
	return res.RowsAffected, nil
}

func checkKey(ctx context.Context, key string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return "", errs.Wrap(err, "check context")
	}

	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return "", errors.New("key is required")
	}
	return trimmedKey, nil
}

// expiresAt returns the unix millisecond after which an entry written at now is
// no longer readable. A non-positive ttl never expires.
func expiresAt(now time.Time, ttl time.Duration) int64 {
	if ttl <= 0 {
		return int64(^uint64(0) >> 1)
	}
	return now.Add(ttl).UnixMilli()
}
