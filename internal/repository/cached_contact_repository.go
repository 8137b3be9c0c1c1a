package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/contactbook/backend/internal/model"
	"github.com/redis/go-redis/v9"
)

// CachedContactRepository caches ListAll results in Redis in front of
// another ContactRepository.
//
// Cache entries are keyed by a generation counter that every successful
// Insert or DeleteByID bumps. A reader that fetched a stale list while a
// write was in flight stores it under the old generation, which no later
// reader asks for.
type CachedContactRepository struct {
	next   ContactRepository
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewCachedContactRepository wraps next with a Redis list cache.
func NewCachedContactRepository(next ContactRepository, rdb redis.Cmdable, prefix string, ttl time.Duration) *CachedContactRepository {
	if prefix == "" {
		prefix = "contactbook"
	}
	return &CachedContactRepository{next: next, rdb: rdb, prefix: prefix, ttl: ttl}
}

var _ ContactRepository = (*CachedContactRepository)(nil)

func (r *CachedContactRepository) versionKey() string {
	return r.prefix + ":contacts:version"
}

func (r *CachedContactRepository) listKey(version int64) string {
	return fmt.Sprintf("%s:contacts:list:%d", r.prefix, version)
}

func (r *CachedContactRepository) Insert(ctx context.Context, c model.NewContact) (*model.Contact, error) {
	out, err := r.next.Insert(ctx, c)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return out, nil
}

func (r *CachedContactRepository) DeleteByID(ctx context.Context, id string) (*model.Contact, error) {
	out, err := r.next.DeleteByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return out, nil
}

// ListAll serves from the cache when possible. Redis failures degrade to a
// direct read.
func (r *CachedContactRepository) ListAll(ctx context.Context) ([]*model.Contact, error) {
	version, err := r.rdb.Get(ctx, r.versionKey()).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Warn("contact cache unavailable", "error", err)
		return r.next.ListAll(ctx)
	}
	key := r.listKey(version)

	b, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached []*model.Contact
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
		slog.Warn("discarding malformed contact cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("contact cache read failed", "key", key, "error", err)
		return r.next.ListAll(ctx)
	}

	contacts, err := r.next.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(contacts); err == nil {
		if err := r.rdb.Set(ctx, key, payload, r.ttl).Err(); err != nil {
			slog.Warn("contact cache write failed", "key", key, "error", err)
		}
	}
	return contacts, nil
}

// invalidate bumps the generation. If Redis is down the cached list can
// stay stale until its TTL runs out.
func (r *CachedContactRepository) invalidate(ctx context.Context) {
	if err := r.rdb.Incr(ctx, r.versionKey()).Err(); err != nil {
		slog.Warn("contact cache invalidation failed", "error", err)
	}
}
