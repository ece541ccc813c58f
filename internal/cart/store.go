package cart

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/infrastructure/redisx"
)

// Store holds the client-held cart snapshot server-side so the payment
// confirmation path can clear it. It is a cache, not a ledger: entries
// expire on their own.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = redisx.TTLCartSnapshot
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func key(userID uint64) string {
	return fmt.Sprintf(redisx.KeyCartSnapshot, userID)
}

// Save replaces the snapshot wholesale. The pipeline keeps delete, write and
// expire on one round trip.
func (s *Store) Save(ctx context.Context, userID uint64, items map[uint64]int) error {
	k := key(userID)

	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, k)
	if len(items) > 0 {
		fields := make(map[string]any, len(items))
		for productID, qty := range items {
			fields[strconv.FormatUint(productID, 10)] = qty
		}
		pipe.HSet(ctx, k, fields)
		pipe.Expire(ctx, k, s.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving cart snapshot: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID uint64) (map[uint64]int, error) {
	raw, err := s.rdb.HGetAll(ctx, key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading cart snapshot: %w", err)
	}

	items := make(map[uint64]int, len(raw))
	for field, value := range raw {
		productID, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		qty, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		items[productID] = qty
	}
	return items, nil
}

func (s *Store) Clear(ctx context.Context, userID uint64) error {
	if err := s.rdb.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("clearing cart snapshot: %w", err)
	}
	return nil
}
