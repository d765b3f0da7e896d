package lock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
)

// RedisStore keeps each lock under a slot key with a PX expiry, plus an
// id key pointing back at it so Release can find the slot.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

var _ Store = (*RedisStore)(nil)

func slotKey(salonID, staffID uint, start time.Time) string {
	return fmt.Sprintf("slotlock:%d:%d:%d", salonID, staffID, start.Unix())
}

func idKey(salonID uint, lockID string) string {
	return fmt.Sprintf("slotlock:%d:id:%s", salonID, lockID)
}

func (s *RedisStore) Acquire(ctx context.Context, lk *models.SlotLock, now time.Time) (*models.SlotLock, error) {
	ttl := lk.ExpiresAt.Sub(now)
	if ttl <= 0 {
		return nil, fmt.Errorf("lock expiry %s is not after now", lk.ExpiresAt)
	}
	key := slotKey(lk.SalonID, lk.StaffID, lk.StartTime)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		existing, err := readLock(ctx, tx, key)
		if err != nil {
			return err
		}
		if existing != nil && !existing.Expired(now) {
			if existing.Holder != lk.Holder {
				return ErrSlotLocked
			}
			lk.ID = existing.ID
			lk.CreatedAt = existing.CreatedAt
		}

		payload, err := json.Marshal(lk)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, payload, ttl)
			p.Set(ctx, idKey(lk.SalonID, lk.ID), key, ttl)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return nil, ErrSlotLocked
	}
	if err != nil {
		return nil, err
	}
	return lk, nil
}

func (s *RedisStore) Release(ctx context.Context, salonID uint, lockID, holder string) error {
	key, err := s.client.Get(ctx, idKey(salonID, lockID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		existing, err := readLock(ctx, tx, key)
		if err != nil || existing == nil {
			return err
		}
		if existing.ID != lockID || existing.Holder != holder {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, key, idKey(salonID, lockID))
			return nil
		})
		return err
	}, key)

	// someone else touched the slot in between; their write wins
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (s *RedisStore) Find(ctx context.Context, salonID, staffID uint, start, now time.Time) (*models.SlotLock, error) {
	lk, err := readLock(ctx, s.client, slotKey(salonID, staffID, start))
	if err != nil || lk == nil {
		return nil, err
	}
	if lk.Expired(now) {
		return nil, nil
	}
	return lk, nil
}

// PurgeExpired is a no-op: redis expires keys on its own.
func (s *RedisStore) PurgeExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readLock(ctx context.Context, c getter, key string) (*models.SlotLock, error) {
	raw, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var lk models.SlotLock
	if err := json.Unmarshal(raw, &lk); err != nil {
		return nil, fmt.Errorf("decode lock %s: %w", key, err)
	}
	return &lk, nil
}
