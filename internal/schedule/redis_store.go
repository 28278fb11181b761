package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/at-ishikawa/recall/internal/config"
	"github.com/at-ishikawa/recall/internal/scheduler"
)

// RedisStore keeps each item as a JSON string and each item's logs as a list.
// Save uses WATCH/MULTI so concurrent writers of one item cannot both win.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "recall"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}, nil
}

func (s *RedisStore) itemKey(itemID string) string {
	return s.prefix + ":item:" + itemID
}

func (s *RedisStore) itemsKey() string {
	return s.prefix + ":items"
}

func (s *RedisStore) logsKey(itemID string) string {
	return s.prefix + ":logs:" + itemID
}

func (s *RedisStore) loggedItemsKey() string {
	return s.prefix + ":logged-items"
}

func decodeItem(raw []byte) (*scheduler.ScheduledItem, error) {
	var item scheduler.ScheduledItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("json.Unmarshal(item) > %w", err)
	}
	return &item, nil
}

func (s *RedisStore) Find(ctx context.Context, itemID string) (*scheduler.ScheduledItem, error) {
	raw, err := s.rdb.Get(ctx, s.itemKey(itemID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("rdb.Get(%s) > %w", itemID, err)
	}
	return decodeItem(raw)
}

func (s *RedisStore) FindAll(ctx context.Context) ([]scheduler.ScheduledItem, error) {
	ids, err := s.rdb.SMembers(ctx, s.itemsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("rdb.SMembers(items) > %w", err)
	}
	if len(ids) == 0 {
		return []scheduler.ScheduledItem{}, nil
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.itemKey(id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("rdb.MGet(items) > %w", err)
	}

	items := make([]scheduler.ScheduledItem, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Deleted between SMEMBERS and MGET
			continue
		}
		item, err := decodeItem([]byte(raw))
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func (s *RedisStore) Save(ctx context.Context, item scheduler.ScheduledItem) error {
	if err := validateRecord(item); err != nil {
		return err
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("json.Marshal(item) > %w", err)
	}

	key := s.itemKey(item.ItemID)
	err = s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		var stored *scheduler.ScheduledItem
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("tx.Get(%s) > %w", item.ItemID, err)
		default:
			if stored, err = decodeItem(raw); err != nil {
				return err
			}
		}
		if err := checkSuccession(stored, item); err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.SAdd(ctx, s.itemsKey(), item.ItemID)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%w: %s was modified concurrently", ErrStaleRecord, item.ItemID)
	}
	return err
}

func (s *RedisStore) Delete(ctx context.Context, itemID string) error {
	deleted, err := s.rdb.Del(ctx, s.itemKey(itemID)).Result()
	if err != nil {
		return fmt.Errorf("rdb.Del(%s) > %w", itemID, err)
	}
	if err := s.rdb.SRem(ctx, s.itemsKey(), itemID).Err(); err != nil {
		return fmt.Errorf("rdb.SRem(%s) > %w", itemID, err)
	}
	if deleted == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, itemID)
	}
	return nil
}

func (s *RedisStore) AppendLogs(ctx context.Context, logs ...ReviewLog) error {
	if len(logs) == 0 {
		return nil
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, log := range logs {
			data, err := json.Marshal(log)
			if err != nil {
				return fmt.Errorf("json.Marshal(review log) > %w", err)
			}
			pipe.RPush(ctx, s.logsKey(log.ItemID), data)
			pipe.SAdd(ctx, s.loggedItemsKey(), log.ItemID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rdb.TxPipelined(append logs) > %w", err)
	}
	return nil
}

func (s *RedisStore) FindLogs(ctx context.Context, itemID string) ([]ReviewLog, error) {
	values, err := s.rdb.LRange(ctx, s.logsKey(itemID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("rdb.LRange(%s) > %w", itemID, err)
	}

	logs := make([]ReviewLog, 0, len(values))
	for _, value := range values {
		var log ReviewLog
		if err := json.Unmarshal([]byte(value), &log); err != nil {
			return nil, fmt.Errorf("json.Unmarshal(review log) > %w", err)
		}
		logs = append(logs, log)
	}
	sortLogs(logs)
	return logs, nil
}

func (s *RedisStore) FindAllLogs(ctx context.Context) ([]ReviewLog, error) {
	ids, err := s.rdb.SMembers(ctx, s.loggedItemsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("rdb.SMembers(logged items) > %w", err)
	}

	var logs []ReviewLog
	for _, id := range ids {
		itemLogs, err := s.FindLogs(ctx, id)
		if err != nil {
			return nil, err
		}
		logs = append(logs, itemLogs...)
	}
	sortLogs(logs)
	return logs, nil
}

func (s *RedisStore) DeleteLogs(ctx context.Context, itemID string) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.logsKey(itemID))
		pipe.SRem(ctx, s.loggedItemsKey(), itemID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("rdb.TxPipelined(delete logs) > %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
