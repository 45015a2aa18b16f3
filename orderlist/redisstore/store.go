// Package redisstore implements orderlist.Store on Redis.
//
// Each list is a sorted set whose members all have score 0, so Redis keeps
// them in lexicographic order. A member is the order key, a NUL byte and the
// item ID; NUL sorts below every key digit, so member order is key order.
// Item values live in a hash keyed by ID. Both keys of a list share a hash
// tag, which keeps them in one cluster slot for WATCH/MULTI.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/ntauth/fracdex/v2/orderlist"
)

const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

const sep = "\x00"

// NewClient parses a Redis URL and returns a connected client.
func NewClient(ctx context.Context, redisURL string, logger *log.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", options.Addr, err)
	}
	if logger != nil {
		logger.Debug("redis client connected", "addr", options.Addr, "db", options.DB)
	}
	return client, nil
}

// Store is a Redis-backed orderlist.Store.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// New creates a Store that namespaces its keys under prefix.
func New(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

type record struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Store) orderKey(list string) string {
	return fmt.Sprintf("%s:{%s}:order", s.prefix, list)
}

func (s *Store) itemsKey(list string) string {
	return fmt.Sprintf("%s:{%s}:items", s.prefix, list)
}

func member(key, id string) string {
	return key + sep + id
}

func splitMember(m string) (key, id string) {
	key, id, _ = strings.Cut(m, sep)
	return key, id
}

func notFound(list, id string) error {
	return fmt.Errorf("%s/%s: %w", list, id, orderlist.ErrNotFound)
}

// Items returns the list in key order.
func (s *Store) Items(ctx context.Context, list string) ([]orderlist.Item, error) {
	members, err := s.client.ZRange(ctx, s.orderKey(list), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: zrange %s: %w", list, err)
	}
	if len(members) == 0 {
		return []orderlist.Item{}, nil
	}

	ids := make([]string, len(members))
	items := make([]orderlist.Item, len(members))
	for i, m := range members {
		key, id := splitMember(m)
		ids[i] = id
		items[i] = orderlist.Item{ID: id, Key: key}
	}

	vals, err := s.client.HMGet(ctx, s.itemsKey(list), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: hmget %s: %w", list, err)
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("redis: decode %s/%s: %w", list, ids[i], err)
		}
		items[i].Value = rec.Value
	}
	return items, nil
}

// Get returns a single item.
func (s *Store) Get(ctx context.Context, list, id string) (orderlist.Item, error) {
	rec, err := s.load(ctx, s.client, list, id)
	if err != nil {
		return orderlist.Item{}, err
	}
	return orderlist.Item{ID: id, Key: rec.Key, Value: rec.Value}, nil
}

// hashGetter is satisfied by both *redis.Client and *redis.Tx.
type hashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

func (s *Store) load(ctx context.Context, c hashGetter, list, id string) (record, error) {
	raw, err := c.HGet(ctx, s.itemsKey(list), id).Result()
	if errors.Is(err, redis.Nil) {
		return record{}, notFound(list, id)
	}
	if err != nil {
		return record{}, fmt.Errorf("redis: hget %s/%s: %w", list, id, err)
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return record{}, fmt.Errorf("redis: decode %s/%s: %w", list, id, err)
	}
	return rec, nil
}

// Put inserts or updates item. A concurrent change to the list surfaces as
// orderlist.ErrConflict.
func (s *Store) Put(ctx context.Context, list string, item orderlist.Item) error {
	zkey, hkey := s.orderKey(list), s.itemsKey(list)
	data, err := json.Marshal(record{Key: item.Key, Value: item.Value})
	if err != nil {
		return err
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		holders, err := tx.ZRangeByLex(ctx, zkey, &redis.ZRangeBy{
			Min: "[" + item.Key + sep,
			Max: "(" + item.Key + "\x01",
		}).Result()
		if err != nil {
			return err
		}
		for _, m := range holders {
			if _, id := splitMember(m); id != item.ID {
				return fmt.Errorf("key %s held by %s: %w", item.Key, id, orderlist.ErrConflict)
			}
		}

		old, err := s.load(ctx, tx, list, item.ID)
		exists := err == nil
		if err != nil && !errors.Is(err, orderlist.ErrNotFound) {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if exists && old.Key != item.Key {
				pipe.ZRem(ctx, zkey, member(old.Key, item.ID))
			}
			pipe.ZAdd(ctx, zkey, redis.Z{Score: 0, Member: member(item.Key, item.ID)})
			pipe.HSet(ctx, hkey, item.ID, string(data))
			return nil
		})
		return err
	}, zkey, hkey)
	return txError(list, err)
}

// Delete removes an item.
func (s *Store) Delete(ctx context.Context, list, id string) error {
	zkey, hkey := s.orderKey(list), s.itemsKey(list)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		rec, err := s.load(ctx, tx, list, id)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.ZRem(ctx, zkey, member(rec.Key, id))
			pipe.HDel(ctx, hkey, id)
			return nil
		})
		return err
	}, zkey, hkey)
	return txError(list, err)
}

// Replace rewrites every key of the list in one transaction. The stored
// order is read under WATCH and must still match old.
func (s *Store) Replace(ctx context.Context, list string, old, items []orderlist.Item) error {
	zkey, hkey := s.orderKey(list), s.itemsKey(list)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		members, err := tx.ZRange(ctx, zkey, 0, -1).Result()
		if err != nil {
			return fmt.Errorf("redis: zrange %s: %w", list, err)
		}
		stored := make(map[string]string, len(members))
		for _, m := range members {
			key, id := splitMember(m)
			stored[id] = key
		}
		if len(old) != len(stored) {
			return fmt.Errorf("replace %s: snapshot has %d of %d items: %w", list, len(old), len(stored), orderlist.ErrConflict)
		}
		for _, it := range old {
			if key, ok := stored[it.ID]; !ok || key != it.Key {
				return fmt.Errorf("replace %s: %s changed: %w", list, it.ID, orderlist.ErrConflict)
			}
		}

		seenID := make(map[string]bool, len(items))
		seenKey := make(map[string]bool, len(items))
		zmembers := make([]redis.Z, 0, len(items))
		fields := make([]any, 0, 2*len(items))
		for _, it := range items {
			if _, ok := stored[it.ID]; !ok {
				return notFound(list, it.ID)
			}
			if seenID[it.ID] {
				return fmt.Errorf("replace %s: %s repeated: %w", list, it.ID, orderlist.ErrConflict)
			}
			if seenKey[it.Key] {
				return fmt.Errorf("key %s repeated: %w", it.Key, orderlist.ErrConflict)
			}
			seenID[it.ID], seenKey[it.Key] = true, true
			data, err := json.Marshal(record{Key: it.Key, Value: it.Value})
			if err != nil {
				return err
			}
			zmembers = append(zmembers, redis.Z{Score: 0, Member: member(it.Key, it.ID)})
			fields = append(fields, it.ID, string(data))
		}
		if len(items) != len(stored) {
			return fmt.Errorf("replace %s: %d of %d items: %w", list, len(items), len(stored), orderlist.ErrConflict)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, zkey)
			if len(zmembers) > 0 {
				pipe.ZAdd(ctx, zkey, zmembers...)
				pipe.HSet(ctx, hkey, fields...)
			}
			return nil
		})
		return err
	}, zkey, hkey)
	return txError(list, err)
}

// txError maps an aborted WATCH transaction to orderlist.ErrConflict.
func txError(list string, err error) error {
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("redis: %s modified concurrently: %w", list, orderlist.ErrConflict)
	}
	return err
}
