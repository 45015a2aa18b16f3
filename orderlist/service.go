package orderlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ntauth/fracdex/v2"
)

const defaultRetries = 8

// Service places items into lists. It is safe for concurrent use when the
// Store is: two writers computing the same key are resolved by the Store's
// ErrConflict and a retry against fresh neighbours.
type Service struct {
	store       Store
	logger      *log.Logger
	jitter      fracdex.Jitter
	jitterRange int
	maxKeyLen   int
	retries     int
	newID       func() string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithJitter randomizes new keys by up to jitterRange digit steps, which
// makes concurrent inserts at the same spot less likely to collide.
func WithJitter(j fracdex.Jitter, jitterRange int) Option {
	return func(s *Service) {
		s.jitter = j
		s.jitterRange = jitterRange
	}
}

// WithMaxKeyLength rebalances a list whenever a placed key grows beyond n
// characters. Zero disables automatic rebalancing.
func WithMaxKeyLength(n int) Option {
	return func(s *Service) { s.maxKeyLen = n }
}

// WithRetries bounds how many times a conflicting write is retried.
func WithRetries(n int) Option {
	return func(s *Service) { s.retries = n }
}

// WithIDFunc overrides ID generation (UUIDv7 by default).
func WithIDFunc(f func() string) Option {
	return func(s *Service) { s.newID = f }
}

// NewService creates a Service backed by store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		logger:  log.New(io.Discard),
		jitter:  fracdex.NoJitter{},
		retries: defaultRetries,
		newID:   newID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Items returns the list in order.
func (s *Service) Items(ctx context.Context, list string) ([]Item, error) {
	return s.store.Items(ctx, list)
}

// Insert adds a new item holding value at the given position.
func (s *Service) Insert(ctx context.Context, list, value string, at Position) (Item, error) {
	return s.place(ctx, list, Item{ID: s.newID(), Value: value}, at)
}

// Move repositions an existing item. Only its key changes.
func (s *Service) Move(ctx context.Context, list, id string, at Position) (Item, error) {
	if at.anchor == id && (at.kind == posAfter || at.kind == posBefore) {
		return Item{}, fmt.Errorf("move %s %s: %w", id, at, ErrInvalidPosition)
	}
	item, err := s.store.Get(ctx, list, id)
	if err != nil {
		return Item{}, err
	}
	return s.place(ctx, list, item, at)
}

// Remove deletes an item.
func (s *Service) Remove(ctx context.Context, list, id string) error {
	return s.store.Delete(ctx, list, id)
}

func (s *Service) place(ctx context.Context, list string, item Item, at Position) (Item, error) {
	for attempt := 0; attempt <= s.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return Item{}, err
		}
		items, err := s.store.Items(ctx, list)
		if err != nil {
			return Item{}, err
		}
		items = slices.DeleteFunc(items, func(it Item) bool { return it.ID == item.ID })

		prev, next, err := at.bounds(items)
		if err != nil {
			return Item{}, err
		}
		key, err := fracdex.KeyBetweenJitter(prev, next, s.jitter, s.jitterRange)
		if err != nil {
			return Item{}, fmt.Errorf("key between %q and %q: %w", prev, next, err)
		}
		item.Key = key

		err = s.store.Put(ctx, list, item)
		if errors.Is(err, ErrConflict) {
			s.logger.Debug("order key taken, retrying", "list", list, "key", key, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return Item{}, err
		}
		s.logger.Debug("placed item", "list", list, "id", item.ID, "key", key, "at", at)

		if s.maxKeyLen > 0 && len(key) > s.maxKeyLen {
			if err := s.Rebalance(ctx, list); err != nil {
				return Item{}, err
			}
			return s.store.Get(ctx, list, item.ID)
		}
		return item, nil
	}
	return Item{}, fmt.Errorf("place %s in %s after %d attempts: %w", item.ID, list, s.retries+1, ErrConflict)
}

// Rebalance rewrites every key in list with the shortest evenly spread keys
// for its current length, preserving order.
func (s *Service) Rebalance(ctx context.Context, list string) error {
	for attempt := 0; attempt <= s.retries; attempt++ {
		items, err := s.store.Items(ctx, list)
		if err != nil {
			return err
		}
		keys, err := fracdex.NKeysBetween("", "", uint(len(items)))
		if err != nil {
			return err
		}
		next := slices.Clone(items)
		for i := range next {
			next[i].Key = keys[i]
		}
		err = s.store.Replace(ctx, list, items, next)
		if errors.Is(err, ErrConflict) {
			s.logger.Debug("list changed during rebalance, retrying", "list", list, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return err
		}
		s.logger.Info("rebalanced list", "list", list, "items", len(items))
		return nil
	}
	return fmt.Errorf("rebalance %s after %d attempts: %w", list, s.retries+1, ErrConflict)
}
