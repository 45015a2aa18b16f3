package orderlist

import (
	"context"
	"fmt"
	"sync"

	"github.com/go4org/hashtriemap"
)

// memoryList is a single list. keys maps order key -> item ID.
type memoryList struct {
	mu    sync.RWMutex
	items map[string]Item
	keys  map[string]string
}

// MemoryStore is an in-memory Store.
// Uses hashtriemap for lock-free list lookups with per-list locks for mutations.
type MemoryStore struct {
	lists hashtriemap.HashTrieMap[string, *memoryList]
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) list(name string) *memoryList {
	if l, ok := m.lists.Load(name); ok {
		return l
	}
	l, _ := m.lists.LoadOrStore(name, &memoryList{
		items: make(map[string]Item),
		keys:  make(map[string]string),
	})
	return l
}

// Items returns the list sorted by key. A missing list is empty.
func (m *MemoryStore) Items(ctx context.Context, list string) ([]Item, error) {
	l, ok := m.lists.Load(list)
	if !ok {
		return []Item{}, nil
	}
	l.mu.RLock()
	items := make([]Item, 0, len(l.items))
	for _, it := range l.items {
		items = append(items, it)
	}
	l.mu.RUnlock()

	sortItems(items)
	return items, nil
}

// Get returns a single item.
func (m *MemoryStore) Get(ctx context.Context, list, id string) (Item, error) {
	l, ok := m.lists.Load(list)
	if !ok {
		return Item{}, fmt.Errorf("%s/%s: %w", list, id, ErrNotFound)
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	it, ok := l.items[id]
	if !ok {
		return Item{}, fmt.Errorf("%s/%s: %w", list, id, ErrNotFound)
	}
	return it, nil
}

// Put inserts or updates item.
func (m *MemoryStore) Put(ctx context.Context, list string, item Item) error {
	l := m.list(list)
	l.mu.Lock()
	defer l.mu.Unlock()

	if owner, ok := l.keys[item.Key]; ok && owner != item.ID {
		return fmt.Errorf("key %s held by %s: %w", item.Key, owner, ErrConflict)
	}
	if old, ok := l.items[item.ID]; ok {
		delete(l.keys, old.Key)
	}
	l.items[item.ID] = item
	l.keys[item.Key] = item.ID
	return nil
}

// Delete removes an item.
func (m *MemoryStore) Delete(ctx context.Context, list, id string) error {
	l, ok := m.lists.Load(list)
	if !ok {
		return fmt.Errorf("%s/%s: %w", list, id, ErrNotFound)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	it, ok := l.items[id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", list, id, ErrNotFound)
	}
	delete(l.items, id)
	delete(l.keys, it.Key)
	return nil
}

// Replace swaps in the given keys if the list still matches old.
func (m *MemoryStore) Replace(ctx context.Context, list string, old, items []Item) error {
	l := m.list(list)
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(old) != len(l.items) {
		return fmt.Errorf("replace %s: snapshot has %d of %d items: %w", list, len(old), len(l.items), ErrConflict)
	}
	for _, it := range old {
		if cur, ok := l.items[it.ID]; !ok || cur.Key != it.Key {
			return fmt.Errorf("replace %s: %s changed: %w", list, it.ID, ErrConflict)
		}
	}

	next := make(map[string]Item, len(items))
	keys := make(map[string]string, len(items))
	for _, it := range items {
		if _, ok := l.items[it.ID]; !ok {
			return fmt.Errorf("%s/%s: %w", list, it.ID, ErrNotFound)
		}
		if _, ok := next[it.ID]; ok {
			return fmt.Errorf("replace %s: %s repeated: %w", list, it.ID, ErrConflict)
		}
		if owner, ok := keys[it.Key]; ok {
			return fmt.Errorf("key %s held by %s: %w", it.Key, owner, ErrConflict)
		}
		next[it.ID] = it
		keys[it.Key] = it.ID
	}
	if len(next) != len(l.items) {
		return fmt.Errorf("replace %s: %d of %d items: %w", list, len(next), len(l.items), ErrConflict)
	}

	l.items = next
	l.keys = keys
	return nil
}
