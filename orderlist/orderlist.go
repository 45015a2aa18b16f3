// Package orderlist keeps named lists of items ordered by fractional index
// keys. Moving or inserting an item rewrites only that item's key.
package orderlist

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrNotFound is returned when an item or anchor does not exist.
	ErrNotFound = errors.New("item not found")
	// ErrConflict is returned by Store.Put when another item already holds
	// the key, and by Store.Replace when the list changed since its
	// snapshot. Service retries on it with a fresh snapshot.
	ErrConflict = errors.New("order key conflict")
	// ErrInvalidPosition is returned when an item is positioned relative
	// to itself.
	ErrInvalidPosition = errors.New("invalid position")
)

// Item is one entry of an ordered list.
type Item struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Store persists items. Items must return the list sorted by Key.
type Store interface {
	Items(ctx context.Context, list string) ([]Item, error)
	Get(ctx context.Context, list, id string) (Item, error)
	// Put inserts or updates item, returning ErrConflict if a different
	// item already holds item.Key.
	Put(ctx context.Context, list string, item Item) error
	Delete(ctx context.Context, list, id string) error
	// Replace atomically rewrites the list from old, a snapshot read from
	// Items, to items. It returns ErrConflict unless the stored list still
	// matches old exactly and items names each stored item once with
	// distinct keys.
	Replace(ctx context.Context, list string, old, items []Item) error
}

type positionKind int

const (
	posLast positionKind = iota
	posFirst
	posAfter
	posBefore
)

// Position says where an item goes. The zero value is Last().
type Position struct {
	kind   positionKind
	anchor string
}

// First places an item before every other item.
func First() Position { return Position{kind: posFirst} }

// Last places an item after every other item.
func Last() Position { return Position{kind: posLast} }

// After places an item directly after the item with the given ID.
func After(id string) Position { return Position{kind: posAfter, anchor: id} }

// Before places an item directly before the item with the given ID.
func Before(id string) Position { return Position{kind: posBefore, anchor: id} }

func (p Position) String() string {
	switch p.kind {
	case posFirst:
		return "first"
	case posAfter:
		return "after " + p.anchor
	case posBefore:
		return "before " + p.anchor
	default:
		return "last"
	}
}

// bounds returns the keys the new key must sort between. items is sorted
// and must not contain the item being placed.
func (p Position) bounds(items []Item) (prev, next string, err error) {
	switch p.kind {
	case posFirst:
		if len(items) > 0 {
			next = items[0].Key
		}
		return "", next, nil
	case posLast:
		if len(items) > 0 {
			prev = items[len(items)-1].Key
		}
		return prev, "", nil
	}

	i := slices.IndexFunc(items, func(it Item) bool { return it.ID == p.anchor })
	if i < 0 {
		return "", "", fmt.Errorf("anchor %s: %w", p.anchor, ErrNotFound)
	}
	if p.kind == posAfter {
		prev = items[i].Key
		if i+1 < len(items) {
			next = items[i+1].Key
		}
		return prev, next, nil
	}
	next = items[i].Key
	if i > 0 {
		prev = items[i-1].Key
	}
	return prev, next, nil
}

// sortItems orders items by key, then ID.
func sortItems(items []Item) {
	slices.SortFunc(items, func(a, b Item) int {
		if c := strings.Compare(a.Key, b.Key); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
