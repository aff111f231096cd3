// Package cache keeps the last successfully fetched payload of every dataset
// kind so that a failed fetch can fall back to it.
//
// Every kind owns exactly one slot. Writes overwrite the slot; entries never
// expire.
package cache

import (
	"context"
	"encoding/json"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
)

// SlotID is the identity key of every cache entry. There is one row per kind.
const SlotID = 0

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.CacheError("cache store is closed").Build()

// Store persists raw payload bytes, one slot per dataset kind.
// ReadAll returns an empty slice on a miss.
type Store interface {
	Write(ctx context.Context, kind recipes.Kind, payload []byte) error
	ReadAll(ctx context.Context, kind recipes.Kind) ([][]byte, error)
	Close() error
}

// Slot is a typed JSON view over one kind's entry in a Store.
type Slot[T any] struct {
	store Store
	kind  recipes.Kind
}

// NewSlot binds a typed slot to kind.
func NewSlot[T any](store Store, kind recipes.Kind) *Slot[T] {
	return &Slot[T]{store: store, kind: kind}
}

// Kind returns the dataset kind the slot belongs to.
func (s *Slot[T]) Kind() recipes.Kind { return s.kind }

// Write replaces the slot's content with v.
func (s *Slot[T]) Write(ctx context.Context, v T) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return errors.WrapError(err, errors.CategoryCache, "failed to encode cache payload").
			WithContext("kind", s.kind.String()).
			Build()
	}
	return s.store.Write(ctx, s.kind, payload)
}

// ReadAll decodes every stored entry for the kind. With a single slot this is
// at most one value.
func (s *Slot[T]) ReadAll(ctx context.Context) ([]T, error) {
	raws, err := s.store.ReadAll(ctx, s.kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.WrapError(err, errors.CategoryCache, "failed to decode cache payload").
				WithContext("kind", s.kind.String()).
				Build()
		}
		out = append(out, v)
	}
	return out, nil
}

// Latest returns the cached value and whether the slot was populated.
func (s *Slot[T]) Latest(ctx context.Context) (T, bool, error) {
	var zero T
	all, err := s.ReadAll(ctx)
	if err != nil || len(all) == 0 {
		return zero, false, err
	}
	return all[len(all)-1], true, nil
}
