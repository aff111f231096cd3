// Package favorites stores the recipes a user has marked as favorite.
package favorites

import (
	"context"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
)

// ErrNotFound is returned when deleting an id that is not stored.
var ErrNotFound = errors.NotFoundError("favorite not found").Build()

// Favorite is one stored recipe. A zero ID asks the store to assign one.
type Favorite struct {
	ID     int64          `json:"id"`
	Result recipes.Result `json:"result"`
}

// Store persists favorites. List orders by ID ascending.
type Store interface {
	Insert(ctx context.Context, f Favorite) (Favorite, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	List(ctx context.Context) ([]Favorite, error)
	Close() error
}
