package fetch

import (
	"maps"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/recipefeed/internal/recipes"
)

// Request is an immutable fetch request: a dataset kind plus query parameters.
type Request struct {
	id     uuid.UUID
	kind   recipes.Kind
	params map[string]string
}

// NewRequest copies params so later changes by the caller are not observed.
func NewRequest(kind recipes.Kind, params map[string]string) Request {
	return Request{id: uuid.New(), kind: kind, params: maps.Clone(params)}
}

// ID uniquely identifies the request in logs and observer events.
func (r Request) ID() uuid.UUID { return r.id }

// Kind returns the requested dataset kind.
func (r Request) Kind() recipes.Kind { return r.kind }

// Params returns a copy of the query parameters.
func (r Request) Params() map[string]string {
	if r.params == nil {
		return map[string]string{}
	}
	return maps.Clone(r.params)
}
