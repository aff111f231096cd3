// Package remote performs single calls against the recipe API and reports
// them as raw responses for the classifier.
package remote

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/recipefeed/internal/recipes"
)

// RawResponse is what one remote call produced before classification.
// Body is nil when the server returned no decodable payload.
type RawResponse[T any] struct {
	StatusCode int
	Message    string
	Success    bool
	Body       *T
}

// Client performs exactly one call per invocation. A non-nil error means a
// transport fault; any response the server produced comes back as RawResponse.
type Client[T any] interface {
	Call(ctx context.Context, kind recipes.Kind, params map[string]string) (RawResponse[T], error)
}

// ClientFunc adapts a function to Client.
type ClientFunc[T any] func(ctx context.Context, kind recipes.Kind, params map[string]string) (RawResponse[T], error)

// Call implements Client.
func (f ClientFunc[T]) Call(ctx context.Context, kind recipes.Kind, params map[string]string) (RawResponse[T], error) {
	return f(ctx, kind, params)
}

// TransportFault wraps a failure that prevented any response from arriving
// or being decoded.
type TransportFault struct {
	Kind recipes.Kind
	Err  error
}

func (f *TransportFault) Error() string {
	return fmt.Sprintf("transport fault calling %s: %v", f.Kind, f.Err)
}

func (f *TransportFault) Unwrap() error { return f.Err }
