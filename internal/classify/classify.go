// Package classify turns a raw remote response into a fetch outcome.
//
// Rules are applied in a fixed order and the first match wins:
//
//  1. a message containing "timeout" is a Timeout error
//  2. HTTP 402 means the API key quota is exhausted
//  3. an empty list body on a list-bearing dataset is "Recipes not found."
//  4. a successful response yields its body, or a malformed-success error when there is none
//  5. anything else is reported with the raw message
package classify

import (
	"net/http"
	"strings"

	"git.home.luguber.info/inful/recipefeed/internal/outcome"
	"git.home.luguber.info/inful/recipefeed/internal/recipes"
	"git.home.luguber.info/inful/recipefeed/internal/remote"
)

// ItemCounter is implemented by bodies that carry a result list.
type ItemCounter interface {
	ItemCount() int
}

// Classify maps raw to an outcome. It has no side effects.
func Classify[T any](raw remote.RawResponse[T], listBearing bool) outcome.Outcome[T] {
	switch {
	case strings.Contains(raw.Message, "timeout"):
		return outcome.Error[T](outcome.MsgTimeout)
	case raw.StatusCode == http.StatusPaymentRequired:
		return outcome.Error[T](outcome.MsgAPIKeyLimited)
	case listBearing && raw.Body != nil && isEmptyList(*raw.Body):
		return outcome.Error[T](outcome.MsgRecipesNotFound)
	case raw.Success:
		if raw.Body == nil {
			return outcome.Error[T](outcome.MsgMalformedSuccess)
		}
		return outcome.Success(*raw.Body)
	default:
		return outcome.Error[T](raw.Message)
	}
}

// ForKind reports whether the dataset kind carries a result list.
func ForKind(kind recipes.Kind) bool {
	switch kind {
	case recipes.PrimaryList, recipes.SearchResults:
		return true
	default:
		return false
	}
}

func isEmptyList(body any) bool {
	c, ok := body.(ItemCounter)
	return ok && c.ItemCount() == 0
}
