package recipes

import (
	"fmt"
	"strings"
)

// Kind identifies one of the independently cached datasets.
type Kind int

const (
	PrimaryList Kind = iota + 1
	SearchResults
	FoodJoke
)

// Kinds lists every dataset kind in declaration order.
var Kinds = []Kind{PrimaryList, SearchResults, FoodJoke}

func (k Kind) String() string {
	switch k {
	case PrimaryList:
		return "recipes"
	case SearchResults:
		return "search"
	case FoodJoke:
		return "joke"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is a declared kind.
func (k Kind) Valid() bool {
	return k >= PrimaryList && k <= FoodJoke
}

// ParseKind accepts the String form of a kind, case-insensitively.
func ParseKind(raw string) (Kind, error) {
	want := strings.ToLower(strings.TrimSpace(raw))
	for _, k := range Kinds {
		if k.String() == want {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown dataset kind %q", raw)
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid dataset kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind by name.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
