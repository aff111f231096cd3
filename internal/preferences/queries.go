package preferences

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Query parameter names understood by the recipe API.
const (
	QuerySearch               = "query"
	QueryNumber               = "number"
	QueryAPIKey               = "apiKey"
	QueryType                 = "type"
	QueryDiet                 = "diet"
	QueryAddRecipeInformation = "addRecipeInformation"
	QueryFillIngredients      = "fillIngredients"
)

// ApplyQueries builds the primary-list query for the saved filter.
func ApplyQueries(m MealAndDietType, apiKey string, number int) map[string]string {
	return map[string]string{
		QueryNumber:               strconv.Itoa(number),
		QueryAPIKey:               apiKey,
		QueryType:                 m.MealType,
		QueryDiet:                 m.DietType,
		QueryAddRecipeInformation: "true",
		QueryFillIngredients:      "true",
	}
}

// ApplySearchQuery builds a free-text search query. The search text is
// NFC-normalized and trimmed so equivalent input produces identical requests.
func ApplySearchQuery(search, apiKey string, number int) map[string]string {
	return map[string]string{
		QuerySearch:               NormalizeSearch(search),
		QueryNumber:               strconv.Itoa(number),
		QueryAPIKey:               apiKey,
		QueryAddRecipeInformation: "true",
		QueryFillIngredients:      "true",
	}
}

// NormalizeSearch trims and NFC-normalizes search text and collapses inner
// whitespace.
func NormalizeSearch(search string) string {
	return strings.Join(strings.Fields(norm.NFC.String(search)), " ")
}

// JokeQuery builds the food joke query.
func JokeQuery(apiKey string) map[string]string {
	return map[string]string{QueryAPIKey: apiKey}
}
