package recipes

// FoodRecipe is the body of a complexSearch response.
type FoodRecipe struct {
	Results []Result `json:"results"`
}

// ItemCount lets the classifier detect an empty result list.
func (f FoodRecipe) ItemCount() int {
	return len(f.Results)
}

// Result is a single recipe.
type Result struct {
	AggregateLikes      int                  `json:"aggregateLikes"`
	Cheap               bool                 `json:"cheap"`
	DairyFree           bool                 `json:"dairyFree"`
	ExtendedIngredients []ExtendedIngredient `json:"extendedIngredients"`
	GlutenFree          bool                 `json:"glutenFree"`
	RecipeID            int                  `json:"id"`
	Image               string               `json:"image"`
	ReadyInMinutes      int                  `json:"readyInMinutes"`
	SourceName          string               `json:"sourceName,omitempty"`
	SourceURL           string               `json:"sourceUrl"`
	Summary             string               `json:"summary"`
	Title               string               `json:"title"`
	Vegan               bool                 `json:"vegan"`
	Vegetarian          bool                 `json:"vegetarian"`
	VeryHealthy         bool                 `json:"veryHealthy"`
}

// ExtendedIngredient is one line of a recipe's ingredient list.
type ExtendedIngredient struct {
	Amount      float64 `json:"amount"`
	Consistency string  `json:"consistency"`
	Image       string  `json:"image"`
	Name        string  `json:"name"`
	Original    string  `json:"original"`
	Unit        string  `json:"unit"`
}

// Joke is the body of the random joke endpoint.
type Joke struct {
	Text string `json:"text"`
}
