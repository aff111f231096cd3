package preferences

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
)

// MealTypes are the meal filters offered to the user.
var MealTypes = []string{
	"main course", "side dish", "dessert", "appetizer", "salad", "bread",
	"breakfast", "soup", "beverage", "sauce", "marinade", "fingerfood", "snack", "drink",
}

// DietTypes are the diet filters offered to the user.
var DietTypes = []string{
	"gluten free", "ketogenic", "vegetarian", "vegan", "pescetarian", "paleo",
}

// Select resolves a meal and diet type by name into a MealAndDietType with
// their IDs filled in. Names are matched case-insensitively.
func Select(mealType, dietType string) (MealAndDietType, error) {
	meal := strings.ToLower(strings.TrimSpace(mealType))
	diet := strings.ToLower(strings.TrimSpace(dietType))

	mealIdx := slices.Index(MealTypes, meal)
	if mealIdx < 0 {
		return MealAndDietType{}, errors.ValidationError("unknown meal type").
			WithContext("meal_type", mealType).
			Build()
	}
	dietIdx := slices.Index(DietTypes, diet)
	if dietIdx < 0 {
		return MealAndDietType{}, errors.ValidationError("unknown diet type").
			WithContext("diet_type", dietType).
			Build()
	}
	return MealAndDietType{MealType: meal, MealTypeID: mealIdx + 1, DietType: diet, DietTypeID: dietIdx + 1}, nil
}
