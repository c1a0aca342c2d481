package planning

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/platemuse/v1/internal/domain/planning"
)

// The extractor only guarantees syntactically valid JSON. Each capability
// has a minimal shape the callers depend on; anything thinner than that is
// rejected here rather than passed downstream.

// DecodeMealPlan parses and shape-checks a raw meal plan document
func DecodeMealPlan(raw json.RawMessage) (*planning.MealPlan, error) {
	var plan planning.MealPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return nil, fmt.Errorf("decode meal plan: %w", err)
	}
	if len(plan.Days) == 0 {
		return nil, fmt.Errorf("meal plan has no days")
	}
	for _, day := range plan.Days {
		if len(day.Meals) == 0 {
			return nil, fmt.Errorf("day %q has no meals", day.Day)
		}
		for _, meal := range day.Meals {
			if strings.TrimSpace(meal.Name) == "" {
				return nil, fmt.Errorf("day %q contains an unnamed meal", day.Day)
			}
		}
	}
	return &plan, nil
}

// DecodeShoppingList parses and shape-checks a raw shopping list document
func DecodeShoppingList(raw json.RawMessage) (*planning.ShoppingList, error) {
	var list planning.ShoppingList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode shopping list: %w", err)
	}
	if len(list.Categories) == 0 {
		return nil, fmt.Errorf("shopping list has no categories")
	}
	for _, cat := range list.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return nil, fmt.Errorf("shopping list contains an unnamed category")
		}
		for _, item := range cat.Items {
			if strings.TrimSpace(item.Name) == "" {
				return nil, fmt.Errorf("category %q contains an unnamed item", cat.Name)
			}
		}
	}
	return &list, nil
}

// DecodeNutritionInsights parses and shape-checks a raw insights document
func DecodeNutritionInsights(raw json.RawMessage) (*planning.NutritionInsights, error) {
	var insights planning.NutritionInsights
	if err := json.Unmarshal(raw, &insights); err != nil {
		return nil, fmt.Errorf("decode nutrition insights: %w", err)
	}
	if strings.TrimSpace(insights.OverallAssessment.Summary) == "" {
		return nil, fmt.Errorf("nutrition insights missing assessment summary")
	}
	return &insights, nil
}

// DecodeSwappedMeal parses and shape-checks a raw replacement meal. The
// replacement must keep the type of the meal it replaces.
func DecodeSwappedMeal(raw json.RawMessage, original planning.Meal) (*planning.Meal, error) {
	var meal planning.Meal
	if err := json.Unmarshal(raw, &meal); err != nil {
		return nil, fmt.Errorf("decode swapped meal: %w", err)
	}
	if strings.TrimSpace(meal.Name) == "" {
		return nil, fmt.Errorf("swapped meal has no name")
	}
	if meal.Type != original.Type {
		return nil, fmt.Errorf("swapped meal type %q does not match original %q", meal.Type, original.Type)
	}
	return &meal, nil
}
