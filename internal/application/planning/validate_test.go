package planning

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platemuse/v1/internal/domain/planning"
)

func TestDecodeMealPlanValid(t *testing.T) {
	raw := json.RawMessage(`{
		"days": [
			{"day": "Monday", "meals": [{"type": "breakfast", "name": "Oatmeal", "ingredients": []}]}
		]
	}`)

	plan, err := DecodeMealPlan(raw)
	require.NoError(t, err)
	assert.Len(t, plan.Days, 1)
	assert.Equal(t, "Oatmeal", plan.Days[0].Meals[0].Name)
}

func TestDecodeMealPlanRejectsEmptyDays(t *testing.T) {
	_, err := DecodeMealPlan(json.RawMessage(`{"days": []}`))
	assert.ErrorContains(t, err, "no days")
}

func TestDecodeMealPlanRejectsDayWithoutMeals(t *testing.T) {
	_, err := DecodeMealPlan(json.RawMessage(`{"days": [{"day": "Tuesday", "meals": []}]}`))
	assert.ErrorContains(t, err, `"Tuesday" has no meals`)
}

func TestDecodeMealPlanRejectsUnnamedMeal(t *testing.T) {
	raw := json.RawMessage(`{"days": [{"day": "Monday", "meals": [{"type": "lunch", "name": "  "}]}]}`)
	_, err := DecodeMealPlan(raw)
	assert.ErrorContains(t, err, "unnamed meal")
}

func TestDecodeShoppingListValid(t *testing.T) {
	raw := json.RawMessage(`{
		"categories": [
			{"name": "Produce", "items": [{"name": "Tomatoes", "quantity": "2 lbs", "checked": false}]}
		],
		"totalEstimatedCost": 42.5
	}`)

	list, err := DecodeShoppingList(raw)
	require.NoError(t, err)
	require.Len(t, list.Categories, 1)
	assert.Equal(t, "Tomatoes", list.Categories[0].Items[0].Name)
	require.NotNil(t, list.TotalEstimatedCost)
	assert.InDelta(t, 42.5, *list.TotalEstimatedCost, 0.001)
}

func TestDecodeShoppingListRejectsNoCategories(t *testing.T) {
	_, err := DecodeShoppingList(json.RawMessage(`{"categories": []}`))
	assert.ErrorContains(t, err, "no categories")
}

func TestDecodeShoppingListRejectsUnnamedItem(t *testing.T) {
	raw := json.RawMessage(`{"categories": [{"name": "Dairy", "items": [{"name": ""}]}]}`)
	_, err := DecodeShoppingList(raw)
	assert.ErrorContains(t, err, `"Dairy" contains an unnamed item`)
}

func TestDecodeNutritionInsightsValid(t *testing.T) {
	raw := json.RawMessage(`{
		"overallAssessment": {"score": 85, "summary": "Well balanced"},
		"recommendations": ["More greens"]
	}`)

	insights, err := DecodeNutritionInsights(raw)
	require.NoError(t, err)
	assert.Equal(t, 85, insights.OverallAssessment.Score)
	assert.Equal(t, []string{"More greens"}, insights.Recommendations)
}

func TestDecodeNutritionInsightsRejectsMissingAssessment(t *testing.T) {
	_, err := DecodeNutritionInsights(json.RawMessage(`{"recommendations": []}`))
	assert.ErrorContains(t, err, "missing assessment summary")
}

func TestDecodeSwappedMealValid(t *testing.T) {
	original := planning.Meal{Type: "dinner", Name: "Lasagna"}
	raw := json.RawMessage(`{"type": "dinner", "name": "Stuffed Peppers", "prepTime": 20}`)

	meal, err := DecodeSwappedMeal(raw, original)
	require.NoError(t, err)
	assert.Equal(t, "Stuffed Peppers", meal.Name)
}

func TestDecodeSwappedMealRejectsTypeChange(t *testing.T) {
	original := planning.Meal{Type: "dinner", Name: "Lasagna"}
	raw := json.RawMessage(`{"type": "breakfast", "name": "Pancakes"}`)

	_, err := DecodeSwappedMeal(raw, original)
	assert.ErrorContains(t, err, `"breakfast" does not match original "dinner"`)
}

func TestDecodeSwappedMealRejectsUnnamed(t *testing.T) {
	_, err := DecodeSwappedMeal(json.RawMessage(`{"type": "lunch"}`), planning.Meal{Type: "lunch"})
	assert.ErrorContains(t, err, "no name")
}
