package planning

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/platemuse/v1/internal/domain/planning"
	"github.com/platemuse/v1/internal/domain/tier"
)

// Prompt construction is the only correctness lever on model output: with
// no schema negotiated with the provider, each prompt embeds a literal
// example of the exact JSON shape the model should reproduce. Downstream
// validation checks that the shape actually came back.

// BuildMealPlanPrompt assembles the meal-plan instruction string. Tier
// decides how many dietary restrictions are honored, how many days are
// requested, and which premium-only fields the example advertises.
func BuildMealPlanPrompt(prefs planning.Preferences, t tier.Tier) string {
	prefs.Normalize()

	dietary := prefs.DietaryRestrictions
	if max := t.DietaryLimit(); len(dietary) > max {
		dietary = dietary[:max]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `Generate a meal plan for a busy home cook with the following requirements:
- Dietary restrictions: %s
- Allergies: %s
- Cooking time limit: %d minutes
- Family size: %d people`,
		joinOrNone(dietary),
		joinOrNone(prefs.Allergies),
		prefs.CookingTimeLimit,
		prefs.FamilySize,
	)

	switch {
	case t == tier.Free:
		sb.WriteString(`

Create exactly 3 meals (breakfast, lunch, dinner) for ONE day only.
Focus on simple, quick recipes that require minimal ingredients.`)
	case t == tier.Basic:
		fmt.Fprintf(&sb, `
- Preferred cuisines: %s

Create a complete 7-day meal plan with breakfast, lunch, and dinner.
Include variety to avoid repetition and consider meal prep opportunities.`,
			joinOrAny(prefs.CuisineTypes))
	default: // premium and premiumPlus
		fmt.Fprintf(&sb, `
- Preferred cuisines: %s
- Kid-friendly required: %s
- Budget per week: %s
- Calorie target: %s

Create a complete 7-day meal plan with nutritional information.`,
			joinOrAny(prefs.CuisineTypes),
			yesNo(prefs.KidFriendly),
			formatBudget(prefs.Budget),
			formatCalories(prefs.CalorieTarget),
		)
		if prefs.KidFriendly {
			sb.WriteString("\nInclude kid-friendly options with hidden vegetables.")
		}
		sb.WriteString(`
Suggest meal prep strategies and leftover usage.
Include seasonal ingredients when possible.`)
	}

	sb.WriteString("\n\nFormat the response as JSON with this structure:\n")
	sb.WriteString(mealPlanExample(prefs.FamilySize, t))

	return sb.String()
}

// mealPlanExample renders the literal output shape for the meal plan,
// widening with nutrition and premium fields as the tier allows
func mealPlanExample(familySize int, t tier.Tier) string {
	nutritionBlock := ""
	if t != tier.Free {
		nutritionBlock = `,
          "nutrition": { "calories": 350, "protein": 20, "carbs": 45, "fat": 12 }`
	}

	premiumMealBlock := ""
	premiumPlanBlock := ""
	if t.IncludesCosts() {
		premiumMealBlock = `,
          "kidFriendlyTips": "How to make it appealing to kids",
          "mealPrepTips": "Can be prepped ahead",
          "leftoverIdeas": "Use leftovers for tomorrow's lunch"`
		premiumPlanBlock = `,
  "weeklyNutrition": { "avgCalories": 1800, "avgProtein": 75, "avgCarbs": 200, "avgFat": 65 },
  "mealPrepPlan": "Sunday prep suggestions",
  "estimatedCost": 150`
	}

	return fmt.Sprintf(`{
  "days": [
    {
      "day": "Monday",
      "meals": [
        {
          "type": "breakfast",
          "name": "Meal name",
          "description": "Brief description",
          "prepTime": 15,
          "cookTime": 10,
          "servings": %d,
          "tags": ["tag1", "tag2"],
          "ingredients": [
            { "name": "ingredient1", "amount": "1 cup", "category": "produce" }
          ]%s%s
        }
      ]
    }
  ]%s
}`, familySize, nutritionBlock, premiumMealBlock, premiumPlanBlock)
}

// BuildShoppingListPrompt assembles the shopping-list instruction string
// from the flattened plan ingredients and the user's pantry
func BuildShoppingListPrompt(ingredients []planning.Ingredient, pantryItems []string, t tier.Tier) string {
	ingredientJSON, _ := json.Marshal(ingredients)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a shopping list from these ingredients:\n%s\n", ingredientJSON)

	if len(pantryItems) > 0 {
		fmt.Fprintf(&sb, "\nItems already in pantry: %s\n", strings.Join(pantryItems, ", "))
	}

	sb.WriteString("\nOrganize by store sections and combine quantities.\n")

	costItemField := ""
	costListFields := ""
	if t.IncludesCosts() {
		sb.WriteString("Include estimated costs for each item.\n")
		costItemField = `,
          "estimatedCost": 3.99`
		costListFields = `,
  "totalEstimatedCost": 75.50,
  "savingsTips": ["Buy chicken in bulk", "Frozen vegetables are cheaper"]`
	}

	fmt.Fprintf(&sb, `
Format as JSON:
{
  "categories": [
    {
      "name": "Produce",
      "items": [
        {
          "name": "Tomatoes",
          "quantity": "2 lbs",
          "checked": false%s
        }
      ]
    }
  ]%s
}`, costItemField, costListFields)

	return sb.String()
}

// BuildNutritionPrompt assembles the nutrition-insights instruction string
func BuildNutritionPrompt(plan planning.MealPlan, profiles []planning.FamilyProfile) string {
	planJSON, _ := json.Marshal(plan)
	profileJSON, _ := json.Marshal(profiles)

	return fmt.Sprintf(`Analyze the nutritional content of this weekly meal plan:
%s

Family profiles: %s

Provide:
1. Overall nutrition assessment
2. Macro distribution analysis
3. Vitamin and mineral highlights
4. Recommendations for improvement
5. Family member specific insights

Format as JSON:
{
  "overallAssessment": {
    "score": 85,
    "summary": "Well-balanced with room for improvement",
    "strengths": ["High protein", "Good variety"],
    "weaknesses": ["Low iron", "Needs more fiber"]
  },
  "macroDistribution": {
    "protein": { "percentage": 25, "status": "optimal" },
    "carbs": { "percentage": 45, "status": "balanced" },
    "fat": { "percentage": 30, "status": "balanced" }
  },
  "micronutrients": {
    "highlights": ["Vitamin C: 150%% RDA", "Calcium: 120%% RDA"],
    "concerns": ["Iron: 60%% RDA", "Vitamin D: 40%% RDA"]
  },
  "recommendations": [
    "Add more leafy greens for iron",
    "Include fortified dairy for Vitamin D"
  ],
  "familyInsights": [
    {
      "member": "Child 1",
      "insights": ["Getting enough calcium", "May need more iron-rich foods"]
    }
  ]
}`, planJSON, profileJSON)
}

// BuildMealSwapPrompt assembles the meal-swap instruction string. The
// replacement must keep the original meal's type and similar prep time.
func BuildMealSwapPrompt(current planning.Meal, prefs *planning.Preferences) string {
	mealJSON, _ := json.Marshal(current)
	prefsJSON := []byte("{}")
	if prefs != nil {
		prefsJSON, _ = json.Marshal(prefs)
	}

	return fmt.Sprintf(`Suggest an alternative meal to replace:
%s

Requirements:
- Similar nutrition profile
- Same meal type (%s)
- Prep time under %d minutes
- Match these preferences: %s

Format as JSON with same structure as the original meal.`,
		mealJSON, current.Type, current.PrepTime+5, prefsJSON)
}

// Helpers

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}

func joinOrAny(items []string) string {
	if len(items) == 0 {
		return "Any"
	}
	return strings.Join(items, ", ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatBudget(budget float64) string {
	if budget <= 0 {
		return "Not specified"
	}
	return fmt.Sprintf("$%.2f", budget)
}

func formatCalories(target int) string {
	if target <= 0 {
		return "Not specified"
	}
	return fmt.Sprintf("%d", target)
}
