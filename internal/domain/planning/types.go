// Package planning defines the domain types exchanged with the AI
// generation pipeline and persisted for each user.
package planning

import (
	"bytes"
	"encoding/json"
)

// Ingredient is a single ingredient line within a meal
type Ingredient struct {
	Name     string `json:"name"`
	Amount   string `json:"amount,omitempty"`
	Category string `json:"category,omitempty"`
}

// UnmarshalJSON accepts either an ingredient object or a bare string.
// Clients and model output both appear in the wild with the short form.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &i.Name)
	}
	type alias Ingredient
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*i = Ingredient(a)
	return nil
}

// Nutrition summarizes the macro profile of a meal
type Nutrition struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Meal is one meal slot within a day
type Meal struct {
	Type            string       `json:"type"`
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	PrepTime        int          `json:"prepTime"`
	CookTime        int          `json:"cookTime"`
	Servings        int          `json:"servings"`
	Tags            []string     `json:"tags,omitempty"`
	Ingredients     []Ingredient `json:"ingredients"`
	Nutrition       *Nutrition   `json:"nutrition,omitempty"`
	KidFriendlyTips string       `json:"kidFriendlyTips,omitempty"`
	MealPrepTips    string       `json:"mealPrepTips,omitempty"`
	LeftoverIdeas   string       `json:"leftoverIdeas,omitempty"`
}

// Day groups the meals of a single day
type Day struct {
	Day   string `json:"day"`
	Meals []Meal `json:"meals"`
}

// WeeklyNutrition aggregates nutrition across a full plan
type WeeklyNutrition struct {
	AvgCalories int     `json:"avgCalories"`
	AvgProtein  float64 `json:"avgProtein"`
	AvgCarbs    float64 `json:"avgCarbs"`
	AvgFat      float64 `json:"avgFat"`
}

// MealPlan is the top-level generated plan
type MealPlan struct {
	Days            []Day            `json:"days"`
	WeeklyNutrition *WeeklyNutrition `json:"weeklyNutrition,omitempty"`
	MealPrepPlan    string           `json:"mealPrepPlan,omitempty"`
	EstimatedCost   float64          `json:"estimatedCost,omitempty"`
}

// Preferences captures the user inputs that shape a generated plan
type Preferences struct {
	DietaryRestrictions []string `json:"dietaryRestrictions,omitempty"`
	Allergies           []string `json:"allergies,omitempty"`
	CalorieTarget       int      `json:"calorieTarget,omitempty"`
	CookingTimeLimit    int      `json:"cookingTimeLimit,omitempty"`
	CuisineTypes        []string `json:"cuisineTypes,omitempty"`
	FamilySize          int      `json:"familySize,omitempty"`
	KidFriendly         bool     `json:"kidFriendly,omitempty"`
	Budget              float64  `json:"budget,omitempty"`
}

// Normalize fills in the defaults applied before prompt construction
func (p *Preferences) Normalize() {
	if p.CookingTimeLimit <= 0 {
		p.CookingTimeLimit = 30
	}
	if p.FamilySize <= 0 {
		p.FamilySize = 2
	}
}

// FamilyProfile describes one household member for nutrition analysis
type FamilyProfile struct {
	Name         string   `json:"name"`
	AgeGroup     string   `json:"ageGroup,omitempty"`
	Restrictions []string `json:"restrictions,omitempty"`
	Goals        []string `json:"goals,omitempty"`
}

// ShoppingItem is one line on a generated shopping list
type ShoppingItem struct {
	Name          string   `json:"name"`
	Quantity      string   `json:"quantity,omitempty"`
	Checked       bool     `json:"checked"`
	EstimatedCost *float64 `json:"estimatedCost,omitempty"`
}

// ShoppingCategory groups shopping items by store section
type ShoppingCategory struct {
	Name  string         `json:"name"`
	Items []ShoppingItem `json:"items"`
}

// ShoppingList is the generated, store-section-organized list
type ShoppingList struct {
	Categories         []ShoppingCategory `json:"categories"`
	TotalEstimatedCost *float64           `json:"totalEstimatedCost,omitempty"`
	SavingsTips        []string           `json:"savingsTips,omitempty"`
}

// MacroStatus reports one macro's share of the plan and whether it is in range
type MacroStatus struct {
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
}

// OverallAssessment is the headline verdict of a nutrition analysis
type OverallAssessment struct {
	Score      int      `json:"score"`
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
}

// FamilyInsight carries per-member findings from a nutrition analysis
type FamilyInsight struct {
	Member   string   `json:"member"`
	Insights []string `json:"insights"`
}

// NutritionInsights is the generated analysis of a weekly plan
type NutritionInsights struct {
	OverallAssessment OverallAssessment      `json:"overallAssessment"`
	MacroDistribution map[string]MacroStatus `json:"macroDistribution,omitempty"`
	Micronutrients    struct {
		Highlights []string `json:"highlights,omitempty"`
		Concerns   []string `json:"concerns,omitempty"`
	} `json:"micronutrients,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`
	FamilyInsights  []FamilyInsight `json:"familyInsights,omitempty"`
}

// AllIngredients flattens every ingredient across the plan, preserving order
func (mp *MealPlan) AllIngredients() []Ingredient {
	var out []Ingredient
	for _, day := range mp.Days {
		for _, meal := range day.Meals {
			out = append(out, meal.Ingredients...)
		}
	}
	return out
}

// Truncate limits the plan to at most n days
func (mp *MealPlan) Truncate(n int) {
	if n > 0 && len(mp.Days) > n {
		mp.Days = mp.Days[:n]
	}
}
