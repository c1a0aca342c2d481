// Package tier defines subscription tiers and the gating rules that
// control access to AI-backed capabilities.
package tier

import "fmt"

// Tier represents a subscription level
type Tier string

const (
	Free        Tier = "free"
	Basic       Tier = "basic"
	Premium     Tier = "premium"
	PremiumPlus Tier = "premiumPlus"
)

// rank orders tiers for comparison. Premium and PremiumPlus both satisfy
// premium-gated features; PremiumPlus ranks higher only for its own extras.
var rank = map[Tier]int{
	Free:        0,
	Basic:       1,
	Premium:     2,
	PremiumPlus: 3,
}

// Parse normalizes a raw tier string. Unknown or empty values fall back to
// Free, the most restrictive tier, never to an unlocked one.
func Parse(raw string) Tier {
	t := Tier(raw)
	if _, ok := rank[t]; !ok {
		return Free
	}
	return t
}

// Valid reports whether t is a known tier
func (t Tier) Valid() bool {
	_, ok := rank[t]
	return ok
}

// Meets reports whether t satisfies the given minimum tier
func (t Tier) Meets(min Tier) bool {
	return rank[t] >= rank[min]
}

// Capability is one AI-backed feature exposed as its own endpoint
type Capability string

const (
	CapabilityMealPlan     Capability = "meal_plan"
	CapabilityShoppingList Capability = "shopping_list"
	CapabilityNutrition    Capability = "nutrition_insights"
	CapabilityMealSwap     Capability = "meal_swap"
)

// DisplayName returns the human-readable capability name used in
// client-facing gate messages
func (c Capability) DisplayName() string {
	switch c {
	case CapabilityMealPlan:
		return "Meal plan generation"
	case CapabilityShoppingList:
		return "Shopping list generation"
	case CapabilityNutrition:
		return "Nutrition insights"
	case CapabilityMealSwap:
		return "Meal swapping"
	default:
		return string(c)
	}
}

// minTiers maps each capability to the lowest tier allowed to use it
var minTiers = map[Capability]Tier{
	CapabilityMealPlan:     Free,
	CapabilityShoppingList: Free,
	CapabilityNutrition:    Premium,
	CapabilityMealSwap:     Basic,
}

// MinTier returns the minimum tier required for a capability
func MinTier(c Capability) Tier {
	if min, ok := minTiers[c]; ok {
		return min
	}
	// Unknown capabilities are locked down to the highest tier.
	return PremiumPlus
}

// GateDecision is the result of a tier check
type GateDecision struct {
	Allowed      bool
	RequiredTier Tier
	Reason       string
}

// Gate decides whether the given tier may use the capability. The check is
// performed before any external call is made.
func Gate(t Tier, c Capability) GateDecision {
	min := MinTier(c)
	if t.Meets(min) {
		return GateDecision{Allowed: true, RequiredTier: min}
	}
	return GateDecision{
		Allowed:      false,
		RequiredTier: min,
		Reason:       fmt.Sprintf("%s requires %s tier or higher", c.DisplayName(), min),
	}
}

// IncludesCosts reports whether the tier unlocks cost estimates in
// generated shopping lists and meal plans
func (t Tier) IncludesCosts() bool {
	return t.Meets(Premium)
}

// PlanDays returns how many days of meals a generated plan may contain
func (t Tier) PlanDays() int {
	if t == Free {
		return 1
	}
	return 7
}

// DietaryLimit returns how many dietary restrictions the tier may apply
// to a generation request
func (t Tier) DietaryLimit() int {
	switch t {
	case Basic:
		return 3
	case Premium:
		return 5
	case PremiumPlus:
		return 999
	default:
		return 1
	}
}

// Limits describes the feature envelope of a tier, served by the
// tier catalog endpoint
type Limits struct {
	Tier               Tier     `json:"tier"`
	MealsPerWeek       int      `json:"mealsPerWeek"`
	DietaryPreferences int      `json:"dietaryPreferences"`
	RefreshRate        string   `json:"refreshRate"`
	GroceryList        string   `json:"groceryList"`
	Features           []string `json:"features"`
}

// Catalog returns the feature envelope for every tier, ordered from most
// restrictive to least
func Catalog() []Limits {
	return []Limits{
		{
			Tier:               Free,
			MealsPerWeek:       3,
			DietaryPreferences: 1,
			RefreshRate:        "weekly",
			GroceryList:        "basic",
			Features:           []string{},
		},
		{
			Tier:               Basic,
			MealsPerWeek:       21,
			DietaryPreferences: 3,
			RefreshRate:        "daily",
			GroceryList:        "organized",
			Features:           []string{"mealHistory", "quickSwaps", "pantryTracker", "familySize"},
		},
		{
			Tier:               Premium,
			MealsPerWeek:       21,
			DietaryPreferences: 5,
			RefreshRate:        "unlimited",
			GroceryList:        "smart",
			Features: []string{
				"mealHistory", "quickSwaps", "pantryTracker", "familySize",
				"nutritionAnalysis", "kidFriendly", "mealPrep", "budgetTracker",
				"substitutions", "leftoverIdeas", "seasonalMenus", "familyProfiles",
			},
		},
		{
			Tier:               PremiumPlus,
			MealsPerWeek:       999,
			DietaryPreferences: 999,
			RefreshRate:        "unlimited",
			GroceryList:        "smart",
			Features: []string{
				"mealHistory", "quickSwaps", "pantryTracker", "familySize",
				"nutritionAnalysis", "kidFriendly", "mealPrep", "budgetTracker",
				"substitutions", "leftoverIdeas", "seasonalMenus", "familyProfiles",
				"aiChef", "healthGoals", "allergyAlert", "macroTracking",
			},
		},
	}
}
