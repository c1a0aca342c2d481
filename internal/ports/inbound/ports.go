// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/platemuse/v1/internal/domain/account"
	"github.com/platemuse/v1/internal/domain/planning"
	"github.com/platemuse/v1/internal/domain/tier"
)

// PlanningService defines the AI-backed generation use cases. Every
// operation checks the caller's tier before anything else runs.
type PlanningService interface {
	GenerateMealPlan(ctx context.Context, cmd MealPlanCommand) (*planning.MealPlan, error)
	GenerateShoppingList(ctx context.Context, cmd ShoppingListCommand) (*planning.ShoppingList, error)
	NutritionInsights(ctx context.Context, cmd NutritionCommand) (*planning.NutritionInsights, error)
	SwapMeal(ctx context.Context, cmd SwapCommand) (*planning.Meal, error)
}

// MealPlanCommand contains data for meal plan generation
type MealPlanCommand struct {
	Tier        tier.Tier
	Preferences planning.Preferences
}

// ShoppingListCommand contains data for shopping list generation
type ShoppingListCommand struct {
	Tier        tier.Tier
	Plan        planning.MealPlan
	PantryItems []string
}

// NutritionCommand contains data for nutrition analysis
type NutritionCommand struct {
	Tier           tier.Tier
	Plan           planning.MealPlan
	FamilyProfiles []planning.FamilyProfile
}

// SwapCommand contains data for single-meal replacement
type SwapCommand struct {
	Tier        tier.Tier
	CurrentMeal planning.Meal
	Preferences *planning.Preferences
}

// RegisterResult carries a new account and its access token
type RegisterResult struct {
	User  *account.User
	Token string
}

// AccountService defines the account management use cases
type AccountService interface {
	Register(ctx context.Context, name, email string) (*RegisterResult, error)
	GetUser(ctx context.Context, id uuid.UUID) (*account.User, error)
	UpdatePreferences(ctx context.Context, id uuid.UUID, prefs planning.Preferences) error
	UpdatePantry(ctx context.Context, id uuid.UUID, items []string) error

	UpsertFamilyProfile(ctx context.Context, profile *account.FamilyProfile) error
	DeleteFamilyProfile(ctx context.Context, id uuid.UUID) error
	ListFamilyProfiles(ctx context.Context, userID uuid.UUID) ([]*account.FamilyProfile, error)

	RecordMeal(ctx context.Context, entry *account.MealHistoryEntry) error
	ListMealHistory(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*account.MealHistoryEntry, error)
	ReuseMeal(ctx context.Context, id uuid.UUID) error

	SaveMealPlan(ctx context.Context, plan *account.StoredMealPlan) error
	GetActiveMealPlan(ctx context.Context, userID uuid.UUID) (*account.StoredMealPlan, error)
	ListMealPlans(ctx context.Context, userID uuid.UUID, limit int) ([]*account.StoredMealPlan, error)

	SaveShoppingList(ctx context.Context, list *account.StoredShoppingList) error
	ListShoppingLists(ctx context.Context, userID uuid.UUID, limit int) ([]*account.StoredShoppingList, error)

	UpgradeLink(ctx context.Context, userID uuid.UUID, targetTier string) (string, error)
	ApplyTier(ctx context.Context, userID uuid.UUID, newTier string) error
}
