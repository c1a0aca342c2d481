// Package account defines the user-facing records owned by the service:
// the user itself, stored preferences, family profiles, and meal history.
package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/platemuse/v1/internal/domain/planning"
	"github.com/platemuse/v1/internal/domain/tier"
)

// User is a registered account with a subscription tier
type User struct {
	ID               uuid.UUID
	Email            string
	Name             string
	Tier             tier.Tier
	StripeCustomerID string
	Preferences      *planning.Preferences
	PantryItems      []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FamilyProfile is a stored household member profile
type FamilyProfile struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Profile   planning.FamilyProfile
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MealHistoryEntry records a meal the user generated or cooked, used for
// variety and quick re-use
type MealHistoryEntry struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Meal      planning.Meal
	Rating    int
	UseCount  int
	LastUsed  time.Time
	CreatedAt time.Time
}

// StoredMealPlan is a persisted generated plan
type StoredMealPlan struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Plan      planning.MealPlan
	Model     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StoredShoppingList is a persisted generated shopping list
type StoredShoppingList struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	MealPlanID *uuid.UUID
	List       planning.ShoppingList
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
