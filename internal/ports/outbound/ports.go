// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/platemuse/v1/internal/domain/account"
)

// TextGenerator defines the interface to the generative-language backend.
// It sends one prompt to a named model and returns a single non-streaming
// text completion.
type TextGenerator interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *account.User) error
	Update(ctx context.Context, user *account.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*account.User, error)
	FindByEmail(ctx context.Context, email string) (*account.User, error)
	UpdateTier(ctx context.Context, id uuid.UUID, tier string) error
	UpdateStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error
}

// FamilyProfileRepository defines the interface for family profile persistence
type FamilyProfileRepository interface {
	Upsert(ctx context.Context, profile *account.FamilyProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*account.FamilyProfile, error)
}

// MealHistoryRepository defines the interface for meal history persistence
type MealHistoryRepository interface {
	Record(ctx context.Context, entry *account.MealHistoryEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByUserID(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*account.MealHistoryEntry, error)
	TouchUse(ctx context.Context, id uuid.UUID) error
}

// MealPlanRepository defines the interface for stored meal plans
type MealPlanRepository interface {
	Save(ctx context.Context, plan *account.StoredMealPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*account.StoredMealPlan, error)
	FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*account.StoredMealPlan, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*account.StoredMealPlan, error)
}

// ShoppingListRepository defines the interface for stored shopping lists
type ShoppingListRepository interface {
	Save(ctx context.Context, list *account.StoredShoppingList) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*account.StoredShoppingList, error)
}

// PaymentService defines the contract with the payment provider.
// Only the operations the product needs are modeled: customer creation
// and payment-link creation for tier upgrades.
type PaymentService interface {
	CreateCustomer(ctx context.Context, name, email string) (customerID string, err error)
	CreatePaymentLink(ctx context.Context, targetTier string) (url string, err error)
}
