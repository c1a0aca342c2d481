// Package accounts provides the user-facing account operations: profile
// and preference management, family profiles, meal history, stored plans
// and lists, and subscription upgrades.
package accounts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platemuse/v1/internal/domain/account"
	"github.com/platemuse/v1/internal/domain/planning"
	"github.com/platemuse/v1/internal/domain/tier"
	"github.com/platemuse/v1/internal/infrastructure/security"
	"github.com/platemuse/v1/internal/ports/inbound"
	"github.com/platemuse/v1/internal/ports/outbound"
	"github.com/platemuse/v1/pkg/errors"
)

// Service orchestrates account operations across the repositories and the
// payment provider
type Service struct {
	users    outbound.UserRepository
	profiles outbound.FamilyProfileRepository
	history  outbound.MealHistoryRepository
	plans    outbound.MealPlanRepository
	lists    outbound.ShoppingListRepository
	payment  outbound.PaymentService
	auth     *security.AuthService
	logger   *zap.Logger
}

// NewService creates an accounts service
func NewService(
	users outbound.UserRepository,
	profiles outbound.FamilyProfileRepository,
	history outbound.MealHistoryRepository,
	plans outbound.MealPlanRepository,
	lists outbound.ShoppingListRepository,
	payment outbound.PaymentService,
	auth *security.AuthService,
	logger *zap.Logger,
) *Service {
	return &Service{
		users:    users,
		profiles: profiles,
		history:  history,
		plans:    plans,
		lists:    lists,
		payment:  payment,
		auth:     auth,
		logger:   logger,
	}
}

var _ inbound.AccountService = (*Service)(nil)

// Register creates a new free-tier account and issues an access token.
// Payment customer creation is best-effort; a billing outage must not
// block signup.
func (s *Service) Register(ctx context.Context, name, email string) (*inbound.RegisterResult, error) {
	u := &account.User{
		Name:  name,
		Email: email,
		Tier:  tier.Free,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if customerID, err := s.payment.CreateCustomer(ctx, name, email); err != nil {
		s.logger.Warn("payment customer creation failed, continuing without",
			zap.String("email", email), zap.Error(err))
	} else {
		u.StripeCustomerID = customerID
		if err := s.users.UpdateStripeCustomerID(ctx, u.ID, customerID); err != nil {
			s.logger.Warn("failed to store payment customer id", zap.Error(err))
		}
	}

	token, err := s.auth.GenerateToken(u.ID.String(), u.Email, string(u.Tier))
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	return &inbound.RegisterResult{User: u, Token: token}, nil
}

// GetUser returns one account by ID
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*account.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdatePreferences replaces the user's stored generation preferences
func (s *Service) UpdatePreferences(ctx context.Context, id uuid.UUID, prefs planning.Preferences) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.Preferences = &prefs
	return s.users.Update(ctx, u)
}

// UpdatePantry replaces the user's pantry item list
func (s *Service) UpdatePantry(ctx context.Context, id uuid.UUID, items []string) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	u.PantryItems = items
	return s.users.Update(ctx, u)
}

// UpsertFamilyProfile creates or updates a household member profile
func (s *Service) UpsertFamilyProfile(ctx context.Context, profile *account.FamilyProfile) error {
	if profile.Profile.Name == "" {
		return errors.NewValidationError("family profile name is required")
	}
	return s.profiles.Upsert(ctx, profile)
}

// DeleteFamilyProfile removes a household member profile
func (s *Service) DeleteFamilyProfile(ctx context.Context, id uuid.UUID) error {
	return s.profiles.Delete(ctx, id)
}

// ListFamilyProfiles returns the user's household profiles
func (s *Service) ListFamilyProfiles(ctx context.Context, userID uuid.UUID) ([]*account.FamilyProfile, error) {
	return s.profiles.FindByUserID(ctx, userID)
}

// RecordMeal stores a meal in the user's history
func (s *Service) RecordMeal(ctx context.Context, entry *account.MealHistoryEntry) error {
	if entry.Meal.Name == "" {
		return errors.NewValidationError("meal name is required")
	}
	return s.history.Record(ctx, entry)
}

// ListMealHistory returns recent history entries
func (s *Service) ListMealHistory(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*account.MealHistoryEntry, error) {
	return s.history.FindByUserID(ctx, userID, since, limit)
}

// ReuseMeal bumps a history entry's use counter
func (s *Service) ReuseMeal(ctx context.Context, id uuid.UUID) error {
	return s.history.TouchUse(ctx, id)
}

// SaveMealPlan persists a generated plan as the user's active plan
func (s *Service) SaveMealPlan(ctx context.Context, plan *account.StoredMealPlan) error {
	if len(plan.Plan.Days) == 0 {
		return errors.NewValidationError("meal plan has no days")
	}
	plan.Active = true
	return s.plans.Save(ctx, plan)
}

// GetActiveMealPlan returns the user's current plan
func (s *Service) GetActiveMealPlan(ctx context.Context, userID uuid.UUID) (*account.StoredMealPlan, error) {
	return s.plans.FindActiveByUserID(ctx, userID)
}

// ListMealPlans returns the user's stored plans, newest first
func (s *Service) ListMealPlans(ctx context.Context, userID uuid.UUID, limit int) ([]*account.StoredMealPlan, error) {
	return s.plans.FindByUserID(ctx, userID, limit)
}

// SaveShoppingList persists a generated shopping list
func (s *Service) SaveShoppingList(ctx context.Context, list *account.StoredShoppingList) error {
	if len(list.List.Categories) == 0 {
		return errors.NewValidationError("shopping list has no categories")
	}
	return s.lists.Save(ctx, list)
}

// ListShoppingLists returns the user's stored lists, newest first
func (s *Service) ListShoppingLists(ctx context.Context, userID uuid.UUID, limit int) ([]*account.StoredShoppingList, error) {
	return s.lists.FindByUserID(ctx, userID, limit)
}

// UpgradeLink returns a hosted checkout URL for moving the user to the
// target tier. Downgrades and no-op upgrades are rejected.
func (s *Service) UpgradeLink(ctx context.Context, userID uuid.UUID, targetTier string) (string, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}

	target := tier.Parse(targetTier)
	if target == tier.Free || u.Tier.Meets(target) {
		return "", errors.NewBadRequestError("target tier must be higher than the current tier")
	}

	return s.payment.CreatePaymentLink(ctx, string(target))
}

// ApplyTier sets the user's tier after a confirmed payment
func (s *Service) ApplyTier(ctx context.Context, userID uuid.UUID, newTier string) error {
	t := tier.Parse(newTier)
	return s.users.UpdateTier(ctx, userID, string(t))
}
