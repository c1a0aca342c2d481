package gorm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/platemuse/v1/internal/domain/account"
	"github.com/platemuse/v1/internal/domain/planning"
	"github.com/platemuse/v1/internal/domain/tier"
	"github.com/platemuse/v1/pkg/errors"
)

func setupTestDB(t *testing.T) *gormlib.DB {
	t.Helper()

	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&UserModel{},
		&FamilyProfileModel{},
		&MealHistoryModel{},
		&MealPlanModel{},
		&ShoppingListModel{},
	))

	return db
}

func createTestUser(t *testing.T, db *gormlib.DB, email string) *account.User {
	t.Helper()

	repo := NewUserRepository(db)
	u := &account.User{
		Email: email,
		Name:  "Test User",
		Tier:  tier.Basic,
		Preferences: &planning.Preferences{
			DietaryRestrictions: []string{"vegetarian"},
			FamilySize:          3,
		},
		PantryItems: []string{"rice", "olive oil"},
	}
	require.NoError(t, repo.Create(context.Background(), u))
	require.NotEqual(t, uuid.Nil, u.ID)
	return u
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := createTestUser(t, db, "cook@example.com")

	found, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", found.Email)
	assert.Equal(t, tier.Basic, found.Tier)
	require.NotNil(t, found.Preferences)
	assert.Equal(t, []string{"vegetarian"}, found.Preferences.DietaryRestrictions)
	assert.Equal(t, []string{"rice", "olive oil"}, found.PantryItems)

	byEmail, err := repo.FindByEmail(ctx, "Cook@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	createTestUser(t, db, "dup@example.com")

	err := repo.Create(context.Background(), &account.User{Email: "dup@example.com", Name: "Other"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestUserRepositoryUpdateTier(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := createTestUser(t, db, "upgrade@example.com")

	require.NoError(t, repo.UpdateTier(ctx, u.ID, "premium"))

	found, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, tier.Premium, found.Tier)
}

func TestUserRepositoryUpdateTierMissingUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	err := repo.UpdateTier(context.Background(), uuid.New(), "premium")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestFamilyProfileRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFamilyProfileRepository(db)
	ctx := context.Background()

	u := createTestUser(t, db, "family@example.com")

	p := &account.FamilyProfile{
		UserID: u.ID,
		Profile: planning.FamilyProfile{
			Name:     "Child 1",
			AgeGroup: "child",
			Goals:    []string{"balanced growth"},
		},
	}
	require.NoError(t, repo.Upsert(ctx, p))

	profiles, err := repo.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Child 1", profiles[0].Profile.Name)

	require.NoError(t, repo.Delete(ctx, profiles[0].ID))

	profiles, err = repo.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestMealHistoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMealHistoryRepository(db)
	ctx := context.Background()

	u := createTestUser(t, db, "history@example.com")

	entry := &account.MealHistoryEntry{
		UserID: u.ID,
		Meal:   planning.Meal{Type: "dinner", Name: "Lentil Curry", PrepTime: 15},
		Rating: 4,
	}
	require.NoError(t, repo.Record(ctx, entry))

	entries, err := repo.FindByUserID(ctx, u.ID, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Lentil Curry", entries[0].Meal.Name)
	assert.Equal(t, 1, entries[0].UseCount)

	require.NoError(t, repo.TouchUse(ctx, entries[0].ID))

	entries, err = repo.FindByUserID(ctx, u.ID, time.Time{}, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, entries[0].UseCount)
}

func TestMealPlanRepositoryActiveSwitch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMealPlanRepository(db)
	ctx := context.Background()

	u := createTestUser(t, db, "plans@example.com")

	first := &account.StoredMealPlan{
		UserID: u.ID,
		Plan: planning.MealPlan{Days: []planning.Day{
			{Day: "Monday", Meals: []planning.Meal{{Type: "dinner", Name: "Pasta"}}},
		}},
		Model:  "gemini-2.0-flash-exp",
		Active: true,
	}
	require.NoError(t, repo.Save(ctx, first))

	second := &account.StoredMealPlan{
		UserID: u.ID,
		Plan: planning.MealPlan{Days: []planning.Day{
			{Day: "Monday", Meals: []planning.Meal{{Type: "dinner", Name: "Tacos"}}},
		}},
		Model:  "gemini-1.5-pro",
		Active: true,
	}
	require.NoError(t, repo.Save(ctx, second))

	active, err := repo.FindActiveByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)

	all, err := repo.FindByUserID(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestShoppingListRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewShoppingListRepository(db)
	ctx := context.Background()

	u := createTestUser(t, db, "lists@example.com")

	cost := 42.5
	list := &account.StoredShoppingList{
		UserID: u.ID,
		List: planning.ShoppingList{
			Categories: []planning.ShoppingCategory{
				{Name: "Produce", Items: []planning.ShoppingItem{{Name: "Tomatoes", Quantity: "2 lbs"}}},
			},
			TotalEstimatedCost: &cost,
		},
	}
	require.NoError(t, repo.Save(ctx, list))

	lists, err := repo.FindByUserID(ctx, u.ID, 5)
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, "Tomatoes", lists[0].List.Categories[0].Items[0].Name)
	require.NotNil(t, lists[0].List.TotalEstimatedCost)
	assert.InDelta(t, 42.5, *lists[0].List.TotalEstimatedCost, 0.001)
}
