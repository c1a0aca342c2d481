package gorm

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platemuse/v1/internal/domain/account"
	"github.com/platemuse/v1/internal/ports/outbound"
	"github.com/platemuse/v1/pkg/errors"
)

// FamilyProfileRepository implements family profile persistence using GORM
type FamilyProfileRepository struct {
	db *gorm.DB
}

// NewFamilyProfileRepository creates a new family profile repository
func NewFamilyProfileRepository(db *gorm.DB) outbound.FamilyProfileRepository {
	return &FamilyProfileRepository{db: db}
}

// Upsert creates or replaces a family profile
func (r *FamilyProfileRepository) Upsert(ctx context.Context, profile *account.FamilyProfile) error {
	model, err := FamilyProfileToModel(profile)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return errors.NewDatabaseError("upsert family profile", result.Error)
	}

	profile.ID = model.ID
	return nil
}

// Delete removes a family profile by ID
func (r *FamilyProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&FamilyProfileModel{}, "id = ?", id)
	if result.Error != nil {
		return errors.NewDatabaseError("delete family profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("Family profile")
	}
	return nil
}

// FindByUserID returns all family profiles for a user
func (r *FamilyProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*account.FamilyProfile, error) {
	var models []FamilyProfileModel

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, errors.NewDatabaseError("list family profiles", result.Error)
	}

	profiles := make([]*account.FamilyProfile, 0, len(models))
	for i := range models {
		p, err := ModelToFamilyProfile(&models[i])
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// MealHistoryRepository implements meal history persistence using GORM
type MealHistoryRepository struct {
	db *gorm.DB
}

// NewMealHistoryRepository creates a new meal history repository
func NewMealHistoryRepository(db *gorm.DB) outbound.MealHistoryRepository {
	return &MealHistoryRepository{db: db}
}

// Record stores a meal history entry
func (r *MealHistoryRepository) Record(ctx context.Context, entry *account.MealHistoryEntry) error {
	model, err := MealHistoryToModel(entry)
	if err != nil {
		return err
	}
	if model.LastUsed.IsZero() {
		model.LastUsed = time.Now()
	}
	if model.UseCount == 0 {
		model.UseCount = 1
	}

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return errors.NewDatabaseError("record meal history", result.Error)
	}

	entry.ID = model.ID
	return nil
}

// Delete removes a history entry by ID
func (r *MealHistoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&MealHistoryModel{}, "id = ?", id)
	if result.Error != nil {
		return errors.NewDatabaseError("delete meal history", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("Meal history entry")
	}
	return nil
}

// FindByUserID returns a user's history entries, most recently used first
func (r *MealHistoryRepository) FindByUserID(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*account.MealHistoryEntry, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_used DESC")
	if !since.IsZero() {
		query = query.Where("last_used >= ?", since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []MealHistoryModel
	if result := query.Find(&models); result.Error != nil {
		return nil, errors.NewDatabaseError("list meal history", result.Error)
	}

	entries := make([]*account.MealHistoryEntry, 0, len(models))
	for i := range models {
		e, err := ModelToMealHistory(&models[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// TouchUse bumps the use counter and last-used timestamp of an entry
func (r *MealHistoryRepository) TouchUse(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&MealHistoryModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"use_count": gorm.Expr("use_count + 1"),
			"last_used": time.Now(),
		})

	if result.Error != nil {
		return errors.NewDatabaseError("touch meal history", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("Meal history entry")
	}
	return nil
}

// MealPlanRepository implements stored meal plan persistence using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) outbound.MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// Save stores a plan. A plan saved as active deactivates the user's
// previous active plan in the same transaction.
func (r *MealPlanRepository) Save(ctx context.Context, plan *account.StoredMealPlan) error {
	model, err := MealPlanToModel(plan)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if model.Active {
			if err := tx.Model(&MealPlanModel{}).
				Where("user_id = ? AND active = ?", model.UserID, true).
				Update("active", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(model).Error
	})
	if err != nil {
		return errors.NewDatabaseError("save meal plan", err)
	}

	plan.ID = model.ID
	return nil
}

// Delete soft-deletes a stored plan by ID
func (r *MealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&MealPlanModel{}, "id = ?", id)
	if result.Error != nil {
		return errors.NewDatabaseError("delete meal plan", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("Meal plan")
	}
	return nil
}

// FindByID returns one stored plan
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.StoredMealPlan, error) {
	var model MealPlanModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Meal plan")
		}
		return nil, errors.NewDatabaseError("find meal plan", result.Error)
	}

	return ModelToMealPlan(&model)
}

// FindActiveByUserID returns the user's current active plan
func (r *MealPlanRepository) FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*account.StoredMealPlan, error) {
	var model MealPlanModel

	result := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").
		First(&model)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Active meal plan")
		}
		return nil, errors.NewDatabaseError("find active meal plan", result.Error)
	}

	return ModelToMealPlan(&model)
}

// FindByUserID returns a user's stored plans, newest first
func (r *MealPlanRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*account.StoredMealPlan, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []MealPlanModel
	if result := query.Find(&models); result.Error != nil {
		return nil, errors.NewDatabaseError("list meal plans", result.Error)
	}

	plans := make([]*account.StoredMealPlan, 0, len(models))
	for i := range models {
		p, err := ModelToMealPlan(&models[i])
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// ShoppingListRepository implements stored shopping list persistence using GORM
type ShoppingListRepository struct {
	db *gorm.DB
}

// NewShoppingListRepository creates a new shopping list repository
func NewShoppingListRepository(db *gorm.DB) outbound.ShoppingListRepository {
	return &ShoppingListRepository{db: db}
}

// Save stores a shopping list
func (r *ShoppingListRepository) Save(ctx context.Context, list *account.StoredShoppingList) error {
	model, err := ShoppingListToModel(list)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return errors.NewDatabaseError("save shopping list", result.Error)
	}

	list.ID = model.ID
	return nil
}

// Delete removes a stored shopping list by ID
func (r *ShoppingListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&ShoppingListModel{}, "id = ?", id)
	if result.Error != nil {
		return errors.NewDatabaseError("delete shopping list", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("Shopping list")
	}
	return nil
}

// FindByUserID returns a user's stored lists, newest first
func (r *ShoppingListRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*account.StoredShoppingList, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []ShoppingListModel
	if result := query.Find(&models); result.Error != nil {
		return nil, errors.NewDatabaseError("list shopping lists", result.Error)
	}

	lists := make([]*account.StoredShoppingList, 0, len(models))
	for i := range models {
		l, err := ModelToShoppingList(&models[i])
		if err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, nil
}
