// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"encoding/json"
	"fmt"

	"github.com/platemuse/v1/internal/domain/account"
	"github.com/platemuse/v1/internal/domain/planning"
	"github.com/platemuse/v1/internal/domain/tier"
)

func marshalDoc(v interface{}) (JSONDoc, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return JSONDoc(data), nil
}

func unmarshalDoc(doc JSONDoc, v interface{}) error {
	if len(doc) == 0 {
		return nil
	}
	if err := json.Unmarshal(doc, v); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return nil
}

// UserToModel converts a domain user to a GORM model
func UserToModel(u *account.User) (*UserModel, error) {
	var prefs JSONDoc
	if u.Preferences != nil {
		var err error
		prefs, err = marshalDoc(u.Preferences)
		if err != nil {
			return nil, err
		}
	}

	return &UserModel{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Tier:             string(u.Tier),
		StripeCustomerID: u.StripeCustomerID,
		Preferences:      prefs,
		PantryItems:      StringSlice(u.PantryItems),
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}, nil
}

// ModelToUser converts a GORM model to a domain user
func ModelToUser(model *UserModel) (*account.User, error) {
	u := &account.User{
		ID:               model.ID,
		Email:            model.Email,
		Name:             model.Name,
		Tier:             tier.Parse(model.Tier),
		StripeCustomerID: model.StripeCustomerID,
		PantryItems:      []string(model.PantryItems),
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}

	if len(model.Preferences) > 0 {
		var prefs planning.Preferences
		if err := unmarshalDoc(model.Preferences, &prefs); err != nil {
			return nil, err
		}
		u.Preferences = &prefs
	}

	return u, nil
}

// FamilyProfileToModel converts a domain family profile to a GORM model
func FamilyProfileToModel(p *account.FamilyProfile) (*FamilyProfileModel, error) {
	doc, err := marshalDoc(p.Profile)
	if err != nil {
		return nil, err
	}
	return &FamilyProfileModel{
		ID:        p.ID,
		UserID:    p.UserID,
		Profile:   doc,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

// ModelToFamilyProfile converts a GORM model to a domain family profile
func ModelToFamilyProfile(model *FamilyProfileModel) (*account.FamilyProfile, error) {
	p := &account.FamilyProfile{
		ID:        model.ID,
		UserID:    model.UserID,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if err := unmarshalDoc(model.Profile, &p.Profile); err != nil {
		return nil, err
	}
	return p, nil
}

// MealHistoryToModel converts a domain meal history entry to a GORM model
func MealHistoryToModel(e *account.MealHistoryEntry) (*MealHistoryModel, error) {
	doc, err := marshalDoc(e.Meal)
	if err != nil {
		return nil, err
	}
	return &MealHistoryModel{
		ID:        e.ID,
		UserID:    e.UserID,
		Meal:      doc,
		Rating:    e.Rating,
		UseCount:  e.UseCount,
		LastUsed:  e.LastUsed,
		CreatedAt: e.CreatedAt,
	}, nil
}

// ModelToMealHistory converts a GORM model to a domain meal history entry
func ModelToMealHistory(model *MealHistoryModel) (*account.MealHistoryEntry, error) {
	e := &account.MealHistoryEntry{
		ID:        model.ID,
		UserID:    model.UserID,
		Rating:    model.Rating,
		UseCount:  model.UseCount,
		LastUsed:  model.LastUsed,
		CreatedAt: model.CreatedAt,
	}
	if err := unmarshalDoc(model.Meal, &e.Meal); err != nil {
		return nil, err
	}
	return e, nil
}

// MealPlanToModel converts a domain stored meal plan to a GORM model
func MealPlanToModel(p *account.StoredMealPlan) (*MealPlanModel, error) {
	doc, err := marshalDoc(p.Plan)
	if err != nil {
		return nil, err
	}
	return &MealPlanModel{
		ID:        p.ID,
		UserID:    p.UserID,
		Plan:      doc,
		Model:     p.Model,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

// ModelToMealPlan converts a GORM model to a domain stored meal plan
func ModelToMealPlan(model *MealPlanModel) (*account.StoredMealPlan, error) {
	p := &account.StoredMealPlan{
		ID:        model.ID,
		UserID:    model.UserID,
		Model:     model.Model,
		Active:    model.Active,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if err := unmarshalDoc(model.Plan, &p.Plan); err != nil {
		return nil, err
	}
	return p, nil
}

// ShoppingListToModel converts a domain stored shopping list to a GORM model
func ShoppingListToModel(l *account.StoredShoppingList) (*ShoppingListModel, error) {
	doc, err := marshalDoc(l.List)
	if err != nil {
		return nil, err
	}
	return &ShoppingListModel{
		ID:         l.ID,
		UserID:     l.UserID,
		MealPlanID: l.MealPlanID,
		List:       doc,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}, nil
}

// ModelToShoppingList converts a GORM model to a domain stored shopping list
func ModelToShoppingList(model *ShoppingListModel) (*account.StoredShoppingList, error) {
	l := &account.StoredShoppingList{
		ID:         model.ID,
		UserID:     model.UserID,
		MealPlanID: model.MealPlanID,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
	if err := unmarshalDoc(model.List, &l.List); err != nil {
		return nil, err
	}
	return l, nil
}
