// Package handlers provides HTTP handlers for the AI planning endpoints
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/platemuse/v1/internal/domain/planning"
	"github.com/platemuse/v1/internal/domain/tier"
	"github.com/platemuse/v1/internal/ports/inbound"
	"github.com/platemuse/v1/pkg/errors"
)

// PlanningAPIHandlers handles the AI generation requests
type PlanningAPIHandlers struct {
	planning inbound.PlanningService
	logger   *zap.Logger
}

// NewPlanningAPIHandlers creates a new planning API handlers instance
func NewPlanningAPIHandlers(
	planningService inbound.PlanningService,
	logger *zap.Logger,
) *PlanningAPIHandlers {
	return &PlanningAPIHandlers{
		planning: planningService,
		logger:   logger,
	}
}

// MealPlanRequest represents a meal plan generation request
type MealPlanRequest struct {
	Preferences planning.Preferences `json:"preferences"`
	UserTier    string               `json:"userTier"`
}

// ShoppingListRequest represents a shopping list generation request
type ShoppingListRequest struct {
	MealPlan    planning.MealPlan `json:"mealPlan"`
	PantryItems []string          `json:"pantryItems,omitempty"`
	UserTier    string            `json:"userTier"`
}

// NutritionRequest represents a nutrition analysis request
type NutritionRequest struct {
	MealPlan       planning.MealPlan        `json:"mealPlan"`
	FamilyProfiles []planning.FamilyProfile `json:"familyProfiles,omitempty"`
	UserTier       string                   `json:"userTier"`
}

// SwapRequest represents a single-meal replacement request
type SwapRequest struct {
	CurrentMeal planning.Meal         `json:"currentMeal"`
	Preferences *planning.Preferences `json:"preferences,omitempty"`
	UserTier    string                `json:"userTier"`
}

// GenerateMealPlan handles POST /api/v1/plans/generate
func (h *PlanningAPIHandlers) GenerateMealPlan(w http.ResponseWriter, r *http.Request) {
	var req MealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	plan, err := h.planning.GenerateMealPlan(r.Context(), inbound.MealPlanCommand{
		Tier:        tier.Parse(req.UserTier),
		Preferences: req.Preferences,
	})
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"mealPlan": plan,
	})
}

// GenerateShoppingList handles POST /api/v1/shopping-list
func (h *PlanningAPIHandlers) GenerateShoppingList(w http.ResponseWriter, r *http.Request) {
	var req ShoppingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	if len(req.MealPlan.Days) == 0 {
		writeError(h.logger, w, errors.NewBadRequestError("A meal plan with at least one day is required"))
		return
	}

	list, err := h.planning.GenerateShoppingList(r.Context(), inbound.ShoppingListCommand{
		Tier:        tier.Parse(req.UserTier),
		Plan:        req.MealPlan,
		PantryItems: req.PantryItems,
	})
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"shoppingList": list,
	})
}

// NutritionInsights handles POST /api/v1/nutrition/insights
func (h *PlanningAPIHandlers) NutritionInsights(w http.ResponseWriter, r *http.Request) {
	var req NutritionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	if len(req.MealPlan.Days) == 0 {
		writeError(h.logger, w, errors.NewBadRequestError("A meal plan with at least one day is required"))
		return
	}

	insights, err := h.planning.NutritionInsights(r.Context(), inbound.NutritionCommand{
		Tier:           tier.Parse(req.UserTier),
		Plan:           req.MealPlan,
		FamilyProfiles: req.FamilyProfiles,
	})
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"insights": insights,
	})
}

// SwapMeal handles POST /api/v1/meals/swap
func (h *PlanningAPIHandlers) SwapMeal(w http.ResponseWriter, r *http.Request) {
	var req SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	if req.CurrentMeal.Name == "" && req.CurrentMeal.Type == "" {
		writeError(h.logger, w, errors.NewBadRequestError("A current meal is required"))
		return
	}

	meal, err := h.planning.SwapMeal(r.Context(), inbound.SwapCommand{
		Tier:        tier.Parse(req.UserTier),
		CurrentMeal: req.CurrentMeal,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"success": true,
		"meal":    meal,
	})
}
