// Package handlers provides HTTP handlers for account API endpoints
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/platemuse/v1/internal/domain/account"
	"github.com/platemuse/v1/internal/domain/planning"
	"github.com/platemuse/v1/internal/infrastructure/http/middleware"
	"github.com/platemuse/v1/internal/ports/inbound"
	"github.com/platemuse/v1/pkg/errors"
)

// AccountAPIHandlers handles account API requests
type AccountAPIHandlers struct {
	accounts inbound.AccountService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAccountAPIHandlers creates a new account API handlers instance
func NewAccountAPIHandlers(
	accountService inbound.AccountService,
	logger *zap.Logger,
) *AccountAPIHandlers {
	return &AccountAPIHandlers{
		accounts: accountService,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
}

// UpdatePantryRequest represents a pantry replacement request
type UpdatePantryRequest struct {
	Items []string `json:"items" validate:"max=200,dive,min=1,max=100"`
}

// RecordMealRequest represents a meal history entry
type RecordMealRequest struct {
	Meal   planning.Meal `json:"meal"`
	Rating int           `json:"rating" validate:"min=0,max=5"`
}

// SaveMealPlanRequest represents a meal plan save request
type SaveMealPlanRequest struct {
	Plan   planning.MealPlan `json:"plan"`
	Model  string            `json:"model,omitempty"`
	Active bool              `json:"active"`
}

// SaveShoppingListRequest represents a shopping list save request
type SaveShoppingListRequest struct {
	List       planning.ShoppingList `json:"list"`
	MealPlanID *uuid.UUID            `json:"mealPlanId,omitempty"`
}

// UpgradeRequest represents a subscription upgrade request
type UpgradeRequest struct {
	TargetTier string `json:"targetTier" validate:"required"`
}

// Register handles POST /api/v1/auth/register
func (h *AccountAPIHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(h.logger, w, errors.NewValidationError(err.Error()))
		return
	}

	h.logger.Info("Account registration attempt", zap.String("email", req.Email))

	result, err := h.accounts.Register(r.Context(), req.Name, req.Email)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusCreated, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"user":         result.User,
			"access_token": result.Token,
		},
		Message: "Account registered successfully",
	})
}

// GetProfile handles GET /api/v1/me
func (h *AccountAPIHandlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	u, err := h.accounts.GetUser(r.Context(), userID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{Success: true, Data: u})
}

// UpdatePreferences handles PUT /api/v1/me/preferences
func (h *AccountAPIHandlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var prefs planning.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	if err := h.accounts.UpdatePreferences(r.Context(), userID, prefs); err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Preferences updated successfully",
	})
}

// UpdatePantry handles PUT /api/v1/me/pantry
func (h *AccountAPIHandlers) UpdatePantry(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req UpdatePantryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(h.logger, w, errors.NewValidationError(err.Error()))
		return
	}

	if err := h.accounts.UpdatePantry(r.Context(), userID, req.Items); err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Pantry updated successfully",
	})
}

// UpsertFamilyProfile handles PUT /api/v1/me/family-profiles
func (h *AccountAPIHandlers) UpsertFamilyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var profile planning.FamilyProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if profile.Name == "" {
		writeError(h.logger, w, errors.NewBadRequestError("Profile name is required"))
		return
	}

	record := &account.FamilyProfile{UserID: userID, Profile: profile}
	if err := h.accounts.UpsertFamilyProfile(r.Context(), record); err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Data:    record,
		Message: "Family profile saved successfully",
	})
}

// DeleteFamilyProfile handles DELETE /api/v1/me/family-profiles/{id}
func (h *AccountAPIHandlers) DeleteFamilyProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid profile ID"))
		return
	}

	if err := h.accounts.DeleteFamilyProfile(r.Context(), id); err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Family profile deleted successfully",
	})
}

// ListFamilyProfiles handles GET /api/v1/me/family-profiles
func (h *AccountAPIHandlers) ListFamilyProfiles(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	profiles, err := h.accounts.ListFamilyProfiles(r.Context(), userID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"profiles": profiles},
	})
}

// RecordMeal handles POST /api/v1/me/meals
func (h *AccountAPIHandlers) RecordMeal(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req RecordMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if req.Meal.Name == "" {
		writeError(h.logger, w, errors.NewBadRequestError("A meal with a name is required"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(h.logger, w, errors.NewValidationError(err.Error()))
		return
	}

	entry := &account.MealHistoryEntry{
		UserID: userID,
		Meal:   req.Meal,
		Rating: req.Rating,
	}
	if err := h.accounts.RecordMeal(r.Context(), entry); err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    entry,
		Message: "Meal recorded successfully",
	})
}

// ListMealHistory handles GET /api/v1/me/meals
func (h *AccountAPIHandlers) ListMealHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	days := queryInt(r, "days", 90)
	limit := queryInt(r, "limit", 50)
	since := time.Now().AddDate(0, 0, -days)

	entries, err := h.accounts.ListMealHistory(r.Context(), userID, since, limit)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"meals": entries},
	})
}

// ReuseMeal handles POST /api/v1/me/meals/{id}/reuse
func (h *AccountAPIHandlers) ReuseMeal(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid meal ID"))
		return
	}

	if err := h.accounts.ReuseMeal(r.Context(), id); err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Meal use recorded successfully",
	})
}

// SaveMealPlan handles POST /api/v1/me/meal-plans
func (h *AccountAPIHandlers) SaveMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req SaveMealPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if len(req.Plan.Days) == 0 {
		writeError(h.logger, w, errors.NewBadRequestError("A meal plan with at least one day is required"))
		return
	}

	stored := &account.StoredMealPlan{
		UserID: userID,
		Plan:   req.Plan,
		Model:  req.Model,
		Active: req.Active,
	}
	if err := h.accounts.SaveMealPlan(r.Context(), stored); err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    stored,
		Message: "Meal plan saved successfully",
	})
}

// GetActiveMealPlan handles GET /api/v1/me/meal-plans/active
func (h *AccountAPIHandlers) GetActiveMealPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	plan, err := h.accounts.GetActiveMealPlan(r.Context(), userID)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{Success: true, Data: plan})
}

// ListMealPlans handles GET /api/v1/me/meal-plans
func (h *AccountAPIHandlers) ListMealPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 20)
	plans, err := h.accounts.ListMealPlans(r.Context(), userID, limit)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"plans": plans},
	})
}

// SaveShoppingList handles POST /api/v1/me/shopping-lists
func (h *AccountAPIHandlers) SaveShoppingList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req SaveShoppingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if len(req.List.Categories) == 0 {
		writeError(h.logger, w, errors.NewBadRequestError("A shopping list with at least one category is required"))
		return
	}

	stored := &account.StoredShoppingList{
		UserID:     userID,
		MealPlanID: req.MealPlanID,
		List:       req.List,
	}
	if err := h.accounts.SaveShoppingList(r.Context(), stored); err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    stored,
		Message: "Shopping list saved successfully",
	})
}

// ListShoppingLists handles GET /api/v1/me/shopping-lists
func (h *AccountAPIHandlers) ListShoppingLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", 20)
	lists, err := h.accounts.ListShoppingLists(r.Context(), userID, limit)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"lists": lists},
	})
}

// UpgradeLink handles POST /api/v1/billing/upgrade-link
func (h *AccountAPIHandlers) UpgradeLink(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req UpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(h.logger, w, errors.NewValidationError(err.Error()))
		return
	}

	url, err := h.accounts.UpgradeLink(r.Context(), userID, req.TargetTier)
	if err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"url": url},
	})
}

// ApplyTier handles POST /api/v1/billing/tier. Called once checkout
// completes; unknown tier values fall back to free.
func (h *AccountAPIHandlers) ApplyTier(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req UpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, errors.NewBadRequestError("Invalid JSON payload"))
		return
	}

	if err := h.accounts.ApplyTier(r.Context(), userID, req.TargetTier); err != nil {
		writeError(h.logger, w, err)
		return
	}

	writeJSON(h.logger, w, http.StatusOK, APIResponse{
		Success: true,
		Message: "Subscription tier updated successfully",
	})
}

// currentUser resolves the authenticated user from the request context.
// Writes the 401 envelope itself when the request carries no identity.
func (h *AccountAPIHandlers) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw, exists := middleware.GetUserIDFromContext(r.Context())
	if !exists {
		writeError(h.logger, w, errors.NewUnauthorizedError("User not authenticated"))
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(h.logger, w, errors.NewUnauthorizedError("Invalid user identity"))
		return uuid.Nil, false
	}

	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
