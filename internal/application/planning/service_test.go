package planning

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platemuse/v1/internal/domain/planning"
	"github.com/platemuse/v1/internal/domain/tier"
	"github.com/platemuse/v1/internal/ports/inbound"
	"github.com/platemuse/v1/pkg/errors"
)

// stubGenerator returns a canned response and records what it was asked
type stubGenerator struct {
	response string
	err      error
	calls    int
	models   []string
	prompts  []string
}

func (g *stubGenerator) GenerateText(_ context.Context, model, prompt string) (string, error) {
	g.calls++
	g.models = append(g.models, model)
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

// mapCache is an in-memory CacheRepository for tests
type mapCache struct {
	mu    sync.Mutex
	store map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{store: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.store[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func (c *mapCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok, nil
}

const validPlanJSON = `{
  "days": [
    {"day": "Monday", "meals": [
      {"type": "breakfast", "name": "Oatmeal", "prepTime": 5, "ingredients": [{"name": "oats", "amount": "1 cup"}]},
      {"type": "lunch", "name": "Salad", "prepTime": 10, "ingredients": [{"name": "lettuce", "amount": "1 head"}]}
    ]},
    {"day": "Tuesday", "meals": [
      {"type": "dinner", "name": "Pasta", "prepTime": 15, "ingredients": [{"name": "pasta", "amount": "1 lb"}]}
    ]}
  ]
}`

func TestGenerateMealPlanHappyPath(t *testing.T) {
	gen := &stubGenerator{response: "Here is your plan:\n```json\n" + validPlanJSON + "\n```"}
	svc := NewService(gen, zap.NewNop())

	plan, err := svc.GenerateMealPlan(context.Background(), inbound.MealPlanCommand{
		Tier:        tier.Premium,
		Preferences: planning.Preferences{FamilySize: 4},
	})

	require.NoError(t, err)
	assert.Len(t, plan.Days, 2)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, "gemini-1.5-pro", gen.models[0])
}

func TestGenerateMealPlanFreeTruncatedToOneDay(t *testing.T) {
	gen := &stubGenerator{response: validPlanJSON}
	svc := NewService(gen, zap.NewNop())

	plan, err := svc.GenerateMealPlan(context.Background(), inbound.MealPlanCommand{Tier: tier.Free})

	require.NoError(t, err)
	assert.Len(t, plan.Days, 1)
	assert.Equal(t, "Monday", plan.Days[0].Day)
	assert.Equal(t, "gemini-2.0-flash-exp", gen.models[0])
}

func TestNutritionInsightsDeniedBelowPremium(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewService(gen, zap.NewNop())

	_, err := svc.NutritionInsights(context.Background(), inbound.NutritionCommand{Tier: tier.Basic})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeAccessDenied))
	assert.Contains(t, err.Error(), "Nutrition insights requires premium tier or higher")
	assert.Zero(t, gen.calls, "gate must run before any upstream call")
}

func TestSwapMealDeniedForFree(t *testing.T) {
	gen := &stubGenerator{}
	svc := NewService(gen, zap.NewNop())

	_, err := svc.SwapMeal(context.Background(), inbound.SwapCommand{
		Tier:        tier.Free,
		CurrentMeal: planning.Meal{Type: "dinner", Name: "Lasagna"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeAccessDenied))
	assert.Contains(t, err.Error(), "basic tier or higher")
	assert.Zero(t, gen.calls)
}

func TestSwapMealHappyPath(t *testing.T) {
	gen := &stubGenerator{response: `{"type": "dinner", "name": "Stuffed Peppers", "prepTime": 20, "ingredients": []}`}
	svc := NewService(gen, zap.NewNop())

	meal, err := svc.SwapMeal(context.Background(), inbound.SwapCommand{
		Tier:        tier.Basic,
		CurrentMeal: planning.Meal{Type: "dinner", Name: "Lasagna", PrepTime: 20},
	})

	require.NoError(t, err)
	assert.Equal(t, "Stuffed Peppers", meal.Name)
	assert.Equal(t, "gemini-2.0-flash-exp", gen.models[0])
}

func TestSwapMealTypeChangeIsSchemaViolation(t *testing.T) {
	gen := &stubGenerator{response: `{"type": "breakfast", "name": "Pancakes"}`}
	svc := NewService(gen, zap.NewNop())

	_, err := svc.SwapMeal(context.Background(), inbound.SwapCommand{
		Tier:        tier.Basic,
		CurrentMeal: planning.Meal{Type: "dinner", Name: "Lasagna"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeSchemaViolation))
}

func TestGenerateUpstreamErrorBecomesUpstreamFailure(t *testing.T) {
	gen := &stubGenerator{err: fmt.Errorf("connection refused")}
	svc := NewService(gen, zap.NewNop())

	_, err := svc.GenerateMealPlan(context.Background(), inbound.MealPlanCommand{Tier: tier.Free})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUpstreamFailure))
	assert.Contains(t, err.Error(), "No valid Meal plan generation generated")
}

func TestGenerateConfigurationErrorPassesThrough(t *testing.T) {
	gen := &stubGenerator{err: errors.NewConfigurationError("missing API key")}
	svc := NewService(gen, zap.NewNop())

	_, err := svc.GenerateMealPlan(context.Background(), inbound.MealPlanCommand{Tier: tier.Free})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConfigurationError))
}

func TestGenerateProseOnlyResponseIsUpstreamFailure(t *testing.T) {
	gen := &stubGenerator{response: "I cannot produce a meal plan right now."}
	svc := NewService(gen, zap.NewNop())

	_, err := svc.GenerateMealPlan(context.Background(), inbound.MealPlanCommand{Tier: tier.Free})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeUpstreamFailure))
}

func TestGenerateMalformedJSONIsExtractionFailure(t *testing.T) {
	gen := &stubGenerator{response: "```json\n{\"days\": [}\n```"}
	svc := NewService(gen, zap.NewNop())

	_, err := svc.GenerateMealPlan(context.Background(), inbound.MealPlanCommand{Tier: tier.Free})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeExtractionFailure))
	assert.Contains(t, err.Error(), "Failed to parse Meal plan generation")
}

func TestGenerateEmptyPlanIsSchemaViolation(t *testing.T) {
	gen := &stubGenerator{response: `{"days": []}`}
	svc := NewService(gen, zap.NewNop())

	_, err := svc.GenerateMealPlan(context.Background(), inbound.MealPlanCommand{Tier: tier.Free})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeSchemaViolation))
}

func TestGenerateShoppingListStripsCostsForFree(t *testing.T) {
	gen := &stubGenerator{response: `{
		"categories": [
			{"name": "Produce", "items": [{"name": "Tomatoes", "quantity": "2 lbs", "estimatedCost": 3.99}]}
		],
		"totalEstimatedCost": 75.5,
		"savingsTips": ["Buy in bulk"]
	}`}
	svc := NewService(gen, zap.NewNop())

	list, err := svc.GenerateShoppingList(context.Background(), inbound.ShoppingListCommand{Tier: tier.Free})

	require.NoError(t, err)
	assert.Nil(t, list.TotalEstimatedCost)
	assert.Nil(t, list.SavingsTips)
	assert.Nil(t, list.Categories[0].Items[0].EstimatedCost)
}

func TestGenerateShoppingListKeepsCostsForPremium(t *testing.T) {
	gen := &stubGenerator{response: `{
		"categories": [
			{"name": "Produce", "items": [{"name": "Tomatoes", "estimatedCost": 3.99}]}
		],
		"totalEstimatedCost": 75.5
	}`}
	svc := NewService(gen, zap.NewNop())

	list, err := svc.GenerateShoppingList(context.Background(), inbound.ShoppingListCommand{Tier: tier.Premium})

	require.NoError(t, err)
	require.NotNil(t, list.TotalEstimatedCost)
	assert.InDelta(t, 75.5, *list.TotalEstimatedCost, 0.001)
	require.NotNil(t, list.Categories[0].Items[0].EstimatedCost)
}

func TestGenerateShoppingListModelByTier(t *testing.T) {
	response := `{"categories": [{"name": "Produce", "items": [{"name": "Tomatoes"}]}]}`

	gen := &stubGenerator{response: response}
	svc := NewService(gen, zap.NewNop())

	_, err := svc.GenerateShoppingList(context.Background(), inbound.ShoppingListCommand{Tier: tier.Free})
	require.NoError(t, err)
	_, err = svc.GenerateShoppingList(context.Background(), inbound.ShoppingListCommand{Tier: tier.Basic})
	require.NoError(t, err)

	assert.Equal(t, []string{"gemini-2.0-flash-exp", "gemini-1.5-pro"}, gen.models)
}

func TestGenerateCachesResponses(t *testing.T) {
	gen := &stubGenerator{response: validPlanJSON}
	cache := newMapCache()
	svc := NewService(gen, zap.NewNop(), WithCache(cache, time.Hour))

	req := inbound.MealPlanCommand{Tier: tier.Basic, Preferences: planning.Preferences{FamilySize: 2}}

	_, err := svc.GenerateMealPlan(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.GenerateMealPlan(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, gen.calls, "second identical request should hit the cache")
}

func TestGenerateCacheKeyedByPrompt(t *testing.T) {
	gen := &stubGenerator{response: validPlanJSON}
	cache := newMapCache()
	svc := NewService(gen, zap.NewNop(), WithCache(cache, time.Hour))

	_, err := svc.GenerateMealPlan(context.Background(), inbound.MealPlanCommand{
		Tier: tier.Basic, Preferences: planning.Preferences{FamilySize: 2},
	})
	require.NoError(t, err)
	_, err = svc.GenerateMealPlan(context.Background(), inbound.MealPlanCommand{
		Tier: tier.Basic, Preferences: planning.Preferences{FamilySize: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, gen.calls, "different preferences must not share a cache entry")
}
