package planning

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"github.com/platemuse/v1/internal/domain/planning"
	"github.com/platemuse/v1/internal/domain/tier"
	"github.com/platemuse/v1/internal/ports/inbound"
	"github.com/platemuse/v1/internal/ports/outbound"
	"github.com/platemuse/v1/pkg/errors"
)

// Service orchestrates one generation request end to end: tier gate,
// prompt construction, model selection, upstream call, extraction and
// shape validation. Every capability runs the same pipeline; only the
// prompt, model rule and decoder differ.
type Service struct {
	generator    outbound.TextGenerator
	cache        outbound.CacheRepository
	models       ModelCatalog
	extractor    *Extractor
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
}

var _ inbound.PlanningService = (*Service)(nil)

// ServiceOption configures optional service behavior
type ServiceOption func(*Service)

// WithCache enables response caching with the given repository and TTL
func WithCache(cache outbound.CacheRepository, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.cache = cache
		s.cacheEnabled = cache != nil && ttl > 0
		s.cacheTTL = ttl
	}
}

// WithModels overrides the default model catalog
func WithModels(models ModelCatalog) ServiceOption {
	return func(s *Service) {
		s.models = models
	}
}

// NewService creates a planning service
func NewService(generator outbound.TextGenerator, logger *zap.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		generator: generator,
		models:    DefaultModels(),
		extractor: NewExtractor(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateMealPlan generates a tier-shaped weekly (or single-day) meal plan
func (s *Service) GenerateMealPlan(ctx context.Context, req inbound.MealPlanCommand) (*planning.MealPlan, error) {
	const capability = tier.CapabilityMealPlan

	if err := s.gate(req.Tier, capability); err != nil {
		return nil, err
	}

	prompt := BuildMealPlanPrompt(req.Preferences, req.Tier)
	model := s.models.Select(req.Tier, capability)

	raw, err := s.generate(ctx, model, prompt, capability)
	if err != nil {
		return nil, err
	}

	plan, err := DecodeMealPlan(raw)
	if err != nil {
		s.logger.Warn("meal plan failed shape check", zap.Error(err))
		return nil, errors.NewSchemaViolationError(capability.DisplayName(), err.Error())
	}

	// the model occasionally returns a full week regardless of instructions
	plan.Truncate(req.Tier.PlanDays())

	return plan, nil
}

// GenerateShoppingList turns a plan's ingredients into an organized list
func (s *Service) GenerateShoppingList(ctx context.Context, req inbound.ShoppingListCommand) (*planning.ShoppingList, error) {
	const capability = tier.CapabilityShoppingList

	if err := s.gate(req.Tier, capability); err != nil {
		return nil, err
	}

	prompt := BuildShoppingListPrompt(req.Plan.AllIngredients(), req.PantryItems, req.Tier)
	model := s.models.Select(req.Tier, capability)

	raw, err := s.generate(ctx, model, prompt, capability)
	if err != nil {
		return nil, err
	}

	list, err := DecodeShoppingList(raw)
	if err != nil {
		s.logger.Warn("shopping list failed shape check", zap.Error(err))
		return nil, errors.NewSchemaViolationError(capability.DisplayName(), err.Error())
	}

	if !req.Tier.IncludesCosts() {
		stripCosts(list)
	}

	return list, nil
}

// NutritionInsights analyzes a weekly plan's nutritional content
func (s *Service) NutritionInsights(ctx context.Context, req inbound.NutritionCommand) (*planning.NutritionInsights, error) {
	const capability = tier.CapabilityNutrition

	if err := s.gate(req.Tier, capability); err != nil {
		return nil, err
	}

	prompt := BuildNutritionPrompt(req.Plan, req.FamilyProfiles)
	model := s.models.Select(req.Tier, capability)

	raw, err := s.generate(ctx, model, prompt, capability)
	if err != nil {
		return nil, err
	}

	insights, err := DecodeNutritionInsights(raw)
	if err != nil {
		s.logger.Warn("nutrition insights failed shape check", zap.Error(err))
		return nil, errors.NewSchemaViolationError(capability.DisplayName(), err.Error())
	}

	return insights, nil
}

// SwapMeal generates a replacement for one meal, keeping its type
func (s *Service) SwapMeal(ctx context.Context, req inbound.SwapCommand) (*planning.Meal, error) {
	const capability = tier.CapabilityMealSwap

	if err := s.gate(req.Tier, capability); err != nil {
		return nil, err
	}

	prompt := BuildMealSwapPrompt(req.CurrentMeal, req.Preferences)
	model := s.models.Select(req.Tier, capability)

	raw, err := s.generate(ctx, model, prompt, capability)
	if err != nil {
		return nil, err
	}

	meal, err := DecodeSwappedMeal(raw, req.CurrentMeal)
	if err != nil {
		s.logger.Warn("swapped meal failed shape check", zap.Error(err))
		return nil, errors.NewSchemaViolationError(capability.DisplayName(), err.Error())
	}

	return meal, nil
}

// gate converts a denied tier check into an access error
func (s *Service) gate(t tier.Tier, c tier.Capability) error {
	decision := tier.Gate(t, c)
	if decision.Allowed {
		return nil
	}
	s.logger.Info("capability denied by tier gate",
		zap.String("capability", string(c)),
		zap.String("tier", string(t)),
		zap.String("required_tier", string(decision.RequiredTier)),
	)
	return errors.NewAccessDeniedError(c.DisplayName(), string(decision.RequiredTier))
}

// generate runs the shared upstream-call-then-extract portion of the
// pipeline, consulting the cache when enabled
func (s *Service) generate(ctx context.Context, model, prompt string, c tier.Capability) (json.RawMessage, error) {
	key := cacheKey(model, prompt)

	if s.cacheEnabled {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
			s.logger.Debug("cache hit", zap.String("capability", string(c)))
			return json.RawMessage(cached), nil
		}
	}

	text, err := s.generator.GenerateText(ctx, model, prompt)
	if err != nil {
		// configuration problems are the operator's, not the upstream's
		if errors.Is(err, errors.CodeConfigurationError) {
			return nil, err
		}
		s.logger.Error("upstream generation failed",
			zap.String("capability", string(c)),
			zap.String("model", model),
			zap.Error(err),
		)
		return nil, errors.NewUpstreamFailureError(c.DisplayName(), err)
	}

	raw, strategy, err := s.extractor.Extract(text)
	if err != nil {
		var exErr *ExtractError
		if stderrors.As(err, &exErr) && exErr.Kind == ExtractNotFound {
			s.logger.Warn("no JSON in model response",
				zap.String("capability", string(c)),
				zap.String("model", model),
			)
			return nil, errors.NewUpstreamFailureError(c.DisplayName(), err)
		}
		s.logger.Warn("model response JSON is malformed",
			zap.String("capability", string(c)),
			zap.String("model", model),
			zap.Error(err),
		)
		return nil, errors.NewExtractionFailureError(c.DisplayName(), err)
	}

	s.logger.Debug("extracted model response",
		zap.String("capability", string(c)),
		zap.String("strategy", strategy),
		zap.Int("bytes", len(raw)),
	)

	if s.cacheEnabled {
		if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
			s.logger.Warn("cache write failed", zap.Error(err))
		}
	}

	return raw, nil
}

// stripCosts removes cost fields the tier has not paid for
func stripCosts(list *planning.ShoppingList) {
	list.TotalEstimatedCost = nil
	list.SavingsTips = nil
	for ci := range list.Categories {
		for ii := range list.Categories[ci].Items {
			list.Categories[ci].Items[ii].EstimatedCost = nil
		}
	}
}

func cacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return "ai:response:" + hex.EncodeToString(sum[:])
}
