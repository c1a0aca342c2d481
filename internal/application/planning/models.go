package planning

import "github.com/platemuse/v1/internal/domain/tier"

// ModelCatalog maps subscription tiers and capabilities to the external
// model that serves them. Selection is pure and deterministic; downstream
// cost and latency depend entirely on this mapping.
type ModelCatalog struct {
	Flash string
	Pro   string
}

// DefaultModels returns the catalog matching the production deployment
func DefaultModels() ModelCatalog {
	return ModelCatalog{
		Flash: "gemini-2.0-flash-exp",
		Pro:   "gemini-1.5-pro",
	}
}

// Select returns the model id for a tier/capability pair. Unknown
// combinations resolve to the cheapest model, never the most expensive.
func (m ModelCatalog) Select(t tier.Tier, c tier.Capability) string {
	switch c {
	case tier.CapabilityNutrition:
		// Detailed nutrition analysis always runs on the accurate model.
		return m.Pro
	case tier.CapabilityMealSwap:
		// Swaps are latency-sensitive and always use the fast model.
		return m.Flash
	case tier.CapabilityShoppingList:
		if t == tier.Free {
			return m.Flash
		}
		return m.Pro
	case tier.CapabilityMealPlan:
		if t == tier.Free || t == tier.Basic {
			return m.Flash
		}
		return m.Pro
	default:
		return m.Flash
	}
}
