package stripe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platemuse/v1/internal/infrastructure/config"
	"github.com/platemuse/v1/pkg/errors"
)

func testConfig() config.StripeConfig {
	return config.StripeConfig{
		SecretKey:        "sk_test_123",
		BasicPriceID:     "price_basic",
		PremiumPriceID:   "price_premium",
		AnnualPriceID:    "price_annual",
		CheckoutRedirect: "https://app.platemuse.com",
	}
}

func TestPriceForMapsTiers(t *testing.T) {
	svc := &Service{cfg: testConfig(), logger: zap.NewNop()}

	tests := []struct {
		tier  string
		price string
	}{
		{"basic", "price_basic"},
		{"premium", "price_premium"},
		{"premiumPlus", "price_annual"},
	}

	for _, tc := range tests {
		price, err := svc.priceFor(tc.tier)
		require.NoError(t, err, tc.tier)
		assert.Equal(t, tc.price, price)
	}
}

func TestPriceForRejectsFreeTier(t *testing.T) {
	svc := &Service{cfg: testConfig(), logger: zap.NewNop()}

	_, err := svc.priceFor("free")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	// unknown tiers parse down to free and are rejected the same way
	_, err = svc.priceFor("platinum")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestPriceForMissingPriceIsConfigurationError(t *testing.T) {
	cfg := testConfig()
	cfg.PremiumPriceID = ""
	svc := &Service{cfg: cfg, logger: zap.NewNop()}

	_, err := svc.priceFor("premium")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConfigurationError))
}

func TestCreateCustomerMissingKey(t *testing.T) {
	svc := &Service{cfg: config.StripeConfig{}, logger: zap.NewNop()}

	_, err := svc.CreateCustomer(context.Background(), "Test", "test@example.com")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConfigurationError))
}

func TestCreatePaymentLinkMissingKey(t *testing.T) {
	svc := &Service{cfg: config.StripeConfig{}, logger: zap.NewNop()}

	_, err := svc.CreatePaymentLink(context.Background(), "premium")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeConfigurationError))
}
