// Package stripe provides the Stripe-backed payment service
package stripe

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"go.uber.org/zap"

	"github.com/platemuse/v1/internal/domain/tier"
	"github.com/platemuse/v1/internal/infrastructure/config"
	"github.com/platemuse/v1/internal/ports/outbound"
	"github.com/platemuse/v1/pkg/errors"
)

// Service implements the payment service interface using Stripe Checkout
type Service struct {
	cfg    config.StripeConfig
	logger *zap.Logger
}

// NewService creates a Stripe payment service and wires the API key
func NewService(cfg config.StripeConfig, logger *zap.Logger) outbound.PaymentService {
	stripe.Key = cfg.SecretKey
	return &Service{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateCustomer creates a Stripe customer for a new account
func (s *Service) CreateCustomer(ctx context.Context, name, email string) (string, error) {
	if s.cfg.SecretKey == "" {
		return "", errors.NewConfigurationError("stripe secret key is not set")
	}

	params := &stripe.CustomerParams{
		Name:  stripe.String(name),
		Email: stripe.String(email),
	}
	params.Context = ctx

	cust, err := customer.New(params)
	if err != nil {
		s.logger.Error("stripe customer creation failed", zap.String("email", email), zap.Error(err))
		return "", errors.NewPaymentError("create customer", err)
	}

	return cust.ID, nil
}

// CreatePaymentLink starts a Checkout Session for the target tier's
// subscription and returns its hosted URL
func (s *Service) CreatePaymentLink(ctx context.Context, targetTier string) (string, error) {
	if s.cfg.SecretKey == "" {
		return "", errors.NewConfigurationError("stripe secret key is not set")
	}

	priceID, err := s.priceFor(targetTier)
	if err != nil {
		return "", err
	}

	redirect := strings.TrimRight(s.cfg.CheckoutRedirect, "/")
	if redirect == "" {
		return "", errors.NewConfigurationError("stripe checkout redirect URL is not set")
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(redirect + "/billing/success"),
		CancelURL:  stripe.String(redirect + "/billing/cancel"),
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		s.logger.Error("stripe checkout session failed", zap.String("tier", targetTier), zap.Error(err))
		return "", errors.NewPaymentError("create checkout session", err)
	}

	return sess.URL, nil
}

// priceFor maps a target tier to its configured Stripe price
func (s *Service) priceFor(targetTier string) (string, error) {
	var priceID string
	switch tier.Parse(targetTier) {
	case tier.Basic:
		priceID = s.cfg.BasicPriceID
	case tier.Premium:
		priceID = s.cfg.PremiumPriceID
	case tier.PremiumPlus:
		priceID = s.cfg.AnnualPriceID
	default:
		return "", errors.NewBadRequestError("cannot create a payment link for the free tier")
	}

	if priceID == "" {
		return "", errors.NewConfigurationError("no Stripe price configured for tier " + targetTier)
	}
	return priceID, nil
}
