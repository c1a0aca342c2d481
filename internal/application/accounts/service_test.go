package accounts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/platemuse/v1/internal/domain/account"
	"github.com/platemuse/v1/internal/domain/planning"
	"github.com/platemuse/v1/internal/domain/tier"
	"github.com/platemuse/v1/internal/infrastructure/config"
	"github.com/platemuse/v1/internal/infrastructure/security"
	"github.com/platemuse/v1/pkg/errors"
)

type fakeUserRepo struct {
	users       map[uuid.UUID]*account.User
	tierUpdates map[uuid.UUID]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:       make(map[uuid.UUID]*account.User),
		tierUpdates: make(map[uuid.UUID]string),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, u *account.User) error {
	u.ID = uuid.New()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *account.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return errors.NewNotFoundError("User")
	}
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*account.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, errors.NewNotFoundError("User")
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*account.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.NewNotFoundError("User")
}

func (r *fakeUserRepo) UpdateTier(_ context.Context, id uuid.UUID, t string) error {
	u, ok := r.users[id]
	if !ok {
		return errors.NewNotFoundError("User")
	}
	u.Tier = tier.Parse(t)
	r.tierUpdates[id] = t
	return nil
}

func (r *fakeUserRepo) UpdateStripeCustomerID(_ context.Context, id uuid.UUID, customerID string) error {
	u, ok := r.users[id]
	if !ok {
		return errors.NewNotFoundError("User")
	}
	u.StripeCustomerID = customerID
	return nil
}

type fakePayment struct {
	customerErr error
	linkCalls   []string
}

func (p *fakePayment) CreateCustomer(_ context.Context, name, email string) (string, error) {
	if p.customerErr != nil {
		return "", p.customerErr
	}
	return "cus_test_123", nil
}

func (p *fakePayment) CreatePaymentLink(_ context.Context, targetTier string) (string, error) {
	p.linkCalls = append(p.linkCalls, targetTier)
	return "https://checkout.stripe.com/pay/" + targetTier, nil
}

func newTestService(users *fakeUserRepo, payment *fakePayment) *Service {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.JWTExpiration = time.Hour
	auth := security.NewAuthService(cfg, zap.NewNop())
	return NewService(users, nil, nil, nil, nil, payment, auth, zap.NewNop())
}

func TestRegisterIssuesTokenAndCustomer(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users, &fakePayment{})

	result, err := svc.Register(context.Background(), "Home Cook", "cook@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, tier.Free, result.User.Tier)
	assert.Equal(t, "cus_test_123", result.User.StripeCustomerID)
}

func TestRegisterSurvivesPaymentOutage(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users, &fakePayment{customerErr: fmt.Errorf("stripe down")})

	result, err := svc.Register(context.Background(), "Home Cook", "cook@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Empty(t, result.User.StripeCustomerID)
}

func TestUpdatePreferences(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users, &fakePayment{})

	result, err := svc.Register(context.Background(), "Home Cook", "cook@example.com")
	require.NoError(t, err)

	prefs := planning.Preferences{DietaryRestrictions: []string{"vegan"}, FamilySize: 4}
	require.NoError(t, svc.UpdatePreferences(context.Background(), result.User.ID, prefs))

	u, err := svc.GetUser(context.Background(), result.User.ID)
	require.NoError(t, err)
	require.NotNil(t, u.Preferences)
	assert.Equal(t, []string{"vegan"}, u.Preferences.DietaryRestrictions)
}

func TestUpgradeLink(t *testing.T) {
	users := newFakeUserRepo()
	payment := &fakePayment{}
	svc := newTestService(users, payment)

	result, err := svc.Register(context.Background(), "Home Cook", "cook@example.com")
	require.NoError(t, err)

	url, err := svc.UpgradeLink(context.Background(), result.User.ID, "premium")
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/pay/premium", url)
	assert.Equal(t, []string{"premium"}, payment.linkCalls)
}

func TestUpgradeLinkRejectsDowngrade(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users, &fakePayment{})

	result, err := svc.Register(context.Background(), "Home Cook", "cook@example.com")
	require.NoError(t, err)
	require.NoError(t, svc.ApplyTier(context.Background(), result.User.ID, "premium"))

	_, err = svc.UpgradeLink(context.Background(), result.User.ID, "basic")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))

	_, err = svc.UpgradeLink(context.Background(), result.User.ID, "free")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeBadRequest))
}

func TestApplyTierNormalizesUnknown(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestService(users, &fakePayment{})

	result, err := svc.Register(context.Background(), "Home Cook", "cook@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.ApplyTier(context.Background(), result.User.ID, "platinum"))
	assert.Equal(t, "free", users.tierUpdates[result.User.ID])
}
