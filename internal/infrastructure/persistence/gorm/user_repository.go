// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platemuse/v1/internal/domain/account"
	"github.com/platemuse/v1/internal/ports/outbound"
	"github.com/platemuse/v1/pkg/errors"
)

// UserRepository implements the user repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) outbound.UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *account.User) error {
	model, err := UserToModel(u)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if strings.Contains(result.Error.Error(), "UNIQUE constraint failed") ||
			strings.Contains(result.Error.Error(), "duplicate key") {
			return errors.NewConflictError("user with this email already exists")
		}
		return errors.NewDatabaseError("create user", result.Error)
	}

	u.ID = model.ID
	return nil
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, u *account.User) error {
	model, err := UserToModel(u)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return errors.NewDatabaseError("update user", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("User")
	}

	return nil
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*account.User, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("User")
		}
		return nil, errors.NewDatabaseError("find user", result.Error)
	}

	return ModelToUser(&model)
}

// FindByEmail finds a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*account.User, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, "email = ?", strings.ToLower(email))
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("User")
		}
		return nil, errors.NewDatabaseError("find user", result.Error)
	}

	return ModelToUser(&model)
}

// UpdateTier updates only the subscription tier column
func (r *UserRepository) UpdateTier(ctx context.Context, id uuid.UUID, tier string) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", id).
		Update("tier", tier)

	if result.Error != nil {
		return errors.NewDatabaseError("update tier", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("User")
	}

	return nil
}

// UpdateStripeCustomerID stores the payment provider's customer reference
func (r *UserRepository) UpdateStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	result := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", id).
		Update("stripe_customer_id", customerID)

	if result.Error != nil {
		return errors.NewDatabaseError("update stripe customer", result.Error)
	}

	if result.RowsAffected == 0 {
		return errors.NewNotFoundError("User")
	}

	return nil
}
