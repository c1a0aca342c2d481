// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID               uuid.UUID   `gorm:"type:char(36);primaryKey"`
	Email            string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name             string      `gorm:"type:varchar(255);not null"`
	Tier             string      `gorm:"type:varchar(20);default:'free';index"`
	StripeCustomerID string      `gorm:"type:varchar(255);index"`
	Preferences      JSONDoc     `gorm:"type:json"`
	PantryItems      StringSlice `gorm:"type:json"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Relationships
	FamilyProfiles []FamilyProfileModel `gorm:"foreignKey:UserID"`
	MealPlans      []MealPlanModel      `gorm:"foreignKey:UserID"`
}

// FamilyProfileModel represents the GORM model for household member profiles
type FamilyProfileModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Profile   JSONDoc   `gorm:"type:json"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
}

// MealHistoryModel represents the GORM model for meal history entries
type MealHistoryModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Meal      JSONDoc   `gorm:"type:json"`
	Rating    int       `gorm:"default:0;check:rating >= 0 AND rating <= 5"`
	UseCount  int       `gorm:"default:1"`
	LastUsed  time.Time `gorm:"index"`
	CreatedAt time.Time `gorm:"index"`

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
}

// MealPlanModel represents the GORM model for stored meal plans
type MealPlanModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;index"`
	Plan      JSONDoc   `gorm:"type:json"`
	Model     string    `gorm:"type:varchar(100)"`
	Active    bool      `gorm:"default:false;index"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
}

// ShoppingListModel represents the GORM model for stored shopping lists
type ShoppingListModel struct {
	ID         uuid.UUID  `gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID  `gorm:"type:char(36);not null;index"`
	MealPlanID *uuid.UUID `gorm:"type:char(36);index"`
	List       JSONDoc    `gorm:"type:json"`
	CreatedAt  time.Time  `gorm:"index"`
	UpdatedAt  time.Time

	// Relationships
	User     UserModel      `gorm:"foreignKey:UserID"`
	MealPlan *MealPlanModel `gorm:"foreignKey:MealPlanID"`
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// JSONDoc custom type for storing a typed document as a JSON column
type JSONDoc json.RawMessage

// Scan implements the sql.Scanner interface
func (j *JSONDoc) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[:0], v...)
		return nil
	case string:
		*j = JSONDoc(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into JSONDoc", value)
	}
}

// Value implements the driver.Valuer interface
func (j JSONDoc) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return []byte(j), nil
}

// BeforeCreate hook for UserModel
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for FamilyProfileModel
func (f *FamilyProfileModel) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealHistoryModel
func (m *MealHistoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for MealPlanModel
func (m *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for ShoppingListModel
func (s *ShoppingListModel) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (FamilyProfileModel) TableName() string {
	return "family_profiles"
}

func (MealHistoryModel) TableName() string {
	return "meal_history"
}

func (MealPlanModel) TableName() string {
	return "meal_plans"
}

func (ShoppingListModel) TableName() string {
	return "shopping_lists"
}
