// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	gormModels "github.com/platemuse/v1/internal/infrastructure/persistence/gorm"
)

// SetupDatabase creates and configures the SQLite database
func SetupDatabase(dbPath string, logLevel logger.LogLevel) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = ":memory:"
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Run auto-migration
	err = db.AutoMigrate(
		&gormModels.UserModel{},
		&gormModels.FamilyProfileModel{},
		&gormModels.MealHistoryModel{},
		&gormModels.MealPlanModel{},
		&gormModels.ShoppingListModel{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// SeedDatabase populates the database with demo accounts, one per tier,
// plus some fake meal history for the paid accounts
func SeedDatabase(db *gorm.DB) error {
	// Check if data already exists
	var userCount int64
	db.Model(&gormModels.UserModel{}).Count(&userCount)
	if userCount > 0 {
		return nil // Already seeded
	}

	gofakeit.Seed(42)

	demoUsers := []gormModels.UserModel{
		{
			Email: "free@platemuse.com",
			Name:  "Free Demo",
			Tier:  "free",
			Preferences: mustDoc(map[string]interface{}{
				"cookingTimeLimit": 30,
				"familySize":       2,
			}),
			PantryItems: gormModels.StringSlice{"salt", "pepper", "olive oil"},
		},
		{
			Email: "basic@platemuse.com",
			Name:  "Basic Demo",
			Tier:  "basic",
			Preferences: mustDoc(map[string]interface{}{
				"dietaryRestrictions": []string{"vegetarian"},
				"cuisineTypes":        []string{"italian", "mexican"},
				"familySize":          3,
			}),
			PantryItems: gormModels.StringSlice{"rice", "pasta", "canned tomatoes"},
		},
		{
			Email: "premium@platemuse.com",
			Name:  "Premium Demo",
			Tier:  "premium",
			Preferences: mustDoc(map[string]interface{}{
				"dietaryRestrictions": []string{"gluten-free"},
				"kidFriendly":         true,
				"budget":              150,
				"calorieTarget":       2000,
				"familySize":          4,
			}),
		},
		{
			Email: "premiumplus@platemuse.com",
			Name:  "Premium Plus Demo",
			Tier:  "premiumPlus",
		},
	}

	for i := range demoUsers {
		if err := db.Create(&demoUsers[i]).Error; err != nil {
			return fmt.Errorf("failed to create demo user: %w", err)
		}
	}

	// Family profiles for the kid-friendly premium household
	profiles := []gormModels.FamilyProfileModel{
		{
			UserID: demoUsers[2].ID,
			Profile: mustDoc(map[string]interface{}{
				"name":     "Child 1",
				"ageGroup": "child",
				"goals":    []string{"balanced growth"},
			}),
		},
		{
			UserID: demoUsers[2].ID,
			Profile: mustDoc(map[string]interface{}{
				"name":         "Parent",
				"ageGroup":     "adult",
				"restrictions": []string{"gluten-free"},
				"goals":        []string{"weight maintenance"},
			}),
		},
	}

	for i := range profiles {
		if err := db.Create(&profiles[i]).Error; err != nil {
			return fmt.Errorf("failed to create family profile: %w", err)
		}
	}

	// Fake meal history for the paid accounts
	mealTypes := []string{"breakfast", "lunch", "dinner"}
	for _, user := range demoUsers[1:] {
		for i := 0; i < 5; i++ {
			entry := gormModels.MealHistoryModel{
				UserID: user.ID,
				Meal: mustDoc(map[string]interface{}{
					"type":        mealTypes[i%len(mealTypes)],
					"name":        gofakeit.Dinner(),
					"description": gofakeit.Sentence(8),
					"prepTime":    gofakeit.Number(5, 30),
					"cookTime":    gofakeit.Number(10, 45),
					"servings":    gofakeit.Number(2, 6),
				}),
				Rating:   gofakeit.Number(3, 5),
				UseCount: gofakeit.Number(1, 4),
				LastUsed: time.Now().AddDate(0, 0, -gofakeit.Number(0, 21)),
			}
			if err := db.Create(&entry).Error; err != nil {
				return fmt.Errorf("failed to create meal history: %w", err)
			}
		}
	}

	return nil
}

func mustDoc(v map[string]interface{}) gormModels.JSONDoc {
	doc, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return gormModels.JSONDoc(doc)
}
