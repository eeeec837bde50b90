// Package seed fills the database with sample ads for development
// environments.
package seed

import (
	"errors"
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/hamidullaorifov/EffectiveMobileTask/internal/models"
)

func strptr(s string) *string { return &s }

var sampleAds = []models.Ad{
	{
		Title:       "iPhone 13 Pro - 128GB",
		Description: "Like new iPhone 13 Pro with original box and accessories. Battery health 98%.",
		ImageURL:    strptr("https://example.com/iphone13.jpg"),
		Category:    models.CategoryElectronics,
		Condition:   models.ConditionNew,
		CreatedAt:   time.Now().Add(-48 * time.Hour),
	},
	{
		Title:       "Samsung Galaxy S21 Ultra",
		Description: "Excellent condition, no scratches. Comes with case and screen protector.",
		ImageURL:    strptr("https://example.com/s21ultra.jpg"),
		Category:    models.CategoryElectronics,
		Condition:   models.ConditionUsed,
		CreatedAt:   time.Now().Add(-5 * 24 * time.Hour),
	},
	{
		Title:       "Nike Air Jordan 1 Retro",
		Description: "Size 10.5, worn twice. Original box included.",
		ImageURL:    strptr("https://example.com/jordans.jpg"),
		Category:    models.CategoryClothing,
		Condition:   models.ConditionUsed,
		CreatedAt:   time.Now().Add(-24 * time.Hour),
	},
	{
		Title:       "Harry Potter Book Set",
		Description: "Complete 7-book collection in great condition. No markings inside.",
		ImageURL:    strptr("https://example.com/harrypotter.jpg"),
		Category:    models.CategoryBooks,
		Condition:   models.ConditionUsed,
		CreatedAt:   time.Now().Add(-3 * time.Hour),
	},
	{
		Title:       "Instant Pot Duo 7-in-1",
		Description: "Brand new in box. Never opened.",
		ImageURL:    strptr("https://example.com/instantpot.jpg"),
		Category:    models.CategoryHome,
		Condition:   models.ConditionNew,
		CreatedAt:   time.Now().Add(-7 * 24 * time.Hour),
	},
	{
		Title:       "Vintage Leather Jacket",
		Description: "Genuine leather, size M. Some wear but still stylish.",
		ImageURL:    strptr("https://example.com/jacket.jpg"),
		Category:    models.CategoryClothing,
		Condition:   models.ConditionBroken,
		CreatedAt:   time.Now().Add(-10 * 24 * time.Hour),
	},
	{
		Title:       "Bose QuietComfort 35 II",
		Description: "Wireless headphones with excellent noise cancellation. Includes carrying case.",
		ImageURL:    strptr("https://example.com/bose.jpg"),
		Category:    models.CategoryElectronics,
		Condition:   models.ConditionUsed,
		CreatedAt:   time.Now().Add(-12 * time.Hour),
	},
	{
		Title:       "IKEA KALLAX Shelf Unit",
		Description: "White 4x2 cube organizer. Some scratches but fully functional.",
		ImageURL:    strptr("https://example.com/kallax.jpg"),
		Category:    models.CategoryHome,
		Condition:   models.ConditionUsed,
		CreatedAt:   time.Now().Add(-3 * 24 * time.Hour),
	},
	{
		Title:       "Nintendo Switch OLED",
		Description: "Complete set with dock, 2 joycons, and Mario Kart game.",
		ImageURL:    strptr("https://example.com/switch.jpg"),
		Category:    models.CategoryElectronics,
		Condition:   models.ConditionNew,
		CreatedAt:   time.Now().Add(-time.Hour),
	},
	{
		Title:       "Designer Sunglasses",
		Description: "Ray-Ban Wayfarer, authentic. Minor scratch on left lens.",
		ImageURL:    strptr("https://example.com/rayban.jpg"),
		Category:    models.CategoryOther,
		Condition:   models.ConditionBroken,
		CreatedAt:   time.Now().Add(-15 * 24 * time.Hour),
	},
}

// GenerateAds creates the sample ads, assigning each to a random existing
// user. Fails when no users exist yet.
func GenerateAds(db *gorm.DB) error {
	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return err
	}
	if len(users) == 0 {
		return errors.New("no users to own the generated ads; sign up first")
	}

	for _, sample := range sampleAds {
		ad := sample
		ad.UserID = users[rand.Intn(len(users))].ID
		if err := db.Create(&ad).Error; err != nil {
			return err
		}
	}
	return nil
}
