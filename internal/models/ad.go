package models

import "time"

// Ad categories. Fixed set, validated on create/update and on list filters.
const (
	CategoryElectronics = "electronics"
	CategoryClothing    = "clothing"
	CategoryBooks       = "books"
	CategoryHome        = "home"
	CategoryOther       = "other"
)

// Ad conditions.
const (
	ConditionNew    = "new"
	ConditionUsed   = "used"
	ConditionBroken = "broken"
)

// Categories lists every valid ad category.
var Categories = []string{CategoryElectronics, CategoryClothing, CategoryBooks, CategoryHome, CategoryOther}

// Conditions lists every valid ad condition.
var Conditions = []string{ConditionNew, ConditionUsed, ConditionBroken}

// IsValidCategory reports whether s is one of the fixed ad categories.
func IsValidCategory(s string) bool {
	for _, c := range Categories {
		if s == c {
			return true
		}
	}
	return false
}

// IsValidCondition reports whether s is one of the fixed ad conditions.
func IsValidCondition(s string) bool {
	for _, c := range Conditions {
		if s == c {
			return true
		}
	}
	return false
}

// Ad represents a listed item available for exchange. The owner is set at
// creation time and never changes afterwards.
type Ad struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"-" gorm:"index;not null"`
	User        User      `json:"user" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    *string   `json:"image_url"`
	Category    string    `json:"category" gorm:"size:50;index;not null"`
	Condition   string    `json:"condition" gorm:"size:50;index;not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAdRequest defines the request body for creating an ad
type CreateAdRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Category    string  `json:"category" validate:"required,oneof=electronics clothing books home other"`
	Condition   string  `json:"condition" validate:"required,oneof=new used broken"`
}

// UpdateAdRequest defines the request body for updating an ad. Nil fields
// are left untouched, so the same struct serves PUT and PATCH.
type UpdateAdRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Category    *string `json:"category" validate:"omitempty,oneof=electronics clothing books home other"`
	Condition   *string `json:"condition" validate:"omitempty,oneof=new used broken"`
}
