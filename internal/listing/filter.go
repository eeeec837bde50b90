// Package listing defines the query filters and pagination rules
// shared by the API and the web UI. Filters compile to GORM scopes so the
// query building stays decoupled from any HTTP handler.
package listing

import (
	"gorm.io/gorm"

	"github.com/hamidullaorifov/EffectiveMobileTask/internal/models"
)

// PageSize is the fixed number of records per page for every listing.
const PageSize = 9

// DefaultOrder is the ordering applied to every listing.
const DefaultOrder = "created_at DESC"

// AdFilter is the set of optional, AND-combined ad filters. Search matches
// a case-insensitive substring of the title OR the description; the two
// are OR'd together before being AND'd with the rest.
type AdFilter struct {
	Category  string
	Condition string
	UserID    uint
	Search    string
}

// Validate rejects filter values outside the fixed enums.
func (f AdFilter) Validate() bool {
	if f.Category != "" && !models.IsValidCategory(f.Category) {
		return false
	}
	if f.Condition != "" && !models.IsValidCondition(f.Condition) {
		return false
	}
	return true
}

// Scope compiles the filter into a GORM scope.
func (f AdFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		if f.Condition != "" {
			db = db.Where("condition = ?", f.Condition)
		}
		if f.UserID != 0 {
			db = db.Where("user_id = ?", f.UserID)
		}
		if f.Search != "" {
			pattern := "%" + f.Search + "%"
			db = db.Where("LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
		}
		return db
	}
}

// ProposalFilter is the set of optional proposal filters. It is applied
// after the participant pre-scoping done by the repository.
type ProposalFilter struct {
	Status       string
	AdSenderID   uint
	AdReceiverID uint
}

// Validate rejects status values outside the fixed enum.
func (f ProposalFilter) Validate() bool {
	return f.Status == "" || models.IsValidStatus(f.Status)
}

// Scope compiles the filter into a GORM scope.
func (f ProposalFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != "" {
			db = db.Where("exchange_proposals.status = ?", f.Status)
		}
		if f.AdSenderID != 0 {
			db = db.Where("exchange_proposals.ad_sender_id = ?", f.AdSenderID)
		}
		if f.AdReceiverID != 0 {
			db = db.Where("exchange_proposals.ad_receiver_id = ?", f.AdReceiverID)
		}
		return db
	}
}

// Paginate compiles a 1-indexed page number into an offset/limit scope.
// Pages beyond the last one yield empty results, not an error.
func Paginate(page int) func(*gorm.DB) *gorm.DB {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * PageSize
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(PageSize)
	}
}
