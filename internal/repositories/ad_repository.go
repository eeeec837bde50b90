package repositories

import (
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/listing"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/models"
	"gorm.io/gorm"
)

// AdRepository defines the interface for ad data operations
type AdRepository interface {
	CreateAd(ad *models.Ad) error
	GetAdByID(id uint) (*models.Ad, error)
	ListAds(filter listing.AdFilter, page int) ([]models.Ad, int64, error)
	GetAdsByUserID(userID uint) ([]models.Ad, error)
	UpdateAd(ad *models.Ad) error
	DeleteAd(id uint) error
	CountProposalsByOwner(ownerID uint) (sent int64, received int64, err error)
}

// PostgresAdRepository implements AdRepository for PostgreSQL
type PostgresAdRepository struct {
	db *gorm.DB
}

// NewPostgresAdRepository creates a new PostgresAdRepository
func NewPostgresAdRepository(db *gorm.DB) *PostgresAdRepository {
	return &PostgresAdRepository{db: db}
}

// CreateAd creates a new ad
func (r *PostgresAdRepository) CreateAd(ad *models.Ad) error {
	return r.db.Create(ad).Error
}

// GetAdByID retrieves an ad by ID with its owner preloaded
func (r *PostgresAdRepository) GetAdByID(id uint) (*models.Ad, error) {
	var ad models.Ad
	if err := r.db.Preload("User").First(&ad, id).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// ListAds returns one page of ads matching the filter, newest first,
// together with the filtered total.
func (r *PostgresAdRepository) ListAds(filter listing.AdFilter, page int) ([]models.Ad, int64, error) {
	var ads []models.Ad
	var total int64

	if err := r.db.Model(&models.Ad{}).Scopes(filter.Scope()).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Preload("User").
		Scopes(filter.Scope(), listing.Paginate(page)).
		Order(listing.DefaultOrder).
		Find(&ads).Error

	return ads, total, err
}

// GetAdsByUserID retrieves all ads owned by a user, newest first
func (r *PostgresAdRepository) GetAdsByUserID(userID uint) ([]models.Ad, error) {
	var ads []models.Ad
	if err := r.db.Where("user_id = ?", userID).Order(listing.DefaultOrder).Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

// UpdateAd persists changes to an existing ad
func (r *PostgresAdRepository) UpdateAd(ad *models.Ad) error {
	return r.db.Save(ad).Error
}

// DeleteAd deletes an ad and every proposal referencing it as sender or
// receiver, in one transaction.
func (r *PostgresAdRepository) DeleteAd(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ad_sender_id = ? OR ad_receiver_id = ?", id, id).
			Delete(&models.ExchangeProposal{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Ad{}, id).Error
	})
}

// CountProposalsByOwner counts proposals sent from and received by any ad
// owned by the given user.
func (r *PostgresAdRepository) CountProposalsByOwner(ownerID uint) (int64, int64, error) {
	var sent, received int64

	if err := r.db.Model(&models.ExchangeProposal{}).
		Joins("JOIN ads ON ads.id = exchange_proposals.ad_sender_id").
		Where("ads.user_id = ?", ownerID).
		Count(&sent).Error; err != nil {
		return 0, 0, err
	}

	if err := r.db.Model(&models.ExchangeProposal{}).
		Joins("JOIN ads ON ads.id = exchange_proposals.ad_receiver_id").
		Where("ads.user_id = ?", ownerID).
		Count(&received).Error; err != nil {
		return 0, 0, err
	}

	return sent, received, nil
}
