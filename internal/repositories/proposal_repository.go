package repositories

import (
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/listing"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/models"
	"gorm.io/gorm"
)

// ProposalRepository defines the interface for exchange proposal data
// operations. Listing is always pre-scoped to proposals the given user
// participates in.
type ProposalRepository interface {
	CreateProposal(p *models.ExchangeProposal) error
	GetProposalByID(id uint) (*models.ExchangeProposal, error)
	ListProposalsForUser(userID uint, filter listing.ProposalFilter, page int) ([]models.ExchangeProposal, int64, error)
	GetProposalsForAd(adID uint) ([]models.ExchangeProposal, error)
	UpdateProposalStatus(id uint, status string) error
}

// PostgresProposalRepository implements ProposalRepository for PostgreSQL
type PostgresProposalRepository struct {
	db *gorm.DB
}

// NewPostgresProposalRepository creates a new PostgresProposalRepository
func NewPostgresProposalRepository(db *gorm.DB) *PostgresProposalRepository {
	return &PostgresProposalRepository{db: db}
}

// CreateProposal creates a new exchange proposal
func (r *PostgresProposalRepository) CreateProposal(p *models.ExchangeProposal) error {
	return r.db.Create(p).Error
}

// GetProposalByID retrieves a proposal with both ads and their owners
// preloaded, so policy checks can run without further queries.
func (r *PostgresProposalRepository) GetProposalByID(id uint) (*models.ExchangeProposal, error) {
	var p models.ExchangeProposal
	if err := r.db.
		Preload("AdSender.User").
		Preload("AdReceiver.User").
		First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// participantScope restricts proposals to those whose sender or receiver
// ad belongs to the given user.
func participantScope(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN ads AS sender_ads ON sender_ads.id = exchange_proposals.ad_sender_id").
			Joins("JOIN ads AS receiver_ads ON receiver_ads.id = exchange_proposals.ad_receiver_id").
			Where("sender_ads.user_id = ? OR receiver_ads.user_id = ?", userID, userID)
	}
}

// ListProposalsForUser returns one page of the user's proposals matching
// the filter, newest first, together with the filtered total.
func (r *PostgresProposalRepository) ListProposalsForUser(userID uint, filter listing.ProposalFilter, page int) ([]models.ExchangeProposal, int64, error) {
	var proposals []models.ExchangeProposal
	var total int64

	if err := r.db.Model(&models.ExchangeProposal{}).
		Scopes(participantScope(userID), filter.Scope()).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.
		Preload("AdSender.User").
		Preload("AdReceiver.User").
		Scopes(participantScope(userID), filter.Scope(), listing.Paginate(page)).
		Order("exchange_proposals.created_at DESC").
		Find(&proposals).Error

	return proposals, total, err
}

// GetProposalsForAd retrieves every proposal referencing the ad as sender
// or receiver, newest first.
func (r *PostgresProposalRepository) GetProposalsForAd(adID uint) ([]models.ExchangeProposal, error) {
	var proposals []models.ExchangeProposal
	err := r.db.
		Preload("AdSender.User").
		Preload("AdReceiver.User").
		Where("ad_sender_id = ? OR ad_receiver_id = ?", adID, adID).
		Order("created_at DESC").
		Find(&proposals).Error
	return proposals, err
}

// UpdateProposalStatus persists a new status for the proposal
func (r *PostgresProposalRepository) UpdateProposalStatus(id uint, status string) error {
	return r.db.Model(&models.ExchangeProposal{}).Where("id = ?", id).Update("status", status).Error
}
