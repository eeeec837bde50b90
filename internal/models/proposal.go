package models

import "time"

// Proposal statuses. Pending is the initial state; accepted and rejected
// are terminal.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Statuses lists every valid proposal status.
var Statuses = []string{StatusPending, StatusAccepted, StatusRejected}

// IsValidStatus reports whether s is one of the proposal statuses.
func IsValidStatus(s string) bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

// ExchangeProposal is an offer by the owner of the sender ad to trade it
// for the receiver ad. Participation (and therefore visibility) is derived
// from ownership of the two referenced ads.
type ExchangeProposal struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AdSenderID   uint      `json:"-" gorm:"index;not null"`
	AdSender     Ad        `json:"ad_sender" gorm:"foreignKey:AdSenderID;constraint:OnDelete:CASCADE"`
	AdReceiverID uint      `json:"-" gorm:"index;not null"`
	AdReceiver   Ad        `json:"ad_receiver" gorm:"foreignKey:AdReceiverID;constraint:OnDelete:CASCADE"`
	Comment      string    `json:"comment" gorm:"type:text"`
	Status       string    `json:"status" gorm:"size:20;index;default:'pending'"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateProposalRequest defines the request body for creating a proposal
type CreateProposalRequest struct {
	AdSenderID   uint   `json:"ad_sender_id" validate:"required"`
	AdReceiverID uint   `json:"ad_receiver_id" validate:"required"`
	Comment      string `json:"comment"`
}

// UpdateProposalStatusRequest defines the request body for accepting or
// rejecting a proposal. Pending is not a valid target state.
type UpdateProposalStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}
