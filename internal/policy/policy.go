// Package policy holds the pure authorization decisions for ads and
// exchange proposals. Every function is a synchronous predicate over
// already-loaded records; callers map denials to HTTP responses.
package policy

import (
	"errors"

	"github.com/hamidullaorifov/EffectiveMobileTask/internal/models"
)

var (
	// ErrSelfTarget is returned when a user proposes an exchange against
	// their own ad.
	ErrSelfTarget = errors.New("cannot send a proposal for your own ad")

	// ErrNotOwner is returned when a user offers an ad they do not own.
	ErrNotOwner = errors.New("cannot send a proposal for an ad you do not own")
)

// CanModifyAd reports whether the actor may update or delete the ad.
func CanModifyAd(actorID uint, ad *models.Ad) bool {
	return actorID == ad.UserID
}

// CanCreateProposal checks whether the actor may propose trading senderAd
// for receiverAd. The actor must own the sender ad and must not own the
// receiver ad.
func CanCreateProposal(actorID uint, senderAd, receiverAd *models.Ad) error {
	if receiverAd.UserID == actorID {
		return ErrSelfTarget
	}
	if senderAd.UserID != actorID {
		return ErrNotOwner
	}
	return nil
}

// CanViewProposal reports whether the actor participates in the proposal,
// i.e. owns its sender ad or its receiver ad. Both ads must be loaded.
func CanViewProposal(actorID uint, p *models.ExchangeProposal) bool {
	return p.AdSender.UserID == actorID || p.AdReceiver.UserID == actorID
}

// CanUpdateProposalStatus reports whether the actor may accept or reject
// the proposal. Only the owner of the receiver ad decides.
func CanUpdateProposalStatus(actorID uint, p *models.ExchangeProposal) bool {
	return p.AdReceiver.UserID == actorID
}
