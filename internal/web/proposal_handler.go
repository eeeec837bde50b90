package web

import (
	"net/http"
	"strconv"

	"github.com/hamidullaorifov/EffectiveMobileTask/internal/listing"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/middleware"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/models"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/policy"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ProposalForm renders the send-proposal form for the receiver ad. The
// user picks one of their own ads to offer; proposing against your own ad
// is forbidden.
func (h *WebHandler) ProposalForm(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ad ID")
	}

	receiverAd, err := h.adRepository.GetAdByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Ad not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if receiverAd.UserID == currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot send a proposal for your own ad")
	}

	userAds, err := h.adRepository.GetAdsByUserID(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Render(http.StatusOK, "proposal_form.html", view(c, echo.Map{
		"ReceiverAd": receiverAd,
		"UserAds":    userAds,
	}))
}

// ProposalCreate handles the send-proposal form submit
func (h *WebHandler) ProposalCreate(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ad ID")
	}

	receiverAd, err := h.adRepository.GetAdByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Ad not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	senderAdID, err := strconv.ParseUint(c.FormValue("ad_sender"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Choose one of your ads to offer")
	}

	senderAd, err := h.adRepository.GetAdByID(uint(senderAdID))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Sender ad not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := policy.CanCreateProposal(currentUserID, senderAd, receiverAd); err != nil {
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}

	proposal := &models.ExchangeProposal{
		AdSenderID:   senderAd.ID,
		AdReceiverID: receiverAd.ID,
		Comment:      c.FormValue("comment"),
		Status:       models.StatusPending,
	}
	if err := h.proposalRepository.CreateProposal(proposal); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, "/proposals")
}

// ProposalList renders the user's proposals, split into received and
// sent, with an optional status filter
func (h *WebHandler) ProposalList(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	filter := listing.ProposalFilter{Status: c.QueryParam("status")}
	if !filter.Validate() {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown status value")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	proposals, total, err := h.proposalRepository.ListProposalsForUser(currentUserID, filter, page)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var received, sent []models.ExchangeProposal
	for _, p := range proposals {
		if p.AdReceiver.UserID == currentUserID {
			received = append(received, p)
		}
		if p.AdSender.UserID == currentUserID {
			sent = append(sent, p)
		}
	}

	totalPages := listing.TotalPages(total)
	return c.Render(http.StatusOK, "proposals.html", view(c, echo.Map{
		"Received":    received,
		"Sent":        sent,
		"Statuses":    models.Statuses,
		"Status":      filter.Status,
		"Count":       total,
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"HasNext":     page < totalPages,
		"HasPrev":     page > 1,
		"NextPage":    page + 1,
		"PrevPage":    page - 1,
	}))
}

// ProposalStatusUpdate handles the accept/reject form submit. Receiver
// only, and only while the proposal is still pending.
func (h *WebHandler) ProposalStatusUpdate(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid proposal ID")
	}

	status := c.FormValue("status")
	if status != models.StatusAccepted && status != models.StatusRejected {
		return echo.NewHTTPError(http.StatusBadRequest, "Status must be accepted or rejected")
	}

	proposal, err := h.proposalRepository.GetProposalByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Proposal not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !policy.CanUpdateProposalStatus(currentUserID, proposal) {
		return echo.NewHTTPError(http.StatusForbidden, "Only the receiver of the proposal may accept or reject it")
	}
	if proposal.Status != models.StatusPending {
		return echo.NewHTTPError(http.StatusBadRequest, "Proposal is no longer pending")
	}

	if err := h.proposalRepository.UpdateProposalStatus(proposal.ID, status); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, "/proposals")
}
