package handlers

import (
	"net/http"
	"strconv"

	"github.com/hamidullaorifov/EffectiveMobileTask/internal/listing"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/middleware"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/models"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/policy"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/repositories"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/services"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// ProposalHandler handles exchange-proposal HTTP requests
type ProposalHandler struct {
	proposalRepository repositories.ProposalRepository
	adRepository       repositories.AdRepository
	emailService       *services.EmailService
}

// NewProposalHandler creates a new ProposalHandler
func NewProposalHandler(proposalRepo repositories.ProposalRepository, adRepo repositories.AdRepository, emailService *services.EmailService) *ProposalHandler {
	return &ProposalHandler{
		proposalRepository: proposalRepo,
		adRepository:       adRepo,
		emailService:       emailService,
	}
}

// RegisterProposalRoutes registers proposal routes. All of them require
// authentication.
func (h *ProposalHandler) RegisterProposalRoutes(g *echo.Group) {
	g.GET("/proposals", h.ListProposals)
	g.POST("/proposals", h.CreateProposal)
	g.GET("/proposals/:id", h.GetProposal)
	g.PATCH("/proposals/:id", h.UpdateProposalStatus)
}

// ListProposals returns one page of the proposals the authenticated user
// participates in, matching the query filters
func (h *ProposalHandler) ListProposals(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	senderID, err := queryID(c, "ad_sender")
	if err != nil {
		return err
	}
	receiverID, err := queryID(c, "ad_receiver")
	if err != nil {
		return err
	}
	filter := listing.ProposalFilter{
		Status:       c.QueryParam("status"),
		AdSenderID:   senderID,
		AdReceiverID: receiverID,
	}
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

	return c.JSON(http.StatusOK, listing.NewPage(proposals, total, page))
}

// CreateProposal creates a new exchange proposal. The authenticated user
// must own the sender ad and must not own the receiver ad.
func (h *ProposalHandler) CreateProposal(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateProposalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	senderAd, err := h.adRepository.GetAdByID(req.AdSenderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Sender ad not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	receiverAd, err := h.adRepository.GetAdByID(req.AdReceiverID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Receiver ad not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := policy.CanCreateProposal(currentUserID, senderAd, receiverAd); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	proposal := &models.ExchangeProposal{
		AdSenderID:   senderAd.ID,
		AdReceiverID: receiverAd.ID,
		Comment:      req.Comment,
		Status:       models.StatusPending,
	}

	if err := h.proposalRepository.CreateProposal(proposal); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	created, err := h.proposalRepository.GetProposalByID(proposal.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notifyProposalReceived(created)

	return c.JSON(http.StatusCreated, created)
}

// GetProposal returns a single proposal. Only participants may view it.
func (h *ProposalHandler) GetProposal(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid proposal ID")
	}

	proposal, err := h.proposalRepository.GetProposalByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Proposal not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !policy.CanViewProposal(currentUserID, proposal) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not a participant of this proposal")
	}

	return c.JSON(http.StatusOK, proposal)
}

// UpdateProposalStatus accepts or rejects a pending proposal. Only the
// owner of the receiver ad decides, and a proposal already accepted or
// rejected cannot transition again.
func (h *ProposalHandler) UpdateProposalStatus(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid proposal ID")
	}

	var req models.UpdateProposalStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
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

	if err := h.proposalRepository.UpdateProposalStatus(proposal.ID, req.Status); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	proposal.Status = req.Status
	h.notifyStatusChanged(proposal)

	return c.JSON(http.StatusOK, proposal)
}

// notifyProposalReceived emails the receiver-ad owner. Fire-and-forget;
// the response never waits on SMTP.
func (h *ProposalHandler) notifyProposalReceived(p *models.ExchangeProposal) {
	if h.emailService == nil || !h.emailService.Enabled() {
		return
	}
	to := p.AdReceiver.User.Email
	sender := p.AdSender.User.Username
	senderTitle, receiverTitle := p.AdSender.Title, p.AdReceiver.Title
	go h.emailService.SendProposalReceived(to, sender, senderTitle, receiverTitle)
}

// notifyStatusChanged emails the sender-ad owner about the decision.
func (h *ProposalHandler) notifyStatusChanged(p *models.ExchangeProposal) {
	if h.emailService == nil || !h.emailService.Enabled() {
		return
	}
	to := p.AdSender.User.Email
	status := p.Status
	senderTitle, receiverTitle := p.AdSender.Title, p.AdReceiver.Title
	go h.emailService.SendProposalStatusChanged(to, status, senderTitle, receiverTitle)
}
