package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamidullaorifov/EffectiveMobileTask/internal/models"
)

type proposalPage struct {
	Count    int64                     `json:"count"`
	Next     *int                      `json:"next"`
	Previous *int                      `json:"previous"`
	Results  []models.ExchangeProposal `json:"results"`
}

// proposalFixture wires two users each owning one ad.
type proposalFixture struct {
	handler      *ProposalHandler
	adRepo       *fakeAdRepository
	proposalRepo *fakeProposalRepository
	alice        *models.User // owns adX
	bob          *models.User // owns adY
	adX          *models.Ad
	adY          *models.Ad
}

func newProposalFixture(t *testing.T) *proposalFixture {
	t.Helper()

	adRepo := newFakeAdRepository()
	proposalRepo := newFakeProposalRepository(adRepo)
	userRepo := newFakeUserRepository()

	alice := &models.User{Username: "alice", Email: "alice@example.com"}
	bob := &models.User{Username: "bob", Email: "bob@example.com"}
	require.NoError(t, userRepo.CreateUser(alice))
	require.NoError(t, userRepo.CreateUser(bob))

	adX := seedAd(t, adRepo, alice.ID, "Ad X", models.CategoryElectronics, models.ConditionUsed, time.Hour)
	adY := seedAd(t, adRepo, bob.ID, "Ad Y", models.CategoryBooks, models.ConditionNew, 2*time.Hour)

	return &proposalFixture{
		handler:      NewProposalHandler(proposalRepo, adRepo, nil),
		adRepo:       adRepo,
		proposalRepo: proposalRepo,
		alice:        alice,
		bob:          bob,
		adX:          adX,
		adY:          adY,
	}
}

func (f *proposalFixture) createBody(sender, receiver uint, comment string) string {
	return fmt.Sprintf(`{"ad_sender_id":%d,"ad_receiver_id":%d,"comment":%q}`, sender, receiver, comment)
}

func TestCreateProposal(t *testing.T) {
	f := newProposalFixture(t)

	c, rec := newTestContext(t, http.MethodPost, "/api/proposals",
		strings.NewReader(f.createBody(f.adX.ID, f.adY.ID, "trade?")))
	authenticate(c, f.alice)
	require.NoError(t, f.handler.CreateProposal(c))

	assert.Equal(t, http.StatusCreated, rec.Code)

	stored, err := f.proposalRepo.GetProposalByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status, "new proposals start pending")
	assert.Equal(t, "trade?", stored.Comment)
	assert.False(t, stored.CreatedAt.IsZero(), "creation timestamp is server-assigned")
}

func TestCreateProposalSelfTarget(t *testing.T) {
	f := newProposalFixture(t)

	// Bob targets his own ad.
	c, _ := newTestContext(t, http.MethodPost, "/api/proposals",
		strings.NewReader(f.createBody(f.adX.ID, f.adY.ID, "")))
	authenticate(c, f.bob)

	err := f.handler.CreateProposal(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
	assert.Empty(t, f.proposalRepo.proposals, "no write on denial")
}

func TestCreateProposalNotOwnedSender(t *testing.T) {
	f := newProposalFixture(t)
	carol := &models.User{ID: 99, Username: "carol"}

	// Carol offers Alice's ad for Bob's ad.
	c, _ := newTestContext(t, http.MethodPost, "/api/proposals",
		strings.NewReader(f.createBody(f.adX.ID, f.adY.ID, "")))
	authenticate(c, carol)

	err := f.handler.CreateProposal(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestCreateProposalMissingAd(t *testing.T) {
	f := newProposalFixture(t)

	c, _ := newTestContext(t, http.MethodPost, "/api/proposals",
		strings.NewReader(f.createBody(f.adX.ID, 404, "")))
	authenticate(c, f.alice)

	err := f.handler.CreateProposal(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestGetProposalParticipantsOnly(t *testing.T) {
	f := newProposalFixture(t)
	require.NoError(t, f.proposalRepo.CreateProposal(&models.ExchangeProposal{
		AdSenderID: f.adX.ID, AdReceiverID: f.adY.ID, Status: models.StatusPending,
	}))

	get := func(user *models.User) error {
		c, _ := newTestContext(t, http.MethodGet, "/api/proposals/1", nil)
		c.SetParamNames("id")
		c.SetParamValues("1")
		authenticate(c, user)
		return f.handler.GetProposal(c)
	}

	assert.NoError(t, get(f.alice), "sender-ad owner may view")
	assert.NoError(t, get(f.bob), "receiver-ad owner may view")

	err := get(&models.User{ID: 99, Username: "carol"})
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))
}

func TestProposalLifecycle(t *testing.T) {
	f := newProposalFixture(t)

	// A proposes X -> Y: succeeds, status pending.
	c, rec := newTestContext(t, http.MethodPost, "/api/proposals",
		strings.NewReader(f.createBody(f.adX.ID, f.adY.ID, "deal?")))
	authenticate(c, f.alice)
	require.NoError(t, f.handler.CreateProposal(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	update := func(user *models.User, status string) (int, error) {
		body := fmt.Sprintf(`{"status":%q}`, status)
		c, rec := newTestContext(t, http.MethodPatch, "/api/proposals/1", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues("1")
		authenticate(c, user)
		err := f.handler.UpdateProposalStatus(c)
		if err != nil {
			return 0, err
		}
		return rec.Code, nil
	}

	// A attempts to decide their own proposal: forbidden.
	_, err := update(f.alice, models.StatusRejected)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))

	// B rejects: succeeds.
	code, err := update(f.bob, models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)

	stored, _ := f.proposalRepo.GetProposalByID(1)
	assert.Equal(t, models.StatusRejected, stored.Status)

	// A attempts again: still forbidden, regardless of requested value.
	_, err = update(f.alice, models.StatusAccepted)
	assert.Equal(t, http.StatusForbidden, httpStatus(t, err))

	// B tries to flip the terminal state: rejected transitions are final.
	_, err = update(f.bob, models.StatusAccepted)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))

	stored, _ = f.proposalRepo.GetProposalByID(1)
	assert.Equal(t, models.StatusRejected, stored.Status)
}

func TestUpdateProposalStatusRejectsInvalidValues(t *testing.T) {
	f := newProposalFixture(t)
	require.NoError(t, f.proposalRepo.CreateProposal(&models.ExchangeProposal{
		AdSenderID: f.adX.ID, AdReceiverID: f.adY.ID, Status: models.StatusPending,
	}))

	for _, status := range []string{"pending", "canceled", ""} {
		body := fmt.Sprintf(`{"status":%q}`, status)
		c, _ := newTestContext(t, http.MethodPatch, "/api/proposals/1", strings.NewReader(body))
		c.SetParamNames("id")
		c.SetParamValues("1")
		authenticate(c, f.bob)

		err := f.handler.UpdateProposalStatus(c)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err), "status %q", status)
	}
}

func TestUpdateProposalStatusNotFound(t *testing.T) {
	f := newProposalFixture(t)

	c, _ := newTestContext(t, http.MethodPatch, "/api/proposals/42",
		strings.NewReader(`{"status":"accepted"}`))
	c.SetParamNames("id")
	c.SetParamValues("42")
	authenticate(c, f.bob)

	err := f.handler.UpdateProposalStatus(c)
	assert.Equal(t, http.StatusNotFound, httpStatus(t, err))
}

func TestListProposalsScopedToParticipant(t *testing.T) {
	f := newProposalFixture(t)
	carol := &models.User{Username: "carol", Email: "carol@example.com"}
	adZ := seedAd(t, f.adRepo, 3, "Ad Z", models.CategoryHome, models.ConditionUsed, 3*time.Hour)
	carol.ID = 3

	// alice -> bob, and carol -> bob. Alice must only see her own.
	require.NoError(t, f.proposalRepo.CreateProposal(&models.ExchangeProposal{
		AdSenderID: f.adX.ID, AdReceiverID: f.adY.ID, Status: models.StatusPending,
	}))
	require.NoError(t, f.proposalRepo.CreateProposal(&models.ExchangeProposal{
		AdSenderID: adZ.ID, AdReceiverID: f.adY.ID, Status: models.StatusPending,
	}))

	c, rec := newTestContext(t, http.MethodGet, "/api/proposals", nil)
	authenticate(c, f.alice)
	require.NoError(t, f.handler.ListProposals(c))

	var page proposalPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Count)

	// Bob participates in both.
	c, rec = newTestContext(t, http.MethodGet, "/api/proposals", nil)
	authenticate(c, f.bob)
	require.NoError(t, f.handler.ListProposals(c))

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Count)
}

func TestListProposalsStatusFilter(t *testing.T) {
	f := newProposalFixture(t)
	require.NoError(t, f.proposalRepo.CreateProposal(&models.ExchangeProposal{
		AdSenderID: f.adX.ID, AdReceiverID: f.adY.ID, Status: models.StatusPending,
	}))
	require.NoError(t, f.proposalRepo.CreateProposal(&models.ExchangeProposal{
		AdSenderID: f.adX.ID, AdReceiverID: f.adY.ID, Status: models.StatusAccepted,
	}))

	c, rec := newTestContext(t, http.MethodGet, "/api/proposals?status=accepted", nil)
	authenticate(c, f.bob)
	require.NoError(t, f.handler.ListProposals(c))

	var page proposalPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, models.StatusAccepted, page.Results[0].Status)
}

func TestListProposalsRejectsMalformedAdFilters(t *testing.T) {
	f := newProposalFixture(t)

	for _, target := range []string{
		"/api/proposals?ad_sender=abc",
		"/api/proposals?ad_receiver=1.5",
	} {
		c, _ := newTestContext(t, http.MethodGet, target, nil)
		authenticate(c, f.bob)

		err := f.handler.ListProposals(c)
		assert.Equal(t, http.StatusBadRequest, httpStatus(t, err), "target %s", target)
	}
}

func TestListProposalsRejectsUnknownStatus(t *testing.T) {
	f := newProposalFixture(t)

	c, _ := newTestContext(t, http.MethodGet, "/api/proposals?status=canceled", nil)
	authenticate(c, f.bob)

	err := f.handler.ListProposals(c)
	assert.Equal(t, http.StatusBadRequest, httpStatus(t, err))
}

func TestListProposalsRequiresAuthentication(t *testing.T) {
	f := newProposalFixture(t)

	c, _ := newTestContext(t, http.MethodGet, "/api/proposals", nil)
	err := f.handler.ListProposals(c)
	assert.Equal(t, http.StatusUnauthorized, httpStatus(t, err))
}
