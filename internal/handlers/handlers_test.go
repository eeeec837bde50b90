package handlers

import (
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hamidullaorifov/EffectiveMobileTask/internal/listing"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/models"
	"github.com/hamidullaorifov/EffectiveMobileTask/validators"
)

// newTestContext builds an echo context the way the middleware would,
// with the request validator installed.
func newTestContext(t *testing.T, method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validators.NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// authenticate stores JWT claims in the context like JWTAuthMiddleware.
func authenticate(c echo.Context, user *models.User) {
	c.Set("user", &models.JwtCustomClaims{UserID: user.ID, Username: user.Username})
}

// httpStatus unwraps the status code from a handler's error return.
func httpStatus(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}

// fakeUserRepository is an in-memory UserRepository.
type fakeUserRepository struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepository) CreateUser(user *models.User) error {
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepository) GetUserByID(id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepository) GetUserByUsername(username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepository) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// fakeAdRepository is an in-memory AdRepository. Deleting an ad cascades
// into the linked proposal repository like the Postgres implementation.
type fakeAdRepository struct {
	ads       map[uint]*models.Ad
	proposals *fakeProposalRepository
	nextID    uint
}

func newFakeAdRepository() *fakeAdRepository {
	return &fakeAdRepository{ads: make(map[uint]*models.Ad)}
}

func (r *fakeAdRepository) CreateAd(ad *models.Ad) error {
	r.nextID++
	ad.ID = r.nextID
	if ad.CreatedAt.IsZero() {
		ad.CreatedAt = time.Now()
	}
	cp := *ad
	r.ads[ad.ID] = &cp
	return nil
}

func (r *fakeAdRepository) GetAdByID(id uint) (*models.Ad, error) {
	ad, ok := r.ads[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ad
	return &cp, nil
}

func (r *fakeAdRepository) matches(f listing.AdFilter, ad *models.Ad) bool {
	if f.Category != "" && ad.Category != f.Category {
		return false
	}
	if f.Condition != "" && ad.Condition != f.Condition {
		return false
	}
	if f.UserID != 0 && ad.UserID != f.UserID {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(ad.Title), q) &&
			!strings.Contains(strings.ToLower(ad.Description), q) {
			return false
		}
	}
	return true
}

func (r *fakeAdRepository) ListAds(f listing.AdFilter, page int) ([]models.Ad, int64, error) {
	var matched []models.Ad
	for _, ad := range r.ads {
		if r.matches(f, ad) {
			matched = append(matched, *ad)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * listing.PageSize
	if start >= len(matched) {
		return []models.Ad{}, total, nil
	}
	end := start + listing.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeAdRepository) GetAdsByUserID(userID uint) ([]models.Ad, error) {
	var ads []models.Ad
	for _, ad := range r.ads {
		if ad.UserID == userID {
			ads = append(ads, *ad)
		}
	}
	sort.Slice(ads, func(i, j int) bool { return ads[i].CreatedAt.After(ads[j].CreatedAt) })
	return ads, nil
}

func (r *fakeAdRepository) UpdateAd(ad *models.Ad) error {
	if _, ok := r.ads[ad.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *ad
	r.ads[ad.ID] = &cp
	return nil
}

func (r *fakeAdRepository) DeleteAd(id uint) error {
	delete(r.ads, id)
	if r.proposals != nil {
		r.proposals.deleteForAd(id)
	}
	return nil
}

func (r *fakeAdRepository) CountProposalsByOwner(ownerID uint) (int64, int64, error) {
	var sent, received int64
	if r.proposals == nil {
		return 0, 0, nil
	}
	for _, p := range r.proposals.proposals {
		if p.AdSender.UserID == ownerID {
			sent++
		}
		if p.AdReceiver.UserID == ownerID {
			received++
		}
	}
	return sent, received, nil
}

// fakeProposalRepository is an in-memory ProposalRepository.
type fakeProposalRepository struct {
	proposals map[uint]*models.ExchangeProposal
	ads       *fakeAdRepository
	nextID    uint
}

func newFakeProposalRepository(ads *fakeAdRepository) *fakeProposalRepository {
	r := &fakeProposalRepository{
		proposals: make(map[uint]*models.ExchangeProposal),
		ads:       ads,
	}
	ads.proposals = r
	return r
}

func (r *fakeProposalRepository) CreateProposal(p *models.ExchangeProposal) error {
	r.nextID++
	p.ID = r.nextID
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	if ad, ok := r.ads.ads[p.AdSenderID]; ok {
		cp.AdSender = *ad
	}
	if ad, ok := r.ads.ads[p.AdReceiverID]; ok {
		cp.AdReceiver = *ad
	}
	r.proposals[p.ID] = &cp
	return nil
}

func (r *fakeProposalRepository) GetProposalByID(id uint) (*models.ExchangeProposal, error) {
	p, ok := r.proposals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProposalRepository) ListProposalsForUser(userID uint, f listing.ProposalFilter, page int) ([]models.ExchangeProposal, int64, error) {
	var matched []models.ExchangeProposal
	for _, p := range r.proposals {
		if p.AdSender.UserID != userID && p.AdReceiver.UserID != userID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.AdSenderID != 0 && p.AdSenderID != f.AdSenderID {
			continue
		}
		if f.AdReceiverID != 0 && p.AdReceiverID != f.AdReceiverID {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * listing.PageSize
	if start >= len(matched) {
		return []models.ExchangeProposal{}, total, nil
	}
	end := start + listing.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *fakeProposalRepository) GetProposalsForAd(adID uint) ([]models.ExchangeProposal, error) {
	var matched []models.ExchangeProposal
	for _, p := range r.proposals {
		if p.AdSenderID == adID || p.AdReceiverID == adID {
			matched = append(matched, *p)
		}
	}
	return matched, nil
}

func (r *fakeProposalRepository) UpdateProposalStatus(id uint, status string) error {
	p, ok := r.proposals[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	return nil
}

func (r *fakeProposalRepository) deleteForAd(adID uint) {
	for id, p := range r.proposals {
		if p.AdSenderID == adID || p.AdReceiverID == adID {
			delete(r.proposals, id)
		}
	}
}
