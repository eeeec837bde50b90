package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/hamidullaorifov/EffectiveMobileTask/internal/handlers"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/listing"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/middleware"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/models"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/policy"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/repositories"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// WebHandler serves the server-rendered UI.
type WebHandler struct {
	adRepository       repositories.AdRepository
	proposalRepository repositories.ProposalRepository
	userRepository     repositories.UserRepository
	authHandler        *handlers.AuthHandler
}

// NewWebHandler creates a new WebHandler
func NewWebHandler(adRepo repositories.AdRepository, proposalRepo repositories.ProposalRepository, userRepo repositories.UserRepository, authHandler *handlers.AuthHandler) *WebHandler {
	return &WebHandler{
		adRepository:       adRepo,
		proposalRepository: proposalRepo,
		userRepository:     userRepo,
		authHandler:        authHandler,
	}
}

// RegisterWebRoutes registers the UI routes. Public pages carry optional
// auth for login-aware navigation; the rest requires a session cookie.
func (h *WebHandler) RegisterWebRoutes(e *echo.Echo) {
	public := e.Group("", middleware.OptionalWebAuth())
	public.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/ads")
	})
	public.GET("/ads", h.AdList)
	public.GET("/ads/:id", h.AdDetail)
	public.GET("/signup", h.SignupForm)
	public.POST("/signup", h.Signup)
	public.GET("/login", h.LoginForm)
	public.POST("/login", h.Login)
	public.GET("/logout", h.Logout)

	private := e.Group("", middleware.WebAuthMiddleware())
	private.GET("/ads/new", h.AdForm)
	private.POST("/ads/new", h.AdCreate)
	private.GET("/ads/:id/edit", h.AdForm)
	private.POST("/ads/:id/edit", h.AdUpdate)
	private.GET("/ads/:id/delete", h.AdDeleteConfirm)
	private.POST("/ads/:id/delete", h.AdDelete)
	private.GET("/ads/:id/propose", h.ProposalForm)
	private.POST("/ads/:id/propose", h.ProposalCreate)
	private.GET("/proposals", h.ProposalList)
	private.POST("/proposals/:id/status", h.ProposalStatusUpdate)
}

// view merges page data with the navigation context every template needs.
func view(c echo.Context, data echo.Map) echo.Map {
	if data == nil {
		data = echo.Map{}
	}
	data["Username"] = middleware.CurrentUsername(c)
	data["UserID"] = middleware.CurrentUserID(c)
	return data
}

// AdList renders the filtered, paginated ad listing
func (h *WebHandler) AdList(c echo.Context) error {
	filter := listing.AdFilter{
		Category:  c.QueryParam("category"),
		Condition: c.QueryParam("condition"),
		Search:    c.QueryParam("search"),
	}
	if !filter.Validate() {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown category or condition value")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	ads, total, err := h.adRepository.ListAds(filter, page)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	totalPages := listing.TotalPages(total)
	return c.Render(http.StatusOK, "ad_list.html", view(c, echo.Map{
		"Ads":         ads,
		"Categories":  models.Categories,
		"Conditions":  models.Conditions,
		"Filter":      filter,
		"Count":       total,
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"HasNext":     page < totalPages,
		"HasPrev":     page > 1,
		"NextPage":    page + 1,
		"PrevPage":    page - 1,
	}))
}

// AdDetail renders a single ad with its proposals and the owner's
// sent/received proposal counts
func (h *WebHandler) AdDetail(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ad ID")
	}

	ad, err := h.adRepository.GetAdByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Ad not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	proposals, err := h.proposalRepository.GetProposalsForAd(ad.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	sent, received, err := h.adRepository.CountProposalsByOwner(ad.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Render(http.StatusOK, "ad_detail.html", view(c, echo.Map{
		"Ad":            ad,
		"Proposals":     proposals,
		"SentCount":     sent,
		"ReceivedCount": received,
		"IsOwner":       middleware.CurrentUserID(c) == ad.UserID,
	}))
}

// AdForm renders the create/edit form. With an :id parameter it prefills
// the form with the owner's existing ad.
func (h *WebHandler) AdForm(c echo.Context) error {
	data := echo.Map{
		"Categories": models.Categories,
		"Conditions": models.Conditions,
	}

	if idParam := c.Param("id"); idParam != "" {
		id, err := strconv.ParseUint(idParam, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid ad ID")
		}
		ad, err := h.adRepository.GetAdByID(uint(id))
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return echo.NewHTTPError(http.StatusNotFound, "Ad not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if !policy.CanModifyAd(middleware.CurrentUserID(c), ad) {
			return echo.NewHTTPError(http.StatusForbidden, "You are not the owner of this ad")
		}
		data["Ad"] = ad
	}

	return c.Render(http.StatusOK, "ad_form.html", view(c, data))
}

func adFromForm(c echo.Context) (title, description, category, condition string, imageURL *string) {
	title = c.FormValue("title")
	description = c.FormValue("description")
	category = c.FormValue("category")
	condition = c.FormValue("condition")
	if v := c.FormValue("image_url"); v != "" {
		imageURL = &v
	}
	return
}

// AdCreate handles the create form submit
func (h *WebHandler) AdCreate(c echo.Context) error {
	title, description, category, condition, imageURL := adFromForm(c)
	if title == "" || !models.IsValidCategory(category) || !models.IsValidCondition(condition) {
		return echo.NewHTTPError(http.StatusBadRequest, "Title, category and condition are required")
	}

	ad := &models.Ad{
		UserID:      middleware.CurrentUserID(c),
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		Category:    category,
		Condition:   condition,
	}
	if err := h.adRepository.CreateAd(ad); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, "/ads/"+strconv.FormatUint(uint64(ad.ID), 10))
}

// AdUpdate handles the edit form submit. Owner only.
func (h *WebHandler) AdUpdate(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ad ID")
	}

	ad, err := h.adRepository.GetAdByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Ad not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !policy.CanModifyAd(middleware.CurrentUserID(c), ad) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not the owner of this ad")
	}

	title, description, category, condition, imageURL := adFromForm(c)
	if title == "" || !models.IsValidCategory(category) || !models.IsValidCondition(condition) {
		return echo.NewHTTPError(http.StatusBadRequest, "Title, category and condition are required")
	}

	ad.Title = title
	ad.Description = description
	ad.ImageURL = imageURL
	ad.Category = category
	ad.Condition = condition

	if err := h.adRepository.UpdateAd(ad); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, "/ads/"+strconv.FormatUint(uint64(ad.ID), 10))
}

// AdDeleteConfirm renders the delete confirmation page. Owner only.
func (h *WebHandler) AdDeleteConfirm(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ad ID")
	}

	ad, err := h.adRepository.GetAdByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Ad not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !policy.CanModifyAd(middleware.CurrentUserID(c), ad) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not the owner of this ad")
	}

	return c.Render(http.StatusOK, "ad_confirm_delete.html", view(c, echo.Map{"Ad": ad}))
}

// AdDelete deletes the ad and its proposals. Owner only.
func (h *WebHandler) AdDelete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ad ID")
	}

	ad, err := h.adRepository.GetAdByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Ad not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !policy.CanModifyAd(middleware.CurrentUserID(c), ad) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not the owner of this ad")
	}

	if err := h.adRepository.DeleteAd(ad.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, "/ads")
}

// SignupForm renders the registration page
func (h *WebHandler) SignupForm(c echo.Context) error {
	return c.Render(http.StatusOK, "signup.html", view(c, nil))
}

// Signup handles the registration form submit and logs the new user in.
func (h *WebHandler) Signup(c echo.Context) error {
	username := c.FormValue("username")
	email := c.FormValue("email")
	password := c.FormValue("password")
	if username == "" || email == "" || len(password) < 8 {
		return c.Render(http.StatusBadRequest, "signup.html", view(c, echo.Map{
			"Error": "Username, email and a password of at least 8 characters are required",
		}))
	}

	if _, err := h.userRepository.GetUserByUsername(username); err == nil {
		return c.Render(http.StatusConflict, "signup.html", view(c, echo.Map{
			"Error": "Username already taken",
		}))
	}
	if _, err := h.userRepository.GetUserByEmail(email); err == nil {
		return c.Render(http.StatusConflict, "signup.html", view(c, echo.Map{
			"Error": "Email already registered",
		}))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{Username: username, Email: email, Password: string(hashedPassword)}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return h.startSession(c, user)
}

// LoginForm renders the login page
func (h *WebHandler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", view(c, nil))
}

// Login handles the login form submit
func (h *WebHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := h.userRepository.GetUserByUsername(username)
	if err != nil {
		return c.Render(http.StatusUnauthorized, "login.html", view(c, echo.Map{
			"Error": "Invalid username or password",
		}))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return c.Render(http.StatusUnauthorized, "login.html", view(c, echo.Map{
			"Error": "Invalid username or password",
		}))
	}

	return h.startSession(c, user)
}

// startSession issues a JWT, stores it in the session cookie and sends
// the user to the ad listing.
func (h *WebHandler) startSession(c echo.Context, user *models.User) error {
	token, err := h.authHandler.GenerateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(72 * time.Hour),
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/ads")
}

// Logout clears the session cookie
func (h *WebHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/ads")
}
