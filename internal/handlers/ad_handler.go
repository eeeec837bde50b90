package handlers

import (
	"net/http"
	"strconv"

	"github.com/hamidullaorifov/EffectiveMobileTask/internal/listing"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/middleware"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/models"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/policy"
	"github.com/hamidullaorifov/EffectiveMobileTask/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// AdHandler handles ad-related HTTP requests
type AdHandler struct {
	adRepository repositories.AdRepository
}

// NewAdHandler creates a new AdHandler
func NewAdHandler(adRepo repositories.AdRepository) *AdHandler {
	return &AdHandler{adRepository: adRepo}
}

// RegisterAdRoutes registers ad routes. Reads are public; mutations
// require authentication.
func (h *AdHandler) RegisterAdRoutes(public, protected *echo.Group) {
	public.GET("/ads", h.ListAds)
	public.GET("/ads/:id", h.GetAd)
	protected.POST("/ads", h.CreateAd)
	protected.PUT("/ads/:id", h.UpdateAd)
	protected.PATCH("/ads/:id", h.UpdateAd)
	protected.DELETE("/ads/:id", h.DeleteAd)
}

// queryID parses a numeric id query parameter. An absent parameter is
// zero; a malformed one is a bad request.
func queryID(c echo.Context, name string) (uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name+" value")
	}
	return uint(id), nil
}

// adFilterFromQuery builds the ad filter from request query parameters.
func adFilterFromQuery(c echo.Context) (listing.AdFilter, error) {
	userID, err := queryID(c, "user")
	if err != nil {
		return listing.AdFilter{}, err
	}
	return listing.AdFilter{
		Category:  c.QueryParam("category"),
		Condition: c.QueryParam("condition"),
		UserID:    userID,
		Search:    c.QueryParam("search"),
	}, nil
}

// ListAds returns one page of ads matching the query filters
func (h *AdHandler) ListAds(c echo.Context) error {
	filter, err := adFilterFromQuery(c)
	if err != nil {
		return err
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

	return c.JSON(http.StatusOK, listing.NewPage(ads, total, page))
}

// GetAd returns a single ad by ID
func (h *AdHandler) GetAd(c echo.Context) error {
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

	return c.JSON(http.StatusOK, ad)
}

// CreateAd creates a new ad owned by the authenticated user
func (h *AdHandler) CreateAd(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateAdRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ad := &models.Ad{
		UserID:      currentUserID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		Condition:   req.Condition,
	}

	if err := h.adRepository.CreateAd(ad); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	created, err := h.adRepository.GetAdByID(ad.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, created)
}

// UpdateAd updates an existing ad. Only the owner may modify it; nil
// request fields keep their current values, so PUT and PATCH share the
// handler.
func (h *AdHandler) UpdateAd(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid ad ID")
	}

	var req models.UpdateAdRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ad, err := h.adRepository.GetAdByID(uint(id))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Ad not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if !policy.CanModifyAd(currentUserID, ad) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not the owner of this ad")
	}

	if req.Title != nil {
		ad.Title = *req.Title
	}
	if req.Description != nil {
		ad.Description = *req.Description
	}
	if req.ImageURL != nil {
		ad.ImageURL = req.ImageURL
	}
	if req.Category != nil {
		ad.Category = *req.Category
	}
	if req.Condition != nil {
		ad.Condition = *req.Condition
	}

	if err := h.adRepository.UpdateAd(ad); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, ad)
}

// DeleteAd deletes an ad and, through the cascade, every proposal
// referencing it. Only the owner may delete.
func (h *AdHandler) DeleteAd(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

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

	if !policy.CanModifyAd(currentUserID, ad) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not the owner of this ad")
	}

	if err := h.adRepository.DeleteAd(ad.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}
