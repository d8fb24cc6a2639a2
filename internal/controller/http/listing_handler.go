package http

import (
	"net/http"
	"strconv"

	"goodloop/internal/entity"
	"goodloop/internal/usecase"
	"goodloop/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingUseCase usecase.ListingUseCase
	logger         *logger.Logger
}

func NewListingHandler(listingUseCase usecase.ListingUseCase, logger *logger.Logger) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
		logger:         logger,
	}
}

// ListListings godoc
// @Summary      Browse available listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of listings"
// @Param        offset query int false "Offset"
// @Param        category query string false "Category filter"
// @Success      200  {object}  map[string]interface{}
// @Router       /listings [get]
func (h *ListingHandler) ListListings(c *gin.Context) {
	limit, offset := paging(c)

	listings, err := h.listingUseCase.ListAvailable(limit, offset, c.Query("category"))
	if err != nil {
		h.logger.Error("Failed to list listings: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings, "count": len(listings)})
}

// GetListing godoc
// @Summary      Get a listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200  {object}  entity.Listing
// @Failure      404  {object}  map[string]string
// @Router       /listings/{id} [get]
func (h *ListingHandler) GetListing(c *gin.Context) {
	listing, err := h.listingUseCase.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// GetMyListings godoc
// @Summary      List own listings
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of listings"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /listings/mine [get]
func (h *ListingHandler) GetMyListings(c *gin.Context) {
	ownerID := c.GetString("user_id")
	limit, offset := paging(c)

	listings, err := h.listingUseCase.ListByOwner(ownerID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list own listings: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings, "count": len(listings)})
}

// CreateListing godoc
// @Summary      List surplus items directly
// @Description  Business actors publish claimable listings without a donation
// @Tags         listings
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "Item title"
// @Param        description formData string false "Item description"
// @Param        category formData string false "Category (clothing, other)"
// @Param        credit_cost formData int false "Credit cost"
// @Param        price_cents formData int false "Monetary price in cents"
// @Param        location formData string false "Pickup location"
// @Param        images formData file true "Item images"
// @Success      201  {object}  entity.Listing
// @Failure      400  {object}  map[string]string
// @Router       /listings [post]
func (h *ListingHandler) CreateListing(c *gin.Context) {
	businessID := c.GetString("user_id")

	creditCost, priceCents := 0, 0
	if v := c.PostForm("credit_cost"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "credit_cost must be an integer"})
			return
		}
		creditCost = parsed
	}
	if v := c.PostForm("price_cents"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price_cents must be an integer"})
			return
		}
		priceCents = parsed
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}

	input := usecase.CreateListingInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    entity.Category(c.PostForm("category")),
		CreditCost:  creditCost,
		PriceCents:  priceCents,
		Location:    c.PostForm("location"),
	}

	listing, err := h.listingUseCase.CreateBusinessListing(businessID, input, form.File["images"])
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, listing)
}

// ClaimListing godoc
// @Summary      Claim a listing
// @Description  Debits the claimant's credits and takes the listing off the market as one unit
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200  {object}  usecase.ClaimResult
// @Failure      409  {object}  usecase.ClaimResult
// @Router       /listings/{id}/claim [post]
func (h *ListingHandler) ClaimListing(c *gin.Context) {
	beneficiaryID := c.GetString("user_id")

	result, err := h.listingUseCase.Claim(beneficiaryID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if !result.Success {
		c.JSON(http.StatusConflict, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

type UpdateCreditCostRequest struct {
	CreditCost *int `json:"credit_cost" binding:"required"`
}

// UpdateListingCost godoc
// @Summary      Edit a listing's credit cost
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Param        request body UpdateCreditCostRequest true "New credit cost"
// @Success      200  {object}  map[string]string
// @Router       /admin/listings/{id}/cost [put]
func (h *ListingHandler) UpdateListingCost(c *gin.Context) {
	var req UpdateCreditCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.listingUseCase.UpdateCreditCost(c.Param("id"), *req.CreditCost); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Credit cost updated"})
}

// RemoveListingImage godoc
// @Summary      Remove an image from a listing
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Param        image_id path string true "Image ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/listings/{id}/images/{image_id} [delete]
func (h *ListingHandler) RemoveListingImage(c *gin.Context) {
	if err := h.listingUseCase.RemoveImage(c.Param("id"), c.Param("image_id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image removed"})
}

// RestoreListing godoc
// @Summary      Restore a claimed listing's availability
// @Description  Administrative correction of the one-way availability flip
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/listings/{id}/restore [post]
func (h *ListingHandler) RestoreListing(c *gin.Context) {
	adminID := c.GetString("user_id")

	if err := h.listingUseCase.RestoreAvailability(c.Param("id"), adminID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing restored"})
}

// DeleteListing godoc
// @Summary      Delete a listing
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/listings/{id} [delete]
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	if err := h.listingUseCase.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}
