package http

import (
	"net/http"
	"strconv"

	"goodloop/internal/entity"
	"goodloop/internal/usecase"
	"goodloop/pkg/logger"

	"github.com/gin-gonic/gin"
)

type DonationHandler struct {
	donationUseCase usecase.DonationUseCase
	logger          *logger.Logger
}

func NewDonationHandler(donationUseCase usecase.DonationUseCase, logger *logger.Logger) *DonationHandler {
	return &DonationHandler{
		donationUseCase: donationUseCase,
		logger:          logger,
	}
}

// SubmitDonation godoc
// @Summary      Submit a donation
// @Description  Submit a new item donation with one or more images
// @Tags         donations
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string true "Item title"
// @Param        description formData string false "Item description"
// @Param        category formData string false "Category (clothing, other)"
// @Param        credit_value formData int false "Credit value"
// @Param        images formData file true "Item images"
// @Success      201  {object}  entity.Donation
// @Failure      400  {object}  map[string]string
// @Router       /donations [post]
func (h *DonationHandler) SubmitDonation(c *gin.Context) {
	donorID := c.GetString("user_id")

	creditValue := 0
	if v := c.PostForm("credit_value"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "credit_value must be an integer"})
			return
		}
		creditValue = parsed
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}

	input := usecase.SubmitDonationInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    entity.Category(c.PostForm("category")),
		ClothType:   c.PostForm("cloth_type"),
		Size:        c.PostForm("size"),
		Color:       c.PostForm("color"),
		CreditValue: creditValue,
	}

	donation, err := h.donationUseCase.Submit(donorID, input, form.File["images"])
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, donation)
}

// GetDonation godoc
// @Summary      Get a donation
// @Tags         donations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Donation ID"
// @Success      200  {object}  entity.Donation
// @Failure      404  {object}  map[string]string
// @Router       /donations/{id} [get]
func (h *DonationHandler) GetDonation(c *gin.Context) {
	donation, err := h.donationUseCase.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, donation)
}

// GetMyDonations godoc
// @Summary      List own donations
// @Tags         donations
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of donations"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /donations/mine [get]
func (h *DonationHandler) GetMyDonations(c *gin.Context) {
	donorID := c.GetString("user_id")
	limit, offset := paging(c)

	donations, err := h.donationUseCase.ListByDonor(donorID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list donations: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"donations": donations, "count": len(donations)})
}

// GetPendingDonations godoc
// @Summary      List donations pending review
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of donations"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /admin/donations/pending [get]
func (h *DonationHandler) GetPendingDonations(c *gin.Context) {
	limit, offset := paging(c)

	donations, err := h.donationUseCase.ListPending(limit, offset)
	if err != nil {
		h.logger.Error("Failed to list pending donations: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"donations": donations, "count": len(donations)})
}

// ApproveDonation godoc
// @Summary      Approve a donation
// @Description  Verify an uploaded donation and publish its listing
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Donation ID"
// @Success      200  {object}  entity.Donation
// @Failure      409  {object}  map[string]string
// @Router       /admin/donations/{id}/approve [post]
func (h *DonationHandler) ApproveDonation(c *gin.Context) {
	adminID := c.GetString("user_id")

	donation, err := h.donationUseCase.Approve(c.Param("id"), adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, donation)
}

type ReclassifyRequest struct {
	Category string `json:"category" binding:"required"`
}

// ReclassifyDonation godoc
// @Summary      Reclassify and approve a donation
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Donation ID"
// @Param        request body ReclassifyRequest true "Corrected category"
// @Success      200  {object}  entity.Donation
// @Router       /admin/donations/{id}/reclassify [post]
func (h *DonationHandler) ReclassifyDonation(c *gin.Context) {
	adminID := c.GetString("user_id")

	var req ReclassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	donation, err := h.donationUseCase.Reclassify(c.Param("id"), adminID, entity.Category(req.Category))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, donation)
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RejectDonation godoc
// @Summary      Reject a donation
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Donation ID"
// @Param        request body RejectRequest true "Rejection reason"
// @Success      200  {object}  entity.Donation
// @Router       /admin/donations/{id}/reject [post]
func (h *DonationHandler) RejectDonation(c *gin.Context) {
	adminID := c.GetString("user_id")

	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	donation, err := h.donationUseCase.Reject(c.Param("id"), adminID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, donation)
}

// ReopenDonation godoc
// @Summary      Reopen a rejected donation
// @Description  Admin escape hatch: a rejected donation re-enters review
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Donation ID"
// @Success      200  {object}  entity.Donation
// @Router       /admin/donations/{id}/reopen [post]
func (h *DonationHandler) ReopenDonation(c *gin.Context) {
	adminID := c.GetString("user_id")

	donation, err := h.donationUseCase.Reopen(c.Param("id"), adminID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, donation)
}

// MarkReceived godoc
// @Summary      Confirm pickup of an allocated donation
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Donation ID"
// @Success      200  {object}  entity.Donation
// @Failure      409  {object}  map[string]string
// @Router       /admin/donations/{id}/received [post]
func (h *DonationHandler) MarkReceived(c *gin.Context) {
	donation, err := h.donationUseCase.MarkReceived(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, donation)
}

type EditValueRequest struct {
	CreditValue *int `json:"credit_value" binding:"required"`
}

// EditDonationValue godoc
// @Summary      Edit a donation's credit value
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Donation ID"
// @Param        request body EditValueRequest true "New credit value"
// @Success      200  {object}  map[string]string
// @Router       /admin/donations/{id}/value [put]
func (h *DonationHandler) EditDonationValue(c *gin.Context) {
	var req EditValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.donationUseCase.EditValue(c.Param("id"), *req.CreditValue); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Credit value updated"})
}

type AdminNoteRequest struct {
	Note string `json:"note"`
}

// SetAdminNote godoc
// @Summary      Set the admin note on a donation
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Donation ID"
// @Param        request body AdminNoteRequest true "Admin note"
// @Success      200  {object}  map[string]string
// @Router       /admin/donations/{id}/note [put]
func (h *DonationHandler) SetAdminNote(c *gin.Context) {
	var req AdminNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.donationUseCase.SetAdminNote(c.Param("id"), req.Note); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin note updated"})
}

// RemoveDonationImage godoc
// @Summary      Remove an image from an own donation under review
// @Tags         donations
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Donation ID"
// @Param        image_id path string true "Image ID"
// @Success      200  {object}  map[string]string
// @Router       /donations/{id}/images/{image_id} [delete]
func (h *DonationHandler) RemoveDonationImage(c *gin.Context) {
	donorID := c.GetString("user_id")

	if err := h.donationUseCase.RemoveImage(c.Param("id"), donorID, c.Param("image_id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image removed"})
}

// DeleteDonation godoc
// @Summary      Delete a donation
// @Description  Hard removal; a listing derived from it stays published
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Donation ID"
// @Success      200  {object}  map[string]string
// @Router       /admin/donations/{id} [delete]
func (h *DonationHandler) DeleteDonation(c *gin.Context) {
	if err := h.donationUseCase.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Donation deleted"})
}

func paging(c *gin.Context) (int, int) {
	limit := 50
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	return limit, offset
}
