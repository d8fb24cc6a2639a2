package usecase

import (
	"errors"
	"fmt"
	"mime/multipart"

	"goodloop/internal/entity"
	"goodloop/internal/repo/persistent"
	"goodloop/pkg/logger"
	"goodloop/pkg/s3"
)

type CreateListingInput struct {
	Title       string
	Description string
	Category    entity.Category
	CreditCost  int
	PriceCents  int
	Location    string
}

type ClaimResult struct {
	Success bool            `json:"success"`
	Reason  string          `json:"reason,omitempty"`
	Listing *entity.Listing `json:"listing,omitempty"`
}

const (
	ClaimReasonNotAvailable        = "not_available"
	ClaimReasonInsufficientCredits = "insufficient_credits"
)

type ListingUseCase interface {
	CreateBusinessListing(businessID string, input CreateListingInput, imageFiles []*multipart.FileHeader) (*entity.Listing, error)
	Get(listingID string) (*entity.Listing, error)
	ListAvailable(limit, offset int, category string) ([]*entity.Listing, error)
	ListByOwner(ownerID string, limit, offset int) ([]*entity.Listing, error)
	Claim(beneficiaryID, listingID string) (*ClaimResult, error)
	UpdateCreditCost(listingID string, creditCost int) error
	RemoveImage(listingID, imageID string) error
	RestoreAvailability(listingID, adminID string) error
	Delete(listingID string) error
}

type listingUseCase struct {
	listingRepo persistent.ListingRepository
	uploader    ImageUploader
	publisher   NotificationPublisher
	logger      *logger.Logger
}

func NewListingUseCase(
	listingRepo persistent.ListingRepository,
	uploader ImageUploader,
	publisher NotificationPublisher,
	logger *logger.Logger,
) ListingUseCase {
	return &listingUseCase{
		listingRepo: listingRepo,
		uploader:    uploader,
		publisher:   publisher,
		logger:      logger,
	}
}

// CreateBusinessListing lets a business actor list surplus directly, without
// an originating donation. Business listings may carry a monetary price in
// addition to their credit cost.
func (uc *listingUseCase) CreateBusinessListing(businessID string, input CreateListingInput, imageFiles []*multipart.FileHeader) (*entity.Listing, error) {
	if input.Title == "" {
		return nil, entity.ValidationError("title", "is required")
	}
	if len(imageFiles) == 0 {
		return nil, entity.ValidationError("images", "at least one image is required")
	}
	if input.CreditCost < 0 {
		return nil, entity.ValidationError("credit_cost", "must not be negative")
	}
	if input.PriceCents < 0 {
		return nil, entity.ValidationError("price_cents", "must not be negative")
	}
	if input.Category == "" {
		input.Category = entity.CategoryOther
	}
	if !entity.ValidCategory(input.Category) {
		return nil, entity.ValidationError("category", "is not a known category")
	}

	var images []entity.ListingImage
	for i, file := range imageFiles {
		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}

		contentType := file.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}

		imageURL, err := uc.uploader.UploadFile(s3.ImageKey(businessID, file.Filename), src, contentType)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}

		images = append(images, entity.ListingImage{
			ImageURL: imageURL,
			Order:    i,
		})
	}

	listing := &entity.Listing{
		BusinessID:  businessID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		CreditCost:  input.CreditCost,
		PriceCents:  input.PriceCents,
		IsAvailable: true,
		Location:    input.Location,
		Images:      images,
	}

	if err := uc.listingRepo.Create(listing); err != nil {
		uc.logger.Error("Failed to create listing: %v", err)
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return listing, nil
}

func (uc *listingUseCase) Get(listingID string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(listingID)
}

func (uc *listingUseCase) ListAvailable(limit, offset int, category string) ([]*entity.Listing, error) {
	return uc.listingRepo.ListAvailable(limit, offset, category)
}

func (uc *listingUseCase) ListByOwner(ownerID string, limit, offset int) ([]*entity.Listing, error) {
	return uc.listingRepo.ListByOwner(ownerID, limit, offset)
}

// Claim runs the atomic claim transaction. Losing the availability race or
// the balance check are expected outcomes, reported in the result rather
// than as errors; either one leaves the listing available and the ledger
// untouched.
func (uc *listingUseCase) Claim(beneficiaryID, listingID string) (*ClaimResult, error) {
	listing, err := uc.listingRepo.Claim(listingID, beneficiaryID)
	if errors.Is(err, entity.ErrNotAvailable) || errors.Is(err, entity.ErrNotFound) {
		return &ClaimResult{Success: false, Reason: ClaimReasonNotAvailable}, nil
	}
	if errors.Is(err, entity.ErrInsufficientCredits) {
		return &ClaimResult{Success: false, Reason: ClaimReasonInsufficientCredits}, nil
	}
	if err != nil {
		uc.logger.Error("Failed to claim listing %s: %v", listingID, err)
		return nil, fmt.Errorf("failed to claim listing: %w", err)
	}

	uc.logger.Info("Listing %s claimed by %s for %d credits", listingID, beneficiaryID, listing.CreditCost)

	publishNotification(uc.publisher, uc.logger, beneficiaryID,
		entity.NotificationItemClaimed,
		"Item claimed",
		fmt.Sprintf("You claimed %q for %d credits.", listing.Title, listing.CreditCost),
		map[string]interface{}{"listing_id": listing.ID})

	if owner := listing.OwnerID(); owner != "" {
		publishNotification(uc.publisher, uc.logger, owner,
			entity.NotificationItemClaimed,
			"Your item was claimed",
			fmt.Sprintf("Your item %q was claimed.", listing.Title),
			map[string]interface{}{"listing_id": listing.ID})
	}

	return &ClaimResult{Success: true, Listing: listing}, nil
}

func (uc *listingUseCase) UpdateCreditCost(listingID string, creditCost int) error {
	if creditCost < 0 {
		return entity.ValidationError("credit_cost", "must not be negative")
	}
	return uc.listingRepo.UpdateCreditCost(listingID, creditCost)
}

func (uc *listingUseCase) RemoveImage(listingID, imageID string) error {
	return uc.listingRepo.RemoveImage(listingID, imageID)
}

func (uc *listingUseCase) RestoreAvailability(listingID, adminID string) error {
	if err := uc.listingRepo.RestoreAvailability(listingID); err != nil {
		return err
	}
	uc.logger.Info("Listing %s availability restored by admin %s", listingID, adminID)
	return nil
}

func (uc *listingUseCase) Delete(listingID string) error {
	return uc.listingRepo.Delete(listingID)
}
