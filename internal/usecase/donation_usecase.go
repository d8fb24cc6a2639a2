package usecase

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"goodloop/internal/entity"
	"goodloop/internal/repo/persistent"
	"goodloop/pkg/classifier"
	"goodloop/pkg/logger"
	"goodloop/pkg/s3"
)

// ImageUploader is satisfied by s3.Client.
type ImageUploader interface {
	UploadFile(key string, file multipart.File, contentType string) (string, error)
	DeleteFile(key string) error
}

// ItemClassifier is satisfied by classifier.Client.
type ItemClassifier interface {
	Classify(ctx context.Context, imageURL, hint string) (*classifier.Suggestion, error)
}

type SubmitDonationInput struct {
	Title       string
	Description string
	Category    entity.Category
	ClothType   string
	Size        string
	Color       string
	CreditValue int
}

type DonationUseCase interface {
	Submit(donorID string, input SubmitDonationInput, imageFiles []*multipart.FileHeader) (*entity.Donation, error)
	Get(donationID string) (*entity.Donation, error)
	ListByDonor(donorID string, limit, offset int) ([]*entity.Donation, error)
	ListPending(limit, offset int) ([]*entity.Donation, error)
	Approve(donationID, adminID string) (*entity.Donation, error)
	Reclassify(donationID, adminID string, newCategory entity.Category) (*entity.Donation, error)
	Reject(donationID, adminID, reason string) (*entity.Donation, error)
	Reopen(donationID, adminID string) (*entity.Donation, error)
	MarkReceived(donationID string) (*entity.Donation, error)
	EditValue(donationID string, newValue int) error
	SetAdminNote(donationID, note string) error
	RemoveImage(donationID, donorID, imageID string) error
	Delete(donationID string) error
}

type donationUseCase struct {
	donationRepo persistent.DonationRepository
	uploader     ImageUploader
	classifier   ItemClassifier
	publisher    NotificationPublisher
	logger       *logger.Logger
}

func NewDonationUseCase(
	donationRepo persistent.DonationRepository,
	uploader ImageUploader,
	itemClassifier ItemClassifier,
	publisher NotificationPublisher,
	logger *logger.Logger,
) DonationUseCase {
	return &donationUseCase{
		donationRepo: donationRepo,
		uploader:     uploader,
		classifier:   itemClassifier,
		publisher:    publisher,
		logger:       logger,
	}
}

func (uc *donationUseCase) Submit(donorID string, input SubmitDonationInput, imageFiles []*multipart.FileHeader) (*entity.Donation, error) {
	if input.Title == "" {
		return nil, entity.ValidationError("title", "is required")
	}
	if len(imageFiles) == 0 {
		return nil, entity.ValidationError("images", "at least one image is required")
	}
	if len(imageFiles) > 10 {
		return nil, entity.ValidationError("images", "maximum 10 images allowed")
	}
	if input.CreditValue < 0 {
		return nil, entity.ValidationError("credit_value", "must not be negative")
	}
	if input.Category == "" {
		input.Category = entity.CategoryOther
	}
	if !entity.ValidCategory(input.Category) {
		return nil, entity.ValidationError("category", "is not a known category")
	}

	var images []entity.DonationImage
	for i, file := range imageFiles {
		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}

		contentType := file.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}

		imageURL, err := uc.uploader.UploadFile(s3.ImageKey(donorID, file.Filename), src, contentType)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}

		images = append(images, entity.DonationImage{
			ImageURL: imageURL,
			Order:    i,
		})
	}

	donation := &entity.Donation{
		DonorID:     donorID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		ClothType:   input.ClothType,
		Size:        input.Size,
		Color:       input.Color,
		CreditValue: input.CreditValue,
		Status:      entity.StatusUploaded,
		Images:      images,
	}

	uc.applySuggestion(donation)

	if err := uc.donationRepo.Create(donation); err != nil {
		uc.logger.Error("Failed to create donation: %v", err)
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}

	return donation, nil
}

// applySuggestion asks the classifier about the first image and fills in
// attributes the donor left empty. Classifier failure is never a hard error.
func (uc *donationUseCase) applySuggestion(donation *entity.Donation) {
	if uc.classifier == nil || len(donation.Images) == 0 {
		return
	}

	suggestion, err := uc.classifier.Classify(context.Background(), donation.Images[0].ImageURL, donation.Title)
	if err != nil {
		uc.logger.Warn("Classifier unavailable for donation by %s: %v", donation.DonorID, err)
		return
	}

	if entity.ValidCategory(entity.Category(suggestion.Category)) {
		donation.Category = entity.Category(suggestion.Category)
	}
	if donation.ClothType == "" {
		donation.ClothType = suggestion.ClothType
	}
	if donation.Size == "" {
		donation.Size = suggestion.Size
	}
	if donation.Color == "" {
		donation.Color = suggestion.Color
	}
	confidence := suggestion.Confidence
	donation.AIConfidence = &confidence
}

func (uc *donationUseCase) Get(donationID string) (*entity.Donation, error) {
	return uc.donationRepo.GetByID(donationID)
}

func (uc *donationUseCase) ListByDonor(donorID string, limit, offset int) ([]*entity.Donation, error) {
	return uc.donationRepo.ListByDonor(donorID, limit, offset)
}

func (uc *donationUseCase) ListPending(limit, offset int) ([]*entity.Donation, error) {
	return uc.donationRepo.ListByStatus(entity.StatusUploaded, limit, offset)
}

func (uc *donationUseCase) Approve(donationID, adminID string) (*entity.Donation, error) {
	return uc.approve(donationID, adminID, "")
}

// Reclassify corrects the category and then performs the approve effects.
func (uc *donationUseCase) Reclassify(donationID, adminID string, newCategory entity.Category) (*entity.Donation, error) {
	if !entity.ValidCategory(newCategory) {
		return nil, entity.ValidationError("category", "is not a known category")
	}
	return uc.approve(donationID, adminID, newCategory)
}

func (uc *donationUseCase) approve(donationID, adminID string, category entity.Category) (*entity.Donation, error) {
	// Status moves and the listing insert commit together; a failure leaves
	// the donation back at uploaded so the admin can simply retry.
	donation, listing, err := uc.donationRepo.ApproveAndList(donationID, category, time.Now())
	if err != nil {
		uc.logger.Error("Failed to approve donation %s: %v", donationID, err)
		return nil, err
	}

	uc.logger.Info("Donation %s approved by admin %s, listing %s published", donationID, adminID, listing.ID)

	publishNotification(uc.publisher, uc.logger, donation.DonorID,
		entity.NotificationDonationApproved,
		"Donation approved",
		fmt.Sprintf("Your donation %q was approved and is now listed.", donation.Title),
		map[string]interface{}{
			"donation_id": donation.ID,
			"listing_id":  listing.ID,
		})

	return donation, nil
}

func (uc *donationUseCase) Reject(donationID, adminID, reason string) (*entity.Donation, error) {
	if reason == "" {
		return nil, entity.ValidationError("reason", "is required")
	}

	donation, err := uc.donationRepo.Reject(donationID, reason)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Donation %s rejected by admin %s", donationID, adminID)

	publishNotification(uc.publisher, uc.logger, donation.DonorID,
		entity.NotificationDonationRejected,
		"Donation rejected",
		fmt.Sprintf("Your donation %q was rejected: %s", donation.Title, reason),
		map[string]interface{}{
			"donation_id": donation.ID,
			"reason":      reason,
		})

	return donation, nil
}

// Reopen is the admin escape hatch: a rejected donation re-enters review at
// uploaded with its rejection reason cleared.
func (uc *donationUseCase) Reopen(donationID, adminID string) (*entity.Donation, error) {
	donation, err := uc.donationRepo.Reopen(donationID)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Donation %s reopened by admin %s", donationID, adminID)
	return donation, nil
}

func (uc *donationUseCase) MarkReceived(donationID string) (*entity.Donation, error) {
	return uc.donationRepo.MarkReceived(donationID, time.Now())
}

func (uc *donationUseCase) EditValue(donationID string, newValue int) error {
	if newValue < 0 {
		return entity.ValidationError("credit_value", "must not be negative")
	}
	return uc.donationRepo.UpdateCreditValue(donationID, newValue)
}

func (uc *donationUseCase) SetAdminNote(donationID, note string) error {
	return uc.donationRepo.UpdateAdminNote(donationID, note)
}

// RemoveImage lets the owning donor drop an image while the donation is
// still under review.
func (uc *donationUseCase) RemoveImage(donationID, donorID, imageID string) error {
	donation, err := uc.donationRepo.GetByID(donationID)
	if err != nil {
		return err
	}
	if donation.DonorID != donorID {
		return entity.ErrForbidden
	}
	if donation.Status != entity.StatusUploaded {
		return entity.GuardError(donation.Status, "remove image from")
	}
	if len(donation.Images) <= 1 {
		return entity.ValidationError("images", "must keep at least one image")
	}
	return uc.donationRepo.RemoveImage(donationID, imageID)
}

func (uc *donationUseCase) Delete(donationID string) error {
	return uc.donationRepo.Delete(donationID)
}
